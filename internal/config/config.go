// internal/config/config.go
//
// Environment-driven configuration.
//
// Game options (all optional):
//   GRID_SIZE=5                side length of the board
//   ROUND_DURATION_SECONDS=60  countdown length
//   MIN_WORD_LENGTH=3          shortest scoring word
//   HITBOX_SCALE=0.8           fraction of a cell that registers a touch, (0,1]
//
// Server settings:
//   PORT, LOG_LEVEL, DB_PATH, WORDS_FILE, JWT_SECRET, JWT_EXPIRES_DAYS,
//   CLIENT_ORIGIN, DAILY_SALT, SESSION_IDLE_MINUTES
//
// `.env` files are loaded by main (godotenv) before Load is called.

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ErrInvalid wraps every malformed setting.
var ErrInvalid = errors.New("config: invalid value")

// Game holds the options a round is parameterized by.
type Game struct {
	GridSize             int     `json:"gridSize"`
	RoundDurationSeconds int     `json:"roundDurationSeconds"`
	MinWordLength        int     `json:"minWordLength"`
	HitboxScale          float64 `json:"hitboxScale"`
}

// DefaultGame returns the standard 5×5, 60 s, min-3, 0.8 hitbox options.
func DefaultGame() Game {
	return Game{
		GridSize:             5,
		RoundDurationSeconds: 60,
		MinWordLength:        3,
		HitboxScale:          0.8,
	}
}

// Validate checks ranges.
func (g Game) Validate() error {
	switch {
	case g.GridSize < 2 || g.GridSize > 12:
		return fmt.Errorf("%w: grid size %d not in [2,12]", ErrInvalid, g.GridSize)
	case g.RoundDurationSeconds <= 0:
		return fmt.Errorf("%w: round duration %d", ErrInvalid, g.RoundDurationSeconds)
	case g.MinWordLength < 1:
		return fmt.Errorf("%w: min word length %d", ErrInvalid, g.MinWordLength)
	case g.HitboxScale <= 0 || g.HitboxScale > 1:
		return fmt.Errorf("%w: hitbox scale %v not in (0,1]", ErrInvalid, g.HitboxScale)
	}
	return nil
}

// Config is the full server configuration.
type Config struct {
	Port         string
	LogLevel     string
	DBPath       string
	WordsFile    string
	JWTSecret    string
	JWTExpiry    time.Duration
	ClientOrigin string
	DailySalt    string
	SessionIdle  time.Duration
	Production   bool
	Game         Game
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	c := Config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DBPath:       getEnv("DB_PATH", "./data/spellcast.db"),
		WordsFile:    os.Getenv("WORDS_FILE"),
		JWTSecret:    getEnv("JWT_SECRET", "dev_secret_change_me"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		DailySalt:    getEnv("DAILY_SALT", "spellcast-daily"),
		Production:   os.Getenv("NODE_ENV") == "production",
		Game:         DefaultGame(),
	}

	days, err := envPositive("JWT_EXPIRES_DAYS", 14)
	if err != nil {
		return c, err
	}
	c.JWTExpiry = time.Duration(days) * 24 * time.Hour

	idle, err := envPositive("SESSION_IDLE_MINUTES", 30)
	if err != nil {
		return c, err
	}
	c.SessionIdle = time.Duration(idle) * time.Minute

	if c.Game.GridSize, err = envInt("GRID_SIZE", c.Game.GridSize); err != nil {
		return c, err
	}
	if c.Game.RoundDurationSeconds, err = envInt("ROUND_DURATION_SECONDS", c.Game.RoundDurationSeconds); err != nil {
		return c, err
	}
	if c.Game.MinWordLength, err = envInt("MIN_WORD_LENGTH", c.Game.MinWordLength); err != nil {
		return c, err
	}
	if c.Game.HitboxScale, err = envFloat("HITBOX_SCALE", c.Game.HitboxScale); err != nil {
		return c, err
	}
	return c, c.Game.Validate()
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%w: %s=%q", ErrInvalid, k, v)
	}
	return n, nil
}

// envPositive is envInt for settings that must be > 0.
func envPositive(k string, def int) (int, error) {
	n, err := envInt(k, def)
	if err != nil {
		return def, err
	}
	if n <= 0 {
		return def, fmt.Errorf("%w: %s=%d must be positive", ErrInvalid, k, n)
	}
	return n, nil
}

func envFloat(k string, def float64) (float64, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, fmt.Errorf("%w: %s=%q", ErrInvalid, k, v)
	}
	return f, nil
}
