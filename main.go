package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/spellcast/internal/auth"
	"github.com/robalobadob/spellcast/internal/config"
	"github.com/robalobadob/spellcast/internal/history"
	"github.com/robalobadob/spellcast/internal/httpserver"
	"github.com/robalobadob/spellcast/internal/store"
	"github.com/robalobadob/spellcast/internal/words"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if !cfg.Production {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	dict, err := words.Load(cfg.WordsFile, cfg.Game.MinWordLength)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word list")
	}
	log.Info().Int("words", dict.Len()).Msg("word list loaded")

	db, err := openDB(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mem := store.NewMemoryStore()
	go store.Maintain(ctx, mem, time.Minute, cfg.SessionIdle)

	srv := httpserver.New(httpserver.Deps{
		Sessions:     mem,
		History:      history.NewStore(db),
		Dict:         dict,
		Auth:         auth.NewIssuer(cfg.JWTSecret, cfg.JWTExpiry, cfg.Production),
		Game:         cfg.Game,
		ClientOrigin: cfg.ClientOrigin,
		DailySalt:    cfg.DailySalt,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting spellcast server")
		if err := srv.Start(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()
	<-ctx.Done()
	log.Info().Msg("shutting down")

	// Sessions flush history on Close, so they stop before the db closes.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	mem.Stop()
	if err := db.Close(); err != nil {
		log.Warn().Err(err).Msg("close database")
	}
}
