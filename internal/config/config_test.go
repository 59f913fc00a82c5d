package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "GRID_SIZE", "ROUND_DURATION_SECONDS", "MIN_WORD_LENGTH", "HITBOX_SCALE", "JWT_EXPIRES_DAYS", "SESSION_IDLE_MINUTES"} {
		t.Setenv(k, "")
	}
	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Game != DefaultGame() {
		t.Fatalf("expected default game options, got %+v", c.Game)
	}
	if c.Port != "5175" || c.JWTExpiry != 14*24*time.Hour || c.SessionIdle != 30*time.Minute {
		t.Fatalf("unexpected defaults %+v", c)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GRID_SIZE", "6")
	t.Setenv("ROUND_DURATION_SECONDS", "90")
	t.Setenv("MIN_WORD_LENGTH", "4")
	t.Setenv("HITBOX_SCALE", "0.5")
	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Game{GridSize: 6, RoundDurationSeconds: 90, MinWordLength: 4, HitboxScale: 0.5}
	if c.Game != want {
		t.Fatalf("expected %+v, got %+v", want, c.Game)
	}
}

func TestLoadRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"GRID_SIZE":              "five",
		"ROUND_DURATION_SECONDS": "-1",
		"HITBOX_SCALE":           "1.5",
		"MIN_WORD_LENGTH":        "0",
		"SESSION_IDLE_MINUTES":   "-5",
		"JWT_EXPIRES_DAYS":       "0",
	}
	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv(k, v)
			if _, err := Load(); !errors.Is(err, ErrInvalid) {
				t.Fatalf("%s=%s: expected ErrInvalid, got %v", k, v, err)
			}
		})
	}
}

func TestLoadRejectsZeroIdle(t *testing.T) {
	t.Setenv("SESSION_IDLE_MINUTES", "0")
	if _, err := Load(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for a zero idle timeout, got %v", err)
	}
}
