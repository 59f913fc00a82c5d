// internal/history/store.go
//
// Round history persisted in SQLite.
// Responsibilities:
//   - Recording one row per finished round (player, game, mode, counts).
//   - Aggregating per-player stats for /stats/me.
//
// There is no cross-player query; the daily leaderboard is out of scope.

package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Result is a single finished round.
type Result struct {
	PlayerID   string    `json:"playerId"`
	GameID     string    `json:"gameId"`
	Mode       string    `json:"mode"`
	Score      int       `json:"score"`
	Words      int       `json:"words"`
	DurationS  int       `json:"durationS"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Stats aggregates every round a player has finished.
type Stats struct {
	Rounds     int        `json:"rounds"`
	Best       int        `json:"best"`
	TotalWords int        `json:"totalWords"`
	LastPlayed *time.Time `json:"lastPlayed,omitempty"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Record inserts r. A zero FinishedAt is stamped with the current time.
func (s *Store) Record(ctx context.Context, r Result) error {
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now()
	}
	if r.Mode == "" {
		r.Mode = "normal"
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO rounds
            (player_id, game_id, mode, score, words, duration_s, finished_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.PlayerID, r.GameID, r.Mode, r.Score, r.Words, r.DurationS, r.FinishedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record round: %w", err)
	}
	return nil
}

// Stats returns the aggregate for playerID; unknown players get zero values.
func (s *Store) Stats(ctx context.Context, playerID string) (Stats, error) {
	var (
		st   Stats
		last sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, `
        SELECT COUNT(1), COALESCE(MAX(score), 0), COALESCE(SUM(words), 0), MAX(finished_at)
        FROM rounds
        WHERE player_id=?`, playerID,
	).Scan(&st.Rounds, &st.Best, &st.TotalWords, &last)
	if err != nil {
		return Stats{}, fmt.Errorf("query stats: %w", err)
	}
	if last.Valid {
		t := time.UnixMilli(last.Int64).UTC()
		st.LastPlayed = &t
	}
	return st, nil
}
