// internal/game/types.go
//
// Value types exposed by the round state machine.
// Defines:
//   - Phase:    not_started / active / paused / ended.
//   - Verdict:  result of a word submission.
//   - Outcome:  verdict plus word, points and multiplier use.
//   - Snapshot: read-only view handed to the presentation layer.

package game

import (
	"fmt"

	"github.com/robalobadob/spellcast/internal/grid"
)

// Phase is the coarse round state.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseActive     Phase = "active"
	PhasePaused     Phase = "paused"
	PhaseEnded      Phase = "ended"
)

// Verdict classifies a submission.
type Verdict string

const (
	Accepted    Verdict = "accepted"
	TooShort    Verdict = "too_short"
	NotAWord    Verdict = "not_a_word"
	Duplicate   Verdict = "duplicate"
	InvalidPath Verdict = "invalid_path"
	Inactive    Verdict = "inactive"
)

// Outcome is the result of a submission. Points is 0 unless accepted.
type Outcome struct {
	Verdict    Verdict `json:"verdict"`
	Word       string  `json:"word"`
	Points     int     `json:"points"`
	Multiplied bool    `json:"multiplied"`
}

// FoundWord is an accepted word and what it earned.
type FoundWord struct {
	Word       string `json:"word"`
	Points     int    `json:"points"`
	Multiplied bool   `json:"multiplied"`
}

// Summary is reported when a round runs out of time.
type Summary struct {
	Round    int `json:"round"`
	Score    int `json:"score"`
	Words    int `json:"words"`
	Duration int `json:"duration"`
}

// Snapshot is a copy of everything the presentation layer renders.
type Snapshot struct {
	Phase          Phase       `json:"phase"`
	Round          int         `json:"round"`
	Remaining      int         `json:"remaining"`
	Clock          string      `json:"clock"`
	Duration       int         `json:"duration"`
	Score          int         `json:"score"`
	Grid           [][]string  `json:"grid"`
	Path           []grid.Cell `json:"path"`
	Word           string      `json:"word"`
	PathMultiplied bool        `json:"pathMultiplied"`
	Found          []FoundWord `json:"found"`
	Multiplier     *grid.Pos   `json:"multiplier,omitempty"`
}

// FormatClock renders seconds as M:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
