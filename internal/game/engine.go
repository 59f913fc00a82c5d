// internal/game/engine.go
//
// Round state machine for a single timed SpellCast round.
// Responsibilities:
//   - Phase transitions: not_started → active ⇄ paused → ended (→ active).
//   - Countdown: a one-shot 1 s tick re-armed after each tick while active.
//   - Gesture handling via a selection.Tracker bound to the current grid.
//   - Validating and scoring submissions; tracking found words.
//   - Placing and relocating the 2X multiplier cell.
//
// Notes:
//   - A Round is not safe for concurrent use. Every method and every
//     scheduled callback must run on one goroutine (see internal/session).
//   - Invalid transitions are no-ops that return false; they never error.
//   - At most one tick and one relocation task are pending at any time.

package game

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/looplab/fsm"
	"github.com/zyedidia/generic/mapset"

	"github.com/robalobadob/spellcast/internal/clock"
	"github.com/robalobadob/spellcast/internal/config"
	"github.com/robalobadob/spellcast/internal/grid"
	"github.com/robalobadob/spellcast/internal/selection"
	"github.com/robalobadob/spellcast/internal/words"
)

const (
	// TickInterval is the countdown resolution.
	TickInterval = time.Second
	// RelocateDelay leaves the consumed multiplier visible briefly before it
	// moves.
	RelocateDelay = 500 * time.Millisecond
)

// fsm events.
const (
	evStart  = "start"
	evPause  = "pause"
	evResume = "resume"
	evExpire = "expire"
)

// Dictionary validates candidate words.
type Dictionary interface {
	IsValid(word string) bool
}

// GridSource produces a fresh grid for each start and shuffle.
type GridSource interface {
	Generate() *grid.Grid
}

// Deps are the collaborators a Round needs. Only Dict is required.
type Deps struct {
	Dict      Dictionary
	Scheduler clock.Scheduler // defaults to a Manual scheduler (no real time)
	Rand      *rand.Rand      // defaults to a time-seeded source
	Grids     GridSource      // defaults to grid.NewGenerator(cfg.GridSize, nil, Rand)
	OnEnd     func(Summary)   // called once when the countdown reaches zero
}

// Round holds the state of one player's game across repeated rounds.
type Round struct {
	cfg   config.Game
	dict  Dictionary
	sched clock.Scheduler
	rng   *rand.Rand
	grids GridSource
	onEnd func(Summary)

	fsm       *fsm.FSM
	grid      *grid.Grid
	layout    selection.Layout
	tracker   *selection.Tracker
	number    int
	remaining int
	score     int
	found     []FoundWord
	foundSet  mapset.Set[string]

	multiplier *grid.Pos
	consumed   grid.Pos // multiplier position awaiting relocation

	tick            clock.Handle
	relocate        clock.Handle
	relocatePending bool
}

// New constructs a round in the not_started phase with an initial grid.
func New(cfg config.Game, deps Deps) *Round {
	r := &Round{
		cfg:      cfg,
		dict:     deps.Dict,
		sched:    deps.Scheduler,
		rng:      deps.Rand,
		grids:    deps.Grids,
		onEnd:    deps.OnEnd,
		foundSet: mapset.New[string](),
	}
	if r.sched == nil {
		r.sched = clock.NewManual()
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if r.grids == nil {
		r.grids = grid.NewGenerator(cfg.GridSize, nil, r.rng)
	}
	r.fsm = fsm.NewFSM(
		string(PhaseNotStarted),
		fsm.Events{
			{Name: evStart, Src: []string{string(PhaseNotStarted), string(PhaseEnded)}, Dst: string(PhaseActive)},
			{Name: evPause, Src: []string{string(PhaseActive)}, Dst: string(PhasePaused)},
			{Name: evResume, Src: []string{string(PhasePaused)}, Dst: string(PhaseActive)},
			{Name: evExpire, Src: []string{string(PhaseActive)}, Dst: string(PhaseEnded)},
		},
		fsm.Callbacks{},
	)
	r.remaining = cfg.RoundDurationSeconds
	r.newGrid()
	return r
}

// ----------------------------- transitions ---------------------------------

// Start begins a fresh round: new grid, empty found words, zero score, full
// clock and a new multiplier cell. Valid from not_started or ended.
func (r *Round) Start() bool {
	if !r.fire(evStart) {
		return false
	}
	r.cancelTasks()
	r.newGrid()
	r.found = nil
	r.foundSet = mapset.New[string]()
	r.score = 0
	r.remaining = r.cfg.RoundDurationSeconds
	r.number++
	r.placeMultiplier(nil)
	r.armTick()
	return true
}

// Pause freezes the clock and discards the gesture in progress.
// Valid only while active.
func (r *Round) Pause() bool {
	if !r.fire(evPause) {
		return false
	}
	cancel(&r.tick)
	if r.relocate != nil {
		cancel(&r.relocate)
		r.relocatePending = true
	}
	r.tracker.Reset()
	return true
}

// Resume restarts the clock from the frozen value. Valid only while paused.
func (r *Round) Resume() bool {
	if !r.fire(evResume) {
		return false
	}
	r.armTick()
	if r.relocatePending {
		r.armRelocate()
	}
	return true
}

// Shuffle replaces the grid and discards the gesture in progress. While
// active the multiplier also moves. Valid while active or not_started.
func (r *Round) Shuffle() bool {
	phase := r.Phase()
	if phase != PhaseActive && phase != PhaseNotStarted {
		return false
	}
	r.newGrid()
	if phase == PhaseActive {
		cancel(&r.relocate)
		r.relocatePending = false
		r.placeMultiplier(r.multiplier)
	}
	return true
}

// Stop cancels every pending task without changing the phase. Used when the
// owning session is discarded.
func (r *Round) Stop() { r.cancelTasks() }

// onTick runs once per TickInterval while active.
func (r *Round) onTick() {
	r.tick = nil
	if r.Phase() != PhaseActive {
		return
	}
	r.remaining--
	if r.remaining > 0 {
		r.armTick()
		return
	}
	r.remaining = 0
	r.fire(evExpire)
	r.cancelTasks()
	r.multiplier = nil
	r.tracker.Reset()
	if r.onEnd != nil {
		r.onEnd(Summary{
			Round:    r.number,
			Score:    r.score,
			Words:    len(r.found),
			Duration: r.cfg.RoundDurationSeconds,
		})
	}
}

// ------------------------------ gestures -----------------------------------

// BeginGesture starts a new selection at p. Valid only while active.
func (r *Round) BeginGesture(p selection.Point) bool {
	if r.Phase() != PhaseActive {
		return false
	}
	return r.tracker.Begin(p)
}

// ExtendGesture extends the selection to the cell under p, if allowed.
func (r *Round) ExtendGesture(p selection.Point) bool {
	if r.Phase() != PhaseActive {
		return false
	}
	return r.tracker.Extend(p)
}

// EndGesture finishes the selection and submits it.
func (r *Round) EndGesture() Outcome {
	cells := r.tracker.Current()
	word := r.tracker.End()
	if r.Phase() != PhaseActive {
		return Outcome{Verdict: Inactive, Word: word}
	}
	return r.Submit(cells)
}

// ----------------------------- submissions ---------------------------------

// Submit scores a selection path. The path must be a legal path on the
// current grid; it earns the multiplier when any cell is the multiplier cell.
func (r *Round) Submit(cells []grid.Cell) Outcome {
	var sb strings.Builder
	for _, c := range cells {
		sb.WriteString(c.Letter)
	}
	if r.Phase() == PhaseActive && !r.legalPath(cells) {
		return Outcome{Verdict: InvalidPath, Word: words.Normalize(sb.String())}
	}
	used := false
	if r.multiplier != nil {
		for _, c := range cells {
			if c.Pos() == *r.multiplier {
				used = true
				break
			}
		}
	}
	return r.submit(sb.String(), used, false)
}

// SubmitWord scores a typed word. The word must be traceable on the current
// grid; typed words never earn the multiplier.
func (r *Round) SubmitWord(word string) Outcome {
	return r.submit(word, false, true)
}

func (r *Round) submit(word string, usedMultiplier, mustTrace bool) Outcome {
	word = words.Normalize(word)
	out := Outcome{Word: word}
	switch {
	case r.Phase() != PhaseActive:
		out.Verdict = Inactive
	case len(word) < r.cfg.MinWordLength:
		out.Verdict = TooShort
	case !r.dict.IsValid(word):
		out.Verdict = NotAWord
	case r.foundSet.Has(word):
		out.Verdict = Duplicate
	case mustTrace && !r.traceable(word):
		out.Verdict = InvalidPath
	default:
		out.Verdict = Accepted
		out.Multiplied = usedMultiplier
		out.Points = words.ScoreWithMultiplier(word, usedMultiplier)
		r.score += out.Points
		r.found = append(r.found, FoundWord{Word: word, Points: out.Points, Multiplied: usedMultiplier})
		r.foundSet.Put(word)
		if usedMultiplier {
			r.consumed = *r.multiplier
			r.armRelocate()
		}
	}
	return out
}

// legalPath checks adjacency, uniqueness and letters against the grid.
func (r *Round) legalPath(cells []grid.Cell) bool {
	seen := make(map[grid.Pos]struct{}, len(cells))
	for i, c := range cells {
		p := c.Pos()
		if !r.grid.In(p) || r.grid.Letter(p) != strings.ToUpper(c.Letter) {
			return false
		}
		if _, dup := seen[p]; dup {
			return false
		}
		seen[p] = struct{}{}
		if i > 0 && !cells[i-1].Pos().Adjacent(p) {
			return false
		}
	}
	return true
}

// traceable reports whether word can be spelled by an adjacent, no-repeat
// path on the current grid. word must be uppercase.
func (r *Round) traceable(word string) bool {
	if word == "" {
		return false
	}
	n := r.grid.Size()
	used := make(map[grid.Pos]bool, len(word))
	var walk func(p grid.Pos, i int) bool
	walk = func(p grid.Pos, i int) bool {
		if used[p] || r.grid.Letter(p) != word[i:i+1] {
			return false
		}
		if i == len(word)-1 {
			return true
		}
		used[p] = true
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				q := grid.Pos{Row: p.Row + dr, Col: p.Col + dc}
				if p.Adjacent(q) && r.grid.In(q) && walk(q, i+1) {
					return true
				}
			}
		}
		used[p] = false
		return false
	}
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			if walk(grid.Pos{Row: row, Col: col}, 0) {
				return true
			}
		}
	}
	return false
}

// ------------------------------- queries -----------------------------------

// Phase returns the current phase.
func (r *Round) Phase() Phase { return Phase(r.fsm.Current()) }

// Remaining returns the seconds left on the clock.
func (r *Round) Remaining() int { return r.remaining }

// Score returns the accumulated score.
func (r *Round) Score() int { return r.score }

// Number returns how many rounds have been started.
func (r *Round) Number() int { return r.number }

// Grid returns the current grid.
func (r *Round) Grid() *grid.Grid { return r.grid }

// Path returns a copy of the gesture in progress.
func (r *Round) Path() []grid.Cell { return r.tracker.Current() }

// Multiplier returns the multiplier cell, if any.
func (r *Round) Multiplier() (grid.Pos, bool) {
	if r.multiplier == nil {
		return grid.Pos{}, false
	}
	return *r.multiplier, true
}

// Found returns the accepted words in the order they were found.
func (r *Round) Found() []string {
	out := make([]string, len(r.found))
	for i, f := range r.found {
		out[i] = f.Word
	}
	return out
}

// Snapshot returns a read-only copy of the round.
func (r *Round) Snapshot() Snapshot {
	path := r.tracker.Current()
	s := Snapshot{
		Phase:     r.Phase(),
		Round:     r.number,
		Remaining: r.remaining,
		Clock:     FormatClock(r.remaining),
		Duration:  r.cfg.RoundDurationSeconds,
		Score:     r.score,
		Grid:      r.grid.Rows(),
		Path:      path,
		Word:      r.tracker.Word(),
		Found:     append([]FoundWord(nil), r.found...),
	}
	if r.multiplier != nil {
		m := *r.multiplier
		s.Multiplier = &m
		for _, c := range path {
			if c.Pos() == m {
				s.PathMultiplied = true
				break
			}
		}
	}
	return s
}

// ------------------------------- internals ---------------------------------

func (r *Round) fire(event string) bool {
	if !r.fsm.Can(event) {
		return false
	}
	return r.fsm.Event(context.Background(), event) == nil
}

func (r *Round) newGrid() {
	r.grid = r.grids.Generate()
	r.layout = selection.NewLayout(r.grid.Size(), r.cfg.HitboxScale)
	r.tracker = selection.NewTracker(r.grid, r.layout)
}

// placeMultiplier picks a random cell, avoiding *avoid when possible.
func (r *Round) placeMultiplier(avoid *grid.Pos) {
	n := r.grid.Size()
	cells := n * n
	var idx int
	if avoid != nil && cells > 1 && r.grid.In(*avoid) {
		skip := avoid.Row*n + avoid.Col
		if idx = r.rng.Intn(cells - 1); idx >= skip {
			idx++
		}
	} else {
		idx = r.rng.Intn(cells)
	}
	r.multiplier = &grid.Pos{Row: idx / n, Col: idx % n}
}

func (r *Round) armTick() {
	cancel(&r.tick)
	r.tick = r.sched.AfterFunc(TickInterval, r.onTick)
}

func (r *Round) armRelocate() {
	cancel(&r.relocate)
	r.relocatePending = true
	r.relocate = r.sched.AfterFunc(RelocateDelay, func() {
		r.relocate = nil
		r.relocatePending = false
		if r.Phase() == PhaseActive {
			consumed := r.consumed
			r.placeMultiplier(&consumed)
		}
	})
}

func (r *Round) cancelTasks() {
	cancel(&r.tick)
	cancel(&r.relocate)
	r.relocatePending = false
}

func cancel(h *clock.Handle) {
	if *h != nil {
		(*h).Cancel()
		*h = nil
	}
}
