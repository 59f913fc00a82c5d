// Package selection turns a pointer gesture into an ordered path of grid
// cells.
//
// Hit testing (which cell is under a point) is separate from the path rules
// (adjacency, no repeats). The tracker enforces the rules and delegates hit
// testing to a HitTester, so it can be driven without any display.
package selection

import (
	"strings"

	"github.com/zyedidia/generic/mapset"

	"github.com/robalobadob/spellcast/internal/grid"
)

// HitTester resolves a point to the grid cell under it, if any.
type HitTester interface {
	CellAt(p Point) (grid.Pos, bool)
}

// Tracker accumulates the path of the gesture in progress.
// It is bound to one grid; build a new one when the grid changes.
type Tracker struct {
	grid *grid.Grid
	hit  HitTester
	path []grid.Cell
	seen mapset.Set[grid.Pos]
}

// NewTracker binds a tracker to g using hit for point resolution.
func NewTracker(g *grid.Grid, hit HitTester) *Tracker {
	return &Tracker{grid: g, hit: hit, seen: mapset.New[grid.Pos]()}
}

// Begin starts a new gesture at p. The previous path is discarded; the new
// one is empty when p misses every hitbox.
func (t *Tracker) Begin(p Point) bool {
	t.Reset()
	pos, ok := t.resolve(p)
	if !ok {
		return false
	}
	t.push(pos)
	return true
}

// Extend appends the cell under p when it is adjacent to the last cell and
// not already in the path. Anything else is ignored.
func (t *Tracker) Extend(p Point) bool {
	pos, ok := t.resolve(p)
	if !ok || t.seen.Has(pos) {
		return false
	}
	if n := len(t.path); n > 0 && !t.path[n-1].Pos().Adjacent(pos) {
		return false
	}
	t.push(pos)
	return true
}

// Current returns a copy of the path.
func (t *Tracker) Current() []grid.Cell {
	out := make([]grid.Cell, len(t.path))
	copy(out, t.path)
	return out
}

// Word returns the letters of the current path.
func (t *Tracker) Word() string {
	var sb strings.Builder
	for _, c := range t.path {
		sb.WriteString(c.Letter)
	}
	return sb.String()
}

// End finishes the gesture, returning its word and clearing the path.
func (t *Tracker) End() string {
	w := t.Word()
	t.Reset()
	return w
}

// Reset clears the path.
func (t *Tracker) Reset() {
	t.path = t.path[:0]
	t.seen = mapset.New[grid.Pos]()
}

// Len returns the number of cells in the path.
func (t *Tracker) Len() int { return len(t.path) }

func (t *Tracker) resolve(p Point) (grid.Pos, bool) {
	pos, ok := t.hit.CellAt(p)
	if !ok || !t.grid.In(pos) {
		return grid.Pos{}, false
	}
	return pos, true
}

func (t *Tracker) push(pos grid.Pos) {
	t.path = append(t.path, t.grid.Cell(pos))
	t.seen.Put(pos)
}
