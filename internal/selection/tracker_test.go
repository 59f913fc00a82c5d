package selection

import (
	"math/rand"
	"testing"

	"github.com/robalobadob/spellcast/internal/grid"
)

func fixedGrid(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.FromRows([]string{
		"CATXE",
		"OQZRA",
		"DIGLO",
		"UMPNS",
		"EBKYW",
	})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// at returns the centre of (row, col) in normalized units.
func at(row, col int) Point {
	return Point{X: float64(col) + 0.5, Y: float64(row) + 0.5}
}

func TestLayoutHitbox(t *testing.T) {
	l := NewLayout(5, 0.8)

	cases := []struct {
		name string
		p    Point
		pos  grid.Pos
		ok   bool
	}{
		{"centre", at(2, 3), grid.Pos{Row: 2, Col: 3}, true},
		{"inside radius", Point{X: 0.5 + 0.39, Y: 0.5}, grid.Pos{Row: 0, Col: 0}, true},
		{"beyond radius", Point{X: 0.5 + 0.41, Y: 0.5}, grid.Pos{}, false},
		{"corner between cells", Point{X: 1.0, Y: 1.0}, grid.Pos{}, false},
		{"outside grid left", Point{X: -0.5, Y: 0.5}, grid.Pos{}, false},
		{"outside grid bottom", Point{X: 0.5, Y: 5.5}, grid.Pos{}, false},
	}
	for _, tc := range cases {
		pos, ok := l.CellAt(tc.p)
		if ok != tc.ok || (ok && pos != tc.pos) {
			t.Fatalf("%s: CellAt(%+v) = %v,%v want %v,%v", tc.name, tc.p, pos, ok, tc.pos, tc.ok)
		}
	}
}

func TestLayoutPixelSpace(t *testing.T) {
	l := Layout{Size: 5, Pitch: 65, OriginX: 20, OriginY: 370, HitboxScale: 0.8}
	c := l.Center(grid.Pos{Row: 1, Col: 2})
	pos, ok := l.CellAt(c)
	if !ok || pos != (grid.Pos{Row: 1, Col: 2}) {
		t.Fatalf("expected (1,2), got %v,%v", pos, ok)
	}
}

func TestBeginMissLeavesPathEmpty(t *testing.T) {
	tr := NewTracker(fixedGrid(t), NewLayout(5, 0.8))
	if tr.Begin(Point{X: 1, Y: 1}) {
		t.Fatal("expected Begin to miss")
	}
	if tr.Len() != 0 {
		t.Fatalf("expected empty path, got %v", tr.Current())
	}
}

func TestTrackerBuildsWord(t *testing.T) {
	tr := NewTracker(fixedGrid(t), NewLayout(5, 0.8))
	tr.Begin(at(0, 0))
	tr.Extend(at(0, 1))
	tr.Extend(at(0, 2))

	cur := tr.Current()
	if len(cur) != 3 || cur[0] != (grid.Cell{Row: 0, Col: 0, Letter: "C"}) {
		t.Fatalf("unexpected path %v", cur)
	}
	if w := tr.End(); w != "CAT" {
		t.Fatalf("expected CAT, got %q", w)
	}
	if tr.Len() != 0 {
		t.Fatal("End should clear the path")
	}
	if w := tr.End(); w != "" {
		t.Fatalf("expected empty word on empty path, got %q", w)
	}
}

func TestExtendIgnoresInvalidCells(t *testing.T) {
	tr := NewTracker(fixedGrid(t), NewLayout(5, 0.8))
	tr.Begin(at(0, 0))

	if tr.Extend(at(0, 2)) {
		t.Fatal("non-adjacent cell should be ignored")
	}
	if !tr.Extend(at(1, 1)) {
		t.Fatal("diagonal neighbour should be accepted")
	}
	if tr.Extend(at(0, 0)) {
		t.Fatal("repeated cell should be ignored")
	}
	if tr.Extend(at(1, 1)) {
		t.Fatal("same cell twice should be ignored")
	}
	if tr.Extend(Point{X: 1.5, Y: 2.0}) {
		t.Fatal("point between hitboxes should be ignored")
	}
	if got := tr.Word(); got != "CQ" {
		t.Fatalf("expected CQ, got %q", got)
	}
}

func TestBeginResetsPreviousGesture(t *testing.T) {
	tr := NewTracker(fixedGrid(t), NewLayout(5, 0.8))
	tr.Begin(at(0, 0))
	tr.Extend(at(0, 1))
	tr.Begin(at(4, 4))
	if got := tr.Word(); got != "W" {
		t.Fatalf("expected W, got %q", got)
	}
}

func TestCurrentIsACopy(t *testing.T) {
	tr := NewTracker(fixedGrid(t), NewLayout(5, 0.8))
	tr.Begin(at(0, 0))
	cur := tr.Current()
	cur[0].Letter = "Z"
	if tr.Word() != "C" {
		t.Fatal("Current should return a copy")
	}
}

func TestHitFunc(t *testing.T) {
	calls := 0
	hit := HitFunc(func(p Point) (grid.Pos, bool) {
		calls++
		return grid.Pos{Row: int(p.Y), Col: int(p.X)}, true
	})
	tr := NewTracker(fixedGrid(t), hit)
	tr.Begin(Point{X: 0, Y: 0})
	tr.Extend(Point{X: 9, Y: 9}) // out of bounds, rejected by the tracker
	if calls != 2 || tr.Word() != "C" {
		t.Fatalf("unexpected state calls=%d word=%q", calls, tr.Word())
	}
}

// Random sloppy gestures must never break the path invariants.
func TestPathInvariantsUnderRandomGestures(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := grid.NewGenerator(5, nil, rng).Generate()
	tr := NewTracker(g, NewLayout(5, 0.8))

	for gesture := 0; gesture < 200; gesture++ {
		tr.Begin(Point{X: rng.Float64() * 5, Y: rng.Float64() * 5})
		for i := 0; i < 40; i++ {
			tr.Extend(Point{X: rng.Float64()*6 - 0.5, Y: rng.Float64()*6 - 0.5})
		}
		path := tr.Current()
		seen := map[grid.Pos]bool{}
		for i, c := range path {
			if seen[c.Pos()] {
				t.Fatalf("duplicate cell %v in %v", c.Pos(), path)
			}
			seen[c.Pos()] = true
			if i > 0 && !path[i-1].Pos().Adjacent(c.Pos()) {
				t.Fatalf("non-adjacent step %v -> %v", path[i-1], c)
			}
			if c.Letter != g.Letter(c.Pos()) {
				t.Fatalf("letter snapshot mismatch at %v", c.Pos())
			}
		}
	}
}
