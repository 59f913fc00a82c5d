package selection

import (
	"math"

	"github.com/robalobadob/spellcast/internal/grid"
)

// DefaultHitboxScale shrinks each hitbox to 80% of the cell so diagonal
// swipes do not clip a neighbour.
const DefaultHitboxScale = 0.8

// Point is a pointer sample. In the default layout it is in grid units:
// cell (r, c) spans [c, c+1) × [r, r+1).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// HitFunc adapts a plain function to HitTester.
type HitFunc func(p Point) (grid.Pos, bool)

// CellAt calls f(p).
func (f HitFunc) CellAt(p Point) (grid.Pos, bool) { return f(p) }

// Layout is a square-cell HitTester. A point hits a cell when it lies
// strictly within HitboxScale×Pitch/2 of the cell centre.
type Layout struct {
	Size        int
	Pitch       float64 // distance between adjacent cell centres
	OriginX     float64 // left edge of column 0
	OriginY     float64 // top edge of row 0
	HitboxScale float64
}

// NewLayout returns a layout in normalized grid units.
func NewLayout(size int, hitboxScale float64) Layout {
	if hitboxScale <= 0 || hitboxScale > 1 {
		hitboxScale = DefaultHitboxScale
	}
	return Layout{Size: size, Pitch: 1, HitboxScale: hitboxScale}
}

// Radius is the hitbox radius.
func (l Layout) Radius() float64 { return l.HitboxScale * l.Pitch / 2 }

// Center returns the centre of the cell at p.
func (l Layout) Center(p grid.Pos) Point {
	return Point{
		X: l.OriginX + (float64(p.Col)+0.5)*l.Pitch,
		Y: l.OriginY + (float64(p.Row)+0.5)*l.Pitch,
	}
}

// CellAt implements HitTester. With square cells the nearest centre is the
// one of the cell containing the point, so only that cell is checked.
func (l Layout) CellAt(p Point) (grid.Pos, bool) {
	if l.Pitch <= 0 {
		return grid.Pos{}, false
	}
	col := int(math.Floor((p.X - l.OriginX) / l.Pitch))
	row := int(math.Floor((p.Y - l.OriginY) / l.Pitch))
	if row < 0 || row >= l.Size || col < 0 || col >= l.Size {
		return grid.Pos{}, false
	}
	pos := grid.Pos{Row: row, Col: col}
	c := l.Center(pos)
	if math.Hypot(p.X-c.X, p.Y-c.Y) >= l.Radius() {
		return grid.Pos{}, false
	}
	return pos, true
}
