// internal/grid/grid.go
//
// Letter grid model for a single round.
// Defines:
//   - Pos:  a (row, col) coordinate.
//   - Cell: a coordinate plus the letter it held when it was read.
//   - Grid: an immutable N×N matrix of uppercase letters.
//
// Grids are never mutated after construction; a shuffle or a new round
// replaces the whole value.

package grid

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultSize is the side length of a standard board.
const DefaultSize = 5

// ErrBadLayout is returned by FromRows for malformed fixed layouts.
var ErrBadLayout = errors.New("grid: bad layout")

// Pos addresses a cell by row and column (0-based).
type Pos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Adjacent reports whether q is one of the 8 neighbours of p.
// A position is not adjacent to itself.
func (p Pos) Adjacent(q Pos) bool {
	dr, dc := absInt(p.Row-q.Row), absInt(p.Col-q.Col)
	return dr <= 1 && dc <= 1 && (dr != 0 || dc != 0)
}

// Cell is a position with a snapshot of its letter.
type Cell struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Letter string `json:"letter"`
}

// Pos returns the cell's coordinate.
func (c Cell) Pos() Pos { return Pos{Row: c.Row, Col: c.Col} }

// Grid is a square matrix of uppercase ASCII letters.
type Grid struct {
	size    int
	letters []byte // row-major, len = size*size
}

// FromRows builds a grid from fixed rows, e.g. {"CATXX", ...}.
// Rows are upper-cased; every row must have len(rows) letters A–Z.
func FromRows(rows []string) (*Grid, error) {
	n := len(rows)
	if n == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrBadLayout)
	}
	g := &Grid{size: n, letters: make([]byte, 0, n*n)}
	for i, row := range rows {
		row = strings.ToUpper(row)
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d letters, want %d", ErrBadLayout, i, len(row), n)
		}
		for j := 0; j < n; j++ {
			if !isUpper(row[j]) {
				return nil, fmt.Errorf("%w: row %d col %d is %q", ErrBadLayout, i, j, row[j])
			}
		}
		g.letters = append(g.letters, row...)
	}
	return g, nil
}

// Size returns the side length of the grid.
func (g *Grid) Size() int { return g.size }

// In reports whether p lies within the grid bounds.
func (g *Grid) In(p Pos) bool {
	return p.Row >= 0 && p.Row < g.size && p.Col >= 0 && p.Col < g.size
}

// Letter returns the letter at p. It panics when p is out of bounds.
func (g *Grid) Letter(p Pos) string {
	if !g.In(p) {
		panic(fmt.Sprintf("grid: position %v out of bounds for size %d", p, g.size))
	}
	return string(g.letters[p.Row*g.size+p.Col])
}

// Cell returns a Cell snapshot for p.
func (g *Grid) Cell(p Pos) Cell {
	return Cell{Row: p.Row, Col: p.Col, Letter: g.Letter(p)}
}

// Rows returns a copy of the grid as a matrix of one-letter strings.
func (g *Grid) Rows() [][]string {
	out := make([][]string, g.size)
	for r := 0; r < g.size; r++ {
		out[r] = make([]string, g.size)
		for c := 0; c < g.size; c++ {
			out[r][c] = string(g.letters[r*g.size+c])
		}
	}
	return out
}

// Vowels counts the vowel cells.
func (g *Grid) Vowels() int {
	n := 0
	for _, b := range g.letters {
		if isVowel(b) {
			n++
		}
	}
	return n
}

// String renders the grid one row per line.
func (g *Grid) String() string {
	var sb strings.Builder
	for r := 0; r < g.size; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		sb.Write(g.letters[r*g.size : (r+1)*g.size])
	}
	return sb.String()
}

func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }

func isVowel(b byte) bool {
	switch b {
	case 'A', 'E', 'I', 'O', 'U':
		return true
	}
	return false
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
