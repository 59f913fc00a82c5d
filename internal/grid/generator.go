// internal/grid/generator.go
//
// Weighted, seeded grid generation.
//
// Algorithm (Generate):
//   1. Start with every cell empty.
//   2. Pick 3–5 seed words at random and try to lay each one along a random
//      direction (→, ↓, ↘, ↗) from a random start, up to 50 attempts per word.
//      Words that do not fit are skipped.
//   3. Top up vowels until the minimum vowel count is reached.
//   4. Fill the rest: 30% weighted vowel, 70% weighted consonant.
//
// The random source is injected so boards are reproducible in tests and in
// daily mode.

package grid

import (
	"math/rand"
)

const (
	maxPlacementAttempts = 50
	minSeedWords         = 3
	maxSeedWords         = 5
	vowelFillPercent     = 30
)

// SeedWords is the fixed list of words the generator tries to embed.
var SeedWords = []string{
	"QUEST", "JAZZ", "ZONE", "FIRE", "DREAM",
	"MAGIC", "STORM", "POWER", "SWORD", "LIGHT",
}

// weighted is a letter pool with cumulative-weight selection.
type weighted struct {
	letters []byte
	weights []int
	total   int
}

func newWeighted(letters string) weighted {
	w := weighted{letters: []byte(letters)}
	for i := 0; i < len(letters); i++ {
		lw := letterWeights[letters[i]]
		w.weights = append(w.weights, lw)
		w.total += lw
	}
	return w
}

func (w weighted) pick(rng *rand.Rand) byte {
	n := rng.Intn(w.total)
	for i, lw := range w.weights {
		n -= lw
		if n < 0 {
			return w.letters[i]
		}
	}
	return w.letters[len(w.letters)-1]
}

// letterWeights: very common 4, common 3, rare 2.
var letterWeights = map[byte]int{
	'E': 4, 'T': 4, 'A': 4, 'O': 4, 'I': 4, 'N': 4, 'S': 4, 'H': 4, 'R': 4,
	'D': 3, 'L': 3, 'C': 3, 'U': 3, 'M': 3, 'W': 3, 'F': 3, 'G': 3, 'Y': 3, 'P': 3, 'B': 3,
	'V': 2, 'K': 2, 'J': 2, 'X': 2, 'Q': 2, 'Z': 2,
}

var (
	vowelPool     = newWeighted("AEIOU")
	consonantPool = newWeighted("BCDFGHJKLMNPQRSTVWXYZ")
)

// direction is a unit step used when laying a seed word.
type direction struct{ dr, dc int }

var directions = [...]direction{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal down-right
	{-1, 1}, // diagonal up-right
}

// Generator builds random grids of a fixed size.
type Generator struct {
	size  int
	seeds []string
	rng   *rand.Rand
}

// NewGenerator returns a generator for size×size grids drawing from rng.
// A nil seeds slice means SeedWords.
func NewGenerator(size int, seeds []string, rng *rand.Rand) *Generator {
	if size <= 0 {
		size = DefaultSize
	}
	if seeds == nil {
		seeds = SeedWords
	}
	return &Generator{size: size, seeds: seeds, rng: rng}
}

// Size returns the side length of generated grids.
func (gen *Generator) Size() int { return gen.size }

// MinVowels is the guaranteed vowel count: 8 on a 5×5 board, scaled by area.
func MinVowels(size int) int {
	return (8*size*size + 24) / 25
}

// Generate builds a new, fully populated grid.
func (gen *Generator) Generate() *Grid {
	n := gen.size
	cells := make([]byte, n*n) // 0 = empty

	gen.placeSeeds(cells)

	vowels := 0
	for _, b := range cells {
		if isVowel(b) {
			vowels++
		}
	}
	for want := MinVowels(n); vowels < want; vowels++ {
		i := gen.pickVowelSlot(cells)
		cells[i] = vowelPool.pick(gen.rng)
	}

	for i, b := range cells {
		if b != 0 {
			continue
		}
		if gen.rng.Intn(100) < vowelFillPercent {
			cells[i] = vowelPool.pick(gen.rng)
		} else {
			cells[i] = consonantPool.pick(gen.rng)
		}
	}
	return &Grid{size: n, letters: cells}
}

// placeSeeds lays a random subset of seed words into empty cells.
func (gen *Generator) placeSeeds(cells []byte) {
	if len(gen.seeds) == 0 {
		return
	}
	count := minSeedWords + gen.rng.Intn(maxSeedWords-minSeedWords+1)
	if count > len(gen.seeds) {
		count = len(gen.seeds)
	}
	for _, idx := range gen.rng.Perm(len(gen.seeds))[:count] {
		word := gen.seeds[idx]
		for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
			d := directions[gen.rng.Intn(len(directions))]
			start := Pos{Row: gen.rng.Intn(gen.size), Col: gen.rng.Intn(gen.size)}
			if gen.fits(cells, word, start, d) {
				gen.write(cells, word, start, d)
				break
			}
		}
	}
}

func (gen *Generator) fits(cells []byte, word string, start Pos, d direction) bool {
	for i := 0; i < len(word); i++ {
		r, c := start.Row+i*d.dr, start.Col+i*d.dc
		if r < 0 || r >= gen.size || c < 0 || c >= gen.size {
			return false
		}
		if cells[r*gen.size+c] != 0 {
			return false
		}
	}
	return true
}

func (gen *Generator) write(cells []byte, word string, start Pos, d direction) {
	for i := 0; i < len(word); i++ {
		r, c := start.Row+i*d.dr, start.Col+i*d.dc
		cells[r*gen.size+c] = word[i]
	}
}

// pickVowelSlot returns a random empty cell, or a random consonant cell when
// the seeds filled the board.
func (gen *Generator) pickVowelSlot(cells []byte) int {
	var empty, consonants []int
	for i, b := range cells {
		switch {
		case b == 0:
			empty = append(empty, i)
		case !isVowel(b):
			consonants = append(consonants, i)
		}
	}
	if len(empty) > 0 {
		return empty[gen.rng.Intn(len(empty))]
	}
	return consonants[gen.rng.Intn(len(consonants))]
}
