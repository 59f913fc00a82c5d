// internal/words/score.go
//
// Letter-rarity scoring.
//
//   score = floor(sum(letterValue) × lengthMultiplier) + lengthBonus
//
//   len < 5  → ×1.0, +0
//   len = 5  → ×1.5, +25
//   len = 6  → ×2.0, +75  (25 + 50)
//   len ≥ 7  → ×3.0, +175 (25 + 50 + 100)
//
// Multipliers are applied as halves (×2, ×3, ×4, ×6 then /2) so the floor is
// exact integer division.

package words

// letterValues: common 1, medium 2, uncommon 5, rare 8, rarest 10.
var letterValues = [26]int{
	'A' - 'A': 1, 'B' - 'A': 2, 'C' - 'A': 2, 'D' - 'A': 2, 'E' - 'A': 1,
	'F' - 'A': 2, 'G' - 'A': 2, 'H' - 'A': 1, 'I' - 'A': 1, 'J' - 'A': 8,
	'K' - 'A': 5, 'L' - 'A': 2, 'M' - 'A': 2, 'N' - 'A': 1, 'O' - 'A': 1,
	'P' - 'A': 2, 'Q' - 'A': 10, 'R' - 'A': 1, 'S' - 'A': 1, 'T' - 'A': 1,
	'U' - 'A': 2, 'V' - 'A': 5, 'W' - 'A': 2, 'X' - 'A': 8, 'Y' - 'A': 2,
	'Z' - 'A': 10,
}

// LetterValue returns the rarity value of a letter (1 for non-letters).
func LetterValue(r rune) int {
	if r >= 'a' && r <= 'z' {
		r -= 'a' - 'A'
	}
	if r < 'A' || r > 'Z' {
		return 1
	}
	return letterValues[r-'A']
}

// Score computes the points for word. It is pure: the same word always
// yields the same score.
func Score(word string) int {
	word = Normalize(word)
	sum, n := 0, 0
	for _, r := range word {
		sum += LetterValue(r)
		n++
	}

	halves, bonus := 2, 0
	if n >= 5 {
		halves, bonus = 3, bonus+25
	}
	if n >= 6 {
		halves, bonus = 4, bonus+50
	}
	if n >= 7 {
		halves, bonus = 6, bonus+100
	}
	return sum*halves/2 + bonus
}

// ScoreWithMultiplier doubles Score when the word's path used the
// multiplier cell.
func ScoreWithMultiplier(word string, usedMultiplier bool) int {
	s := Score(word)
	if usedMultiplier {
		return s * 2
	}
	return s
}
