package words

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScoreValues(t *testing.T) {
	cases := []struct {
		word string
		want int
	}{
		{"CAT", 4},       // 2+1+1
		{"dog", 5},       // 2+1+2, case-insensitive
		{"JAZZ", 29},     // 8+1+10+10
		{"AEIOU", 34},    // 6 × 1.5 = 9, + 25
		{"QUEST", 47},    // 15 × 1.5 = 22.5 → 22, + 25
		{"QUARTZ", 125},  // 25 × 2 = 50, + 75
		{"MORNING", 202}, // 9 × 3 = 27, + 175
		{"", 0},
	}
	for _, tc := range cases {
		if got := Score(tc.word); got != tc.want {
			t.Fatalf("Score(%q) = %d, want %d", tc.word, got, tc.want)
		}
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	for _, w := range []string{"CAT", "DOG", "QUARTZ"} {
		if Score(w) != Score(w) {
			t.Fatalf("Score(%q) not deterministic", w)
		}
	}
}

func TestRarityWeighting(t *testing.T) {
	// Same length, rare letters must beat common ones.
	if Score("QUARTZ") <= Score("AEIOUA") {
		t.Fatalf("expected QUARTZ (%d) > AEIOUA (%d)", Score("QUARTZ"), Score("AEIOUA"))
	}
}

func TestScoreWithMultiplier(t *testing.T) {
	for _, w := range []string{"CAT", "QUEST", "QUARTZ", "MORNING"} {
		if got := ScoreWithMultiplier(w, true); got != 2*Score(w) {
			t.Fatalf("ScoreWithMultiplier(%q, true) = %d, want %d", w, got, 2*Score(w))
		}
		if got := ScoreWithMultiplier(w, false); got != Score(w) {
			t.Fatalf("ScoreWithMultiplier(%q, false) = %d, want %d", w, got, Score(w))
		}
	}
}

func TestDictionaryIsValid(t *testing.T) {
	d := New([]string{"cat", "AT", "Dog", "b4d", " jazz "}, 3)

	cases := []struct {
		word string
		want bool
	}{
		{"CAT", true},
		{"cat", true},
		{"Dog", true},
		{"JAZZ", true},
		{"AT", false},  // in list, too short
		{"B4D", false}, // never stored
		{"COW", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := d.IsValid(tc.word); got != tc.want {
			t.Fatalf("IsValid(%q) = %v, want %v", tc.word, got, tc.want)
		}
	}
	if !d.Contains("at") {
		t.Fatal("expected Contains to ignore the length rule")
	}
	if d.Len() != 4 {
		t.Fatalf("expected 4 words, got %d", d.Len())
	}
}

func TestLoadEmbedded(t *testing.T) {
	d, err := Load("", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.MinLength() != DefaultMinLength {
		t.Fatalf("expected default min length, got %d", d.MinLength())
	}
	for _, w := range []string{"CAT", "DOG", "TEST", "JAZZ", "QUARTZ", "QUEST"} {
		if !d.IsValid(w) {
			t.Fatalf("expected embedded list to contain %q", w)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte("# comment\nfoo\n\nbar\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := Load(path, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.IsValid("FOO") || !d.IsValid("bar") || d.IsValid("CAT") {
		t.Fatal("file vocabulary not loaded as expected")
	}

	empty := filepath.Join(t.TempDir(), "empty.txt")
	_ = os.WriteFile(empty, []byte("# nothing\n"), 0o644)
	if _, err := Load(empty, 3); err == nil {
		t.Fatal("expected error for empty vocabulary")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt"), 3); err == nil {
		t.Fatal("expected error for missing file")
	}
}
