// internal/words/words.go
//
// Provides the fixed vocabulary used to validate submitted words.
//
// Responsibilities:
//   - Load the vocabulary from an env-provided file or fall back to the
//     embedded default (assets/words.txt).
//   - Keep a set for quick, case-insensitive lookups.
//   - Enforce the minimum word length in IsValid.
//
// Loading behavior (Load):
//   1. If path is non-empty, read one word per line from that file.
//   2. Otherwise use the embedded list (parsed once, sync.Once).
//
// Constraints:
//   • Words are normalized to uppercase A–Z; anything else is dropped.
//   • The vocabulary is fixed once loaded.

package words

import (
	"bufio"
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/zyedidia/generic/mapset"

	"github.com/robalobadob/spellcast/assets"
)

// DefaultMinLength is the shortest word that can score.
const DefaultMinLength = 3

var (
	embeddedOnce sync.Once
	embedded     []string
	embeddedErr  error
)

// Dictionary is an immutable uppercase word set with a minimum length rule.
type Dictionary struct {
	set    mapset.Set[string]
	minLen int
}

// New builds a dictionary from list. Entries are upper-cased and non-alphabetic
// entries are skipped. minLen <= 0 means DefaultMinLength.
func New(list []string, minLen int) *Dictionary {
	if minLen <= 0 {
		minLen = DefaultMinLength
	}
	d := &Dictionary{set: mapset.New[string](), minLen: minLen}
	for _, w := range list {
		if w = Normalize(w); w != "" && isAlpha(w) {
			d.set.Put(w)
		}
	}
	return d
}

// Load returns the dictionary read from path, or the embedded default when
// path is empty.
func Load(path string, minLen int) (*Dictionary, error) {
	var list []string
	if path != "" {
		var err error
		if list, err = readWordFile(path); err != nil {
			return nil, err
		}
	} else {
		embeddedOnce.Do(func() { embedded, embeddedErr = assets.WordList() })
		if embeddedErr != nil {
			return nil, embeddedErr
		}
		list = embedded
	}
	d := New(list, minLen)
	if d.Len() == 0 {
		return nil, errors.New("words: vocabulary is empty")
	}
	return d, nil
}

// readWordFile loads one word per line from a file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}

// Contains reports whether w is in the vocabulary, ignoring case.
func (d *Dictionary) Contains(w string) bool {
	return d.set.Has(Normalize(w))
}

// IsValid reports whether w is long enough and in the vocabulary.
func (d *Dictionary) IsValid(w string) bool {
	w = Normalize(w)
	return len(w) >= d.minLen && d.set.Has(w)
}

// MinLength returns the minimum accepted word length.
func (d *Dictionary) MinLength() int { return d.minLen }

// Len returns the vocabulary size.
func (d *Dictionary) Len() int { return d.set.Size() }

// Normalize trims and upper-cases a candidate word.
func Normalize(w string) string {
	return strings.ToUpper(strings.TrimSpace(w))
}

// isAlpha reports whether s is all uppercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
