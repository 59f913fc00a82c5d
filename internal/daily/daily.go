// Package daily derives the shared grid seed for daily-mode games.
package daily

import (
	"encoding/binary"
	"time"

	"golang.org/x/crypto/blake2b"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns a deterministic generator seed for the date:
// BLAKE2b-256(key=BLAKE2b-256(salt), YYYY-MM-DD), first 8 bytes big-endian.
func Seed(t time.Time, salt string) int64 {
	key := blake2b.Sum256([]byte(salt))
	h, err := blake2b.New256(key[:])
	if err != nil {
		// only possible for keys longer than 64 bytes
		panic(err)
	}
	h.Write([]byte(DateKey(t)))
	sum := h.Sum(nil)
	return int64(binary.BigEndian.Uint64(sum[:8]))
}
