package daily

import (
	"testing"
	"time"
)

func TestDateKeyIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	ts := time.Date(2024, 3, 2, 5, 0, 0, 0, loc)
	if got := DateKey(ts); got != "2024-03-01" {
		t.Fatalf("expected 2024-03-01, got %s", got)
	}
}

func TestSeedDeterministic(t *testing.T) {
	day := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	later := time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)
	next := day.Add(24 * time.Hour)

	a := Seed(day, "salt")
	if a != Seed(later, "salt") {
		t.Fatal("seed changed within a day")
	}
	if a == Seed(next, "salt") {
		t.Fatal("consecutive days share a seed")
	}
	if a == Seed(day, "other") {
		t.Fatal("salt did not affect the seed")
	}
}
