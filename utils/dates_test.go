package utils

import (
	"testing"
	"time"
)

func TestBeginningOfDay(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	in := time.Date(2025, 6, 14, 18, 45, 12, 999, loc)

	got := BeginningOfDay(in)
	want := time.Date(2025, 6, 14, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("BeginningOfDay = %v, want %v", got, want)
	}
	if got.Location() != loc {
		t.Fatalf("location changed: %v", got.Location())
	}
}

func TestDayKey(t *testing.T) {
	in := time.Date(2025, 6, 4, 23, 59, 59, 0, time.UTC)
	if got := DayKey(in); got != "2025-06-04" {
		t.Fatalf("DayKey = %q, want 2025-06-04", got)
	}
}
