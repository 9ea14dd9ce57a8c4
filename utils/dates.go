// utils/dates.go
package utils

import "time"

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// DayKey is the calendar-day bucket used for per-day token counters.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
