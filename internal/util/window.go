package util

import "time"

// DayBounds returns the local calendar day containing t as a half-open
// UTC range. Stored timestamps are UTC.
func DayBounds(t time.Time) (time.Time, time.Time) {
	t = t.Local()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

func MonthBounds(t time.Time) (time.Time, time.Time) {
	t = t.Local()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.Local)
	return start.UTC(), start.AddDate(0, 1, 0).UTC()
}
