package utils

import "time"

// DateOnly truncates a timestamp to its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole number of calendar days from earlier to later.
func DaysBetween(earlier, later time.Time) int {
	return int(DateOnly(later).Sub(DateOnly(earlier)).Hours() / 24)
}
