package timeline

import (
	"math"
	"time"
)

// The axis maps calendar days to horizontal pixel offsets. Day granularity
// only: two events on the same day share an x offset and are disambiguated
// by lane, never by time-of-day.

// DayOf truncates t to UTC midnight.
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole-day distance from a to b. Negative when b
// precedes a.
func DaysBetween(a, b time.Time) int {
	return int(DayOf(b).Sub(DayOf(a)).Hours() / 24)
}

// XPosition maps date to a horizontal offset relative to rangeStart. It is
// total: dates outside the visible range yield off-screen offsets rather
// than an error or a clamp. Fixed leading margins (lane header, padding)
// are owned by the caller.
func XPosition(date, rangeStart time.Time, pixelsPerDay float64) float64 {
	return float64(DaysBetween(rangeStart, date)) * pixelsPerDay
}

// DateFromX is the inverse of XPosition to within one day of rounding.
func DateFromX(x float64, rangeStart time.Time, pixelsPerDay float64) time.Time {
	if pixelsPerDay <= 0 {
		return DayOf(rangeStart)
	}
	days := int(math.Round(x / pixelsPerDay))
	return DayOf(rangeStart).AddDate(0, 0, days)
}
