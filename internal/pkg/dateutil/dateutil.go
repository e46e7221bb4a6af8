// Package dateutil holds the calendar-day arithmetic shared by the
// fire-date evaluator, the deduplication gate and the sweep coordinator.
// All comparisons are on local calendar days, never rolling 24h windows.
package dateutil

import (
	"math"
	"time"
)

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day
// (both interpreted in a's location).
func SameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b.In(a.Location())))
}

// DaysBetween returns the number of calendar days from a to b (positive when
// b is after a). Rounding absorbs the 23h/25h days around DST transitions.
func DaysBetween(a, b time.Time) int {
	return int(math.Round(StartOfDay(b).Sub(StartOfDay(a.In(b.Location()))).Hours() / 24))
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
