package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func berlin(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	return loc
}

func TestStartOfDay(t *testing.T) {
	loc := berlin(t)
	in := time.Date(2026, 3, 12, 17, 45, 9, 123, loc)
	got := StartOfDay(in)
	assert.Equal(t, time.Date(2026, 3, 12, 0, 0, 0, 0, loc), got)
	assert.Equal(t, loc, got.Location())
}

func TestSameDay(t *testing.T) {
	loc := berlin(t)
	a := time.Date(2026, 3, 12, 0, 1, 0, 0, loc)
	b := time.Date(2026, 3, 12, 23, 59, 0, 0, loc)
	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(a, b.AddDate(0, 0, 1)))
}

func TestDaysBetween(t *testing.T) {
	loc := berlin(t)
	a := time.Date(2026, 3, 10, 22, 0, 0, 0, loc)
	b := time.Date(2026, 3, 13, 1, 0, 0, 0, loc)
	assert.Equal(t, 3, DaysBetween(a, b))
	assert.Equal(t, -3, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
}

func TestDaysBetween_AcrossDSTTransition(t *testing.T) {
	loc := berlin(t)
	// Clocks spring forward on 2026-03-29; the calendar still counts 2 days.
	a := time.Date(2026, 3, 28, 12, 0, 0, 0, loc)
	b := time.Date(2026, 3, 30, 12, 0, 0, 0, loc)
	assert.Equal(t, 2, DaysBetween(a, b))

	// And fall back on 2026-10-25.
	a = time.Date(2026, 10, 24, 12, 0, 0, 0, loc)
	b = time.Date(2026, 10, 26, 12, 0, 0, 0, loc)
	assert.Equal(t, 2, DaysBetween(a, b))
}

func TestIsWeekend(t *testing.T) {
	loc := berlin(t)
	assert.True(t, IsWeekend(time.Date(2026, 3, 14, 0, 0, 0, 0, loc)))  // Saturday
	assert.True(t, IsWeekend(time.Date(2026, 3, 15, 0, 0, 0, 0, loc)))  // Sunday
	assert.False(t, IsWeekend(time.Date(2026, 3, 13, 0, 0, 0, 0, loc))) // Friday
	assert.False(t, IsWeekend(time.Date(2026, 3, 16, 0, 0, 0, 0, loc))) // Monday
}
