// Package clock abstracts wall-clock time so that "today" can be pinned
// deterministically in tests and for replayed sweeps.
package clock

import "time"

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns a Clock backed by time.Now.
func System() Clock { return systemClock{} }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// Fixed returns a Clock that always reports t. Used by tests and by the
// as-of replay override on the sweep trigger.
func Fixed(t time.Time) Clock { return fixedClock{t: t} }
