package firedate

import (
	"context"
	"fmt"
	"time"

	"github.com/kanzleiworks/fristen-api/internal/pkg/clock"
	"github.com/kanzleiworks/fristen-api/internal/pkg/dateutil"
)

// maxShiftSteps bounds the backward walk when a target lands on a holiday.
// Five steps cover any real-world cluster of bridging days and weekends.
const maxShiftSteps = 5

// HolidayOracle answers public-holiday lookups per jurisdiction.
// Deterministic; maintained outside the engine.
type HolidayOracle interface {
	IsHoliday(ctx context.Context, day time.Time, jurisdiction string) (bool, error)
}

// Evaluator decides whether a reminder target date fires today, applying
// weekend and holiday pull-forward, and whether a missed target still
// qualifies for catch-up delivery.
type Evaluator struct {
	oracle HolidayOracle
	clock  clock.Clock
	loc    *time.Location
}

func NewEvaluator(oracle HolidayOracle, clk clock.Clock, loc *time.Location) *Evaluator {
	return &Evaluator{oracle: oracle, clock: clk, loc: loc}
}

func (e *Evaluator) today() time.Time {
	return dateutil.StartOfDay(e.clock.Now().In(e.loc))
}

// ShouldFireToday reports whether the reminder for target is due today.
//
// A target on today fires. A target on the upcoming weekend fires on the
// preceding Friday. A target on a public holiday is pulled back to the
// nearest preceding business day (bounded walk) and fires when that shifted
// day is today.
func (e *Evaluator) ShouldFireToday(ctx context.Context, target time.Time, jurisdiction string) (bool, error) {
	today := e.today()
	day := dateutil.StartOfDay(target.In(e.loc))

	if day.Equal(today) {
		return true, nil
	}

	if today.Weekday() == time.Friday {
		if day.Equal(today.AddDate(0, 0, 1)) || day.Equal(today.AddDate(0, 0, 2)) {
			return true, nil
		}
	}

	holiday, err := e.oracle.IsHoliday(ctx, day, jurisdiction)
	if err != nil {
		return false, fmt.Errorf("holiday lookup %s (%s): %w", day.Format("2006-01-02"), jurisdiction, err)
	}
	if !holiday {
		return false, nil
	}

	shifted := day
	for i := 0; i < maxShiftSteps; i++ {
		shifted = shifted.AddDate(0, 0, -1)
		if dateutil.IsWeekend(shifted) {
			continue
		}
		holiday, err = e.oracle.IsHoliday(ctx, shifted, jurisdiction)
		if err != nil {
			return false, fmt.Errorf("holiday lookup %s (%s): %w", shifted.Format("2006-01-02"), jurisdiction, err)
		}
		if holiday {
			continue
		}
		return shifted.Equal(today), nil
	}
	// No business day within the walk bound; the target never fires early.
	return false, nil
}

// CatchUpEligible reports whether a target whose fire date already passed
// may still be delivered. The age boundary is inclusive: age == maxAgeDays
// qualifies.
func (e *Evaluator) CatchUpEligible(target time.Time, maxAgeDays int) bool {
	today := e.today()
	day := dateutil.StartOfDay(target.In(e.loc))
	if !day.Before(today) {
		return false
	}
	return dateutil.DaysBetween(day, today) <= maxAgeDays
}
