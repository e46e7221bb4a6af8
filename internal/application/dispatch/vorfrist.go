package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/kanzleiworks/fristen-api/internal/application/substitution"
	"github.com/kanzleiworks/fristen-api/internal/domain"
	"github.com/kanzleiworks/fristen-api/internal/pkg/clock"
	"github.com/kanzleiworks/fristen-api/internal/pkg/dateutil"
)

const dueDateFormat = "02.01.2006"

type routingResolver interface {
	Resolve(u *domain.User) substitution.Routing
}

// VorfristDispatcher emits advance reminders, applying substitution routing.
type VorfristDispatcher struct {
	emitter
	resolver routingResolver
	loc      *time.Location
}

func NewVorfristDispatcher(ledger notificationLedger, m mailer, settings settingsStore, resolver routingResolver, clk clock.Clock, loc *time.Location) *VorfristDispatcher {
	return &VorfristDispatcher{
		emitter:  emitter{ledger: ledger, mailer: m, settings: settings, clock: clk},
		resolver: resolver,
		loc:      loc,
	}
}

// DispatchVorfrist emits the advance reminder for one target date. When the
// responsible user is away with a substitute, two records go out: the
// actionable one to the substitute and an informational one to the original.
// Returns the number of notification records written; a non-nil error means
// the in-app channel failed partway and the deadline should be abandoned for
// this sweep.
func (d *VorfristDispatcher) DispatchVorfrist(ctx context.Context, dl *domain.Deadline, responsible *domain.User, offsetDays int, catchUp bool) (int, error) {
	due := dateutil.StartOfDay(dl.EffectiveDue().In(d.loc))
	daysLeft := dateutil.DaysBetween(d.clock.Now().In(d.loc), due)

	message := fmt.Sprintf("Deadline %q is due %s.", dl.Title, humanDayCount(daysLeft, due))
	if catchUp {
		message += " This is a catch-up delivery; the scheduled reminder date has already passed."
	}

	routing := d.resolver.Resolve(responsible)
	if !routing.Delegated {
		n := d.newNotification(responsible.UserID, dl, domain.CategoryVorfrist, &offsetDays, catchUp,
			"Reminder: "+dl.Title, message)
		if err := d.emit(ctx, n, responsible.Email); err != nil {
			return 0, err
		}
		return 1, nil
	}

	sub := routing.Substitute
	actionable := d.newNotification(sub.UserID, dl, domain.CategoryVorfrist, &offsetDays, catchUp,
		fmt.Sprintf("Substituting for %s — reminder: %s", responsible.Name, dl.Title), message)
	if err := d.emit(ctx, actionable, sub.Email); err != nil {
		return 0, err
	}
	courtesy := d.newNotification(responsible.UserID, dl, domain.CategoryVorfrist, &offsetDays, catchUp,
		fmt.Sprintf("Reminder: %s (delegated to %s)", dl.Title, sub.Name), message)
	if err := d.emit(ctx, courtesy, responsible.Email); err != nil {
		return 1, err
	}
	return 2, nil
}

func humanDayCount(daysLeft int, due time.Time) string {
	switch {
	case daysLeft > 1:
		return fmt.Sprintf("in %d days, on %s", daysLeft, due.Format(dueDateFormat))
	case daysLeft == 1:
		return fmt.Sprintf("tomorrow, %s", due.Format(dueDateFormat))
	case daysLeft == 0:
		return "today"
	default:
		return fmt.Sprintf("overdue since %s", due.Format(dueDateFormat))
	}
}
