package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/kanzleiworks/fristen-api/internal/domain"
	"github.com/kanzleiworks/fristen-api/internal/pkg/clock"
	"github.com/kanzleiworks/fristen-api/internal/pkg/dateutil"
)

type adminLister interface {
	ListAdmins(ctx context.Context) ([]domain.User, error)
}

// OverdueDispatcher emits the escalation chain for a deadline whose due
// date is strictly in the past: responsible, then substitute when the
// responsible user is away, then every active administrator as backstop.
// Each person in the chain is notified at most once.
type OverdueDispatcher struct {
	emitter
	resolver routingResolver
	admins   adminLister
	loc      *time.Location
}

func NewOverdueDispatcher(ledger notificationLedger, m mailer, settings settingsStore, resolver routingResolver, admins adminLister, clk clock.Clock, loc *time.Location) *OverdueDispatcher {
	return &OverdueDispatcher{
		emitter:  emitter{ledger: ledger, mailer: m, settings: settings, clock: clk},
		resolver: resolver,
		admins:   admins,
		loc:      loc,
	}
}

// DispatchOverdue runs the escalation chain once. The caller gates the whole
// chain on the (deadline, overdue) dedup key, so it fires at most once per
// calendar day however often the sweep runs. Returns the number of records
// written; a non-nil error means the in-app channel failed partway.
func (d *OverdueDispatcher) DispatchOverdue(ctx context.Context, dl *domain.Deadline, responsible *domain.User) (int, error) {
	due := dateutil.StartOfDay(dl.EffectiveDue().In(d.loc))
	daysOver := dateutil.DaysBetween(due, dateutil.StartOfDay(d.clock.Now().In(d.loc)))
	title := "OVERDUE: " + dl.Title
	message := fmt.Sprintf("Deadline %q was due on %s (%d day(s) ago) and is not resolved.",
		dl.Title, due.Format(dueDateFormat), daysOver)

	sent := 0
	notified := make(map[string]bool)
	notify := func(u *domain.User, subject string) error {
		if notified[u.UserID] {
			return nil
		}
		n := d.newNotification(u.UserID, dl, domain.CategoryOverdue, nil, false, subject, message)
		if err := d.emit(ctx, n, u.Email); err != nil {
			return err
		}
		notified[u.UserID] = true
		sent++
		return nil
	}

	if err := notify(responsible, title); err != nil {
		return sent, err
	}

	routing := d.resolver.Resolve(responsible)
	if routing.Delegated {
		subject := fmt.Sprintf("Substituting for %s — %s", responsible.Name, title)
		if err := notify(routing.Substitute, subject); err != nil {
			return sent, err
		}
	}

	admins, err := d.admins.ListAdmins(ctx)
	if err != nil {
		return sent, fmt.Errorf("list administrators for deadline %s: %w", dl.DeadlineID, err)
	}
	for i := range admins {
		if err := notify(&admins[i], title); err != nil {
			return sent, err
		}
	}
	return sent, nil
}
