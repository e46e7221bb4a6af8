package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/kanzleiworks/fristen-api/internal/domain"
	"github.com/kanzleiworks/fristen-api/internal/pkg/clock"
	"github.com/kanzleiworks/fristen-api/internal/pkg/dateutil"
)

type notificationLedger interface {
	ListForDeadlineSince(ctx context.Context, deadlineID, category string, since time.Time) ([]domain.Notification, error)
}

// Gate answers "was this already sent today?" against the notification
// ledger. Day boundaries are local calendar days, not a rolling 24h window.
//
// The guarantee is best-effort exactly-once by construction: dispatchers
// only emit after a negative check, and the scheduler keeps at most one
// sweep in flight. There is no database uniqueness constraint behind it.
type Gate struct {
	ledger notificationLedger
	clock  clock.Clock
	loc    *time.Location
}

func NewGate(ledger notificationLedger, clk clock.Clock, loc *time.Location) *Gate {
	return &Gate{ledger: ledger, clock: clk, loc: loc}
}

// AlreadySent reports whether a record for (deadline, category[, offset])
// exists within the current calendar day. For advance reminders the offset
// is part of the key; overdue escalations match on category alone.
func (g *Gate) AlreadySent(ctx context.Context, deadlineID, category string, offsetDays *int) (bool, error) {
	startOfToday := dateutil.StartOfDay(g.clock.Now().In(g.loc))
	records, err := g.ledger.ListForDeadlineSince(ctx, deadlineID, category, startOfToday)
	if err != nil {
		return false, fmt.Errorf("dedup lookup for deadline %s: %w", deadlineID, err)
	}
	for i := range records {
		if category != domain.CategoryVorfrist {
			return true, nil
		}
		if sameOffset(records[i].OffsetDays, offsetDays) {
			return true, nil
		}
	}
	return false, nil
}

func sameOffset(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
