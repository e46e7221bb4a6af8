package substitution

import (
	"context"
	"log/slog"
	"time"

	"github.com/kanzleiworks/fristen-api/internal/domain"
	"github.com/kanzleiworks/fristen-api/internal/pkg/clock"
)

type userStore interface {
	ListAway(ctx context.Context) ([]domain.User, error)
	ClearAway(ctx context.Context, userID string) error
}

// Routing is the outcome of substitution resolution for one responsible
// user: either the user receives their own notifications, or an active
// substitute receives the actionable copy and the original a courtesy one.
type Routing struct {
	Recipient  *domain.User
	Delegated  bool
	Substitute *domain.User
}

// Resolver decides who notifications for a responsible user route to, and
// clears expired vacation flags once per sweep.
type Resolver struct {
	users userStore
	clock clock.Clock
}

func NewResolver(users userStore, clk clock.Clock) *Resolver {
	return &Resolver{users: users, clock: clk}
}

// Resolve returns the effective routing for u. No side effects. Resolution
// is single-hop: a substitute who is themselves away still receives the
// delegation (chained substitution is deliberately not followed).
func (r *Resolver) Resolve(u *domain.User) Routing {
	now := r.clock.Now()
	if !u.CurrentlyAway(now) || u.Substitute == nil {
		return Routing{Recipient: u}
	}
	sub := u.Substitute
	if sub.UserID == u.UserID {
		// Self-substitution configured in the shell; route to the user directly.
		return Routing{Recipient: u}
	}
	if sub.CurrentlyAway(now) {
		slog.Debug("substitute is also away, delegating single-hop anyway",
			"user_id", u.UserID, "substitute_id", sub.UserID)
	}
	return Routing{Recipient: sub, Delegated: true, Substitute: sub}
}

// ExpireStale clears the away flag of every user whose away-period end date
// lies in the past. Runs before any resolution in a sweep so a just-returned
// user is routed to directly within the same run. Idempotent: a user whose
// flag is already cleared no longer appears in the away listing.
func (r *Resolver) ExpireStale(ctx context.Context, now time.Time) (int, error) {
	away, err := r.users.ListAway(ctx)
	if err != nil {
		return 0, err
	}
	expired := 0
	for i := range away {
		u := &away[i]
		if u.AwayUntil == nil || !now.After(*u.AwayUntil) {
			continue
		}
		if err := r.users.ClearAway(ctx, u.UserID); err != nil {
			slog.Warn("could not clear expired away flag", "user_id", u.UserID, "err", err)
			continue
		}
		expired++
	}
	return expired, nil
}
