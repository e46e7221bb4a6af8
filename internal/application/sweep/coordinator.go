// Package sweep drives one full pass of the deadline reminder engine:
// expire stale substitutions, then for every open deadline evaluate the
// advance-reminder targets and the overdue state. The sweep is intended to
// run once per day from an external scheduler; running it more often is
// safe because the deduplication gate suppresses repeat deliveries.
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kanzleiworks/fristen-api/internal/domain"
	"github.com/kanzleiworks/fristen-api/internal/pkg/clock"
	"github.com/kanzleiworks/fristen-api/internal/pkg/dateutil"
)

// Result summarizes one sweep.
type Result struct {
	ExpiredSubstitutions int      `json:"expired_substitutions"`
	RemindersSent        int      `json:"reminders_sent"`
	EscalationsSent      int      `json:"escalations_sent"`
	FailedDeadlines      []string `json:"failed_deadlines,omitempty"`
}

// Runner is the single entry point the transport layer invokes.
type Runner interface {
	Run(ctx context.Context) (*Result, error)
}

type deadlineStore interface {
	ListOpen(ctx context.Context) ([]domain.Deadline, error)
}

type substitutionExpirer interface {
	ExpireStale(ctx context.Context, now time.Time) (int, error)
}

type fireEvaluator interface {
	ShouldFireToday(ctx context.Context, target time.Time, jurisdiction string) (bool, error)
	CatchUpEligible(target time.Time, maxAgeDays int) bool
}

type dedupGate interface {
	AlreadySent(ctx context.Context, deadlineID, category string, offsetDays *int) (bool, error)
}

type vorfristDispatcher interface {
	DispatchVorfrist(ctx context.Context, d *domain.Deadline, responsible *domain.User, offsetDays int, catchUp bool) (int, error)
}

type overdueDispatcher interface {
	DispatchOverdue(ctx context.Context, d *domain.Deadline, responsible *domain.User) (int, error)
}

type settingsStore interface {
	GetInt(ctx context.Context, key string, def int) (int, error)
}

// Deps wires the coordinator. All collaborators are required except that
// tests may substitute any of them.
type Deps struct {
	Deadlines     deadlineStore
	Substitutions substitutionExpirer
	Evaluator     fireEvaluator
	Gate          dedupGate
	Reminders     vorfristDispatcher
	Escalations   overdueDispatcher
	Settings      settingsStore
	Clock         clock.Clock
	Location      *time.Location
}

type service struct {
	deadlines   deadlineStore
	subs        substitutionExpirer
	eval        fireEvaluator
	gate        dedupGate
	reminders   vorfristDispatcher
	escalations overdueDispatcher
	settings    settingsStore
	clock       clock.Clock
	loc         *time.Location
}

func NewService(deps Deps) Runner {
	return &service{
		deadlines:   deps.Deadlines,
		subs:        deps.Substitutions,
		eval:        deps.Evaluator,
		gate:        deps.Gate,
		reminders:   deps.Reminders,
		escalations: deps.Escalations,
		settings:    deps.Settings,
		clock:       deps.Clock,
		loc:         deps.Location,
	}
}

// Run executes one sweep. Per-deadline failures are logged and collected but
// never halt iteration; only a failure to list the open deadlines fails the
// sweep as a whole.
func (s *service) Run(ctx context.Context) (*Result, error) {
	now := s.clock.Now().In(s.loc)
	res := &Result{}

	// Expiry must complete before any routing so a just-returned user is
	// addressed directly within this same run.
	expired, err := s.subs.ExpireStale(ctx, now)
	if err != nil {
		slog.Error("substitution auto-expiry failed, continuing sweep", "err", err)
	}
	res.ExpiredSubstitutions = expired

	maxAge, err := s.settings.GetInt(ctx, domain.SettingCatchUpMaxAgeDays, domain.DefaultCatchUpMaxAgeDays)
	if err != nil {
		slog.Warn("could not read catch-up max age setting, using default",
			"default", domain.DefaultCatchUpMaxAgeDays, "err", err)
		maxAge = domain.DefaultCatchUpMaxAgeDays
	}

	deadlines, err := s.deadlines.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("list open deadlines: %w", err)
	}

	for i := range deadlines {
		d := &deadlines[i]
		if err := s.processDeadline(ctx, d, now, maxAge, res); err != nil {
			res.FailedDeadlines = append(res.FailedDeadlines, d.DeadlineID)
			slog.Error("deadline processing failed", "deadline_id", d.DeadlineID, "title", d.Title, "err", err)
		}
	}

	slog.Info("deadline sweep finished",
		"open_deadlines", len(deadlines),
		"expired_substitutions", res.ExpiredSubstitutions,
		"reminders_sent", res.RemindersSent,
		"escalations_sent", res.EscalationsSent,
		"failed", len(res.FailedDeadlines))
	return res, nil
}

func (s *service) processDeadline(ctx context.Context, d *domain.Deadline, now time.Time, maxAge int, res *Result) error {
	if d.Open != 1 {
		// Resolved entries are filtered at query time; guard anyway.
		return nil
	}
	responsible := d.Responsible
	if responsible == nil {
		return fmt.Errorf("responsible user %s: %w", d.ResponsibleID, domain.ErrNotFound)
	}

	today := dateutil.StartOfDay(now)
	due := dateutil.StartOfDay(d.EffectiveDue().In(s.loc))

	for _, target := range d.ReminderTargets() {
		targetDay := dateutil.StartOfDay(target.In(s.loc))
		catchUp := false
		if targetDay.Before(today) {
			if !s.eval.CatchUpEligible(target, maxAge) {
				continue
			}
			catchUp = true
		} else {
			fire, err := s.eval.ShouldFireToday(ctx, target, d.Jurisdiction)
			if err != nil {
				return err
			}
			if !fire {
				continue
			}
		}

		offsetDays := dateutil.DaysBetween(targetDay, due)
		sent, err := s.gate.AlreadySent(ctx, d.DeadlineID, domain.CategoryVorfrist, &offsetDays)
		if err != nil {
			return err
		}
		if sent {
			continue
		}
		emitted, err := s.reminders.DispatchVorfrist(ctx, d, responsible, offsetDays, catchUp)
		res.RemindersSent += emitted
		if err != nil {
			return err
		}
	}

	if !due.Before(today) {
		return nil
	}
	sent, err := s.gate.AlreadySent(ctx, d.DeadlineID, domain.CategoryOverdue, nil)
	if err != nil {
		return err
	}
	if sent {
		return nil
	}
	emitted, err := s.escalations.DispatchOverdue(ctx, d, responsible)
	res.EscalationsSent += emitted
	if err != nil {
		return err
	}
	return nil
}
