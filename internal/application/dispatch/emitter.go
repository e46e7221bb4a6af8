// Package dispatch composes and emits deadline notifications: advance
// reminders (Vorfristen) and overdue escalations. Every notification is
// attempted on the in-app channel first and, independently, on the email
// channel. The two channels have isolated failure domains: an in-app store
// failure is fatal for the deadline being processed, an email failure is
// logged and swallowed.
package dispatch

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"github.com/kanzleiworks/fristen-api/internal/domain"
	"github.com/kanzleiworks/fristen-api/internal/pkg/clock"
	"github.com/kanzleiworks/fristen-api/internal/pkg/id"
)

type notificationLedger interface {
	Put(ctx context.Context, n *domain.Notification) error
}

type mailer interface {
	SendEmail(to, subject, text, html string) error
	IsConfigured() bool
}

type settingsStore interface {
	GetBool(ctx context.Context, key string, def bool) (bool, error)
}

// emitter is the shared delivery path of both dispatchers.
type emitter struct {
	ledger   notificationLedger
	mailer   mailer
	settings settingsStore
	clock    clock.Clock
}

// emit writes the in-app record and then attempts email delivery. The email
// attempt never influences the returned error.
func (e *emitter) emit(ctx context.Context, n *domain.Notification, email string) error {
	if err := e.ledger.Put(ctx, n); err != nil {
		return fmt.Errorf("in-app delivery to %s for deadline %s: %w", n.UserID, n.DeadlineID, err)
	}

	if e.mailer == nil || !e.mailer.IsConfigured() {
		return nil
	}
	enabled, err := e.settings.GetBool(ctx, domain.SettingEmailRemindersEnabled, true)
	if err != nil {
		slog.Warn("could not read email-reminders setting, skipping email", "err", err)
		return nil
	}
	if !enabled {
		return nil
	}
	if err := e.mailer.SendEmail(email, n.Title, n.Message, htmlBody(n)); err != nil {
		slog.Warn("email delivery failed",
			"user_id", n.UserID, "deadline_id", n.DeadlineID, "category", n.Category, "err", err)
	}
	return nil
}

func (e *emitter) newNotification(userID string, d *domain.Deadline, category string, offsetDays *int, catchUp bool, title, message string) *domain.Notification {
	return &domain.Notification{
		NotificationID: id.New(),
		UserID:         userID,
		Category:       category,
		DeadlineID:     d.DeadlineID,
		OffsetDays:     offsetDays,
		CatchUp:        catchUp,
		Title:          title,
		Message:        message,
		CreatedAt:      e.clock.Now().UTC(),
	}
}

func htmlBody(n *domain.Notification) string {
	return fmt.Sprintf("<p><strong>%s</strong></p><p>%s</p>",
		html.EscapeString(n.Title), html.EscapeString(n.Message))
}
