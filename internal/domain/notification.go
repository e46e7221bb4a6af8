package domain

import "time"

// Notification categories. Advance reminders (Vorfristen) and overdue
// escalations are deduplicated independently.
const (
	CategoryVorfrist = "vorfrist"
	CategoryOverdue  = "overdue"
)

// Notification is one immutable emission record. The same table is the
// in-app inbox the shell renders and the deduplication ledger the engine
// queries; the engine never updates a record after creation.
type Notification struct {
	NotificationID string    `json:"id" dynamodbav:"notification_id"`
	UserID         string    `json:"user_id" dynamodbav:"user_id"`
	Category       string    `json:"category" dynamodbav:"category"`
	DeadlineID     string    `json:"deadline_id" dynamodbav:"deadline_id"`
	OffsetDays     *int      `json:"offset_days,omitempty" dynamodbav:"offset_days"` // days before the due date; advance reminders only
	CatchUp        bool      `json:"catch_up,omitempty" dynamodbav:"catch_up"`       // delivered after its scheduled fire date
	Title          string    `json:"title" dynamodbav:"title"`
	Message        string    `json:"message" dynamodbav:"message"`
	Readed         int       `json:"readed" dynamodbav:"readed"` // legacy field name preserved
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
}
