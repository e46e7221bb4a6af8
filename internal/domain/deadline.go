package domain

import "time"

// Deadline is one tracked legal deadline. Records are created and mutated by
// the case-management shell; the reminder engine only reads them.
type Deadline struct {
	DeadlineID    string      `json:"id" dynamodbav:"deadline_id"`
	Title         string      `json:"title" dynamodbav:"title"`
	DueDate       time.Time   `json:"due_date" dynamodbav:"due_date"`
	HardDueDate   *time.Time  `json:"hard_due_date,omitempty" dynamodbav:"hard_due_date"` // statutory cutoff (Notfrist), overrides DueDate for day math
	CaseID        *string     `json:"case_id,omitempty" dynamodbav:"case_id"`
	Jurisdiction  string      `json:"jurisdiction" dynamodbav:"jurisdiction"` // holiday-calendar code, e.g. "DE-BY"
	ReminderDates []time.Time `json:"reminder_dates" dynamodbav:"reminder_dates"` // absolute Vorfrist dates computed upstream
	HalfwayDate   *time.Time  `json:"halfway_date,omitempty" dynamodbav:"halfway_date"`
	ResponsibleID string      `json:"responsible_id" dynamodbav:"responsible_id"`
	Responsible   *User       `json:"responsible,omitempty" dynamodbav:"-"`
	Open          int         `json:"open" dynamodbav:"open"` // 1 = open, 0 = resolved; numeric for GSI use
	CreatedAt     time.Time   `json:"created" dynamodbav:"created_at"`
	UpdatedAt     time.Time   `json:"updated" dynamodbav:"updated_at"`
}

// EffectiveDue returns the date all day-count math runs against:
// the hard statutory cutoff when present, otherwise the working due date.
func (d *Deadline) EffectiveDue() time.Time {
	if d.HardDueDate != nil {
		return *d.HardDueDate
	}
	return d.DueDate
}

// ReminderTargets returns every advance-reminder target date, including the
// optional half-way date.
func (d *Deadline) ReminderTargets() []time.Time {
	targets := make([]time.Time, 0, len(d.ReminderDates)+1)
	targets = append(targets, d.ReminderDates...)
	if d.HalfwayDate != nil {
		targets = append(targets, *d.HalfwayDate)
	}
	return targets
}
