package domain

// Setting keys the engine reads from the shell-managed settings store.
const (
	SettingEmailRemindersEnabled = "deadline.email_reminders_enabled"
	SettingCatchUpMaxAgeDays     = "deadline.catchup_max_age_days"
)

// DefaultCatchUpMaxAgeDays bounds catch-up re-delivery when the setting is
// absent, so a long outage cannot flood recipients with stale reminders.
const DefaultCatchUpMaxAgeDays = 7
