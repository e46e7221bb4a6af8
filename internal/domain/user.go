package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is a person responsible for zero or more deadlines. The vacation
// fields are maintained by the case-management shell; the engine's
// auto-expiry step is the only other writer (it clears Away once AwayUntil
// has passed).
type User struct {
	UserID       string     `json:"id" dynamodbav:"user_id"`
	Name         string     `json:"name" dynamodbav:"name"`
	Email        string     `json:"email" dynamodbav:"email"`
	Role         string     `json:"role" dynamodbav:"role"`
	Away         int        `json:"away" dynamodbav:"away"` // 1 = away, 0 = present; numeric for GSI use
	AwayFrom     *time.Time `json:"away_from,omitempty" dynamodbav:"away_from"`
	AwayUntil    *time.Time `json:"away_until,omitempty" dynamodbav:"away_until"`
	SubstituteID *string    `json:"substitute_id,omitempty" dynamodbav:"substitute_id"`
	Substitute   *User      `json:"substitute,omitempty" dynamodbav:"-"`
	Enable       int        `json:"enable" dynamodbav:"enable"` // 1 = active, 0 = deactivated
	CreatedAt    time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// CurrentlyAway reports whether the user is away at the given instant.
// An away flag with both bounds absent means away indefinitely.
func (u *User) CurrentlyAway(now time.Time) bool {
	if u.Away != 1 {
		return false
	}
	if u.AwayFrom != nil && now.Before(*u.AwayFrom) {
		return false
	}
	if u.AwayUntil != nil && now.After(*u.AwayUntil) {
		return false
	}
	return true
}
