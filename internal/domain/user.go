package domain

import "time"

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// UserRecord is the locally persisted snapshot of the signed-in principal.
// TimeStamp and ExpiresIn are session bookkeeping written at login time:
// TimeStamp is the login instant and ExpiresIn the server-declared session
// length, both in milliseconds. They feed display only; access decisions
// come from the token's own expiry claim.
type UserRecord struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	Status    UserStatus `json:"status"`
	TimeStamp int64      `json:"timeStamp"`
	ExpiresIn int64      `json:"expiresIn"`
}

// SessionRemaining reports how much of the declared session length is left
// at the given instant. Never negative.
func (u UserRecord) SessionRemaining(now time.Time) time.Duration {
	if u.TimeStamp <= 0 || u.ExpiresIn <= 0 {
		return 0
	}
	end := time.UnixMilli(u.TimeStamp + u.ExpiresIn)
	if !end.After(now) {
		return 0
	}
	return end.Sub(now)
}
