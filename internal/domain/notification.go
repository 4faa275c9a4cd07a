package domain

import "time"

// Notification is a user-facing message listed on the portal. The remote
// SRW API owns notifications; the portal only displays them.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
