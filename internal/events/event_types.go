package events

import (
	"time"

	"github.com/srw-platform/portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserLoggedIn   EventType = "user_logged_in"
	EventUserLoggedOut  EventType = "user_logged_out"
	EventSessionExpired EventType = "session_expired"
)

// Event represents an auth lifecycle event emitted by the portal.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SessionID string      `json:"session_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// LoggedInPayload payload.
type LoggedInPayload struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// LoggedOutPayload payload.
type LoggedOutPayload struct {
	UserID     string `json:"user_id,omitempty"`
	RemoteOK   bool   `json:"remote_ok"`
	RedirectTo string `json:"redirect_to"`
}

// SessionExpiredPayload payload.
type SessionExpiredPayload struct {
	UserID string `json:"user_id,omitempty"`
}
