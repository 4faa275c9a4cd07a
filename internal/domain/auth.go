package domain

// AuthState is the derived, read-only view of the current session. It is
// computed on demand from the persisted token and user record, never stored.
type AuthState struct {
	IsAuthenticated bool
	User            *UserRecord
	Token           string
}
