package dto

// ProfileUpdateRequest carries editable profile fields.
type ProfileUpdateRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DashboardResponse summarizes the signed-in session for the dashboard.
type DashboardResponse struct {
	User             SessionUser `json:"user"`
	SessionRemaining string      `json:"session_remaining"`
}
