package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/srw-platform/portal/internal/api/dto"
	"github.com/srw-platform/portal/internal/auth"
	"github.com/srw-platform/portal/internal/srwapi"
	apperrors "github.com/srw-platform/portal/pkg/util"
)

// ProfileHandler exposes profile viewing/editing, password change and the
// dashboard summary.
type ProfileHandler struct {
	api PortalAPI
}

// NewProfileHandler constructs handler.
func NewProfileHandler(api PortalAPI) *ProfileHandler {
	return &ProfileHandler{api: api}
}

// Get handles GET /profile.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	token, err := bearerToken(c)
	if err != nil {
		return err
	}

	user, err := h.api.Profile(c.UserContext(), token)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"user": sessionUser(*user)}})
}

// Update handles PUT /profile.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	var req dto.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" && req.Email == "" {
		return apperrors.NewValidationError("nothing to update", nil)
	}

	token, err := bearerToken(c)
	if err != nil {
		return err
	}

	user, err := h.api.UpdateProfile(c.UserContext(), token, srwapi.ProfileUpdate{Name: req.Name, Email: req.Email})
	if err != nil {
		return err
	}

	// Keep the local snapshot in step with the remote profile, preserving
	// the original session bookkeeping.
	store := auth.StoreFromCtx(c)
	if current, ok := store.GetUserData(); ok {
		updated := *user
		updated.TimeStamp = current.TimeStamp
		updated.ExpiresIn = current.ExpiresIn
		store.SetUserData(updated)
	}

	return c.JSON(fiber.Map{"data": fiber.Map{"user": sessionUser(*user)}})
}

// ChangePassword handles POST /profile/password. The API issues a fresh
// token on success, which replaces the stored one.
func (h *ProfileHandler) ChangePassword(c *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("current and new password required", nil)
	}

	token, err := bearerToken(c)
	if err != nil {
		return err
	}

	result, err := h.api.ChangePassword(c.UserContext(), token, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return err
	}

	store := auth.StoreFromCtx(c)
	store.SetToken(result.Token)
	store.SetUserData(result.User)

	return c.JSON(fiber.Map{"data": fiber.Map{"user": sessionUser(result.User)}})
}

// Dashboard handles GET /dashboard.
func (h *ProfileHandler) Dashboard(c *fiber.Ctx) error {
	store := auth.StoreFromCtx(c)
	user, ok := store.GetUserData()
	if !ok {
		return apperrors.NewUnauthorized("no user record for session")
	}

	return c.JSON(fiber.Map{"data": dto.DashboardResponse{
		User:             sessionUser(*user),
		SessionRemaining: user.SessionRemaining(time.Now()).Round(time.Second).String(),
	}})
}

// bearerToken pulls the stored token for upstream calls. The guard has
// already verified freshness; an absent token here means the session raced
// a logout.
func bearerToken(c *fiber.Ctx) (string, error) {
	store := auth.StoreFromCtx(c)
	token, ok := store.GetToken()
	if !ok {
		return "", apperrors.NewUnauthorized("no active session")
	}
	return token, nil
}
