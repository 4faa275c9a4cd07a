package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/srw-platform/portal/internal/api/dto"
	"github.com/srw-platform/portal/internal/auth"
	"github.com/srw-platform/portal/internal/config"
	"github.com/srw-platform/portal/internal/domain"
	"github.com/srw-platform/portal/internal/events"
	"github.com/srw-platform/portal/internal/observability"
	"github.com/srw-platform/portal/internal/session"
	apperrors "github.com/srw-platform/portal/pkg/util"
)

// AuthHandler exposes login, registration and logout.
type AuthHandler struct {
	api        PortalAPI
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	routes     config.RoutesConfig
}

// NewAuthHandler constructs handler.
func NewAuthHandler(api PortalAPI, dispatcher events.Dispatcher, metrics *observability.Metrics, logger *zap.Logger, routes config.RoutesConfig) *AuthHandler {
	return &AuthHandler{api: api, dispatcher: dispatcher, metrics: metrics, logger: logger, routes: routes}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	result, err := h.api.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		h.metrics.RecordLogin("failed")
		return err
	}

	return h.establish(c, result.Token, result.User)
}

// Register handles POST /auth/register. A successful registration behaves
// like a login.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}

	result, err := h.api.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		h.metrics.RecordLogin("failed")
		return err
	}

	c.Status(fiber.StatusCreated)
	return h.establish(c, result.Token, result.User)
}

// Logout handles POST /auth/logout. Remote failure never blocks the local
// logout; the notice header is the only difference.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	store := auth.StoreFromCtx(c)
	sid := auth.SessionIDFromCtx(c)

	mgr := session.NewManager(store, h.api, h.dispatcher, h.logger, h.routes.Login, sid)
	sess := mgr.NewSession(redirectNavigator{c}, headerNotifier{c})
	defer sess.Close()

	sess.Logout(c.UserContext(), true, h.safeRedirect(c.Query("redirect"), h.routes.Login))
	return nil
}

// establish persists the issued session. Token first, then the user record:
// two notification passes, matching the order subscribers rely on.
func (h *AuthHandler) establish(c *fiber.Ctx, token string, user domain.UserRecord) error {
	store := auth.StoreFromCtx(c)
	store.SetToken(token)
	store.SetUserData(user)

	h.metrics.RecordLogin("ok")
	if h.dispatcher != nil {
		_ = h.dispatcher.Publish(c.UserContext(), events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventUserLoggedIn,
			SessionID: auth.SessionIDFromCtx(c),
			Timestamp: time.Now(),
			Payload:   events.LoggedInPayload{UserID: user.ID, Role: user.Role},
		})
	}

	return c.JSON(fiber.Map{"data": dto.SessionResponse{
		User:     sessionUser(user),
		Redirect: h.safeRedirect(c.Query("redirect"), h.routes.Home),
	}})
}

// safeRedirect keeps redirect-back targets on-site.
func (h *AuthHandler) safeRedirect(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return fallback
	}
	return target
}

func sessionUser(user domain.UserRecord) dto.SessionUser {
	return dto.SessionUser{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   string(user.Role),
		Status: string(user.Status),
	}
}
