package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/srw-platform/portal/internal/domain"
	"github.com/srw-platform/portal/internal/srwapi"
)

// PortalAPI is the slice of the SRW API client the handlers consume.
// *srwapi.Client satisfies it; tests substitute fakes.
type PortalAPI interface {
	Login(ctx context.Context, email, password string) (*srwapi.AuthResult, error)
	Register(ctx context.Context, name, email, password string) (*srwapi.AuthResult, error)
	TerminateSession(ctx context.Context, token string) error
	Profile(ctx context.Context, token string) (*domain.UserRecord, error)
	UpdateProfile(ctx context.Context, token string, update srwapi.ProfileUpdate) (*domain.UserRecord, error)
	ChangePassword(ctx context.Context, token, current, next string) (*srwapi.AuthResult, error)
	Notifications(ctx context.Context, token string) ([]domain.Notification, error)
	Users(ctx context.Context, token string, page, perPage int) (*srwapi.UserPage, error)
}

// NoticeHeader carries transient informational messages to the shell.
const NoticeHeader = "X-SRW-Notice"

// redirectNavigator issues the HTTP redirect that stands in for client-side
// navigation.
type redirectNavigator struct {
	c *fiber.Ctx
}

func (n redirectNavigator) Navigate(path string) {
	_ = n.c.Redirect(path, fiber.StatusSeeOther)
}

// headerNotifier surfaces notices as a response header the shell can toast.
type headerNotifier struct {
	c *fiber.Ctx
}

func (n headerNotifier) Notify(message string) {
	n.c.Set(NoticeHeader, message)
}
