// Package guard gates portal routes on authentication and role membership.
// Every request performs a fresh check against the requester's auth store;
// nothing is cached between navigations.
package guard

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/srw-platform/portal/internal/authstore"
	"github.com/srw-platform/portal/internal/domain"
)

// StoreResolver finds the auth store for the requesting browser session.
// Returning nil means no session could be established.
type StoreResolver func(c *fiber.Ctx) *authstore.Store

// Config describes one guard.
type Config struct {
	RequireAuth       bool
	AllowedRoles      []domain.Role
	FallbackRoute     string
	UnauthorizedRoute string
}

// Protect builds the middleware. Unauthenticated requests are redirected to
// the fallback route carrying the attempted location for post-login
// redirect-back; authenticated requests whose role is outside a non-empty
// allow-set are redirected to the unauthorized route.
func Protect(resolve StoreResolver, cfg Config) fiber.Handler {
	allowed := make(map[domain.Role]struct{}, len(cfg.AllowedRoles))
	for _, role := range cfg.AllowedRoles {
		allowed[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		if !cfg.RequireAuth {
			return c.Next()
		}

		store := resolve(c)
		if store == nil || !store.IsAuthenticated() {
			return redirectWithReturn(c, cfg.FallbackRoute)
		}

		if len(allowed) == 0 {
			return c.Next()
		}

		user, ok := store.GetUserData()
		if !ok {
			return c.Redirect(cfg.UnauthorizedRoute, fiber.StatusSeeOther)
		}

		switch user.Role {
		case domain.RoleCustomer, domain.RoleOwner, domain.RoleEmployee:
			if _, member := allowed[user.Role]; member {
				return c.Next()
			}
			return c.Redirect(cfg.UnauthorizedRoute, fiber.StatusSeeOther)
		default:
			// A role outside the closed set never passes a restricted guard.
			return c.Redirect(cfg.UnauthorizedRoute, fiber.StatusSeeOther)
		}
	}
}

func redirectWithReturn(c *fiber.Ctx, fallback string) error {
	target := fallback + "?redirect=" + url.QueryEscape(c.OriginalURL())
	return c.Redirect(target, fiber.StatusSeeOther)
}
