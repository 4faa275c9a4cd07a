// Package auth ties incoming requests to their per-browser auth store.
package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/srw-platform/portal/internal/authstore"
	"github.com/srw-platform/portal/internal/config"
	"github.com/srw-platform/portal/internal/registry"
)

const (
	storeKey     = "auth_store"
	sessionIDKey = "session_id"
)

// SessionMiddleware assigns every browser a session cookie and resolves its
// auth store before any guard or handler runs.
func SessionMiddleware(cfg config.SessionConfig, reg *registry.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies(cfg.CookieName)
		if sid == "" {
			sid = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     cfg.CookieName,
				Value:    sid,
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
				MaxAge:   int(cfg.IdleTTL().Seconds()),
			})
		}

		c.Locals(sessionIDKey, sid)
		c.Locals(storeKey, reg.Resolve(sid))
		return c.Next()
	}
}

// StoreFromCtx retrieves the requester's auth store, or nil if the session
// middleware has not run.
func StoreFromCtx(c *fiber.Ctx) *authstore.Store {
	store, _ := c.Locals(storeKey).(*authstore.Store)
	return store
}

// SessionIDFromCtx retrieves the portal session cookie value.
func SessionIDFromCtx(c *fiber.Ctx) string {
	sid, _ := c.Locals(sessionIDKey).(string)
	return sid
}
