package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/srw-platform/portal/internal/api/http/handlers"
	"github.com/srw-platform/portal/internal/auth"
	"github.com/srw-platform/portal/internal/config"
	"github.com/srw-platform/portal/internal/domain"
	"github.com/srw-platform/portal/internal/guard"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	Profile       *handlers.ProfileHandler
	Notifications *handlers.NotificationsHandler
	Admin         *handlers.AdminHandler
	Routes        config.RoutesConfig
	Metrics       prometheus.Gatherer
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics, promhttp.HandlerOpts{})))
	}

	requireAuth := guard.Protect(auth.StoreFromCtx, guard.Config{
		RequireAuth:       true,
		FallbackRoute:     cfg.Routes.Login,
		UnauthorizedRoute: cfg.Routes.Unauthorized,
	})
	requireStaff := guard.Protect(auth.StoreFromCtx, guard.Config{
		RequireAuth:       true,
		AllowedRoles:      []domain.Role{domain.RoleOwner, domain.RoleEmployee},
		FallbackRoute:     cfg.Routes.Login,
		UnauthorizedRoute: cfg.Routes.Unauthorized,
	})

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/logout", requireAuth, cfg.Auth.Logout)

	app.Get("/dashboard", requireAuth, cfg.Profile.Dashboard)
	app.Get("/profile", requireAuth, cfg.Profile.Get)
	app.Put("/profile", requireAuth, cfg.Profile.Update)
	app.Post("/profile/password", requireAuth, cfg.Profile.ChangePassword)
	app.Get("/notifications", requireAuth, cfg.Notifications.List)

	app.Get("/admin/users", requireStaff, cfg.Admin.Users)
}
