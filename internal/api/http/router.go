package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/chart-eval/internal/api/http/handlers"
	"github.com/spec-kit/chart-eval/internal/auth"
	"github.com/spec-kit/chart-eval/internal/domain"
	"github.com/spec-kit/chart-eval/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	users := app.Group("/users")
	users.Post("/login", cfg.Users.Login)
	users.Post("/verify", cfg.Users.Verify)
	users.Post("/revoke", cfg.Users.Revoke)

	users.Get("/:identity", cfg.AuthMiddleware.Handle, auth.RequireSelfOrRole("identity", domain.RoleAdmin), cfg.Users.Get)

	adminOnly := auth.RequireRoleHandler(domain.RoleAdmin)
	users.Post("", cfg.AuthMiddleware.Handle, adminOnly, cfg.Users.Create)
	users.Patch("/:identity", cfg.AuthMiddleware.Handle, adminOnly, cfg.Users.Update)
	users.Delete("/:identity", cfg.AuthMiddleware.Handle, adminOnly, cfg.Users.Delete)
}
