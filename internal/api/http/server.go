package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/chart-eval/internal/observability"
)

// NewApp builds the fiber application with middlewares and routes registered.
func NewApp(name string, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration, routes RouteConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               name,
		DisableStartupMessage: true,
		// Handler values outlive the request (stored identities, tokens).
		Immutable: true,
	})
	RegisterMiddlewares(app, logger, metrics, timeout)
	if routes.Metrics == nil {
		routes.Metrics = metrics
	}
	RegisterRoutes(app, routes)
	return app
}
