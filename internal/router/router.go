package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fundalabs/dashboard-api/internal/config"
	"github.com/fundalabs/dashboard-api/internal/handler"
	"github.com/fundalabs/dashboard-api/internal/middleware"
	"github.com/fundalabs/dashboard-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	DashboardHandler *handler.DashboardHandler
	StreamHandler    *handler.StreamHandler
	AuthMiddleware   fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// Use provided auth middleware, or a no-op if nil
	authMiddleware := deps.AuthMiddleware
	if authMiddleware == nil {
		authMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.DashboardHandler != nil {
		dashboard := app.Group("/api/v2/dashboard", authMiddleware)
		dashboard.Use("/refresh", middleware.RateLimit("dashboard_refresh", 5, time.Minute))
		deps.DashboardHandler.Register(dashboard)
	}

	if deps.StreamHandler != nil {
		ws := app.Group("/ws", authMiddleware)
		deps.StreamHandler.Register(ws)
	}
}
