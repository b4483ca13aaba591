package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/aita-go-api/internal/config"
	"github.com/noah-isme/aita-go-api/internal/handler"
	"github.com/noah-isme/aita-go-api/internal/middleware"
	"github.com/noah-isme/aita-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler     *handler.AuthHandler
	AnalysisHandler *handler.AnalysisHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	// Common v1 group for health & headers
	v1 := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	v1.Get("/health", handler.HealthCheck(cfg))

	api := app.Group("/api")

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(api.Group("/auth"))
	}

	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.Register(api, middleware.RateLimit("analyze", cfg.AnalyzeRateMax, cfg.AnalyzeRateWindow))
	}

	if cfg.StaticRoot != "" {
		app.Static("/", cfg.StaticRoot, fiber.Static{
			Index:    "index.html",
			Compress: true,
		})
	}
}
