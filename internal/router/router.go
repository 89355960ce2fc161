package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/infotier/verify-api/internal/config"
	"github.com/infotier/verify-api/internal/handler"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	VerificationHandler *handler.VerificationHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.VerificationHandler != nil {
		verifications := api.Group("/verifications")
		deps.VerificationHandler.Register(verifications)
	}

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
