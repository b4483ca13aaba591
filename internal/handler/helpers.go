package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/aita-go-api/internal/middleware"
)

// parseJSONBody decodes a JSON request body. Bodies that are absent, not
// declared as JSON, or whose fields have the wrong types are rejected.
func parseJSONBody(c *fiber.Ctx, target interface{}) bool {
	if len(c.Body()) == 0 || !c.Is("json") {
		return false
	}
	return c.BodyParser(target) == nil
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}
