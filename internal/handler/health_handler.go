package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/aita-go-api/internal/config"
	"github.com/noah-isme/aita-go-api/internal/utils"
)

// HealthResponse tells the browser shell which backend features are usable.
// Sign-in and analysis answer 500 until their credentials are configured.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
	Auth        bool      `json:"authConfigured"`
	Analysis    bool      `json:"analysisConfigured"`
	Events      bool      `json:"eventsConfigured"`
}

// HealthCheck reports liveness and configuration state.
func HealthCheck(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			Auth:        cfg.GoogleClientID != "",
			Analysis:    cfg.OpenAIAPIKey != "",
			Events:      cfg.NATSURL != "",
		}

		message := "service healthy"
		if !payload.Auth || !payload.Analysis {
			message = "service healthy, some features unconfigured"
		}
		return utils.SendSuccess(c, message, payload)
	}
}
