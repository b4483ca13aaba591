package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/aita-go-api/internal/dto"
	"github.com/noah-isme/aita-go-api/internal/service"
	"github.com/noah-isme/aita-go-api/internal/utils"
)

// AuthHandler verifies identity provider credentials.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires auth routes.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/verify", h.verify)
}

func (h *AuthHandler) verify(c *fiber.Ctx) error {
	var payload dto.VerifyRequest
	if !parseJSONBody(c, &payload) {
		return utils.SendErrorBody(c, fiber.StatusBadRequest, "Missing credential")
	}

	teacher, err := h.service.Verify(c.UserContext(), payload.Credential)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingCredential):
			return utils.SendErrorBody(c, fiber.StatusBadRequest, "Missing credential")
		case errors.Is(err, service.ErrAuthNotConfigured):
			return utils.SendErrorBody(c, fiber.StatusInternalServerError, "Server missing GOOGLE_CLIENT_ID")
		default:
			requestLogger(h.logger, c).Warn().Err(err).Msg("credential verification failed")
			return utils.SendErrorBody(c, fiber.StatusUnauthorized, "Invalid token")
		}
	}

	return utils.SendJSON(c, fiber.StatusOK, dto.VerifyResponse{Teacher: teacher})
}
