package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/aita-go-api/internal/dto"
	"github.com/noah-isme/aita-go-api/internal/service"
	"github.com/noah-isme/aita-go-api/internal/utils"
)

// AnalysisHandler proxies essay analysis to the completion service.
type AnalysisHandler struct {
	service service.AnalysisService
	logger  zerolog.Logger
}

// NewAnalysisHandler constructs an analysis handler.
func NewAnalysisHandler(service service.AnalysisService, logger zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service: service,
		logger:  logger.With().Str("component", "analysis_handler").Logger(),
	}
}

// Register wires the analyze route behind the supplied middlewares.
func (h *AnalysisHandler) Register(router fiber.Router, middlewares ...fiber.Handler) {
	handlers := make([]fiber.Handler, 0, len(middlewares)+1)
	handlers = append(handlers, middlewares...)
	handlers = append(handlers, h.analyze)
	router.Post("/analyze", handlers...)
}

func (h *AnalysisHandler) analyze(c *fiber.Ctx) error {
	var payload dto.AnalyzeRequest
	if !parseJSONBody(c, &payload) {
		return utils.SendErrorBody(c, fiber.StatusBadRequest, "Missing essayText")
	}

	result, err := h.service.Analyze(c.UserContext(), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingEssayText):
			return utils.SendErrorBody(c, fiber.StatusBadRequest, "Missing essayText")
		case errors.Is(err, service.ErrAnalysisNotConfigured):
			return utils.SendErrorBody(c, fiber.StatusInternalServerError, "Server missing OPENAI_API_KEY")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("analysis failed")
			return utils.SendErrorBody(c, fiber.StatusInternalServerError, "Analysis failed")
		}
	}

	return utils.SendJSON(c, fiber.StatusOK, dto.AnalyzeResponse(result))
}
