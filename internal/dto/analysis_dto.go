package dto

import (
	"time"

	"github.com/noah-isme/aita-go-api/internal/models"
)

// AnalyzeRequest is the payload accepted by POST /api/analyze.
type AnalyzeRequest struct {
	EssayText string `json:"essayText" validate:"required"`
	Rubric    string `json:"rubric,omitempty"`
	Explain   bool   `json:"explain,omitempty"`
	Model     string `json:"model,omitempty"`
}

// AnalyzeResponse mirrors the analysis result returned to the client.
type AnalyzeResponse = models.AnalysisResult

// AnalysisAuditEvent is published after a completion succeeds.
type AnalysisAuditEvent struct {
	ID            string    `json:"id"`
	Model         string    `json:"model"`
	Rubric        string    `json:"rubric"`
	Explain       bool      `json:"explain"`
	Score         int       `json:"score"`
	EssayChars    int       `json:"essayChars"`
	CorrelationID string    `json:"correlationId,omitempty"`
	CompletedAt   time.Time `json:"completedAt"`
}

// ErrorResponse is the body of every failed backend call.
type ErrorResponse struct {
	Error string `json:"error"`
}
