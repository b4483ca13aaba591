package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/aita-go-api/internal/dto"
	"github.com/noah-isme/aita-go-api/internal/models"
	"github.com/noah-isme/aita-go-api/internal/store"
)

var (
	// ErrEmptyEssay indicates the essay text was blank after trimming.
	ErrEmptyEssay = errors.New("essay text is required")
	// ErrAnalysisInFlight indicates a previous analysis has not resolved yet.
	ErrAnalysisInFlight = errors.New("an analysis is already in progress")
)

// DefaultMockDelay simulates network latency on the offline path.
const DefaultMockDelay = 800 * time.Millisecond

// Remote performs analysis on the backend.
type Remote interface {
	Analyze(ctx context.Context, req dto.AnalyzeRequest) (models.AnalysisResult, error)
}

// Workflow turns essay text and options into feedback. Once input is valid it
// always resolves to a result: a mock when no credential is configured, the
// backend answer otherwise, and a fixed fallback when the backend fails.
type Workflow struct {
	local     *store.Local
	remote    Remote
	mockDelay time.Duration
	logger    zerolog.Logger
	inFlight  atomic.Bool
}

// NewWorkflow constructs the analysis workflow.
func NewWorkflow(local *store.Local, remote Remote, mockDelay time.Duration, logger zerolog.Logger) *Workflow {
	if mockDelay < 0 {
		mockDelay = 0
	}
	return &Workflow{
		local:     local,
		remote:    remote,
		mockDelay: mockDelay,
		logger:    logger.With().Str("component", "analysis_workflow").Logger(),
	}
}

// Analyze produces feedback for essayText. Only one call may be pending at a time.
func (w *Workflow) Analyze(ctx context.Context, essayText string, opts models.AnalysisOptions) (models.AnalysisResult, error) {
	text := strings.TrimSpace(essayText)
	if text == "" {
		return models.AnalysisResult{}, ErrEmptyEssay
	}

	if !w.inFlight.CompareAndSwap(false, true) {
		return models.AnalysisResult{}, ErrAnalysisInFlight
	}
	defer w.inFlight.Store(false)

	opts.Rubric = models.ParseRubric(string(opts.Rubric))
	if opts.Model == "" {
		opts.Model = w.local.Model(ctx)
	}

	if w.local.Credential(ctx) == "" || w.remote == nil {
		return w.mock(ctx, opts), nil
	}

	result, err := w.remote.Analyze(ctx, dto.AnalyzeRequest{
		EssayText: text,
		Rubric:    string(opts.Rubric),
		Explain:   opts.Explain,
		Model:     opts.Model,
	})
	if err != nil {
		w.logger.Error().Err(err).Str("rubric", string(opts.Rubric)).Msg("analysis request failed, using fallback")
		return FallbackResult(), nil
	}

	result.Score = models.ClampScore(result.Score)
	return result, nil
}

// InFlight reports whether an analysis is pending.
func (w *Workflow) InFlight() bool {
	return w.inFlight.Load()
}

func (w *Workflow) mock(ctx context.Context, opts models.AnalysisOptions) models.AnalysisResult {
	if w.mockDelay > 0 {
		timer := time.NewTimer(w.mockDelay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
		}
	}
	return MockResult(opts.Rubric, opts.Explain)
}

// MockResult is the deterministic offline feedback.
func MockResult(rubric models.Rubric, explain bool) models.AnalysisResult {
	clarity := "Suggested shorter sentences and clearer topic sentences per paragraph."
	if explain {
		clarity += "\nWhy: shorter sentences aid processing; topic sentences improve coherence."
	}
	return models.AnalysisResult{
		Grammar: fmt.Sprintf("Rubric: %s. Fixed several subject-verb agreements and punctuation errors.", rubric),
		Clarity: clarity,
		Score:   87,
		Raw:     "Mocked feedback without API key.",
	}
}

// FallbackResult replaces a failed backend call.
func FallbackResult() models.AnalysisResult {
	return models.AnalysisResult{
		Grammar: "Error calling OpenAI. Using mock guidance: check punctuation and sentence variety.",
		Clarity: "Ensure each paragraph has a clear topic sentence and transitions.",
		Score:   75,
		Raw:     "Fallback due to error.",
	}
}
