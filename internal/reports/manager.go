package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/aita-go-api/internal/models"
	"github.com/noah-isme/aita-go-api/internal/store"
)

var (
	// ErrInvalidSubmission indicates missing essay metadata on approval.
	ErrInvalidSubmission = errors.New("student name, essay title and essay text are required")
	// ErrReportNotSaved indicates the stored collection could not be extended.
	ErrReportNotSaved = errors.New("report not saved")
)

// Submission carries the essay metadata that accompanies an approved result.
type Submission struct {
	StudentName string `validate:"required"`
	EssayTitle  string `validate:"required"`
	EssayText   string `validate:"required"`
	Rubric      models.Rubric
	Explain     bool
}

// Manager is the only writer of the report collection.
type Manager struct {
	local     *store.Local
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
	mu        sync.Mutex
}

// NewManager constructs a report manager.
func NewManager(local *store.Local, logger zerolog.Logger) *Manager {
	return &Manager{
		local:     local,
		validator: validator.New(),
		logger:    logger.With().Str("component", "report_manager").Logger(),
		now:       time.Now,
	}
}

// WithClock overrides the time source used for createdAt.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	if now != nil {
		m.now = now
	}
	return m
}

// Create folds an approved analysis into a new report at the head of the
// collection, persists the collection and clears the draft.
func (m *Manager) Create(ctx context.Context, sub Submission, result models.AnalysisResult) (models.Report, error) {
	sub.StudentName = strings.TrimSpace(sub.StudentName)
	sub.EssayTitle = strings.TrimSpace(sub.EssayTitle)
	sub.EssayText = strings.TrimSpace(sub.EssayText)

	if err := m.validator.Struct(sub); err != nil {
		return models.Report{}, fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}

	report := models.Report{
		StudentName: sub.StudentName,
		EssayTitle:  sub.EssayTitle,
		EssayText:   sub.EssayText,
		Feedback:    FormatFeedback(models.ParseRubric(string(sub.Rubric)), sub.Explain, result),
		Score:       models.ClampScore(result.Score),
		CreatedAt:   m.now().UnixMilli(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	total, err := m.local.PrependReport(ctx, report)
	if err != nil {
		m.logger.Error().Err(err).Msg("report not saved")
		return models.Report{}, fmt.Errorf("%w: %v", ErrReportNotSaved, err)
	}
	m.local.SetDraft(ctx, "")

	m.logger.Info().
		Str("student", report.StudentName).
		Int("score", report.Score).
		Int("total", total).
		Msg("report saved")

	return report, nil
}

// List returns reports matching filter against student name, essay title or
// feedback, case-insensitively. An empty filter returns everything in stored
// order. The returned slice is a snapshot.
func (m *Manager) List(ctx context.Context, filter string) []models.Report {
	all := m.local.Reports(ctx)

	query := strings.ToLower(strings.TrimSpace(filter))
	if query == "" {
		return all
	}

	matched := make([]models.Report, 0, len(all))
	for _, report := range all {
		if strings.Contains(strings.ToLower(report.StudentName), query) ||
			strings.Contains(strings.ToLower(report.EssayTitle), query) ||
			strings.Contains(strings.ToLower(report.Feedback), query) {
			matched = append(matched, report)
		}
	}
	return matched
}

// FormatFeedback renders the text saved with a report.
func FormatFeedback(rubric models.Rubric, explain bool, result models.AnalysisResult) string {
	label := string(rubric)
	if explain {
		label += " (explained)"
	}

	clarity := result.Clarity
	if clarity == "" {
		clarity = "—"
	}

	return fmt.Sprintf("Rubric: %s\n\nGrammar/Corrections\n%s\n\nClarity Suggestions\n%s", label, result.Grammar, clarity)
}
