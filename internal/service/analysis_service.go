package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/aita-go-api/internal/dto"
	"github.com/noah-isme/aita-go-api/internal/middleware"
	"github.com/noah-isme/aita-go-api/internal/models"
	"github.com/noah-isme/aita-go-api/pkg/ai"
	"github.com/noah-isme/aita-go-api/pkg/events"
)

// AnalysisService generates essay feedback with a chat model.
type AnalysisService interface {
	Analyze(ctx context.Context, req dto.AnalyzeRequest) (models.AnalysisResult, error)
}

// ErrMissingEssayText indicates the request carried no essay.
var ErrMissingEssayText = errors.New("missing essayText")

// ErrAnalysisNotConfigured indicates the server has no completion credential.
var ErrAnalysisNotConfigured = errors.New("server missing OPENAI_API_KEY")

// ErrAnalysisFailed indicates the upstream completion failed.
var ErrAnalysisFailed = errors.New("analysis failed")

const analysisTemperature float32 = 0.2

// AnalysisConfig describes analysis defaults.
type AnalysisConfig struct {
	DefaultModel string
	EventSubject string
}

type analysisService struct {
	completer ai.Completer
	publisher events.Publisher
	validator *validator.Validate
	config    AnalysisConfig
	tracer    trace.Tracer
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAnalysisService constructs the analysis service. A nil completer means no
// credential is configured. A nil publisher disables audit events.
func NewAnalysisService(completer ai.Completer, publisher events.Publisher, validate *validator.Validate, cfg AnalysisConfig, logger zerolog.Logger) AnalysisService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = "gpt-4o-mini"
	}
	if cfg.EventSubject == "" {
		cfg.EventSubject = "aita.analysis.completed"
	}

	return &analysisService{
		completer: completer,
		publisher: publisher,
		validator: validate,
		config:    cfg,
		tracer:    otel.Tracer("github.com/noah-isme/aita-go-api/internal/service/analysis"),
		logger:    logger.With().Str("component", "analysis_service").Logger(),
		now:       time.Now,
	}
}

func (s *analysisService) Analyze(ctx context.Context, req dto.AnalyzeRequest) (models.AnalysisResult, error) {
	ctx, span := s.tracer.Start(ctx, "analysis.analyze", trace.WithAttributes(
		attribute.String("rubric", req.Rubric),
		attribute.Bool("explain", req.Explain),
	))
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return models.AnalysisResult{}, ErrMissingEssayText
	}
	if s.completer == nil {
		span.SetStatus(codes.Error, "not configured")
		return models.AnalysisResult{}, ErrAnalysisNotConfigured
	}

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = s.config.DefaultModel
	}
	span.SetAttributes(attribute.String("model", model))

	completion, err := s.completer.Complete(ctx, ai.CompletionRequest{
		Model:       model,
		System:      BuildSystemPrompt(req.Rubric, req.Explain),
		User:        BuildUserPrompt(req.EssayText),
		Temperature: analysisTemperature,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		return models.AnalysisResult{}, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	text := completion.Content
	score := ParseScore(text)
	span.SetAttributes(attribute.Int("score", score))

	s.publishAudit(ctx, req, model, score)

	return models.AnalysisResult{
		Grammar: text,
		Clarity: "",
		Score:   score,
		Raw:     text,
	}, nil
}

func (s *analysisService) publishAudit(ctx context.Context, req dto.AnalyzeRequest, model string, score int) {
	rubric := req.Rubric
	if rubric == "" {
		rubric = string(models.RubricBasic)
	}

	event := dto.AnalysisAuditEvent{
		ID:            uuid.NewString(),
		Model:         model,
		Rubric:        rubric,
		Explain:       req.Explain,
		Score:         score,
		EssayChars:    utf8.RuneCountInString(req.EssayText),
		CorrelationID: middleware.CorrelationIDFromContext(ctx),
		CompletedAt:   s.now().UTC(),
	}

	if err := s.publisher.Publish(ctx, s.config.EventSubject, event); err != nil {
		s.logger.Warn().Err(err).Str("subject", s.config.EventSubject).Msg("failed to publish analysis audit event")
	}
}

var rubricDirectives = map[string]string{
	"mechanics": "prioritize mechanics (spelling, punctuation, grammar) over content",
	"evidence":  "prioritize use of evidence, reasoning, and organization",
	"customary": "use a supportive classroom tone and actionable phrasing",
}

const defaultRubricDirective = "balance grammar, clarity, and organization"

// BuildSystemPrompt renders the teacher instruction for a rubric. Rubric
// values are matched exactly; anything else selects the balanced directive.
func BuildSystemPrompt(rubric string, explain bool) string {
	directive, ok := rubricDirectives[rubric]
	if !ok {
		directive = defaultRubricDirective
	}

	explainClause := "Keep suggestions concise without explanations."
	if explain {
		explainClause = `For each suggestion include a brief "Why:" explanation with a cited rule or example.`
	}

	return fmt.Sprintf(`You are an expert English teacher. Use the rubric directive: %s. %s Provide: 1) bullet grammar corrections summary, 2) bullet clarity suggestions, 3) an overall score from 0-100 labeled "score:" on its own line at the end.`, directive, explainClause)
}

// BuildUserPrompt wraps the essay for review.
func BuildUserPrompt(essay string) string {
	return "Essay to review:\n\n" + essay + "\n\nReturn concise feedback."
}

var scorePattern = regexp.MustCompile(`score\s*[:\-]\s*(\d{1,3})`)

var lineBreak = regexp.MustCompile(`\r?\n`)

// ParseScore returns the score from the last line carrying a "score:" label,
// capped at 100. Text without one scores 0.
func ParseScore(text string) int {
	lines := lineBreak.Split(strings.TrimSpace(text), -1)
	for i := len(lines) - 1; i >= 0; i-- {
		match := scorePattern.FindStringSubmatch(strings.ToLower(lines[i]))
		if match == nil {
			continue
		}
		value, err := strconv.Atoi(match[1])
		if err != nil {
			return 0
		}
		return models.ClampScore(value)
	}
	return 0
}
