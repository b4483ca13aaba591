package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/noah-isme/aita-go-api/internal/models"
)

// Defaults returned when a slot is empty or unreadable.
const (
	DefaultTheme  = "light"
	DefaultAccent = "#0d6efd"
	DefaultModel  = "gpt-4o-mini"
)

// Local exposes typed, never-failing access to client state. Reads fall back to
// documented defaults; writes are best effort and only log on failure.
type Local struct {
	store  Store
	logger zerolog.Logger
}

// NewLocal wraps a raw store.
func NewLocal(store Store, logger zerolog.Logger) *Local {
	return &Local{
		store:  store,
		logger: logger.With().Str("component", "local_store").Logger(),
	}
}

// Teacher returns the signed-in teacher, if any. Records that fail schema
// validation are treated as absent.
func (l *Local) Teacher(ctx context.Context) (models.Teacher, bool) {
	raw, ok := l.read(ctx, KeyTeacher)
	if !ok {
		return models.Teacher{}, false
	}

	if err := Validate(SchemaTeacher, raw); err != nil {
		l.logger.Warn().Err(err).Msg("ignoring malformed teacher record")
		return models.Teacher{}, false
	}

	var teacher models.Teacher
	if err := json.Unmarshal(raw, &teacher); err != nil {
		l.logger.Warn().Err(err).Msg("ignoring undecodable teacher record")
		return models.Teacher{}, false
	}
	return teacher, true
}

// SaveTeacher overwrites the identity slot.
func (l *Local) SaveTeacher(ctx context.Context, teacher models.Teacher) {
	l.write(ctx, KeyTeacher, teacher)
}

// ClearIdentity removes the teacher slot only. Reports and settings survive logout.
func (l *Local) ClearIdentity(ctx context.Context) {
	if err := l.store.Remove(ctx, KeyTeacher); err != nil {
		l.logger.Warn().Err(err).Str("key", KeyTeacher).Msg("failed to clear identity")
	}
}

// Credential returns the locally configured API credential, or "".
func (l *Local) Credential(ctx context.Context) string {
	return l.readString(ctx, KeyCredential, "")
}

// SaveCredential stores a non-empty credential; empty values are ignored.
func (l *Local) SaveCredential(ctx context.Context, credential string) {
	if credential == "" {
		return
	}
	l.write(ctx, KeyCredential, credential)
}

// ClearCredential removes the stored credential so analysis falls back to the mock path.
func (l *Local) ClearCredential(ctx context.Context) {
	if err := l.store.Remove(ctx, KeyCredential); err != nil {
		l.logger.Warn().Err(err).Str("key", KeyCredential).Msg("failed to clear credential")
	}
}

// Reports returns a fresh copy of the report collection, newest first. The
// collection is initialised to an empty list on first access. Entries that do
// not match the report schema are skipped.
func (l *Local) Reports(ctx context.Context) []models.Report {
	raw, err := l.store.Get(ctx, KeyReports)
	if errors.Is(err, ErrNotFound) {
		l.SaveReports(ctx, []models.Report{})
		return []models.Report{}
	}
	if err != nil {
		l.logger.Warn().Err(err).Str("key", KeyReports).Msg("failed to read reports")
		return []models.Report{}
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		l.logger.Warn().Err(err).Msg("report collection is not a list")
		return []models.Report{}
	}

	reports := make([]models.Report, 0, len(entries))
	for idx, entry := range entries {
		if err := Validate(SchemaReport, entry); err != nil {
			l.logger.Warn().Err(err).Int("index", idx).Msg("skipping malformed report")
			continue
		}
		var report models.Report
		if err := json.Unmarshal(entry, &report); err != nil {
			l.logger.Warn().Err(err).Int("index", idx).Msg("skipping undecodable report")
			continue
		}
		reports = append(reports, report)
	}
	return reports
}

// SaveReports overwrites the whole collection.
func (l *Local) SaveReports(ctx context.Context, reports []models.Report) {
	if reports == nil {
		reports = []models.Report{}
	}
	l.write(ctx, KeyReports, reports)
}

// PrependReport puts report at the head of the stored collection. Existing
// entries are kept byte for byte, including ones Reports would skip. A
// collection that cannot be read as a list is left untouched and an error is
// returned. It reports the new collection length.
func (l *Local) PrependReport(ctx context.Context, report models.Report) (int, error) {
	entries := []json.RawMessage{}

	raw, err := l.store.Get(ctx, KeyReports)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return 0, fmt.Errorf("read reports: %w", err)
	default:
		if err := json.Unmarshal(raw, &entries); err != nil {
			return 0, fmt.Errorf("report collection is not a list: %w", err)
		}
	}

	encoded, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("encode report: %w", err)
	}

	updated := make([]json.RawMessage, 0, len(entries)+1)
	updated = append(updated, encoded)
	updated = append(updated, entries...)
	l.write(ctx, KeyReports, updated)
	return len(updated), nil
}

// Theme returns "light" or "dark".
func (l *Local) Theme(ctx context.Context) string {
	theme := l.readString(ctx, KeyTheme, DefaultTheme)
	if theme != "light" && theme != "dark" {
		return DefaultTheme
	}
	return theme
}

func (l *Local) SetTheme(ctx context.Context, theme string) {
	l.write(ctx, KeyTheme, theme)
}

func (l *Local) Accent(ctx context.Context) string {
	return l.readString(ctx, KeyAccent, DefaultAccent)
}

func (l *Local) SetAccent(ctx context.Context, accent string) {
	l.write(ctx, KeyAccent, accent)
}

// Draft returns the essay text being edited, or "".
func (l *Local) Draft(ctx context.Context) string {
	return l.readString(ctx, KeyDraft, "")
}

func (l *Local) SetDraft(ctx context.Context, text string) {
	l.write(ctx, KeyDraft, text)
}

func (l *Local) Model(ctx context.Context) string {
	return l.readString(ctx, KeyModel, DefaultModel)
}

func (l *Local) SetModel(ctx context.Context, model string) {
	l.write(ctx, KeyModel, model)
}

func (l *Local) read(ctx context.Context, key string) ([]byte, bool) {
	raw, err := l.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			l.logger.Warn().Err(err).Str("key", key).Msg("failed to read state")
		}
		return nil, false
	}
	return raw, true
}

func (l *Local) readString(ctx context.Context, key, fallback string) string {
	raw, ok := l.read(ctx, key)
	if !ok {
		return fallback
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		l.logger.Warn().Err(err).Str("key", key).Msg("ignoring malformed setting")
		return fallback
	}
	if value == "" {
		return fallback
	}
	return value
}

func (l *Local) write(ctx context.Context, key string, value interface{}) {
	payload, err := json.Marshal(value)
	if err != nil {
		l.logger.Warn().Err(err).Str("key", key).Msg("failed to encode state")
		return
	}
	if err := l.store.Set(ctx, key, payload); err != nil {
		l.logger.Warn().Err(err).Str("key", key).Msg("failed to persist state")
	}
}
