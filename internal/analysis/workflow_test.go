package analysis

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aita-go-api/internal/dto"
	"github.com/noah-isme/aita-go-api/internal/models"
	"github.com/noah-isme/aita-go-api/internal/store"
)

type stubRemote struct {
	result  models.AnalysisResult
	err     error
	last    dto.AnalyzeRequest
	calls   int
	release chan struct{}
	started chan struct{}
}

func (s *stubRemote) Analyze(_ context.Context, req dto.AnalyzeRequest) (models.AnalysisResult, error) {
	s.calls++
	s.last = req
	if s.started != nil {
		close(s.started)
	}
	if s.release != nil {
		<-s.release
	}
	return s.result, s.err
}

func newLocal() *store.Local {
	return store.NewLocal(store.NewMemoryStore(), zerolog.New(io.Discard))
}

func TestAnalyzeRejectsBlankEssay(t *testing.T) {
	remote := &stubRemote{}
	local := newLocal()
	local.SaveCredential(context.Background(), "sk-test")
	wf := NewWorkflow(local, remote, 0, zerolog.New(io.Discard))

	_, err := wf.Analyze(context.Background(), " \n\t", models.AnalysisOptions{})
	require.ErrorIs(t, err, ErrEmptyEssay)
	require.Zero(t, remote.calls)
}

func TestAnalyzeMockWithoutCredential(t *testing.T) {
	remote := &stubRemote{}
	wf := NewWorkflow(newLocal(), remote, 0, zerolog.New(io.Discard))

	for _, rubric := range models.Rubrics() {
		result, err := wf.Analyze(context.Background(), "short essay", models.AnalysisOptions{Rubric: rubric})
		require.NoError(t, err)
		require.Equal(t, 87, result.Score)
		require.Contains(t, result.Grammar, "Rubric: "+string(rubric))
		require.NotContains(t, result.Clarity, "Why:")
	}

	explained, err := wf.Analyze(context.Background(), "short essay", models.AnalysisOptions{Rubric: models.RubricBasic, Explain: true})
	require.NoError(t, err)
	require.Contains(t, explained.Clarity, "Why:")
	require.Zero(t, remote.calls)
}

func TestAnalyzeMockWaitsForDelay(t *testing.T) {
	wf := NewWorkflow(newLocal(), nil, 30*time.Millisecond, zerolog.New(io.Discard))

	start := time.Now()
	_, err := wf.Analyze(context.Background(), "short essay", models.AnalysisOptions{})
	require.NoError(t, err)
	require.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestAnalyzeRemoteUsesStoredModel(t *testing.T) {
	ctx := context.Background()
	local := newLocal()
	local.SaveCredential(ctx, "sk-test")
	local.SetModel(ctx, "gpt-4o")

	remote := &stubRemote{result: models.AnalysisResult{Grammar: "text\nscore: 91", Score: 91, Raw: "text\nscore: 91"}}
	wf := NewWorkflow(local, remote, 0, zerolog.New(io.Discard))

	result, err := wf.Analyze(ctx, "  my essay  ", models.AnalysisOptions{Rubric: "EVIDENCE", Explain: true})
	require.NoError(t, err)
	require.Equal(t, 91, result.Score)
	require.Empty(t, result.Clarity)
	require.Equal(t, dto.AnalyzeRequest{EssayText: "my essay", Rubric: "evidence", Explain: true, Model: "gpt-4o"}, remote.last)
}

func TestAnalyzeFallsBackOnRemoteFailure(t *testing.T) {
	ctx := context.Background()
	local := newLocal()
	local.SaveCredential(ctx, "sk-test")
	wf := NewWorkflow(local, &stubRemote{err: errors.New("500 Analysis failed")}, 0, zerolog.New(io.Discard))

	result, err := wf.Analyze(ctx, "essay", models.AnalysisOptions{})
	require.NoError(t, err)
	require.Equal(t, FallbackResult(), result)
	require.Equal(t, 75, result.Score)
}

func TestAnalyzeAllowsOnlyOneInFlight(t *testing.T) {
	ctx := context.Background()
	local := newLocal()
	local.SaveCredential(ctx, "sk-test")

	remote := &stubRemote{
		result:  models.AnalysisResult{Grammar: "ok", Score: 80},
		release: make(chan struct{}),
		started: make(chan struct{}),
	}
	wf := NewWorkflow(local, remote, 0, zerolog.New(io.Discard))

	done := make(chan models.AnalysisResult)
	go func() {
		result, _ := wf.Analyze(ctx, "first", models.AnalysisOptions{})
		done <- result
	}()

	<-remote.started
	require.True(t, wf.InFlight())
	_, err := wf.Analyze(ctx, "second", models.AnalysisOptions{})
	require.ErrorIs(t, err, ErrAnalysisInFlight)

	close(remote.release)
	require.Equal(t, 80, (<-done).Score)
	require.False(t, wf.InFlight())
}

func TestAnalyzeClampsRemoteScore(t *testing.T) {
	ctx := context.Background()
	local := newLocal()
	local.SaveCredential(ctx, "sk-test")
	wf := NewWorkflow(local, &stubRemote{result: models.AnalysisResult{Score: 250}}, 0, zerolog.New(io.Discard))

	result, err := wf.Analyze(ctx, "essay", models.AnalysisOptions{})
	require.NoError(t, err)
	require.Equal(t, 100, result.Score)
}
