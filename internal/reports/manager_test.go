package reports

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aita-go-api/internal/analysis"
	"github.com/noah-isme/aita-go-api/internal/models"
	"github.com/noah-isme/aita-go-api/internal/store"
)

func newManager(t *testing.T) (*Manager, *store.Local) {
	t.Helper()
	local := store.NewLocal(store.NewMemoryStore(), zerolog.New(io.Discard))
	return NewManager(local, zerolog.New(io.Discard)), local
}

func TestCreatePrependsAndClearsDraft(t *testing.T) {
	ctx := context.Background()
	manager, local := newManager(t)
	local.SetDraft(ctx, "work in progress")

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	manager.WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	})

	names := []string{"Ana", "Ben", "Cleo"}
	for _, name := range names {
		_, err := manager.Create(ctx, Submission{
			StudentName: name,
			EssayTitle:  "Essay",
			EssayText:   "text",
			Rubric:      models.RubricBasic,
		}, models.AnalysisResult{Grammar: "ok", Score: 80})
		require.NoError(t, err)
	}

	listed := manager.List(ctx, "")
	require.Len(t, listed, 3)
	require.Equal(t, "Cleo", listed[0].StudentName)
	require.Equal(t, "Ben", listed[1].StudentName)
	require.Equal(t, "Ana", listed[2].StudentName)
	require.Equal(t, base.Add(3*time.Minute).UnixMilli(), listed[0].CreatedAt)
	require.Empty(t, local.Draft(ctx))
}

func TestCreateRejectsMissingMetadata(t *testing.T) {
	ctx := context.Background()
	manager, local := newManager(t)

	_, err := manager.Create(ctx, Submission{StudentName: "  ", EssayTitle: "T", EssayText: "x"}, models.AnalysisResult{})
	require.ErrorIs(t, err, ErrInvalidSubmission)
	require.Empty(t, local.Reports(ctx))
}

func TestCreateFormatsFeedback(t *testing.T) {
	ctx := context.Background()
	manager, _ := newManager(t)

	report, err := manager.Create(ctx, Submission{
		StudentName: " Ana ",
		EssayTitle:  "My Trip",
		EssayText:   "short essay",
		Rubric:      models.RubricEvidence,
		Explain:     true,
	}, models.AnalysisResult{Grammar: "All good.\nScore: 90", Score: 140})
	require.NoError(t, err)

	require.Equal(t, "Ana", report.StudentName)
	require.Equal(t, 100, report.Score)
	require.Equal(t, "Rubric: evidence (explained)\n\nGrammar/Corrections\nAll good.\nScore: 90\n\nClarity Suggestions\n—", report.Feedback)
}

func TestListFiltersCaseInsensitively(t *testing.T) {
	ctx := context.Background()
	manager, local := newManager(t)
	local.SaveReports(ctx, []models.Report{
		{StudentName: "Ana", EssayTitle: "My Trip", EssayText: "x", Feedback: "Rubric: basic", Score: 87, CreatedAt: 3},
		{StudentName: "Ben", EssayTitle: "Volcanoes", EssayText: "x", Feedback: "Needs EVIDENCE", Score: 70, CreatedAt: 2},
		{StudentName: "Cleo", EssayTitle: "Summer", EssayText: "x", Feedback: "Rubric: mechanics", Score: 90, CreatedAt: 1},
	})

	require.Len(t, manager.List(ctx, ""), 3)
	require.Len(t, manager.List(ctx, "   "), 3)

	byName := manager.List(ctx, "ANA")
	require.Len(t, byName, 1)
	require.Equal(t, "Ana", byName[0].StudentName)

	byTitle := manager.List(ctx, " volcano ")
	require.Len(t, byTitle, 1)
	require.Equal(t, "Ben", byTitle[0].StudentName)

	byFeedback := manager.List(ctx, "rubric")
	require.Len(t, byFeedback, 2)
	require.Equal(t, "Ana", byFeedback[0].StudentName)
	require.Equal(t, "Cleo", byFeedback[1].StudentName)

	require.Empty(t, manager.List(ctx, "zebra"))
}

func TestListReturnsSnapshot(t *testing.T) {
	ctx := context.Background()
	manager, local := newManager(t)
	local.SaveReports(ctx, []models.Report{{StudentName: "Ana", EssayTitle: "T", EssayText: "x", Feedback: "f", Score: 1, CreatedAt: 1}})

	snapshot := manager.List(ctx, "")
	snapshot[0].StudentName = "changed"

	require.Equal(t, "Ana", manager.List(ctx, "")[0].StudentName)
}

func TestMockAnalysisApprovedIntoReport(t *testing.T) {
	ctx := context.Background()
	manager, local := newManager(t)
	workflow := analysis.NewWorkflow(local, nil, 0, zerolog.New(io.Discard))

	before := len(manager.List(ctx, ""))

	result, err := workflow.Analyze(ctx, "short essay", models.AnalysisOptions{Rubric: models.RubricBasic})
	require.NoError(t, err)
	require.Equal(t, 87, result.Score)
	require.Contains(t, result.Grammar, "Rubric: basic")

	start := time.Now().UnixMilli()
	_, err = manager.Create(ctx, Submission{
		StudentName: "Ana",
		EssayTitle:  "My Trip",
		EssayText:   "short essay",
		Rubric:      models.RubricBasic,
	}, result)
	require.NoError(t, err)

	listed := manager.List(ctx, "")
	require.Len(t, listed, before+1)
	require.Equal(t, 87, listed[0].Score)
	require.Equal(t, "Ana", listed[0].StudentName)
	require.InDelta(t, start, listed[0].CreatedAt, 5000)
}

func TestCreateKeepsEntriesTheReaderSkips(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	local := store.NewLocal(mem, zerolog.New(io.Discard))
	manager := NewManager(local, zerolog.New(io.Discard))

	old := `{"studentName":"Old","essayTitle":"Kept","essayText":"x","feedback":"f","score":87.5,"createdAt":1}`
	require.NoError(t, mem.Set(ctx, store.KeyReports, []byte("["+old+"]")))

	_, err := manager.Create(ctx, Submission{StudentName: "Ana", EssayTitle: "My Trip", EssayText: "short essay"}, models.AnalysisResult{Grammar: "ok", Score: 87})
	require.NoError(t, err)

	raw, err := mem.Get(ctx, store.KeyReports)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"studentName":"Old"`)
	require.Contains(t, string(raw), `"studentName":"Ana"`)

	listed := manager.List(ctx, "")
	require.Len(t, listed, 1)
	require.Equal(t, "Ana", listed[0].StudentName)
}

func TestCreateRefusesToOverwriteCorruptCollection(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	local := store.NewLocal(mem, zerolog.New(io.Discard))
	manager := NewManager(local, zerolog.New(io.Discard))
	require.NoError(t, mem.Set(ctx, store.KeyReports, []byte(`"oops"`)))
	local.SetDraft(ctx, "keep me")

	_, err := manager.Create(ctx, Submission{StudentName: "Ana", EssayTitle: "T", EssayText: "x"}, models.AnalysisResult{Score: 50})
	require.ErrorIs(t, err, ErrReportNotSaved)
	require.Equal(t, "keep me", local.Draft(ctx))
}
