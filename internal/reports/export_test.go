package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/aita-go-api/internal/models"
)

func sampleReports() []models.Report {
	created := time.Date(2024, 5, 6, 7, 8, 9, 10_000_000, time.UTC).UnixMilli()
	return []models.Report{
		{StudentName: "Ana", EssayTitle: "My Trip", EssayText: "x", Feedback: "Rubric: basic\n\nGrammar/Corrections\nGood, mostly.", Score: 87, CreatedAt: created},
		{StudentName: "Ben", EssayTitle: "Volcanoes", EssayText: "x", Feedback: "Use <b>evidence</b> & sources", Score: 70, CreatedAt: created - 1000},
		{StudentName: "Cleo", EssayTitle: "Summer", EssayText: "x", Feedback: "Fine", Score: 90, CreatedAt: created - 2000},
	}
}

func TestExportCSV(t *testing.T) {
	ctx := context.Background()
	manager, local := newManager(t)
	local.SaveReports(ctx, sampleReports())

	var buf bytes.Buffer
	require.NoError(t, manager.Export(ctx, &buf, FormatCSV))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	require.Equal(t, []string{"studentName", "essayTitle", "feedback", "score", "date"}, records[0])

	for _, row := range records[1:] {
		_, err := time.Parse(time.RFC3339, row[4])
		require.NoError(t, err)
	}
	require.Equal(t, "2024-05-06T07:08:09.010Z", records[1][4])
	require.Equal(t, "Rubric: basic\n\nGrammar/Corrections\nGood, mostly.", records[1][2])
	require.Equal(t, "87", records[1][3])

	require.Len(t, local.Reports(ctx), 3)
}

func TestExportCSVEmptyCollection(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	require.Equal(t, "studentName,essayTitle,feedback,score,date\n", buf.String())
}

func TestExportXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleReports()))

	book, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows(xlsxSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, "studentName", rows[0][0])
	require.Equal(t, "Ben", rows[2][0])
	require.Equal(t, "70", rows[2][3])
}

func TestExportHTMLKeepsTagLikeText(t *testing.T) {
	reports := sampleReports()
	reports[2].Feedback = "Use <thesis> statements\n<script>alert(1)</script>"
	reports[2].StudentName = "<i>Cleo</i>"

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, reports))

	out := buf.String()
	require.Contains(t, out, "<td>Ana</td>")
	require.Contains(t, out, "Use &lt;b&gt;evidence&lt;/b&gt; &amp; sources")
	require.Contains(t, out, "Use &lt;thesis&gt; statements")
	require.Contains(t, out, "&lt;script&gt;alert(1)&lt;/script&gt;")
	require.Contains(t, out, "<td>&lt;i&gt;Cleo&lt;/i&gt;</td>")
	require.Contains(t, out, "Grammar/Corrections<br")
	require.NotContains(t, out, "<b>")
	require.NotContains(t, out, "<script>")
	require.Equal(t, 3, strings.Count(out, "<tr><td>"))
}

func TestExportPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, sampleReports()))
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestExportUnknownFormat(t *testing.T) {
	manager, _ := newManager(t)
	err := manager.Export(context.Background(), &bytes.Buffer{}, Format("docx"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = ParseFormat("DOCX")
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	format, err := ParseFormat(" PDF ")
	require.NoError(t, err)
	require.Equal(t, FormatPDF, format)
	require.Equal(t, "ai-teacher-reports.pdf", DefaultFilename(format))
}

func oneLinePerCall(text string, _ float64) []string {
	return []string{text}
}

func TestLayoutPDFNumbersEntries(t *testing.T) {
	ops := LayoutPDF(sampleReports(), oneLinePerCall)

	require.Equal(t, TextOp{Page: 1, Y: 40, Size: 16, Text: "AI Teacher Assistant - Reports"}, ops[0])
	require.Equal(t, TextOp{Page: 1, Y: 60, Size: 11, Text: "1. Ana - My Trip (87)"}, ops[1])
	require.Equal(t, "Rubric: basic  Grammar/Corrections Good, mostly.", ops[2].Text)
	require.Equal(t, 74.0, ops[2].Y)
	require.Equal(t, TextOp{Page: 1, Y: 98, Size: 11, Text: "2. Ben - Volcanoes (70)"}, ops[3])
}

func TestLayoutPDFPaginates(t *testing.T) {
	reports := make([]models.Report, 30)
	for i := range reports {
		reports[i] = models.Report{StudentName: "S", EssayTitle: "T", Feedback: "line", Score: i}
	}

	ops := LayoutPDF(reports, oneLinePerCall)

	maxPage := 1
	for _, op := range ops {
		require.LessOrEqual(t, op.Y, 794.0)
		if op.Page > maxPage {
			maxPage = op.Page
			require.Equal(t, 40.0, op.Y)
		}
	}
	require.Equal(t, 2, maxPage)
}

func TestLayoutPDFBreaksInsideLongFeedback(t *testing.T) {
	lines := make([]string, 60)
	for i := range lines {
		lines[i] = "w"
	}
	split := func(string, float64) []string { return lines }

	ops := LayoutPDF([]models.Report{{StudentName: "A", EssayTitle: "B", Score: 1}}, split)
	require.Len(t, ops, 62)
	require.Equal(t, 1, ops[1].Page)
	require.Equal(t, 2, ops[len(ops)-1].Page)
}
