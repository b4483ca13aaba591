package reports

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/aita-go-api/internal/models"
)

// Format identifies an export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
	FormatHTML Format = "html"
)

// ErrUnsupportedFormat is returned for unknown export formats.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat normalises a user supplied format name.
func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case FormatCSV, FormatPDF, FormatXLSX, FormatHTML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, value)
	}
}

// DefaultFilename is the suggested file name for an export.
func DefaultFilename(format Format) string {
	return "ai-teacher-reports." + string(format)
}

const isoMillis = "2006-01-02T15:04:05.000Z"

var exportHeader = []string{"studentName", "essayTitle", "feedback", "score", "date"}

// Export writes every stored report to w. It never modifies the collection.
func (m *Manager) Export(ctx context.Context, w io.Writer, format Format) error {
	reports := m.local.Reports(ctx)

	var err error
	switch format {
	case FormatCSV:
		err = WriteCSV(w, reports)
	case FormatPDF:
		err = WritePDF(w, reports)
	case FormatXLSX:
		err = WriteXLSX(w, reports)
	case FormatHTML:
		err = WriteHTML(w, reports)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}

	m.logger.Info().Str("format", string(format)).Int("count", len(reports)).Msg("reports exported")
	return nil
}

// WriteCSV writes a header row and one row per report.
func WriteCSV(w io.Writer, reports []models.Report) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return err
	}
	for _, row := range exportRows(reports) {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func exportRows(reports []models.Report) [][]string {
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, []string{
			r.StudentName,
			r.EssayTitle,
			r.Feedback,
			strconv.Itoa(r.Score),
			isoDate(r.CreatedAt),
		})
	}
	return rows
}

func isoDate(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(isoMillis)
}
