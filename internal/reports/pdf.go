package reports

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/noah-isme/aita-go-api/internal/models"
)

const (
	pdfTitle      = "AI Teacher Assistant - Reports"
	pdfMargin     = 40.0
	pdfTextWidth  = 515.0
	pdfLineHeight = 14.0
	pdfTitleSize  = 16.0
	pdfEntrySize  = 11.0
	pdfEntryBreak = 760.0
	pdfLineBreak  = 780.0
	pdfEntryGap   = 10.0
)

// TextOp is one positioned line of the document.
type TextOp struct {
	Page int
	Y    float64
	Size float64
	Text string
}

// LayoutPDF places the title, entry headers and wrapped feedback lines.
// split wraps a string to the given width at the current font size.
func LayoutPDF(reports []models.Report, split func(text string, width float64) []string) []TextOp {
	page := 1
	y := pdfMargin
	ops := []TextOp{{Page: page, Y: y, Size: pdfTitleSize, Text: pdfTitle}}
	y += 20

	for idx, r := range reports {
		if y > pdfEntryBreak {
			page++
			y = pdfMargin
		}
		ops = append(ops, TextOp{
			Page: page,
			Y:    y,
			Size: pdfEntrySize,
			Text: fmt.Sprintf("%d. %s - %s (%d)", idx+1, r.StudentName, r.EssayTitle, r.Score),
		})
		y += pdfLineHeight

		feedback := strings.ReplaceAll(r.Feedback, "\r\n", " ")
		feedback = strings.ReplaceAll(feedback, "\n", " ")
		lines := split(feedback, pdfTextWidth)
		if len(lines) == 0 {
			lines = []string{""}
		}
		for _, line := range lines {
			if y > pdfLineBreak {
				page++
				y = pdfMargin
			}
			ops = append(ops, TextOp{Page: page, Y: y, Size: pdfEntrySize, Text: line})
			y += pdfLineHeight
		}
		y += pdfEntryGap
	}
	return ops
}

// WritePDF renders reports as an A4 document measured in points.
func WritePDF(w io.Writer, reports []models.Report) error {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	doc.SetAutoPageBreak(false, pdfMargin)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	encoded := make([]models.Report, len(reports))
	for i, r := range reports {
		r.StudentName = tr(r.StudentName)
		r.EssayTitle = tr(r.EssayTitle)
		r.Feedback = tr(r.Feedback)
		encoded[i] = r
	}

	split := func(text string, width float64) []string {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		doc.SetFont("Helvetica", "", pdfEntrySize)
		return doc.SplitText(text, width)
	}

	page := 0
	for _, op := range LayoutPDF(encoded, split) {
		for page < op.Page {
			doc.AddPage()
			page++
		}
		doc.SetFont("Helvetica", "", op.Size)
		doc.Text(pdfMargin, op.Y, op.Text)
	}

	if err := doc.Error(); err != nil {
		return err
	}
	return doc.Output(w)
}
