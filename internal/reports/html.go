package reports

import (
	"html"
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/noah-isme/aita-go-api/internal/models"
)

var htmlTemplate = template.Must(template.New("reports").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>AI Teacher Assistant - Reports</title></head>
<body>
<h1>AI Teacher Assistant - Reports</h1>
<table>
<thead><tr><th>Student</th><th>Title</th><th>Feedback</th><th>Score</th><th>Date</th></tr></thead>
<tbody>
{{- range .}}
<tr><td>{{.Student}}</td><td>{{.Title}}</td><td>{{.Feedback}}</td><td>{{.Score}}</td><td>{{.Date}}</td></tr>
{{- end}}
</tbody>
</table>
</body>
</html>
`))

type htmlRow struct {
	Student  string
	Title    string
	Feedback template.HTML
	Score    string
	Date     string
}

// feedbackPolicy admits only the line breaks feedbackMarkup inserts.
var feedbackPolicy = bluemonday.NewPolicy().AllowElements("br")

// feedbackMarkup escapes text and turns newlines into <br> so multi-line
// feedback keeps its layout. Text that looks like a tag stays visible.
func feedbackMarkup(text string) template.HTML {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = html.EscapeString(line)
	}
	return template.HTML(feedbackPolicy.Sanitize(strings.Join(lines, "<br>")))
}

// WriteHTML renders a standalone reports table.
func WriteHTML(w io.Writer, reports []models.Report) error {
	rows := make([]htmlRow, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, htmlRow{
			Student:  r.StudentName,
			Title:    r.EssayTitle,
			Feedback: feedbackMarkup(r.Feedback),
			Score:    strconv.Itoa(r.Score),
			Date:     isoDate(r.CreatedAt),
		})
	}
	return htmlTemplate.Execute(w, rows)
}
