// Package report renders a scored assessment as the HTML email body sent to
// the respondent.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/nyashahama/ai-readiness-assessments/internal/assessment"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

// Renderer is safe for concurrent use.
type Renderer struct {
	tmpl       *template.Template
	bookingURL string
	footer     string
}

// Option customises a Renderer.
type Option func(*Renderer)

// WithBookingURL adds a call-to-action button linking to url.
func WithBookingURL(url string) Option {
	return func(r *Renderer) { r.bookingURL = url }
}

// WithFooter replaces the default footer line.
func WithFooter(text string) Option {
	return func(r *Renderer) { r.footer = text }
}

// New parses the embedded template.
func New(opts ...Option) (*Renderer, error) {
	tmpl, err := template.New("report.html.tmpl").
		Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
		ParseFS(templateFS, "templates/report.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("report: parse template: %w", err)
	}
	r := &Renderer{
		tmpl:   tmpl,
		footer: "You received this because you completed an AI assessment. Reply to this email with any questions.",
	}
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

type view struct {
	Doc        assessment.Document
	HasCompany bool
	Note       string
	BookingURL string
	Footer     string
}

// Render produces the HTML body. note is an optional personalised cover
// paragraph and may be empty.
func (r *Renderer) Render(res assessment.Result, note string) (string, error) {
	if res.Data == nil {
		return "", fmt.Errorf("report: result for %q has no data", res.Kind)
	}
	doc := res.Data.Document()

	var buf bytes.Buffer
	err := r.tmpl.Execute(&buf, view{
		Doc:        doc,
		HasCompany: doc.Contact.CompanyName != "" && doc.Contact.CompanyName != assessment.Placeholder,
		Note:       strings.TrimSpace(note),
		BookingURL: r.bookingURL,
		Footer:     r.footer,
	})
	if err != nil {
		return "", fmt.Errorf("report: render %s: %w", res.Kind, err)
	}
	return buf.String(), nil
}

// Subject is the email subject line for a result.
func Subject(res assessment.Result) string {
	title := res.Kind.Title()
	if res.Data != nil {
		title = res.Data.Document().Title
	}
	return fmt.Sprintf("Your %s results: %s", title, res.Metadata.Band)
}
