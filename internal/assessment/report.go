package assessment

import (
	"strconv"
	"time"

	"github.com/nyashahama/ai-readiness-assessments/internal/scoring"
)

// Placeholder fills every report field the engine had nothing for, so the
// templating layer never sees an empty value.
const Placeholder = "N/A"

// dateLayout is how the response date is printed in reports.
const dateLayout = "2 January 2006"

// ─── SHARED FIELD GROUPS ──────────────────────────────────────────────────────

// ContactFields is the respondent block repeated at the top of every report.
type ContactFields struct {
	Email        string `json:"email"`
	ContactName  string `json:"contact_name"`
	CompanyName  string `json:"company_name"`
	ResponseDate string `json:"response_date"`
}

// QuestionFields is what one question contributes to a report.
type QuestionFields struct {
	Title          string `json:"title"`
	Status         string `json:"status"`
	Risk           string `json:"risk"`
	Playback       string `json:"playback"`
	Interpretation string `json:"interpretation"`
}

// GapFields is one ranked priority gap.
type GapFields struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
}

// ─── RESULT ───────────────────────────────────────────────────────────────────

// Metadata is the machine-facing half of a result, consumed by the CRM sync,
// the lead log and operational logging.
type Metadata struct {
	Assessment     Kind           `json:"assessment"`
	FinalScore     int            `json:"final_score"`
	Band           string         `json:"band"`
	RawScore       int            `json:"raw_score"`
	MaxRawScore    int            `json:"max_raw_score"`
	RawScores      map[string]int `json:"raw_scores"`
	Flags          []string       `json:"flags"`
	Escalated      bool           `json:"escalated"`
	UnknownAnswers int            `json:"unknown_answers"`
	ProcessedAt    time.Time      `json:"processed_at"`
}

// ReportData is the typed, template-facing half of a result. Implementations
// are ShadowAIData, BusinessReadinessData, BoardGovernanceData and
// PersonalReadinessData.
type ReportData interface {
	Kind() Kind
	// Document arranges the typed fields into the shape the renderer walks.
	Document() Document

	sealed()
}

// Result is the outcome of scoring one submission.
type Result struct {
	Kind     Kind       `json:"kind"`
	Data     ReportData `json:"data"`
	Metadata Metadata   `json:"metadata"`
}

// Document is a variant-neutral view of a report for rendering.
type Document struct {
	Kind       Kind
	Title      string
	Contact    ContactFields
	ScoreLabel string
	Score      string
	Band       string
	Narrative  string
	Banner     string
	Questions  []QuestionFields
	Gaps       []GapFields
	Steps      []string
	Notes      []string // personalised paragraphs, when the variant has any
}

// ─── ASSEMBLY HELPERS ─────────────────────────────────────────────────────────

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

func contactFields(c Contact, processedAt time.Time) ContactFields {
	return ContactFields{
		Email:        orPlaceholder(c.Email),
		ContactName:  orPlaceholder(c.Name),
		CompanyName:  orPlaceholder(c.Company),
		ResponseDate: processedAt.Format(dateLayout),
	}
}

// questionFields looks up key in the engine result. A key missing from the
// result yields placeholders throughout; the engine has already flagged it.
func questionFields(res scoring.Result, key string) QuestionFields {
	q, ok := res.Question(key)
	if !ok {
		return QuestionFields{
			Title: Placeholder, Status: Placeholder, Risk: Placeholder,
			Playback: Placeholder, Interpretation: Placeholder,
		}
	}
	return QuestionFields{
		Title:          orPlaceholder(q.Title),
		Status:         orPlaceholder(q.Status),
		Risk:           orPlaceholder(q.Risk.String()),
		Playback:       orPlaceholder(q.Playback),
		Interpretation: orPlaceholder(q.Interpretation),
	}
}

func gapFields(res scoring.Result, i int) GapFields {
	if i >= len(res.Gaps) {
		return GapFields{Title: Placeholder, Description: Placeholder, Recommendation: Placeholder}
	}
	g := res.Gaps[i].Gap
	return GapFields{
		Title:          orPlaceholder(g.Title),
		Description:    orPlaceholder(g.Description),
		Recommendation: orPlaceholder(g.Recommendation),
	}
}

func step(res scoring.Result, i int) string {
	if i >= len(res.Steps) {
		return Placeholder
	}
	return orPlaceholder(res.Steps[i])
}

func metadata(kind Kind, res scoring.Result) Metadata {
	return Metadata{
		Assessment:     kind,
		FinalScore:     res.Score,
		Band:           res.Band.Label,
		RawScore:       res.RawScore,
		MaxRawScore:    res.MaxRawScore,
		RawScores:      res.RawScores(),
		Flags:          append([]string{}, res.Flags...),
		Escalated:      res.Escalated,
		UnknownAnswers: res.UnknownCount,
		ProcessedAt:    res.ProcessedAt,
	}
}

func itoa(n int) string { return strconv.Itoa(n) }

// nonPlaceholder drops placeholder entries from a step list for rendering.
func nonPlaceholder(items ...string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s != Placeholder {
			out = append(out, s)
		}
	}
	return out
}
