// Package advisor writes a short, personalised cover note for a scored
// assessment using an LLM. Notes are optional: delivery never waits on them
// succeeding.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/nyashahama/ai-readiness-assessments/internal/assessment"
)

// Brief is the subset of a result the model sees. Contact email and answer
// identifiers are deliberately absent.
type Brief struct {
	Assessment string
	FirstName  string
	Company    string
	ScoreLabel string
	Score      string
	Band       string
	Narrative  string
	Banner     string
	Gaps       []string
	Steps      []string
}

// BriefFrom extracts the prompt material from a result.
func BriefFrom(res assessment.Result) Brief {
	doc := res.Data.Document()
	first, _, _ := strings.Cut(strings.TrimSpace(doc.Contact.ContactName), " ")
	b := Brief{
		Assessment: doc.Title,
		FirstName:  first,
		ScoreLabel: doc.ScoreLabel,
		Score:      doc.Score,
		Band:       doc.Band,
		Narrative:  doc.Narrative,
		Banner:     doc.Banner,
		Steps:      doc.Steps,
	}
	if doc.Contact.CompanyName != assessment.Placeholder {
		b.Company = doc.Contact.CompanyName
	}
	for _, g := range doc.Gaps {
		if g.Title == assessment.Placeholder || g.Title == "Not applicable" {
			continue
		}
		b.Gaps = append(b.Gaps, g.Title+": "+g.Description)
	}
	return b
}

// Writer is the interface the delivery worker uses to generate cover notes.
// Implementations must be safe to call concurrently.
type Writer interface {
	CoverNote(ctx context.Context, b Brief) (string, error)
}

// maxNoteRunes bounds what goes into the email regardless of the model.
const maxNoteRunes = 1200

const systemPrompt = `You are a senior AI consultant writing to someone who has just completed a self-assessment.
You will receive their assessment name, score, band, narrative, priority gaps and recommended steps.

Write a cover note of two short paragraphs, under 150 words in total:
1. Acknowledge where they stand in plain language, referring to the band by name.
2. Point to the single most valuable next action drawn from the gaps or steps.

Plain text only. No markdown, no headings, no bullet points, no sign-off, no greeting line.
Do not invent facts that are not in the brief. If there is an urgent banner, address it first.`

func buildPrompt(b Brief) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "assessment: %s\n", b.Assessment)
	if b.FirstName != "" {
		fmt.Fprintf(&sb, "first_name: %s\n", b.FirstName)
	}
	if b.Company != "" {
		fmt.Fprintf(&sb, "organisation: %s\n", b.Company)
	}
	fmt.Fprintf(&sb, "%s: %s/100\n", strings.ToLower(b.ScoreLabel), b.Score)
	fmt.Fprintf(&sb, "band: %s\n", b.Band)
	fmt.Fprintf(&sb, "band_narrative: %s\n", b.Narrative)
	if b.Banner != "" {
		fmt.Fprintf(&sb, "urgent_banner: %s\n", b.Banner)
	}
	sb.WriteString("priority_gaps:\n")
	for _, g := range b.Gaps {
		fmt.Fprintf(&sb, "- %s\n", g)
	}
	sb.WriteString("recommended_steps:\n")
	for _, s := range b.Steps {
		fmt.Fprintf(&sb, "- %s\n", s)
	}
	return sb.String()
}

// cleanNote strips stray fences and trims the note to maxNoteRunes.
func cleanNote(raw string) (string, error) {
	note := strings.TrimSpace(raw)
	note = strings.TrimPrefix(note, "```text")
	note = strings.TrimPrefix(note, "```")
	note = strings.TrimSuffix(note, "```")
	note = strings.TrimSpace(note)
	if note == "" {
		return "", fmt.Errorf("advisor: empty note")
	}
	if r := []rune(note); len(r) > maxNoteRunes {
		note = strings.TrimSpace(string(r[:maxNoteRunes])) + "…"
	}
	return note, nil
}
