package report_test

import (
	"strings"
	"testing"
	"time"

	"github.com/nyashahama/ai-readiness-assessments/internal/assessment"
	"github.com/nyashahama/ai-readiness-assessments/internal/report"
	"github.com/nyashahama/ai-readiness-assessments/internal/scoring"
)

func scored(t *testing.T, sub assessment.Submission) assessment.Result {
	t.Helper()
	svc, err := assessment.NewService(scoring.WithClock(func() time.Time {
		return time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	}))
	if err != nil {
		t.Fatal(err)
	}
	res, err := svc.Process(sub)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func incidentSubmission(name string) assessment.ShadowAISubmission {
	return assessment.ShadowAISubmission{
		Contact:   assessment.Contact{Email: "a@b.co", Name: name, Company: "Acme"},
		AIPolicy:  "none",
		Incidents: "confirmed",
	}
}

func TestRender_IncludesHeadlineBannerAndSteps(t *testing.T) {
	r, err := report.New(report.WithBookingURL("https://example.com/book"))
	if err != nil {
		t.Fatal(err)
	}
	res := scored(t, incidentSubmission("Lindiwe"))
	html, err := r.Render(res, "A short personal note.")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	data := res.Data.(assessment.ShadowAIData)
	for _, want := range []string{
		"Shadow AI Risk Assessment",
		"Lindiwe, Acme",
		"1 June 2026",
		data.RiskBand,
		"Urgent:",
		"Contain the incident",
		"A short personal note.",
		"https://example.com/book",
		"AI acceptable-use policy",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered HTML missing %q", want)
		}
	}
}

func TestRender_EscapesUserInput(t *testing.T) {
	r, err := report.New()
	if err != nil {
		t.Fatal(err)
	}
	html, err := r.Render(scored(t, incidentSubmission(`<script>alert(1)</script>`)), "")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(html, "<script>") {
		t.Error("contact name was not escaped")
	}
	if strings.Contains(html, "Book a free review call") {
		t.Error("booking button rendered without a URL")
	}
}

func TestRender_NoBannerWithoutIncident(t *testing.T) {
	r, err := report.New()
	if err != nil {
		t.Fatal(err)
	}
	sub := assessment.BusinessReadinessSubmission{
		Contact:  assessment.Contact{Email: "a@b.co", Name: "Pieter", Company: "Veld"},
		Strategy: "documented",
	}
	html, err := r.Render(scored(t, sub), "")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(html, "Urgent:") {
		t.Error("banner rendered for a result without one")
	}
	if !strings.Contains(html, "Priority gaps") {
		t.Error("gap section missing")
	}
}

func TestRender_RejectsEmptyResult(t *testing.T) {
	r, _ := report.New()
	if _, err := r.Render(assessment.Result{Kind: assessment.KindShadowAI}, ""); err == nil {
		t.Error("expected an error for a result without data")
	}
}

func TestSubject(t *testing.T) {
	res := scored(t, incidentSubmission("A"))
	got := report.Subject(res)
	if !strings.Contains(got, "Shadow AI Risk Assessment") || !strings.Contains(got, res.Metadata.Band) {
		t.Errorf("subject = %q", got)
	}
}
