package scoring_test

import (
	"time"

	"github.com/nyashahama/ai-readiness-assessments/internal/scoring"
)

// ─── Fixtures ─────────────────────────────────────────────────────────────────

var fixedTime = time.Date(2026, 3, 1, 9, 30, 0, 0, time.FixedZone("SAST", 2*60*60))

func fixedClock() time.Time { return fixedTime }

func riskBands() []scoring.Band {
	return []scoring.Band{
		{Min: 0, Max: 24, Label: "Low", Narrative: "low", Recommendations: []string{"keep going"}},
		{Min: 25, Max: 49, Label: "Moderate", Narrative: "moderate", Recommendations: []string{"tighten up"}},
		{Min: 50, Max: 74, Label: "High", Narrative: "high", Recommendations: []string{"act now"}},
		{Min: 75, Max: 100, Label: "Severe", Narrative: "severe", Recommendations: []string{"stop the bleeding", "call counsel"}},
	}
}

// riskConfig is a small higher-is-worse config: two single-choice questions
// worth 10 each and one capped multi-select worth 10.
func riskConfig() scoring.Config {
	single := func(key string) scoring.Question {
		return scoring.Question{
			Key:   key,
			Title: "Title " + key,
			Kind:  scoring.SingleChoice,
			Answers: map[string]scoring.Outcome{
				"good":      {Score: 0, Risk: scoring.RiskLow, Status: "ok", Playback: "good"},
				"partial":   {Score: 5, Risk: scoring.RiskMedium, Status: "partial", Playback: "partial"},
				"bad":       {Score: 10, Risk: scoring.RiskCritical, Status: "bad", Playback: "bad"},
				"dont_know": {Score: 7, Risk: scoring.RiskUnknown, Status: "unknown", Playback: "unsure", Unknown: true},
			},
			Gap: scoring.Gap{Title: "Gap " + key, Description: "d", Recommendation: "r"},
		}
	}
	return scoring.Config{
		Name:     "risk",
		Polarity: scoring.HigherIsWorse,
		Questions: []scoring.Question{
			single("policy"),
			single("inventory"),
			{
				Key:   "concerns",
				Title: "Concerns",
				Kind:  scoring.MultiSelect,
				Cap:   10,
				Answers: map[string]scoring.Outcome{
					"leaks":  {Score: 4, Playback: "data leaks"},
					"bias":   {Score: 4, Playback: "bias"},
					"costs":  {Score: 4, Playback: "costs"},
					"vendor": {Score: 2, Playback: "vendor lock-in"},
				},
				Ranges: []scoring.Range{
					{Min: 0, Max: 0, Outcome: scoring.Outcome{Status: "none", Risk: scoring.RiskLow, Playback: "nothing selected"}},
					{Min: 1, Max: 5, Outcome: scoring.Outcome{Status: "some", Risk: scoring.RiskMedium}},
					{Min: 6, Max: 10, Outcome: scoring.Outcome{Status: "many", Risk: scoring.RiskHigh}},
				},
				Gap: scoring.Gap{Title: "Gap concerns"},
			},
		},
		Bands:          riskBands(),
		MaxRawScore:    30,
		GapPlaceholder: scoring.Gap{Title: "N/A"},
		Unmapped: scoring.UnmappedPolicy{
			Status: "Not assessed", Risk: scoring.RiskUnknown, Playback: "No answer recorded",
		},
		Escalation: &scoring.EscalationRule{Threshold: 2},
		Override: &scoring.OverrideRule{
			Question: "policy",
			Answer:   "bad",
			Banner:   "Act immediately",
			Steps:    []string{"contain", "notify"},
		},
	}
}

// readinessConfig is a higher-is-better config with an unscored question and a
// tier rule.
func readinessConfig() scoring.Config {
	scale := map[string]scoring.Outcome{
		"none":  {Score: 0, Risk: scoring.RiskHigh, Status: "absent"},
		"some":  {Score: 2, Risk: scoring.RiskMedium, Status: "forming"},
		"most":  {Score: 4, Risk: scoring.RiskLow, Status: "strong"},
		"fully": {Score: 5, Risk: scoring.RiskLow, Status: "leading"},
	}
	q := func(key string) scoring.Question {
		return scoring.Question{
			Key: key, Title: key, Kind: scoring.SingleChoice, Answers: scale,
			Gap: scoring.Gap{Title: "Improve " + key},
		}
	}
	return scoring.Config{
		Name:     "readiness",
		Polarity: scoring.HigherIsBetter,
		Questions: []scoring.Question{
			q("alpha"), q("beta"), q("gamma"), q("delta"),
			{
				Key: "time", Title: "Time", Kind: scoring.SingleChoice, Unscored: true,
				Answers: map[string]scoring.Outcome{
					"low":  {Playback: "an hour a week"},
					"high": {Playback: "a day a week"},
				},
			},
		},
		Bands: []scoring.Band{
			{Min: 0, Max: 24, Label: "Blind"},
			{Min: 25, Max: 49, Label: "Curious"},
			{Min: 50, Max: 74, Label: "Building"},
			{Min: 75, Max: 100, Label: "Leading", Recommendations: []string{"share what works"}},
		},
		MaxRawScore:    20,
		GapPlaceholder: scoring.Gap{Title: "N/A"},
		Unmapped:       scoring.UnmappedPolicy{Status: "Not assessed"},
		Tiers: []scoring.TierRule{{
			Name:        "capacity",
			First:       "time",
			Second:      "alpha",
			Tiers:       map[string]int{"low|none": 1, "low|fully": 2, "high|none": 3, "high|fully": 4},
			Narratives:  []string{"one", "two", "three", "four"},
			DefaultTier: 2,
		}},
	}
}

func mustEngine(t interface {
	Helper()
	Fatalf(string, ...any)
}, cfg scoring.Config) *scoring.Engine {
	t.Helper()
	e, err := scoring.New(cfg, scoring.WithClock(fixedClock))
	if err != nil {
		t.Fatalf("scoring.New: %v", err)
	}
	return e
}
