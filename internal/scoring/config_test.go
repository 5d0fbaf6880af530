package scoring_test

import (
	"strings"
	"testing"

	"github.com/nyashahama/ai-readiness-assessments/internal/scoring"
)

// ─── Config.Validate ──────────────────────────────────────────────────────────

func TestValidate_FixturesAreValid(t *testing.T) {
	for _, cfg := range []scoring.Config{riskConfig(), readinessConfig()} {
		if err := cfg.Validate(); err != nil {
			t.Errorf("%s: unexpected error: %v", cfg.Name, err)
		}
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*scoring.Config)
		wantErr string
	}{
		{
			name:    "max raw mismatch",
			mutate:  func(c *scoring.Config) { c.MaxRawScore = 31 },
			wantErr: "does not match",
		},
		{
			name:    "band gap",
			mutate:  func(c *scoring.Config) { c.Bands[1].Min = 26 },
			wantErr: "starts at 26",
		},
		{
			name:    "band overlap",
			mutate:  func(c *scoring.Config) { c.Bands[2].Min = 40 },
			wantErr: "starts at 40",
		},
		{
			name:    "bands stop short",
			mutate:  func(c *scoring.Config) { c.Bands[3].Max = 99 },
			wantErr: "ends at 99",
		},
		{
			name: "non-monotonic risk",
			mutate: func(c *scoring.Config) {
				c.Questions[0].Answers = map[string]scoring.Outcome{
					"a": {Score: 0, Risk: scoring.RiskHigh},
					"b": {Score: 10, Risk: scoring.RiskLow},
				}
			},
			wantErr: "lower risk",
		},
		{
			name:    "duplicate key",
			mutate:  func(c *scoring.Config) { c.Questions[1].Key = "policy" },
			wantErr: "duplicate question key",
		},
		{
			name:    "override unknown answer",
			mutate:  func(c *scoring.Config) { c.Override.Answer = "catastrophic" },
			wantErr: "unknown answer",
		},
		{
			name:    "override on multi-select",
			mutate:  func(c *scoring.Config) { c.Override.Question = "concerns" },
			wantErr: "must be single-choice",
		},
		{
			name:    "ranges do not reach cap",
			mutate:  func(c *scoring.Config) { c.Questions[2].Ranges = c.Questions[2].Ranges[:2] },
			wantErr: "ranges end at 5",
		},
		{
			name:    "escalation threshold",
			mutate:  func(c *scoring.Config) { c.Escalation.Threshold = 0 },
			wantErr: "escalation threshold",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := riskConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
			if _, err := scoring.New(cfg); err == nil {
				t.Error("New accepted an invalid config")
			}
		})
	}
}

func TestValidate_TierRule(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*scoring.TierRule)
	}{
		{"unknown question", func(r *scoring.TierRule) { r.First = "nope" }},
		{"tier out of range", func(r *scoring.TierRule) { r.Tiers["low|none"] = 5 }},
		{"default out of range", func(r *scoring.TierRule) { r.DefaultTier = 0 }},
		{"no narratives", func(r *scoring.TierRule) { r.Narratives = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := readinessConfig()
			tt.mutate(&cfg.Tiers[0])
			if err := cfg.Validate(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestQuestion_MaxScore(t *testing.T) {
	cfg := riskConfig()
	if got := cfg.Questions[0].MaxScore(); got != 10 {
		t.Errorf("single max = %d, want 10", got)
	}
	if got := cfg.Questions[2].MaxScore(); got != 10 {
		t.Errorf("multi max = %d, want cap 10", got)
	}
}

func TestRiskLevel_String(t *testing.T) {
	if scoring.RiskCritical.String() != "Critical" || scoring.RiskNone.String() != "" {
		t.Errorf("unexpected labels: %q %q", scoring.RiskCritical, scoring.RiskNone)
	}
}
