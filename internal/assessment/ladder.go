package assessment

import "github.com/nyashahama/ai-readiness-assessments/internal/scoring"

// rung is one answer on a four-step maturity ladder, lowest first.
type rung struct {
	id             string
	playback       string
	interpretation string
}

// Point scales for the readiness-style questionnaires.
var (
	businessPoints = [4]int{0, 5, 10, 15}
	fivePoints     = [4]int{0, 2, 4, 5}
)

var ladderStatus = [4]struct {
	status string
	risk   scoring.RiskLevel
}{
	{"Absent", scoring.RiskHigh},
	{"Emerging", scoring.RiskMedium},
	{"Established", scoring.RiskLow},
	{"Advanced", scoring.RiskLow},
}

// ladder builds the answer table for a readiness question. The status and
// risk labels follow the rung position so they stay monotonic with the score.
func ladder(points [4]int, rungs [4]rung) map[string]scoring.Outcome {
	out := make(map[string]scoring.Outcome, len(rungs))
	for i, r := range rungs {
		out[r.id] = scoring.Outcome{
			Score:          points[i],
			Risk:           ladderStatus[i].risk,
			Status:         ladderStatus[i].status,
			Playback:       r.playback,
			Interpretation: r.interpretation,
		}
	}
	return out
}

// readinessUnmapped is the sentinel for missing or unrecognised answers on the
// readiness-style questionnaires.
var readinessUnmapped = scoring.UnmappedPolicy{
	Status:         "Absent",
	Risk:           scoring.RiskCritical,
	Playback:       "No answer provided.",
	Interpretation: "No answer provided. Without evidence of capability this area is treated as absent.",
}

var readinessPlaceholder = scoring.Gap{
	Title:          "Not applicable",
	Description:    "No further priority gaps were identified from your answers.",
	Recommendation: "Keep building on the areas where you are already strong.",
}
