// Package assessment binds the generic scoring engine to the four published
// questionnaires. Each variant contributes a scoring.Config, a typed
// submission and a typed report record; Service ties them together.
package assessment

import (
	"errors"
	"fmt"
)

// Kind identifies one assessment variant. The string value is the URL slug
// and the discriminator stored alongside every submission.
type Kind string

const (
	KindShadowAI          Kind = "shadow-ai"
	KindBusinessReadiness Kind = "business-readiness"
	KindBoardGovernance   Kind = "board-governance"
	KindPersonalReadiness Kind = "personal-readiness"
)

var (
	// ErrUnknownKind is returned for a kind slug that names no assessment.
	ErrUnknownKind = errors.New("assessment: unknown kind")
	// ErrInvalidSubmission is returned when a submission is structurally
	// unusable: not a JSON object, unknown fields, or missing contact details.
	ErrInvalidSubmission = errors.New("assessment: invalid submission")
)

// Kinds lists every assessment in a stable order.
func Kinds() []Kind {
	return []Kind{KindShadowAI, KindBusinessReadiness, KindBoardGovernance, KindPersonalReadiness}
}

// ParseKind validates a slug.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Title is the human-readable assessment name used in emails and the catalog.
func (k Kind) Title() string {
	switch k {
	case KindShadowAI:
		return "Shadow AI Risk Assessment"
	case KindBusinessReadiness:
		return "Business AI Readiness Assessment"
	case KindBoardGovernance:
		return "Board AI Governance Assessment"
	case KindPersonalReadiness:
		return "Personal AI Readiness Assessment"
	default:
		return string(k)
	}
}
