package assessment

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"strings"

	"github.com/nyashahama/ai-readiness-assessments/internal/scoring"
)

// ─── CONTACT ──────────────────────────────────────────────────────────────────

// Contact is the free-text respondent block shared by every form.
type Contact struct {
	Email          string `json:"email"`
	Name           string `json:"contact_name"`
	Company        string `json:"company_name"`
	MarketingOptIn bool   `json:"marketing_opt_in"`
}

func (c Contact) validate(requireCompany bool) error {
	var errs []error
	if strings.TrimSpace(c.Email) == "" {
		errs = append(errs, fmt.Errorf("%w: email is required", ErrInvalidSubmission))
	} else if _, err := mail.ParseAddress(c.Email); err != nil {
		errs = append(errs, fmt.Errorf("%w: email %q is not a valid address", ErrInvalidSubmission, c.Email))
	}
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, fmt.Errorf("%w: contact_name is required", ErrInvalidSubmission))
	}
	if requireCompany && strings.TrimSpace(c.Company) == "" {
		errs = append(errs, fmt.Errorf("%w: company_name is required", ErrInvalidSubmission))
	}
	return errors.Join(errs...)
}

// ─── SUBMISSION SUM TYPE ──────────────────────────────────────────────────────

// Submission is one completed form. The set of implementations is closed:
// ShadowAISubmission, BusinessReadinessSubmission, BoardGovernanceSubmission
// and PersonalReadinessSubmission.
type Submission interface {
	Kind() Kind
	Respondent() Contact
	// Answers projects the typed answers onto the engine's generic input.
	Answers() scoring.Answers
	Validate() error

	sealed()
}

type ShadowAISubmission struct {
	Contact
	AIPolicy      string   `json:"ai_policy"`
	ToolInventory string   `json:"tool_inventory"`
	DataExposure  string   `json:"data_exposure"`
	ApprovedTools string   `json:"approved_tools"`
	Training      string   `json:"training"`
	Incidents     string   `json:"incidents"`
	VendorReview  string   `json:"vendor_review"`
	RiskConcerns  []string `json:"risk_concerns"`
}

func (ShadowAISubmission) Kind() Kind            { return KindShadowAI }
func (s ShadowAISubmission) Respondent() Contact { return s.Contact }
func (s ShadowAISubmission) Validate() error     { return s.Contact.validate(true) }
func (ShadowAISubmission) sealed()               {}

func (s ShadowAISubmission) Answers() scoring.Answers {
	return scoring.Answers{
		Single: map[string]string{
			"ai_policy":      s.AIPolicy,
			"tool_inventory": s.ToolInventory,
			"data_exposure":  s.DataExposure,
			"approved_tools": s.ApprovedTools,
			"training":       s.Training,
			"incidents":      s.Incidents,
			"vendor_review":  s.VendorReview,
		},
		Multi: map[string][]string{
			"risk_concerns": s.RiskConcerns,
		},
	}
}

type BusinessReadinessSubmission struct {
	Contact
	Strategy    string `json:"strategy"`
	Leadership  string `json:"leadership"`
	DataQuality string `json:"data_quality"`
	Skills      string `json:"skills"`
	UseCases    string `json:"use_cases"`
	Tooling     string `json:"tooling"`
	Governance  string `json:"governance"`
	Budget      string `json:"budget"`
}

func (BusinessReadinessSubmission) Kind() Kind            { return KindBusinessReadiness }
func (s BusinessReadinessSubmission) Respondent() Contact { return s.Contact }
func (s BusinessReadinessSubmission) Validate() error     { return s.Contact.validate(true) }
func (BusinessReadinessSubmission) sealed()               {}

func (s BusinessReadinessSubmission) Answers() scoring.Answers {
	return scoring.Answers{Single: map[string]string{
		"strategy":     s.Strategy,
		"leadership":   s.Leadership,
		"data_quality": s.DataQuality,
		"skills":       s.Skills,
		"use_cases":    s.UseCases,
		"tooling":      s.Tooling,
		"governance":   s.Governance,
		"budget":       s.Budget,
	}}
}

type BoardGovernanceSubmission struct {
	Contact
	BoardOversight      string `json:"board_oversight"`
	RiskAppetite        string `json:"risk_appetite"`
	ManagementReporting string `json:"management_reporting"`
	BoardLiteracy       string `json:"board_literacy"`
	RegulatoryTracking  string `json:"regulatory_tracking"`
	Accountability      string `json:"accountability"`
	ThirdParty          string `json:"third_party"`
	Ethics              string `json:"ethics"`
	IncidentEscalation  string `json:"incident_escalation"`
	StrategyAlignment   string `json:"strategy_alignment"`
}

func (BoardGovernanceSubmission) Kind() Kind            { return KindBoardGovernance }
func (s BoardGovernanceSubmission) Respondent() Contact { return s.Contact }
func (s BoardGovernanceSubmission) Validate() error     { return s.Contact.validate(true) }
func (BoardGovernanceSubmission) sealed()               {}

func (s BoardGovernanceSubmission) Answers() scoring.Answers {
	return scoring.Answers{Single: map[string]string{
		"board_oversight":      s.BoardOversight,
		"risk_appetite":        s.RiskAppetite,
		"management_reporting": s.ManagementReporting,
		"board_literacy":       s.BoardLiteracy,
		"regulatory_tracking":  s.RegulatoryTracking,
		"accountability":       s.Accountability,
		"third_party":          s.ThirdParty,
		"ethics":               s.Ethics,
		"incident_escalation":  s.IncidentEscalation,
		"strategy_alignment":   s.StrategyAlignment,
	}}
}

// PersonalReadinessSubmission is filled in by an individual, so the company
// name is optional.
type PersonalReadinessSubmission struct {
	Contact
	UsageFrequency string `json:"usage_frequency"`
	Confidence     string `json:"confidence"`
	Prompting      string `json:"prompting"`
	ToolVariety    string `json:"tool_variety"`
	Verification   string `json:"verification"`
	LearningHabit  string `json:"learning_habit"`
	Workflow       string `json:"workflow"`
	TimeAvailable  string `json:"time_available"`
	Goal           string `json:"goal"`
}

func (PersonalReadinessSubmission) Kind() Kind            { return KindPersonalReadiness }
func (s PersonalReadinessSubmission) Respondent() Contact { return s.Contact }
func (s PersonalReadinessSubmission) Validate() error     { return s.Contact.validate(false) }
func (PersonalReadinessSubmission) sealed()               {}

func (s PersonalReadinessSubmission) Answers() scoring.Answers {
	return scoring.Answers{Single: map[string]string{
		"usage_frequency": s.UsageFrequency,
		"confidence":      s.Confidence,
		"prompting":       s.Prompting,
		"tool_variety":    s.ToolVariety,
		"verification":    s.Verification,
		"learning_habit":  s.LearningHabit,
		"workflow":        s.Workflow,
		"time_available":  s.TimeAvailable,
		"goal":            s.Goal,
	}}
}

// ─── DECODING ─────────────────────────────────────────────────────────────────

// Decode parses a raw JSON body into the typed submission for kind and
// validates its contact block. Unknown fields are rejected.
func Decode(kind Kind, raw []byte) (Submission, error) {
	var sub Submission
	switch kind {
	case KindShadowAI:
		var s ShadowAISubmission
		if err := strictUnmarshal(raw, &s); err != nil {
			return nil, err
		}
		sub = s
	case KindBusinessReadiness:
		var s BusinessReadinessSubmission
		if err := strictUnmarshal(raw, &s); err != nil {
			return nil, err
		}
		sub = s
	case KindBoardGovernance:
		var s BoardGovernanceSubmission
		if err := strictUnmarshal(raw, &s); err != nil {
			return nil, err
		}
		sub = s
	case KindPersonalReadiness:
		var s PersonalReadinessSubmission
		if err := strictUnmarshal(raw, &s); err != nil {
			return nil, err
		}
		sub = s
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	if err := sub.Validate(); err != nil {
		return nil, err
	}
	return sub, nil
}

func strictUnmarshal(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after JSON object", ErrInvalidSubmission)
	}
	return nil
}

// ─── FINGERPRINT ──────────────────────────────────────────────────────────────

// Fingerprint identifies a submission for duplicate detection: the kind, the
// normalised email and every answer. Contact names and opt-in do not take
// part, so a resubmission with a corrected name still counts as a duplicate.
func Fingerprint(s Submission) string {
	a := s.Answers()
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00", s.Kind(), strings.ToLower(strings.TrimSpace(s.Respondent().Email)))

	keys := make([]string, 0, len(a.Single))
	for k := range a.Single {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(h, "%s=%s\x00", k, a.Single[k])
	}

	keys = keys[:0]
	for k := range a.Multi {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sel := append([]string{}, a.Multi[k]...)
		sort.Strings(sel)
		fmt.Fprintf(h, "%s=%s\x00", k, strings.Join(sel, ","))
	}
	return hex.EncodeToString(h.Sum(nil))
}
