// Package scoring implements the table-driven assessment engine shared by
// every questionnaire variant. It is intentionally dependency-free: it imports
// nothing from internal/ and can be tested without a database, and all domain
// knowledge (answer weights, bands, narratives) arrives as a Config value.
package scoring

import (
	"errors"
	"fmt"
	"sort"
)

// ─── ENUMS ────────────────────────────────────────────────────────────────────

// Polarity tells the engine which direction of the raw score is "good". It is
// consulted only where ordering matters (gap ranking, escalation direction,
// unmapped penalties); the engine always just sums what is configured.
type Polarity int

const (
	// HigherIsBetter is readiness-style: more points means more mature.
	HigherIsBetter Polarity = iota
	// HigherIsWorse is risk-style: more points means more exposure.
	HigherIsWorse
)

// QuestionKind distinguishes single-choice from multi-select questions.
type QuestionKind string

const (
	SingleChoice QuestionKind = "single"
	MultiSelect  QuestionKind = "multi"
)

// RiskLevel is the ordered risk classification attached to an answer.
// RiskNone means the answer carries no risk label at all.
type RiskLevel int

const (
	RiskNone RiskLevel = iota
	RiskLow
	RiskMedium
	RiskHigh
	RiskCritical
	// RiskUnknown is the sentinel for answers that could not be assessed.
	// It sits outside the Low..Critical ordering.
	RiskUnknown
)

func (r RiskLevel) String() string {
	switch r {
	case RiskLow:
		return "Low"
	case RiskMedium:
		return "Medium"
	case RiskHigh:
		return "High"
	case RiskCritical:
		return "Critical"
	case RiskUnknown:
		return "Unknown"
	default:
		return ""
	}
}

// ─── TABLE TYPES ──────────────────────────────────────────────────────────────

// Outcome is the scored meaning of one selectable answer.
type Outcome struct {
	Score          int
	Risk           RiskLevel
	Status         string
	Playback       string
	Interpretation string
	// Unknown marks "don't know" style answers. They count toward the
	// escalation threshold when the configuration has one.
	Unknown bool
}

// Range classifies a multi-select question by its capped subtotal.
// Outcome.Score is ignored; Outcome.Playback is used only when nothing
// recognisable was selected.
type Range struct {
	Min, Max int
	Outcome  Outcome
}

// Gap is the static text attached to a question when it surfaces as one of
// the weakest areas in a result.
type Gap struct {
	Title          string
	Description    string
	Recommendation string
}

// Question is one survey item. Answers maps the wire identifier of each
// selectable answer to its outcome.
type Question struct {
	Key      string
	Title    string
	Kind     QuestionKind
	Answers  map[string]Outcome
	Unscored bool // context question: resolved for playback, never summed

	// Multi-select only.
	Cap    int
	Ranges []Range

	Gap Gap
}

// MaxScore is the most points the question can contribute to the raw score.
func (q Question) MaxScore() int {
	if q.Kind == MultiSelect {
		sum := 0
		for _, o := range q.Answers {
			sum += o.Score
		}
		return min(sum, q.Cap)
	}
	best := 0
	for _, o := range q.Answers {
		best = max(best, o.Score)
	}
	return best
}

// worstScore is the single-choice score that reads worst under p. It is the
// penalty applied to unmapped answers, so an unmapped answer can never look
// better than the worst real answer.
func (q Question) worstScore(p Polarity) int {
	if p == HigherIsWorse {
		return q.MaxScore()
	}
	worst := -1
	for _, o := range q.Answers {
		if worst < 0 || o.Score < worst {
			worst = o.Score
		}
	}
	return max(worst, 0)
}

// Band is a contiguous, inclusive range over the normalised 0–100 score.
type Band struct {
	Min, Max        int
	Label           string
	Narrative       string
	Recommendations []string
}

// Contains reports whether score falls in [Min, Max].
func (b Band) Contains(score int) bool {
	return score >= b.Min && score <= b.Max
}

// UnmappedPolicy is the sentinel text recorded for a missing or unrecognised
// single-choice answer. The score is always the question's worst score.
type UnmappedPolicy struct {
	Status         string
	Risk           RiskLevel
	Playback       string
	Interpretation string
}

// EscalationRule pushes the result one band worse when at least Threshold
// answers were "don't know" (or unmapped).
type EscalationRule struct {
	Threshold int
}

// OverrideRule fires when Question was answered with Answer: Banner is set and
// Steps are placed ahead of the band's recommendations, whatever the score.
type OverrideRule struct {
	Question string
	Answer   string
	Banner   string
	Steps    []string
}

// TierRule maps the pair (First, Second) of answers to a tier 1..len(Narratives)
// via Tiers, keyed by TierKey(first, second).
type TierRule struct {
	Name        string
	First       string
	Second      string
	Tiers       map[string]int
	Narratives  []string
	DefaultTier int
}

// Config is the complete, read-only description of one assessment.
type Config struct {
	Name           string
	Polarity       Polarity
	Questions      []Question // declaration order drives gap tie-breaks
	Bands          []Band     // ascending, partitioning [0, 100]
	MaxRawScore    int
	GapCount       int // defaults to DefaultGapCount
	GapPlaceholder Gap
	Unmapped       UnmappedPolicy
	Escalation     *EscalationRule
	Override       *OverrideRule
	Tiers          []TierRule
}

// DefaultGapCount is the number of priority gaps reported when the
// configuration does not say otherwise.
const DefaultGapCount = 3

// Question returns the configured question with the given key.
func (c Config) Question(key string) (Question, bool) {
	for _, q := range c.Questions {
		if q.Key == key {
			return q, true
		}
	}
	return Question{}, false
}

// ─── VALIDATION ───────────────────────────────────────────────────────────────

// Validate checks the configuration once, at startup. It verifies the band
// partition, per-question tables, answer monotonicity, the declared maximum
// raw score, and that every rule references questions and answers that exist.
func (c Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s: "+format, append([]any{c.Name}, args...)...))
	}

	if c.Name == "" {
		errs = append(errs, errors.New("config: name must not be empty"))
	}
	if len(c.Questions) == 0 {
		fail("no questions declared")
	}
	if c.GapCount < 0 {
		fail("gap count %d must not be negative", c.GapCount)
	}

	seen := make(map[string]struct{}, len(c.Questions))
	computedMax := 0
	for _, q := range c.Questions {
		if q.Key == "" {
			fail("question with empty key")
			continue
		}
		if _, dup := seen[q.Key]; dup {
			fail("duplicate question key %q", q.Key)
		}
		seen[q.Key] = struct{}{}

		if err := q.validate(c.Polarity); err != nil {
			fail("%w", err)
			continue
		}
		if !q.Unscored {
			if q.MaxScore() <= 0 {
				fail("question %q: scored question has no positive answer", q.Key)
			}
			computedMax += q.MaxScore()
		}
	}

	if c.MaxRawScore <= 0 {
		fail("max raw score must be positive, got %d", c.MaxRawScore)
	} else if c.MaxRawScore != computedMax {
		fail("max raw score %d does not match the sum of question maxima %d", c.MaxRawScore, computedMax)
	}

	if err := ValidateBands(c.Bands); err != nil {
		fail("%w", err)
	}

	if c.Escalation != nil && c.Escalation.Threshold <= 0 {
		fail("escalation threshold must be positive, got %d", c.Escalation.Threshold)
	}

	if o := c.Override; o != nil {
		q, ok := c.Question(o.Question)
		switch {
		case !ok:
			fail("override references unknown question %q", o.Question)
		case q.Kind != SingleChoice:
			fail("override question %q must be single-choice", o.Question)
		default:
			if _, ok := q.Answers[o.Answer]; !ok {
				fail("override references unknown answer %q on %q", o.Answer, o.Question)
			}
		}
		if o.Banner == "" || len(o.Steps) == 0 {
			fail("override on %q needs a banner and at least one step", o.Question)
		}
	}

	for _, t := range c.Tiers {
		if err := t.validate(c); err != nil {
			fail("%w", err)
		}
	}

	return errors.Join(errs...)
}

func (q Question) validate(p Polarity) error {
	if len(q.Answers) == 0 {
		return fmt.Errorf("question %q has no answers", q.Key)
	}
	for id, o := range q.Answers {
		if id == "" {
			return fmt.Errorf("question %q has an empty answer identifier", q.Key)
		}
		if o.Score < 0 {
			return fmt.Errorf("question %q answer %q has negative score %d", q.Key, id, o.Score)
		}
	}

	switch q.Kind {
	case SingleChoice:
		return q.checkMonotonic(p)
	case MultiSelect:
		if q.Cap <= 0 {
			return fmt.Errorf("multi-select question %q needs a positive cap", q.Key)
		}
		return q.checkRanges()
	default:
		return fmt.Errorf("question %q has unknown kind %q", q.Key, q.Kind)
	}
}

// checkMonotonic enforces that a better score never carries a worse risk
// label. "Don't know" answers and unlabelled answers are exempt.
func (q Question) checkMonotonic(p Polarity) error {
	type pair struct {
		id    string
		score int
		risk  RiskLevel
	}
	var labelled []pair
	for id, o := range q.Answers {
		if o.Unknown || o.Risk == RiskNone || o.Risk == RiskUnknown {
			continue
		}
		labelled = append(labelled, pair{id, o.Score, o.Risk})
	}
	sort.Slice(labelled, func(a, b int) bool {
		if labelled[a].score != labelled[b].score {
			return labelled[a].score < labelled[b].score
		}
		return labelled[a].id < labelled[b].id
	})
	for i := 1; i < len(labelled); i++ {
		prev, cur := labelled[i-1], labelled[i]
		if prev.score == cur.score {
			continue
		}
		if p == HigherIsBetter && cur.risk > prev.risk {
			return fmt.Errorf("question %q: answer %q scores higher than %q but carries a worse risk", q.Key, cur.id, prev.id)
		}
		if p == HigherIsWorse && cur.risk < prev.risk {
			return fmt.Errorf("question %q: answer %q scores higher than %q but carries a lower risk", q.Key, cur.id, prev.id)
		}
	}
	return nil
}

// checkRanges requires the multi-select ranges to cover [0, Cap] exactly.
func (q Question) checkRanges() error {
	if len(q.Ranges) == 0 {
		return fmt.Errorf("multi-select question %q has no ranges", q.Key)
	}
	next := 0
	for _, r := range q.Ranges {
		if r.Min != next || r.Max < r.Min {
			return fmt.Errorf("multi-select question %q: range [%d,%d] leaves a gap or overlap at %d", q.Key, r.Min, r.Max, next)
		}
		next = r.Max + 1
	}
	if next != q.Cap+1 {
		return fmt.Errorf("multi-select question %q: ranges end at %d, cap is %d", q.Key, next-1, q.Cap)
	}
	return nil
}

func (t TierRule) validate(c Config) error {
	if t.Name == "" {
		return errors.New("tier rule with empty name")
	}
	for _, key := range []string{t.First, t.Second} {
		q, ok := c.Question(key)
		if !ok {
			return fmt.Errorf("tier rule %q references unknown question %q", t.Name, key)
		}
		if q.Kind != SingleChoice {
			return fmt.Errorf("tier rule %q: question %q must be single-choice", t.Name, key)
		}
	}
	n := len(t.Narratives)
	if n == 0 {
		return fmt.Errorf("tier rule %q has no narratives", t.Name)
	}
	if t.DefaultTier < 1 || t.DefaultTier > n {
		return fmt.Errorf("tier rule %q: default tier %d outside 1..%d", t.Name, t.DefaultTier, n)
	}
	for key, tier := range t.Tiers {
		if tier < 1 || tier > n {
			return fmt.Errorf("tier rule %q: key %q maps to tier %d outside 1..%d", t.Name, key, tier, n)
		}
	}
	return nil
}
