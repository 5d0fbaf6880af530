package scoring

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// ─── INPUT ────────────────────────────────────────────────────────────────────

// Answers is the configuration-agnostic view of a submission: one identifier
// per single-choice question and a set of identifiers per multi-select one.
// Keys are question keys.
type Answers struct {
	Single map[string]string
	Multi  map[string][]string
}

// ─── OUTPUT ───────────────────────────────────────────────────────────────────

// QuestionResult is the resolved outcome of one configured question.
type QuestionResult struct {
	Key      string
	Title    string
	Kind     QuestionKind
	Answer   string   // single-choice identifier as submitted
	Selected []string // multi-select identifiers that were recognised
	Score    int
	MaxScore int

	Status         string
	Risk           RiskLevel
	Playback       string
	Interpretation string

	Mapped  bool // false when the unmapped-answer policy was applied
	Unknown bool // "don't know" or unmapped
	Scored  bool
}

// Result is everything the engine derives from one submission. It is a value:
// nothing in it aliases the engine's configuration tables except strings.
type Result struct {
	Score        int // normalised 0–100
	RawScore     int
	MaxRawScore  int
	Band         Band
	BandMatched  bool
	Escalated    bool
	UnknownCount int

	Questions []QuestionResult // declaration order
	Gaps      []RankedGap
	Banner    string
	Steps     []string
	Tiers     map[string]TierResult // keyed by TierRule.Name

	Flags       []string
	ProcessedAt time.Time
}

// Question returns the result for key, or false if the key is not configured.
func (r Result) Question(key string) (QuestionResult, bool) {
	for _, q := range r.Questions {
		if q.Key == key {
			return q, true
		}
	}
	return QuestionResult{}, false
}

// RawScores maps each scored question key to the points it contributed.
func (r Result) RawScores() map[string]int {
	out := make(map[string]int, len(r.Questions))
	for _, q := range r.Questions {
		if q.Scored {
			out[q.Key] = q.Score
		}
	}
	return out
}

// ─── ENGINE ───────────────────────────────────────────────────────────────────

// Engine scores submissions against one validated Config. It holds no mutable
// state after construction and is safe for concurrent use.
type Engine struct {
	cfg      Config
	declared map[string]int
	now      func() time.Time
}

// Option customises an Engine.
type Option func(*Engine)

// WithClock replaces time.Now as the source of ProcessedAt.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New validates cfg and returns an Engine bound to it. This is the only place
// configuration errors surface; Process itself never fails.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scoring: invalid configuration: %w", err)
	}
	if cfg.GapCount == 0 {
		cfg.GapCount = DefaultGapCount
	}

	e := &Engine{
		cfg:      cfg,
		declared: make(map[string]int, len(cfg.Questions)),
		now:      time.Now,
	}
	for i, q := range cfg.Questions {
		e.declared[q.Key] = i
	}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config { return e.cfg }

// Process scores one submission. It is total: unknown identifiers, missing
// answers and stray keys degrade to conservative defaults and are reported in
// Result.Flags.
func (e *Engine) Process(a Answers) Result {
	cfg := e.cfg
	res := Result{
		MaxRawScore: cfg.MaxRawScore,
		Questions:   make([]QuestionResult, 0, len(cfg.Questions)),
		Tiers:       make(map[string]TierResult, len(cfg.Tiers)),
		Flags:       []string{},
	}

	res.Flags = append(res.Flags, e.strayKeys(a)...)

	// 1. Per-question resolution.
	for _, q := range cfg.Questions {
		var qr QuestionResult
		if q.Kind == MultiSelect {
			qr = e.resolveMulti(q, a.Multi[q.Key], &res.Flags)
		} else {
			answer, present := a.Single[q.Key]
			qr = e.resolveSingle(q, answer, present, &res.Flags)
		}
		if qr.Scored {
			res.RawScore += qr.Score
			if qr.Unknown {
				res.UnknownCount++
			}
		}
		res.Questions = append(res.Questions, qr)
	}

	// 2–3. Normalise and clamp.
	res.Score = clampScore(int(math.Round(float64(res.RawScore) * ScoreMax / float64(cfg.MaxRawScore))))

	// 4. Band resolution.
	idx, matched := ResolveBand(cfg.Bands, res.Score)
	res.BandMatched = matched
	if !matched {
		res.Flags = append(res.Flags, fmt.Sprintf("score %d matched no band; fell back to %q", res.Score, cfg.Bands[idx].Label))
	}

	// 5. Escalation.
	if rule := cfg.Escalation; rule != nil && res.UnknownCount >= rule.Threshold {
		worse := worseBand(cfg.Bands, idx, cfg.Polarity)
		if worse != idx {
			res.Escalated = true
			res.Flags = append(res.Flags, fmt.Sprintf("escalated from %q to %q: %d unknown answers (threshold %d)",
				cfg.Bands[idx].Label, cfg.Bands[worse].Label, res.UnknownCount, rule.Threshold))
			idx = worse
		}
	}
	res.Band = cloneBand(cfg.Bands[idx])

	// 6. Gap ranking.
	res.Gaps = RankGaps(e.gapCandidates(res.Questions), cfg.GapCount, cfg.GapPlaceholder)

	// 7. Override banner and recommended steps.
	res.Steps = append([]string{}, res.Band.Recommendations...)
	if o := cfg.Override; o != nil && a.Single[o.Question] == o.Answer {
		res.Banner = o.Banner
		res.Steps = append(append([]string{}, o.Steps...), res.Steps...)
	}

	// 8. Tier personalisation.
	for _, rule := range cfg.Tiers {
		tr := ResolveTier(rule, a.Single[rule.First], a.Single[rule.Second])
		if !tr.Matched {
			res.Flags = append(res.Flags, fmt.Sprintf("no %s tier for %q; using tier %d",
				rule.Name, TierKey(a.Single[rule.First], a.Single[rule.Second]), tr.Tier))
		}
		res.Tiers[rule.Name] = tr
	}

	// 9. Stamp.
	res.ProcessedAt = e.now().UTC()
	return res
}

// ─── RESOLUTION ───────────────────────────────────────────────────────────────

func (e *Engine) resolveSingle(q Question, answer string, present bool, flags *[]string) QuestionResult {
	qr := QuestionResult{
		Key:      q.Key,
		Title:    q.Title,
		Kind:     q.Kind,
		Answer:   answer,
		MaxScore: q.MaxScore(),
		Scored:   !q.Unscored,
	}

	if o, ok := q.Answers[answer]; ok && present {
		qr.Score = o.Score
		qr.Status = o.Status
		qr.Risk = o.Risk
		qr.Playback = o.Playback
		qr.Interpretation = o.Interpretation
		qr.Unknown = o.Unknown
		qr.Mapped = true
	} else {
		if present && answer != "" {
			*flags = append(*flags, fmt.Sprintf("unmapped answer %q for %s", answer, q.Key))
		} else {
			*flags = append(*flags, fmt.Sprintf("missing answer for %s", q.Key))
		}
		p := e.cfg.Unmapped
		qr.Score = q.worstScore(e.cfg.Polarity)
		qr.Status = p.Status
		qr.Risk = p.Risk
		qr.Playback = p.Playback
		qr.Interpretation = p.Interpretation
		qr.Unknown = true
	}

	if q.Unscored {
		qr.Score = 0
	}
	return qr
}

func (e *Engine) resolveMulti(q Question, selected []string, flags *[]string) QuestionResult {
	qr := QuestionResult{
		Key:      q.Key,
		Title:    q.Title,
		Kind:     q.Kind,
		Selected: []string{},
		MaxScore: q.MaxScore(),
		Scored:   !q.Unscored,
		Mapped:   true,
	}

	seen := make(map[string]struct{}, len(selected))
	var playback []string
	subtotal := 0
	for _, id := range selected {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		o, ok := q.Answers[id]
		if !ok {
			*flags = append(*flags, fmt.Sprintf("ignored unrecognised option %q for %s", id, q.Key))
			continue
		}
		subtotal += o.Score
		qr.Selected = append(qr.Selected, id)
		playback = append(playback, o.Playback)
	}
	qr.Score = min(subtotal, q.Cap)

	r := q.Ranges[len(q.Ranges)-1]
	for _, candidate := range q.Ranges {
		if qr.Score >= candidate.Min && qr.Score <= candidate.Max {
			r = candidate
			break
		}
	}
	qr.Status = r.Outcome.Status
	qr.Risk = r.Outcome.Risk
	qr.Interpretation = r.Outcome.Interpretation
	qr.Playback = r.Outcome.Playback
	if len(playback) > 0 {
		qr.Playback = joinPlayback(playback)
	}

	if q.Unscored {
		qr.Score = 0
	}
	return qr
}

func (e *Engine) gapCandidates(results []QuestionResult) []GapCandidate {
	out := make([]GapCandidate, 0, len(results))
	for _, qr := range results {
		if !qr.Scored {
			continue
		}
		q := e.cfg.Questions[e.declared[qr.Key]]
		out = append(out, GapCandidate{
			Key:      qr.Key,
			Standing: standing(qr.Score, qr.MaxScore, e.cfg.Polarity),
			Max:      qr.MaxScore,
			Gap:      q.Gap,
		})
	}
	return out
}

// strayKeys flags answers for questions the configuration does not declare,
// or declared under the other kind. They are skipped, never scored.
func (e *Engine) strayKeys(a Answers) []string {
	var flags []string
	check := func(key string, kind QuestionKind) {
		i, ok := e.declared[key]
		if !ok {
			flags = append(flags, fmt.Sprintf("no configuration for question %q", key))
			return
		}
		if e.cfg.Questions[i].Kind != kind {
			flags = append(flags, fmt.Sprintf("question %q answered as %s but configured as %s", key, kind, e.cfg.Questions[i].Kind))
		}
	}
	for _, key := range sortedKeys(a.Single) {
		check(key, SingleChoice)
	}
	for _, key := range sortedKeys(a.Multi) {
		check(key, MultiSelect)
	}
	return flags
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func joinPlayback(parts []string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += "; " + p
	}
	return out
}

func cloneBand(b Band) Band {
	b.Recommendations = append([]string{}, b.Recommendations...)
	return b
}
