package assessment

import (
	"fmt"
	"sort"

	"github.com/nyashahama/ai-readiness-assessments/internal/scoring"
)

// Configs returns a fresh copy of every assessment configuration, keyed by kind.
func Configs() map[Kind]scoring.Config {
	return map[Kind]scoring.Config{
		KindShadowAI:          ShadowAIConfig(),
		KindBusinessReadiness: BusinessReadinessConfig(),
		KindBoardGovernance:   BoardGovernanceConfig(),
		KindPersonalReadiness: PersonalReadinessConfig(),
	}
}

// Service owns one engine per assessment. It is immutable after NewService
// and safe for concurrent use.
type Service struct {
	engines map[Kind]*scoring.Engine
}

// NewService validates every configuration and builds its engine. A
// configuration error is a programming error and is reported here, at
// startup, rather than on a request.
func NewService(opts ...scoring.Option) (*Service, error) {
	s := &Service{engines: make(map[Kind]*scoring.Engine, len(Kinds()))}
	for kind, cfg := range Configs() {
		e, err := scoring.New(cfg, opts...)
		if err != nil {
			return nil, fmt.Errorf("assessment: %s: %w", kind, err)
		}
		s.engines[kind] = e
	}
	return s, nil
}

// Engine returns the engine for kind.
func (s *Service) Engine(kind Kind) (*scoring.Engine, bool) {
	e, ok := s.engines[kind]
	return e, ok
}

// Process scores a submission and assembles its typed report. It fails only
// for a nil or foreign submission; answer problems surface as flags.
func (s *Service) Process(sub Submission) (Result, error) {
	if sub == nil {
		return Result{}, fmt.Errorf("%w: nil submission", ErrInvalidSubmission)
	}
	e, ok := s.engines[sub.Kind()]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownKind, sub.Kind())
	}
	res := e.Process(sub.Answers())

	var data ReportData
	switch v := sub.(type) {
	case ShadowAISubmission:
		data = buildShadowAI(v, res)
	case BusinessReadinessSubmission:
		data = buildBusinessReadiness(v, res)
	case BoardGovernanceSubmission:
		data = buildBoardGovernance(v, res)
	case PersonalReadinessSubmission:
		data = buildPersonalReadiness(v, res)
	default:
		return Result{}, fmt.Errorf("%w: unsupported submission type %T", ErrUnknownKind, sub)
	}

	return Result{
		Kind:     sub.Kind(),
		Data:     data,
		Metadata: metadata(sub.Kind(), res),
	}, nil
}

// ─── CATALOG ──────────────────────────────────────────────────────────────────

// CatalogEntry describes one assessment for the form layer.
type CatalogEntry struct {
	Kind      Kind              `json:"kind"`
	Title     string            `json:"title"`
	Questions []CatalogQuestion `json:"questions"`
}

// CatalogQuestion lists the accepted answer identifiers for one question,
// ordered by score and then identifier.
type CatalogQuestion struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Type    string   `json:"type"`
	Scored  bool     `json:"scored"`
	Options []string `json:"options"`
}

// Catalog returns the question sets of every assessment in Kinds order.
func (s *Service) Catalog() []CatalogEntry {
	out := make([]CatalogEntry, 0, len(s.engines))
	for _, kind := range Kinds() {
		e, ok := s.engines[kind]
		if !ok {
			continue
		}
		cfg := e.Config()
		entry := CatalogEntry{Kind: kind, Title: kind.Title(), Questions: make([]CatalogQuestion, 0, len(cfg.Questions))}
		for _, q := range cfg.Questions {
			opts := make([]string, 0, len(q.Answers))
			for id := range q.Answers {
				opts = append(opts, id)
			}
			sort.Slice(opts, func(a, b int) bool {
				sa, sb := q.Answers[opts[a]].Score, q.Answers[opts[b]].Score
				if sa != sb {
					return sa < sb
				}
				return opts[a] < opts[b]
			})
			entry.Questions = append(entry.Questions, CatalogQuestion{
				Key:     q.Key,
				Title:   q.Title,
				Type:    string(q.Kind),
				Scored:  !q.Unscored,
				Options: opts,
			})
		}
		out = append(out, entry)
	}
	return out
}
