package assessment

import "github.com/nyashahama/ai-readiness-assessments/internal/scoring"

// Tier rule names on the personal questionnaire.
const (
	TierMomentum = "momentum"
	TierCapacity = "capacity"
)

// PersonalReadinessConfig scores an individual's AI readiness. Two unscored
// context questions feed the capacity tier only.
func PersonalReadinessConfig() scoring.Config {
	q := func(key, title string, rungs [4]rung, gap scoring.Gap) scoring.Question {
		return scoring.Question{
			Key:     key,
			Title:   title,
			Kind:    scoring.SingleChoice,
			Answers: ladder(fivePoints, rungs),
			Gap:     gap,
		}
	}
	situation := func(status, playback string) scoring.Outcome {
		return scoring.Outcome{Status: status, Playback: playback}
	}

	return scoring.Config{
		Name:     string(KindPersonalReadiness),
		Polarity: scoring.HigherIsBetter,
		Questions: []scoring.Question{
			q("usage_frequency", "How often you use AI", [4]rung{
				{"rarely", "You rarely or never use AI tools.", "Everyone starts somewhere. A small daily habit builds familiarity fast."},
				{"monthly", "You use AI tools a few times a month.", "Occasional use makes it hard to build fluency. Pick one recurring task to hand to AI."},
				{"weekly", "You use AI tools most weeks.", "Regular use is where real skill starts to compound."},
				{"daily", "You use AI tools every day.", "Daily use gives you constant feedback on what works."},
			}, scoring.Gap{
				Title:          "Infrequent use",
				Description:    "You do not use AI often enough to build intuition for it.",
				Recommendation: "Use an AI assistant for one routine task every working day for two weeks.",
			}),
			q("confidence", "Confidence with AI tools", [4]rung{
				{"not_confident", "You do not feel confident using AI tools.", "Confidence follows practice. Low-stakes tasks are the best place to start."},
				{"somewhat", "You feel somewhat confident.", "You know enough to get started. Deliberate practice will close the gap."},
				{"confident", "You feel confident using AI tools.", "Confidence lets you experiment. Pair it with healthy scepticism."},
				{"very_confident", "You feel very confident using AI tools.", "You could help others get started."},
			}, scoring.Gap{
				Title:          "Low confidence",
				Description:    "Uncertainty is holding back your use of AI.",
				Recommendation: "Work through a short beginner course with exercises based on your own job.",
			}),
			q("prompting", "Prompting skill", [4]rung{
				{"basic_questions", "You ask AI simple one-line questions.", "Adding context, examples and a desired format transforms the output."},
				{"some_context", "You sometimes add context to your prompts.", "Consistently giving role, context and format will lift quality."},
				{"structured", "You write structured prompts with context and examples.", "Structured prompting is the core practical skill. Keep a library of what works."},
				{"iterative_systems", "You build reusable prompts and iterate systematically.", "You are treating prompts as tools, which is how experts work."},
			}, scoring.Gap{
				Title:          "Basic prompting",
				Description:    "Your prompts leave the AI guessing about what you need.",
				Recommendation: "Use a simple template: role, context, task, format, and one example.",
			}),
			q("tool_variety", "Range of tools used", [4]rung{
				{"none", "You have not settled on any AI tool.", "Choose one general assistant and learn it well first."},
				{"one_tool", "You use one AI tool.", "One tool is a fine base. Know what it is bad at."},
				{"few_tools", "You use a few AI tools for different jobs.", "Matching tools to tasks is a sign of growing maturity."},
				{"many_integrated", "You use several AI tools integrated into your workflow.", "You are choosing tools deliberately rather than by habit."},
			}, scoring.Gap{
				Title:          "Narrow toolset",
				Description:    "You are not yet using AI tools suited to different kinds of work.",
				Recommendation: "Try one specialist tool for writing, research or data alongside your main assistant.",
			}),
			q("verification", "Checking AI output", [4]rung{
				{"never_check", "You rarely check AI output before using it.", "AI output can be confidently wrong. Unchecked use is the biggest personal risk."},
				{"sometimes", "You sometimes check AI output.", "Check every fact, figure and citation before it leaves your hands."},
				{"usually", "You usually verify important AI output.", "Good habit. Make it automatic for anything external."},
				{"always_systematic", "You verify AI output systematically.", "Systematic verification is what makes AI safe to rely on."},
			}, scoring.Gap{
				Title:          "Unchecked output",
				Description:    "AI output is being used without enough verification.",
				Recommendation: "Adopt a two-minute check: facts, figures, sources and tone, before anything is shared.",
			}),
			q("learning_habit", "How you keep learning", [4]rung{
				{"none", "You are not actively learning about AI.", "AI changes monthly. Even a little structured learning pays off."},
				{"occasional", "You pick things up occasionally.", "Occasional learning keeps you aware but rarely changes practice."},
				{"regular", "You set aside regular time to learn about AI.", "Regular learning keeps your skills current."},
				{"structured", "You follow a structured learning plan.", "A plan turns learning into capability."},
			}, scoring.Gap{
				Title:          "No learning routine",
				Description:    "You have no routine for keeping up with AI developments.",
				Recommendation: "Block 30 minutes a week to try one new technique or tool.",
			}),
			q("workflow", "AI in your workflow", [4]rung{
				{"not_used", "AI is not part of how you work.", "The gains come when AI is built into tasks you already do."},
				{"occasional_tasks", "You use AI for occasional tasks.", "Look for the repetitive tasks you do every week."},
				{"regular_tasks", "AI handles several regular tasks.", "You are saving real time. Document your workflows so they can be shared."},
				{"redesigned", "You have redesigned your work around AI.", "You are working in a genuinely AI-native way."},
			}, scoring.Gap{
				Title:          "AI outside your workflow",
				Description:    "AI is an occasional extra rather than part of how you work.",
				Recommendation: "List your five most repetitive tasks and redesign one with AI this month.",
			}),
			{
				Key:      "time_available",
				Title:    "Time available for learning",
				Kind:     scoring.SingleChoice,
				Unscored: true,
				Answers: map[string]scoring.Outcome{
					"under_1h": situation("Limited", "You have under an hour a week for AI learning."),
					"1_to_3h":  situation("Moderate", "You have one to three hours a week for AI learning."),
					"3_to_5h":  situation("Good", "You have three to five hours a week for AI learning."),
					"over_5h":  situation("Ample", "You have more than five hours a week for AI learning."),
				},
			},
			{
				Key:      "goal",
				Title:    "Your main goal",
				Kind:     scoring.SingleChoice,
				Unscored: true,
				Answers: map[string]scoring.Outcome{
					"save_time":      situation("Productivity", "Your main goal is to save time on routine work."),
					"career_growth":  situation("Career", "Your main goal is to grow your career."),
					"build_products": situation("Builder", "Your main goal is to build products or services with AI."),
					"curiosity":      situation("Curiosity", "Your main goal is to understand what AI can do."),
				},
			},
		},
		Bands: []scoring.Band{
			{
				Min: 0, Max: 24, Label: "Observer",
				Narrative: "You are watching AI from the sidelines. The good news: the first steps are the easiest.",
				Recommendations: []string{
					"Pick one AI assistant and use it for a real task today.",
					"Learn the basic prompt template: role, context, task, format.",
					"Always check facts and figures in AI output.",
				},
			},
			{
				Min: 25, Max: 49, Label: "Explorer",
				Narrative: "You have started experimenting. Turning experiments into habits is your next step.",
				Recommendations: []string{
					"Hand one recurring weekly task to AI.",
					"Build a small library of prompts that work for you.",
					"Set a weekly learning slot.",
				},
			},
			{
				Min: 50, Max: 74, Label: "Practitioner",
				Narrative: "AI is a practical part of your work. You can now go deeper and broader.",
				Recommendations: []string{
					"Redesign a whole workflow around AI, not just a task.",
					"Add a specialist tool for your domain.",
					"Share what works with your team.",
				},
			},
			{
				Min: 75, Max: 100, Label: "Pioneer",
				Narrative: "You are ahead of most people. Your experience is now valuable to others.",
				Recommendations: []string{
					"Mentor colleagues who are just starting.",
					"Experiment with automation and agents.",
					"Stay sharp on verification as your reliance grows.",
				},
			},
		},
		MaxRawScore:    35,
		GapPlaceholder: readinessPlaceholder,
		Unmapped:       readinessUnmapped,
		Tiers: []scoring.TierRule{
			{
				Name:   TierMomentum,
				First:  "usage_frequency",
				Second: "confidence",
				Tiers: map[string]int{
					"rarely|not_confident": 1, "rarely|somewhat": 1, "rarely|confident": 2, "rarely|very_confident": 2,
					"monthly|not_confident": 1, "monthly|somewhat": 2, "monthly|confident": 2, "monthly|very_confident": 3,
					"weekly|not_confident": 2, "weekly|somewhat": 2, "weekly|confident": 3, "weekly|very_confident": 3,
					"daily|not_confident": 2, "daily|somewhat": 3, "daily|confident": 3, "daily|very_confident": 4,
				},
				Narratives: []string{
					"Your AI journey is just beginning. Short, frequent practice will build momentum faster than occasional deep dives.",
					"You have some momentum. Pairing regular use with a little structured practice will turn it into confidence.",
					"You have solid momentum. Focus now on depth: better prompts, better tools, better checks.",
					"You are moving fast and confidently. Keep challenging yourself with harder problems.",
				},
				DefaultTier: 1,
			},
			{
				Name:   TierCapacity,
				First:  "time_available",
				Second: "learning_habit",
				Tiers: map[string]int{
					"under_1h|none": 1, "under_1h|occasional": 1, "under_1h|regular": 2, "under_1h|structured": 2,
					"1_to_3h|none": 1, "1_to_3h|occasional": 2, "1_to_3h|regular": 2, "1_to_3h|structured": 3,
					"3_to_5h|none": 2, "3_to_5h|occasional": 2, "3_to_5h|regular": 3, "3_to_5h|structured": 3,
					"over_5h|none": 2, "over_5h|occasional": 3, "over_5h|regular": 3, "over_5h|structured": 4,
				},
				Narratives: []string{
					"Time is tight, so make every minute count: ten focused minutes a day beats an unused weekend course.",
					"You have some room to learn. A simple weekly routine will make steady progress.",
					"You have good capacity. A structured programme would let you use it well.",
					"You have the time and the habit. You could reach an advanced level within a few months.",
				},
				DefaultTier: 1,
			},
		},
	}
}

// ─── REPORT DATA ──────────────────────────────────────────────────────────────

// PersonalReadinessData is the flat report record for a Personal AI
// Readiness submission.
type PersonalReadinessData struct {
	ContactFields
	ReadinessScore     string `json:"readiness_score"`
	ReadinessBand      string `json:"readiness_band"`
	ReadinessNarrative string `json:"readiness_narrative"`

	UsageFrequency QuestionFields `json:"usage_frequency"`
	Confidence     QuestionFields `json:"confidence"`
	Prompting      QuestionFields `json:"prompting"`
	ToolVariety    QuestionFields `json:"tool_variety"`
	Verification   QuestionFields `json:"verification"`
	LearningHabit  QuestionFields `json:"learning_habit"`
	Workflow       QuestionFields `json:"workflow"`
	TimeAvailable  QuestionFields `json:"time_available"`
	Goal           QuestionFields `json:"goal"`

	MomentumTier      string `json:"momentum_tier"`
	MomentumNarrative string `json:"momentum_narrative"`
	CapacityTier      string `json:"capacity_tier"`
	CapacityNarrative string `json:"capacity_narrative"`

	Gap1 GapFields `json:"gap_1"`
	Gap2 GapFields `json:"gap_2"`
	Gap3 GapFields `json:"gap_3"`

	Step1 string `json:"step_1"`
	Step2 string `json:"step_2"`
	Step3 string `json:"step_3"`
}

func (PersonalReadinessData) Kind() Kind { return KindPersonalReadiness }
func (PersonalReadinessData) sealed()    {}

func (d PersonalReadinessData) Document() Document {
	return Document{
		Kind:       KindPersonalReadiness,
		Title:      KindPersonalReadiness.Title(),
		Contact:    d.ContactFields,
		ScoreLabel: "Personal AI readiness score",
		Score:      d.ReadinessScore,
		Band:       d.ReadinessBand,
		Narrative:  d.ReadinessNarrative,
		Questions: []QuestionFields{
			d.UsageFrequency, d.Confidence, d.Prompting, d.ToolVariety,
			d.Verification, d.LearningHabit, d.Workflow, d.TimeAvailable, d.Goal,
		},
		Gaps:  []GapFields{d.Gap1, d.Gap2, d.Gap3},
		Steps: nonPlaceholder(d.Step1, d.Step2, d.Step3),
		Notes: nonPlaceholder(d.MomentumNarrative, d.CapacityNarrative),
	}
}

func buildPersonalReadiness(s PersonalReadinessSubmission, res scoring.Result) PersonalReadinessData {
	tier := func(name string) (string, string) {
		tr, ok := res.Tiers[name]
		if !ok {
			return Placeholder, Placeholder
		}
		return itoa(tr.Tier), orPlaceholder(tr.Narrative)
	}
	momentumTier, momentumNarrative := tier(TierMomentum)
	capacityTier, capacityNarrative := tier(TierCapacity)

	return PersonalReadinessData{
		ContactFields:      contactFields(s.Contact, res.ProcessedAt),
		ReadinessScore:     itoa(res.Score),
		ReadinessBand:      orPlaceholder(res.Band.Label),
		ReadinessNarrative: orPlaceholder(res.Band.Narrative),

		UsageFrequency: questionFields(res, "usage_frequency"),
		Confidence:     questionFields(res, "confidence"),
		Prompting:      questionFields(res, "prompting"),
		ToolVariety:    questionFields(res, "tool_variety"),
		Verification:   questionFields(res, "verification"),
		LearningHabit:  questionFields(res, "learning_habit"),
		Workflow:       questionFields(res, "workflow"),
		TimeAvailable:  questionFields(res, "time_available"),
		Goal:           questionFields(res, "goal"),

		MomentumTier:      momentumTier,
		MomentumNarrative: momentumNarrative,
		CapacityTier:      capacityTier,
		CapacityNarrative: capacityNarrative,

		Gap1: gapFields(res, 0),
		Gap2: gapFields(res, 1),
		Gap3: gapFields(res, 2),

		Step1: step(res, 0),
		Step2: step(res, 1),
		Step3: step(res, 2),
	}
}
