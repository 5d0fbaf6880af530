package assessment

import "github.com/nyashahama/ai-readiness-assessments/internal/scoring"

// BusinessReadinessConfig scores organisational AI readiness across eight
// dimensions, each worth up to 15 points.
func BusinessReadinessConfig() scoring.Config {
	q := func(key, title string, rungs [4]rung, gap scoring.Gap) scoring.Question {
		return scoring.Question{
			Key:     key,
			Title:   title,
			Kind:    scoring.SingleChoice,
			Answers: ladder(businessPoints, rungs),
			Gap:     gap,
		}
	}

	return scoring.Config{
		Name:     string(KindBusinessReadiness),
		Polarity: scoring.HigherIsBetter,
		Questions: []scoring.Question{
			q("strategy", "AI strategy", [4]rung{
				{"no_strategy", "There is no AI strategy.", "Without a strategy, AI spend follows enthusiasm rather than business value."},
				{"exploring", "You are exploring what AI could mean for the business.", "Exploration is healthy. Set a date by which it must turn into priorities."},
				{"documented", "You have a documented AI strategy.", "A written strategy lets you say no to distractions. Check it links to measurable outcomes."},
				{"integrated", "AI is integrated into the business strategy itself.", "AI is treated as a lever on business goals rather than a side project."},
			}, scoring.Gap{
				Title:          "No AI strategy",
				Description:    "AI activity is not anchored to business objectives.",
				Recommendation: "Agree three business outcomes AI should move in the next 12 months and measure against them.",
			}),
			q("leadership", "Leadership sponsorship", [4]rung{
				{"no_sponsor", "No senior leader owns AI.", "Initiatives without a sponsor stall at the first budget conversation."},
				{"interested", "Leaders are interested but nobody owns it.", "Interest is not ownership. Someone needs to be accountable."},
				{"sponsor", "A named executive sponsors AI.", "A sponsor clears blockers. Make sure they have budget authority too."},
				{"leadership_team", "The whole leadership team drives AI adoption.", "Shared ownership at the top is the strongest predictor of adoption."},
			}, scoring.Gap{
				Title:          "No executive ownership",
				Description:    "AI has no accountable senior sponsor.",
				Recommendation: "Name one executive sponsor with a budget and a quarterly reporting slot.",
			}),
			q("data_quality", "Data quality and access", [4]rung{
				{"fragmented", "Data is fragmented and hard to access.", "AI amplifies the data it is given. Fragmented data means unreliable output."},
				{"some_clean", "Some data is clean and accessible.", "Start AI work where the clean data already is."},
				{"managed", "Core data is managed and accessible.", "Managed data lets you move from pilots to production."},
				{"governed_platform", "Data sits on a governed, well-documented platform.", "Your data foundation is a genuine advantage."},
			}, scoring.Gap{
				Title:          "Weak data foundation",
				Description:    "The data AI would depend on is fragmented or of uncertain quality.",
				Recommendation: "Pick the one dataset your first AI use case needs and fix its quality and access.",
			}),
			q("skills", "AI skills", [4]rung{
				{"none", "Staff have little or no AI experience.", "Skills gaps slow everything else. Start with practical, role-specific training."},
				{"enthusiasts", "A few enthusiasts carry AI knowledge.", "Enthusiasts are valuable. Turn their knowledge into something the rest can use."},
				{"trained_teams", "Several teams have been trained.", "Trained teams can run pilots on their own."},
				{"organisation_wide", "AI capability is spread across the organisation.", "Broad capability lets good ideas surface from anywhere."},
			}, scoring.Gap{
				Title:          "Skills gap",
				Description:    "Too few people know how to apply AI to their work.",
				Recommendation: "Run hands-on workshops per team using their own tasks as examples.",
			}),
			q("use_cases", "Identified use cases", [4]rung{
				{"none_identified", "No AI use cases have been identified.", "Without candidate use cases there is nothing to prioritise or fund."},
				{"ideas", "There are ideas but nothing evaluated.", "Score each idea on value and feasibility to find the quick wins."},
				{"piloting", "You are piloting specific use cases.", "Pilots need success criteria agreed up front."},
				{"in_production", "AI use cases are running in production.", "Production use gives you evidence to scale what works."},
			}, scoring.Gap{
				Title:          "No prioritised use cases",
				Description:    "There is no evaluated pipeline of AI opportunities.",
				Recommendation: "Hold a half-day session to list and score ten candidate use cases.",
			}),
			q("tooling", "AI tooling", [4]rung{
				{"none", "No AI tools are in use.", "Staff are probably using consumer tools anyway. Provide a sanctioned option."},
				{"individual_tools", "Individuals use AI tools of their own choosing.", "Individual choice creates inconsistent results and data risk."},
				{"standard_tools", "There is a standard set of approved tools.", "Standard tools make support and training easier."},
				{"integrated_platform", "AI is integrated into core systems and workflows.", "Integrated tooling is where the real productivity gains come from."},
			}, scoring.Gap{
				Title:          "Ad hoc tooling",
				Description:    "AI tools are chosen individually with no standard platform.",
				Recommendation: "Select one approved assistant and one integration platform and retire the rest.",
			}),
			q("governance", "AI governance", [4]rung{
				{"none", "There are no rules for AI use.", "Ungoverned AI use is a legal and reputational risk."},
				{"informal", "Guidance is informal.", "Informal guidance does not survive staff turnover."},
				{"policy", "There is a written AI policy.", "A policy is the baseline. Pair it with review of new use cases."},
				{"framework", "A governance framework covers risk, ethics and review.", "Mature governance lets you move faster with confidence."},
			}, scoring.Gap{
				Title:          "No governance",
				Description:    "AI use is not covered by policy or review.",
				Recommendation: "Adopt a short acceptable-use policy and a lightweight review for new AI use cases.",
			}),
			q("budget", "Investment and budget", [4]rung{
				{"no_budget", "There is no budget for AI.", "Unfunded ambitions stay ambitions."},
				{"ad_hoc", "AI is funded ad hoc from other budgets.", "Ad hoc funding makes it hard to sustain anything beyond a pilot."},
				{"allocated", "There is an allocated AI budget.", "A dedicated budget signals commitment. Tie it to measured outcomes."},
				{"multi_year", "AI investment is planned over several years.", "Multi-year planning supports the foundations AI depends on."},
			}, scoring.Gap{
				Title:          "No dedicated investment",
				Description:    "AI work competes for leftover budget.",
				Recommendation: "Ring-fence a modest budget for the top two use cases with a six-month review.",
			}),
		},
		Bands: []scoring.Band{
			{
				Min: 0, Max: 24, Label: "Blind",
				Narrative: "AI is not yet on the organisation's radar in any structured way. The opportunity, and the risk, are going unseen.",
				Recommendations: []string{
					"Run an AI awareness session for the leadership team.",
					"Name an executive sponsor for AI.",
					"Identify three candidate use cases tied to business pain points.",
				},
			},
			{
				Min: 25, Max: 49, Label: "Curious",
				Narrative: "There is interest and some experimentation, but no shared direction or foundation yet.",
				Recommendations: []string{
					"Turn experimentation into a short written AI strategy.",
					"Publish an acceptable-use policy.",
					"Choose one pilot with clear success criteria.",
				},
			},
			{
				Min: 50, Max: 74, Label: "Building",
				Narrative: "Foundations are forming: sponsorship, early pilots and some governance. The challenge now is scaling.",
				Recommendations: []string{
					"Move the strongest pilot into production.",
					"Invest in the data foundations your next use cases need.",
					"Extend training beyond early adopters.",
				},
			},
			{
				Min: 75, Max: 100, Label: "Leading",
				Narrative: "AI is embedded in strategy and operations. You are positioned to compound the advantage.",
				Recommendations: []string{
					"Measure and publish AI outcomes internally.",
					"Review governance against emerging regulation.",
					"Explore AI-enabled products and services for customers.",
				},
			},
		},
		MaxRawScore:    120,
		GapPlaceholder: readinessPlaceholder,
		Unmapped:       readinessUnmapped,
	}
}

// ─── REPORT DATA ──────────────────────────────────────────────────────────────

// BusinessReadinessData is the flat report record for a Business AI
// Readiness submission.
type BusinessReadinessData struct {
	ContactFields
	ReadinessScore     string `json:"readiness_score"`
	ReadinessBand      string `json:"readiness_band"`
	ReadinessNarrative string `json:"readiness_narrative"`

	Strategy    QuestionFields `json:"strategy"`
	Leadership  QuestionFields `json:"leadership"`
	DataQuality QuestionFields `json:"data_quality"`
	Skills      QuestionFields `json:"skills"`
	UseCases    QuestionFields `json:"use_cases"`
	Tooling     QuestionFields `json:"tooling"`
	Governance  QuestionFields `json:"governance"`
	Budget      QuestionFields `json:"budget"`

	Gap1 GapFields `json:"gap_1"`
	Gap2 GapFields `json:"gap_2"`
	Gap3 GapFields `json:"gap_3"`

	Step1 string `json:"step_1"`
	Step2 string `json:"step_2"`
	Step3 string `json:"step_3"`
}

func (BusinessReadinessData) Kind() Kind { return KindBusinessReadiness }
func (BusinessReadinessData) sealed()    {}

func (d BusinessReadinessData) Document() Document {
	return Document{
		Kind:       KindBusinessReadiness,
		Title:      KindBusinessReadiness.Title(),
		Contact:    d.ContactFields,
		ScoreLabel: "AI readiness score",
		Score:      d.ReadinessScore,
		Band:       d.ReadinessBand,
		Narrative:  d.ReadinessNarrative,
		Questions: []QuestionFields{
			d.Strategy, d.Leadership, d.DataQuality, d.Skills,
			d.UseCases, d.Tooling, d.Governance, d.Budget,
		},
		Gaps:  []GapFields{d.Gap1, d.Gap2, d.Gap3},
		Steps: nonPlaceholder(d.Step1, d.Step2, d.Step3),
	}
}

func buildBusinessReadiness(s BusinessReadinessSubmission, res scoring.Result) BusinessReadinessData {
	return BusinessReadinessData{
		ContactFields:      contactFields(s.Contact, res.ProcessedAt),
		ReadinessScore:     itoa(res.Score),
		ReadinessBand:      orPlaceholder(res.Band.Label),
		ReadinessNarrative: orPlaceholder(res.Band.Narrative),

		Strategy:    questionFields(res, "strategy"),
		Leadership:  questionFields(res, "leadership"),
		DataQuality: questionFields(res, "data_quality"),
		Skills:      questionFields(res, "skills"),
		UseCases:    questionFields(res, "use_cases"),
		Tooling:     questionFields(res, "tooling"),
		Governance:  questionFields(res, "governance"),
		Budget:      questionFields(res, "budget"),

		Gap1: gapFields(res, 0),
		Gap2: gapFields(res, 1),
		Gap3: gapFields(res, 2),

		Step1: step(res, 0),
		Step2: step(res, 1),
		Step3: step(res, 2),
	}
}
