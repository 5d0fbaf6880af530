package assessment

import "github.com/nyashahama/ai-readiness-assessments/internal/scoring"

// BoardGovernanceConfig scores how well a board oversees AI, ten questions
// of up to five points each.
func BoardGovernanceConfig() scoring.Config {
	q := func(key, title string, rungs [4]rung, gap scoring.Gap) scoring.Question {
		return scoring.Question{
			Key:     key,
			Title:   title,
			Kind:    scoring.SingleChoice,
			Answers: ladder(fivePoints, rungs),
			Gap:     gap,
		}
	}

	return scoring.Config{
		Name:     string(KindBoardGovernance),
		Polarity: scoring.HigherIsBetter,
		Questions: []scoring.Question{
			q("board_oversight", "Board oversight of AI", [4]rung{
				{"never_discussed", "AI has never been on the board agenda.", "Directors remain accountable for AI risk whether or not they discuss it."},
				{"occasional", "AI comes up occasionally at board level.", "Occasional discussion tends to be reactive, driven by headlines."},
				{"standing_item", "AI is a standing board or committee agenda item.", "Regular oversight lets the board spot trends rather than incidents."},
				{"committee_charter", "A committee charter explicitly covers AI.", "Formal allocation of AI oversight is current best practice."},
			}, scoring.Gap{
				Title:          "No board oversight",
				Description:    "AI is not formally within the board's oversight remit.",
				Recommendation: "Assign AI oversight to a committee and amend its charter.",
			}),
			q("risk_appetite", "AI risk appetite", [4]rung{
				{"undefined", "The board has not defined an appetite for AI risk.", "Without an appetite statement management cannot tell which AI risks are acceptable."},
				{"implicit", "Risk appetite for AI is implied rather than stated.", "Implicit appetite is interpreted differently by every executive."},
				{"stated", "AI risk appetite is stated in the risk framework.", "A stated appetite anchors decisions. Revisit it as capabilities change."},
				{"cascaded", "AI risk appetite is stated and cascaded into limits and metrics.", "Cascaded appetite turns board intent into operational controls."},
			}, scoring.Gap{
				Title:          "Undefined risk appetite",
				Description:    "The board has not said how much AI risk it will accept.",
				Recommendation: "Add an AI section to the risk appetite statement with two or three measurable limits.",
			}),
			q("management_reporting", "Management reporting on AI", [4]rung{
				{"none", "Management does not report on AI.", "The board cannot oversee what it is never shown."},
				{"ad_hoc", "Management reports on AI when asked.", "Ad hoc reporting shows the board what management chooses to show."},
				{"periodic", "Management reports on AI periodically.", "Periodic reporting supports oversight. Check it includes risks, not just projects."},
				{"dashboard", "The board receives a regular AI dashboard with risk indicators.", "Indicator-based reporting lets the board ask sharper questions."},
			}, scoring.Gap{
				Title:          "No AI reporting",
				Description:    "The board receives little or no structured information about AI.",
				Recommendation: "Agree a one-page quarterly AI report covering use, incidents and risk indicators.",
			}),
			q("board_literacy", "Director AI literacy", [4]rung{
				{"low", "Directors have limited understanding of AI.", "Low literacy makes it hard to challenge management effectively."},
				{"some_members", "Some directors understand AI well.", "Reliance on one or two directors concentrates judgement."},
				{"briefed", "The full board has been briefed on AI.", "A shared baseline lets the whole board participate."},
				{"ongoing_development", "Directors have ongoing AI education.", "Continuous development keeps pace with a fast-moving field."},
			}, scoring.Gap{
				Title:          "Limited AI literacy",
				Description:    "Directors may lack the understanding needed to challenge AI decisions.",
				Recommendation: "Schedule a board education session and add AI to the skills matrix.",
			}),
			q("regulatory_tracking", "Regulatory horizon scanning", [4]rung{
				{"not_tracked", "AI regulation is not tracked.", "New AI rules carry significant penalties. Not tracking them is a material risk."},
				{"informal", "Someone keeps an informal eye on AI regulation.", "Informal tracking depends on one person's attention."},
				{"assigned", "A named function tracks AI regulation.", "Assigned tracking means changes reach decision makers."},
				{"mapped_obligations", "AI obligations are mapped to controls.", "Mapped obligations make compliance evidence straightforward."},
			}, scoring.Gap{
				Title:          "Regulatory blind spot",
				Description:    "Emerging AI regulation is not being systematically tracked.",
				Recommendation: "Ask legal or compliance to own AI horizon scanning and report twice a year.",
			}),
			q("accountability", "Executive accountability for AI", [4]rung{
				{"unclear", "It is unclear who is accountable for AI.", "Unclear accountability means nobody acts until something goes wrong."},
				{"shared_informally", "Accountability is informally shared.", "Shared accountability is often no accountability."},
				{"named_executive", "A named executive is accountable for AI.", "Named ownership gives the board someone to hold to account."},
				{"documented_raci", "AI roles are documented from board to operations.", "Documented roles close the gaps between oversight and delivery."},
			}, scoring.Gap{
				Title:          "Unclear accountability",
				Description:    "No executive is clearly answerable to the board for AI.",
				Recommendation: "Name an accountable executive and document AI responsibilities.",
			}),
			q("third_party", "Third-party AI risk", [4]rung{
				{"not_considered", "AI used by suppliers is not considered.", "Much of your AI exposure arrives through vendors."},
				{"case_by_case", "Supplier AI is considered case by case.", "Case-by-case review misses AI added to existing contracts."},
				{"due_diligence", "Supplier due diligence includes AI questions.", "AI due diligence catches most new exposure at contract time."},
				{"contractual_controls", "Contracts include AI-specific obligations and audit rights.", "Contractual controls give you leverage when things go wrong."},
			}, scoring.Gap{
				Title:          "Unmanaged supplier AI",
				Description:    "AI used by suppliers on your behalf is not assessed.",
				Recommendation: "Add AI questions to supplier due diligence and standard contract terms.",
			}),
			q("ethics", "Ethical principles", [4]rung{
				{"none", "There are no stated principles for responsible AI.", "Without principles, contentious AI decisions are made case by case."},
				{"discussed", "Responsible AI has been discussed but not written down.", "Discussion is a start. Principles need to be written to be applied."},
				{"published", "Responsible AI principles are published.", "Published principles set expectations. Check they are applied in practice."},
				{"operationalised", "Principles are built into review and approval processes.", "Operationalised principles shape decisions rather than decorate them."},
			}, scoring.Gap{
				Title:          "No responsible AI principles",
				Description:    "There is no agreed basis for judging whether an AI use is acceptable.",
				Recommendation: "Adopt five responsible AI principles and use them in project approvals.",
			}),
			q("incident_escalation", "AI incident escalation", [4]rung{
				{"no_route", "There is no route to escalate AI incidents to the board.", "The board may learn about a serious AI incident from the press."},
				{"general_route", "AI incidents would follow general escalation routes.", "General routes may not recognise AI-specific harms."},
				{"defined_thresholds", "There are defined thresholds for escalating AI incidents.", "Clear thresholds mean the right incidents reach the board."},
				{"tested", "AI escalation is defined and has been tested.", "A tested route is the only kind you can rely on."},
			}, scoring.Gap{
				Title:          "No incident escalation",
				Description:    "Serious AI incidents may not reach the board in time.",
				Recommendation: "Define AI incident thresholds and run a tabletop exercise.",
			}),
			q("strategy_alignment", "Alignment with strategy", [4]rung{
				{"unrelated", "AI activity is unrelated to the board-approved strategy.", "Disconnected AI spend is hard for the board to evaluate."},
				{"partially", "Some AI activity supports the strategy.", "Partial alignment suggests some AI work is opportunistic."},
				{"aligned", "AI plans are aligned with the strategy.", "Alignment lets the board judge AI investment on strategic merit."},
				{"shapes_strategy", "AI actively shapes the board's strategic choices.", "The board is treating AI as a strategic question, not only a risk."},
			}, scoring.Gap{
				Title:          "AI disconnected from strategy",
				Description:    "AI initiatives are not evaluated against strategic objectives.",
				Recommendation: "Ask management to map every material AI initiative to a strategic objective.",
			}),
		},
		Bands: []scoring.Band{
			{
				Min: 0, Max: 29, Label: "Unprepared",
				Narrative: "The board is not yet overseeing AI. Directors carry accountability for risks they have little visibility of.",
				Recommendations: []string{
					"Put AI on the next board agenda with a management briefing.",
					"Allocate AI oversight to a committee.",
					"Name an accountable executive for AI.",
				},
			},
			{
				Min: 30, Max: 54, Label: "Aware",
				Narrative: "The board recognises AI as an issue, but oversight is informal and reactive.",
				Recommendations: []string{
					"Agree a regular AI report from management.",
					"State the board's appetite for AI risk.",
					"Run a director education session.",
				},
			},
			{
				Min: 55, Max: 79, Label: "Developing",
				Narrative: "Core oversight structures exist. The next step is making them systematic and evidence-based.",
				Recommendations: []string{
					"Introduce AI risk indicators into board reporting.",
					"Extend oversight to supplier AI.",
					"Test the AI incident escalation route.",
				},
			},
			{
				Min: 80, Max: 100, Label: "Governed",
				Narrative: "The board oversees AI with clear structures, information and accountability.",
				Recommendations: []string{
					"Benchmark AI governance against peers annually.",
					"Review the framework against new regulation.",
					"Use the board's oversight to support bolder AI strategy.",
				},
			},
		},
		MaxRawScore:    50,
		GapPlaceholder: readinessPlaceholder,
		Unmapped:       readinessUnmapped,
	}
}

// ─── REPORT DATA ──────────────────────────────────────────────────────────────

// BoardGovernanceData is the flat report record for a Board AI Governance
// submission.
type BoardGovernanceData struct {
	ContactFields
	GovernanceScore     string `json:"governance_score"`
	GovernanceBand      string `json:"governance_band"`
	GovernanceNarrative string `json:"governance_narrative"`

	BoardOversight      QuestionFields `json:"board_oversight"`
	RiskAppetite        QuestionFields `json:"risk_appetite"`
	ManagementReporting QuestionFields `json:"management_reporting"`
	BoardLiteracy       QuestionFields `json:"board_literacy"`
	RegulatoryTracking  QuestionFields `json:"regulatory_tracking"`
	Accountability      QuestionFields `json:"accountability"`
	ThirdParty          QuestionFields `json:"third_party"`
	Ethics              QuestionFields `json:"ethics"`
	IncidentEscalation  QuestionFields `json:"incident_escalation"`
	StrategyAlignment   QuestionFields `json:"strategy_alignment"`

	Gap1 GapFields `json:"gap_1"`
	Gap2 GapFields `json:"gap_2"`
	Gap3 GapFields `json:"gap_3"`

	Step1 string `json:"step_1"`
	Step2 string `json:"step_2"`
	Step3 string `json:"step_3"`
}

func (BoardGovernanceData) Kind() Kind { return KindBoardGovernance }
func (BoardGovernanceData) sealed()    {}

func (d BoardGovernanceData) Document() Document {
	return Document{
		Kind:       KindBoardGovernance,
		Title:      KindBoardGovernance.Title(),
		Contact:    d.ContactFields,
		ScoreLabel: "AI governance score",
		Score:      d.GovernanceScore,
		Band:       d.GovernanceBand,
		Narrative:  d.GovernanceNarrative,
		Questions: []QuestionFields{
			d.BoardOversight, d.RiskAppetite, d.ManagementReporting, d.BoardLiteracy,
			d.RegulatoryTracking, d.Accountability, d.ThirdParty, d.Ethics,
			d.IncidentEscalation, d.StrategyAlignment,
		},
		Gaps:  []GapFields{d.Gap1, d.Gap2, d.Gap3},
		Steps: nonPlaceholder(d.Step1, d.Step2, d.Step3),
	}
}

func buildBoardGovernance(s BoardGovernanceSubmission, res scoring.Result) BoardGovernanceData {
	return BoardGovernanceData{
		ContactFields:       contactFields(s.Contact, res.ProcessedAt),
		GovernanceScore:     itoa(res.Score),
		GovernanceBand:      orPlaceholder(res.Band.Label),
		GovernanceNarrative: orPlaceholder(res.Band.Narrative),

		BoardOversight:      questionFields(res, "board_oversight"),
		RiskAppetite:        questionFields(res, "risk_appetite"),
		ManagementReporting: questionFields(res, "management_reporting"),
		BoardLiteracy:       questionFields(res, "board_literacy"),
		RegulatoryTracking:  questionFields(res, "regulatory_tracking"),
		Accountability:      questionFields(res, "accountability"),
		ThirdParty:          questionFields(res, "third_party"),
		Ethics:              questionFields(res, "ethics"),
		IncidentEscalation:  questionFields(res, "incident_escalation"),
		StrategyAlignment:   questionFields(res, "strategy_alignment"),

		Gap1: gapFields(res, 0),
		Gap2: gapFields(res, 1),
		Gap3: gapFields(res, 2),

		Step1: step(res, 0),
		Step2: step(res, 1),
		Step3: step(res, 2),
	}
}
