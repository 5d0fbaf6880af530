package assessment

import "github.com/nyashahama/ai-readiness-assessments/internal/scoring"

// ─── CONFIGURATION ────────────────────────────────────────────────────────────

// shadowDontKnow is shared by every single-choice Shadow AI question. Not
// knowing scores close to the worst answer and counts toward escalation.
func shadowDontKnow(playback, interpretation string) scoring.Outcome {
	return scoring.Outcome{
		Score:          8,
		Risk:           scoring.RiskUnknown,
		Status:         "Unknown",
		Playback:       playback,
		Interpretation: interpretation,
		Unknown:        true,
	}
}

// ShadowAIConfig is the risk-style configuration: every point is exposure, so
// a higher score is worse.
func ShadowAIConfig() scoring.Config {
	return scoring.Config{
		Name:     string(KindShadowAI),
		Polarity: scoring.HigherIsWorse,
		Questions: []scoring.Question{
			{
				Key:   "ai_policy",
				Title: "AI acceptable-use policy",
				Kind:  scoring.SingleChoice,
				Answers: map[string]scoring.Outcome{
					"formal_enforced": {
						Score: 0, Risk: scoring.RiskLow, Status: "Governed",
						Playback:       "You have a written AI policy that is communicated and enforced.",
						Interpretation: "Staff know what is allowed. Keep the policy under review as new tools appear.",
					},
					"formal_not_enforced": {
						Score: 4, Risk: scoring.RiskMedium, Status: "Partial",
						Playback:       "You have a written AI policy, but it is not actively enforced.",
						Interpretation: "A policy nobody checks tends to be read once and forgotten. Usage drifts outside it quickly.",
					},
					"informal": {
						Score: 7, Risk: scoring.RiskHigh, Status: "Weak",
						Playback:       "AI use is guided by informal expectations rather than a written policy.",
						Interpretation: "Unwritten rules are interpreted differently by every team, and they cannot be enforced.",
					},
					"none": {
						Score: 10, Risk: scoring.RiskCritical, Status: "Absent",
						Playback:       "There is no AI use policy in place.",
						Interpretation: "Without a policy every employee is deciding for themselves what data AI tools may see.",
					},
					"dont_know": shadowDontKnow(
						"You are not sure whether an AI policy exists.",
						"If leadership cannot say whether a policy exists, staff certainly cannot follow one.",
					),
				},
				Gap: scoring.Gap{
					Title:          "No enforceable AI policy",
					Description:    "Employees lack a clear, written statement of which AI tools and data uses are acceptable.",
					Recommendation: "Publish a one-page acceptable-use policy, have staff acknowledge it, and review it quarterly.",
				},
			},
			{
				Key:   "tool_inventory",
				Title: "Visibility of AI tools in use",
				Kind:  scoring.SingleChoice,
				Answers: map[string]scoring.Outcome{
					"complete_inventory": {
						Score: 0, Risk: scoring.RiskLow, Status: "Visible",
						Playback:       "You maintain a complete inventory of AI tools in use.",
						Interpretation: "An inventory is the foundation for every other control. Keep it current.",
					},
					"partial_inventory": {
						Score: 4, Risk: scoring.RiskMedium, Status: "Partial",
						Playback:       "You track some AI tools, but the list is incomplete.",
						Interpretation: "Partial lists usually miss browser extensions and AI features inside existing SaaS products.",
					},
					"anecdotal": {
						Score: 7, Risk: scoring.RiskHigh, Status: "Anecdotal",
						Playback:       "You know about AI tools only from what people mention.",
						Interpretation: "Anecdotes catch the popular tools and miss the risky ones.",
					},
					"no_visibility": {
						Score: 10, Risk: scoring.RiskCritical, Status: "Blind",
						Playback:       "You have no visibility of which AI tools staff use.",
						Interpretation: "You cannot govern, secure or license tools you do not know about.",
					},
					"dont_know": shadowDontKnow(
						"You are not sure how AI tool usage is tracked.",
						"Uncertainty here usually means nobody owns the question.",
					),
				},
				Gap: scoring.Gap{
					Title:          "Unknown AI tool landscape",
					Description:    "There is no reliable picture of which AI tools and AI-enabled features are in use.",
					Recommendation: "Run a two-week discovery using SSO logs, expense data and a short staff survey.",
				},
			},
			{
				Key:   "data_exposure",
				Title: "Sensitivity of data reaching AI tools",
				Kind:  scoring.SingleChoice,
				Answers: map[string]scoring.Outcome{
					"public_only": {
						Score: 0, Risk: scoring.RiskLow, Status: "Contained",
						Playback:       "Only public information is used with AI tools.",
						Interpretation: "Low exposure. Confirm that this is enforced and not just assumed.",
					},
					"internal": {
						Score: 4, Risk: scoring.RiskMedium, Status: "Internal",
						Playback:       "Internal business information is used with AI tools.",
						Interpretation: "Internal documents often contain more than people realise: names, pricing, plans.",
					},
					"client_confidential": {
						Score: 7, Risk: scoring.RiskHigh, Status: "Confidential",
						Playback:       "Client or commercially confidential information reaches AI tools.",
						Interpretation: "This can breach contractual confidentiality terms even when no one intends harm.",
					},
					"regulated": {
						Score: 10, Risk: scoring.RiskCritical, Status: "Regulated",
						Playback:       "Personal, financial or health data reaches AI tools.",
						Interpretation: "Regulated data in unvetted tools creates direct legal exposure under data-protection law.",
					},
					"dont_know": shadowDontKnow(
						"You do not know what data is being put into AI tools.",
						"Assume the worst until you can show otherwise. Regulators will.",
					),
				},
				Gap: scoring.Gap{
					Title:          "Sensitive data exposure",
					Description:    "Confidential or regulated data can reach AI services outside your control.",
					Recommendation: "Classify data, block regulated categories from unapproved tools, and provide a safe alternative.",
				},
			},
			{
				Key:   "approved_tools",
				Title: "Availability of approved AI tools",
				Kind:  scoring.SingleChoice,
				Answers: map[string]scoring.Outcome{
					"enterprise_licensed": {
						Score: 0, Risk: scoring.RiskLow, Status: "Provided",
						Playback:       "Staff have enterprise-licensed AI tools with data protections.",
						Interpretation: "Giving people a safe option is the most effective way to reduce shadow usage.",
					},
					"some_approved": {
						Score: 4, Risk: scoring.RiskMedium, Status: "Limited",
						Playback:       "Some AI tools are approved, but not for every need.",
						Interpretation: "Where approved tools fall short, people fill the gap with whatever is free.",
					},
					"free_tiers_tolerated": {
						Score: 7, Risk: scoring.RiskHigh, Status: "Tolerated",
						Playback:       "Staff use free consumer AI tools and this is tolerated.",
						Interpretation: "Free tiers often train on your inputs and offer no contractual protection.",
					},
					"none_available": {
						Score: 10, Risk: scoring.RiskCritical, Status: "None",
						Playback:       "No AI tools are provided or approved.",
						Interpretation: "Demand does not disappear when supply is absent. It moves out of sight.",
					},
					"dont_know": shadowDontKnow(
						"You are not sure whether any AI tools are approved.",
						"If approval status is unclear, staff will assume whatever is convenient.",
					),
				},
				Gap: scoring.Gap{
					Title:          "No safe AI alternative",
					Description:    "Staff who want AI assistance have no approved, protected tool to use.",
					Recommendation: "License one enterprise AI assistant with data-retention controls and make it the default.",
				},
			},
			{
				Key:   "training",
				Title: "Staff training on safe AI use",
				Kind:  scoring.SingleChoice,
				Answers: map[string]scoring.Outcome{
					"all_staff": {
						Score: 0, Risk: scoring.RiskLow, Status: "Trained",
						Playback:       "All staff have had training on safe AI use.",
						Interpretation: "Trained staff are your best detection layer. Refresh the training as tools change.",
					},
					"some_teams": {
						Score: 4, Risk: scoring.RiskMedium, Status: "Partial",
						Playback:       "Some teams have had AI training.",
						Interpretation: "Untrained teams are frequently the heaviest informal users.",
					},
					"ad_hoc": {
						Score: 7, Risk: scoring.RiskHigh, Status: "Ad hoc",
						Playback:       "Training happens informally, if at all.",
						Interpretation: "Informal tips spread productivity tricks faster than safety practices.",
					},
					"none": {
						Score: 10, Risk: scoring.RiskCritical, Status: "Untrained",
						Playback:       "No one has been trained on safe AI use.",
						Interpretation: "People cannot avoid risks nobody has described to them.",
					},
					"dont_know": shadowDontKnow(
						"You are not sure what AI training staff have had.",
						"Untracked training is usually no training.",
					),
				},
				Gap: scoring.Gap{
					Title:          "Untrained workforce",
					Description:    "Staff have not been shown what safe and unsafe AI use looks like.",
					Recommendation: "Deliver a 45-minute safe-use session to every team, then a short annual refresher.",
				},
			},
			{
				Key:   "incidents",
				Title: "AI-related data incidents",
				Kind:  scoring.SingleChoice,
				Answers: map[string]scoring.Outcome{
					"none_confirmed": {
						Score: 0, Risk: scoring.RiskLow, Status: "None known",
						Playback:       "You are not aware of any AI-related data incidents.",
						Interpretation: "Good, provided you would actually detect one. Check that reporting routes exist.",
					},
					"near_miss": {
						Score: 5, Risk: scoring.RiskMedium, Status: "Near miss",
						Playback:       "There has been at least one near miss involving AI tools.",
						Interpretation: "Near misses are free lessons. Capture what nearly happened and why it did not.",
					},
					"suspected": {
						Score: 8, Risk: scoring.RiskHigh, Status: "Suspected",
						Playback:       "You suspect sensitive data has been exposed through an AI tool.",
						Interpretation: "A suspicion needs investigating now. The cost of checking is small compared with the cost of being wrong.",
					},
					"confirmed": {
						Score: 10, Risk: scoring.RiskCritical, Status: "Confirmed",
						Playback:       "Sensitive data has been exposed through an AI tool.",
						Interpretation: "This is a live incident and may carry notification obligations.",
					},
					"dont_know": shadowDontKnow(
						"You do not know whether any AI-related incidents have occurred.",
						"Without detection, the absence of known incidents tells you very little.",
					),
				},
				Gap: scoring.Gap{
					Title:          "Incident exposure",
					Description:    "AI-related data exposure has occurred or cannot be ruled out.",
					Recommendation: "Add AI tools to your incident-response runbook and give staff a no-blame reporting route.",
				},
			},
			{
				Key:   "vendor_review",
				Title: "Review of AI features in vendor software",
				Kind:  scoring.SingleChoice,
				Answers: map[string]scoring.Outcome{
					"formal_review": {
						Score: 0, Risk: scoring.RiskLow, Status: "Reviewed",
						Playback:       "AI features in vendor products are formally reviewed before being switched on.",
						Interpretation: "Vendor-embedded AI is the fastest-growing source of shadow AI. You are ahead of it.",
					},
					"informal_review": {
						Score: 4, Risk: scoring.RiskMedium, Status: "Informal",
						Playback:       "Someone usually looks at new AI features, but there is no formal process.",
						Interpretation: "Informal review depends on who happens to notice the release notes.",
					},
					"rarely": {
						Score: 7, Risk: scoring.RiskHigh, Status: "Rare",
						Playback:       "AI features in vendor products are rarely reviewed.",
						Interpretation: "Vendors are switching AI on by default. Unreviewed features may send your data to new sub-processors.",
					},
					"never": {
						Score: 10, Risk: scoring.RiskCritical, Status: "Unreviewed",
						Playback:       "AI features in vendor products are never reviewed.",
						Interpretation: "Your existing software estate may already be processing data with AI you never approved.",
					},
					"dont_know": shadowDontKnow(
						"You are not sure whether vendor AI features are reviewed.",
						"Assume features are being enabled without review.",
					),
				},
				Gap: scoring.Gap{
					Title:          "Unreviewed vendor AI",
					Description:    "AI capabilities inside existing SaaS tools are switched on without assessment.",
					Recommendation: "Add an AI clause to procurement and review the AI settings of your ten most-used SaaS tools.",
				},
			},
			{
				Key:   "risk_concerns",
				Title: "Risks you are most concerned about",
				Kind:  scoring.MultiSelect,
				Cap:   10,
				Answers: map[string]scoring.Outcome{
					"data_leakage":      {Score: 3, Playback: "data leakage"},
					"ip_loss":           {Score: 3, Playback: "loss of intellectual property"},
					"compliance":        {Score: 3, Playback: "regulatory compliance"},
					"inaccurate_output": {Score: 2, Playback: "inaccurate or fabricated output"},
					"reputational":      {Score: 2, Playback: "reputational damage"},
					"bias":              {Score: 2, Playback: "biased decisions"},
					"vendor_lock_in":    {Score: 1, Playback: "vendor lock-in"},
				},
				Ranges: []scoring.Range{
					{Min: 0, Max: 0, Outcome: scoring.Outcome{
						Risk: scoring.RiskLow, Status: "None raised",
						Playback:       "You did not select any specific concerns.",
						Interpretation: "No concerns selected. That can mean low exposure or low awareness.",
					}},
					{Min: 1, Max: 4, Outcome: scoring.Outcome{
						Risk: scoring.RiskMedium, Status: "Focused",
						Interpretation: "A focused set of concerns. Make sure each has a named owner.",
					}},
					{Min: 5, Max: 10, Outcome: scoring.Outcome{
						Risk: scoring.RiskHigh, Status: "Broad",
						Interpretation: "Concerns span several risk categories, which points to systemic rather than isolated exposure.",
					}},
				},
				Gap: scoring.Gap{
					Title:          "Broad risk concerns",
					Description:    "Leadership is worried about several distinct categories of AI risk at once.",
					Recommendation: "Turn each concern into a risk-register entry with an owner and a review date.",
				},
			},
		},
		Bands: []scoring.Band{
			{
				Min: 0, Max: 24, Label: "Managed",
				Narrative: "Shadow AI is largely under control. Policies, tooling and training are in place and usage is visible.",
				Recommendations: []string{
					"Review your AI policy against new tools every quarter.",
					"Extend monitoring to AI features inside existing SaaS products.",
					"Share your approach with peers and suppliers to raise the baseline around you.",
				},
			},
			{
				Min: 25, Max: 49, Label: "Emerging",
				Narrative: "Some controls exist, but shadow AI use is growing faster than oversight. Gaps are starting to show.",
				Recommendations: []string{
					"Complete an inventory of AI tools in use across every team.",
					"Turn informal expectations into a written, acknowledged policy.",
					"Provide at least one approved AI tool so staff have a safe default.",
				},
			},
			{
				Min: 50, Max: 74, Label: "Exposed",
				Narrative: "Significant shadow AI activity is happening without adequate controls. Sensitive data is likely at risk.",
				Recommendations: []string{
					"Block regulated data from unapproved AI services this month.",
					"Appoint an owner for AI risk with authority to act.",
					"Run safe-use training for the teams with the heaviest AI use first.",
				},
			},
			{
				Min: 75, Max: 100, Label: "Unmanaged",
				Narrative: "AI use is effectively ungoverned. The organisation cannot see, control or evidence how AI handles its data.",
				Recommendations: []string{
					"Brief the executive team on current AI exposure within two weeks.",
					"Issue interim guidance on what data must never enter AI tools.",
					"Commission a rapid shadow-AI discovery and risk assessment.",
				},
			},
		},
		MaxRawScore: 80,
		GapPlaceholder: scoring.Gap{
			Title:          "Not applicable",
			Description:    "No further priority gaps were identified from your answers.",
			Recommendation: "Keep reviewing this area as AI use grows.",
		},
		Unmapped: scoring.UnmappedPolicy{
			Status:         "Not assessed",
			Risk:           scoring.RiskUnknown,
			Playback:       "No answer provided.",
			Interpretation: "No answer provided. Lack of visibility increases risk.",
		},
		Escalation: &scoring.EscalationRule{Threshold: 3},
		Override: &scoring.OverrideRule{
			Question: "incidents",
			Answer:   "confirmed",
			Banner:   "You reported a confirmed AI-related data incident. Treat it as a live incident before acting on anything else in this report.",
			Steps: []string{
				"Contain the incident: revoke access to the tool involved and preserve logs.",
				"Assess notification duties with your data-protection officer or legal counsel within 72 hours.",
				"Identify exactly what data was exposed and to which provider, then request deletion in writing.",
			},
		},
	}
}

// ─── REPORT DATA ──────────────────────────────────────────────────────────────

// ShadowAIData is the flat report record for a Shadow AI submission.
type ShadowAIData struct {
	ContactFields
	RiskScore     string `json:"risk_score"`
	RiskBand      string `json:"risk_band"`
	RiskNarrative string `json:"risk_narrative"`

	AIPolicy      QuestionFields `json:"ai_policy"`
	ToolInventory QuestionFields `json:"tool_inventory"`
	DataExposure  QuestionFields `json:"data_exposure"`
	ApprovedTools QuestionFields `json:"approved_tools"`
	Training      QuestionFields `json:"training"`
	Incidents     QuestionFields `json:"incidents"`
	VendorReview  QuestionFields `json:"vendor_review"`
	RiskConcerns  QuestionFields `json:"risk_concerns"`

	Gap1 GapFields `json:"gap_1"`
	Gap2 GapFields `json:"gap_2"`
	Gap3 GapFields `json:"gap_3"`

	IncidentBanner string `json:"incident_banner"`
	Step1          string `json:"step_1"`
	Step2          string `json:"step_2"`
	Step3          string `json:"step_3"`
	Step4          string `json:"step_4"`
	Step5          string `json:"step_5"`
	Step6          string `json:"step_6"`
}

func (ShadowAIData) Kind() Kind { return KindShadowAI }
func (ShadowAIData) sealed()    {}

func (d ShadowAIData) Document() Document {
	doc := Document{
		Kind:       KindShadowAI,
		Title:      KindShadowAI.Title(),
		Contact:    d.ContactFields,
		ScoreLabel: "Shadow AI risk score",
		Score:      d.RiskScore,
		Band:       d.RiskBand,
		Narrative:  d.RiskNarrative,
		Questions: []QuestionFields{
			d.AIPolicy, d.ToolInventory, d.DataExposure, d.ApprovedTools,
			d.Training, d.Incidents, d.VendorReview, d.RiskConcerns,
		},
		Gaps:  []GapFields{d.Gap1, d.Gap2, d.Gap3},
		Steps: nonPlaceholder(d.Step1, d.Step2, d.Step3, d.Step4, d.Step5, d.Step6),
	}
	if d.IncidentBanner != Placeholder {
		doc.Banner = d.IncidentBanner
	}
	return doc
}

func buildShadowAI(s ShadowAISubmission, res scoring.Result) ShadowAIData {
	return ShadowAIData{
		ContactFields: contactFields(s.Contact, res.ProcessedAt),
		RiskScore:     itoa(res.Score),
		RiskBand:      orPlaceholder(res.Band.Label),
		RiskNarrative: orPlaceholder(res.Band.Narrative),

		AIPolicy:      questionFields(res, "ai_policy"),
		ToolInventory: questionFields(res, "tool_inventory"),
		DataExposure:  questionFields(res, "data_exposure"),
		ApprovedTools: questionFields(res, "approved_tools"),
		Training:      questionFields(res, "training"),
		Incidents:     questionFields(res, "incidents"),
		VendorReview:  questionFields(res, "vendor_review"),
		RiskConcerns:  questionFields(res, "risk_concerns"),

		Gap1: gapFields(res, 0),
		Gap2: gapFields(res, 1),
		Gap3: gapFields(res, 2),

		IncidentBanner: orPlaceholder(res.Banner),
		Step1:          step(res, 0),
		Step2:          step(res, 1),
		Step3:          step(res, 2),
		Step4:          step(res, 3),
		Step5:          step(res, 4),
		Step6:          step(res, 5),
	}
}
