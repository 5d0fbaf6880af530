package scoring

// tierKeySep joins the two answer identifiers of a tier lookup. Identifiers
// use underscores, so a plain underscore join would be ambiguous.
const tierKeySep = "|"

// TierKey builds the composite lookup key for a pair of answers.
func TierKey(first, second string) string {
	return first + tierKeySep + second
}

// TierResult is the personalisation chosen by one TierRule.
type TierResult struct {
	Tier      int
	Narrative string
	Matched   bool
}

// ResolveTier looks up the answer pair in the rule's table. Unknown
// combinations fall back to the rule's default tier with Matched=false.
func ResolveTier(rule TierRule, first, second string) TierResult {
	tier, ok := rule.Tiers[TierKey(first, second)]
	if !ok {
		tier = rule.DefaultTier
	}
	return TierResult{
		Tier:      tier,
		Narrative: rule.Narratives[tier-1],
		Matched:   ok,
	}
}
