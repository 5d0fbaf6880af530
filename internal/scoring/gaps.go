package scoring

import "sort"

// GapCandidate is one scored question offered to RankGaps. Standing is the
// question's score re-oriented so that lower always means weaker; Max is the
// best possible Standing.
type GapCandidate struct {
	Key      string
	Standing int
	Max      int
	Gap      Gap
}

// RankedGap is one slot of the priority-gap list. Placeholder slots carry the
// configuration's neutral text and an empty Key.
type RankedGap struct {
	Key         string
	Gap         Gap
	Placeholder bool
}

// RankGaps returns exactly n slots: the weakest candidates first, ordered by
// ascending Standing with ties kept in the order the candidates were given
// (declaration order), then placeholder slots for whatever is left.
//
// A candidate already at its best Standing is not a gap and is skipped.
func RankGaps(candidates []GapCandidate, n int, placeholder Gap) []RankedGap {
	if n <= 0 {
		return []RankedGap{}
	}

	eligible := make([]GapCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Standing < c.Max {
			eligible = append(eligible, c)
		}
	}
	sort.SliceStable(eligible, func(a, b int) bool {
		return eligible[a].Standing < eligible[b].Standing
	})

	out := make([]RankedGap, 0, n)
	for _, c := range eligible {
		if len(out) == n {
			break
		}
		out = append(out, RankedGap{Key: c.Key, Gap: c.Gap})
	}
	for len(out) < n {
		out = append(out, RankedGap{Gap: placeholder, Placeholder: true})
	}
	return out
}

// standing orients a question score so that lower always means weaker.
func standing(score, maxScore int, p Polarity) int {
	if p == HigherIsWorse {
		return maxScore - score
	}
	return score
}
