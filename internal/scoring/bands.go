package scoring

import (
	"errors"
	"fmt"
)

// Normalised scores always land in [ScoreMin, ScoreMax].
const (
	ScoreMin = 0
	ScoreMax = 100
)

// ValidateBands checks that bands are declared in ascending order and
// partition [ScoreMin, ScoreMax] with no gaps and no overlaps, so exactly one
// band matches every integer score.
func ValidateBands(bands []Band) error {
	if len(bands) == 0 {
		return errors.New("bands: at least one band is required")
	}
	next := ScoreMin
	for i, b := range bands {
		if b.Label == "" {
			return fmt.Errorf("bands: band %d has an empty label", i)
		}
		if b.Max < b.Min {
			return fmt.Errorf("bands: %q has min %d above max %d", b.Label, b.Min, b.Max)
		}
		if b.Min != next {
			return fmt.Errorf("bands: %q starts at %d, expected %d", b.Label, b.Min, next)
		}
		next = b.Max + 1
	}
	if last := bands[len(bands)-1]; last.Max != ScoreMax {
		return fmt.Errorf("bands: %q ends at %d, expected %d", last.Label, last.Max, ScoreMax)
	}
	return nil
}

// ResolveBand scans bands in declared order and returns the index of the
// first one containing score. When nothing matches it falls back to the last
// declared band and reports matched=false so the caller can flag it.
func ResolveBand(bands []Band, score int) (idx int, matched bool) {
	for i, b := range bands {
		if b.Contains(score) {
			return i, true
		}
	}
	return len(bands) - 1, false
}

// worseBand returns the index of the band one step worse than idx under p,
// bounded at the worst band.
func worseBand(bands []Band, idx int, p Polarity) int {
	if p == HigherIsWorse {
		return min(idx+1, len(bands)-1)
	}
	return max(idx-1, 0)
}

// clampScore constrains a normalised score to [ScoreMin, ScoreMax].
func clampScore(v int) int {
	return min(max(v, ScoreMin), ScoreMax)
}
