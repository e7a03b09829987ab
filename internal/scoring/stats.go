package scoring

import (
	"math"
	"slices"
)

// Stats describes the raw score distribution used to rescale pinned scores.
type Stats struct {
	Max    float64
	Anchor float64
	Spread float64
}

// Summarize computes the maximum, the anchor percentile and the spread
// ((max - anchor) / divisor) of a score set. An empty set yields zero stats.
func Summarize(scores []float64, percentile, divisor float64) Stats {
	if len(scores) == 0 {
		return Stats{}
	}

	maxScore := slices.Max(scores)
	anchor := Percentile(scores, percentile)

	return Stats{
		Max:    maxScore,
		Anchor: anchor,
		Spread: (maxScore - anchor) / divisor,
	}
}

// Percentile returns the p-th percentile (0..100) of values using linear
// interpolation between the closest ranks.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	p = math.Min(math.Max(p, 0), 100)
	pos := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}

	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}
