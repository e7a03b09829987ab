package tiering

import (
	"fmt"
	"math"
)

// Tier is the aspiration tier of a candidate.
type Tier string

const (
	Safety Tier = "Safety"
	Likely Tier = "Likely"
	Reach  Tier = "Reach"
)

// ParseTier resolves a stored tier label.
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case Safety, Likely, Reach:
		return Tier(s), nil
	default:
		return "", fmt.Errorf("unknown tier %q", s)
	}
}

// Config holds the thresholds and quota fractions of the classifier.
type Config struct {
	ThresholdSafety float64 `mapstructure:"threshold-safety" validate:"gtfield=ThresholdLikely"`
	ThresholdLikely float64 `mapstructure:"threshold-likely"`

	MaxSafety float64 `mapstructure:"max-safety" validate:"gte=0,lte=1,gtefield=MinSafety"`
	MinSafety float64 `mapstructure:"min-safety" validate:"gte=0,lte=1"`
	MaxLikely float64 `mapstructure:"max-likely" validate:"gte=0,lte=1"`
	MinLikely float64 `mapstructure:"min-likely" validate:"gte=0,lte=1"`
	MinReach  float64 `mapstructure:"min-reach" validate:"gte=0,lte=1"`

	// LikelyFloorFromReach derives the Likely floor from MinReach instead of
	// MinLikely. Enabled by default.
	LikelyFloorFromReach bool `mapstructure:"likely-floor-from-reach"`
}

// DefaultConfig returns the default thresholds and quotas.
func DefaultConfig() Config {
	return Config{
		ThresholdSafety:      57.2,
		ThresholdLikely:      44.7,
		MaxSafety:            0.5,
		MinSafety:            0.2,
		MaxLikely:            0.6,
		MinLikely:            0.3,
		MinReach:             0.2,
		LikelyFloorFromReach: true,
	}
}

// Quota holds the absolute tier bounds for a pool of a given size.
type Quota struct {
	MaxSafety int
	MinSafety int
	MaxLikely int
	MinLikely int
	MinReach  int
}

// Counts holds the number of candidates per tier.
type Counts struct {
	Safety int
	Likely int
	Reach  int
}

// Total returns the number of candidates across all tiers.
func (c Counts) Total() int {
	return c.Safety + c.Likely + c.Reach
}

// TierAt returns the tier of the candidate at the given position of the
// score-descending order.
func (c Counts) TierAt(pos int) Tier {
	switch {
	case pos < c.Safety:
		return Safety
	case pos < c.Safety+c.Likely:
		return Likely
	default:
		return Reach
	}
}

// Classifier turns a set of scores into tier counts.
type Classifier struct {
	cfg Config
}

// New returns a classifier using the provided constants.
func New(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Quotas returns the tier bounds for a pool of n candidates. Fractions are
// rounded half to even.
func (c *Classifier) Quotas(n int) Quota {
	likelyFloor := c.cfg.MinLikely
	if c.cfg.LikelyFloorFromReach {
		likelyFloor = c.cfg.MinReach
	}

	return Quota{
		MaxSafety: fraction(c.cfg.MaxSafety, n),
		MinSafety: fraction(c.cfg.MinSafety, n),
		MaxLikely: fraction(c.cfg.MaxLikely, n),
		MinLikely: fraction(likelyFloor, n),
		MinReach:  fraction(c.cfg.MinReach, n),
	}
}

// Bucket returns the threshold tier of a single score.
func (c *Classifier) Bucket(score float64) Tier {
	switch {
	case score >= c.cfg.ThresholdSafety:
		return Safety
	case score >= c.cfg.ThresholdLikely:
		return Likely
	default:
		return Reach
	}
}

// Count buckets every score by the absolute thresholds.
func (c *Classifier) Count(scores []float64) Counts {
	var counts Counts
	for _, score := range scores {
		switch c.Bucket(score) {
		case Safety:
			counts.Safety++
		case Likely:
			counts.Likely++
		default:
			counts.Reach++
		}
	}
	return counts
}

// Rebalance moves units between the tier counts so they respect the quota.
// Only the counts change; the total is preserved.
func Rebalance(counts Counts, q Quota) Counts {
	if counts.Safety > q.MaxSafety {
		counts.Likely += counts.Safety - q.MaxSafety
		counts.Safety = q.MaxSafety
	}

	for counts.Safety < q.MinSafety && counts.Likely > q.MinLikely {
		counts.Safety++
		counts.Likely--
	}

	for counts.Likely < q.MinLikely && counts.Safety > 0 && counts.Reach > 0 {
		counts.Likely++
		if counts.Safety > counts.Reach {
			counts.Safety--
		} else {
			counts.Reach--
		}
	}

	for (counts.Reach < q.MinReach || counts.Likely > q.MaxLikely) && counts.Likely > 0 {
		counts.Likely--
		counts.Reach++
	}

	return counts
}

// Classify buckets the scores and rebalances the counts for the pool size.
func (c *Classifier) Classify(scores []float64) (Counts, Quota) {
	q := c.Quotas(len(scores))
	return Rebalance(c.Count(scores), q), q
}

func fraction(f float64, n int) int {
	return int(math.RoundToEven(f * float64(n)))
}
