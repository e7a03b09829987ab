// Package gap simulates trait improvements for a candidate and derives which
// strengths a user should develop and which ones to showcase.
package gap

import (
	"fmt"
	"slices"

	"github.com/spigell/lp-recommender/internal/strength"
	"github.com/spigell/lp-recommender/internal/trait"
)

// Config holds the analyzer constants.
type Config struct {
	// SimulationScale multiplies the cosine similarity of a simulated profile.
	SimulationScale float64 `mapstructure:"simulation-scale" validate:"gt=0"`
	// ConsistencyRatio is the share of accepted simulations an axis must
	// improve in to keep its accumulated improvement.
	ConsistencyRatio float64 `mapstructure:"consistency-ratio" validate:"gte=0,lte=1"`
	// MaxDevelop caps the develop list.
	MaxDevelop int `mapstructure:"max-develop" validate:"gt=0"`
	// MinDevelop triggers the fallback drain when fewer labels were collected.
	MinDevelop int `mapstructure:"min-develop" validate:"gte=0,ltefield=MaxDevelop"`
	// ShowcaseAxes is the number of top-trait axes the showcase list draws from.
	ShowcaseAxes int `mapstructure:"showcase-axes" validate:"gt=0"`
}

// DefaultConfig returns the default analyzer constants.
func DefaultConfig() Config {
	return Config{
		SimulationScale:  100,
		ConsistencyRatio: 0.67,
		MaxDevelop:       6,
		MinDevelop:       5,
		ShowcaseAxes:     2,
	}
}

// Input describes one candidate as seen by the analyzer.
type Input struct {
	User      trait.Vector
	Candidate trait.Vector
	TopTraits []trait.Axis
	// Baseline is the score a simulation must beat to be accepted: the
	// candidate's score before pinned rescaling.
	Baseline float64
}

// SkippedAxis records a top-trait axis whose simulation could not run.
type SkippedAxis struct {
	Axis trait.Axis
	Err  error
}

// Result is the outcome of the analysis for one candidate.
type Result struct {
	Showcase []string
	Develop  []string

	Accepted  int
	Frequency [trait.Dimensions]int
	// Delta is the accumulated improvement per axis after the consistency filter.
	Delta   trait.Vector
	Skipped []SkippedAxis
}

// Analyzer derives develop and showcase strengths.
type Analyzer struct {
	cfg     Config
	catalog *strength.Catalog
}

// New returns an analyzer backed by the given catalog.
func New(cfg Config, catalog *strength.Catalog) *Analyzer {
	return &Analyzer{cfg: cfg, catalog: catalog}
}

// Analyze runs one simulation per top-trait axis and builds the strength lists.
// An axis whose candidate value is zero cannot be simulated; it is reported in
// Result.Skipped and the remaining axes are still analyzed.
func (a *Analyzer) Analyze(in Input, unlocked strength.Set) Result {
	var res Result

	for _, k := range in.TopTraits {
		improved, accepted, err := a.simulate(in, k)
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedAxis{Axis: k, Err: err})
			continue
		}
		if !accepted {
			continue
		}

		res.Accepted++
		for l := range improved {
			if improved[l] > 0 {
				res.Frequency[l]++
				res.Delta[l] += improved[l]
			}
		}
	}

	// Without an accepted simulation there is no ratio to compute; the deltas
	// are all zero and the walk below falls back to axis order.
	if res.Accepted > 0 {
		for l := range res.Delta {
			if float64(res.Frequency[l])/float64(res.Accepted) < a.cfg.ConsistencyRatio {
				res.Delta[l] = 0
			}
		}
	}

	res.Showcase = a.showcase(in, unlocked)
	res.Develop = a.develop(res.Delta, unlocked, strength.NewSet(res.Showcase...))

	return res
}

// simulate raises the user profile to the candidate's proportions along axis k
// and returns the per-axis improvement. The simulation is accepted only when
// the simulated score beats the baseline.
func (a *Analyzer) simulate(in Input, k trait.Axis) (trait.Vector, bool, error) {
	denominator := in.Candidate.Get(k)
	if denominator == 0 {
		return trait.Vector{}, false, fmt.Errorf("%w: candidate value on %s is zero", trait.ErrDegenerateVector, k)
	}

	ratio := in.User.Get(k) / denominator
	simulated := in.Candidate.Scale(ratio).Max(in.User)

	score, err := trait.CosineSimilarity(in.Candidate, simulated)
	if err != nil {
		return trait.Vector{}, false, fmt.Errorf("simulate %s: %w", k, err)
	}

	if score*a.cfg.SimulationScale <= in.Baseline {
		return trait.Vector{}, false, nil
	}

	return simulated.Sub(in.User), true, nil
}

func (a *Analyzer) showcase(in Input, unlocked strength.Set) []string {
	axes := slices.Clone(in.TopTraits)
	slices.SortStableFunc(axes, func(x, y trait.Axis) int {
		px := in.User.Get(x) * in.Candidate.Get(x)
		py := in.User.Get(y) * in.Candidate.Get(y)
		switch {
		case px > py:
			return -1
		case px < py:
			return 1
		default:
			return 0
		}
	})

	if len(axes) > a.cfg.ShowcaseAxes {
		axes = axes[:a.cfg.ShowcaseAxes]
	}

	var labels []string
	for _, axis := range axes {
		for _, label := range a.catalog.Labels(axis) {
			if unlocked.Has(label) {
				labels = append(labels, label)
			}
		}
	}
	return labels
}

func (a *Analyzer) develop(delta trait.Vector, unlocked, showcase strength.Set) []string {
	ranked := RankAxes(delta)

	labels := make([]string, 0, a.cfg.MaxDevelop)
	added := strength.NewSet()

	for _, axis := range ranked {
		for _, label := range a.catalog.Labels(axis) {
			if len(labels) >= a.cfg.MaxDevelop {
				break
			}
			if unlocked.Has(label) || added.Has(label) {
				continue
			}
			labels = append(labels, label)
			added.Add(label)
		}
		if len(labels) >= a.cfg.MaxDevelop {
			break
		}
	}

	if len(labels) >= a.cfg.MinDevelop {
		return labels
	}

	// Drain the strongest axis, skipping what is already listed or showcased.
	for _, label := range a.catalog.Labels(ranked[0]) {
		if len(labels) >= a.cfg.MaxDevelop {
			break
		}
		if added.Has(label) || showcase.Has(label) {
			continue
		}
		labels = append(labels, label)
		added.Add(label)
	}

	return labels
}

// RankAxes orders the axes by value, descending. Ties keep axis order.
func RankAxes(v trait.Vector) []trait.Axis {
	axes := trait.Axes()
	slices.SortStableFunc(axes, func(x, y trait.Axis) int {
		switch {
		case v[x] > v[y]:
			return -1
		case v[x] < v[y]:
			return 1
		default:
			return 0
		}
	})
	return axes
}
