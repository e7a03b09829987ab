package scoring

import (
	"errors"
	"fmt"

	"github.com/spigell/lp-recommender/internal/trait"
)

// ErrDegenerateDistribution is returned when pinned scores must be rescaled
// but the score distribution has no spread between its maximum and anchor.
var ErrDegenerateDistribution = errors.New("degenerate score distribution")

// Config holds the scorer constants.
type Config struct {
	// Scale multiplies the cosine similarity of the base score.
	Scale float64 `mapstructure:"scale" validate:"gt=0"`
	// Percentile is the anchor percentile of the raw score set, in (0, 100].
	Percentile float64 `mapstructure:"percentile" validate:"gt=0,lte=100"`
	// SpreadDivisor splits the distance between max and anchor into rescale units.
	SpreadDivisor float64 `mapstructure:"spread-divisor" validate:"gt=0"`
}

// DefaultConfig returns the default scorer constants.
func DefaultConfig() Config {
	return Config{
		Scale:         78,
		Percentile:    75,
		SpreadDivisor: 5,
	}
}

// Record is the score of a single candidate. Raw is the scaled cosine
// similarity; Adjusted differs from Raw only for pinned candidates.
type Record struct {
	CandidateID string
	Pinned      bool
	Raw         float64
	Adjusted    float64
}

// Scorer computes similarity scores between trait vectors.
type Scorer struct {
	cfg Config
}

// New returns a scorer using the provided constants.
func New(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Config returns the scorer constants.
func (s *Scorer) Config() Config {
	return s.cfg
}

// Similarity returns the cosine similarity of two vectors multiplied by scale.
func Similarity(a, b trait.Vector, scale float64) (float64, error) {
	sim, err := trait.CosineSimilarity(a, b)
	if err != nil {
		return 0, err
	}
	return sim * scale, nil
}

// Score returns the base score of a candidate for a user.
func (s *Scorer) Score(user, candidate trait.Vector) (float64, error) {
	return Similarity(user, candidate, s.cfg.Scale)
}

// Rescale replaces the adjusted score of every pinned record with
// max + (raw - anchor) / spread, computed over the raw scores of all records.
// Unpinned records keep Adjusted == Raw. The stats are returned for logging.
func (s *Scorer) Rescale(records []Record) (Stats, error) {
	raw := make([]float64, len(records))
	pinned := 0
	for i, r := range records {
		raw[i] = r.Raw
		if r.Pinned {
			pinned++
		}
	}

	stats := Summarize(raw, s.cfg.Percentile, s.cfg.SpreadDivisor)

	for i := range records {
		records[i].Adjusted = records[i].Raw
	}

	if pinned == 0 {
		return stats, nil
	}

	if stats.Spread == 0 {
		return stats, fmt.Errorf("%w: max %.4f equals the %gth percentile with %d pinned candidates",
			ErrDegenerateDistribution, stats.Max, s.cfg.Percentile, pinned)
	}

	for i := range records {
		if records[i].Pinned {
			records[i].Adjusted = stats.Max + (records[i].Raw-stats.Anchor)/stats.Spread
		}
	}

	return stats, nil
}
