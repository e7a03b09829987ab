package engine

import (
	"fmt"
	"math"
	"slices"

	"github.com/spigell/lp-recommender/internal/evidence"
	"github.com/spigell/lp-recommender/internal/gap"
	"github.com/spigell/lp-recommender/internal/pathway"
	"github.com/spigell/lp-recommender/internal/scoring"
	"github.com/spigell/lp-recommender/internal/strength"
	"github.com/spigell/lp-recommender/internal/tiering"
	"github.com/spigell/lp-recommender/internal/trait"
)

// Input is everything needed to rank the candidate pool of one user.
type Input struct {
	UserID string
	// Profile is nil when the user has no trait profile.
	Profile  *trait.Vector
	Pool     *pathway.Pool
	Unlocked strength.Set
	Evidence evidence.Records
}

// Row is one ranked recommendation.
type Row struct {
	UserID      string       `json:"user_id"`
	CandidateID string       `json:"candidate_id"`
	Rank        int          `json:"rank"`
	Tier        tiering.Tier `json:"tier"`
	Percentage  int          `json:"percentage_similarity"`
	Raw         float64      `json:"raw_score"`
	Adjusted    float64      `json:"adjusted_score"`
	Pinned      bool         `json:"pinned,omitempty"`

	Showcase []string `json:"showcase_strengths"`
	Develop  []string `json:"develop_strengths"`

	AchievementIDs []string `json:"evidence_achievement_ids"`
	PassionIDs     []string `json:"evidence_passion_ids"`
	MomentIDs      []string `json:"evidence_moment_ids"`

	// Skipped lists the top-trait axes whose simulation could not run.
	Skipped []gap.SkippedAxis `json:"-"`
}

// Result is the ranked row set of one user.
type Result struct {
	UserID string
	Rows   []Row
	// Pool is the filtered pool the rows were ranked from.
	Pool   *pathway.Pool `json:"-"`
	Counts tiering.Counts
	Quota  tiering.Quota
	Stats  scoring.Stats
}

// Rank checks the preconditions and ranks the pool. It never touches the
// store and is deterministic for a given input.
func Rank(cfg Config, catalog *strength.Catalog, in Input) (*Result, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}

	candidates := in.Pool.Items
	for _, c := range candidates {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}

	scorer := scoring.New(cfg.Scoring)
	records := make([]scoring.Record, len(candidates))
	for i, c := range candidates {
		raw, err := scorer.Score(*in.Profile, c.Traits)
		if err != nil {
			return nil, fmt.Errorf("scoring candidate %s: %w", c.ID, err)
		}
		records[i] = scoring.Record{CandidateID: c.ID, Pinned: c.Pinned, Raw: raw}
	}

	stats, err := scorer.Rescale(records)
	if err != nil {
		return nil, err
	}

	adjusted := make([]float64, len(records))
	for i, r := range records {
		adjusted[i] = r.Adjusted
	}
	counts, quota := tiering.New(cfg.Tiers).Classify(adjusted)

	// Stable: ties keep pool order.
	order := make([]int, len(records))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case records[a].Adjusted > records[b].Adjusted:
			return -1
		case records[a].Adjusted < records[b].Adjusted:
			return 1
		default:
			return 0
		}
	})

	analyzer := gap.New(cfg.Gap, catalog)
	res := &Result{
		UserID: in.UserID,
		Rows:   make([]Row, 0, len(order)),
		Pool:   in.Pool,
		Counts: counts,
		Quota:  quota,
		Stats:  stats,
	}

	for pos, idx := range order {
		c, r := candidates[idx], records[idx]

		analysis := analyzer.Analyze(gap.Input{
			User:      *in.Profile,
			Candidate: c.Traits,
			TopTraits: c.TopTraits,
			Baseline:  r.Raw,
		}, in.Unlocked)

		ev := in.Evidence.Link(strength.NewSet(analysis.Showcase...))

		res.Rows = append(res.Rows, Row{
			UserID:         in.UserID,
			CandidateID:    c.ID,
			Rank:           pos + 1,
			Tier:           counts.TierAt(pos),
			Percentage:     Percentage(r.Adjusted),
			Raw:            r.Raw,
			Adjusted:       r.Adjusted,
			Pinned:         r.Pinned,
			Showcase:       analysis.Showcase,
			Develop:        analysis.Develop,
			AchievementIDs: ev.AchievementIDs,
			PassionIDs:     ev.PassionIDs,
			MomentIDs:      ev.MomentIDs,
			Skipped:        analysis.Skipped,
		})
	}

	return res, nil
}

// checkInput runs the preconditions in a fixed order: profile present, profile
// usable, pool non-empty, unlocked strengths present.
func checkInput(in Input) error {
	if err := checkProfile(in.UserID, in.Profile); err != nil {
		return err
	}
	if err := checkPool(in.UserID, in.Pool); err != nil {
		return err
	}
	return checkUnlocked(in.UserID, in.Unlocked)
}

func checkProfile(userID string, profile *trait.Vector) error {
	if profile == nil {
		return fmt.Errorf("user %s: %w", userID, ErrMissingProfile)
	}
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("user %s: %w", userID, err)
	}
	if profile.IsZero() {
		return fmt.Errorf("user %s: %w: all traits are zero", userID, ErrDegenerateVector)
	}
	return nil
}

func checkPool(userID string, pool *pathway.Pool) error {
	if pool == nil || pool.Len() == 0 {
		return fmt.Errorf("user %s: %w", userID, ErrEmptyCandidatePool)
	}
	return nil
}

func checkUnlocked(userID string, unlocked strength.Set) error {
	if unlocked.Len() == 0 {
		return fmt.Errorf("user %s: %w", userID, ErrNoUnlockedStrength)
	}
	return nil
}

// Percentage rounds an adjusted score half to even and clamps it into [0, 100].
func Percentage(score float64) int {
	p := math.RoundToEven(score)
	switch {
	case math.IsNaN(p) || p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return int(p)
	}
}
