// Package engine ranks the candidate pool of a user and stores the resulting
// recommendation rows.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/lp-recommender/internal/evidence"
	"github.com/spigell/lp-recommender/internal/filtering"
	"github.com/spigell/lp-recommender/internal/logger"
	"github.com/spigell/lp-recommender/internal/pathway"
	"github.com/spigell/lp-recommender/internal/store"
	"github.com/spigell/lp-recommender/internal/strength"
)

// Engine loads the inputs of a user from the store, ranks them and replaces
// the stored row set.
type Engine struct {
	cfg     Config
	catalog *strength.Catalog
	driver  store.Driver
	filters *filtering.Filtering
	logger  *zap.Logger
	locks   *userLocks
	now     func() time.Time
}

// New validates the configuration and returns an engine. A nil filter
// pipeline runs no filters.
func New(cfg Config, driver store.Driver, filters *filtering.Filtering, log *zap.Logger) (*Engine, error) {
	if driver == nil {
		return nil, errors.New("store driver is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	if filters == nil {
		filters = filtering.New(nil, log)
	}

	return &Engine{
		cfg:     cfg,
		catalog: strength.DefaultCatalog(),
		driver:  driver,
		filters: filters,
		logger:  log,
		locks:   newUserLocks(),
		now:     time.Now,
	}, nil
}

// Lock serializes work on one user and returns the unlock function. Compute
// and Replace do not lock on their own; callers that split them must hold the
// lock across both.
func (e *Engine) Lock(userID string) func() {
	return e.locks.lock(userID)
}

// Run computes and stores the rows of a user while holding the user lock.
func (e *Engine) Run(ctx context.Context, userID string) (*Result, error) {
	unlock := e.Lock(userID)
	defer unlock()

	res, err := e.Compute(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := e.Replace(ctx, res); err != nil {
		return nil, err
	}

	return res, nil
}

// Compute loads the inputs of a user and ranks them. Nothing is written.
func (e *Engine) Compute(ctx context.Context, userID string) (*Result, error) {
	log := logger.WithUser(e.logger, userID)
	log.Info("computing pathways")

	in := Input{UserID: userID}

	profile, err := e.driver.GetTraitProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading trait profile: %w", err)
	}
	if profile != nil {
		in.Profile = &profile.Traits
	}
	if err := checkProfile(userID, in.Profile); err != nil {
		return nil, err
	}

	in.Pool, err = e.loadPool(ctx, userID, log)
	if err != nil {
		return nil, err
	}
	if err := checkPool(userID, in.Pool); err != nil {
		return nil, err
	}

	unlocked, err := e.driver.ListUnlockedStrengths(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading unlocked strengths: %w", err)
	}
	in.Unlocked = strength.NewSet(unlocked...)
	if err := checkUnlocked(userID, in.Unlocked); err != nil {
		return nil, err
	}
	for _, label := range in.Unlocked.Sorted() {
		if _, ok := e.catalog.AxisOf(label); !ok {
			log.Warn("unknown unlocked strength", zap.String("strength", label))
		}
	}

	in.Evidence, err = e.loadEvidence(ctx, userID)
	if err != nil {
		return nil, err
	}

	res, err := Rank(e.cfg, e.catalog, in)
	if err != nil {
		return nil, err
	}

	log.Debug("ranked order", zap.Strings("candidates", res.CandidateIDs()))
	log.Debug("score distribution",
		zap.Float64("max", res.Stats.Max),
		zap.Float64("anchor", res.Stats.Anchor),
		zap.Float64("spread", res.Stats.Spread),
	)

	for _, row := range res.Rows {
		rowLog := logger.WithFields(log, logger.CandidateFields(row.CandidateID, string(row.Tier))...)
		for _, skipped := range row.Skipped {
			rowLog.Warn("gap simulation skipped",
				zap.Stringer("axis", skipped.Axis),
				zap.Error(skipped.Err),
			)
		}
		rowLog.Debug("candidate ranked",
			zap.Int("rank", row.Rank),
			zap.Float64("raw", row.Raw),
			zap.Float64("adjusted", row.Adjusted),
			zap.Bool("pinned", row.Pinned),
		)
	}

	log.Info("tiers assigned",
		zap.Int("candidates", res.Len()),
		zap.Int("safety", res.Counts.Safety),
		zap.Int("likely", res.Counts.Likely),
		zap.Int("reach", res.Counts.Reach),
	)

	return res, nil
}

// Replace atomically swaps the stored rows of the result's user.
func (e *Engine) Replace(ctx context.Context, res *Result) error {
	if err := e.driver.ReplaceUserPathways(ctx, res.UserID, res.UserPathways(e.now().UTC())); err != nil {
		return fmt.Errorf("replacing pathways of user %s: %w", res.UserID, err)
	}

	logger.WithUser(e.logger, res.UserID).Info("rows written", zap.Int("count", res.Len()))
	return nil
}

// Stored returns the row set currently stored for a user.
func (e *Engine) Stored(ctx context.Context, userID string) ([]*store.UserPathway, error) {
	return e.driver.ListUserPathways(ctx, userID)
}

func (e *Engine) loadPool(ctx context.Context, userID string, log *zap.Logger) (*pathway.Pool, error) {
	stored, err := e.driver.ResolveCandidatePool(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolving candidate pool: %w", err)
	}

	pinned := make(map[string]bool, len(stored.PinnedIDs))
	for _, id := range stored.PinnedIDs {
		pinned[id] = true
	}
	pool := &pathway.Pool{UserID: userID, Items: make([]*pathway.Candidate, 0, len(stored.Candidates))}
	for _, c := range stored.Candidates {
		pool.Items = append(pool.Items, pathway.NewCandidate(c.ID, c.Traits, c.TopTraits, pinned[c.ID]))
	}

	log.Info("candidate pool resolved",
		zap.Int("candidates", pool.Len()),
		zap.Int("pinned", len(pool.PinnedIDs())),
	)
	for _, id := range stored.PinnedIDs {
		if pool.FindByID(id) == nil {
			log.Warn("pinned candidate has no job details", logger.CandidateFields(id, "")...)
		}
	}

	pool, err = e.filters.WithLogger(log).RunFilters(ctx, pool)
	if err != nil {
		return nil, fmt.Errorf("filtering candidate pool: %w", err)
	}
	log.Debug("candidate pool filtered", zap.Strings("candidates", pool.IDs()))

	return pool, nil
}

func (e *Engine) loadEvidence(ctx context.Context, userID string) (evidence.Records, error) {
	var records evidence.Records

	achievements, err := e.driver.ListAchievements(ctx, userID)
	if err != nil {
		return records, fmt.Errorf("loading achievements: %w", err)
	}
	for _, a := range achievements {
		records.Achievements = append(records.Achievements, evidence.Achievement{
			ID:       a.ID,
			Type:     a.Type,
			Strength: a.Strength,
		})
	}

	moments, err := e.driver.ListMoments(ctx, userID)
	if err != nil {
		return records, fmt.Errorf("loading moments: %w", err)
	}
	for _, m := range moments {
		records.Moments = append(records.Moments, evidence.Moment{
			ID:        m.ID,
			Strengths: strength.SplitLabels(m.Strengths),
		})
	}

	return records, nil
}
