package engine

import (
	"errors"

	"github.com/spigell/lp-recommender/internal/scoring"
	"github.com/spigell/lp-recommender/internal/trait"
)

var (
	// ErrMissingProfile is returned when the user has no trait profile.
	ErrMissingProfile = errors.New("missing trait profile")
	// ErrDegenerateVector is returned when the user profile is all zero or invalid.
	ErrDegenerateVector = trait.ErrDegenerateVector
	// ErrEmptyCandidatePool is returned when no candidate is left to rank.
	ErrEmptyCandidatePool = errors.New("empty candidate pool")
	// ErrNoUnlockedStrength is returned when the user has no unlocked strength.
	ErrNoUnlockedStrength = errors.New("no unlocked strength")
	// ErrDegenerateDistribution is returned when pinned scores cannot be rescaled.
	ErrDegenerateDistribution = scoring.ErrDegenerateDistribution
)
