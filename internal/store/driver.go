package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	// GetTraitProfile returns nil without an error when the user has no profile.
	GetTraitProfile(ctx context.Context, userID string) (*TraitProfile, error)
	// ResolveCandidatePool returns an empty pool when the user has no usable
	// elective subjects.
	ResolveCandidatePool(ctx context.Context, userID string) (*CandidatePool, error)
	ListUnlockedStrengths(ctx context.Context, userID string) ([]string, error)
	ListAchievements(ctx context.Context, userID string) ([]*Achievement, error)
	ListMoments(ctx context.Context, userID string) ([]*Moment, error)

	// ReplaceUserPathways deletes the stored row set of the user and inserts
	// the new one within a single transaction.
	ReplaceUserPathways(ctx context.Context, userID string, rows []*UserPathway) error
	ListUserPathways(ctx context.Context, userID string) ([]*UserPathway, error)
}
