package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/spigell/lp-recommender/internal/store"
	"github.com/spigell/lp-recommender/internal/trait"
)

func (d *DB) GetTraitProfile(ctx context.Context, userID string) (*store.TraitProfile, error) {
	query := `SELECT ` + strings.Join(store.TraitColumns, ", ") + `
		FROM chakra_score_each_users
		WHERE user_id = ` + placeholder(1)

	var values [trait.Dimensions]sql.NullFloat64
	if err := d.db.QueryRowContext(ctx, query, userID).Scan(traitDest(&values)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to get trait profile of user %s", userID)
	}

	return &store.TraitProfile{UserID: userID, Traits: traitVector(values)}, nil
}

func (d *DB) ListUnlockedStrengths(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT strengths FROM user_unlocked_life_strengths WHERE user_id = ` + placeholder(1)

	rows, err := d.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list unlocked strengths of user %s", userID)
	}
	defer rows.Close()

	var list []string
	for rows.Next() {
		var label sql.NullString
		if err := rows.Scan(&label); err != nil {
			return nil, errors.Wrap(err, "failed to scan unlocked strength")
		}
		if v := strings.TrimSpace(label.String); label.Valid && v != "" {
			list = append(list, v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate unlocked strengths")
	}

	return list, nil
}

func traitDest(values *[trait.Dimensions]sql.NullFloat64) []any {
	dest := make([]any, 0, trait.Dimensions)
	for i := range values {
		dest = append(dest, &values[i])
	}
	return dest
}

// traitVector treats NULL trait columns as zero.
func traitVector(values [trait.Dimensions]sql.NullFloat64) trait.Vector {
	var v trait.Vector
	for i, value := range values {
		if value.Valid {
			v[i] = value.Float64
		}
	}
	return v
}
