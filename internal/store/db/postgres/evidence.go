package postgres

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/spigell/lp-recommender/internal/store"
)

func (d *DB) ListAchievements(ctx context.Context, userID string) ([]*store.Achievement, error) {
	query := `SELECT id, type, strength FROM user_achievements
		WHERE user_id = ` + placeholder(1) + `
		ORDER BY id`

	rows, err := d.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list achievements of user %s", userID)
	}
	defer rows.Close()

	var list []*store.Achievement
	for rows.Next() {
		var (
			achievement store.Achievement
			label       sql.NullString
		)
		if err := rows.Scan(&achievement.ID, &achievement.Type, &label); err != nil {
			return nil, errors.Wrap(err, "failed to scan achievement")
		}
		achievement.Strength = label.String
		list = append(list, &achievement)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate achievements")
	}

	return list, nil
}

func (d *DB) ListMoments(ctx context.Context, userID string) ([]*store.Moment, error) {
	query := `SELECT answers.id, question_details.strength
		FROM answers
		INNER JOIN question_details ON question_details.question_id = answers.question_id
		WHERE answers.user_id = ` + placeholder(1) + `
		ORDER BY answers.id`

	rows, err := d.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list moments of user %s", userID)
	}
	defer rows.Close()

	var list []*store.Moment
	for rows.Next() {
		var (
			moment store.Moment
			tags   sql.NullString
		)
		if err := rows.Scan(&moment.ID, &tags); err != nil {
			return nil, errors.Wrap(err, "failed to scan moment")
		}
		moment.Strengths = tags.String
		list = append(list, &moment)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate moments")
	}

	return list, nil
}
