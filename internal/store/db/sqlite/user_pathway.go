package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/spigell/lp-recommender/internal/store"
)

var userPathwayFields = []string{
	"user_id", "job_id", "percentage_similarity", "strength", "develop_strength",
	"id_user_achievements", "id_user_passion", "id_user_moment", "lp_level", "created_at",
}

func (d *DB) ReplaceUserPathways(ctx context.Context, userID string, list []*store.UserPathway) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_jobs WHERE user_id = `+placeholder(1), userID); err != nil {
		return errors.Wrapf(err, "failed to delete pathways of user %s", userID)
	}

	stmt := `INSERT INTO user_jobs (` + strings.Join(userPathwayFields, ", ") + `)
		VALUES (` + placeholders(len(userPathwayFields)) + `)`

	for _, row := range list {
		if row.UserID != userID {
			return errors.Errorf("pathway %s belongs to user %s, not %s", row.JobID, row.UserID, userID)
		}
		if _, err := tx.ExecContext(ctx, stmt,
			row.UserID,
			row.JobID,
			row.PercentageSimilarity,
			store.JoinList(row.Strength),
			store.JoinList(row.DevelopStrength),
			store.JoinList(row.AchievementIDs),
			store.JoinList(row.PassionIDs),
			store.JoinList(row.MomentIDs),
			row.Level,
			row.CreatedAt,
		); err != nil {
			return errors.Wrapf(err, "failed to insert pathway %s of user %s", row.JobID, userID)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit pathways")
	}
	return nil
}

func (d *DB) ListUserPathways(ctx context.Context, userID string) ([]*store.UserPathway, error) {
	query := `SELECT ` + strings.Join(userPathwayFields, ", ") + `
		FROM user_jobs
		WHERE user_id = ` + placeholder(1) + `
		ORDER BY id`

	rows, err := d.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list pathways of user %s", userID)
	}
	defer rows.Close()

	var list []*store.UserPathway
	for rows.Next() {
		var (
			row                                             store.UserPathway
			showcase, develop, achievements, passion, moment sql.NullString
		)
		if err := rows.Scan(
			&row.UserID,
			&row.JobID,
			&row.PercentageSimilarity,
			&showcase,
			&develop,
			&achievements,
			&passion,
			&moment,
			&row.Level,
			&row.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan pathway")
		}
		row.Strength = store.SplitList(showcase.String)
		row.DevelopStrength = store.SplitList(develop.String)
		row.AchievementIDs = store.SplitList(achievements.String)
		row.PassionIDs = store.SplitList(passion.String)
		row.MomentIDs = store.SplitList(moment.String)
		list = append(list, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate pathways")
	}

	return list, nil
}
