package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/spigell/lp-recommender/internal/store"
	"github.com/spigell/lp-recommender/internal/trait"
)

func (d *DB) ResolveCandidatePool(ctx context.Context, userID string) (*store.CandidatePool, error) {
	electiveIDs, err := d.listElectiveSubjects(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(electiveIDs) == 0 {
		return &store.CandidatePool{}, nil
	}

	query := `SELECT job_ids, top_job_ids FROM b2c_elective
		WHERE id IN (` + placeholders(len(electiveIDs)) + `)
		ORDER BY id`

	rows, err := d.db.QueryContext(ctx, query, electiveIDs...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list electives")
	}
	defer rows.Close()

	var jobColumns, topColumns []string
	for rows.Next() {
		var jobs, top sql.NullString
		if err := rows.Scan(&jobs, &top); err != nil {
			return nil, errors.Wrap(err, "failed to scan elective")
		}
		jobColumns = append(jobColumns, jobs.String)
		topColumns = append(topColumns, top.String)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate electives")
	}

	pool := &store.CandidatePool{PinnedIDs: store.UnionLists(topColumns...)}

	jobIDs := store.UnionLists(append(jobColumns, topColumns...)...)
	if len(jobIDs) == 0 {
		return pool, nil
	}

	pool.Candidates, err = d.listCandidates(ctx, jobIDs)
	if err != nil {
		return nil, err
	}

	return pool, nil
}

// listElectiveSubjects returns the non-empty subject ids of the user, or nil
// when the user has no elective row.
func (d *DB) listElectiveSubjects(ctx context.Context, userID string) ([]any, error) {
	query := `SELECT subject_1, subject_2, subject_3, subject_4, subject_5, subject_6
		FROM user_b2c_elective
		WHERE user_id = ` + placeholder(1)

	var subjects [6]sql.NullString
	dest := make([]any, 0, len(subjects))
	for i := range subjects {
		dest = append(dest, &subjects[i])
	}

	if err := d.db.QueryRowContext(ctx, query, userID).Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to get elective subjects of user %s", userID)
	}

	var ids []any
	for _, subject := range subjects {
		if v := strings.TrimSpace(subject.String); subject.Valid && v != "" {
			ids = append(ids, v)
		}
	}
	return ids, nil
}

func (d *DB) listCandidates(ctx context.Context, jobIDs []string) ([]*store.Candidate, error) {
	args := make([]any, 0, len(jobIDs))
	for _, id := range jobIDs {
		args = append(args, id)
	}

	query := `SELECT id, ` + strings.Join(store.TraitColumns, ", ") + `, top_chakra
		FROM job_details
		WHERE id IN (` + placeholders(len(args)) + `)
		ORDER BY id`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list job details")
	}
	defer rows.Close()

	var list []*store.Candidate
	for rows.Next() {
		var (
			candidate store.Candidate
			values    [trait.Dimensions]sql.NullFloat64
			top       sql.NullString
		)
		dest := append([]any{&candidate.ID}, traitDest(&values)...)
		dest = append(dest, &top)
		if err := rows.Scan(dest...); err != nil {
			return nil, errors.Wrap(err, "failed to scan job details")
		}
		candidate.Traits = traitVector(values)
		candidate.TopTraits = top.String
		list = append(list, &candidate)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate job details")
	}

	return list, nil
}
