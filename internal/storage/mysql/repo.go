// Package mysql is the MySQL-backed review dataset. It feeds the startup
// load and is filled by cmd/seed; the running service never writes to it.
package mysql

import (
	"context"
	"database/sql"
	"strings"

	"review_analyzer/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Records implements domain.DatasetSource. Keys match the CSV header so both
// sources go through the same mapper.
func (r *Repo) Records(ctx context.Context) ([]map[string]any, error) {
	rows, err := r.db.QueryContext(ctx, listReviewsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		var (
			id, body, location string
			createdAt          any // time.Time with parseTime=true, []byte otherwise
		)
		if err := rows.Scan(&id, &body, &location, &createdAt); err != nil {
			return nil, err
		}
		if b, ok := createdAt.([]byte); ok {
			createdAt = string(b)
		}
		out = append(out, map[string]any{
			"ReviewId":   id,
			"ReviewBody": body,
			"Location":   location,
			"Timestamp":  createdAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertReviews writes rs in one multi-row statement. Every review needs an ID.
func (r *Repo) UpsertReviews(ctx context.Context, rs []domain.RawReview) error {
	if len(rs) == 0 {
		return nil
	}
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*4) // 4 params per row
	for _, rv := range rs {
		values = append(values, "(?,?,?,?)")
		args = append(args, rv.ID, rv.Body, rv.Location, rv.Timestamp)
	}
	sqlStr := insertReviewsPrefix + strings.Join(values, ",") + insertReviewsOnDup
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}
