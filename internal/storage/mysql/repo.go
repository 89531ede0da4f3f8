package mysql

import (
	"context"
	"database/sql"
	"strings"

	"flex_reviews/internal/domain"
)

// Repo implements domain.ApprovalStore on MySQL.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) SetStatus(ctx context.Context, id string, status domain.ReviewStatus) error {
	_, err := r.db.ExecContext(ctx, upsertStatusSQL, id, string(status))
	return err
}

// GetStatuses returns the overlay entries for the given ids. Ids without a
// row are simply absent from the map; the pipeline defaults those to pending.
func (r *Repo) GetStatuses(ctx context.Context, ids []string) (map[string]domain.ReviewStatus, error) {
	out := make(map[string]domain.ReviewStatus, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	placeholders := "(?" + strings.Repeat(",?", len(ids)-1) + ")"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, selectStatusesPrefix+placeholders, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id, status string
		if err := rows.Scan(&id, &status); err != nil {
			return nil, err
		}
		out[id] = domain.ReviewStatus(status)
	}
	return out, rows.Err()
}
