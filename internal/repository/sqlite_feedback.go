package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/placement/internal/db"
	"github.com/alexanderramin/placement/internal/domain"
)

type SQLiteFeedbackRepo struct {
	db db.DBTX
}

func NewSQLiteFeedbackRepo(conn db.DBTX) *SQLiteFeedbackRepo {
	return &SQLiteFeedbackRepo{db: conn}
}

// Insert never overwrites: feedback is immutable once stored.
func (r *SQLiteFeedbackRepo) Insert(ctx context.Context, f *domain.Feedback) error {
	query := `INSERT OR IGNORE INTO feedback (id, author_id, target_kind, target_id, rating, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		f.ID,
		f.AuthorID,
		string(f.TargetKind),
		f.TargetID,
		f.Rating,
		f.Comment,
		formatTime(f.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting feedback %s: %w", f.ID, err)
	}
	return nil
}

func (r *SQLiteFeedbackRepo) ListByTarget(ctx context.Context, kind domain.TargetKind, targetID string) ([]domain.Feedback, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, author_id, target_kind, target_id, rating, comment, created_at
		FROM feedback WHERE target_kind = ? AND target_id = ? ORDER BY created_at, id`, string(kind), targetID)
	if err != nil {
		return nil, fmt.Errorf("listing feedback: %w", err)
	}
	defer rows.Close()

	var out []domain.Feedback
	for rows.Next() {
		var f domain.Feedback
		var kindStr, createdAt string
		if err := rows.Scan(&f.ID, &f.AuthorID, &kindStr, &f.TargetID, &f.Rating, &f.Comment, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning feedback row: %w", err)
		}
		f.TargetKind = domain.TargetKind(kindStr)
		f.CreatedAt = parseTime(createdAt)
		out = append(out, f)
	}
	return out, rows.Err()
}
