package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/placement/internal/db"
	"github.com/alexanderramin/placement/internal/domain"
)

type SQLitePlacementRepo struct {
	db db.DBTX
}

func NewSQLitePlacementRepo(conn db.DBTX) *SQLitePlacementRepo {
	return &SQLitePlacementRepo{db: conn}
}

func (r *SQLitePlacementRepo) Upsert(ctx context.Context, p *domain.Placement) error {
	query := `INSERT OR REPLACE INTO placements (student_id, internship_id, score, applied_at)
		VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, p.StudentID, p.InternshipID, p.Score, formatTime(p.AppliedAt))
	if err != nil {
		return fmt.Errorf("upserting placement %s/%s: %w", p.StudentID, p.InternshipID, err)
	}
	return nil
}

func (r *SQLitePlacementRepo) ListByStudent(ctx context.Context, studentID string) ([]domain.Placement, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT student_id, internship_id, score, applied_at
		FROM placements WHERE student_id = ? ORDER BY internship_id`, studentID)
	if err != nil {
		return nil, fmt.Errorf("listing placements: %w", err)
	}
	defer rows.Close()

	var out []domain.Placement
	for rows.Next() {
		var p domain.Placement
		var appliedAt string
		if err := rows.Scan(&p.StudentID, &p.InternshipID, &p.Score, &appliedAt); err != nil {
			return nil, fmt.Errorf("scanning placement row: %w", err)
		}
		p.AppliedAt = parseTime(appliedAt)
		out = append(out, p)
	}
	return out, rows.Err()
}
