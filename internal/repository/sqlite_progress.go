package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/placement/internal/db"
	"github.com/alexanderramin/placement/internal/domain"
)

// SQLiteProgressRepo stores a progress record and its milestones. Upsert
// rewrites the milestone rows, so callers should run it inside a
// UnitOfWork.
type SQLiteProgressRepo struct {
	db db.DBTX
}

func NewSQLiteProgressRepo(conn db.DBTX) *SQLiteProgressRepo {
	return &SQLiteProgressRepo{db: conn}
}

func (r *SQLiteProgressRepo) Upsert(ctx context.Context, rec *domain.ProgressRecord) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO progress_records
		(student_id, internship_id, completion_pct, last_updated, created_at) VALUES (?, ?, ?, ?, ?)`,
		rec.StudentID,
		rec.InternshipID,
		rec.CompletionPct,
		formatTime(rec.LastUpdated),
		formatTime(rec.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting progress %s/%s: %w", rec.StudentID, rec.InternshipID, err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM milestones WHERE student_id = ? AND internship_id = ?`,
		rec.StudentID, rec.InternshipID); err != nil {
		return fmt.Errorf("clearing milestones %s/%s: %w", rec.StudentID, rec.InternshipID, err)
	}
	for i, m := range rec.Milestones {
		_, err := r.db.ExecContext(ctx, `INSERT INTO milestones
			(student_id, internship_id, id, description, due_date, completed, completed_at, feedback, order_index)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.StudentID,
			rec.InternshipID,
			m.ID,
			m.Description,
			zeroableTime(m.DueDate),
			boolToInt(m.Completed),
			nullableTimeToString(m.CompletedAt, timeLayout),
			m.Feedback,
			i,
		)
		if err != nil {
			return fmt.Errorf("inserting milestone %s: %w", m.ID, err)
		}
	}
	return nil
}

func (r *SQLiteProgressRepo) Get(ctx context.Context, studentID, internshipID string) (*domain.ProgressRecord, error) {
	rec := domain.ProgressRecord{StudentID: studentID, InternshipID: internshipID}
	var lastUpdated, createdAt string
	err := r.db.QueryRowContext(ctx, `SELECT completion_pct, last_updated, created_at
		FROM progress_records WHERE student_id = ? AND internship_id = ?`, studentID, internshipID).
		Scan(&rec.CompletionPct, &lastUpdated, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("progress %s/%s: %w", studentID, internshipID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning progress: %w", err)
	}
	rec.LastUpdated = parseTime(lastUpdated)
	rec.CreatedAt = parseTime(createdAt)

	rows, err := r.db.QueryContext(ctx, `SELECT id, description, due_date, completed, completed_at, feedback
		FROM milestones WHERE student_id = ? AND internship_id = ? ORDER BY order_index`, studentID, internshipID)
	if err != nil {
		return nil, fmt.Errorf("listing milestones: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m domain.Milestone
		var due, completedAt sql.NullString
		var completed int
		if err := rows.Scan(&m.ID, &m.Description, &due, &completed, &completedAt, &m.Feedback); err != nil {
			return nil, fmt.Errorf("scanning milestone row: %w", err)
		}
		if t := parseNullableTime(due, timeLayout); t != nil {
			m.DueDate = *t
		}
		m.Completed = intToBool(completed)
		m.CompletedAt = parseNullableTime(completedAt, timeLayout)
		rec.Milestones = append(rec.Milestones, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &rec, nil
}
