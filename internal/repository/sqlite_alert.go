package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/placement/internal/db"
	"github.com/alexanderramin/placement/internal/domain"
)

type SQLiteAlertRepo struct {
	db db.DBTX
}

func NewSQLiteAlertRepo(conn db.DBTX) *SQLiteAlertRepo {
	return &SQLiteAlertRepo{db: conn}
}

const alertColumns = `id, target_kind, target_id, student_id, internship_id, event_id, resource_id,
	severity, reason, status, created_at, resolved_at`

// Upsert stores the alert snapshot. Resolution is one-way: a stale active
// snapshot written after the resolved one leaves the row resolved.
func (r *SQLiteAlertRepo) Upsert(ctx context.Context, a *domain.Alert) error {
	query := `INSERT INTO alerts (` + alertColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			target_kind = excluded.target_kind,
			target_id = excluded.target_id,
			student_id = excluded.student_id,
			internship_id = excluded.internship_id,
			event_id = excluded.event_id,
			resource_id = excluded.resource_id,
			severity = excluded.severity,
			reason = excluded.reason,
			status = CASE WHEN alerts.status = 'resolved' THEN alerts.status ELSE excluded.status END,
			created_at = excluded.created_at,
			resolved_at = COALESCE(alerts.resolved_at, excluded.resolved_at)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		string(a.TargetKind),
		a.TargetID,
		a.StudentID,
		a.InternshipID,
		a.EventID,
		a.ResourceID,
		string(a.Severity),
		a.Reason,
		string(a.Status),
		formatTime(a.CreatedAt),
		nullableTimeToString(a.ResolvedAt, timeLayout),
	)
	if err != nil {
		return fmt.Errorf("upserting alert %s: %w", a.ID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAlert(row rowScanner) (domain.Alert, error) {
	var a domain.Alert
	var kind, severity, status, createdAt string
	var resolvedAt sql.NullString
	err := row.Scan(&a.ID, &kind, &a.TargetID, &a.StudentID, &a.InternshipID, &a.EventID, &a.ResourceID,
		&severity, &a.Reason, &status, &createdAt, &resolvedAt)
	if err != nil {
		return domain.Alert{}, err
	}
	a.TargetKind = domain.TargetKind(kind)
	a.Severity = domain.AlertSeverity(severity)
	a.Status = domain.AlertStatus(status)
	a.CreatedAt = parseTime(createdAt)
	a.ResolvedAt = parseNullableTime(resolvedAt, timeLayout)
	return a, nil
}

func (r *SQLiteAlertRepo) GetByID(ctx context.Context, id string) (*domain.Alert, error) {
	a, err := scanAlert(r.db.QueryRowContext(ctx, `SELECT `+alertColumns+` FROM alerts WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("alert %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning alert: %w", err)
	}
	return &a, nil
}

func (r *SQLiteAlertRepo) ListActive(ctx context.Context) ([]domain.Alert, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+alertColumns+` FROM alerts
		WHERE status = 'active' ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing active alerts: %w", err)
	}
	defer rows.Close()

	var out []domain.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning alert row: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
