package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/placement/internal/db"
	"github.com/alexanderramin/placement/internal/domain"
)

// SQLiteResourceRepo stores resources with their current bookings. Upsert
// replaces the booking rows and should run inside a UnitOfWork.
type SQLiteResourceRepo struct {
	db db.DBTX
}

func NewSQLiteResourceRepo(conn db.DBTX) *SQLiteResourceRepo {
	return &SQLiteResourceRepo{db: conn}
}

func (r *SQLiteResourceRepo) Upsert(ctx context.Context, res *domain.Resource) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO resources (id, name, kind, capacity, updated_at)
		VALUES (?, ?, ?, ?, ?)`, res.ID, res.Name, res.Kind, res.Capacity, nowUTC())
	if err != nil {
		return fmt.Errorf("upserting resource %s: %w", res.ID, err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE resource_id = ?`, res.ID); err != nil {
		return fmt.Errorf("clearing bookings for %s: %w", res.ID, err)
	}
	for _, b := range res.Bookings {
		_, err := r.db.ExecContext(ctx, `INSERT INTO bookings (resource_id, event_id, start_at, end_at)
			VALUES (?, ?, ?, ?)`, res.ID, b.EventID, formatTime(b.Start), formatTime(b.End))
		if err != nil {
			return fmt.Errorf("inserting booking %s/%s: %w", res.ID, b.EventID, err)
		}
	}
	return nil
}

func (r *SQLiteResourceRepo) GetByID(ctx context.Context, id string) (*domain.Resource, error) {
	var res domain.Resource
	err := r.db.QueryRowContext(ctx, `SELECT id, name, kind, capacity FROM resources WHERE id = ?`, id).
		Scan(&res.ID, &res.Name, &res.Kind, &res.Capacity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("resource %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning resource: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT event_id, start_at, end_at FROM bookings
		WHERE resource_id = ? ORDER BY start_at, event_id`, id)
	if err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var b domain.Booking
		var start, end string
		if err := rows.Scan(&b.EventID, &start, &end); err != nil {
			return nil, fmt.Errorf("scanning booking row: %w", err)
		}
		b.Start = parseTime(start)
		b.End = parseTime(end)
		res.Bookings = append(res.Bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &res, nil
}

// Book records a single booking without touching the resource row.
func (r *SQLiteResourceRepo) Book(ctx context.Context, resourceID string, b domain.Booking) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO bookings (resource_id, event_id, start_at, end_at)
		VALUES (?, ?, ?, ?)`, resourceID, b.EventID, formatTime(b.Start), formatTime(b.End))
	if err != nil {
		return fmt.Errorf("booking %s for %s: %w", resourceID, b.EventID, err)
	}
	return nil
}

// ReleaseEvent drops every booking held by eventID.
func (r *SQLiteResourceRepo) ReleaseEvent(ctx context.Context, eventID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE event_id = ?`, eventID); err != nil {
		return fmt.Errorf("releasing bookings for %s: %w", eventID, err)
	}
	return nil
}
