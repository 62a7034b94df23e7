package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/placement/internal/db"
	"github.com/alexanderramin/placement/internal/domain"
)

type SQLiteEventRepo struct {
	db db.DBTX
}

func NewSQLiteEventRepo(conn db.DBTX) *SQLiteEventRepo {
	return &SQLiteEventRepo{db: conn}
}

func (r *SQLiteEventRepo) Upsert(ctx context.Context, e *domain.Event) error {
	participants, err := marshalJSON(e.ParticipantIDs)
	if err != nil {
		return err
	}
	resources, err := marshalJSON(e.ResourceIDs)
	if err != nil {
		return err
	}
	query := `INSERT OR REPLACE INTO events (id, title, kind, start_at, end_at, status,
		participants_json, resources_json, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		e.ID,
		e.Title,
		e.Kind,
		formatTime(e.Start),
		formatTime(e.End),
		string(e.Status),
		participants,
		resources,
		formatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting event %s: %w", e.ID, err)
	}
	return nil
}

func (r *SQLiteEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	var e domain.Event
	var start, end, status, participants, resources, createdAt string
	err := r.db.QueryRowContext(ctx, `SELECT id, title, kind, start_at, end_at, status,
		participants_json, resources_json, created_at FROM events WHERE id = ?`, id).
		Scan(&e.ID, &e.Title, &e.Kind, &start, &end, &status, &participants, &resources, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("event %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning event: %w", err)
	}
	e.Start = parseTime(start)
	e.End = parseTime(end)
	e.Status = domain.EventStatus(status)
	e.CreatedAt = parseTime(createdAt)
	if err := unmarshalJSON(participants, &e.ParticipantIDs); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(resources, &e.ResourceIDs); err != nil {
		return nil, err
	}
	return &e, nil
}
