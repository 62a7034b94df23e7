package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/placement/internal/db"
	"github.com/alexanderramin/placement/internal/domain"
)

type SQLiteInternshipRepo struct {
	db db.DBTX
}

func NewSQLiteInternshipRepo(conn db.DBTX) *SQLiteInternshipRepo {
	return &SQLiteInternshipRepo{db: conn}
}

func (r *SQLiteInternshipRepo) Upsert(ctx context.Context, in *domain.Internship) error {
	listing, err := marshalJSON(in)
	if err != nil {
		return fmt.Errorf("upserting internship %s: %w", in.ID, err)
	}
	query := `INSERT OR REPLACE INTO internships (id, title, company, domain, location, total_slots,
		filled_slots, start_date, deadline, listing_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		in.ID,
		in.Title,
		in.Company,
		in.Domain,
		in.Location,
		in.TotalSlots,
		in.FilledSlots,
		zeroableTime(in.StartDate),
		zeroableTime(in.ApplicationDeadline),
		listing,
		nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting internship %s: %w", in.ID, err)
	}
	return nil
}

func (r *SQLiteInternshipRepo) GetByID(ctx context.Context, id string) (*domain.Internship, error) {
	var listing string
	err := r.db.QueryRowContext(ctx, `SELECT listing_json FROM internships WHERE id = ?`, id).Scan(&listing)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("internship %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning internship: %w", err)
	}
	var in domain.Internship
	if err := unmarshalJSON(listing, &in); err != nil {
		return nil, fmt.Errorf("internship %s: %w", id, err)
	}
	return &in, nil
}

func (r *SQLiteInternshipRepo) List(ctx context.Context) ([]*domain.Internship, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT listing_json FROM internships ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing internships: %w", err)
	}
	defer rows.Close()

	var out []*domain.Internship
	for rows.Next() {
		var listing string
		if err := rows.Scan(&listing); err != nil {
			return nil, fmt.Errorf("scanning internship row: %w", err)
		}
		var in domain.Internship
		if err := unmarshalJSON(listing, &in); err != nil {
			return nil, err
		}
		out = append(out, &in)
	}
	return out, rows.Err()
}
