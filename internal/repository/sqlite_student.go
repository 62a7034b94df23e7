package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/placement/internal/db"
	"github.com/alexanderramin/placement/internal/domain"
)

// SQLiteStudentRepo mirrors student profiles. Searchable fields get columns;
// the full profile is kept as JSON.
type SQLiteStudentRepo struct {
	db db.DBTX
}

func NewSQLiteStudentRepo(conn db.DBTX) *SQLiteStudentRepo {
	return &SQLiteStudentRepo{db: conn}
}

func (r *SQLiteStudentRepo) Upsert(ctx context.Context, s *domain.Student) error {
	profile, err := marshalJSON(s)
	if err != nil {
		return fmt.Errorf("upserting student %s: %w", s.ID, err)
	}
	query := `INSERT OR REPLACE INTO students (id, name, email, category, degree, cgpa, profile_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		s.ID,
		s.Name,
		s.Email,
		string(s.EffectiveCategory()),
		s.Academic.Degree,
		s.Academic.CGPA,
		profile,
		nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting student %s: %w", s.ID, err)
	}
	return nil
}

func (r *SQLiteStudentRepo) GetByID(ctx context.Context, id string) (*domain.Student, error) {
	var profile string
	err := r.db.QueryRowContext(ctx, `SELECT profile_json FROM students WHERE id = ?`, id).Scan(&profile)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("student %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning student: %w", err)
	}
	var s domain.Student
	if err := unmarshalJSON(profile, &s); err != nil {
		return nil, fmt.Errorf("student %s: %w", id, err)
	}
	return &s, nil
}

func (r *SQLiteStudentRepo) List(ctx context.Context) ([]*domain.Student, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT profile_json FROM students ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing students: %w", err)
	}
	defer rows.Close()

	var out []*domain.Student
	for rows.Next() {
		var profile string
		if err := rows.Scan(&profile); err != nil {
			return nil, fmt.Errorf("scanning student row: %w", err)
		}
		var s domain.Student
		if err := unmarshalJSON(profile, &s); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
