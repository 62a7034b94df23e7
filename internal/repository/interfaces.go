package repository

import (
	"context"

	"github.com/alexanderramin/placement/internal/domain"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = domain.ErrNotFound

type StudentRepo interface {
	Upsert(ctx context.Context, s *domain.Student) error
	GetByID(ctx context.Context, id string) (*domain.Student, error)
	List(ctx context.Context) ([]*domain.Student, error)
}

type InternshipRepo interface {
	Upsert(ctx context.Context, in *domain.Internship) error
	GetByID(ctx context.Context, id string) (*domain.Internship, error)
	List(ctx context.Context) ([]*domain.Internship, error)
}

type PlacementRepo interface {
	Upsert(ctx context.Context, p *domain.Placement) error
	ListByStudent(ctx context.Context, studentID string) ([]domain.Placement, error)
}

type ProgressRepo interface {
	Upsert(ctx context.Context, rec *domain.ProgressRecord) error
	Get(ctx context.Context, studentID, internshipID string) (*domain.ProgressRecord, error)
}

type FeedbackRepo interface {
	Insert(ctx context.Context, f *domain.Feedback) error
	ListByTarget(ctx context.Context, kind domain.TargetKind, targetID string) ([]domain.Feedback, error)
}

type EventRepo interface {
	Upsert(ctx context.Context, e *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
}

type ResourceRepo interface {
	Upsert(ctx context.Context, r *domain.Resource) error
	GetByID(ctx context.Context, id string) (*domain.Resource, error)
	Book(ctx context.Context, resourceID string, b domain.Booking) error
	ReleaseEvent(ctx context.Context, eventID string) error
}

type AlertRepo interface {
	Upsert(ctx context.Context, a *domain.Alert) error
	GetByID(ctx context.Context, id string) (*domain.Alert, error)
	ListActive(ctx context.Context) ([]domain.Alert, error)
}
