package domain

import "time"

// Feedback is immutable once submitted.
type Feedback struct {
	ID         string
	AuthorID   string
	TargetKind TargetKind
	TargetID   string
	Rating     int
	Comment    string
	CreatedAt  time.Time
}

func (f *Feedback) Validate() error {
	switch f.TargetKind {
	case TargetStudent, TargetInternship, TargetEvent:
	default:
		return Invalid("feedback.target_kind", "unsupported target kind %q", f.TargetKind)
	}
	if f.TargetID == "" {
		return Invalid("feedback.target_id", "is required")
	}
	if f.Rating < 1 || f.Rating > 5 {
		return Invalid("feedback.rating", "%d outside 1..5", f.Rating)
	}
	return nil
}
