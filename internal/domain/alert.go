package domain

import "time"

type Alert struct {
	ID           string
	TargetKind   TargetKind
	TargetID     string
	StudentID    string
	InternshipID string
	EventID      string
	ResourceID   string
	Severity     AlertSeverity
	Reason       string
	Status       AlertStatus
	CreatedAt    time.Time
	ResolvedAt   *time.Time
}

func (a *Alert) IsActive() bool {
	return a.Status == AlertActive
}

// Concerns reports whether id names any entity the alert points at.
func (a *Alert) Concerns(id string) bool {
	if id == "" {
		return true
	}
	return a.TargetID == id || a.StudentID == id || a.InternshipID == id ||
		a.EventID == id || a.ResourceID == id
}

// Resolve moves an active alert to resolved. Returns false when the alert was
// already resolved.
func (a *Alert) Resolve(now time.Time) bool {
	if a.Status == AlertResolved {
		return false
	}
	a.Status = AlertResolved
	a.ResolvedAt = &now
	return true
}
