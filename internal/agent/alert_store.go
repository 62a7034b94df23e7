package agent

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/alexanderramin/placement/internal/domain"
)

// AlertStore holds every alert ever raised. Alerts are never deleted; they
// move from active to resolved exactly once.
type AlertStore struct {
	mu     sync.RWMutex
	alerts map[string]*domain.Alert
	now    Clock
}

func NewAlertStore(now Clock) *AlertStore {
	return &AlertStore{alerts: make(map[string]*domain.Alert), now: now}
}

// Raise stores a new active alert and returns its snapshot.
func (s *AlertStore) Raise(a domain.Alert) domain.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(a)
}

// RaiseOnce behaves like Raise unless an active alert with the same reason
// already points at the same entities, in which case that alert is returned
// and raised is false.
func (s *AlertStore) RaiseOnce(a domain.Alert) (alert domain.Alert, raised bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.alerts {
		if existing.IsActive() && sameSubject(existing, &a) {
			return *existing, false
		}
	}
	return s.insertLocked(a), true
}

func (s *AlertStore) insertLocked(a domain.Alert) domain.Alert {
	a.ID = uuid.New().String()
	a.Status = domain.AlertActive
	a.CreatedAt = s.now()
	a.ResolvedAt = nil
	s.alerts[a.ID] = &a
	return a
}

func sameSubject(a, b *domain.Alert) bool {
	return a.Reason == b.Reason &&
		a.TargetKind == b.TargetKind &&
		a.TargetID == b.TargetID &&
		a.StudentID == b.StudentID &&
		a.InternshipID == b.InternshipID &&
		a.EventID == b.EventID &&
		a.ResourceID == b.ResourceID
}

// Resolve transitions the alert to resolved. Unknown IDs and already
// resolved alerts report false and change nothing.
func (s *AlertStore) Resolve(id string) (domain.Alert, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.alerts[id]
	if !ok {
		return domain.Alert{}, false
	}
	if !a.Resolve(s.now()) {
		return *a, false
	}
	return *a, true
}

func (s *AlertStore) Get(id string) (domain.Alert, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.alerts[id]
	if !ok {
		return domain.Alert{}, false
	}
	return *a, true
}

// Active lists active alerts concerning targetID (all when empty), oldest first.
func (s *AlertStore) Active(targetID string) []domain.Alert {
	return s.filter(func(a *domain.Alert) bool {
		return a.IsActive() && a.Concerns(targetID)
	})
}

// All lists every alert, oldest first.
func (s *AlertStore) All() []domain.Alert {
	return s.filter(func(*domain.Alert) bool { return true })
}

func (s *AlertStore) filter(keep func(*domain.Alert) bool) []domain.Alert {
	s.mu.RLock()
	out := make([]domain.Alert, 0, len(s.alerts))
	for _, a := range s.alerts {
		if keep(a) {
			out = append(out, *a)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *AlertStore) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, a := range s.alerts {
		if a.IsActive() {
			n++
		}
	}
	return n
}

func sortAlerts(as []domain.Alert) {
	sort.SliceStable(as, func(i, j int) bool {
		if as[i].StudentID != as[j].StudentID {
			return as[i].StudentID < as[j].StudentID
		}
		return as[i].InternshipID < as[j].InternshipID
	})
}
