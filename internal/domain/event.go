package domain

import "time"

// Event is a scheduled session (interview, orientation, review) that books
// participants and resources for a half-open window [Start, End).
type Event struct {
	ID             string
	Title          string
	Kind           string
	Start          time.Time
	End            time.Time
	ParticipantIDs []string
	ResourceIDs    []string
	Status         EventStatus
	CreatedAt      time.Time
}

// EventSpec is the request to schedule a new event.
type EventSpec struct {
	Title          string
	Kind           string
	Start          time.Time
	End            time.Time
	ParticipantIDs []string
	ResourceIDs    []string
}

func (s *EventSpec) Validate() error {
	if s.Start.IsZero() || s.End.IsZero() {
		return Invalid("event.window", "start and end are required")
	}
	if !s.Start.Before(s.End) {
		return Invalid("event.window", "start %s must be before end %s", s.Start.Format(time.RFC3339), s.End.Format(time.RFC3339))
	}
	return nil
}

func (e *Event) HasParticipant(id string) bool {
	for _, p := range e.ParticipantIDs {
		if p == id {
			return true
		}
	}
	return false
}

func (e Event) Clone() Event {
	e.ParticipantIDs = cloneStrings(e.ParticipantIDs)
	e.ResourceIDs = cloneStrings(e.ResourceIDs)
	return e
}

type Booking struct {
	EventID string
	Start   time.Time
	End     time.Time
}

type Resource struct {
	ID       string
	Name     string
	Kind     string
	Capacity int
	Bookings []Booking
}

func (r *Resource) Validate() error {
	if r.ID == "" {
		return Invalid("resource.id", "is required")
	}
	if r.Capacity < 1 {
		return Invalid("resource.capacity", "must be at least 1, got %d", r.Capacity)
	}
	return nil
}

func (r *Resource) Release(eventID string) bool {
	for i, b := range r.Bookings {
		if b.EventID == eventID {
			r.Bookings = append(r.Bookings[:i], r.Bookings[i+1:]...)
			return true
		}
	}
	return false
}

func (r Resource) Clone() Resource {
	bs := make([]Booking, len(r.Bookings))
	copy(bs, r.Bookings)
	r.Bookings = bs
	return r
}
