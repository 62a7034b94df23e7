package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/placement/internal/domain"
)

type ConflictCode string

const (
	ConflictResourceCapacity ConflictCode = "RESOURCE_CAPACITY"
	ConflictParticipantBusy  ConflictCode = "PARTICIPANT_BUSY"
)

// Conflict explains why a window cannot be allocated.
type Conflict struct {
	Code       ConflictCode
	EntityType string
	EntityID   string
	EventIDs   []string
	Message    string
}

// Overlaps uses half-open semantics: [aStart,aEnd) and [bStart,bEnd) overlap
// iff aStart < bEnd && bStart < aEnd. Back-to-back windows do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// PeakConcurrency returns the largest number of bookings active at the same
// instant inside [start, end).
func PeakConcurrency(bookings []domain.Booking, start, end time.Time) int {
	type edge struct {
		at    time.Time
		delta int
	}
	var edges []edge
	for _, b := range bookings {
		if !Overlaps(b.Start, b.End, start, end) {
			continue
		}
		edges = append(edges, edge{at: b.Start, delta: 1}, edge{at: b.End, delta: -1})
	}
	// Ends sort before starts at the same instant so back-to-back bookings
	// never count as concurrent.
	sort.Slice(edges, func(i, j int) bool {
		if !edges[i].at.Equal(edges[j].at) {
			return edges[i].at.Before(edges[j].at)
		}
		return edges[i].delta < edges[j].delta
	})
	peak, cur := 0, 0
	for _, e := range edges {
		cur += e.delta
		if cur > peak {
			peak = cur
		}
	}
	return peak
}

// PeakLoad is the peak concurrency across every booking the resource holds.
func PeakLoad(r *domain.Resource) int {
	if len(r.Bookings) == 0 {
		return 0
	}
	lo, hi := r.Bookings[0].Start, r.Bookings[0].End
	for _, b := range r.Bookings[1:] {
		if b.Start.Before(lo) {
			lo = b.Start
		}
		if b.End.After(hi) {
			hi = b.End
		}
	}
	return PeakConcurrency(r.Bookings, lo, hi)
}

// AllocationRequest is a candidate window together with the state it must
// fit into.
type AllocationRequest struct {
	Start        time.Time
	End          time.Time
	Participants []string
	Resources    []*domain.Resource
	Existing     []domain.Event
}

// CheckAllocation returns every conflict that prevents the window from being
// booked. An empty result means the window fits.
func CheckAllocation(req AllocationRequest) []Conflict {
	var conflicts []Conflict

	for _, r := range req.Resources {
		peak := PeakConcurrency(r.Bookings, req.Start, req.End)
		if peak < r.Capacity {
			continue
		}
		var ids []string
		for _, b := range r.Bookings {
			if Overlaps(b.Start, b.End, req.Start, req.End) {
				ids = append(ids, b.EventID)
			}
		}
		conflicts = append(conflicts, Conflict{
			Code:       ConflictResourceCapacity,
			EntityType: "resource",
			EntityID:   r.ID,
			EventIDs:   ids,
			Message:    fmt.Sprintf("Resource %s fully booked (%d/%d) in window", r.ID, peak, r.Capacity),
		})
	}

	seen := make(map[string]bool, len(req.Participants))
	for _, p := range req.Participants {
		if seen[p] {
			continue
		}
		seen[p] = true
		var ids []string
		for _, e := range req.Existing {
			if e.Status != domain.EventScheduled || !e.HasParticipant(p) {
				continue
			}
			if Overlaps(e.Start, e.End, req.Start, req.End) {
				ids = append(ids, e.ID)
			}
		}
		if len(ids) > 0 {
			conflicts = append(conflicts, Conflict{
				Code:       ConflictParticipantBusy,
				EntityType: "participant",
				EntityID:   p,
				EventIDs:   ids,
				Message:    fmt.Sprintf("Participant %s already booked in window", p),
			})
		}
	}

	return conflicts
}
