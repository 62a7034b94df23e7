package agent

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/alexanderramin/placement/internal/domain"
	"github.com/alexanderramin/placement/internal/eventbus"
)

// Publisher is the slice of the event bus the agents depend on.
type Publisher interface {
	Publish(ctx context.Context, topic eventbus.Topic, payload any)
}

// Clock returns the current time. Domain timestamps come from it.
type Clock func() time.Time

// internshipEntry carries the per-internship lock that serialises slot
// reservation for that listing only.
type internshipEntry struct {
	mu      sync.Mutex
	listing domain.Internship
}

func (e *internshipEntry) snapshot() domain.Internship {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.listing.Clone()
}

type progressEntry struct {
	mu     sync.Mutex
	record domain.ProgressRecord
}

func (e *progressEntry) snapshot() domain.ProgressRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.record.Clone()
}

// Registry is the in-memory source of truth shared by the agents. Each map
// has its own lock; internships and progress records additionally carry a
// per-entry lock.
type Registry struct {
	studentsMu sync.RWMutex
	students   map[string]domain.Student

	internshipsMu sync.RWMutex
	internships   map[string]*internshipEntry

	placementsMu sync.RWMutex
	placements   map[domain.PairKey]domain.Placement

	progressMu sync.RWMutex
	progress   map[domain.PairKey]*progressEntry

	feedbackMu sync.RWMutex
	feedback   map[string]domain.Feedback

	// schedMu guards events and resources together; a schedule attempt
	// checks and books every involved resource and participant at once.
	schedMu   sync.RWMutex
	events    map[string]*domain.Event
	resources map[string]*domain.Resource
}

func NewRegistry() *Registry {
	return &Registry{
		students:    make(map[string]domain.Student),
		internships: make(map[string]*internshipEntry),
		placements:  make(map[domain.PairKey]domain.Placement),
		progress:    make(map[domain.PairKey]*progressEntry),
		feedback:    make(map[string]domain.Feedback),
		events:      make(map[string]*domain.Event),
		resources:   make(map[string]*domain.Resource),
	}
}

func (r *Registry) putStudent(s domain.Student) {
	r.studentsMu.Lock()
	r.students[s.ID] = s
	r.studentsMu.Unlock()
}

func (r *Registry) Student(id string) (domain.Student, error) {
	r.studentsMu.RLock()
	s, ok := r.students[id]
	r.studentsMu.RUnlock()
	if !ok {
		return domain.Student{}, domain.NotFound("student", id)
	}
	return s.Clone(), nil
}

// Students returns snapshots ordered by ID.
func (r *Registry) Students() []domain.Student {
	r.studentsMu.RLock()
	out := make([]domain.Student, 0, len(r.students))
	for _, s := range r.students {
		out = append(out, s.Clone())
	}
	r.studentsMu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// putInternship registers the listing or replaces its details. Once
// placements exist the slot counters belong to the engine: a replacement keeps
// every consumed slot and may not shrink below them.
func (r *Registry) putInternship(in domain.Internship) (domain.Internship, error) {
	r.internshipsMu.Lock()
	e, ok := r.internships[in.ID]
	if !ok {
		r.internships[in.ID] = &internshipEntry{listing: in}
		r.internshipsMu.Unlock()
		return in.Clone(), nil
	}
	r.internshipsMu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	placed := r.placementCount(in.ID)
	if in.TotalSlots < placed {
		return domain.Internship{}, domain.Invalid("internship.total_slots",
			"%d is below the %d placements already recorded", in.TotalSlots, placed)
	}
	in.FilledSlots = max(in.FilledSlots, placed)
	for cat, n := range e.listing.CategoryFilled {
		if in.CategoryFilled == nil {
			in.CategoryFilled = make(map[domain.Category]int)
		}
		in.CategoryFilled[cat] = max(in.CategoryFilled[cat], n)
	}
	e.listing = in
	return in.Clone(), nil
}

func (r *Registry) internshipEntry(id string) (*internshipEntry, error) {
	r.internshipsMu.RLock()
	e, ok := r.internships[id]
	r.internshipsMu.RUnlock()
	if !ok {
		return nil, domain.NotFound("internship", id)
	}
	return e, nil
}

func (r *Registry) Internship(id string) (domain.Internship, error) {
	e, err := r.internshipEntry(id)
	if err != nil {
		return domain.Internship{}, err
	}
	return e.snapshot(), nil
}

// Internships returns snapshots ordered by ID.
func (r *Registry) Internships() []domain.Internship {
	r.internshipsMu.RLock()
	entries := make([]*internshipEntry, 0, len(r.internships))
	for _, e := range r.internships {
		entries = append(entries, e)
	}
	r.internshipsMu.RUnlock()

	out := make([]domain.Internship, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Registry) hasPlacement(key domain.PairKey) bool {
	r.placementsMu.RLock()
	defer r.placementsMu.RUnlock()
	_, ok := r.placements[key]
	return ok
}

func (r *Registry) placement(key domain.PairKey) (domain.Placement, bool) {
	r.placementsMu.RLock()
	defer r.placementsMu.RUnlock()
	p, ok := r.placements[key]
	return p, ok
}

// placementCount is called with the internship's entry lock held, which
// also serialises placement inserts for that listing.
func (r *Registry) placementCount(internshipID string) int {
	r.placementsMu.RLock()
	defer r.placementsMu.RUnlock()
	n := 0
	for key := range r.placements {
		if key.InternshipID == internshipID {
			n++
		}
	}
	return n
}

func (r *Registry) putPlacement(p domain.Placement) {
	r.placementsMu.Lock()
	r.placements[domain.PairKey{StudentID: p.StudentID, InternshipID: p.InternshipID}] = p
	r.placementsMu.Unlock()
}

// Placements returns every placement ordered by student then internship.
func (r *Registry) Placements() []domain.Placement {
	r.placementsMu.RLock()
	out := make([]domain.Placement, 0, len(r.placements))
	for _, p := range r.placements {
		out = append(out, p)
	}
	r.placementsMu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].StudentID != out[j].StudentID {
			return out[i].StudentID < out[j].StudentID
		}
		return out[i].InternshipID < out[j].InternshipID
	})
	return out
}

// progressEntryOrCreate returns the entry for key, creating it from init when
// absent. created reports whether init was used.
func (r *Registry) progressEntryOrCreate(key domain.PairKey, init func() domain.ProgressRecord) (e *progressEntry, created bool) {
	r.progressMu.RLock()
	e, ok := r.progress[key]
	r.progressMu.RUnlock()
	if ok {
		return e, false
	}

	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	if e, ok = r.progress[key]; ok {
		return e, false
	}
	e = &progressEntry{record: init()}
	r.progress[key] = e
	return e, true
}

func (r *Registry) progressEntry(key domain.PairKey) (*progressEntry, error) {
	r.progressMu.RLock()
	e, ok := r.progress[key]
	r.progressMu.RUnlock()
	if !ok {
		return nil, domain.NotFound("progress", key.StudentID+"/"+key.InternshipID)
	}
	return e, nil
}

func (r *Registry) progressEntries() []*progressEntry {
	r.progressMu.RLock()
	defer r.progressMu.RUnlock()
	out := make([]*progressEntry, 0, len(r.progress))
	for _, e := range r.progress {
		out = append(out, e)
	}
	return out
}

// ProgressRecords returns snapshots ordered by student then internship.
func (r *Registry) ProgressRecords() []domain.ProgressRecord {
	entries := r.progressEntries()
	out := make([]domain.ProgressRecord, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.snapshot())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StudentID != out[j].StudentID {
			return out[i].StudentID < out[j].StudentID
		}
		return out[i].InternshipID < out[j].InternshipID
	})
	return out
}

func (r *Registry) putFeedback(f domain.Feedback) {
	r.feedbackMu.Lock()
	r.feedback[f.ID] = f
	r.feedbackMu.Unlock()
}

func (r *Registry) FeedbackCount() int {
	r.feedbackMu.RLock()
	defer r.feedbackMu.RUnlock()
	return len(r.feedback)
}

// Feedback returns every stored entry ordered by creation time then ID.
func (r *Registry) Feedback() []domain.Feedback {
	r.feedbackMu.RLock()
	out := make([]domain.Feedback, 0, len(r.feedback))
	for _, f := range r.feedback {
		out = append(out, f)
	}
	r.feedbackMu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *Registry) Event(id string) (domain.Event, error) {
	r.schedMu.RLock()
	defer r.schedMu.RUnlock()
	ev, ok := r.events[id]
	if !ok {
		return domain.Event{}, domain.NotFound("event", id)
	}
	return ev.Clone(), nil
}

// Events returns snapshots ordered by start then ID.
func (r *Registry) Events() []domain.Event {
	r.schedMu.RLock()
	out := make([]domain.Event, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Clone())
	}
	r.schedMu.RUnlock()
	sortEvents(out)
	return out
}

func (r *Registry) Resource(id string) (domain.Resource, error) {
	r.schedMu.RLock()
	defer r.schedMu.RUnlock()
	res, ok := r.resources[id]
	if !ok {
		return domain.Resource{}, domain.NotFound("resource", id)
	}
	return res.Clone(), nil
}

// Resources returns snapshots ordered by ID.
func (r *Registry) Resources() []domain.Resource {
	r.schedMu.RLock()
	out := make([]domain.Resource, 0, len(r.resources))
	for _, res := range r.resources {
		out = append(out, res.Clone())
	}
	r.schedMu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortEvents(evs []domain.Event) {
	sort.SliceStable(evs, func(i, j int) bool {
		if !evs[i].Start.Equal(evs[j].Start) {
			return evs[i].Start.Before(evs[j].Start)
		}
		return evs[i].ID < evs[j].ID
	})
}
