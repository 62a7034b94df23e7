package agent

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/placement/internal/domain"
	"github.com/alexanderramin/placement/internal/eventbus"
	"github.com/alexanderramin/placement/internal/scoring"
)

// ApplicationRecorded is published on eventbus.TopicApplicationSubmitted. It
// carries the placement plus a snapshot of the internship taken right after
// the slot was reserved.
type ApplicationRecorded struct {
	Placement  domain.Placement
	Internship domain.Internship
}

// MatchesComputed is published on eventbus.TopicMatchesGenerated.
type MatchesComputed struct {
	eventbus.MatchesGenerated
	Matches []domain.Match
}

type MatchingOptions struct {
	Weights   scoring.Weights
	Threshold float64
	Limit     int
}

// MatchingAgent owns students, internships, placements and the per-student
// match cache.
type MatchingAgent struct {
	reg      *Registry
	bus      Publisher
	opts     MatchingOptions
	now      Clock
	observer UseCaseObserver

	cacheMu  sync.Mutex
	cache    map[string][]domain.Match
	cacheGen uint64

	generated    atomic.Int64
	applications atomic.Int64
	rejections   atomic.Int64
}

func NewMatchingAgent(reg *Registry, bus Publisher, opts MatchingOptions, now Clock, observers ...UseCaseObserver) *MatchingAgent {
	if opts.Limit <= 0 {
		opts.Limit = 10
	}
	return &MatchingAgent{
		reg:      reg,
		bus:      bus,
		opts:     opts,
		now:      now,
		observer: useCaseObserverOrNoop(observers),
		cache:    make(map[string][]domain.Match),
	}
}

func (a *MatchingAgent) AddStudent(ctx context.Context, s domain.Student) (err error) {
	defer observe(ctx, a.observer, "matching.add_student", time.Now(), &err, map[string]any{"student_id": s.ID})
	if err = s.Validate(); err != nil {
		return err
	}
	s = s.Clone()
	a.reg.putStudent(s)

	a.cacheMu.Lock()
	delete(a.cache, s.ID)
	a.cacheGen++
	a.cacheMu.Unlock()

	a.bus.Publish(ctx, eventbus.TopicStudentAdded, s.Clone())
	return nil
}

func (a *MatchingAgent) AddInternship(ctx context.Context, in domain.Internship) (err error) {
	defer observe(ctx, a.observer, "matching.add_internship", time.Now(), &err, map[string]any{"internship_id": in.ID})
	if err = in.Validate(); err != nil {
		return err
	}
	stored, err := a.reg.putInternship(in.Clone())
	if err != nil {
		return err
	}
	a.invalidateAll()

	a.bus.Publish(ctx, eventbus.TopicInternshipAdded, stored)
	return nil
}

// ComputeMatches ranks every open internship for the student and returns the
// top entries. Gated and zero-score pairs are excluded.
func (a *MatchingAgent) ComputeMatches(ctx context.Context, studentID string) (matches []domain.Match, err error) {
	defer observe(ctx, a.observer, "matching.compute_matches", time.Now(), &err, map[string]any{"student_id": studentID})

	ranked, err := a.ranked(studentID)
	if err != nil {
		return nil, err
	}
	top := ranked
	if len(top) > a.opts.Limit {
		top = top[:a.opts.Limit]
	}
	matches = make([]domain.Match, len(top))
	copy(matches, top)

	a.generated.Add(int64(len(matches)))
	a.bus.Publish(ctx, eventbus.TopicMatchesGenerated, MatchesComputed{
		MatchesGenerated: eventbus.MatchesGenerated{StudentID: studentID, MatchCount: len(matches)},
		Matches:          matches,
	})
	return matches, nil
}

// ranked returns the full cached ranking for the student, computing it on a
// miss. A ranking computed while an invalidation happened is not cached.
func (a *MatchingAgent) ranked(studentID string) ([]domain.Match, error) {
	student, err := a.reg.Student(studentID)
	if err != nil {
		return nil, err
	}

	a.cacheMu.Lock()
	if cached, ok := a.cache[studentID]; ok {
		a.cacheMu.Unlock()
		return cached, nil
	}
	gen := a.cacheGen
	a.cacheMu.Unlock()

	listings := a.reg.Internships()
	ptrs := make([]*domain.Internship, len(listings))
	for i := range listings {
		ptrs[i] = &listings[i]
	}
	ranked := scoring.Rank(&student, ptrs, a.opts.Weights)

	a.cacheMu.Lock()
	if a.cacheGen == gen {
		a.cache[studentID] = ranked
	}
	a.cacheMu.Unlock()
	return ranked, nil
}

// pairScore looks the pair up in the cached ranking and falls back to scoring
// it directly. Blocked pairs score zero.
func (a *MatchingAgent) pairScore(student *domain.Student, in *domain.Internship) float64 {
	a.cacheMu.Lock()
	cached, ok := a.cache[student.ID]
	a.cacheMu.Unlock()
	if ok {
		for _, m := range cached {
			if m.InternshipID == in.ID {
				return m.Score
			}
		}
	}
	sm := scoring.ScoreMatch(scoring.ScoringInput{Student: student, Internship: in, Weights: a.opts.Weights})
	if sm.Blocked {
		return 0
	}
	return sm.Match.Score
}

// SubmitApplication places the student when the pair clears the eligibility
// threshold, a slot is free and no placement exists yet. Business rejections
// return false with no state change.
func (a *MatchingAgent) SubmitApplication(ctx context.Context, studentID, internshipID string) (ok bool, err error) {
	fields := map[string]any{"student_id": studentID, "internship_id": internshipID}
	defer observe(ctx, a.observer, "matching.submit_application", time.Now(), &err, fields)

	student, err := a.reg.Student(studentID)
	if err != nil {
		return false, err
	}
	entry, err := a.reg.internshipEntry(internshipID)
	if err != nil {
		return false, err
	}

	listing := entry.snapshot()
	score := a.pairScore(&student, &listing)
	fields["score"] = score
	if score < a.opts.Threshold {
		a.rejections.Add(1)
		fields["outcome"] = "below_threshold"
		return false, nil
	}

	key := domain.PairKey{StudentID: studentID, InternshipID: internshipID}
	placement := domain.Placement{StudentID: studentID, InternshipID: internshipID, Score: score, AppliedAt: a.now()}

	entry.mu.Lock()
	if a.reg.hasPlacement(key) {
		entry.mu.Unlock()
		a.rejections.Add(1)
		fields["outcome"] = "already_placed"
		return false, nil
	}
	if err := entry.listing.ReserveSlot(student.EffectiveCategory()); err != nil {
		entry.mu.Unlock()
		a.rejections.Add(1)
		fields["outcome"] = "full"
		return false, nil
	}
	a.reg.putPlacement(placement)
	snapshot := entry.listing.Clone()
	entry.mu.Unlock()

	a.invalidateInternship(internshipID)
	a.applications.Add(1)
	fields["outcome"] = "placed"

	a.bus.Publish(ctx, eventbus.TopicApplicationSubmitted, ApplicationRecorded{Placement: placement, Internship: snapshot})
	return true, nil
}

func (a *MatchingAgent) invalidateAll() {
	a.cacheMu.Lock()
	clear(a.cache)
	a.cacheGen++
	a.cacheMu.Unlock()
}

// invalidateInternship drops every cached ranking that mentions the listing.
func (a *MatchingAgent) invalidateInternship(internshipID string) {
	a.cacheMu.Lock()
	defer a.cacheMu.Unlock()
	a.cacheGen++
	for sid, ms := range a.cache {
		for _, m := range ms {
			if m.InternshipID == internshipID {
				delete(a.cache, sid)
				break
			}
		}
	}
}

// CachedStudents reports how many students have a cached ranking.
func (a *MatchingAgent) CachedStudents() int {
	a.cacheMu.Lock()
	defer a.cacheMu.Unlock()
	return len(a.cache)
}

// CachedScores returns every cached match score, for analytics.
func (a *MatchingAgent) CachedScores() []float64 {
	a.cacheMu.Lock()
	defer a.cacheMu.Unlock()
	var out []float64
	for _, ms := range a.cache {
		for _, m := range ms {
			out = append(out, m.Score)
		}
	}
	return out
}

func (a *MatchingAgent) MatchesGenerated() int64 { return a.generated.Load() }
func (a *MatchingAgent) Applications() int64     { return a.applications.Load() }
func (a *MatchingAgent) Rejections() int64       { return a.rejections.Load() }
