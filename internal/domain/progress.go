package domain

import "time"

type Milestone struct {
	ID          string
	Description string
	DueDate     time.Time
	Completed   bool
	CompletedAt *time.Time
	Feedback    string
}

// Complete marks the milestone done. Returns false when it was already
// complete, in which case nothing changes.
func (m *Milestone) Complete(feedback string, now time.Time) bool {
	if m.Completed {
		return false
	}
	m.Completed = true
	m.CompletedAt = &now
	if feedback != "" {
		m.Feedback = feedback
	}
	return true
}

// OverdueAt reports whether the milestone was due before t.
func (m *Milestone) OverdueAt(t time.Time) bool {
	return !m.DueDate.IsZero() && m.DueDate.Before(t)
}

type ProgressRecord struct {
	StudentID     string
	InternshipID  string
	CompletionPct float64
	Milestones    []Milestone
	LastUpdated   time.Time
	CreatedAt     time.Time
}

// ProgressPatch sets CompletionPct when non-nil, otherwise adds DeltaPct.
type ProgressPatch struct {
	CompletionPct *float64
	DeltaPct      float64
}

func (p *ProgressRecord) Key() PairKey {
	return PairKey{StudentID: p.StudentID, InternshipID: p.InternshipID}
}

// StagnantAt reports whether the record has been idle longer than threshold.
func (p *ProgressRecord) StagnantAt(now time.Time, threshold time.Duration) bool {
	return threshold > 0 && now.Sub(p.LastUpdated) > threshold
}

func (p *ProgressRecord) Apply(patch ProgressPatch, now time.Time) {
	pct := p.CompletionPct + patch.DeltaPct
	if patch.CompletionPct != nil {
		pct = *patch.CompletionPct
	}
	switch {
	case pct < 0:
		pct = 0
	case pct > 100:
		pct = 100
	}
	p.CompletionPct = pct
	p.LastUpdated = now
}

func (p *ProgressRecord) Milestone(id string) *Milestone {
	for i := range p.Milestones {
		if p.Milestones[i].ID == id {
			return &p.Milestones[i]
		}
	}
	return nil
}

func (p *ProgressRecord) CompletedMilestones() int {
	n := 0
	for _, m := range p.Milestones {
		if m.Completed {
			n++
		}
	}
	return n
}

func (p ProgressRecord) Clone() ProgressRecord {
	ms := make([]Milestone, len(p.Milestones))
	copy(ms, p.Milestones)
	p.Milestones = ms
	return p
}

// DefaultMilestones lays out onboarding, midterm and final checkpoints over
// the internship timeline. A listing without a start date is timed from
// placedAt instead.
func DefaultMilestones(in *Internship, placedAt time.Time) []Milestone {
	start := in.StartDate
	if start.IsZero() {
		start = placedAt
	}
	end := start.AddDate(0, in.DurationMonths, 0)
	mid := start.Add(end.Sub(start) / 2)
	return []Milestone{
		{ID: "onboarding", Description: "Complete onboarding", DueDate: start.AddDate(0, 0, 7)},
		{ID: "midterm", Description: "Midterm review", DueDate: mid},
		{ID: "final", Description: "Final evaluation", DueDate: end},
	}
}
