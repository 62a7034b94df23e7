package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/placement/internal/domain"
	"github.com/alexanderramin/placement/internal/eventbus"
)

// ProgressUpdated is published on eventbus.TopicProgressUpdated and
// eventbus.TopicMilestoneCompleted.
type ProgressUpdated struct {
	Record      domain.ProgressRecord
	MilestoneID string
}

// FeedbackAgent owns progress records and feedback, and raises progress
// alerts.
type FeedbackAgent struct {
	reg        *Registry
	alerts     *AlertStore
	bus        Publisher
	stagnation time.Duration
	now        Clock
	observer   UseCaseObserver
}

func NewFeedbackAgent(reg *Registry, alerts *AlertStore, bus Publisher, stagnation time.Duration, now Clock, observers ...UseCaseObserver) *FeedbackAgent {
	return &FeedbackAgent{
		reg:        reg,
		alerts:     alerts,
		bus:        bus,
		stagnation: stagnation,
		now:        now,
		observer:   useCaseObserverOrNoop(observers),
	}
}

// HandleApplication creates the progress record for a fresh placement. It is
// subscribed to eventbus.TopicApplicationSubmitted.
func (a *FeedbackAgent) HandleApplication(ctx context.Context, msg eventbus.Message) error {
	rec, ok := msg.Payload.(ApplicationRecorded)
	if !ok {
		return fmt.Errorf("feedback agent: unexpected payload %T on %s", msg.Payload, msg.Topic)
	}
	key := domain.PairKey{StudentID: rec.Placement.StudentID, InternshipID: rec.Placement.InternshipID}
	e, created := a.reg.progressEntryOrCreate(key, func() domain.ProgressRecord {
		return a.newRecord(key, &rec.Internship, rec.Placement.AppliedAt)
	})
	if created {
		a.bus.Publish(ctx, eventbus.TopicProgressUpdated, ProgressUpdated{Record: e.snapshot()})
	}
	return nil
}

func (a *FeedbackAgent) newRecord(key domain.PairKey, in *domain.Internship, placedAt time.Time) domain.ProgressRecord {
	now := a.now()
	return domain.ProgressRecord{
		StudentID:    key.StudentID,
		InternshipID: key.InternshipID,
		Milestones:   domain.DefaultMilestones(in, placedAt),
		LastUpdated:  now,
		CreatedAt:    now,
	}
}

// UpdateProgress applies patch to the placement's record. A stagnation alert
// is raised from the pre-update state.
func (a *FeedbackAgent) UpdateProgress(ctx context.Context, studentID, internshipID string, patch domain.ProgressPatch) (rec domain.ProgressRecord, err error) {
	defer observe(ctx, a.observer, "feedback.update_progress", time.Now(), &err,
		map[string]any{"student_id": studentID, "internship_id": internshipID})

	key := domain.PairKey{StudentID: studentID, InternshipID: internshipID}
	placement, ok := a.reg.placement(key)
	if !ok {
		return domain.ProgressRecord{}, domain.NotFound("placement", studentID+"/"+internshipID)
	}
	in, err := a.reg.Internship(internshipID)
	if err != nil {
		return domain.ProgressRecord{}, err
	}
	e, _ := a.reg.progressEntryOrCreate(key, func() domain.ProgressRecord {
		return a.newRecord(key, &in, placement.AppliedAt)
	})

	now := a.now()
	var raised *domain.Alert
	e.mu.Lock()
	if e.record.StagnantAt(now, a.stagnation) {
		alert, fresh := a.alerts.RaiseOnce(domain.Alert{
			TargetKind:   domain.TargetPlacement,
			TargetID:     studentID,
			StudentID:    studentID,
			InternshipID: internshipID,
			Severity:     domain.SeverityMedium,
			Reason:       domain.ReasonStagnantProgress,
		})
		if fresh {
			raised = &alert
		}
	}
	e.record.Apply(patch, now)
	rec = e.record.Clone()
	e.mu.Unlock()

	if raised != nil {
		a.bus.Publish(ctx, eventbus.TopicAlertRaised, *raised)
	}
	a.bus.Publish(ctx, eventbus.TopicProgressUpdated, ProgressUpdated{Record: rec.Clone()})
	return rec, nil
}

// CompleteMilestone marks the milestone done. Completing an already completed
// milestone changes nothing and publishes nothing.
func (a *FeedbackAgent) CompleteMilestone(ctx context.Context, studentID, internshipID, milestoneID, feedback string) (err error) {
	defer observe(ctx, a.observer, "feedback.complete_milestone", time.Now(), &err,
		map[string]any{"student_id": studentID, "internship_id": internshipID, "milestone_id": milestoneID})

	e, err := a.reg.progressEntry(domain.PairKey{StudentID: studentID, InternshipID: internshipID})
	if err != nil {
		return err
	}

	now := a.now()
	var raised *domain.Alert
	e.mu.Lock()
	m := e.record.Milestone(milestoneID)
	if m == nil {
		e.mu.Unlock()
		return domain.NotFound("milestone", milestoneID)
	}
	if !m.Complete(feedback, now) {
		e.mu.Unlock()
		return nil
	}
	if m.OverdueAt(now) {
		alert := a.alerts.Raise(domain.Alert{
			TargetKind:   domain.TargetPlacement,
			TargetID:     studentID,
			StudentID:    studentID,
			InternshipID: internshipID,
			Severity:     domain.SeverityHigh,
			Reason:       domain.ReasonMilestoneOverdue,
		})
		raised = &alert
	}
	e.record.LastUpdated = now
	rec := e.record.Clone()
	e.mu.Unlock()

	if raised != nil {
		a.bus.Publish(ctx, eventbus.TopicAlertRaised, *raised)
	}
	a.bus.Publish(ctx, eventbus.TopicMilestoneCompleted, ProgressUpdated{Record: rec, MilestoneID: milestoneID})
	return nil
}

// AddMilestone appends a custom checkpoint to an existing record.
func (a *FeedbackAgent) AddMilestone(ctx context.Context, studentID, internshipID string, m domain.Milestone) (err error) {
	defer observe(ctx, a.observer, "feedback.add_milestone", time.Now(), &err,
		map[string]any{"student_id": studentID, "internship_id": internshipID, "milestone_id": m.ID})

	if m.ID == "" {
		return domain.Invalid("milestone.id", "is required")
	}
	if m.DueDate.IsZero() {
		return domain.Invalid("milestone.due_date", "is required")
	}
	e, err := a.reg.progressEntry(domain.PairKey{StudentID: studentID, InternshipID: internshipID})
	if err != nil {
		return err
	}

	e.mu.Lock()
	if e.record.Milestone(m.ID) != nil {
		e.mu.Unlock()
		return domain.Invalid("milestone.id", "%q already exists", m.ID)
	}
	m.Completed = false
	m.CompletedAt = nil
	e.record.Milestones = append(e.record.Milestones, m)
	rec := e.record.Clone()
	e.mu.Unlock()

	a.bus.Publish(ctx, eventbus.TopicProgressUpdated, ProgressUpdated{Record: rec})
	return nil
}

// SubmitFeedback stores an immutable feedback entry and returns its ID.
func (a *FeedbackAgent) SubmitFeedback(ctx context.Context, fb domain.Feedback) (id string, err error) {
	defer observe(ctx, a.observer, "feedback.submit", time.Now(), &err,
		map[string]any{"target_kind": string(fb.TargetKind), "target_id": fb.TargetID})

	if err = fb.Validate(); err != nil {
		return "", err
	}
	switch fb.TargetKind {
	case domain.TargetStudent:
		_, err = a.reg.Student(fb.TargetID)
	case domain.TargetInternship:
		_, err = a.reg.Internship(fb.TargetID)
	case domain.TargetEvent:
		_, err = a.reg.Event(fb.TargetID)
	}
	if err != nil {
		return "", err
	}

	fb.ID = uuid.New().String()
	fb.CreatedAt = a.now()
	a.reg.putFeedback(fb)

	a.bus.Publish(ctx, eventbus.TopicFeedbackSubmitted, fb)
	return fb.ID, nil
}

// SweepStagnation raises a stagnation alert for every record idle beyond the
// threshold that has no active one yet. Returns the alerts raised.
func (a *FeedbackAgent) SweepStagnation(ctx context.Context) (raised []domain.Alert, err error) {
	defer observe(ctx, a.observer, "feedback.sweep_stagnation", time.Now(), &err, nil)

	now := a.now()
	for _, e := range a.reg.progressEntries() {
		rec := e.snapshot()
		if rec.CompletionPct >= 100 || !rec.StagnantAt(now, a.stagnation) {
			continue
		}
		alert, fresh := a.alerts.RaiseOnce(domain.Alert{
			TargetKind:   domain.TargetPlacement,
			TargetID:     rec.StudentID,
			StudentID:    rec.StudentID,
			InternshipID: rec.InternshipID,
			Severity:     domain.SeverityMedium,
			Reason:       domain.ReasonStagnantProgress,
		})
		if fresh {
			raised = append(raised, alert)
		}
	}
	sortAlerts(raised)
	for _, al := range raised {
		a.bus.Publish(ctx, eventbus.TopicAlertRaised, al)
	}
	return raised, nil
}

func (a *FeedbackAgent) Progress(studentID, internshipID string) (domain.ProgressRecord, error) {
	e, err := a.reg.progressEntry(domain.PairKey{StudentID: studentID, InternshipID: internshipID})
	if err != nil {
		return domain.ProgressRecord{}, err
	}
	return e.snapshot(), nil
}
