package agent

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/placement/internal/domain"
	"github.com/alexanderramin/placement/internal/eventbus"
	"github.com/alexanderramin/placement/internal/scheduler"
)

// DefaultUpcomingDays is the look-ahead window used when none is given.
const DefaultUpcomingDays = 7

// ScheduleResult reports the outcome of a scheduling attempt. A rejected
// attempt has Scheduled false and at least one conflict.
type ScheduleResult struct {
	EventID   string
	Scheduled bool
	Conflicts []scheduler.Conflict
}

// CoordinationAgent owns events, resources and alert resolution.
type CoordinationAgent struct {
	reg      *Registry
	alerts   *AlertStore
	bus      Publisher
	now      Clock
	observer UseCaseObserver
}

func NewCoordinationAgent(reg *Registry, alerts *AlertStore, bus Publisher, now Clock, observers ...UseCaseObserver) *CoordinationAgent {
	return &CoordinationAgent{
		reg:      reg,
		alerts:   alerts,
		bus:      bus,
		now:      now,
		observer: useCaseObserverOrNoop(observers),
	}
}

// AddResource registers or replaces a resource. Existing bookings are kept;
// shrinking capacity below the current peak raises a contention alert.
func (a *CoordinationAgent) AddResource(ctx context.Context, res domain.Resource) (err error) {
	defer observe(ctx, a.observer, "coordination.add_resource", time.Now(), &err, map[string]any{"resource_id": res.ID})
	if err = res.Validate(); err != nil {
		return err
	}
	res = res.Clone()

	var raised *domain.Alert
	a.reg.schedMu.Lock()
	if existing, ok := a.reg.resources[res.ID]; ok {
		res.Bookings = existing.Clone().Bookings
	} else {
		res.Bookings = nil
	}
	a.reg.resources[res.ID] = &res
	if peak := scheduler.PeakLoad(&res); peak > res.Capacity {
		alert := a.alerts.Raise(domain.Alert{
			TargetKind: domain.TargetResource,
			TargetID:   res.ID,
			ResourceID: res.ID,
			Severity:   domain.SeverityHigh,
			Reason:     domain.ReasonResourceContention,
		})
		raised = &alert
	}
	snapshot := res.Clone()
	a.reg.schedMu.Unlock()

	a.bus.Publish(ctx, eventbus.TopicResourceAdded, snapshot)
	if raised != nil {
		a.bus.Publish(ctx, eventbus.TopicAlertRaised, *raised)
	}
	return nil
}

// ScheduleEvent books the event when every resource has spare capacity and
// every participant is free for the whole window.
func (a *CoordinationAgent) ScheduleEvent(ctx context.Context, spec domain.EventSpec) (result ScheduleResult, err error) {
	fields := map[string]any{"title": spec.Title}
	defer observe(ctx, a.observer, "coordination.schedule_event", time.Now(), &err, fields)

	if err = spec.Validate(); err != nil {
		return ScheduleResult{}, err
	}
	resourceIDs := dedupe(spec.ResourceIDs)
	participants := dedupe(spec.ParticipantIDs)

	a.reg.schedMu.Lock()
	resources := make([]*domain.Resource, 0, len(resourceIDs))
	for _, id := range resourceIDs {
		res, ok := a.reg.resources[id]
		if !ok {
			a.reg.schedMu.Unlock()
			return ScheduleResult{}, domain.NotFound("resource", id)
		}
		resources = append(resources, res)
	}
	existing := make([]domain.Event, 0, len(a.reg.events))
	for _, ev := range a.reg.events {
		existing = append(existing, *ev)
	}
	sortEvents(existing)

	conflicts := scheduler.CheckAllocation(scheduler.AllocationRequest{
		Start:        spec.Start,
		End:          spec.End,
		Participants: participants,
		Resources:    resources,
		Existing:     existing,
	})
	if len(conflicts) > 0 {
		a.reg.schedMu.Unlock()
		fields["conflicts"] = len(conflicts)
		return ScheduleResult{Scheduled: false, Conflicts: conflicts}, nil
	}

	ev := &domain.Event{
		ID:             uuid.New().String(),
		Title:          spec.Title,
		Kind:           spec.Kind,
		Start:          spec.Start,
		End:            spec.End,
		ParticipantIDs: participants,
		ResourceIDs:    resourceIDs,
		Status:         domain.EventScheduled,
		CreatedAt:      a.now(),
	}
	for _, res := range resources {
		res.Bookings = append(res.Bookings, domain.Booking{EventID: ev.ID, Start: ev.Start, End: ev.End})
	}
	a.reg.events[ev.ID] = ev
	snapshot := ev.Clone()
	a.reg.schedMu.Unlock()

	fields["event_id"] = snapshot.ID
	a.bus.Publish(ctx, eventbus.TopicEventScheduled, snapshot)
	return ScheduleResult{EventID: snapshot.ID, Scheduled: true}, nil
}

// CancelEvent releases the event's bookings. Cancelling twice is a no-op.
func (a *CoordinationAgent) CancelEvent(ctx context.Context, eventID string) (err error) {
	defer observe(ctx, a.observer, "coordination.cancel_event", time.Now(), &err, map[string]any{"event_id": eventID})

	a.reg.schedMu.Lock()
	ev, ok := a.reg.events[eventID]
	if !ok {
		a.reg.schedMu.Unlock()
		return domain.NotFound("event", eventID)
	}
	if ev.Status == domain.EventCancelled {
		a.reg.schedMu.Unlock()
		return nil
	}
	ev.Status = domain.EventCancelled
	for _, id := range ev.ResourceIDs {
		if res, ok := a.reg.resources[id]; ok {
			res.Release(ev.ID)
		}
	}
	snapshot := ev.Clone()
	a.reg.schedMu.Unlock()

	a.bus.Publish(ctx, eventbus.TopicEventCancelled, snapshot)
	return nil
}

// UpcomingEvents lists scheduled events starting within [now, now+days],
// optionally limited to one participant.
func (a *CoordinationAgent) UpcomingEvents(participantID string, days int) []domain.Event {
	if days <= 0 {
		days = DefaultUpcomingDays
	}
	now := a.now()
	horizon := now.AddDate(0, 0, days)

	var out []domain.Event
	for _, ev := range a.reg.Events() {
		if ev.Status != domain.EventScheduled {
			continue
		}
		if ev.Start.Before(now) || ev.Start.After(horizon) {
			continue
		}
		if participantID != "" && !ev.HasParticipant(participantID) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

func (a *CoordinationAgent) ActiveAlerts(targetID string) []domain.Alert {
	return a.alerts.Active(targetID)
}

// ResolveAlert resolves the alert. Unknown and already resolved IDs are
// accepted silently.
func (a *CoordinationAgent) ResolveAlert(ctx context.Context, alertID string) (err error) {
	defer observe(ctx, a.observer, "coordination.resolve_alert", time.Now(), &err, map[string]any{"alert_id": alertID})

	alert, changed := a.alerts.Resolve(alertID)
	if changed {
		a.bus.Publish(ctx, eventbus.TopicAlertResolved, alert)
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
