package agent

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/placement/internal/eventbus"
	"github.com/alexanderramin/placement/internal/scoring"
	"github.com/alexanderramin/placement/internal/testutil"
)

var allTopics = []eventbus.Topic{
	eventbus.TopicStudentAdded,
	eventbus.TopicInternshipAdded,
	eventbus.TopicMatchesGenerated,
	eventbus.TopicApplicationSubmitted,
	eventbus.TopicProgressUpdated,
	eventbus.TopicMilestoneCompleted,
	eventbus.TopicFeedbackSubmitted,
	eventbus.TopicEventScheduled,
	eventbus.TopicEventCancelled,
	eventbus.TopicResourceAdded,
	eventbus.TopicAlertRaised,
	eventbus.TopicAlertResolved,
}

type harness struct {
	ctx      context.Context
	clock    *testutil.FixedClock
	bus      *eventbus.Bus
	reg      *Registry
	alerts   *AlertStore
	matching *MatchingAgent
	feedback *FeedbackAgent
	coord    *CoordinationAgent

	mu        sync.Mutex
	published []eventbus.Message
}

func newHarness(t *testing.T, limit int) *harness {
	t.Helper()
	clock := testutil.NewFixedClock(testutil.BaseTime)
	bus := eventbus.New(eventbus.WithClock(clock.Now))
	t.Cleanup(bus.Close)

	reg := NewRegistry()
	alerts := NewAlertStore(clock.Now)
	h := &harness{
		ctx:    context.Background(),
		clock:  clock,
		bus:    bus,
		reg:    reg,
		alerts: alerts,
		matching: NewMatchingAgent(reg, bus, MatchingOptions{
			Weights:   scoring.DefaultWeights(),
			Threshold: 40,
			Limit:     limit,
		}, clock.Now),
		feedback: NewFeedbackAgent(reg, alerts, bus, 7*24*time.Hour, clock.Now),
		coord:    NewCoordinationAgent(reg, alerts, bus, clock.Now),
	}
	bus.Subscribe(eventbus.TopicApplicationSubmitted, h.feedback.HandleApplication)
	for _, topic := range allTopics {
		bus.Subscribe(topic, func(_ context.Context, msg eventbus.Message) error {
			h.mu.Lock()
			h.published = append(h.published, msg)
			h.mu.Unlock()
			return nil
		})
	}
	return h
}

func (h *harness) messages(topic eventbus.Topic) []eventbus.Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []eventbus.Message
	for _, m := range h.published {
		if m.Topic == topic {
			out = append(out, m)
		}
	}
	return out
}

// at returns BaseTime's date at the given wall clock time, offset by days.
func at(days, hour, minute int) time.Time {
	b := testutil.BaseTime
	return time.Date(b.Year(), b.Month(), b.Day()+days, hour, minute, 0, 0, time.UTC)
}
