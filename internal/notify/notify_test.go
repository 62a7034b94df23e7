package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/placement/internal/domain"
	"github.com/alexanderramin/placement/internal/eventbus"
	"github.com/alexanderramin/placement/internal/taskqueue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	channel string
	body    []byte
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []sent
	err  error
}

func (f *fakePublisher) Publish(_ context.Context, channel string, message []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sent{channel: channel, body: message})
	return nil
}

type inlineQueue struct {
	errs []error
}

func (q *inlineQueue) Enqueue(t taskqueue.Task) bool {
	q.errs = append(q.errs, t.Run(context.Background()))
	return true
}

func TestDispatcher_ForwardsAlertEnvelope(t *testing.T) {
	pub := &fakePublisher{}
	q := &inlineQueue{}
	d := NewDispatcher(pub, q, "placement:notifications", nil)
	bus := eventbus.New(eventbus.WithClock(func() time.Time {
		return time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	}))
	d.Attach(bus)

	bus.Publish(context.Background(), eventbus.TopicAlertRaised, domain.Alert{
		ID:       "a1",
		Severity: domain.SeverityHigh,
		Reason:   domain.ReasonMilestoneOverdue,
	})

	require.Len(t, pub.sent, 1)
	assert.Equal(t, "placement:notifications", pub.sent[0].channel)

	var env struct {
		Topic       string          `json:"topic"`
		PublishedAt time.Time       `json:"published_at"`
		Payload     json.RawMessage `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(pub.sent[0].body, &env))
	assert.Equal(t, "alert_raised", env.Topic)
	assert.Equal(t, 2025, env.PublishedAt.Year())
	var alert domain.Alert
	require.NoError(t, json.Unmarshal(env.Payload, &alert))
	assert.Equal(t, "a1", alert.ID)
	assert.Equal(t, domain.SeverityHigh, alert.Severity)
}

func TestDispatcher_IgnoresUnlistedTopics(t *testing.T) {
	pub := &fakePublisher{}
	d := NewDispatcher(pub, &inlineQueue{}, "ch", nil)
	bus := eventbus.New()
	d.Attach(bus)

	bus.Publish(context.Background(), eventbus.TopicStudentAdded, domain.Student{ID: "s1"})
	assert.Empty(t, pub.sent)
}

func TestDispatcher_PublishErrorStaysInQueue(t *testing.T) {
	pub := &fakePublisher{err: errors.New("connection refused")}
	q := &inlineQueue{}
	d := NewDispatcher(pub, q, "ch", nil)
	bus := eventbus.New()
	d.Attach(bus)

	bus.Publish(context.Background(), eventbus.TopicSystemShutdown, map[string]string{"uptime": "1s"})
	require.Len(t, q.errs, 1)
	assert.ErrorContains(t, q.errs[0], "connection refused")
	assert.Zero(t, bus.Failures())
}

func TestDispatcher_UnencodablePayloadCountsAsHandlerFailure(t *testing.T) {
	d := NewDispatcher(&fakePublisher{}, &inlineQueue{}, "ch", nil)
	bus := eventbus.New()
	d.Attach(bus)

	bus.Publish(context.Background(), eventbus.TopicEventScheduled, make(chan int))
	assert.Equal(t, int64(1), bus.Failures())
}

func TestDispatcher_Detach(t *testing.T) {
	d := NewDispatcher(&fakePublisher{}, &inlineQueue{}, "ch", nil)
	bus := eventbus.New()
	d.Attach(bus)
	d.Detach()

	for _, topic := range Topics {
		assert.Zero(t, bus.SubscriberCount(topic), topic)
	}
}
