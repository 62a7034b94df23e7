// Package notify forwards alerts, scheduling changes and lifecycle events to
// an external channel.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/placement/internal/eventbus"
	"github.com/alexanderramin/placement/internal/taskqueue"
)

// Publisher sends one encoded message to a named channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, message []byte) error
}

type Enqueuer interface {
	Enqueue(t taskqueue.Task) bool
}

// Envelope is the wire form of a notification.
type Envelope struct {
	Topic       string    `json:"topic"`
	PublishedAt time.Time `json:"published_at"`
	Payload     any       `json:"payload"`
}

// Topics lists what the dispatcher forwards.
var Topics = []eventbus.Topic{
	eventbus.TopicAlertRaised,
	eventbus.TopicAlertResolved,
	eventbus.TopicEventScheduled,
	eventbus.TopicEventCancelled,
	eventbus.TopicSystemInitialized,
	eventbus.TopicSystemMatchesGenerated,
	eventbus.TopicSystemApplicationSubmitted,
	eventbus.TopicSystemShutdown,
}

type Dispatcher struct {
	pub     Publisher
	queue   Enqueuer
	channel string
	timeout time.Duration
	logger  *slog.Logger
	subs    []*eventbus.Subscription
}

func NewDispatcher(pub Publisher, queue Enqueuer, channel string, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{
		pub:     pub,
		queue:   queue,
		channel: channel,
		timeout: 2 * time.Second,
		logger:  logger,
	}
}

func (d *Dispatcher) Attach(bus *eventbus.Bus) {
	for _, topic := range Topics {
		d.subs = append(d.subs, bus.Subscribe(topic, d.handle))
	}
}

func (d *Dispatcher) Detach() {
	for _, s := range d.subs {
		s.Unsubscribe()
	}
	d.subs = nil
}

// handle encodes on the publisher's goroutine so the payload snapshot is
// captured before the call returns, then hands delivery to the queue.
func (d *Dispatcher) handle(_ context.Context, msg eventbus.Message) error {
	body, err := json.Marshal(Envelope{
		Topic:       string(msg.Topic),
		PublishedAt: msg.PublishedAt.UTC(),
		Payload:     msg.Payload,
	})
	if err != nil {
		return fmt.Errorf("encoding %s notification: %w", msg.Topic, err)
	}
	ok := d.queue.Enqueue(taskqueue.Task{
		Name: "notify:" + string(msg.Topic),
		Run: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, d.timeout)
			defer cancel()
			if err := d.pub.Publish(ctx, d.channel, body); err != nil {
				return fmt.Errorf("publishing %s: %w", msg.Topic, err)
			}
			return nil
		},
	})
	if !ok {
		d.logger.Warn("notification dropped", "topic", string(msg.Topic))
	}
	return nil
}
