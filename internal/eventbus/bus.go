// Package eventbus is an in-process, synchronous publish/subscribe channel.
// Handlers run on the publisher's goroutine in subscription order. A handler
// that returns an error or panics is logged and skipped; it never stops
// delivery to the remaining handlers and never reaches the publisher.
package eventbus

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Message is what handlers receive.
type Message struct {
	Topic       Topic
	Payload     any
	PublishedAt time.Time
}

type Handler func(ctx context.Context, msg Message) error

type subscriber struct {
	id      uint64
	handler Handler
}

// Subscription is returned by Subscribe and used to tear the handler down.
type Subscription struct {
	bus   *Bus
	topic Topic
	id    uint64
	once  sync.Once
}

func (s *Subscription) Unsubscribe() {
	s.once.Do(func() { s.bus.remove(s.topic, s.id) })
}

type Bus struct {
	mu       sync.RWMutex
	subs     map[Topic][]subscriber
	nextID   uint64
	closed   bool
	logger   *slog.Logger
	now      func() time.Time
	failures atomic.Int64
}

type Option func(*Bus)

func WithLogger(l *slog.Logger) Option {
	return func(b *Bus) {
		if l != nil {
			b.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(b *Bus) {
		if now != nil {
			b.now = now
		}
	}
}

func New(opts ...Option) *Bus {
	b := &Bus{
		subs:   make(map[Topic][]subscriber),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers h for every future publish on topic. Subscribing to a
// closed bus returns an inert subscription.
func (b *Bus) Subscribe(topic Topic, h Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	sub := &Subscription{bus: b, topic: topic, id: b.nextID}
	if b.closed {
		return sub
	}
	b.subs[topic] = append(b.subs[topic], subscriber{id: sub.id, handler: h})
	return sub
}

func (b *Bus) remove(topic Topic, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.subs[topic]
	for i, s := range list {
		if s.id == id {
			next := make([]subscriber, 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			b.subs[topic] = next
			return
		}
	}
}

// Publish delivers payload to a snapshot of the topic's subscribers.
func (b *Bus) Publish(ctx context.Context, topic Topic, payload any) {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return
	}
	handlers := b.subs[topic]
	b.mu.RUnlock()

	msg := Message{Topic: topic, Payload: payload, PublishedAt: b.now()}
	for _, s := range handlers {
		if err := b.deliver(ctx, s.handler, msg); err != nil {
			b.failures.Add(1)
			b.logger.WarnContext(ctx, "event handler failed",
				"topic", string(topic),
				"subscriber", s.id,
				"error", err.Error(),
			)
		}
	}
}

func (b *Bus) deliver(ctx context.Context, h Handler, msg Message) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("handler panic: %v", p)
		}
	}()
	return h(ctx, msg)
}

func (b *Bus) SubscriberCount(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

// Failures counts handler errors and panics since the bus was created.
func (b *Bus) Failures() int64 {
	return b.failures.Load()
}

// Close drops every subscription. Later publishes are ignored.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subs = make(map[Topic][]subscriber)
}
