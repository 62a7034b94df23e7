package eventbus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish_DeliversInSubscriptionOrder(t *testing.T) {
	bus := New()
	var got []string
	bus.Subscribe(TopicStudentAdded, func(_ context.Context, m Message) error {
		got = append(got, "first:"+m.Payload.(string))
		return nil
	})
	bus.Subscribe(TopicStudentAdded, func(_ context.Context, m Message) error {
		got = append(got, "second:"+m.Payload.(string))
		return nil
	})
	bus.Subscribe(TopicAlertRaised, func(context.Context, Message) error {
		got = append(got, "other topic")
		return nil
	})

	bus.Publish(context.Background(), TopicStudentAdded, "s-1")

	assert.Equal(t, []string{"first:s-1", "second:s-1"}, got)
}

func TestPublish_FailingHandlerIsIsolated(t *testing.T) {
	bus := New()
	delivered := 0
	bus.Subscribe(TopicAlertRaised, func(context.Context, Message) error {
		return errors.New("boom")
	})
	bus.Subscribe(TopicAlertRaised, func(context.Context, Message) error {
		panic("handler exploded")
	})
	bus.Subscribe(TopicAlertRaised, func(context.Context, Message) error {
		delivered++
		return nil
	})

	require.NotPanics(t, func() {
		bus.Publish(context.Background(), TopicAlertRaised, nil)
	})
	assert.Equal(t, 1, delivered, "handlers after a failure still receive the message")
	assert.Equal(t, int64(2), bus.Failures())
}

func TestUnsubscribe_StopsDelivery(t *testing.T) {
	bus := New()
	count := 0
	sub := bus.Subscribe(TopicEventScheduled, func(context.Context, Message) error {
		count++
		return nil
	})

	bus.Publish(context.Background(), TopicEventScheduled, nil)
	sub.Unsubscribe()
	sub.Unsubscribe()
	bus.Publish(context.Background(), TopicEventScheduled, nil)

	assert.Equal(t, 1, count)
	assert.Equal(t, 0, bus.SubscriberCount(TopicEventScheduled))
}

func TestUnsubscribe_DuringPublishDoesNotSkipOthers(t *testing.T) {
	bus := New()
	var order []int
	var sub *Subscription
	sub = bus.Subscribe(TopicProgressUpdated, func(context.Context, Message) error {
		order = append(order, 1)
		sub.Unsubscribe()
		return nil
	})
	bus.Subscribe(TopicProgressUpdated, func(context.Context, Message) error {
		order = append(order, 2)
		return nil
	})

	bus.Publish(context.Background(), TopicProgressUpdated, nil)
	bus.Publish(context.Background(), TopicProgressUpdated, nil)

	assert.Equal(t, []int{1, 2, 2}, order)
}

func TestClose_DropsSubscribers(t *testing.T) {
	bus := New()
	count := 0
	bus.Subscribe(TopicStudentAdded, func(context.Context, Message) error {
		count++
		return nil
	})

	bus.Close()
	bus.Publish(context.Background(), TopicStudentAdded, nil)
	bus.Subscribe(TopicStudentAdded, func(context.Context, Message) error {
		count++
		return nil
	})
	bus.Publish(context.Background(), TopicStudentAdded, nil)

	assert.Equal(t, 0, count)
	assert.Equal(t, 0, bus.SubscriberCount(TopicStudentAdded))
}
