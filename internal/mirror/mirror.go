// Package mirror copies bus snapshots into SQLite. Writes happen on the task
// queue, so the in-memory agents never wait on the database and a failed
// write never affects the operation that produced the snapshot.
package mirror

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/alexanderramin/placement/internal/agent"
	"github.com/alexanderramin/placement/internal/db"
	"github.com/alexanderramin/placement/internal/domain"
	"github.com/alexanderramin/placement/internal/eventbus"
	"github.com/alexanderramin/placement/internal/repository"
	"github.com/alexanderramin/placement/internal/taskqueue"
)

// Enqueuer is satisfied by *taskqueue.Queue.
type Enqueuer interface {
	Enqueue(t taskqueue.Task) bool
}

type Mirror struct {
	uow    db.UnitOfWork
	queue  Enqueuer
	logger *slog.Logger
	subs   []*eventbus.Subscription
}

func New(uow db.UnitOfWork, queue Enqueuer, logger *slog.Logger) *Mirror {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Mirror{uow: uow, queue: queue, logger: logger}
}

type writeFunc func(ctx context.Context, tx db.DBTX, payload any) error

// Attach subscribes the mirror to every topic that carries state.
func (m *Mirror) Attach(bus *eventbus.Bus) {
	routes := map[eventbus.Topic]writeFunc{
		eventbus.TopicStudentAdded:         writeStudent,
		eventbus.TopicInternshipAdded:      writeInternship,
		eventbus.TopicApplicationSubmitted: writeApplication,
		eventbus.TopicProgressUpdated:      writeProgress,
		eventbus.TopicMilestoneCompleted:   writeProgress,
		eventbus.TopicFeedbackSubmitted:    writeFeedback,
		eventbus.TopicEventScheduled:       writeEvent,
		eventbus.TopicEventCancelled:       writeEvent,
		eventbus.TopicResourceAdded:        writeResource,
		eventbus.TopicAlertRaised:          writeAlert,
		eventbus.TopicAlertResolved:        writeAlert,
	}
	for topic, write := range routes {
		m.subs = append(m.subs, bus.Subscribe(topic, m.handler(write)))
	}
}

func (m *Mirror) Detach() {
	for _, s := range m.subs {
		s.Unsubscribe()
	}
	m.subs = nil
}

func (m *Mirror) handler(write writeFunc) eventbus.Handler {
	return func(_ context.Context, msg eventbus.Message) error {
		topic := msg.Topic
		payload := msg.Payload
		ok := m.queue.Enqueue(taskqueue.Task{
			Name: "mirror:" + string(topic),
			Run: func(ctx context.Context) error {
				return m.apply(ctx, write, payload)
			},
		})
		if !ok {
			m.logger.Warn("mirror write skipped", "topic", string(topic))
		}
		return nil
	}
}

// apply runs one write inside a transaction.
func (m *Mirror) apply(ctx context.Context, write writeFunc, payload any) error {
	return m.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return write(ctx, tx, payload)
	})
}

func unexpected(payload any) error {
	return fmt.Errorf("mirror: unexpected payload %T", payload)
}

func writeStudent(ctx context.Context, tx db.DBTX, payload any) error {
	s, ok := payload.(domain.Student)
	if !ok {
		return unexpected(payload)
	}
	return repository.NewSQLiteStudentRepo(tx).Upsert(ctx, &s)
}

func writeInternship(ctx context.Context, tx db.DBTX, payload any) error {
	in, ok := payload.(domain.Internship)
	if !ok {
		return unexpected(payload)
	}
	return repository.NewSQLiteInternshipRepo(tx).Upsert(ctx, &in)
}

// writeApplication stores the placement and the listing's new slot counts
// together.
func writeApplication(ctx context.Context, tx db.DBTX, payload any) error {
	rec, ok := payload.(agent.ApplicationRecorded)
	if !ok {
		return unexpected(payload)
	}
	if err := repository.NewSQLitePlacementRepo(tx).Upsert(ctx, &rec.Placement); err != nil {
		return err
	}
	return repository.NewSQLiteInternshipRepo(tx).Upsert(ctx, &rec.Internship)
}

func writeProgress(ctx context.Context, tx db.DBTX, payload any) error {
	upd, ok := payload.(agent.ProgressUpdated)
	if !ok {
		return unexpected(payload)
	}
	return repository.NewSQLiteProgressRepo(tx).Upsert(ctx, &upd.Record)
}

func writeFeedback(ctx context.Context, tx db.DBTX, payload any) error {
	fb, ok := payload.(domain.Feedback)
	if !ok {
		return unexpected(payload)
	}
	return repository.NewSQLiteFeedbackRepo(tx).Insert(ctx, &fb)
}

func writeEvent(ctx context.Context, tx db.DBTX, payload any) error {
	e, ok := payload.(domain.Event)
	if !ok {
		return unexpected(payload)
	}
	if err := repository.NewSQLiteEventRepo(tx).Upsert(ctx, &e); err != nil {
		return err
	}
	resources := repository.NewSQLiteResourceRepo(tx)
	if e.Status == domain.EventCancelled {
		return resources.ReleaseEvent(ctx, e.ID)
	}
	for _, rid := range e.ResourceIDs {
		b := domain.Booking{EventID: e.ID, Start: e.Start, End: e.End}
		if err := resources.Book(ctx, rid, b); err != nil {
			return err
		}
	}
	return nil
}

func writeResource(ctx context.Context, tx db.DBTX, payload any) error {
	r, ok := payload.(domain.Resource)
	if !ok {
		return unexpected(payload)
	}
	return repository.NewSQLiteResourceRepo(tx).Upsert(ctx, &r)
}

func writeAlert(ctx context.Context, tx db.DBTX, payload any) error {
	a, ok := payload.(domain.Alert)
	if !ok {
		return unexpected(payload)
	}
	return repository.NewSQLiteAlertRepo(tx).Upsert(ctx, &a)
}
