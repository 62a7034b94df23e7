package mirror

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/placement/internal/agent"
	"github.com/alexanderramin/placement/internal/domain"
	"github.com/alexanderramin/placement/internal/eventbus"
	"github.com/alexanderramin/placement/internal/repository"
	"github.com/alexanderramin/placement/internal/taskqueue"
	"github.com/alexanderramin/placement/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inlineQueue runs tasks on the publisher's goroutine.
type inlineQueue struct {
	errs []error
	full bool
}

func (q *inlineQueue) Enqueue(t taskqueue.Task) bool {
	if q.full {
		return false
	}
	q.errs = append(q.errs, t.Run(context.Background()))
	return true
}

func TestMirror_WritesSnapshotsFromBus(t *testing.T) {
	database := testutil.NewTestDB(t)
	q := &inlineQueue{}
	m := New(testutil.NewTestUoW(database), q, nil)
	bus := eventbus.New()
	m.Attach(bus)
	ctx := context.Background()

	s := testutil.NewTestStudent("s1")
	in := testutil.NewTestInternship("i1", testutil.WithSlots(2, 1))
	bus.Publish(ctx, eventbus.TopicStudentAdded, s.Clone())
	bus.Publish(ctx, eventbus.TopicApplicationSubmitted, agent.ApplicationRecorded{
		Placement:  domain.Placement{StudentID: "s1", InternshipID: "i1", Score: 90, AppliedAt: testutil.BaseTime},
		Internship: in.Clone(),
	})
	for _, err := range q.errs {
		require.NoError(t, err)
	}

	gotStudent, err := repository.NewSQLiteStudentRepo(database).GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, s.Name, gotStudent.Name)

	gotListing, err := repository.NewSQLiteInternshipRepo(database).GetByID(ctx, "i1")
	require.NoError(t, err)
	assert.Equal(t, 1, gotListing.FilledSlots)

	placements, err := repository.NewSQLitePlacementRepo(database).ListByStudent(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, placements, 1)
}

func TestMirror_EventLifecycleMaintainsBookings(t *testing.T) {
	database := testutil.NewTestDB(t)
	q := &inlineQueue{}
	m := New(testutil.NewTestUoW(database), q, nil)
	bus := eventbus.New()
	m.Attach(bus)
	ctx := context.Background()

	bus.Publish(ctx, eventbus.TopicResourceAdded, testutil.NewTestResource("room-a", 1))
	e := domain.Event{
		ID:          "e1",
		Start:       testutil.BaseTime,
		End:         testutil.BaseTime.Add(time.Hour),
		ResourceIDs: []string{"room-a"},
		Status:      domain.EventScheduled,
		CreatedAt:   testutil.BaseTime,
	}
	bus.Publish(ctx, eventbus.TopicEventScheduled, e)

	resources := repository.NewSQLiteResourceRepo(database)
	res, err := resources.GetByID(ctx, "room-a")
	require.NoError(t, err)
	require.Len(t, res.Bookings, 1)

	e.Status = domain.EventCancelled
	bus.Publish(ctx, eventbus.TopicEventCancelled, e)

	res, err = resources.GetByID(ctx, "room-a")
	require.NoError(t, err)
	assert.Empty(t, res.Bookings)
	stored, err := repository.NewSQLiteEventRepo(database).GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, domain.EventCancelled, stored.Status)
	for _, err := range q.errs {
		require.NoError(t, err)
	}
}

func TestMirror_FailedWriteRollsBackWholeSnapshot(t *testing.T) {
	database := testutil.NewTestDB(t)
	injected := errors.New("disk full")
	q := &inlineQueue{}
	// Second exec is the internship upsert after the placement insert.
	uow := &testutil.FailOnNthExecUoW{DB: database, FailOn: 2, Err: injected}
	m := New(uow, q, nil)
	bus := eventbus.New()
	m.Attach(bus)
	ctx := context.Background()

	bus.Publish(ctx, eventbus.TopicApplicationSubmitted, agent.ApplicationRecorded{
		Placement:  domain.Placement{StudentID: "s1", InternshipID: "i1", Score: 90, AppliedAt: testutil.BaseTime},
		Internship: testutil.NewTestInternship("i1"),
	})

	require.Len(t, q.errs, 1)
	assert.ErrorIs(t, q.errs[0], injected)
	placements, err := repository.NewSQLitePlacementRepo(database).ListByStudent(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, placements)
	assert.Zero(t, testutil.CountRows(t, database, "internships"))
	assert.EqualValues(t, 2, uow.Writes())
	assert.Zero(t, bus.Failures(), "mirror failures stay off the bus")
}

func TestMirror_ForeignPayloadIsAnError(t *testing.T) {
	database := testutil.NewTestDB(t)
	q := &inlineQueue{}
	m := New(testutil.NewTestUoW(database), q, nil)
	bus := eventbus.New()
	m.Attach(bus)

	bus.Publish(context.Background(), eventbus.TopicAlertRaised, "not an alert")
	require.Len(t, q.errs, 1)
	assert.Error(t, q.errs[0])
}

func TestMirror_FullQueueSkipsWrite(t *testing.T) {
	database := testutil.NewTestDB(t)
	m := New(testutil.NewTestUoW(database), &inlineQueue{full: true}, nil)
	bus := eventbus.New()
	m.Attach(bus)
	ctx := context.Background()

	bus.Publish(ctx, eventbus.TopicStudentAdded, testutil.NewTestStudent("s1"))
	assert.Zero(t, testutil.CountRows(t, database, "students"))
}

func TestMirror_DetachStopsWrites(t *testing.T) {
	database := testutil.NewTestDB(t)
	q := &inlineQueue{}
	m := New(testutil.NewTestUoW(database), q, nil)
	bus := eventbus.New()
	m.Attach(bus)
	m.Detach()

	bus.Publish(context.Background(), eventbus.TopicStudentAdded, testutil.NewTestStudent("s1"))
	assert.Empty(t, q.errs)
	assert.Zero(t, bus.SubscriberCount(eventbus.TopicStudentAdded))
}

func TestMirror_WithTaskQueue(t *testing.T) {
	database := testutil.NewTestDB(t)
	queue := taskqueue.New(16, 1, nil)
	m := New(testutil.NewTestUoW(database), queue, nil)
	bus := eventbus.New()
	m.Attach(bus)
	ctx := context.Background()

	for _, id := range []string{"s1", "s2", "s3"} {
		bus.Publish(ctx, eventbus.TopicStudentAdded, testutil.NewTestStudent(id))
	}
	closeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, queue.Close(closeCtx))

	all, err := repository.NewSQLiteStudentRepo(database).List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, int64(3), queue.Stats().Completed)
}
