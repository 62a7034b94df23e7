package orchestrator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/placement/internal/config"
	"github.com/alexanderramin/placement/internal/domain"
	"github.com/alexanderramin/placement/internal/eventbus"
	"github.com/alexanderramin/placement/internal/testutil"
)

func newStarted(t *testing.T) (*Orchestrator, *testutil.FixedClock) {
	t.Helper()
	clock := testutil.NewFixedClock(testutil.BaseTime)
	o, err := New(config.DefaultConfig(), WithClock(clock.Now))
	require.NoError(t, err)
	require.NoError(t, o.Start(context.Background()))
	t.Cleanup(func() { _ = o.Shutdown(context.Background()) })
	return o, clock
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scoring.EligibilityThreshold = 150
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestLifecycle(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewFixedClock(testutil.BaseTime)
	o, err := New(config.DefaultConfig(), WithClock(clock.Now))
	require.NoError(t, err)

	assert.ErrorIs(t, o.AddStudent(ctx, testutil.NewTestStudent("s1")), domain.ErrSystemNotRunning)

	var topics []eventbus.Topic
	record := func(_ context.Context, msg eventbus.Message) error {
		topics = append(topics, msg.Topic)
		return nil
	}
	o.On(eventbus.TopicSystemInitialized, record)
	o.On(eventbus.TopicSystemShutdown, record)

	require.NoError(t, o.Start(ctx))
	require.NoError(t, o.Start(ctx))
	require.NoError(t, o.AddStudent(ctx, testutil.NewTestStudent("s1")))

	clock.Advance(time.Minute)
	status, err := o.GetSystemStatus()
	require.NoError(t, err)
	assert.True(t, status.Running)
	assert.Equal(t, time.Minute, status.Uptime)
	assert.Len(t, status.Agents, 3)

	require.NoError(t, o.Shutdown(ctx))
	require.NoError(t, o.Shutdown(ctx))
	assert.Equal(t, []eventbus.Topic{eventbus.TopicSystemInitialized, eventbus.TopicSystemShutdown}, topics)

	assert.ErrorIs(t, o.AddStudent(ctx, testutil.NewTestStudent("s2")), domain.ErrSystemNotRunning)
	_, err = o.GetMatchesForStudent(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSystemNotRunning)
	_, err = o.GetSystemMetrics()
	assert.ErrorIs(t, err, domain.ErrSystemNotRunning)
	_, err = o.GetSystemStatus()
	assert.ErrorIs(t, err, domain.ErrSystemNotRunning)
	assert.ErrorIs(t, o.Start(ctx), domain.ErrSystemNotRunning)
	assert.Zero(t, o.Bus().SubscriberCount(eventbus.TopicApplicationSubmitted))
}

func TestShutdown_WaitsForInFlightCalls(t *testing.T) {
	ctx := context.Background()
	o, _ := newStarted(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	o.On(eventbus.TopicStudentAdded, func(context.Context, eventbus.Message) error {
		close(entered)
		<-release
		return nil
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, o.AddStudent(ctx, testutil.NewTestStudent("s1")))
	}()
	<-entered

	stopped := make(chan struct{})
	go func() {
		_ = o.Shutdown(ctx)
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("shutdown returned while a call was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	wg.Wait()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not finish")
	}
}

func TestExternalEventsRepublished(t *testing.T) {
	ctx := context.Background()
	o, _ := newStarted(t)

	var matches []eventbus.MatchesGenerated
	var apps []eventbus.ApplicationSubmitted
	o.On(eventbus.TopicSystemMatchesGenerated, func(_ context.Context, msg eventbus.Message) error {
		matches = append(matches, msg.Payload.(eventbus.MatchesGenerated))
		return nil
	})
	o.On(eventbus.TopicSystemApplicationSubmitted, func(_ context.Context, msg eventbus.Message) error {
		apps = append(apps, msg.Payload.(eventbus.ApplicationSubmitted))
		return nil
	})

	require.NoError(t, o.AddStudent(ctx, testutil.NewTestStudent("s1")))
	require.NoError(t, o.AddInternship(ctx, testutil.NewTestInternship("i1")))
	got, err := o.GetMatchesForStudent(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 1)

	ok, err := o.SubmitApplication(ctx, "s1", "i1")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, []eventbus.MatchesGenerated{{StudentID: "s1", MatchCount: 1}}, matches)
	require.Len(t, apps, 1)
	assert.Equal(t, "s1", apps[0].StudentID)
	assert.Equal(t, "i1", apps[0].InternshipID)

	rec, err := o.GetProgress("s1", "i1")
	require.NoError(t, err)
	assert.Len(t, rec.Milestones, 3)
}

func TestGetSystemMetrics(t *testing.T) {
	ctx := context.Background()
	o, _ := newStarted(t)

	require.NoError(t, o.AddStudent(ctx, testutil.NewTestStudent("s1")))
	require.NoError(t, o.AddStudent(ctx, testutil.NewTestStudent("s2")))
	require.NoError(t, o.AddInternship(ctx, testutil.NewTestInternship("i1", testutil.WithSlots(1, 0))))
	require.NoError(t, o.AddInternship(ctx, testutil.NewTestInternship("i2", testutil.WithSlots(3, 0))))
	_, err := o.GetMatchesForStudent(ctx, "s1")
	require.NoError(t, err)

	ok, err := o.SubmitApplication(ctx, "s1", "i1")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = o.SubmitApplication(ctx, "s2", "i1")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, o.AddResource(ctx, testutil.NewTestResource("hall", 1)))
	res, err := o.ScheduleEvent(ctx, domain.EventSpec{
		Title: "orientation", Start: testutil.BaseTime.Add(time.Hour), End: testutil.BaseTime.Add(2 * time.Hour),
		ResourceIDs: []string{"hall"},
	})
	require.NoError(t, err)
	require.True(t, res.Scheduled)

	m, err := o.GetSystemMetrics()
	require.NoError(t, err)
	assert.Equal(t, 2, m.Students)
	assert.Equal(t, 2, m.Internships)
	assert.Equal(t, 1, m.OpenInternships)
	assert.Equal(t, 1, m.FullInternships)
	assert.Equal(t, 4, m.TotalSlots)
	assert.Equal(t, 1, m.FilledSlots)
	assert.Equal(t, int64(2), m.MatchesGenerated)
	assert.Equal(t, int64(1), m.Applications)
	assert.Equal(t, int64(1), m.RejectedApplications)
	assert.Equal(t, 1, m.Placements)
	assert.Equal(t, 1, m.ScheduledEvents)
	assert.Equal(t, 1, m.Resources)
	assert.Zero(t, m.BusFailures)
}

func TestGetDetailedAnalytics(t *testing.T) {
	ctx := context.Background()
	o, clock := newStarted(t)

	require.NoError(t, o.AddStudent(ctx, testutil.NewTestStudent("s1")))
	require.NoError(t, o.AddStudent(ctx, testutil.NewTestStudent("s2", testutil.WithCategory(domain.CategorySC))))
	require.NoError(t, o.AddInternship(ctx, testutil.NewTestInternship("i1", testutil.WithDomain("software"), testutil.WithSlots(2, 0))))
	require.NoError(t, o.AddInternship(ctx, testutil.NewTestInternship("i2", testutil.WithDomain("data"), testutil.WithSlots(4, 0))))

	for _, sid := range []string{"s1", "s2"} {
		ok, err := o.SubmitApplication(ctx, sid, "i1")
		require.NoError(t, err)
		require.True(t, ok)
	}

	// Halfway through a three month internship: s1 keeps pace, s2 does not.
	clock.Advance(45 * 24 * time.Hour)
	half := 50.0
	_, err := o.UpdateProgress(ctx, "s1", "i1", domain.ProgressPatch{CompletionPct: &half})
	require.NoError(t, err)
	require.NoError(t, o.CompleteMilestone(ctx, "s1", "i1", "onboarding", "late but done"))
	_, err = o.SubmitFeedback(ctx, domain.Feedback{
		AuthorID: "s1", TargetKind: domain.TargetInternship, TargetID: "i1", Rating: 4,
	})
	require.NoError(t, err)

	a, err := o.GetDetailedAnalytics()
	require.NoError(t, err)
	assert.Equal(t, 1, a.CategoryDistribution[domain.CategoryGeneral])
	assert.Equal(t, 1, a.CategoryDistribution[domain.CategorySC])
	assert.Equal(t, 1, a.PlacedByCategory[domain.CategorySC])

	require.Len(t, a.FillByDomain, 2)
	assert.Equal(t, "data", a.FillByDomain[0].Domain)
	assert.Zero(t, a.FillByDomain[0].FillRatePct)
	assert.Equal(t, "software", a.FillByDomain[1].Domain)
	assert.Equal(t, 100.0, a.FillByDomain[1].FillRatePct)

	assert.Equal(t, 4, a.ScoredMatches)
	assert.InDelta(t, 93.75, a.AverageMatchScore, 0.001)

	require.Len(t, a.Placements, 2)
	assert.Equal(t, domain.RiskOnTrack, a.Placements[0].RiskLevel)
	assert.Equal(t, domain.RiskCritical, a.Placements[1].RiskLevel)
	assert.Equal(t, 1, a.RiskCounts[domain.RiskOnTrack])
	assert.Equal(t, 1, a.RiskCounts[domain.RiskCritical])

	assert.Equal(t, 1, a.AlertsByReason[domain.ReasonStagnantProgress])
	assert.Equal(t, 1, a.AlertsByReason[domain.ReasonMilestoneOverdue])
	assert.Equal(t, 1, a.AlertsBySeverity[domain.SeverityMedium])
	assert.Equal(t, 1, a.AlertsBySeverity[domain.SeverityHigh])
	assert.Equal(t, 4.0, a.AverageRating)
}

func TestRunDemo_Deterministic(t *testing.T) {
	ctx := context.Background()
	first, _ := newStarted(t)
	second, _ := newStarted(t)

	r1, err := first.RunDemo(ctx)
	require.NoError(t, err)
	r2, err := second.RunDemo(ctx)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)

	assert.Equal(t, 6, r1.Students)
	assert.Equal(t, 5, r1.Internships)
	assert.Equal(t, 5, r1.Placed)
	assert.Equal(t, 1, r1.Rejected)
	assert.Equal(t, 4, r1.EventsScheduled)
	assert.Equal(t, 1, r1.EventsRejected)
	assert.Equal(t, 2, r1.ActiveAlerts)

	alerts, err := first.GetActiveAlerts("demo-lab")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.ReasonResourceContention, alerts[0].Reason)

	a, err := first.GetDetailedAnalytics()
	require.NoError(t, err)
	assert.Len(t, a.Placements, 5)
	assert.Len(t, a.Resources, 2)
}
