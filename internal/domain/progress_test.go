package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrFloat(f float64) *float64 { return &f }

func TestMilestoneComplete_Idempotent(t *testing.T) {
	m := &Milestone{ID: "m-1"}
	assert.True(t, m.Complete("great start", testNow))
	require.NotNil(t, m.CompletedAt)
	assert.Equal(t, "great start", m.Feedback)

	later := testNow.Add(time.Hour)
	assert.False(t, m.Complete("changed", later))
	assert.Equal(t, testNow, *m.CompletedAt, "should not overwrite CompletedAt")
	assert.Equal(t, "great start", m.Feedback, "should not overwrite feedback")
}

func TestMilestoneOverdueAt(t *testing.T) {
	m := &Milestone{DueDate: testNow}
	assert.False(t, m.OverdueAt(testNow), "due exactly now is not overdue")
	assert.True(t, m.OverdueAt(testNow.Add(time.Minute)))
	assert.False(t, (&Milestone{}).OverdueAt(testNow), "no due date never overdue")
}

func TestProgressApply_DeltaAndClamp(t *testing.T) {
	p := &ProgressRecord{CompletionPct: 90}
	p.Apply(ProgressPatch{DeltaPct: 25}, testNow)
	assert.Equal(t, 100.0, p.CompletionPct)
	assert.Equal(t, testNow, p.LastUpdated)

	p.Apply(ProgressPatch{DeltaPct: -150}, testNow)
	assert.Equal(t, 0.0, p.CompletionPct)
}

func TestProgressApply_AbsoluteWins(t *testing.T) {
	p := &ProgressRecord{CompletionPct: 10}
	p.Apply(ProgressPatch{CompletionPct: ptrFloat(40), DeltaPct: 5}, testNow)
	assert.Equal(t, 40.0, p.CompletionPct)
}

func TestProgressStagnantAt(t *testing.T) {
	p := &ProgressRecord{LastUpdated: testNow}
	threshold := 7 * 24 * time.Hour
	assert.False(t, p.StagnantAt(testNow.Add(threshold), threshold), "exactly at threshold is not stagnant")
	assert.True(t, p.StagnantAt(testNow.Add(threshold+time.Second), threshold))
	assert.False(t, p.StagnantAt(testNow.Add(1000*time.Hour), 0), "zero threshold disables detection")
}

func TestDefaultMilestones(t *testing.T) {
	in := &Internship{StartDate: testNow, DurationMonths: 2}
	ms := DefaultMilestones(in, testNow.AddDate(0, 1, 0))
	require.Len(t, ms, 3)
	assert.Equal(t, "onboarding", ms[0].ID)
	assert.Equal(t, testNow.AddDate(0, 0, 7), ms[0].DueDate)
	assert.True(t, ms[1].DueDate.After(ms[0].DueDate))
	assert.Equal(t, in.EndDate(), ms[2].DueDate)
}

func TestDefaultMilestones_NoStartDateUsesPlacementTime(t *testing.T) {
	in := &Internship{DurationMonths: 2}
	ms := DefaultMilestones(in, testNow)
	require.Len(t, ms, 3)
	assert.Equal(t, testNow.AddDate(0, 0, 7), ms[0].DueDate)
	assert.True(t, ms[1].DueDate.After(ms[0].DueDate) && ms[1].DueDate.Before(ms[2].DueDate))
	assert.Equal(t, testNow.AddDate(0, 2, 0), ms[2].DueDate)
	for _, m := range ms {
		assert.False(t, m.OverdueAt(testNow), "%s overdue at placement time", m.ID)
	}
}

func TestProgressClone_DoesNotAlias(t *testing.T) {
	p := ProgressRecord{Milestones: []Milestone{{ID: "a"}}}
	cp := p.Clone()
	cp.Milestones[0].Completed = true
	assert.False(t, p.Milestones[0].Completed)
}
