package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/placement/internal/domain"
	"github.com/alexanderramin/placement/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressRepo_RoundTripKeepsMilestoneOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProgressRepo(db)
	ctx := context.Background()

	in := testutil.NewTestInternship("i1")
	done := testutil.BaseTime.Add(48 * time.Hour)
	rec := &domain.ProgressRecord{
		StudentID:     "s1",
		InternshipID:  "i1",
		CompletionPct: 35,
		Milestones:    domain.DefaultMilestones(&in, testutil.BaseTime),
		LastUpdated:   testutil.BaseTime,
		CreatedAt:     testutil.BaseTime,
	}
	rec.Milestones[0].Complete("good start", done)
	require.NoError(t, repo.Upsert(ctx, rec))

	fetched, err := repo.Get(ctx, "s1", "i1")
	require.NoError(t, err)
	assert.InDelta(t, 35.0, fetched.CompletionPct, 0.001)
	require.Len(t, fetched.Milestones, 3)
	assert.Equal(t, []string{"onboarding", "midterm", "final"},
		[]string{fetched.Milestones[0].ID, fetched.Milestones[1].ID, fetched.Milestones[2].ID})
	assert.True(t, fetched.Milestones[0].Completed)
	require.NotNil(t, fetched.Milestones[0].CompletedAt)
	assert.True(t, done.Equal(*fetched.Milestones[0].CompletedAt))
	assert.Equal(t, "good start", fetched.Milestones[0].Feedback)
	assert.Nil(t, fetched.Milestones[1].CompletedAt)
}

func TestProgressRepo_UpsertRewritesMilestones(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProgressRepo(db)
	ctx := context.Background()

	in := testutil.NewTestInternship("i1")
	rec := &domain.ProgressRecord{
		StudentID:    "s1",
		InternshipID: "i1",
		Milestones:   domain.DefaultMilestones(&in, testutil.BaseTime),
		LastUpdated:  testutil.BaseTime,
		CreatedAt:    testutil.BaseTime,
	}
	require.NoError(t, repo.Upsert(ctx, rec))

	rec.Milestones = rec.Milestones[:1]
	rec.CompletionPct = 80
	require.NoError(t, repo.Upsert(ctx, rec))

	fetched, err := repo.Get(ctx, "s1", "i1")
	require.NoError(t, err)
	assert.Len(t, fetched.Milestones, 1)
	assert.InDelta(t, 80.0, fetched.CompletionPct, 0.001)
}

func TestProgressRepo_Get_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProgressRepo(db)

	_, err := repo.Get(context.Background(), "s1", "i1")
	assert.ErrorIs(t, err, ErrNotFound)
}
