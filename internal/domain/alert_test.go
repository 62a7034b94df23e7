package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertResolve_Idempotent(t *testing.T) {
	a := &Alert{ID: "a-1", Status: AlertActive}
	assert.True(t, a.Resolve(testNow))
	require.NotNil(t, a.ResolvedAt)

	assert.False(t, a.Resolve(testNow.Add(time.Hour)))
	assert.Equal(t, testNow, *a.ResolvedAt, "second resolve keeps the first timestamp")
	assert.Equal(t, AlertResolved, a.Status)
}

func TestAlertConcerns(t *testing.T) {
	a := &Alert{TargetID: "s-1", StudentID: "s-1", InternshipID: "i-1"}
	assert.True(t, a.Concerns(""))
	assert.True(t, a.Concerns("s-1"))
	assert.True(t, a.Concerns("i-1"))
	assert.False(t, a.Concerns("e-1"))
}

func TestEventSpecValidate(t *testing.T) {
	spec := EventSpec{Start: testNow, End: testNow}
	assert.ErrorIs(t, spec.Validate(), ErrValidation, "empty window")

	spec.End = testNow.Add(time.Hour)
	assert.NoError(t, spec.Validate())
}

func TestResourceRelease(t *testing.T) {
	r := &Resource{ID: "r-1", Capacity: 1, Bookings: []Booking{{EventID: "e-1"}, {EventID: "e-2"}}}
	assert.True(t, r.Release("e-1"))
	assert.False(t, r.Release("e-1"))
	require.Len(t, r.Bookings, 1)
	assert.Equal(t, "e-2", r.Bookings[0].EventID)
}

func TestFeedbackValidate(t *testing.T) {
	f := Feedback{TargetKind: TargetStudent, TargetID: "s-1", Rating: 4}
	require.NoError(t, f.Validate())

	f.Rating = 6
	assert.ErrorIs(t, f.Validate(), ErrValidation)

	f.Rating = 3
	f.TargetKind = TargetResource
	assert.ErrorIs(t, f.Validate(), ErrValidation)
}
