package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func TestInternshipStatus(t *testing.T) {
	cases := []struct {
		filled, total int
		status        InternshipStatus
	}{
		{0, 5, InternshipOpen},
		{4, 5, InternshipOpen},
		{5, 5, InternshipFull},
		{0, 0, InternshipFull},
	}
	for _, tc := range cases {
		in := &Internship{FilledSlots: tc.filled, TotalSlots: tc.total}
		assert.Equal(t, tc.status, in.Status(), "filled=%d total=%d", tc.filled, tc.total)
	}
}

func TestReserveSlot_TracksCategory(t *testing.T) {
	in := &Internship{ID: "i-1", TotalSlots: 2}
	require.NoError(t, in.ReserveSlot(CategorySC))
	assert.Equal(t, 1, in.FilledSlots)
	assert.Equal(t, 1, in.CategoryFilled[CategorySC])
}

func TestReserveSlot_FullLeavesStateUnchanged(t *testing.T) {
	in := &Internship{ID: "i-1", TotalSlots: 1, FilledSlots: 1}
	err := in.ReserveSlot(CategoryGeneral)
	require.Error(t, err)
	assert.Equal(t, 1, in.FilledSlots)
	assert.Empty(t, in.CategoryFilled)
}

func TestUnderRepresented(t *testing.T) {
	in := &Internship{
		CategoryQuota:  map[Category]int{CategoryST: 1, CategoryOBC: 2},
		CategoryFilled: map[Category]int{CategoryST: 1},
	}
	assert.False(t, in.UnderRepresented(CategoryST), "quota met")
	assert.True(t, in.UnderRepresented(CategoryOBC))
	assert.False(t, in.UnderRepresented(CategoryGeneral), "no quota reserved")
}

func TestInternshipValidate(t *testing.T) {
	valid := Internship{ID: "i-1", TotalSlots: 3, FilledSlots: 1, MinCGPA: 7}
	require.NoError(t, valid.Validate())

	overfilled := valid
	overfilled.FilledSlots = 4
	err := overfilled.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	badQuota := valid
	badQuota.CategoryQuota = map[Category]int{"martian": 1}
	assert.ErrorIs(t, badQuota.Validate(), ErrValidation)
}

func TestInternshipClone_DoesNotAlias(t *testing.T) {
	in := Internship{ID: "i-1", RequiredSkills: []string{"go"}, CategoryFilled: map[Category]int{CategorySC: 1}}
	cp := in.Clone()
	cp.RequiredSkills[0] = "rust"
	cp.CategoryFilled[CategorySC] = 5
	assert.Equal(t, "go", in.RequiredSkills[0])
	assert.Equal(t, 1, in.CategoryFilled[CategorySC])
}

func TestStudentValidate(t *testing.T) {
	s := Student{ID: "s-1", Academic: AcademicRecord{CGPA: 8.2}, Category: CategoryEWS}
	require.NoError(t, s.Validate())

	s.Academic.CGPA = 11
	assert.ErrorIs(t, s.Validate(), ErrValidation)

	s.Academic.CGPA = 8
	s.Category = "unknown"
	assert.ErrorIs(t, s.Validate(), ErrValidation)
}

func TestNotFoundError_Unwraps(t *testing.T) {
	err := NotFound("student", "s-9")
	assert.ErrorIs(t, err, ErrNotFound)
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "student", nf.Kind)
	assert.Equal(t, "s-9", nf.ID)
	assert.Contains(t, err.Error(), "s-9")
}
