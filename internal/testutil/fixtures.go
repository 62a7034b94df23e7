package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/placement/internal/domain"
)

var testIDCounter atomic.Int64

// BaseTime anchors fixture timelines so tests stay deterministic.
var BaseTime = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

// FixedClock returns a clock pinned to t. Advance moves it forward.
type FixedClock struct {
	now atomic.Int64
}

func NewFixedClock(t time.Time) *FixedClock {
	c := &FixedClock{}
	c.now.Store(t.UnixNano())
	return c
}

func (c *FixedClock) Now() time.Time {
	return time.Unix(0, c.now.Load()).UTC()
}

func (c *FixedClock) Advance(d time.Duration) {
	c.now.Add(int64(d))
}

func nextID(prefix string) string {
	return fmt.Sprintf("%s-%03d", prefix, testIDCounter.Add(1))
}

// Student options
type StudentOption func(*domain.Student)

func WithSkills(skills ...string) StudentOption {
	return func(s *domain.Student) {
		s.Skills = skills
	}
}

func WithCGPA(cgpa float64) StudentOption {
	return func(s *domain.Student) {
		s.Academic.CGPA = cgpa
	}
}

func WithDegree(degree string) StudentOption {
	return func(s *domain.Student) {
		s.Academic.Degree = degree
	}
}

func WithCategory(c domain.Category) StudentOption {
	return func(s *domain.Student) {
		s.Category = c
	}
}

func WithExperience(exp ...string) StudentOption {
	return func(s *domain.Student) {
		s.Experience = exp
	}
}

func WithPreferredLocations(locs ...string) StudentOption {
	return func(s *domain.Student) {
		s.PreferredLocations = locs
	}
}

// NewTestStudent builds a valid student. An empty id gets a generated one.
func NewTestStudent(id string, opts ...StudentOption) domain.Student {
	if id == "" {
		id = nextID("stu")
	}
	s := domain.Student{
		ID:     id,
		Name:   "Student " + id,
		Email:  id + "@example.edu",
		Skills: []string{"Go", "SQL"},
		Academic: domain.AcademicRecord{
			Degree:      "B.Tech",
			CGPA:        8.0,
			Year:        3,
			Institution: "Test Institute",
		},
		Category:           domain.CategoryGeneral,
		PreferredLocations: []string{"Bangalore"},
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Internship options
type InternshipOption func(*domain.Internship)

func WithRequiredSkills(skills ...string) InternshipOption {
	return func(i *domain.Internship) {
		i.RequiredSkills = skills
	}
}

func WithMinCGPA(min float64) InternshipOption {
	return func(i *domain.Internship) {
		i.MinCGPA = min
	}
}

func WithAllowedDegrees(degrees ...string) InternshipOption {
	return func(i *domain.Internship) {
		i.AllowedDegrees = degrees
	}
}

func WithSlots(total, filled int) InternshipOption {
	return func(i *domain.Internship) {
		i.TotalSlots = total
		i.FilledSlots = filled
	}
}

func WithLocation(loc string) InternshipOption {
	return func(i *domain.Internship) {
		i.Location = loc
	}
}

func WithDomain(d string) InternshipOption {
	return func(i *domain.Internship) {
		i.Domain = d
	}
}

func WithDeadline(d time.Time) InternshipOption {
	return func(i *domain.Internship) {
		i.ApplicationDeadline = d
	}
}

func WithStartDate(d time.Time, months int) InternshipOption {
	return func(i *domain.Internship) {
		i.StartDate = d
		i.DurationMonths = months
	}
}

func WithCategoryQuota(c domain.Category, n int) InternshipOption {
	return func(i *domain.Internship) {
		if i.CategoryQuota == nil {
			i.CategoryQuota = make(map[domain.Category]int)
		}
		i.CategoryQuota[c] = n
	}
}

// NewTestInternship builds a valid open listing in Bangalore requiring Go and
// SQL. An empty id gets a generated one.
func NewTestInternship(id string, opts ...InternshipOption) domain.Internship {
	if id == "" {
		id = nextID("int")
	}
	in := domain.Internship{
		ID:                  id,
		Title:               "Backend Intern " + id,
		Company:             "Acme",
		Domain:              "software",
		Location:            "Bangalore",
		DurationMonths:      3,
		Stipend:             20000,
		StartDate:           BaseTime,
		ApplicationDeadline: BaseTime.AddDate(0, 0, -14),
		RequiredSkills:      []string{"Go", "SQL"},
		MinCGPA:             6.0,
		TotalSlots:          2,
	}
	for _, opt := range opts {
		opt(&in)
	}
	return in
}

// NewTestResource builds a room with the given capacity.
func NewTestResource(id string, capacity int) domain.Resource {
	return domain.Resource{ID: id, Name: "Room " + id, Kind: "room", Capacity: capacity}
}
