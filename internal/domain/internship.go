package domain

import (
	"fmt"
	"strings"
	"time"
)

type Internship struct {
	ID                  string
	Title               string
	Company             string
	Description         string
	Domain              string
	Location            string
	DurationMonths      int
	Stipend             int
	StartDate           time.Time
	ApplicationDeadline time.Time

	// Requirements
	RequiredSkills     []string
	AllowedDegrees     []string
	MinCGPA            float64
	RequiredExperience []string

	// Capacity
	TotalSlots     int
	FilledSlots    int
	CategoryQuota  map[Category]int
	CategoryFilled map[Category]int
}

func (i *Internship) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return Invalid("internship.id", "is required")
	}
	if i.TotalSlots < 0 {
		return Invalid("internship.total_slots", "must not be negative")
	}
	if i.FilledSlots < 0 || i.FilledSlots > i.TotalSlots {
		return Invalid("internship.filled_slots", "%d outside 0..%d", i.FilledSlots, i.TotalSlots)
	}
	if i.MinCGPA < 0 || i.MinCGPA > MaxCGPA {
		return Invalid("internship.min_cgpa", "%.2f outside 0..%.0f", i.MinCGPA, MaxCGPA)
	}
	for cat, n := range i.CategoryQuota {
		if !ValidCategories[cat] {
			return Invalid("internship.category_quota", "unknown category %q", cat)
		}
		if n < 0 {
			return Invalid("internship.category_quota", "negative quota for %q", cat)
		}
	}
	return nil
}

func (i *Internship) Status() InternshipStatus {
	if i.FilledSlots >= i.TotalSlots {
		return InternshipFull
	}
	return InternshipOpen
}

func (i *Internship) HasOpenSlot() bool {
	return i.FilledSlots < i.TotalSlots
}

// UnderRepresented reports whether cat still has unfilled reserved quota.
func (i *Internship) UnderRepresented(cat Category) bool {
	quota := i.CategoryQuota[cat]
	return quota > 0 && i.CategoryFilled[cat] < quota
}

// ReserveSlot consumes one slot on behalf of a student in cat. It is the only
// transition from Open towards Full.
func (i *Internship) ReserveSlot(cat Category) error {
	if !i.HasOpenSlot() {
		return fmt.Errorf("internship %s has no open slots (%d/%d)", i.ID, i.FilledSlots, i.TotalSlots)
	}
	i.FilledSlots++
	if i.CategoryFilled == nil {
		i.CategoryFilled = make(map[Category]int)
	}
	i.CategoryFilled[cat]++
	return nil
}

// EndDate is the start date advanced by the listing duration.
func (i *Internship) EndDate() time.Time {
	return i.StartDate.AddDate(0, i.DurationMonths, 0)
}

func (i Internship) Clone() Internship {
	i.RequiredSkills = cloneStrings(i.RequiredSkills)
	i.AllowedDegrees = cloneStrings(i.AllowedDegrees)
	i.RequiredExperience = cloneStrings(i.RequiredExperience)
	i.CategoryQuota = cloneCounts(i.CategoryQuota)
	i.CategoryFilled = cloneCounts(i.CategoryFilled)
	return i
}

func cloneCounts(in map[Category]int) map[Category]int {
	if in == nil {
		return nil
	}
	out := make(map[Category]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
