package domain

import "strings"

type AcademicRecord struct {
	Degree      string
	CGPA        float64
	Year        int
	Institution string
}

type Student struct {
	ID                 string
	Name               string
	Email              string
	Skills             []string
	Academic           AcademicRecord
	Category           Category
	Experience         []string
	PreferredLocations []string
	PreferredDomains   []string
}

// MaxCGPA is the top of the grading scale used for academic fit.
const MaxCGPA = 10.0

func (s *Student) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return Invalid("student.id", "is required")
	}
	if s.Academic.CGPA < 0 || s.Academic.CGPA > MaxCGPA {
		return Invalid("student.cgpa", "%.2f outside 0..%.0f", s.Academic.CGPA, MaxCGPA)
	}
	if s.Category != "" && !ValidCategories[s.Category] {
		return Invalid("student.category", "unknown category %q", s.Category)
	}
	return nil
}

// EffectiveCategory treats an unset category as general.
func (s *Student) EffectiveCategory() Category {
	if s.Category == "" {
		return CategoryGeneral
	}
	return s.Category
}

// Clone returns a deep copy so registry snapshots never alias caller slices.
func (s Student) Clone() Student {
	s.Skills = cloneStrings(s.Skills)
	s.Experience = cloneStrings(s.Experience)
	s.PreferredLocations = cloneStrings(s.PreferredLocations)
	s.PreferredDomains = cloneStrings(s.PreferredDomains)
	return s
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
