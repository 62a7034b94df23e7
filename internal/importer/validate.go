package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/placement/internal/domain"
)

const dateLayout = "2006-01-02"

// ValidateSeedSchema checks the seed for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateSeedSchema(schema *SeedSchema) []error {
	var errs []error

	studentIDs := make(map[string]bool)
	for i := range schema.Students {
		errs = append(errs, validateStudent(i, &schema.Students[i], studentIDs)...)
	}

	internshipIDs := make(map[string]bool)
	for i := range schema.Internships {
		errs = append(errs, validateInternship(i, &schema.Internships[i], internshipIDs)...)
	}

	resourceIDs := make(map[string]bool)
	for i, r := range schema.Resources {
		prefix := fmt.Sprintf("resources[%d]", i)
		if r.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else if resourceIDs[r.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, r.ID))
		}
		resourceIDs[r.ID] = true
		if r.Capacity < 1 {
			errs = append(errs, fmt.Errorf("%s.capacity must be at least 1 (got %d)", prefix, r.Capacity))
		}
	}

	return errs
}

func validateStudent(i int, s *StudentImport, seen map[string]bool) []error {
	var errs []error
	prefix := fmt.Sprintf("students[%d]", i)

	if s.ID == "" {
		errs = append(errs, fmt.Errorf("%s.id is required", prefix))
	} else if seen[s.ID] {
		errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, s.ID))
	}
	seen[s.ID] = true

	if s.CGPA < 0 || s.CGPA > domain.MaxCGPA {
		errs = append(errs, fmt.Errorf("%s.cgpa: %.2f outside 0..%.0f", prefix, s.CGPA, domain.MaxCGPA))
	}
	if s.Category != "" && !domain.ValidCategories[domain.Category(s.Category)] {
		errs = append(errs, fmt.Errorf("%s.category: unknown category %q", prefix, s.Category))
	}
	return errs
}

func validateInternship(i int, in *InternshipImport, seen map[string]bool) []error {
	var errs []error
	prefix := fmt.Sprintf("internships[%d]", i)

	if in.ID == "" {
		errs = append(errs, fmt.Errorf("%s.id is required", prefix))
	} else if seen[in.ID] {
		errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, in.ID))
	}
	seen[in.ID] = true

	if in.TotalSlots < 0 {
		errs = append(errs, fmt.Errorf("%s.total_slots must not be negative", prefix))
	}
	if in.DurationMonths < 0 {
		errs = append(errs, fmt.Errorf("%s.duration_months must not be negative", prefix))
	}
	if in.MinCGPA < 0 || in.MinCGPA > domain.MaxCGPA {
		errs = append(errs, fmt.Errorf("%s.min_cgpa: %.2f outside 0..%.0f", prefix, in.MinCGPA, domain.MaxCGPA))
	}

	var start time.Time
	if in.StartDate == "" {
		errs = append(errs, fmt.Errorf("%s.start_date is required", prefix))
	} else if t, err := time.Parse(dateLayout, in.StartDate); err != nil {
		errs = append(errs, fmt.Errorf("%s.start_date: invalid date format %q (expected YYYY-MM-DD)", prefix, in.StartDate))
	} else {
		start = t
	}
	if in.ApplicationDeadline != nil {
		deadline, err := time.Parse(dateLayout, *in.ApplicationDeadline)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s.application_deadline: invalid date format %q (expected YYYY-MM-DD)", prefix, *in.ApplicationDeadline))
		} else if !start.IsZero() && deadline.After(start) {
			errs = append(errs, fmt.Errorf("%s.application_deadline %q must not be after start_date %q", prefix, *in.ApplicationDeadline, in.StartDate))
		}
	}

	reserved := 0
	for cat, n := range in.CategoryQuota {
		if !domain.ValidCategories[domain.Category(cat)] {
			errs = append(errs, fmt.Errorf("%s.category_quota: unknown category %q", prefix, cat))
		}
		if n < 0 {
			errs = append(errs, fmt.Errorf("%s.category_quota: negative quota for %q", prefix, cat))
		}
		reserved += n
	}
	if reserved > in.TotalSlots {
		errs = append(errs, fmt.Errorf("%s.category_quota reserves %d slots but only %d exist", prefix, reserved, in.TotalSlots))
	}
	return errs
}
