package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/placement/internal/domain"
)

// Seed is a converted seed file ready to load.
type Seed struct {
	Students    []domain.Student
	Internships []domain.Internship
	Resources   []domain.Resource
}

// Convert transforms a validated SeedSchema into domain objects.
// Call ValidateSeedSchema first; Convert assumes the schema is valid.
func Convert(schema *SeedSchema) (*Seed, error) {
	seed := &Seed{
		Students:    make([]domain.Student, 0, len(schema.Students)),
		Internships: make([]domain.Internship, 0, len(schema.Internships)),
		Resources:   make([]domain.Resource, 0, len(schema.Resources)),
	}

	for _, s := range schema.Students {
		seed.Students = append(seed.Students, domain.Student{
			ID:     s.ID,
			Name:   s.Name,
			Email:  s.Email,
			Skills: s.Skills,
			Academic: domain.AcademicRecord{
				Degree:      s.Degree,
				CGPA:        s.CGPA,
				Year:        s.Year,
				Institution: s.Institution,
			},
			Category:           domain.Category(s.Category),
			Experience:         s.Experience,
			PreferredLocations: s.PreferredLocations,
			PreferredDomains:   s.PreferredDomains,
		})
	}

	for _, in := range schema.Internships {
		start, err := time.Parse(dateLayout, in.StartDate)
		if err != nil {
			return nil, fmt.Errorf("parsing %s start_date: %w", in.ID, err)
		}
		var deadline time.Time
		if in.ApplicationDeadline != nil {
			deadline, err = time.Parse(dateLayout, *in.ApplicationDeadline)
			if err != nil {
				return nil, fmt.Errorf("parsing %s application_deadline: %w", in.ID, err)
			}
		}

		var quota map[domain.Category]int
		if len(in.CategoryQuota) > 0 {
			quota = make(map[domain.Category]int, len(in.CategoryQuota))
			for cat, n := range in.CategoryQuota {
				quota[domain.Category(cat)] = n
			}
		}

		seed.Internships = append(seed.Internships, domain.Internship{
			ID:                  in.ID,
			Title:               in.Title,
			Company:             in.Company,
			Description:         in.Description,
			Domain:              in.Domain,
			Location:            in.Location,
			DurationMonths:      in.DurationMonths,
			Stipend:             in.Stipend,
			StartDate:           start,
			ApplicationDeadline: deadline,
			RequiredSkills:      in.RequiredSkills,
			AllowedDegrees:      in.AllowedDegrees,
			MinCGPA:             in.MinCGPA,
			RequiredExperience:  in.RequiredExperience,
			TotalSlots:          in.TotalSlots,
			CategoryQuota:       quota,
		})
	}

	for _, r := range schema.Resources {
		seed.Resources = append(seed.Resources, domain.Resource{
			ID:       r.ID,
			Name:     orDefault(r.Name, r.ID),
			Kind:     orDefault(r.Kind, "room"),
			Capacity: r.Capacity,
		})
	}

	return seed, nil
}

// Target is what a seed is loaded into.
type Target interface {
	AddStudent(ctx context.Context, s domain.Student) error
	AddInternship(ctx context.Context, in domain.Internship) error
	AddResource(ctx context.Context, r domain.Resource) error
}

// Apply adds every seeded entity to target, stopping at the first error.
func (s *Seed) Apply(ctx context.Context, target Target) error {
	for _, st := range s.Students {
		if err := target.AddStudent(ctx, st); err != nil {
			return fmt.Errorf("seeding student %s: %w", st.ID, err)
		}
	}
	for _, in := range s.Internships {
		if err := target.AddInternship(ctx, in); err != nil {
			return fmt.Errorf("seeding internship %s: %w", in.ID, err)
		}
	}
	for _, r := range s.Resources {
		if err := target.AddResource(ctx, r); err != nil {
			return fmt.Errorf("seeding resource %s: %w", r.ID, err)
		}
	}
	return nil
}

// LoadFile reads, validates and converts a seed file in one step.
func LoadFile(path string) (*Seed, error) {
	schema, err := LoadSeedSchema(path)
	if err != nil {
		return nil, err
	}
	if errs := ValidateSeedSchema(schema); len(errs) > 0 {
		return nil, fmt.Errorf("invalid seed file %s: %w", path, errors.Join(errs...))
	}
	return Convert(schema)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
