package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SeedSchema is the top-level structure of a seed file. JSON and YAML share
// the same field names.
type SeedSchema struct {
	Students    []StudentImport    `json:"students" yaml:"students"`
	Internships []InternshipImport `json:"internships" yaml:"internships"`
	Resources   []ResourceImport   `json:"resources,omitempty" yaml:"resources,omitempty"`
}

type StudentImport struct {
	ID                 string   `json:"id" yaml:"id"`
	Name               string   `json:"name" yaml:"name"`
	Email              string   `json:"email,omitempty" yaml:"email,omitempty"`
	Skills             []string `json:"skills" yaml:"skills"`
	Degree             string   `json:"degree" yaml:"degree"`
	CGPA               float64  `json:"cgpa" yaml:"cgpa"`
	Year               int      `json:"year,omitempty" yaml:"year,omitempty"`
	Institution        string   `json:"institution,omitempty" yaml:"institution,omitempty"`
	Category           string   `json:"category,omitempty" yaml:"category,omitempty"`
	Experience         []string `json:"experience,omitempty" yaml:"experience,omitempty"`
	PreferredLocations []string `json:"preferred_locations,omitempty" yaml:"preferred_locations,omitempty"`
	PreferredDomains   []string `json:"preferred_domains,omitempty" yaml:"preferred_domains,omitempty"`
}

type InternshipImport struct {
	ID                  string         `json:"id" yaml:"id"`
	Title               string         `json:"title" yaml:"title"`
	Company             string         `json:"company" yaml:"company"`
	Description         string         `json:"description,omitempty" yaml:"description,omitempty"`
	Domain              string         `json:"domain,omitempty" yaml:"domain,omitempty"`
	Location            string         `json:"location" yaml:"location"`
	DurationMonths      int            `json:"duration_months" yaml:"duration_months"`
	Stipend             int            `json:"stipend,omitempty" yaml:"stipend,omitempty"`
	StartDate           string         `json:"start_date" yaml:"start_date"`
	ApplicationDeadline *string        `json:"application_deadline,omitempty" yaml:"application_deadline,omitempty"`
	RequiredSkills      []string       `json:"required_skills" yaml:"required_skills"`
	AllowedDegrees      []string       `json:"allowed_degrees,omitempty" yaml:"allowed_degrees,omitempty"`
	MinCGPA             float64        `json:"min_cgpa,omitempty" yaml:"min_cgpa,omitempty"`
	RequiredExperience  []string       `json:"required_experience,omitempty" yaml:"required_experience,omitempty"`
	TotalSlots          int            `json:"total_slots" yaml:"total_slots"`
	CategoryQuota       map[string]int `json:"category_quota,omitempty" yaml:"category_quota,omitempty"`
}

type ResourceImport struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Kind     string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Capacity int    `json:"capacity" yaml:"capacity"`
}

// LoadSeedSchema reads a seed file. Files ending in .yaml or .yml are parsed
// as YAML, everything else as JSON.
func LoadSeedSchema(path string) (*SeedSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema SeedSchema
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing seed file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing seed file: %w", err)
		}
	}
	return &schema, nil
}
