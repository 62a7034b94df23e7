package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexanderramin/placement/internal/domain"
)

// Weights are the most points each factor can contribute. The diversity
// bonus is added as a flat amount.
type Weights struct {
	Skill      float64
	Academic   float64
	Experience float64
	Location   float64
	Diversity  float64
}

func DefaultWeights() Weights {
	return Weights{
		Skill:      45,
		Academic:   25,
		Experience: 15,
		Location:   15,
		Diversity:  10,
	}
}

const MaxScore = 100.0

type ScoringInput struct {
	Student    *domain.Student
	Internship *domain.Internship
	Weights    Weights
}

type ScoredMatch struct {
	Match   domain.Match
	Blocked bool
}

// ScoreMatch computes the weighted compatibility of a student with an
// internship. An academic gate failure zeroes the match and marks it blocked.
func ScoreMatch(input ScoringInput) ScoredMatch {
	s, in := input.Student, input.Internship
	result := ScoredMatch{
		Match: domain.Match{
			StudentID:    s.ID,
			InternshipID: in.ID,
			Deadline:     in.ApplicationDeadline,
		},
	}

	if reason := academicGate(s, in); reason != nil {
		result.Blocked = true
		result.Match.Reasons = []domain.MatchReason{*reason}
		return result
	}

	factors := []struct {
		fn  func(ScoringInput) (float64, *domain.MatchReason)
		dst *float64
	}{
		{scoreSkillOverlap, &result.Match.Breakdown.Skill},
		{scoreAcademicFit, &result.Match.Breakdown.Academic},
		{scoreExperience, &result.Match.Breakdown.Experience},
		{scoreLocation, &result.Match.Breakdown.Location},
		{scoreDiversity, &result.Match.Breakdown.Diversity},
	}

	var score float64
	for _, f := range factors {
		delta, reason := f.fn(input)
		*f.dst = delta
		score += delta
		if reason != nil {
			result.Match.Reasons = append(result.Match.Reasons, *reason)
		}
	}

	result.Match.Score = math.Min(MaxScore, math.Max(0, round2(score)))
	return result
}

func academicGate(s *domain.Student, in *domain.Internship) *domain.MatchReason {
	if s.Academic.CGPA < in.MinCGPA {
		return &domain.MatchReason{
			Code:    domain.ReasonAcademicGate,
			Message: fmt.Sprintf("CGPA %.2f below minimum %.2f", s.Academic.CGPA, in.MinCGPA),
		}
	}
	if len(in.AllowedDegrees) > 0 && !containsFold(in.AllowedDegrees, s.Academic.Degree) {
		return &domain.MatchReason{
			Code:    domain.ReasonAcademicGate,
			Message: fmt.Sprintf("Degree %q not accepted", s.Academic.Degree),
		}
	}
	return nil
}

func scoreSkillOverlap(input ScoringInput) (float64, *domain.MatchReason) {
	frac, have, want := overlap(input.Internship.RequiredSkills, input.Student.Skills)
	delta := frac * input.Weights.Skill
	msg := "No specific skills required"
	if want > 0 {
		msg = fmt.Sprintf("%d of %d required skills", have, want)
	}
	return delta, &domain.MatchReason{
		Code:        domain.ReasonSkillOverlap,
		Message:     msg,
		WeightDelta: delta,
	}
}

// scoreAcademicFit rewards CGPA headroom above the listing minimum. Meeting
// the minimum exactly earns half the weight.
func scoreAcademicFit(input ScoringInput) (float64, *domain.MatchReason) {
	cgpa, minCGPA := input.Student.Academic.CGPA, input.Internship.MinCGPA
	fit := 1.0
	if minCGPA < domain.MaxCGPA {
		fit = 0.5 + 0.5*(cgpa-minCGPA)/(domain.MaxCGPA-minCGPA)
	}
	fit = math.Min(1, math.Max(0, fit))
	delta := fit * input.Weights.Academic
	return delta, &domain.MatchReason{
		Code:        domain.ReasonAcademicFit,
		Message:     fmt.Sprintf("CGPA %.2f against minimum %.2f", cgpa, minCGPA),
		WeightDelta: delta,
	}
}

func scoreExperience(input ScoringInput) (float64, *domain.MatchReason) {
	want := input.Internship.RequiredExperience
	if len(want) == 0 {
		delta := input.Weights.Experience
		return delta, &domain.MatchReason{
			Code:        domain.ReasonExperienceFit,
			Message:     "No prior experience required",
			WeightDelta: delta,
		}
	}
	matched := 0
	for _, w := range want {
		for _, e := range input.Student.Experience {
			if strings.Contains(strings.ToLower(e), strings.ToLower(w)) {
				matched++
				break
			}
		}
	}
	if matched == 0 {
		return 0, nil
	}
	delta := float64(matched) / float64(len(want)) * input.Weights.Experience
	return delta, &domain.MatchReason{
		Code:        domain.ReasonExperienceFit,
		Message:     fmt.Sprintf("%d of %d experience areas", matched, len(want)),
		WeightDelta: delta,
	}
}

// scoreLocation gives full weight to remote listings and preferred locations,
// half weight when the student states no preference.
func scoreLocation(input ScoringInput) (float64, *domain.MatchReason) {
	prefs := input.Student.PreferredLocations
	loc := input.Internship.Location
	switch {
	case strings.EqualFold(loc, "remote") || containsFold(prefs, loc):
		delta := input.Weights.Location
		return delta, &domain.MatchReason{
			Code:        domain.ReasonLocationFit,
			Message:     fmt.Sprintf("Location %s matches preference", loc),
			WeightDelta: delta,
		}
	case len(prefs) == 0:
		delta := input.Weights.Location / 2
		return delta, &domain.MatchReason{
			Code:        domain.ReasonLocationFit,
			Message:     "No location preference",
			WeightDelta: delta,
		}
	}
	return 0, nil
}

func scoreDiversity(input ScoringInput) (float64, *domain.MatchReason) {
	cat := input.Student.EffectiveCategory()
	if !input.Internship.UnderRepresented(cat) {
		return 0, nil
	}
	delta := input.Weights.Diversity
	return delta, &domain.MatchReason{
		Code:        domain.ReasonDiversityBonus,
		Message:     fmt.Sprintf("Reserved %s quota still open", cat),
		WeightDelta: delta,
	}
}

// overlap returns the fraction of want found in have (case-insensitive).
// An empty want counts as a full match.
func overlap(want, have []string) (float64, int, int) {
	if len(want) == 0 {
		return 1, 0, 0
	}
	set := make(map[string]bool, len(have))
	for _, h := range have {
		set[strings.ToLower(strings.TrimSpace(h))] = true
	}
	n := 0
	for _, w := range want {
		if set[strings.ToLower(strings.TrimSpace(w))] {
			n++
		}
	}
	return float64(n) / float64(len(want)), n, len(want)
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(v)) {
			return true
		}
	}
	return false
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
