package domain

import "time"

type ReasonCode string

const (
	ReasonSkillOverlap     ReasonCode = "SKILL_OVERLAP"
	ReasonAcademicFit      ReasonCode = "ACADEMIC_FIT"
	ReasonAcademicGate     ReasonCode = "ACADEMIC_GATE"
	ReasonExperienceFit    ReasonCode = "EXPERIENCE_FIT"
	ReasonLocationFit      ReasonCode = "LOCATION_FIT"
	ReasonDiversityBonus   ReasonCode = "DIVERSITY_BONUS"
	ReasonDomainPreference ReasonCode = "DOMAIN_PREFERENCE"
)

type MatchReason struct {
	Code        ReasonCode
	Message     string
	WeightDelta float64
}

type ScoreBreakdown struct {
	Skill      float64
	Academic   float64
	Experience float64
	Location   float64
	Diversity  float64
}

// Match is a scored pairing. It is derived state and never mutated in place.
type Match struct {
	StudentID    string
	InternshipID string
	Score        float64
	Breakdown    ScoreBreakdown
	Reasons      []MatchReason
	Deadline     time.Time
}

// Placement is the link recorded against a student by a successful application.
type Placement struct {
	StudentID    string
	InternshipID string
	Score        float64
	AppliedAt    time.Time
}

// PairKey identifies a (student, internship) placement.
type PairKey struct {
	StudentID    string
	InternshipID string
}
