package contract

import (
	"time"

	"github.com/alexanderramin/placement/internal/domain"
)

// DomainFill is slot usage aggregated over every listing in one domain.
type DomainFill struct {
	Domain      string  `json:"domain"`
	Internships int     `json:"internships"`
	TotalSlots  int     `json:"totalSlots"`
	FilledSlots int     `json:"filledSlots"`
	FillRatePct float64 `json:"fillRatePct"`
}

// PlacementRiskView mirrors the per-project risk view: how far a placement's
// completion trails its elapsed timeline.
type PlacementRiskView struct {
	StudentID         string           `json:"studentId"`
	InternshipID      string           `json:"internshipId"`
	RiskLevel         domain.RiskLevel `json:"riskLevel"`
	DaysLeft          *int             `json:"daysLeft,omitempty"`
	CompletionPct     float64          `json:"completionPct"`
	TimeElapsedPct    float64          `json:"timeElapsedPct"`
	OverdueMilestones int              `json:"overdueMilestones"`
}

type ResourceUtilisation struct {
	ResourceID string  `json:"resourceId"`
	Name       string  `json:"name"`
	Capacity   int     `json:"capacity"`
	Bookings   int     `json:"bookings"`
	PeakLoad   int     `json:"peakLoad"`
	PeakPct    float64 `json:"peakPct"`
}

type DetailedAnalytics struct {
	GeneratedAt          time.Time                    `json:"generatedAt"`
	CategoryDistribution map[domain.Category]int      `json:"categoryDistribution"`
	PlacedByCategory     map[domain.Category]int      `json:"placedByCategory"`
	FillByDomain         []DomainFill                 `json:"fillByDomain"`
	AverageMatchScore    float64                      `json:"averageMatchScore"`
	ScoredMatches        int                          `json:"scoredMatches"`
	AlertsByReason       map[string]int               `json:"alertsByReason"`
	AlertsBySeverity     map[domain.AlertSeverity]int `json:"alertsBySeverity"`
	RiskCounts           map[domain.RiskLevel]int     `json:"riskCounts"`
	Placements           []PlacementRiskView          `json:"placements"`
	Resources            []ResourceUtilisation        `json:"resources"`
	AverageRating        float64                      `json:"averageRating"`
}
