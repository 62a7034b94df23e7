package scheduler

import (
	"math"
	"time"

	"github.com/alexanderramin/placement/internal/domain"
)

type RiskInput struct {
	Now           time.Time
	StartDate     time.Time
	EndDate       time.Time
	CompletionPct float64
	// OverdueMilestones counts incomplete milestones whose due date passed.
	OverdueMilestones int
}

type RiskResult struct {
	Level          domain.RiskLevel
	DaysLeft       *int
	TimeElapsedPct float64
	// Gap is elapsed minus completion, in percentage points.
	Gap float64
}

// ComputePlacementRisk compares completion against the share of the
// internship timeline that has elapsed.
func ComputePlacementRisk(input RiskInput) RiskResult {
	if input.StartDate.IsZero() || input.EndDate.IsZero() || !input.EndDate.After(input.StartDate) {
		return RiskResult{Level: domain.RiskOnTrack}
	}

	total := input.EndDate.Sub(input.StartDate)
	elapsed := input.Now.Sub(input.StartDate)
	elapsedPct := math.Min(100, math.Max(0, float64(elapsed)/float64(total)*100))

	daysLeft := int(math.Ceil(input.EndDate.Sub(input.Now).Hours() / 24))
	result := RiskResult{
		DaysLeft:       &daysLeft,
		TimeElapsedPct: elapsedPct,
		Gap:            elapsedPct - input.CompletionPct,
	}

	switch {
	case input.CompletionPct >= 100:
		result.Level = domain.RiskOnTrack
	case daysLeft <= 0:
		result.Level = domain.RiskCritical
	case input.OverdueMilestones > 1 || result.Gap > 40:
		result.Level = domain.RiskCritical
	case input.OverdueMilestones == 1 || result.Gap > 15:
		result.Level = domain.RiskAtRisk
	default:
		result.Level = domain.RiskOnTrack
	}
	return result
}
