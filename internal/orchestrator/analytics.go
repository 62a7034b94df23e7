package orchestrator

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/alexanderramin/placement/internal/contract"
	"github.com/alexanderramin/placement/internal/domain"
	"github.com/alexanderramin/placement/internal/scheduler"
	"github.com/alexanderramin/placement/internal/scoring"
)

func (o *Orchestrator) GetSystemStatus() (contract.SystemStatus, error) {
	done, err := o.enter()
	if err != nil {
		return contract.SystemStatus{}, err
	}
	defer done()

	students := o.reg.Students()
	internships := o.reg.Internships()
	events := o.reg.Events()
	return contract.SystemStatus{
		Running:   true,
		StartedAt: o.startedAt,
		Uptime:    o.now().Sub(o.startedAt),
		Agents: []contract.AgentHealth{
			{Name: "matching", Healthy: true, Detail: fmt.Sprintf("%d students, %d internships", len(students), len(internships))},
			{Name: "feedback", Healthy: true, Detail: fmt.Sprintf("%d progress records", len(o.reg.ProgressRecords()))},
			{Name: "coordination", Healthy: true, Detail: fmt.Sprintf("%d events, %d active alerts", len(events), o.alerts.ActiveCount())},
		},
	}, nil
}

func (o *Orchestrator) GetSystemMetrics() (contract.SystemMetrics, error) {
	done, err := o.enter()
	if err != nil {
		return contract.SystemMetrics{}, err
	}
	defer done()

	now := o.now()
	m := contract.SystemMetrics{
		GeneratedAt:          now,
		Students:             len(o.reg.Students()),
		MatchesGenerated:     o.matching.MatchesGenerated(),
		Applications:         o.matching.Applications(),
		RejectedApplications: o.matching.Rejections(),
		Placements:           len(o.reg.Placements()),
		ActiveAlerts:         o.alerts.ActiveCount(),
		Resources:            len(o.reg.Resources()),
		FeedbackCount:        o.reg.FeedbackCount(),
		BusFailures:          o.bus.Failures(),
		Uptime:               now.Sub(o.startedAt),
	}
	for _, in := range o.reg.Internships() {
		m.Internships++
		m.TotalSlots += in.TotalSlots
		m.FilledSlots += in.FilledSlots
		if in.Status() == domain.InternshipFull {
			m.FullInternships++
		} else {
			m.OpenInternships++
		}
	}
	for _, ev := range o.reg.Events() {
		if ev.Status == domain.EventScheduled {
			m.ScheduledEvents++
		}
	}
	return m, nil
}

// GetDetailedAnalytics scans every registry and derives aggregate breakdowns.
func (o *Orchestrator) GetDetailedAnalytics() (contract.DetailedAnalytics, error) {
	done, err := o.enter()
	if err != nil {
		return contract.DetailedAnalytics{}, err
	}
	defer done()

	now := o.now()
	students := o.reg.Students()
	internships := o.reg.Internships()

	out := contract.DetailedAnalytics{
		GeneratedAt:          now,
		CategoryDistribution: make(map[domain.Category]int),
		PlacedByCategory:     make(map[domain.Category]int),
		AlertsByReason:       make(map[string]int),
		AlertsBySeverity:     make(map[domain.AlertSeverity]int),
		RiskCounts:           make(map[domain.RiskLevel]int),
	}

	categories := make(map[string]domain.Category, len(students))
	for _, s := range students {
		cat := s.EffectiveCategory()
		categories[s.ID] = cat
		out.CategoryDistribution[cat]++
	}
	for _, p := range o.reg.Placements() {
		out.PlacedByCategory[categories[p.StudentID]]++
	}

	out.FillByDomain = fillByDomain(internships)
	out.AverageMatchScore, out.ScoredMatches = averageScore(students, internships, weightsFrom(o.cfg.Scoring))

	for _, a := range o.alerts.Active("") {
		out.AlertsByReason[a.Reason]++
		out.AlertsBySeverity[a.Severity]++
	}

	byID := make(map[string]domain.Internship, len(internships))
	for _, in := range internships {
		byID[in.ID] = in
	}
	for _, rec := range o.reg.ProgressRecords() {
		in, ok := byID[rec.InternshipID]
		if !ok {
			continue
		}
		view := placementRisk(now, rec, in)
		out.RiskCounts[view.RiskLevel]++
		out.Placements = append(out.Placements, view)
	}

	for _, r := range o.reg.Resources() {
		peak := scheduler.PeakLoad(&r)
		out.Resources = append(out.Resources, contract.ResourceUtilisation{
			ResourceID: r.ID,
			Name:       r.Name,
			Capacity:   r.Capacity,
			Bookings:   len(r.Bookings),
			PeakLoad:   peak,
			PeakPct:    pct(peak, r.Capacity),
		})
	}

	var ratings, n int
	for _, fb := range o.reg.Feedback() {
		ratings += fb.Rating
		n++
	}
	if n > 0 {
		out.AverageRating = round2(float64(ratings) / float64(n))
	}
	return out, nil
}

func fillByDomain(internships []domain.Internship) []contract.DomainFill {
	agg := make(map[string]*contract.DomainFill)
	for _, in := range internships {
		d := in.Domain
		if d == "" {
			d = "unspecified"
		}
		f, ok := agg[d]
		if !ok {
			f = &contract.DomainFill{Domain: d}
			agg[d] = f
		}
		f.Internships++
		f.TotalSlots += in.TotalSlots
		f.FilledSlots += in.FilledSlots
	}
	out := make([]contract.DomainFill, 0, len(agg))
	for _, f := range agg {
		f.FillRatePct = pct(f.FilledSlots, f.TotalSlots)
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Domain < out[j].Domain })
	return out
}

// averageScore averages every eligible, non-zero pairing regardless of slot
// availability.
func averageScore(students []domain.Student, internships []domain.Internship, w scoring.Weights) (float64, int) {
	var sum float64
	var n int
	for i := range students {
		for j := range internships {
			sm := scoring.ScoreMatch(scoring.ScoringInput{Student: &students[i], Internship: &internships[j], Weights: w})
			if sm.Blocked || sm.Match.Score <= 0 {
				continue
			}
			sum += sm.Match.Score
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return round2(sum / float64(n)), n
}

func placementRisk(now time.Time, rec domain.ProgressRecord, in domain.Internship) contract.PlacementRiskView {
	overdue := 0
	for _, m := range rec.Milestones {
		if !m.Completed && m.OverdueAt(now) {
			overdue++
		}
	}
	risk := scheduler.ComputePlacementRisk(scheduler.RiskInput{
		Now:               now,
		StartDate:         in.StartDate,
		EndDate:           in.EndDate(),
		CompletionPct:     rec.CompletionPct,
		OverdueMilestones: overdue,
	})
	return contract.PlacementRiskView{
		StudentID:         rec.StudentID,
		InternshipID:      rec.InternshipID,
		RiskLevel:         risk.Level,
		DaysLeft:          risk.DaysLeft,
		CompletionPct:     rec.CompletionPct,
		TimeElapsedPct:    risk.TimeElapsedPct,
		OverdueMilestones: overdue,
	}
}

func pct(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return round2(float64(part) / float64(whole) * 100)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
