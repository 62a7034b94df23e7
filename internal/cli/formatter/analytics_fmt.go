package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/placement/internal/contract"
	"github.com/alexanderramin/placement/internal/domain"
)

func FormatAnalytics(a contract.DetailedAnalytics) string {
	var b strings.Builder
	b.WriteString(Header("Analytics"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Average match score %s %s\n", ScoreColor(a.AverageMatchScore), Dim(fmt.Sprintf("over %d eligible pairs", a.ScoredMatches)))
	if a.AverageRating > 0 {
		fmt.Fprintf(&b, "Average feedback rating %.2f/5\n", a.AverageRating)
	}
	b.WriteString("\n")

	catRows := make([][]string, 0, len(a.CategoryDistribution))
	for _, cat := range sortedKeys(a.CategoryDistribution) {
		catRows = append(catRows, []string{
			strings.ToUpper(string(cat)),
			fmt.Sprint(a.CategoryDistribution[cat]),
			fmt.Sprint(a.PlacedByCategory[cat]),
		})
	}
	b.WriteString(RenderTable([]string{"CATEGORY", "STUDENTS", "PLACED"}, catRows))
	b.WriteString("\n")

	domainRows := make([][]string, 0, len(a.FillByDomain))
	for _, d := range a.FillByDomain {
		domainRows = append(domainRows, []string{
			DomainBadge(d.Domain),
			fmt.Sprint(d.Internships),
			fmt.Sprintf("%d/%d", d.FilledSlots, d.TotalSlots),
			RenderProgress(d.FillRatePct, 10),
		})
	}
	b.WriteString(RenderTable([]string{"DOMAIN", "LISTINGS", "SLOTS", "FILL"}, domainRows))

	if len(a.Placements) > 0 {
		b.WriteString("\n")
		riskRows := make([][]string, 0, len(a.Placements))
		for _, p := range a.Placements {
			days := Dim("--")
			if p.DaysLeft != nil {
				days = fmt.Sprintf("%dd", *p.DaysLeft)
			}
			riskRows = append(riskRows, []string{
				p.StudentID,
				p.InternshipID,
				RiskIndicator(p.RiskLevel),
				RenderProgress(p.CompletionPct, 10),
				fmt.Sprintf("%.0f%%", p.TimeElapsedPct),
				days,
			})
		}
		b.WriteString(RenderTable([]string{"STUDENT", "INTERNSHIP", "RISK", "PROGRESS", "ELAPSED", "LEFT"}, riskRows))
		fmt.Fprintf(&b, "%s %d  %s %d  %s %d\n",
			RiskIndicator(domain.RiskCritical), a.RiskCounts[domain.RiskCritical],
			RiskIndicator(domain.RiskAtRisk), a.RiskCounts[domain.RiskAtRisk],
			RiskIndicator(domain.RiskOnTrack), a.RiskCounts[domain.RiskOnTrack])
	}

	if len(a.Resources) > 0 {
		b.WriteString("\n")
		resRows := make([][]string, 0, len(a.Resources))
		for _, r := range a.Resources {
			peak := fmt.Sprintf("%d/%d", r.PeakLoad, r.Capacity)
			if r.PeakLoad > r.Capacity {
				peak = StyleRed.Render(peak)
			}
			resRows = append(resRows, []string{r.ResourceID, fmt.Sprint(r.Bookings), peak})
		}
		b.WriteString(RenderTable([]string{"RESOURCE", "BOOKINGS", "PEAK"}, resRows))
	}

	if len(a.AlertsByReason) > 0 {
		b.WriteString("\n")
		alertRows := make([][]string, 0, len(a.AlertsByReason))
		for _, reason := range sortedKeys(a.AlertsByReason) {
			alertRows = append(alertRows, []string{reason, fmt.Sprint(a.AlertsByReason[reason])})
		}
		b.WriteString(RenderTable([]string{"ACTIVE ALERTS", "COUNT"}, alertRows))
	}
	return b.String()
}
