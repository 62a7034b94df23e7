package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/placement/internal/contract"
	"github.com/alexanderramin/placement/internal/domain"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func TestRelativeDateFrom(t *testing.T) {
	tests := []struct {
		offset time.Duration
		want   string
	}{
		{0, "Today"},
		{24 * time.Hour, "Tomorrow"},
		{-24 * time.Hour, "Yesterday"},
		{5 * 24 * time.Hour, "In 5d"},
		{21 * 24 * time.Hour, "In 3w"},
		{-3 * 24 * time.Hour, "3d ago"},
		{-90 * 24 * time.Hour, "3mo ago"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDateFrom(now.Add(tt.offset), now))
		})
	}
}

func TestRenderProgress(t *testing.T) {
	tests := []struct {
		name  string
		pct   float64
		width int
		want  string
	}{
		{"empty", 0, 4, "0%"},
		{"half", 50, 4, "50%"},
		{"clamps high", 150, 4, "100%"},
		{"clamps low", -10, 4, "0%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderProgress(tt.pct, tt.width)
			assert.True(t, strings.HasPrefix(got, "["))
			assert.Contains(t, got, tt.want)
		})
	}
	assert.Contains(t, RenderProgress(100, 1), strings.Repeat(filledBlock, 2))
}

func TestRenderTable_PadsShortRows(t *testing.T) {
	out := RenderTable([]string{"A", "B"}, [][]string{{"long-value"}, {"x", "y"}})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[3], "y")
	assert.Empty(t, RenderTable(nil, nil))
}

func TestPills(t *testing.T) {
	assert.Contains(t, SeverityPill(domain.SeverityHigh), "HIGH")
	assert.Contains(t, SeverityPill("weird"), "weird")
	assert.Contains(t, EventStatusPill(domain.EventCancelled), "Cancelled")
	assert.Contains(t, RiskIndicator(domain.RiskAtRisk), "AT RISK")
	assert.Contains(t, RiskIndicator("bogus"), "UNKNOWN")
	assert.Contains(t, DomainBadge("fintech"), "Fintech")
	assert.Contains(t, DomainBadge(""), "--")
	assert.Contains(t, TruncID("0123456789abcdef"), "01234567")
	assert.NotContains(t, TruncID("0123456789abcdef"), "89")
}

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "0s", FormatUptime(0))
	assert.Equal(t, "1m30s", FormatUptime(90*time.Second+400*time.Millisecond))
}

func TestFormatSystemStatus(t *testing.T) {
	out := FormatSystemStatus(contract.SystemStatus{
		Running: true,
		Uptime:  2 * time.Minute,
		Agents: []contract.AgentHealth{
			{Name: "matching", Healthy: true, Detail: "3 students cached"},
			{Name: "coordination", Healthy: false},
		},
	})
	assert.Contains(t, out, "RUNNING")
	assert.Contains(t, out, "matching")
	assert.Contains(t, out, "3 students cached")
	assert.Contains(t, out, "unhealthy")
}

func TestFormatSystemMetrics(t *testing.T) {
	out := FormatSystemMetrics(contract.SystemMetrics{
		Students:             6,
		Internships:          5,
		OpenInternships:      3,
		FullInternships:      2,
		TotalSlots:           8,
		FilledSlots:          5,
		Applications:         6,
		RejectedApplications: 1,
		ActiveAlerts:         2,
	})
	assert.Contains(t, out, "(3 open, 2 full)")
	assert.Contains(t, out, "5/8")
	assert.Contains(t, out, "(1 rejected)")
}

func TestFormatAnalytics(t *testing.T) {
	days := 12
	out := FormatAnalytics(contract.DetailedAnalytics{
		CategoryDistribution: map[domain.Category]int{domain.CategoryGeneral: 4, domain.CategorySC: 2},
		PlacedByCategory:     map[domain.Category]int{domain.CategorySC: 1},
		FillByDomain:         []contract.DomainFill{{Domain: "fintech", Internships: 2, TotalSlots: 4, FilledSlots: 2, FillRatePct: 50}},
		AverageMatchScore:    71.25,
		ScoredMatches:        9,
		AlertsByReason:       map[string]int{domain.ReasonMilestoneOverdue: 1},
		RiskCounts:           map[domain.RiskLevel]int{domain.RiskAtRisk: 1},
		Placements: []contract.PlacementRiskView{
			{StudentID: "s1", InternshipID: "i1", RiskLevel: domain.RiskAtRisk, DaysLeft: &days, CompletionPct: 20, TimeElapsedPct: 45},
		},
		Resources: []contract.ResourceUtilisation{{ResourceID: "lab", Capacity: 1, Bookings: 2, PeakLoad: 2}},
	})
	assert.Contains(t, out, "71.2")
	assert.Contains(t, out, "over 9 eligible pairs")
	assert.Contains(t, out, "GENERAL")
	assert.Less(t, strings.Index(out, "GENERAL"), strings.Index(out, "SC "))
	assert.Contains(t, out, "Fintech")
	assert.Contains(t, out, "12d")
	assert.Contains(t, out, "milestone overdue")
	assert.Contains(t, out, "2/1")
}

func TestFormatMatches(t *testing.T) {
	out := FormatMatches("s1", []domain.Match{
		{InternshipID: "i1", Score: 93.75, Breakdown: domain.ScoreBreakdown{Skill: 45, Academic: 18.75, Experience: 15, Location: 15},
			Reasons: []domain.MatchReason{{Code: domain.ReasonSkillOverlap, Message: "2/2 required skills"}}},
		{InternshipID: "i2", Score: 41, Breakdown: domain.ScoreBreakdown{Diversity: 10}},
	})
	assert.Contains(t, out, "MATCHES FOR S1")
	assert.Contains(t, out, "93.8")
	assert.Contains(t, out, "2/2 required skills")
	assert.Contains(t, out, "+10")
	assert.Less(t, strings.Index(out, "i1"), strings.Index(out, "i2"))

	assert.Contains(t, FormatMatches("s2", nil), "No eligible internships.")
}

func TestFormatAlertsAndEvents(t *testing.T) {
	alerts := FormatAlerts([]domain.Alert{{
		ID: "abcdef0123456789", Severity: domain.SeverityMedium, Reason: domain.ReasonStagnantProgress,
		TargetKind: domain.TargetStudent, TargetID: "s1", CreatedAt: now.Add(-48 * time.Hour),
	}}, now)
	assert.Contains(t, alerts, "stagnant progress")
	assert.Contains(t, alerts, "student:s1")
	assert.Contains(t, alerts, "2d ago")
	assert.Contains(t, FormatAlerts(nil, now), "No active alerts.")

	events := FormatEvents("s1", []domain.Event{{
		Title: "Interview", Kind: "interview", Start: now.Add(24 * time.Hour), End: now.Add(25 * time.Hour),
		ResourceIDs: []string{"hall"}, Status: domain.EventScheduled,
	}}, now)
	assert.Contains(t, events, "Tomorrow 09:00-10:00")
	assert.Contains(t, events, "hall")
	assert.Contains(t, FormatEvents("s1", nil, now), "Nothing scheduled.")
}

func TestFormatDemoReport(t *testing.T) {
	out := FormatDemoReport(contract.DemoReport{Students: 6, Internships: 5, Resources: 2, Placed: 5, Rejected: 1})
	assert.Contains(t, out, "DEMO RUN")
	assert.Contains(t, out, "Seeded 6 students, 5 internships, 2 resources")
}
