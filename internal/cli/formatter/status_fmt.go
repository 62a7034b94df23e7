package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/placement/internal/contract"
)

func FormatSystemStatus(s contract.SystemStatus) string {
	var b strings.Builder
	b.WriteString(Header("System Status"))
	b.WriteString("\n")

	state := StyleRed.Render("● STOPPED")
	if s.Running {
		state = StyleGreen.Render("● RUNNING")
	}
	fmt.Fprintf(&b, "%s  %s %s\n\n", state, Dim("uptime"), FormatUptime(s.Uptime))

	rows := make([][]string, 0, len(s.Agents))
	for _, a := range s.Agents {
		health := StyleGreen.Render("healthy")
		if !a.Healthy {
			health = StyleRed.Render("unhealthy")
		}
		rows = append(rows, []string{Bold(a.Name), health, Dim(a.Detail)})
	}
	b.WriteString(RenderTable([]string{"AGENT", "HEALTH", "DETAIL"}, rows))
	return b.String()
}

func FormatSystemMetrics(m contract.SystemMetrics) string {
	var b strings.Builder
	b.WriteString(Header("Metrics"))
	b.WriteString("\n")

	fill := 0.0
	if m.TotalSlots > 0 {
		fill = float64(m.FilledSlots) / float64(m.TotalSlots) * 100
	}
	rows := [][]string{
		{"Students", fmt.Sprint(m.Students)},
		{"Internships", fmt.Sprintf("%d %s", m.Internships, Dim(fmt.Sprintf("(%d open, %d full)", m.OpenInternships, m.FullInternships)))},
		{"Slots", fmt.Sprintf("%d/%d %s", m.FilledSlots, m.TotalSlots, RenderProgress(fill, 12))},
		{"Matches generated", fmt.Sprint(m.MatchesGenerated)},
		{"Applications", fmt.Sprintf("%d %s", m.Applications, Dim(fmt.Sprintf("(%d rejected)", m.RejectedApplications)))},
		{"Placements", fmt.Sprint(m.Placements)},
		{"Active alerts", alertCount(m.ActiveAlerts)},
		{"Scheduled events", fmt.Sprint(m.ScheduledEvents)},
		{"Resources", fmt.Sprint(m.Resources)},
		{"Feedback", fmt.Sprint(m.FeedbackCount)},
		{"Handler failures", fmt.Sprint(m.BusFailures)},
		{"Uptime", FormatUptime(m.Uptime)},
	}
	b.WriteString(RenderTable([]string{"METRIC", "VALUE"}, rows))
	return b.String()
}

func alertCount(n int) string {
	if n == 0 {
		return StyleGreen.Render("0")
	}
	return StyleRed.Render(fmt.Sprint(n))
}
