package formatter

import (
	"strings"
	"time"

	"github.com/alexanderramin/placement/internal/domain"
)

func FormatAlerts(alerts []domain.Alert, now time.Time) string {
	var b strings.Builder
	b.WriteString(Header("Active Alerts"))
	b.WriteString("\n")
	if len(alerts) == 0 {
		b.WriteString(StyleGreen.Render("No active alerts.") + "\n")
		return b.String()
	}

	rows := make([][]string, 0, len(alerts))
	for _, a := range alerts {
		rows = append(rows, []string{
			TruncID(a.ID),
			SeverityPill(a.Severity),
			a.Reason,
			string(a.TargetKind) + ":" + a.TargetID,
			Dim(RelativeDateFrom(a.CreatedAt, now)),
		})
	}
	b.WriteString(RenderTable([]string{"ID", "SEVERITY", "REASON", "TARGET", "RAISED"}, rows))
	return b.String()
}
