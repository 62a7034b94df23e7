package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/placement/internal/domain"
)

func FormatEvents(participantID string, events []domain.Event, now time.Time) string {
	var b strings.Builder
	b.WriteString(Header("Upcoming for " + participantID))
	b.WriteString("\n")
	if len(events) == 0 {
		b.WriteString(Dim("Nothing scheduled.") + "\n")
		return b.String()
	}

	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{
			Bold(e.Title),
			e.Kind,
			fmt.Sprintf("%s %s-%s", RelativeDateFrom(e.Start, now), e.Start.Format("15:04"), e.End.Format("15:04")),
			strings.Join(e.ResourceIDs, ","),
			EventStatusPill(e.Status),
		})
	}
	b.WriteString(RenderTable([]string{"EVENT", "KIND", "WHEN", "RESOURCES", "STATUS"}, rows))
	return b.String()
}
