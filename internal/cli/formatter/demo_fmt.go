package formatter

import (
	"fmt"

	"github.com/alexanderramin/placement/internal/contract"
)

func FormatDemoReport(r contract.DemoReport) string {
	body := fmt.Sprintf(
		"Seeded %d students, %d internships, %d resources\n"+
			"Matches returned %d\n"+
			"Applications %s placed, %s rejected\n"+
			"Events %s scheduled, %s rejected\n"+
			"Active alerts %s",
		r.Students, r.Internships, r.Resources,
		r.MatchesReturned,
		StyleGreen.Render(fmt.Sprint(r.Placed)), StyleRed.Render(fmt.Sprint(r.Rejected)),
		StyleGreen.Render(fmt.Sprint(r.EventsScheduled)), StyleRed.Render(fmt.Sprint(r.EventsRejected)),
		alertCount(r.ActiveAlerts),
	)
	return RenderBox("Demo run", body) + "\n"
}
