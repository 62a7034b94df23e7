package contract

// DemoReport summarises a demo run.
type DemoReport struct {
	Students        int `json:"students"`
	Internships     int `json:"internships"`
	Resources       int `json:"resources"`
	MatchesReturned int `json:"matchesReturned"`
	Placed          int `json:"placed"`
	Rejected        int `json:"rejected"`
	EventsScheduled int `json:"eventsScheduled"`
	EventsRejected  int `json:"eventsRejected"`
	ActiveAlerts    int `json:"activeAlerts"`
}
