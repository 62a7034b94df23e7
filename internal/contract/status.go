package contract

import "time"

type AgentHealth struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Detail  string `json:"detail,omitempty"`
}

// SystemStatus is the liveness view of the orchestrator.
type SystemStatus struct {
	Running   bool          `json:"running"`
	StartedAt time.Time     `json:"startedAt"`
	Uptime    time.Duration `json:"uptime"`
	Agents    []AgentHealth `json:"agents"`
}

type SystemMetrics struct {
	GeneratedAt          time.Time     `json:"generatedAt"`
	Students             int           `json:"students"`
	Internships          int           `json:"internships"`
	OpenInternships      int           `json:"openInternships"`
	FullInternships      int           `json:"fullInternships"`
	TotalSlots           int           `json:"totalSlots"`
	FilledSlots          int           `json:"filledSlots"`
	MatchesGenerated     int64         `json:"matchesGenerated"`
	Applications         int64         `json:"applications"`
	RejectedApplications int64         `json:"rejectedApplications"`
	Placements           int           `json:"placements"`
	ActiveAlerts         int           `json:"activeAlerts"`
	ScheduledEvents      int           `json:"scheduledEvents"`
	Resources            int           `json:"resources"`
	FeedbackCount        int           `json:"feedbackCount"`
	BusFailures          int64         `json:"busFailures"`
	Uptime               time.Duration `json:"uptime"`
}
