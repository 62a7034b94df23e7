package eventbus

// Topic names a stream of messages on the bus.
type Topic string

// Internal topics, published by agents after their state mutation commits.
const (
	TopicStudentAdded         Topic = "student_added"
	TopicInternshipAdded      Topic = "internship_added"
	TopicMatchesGenerated     Topic = "matches_generated"
	TopicApplicationSubmitted Topic = "application_submitted"
	TopicProgressUpdated      Topic = "progress_updated"
	TopicMilestoneCompleted   Topic = "milestone_completed"
	TopicFeedbackSubmitted    Topic = "feedback_submitted"
	TopicEventScheduled       Topic = "event_scheduled"
	TopicEventCancelled       Topic = "event_cancelled"
	TopicResourceAdded        Topic = "resource_added"
	TopicAlertRaised          Topic = "alert_raised"
	TopicAlertResolved        Topic = "alert_resolved"
)

// External topics, republished by the orchestrator for boundary listeners.
const (
	TopicSystemInitialized          Topic = "system:initialized"
	TopicSystemMatchesGenerated     Topic = "system:matches_generated"
	TopicSystemApplicationSubmitted Topic = "system:application_submitted"
	TopicSystemShutdown             Topic = "system:shutdown"
)

// MatchesGenerated is the payload of TopicMatchesGenerated.
type MatchesGenerated struct {
	StudentID  string `json:"studentId"`
	MatchCount int    `json:"matchCount"`
}

// ApplicationSubmitted is the payload of TopicApplicationSubmitted.
type ApplicationSubmitted struct {
	StudentID    string  `json:"studentId"`
	InternshipID string  `json:"internshipId"`
	Score        float64 `json:"score"`
}
