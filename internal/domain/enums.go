package domain

type RiskLevel string

const (
	RiskOnTrack  RiskLevel = "on_track"
	RiskAtRisk   RiskLevel = "at_risk"
	RiskCritical RiskLevel = "critical"
)

// Category is the affirmative-action class a student registers under.
type Category string

const (
	CategoryGeneral Category = "general"
	CategoryOBC     Category = "obc"
	CategorySC      Category = "sc"
	CategoryST      Category = "st"
	CategoryEWS     Category = "ews"
)

// ValidCategories is the canonical set of accepted category strings.
var ValidCategories = map[Category]bool{
	CategoryGeneral: true, CategoryOBC: true, CategorySC: true,
	CategoryST: true, CategoryEWS: true,
}

type InternshipStatus string

const (
	InternshipOpen InternshipStatus = "open"
	InternshipFull InternshipStatus = "full"
)

type EventStatus string

const (
	EventScheduled EventStatus = "scheduled"
	EventCancelled EventStatus = "cancelled"
)

type AlertSeverity string

const (
	SeverityLow    AlertSeverity = "low"
	SeverityMedium AlertSeverity = "medium"
	SeverityHigh   AlertSeverity = "high"
)

type AlertStatus string

const (
	AlertActive   AlertStatus = "active"
	AlertResolved AlertStatus = "resolved"
)

// TargetKind names the kind of entity an alert or feedback record points at.
type TargetKind string

const (
	TargetStudent    TargetKind = "student"
	TargetInternship TargetKind = "internship"
	TargetPlacement  TargetKind = "placement"
	TargetEvent      TargetKind = "event"
	TargetResource   TargetKind = "resource"
)

const (
	ReasonStagnantProgress   = "stagnant progress"
	ReasonMilestoneOverdue   = "milestone overdue"
	ReasonResourceContention = "resource contention"
)
