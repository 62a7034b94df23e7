package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/placement/internal/contract"
	"github.com/alexanderramin/placement/internal/domain"
)

// RunDemo seeds a fixed synthetic workload and drives it through every agent.
// Identical starting state and clock yield an identical report.
func (o *Orchestrator) RunDemo(ctx context.Context) (contract.DemoReport, error) {
	var report contract.DemoReport
	base := o.now().UTC().Truncate(24 * time.Hour)
	start := base.AddDate(0, 0, -30)

	for _, s := range demoStudents() {
		if err := o.AddStudent(ctx, s); err != nil {
			return report, fmt.Errorf("demo student %s: %w", s.ID, err)
		}
		report.Students++
	}
	for _, in := range demoInternships(start) {
		if err := o.AddInternship(ctx, in); err != nil {
			return report, fmt.Errorf("demo internship %s: %w", in.ID, err)
		}
		report.Internships++
	}

	var placed []domain.Placement
	for _, s := range demoStudents() {
		matches, err := o.GetMatchesForStudent(ctx, s.ID)
		if err != nil {
			return report, fmt.Errorf("demo matches %s: %w", s.ID, err)
		}
		report.MatchesReturned += len(matches)
		if len(matches) == 0 {
			report.Rejected++
			continue
		}
		top := matches[0]
		ok, err := o.SubmitApplication(ctx, s.ID, top.InternshipID)
		if err != nil {
			return report, fmt.Errorf("demo application %s: %w", s.ID, err)
		}
		if !ok {
			report.Rejected++
			continue
		}
		report.Placed++
		placed = append(placed, domain.Placement{StudentID: s.ID, InternshipID: top.InternshipID, Score: top.Score})
	}

	for i, p := range placed {
		pct := float64(10 + 20*i)
		if _, err := o.UpdateProgress(ctx, p.StudentID, p.InternshipID, domain.ProgressPatch{CompletionPct: &pct}); err != nil {
			return report, fmt.Errorf("demo progress %s: %w", p.StudentID, err)
		}
	}
	if len(placed) > 0 {
		first := placed[0]
		if err := o.CompleteMilestone(ctx, first.StudentID, first.InternshipID, "onboarding", "Settled in after a slow first week"); err != nil {
			return report, fmt.Errorf("demo milestone: %w", err)
		}
		if _, err := o.SubmitFeedback(ctx, domain.Feedback{
			AuthorID:   first.StudentID,
			TargetKind: domain.TargetInternship,
			TargetID:   first.InternshipID,
			Rating:     5,
			Comment:    "Supportive mentors",
		}); err != nil {
			return report, fmt.Errorf("demo feedback: %w", err)
		}
	}

	resources := []domain.Resource{
		{ID: "demo-hall", Name: "Seminar Hall", Kind: "room", Capacity: 1},
		{ID: "demo-lab", Name: "Innovation Lab", Kind: "lab", Capacity: 2},
	}
	for _, r := range resources {
		if err := o.AddResource(ctx, r); err != nil {
			return report, fmt.Errorf("demo resource %s: %w", r.ID, err)
		}
		report.Resources++
	}

	tomorrow := base.AddDate(0, 0, 1)
	participants := make([]string, 0, len(placed))
	for _, p := range placed {
		participants = append(participants, p.StudentID)
	}
	specs := []domain.EventSpec{
		{Title: "Cohort orientation", Kind: "orientation", Start: tomorrow.Add(10 * time.Hour), End: tomorrow.Add(11 * time.Hour),
			ParticipantIDs: participants, ResourceIDs: []string{"demo-hall"}},
		{Title: "Panel interview", Kind: "interview", Start: tomorrow.Add(10*time.Hour + 30*time.Minute), End: tomorrow.Add(11*time.Hour + 30*time.Minute),
			ParticipantIDs: []string{"demo-s6"}, ResourceIDs: []string{"demo-hall"}},
		{Title: "Prototype review A", Kind: "review", Start: tomorrow.Add(14 * time.Hour), End: tomorrow.Add(15 * time.Hour),
			ParticipantIDs: []string{"mentor-1"}, ResourceIDs: []string{"demo-lab"}},
		{Title: "Prototype review B", Kind: "review", Start: tomorrow.Add(14 * time.Hour), End: tomorrow.Add(15 * time.Hour),
			ParticipantIDs: []string{"mentor-2"}, ResourceIDs: []string{"demo-lab"}},
		{Title: "Midterm check-in", Kind: "review", Start: tomorrow.Add(11 * time.Hour), End: tomorrow.Add(12 * time.Hour),
			ParticipantIDs: []string{"mentor-1"}, ResourceIDs: []string{"demo-hall"}},
	}
	for _, spec := range specs {
		res, err := o.ScheduleEvent(ctx, spec)
		if err != nil {
			return report, fmt.Errorf("demo event %q: %w", spec.Title, err)
		}
		if res.Scheduled {
			report.EventsScheduled++
		} else {
			report.EventsRejected++
		}
	}

	// The lab loses a seat after both reviews were booked.
	if err := o.AddResource(ctx, domain.Resource{ID: "demo-lab", Name: "Innovation Lab", Kind: "lab", Capacity: 1}); err != nil {
		return report, fmt.Errorf("demo resource shrink: %w", err)
	}

	alerts, err := o.GetActiveAlerts("")
	if err != nil {
		return report, err
	}
	report.ActiveAlerts = len(alerts)
	o.logger.InfoContext(ctx, "demo workload complete",
		"placed", report.Placed,
		"rejected", report.Rejected,
		"events", report.EventsScheduled,
		"alerts", report.ActiveAlerts,
	)
	return report, nil
}

func demoStudents() []domain.Student {
	return []domain.Student{
		{ID: "demo-s1", Name: "Aarav Sharma", Email: "aarav@example.edu",
			Skills:   []string{"Go", "SQL", "Docker"},
			Academic: domain.AcademicRecord{Degree: "B.Tech", CGPA: 8.6, Year: 4, Institution: "IIT Madras"},
			Category: domain.CategoryGeneral, Experience: []string{"Backend internship at a fintech"},
			PreferredLocations: []string{"Bangalore"}, PreferredDomains: []string{"software"}},
		{ID: "demo-s2", Name: "Diya Reddy", Email: "diya@example.edu",
			Skills:   []string{"Python", "ML", "Statistics"},
			Academic: domain.AcademicRecord{Degree: "B.Sc", CGPA: 9.1, Year: 3, Institution: "University of Hyderabad"},
			Category: domain.CategoryOBC, PreferredLocations: []string{"Hyderabad", "Remote"}, PreferredDomains: []string{"data"}},
		{ID: "demo-s3", Name: "Kabir Das", Email: "kabir@example.edu",
			Skills:   []string{"JavaScript", "React", "CSS"},
			Academic: domain.AcademicRecord{Degree: "B.Tech", CGPA: 7.2, Year: 3, Institution: "COEP Pune"},
			Category: domain.CategorySC, PreferredLocations: []string{"Pune"}},
		{ID: "demo-s4", Name: "Meera Nair", Email: "meera@example.edu",
			Skills:   []string{"Python", "SQL", "Tableau"},
			Academic: domain.AcademicRecord{Degree: "BBA", CGPA: 6.8, Year: 3, Institution: "Christ University"},
			Category: domain.CategoryST, PreferredLocations: []string{"Mumbai"}},
		{ID: "demo-s5", Name: "Rohan Gupta", Email: "rohan@example.edu",
			Skills:   []string{"Go", "Kubernetes"},
			Academic: domain.AcademicRecord{Degree: "B.Tech", CGPA: 5.9, Year: 2, Institution: "NIT Trichy"},
			Category: domain.CategoryEWS, PreferredLocations: []string{"Bangalore"}},
		{ID: "demo-s6", Name: "Sara Khan", Email: "sara@example.edu",
			Skills:   []string{"Figma", "UX Research"},
			Academic: domain.AcademicRecord{Degree: "B.Des", CGPA: 8.0, Year: 4, Institution: "NID Ahmedabad"},
			Category: domain.CategoryGeneral, Experience: []string{"UX research for a campus app"},
			PreferredLocations: []string{"Delhi"}},
	}
}

func demoInternships(start time.Time) []domain.Internship {
	deadline := start.AddDate(0, 0, 60)
	return []domain.Internship{
		{ID: "demo-i1", Title: "Backend Engineering Intern", Company: "Nimbus Labs", Domain: "software", Location: "Bangalore",
			DurationMonths: 3, Stipend: 30000, StartDate: start, ApplicationDeadline: deadline,
			RequiredSkills: []string{"Go", "SQL", "Docker"}, MinCGPA: 6.5, RequiredExperience: []string{"backend"},
			TotalSlots: 2, CategoryQuota: map[domain.Category]int{domain.CategorySC: 1}},
		{ID: "demo-i2", Title: "Data Science Intern", Company: "Quanta Analytics", Domain: "data", Location: "Remote",
			DurationMonths: 3, Stipend: 25000, StartDate: start, ApplicationDeadline: deadline,
			RequiredSkills: []string{"Python", "ML", "Statistics"}, MinCGPA: 7.0,
			TotalSlots: 1, CategoryQuota: map[domain.Category]int{domain.CategoryOBC: 1}},
		{ID: "demo-i3", Title: "Frontend Intern", Company: "Pixel Forge", Domain: "software", Location: "Pune",
			DurationMonths: 3, Stipend: 20000, StartDate: start, ApplicationDeadline: deadline,
			RequiredSkills: []string{"JavaScript", "React", "CSS"}, MinCGPA: 6.0, TotalSlots: 2},
		{ID: "demo-i4", Title: "Business Analyst Intern", Company: "Ledger & Co", Domain: "analytics", Location: "Mumbai",
			DurationMonths: 3, Stipend: 18000, StartDate: start, ApplicationDeadline: deadline,
			RequiredSkills: []string{"SQL", "Tableau"}, AllowedDegrees: []string{"BBA", "B.Com"}, MinCGPA: 6.0,
			TotalSlots: 1, CategoryQuota: map[domain.Category]int{domain.CategoryST: 1}},
		{ID: "demo-i5", Title: "Product Design Intern", Company: "Studio Kiln", Domain: "design", Location: "Delhi",
			DurationMonths: 3, Stipend: 22000, StartDate: start, ApplicationDeadline: deadline,
			RequiredSkills: []string{"Figma"}, RequiredExperience: []string{"UX research"}, MinCGPA: 7.0,
			TotalSlots: 1},
	}
}
