package cli

import (
	"fmt"

	"github.com/alexanderramin/placement/internal/agent"
	"github.com/alexanderramin/placement/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newDemoCmd(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Seed a synthetic workload and drive it through every agent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := app.Engine.RunDemo(cmd.Context())
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), flags, report, func() string {
				return formatter.FormatDemoReport(report)
			})
		},
	}
}

func newStatusCmd(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show orchestrator liveness and per-agent health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := app.Engine.GetSystemStatus()
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), flags, status, func() string {
				return formatter.FormatSystemStatus(status)
			})
		},
	}
}

func newMetricsCmd(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Show counters across all agents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			metrics, err := app.Engine.GetSystemMetrics()
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), flags, metrics, func() string {
				return formatter.FormatSystemMetrics(metrics)
			})
		},
	}
}

func newAnalyticsCmd(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Show category, domain, risk and resource breakdowns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Engine.GetDetailedAnalytics()
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), flags, a, func() string {
				return formatter.FormatAnalytics(a)
			})
		},
	}
}

func newMatchesCmd(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "matches <student-id>",
		Short: "Rank open internships for a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matches, err := app.Engine.GetMatchesForStudent(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), flags, matches, func() string {
				return formatter.FormatMatches(args[0], matches)
			})
		},
	}
}

func newApplyCmd(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "apply <student-id> <internship-id>",
		Short: "Submit an application and reserve a slot if eligible",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := app.Engine.SubmitApplication(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			result := struct {
				StudentID    string `json:"studentId"`
				InternshipID string `json:"internshipId"`
				Accepted     bool   `json:"accepted"`
			}{args[0], args[1], ok}
			return emit(cmd.OutOrStdout(), flags, result, func() string {
				if ok {
					return formatter.StyleGreen.Render(fmt.Sprintf("✔ %s placed at %s", args[0], args[1])) + "\n"
				}
				return formatter.StyleRed.Render(fmt.Sprintf("✖ application from %s to %s was not accepted", args[0], args[1])) + "\n"
			})
		},
	}
}

func newAlertsCmd(app *App, flags *rootFlags) *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "List active alerts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			alerts, err := app.Engine.GetActiveAlerts(target)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), flags, alerts, func() string {
				return formatter.FormatAlerts(alerts, app.Now())
			})
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "Only alerts concerning this student, internship, event or resource ID")
	return cmd
}

func newEventsCmd(app *App, flags *rootFlags) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "events <participant-id>",
		Short: "List a participant's upcoming events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := app.Engine.GetUpcomingEvents(args[0], days)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), flags, events, func() string {
				return formatter.FormatEvents(args[0], events, app.Now())
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", agent.DefaultUpcomingDays, "Look-ahead window in days")
	return cmd
}
