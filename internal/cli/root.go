package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/placement/internal/importer"
	"github.com/alexanderramin/placement/internal/orchestrator"
	"github.com/spf13/cobra"
)

// App holds what CLI commands run against.
type App struct {
	Engine *orchestrator.Orchestrator
	Now    func() time.Time
}

type rootFlags struct {
	seed string
	demo bool
	json bool
}

// NewRootCmd creates the top-level "placement" command and registers all
// subcommands against the provided App. --seed and --demo load state before
// the subcommand runs; every command works on this process's in-memory state.
func NewRootCmd(app *App) *cobra.Command {
	if app.Now == nil {
		app.Now = time.Now
	}
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "placement",
		Short:         "Internship matching, progress tracking and scheduling engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if flags.seed != "" {
				seed, err := importer.LoadFile(flags.seed)
				if err != nil {
					return err
				}
				if err := seed.Apply(ctx, app.Engine); err != nil {
					return err
				}
			}
			if flags.demo && cmd.Name() != "demo" {
				if _, err := app.Engine.RunDemo(ctx); err != nil {
					return fmt.Errorf("running demo workload: %w", err)
				}
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&flags.seed, "seed", "", "Load students, internships and resources from a JSON or YAML file")
	root.PersistentFlags().BoolVar(&flags.demo, "demo", false, "Run the demo workload before the command")
	root.PersistentFlags().BoolVar(&flags.json, "json", false, "Print JSON instead of tables")

	root.AddCommand(
		newDemoCmd(app, flags),
		newStatusCmd(app, flags),
		newMetricsCmd(app, flags),
		newAnalyticsCmd(app, flags),
		newMatchesCmd(app, flags),
		newApplyCmd(app, flags),
		newAlertsCmd(app, flags),
		newEventsCmd(app, flags),
	)

	return root
}

// emit writes v as indented JSON when --json is set, otherwise the rendered
// text.
func emit(w io.Writer, flags *rootFlags, v any, render func() string) error {
	if flags.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprint(w, render())
	return err
}
