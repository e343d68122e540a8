package cli

import (
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/you/myapp/busdelays/internal/config"
	"github.com/you/myapp/busdelays/internal/report"
)

// App carries state shared by every subcommand
type App struct {
	ConfigPath string
	Out        io.Writer
	Now        func() time.Time

	cfg *config.Config
}

// Execute runs the bus-delays command line
func Execute() error {
	app := &App{Out: os.Stdout, Now: time.Now}
	return NewRootCmd(app).Execute()
}

// NewRootCmd builds the command tree. Running the root command with no
// arguments performs the full report: summary, chart and exports.
func NewRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "bus-delays",
		Short:         "Generate a synthetic bus schedule and report its delays",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadDotEnv()
			cfg, err := config.Load(app.ConfigPath)
			if err != nil {
				return err
			}
			app.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runFull(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(
		&app.ConfigPath,
		"config",
		"",
		"Path to an optional TOML configuration file",
	)

	cmd.AddCommand(NewSummaryCmd(app))
	cmd.AddCommand(NewExportCmd(app))
	cmd.AddCommand(NewServeCmd(app))

	return cmd
}

func (app *App) runner() *report.Runner {
	return report.NewRunner(app.cfg, nil)
}

func (app *App) runFull(cmd *cobra.Command) error {
	runner := app.runner()

	res, err := runner.Analyze(app.Now())
	if err != nil {
		return err
	}
	if err := report.WriteText(app.Out, res.Summary); err != nil {
		return err
	}
	if err := runner.Chart(res); err != nil {
		return err
	}
	if err := runner.Export(cmd.Context(), res); err != nil {
		return err
	}
	return app.printOutputs(true)
}
