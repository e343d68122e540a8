package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/you/myapp/busdelays/internal/report"
	"github.com/you/myapp/busdelays/internal/server"
)

func NewSummaryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the delay report without writing any files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.runner().Analyze(app.Now())
			if err != nil {
				return err
			}
			return report.WriteText(app.Out, res.Summary)
		},
	}

	return cmd
}

func NewExportCmd(app *App) *cobra.Command {
	var skipChart bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the trip event table, GTFS-RT feed and chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := app.runner()
			res, err := runner.Analyze(app.Now())
			if err != nil {
				return err
			}
			if err := runner.Export(cmd.Context(), res); err != nil {
				return err
			}
			if !skipChart {
				if err := runner.Chart(res); err != nil {
					return err
				}
			}
			return app.printOutputs(!skipChart)
		},
	}

	cmd.Flags().BoolVar(&skipChart, "no-chart", false, "Skip rendering the chart")

	return cmd
}

func NewServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the delay analysis HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return server.Serve(ctx, app.cfg)
		},
	}

	return cmd
}

func (app *App) printOutputs(withChart bool) error {
	fmt.Fprintln(app.Out)
	fmt.Fprintf(app.Out, "Data exported to %s\n", app.cfg.CSVPath())
	fmt.Fprintf(app.Out, "Trip updates feed written to %s\n", app.cfg.FeedPath())
	if app.cfg.SQLiteExportPath != "" {
		fmt.Fprintf(app.Out, "SQLite copy written to %s\n", app.cfg.SQLiteExportPath)
	}
	if withChart {
		fmt.Fprintf(app.Out, "Chart saved to %s\n", app.cfg.ChartPath())
	}
	return nil
}
