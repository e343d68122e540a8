package report

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/you/myapp/busdelays/internal/analysis"
	"github.com/you/myapp/busdelays/internal/chart"
	"github.com/you/myapp/busdelays/internal/config"
	"github.com/you/myapp/busdelays/internal/export"
	"github.com/you/myapp/busdelays/internal/schedule"
	"github.com/you/myapp/busdelays/internal/telemetry"
)

// Triggers label where a run came from
const (
	TriggerHTTP = "http"
	TriggerCLI  = "cli"
)

// Result is the outcome of one generate-and-analyze run
type Result struct {
	RunID       uuid.UUID
	GeneratedAt time.Time
	Events      []schedule.TripEvent
	Summary     analysis.Summary
}

// Runner wires the generator and aggregator to the file collaborators.
// File writes are serialized so concurrent runs never interleave exports.
type Runner struct {
	cfg     *config.Config
	metrics *telemetry.Metrics

	mu sync.Mutex
	// afterExport runs between the export and chart stages of Run
	afterExport func()
}

// NewRunner creates a runner; metrics may be nil
func NewRunner(cfg *config.Config, metrics *telemetry.Metrics) *Runner {
	return &Runner{cfg: cfg, metrics: metrics}
}

// Analyze generates a fresh dataset for now and aggregates it. No files are written.
func (r *Runner) Analyze(now time.Time) (*Result, error) {
	started := time.Now()
	events := schedule.Generate(now, schedule.NewRand(r.cfg.Seed))
	r.observeStage("generate", started)

	started = time.Now()
	summary, err := analysis.Analyze(events)
	r.observeStage("analyze", started)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze trip events: %w", err)
	}

	return &Result{
		RunID:       uuid.New(),
		GeneratedAt: now,
		Events:      events,
		Summary:     summary,
	}, nil
}

// Export writes the CSV table, the GTFS-RT feed and, when configured, the SQLite copy
func (r *Runner) Export(ctx context.Context, res *Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.exportLocked(ctx, res)
}

func (r *Runner) exportLocked(ctx context.Context, res *Result) error {
	started := time.Now()
	defer r.observeStage("export", started)

	if err := export.WriteCSV(r.cfg.CSVPath(), res.Events); err != nil {
		return fmt.Errorf("failed to export csv: %w", err)
	}
	if err := export.WriteTripUpdates(r.cfg.FeedPath(), res.Events, res.GeneratedAt); err != nil {
		return fmt.Errorf("failed to export trip updates: %w", err)
	}
	if r.cfg.SQLiteExportPath != "" {
		if err := export.WriteSQLite(ctx, r.cfg.SQLiteExportPath, res.Events); err != nil {
			return fmt.Errorf("failed to export sqlite: %w", err)
		}
	}
	return nil
}

// Chart renders the overview chart to the fixed chart path
func (r *Runner) Chart(res *Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.chartLocked(res)
}

func (r *Runner) chartLocked(res *Result) error {
	started := time.Now()
	defer r.observeStage("chart", started)

	if err := chart.RenderFile(r.cfg.ChartPath(), res.Events); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// Run performs the full pipeline: generate, analyze, export and chart
func (r *Runner) Run(ctx context.Context, trigger string, now time.Time) (res *Result, err error) {
	defer func() {
		if r.metrics != nil {
			var summary *analysis.Summary
			if res != nil {
				summary = &res.Summary
			}
			r.metrics.ObserveRun(trigger, summary, err)
		}
	}()

	res, err = r.Analyze(now)
	if err != nil {
		return nil, err
	}
	if err := r.writeAll(ctx, res); err != nil {
		return nil, err
	}

	log.Printf("Analysis run %s (%s): %d events, avg delay %.2f min, on-time %.1f%%",
		res.RunID, trigger, res.Summary.TotalRecords, res.Summary.AverageDelay, res.Summary.OnTimePercentage)
	return res, nil
}

// writeAll holds the lock across both stages so the exports and the chart
// on disk always come from the same run
func (r *Runner) writeAll(ctx context.Context, res *Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.exportLocked(ctx, res); err != nil {
		return err
	}
	if r.afterExport != nil {
		r.afterExport()
	}
	return r.chartLocked(res)
}

func (r *Runner) observeStage(stage string, started time.Time) {
	if r.metrics != nil {
		r.metrics.ObserveStage(stage, started)
	}
}
