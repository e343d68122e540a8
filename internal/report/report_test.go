package report

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/myapp/busdelays/internal/analysis"
	"github.com/you/myapp/busdelays/internal/config"
	"github.com/you/myapp/busdelays/internal/schedule"
	"github.com/you/myapp/busdelays/internal/telemetry"
)

var now = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.OutputDir = t.TempDir()
	return cfg
}

func TestRunWritesAllOutputs(t *testing.T) {
	cfg := testConfig(t)
	cfg.SQLiteExportPath = filepath.Join(cfg.OutputDir, "bus_data.db")
	metrics := telemetry.NewMetrics()
	runner := NewRunner(cfg, metrics)

	res, err := runner.Run(context.Background(), TriggerCLI, now)
	require.NoError(t, err)

	assert.Equal(t, schedule.EventCount, res.Summary.TotalRecords)
	assert.Len(t, res.Events, schedule.EventCount)
	assert.NotEqual(t, uuid.Nil, res.RunID)

	for _, path := range []string{cfg.CSVPath(), cfg.ChartPath(), cfg.FeedPath(), cfg.SQLiteExportPath} {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		assert.NotZero(t, info.Size(), path)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RunsTotal.WithLabelValues(TriggerCLI, "ok")))
	assert.Equal(t, float64(schedule.EventCount), testutil.ToFloat64(metrics.TripEvents))
	assert.Equal(t, res.Summary.OnTimePercentage, testutil.ToFloat64(metrics.OnTimePercentage))
}

func TestRunWithoutSQLite(t *testing.T) {
	cfg := testConfig(t)
	runner := NewRunner(cfg, nil)

	_, err := runner.Run(context.Background(), TriggerHTTP, now)
	require.NoError(t, err)

	entries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{config.CSVFileName, config.ChartFileName, config.FeedFileName}, names)
}

func TestRunReportsExportFailure(t *testing.T) {
	cfg := testConfig(t)
	// A regular file where the output directory should be
	blocker := filepath.Join(cfg.OutputDir, "blocked")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	cfg.OutputDir = filepath.Join(blocker, "out")

	metrics := telemetry.NewMetrics()
	_, err := NewRunner(cfg, metrics).Run(context.Background(), TriggerHTTP, now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to export csv")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RunsTotal.WithLabelValues(TriggerHTTP, "error")))
}

func TestAnalyzeIsRepeatable(t *testing.T) {
	runner := NewRunner(testConfig(t), nil)

	first, err := runner.Analyze(now)
	require.NoError(t, err)
	second, err := runner.Analyze(now)
	require.NoError(t, err)

	assert.Equal(t, first.Summary, second.Summary)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestWriteText(t *testing.T) {
	summary := analysis.Summary{
		TotalRecords:     3600,
		AverageDelay:     1.83,
		MaxDelay:         12.4,
		OnTimePercentage: 71.2,
		WorstRoutes:      []analysis.Ranked[schedule.Route]{{Key: "R2", MeanDelay: 1.9}, {Key: "R1", MeanDelay: 1.8}},
		WorstStops:       []analysis.Ranked[schedule.Stop]{{Key: "Stop_C", MeanDelay: 1.85}},
		WorstHours:       []analysis.Ranked[int]{{Key: 8, MeanDelay: 5.01}, {Key: 9, MeanDelay: 4.99}, {Key: 7, MeanDelay: 1.02}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, summary))
	out := buf.String()

	assert.Contains(t, out, "BUS DELAY ANALYSIS REPORT")
	assert.Contains(t, out, "3600")
	assert.Contains(t, out, "1.83 min")
	assert.Contains(t, out, "12.40 min")
	assert.Contains(t, out, "71.2%")
	assert.Contains(t, out, "08:00")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("R2")), bytes.Index(buf.Bytes(), []byte("R1")), "routes keep ranking order")
}

// TestRunHoldsWritesAcrossStages pauses one run between its export and chart
// stages and checks a second run cannot touch the output files meanwhile.
func TestRunHoldsWritesAcrossStages(t *testing.T) {
	cfg := testConfig(t)
	runner := NewRunner(cfg, nil)

	paused := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	runner.afterExport = func() {
		if calls.Add(1) == 1 {
			close(paused)
			<-release
		}
	}

	ctx := context.Background()
	first := make(chan error, 1)
	go func() {
		_, err := runner.Run(ctx, TriggerHTTP, now)
		first <- err
	}()
	<-paused

	firstCSV, err := os.ReadFile(cfg.CSVPath())
	require.NoError(t, err)

	second := make(chan error, 1)
	go func() {
		_, err := runner.Run(ctx, TriggerHTTP, now.AddDate(0, 0, 1))
		second <- err
	}()

	select {
	case err := <-second:
		close(release)
		t.Fatalf("second run finished while the first was mid-write: %v", err)
	case <-time.After(200 * time.Millisecond):
	}

	csvDuringPause, err := os.ReadFile(cfg.CSVPath())
	require.NoError(t, err)
	assert.Equal(t, firstCSV, csvDuringPause)

	close(release)
	require.NoError(t, <-first)
	require.NoError(t, <-second)

	finalCSV, err := os.ReadFile(cfg.CSVPath())
	require.NoError(t, err)
	assert.NotEqual(t, firstCSV, finalCSV)
	assert.Equal(t, int32(2), calls.Load())
}
