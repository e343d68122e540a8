package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, string) {
	t.Helper()
	outDir := t.TempDir()
	t.Setenv("OUTPUT_DIR", outDir)
	t.Setenv("SQLITE_EXPORT_PATH", "")

	var out bytes.Buffer
	app := &App{
		Out: &out,
		Now: func() time.Time { return time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC) },
	}
	if args == nil {
		args = []string{}
	}
	cmd := NewRootCmd(app)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	require.NoError(t, cmd.Execute())
	return out.String(), outDir
}

func TestRootRunsFullReport(t *testing.T) {
	out, dir := runCLI(t)

	assert.Contains(t, out, "BUS DELAY ANALYSIS REPORT")
	assert.Contains(t, out, "Total records:")
	assert.Contains(t, out, "3600")
	assert.Contains(t, out, "Chart saved to")

	for _, name := range []string{"bus_data.csv", "bus_analysis.png", "bus_trip_updates.pb"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestSummaryWritesNothing(t *testing.T) {
	out, dir := runCLI(t, "summary")

	assert.Contains(t, out, "Worst hours:")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExportWithoutChart(t *testing.T) {
	out, dir := runCLI(t, "export", "--no-chart")

	assert.NotContains(t, out, "BUS DELAY ANALYSIS REPORT")
	assert.NotContains(t, out, "Chart saved to")

	_, err := os.Stat(filepath.Join(dir, "bus_data.csv"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "bus_analysis.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestSummaryIsStableForOneDay(t *testing.T) {
	first, _ := runCLI(t, "summary")
	second, _ := runCLI(t, "summary")
	assert.Equal(t, first, second)
}

func TestBadConfigFile(t *testing.T) {
	cmd := NewRootCmd(&App{Out: &bytes.Buffer{}, Now: time.Now})
	cmd.SetArgs([]string{"summary", "--config", filepath.Join(t.TempDir(), "missing.toml")})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
