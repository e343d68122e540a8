package chart

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/myapp/busdelays/internal/analysis"
	"github.com/you/myapp/busdelays/internal/schedule"
)

func TestRenderProducesPNG(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	events := schedule.Generate(now, schedule.NewRand(schedule.DefaultSeed))

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, events))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 1800, img.Bounds().Dx())
	assert.Equal(t, 1200, img.Bounds().Dy())
}

func TestRenderRejectsEmptyInput(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, nil)
	assert.True(t, errors.Is(err, analysis.ErrNoEvents))
	assert.Zero(t, buf.Len())
}

func TestRenderFile(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	events := schedule.Generate(now, schedule.NewRand(schedule.DefaultSeed))
	path := filepath.Join(t.TempDir(), "out", "bus_analysis.png")

	require.NoError(t, RenderFile(path, events))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = png.DecodeConfig(f)
	require.NoError(t, err)
}

func TestRenderFileKeepsPreviousChartOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bus_analysis.png")
	require.NoError(t, os.WriteFile(path, []byte("previous"), 0644))

	err := RenderFile(path, nil)
	assert.True(t, errors.Is(err, analysis.ErrNoEvents))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
