package chart

import (
	"fmt"
	"io"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/you/myapp/busdelays/internal/analysis"
	"github.com/you/myapp/busdelays/internal/export"
	"github.com/you/myapp/busdelays/internal/schedule"
)

const (
	HistogramBins = 30
	DPI           = 150

	width  = 12 * vg.Inch
	height = 8 * vg.Inch
)

// Render draws the 2x2 delay overview (distribution, by hour, by route,
// by stop) and encodes it as PNG
func Render(w io.Writer, events []schedule.TripEvent) error {
	if len(events) == 0 {
		return analysis.ErrNoEvents
	}

	histogram, err := delayHistogram(events)
	if err != nil {
		return err
	}
	byHour, err := hourlyBars(events)
	if err != nil {
		return err
	}
	byRoute, err := routeBars(events)
	if err != nil {
		return err
	}
	byStop, err := stopBars(events)
	if err != nil {
		return err
	}

	plots := [][]*plot.Plot{
		{histogram, byHour},
		{byRoute, byStop},
	}

	img := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(DPI))
	dc := draw.New(img)

	tiles := draw.Tiles{
		Rows:      2,
		Cols:      2,
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}

	canvases := plot.Align(plots, tiles, dc)
	for row := range plots {
		for col := range plots[row] {
			plots[row][col].Draw(canvases[row][col])
		}
	}

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("failed to encode chart: %w", err)
	}
	return nil
}

// RenderFile renders the chart to path, replacing any previous chart
func RenderFile(path string, events []schedule.TripEvent) error {
	return export.WriteAtomic(path, func(w io.Writer) error {
		return Render(w, events)
	})
}

func delayHistogram(events []schedule.TripEvent) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Delay Distribution"
	p.X.Label.Text = "Delay (min)"
	p.Y.Label.Text = "Events"

	hist, err := plotter.NewHist(plotter.Values(analysis.Delays(events)), HistogramBins)
	if err != nil {
		return nil, fmt.Errorf("failed to build histogram: %w", err)
	}
	p.Add(hist)
	return p, nil
}

func hourlyBars(events []schedule.TripEvent) (*plot.Plot, error) {
	stats := analysis.HourStats(events)
	values := make(plotter.Values, len(stats))
	labels := make([]string, len(stats))
	for i, s := range stats {
		values[i] = s.MeanDelay
		labels[i] = strconv.Itoa(s.Key)
	}
	return barPlot("Average Delay by Hour", "Hour", values, labels, false)
}

func routeBars(events []schedule.TripEvent) (*plot.Plot, error) {
	stats := analysis.RouteStats(events)
	values := make(plotter.Values, len(stats))
	labels := make([]string, len(stats))
	for i, s := range stats {
		values[i] = s.MeanDelay
		labels[i] = string(s.Key)
	}
	return barPlot("Average Delay by Route", "Route", values, labels, true)
}

func stopBars(events []schedule.TripEvent) (*plot.Plot, error) {
	stats := analysis.StopStats(events)
	values := make(plotter.Values, len(stats))
	labels := make([]string, len(stats))
	for i, s := range stats {
		values[i] = s.MeanDelay
		labels[i] = string(s.Key)
	}
	return barPlot("Average Delay by Stop", "Stop", values, labels, false)
}

func barPlot(title, category string, values plotter.Values, labels []string, horizontal bool) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return nil, fmt.Errorf("failed to build %q bars: %w", title, err)
	}
	bars.Horizontal = horizontal
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	if horizontal {
		p.NominalY(labels...)
		p.Y.Label.Text = category
		p.X.Label.Text = "Mean delay (min)"
	} else {
		p.NominalX(labels...)
		p.X.Label.Text = category
		p.Y.Label.Text = "Mean delay (min)"
	}
	return p, nil
}
