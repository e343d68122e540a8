package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/you/myapp/busdelays/internal/analysis"
)

const reportTitle = "BUS DELAY ANALYSIS REPORT"

// WriteText prints the summary as the plain-text report shown by the CLI
func WriteText(w io.Writer, s analysis.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, reportTitle)
	fmt.Fprintln(tw, strings.Repeat("=", len(reportTitle)))
	fmt.Fprintf(tw, "Total records:\t%d\n", s.TotalRecords)
	fmt.Fprintf(tw, "Average delay:\t%.2f min\n", s.AverageDelay)
	fmt.Fprintf(tw, "Max delay:\t%.2f min\n", s.MaxDelay)
	fmt.Fprintf(tw, "On-time percentage:\t%.1f%%\n", s.OnTimePercentage)

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Worst routes:")
	for _, r := range s.WorstRoutes {
		fmt.Fprintf(tw, "  %s\t%.2f min\n", r.Key, r.MeanDelay)
	}

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Worst stops:")
	for _, r := range s.WorstStops {
		fmt.Fprintf(tw, "  %s\t%.2f min\n", r.Key, r.MeanDelay)
	}

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Worst hours:")
	for _, r := range s.WorstHours {
		fmt.Fprintf(tw, "  %02d:00\t%.2f min\n", r.Key, r.MeanDelay)
	}

	return tw.Flush()
}
