package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/you/myapp/busdelays/internal/schedule"
)

// TimestampLayout matches the table format analysts already load into pandas
const TimestampLayout = "2006-01-02 15:04:05.999999"

// CSVHeader is the column order of the exported trip event table
var CSVHeader = []string{"route", "stop", "scheduled", "actual", "delay", "hour"}

// EncodeCSV writes events as a delimited table with a header row
func EncodeCSV(w io.Writer, events []schedule.TripEvent) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, e := range events {
		record := []string{
			string(e.Route),
			string(e.Stop),
			e.Scheduled.Format(TimestampLayout),
			e.Actual.Format(TimestampLayout),
			strconv.FormatFloat(e.Delay(), 'f', -1, 64),
			strconv.Itoa(e.Hour()),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSV exports events to path, replacing any previous export
func WriteCSV(path string, events []schedule.TripEvent) error {
	return WriteAtomic(path, func(w io.Writer) error {
		return EncodeCSV(w, events)
	})
}
