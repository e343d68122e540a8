package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/you/myapp/busdelays/internal/schedule"

	_ "modernc.org/sqlite"
)

const createTripEvents = `
CREATE TABLE trip_events (
	id INTEGER PRIMARY KEY,
	day INTEGER NOT NULL,
	route TEXT NOT NULL,
	trip INTEGER NOT NULL,
	stop TEXT NOT NULL,
	stop_sequence INTEGER NOT NULL,
	scheduled_utc TEXT NOT NULL,
	actual_utc TEXT NOT NULL,
	delay_minutes REAL NOT NULL,
	hour INTEGER NOT NULL
)`

// WriteSQLite exports events into a trip_events table at path.
// The table is dropped and recreated on every export.
func WriteSQLite(ctx context.Context, path string, events []schedule.TripEvent) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS trip_events`); err != nil {
		return fmt.Errorf("failed to drop trip_events: %w", err)
	}
	if _, err := tx.ExecContext(ctx, createTripEvents); err != nil {
		return fmt.Errorf("failed to create trip_events: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trip_events (day, route, trip, stop, stop_sequence,
			scheduled_utc, actual_utc, delay_minutes, hour)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		_, err := stmt.ExecContext(ctx,
			e.Day,
			string(e.Route),
			e.Trip,
			string(e.Stop),
			e.StopSequence,
			e.Scheduled.UTC().Format(time.RFC3339Nano),
			e.Actual.UTC().Format(time.RFC3339Nano),
			e.Delay(),
			e.Hour(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert trip event: %w", err)
		}
	}

	return tx.Commit()
}
