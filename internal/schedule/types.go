package schedule

import (
	"fmt"
	"time"
)

// Route identifies one of the fixed bus routes
type Route string

// Stop identifies one of the fixed stops served by every route
type Stop string

const (
	RouteR1 Route = "R1"
	RouteR2 Route = "R2"
	RouteR3 Route = "R3"
)

const (
	StopA Stop = "Stop_A"
	StopB Stop = "Stop_B"
	StopC Stop = "Stop_C"
	StopD Stop = "Stop_D"
)

var routes = [...]Route{RouteR1, RouteR2, RouteR3}

var stops = [...]Stop{StopA, StopB, StopC, StopD}

// Routes returns the route topology in generation order
func Routes() []Route {
	return append([]Route(nil), routes[:]...)
}

// Stops returns the stop topology in generation order
func Stops() []Stop {
	return append([]Stop(nil), stops[:]...)
}

// TripEvent is one simulated stop visit: a scheduled arrival and the
// arrival that actually happened. Delay and hour are always derived from
// the two timestamps, never stored next to them.
type TripEvent struct {
	Day          int // 0 = oldest day of the window
	Route        Route
	Trip         int // 0-based trip index within the day
	Stop         Stop
	StopSequence int
	Scheduled    time.Time
	Actual       time.Time
}

// Delay returns actual minus scheduled arrival in minutes (negative = early)
func (e TripEvent) Delay() float64 {
	return e.Actual.Sub(e.Scheduled).Minutes()
}

// Hour returns the hour-of-day of the actual arrival
func (e TripEvent) Hour() int {
	return e.Actual.Hour()
}

// TripID identifies the trip this event belongs to, e.g. "R1-20240105-0800"
func (e TripEvent) TripID() string {
	start := e.TripStart()
	return fmt.Sprintf("%s-%s-%s", e.Route, start.Format("20060102"), start.Format("1504"))
}

// TripStart returns the scheduled departure of the trip (its first stop)
func (e TripEvent) TripStart() time.Time {
	return e.Scheduled.Add(-time.Duration(e.StopSequence*StopSpacingMinutes) * time.Minute)
}
