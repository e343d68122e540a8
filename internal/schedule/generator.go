package schedule

import (
	"math"
	"math/rand/v2"
	"time"
)

const (
	// DefaultSeed keeps repeated runs on the same day identical
	DefaultSeed uint64 = 42

	WindowDays         = 30
	TripsPerDay        = 10
	FirstTripHour      = 7
	StopSpacingMinutes = 10

	// EventCount is the number of events a single Generate call produces
	EventCount = WindowDays * len(routes) * TripsPerDay * len(stops)
)

// Delay model parameters in minutes
const (
	peakDelayMean      = 5.0
	peakDelayStdDev    = 2.0
	offPeakDelayMean   = 1.0
	offPeakDelayStdDev = 1.0
)

// IsPeakHour reports whether trips at the given hour use the peak delay model
func IsPeakHour(hour int) bool {
	switch hour {
	case 8, 9, 17:
		return true
	}
	return false
}

// NewRand returns the random source used by Generate, seeded explicitly so
// callers never share state between runs
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// Generate builds the synthetic dataset for the 30 days preceding now.
//
// Events are emitted day by day (oldest first), then by route, trip and stop,
// for a total of EventCount records. All randomness comes from rng, so the
// same seed and the same calendar day always yield the same delays.
func Generate(now time.Time, rng *rand.Rand) []TripEvent {
	events := make([]TripEvent, 0, EventCount)
	start := now.AddDate(0, 0, -WindowDays)
	loc := now.Location()

	for day := 0; day < WindowDays; day++ {
		year, month, date := start.AddDate(0, 0, day).Date()

		for _, route := range routes {
			for trip := 0; trip < TripsPerDay; trip++ {
				hour := FirstTripHour + trip

				for i, stop := range stops {
					scheduled := time.Date(year, month, date, hour, i*StopSpacingMinutes, 0, 0, loc)
					delay := drawDelay(rng, hour)

					events = append(events, TripEvent{
						Day:          day,
						Route:        route,
						Trip:         trip,
						Stop:         stop,
						StopSequence: i,
						Scheduled:    scheduled,
						Actual:       scheduled.Add(minutesToDuration(delay)),
					})
				}
			}
		}
	}

	return events
}

func drawDelay(rng *rand.Rand, hour int) float64 {
	if IsPeakHour(hour) {
		return rng.NormFloat64()*peakDelayStdDev + peakDelayMean
	}
	return rng.NormFloat64()*offPeakDelayStdDev + offPeakDelayMean
}

// minutesToDuration converts fractional minutes to a duration with
// microsecond resolution
func minutesToDuration(minutes float64) time.Duration {
	micros := math.Round(minutes * float64(time.Minute/time.Microsecond))
	return time.Duration(micros) * time.Microsecond
}
