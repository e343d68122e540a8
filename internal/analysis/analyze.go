package analysis

import (
	"cmp"
	"errors"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/you/myapp/busdelays/internal/metrics"
	"github.com/you/myapp/busdelays/internal/schedule"
)

// ErrNoEvents is returned when there is nothing to aggregate
var ErrNoEvents = errors.New("no trip events to analyze")

// Analyze computes the delay summary for events.
// An empty input is rejected with ErrNoEvents. The input is only read.
func Analyze(events []schedule.TripEvent) (Summary, error) {
	if len(events) == 0 {
		return Summary{}, ErrNoEvents
	}

	delays := Delays(events)
	onTime := 0
	for _, d := range delays {
		if math.Abs(d) <= OnTimeThresholdMinutes {
			onTime++
		}
	}

	return Summary{
		TotalRecords:     len(events),
		AverageDelay:     roundTo(stat.Mean(delays, nil), 2),
		MaxDelay:         roundTo(floats.Max(delays), 2),
		OnTimePercentage: roundTo(float64(onTime)/float64(len(events))*100, 1),
		WorstRoutes:      rank(RouteStats(events), 0),
		WorstStops:       rank(StopStats(events), 0),
		WorstHours:       rank(HourStats(events), WorstHoursLimit),
	}, nil
}

// Delays returns the delay of every event, in input order
func Delays(events []schedule.TripEvent) []float64 {
	out := make([]float64, len(events))
	for i, e := range events {
		out[i] = e.Delay()
	}
	return out
}

// RouteStats groups delays by route, ordered by route
func RouteStats(events []schedule.TripEvent) []GroupStat[schedule.Route] {
	return groupBy(events, func(e schedule.TripEvent) schedule.Route { return e.Route })
}

// StopStats groups delays by stop, ordered by stop
func StopStats(events []schedule.TripEvent) []GroupStat[schedule.Stop] {
	return groupBy(events, func(e schedule.TripEvent) schedule.Stop { return e.Stop })
}

// HourStats groups delays by hour of actual arrival, ordered by hour
func HourStats(events []schedule.TripEvent) []GroupStat[int] {
	return groupBy(events, schedule.TripEvent.Hour)
}

func groupBy[K cmp.Ordered](events []schedule.TripEvent, keyOf func(schedule.TripEvent) K) []GroupStat[K] {
	groups := metrics.NewGrouped[K]()
	for _, e := range events {
		groups.Update(keyOf(e), e.Delay())
	}

	keys := groups.Keys()
	slices.Sort(keys)

	out := make([]GroupStat[K], 0, len(keys))
	for _, key := range keys {
		state, _ := groups.Get(key)
		out = append(out, GroupStat[K]{
			Key:       key,
			Count:     state.Count,
			MeanDelay: state.Mean,
			StdDev:    state.GetStdDev(),
			MaxDelay:  state.Max,
		})
	}
	return out
}

// rank orders groups worst first. Groups arrive sorted by key and the sort is
// stable, so equal means stay in ascending key order. limit <= 0 keeps all.
func rank[K cmp.Ordered](groups []GroupStat[K], limit int) []Ranked[K] {
	out := make([]Ranked[K], len(groups))
	for i, g := range groups {
		out[i] = Ranked[K]{Key: g.Key, MeanDelay: g.MeanDelay}
	}

	slices.SortStableFunc(out, func(a, b Ranked[K]) int {
		return cmp.Compare(b.MeanDelay, a.MeanDelay)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// roundTo rounds half away from zero to the given number of decimals
func roundTo(value float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(value*scale) / scale
}
