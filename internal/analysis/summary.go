package analysis

import (
	"cmp"

	"github.com/you/myapp/busdelays/internal/schedule"
)

// OnTimeThresholdMinutes is the largest absolute delay still counted as on time
const OnTimeThresholdMinutes = 2.0

// WorstHoursLimit caps the number of hours reported in Summary.WorstHours
const WorstHoursLimit = 3

// Ranked is one entry of a delay ranking
type Ranked[K cmp.Ordered] struct {
	Key       K       `json:"key"`
	MeanDelay float64 `json:"mean_delay"`
}

// Summary is the read-only aggregate view over a set of trip events.
// Rankings are ordered by mean delay, worst first.
type Summary struct {
	TotalRecords     int                      `json:"total_records"`
	AverageDelay     float64                  `json:"average_delay"`
	MaxDelay         float64                  `json:"max_delay"`
	OnTimePercentage float64                  `json:"on_time_percentage"`
	WorstRoutes      []Ranked[schedule.Route] `json:"worst_routes"`
	WorstStops       []Ranked[schedule.Stop]  `json:"worst_stops"`
	WorstHours       []Ranked[int]            `json:"worst_hours"`
}

// GroupStat describes the delays of every event sharing one key
type GroupStat[K cmp.Ordered] struct {
	Key       K       `json:"key"`
	Count     int     `json:"count"`
	MeanDelay float64 `json:"mean_delay"`
	StdDev    float64 `json:"std_dev"`
	MaxDelay  float64 `json:"max_delay"`
}
