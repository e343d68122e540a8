package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/you/myapp/busdelays/internal/analysis"
)

// Metrics records analysis runs for the /metrics endpoint
type Metrics struct {
	registry *prometheus.Registry

	RunsTotal          *prometheus.CounterVec
	RunDurationSeconds *prometheus.HistogramVec
	AverageDelay       prometheus.Gauge
	OnTimePercentage   prometheus.Gauge
	TripEvents         prometheus.Gauge
}

// NewMetrics creates the collectors on a private registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	metrics := &Metrics{
		registry: registry,
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bus_delay_analysis_runs_total",
				Help: "Analysis runs by trigger and outcome",
			},
			[]string{"trigger", "outcome"},
		),
		RunDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bus_delay_analysis_stage_seconds",
				Help:    "Time spent in each stage of an analysis run",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		AverageDelay: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bus_delay_average_minutes",
			Help: "Average delay of the most recent analysis",
		}),
		OnTimePercentage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bus_delay_on_time_percentage",
			Help: "On-time percentage of the most recent analysis",
		}),
		TripEvents: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bus_delay_trip_events",
			Help: "Trip events in the most recent analysis",
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		metrics.RunsTotal,
		metrics.RunDurationSeconds,
		metrics.AverageDelay,
		metrics.OnTimePercentage,
		metrics.TripEvents,
	)

	return metrics
}

// ObserveStage records how long a stage took
func (m *Metrics) ObserveStage(stage string, started time.Time) {
	m.RunDurationSeconds.WithLabelValues(stage).Observe(time.Since(started).Seconds())
}

// ObserveRun counts a finished run and, on success, publishes its summary
func (m *Metrics) ObserveRun(trigger string, summary *analysis.Summary, err error) {
	if err != nil {
		m.RunsTotal.WithLabelValues(trigger, "error").Inc()
		return
	}
	m.RunsTotal.WithLabelValues(trigger, "ok").Inc()
	if summary != nil {
		m.AverageDelay.Set(summary.AverageDelay)
		m.OnTimePercentage.Set(summary.OnTimePercentage)
		m.TripEvents.Set(float64(summary.TotalRecords))
	}
}

// Registry exposes the underlying registry (for tests and extra collectors)
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
