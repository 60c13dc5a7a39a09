// Package metrics exposes Prometheus instrumentation for the monitor loop.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SamplesTotal counts sampling attempts per resource and outcome.
	SamplesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resource_pulse_samples_total",
			Help: "Total number of resource sampling attempts",
		},
		[]string{"resource", "status"},
	)

	// BreachesTotal counts fired threshold breaches per resource.
	BreachesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resource_pulse_breaches_total",
			Help: "Total number of threshold breaches fired",
		},
		[]string{"resource"},
	)

	// WindowAverage is the most recent windowed average per resource.
	WindowAverage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "resource_pulse_window_average_percent",
			Help: "Current sliding-window average utilization percent",
		},
		[]string{"resource"},
	)

	// WindowFill is the current sample count per resource window.
	WindowFill = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "resource_pulse_window_fill",
			Help: "Current number of samples held in the sliding window",
		},
		[]string{"resource"},
	)

	// TickDuration observes how long one full tick of detector checks takes.
	TickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "resource_pulse_tick_duration_seconds",
			Help:    "Duration of one full sampling tick",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5},
		},
	)
)
