// Package metrics provides observability for seriesflow using Prometheus
// metrics. Collectors cover the two hot paths of the adaptation layer:
// loading raw tables from files and normalizing series during dataset
// iteration.
//
// # Basic Usage
//
//	timer := metrics.NewTimer()
//	series, err := normalize(key, tbl, cfg)
//	metrics.NormalizationLatency.Observe(timer.Stop().Seconds())
//	if err != nil {
//	    metrics.NormalizationErrors.WithLabelValues(kindOf(err)).Inc()
//	} else {
//	    metrics.SeriesNormalized.Inc()
//	}
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SeriesNormalized counts successfully normalized series across all
	// dataset passes.
	SeriesNormalized = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seriesflow_series_normalized_total",
			Help: "Total number of series normalized successfully",
		},
	)

	// NormalizationErrors counts normalization failures by domain error
	// kind (irregular_timestamps, frequency_mismatch, ...).
	NormalizationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seriesflow_normalization_errors_total",
			Help: "Total number of normalization failures by error kind",
		},
		[]string{"kind"},
	)

	// NormalizationLatency tracks the per-series normalization latency in
	// seconds.
	NormalizationLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "seriesflow_normalization_latency_seconds",
			Help:    "Per-series normalization latency in seconds",
			Buckets: prometheus.ExponentialBuckets(1e-6, 10, 8), // 1µs .. 10s
		},
	)

	// RowsLoaded counts raw table rows loaded, labeled by source format.
	RowsLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seriesflow_rows_loaded_total",
			Help: "Total number of raw table rows loaded by source format",
		},
		[]string{"format"},
	)

	// DatasetSeries reports the number of series in the most recently
	// constructed dataset.
	DatasetSeries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "seriesflow_dataset_series",
			Help: "Number of series in the most recently constructed dataset",
		},
	)
)

// Timer measures elapsed time for latency observations.
type Timer struct {
	start time.Time
}

// NewTimer starts a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Stop returns the elapsed time since the timer was started.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}
