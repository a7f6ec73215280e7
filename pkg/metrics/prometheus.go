// Package metrics provides Prometheus metrics for the fetch, store, and
// report pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the tool.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Remote catalog fetch metrics
	apiRequests  *prometheus.CounterVec
	apiRetries   prometheus.Counter
	apiErrors    prometheus.Counter
	fetchLatency prometheus.Histogram

	// Local store metrics
	rowsUpserted    *prometheus.CounterVec
	rowsDeleted     *prometheus.CounterVec
	playsRecorded   prometheus.Counter
	snapshotLatency prometheus.Histogram

	// Report metrics
	reportsWritten *prometheus.CounterVec
	reportDuration prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "bggstats",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.apiRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "api_requests_total",
			Help:      "Total number of catalog API requests by endpoint and status",
		},
		[]string{"endpoint", "status"},
	)

	m.apiRetries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "api_retries_total",
		Help:      "Total number of retries after a queued (202) catalog response",
	})

	m.apiErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "api_errors_total",
		Help:      "Total number of failed catalog API requests",
	})

	m.fetchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_latency_milliseconds",
		Help:      "Histogram of catalog API request latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.rowsUpserted = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "rows_upserted_total",
			Help:      "Total number of rows inserted or replaced by table",
		},
		[]string{"table"},
	)

	m.rowsDeleted = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "rows_deleted_total",
			Help:      "Total number of rows deleted by table",
		},
		[]string{"table"},
	)

	m.playsRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "plays_recorded_total",
		Help:      "Total play quantity written to the store",
	})

	m.snapshotLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_latency_milliseconds",
		Help:      "Histogram of analytics snapshot load latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.reportsWritten = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "reports_written_total",
			Help:      "Total number of reports written by report name",
		},
		[]string{"report"},
	)

	m.reportDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "report_duration_milliseconds",
		Help:      "Histogram of report computation duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

// RecordAPIRequest counts one catalog API request.
func RecordAPIRequest(endpoint, status string) {
	globalManager.apiRequests.WithLabelValues(endpoint, status).Inc()
}

// RecordAPIRetry counts one 202-queued retry.
func RecordAPIRetry() {
	globalManager.apiRetries.Inc()
}

// RecordAPIError counts one failed catalog API request.
func RecordAPIError() {
	globalManager.apiErrors.Inc()
}

// ObserveFetchLatency records catalog API request latency.
func ObserveFetchLatency(latencyMs float64) {
	globalManager.fetchLatency.Observe(latencyMs)
}

// RecordRowsUpserted counts rows inserted or replaced in a table.
func RecordRowsUpserted(table string, n int) {
	globalManager.rowsUpserted.WithLabelValues(table).Add(float64(n))
}

// RecordRowsDeleted counts rows deleted from a table.
func RecordRowsDeleted(table string, n int) {
	globalManager.rowsDeleted.WithLabelValues(table).Add(float64(n))
}

// RecordPlays counts play quantity written to the store.
func RecordPlays(quantity int) {
	globalManager.playsRecorded.Add(float64(quantity))
}

// ObserveSnapshotLatency records snapshot load latency.
func ObserveSnapshotLatency(latencyMs float64) {
	globalManager.snapshotLatency.Observe(latencyMs)
}

// RecordReportWritten counts one written report.
func RecordReportWritten(report string) {
	globalManager.reportsWritten.WithLabelValues(report).Inc()
}

// ObserveReportDuration records report computation duration.
func ObserveReportDuration(latencyMs float64) {
	globalManager.reportDuration.Observe(latencyMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
