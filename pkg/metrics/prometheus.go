// Package metrics provides Prometheus metrics for the league service.
package metrics

import (
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation names used as the "op" label.
const (
	OpAddTeam       = "add_team"
	OpAddJockey     = "add_jockey"
	OpUpdateMatch   = "update_match"
	OpMergeTeams    = "merge_teams"
	OpUniteByRecord = "unite_by_record"
	OpJockeyRecord  = "get_jockey_record"
	OpTeamRecord    = "get_team_record"
	OpTeamOf        = "team_of"
	OpTeamSize      = "team_size"
)

var operations = []string{
	OpAddTeam, OpAddJockey, OpUpdateMatch, OpMergeTeams,
	OpUniteByRecord, OpJockeyRecord, OpTeamRecord, OpTeamOf, OpTeamSize,
}

// Report outcome labels.
const (
	ReportAccepted  = "accepted"
	ReportDuplicate = "duplicate"
	ReportRejected  = "rejected"
)

// Manager manages all Prometheus metrics for the league service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// League operations
	operations        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec

	// League state
	liveTeams    prometheus.Gauge
	retiredTeams prometheus.Gauge
	jockeys      prometheus.Gauge
	recordValues prometheus.Gauge
	arenaNodes   prometheus.Gauge

	// Match report ingestion
	reports         *prometheus.CounterVec
	reportsApplied  *prometheus.CounterVec
	queueSize       prometheus.Gauge
	queueCapacity   prometheus.Gauge
	workerCount     prometheus.Gauge
	workerLatency   prometheus.Histogram
	workerErrors    prometheus.Counter
	standingsSize   prometheus.Gauge
	standingsLookup prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
	gcMu                 sync.Mutex
	lastGC               uint32
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "plains",
		subsystem:        "league",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.operations = m.counterVec("operations_total",
		"League operations by name and result status", "op", "status")
	m.operationDuration = m.histogramVec("operation_duration_microseconds",
		"League operation latency in microseconds", "op")

	m.liveTeams = m.gauge("live_teams", "Teams that are still roots of their merge tree")
	m.retiredTeams = m.gauge("retired_teams", "Teams absorbed by a merge")
	m.jockeys = m.gauge("jockeys", "Registered jockeys")
	m.recordValues = m.gauge("record_values", "Distinct team records held in the record index")
	m.arenaNodes = m.gauge("arena_nodes", "Allocated team and jockey nodes")

	m.reports = m.counterVec("reports_total",
		"Match reports received by ingestion outcome", "outcome")
	m.reportsApplied = m.counterVec("reports_applied_total",
		"Match reports applied by workers by result status", "status")
	m.queueSize = m.gauge("report_queue_size", "Current length of the match report queue")
	m.queueCapacity = m.gauge("report_queue_capacity", "Capacity of the match report queue")
	m.workerCount = m.gauge("worker_count", "Number of report workers")
	m.workerLatency = m.histogram("worker_processing_latency_microseconds",
		"Time to apply one match report in microseconds", m.histogramBuckets)
	m.workerErrors = m.counter("worker_errors_total", "Reports a worker could not apply")
	m.standingsSize = m.gauge("standings_entries", "Live teams on the standings board")
	m.standingsLookup = m.histogram("standings_query_latency_microseconds",
		"Standings query latency in microseconds", m.histogramBuckets)

	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.errorsByComponent = m.counterVec("errors_total",
		"Errors by component and type", "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes in use")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Current number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds",
		"Garbage collection pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})

	// Pre-create label sets so every operation shows up at zero.
	for _, op := range operations {
		m.operationDuration.WithLabelValues(op)
	}
}

// RecordOperation counts one league operation and observes its latency.
func (m *Manager) RecordOperation(op, status string, elapsed time.Duration) {
	m.operations.WithLabelValues(op, status).Inc()
	m.operationDuration.WithLabelValues(op).Observe(float64(elapsed.Microseconds()))
}

// UpdateLeagueState sets the league population gauges.
func (m *Manager) UpdateLeagueState(live, retired, jockeys, recordValues, nodes int) {
	m.liveTeams.Set(float64(live))
	m.retiredTeams.Set(float64(retired))
	m.jockeys.Set(float64(jockeys))
	m.recordValues.Set(float64(recordValues))
	m.arenaNodes.Set(float64(nodes))
}

// RecordReport counts one incoming report by outcome.
func (m *Manager) RecordReport(outcome string) {
	m.reports.WithLabelValues(outcome).Inc()
}

// RecordReportApplied counts one report applied by a worker.
func (m *Manager) RecordReportApplied(status string, elapsed time.Duration) {
	m.reportsApplied.WithLabelValues(status).Inc()
	m.workerLatency.Observe(float64(elapsed.Microseconds()))
}

// RecordWorkerError counts a report the worker could not apply.
func (m *Manager) RecordWorkerError() { m.workerErrors.Inc() }

// UpdateQueue sets the queue length and capacity gauges.
func (m *Manager) UpdateQueue(size, capacity int) {
	m.queueSize.Set(float64(size))
	m.queueCapacity.Set(float64(capacity))
}

// UpdateWorkerCount sets the worker gauge.
func (m *Manager) UpdateWorkerCount(count int) { m.workerCount.Set(float64(count)) }

// UpdateStandingsSize sets the standings board size.
func (m *Manager) UpdateStandingsSize(n int) { m.standingsSize.Set(float64(n)) }

// RecordStandingsQuery observes a standings lookup.
func (m *Manager) RecordStandingsQuery(elapsed time.Duration) {
	m.standingsLookup.Observe(float64(elapsed.Microseconds()))
}

// RecordHTTPRequest counts a request and observes its duration in milliseconds.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordError counts an error raised by a component.
func (m *Manager) RecordError(component, errorType string) {
	m.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// CollectSystem samples the Go runtime into the system gauges.
func (m *Manager) CollectSystem() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.systemMemoryUsage.Set(float64(ms.HeapInuse))
	m.systemGoroutineCount.Set(float64(runtime.NumGoroutine()))

	m.gcMu.Lock()
	defer m.gcMu.Unlock()
	// PauseNs is a ring buffer of the most recent 256 pauses.
	ring := uint32(len(ms.PauseNs))
	start := m.lastGC
	if ms.NumGC-start > ring {
		start = ms.NumGC - ring
	}
	for i := start; i < ms.NumGC; i++ {
		pause := ms.PauseNs[i%ring]
		m.systemGCPauseTime.Observe(float64(pause) / float64(time.Millisecond))
	}
	m.lastGC = ms.NumGC
}

// Package-level helpers writing to the global manager.

// RecordOperation counts one league operation on the global manager.
func RecordOperation(op, status string, elapsed time.Duration) {
	globalManager.RecordOperation(op, status, elapsed)
}

// UpdateLeagueState sets the league population gauges on the global manager.
func UpdateLeagueState(live, retired, jockeys, recordValues, nodes int) {
	globalManager.UpdateLeagueState(live, retired, jockeys, recordValues, nodes)
}

// RecordReport counts one incoming report on the global manager.
func RecordReport(outcome string) { globalManager.RecordReport(outcome) }

// RecordReportApplied counts one applied report on the global manager.
func RecordReportApplied(status string, elapsed time.Duration) {
	globalManager.RecordReportApplied(status, elapsed)
}

// RecordWorkerError counts a worker failure on the global manager.
func RecordWorkerError() { globalManager.RecordWorkerError() }

// UpdateQueue sets the queue gauges on the global manager.
func UpdateQueue(size, capacity int) { globalManager.UpdateQueue(size, capacity) }

// UpdateWorkerCount sets the worker gauge on the global manager.
func UpdateWorkerCount(count int) { globalManager.UpdateWorkerCount(count) }

// UpdateStandingsSize sets the standings gauge on the global manager.
func UpdateStandingsSize(n int) { globalManager.UpdateStandingsSize(n) }

// RecordStandingsQuery observes a standings lookup on the global manager.
func RecordStandingsQuery(elapsed time.Duration) { globalManager.RecordStandingsQuery(elapsed) }

// RecordHTTPRequest records an HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordError counts a component error on the global manager.
func RecordError(component, errorType string) { globalManager.RecordError(component, errorType) }

// CollectSystem samples runtime stats into the global manager.
func CollectSystem() { globalManager.CollectSystem() }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
