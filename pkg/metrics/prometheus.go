// Package metrics provides Prometheus metrics for the readiness scoring
// and ranking engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector the engine records into.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Scoring
	scoreRecalculations prometheus.Counter
	scoreRecalcErrors   prometheus.Counter
	scoreRecalcLatency  prometheus.Histogram

	// Ranking
	globalRebuilds       prometheus.Counter
	globalRebuildErrors  prometheus.Counter
	globalRebuildLatency prometheus.Histogram
	jobRebuilds          prometheus.Counter
	jobRankUpserts       prometheus.Counter
	rankedStudents       prometheus.Gauge
	totalStudents        prometheus.Gauge

	// Triggers and queue
	triggersAccepted   prometheus.Counter
	triggersCoalesced  prometheus.Counter
	triggersDropped    prometheus.Counter
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueues      prometheus.Counter
	queueDequeues      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers
	workerCount   prometheus.Gauge
	workerErrors  prometheus.Counter
	workerLatency prometheus.Histogram

	// Store
	storeWrites       prometheus.Counter
	storeWriteLatency prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System
	systemMemoryUsage prometheus.Gauge
	systemGoroutines  prometheus.Gauge
	systemGCPause     prometheus.Histogram
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
		namespace:        "readyrank",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return factory.NewGauge(prometheus.GaugeOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		})
	}
	histogram := func(name, help string) prometheus.Histogram {
		return factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
			Buckets: m.histogramBuckets,
		})
	}

	m.scoreRecalculations = counter("score_recalculations_total", "Completed per-student score recalculations")
	m.scoreRecalcErrors = counter("score_recalculation_errors_total", "Failed per-student score recalculations")
	m.scoreRecalcLatency = histogram("score_recalculation_latency_ms", "Per-student recalculation latency in milliseconds")

	m.globalRebuilds = counter("global_ranking_rebuilds_total", "Completed global ranking rebuilds")
	m.globalRebuildErrors = counter("global_ranking_errors_total", "Swallowed global ranking rebuild errors")
	m.globalRebuildLatency = histogram("global_ranking_latency_ms", "Global ranking rebuild latency in milliseconds")
	m.jobRebuilds = counter("job_ranking_rebuilds_total", "Completed per-job ranking rebuilds")
	m.jobRankUpserts = counter("job_rank_upserts_total", "Per-job ranking entry upserts")
	m.rankedStudents = gauge("ranked_students", "Students in the global ranking partition")
	m.totalStudents = gauge("total_students", "Students tracked by the store")

	m.triggersAccepted = counter("triggers_accepted_total", "Recalculation triggers accepted for processing")
	m.triggersCoalesced = counter("triggers_coalesced_total", "Triggers coalesced into an already pending one")
	m.triggersDropped = counter("triggers_dropped_total", "Triggers dropped on queue backpressure")
	m.queueSize = gauge("queue_size", "Current trigger queue length")
	m.queueCapacity = gauge("queue_capacity", "Trigger queue capacity")
	m.queueUtilization = gauge("queue_utilization", "Trigger queue fill ratio")
	m.queueEnqueues = counter("queue_enqueues_total", "Successful trigger enqueues")
	m.queueDequeues = counter("queue_dequeues_total", "Trigger dequeues")
	m.queueEnqueueErrors = counter("queue_enqueue_errors_total", "Failed trigger enqueues")

	m.workerCount = gauge("worker_count", "Running recalculation workers")
	m.workerErrors = counter("worker_errors_total", "Worker processing errors")
	m.workerLatency = histogram("worker_latency_ms", "Trigger processing latency in milliseconds")

	m.storeWrites = counter("store_writes_total", "Persistence gateway writes")
	m.storeWriteLatency = histogram("store_write_latency_ms", "Persistence gateway write latency in milliseconds")

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_requests_total", Help: "HTTP requests by endpoint, method, and status",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_request_duration_ms", Help: "HTTP request latency in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.systemMemoryUsage = gauge("system_memory_bytes", "Allocated heap bytes")
	m.systemGoroutines = gauge("system_goroutines", "Current goroutine count")
	m.systemGCPause = histogram("system_gc_pause_ms", "Average GC pause time in milliseconds")
}

// GetRegistry exposes the custom registry for the /healthz handler.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RecordScoreRecalculation increments the completed recalculations counter.
func RecordScoreRecalculation() {
	globalManager.scoreRecalculations.Inc()
}

// RecordScoreRecalculationError increments the failed recalculations counter.
func RecordScoreRecalculationError() {
	globalManager.scoreRecalcErrors.Inc()
}

// RecordScoreRecalcLatency records a recalculation latency in milliseconds.
func RecordScoreRecalcLatency(latencyMs float64) {
	globalManager.scoreRecalcLatency.Observe(latencyMs)
}

// RecordGlobalRankingRebuild increments the global rebuild counter.
func RecordGlobalRankingRebuild() {
	globalManager.globalRebuilds.Inc()
}

// RecordGlobalRankingError increments the swallowed rebuild errors counter.
func RecordGlobalRankingError() {
	globalManager.globalRebuildErrors.Inc()
}

// RecordGlobalRankingLatency records a global rebuild latency in milliseconds.
func RecordGlobalRankingLatency(latencyMs float64) {
	globalManager.globalRebuildLatency.Observe(latencyMs)
}

// RecordJobRankingRebuild increments the per-job rebuild counter.
func RecordJobRankingRebuild() {
	globalManager.jobRebuilds.Inc()
}

// RecordJobRankUpsert increments the job rank upsert counter.
func RecordJobRankUpsert() {
	globalManager.jobRankUpserts.Inc()
}

// UpdateRankedStudents sets the global ranking partition size.
func UpdateRankedStudents(count int) {
	globalManager.rankedStudents.Set(float64(count))
}

// UpdateTotalStudents sets the tracked student count.
func UpdateTotalStudents(count int) {
	globalManager.totalStudents.Set(float64(count))
}

// RecordTriggerAccepted increments the accepted triggers counter.
func RecordTriggerAccepted() {
	globalManager.triggersAccepted.Inc()
}

// RecordTriggerCoalesced increments the coalesced triggers counter.
func RecordTriggerCoalesced() {
	globalManager.triggersCoalesced.Inc()
}

// RecordTriggerDropped increments the dropped triggers counter.
func RecordTriggerDropped() {
	globalManager.triggersDropped.Inc()
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity gauge.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue fill ratio.
func UpdateQueueUtilization(ratio float64) {
	globalManager.queueUtilization.Set(ratio)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueues.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeues.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount sets the running worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordWorkerLatency records a trigger processing latency in milliseconds.
func RecordWorkerLatency(latencyMs float64) {
	globalManager.workerLatency.Observe(latencyMs)
}

// RecordStoreWrite increments the gateway write counter.
func RecordStoreWrite() {
	globalManager.storeWrites.Inc()
}

// RecordStoreWriteLatency records a gateway write latency in milliseconds.
func RecordStoreWriteLatency(latencyMs float64) {
	globalManager.storeWriteLatency.Observe(latencyMs)
}

// RecordHTTPRequest records one request against the labeled counter.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records one request latency observation.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}

// UpdateSystemMemoryUsage sets the allocated heap gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutines.Set(float64(count))
}

// RecordSystemGCPauseTime records an average GC pause observation.
func RecordSystemGCPauseTime(ms float64) {
	globalManager.systemGCPause.Observe(ms)
}
