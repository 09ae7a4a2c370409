// Package metrics provides Prometheus metrics for the benchmatrix service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the benchmatrix service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Ingestion
	rowsAdmitted     *prometheus.CounterVec
	rowsRejected     *prometheus.CounterVec
	rowsInvalid      *prometheus.CounterVec
	sourceFailures   *prometheus.CounterVec
	sourceLoadMillis *prometheus.HistogramVec
	passes           *prometheus.CounterVec
	passDuration     prometheus.Histogram
	passLastUnix     prometheus.Gauge

	// Registry
	registryModels     prometheus.Gauge
	registryBenchmarks prometheus.Gauge
	registryEntries    prometheus.Gauge

	// Queue and workers
	queueSize         prometheus.Gauge
	queueCapacity     prometheus.Gauge
	queueEnqueues     prometheus.Counter
	queueEnqueueFails *prometheus.CounterVec
	workerActive      prometheus.Gauge
	workerJobMillis   prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec

	// System
	systemMemoryBytes prometheus.Gauge
	systemGoroutines  prometheus.Gauge
	systemGCPauseMs   prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "benchmatrix",
		subsystem:        "pipeline",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
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
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.rowsAdmitted = m.counterVec("rows_admitted_total", "Rows folded into the registry", "benchmark")
	m.rowsRejected = m.counterVec("rows_rejected_total", "Rows rejected by a family admission ceiling", "family")
	m.rowsInvalid = m.counterVec("rows_invalid_total", "Rows dropped for an unparseable score", "benchmark")
	m.sourceFailures = m.counterVec("source_failures_total", "Benchmark sources that failed to load", "benchmark")
	m.sourceLoadMillis = m.histogramVec("source_load_milliseconds", "Time to fetch, parse and fold one source", "benchmark")
	m.passes = m.counterVec("passes_total", "Ingestion passes by outcome", "status")
	m.passDuration = m.histogram("pass_duration_milliseconds", "Duration of a full ingestion pass")
	m.passLastUnix = m.gauge("pass_last_success_unix", "Unix time of the last successful pass")

	m.registryModels = m.gauge("registry_models", "Models in the current snapshot")
	m.registryBenchmarks = m.gauge("registry_benchmarks", "Benchmarks in the current snapshot")
	m.registryEntries = m.gauge("registry_score_entries", "Benchmark score entries in the current snapshot")

	m.queueSize = m.gauge("queue_size", "Jobs waiting in the ingestion queue")
	m.queueCapacity = m.gauge("queue_capacity", "Capacity of the ingestion queue")
	m.queueEnqueues = promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "queue_enqueued_total",
		Help:        "Jobs accepted by the ingestion queue",
		ConstLabels: m.customLabels,
	})
	m.queueEnqueueFails = m.counterVec("queue_enqueue_errors_total", "Jobs refused by the ingestion queue", "reason")
	m.workerActive = m.gauge("worker_active", "Ingestion workers currently running")
	m.workerJobMillis = m.histogram("worker_job_milliseconds", "Time a worker spent on one job")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.errorsByComponent = m.counterVec("errors_total", "Errors by component and type", "component", "error_type")

	m.systemMemoryBytes = m.gauge("system_memory_bytes", "Heap bytes allocated")
	m.systemGoroutines = m.gauge("system_goroutines", "Goroutines currently running")
	m.systemGCPauseMs = m.gauge("system_gc_pause_milliseconds", "Average GC pause")
}

// Enabled reports whether recording is on for this manager.
func (m *Manager) Enabled() bool { return m.enabled }

// RefreshInterval is how often polled gauges should be refreshed.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

// RefreshInterval returns the global manager's gauge refresh interval.
func RefreshInterval() time.Duration { return globalManager.refreshInterval }

// RecordRowAdmitted counts a row folded into the registry.
func RecordRowAdmitted(benchmark string) {
	if globalManager.enabled {
		globalManager.rowsAdmitted.WithLabelValues(benchmark).Inc()
	}
}

// RecordRowRejected counts a row refused by a family ceiling.
func RecordRowRejected(family string) {
	if globalManager.enabled {
		globalManager.rowsRejected.WithLabelValues(family).Inc()
	}
}

// RecordRowInvalid counts a row dropped for a bad score.
func RecordRowInvalid(benchmark string) {
	if globalManager.enabled {
		globalManager.rowsInvalid.WithLabelValues(benchmark).Inc()
	}
}

// RecordSourceFailure counts a failed benchmark source.
func RecordSourceFailure(benchmark string) {
	if globalManager.enabled {
		globalManager.sourceFailures.WithLabelValues(benchmark).Inc()
	}
}

// RecordSourceLoadLatency observes the time spent on one source.
func RecordSourceLoadLatency(benchmark string, latencyMs float64) {
	if globalManager.enabled {
		globalManager.sourceLoadMillis.WithLabelValues(benchmark).Observe(latencyMs)
	}
}

// RecordPass counts a finished pass; status is "ok", "partial" or "failed".
func RecordPass(status string, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.passes.WithLabelValues(status).Inc()
	globalManager.passDuration.Observe(durationMs)
	if status != "failed" {
		globalManager.passLastUnix.Set(float64(time.Now().Unix()))
	}
}

// UpdateRegistrySize publishes the size of the current snapshot.
func UpdateRegistrySize(models, benchmarks, entries int) {
	if !globalManager.enabled {
		return
	}
	globalManager.registryModels.Set(float64(models))
	globalManager.registryBenchmarks.Set(float64(benchmarks))
	globalManager.registryEntries.Set(float64(entries))
}

// UpdateQueueSize sets the queue backlog gauge.
func UpdateQueueSize(size int) {
	if globalManager.enabled {
		globalManager.queueSize.Set(float64(size))
	}
}

// UpdateQueueCapacity sets the queue capacity gauge.
func UpdateQueueCapacity(capacity int) {
	if globalManager.enabled {
		globalManager.queueCapacity.Set(float64(capacity))
	}
}

// RecordQueueEnqueue counts an accepted job.
func RecordQueueEnqueue() {
	if globalManager.enabled {
		globalManager.queueEnqueues.Inc()
	}
}

// RecordQueueEnqueueError counts a refused job.
func RecordQueueEnqueueError(reason string) {
	if globalManager.enabled {
		globalManager.queueEnqueueFails.WithLabelValues(reason).Inc()
	}
}

// AddWorkerActive moves the active worker gauge by delta.
func AddWorkerActive(delta int) {
	if globalManager.enabled {
		globalManager.workerActive.Add(float64(delta))
	}
}

// RecordWorkerJobLatency observes the time a worker spent on one job.
func RecordWorkerJobLatency(latencyMs float64) {
	if globalManager.enabled {
		globalManager.workerJobMillis.Observe(latencyMs)
	}
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration observes an HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// RecordErrorByComponent counts an error by component and type.
func RecordErrorByComponent(component, errorType string) {
	if globalManager.enabled {
		globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// UpdateSystemMemoryUsage sets the allocated heap gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager.enabled {
		globalManager.systemMemoryBytes.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	if globalManager.enabled {
		globalManager.systemGoroutines.Set(float64(count))
	}
}

// RecordSystemGCPauseTime sets the average GC pause gauge.
func RecordSystemGCPauseTime(ms float64) {
	if globalManager.enabled {
		globalManager.systemGCPauseMs.Set(ms)
	}
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
