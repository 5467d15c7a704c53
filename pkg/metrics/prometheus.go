package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// scoreBuckets covers the 0-100 match score range in steps of ten.
var scoreBuckets = prometheus.LinearBuckets(0, 10, 11) //nolint:gochecknoglobals // fixed bucket layout

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Matching
	matchRequests    prometheus.Counter
	matchLatency     prometheus.Histogram
	packagesScored   prometheus.Counter
	matchScores      prometheus.Histogram
	bestMatches      *prometheus.CounterVec
	lastAverageScore prometheus.Gauge

	// Catalog
	catalogPackages   prometheus.Gauge
	catalogOperations *prometheus.CounterVec
	catalogErrors     *prometheus.CounterVec

	// Batch queue and workers
	queueSize               prometheus.Gauge
	queueCapacity           prometheus.Gauge
	queueEnqueued           prometheus.Counter
	queueRejected           prometheus.Counter
	workerCount             prometheus.Gauge
	workerJobs              prometheus.Counter
	workerProcessingLatency prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "eventmatch",
		subsystem:        "matching",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gauge(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.matchRequests = auto.NewCounter(m.counter("match_requests_total", "Total number of rankings computed"))
	m.matchLatency = auto.NewHistogram(m.histogram("match_latency_milliseconds", "Time to score and rank a catalog in milliseconds", m.histogramBuckets))
	m.packagesScored = auto.NewCounter(m.counter("packages_scored_total", "Total number of package scores computed"))
	m.matchScores = auto.NewHistogram(m.histogram("match_score", "Distribution of computed match scores", scoreBuckets))
	m.bestMatches = auto.NewCounterVec(m.counter("best_match_total", "Rankings by whether a best match was found"), []string{"found"})
	m.lastAverageScore = auto.NewGauge(m.gauge("last_average_score", "Average match score of the most recent ranking"))

	m.catalogPackages = auto.NewGauge(m.gauge("catalog_packages", "Number of packages in the catalog"))
	m.catalogOperations = auto.NewCounterVec(m.counter("catalog_operations_total", "Catalog operations by kind"), []string{"op"})
	m.catalogErrors = auto.NewCounterVec(m.counter("catalog_errors_total", "Failed catalog operations by kind"), []string{"op"})

	m.queueSize = auto.NewGauge(m.gauge("batch_queue_size", "Jobs waiting in the batch queue"))
	m.queueCapacity = auto.NewGauge(m.gauge("batch_queue_capacity", "Capacity of the batch queue"))
	m.queueEnqueued = auto.NewCounter(m.counter("batch_queue_enqueued_total", "Jobs accepted by the batch queue"))
	m.queueRejected = auto.NewCounter(m.counter("batch_queue_rejected_total", "Jobs rejected by the batch queue (full or closed)"))
	m.workerCount = auto.NewGauge(m.gauge("worker_count", "Number of batch workers"))
	m.workerJobs = auto.NewCounter(m.counter("worker_jobs_total", "Batch jobs completed by workers"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogram("worker_processing_latency_milliseconds", "Time a worker spends on one batch job", m.histogramBuckets))

	m.httpRequests = auto.NewCounterVec(m.counter("http_requests_total", "Total number of HTTP requests by endpoint and method"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogram("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets), []string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(m.counter("errors_by_component_total", "Errors by component and type"), []string{"component", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counter("errors_by_type_total", "Errors by type and severity"), []string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counter("errors_by_endpoint_total", "Errors by HTTP endpoint"), []string{"endpoint", "method", "error_type"})
	m.errorLatency = auto.NewHistogramVec(m.histogram("error_latency_milliseconds", "Latency of operations that ended in an error", m.histogramBuckets), []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gauge("system_memory_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gauge("system_goroutines", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogram("system_gc_pause_milliseconds", "Average GC pause in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// Matching metrics functions.

// RecordRanking records one computed ranking: its latency, the number of
// packages scored, each score, the average and whether a best match exists.
func RecordRanking(latencyMs float64, scores []int, average int, hasBestMatch bool) {
	globalManager.matchRequests.Inc()
	globalManager.matchLatency.Observe(latencyMs)
	globalManager.packagesScored.Add(float64(len(scores)))
	for _, s := range scores {
		globalManager.matchScores.Observe(float64(s))
	}
	found := "false"
	if hasBestMatch {
		found = "true"
	}
	globalManager.bestMatches.WithLabelValues(found).Inc()
	globalManager.lastAverageScore.Set(float64(average))
}

// RecordPackageScored records a single package score outside of a ranking.
func RecordPackageScored(score int) {
	globalManager.packagesScored.Inc()
	globalManager.matchScores.Observe(float64(score))
}

// Catalog metrics functions.

// UpdateCatalogPackages sets the number of catalog packages.
func UpdateCatalogPackages(count int) {
	globalManager.catalogPackages.Set(float64(count))
}

// RecordCatalogOperation counts a catalog operation (get, list, upsert, delete).
func RecordCatalogOperation(op string) {
	globalManager.catalogOperations.WithLabelValues(op).Inc()
}

// RecordCatalogError counts a failed catalog operation.
func RecordCatalogError(op string) {
	globalManager.catalogErrors.WithLabelValues(op).Inc()
}

// Queue and worker metrics functions.

// UpdateQueueSize sets the number of queued batch jobs.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the batch queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue counts an accepted batch job.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueRejected counts a rejected batch job.
func RecordQueueRejected() {
	globalManager.queueRejected.Inc()
}

// UpdateWorkerCount sets the number of batch workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerJob records one finished batch job and its latency.
func RecordWorkerJob(latencyMs float64) {
	globalManager.workerJobs.Inc()
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// HTTP metrics functions.

// RecordHTTPRequest increments the HTTP requests counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error metrics functions.

// RecordErrorByComponent increments the error counter for a component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType increments the error counter for a type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint increments the error counter for an HTTP endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System metrics functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
