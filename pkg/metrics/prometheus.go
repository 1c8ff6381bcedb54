// Package metrics provides Prometheus metrics for the leadrank scoring
// service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the leadrank service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Core business metrics.
	leadsScored          prometheus.Counter
	duplicatesDetected   prometheus.Counter
	scoringLatency       prometheus.Histogram
	textEmbedLatency     prometheus.Histogram
	indexSearchLatency   prometheus.Histogram
	scoringErrors        prometheus.Counter
	contrastDistribution prometheus.Histogram

	// Artifact / index state.
	indexSizeAll       prometheus.Gauge
	indexSizeHigh      prometheus.Gauge
	knownEmails        prometheus.Gauge
	embeddingDim       prometheus.Gauge
	artifactLoadedUnix prometheus.Gauge
	buildDuration      prometheus.Histogram

	// HTTP performance metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// System performance metrics.
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
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
		namespace:        "leadrank",
		subsystem:        "scoring",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// counterOpts builds CounterOpts carrying the manager's prefix and labels.
func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.metricPrefix + name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

// gaugeOpts builds GaugeOpts carrying the manager's prefix and labels.
func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.metricPrefix + name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

// histogramOpts builds HistogramOpts carrying the manager's prefix and labels.
func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.metricPrefix + name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	requestBuckets := []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500}

	m.leadsScored = auto.NewCounter(m.counterOpts(
		"leads_scored_total",
		"Total number of leads scored against the index pair"))

	m.duplicatesDetected = auto.NewCounter(m.counterOpts(
		"duplicates_detected_total",
		"Total number of leads short-circuited by the email duplicate gate"))

	m.scoringLatency = auto.NewHistogram(m.histogramOpts(
		"scoring_latency_milliseconds",
		"End-to-end lead scoring latency in milliseconds",
		requestBuckets))

	m.textEmbedLatency = auto.NewHistogram(m.histogramOpts(
		"text_embed_latency_milliseconds",
		"Text embedding latency in milliseconds",
		requestBuckets))

	m.indexSearchLatency = auto.NewHistogram(m.histogramOpts(
		"index_search_latency_milliseconds",
		"Dual-index top-k search latency in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100}))

	m.scoringErrors = auto.NewCounter(m.counterOpts(
		"scoring_errors_total",
		"Total number of scoring failures"))

	m.contrastDistribution = auto.NewHistogram(m.histogramOpts(
		"contrast_distribution",
		"Distribution of contrast scores returned to callers",
		[]float64{-1, -0.5, -0.25, -0.1, 0, 0.1, 0.25, 0.5, 0.75, 1}))

	m.indexSizeAll = auto.NewGauge(m.gaugeOpts(
		"index_size_all",
		"Number of vectors in the full-population index"))

	m.indexSizeHigh = auto.NewGauge(m.gaugeOpts(
		"index_size_high",
		"Number of vectors in the high-value index"))

	m.knownEmails = auto.NewGauge(m.gaugeOpts(
		"known_emails",
		"Number of normalized emails in the duplicate gate"))

	m.embeddingDim = auto.NewGauge(m.gaugeOpts(
		"embedding_dim",
		"Dimensionality of the fused lead vectors"))

	m.artifactLoadedUnix = auto.NewGauge(m.gaugeOpts(
		"artifact_loaded_timestamp_seconds",
		"Unix time at which the artifact bundle was loaded"))

	m.buildDuration = auto.NewHistogram(m.histogramOpts(
		"build_duration_seconds",
		"Offline index build duration in seconds",
		[]float64{1, 5, 15, 30, 60, 120, 300, 600, 1800}))

	m.httpRequests = auto.NewCounterVec(m.counterOpts(
		"http_requests_total",
		"Total number of HTTP requests"),
		[]string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts(
		"http_request_duration_milliseconds",
		"HTTP request duration in milliseconds",
		m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"})

	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts(
		"errors_by_endpoint_total",
		"Total errors by endpoint and method"),
		[]string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts(
		"system_memory_usage_bytes",
		"System memory usage in bytes"))

	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts(
		"system_goroutine_count",
		"Number of goroutines"))
}

// RecordLeadScored increments the leads scored counter.
func RecordLeadScored() {
	globalManager.leadsScored.Inc()
}

// RecordDuplicateDetected increments the duplicate gate counter.
func RecordDuplicateDetected() {
	globalManager.duplicatesDetected.Inc()
}

// RecordScoringLatency records end-to-end scoring latency in milliseconds.
func RecordScoringLatency(latencyMs float64) {
	globalManager.scoringLatency.Observe(latencyMs)
}

// RecordTextEmbedLatency records text embedding latency in milliseconds.
func RecordTextEmbedLatency(latencyMs float64) {
	globalManager.textEmbedLatency.Observe(latencyMs)
}

// RecordIndexSearchLatency records dual-index search latency in milliseconds.
func RecordIndexSearchLatency(latencyMs float64) {
	globalManager.indexSearchLatency.Observe(latencyMs)
}

// RecordScoringError increments the scoring error counter.
func RecordScoringError() {
	globalManager.scoringErrors.Inc()
}

// RecordContrast records one contrast value into its distribution.
func RecordContrast(contrast float64) {
	globalManager.contrastDistribution.Observe(contrast)
}

// UpdateIndexSizes sets the vector counts of both indices.
func UpdateIndexSizes(all, high int) {
	globalManager.indexSizeAll.Set(float64(all))
	globalManager.indexSizeHigh.Set(float64(high))
}

// UpdateKnownEmails sets the duplicate-gate set size.
func UpdateKnownEmails(count int64) {
	globalManager.knownEmails.Set(float64(count))
}

// UpdateEmbeddingDim sets the fused lead-vector dimensionality.
func UpdateEmbeddingDim(dim int) {
	globalManager.embeddingDim.Set(float64(dim))
}

// MarkArtifactLoaded stamps the artifact-load time.
func MarkArtifactLoaded(t time.Time) {
	globalManager.artifactLoadedUnix.Set(float64(t.Unix()))
}

// RecordBuildDuration records one offline build duration in seconds.
func RecordBuildDuration(seconds float64) {
	globalManager.buildDuration.Observe(seconds)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error for an endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the current memory usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the current goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
