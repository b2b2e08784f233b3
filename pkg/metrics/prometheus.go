// Package metrics provides Prometheus metrics for the ProChallenge hub service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the hub service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Leaderboard engine
	leaderboardRefreshes       *prometheus.CounterVec
	leaderboardRefreshDuration prometheus.Histogram
	leaderboardParticipants    prometheus.Gauge
	leaderboardTimelineLength  prometheus.Gauge
	leaderboardDroppedRows     prometheus.Counter

	// Weigh-ins
	weighInsSubmitted prometheus.Counter
	weighInsDuplicate prometheus.Counter
	weighInsRejected  *prometheus.CounterVec

	// Remote endpoint
	remoteCalls   *prometheus.CounterVec
	remoteLatency *prometheus.HistogramVec

	// Local features
	bmiClassifications *prometheus.CounterVec
	coachReplies       *prometheus.CounterVec
	liveSubscribers    prometheus.Gauge

	// Refresh queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueueErrors *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

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
		namespace:        "prochallenge",
		subsystem:        "hub",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 15000},
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

// Enabled reports whether the manager records observations.
func (m *Manager) Enabled() bool { return m.enabled }

// RefreshInterval is how often periodic gauges should be refreshed by callers.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.customLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.customLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.customLabels}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.leaderboardRefreshes = auto.NewCounterVec(m.counterOpts("leaderboard_refreshes_total",
		"Leaderboard recomputes by outcome"), []string{"outcome"})
	m.leaderboardRefreshDuration = auto.NewHistogram(m.histogramOpts("leaderboard_refresh_duration_milliseconds",
		"Fetch plus recompute duration of a leaderboard refresh", m.histogramBuckets))
	m.leaderboardParticipants = auto.NewGauge(m.gaugeOpts("leaderboard_participants",
		"Participants in the current board"))
	m.leaderboardTimelineLength = auto.NewGauge(m.gaugeOpts("leaderboard_timeline_length",
		"Distinct weigh-in dates in the current board"))
	m.leaderboardDroppedRows = auto.NewCounter(m.counterOpts("leaderboard_dropped_rows_total",
		"Raw rows discarded because their date could not be parsed"))

	m.weighInsSubmitted = auto.NewCounter(m.counterOpts("weigh_ins_submitted_total",
		"Weigh-ins accepted by the remote endpoint"))
	m.weighInsDuplicate = auto.NewCounter(m.counterOpts("weigh_ins_duplicate_total",
		"Weigh-ins suppressed by the idempotency guard"))
	m.weighInsRejected = auto.NewCounterVec(m.counterOpts("weigh_ins_rejected_total",
		"Weigh-ins rejected before or by the remote endpoint"), []string{"reason"})

	m.remoteCalls = auto.NewCounterVec(m.counterOpts("remote_calls_total",
		"Calls to the remote endpoint by action and outcome"), []string{"action", "outcome"})
	m.remoteLatency = auto.NewHistogramVec(m.histogramOpts("remote_call_duration_milliseconds",
		"Remote endpoint call latency in milliseconds", m.histogramBuckets), []string{"action"})

	m.bmiClassifications = auto.NewCounterVec(m.counterOpts("bmi_classifications_total",
		"BMI classifications by category"), []string{"category"})
	m.coachReplies = auto.NewCounterVec(m.counterOpts("coach_replies_total",
		"Scripted coach replies by topic"), []string{"topic"})
	m.liveSubscribers = auto.NewGauge(m.gaugeOpts("live_subscribers",
		"Open websocket board subscriptions"))

	m.queueSize = auto.NewGauge(m.gaugeOpts("refresh_queue_size",
		"Pending leaderboard refresh jobs"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("refresh_queue_capacity",
		"Capacity of the refresh queue"))
	m.queueEnqueueErrors = auto.NewCounterVec(m.counterOpts("refresh_queue_enqueue_errors_total",
		"Refresh jobs not enqueued by reason"), []string{"reason"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", m.histogramBuckets), []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total",
		"Errors by component and type"), []string{"component", "error_type"})
	m.errorsByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total",
		"HTTP errors by endpoint, method and type"), []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes",
		"Current memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count",
		"Current number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds",
		"Average GC pause time in milliseconds", []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100}))
}

// RecordLeaderboardRefresh counts a refresh with the given outcome ("ok", "empty", "error").
func RecordLeaderboardRefresh(outcome string, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.leaderboardRefreshes.WithLabelValues(outcome).Inc()
	globalManager.leaderboardRefreshDuration.Observe(durationMs)
}

// UpdateLeaderboardShape sets the participant and timeline gauges.
func UpdateLeaderboardShape(participants, timelineLength int) {
	globalManager.leaderboardParticipants.Set(float64(participants))
	globalManager.leaderboardTimelineLength.Set(float64(timelineLength))
}

// RecordDroppedRows adds n discarded raw rows.
func RecordDroppedRows(n int) {
	if n > 0 {
		globalManager.leaderboardDroppedRows.Add(float64(n))
	}
}

// RecordWeighInSubmitted increments accepted weigh-ins.
func RecordWeighInSubmitted() {
	globalManager.weighInsSubmitted.Inc()
}

// RecordWeighInDuplicate increments suppressed duplicate weigh-ins.
func RecordWeighInDuplicate() {
	globalManager.weighInsDuplicate.Inc()
}

// RecordWeighInRejected increments rejected weigh-ins by reason.
func RecordWeighInRejected(reason string) {
	globalManager.weighInsRejected.WithLabelValues(reason).Inc()
}

// RecordRemoteCall records a remote call outcome and latency.
func RecordRemoteCall(action, outcome string, latencyMs float64) {
	globalManager.remoteCalls.WithLabelValues(action, outcome).Inc()
	globalManager.remoteLatency.WithLabelValues(action).Observe(latencyMs)
}

// RecordBMIClassification increments the classification counter for a category.
func RecordBMIClassification(category string) {
	globalManager.bmiClassifications.WithLabelValues(category).Inc()
}

// RecordCoachReply increments the coach reply counter for a topic.
func RecordCoachReply(topic string) {
	globalManager.coachReplies.WithLabelValues(topic).Inc()
}

// UpdateLiveSubscribers sets the number of websocket subscribers.
func UpdateLiveSubscribers(n int) {
	globalManager.liveSubscribers.Set(float64(n))
}

// UpdateQueueSize sets the current refresh queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the refresh queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueueError counts a refresh job that was not enqueued.
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueErrors.WithLabelValues(reason).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records errors by component and type.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records HTTP errors by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the current memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the current goroutine count.
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

// SampleInterval returns how often callers should refresh the process and
// service gauges.
func SampleInterval() time.Duration {
	return globalManager.RefreshInterval()
}
