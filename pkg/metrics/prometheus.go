// Package metrics exposes Prometheus instrumentation for the
// recommendation service.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Manager owns every collector the service registers.
type Manager struct {
	registry *prometheus.Registry

	namespace string
	subsystem string
	enabled   bool

	// Recommendation and rating flow
	recommendationsServed *prometheus.CounterVec
	ratingsApplied        prometheus.Counter
	ratingsDuplicate      prometheus.Counter
	ratingsRejected       prometheus.Counter

	// Battles
	battlesProposed  prometheus.Counter
	battleVotes      prometheus.Counter
	battleVoteErrors prometheus.Counter

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueues      prometheus.Counter
	queueDequeues      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers
	workerCount       prometheus.Gauge
	workerLatency     prometheus.Histogram
	workerErrors      prometheus.Counter

	// Store and catalog
	profileCount    prometheus.Gauge
	catalogSize     prometheus.Gauge
	storeShardCount prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System
	systemMemory     prometheus.Gauge
	systemGoroutines prometheus.Gauge
}

var globalManager *Manager                         //nolint:gochecknoglobals // singleton metrics manager
var customRegistry = prometheus.NewRegistry()      //nolint:gochecknoglobals // shared metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a Manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		registry:  customRegistry,
		namespace: "melodex",
		enabled:   true,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := func(name, help string) prometheus.Opts {
		return prometheus.Opts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help}
	}

	m.recommendationsServed = prometheus.NewCounterVec(
		prometheus.CounterOpts(factory("recommendations_served_total", "Recommendations served, by strategy.")),
		[]string{"strategy"},
	)
	m.ratingsApplied = prometheus.NewCounter(
		prometheus.CounterOpts(factory("ratings_applied_total", "Rating events applied to the ledger.")))
	m.ratingsDuplicate = prometheus.NewCounter(
		prometheus.CounterOpts(factory("ratings_duplicate_total", "Rating events skipped as duplicates.")))
	m.ratingsRejected = prometheus.NewCounter(
		prometheus.CounterOpts(factory("ratings_rejected_total", "Rating events rejected by validation.")))

	m.battlesProposed = prometheus.NewCounter(
		prometheus.CounterOpts(factory("battles_proposed_total", "Battles proposed.")))
	m.battleVotes = prometheus.NewCounter(
		prometheus.CounterOpts(factory("battle_votes_total", "Battle votes resolved.")))
	m.battleVoteErrors = prometheus.NewCounter(
		prometheus.CounterOpts(factory("battle_vote_errors_total", "Battle votes rejected by the protocol.")))

	m.queueSize = prometheus.NewGauge(
		prometheus.GaugeOpts(factory("queue_size", "Current number of queued rating events.")))
	m.queueCapacity = prometheus.NewGauge(
		prometheus.GaugeOpts(factory("queue_capacity", "Configured queue capacity.")))
	m.queueEnqueues = prometheus.NewCounter(
		prometheus.CounterOpts(factory("queue_enqueue_total", "Successful enqueues.")))
	m.queueDequeues = prometheus.NewCounter(
		prometheus.CounterOpts(factory("queue_dequeue_total", "Successful dequeues.")))
	m.queueEnqueueErrors = prometheus.NewCounter(
		prometheus.CounterOpts(factory("queue_enqueue_errors_total", "Enqueue failures (closed, full, canceled).")))

	m.workerCount = prometheus.NewGauge(
		prometheus.GaugeOpts(factory("worker_count", "Number of rating workers.")))
	m.workerLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_processing_latency_ms",
		Help:      "Rating event processing latency in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500},
	})
	m.workerErrors = prometheus.NewCounter(
		prometheus.CounterOpts(factory("worker_errors_total", "Rating apply failures.")))

	m.profileCount = prometheus.NewGauge(
		prometheus.GaugeOpts(factory("profiles_total", "Number of stored user profiles.")))
	m.catalogSize = prometheus.NewGauge(
		prometheus.GaugeOpts(factory("catalog_songs", "Number of songs in the catalog.")))
	m.storeShardCount = prometheus.NewGauge(
		prometheus.GaugeOpts(factory("store_shard_count", "Number of shards in the in-memory store.")))

	m.httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts(factory("http_requests_total", "HTTP requests, by endpoint, method, and status.")),
		[]string{"endpoint", "method", "status"},
	)
	m.httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	}, []string{"endpoint", "method", "status"})

	m.systemMemory = prometheus.NewGauge(
		prometheus.GaugeOpts(factory("system_memory_bytes", "Allocated heap bytes.")))
	m.systemGoroutines = prometheus.NewGauge(
		prometheus.GaugeOpts(factory("system_goroutines", "Current goroutine count.")))

	m.registry.MustRegister(
		m.recommendationsServed,
		m.ratingsApplied, m.ratingsDuplicate, m.ratingsRejected,
		m.battlesProposed, m.battleVotes, m.battleVoteErrors,
		m.queueSize, m.queueCapacity, m.queueEnqueues, m.queueDequeues, m.queueEnqueueErrors,
		m.workerCount, m.workerLatency, m.workerErrors,
		m.profileCount, m.catalogSize, m.storeShardCount,
		m.httpRequests, m.httpRequestDuration,
		m.systemMemory, m.systemGoroutines,
	)
}

// Package-level helpers over the global manager.

// RecordRecommendation counts one served recommendation for a strategy.
func RecordRecommendation(strategy string) {
	globalManager.recommendationsServed.WithLabelValues(strings.ToLower(strategy)).Inc()
}

// RecordRatingApplied counts one rating applied to the ledger.
func RecordRatingApplied() { globalManager.ratingsApplied.Inc() }

// RecordRatingDuplicate counts one rating skipped as a duplicate.
func RecordRatingDuplicate() { globalManager.ratingsDuplicate.Inc() }

// RecordRatingRejected counts one rating rejected by validation.
func RecordRatingRejected() { globalManager.ratingsRejected.Inc() }

// RecordBattleProposed counts one proposed battle.
func RecordBattleProposed() { globalManager.battlesProposed.Inc() }

// RecordBattleVote counts one resolved battle vote.
func RecordBattleVote() { globalManager.battleVotes.Inc() }

// RecordBattleVoteError counts one rejected battle vote.
func RecordBattleVoteError() { globalManager.battleVoteErrors.Inc() }

// UpdateQueueSize sets the queued event gauge.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the queue capacity gauge.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// RecordQueueEnqueue counts one successful enqueue.
func RecordQueueEnqueue() { globalManager.queueEnqueues.Inc() }

// RecordQueueDequeue counts one successful dequeue.
func RecordQueueDequeue() { globalManager.queueDequeues.Inc() }

// RecordQueueEnqueueError counts one failed enqueue.
func RecordQueueEnqueueError() { globalManager.queueEnqueueErrors.Inc() }

// UpdateWorkerCount sets the worker gauge.
func UpdateWorkerCount(count int) { globalManager.workerCount.Set(float64(count)) }

// RecordWorkerProcessingLatency observes one event's processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerLatency.Observe(latencyMs)
}

// RecordWorkerError counts one failed rating apply.
func RecordWorkerError() { globalManager.workerErrors.Inc() }

// UpdateProfileCount sets the stored profile gauge.
func UpdateProfileCount(count int) { globalManager.profileCount.Set(float64(count)) }

// UpdateCatalogSize sets the catalog size gauge.
func UpdateCatalogSize(count int) { globalManager.catalogSize.Set(float64(count)) }

// UpdateStoreShardCount sets the store shard gauge.
func UpdateStoreShardCount(count int) { globalManager.storeShardCount.Set(float64(count)) }

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration observes one request's duration.
func RecordHTTPRequestDuration(endpoint, method, status string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(durationMs)
}

// UpdateSystemMemoryUsage sets the heap gauge.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemory.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) { globalManager.systemGoroutines.Set(float64(count)) }

// GetRegistry returns the custom registry for serving /metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
