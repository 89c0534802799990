// Package metrics provides Prometheus metrics for the tastesearch service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Search path
	searches       *prometheus.CounterVec
	scoringLatency prometheus.Histogram
	searchResults  prometheus.Histogram

	// Result cache
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
	cacheStores        prometheus.Counter
	cacheInvalidations prometheus.Counter
	cacheEntries       prometheus.Gauge
	cacheEpoch         prometheus.Gauge

	// Catalog
	catalogPeople        prometheus.Gauge
	catalogGenres        prometheus.Gauge
	catalogArtists       prometheus.Gauge
	catalogLoadDuration  prometheus.Histogram
	catalogPersistErrors prometheus.Counter
	artistsAdded         prometheus.Counter
	artistConflicts      prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

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
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "tastesearch",
		subsystem:        "search",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
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

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.searches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "searches_total",
		Help:        "Total number of searches by cache outcome",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})
	m.scoringLatency = m.histogram("scoring_latency_milliseconds",
		"Time spent scoring and ordering the catalog for one query", m.histogramBuckets)
	m.searchResults = m.histogram("results_per_search",
		"Number of people returned per evaluated query", []float64{0, 1, 2, 5, 10, 25, 50, 100, 250, 1000})

	m.cacheHits = m.counter("cache_hits_total", "Result cache hits")
	m.cacheMisses = m.counter("cache_misses_total", "Result cache misses")
	m.cacheStores = m.counter("cache_stores_total", "Result sets stored in the cache")
	m.cacheInvalidations = m.counter("cache_invalidations_total", "Full cache invalidations caused by catalog mutations")
	m.cacheEntries = m.gauge("cache_entries", "Current number of cached result sets")
	m.cacheEpoch = m.gauge("cache_epoch", "Current cache epoch (incremented on every invalidation)")

	m.catalogPeople = m.gauge("catalog_people", "People in the catalog")
	m.catalogGenres = m.gauge("catalog_genres", "Genres in the catalog")
	m.catalogArtists = m.gauge("catalog_artists", "Artists across all genres")
	m.catalogLoadDuration = m.histogram("catalog_load_duration_milliseconds",
		"Time spent loading the catalog snapshot", m.histogramBuckets)
	m.catalogPersistErrors = m.counter("catalog_persist_errors_total", "Failed snapshot write-backs")
	m.artistsAdded = m.counter("artists_added_total", "Artists appended to the catalog")
	m.artistConflicts = m.counter("artist_conflicts_total", "Artist additions rejected as duplicates")

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})
	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_endpoint_total",
		Help:        "HTTP errors by endpoint, method and error type",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "error_type"})
	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_type_total",
		Help:        "HTTP errors by type and severity",
		ConstLabels: m.constLabels,
	}, []string{"error_type", "severity"})

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Allocated heap bytes")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_milliseconds", "Average GC pause time",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// RecordSearch counts a search by cache outcome ("hit" or "miss").
func RecordSearch(outcome string) {
	globalManager.searches.WithLabelValues(outcome).Inc()
}

// RecordScoringLatency records scoring latency in milliseconds.
func RecordScoringLatency(latencyMs float64) {
	globalManager.scoringLatency.Observe(latencyMs)
}

// RecordSearchResults records the size of an evaluated result set.
func RecordSearchResults(n int) {
	globalManager.searchResults.Observe(float64(n))
}

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// RecordCacheStore increments the cache store counter.
func RecordCacheStore() {
	globalManager.cacheStores.Inc()
}

// RecordCacheInvalidation increments the invalidation counter.
func RecordCacheInvalidation() {
	globalManager.cacheInvalidations.Inc()
}

// UpdateCacheEntries sets the number of cached result sets.
func UpdateCacheEntries(n int) {
	globalManager.cacheEntries.Set(float64(n))
}

// UpdateCacheEpoch sets the current cache epoch.
func UpdateCacheEpoch(epoch uint64) {
	globalManager.cacheEpoch.Set(float64(epoch))
}

// UpdateCatalogSize sets the catalog gauges.
func UpdateCatalogSize(people, genres, artists int) {
	globalManager.catalogPeople.Set(float64(people))
	globalManager.catalogGenres.Set(float64(genres))
	globalManager.catalogArtists.Set(float64(artists))
}

// RecordCatalogLoadDuration records how long the snapshot load took.
func RecordCatalogLoadDuration(ms float64) {
	globalManager.catalogLoadDuration.Observe(ms)
}

// RecordCatalogPersistError increments the write-back failure counter.
func RecordCatalogPersistError() {
	globalManager.catalogPersistErrors.Inc()
}

// RecordArtistAdded increments the added artists counter.
func RecordArtistAdded() {
	globalManager.artistsAdded.Inc()
}

// RecordArtistConflict increments the duplicate artist counter.
func RecordArtistConflict() {
	globalManager.artistConflicts.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

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
