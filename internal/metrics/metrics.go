// Package metrics provides Prometheus metrics for the vista-sdk ambient stack.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics exposed by the library's ambient layer.
//
// The core packages (chd, location, gmod, gmodpath, versioning) never touch this
// directly; it is populated by the resource-loading and VIS-cache layers that sit
// around them, matching the "leaf components never log" propagation policy.
type Metrics struct {
	// Resource loading metrics
	ResourceLoadsTotal    *prometheus.CounterVec
	ResourceLoadDuration  *prometheus.HistogramVec
	ResourceBytesTotal    *prometheus.CounterVec

	// GMOD construction metrics
	GmodBuildsTotal    *prometheus.CounterVec
	GmodBuildDuration  *prometheus.HistogramVec
	GmodNodesTotal     *prometheus.GaugeVec

	// CHD construction metrics
	ChdSeedSearchIterations prometheus.Histogram
	ChdBuildDuration        prometheus.Histogram

	// Traversal metrics
	TraversalNodesVisitedTotal prometheus.Counter
	TraversalsTotal            *prometheus.CounterVec

	// Path parsing metrics
	PathParsesTotal *prometheus.CounterVec

	// Versioning metrics
	ConversionsTotal *prometheus.CounterVec

	// VIS cache metrics
	CacheHitsTotal      *prometheus.CounterVec
	CacheMissesTotal    *prometheus.CounterVec
	CacheEvictionsTotal *prometheus.CounterVec
	CacheEntriesTotal   prometheus.Gauge

	ServerStartTime time.Time
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		ServerStartTime: time.Now(),
	}

	m.ResourceLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vis_resource_loads_total",
			Help: "Total number of taxonomy/locations/versioning resource loads",
		},
		[]string{"resource", "status"},
	)

	m.ResourceLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vis_resource_load_duration_seconds",
			Help:    "Duration of resource loads in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource"},
	)

	m.ResourceBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vis_resource_bytes_total",
			Help: "Total bytes read while loading resources",
		},
		[]string{"resource"},
	)

	m.GmodBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vis_gmod_builds_total",
			Help: "Total number of GMOD graph constructions",
		},
		[]string{"vis_version", "status"},
	)

	m.GmodBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vis_gmod_build_duration_seconds",
			Help:    "Duration of GMOD graph construction in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"vis_version"},
	)

	m.GmodNodesTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vis_gmod_nodes_total",
			Help: "Number of nodes in a constructed GMOD graph",
		},
		[]string{"vis_version"},
	)

	m.ChdSeedSearchIterations = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vis_chd_seed_search_iterations",
			Help:    "Number of seed candidates tried per CHD bucket during construction",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	m.ChdBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vis_chd_build_duration_seconds",
			Help:    "Duration of perfect-hash dictionary construction in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	m.TraversalNodesVisitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vis_traversal_nodes_visited_total",
			Help: "Total number of GMOD nodes visited across all traversals",
		},
	)

	m.TraversalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vis_traversals_total",
			Help: "Total number of traversals run, by completion status",
		},
		[]string{"status"},
	)

	m.PathParsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vis_path_parses_total",
			Help: "Total number of path parse attempts",
		},
		[]string{"form", "status"},
	)

	m.ConversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vis_conversions_total",
			Help: "Total number of cross-version conversions",
		},
		[]string{"kind", "status"},
	)

	m.CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vis_cache_hits_total",
			Help: "Total number of VIS cache hits",
		},
		[]string{"kind"},
	)

	m.CacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vis_cache_misses_total",
			Help: "Total number of VIS cache misses",
		},
		[]string{"kind"},
	)

	m.CacheEvictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vis_cache_evictions_total",
			Help: "Total number of VIS cache evictions",
		},
		[]string{"reason"},
	)

	m.CacheEntriesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vis_cache_entries_total",
			Help: "Current number of entries held in the VIS cache",
		},
	)

	return m
}

// RecordResourceLoad records a resource load with its status.
func (m *Metrics) RecordResourceLoad(resource string, status string, duration time.Duration, bytes int) {
	m.ResourceLoadsTotal.WithLabelValues(resource, status).Inc()
	m.ResourceLoadDuration.WithLabelValues(resource).Observe(duration.Seconds())
	m.ResourceBytesTotal.WithLabelValues(resource).Add(float64(bytes))
}

// RecordGmodBuild records a GMOD construction.
func (m *Metrics) RecordGmodBuild(visVersion string, status string, duration time.Duration, nodeCount int) {
	m.GmodBuildsTotal.WithLabelValues(visVersion, status).Inc()
	m.GmodBuildDuration.WithLabelValues(visVersion).Observe(duration.Seconds())
	if status == "ok" {
		m.GmodNodesTotal.WithLabelValues(visVersion).Set(float64(nodeCount))
	}
}

// RecordChdBuild records a CHD construction, including seed-search cost per bucket.
func (m *Metrics) RecordChdBuild(duration time.Duration, seedIterationsPerBucket []int) {
	m.ChdBuildDuration.Observe(duration.Seconds())
	for _, n := range seedIterationsPerBucket {
		m.ChdSeedSearchIterations.Observe(float64(n))
	}
}

// RecordTraversal records a completed traversal and the nodes it visited.
func (m *Metrics) RecordTraversal(completed bool, nodesVisited int) {
	status := "completed"
	if !completed {
		status = "stopped"
	}
	m.TraversalsTotal.WithLabelValues(status).Inc()
	m.TraversalNodesVisitedTotal.Add(float64(nodesVisited))
}

// RecordPathParse records a path parse attempt.
func (m *Metrics) RecordPathParse(form string, ok bool) {
	status := "ok"
	if !ok {
		status = "error"
	}
	m.PathParsesTotal.WithLabelValues(form, status).Inc()
}

// RecordConversion records a cross-version conversion attempt.
func (m *Metrics) RecordConversion(kind string, ok bool) {
	status := "ok"
	if !ok {
		status = "error"
	}
	m.ConversionsTotal.WithLabelValues(kind, status).Inc()
}

// RecordCacheHit records a VIS cache hit for the given resource kind (gmod, locations, versioning).
func (m *Metrics) RecordCacheHit(kind string) {
	m.CacheHitsTotal.WithLabelValues(kind).Inc()
}

// RecordCacheMiss records a VIS cache miss for the given resource kind.
func (m *Metrics) RecordCacheMiss(kind string) {
	m.CacheMissesTotal.WithLabelValues(kind).Inc()
}

// RecordCacheEviction records a VIS cache eviction and updates the entry gauge.
func (m *Metrics) RecordCacheEviction(reason string, entriesRemaining int) {
	m.CacheEvictionsTotal.WithLabelValues(reason).Inc()
	m.CacheEntriesTotal.Set(float64(entriesRemaining))
}

// SetCacheEntries sets the current VIS cache entry count.
func (m *Metrics) SetCacheEntries(n int) {
	m.CacheEntriesTotal.Set(float64(n))
}
