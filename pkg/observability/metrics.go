// Package observability provides the Prometheus metrics collector. Metrics
// are registered on a private registry so tests never collide with the
// default global one.
package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	globalCollector *Collector
	collectorMutex  sync.Mutex
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Layout metrics
	LayoutRuns     *prometheus.CounterVec
	LayoutDuration *prometheus.HistogramVec
	NodesPlaced    prometheus.Counter

	// Search metrics
	SearchQueries  *prometheus.CounterVec
	SearchDuration *prometheus.HistogramVec

	// Snapshot metrics
	SnapshotsCreated prometheus.Counter
	SnapshotsPruned  prometheus.Counter
}

// NewCollector creates the metrics collector with the given namespace.
// A process-wide singleton avoids duplicate registration in tests.
func NewCollector(namespace string) *Collector {
	collectorMutex.Lock()
	defer collectorMutex.Unlock()

	if globalCollector != nil {
		return globalCollector
	}

	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	layoutRuns := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layout_runs_total",
			Help:      "Total number of layout runs by strategy",
		},
		[]string{"strategy"},
	)

	layoutDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_duration_seconds",
			Help:      "Layout run duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"strategy"},
	)

	nodesPlaced := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_placed_total",
			Help:      "Total number of nodes positioned by the planner",
		},
	)

	searchQueries := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_queries_total",
			Help:      "Total number of search queries by mode",
		},
		[]string{"mode"},
	)

	searchDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Search query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	snapshotsCreated := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_created_total",
			Help:      "Total number of snapshots captured",
		},
	)

	snapshotsPruned := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_pruned_total",
			Help:      "Total number of snapshots removed by retention",
		},
	)

	registry.MustRegister(
		httpRequests,
		httpDuration,
		layoutRuns,
		layoutDuration,
		nodesPlaced,
		searchQueries,
		searchDuration,
		snapshotsCreated,
		snapshotsPruned,
	)

	globalCollector = &Collector{
		registry:         registry,
		HTTPRequests:     httpRequests,
		HTTPDuration:     httpDuration,
		LayoutRuns:       layoutRuns,
		LayoutDuration:   layoutDuration,
		NodesPlaced:      nodesPlaced,
		SearchQueries:    searchQueries,
		SearchDuration:   searchDuration,
		SnapshotsCreated: snapshotsCreated,
		SnapshotsPruned:  snapshotsPruned,
	}

	return globalCollector
}

// ResetForTesting resets the global collector so tests can start clean
func ResetForTesting() {
	collectorMutex.Lock()
	defer collectorMutex.Unlock()
	globalCollector = nil
}

// Handler returns the /metrics HTTP handler for this collector's registry
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveLayout records one layout run
func (c *Collector) ObserveLayout(strategy string, elapsed time.Duration) {
	c.LayoutRuns.WithLabelValues(strategy).Inc()
	c.LayoutDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
}

// ObserveSearch records one search query
func (c *Collector) ObserveSearch(mode string, elapsed time.Duration) {
	c.SearchQueries.WithLabelValues(mode).Inc()
	c.SearchDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}
