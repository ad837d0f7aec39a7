// Package metrics defines the Prometheus metric collectors used by the search
// engine and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the engine.
type Metrics struct {
	SearchQueriesTotal  *prometheus.CounterVec
	SearchLatency       *prometheus.HistogramVec
	SearchResultsCount  prometheus.Histogram
	CacheHitsTotal      prometheus.Counter
	CacheMissesTotal    prometheus.Counter
	DocsIndexedTotal    prometheus.Counter
	DocsRemovedTotal    prometheus.Counter
	IndexingDuration    prometheus.Histogram
	IndexedDocuments    prometheus.Gauge
	IndexedTerms        prometheus.Gauge
	SuggestionsTotal    prometheus.Counter
	FacetFilterWarnings prometheus.Counter
}

// New creates and registers all Prometheus metrics. It must be called at most
// once per process; engines accept a nil *Metrics when scraping is disabled.
func New() *Metrics {
	m := &Metrics{
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_queries_total",
				Help: "Total search queries by mode (keyword, fuzzy) and result type (hit, zero_result, error).",
			},
			[]string{"mode", "result_type"},
		),
		SearchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "search_latency_seconds",
				Help:    "Search query latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"cache_status"},
		),
		SearchResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "search_results_count",
				Help:    "Number of results returned per search query.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of query cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of query cache misses.",
			},
		),
		DocsIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "docs_indexed_total",
				Help: "Total documents indexed.",
			},
		),
		DocsRemovedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "docs_removed_total",
				Help: "Total documents removed.",
			},
		),
		IndexingDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "indexing_duration_seconds",
				Help:    "Per-document indexing latency in seconds.",
				Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
			},
		),
		IndexedDocuments: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "indexed_documents",
				Help: "Number of live documents in the index.",
			},
		),
		IndexedTerms: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "indexed_terms",
				Help: "Number of unique terms in the inverted index.",
			},
		),
		SuggestionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "suggestions_total",
				Help: "Total suggestion (autocomplete) requests.",
			},
		),
		FacetFilterWarnings: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "facet_filter_warnings_total",
				Help: "Search filters that referenced an unindexed facet.",
			},
		),
	}

	prometheus.MustRegister(
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.SearchResultsCount,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.DocsIndexedTotal,
		m.DocsRemovedTotal,
		m.IndexingDuration,
		m.IndexedDocuments,
		m.IndexedTerms,
		m.SuggestionsTotal,
		m.FacetFilterWarnings,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
