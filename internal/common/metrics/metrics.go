// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_searches_total",
			Help: "Total number of search calls handled by the aggregator",
		},
	)

	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "engine_search_duration_seconds",
			Help: "Duration of a full search fan-out in seconds",
		},
	)

	CategoryQueryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_category_query_failures_total",
			Help: "Per-category store queries that failed and were isolated",
		},
		[]string{"category", "error_code"},
	)

	NormalizationRecoveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_normalization_recoveries_total",
			Help: "Malformed embedded fields treated as absent during normalization",
		},
		[]string{"category", "field"},
	)

	SearchCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_search_cache_hits_total",
			Help: "Search responses served from the Redis cache",
		},
	)

	SearchCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_search_cache_misses_total",
			Help: "Search calls that went to the stores",
		},
	)

	ComparisonsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_comparisons_total",
			Help: "Comparison reports computed, labelled by product count",
		},
		[]string{"products"},
	)
)
