package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Catalog client Prometheus metrics.
var (
	FetchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "fetch_requests_total",
			Help:      "Total number of requests to the remote collection",
		},
		[]string{"endpoint", "status"},
	)

	FetchRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "catalog",
			Name:      "fetch_duration_seconds",
			Help:      "Remote collection request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	FetchErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "fetch_errors_total",
			Help:      "Total remote collection errors",
		},
		[]string{"endpoint", "error_type"},
	)

	FetchItemsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "fetch_items_total",
			Help:      "Total items received from the remote collection",
		},
	)

	PageCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "page_cache_total",
			Help:      "Page cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var registerCatalogOnce sync.Once

// RegisterCatalogMetrics registers the catalog client metrics. Safe to call more than once.
func RegisterCatalogMetrics() {
	registerCatalogOnce.Do(func() {
		prometheus.MustRegister(FetchRequestsTotal)
		prometheus.MustRegister(FetchRequestDuration)
		prometheus.MustRegister(FetchErrorsTotal)
		prometheus.MustRegister(FetchItemsTotal)
		prometheus.MustRegister(PageCacheTotal)
	})
}
