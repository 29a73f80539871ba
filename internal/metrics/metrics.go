// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "endpoint", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations.",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint", "status"},
	)
	productViewsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "product_views_total",
			Help: "Total number of tracked product views.",
		},
		[]string{"product_id"},
	)
	storeCacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_cache_hits_total",
			Help: "Collection loads served from the in-memory cache.",
		},
		[]string{"collection"},
	)
	storeCacheMissesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_cache_misses_total",
			Help: "Collection loads that had to read from disk.",
		},
		[]string{"collection"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(productViewsTotal)
	prometheus.MustRegister(storeCacheHitsTotal)
	prometheus.MustRegister(storeCacheMissesTotal)
}

// RecordRequest records counters and latency for a finished HTTP request.
func RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
}

// RecordProductView counts one tracked view for a product.
func RecordProductView(productID string) {
	productViewsTotal.WithLabelValues(productID).Inc()
}

// StoreCacheHit counts a collection load served from cache.
func StoreCacheHit(collection string) {
	storeCacheHitsTotal.WithLabelValues(collection).Inc()
}

// StoreCacheMiss counts a collection load that read from disk.
func StoreCacheMiss(collection string) {
	storeCacheMissesTotal.WithLabelValues(collection).Inc()
}

func classifyStatus(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500 && statusCode < 600:
		return "5xx"
	}
	return "unknown"
}

// Handler returns the Prometheus exposition handler mounted on /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
