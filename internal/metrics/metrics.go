// Package metrics exposes Prometheus instrumentation for the daemon: HTTP
// request accounting plus analysis-level counters (outcomes, windows found,
// computation latency).
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interlink_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "interlink_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interlink_analyses_total",
			Help: "Completed analysis requests by outcome (ok, invalid_range, resource_limit, propagation, invalid_input, cancelled).",
		},
		[]string{"outcome"},
	)

	windowsFoundTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "interlink_windows_found_total",
			Help: "Total communication windows found across all successful analyses.",
		},
	)

	analysisDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "interlink_analysis_duration_seconds",
			Help:    "Wall-clock duration of analysis runs in seconds.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
	prometheus.MustRegister(analysesTotal)
	prometheus.MustRegister(windowsFoundTotal)
	prometheus.MustRegister(analysisDurationSeconds)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveAnalysis records one finished analysis run.
func ObserveAnalysis(outcome string, windows int, elapsed time.Duration) {
	analysesTotal.WithLabelValues(outcome).Inc()
	if windows > 0 {
		windowsFoundTotal.Add(float64(windows))
	}
	analysisDurationSeconds.Observe(elapsed.Seconds())
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		httpRequestsTotal.WithLabelValues(r.URL.Path, r.Method, strconv.Itoa(rw.statusCode)).Inc()
		httpDurationSeconds.WithLabelValues(r.URL.Path, r.Method).Observe(time.Since(start).Seconds())
	})
}
