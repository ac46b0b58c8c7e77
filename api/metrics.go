/*
metrics.go - Prometheus instrumentation

PURPOSE:
  Request counters and latency histograms for the HTTP surface, plus
  domain counters for saves and imports. Exposed at /metrics.
*/
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fiscal_http_requests_total",
		Help: "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fiscal_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	savesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fiscal_saves_total",
		Help: "Record saves by kind and outcome.",
	}, []string{"kind", "outcome"})

	importedItemsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fiscal_imported_items_total",
		Help: "Budget items created by investment plan import.",
	})
)

// statusRecorder captures the response code for metrics.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware records count and latency per chi route pattern.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		requestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.code)).Inc()
		requestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

func recordSave(kind string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	savesTotal.WithLabelValues(kind, outcome).Inc()
}
