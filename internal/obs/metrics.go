// Package obs holds Prometheus collectors and the metrics middleware for the
// tabscan API.
package obs

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the server's Prometheus collectors.
type Metrics struct {
	ReqTotal *prometheus.CounterVec
	ReqDur   *prometheus.HistogramVec
	InFlight prometheus.Gauge

	// SplitsComputed counts settlement engine runs by outcome
	// (ok, warned, failed).
	SplitsComputed *prometheus.CounterVec

	// WarningsEmitted counts engine warnings by code.
	WarningsEmitted *prometheus.CounterVec
}

// NewMetrics registers and returns the server's collectors. Pass nil to use
// the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		ReqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tabscan",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled by the server.",
		}, []string{"method", "route", "status"}),
		ReqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tabscan",
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency distribution in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"method", "route"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tabscan",
			Name:      "http_in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		SplitsComputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tabscan",
			Name:      "splits_computed_total",
			Help:      "Settlement computations by outcome.",
		}, []string{"outcome"}),
		WarningsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tabscan",
			Name:      "split_warnings_total",
			Help:      "Settlement warnings by code.",
		}, []string{"code"}),
	}
	reg.MustRegister(m.ReqTotal, m.ReqDur, m.InFlight, m.SplitsComputed, m.WarningsEmitted)
	return m
}

// Middleware records request counts, latency, and in-flight gauge per chi
// route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.InFlight.Inc()
		defer m.InFlight.Dec()

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		m.ReqTotal.WithLabelValues(r.Method, route, strconv.Itoa(recorder.status)).Inc()
		m.ReqDur.WithLabelValues(r.Method, route).Observe(float64(time.Since(start)) / float64(time.Millisecond))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
