package muxhandlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vitalvas/fsroute/fsrouter"
)

// MetricsConfig configures MetricsMiddleware.
type MetricsConfig struct {
	// Registerer defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer

	// Namespace prefixes metric names. Defaults to "fsroute".
	Namespace string

	// Buckets for the duration histogram. Defaults to
	// prometheus.DefBuckets.
	Buckets []float64
}

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inflight prometheus.Gauge
}

// MetricsMiddleware records per-operation request counts, latency and the
// number of requests in flight. The operation label is the request method
// and the match pattern of the route, e.g. "GET /users/:id".
func MetricsMiddleware(cfg MetricsConfig) (fsrouter.MiddlewareFunc, error) {
	reg := cfg.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	ns := cfg.Namespace
	if ns == "" {
		ns = "fsroute"
	}
	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "requests_total",
			Help:      "Requests served, by operation and status code.",
		}, []string{"operation", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "request_duration_seconds",
			Help:      "Request latency, by operation.",
			Buckets:   buckets,
		}, []string{"operation"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "requests_in_flight",
			Help:      "Requests currently being served.",
		}),
	}

	for _, c := range []prometheus.Collector{m.requests, m.duration, m.inflight} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			op := operation(r)
			start := time.Now()

			m.inflight.Inc()
			defer m.inflight.Dec()

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			m.requests.WithLabelValues(op, strconv.Itoa(sw.status)).Inc()
			m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
		})
	}, nil
}

// MetricsHandler serves the metrics gathered by g.
func MetricsHandler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// operation labels a request by its method and route pattern. Installed
// with Router.Use every request has a matched entry. Wrapping the router
// itself also counts 404 and 405 answers, all under "METHOD unmatched".
func operation(r *http.Request) string {
	e, ok := fsrouter.EntryFromRequest(r)
	if !ok {
		return r.Method + " unmatched"
	}
	return r.Method + " " + e.Pattern.PathMatch
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
