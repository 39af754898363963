// Package metrics exposes Prometheus instrumentation for the HTTP layer and
// the marketplace domain (media uploads, render relay).
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "splatmarket"

var (
	registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, path and status.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Requests currently being served.",
		},
	)

	// UploadBytes counts bytes stored per media kind (image, video, splat).
	UploadBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_upload_bytes_total",
			Help:      "Bytes stored by media kind.",
		},
		[]string{"kind"},
	)

	// UploadDuration measures end-to-end media store latency per kind.
	UploadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "media_upload_duration_seconds",
			Help:      "Media store latency by kind.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"kind"},
	)

	// RelayConnections tracks live progress-relay websocket sessions.
	RelayConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "relay_connections",
			Help:      "Open progress relay websocket sessions.",
		},
	)

	// RelayPolls counts upstream progress polls by outcome (ok, error).
	RelayPolls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relay_polls_total",
			Help:      "Progress polls against the render server by outcome.",
		},
		[]string{"outcome"},
	)

	// RenderDispatches counts render job submissions by outcome (ok, error).
	RenderDispatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_dispatches_total",
			Help:      "Render job submissions by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	registry.MustRegister(
		httpRequests,
		httpDuration,
		httpInFlight,
		UploadBytes,
		UploadDuration,
		RelayConnections,
		RelayPolls,
		RenderDispatches,
	)
}

// Handler serves the /metrics scrape endpoint.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware instruments each request. Raw URL paths are recorded, not chi
// templates; cardinality stays low because the API surface is small.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Upgrade") == "websocket" {
			next.ServeHTTP(w, r)
			return
		}

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		httpRequests.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

// ObserveUpload records a completed media store.
func ObserveUpload(kind string, bytes int, elapsed time.Duration) {
	UploadBytes.WithLabelValues(kind).Add(float64(bytes))
	UploadDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}
