package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kiarachat_http_requests_total",
		Help: "HTTP requests by path and status code.",
	}, []string{"path", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kiarachat_http_request_duration_seconds",
		Help:    "HTTP request latency. The chat path includes the upstream completion call.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})

	completionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kiarachat_completion_failures_total",
		Help: "Upstream completion calls that failed.",
	})
)

// CountCompletionFailure records one failed upstream completion.
func CountCompletionFailure() { completionFailures.Inc() }

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// routeLabel returns the matched mux route template so metric labels stay
// a small fixed set. Requests outside a mux route collapse into "other"
// rather than minting one label per arbitrary path.
func routeLabel(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil && tmpl != "" {
			return tmpl
		}
	}
	return "other"
}

// Middleware records request counts and latency per route. Install it with
// Router.Use so it runs after route matching.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		path := routeLabel(r)
		requestsTotal.WithLabelValues(path, strconv.Itoa(rec.status)).Inc()
		requestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	})
}
