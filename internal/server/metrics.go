package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trackboard_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	recordMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trackboard_record_mutations_total",
			Help: "Records created, updated and deleted",
		},
		[]string{"op"},
	)

	personalRecordMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trackboard_personal_record_mutations_total",
			Help: "Personal records saved and cleared",
		},
		[]string{"op"},
	)

	cacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trackboard_cache_lookups_total",
			Help: "Tracks overview cache lookups by result",
		},
		[]string{"result"},
	)

	subscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "trackboard_sse_subscribers",
			Help: "Open track event streams",
		},
	)
)

// instrument records request durations labelled by the matched route
// pattern, so path parameters do not explode the label set.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		requestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).
			Observe(time.Since(start).Seconds())
	})
}
