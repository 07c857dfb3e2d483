package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "castingdesk_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "castingdesk_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	signInAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "castingdesk_signin_attempts_total",
		Help: "Count of sign-in attempts by result",
	}, []string{"result"})

	authzDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "castingdesk_authz_denials_total",
		Help: "Count of authorization denials by resource",
	}, []string{"resource"})

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "castingdesk_active_sessions",
		Help: "Number of live login sessions",
	})

	sessionSweeps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "castingdesk_session_sweeps_total",
		Help: "Count of expired sessions removed by the janitor",
	}, []string{"result"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveSignIn records a sign-in attempt with a result label
func ObserveSignIn(result string) {
	signInAttempts.WithLabelValues(result).Inc()
}

// ObserveAuthzDenial increments the denial counter for the given resource
func ObserveAuthzDenial(resource string) {
	authzDenials.WithLabelValues(resource).Inc()
}

// SetActiveSessions sets the session gauge to a specific count
func SetActiveSessions(count int) {
	if count < 0 {
		count = 0
	}
	activeSessions.Set(float64(count))
}

// ObserveSweep records the outcome of one janitor pass
func ObserveSweep(result string, removed int) {
	if removed < 0 {
		removed = 0
	}
	sessionSweeps.WithLabelValues(result).Add(float64(removed))
}
