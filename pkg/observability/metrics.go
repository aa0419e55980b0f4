package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Refresh outcomes recorded by ClientMetrics.
const (
	RefreshSucceeded = "succeeded"
	RefreshFailed    = "failed"
)

// ClientMetrics holds the request service collectors. A nil *ClientMetrics is valid and records nothing.
type ClientMetrics struct {
	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	inFlight       prometheus.Gauge
	refreshes      *prometheus.CounterVec
	authRetries    prometheus.Counter
	logouts        prometheus.Counter
	breakerChanges *prometheus.CounterVec
}

// NewClientMetrics creates the collectors and registers them on reg.
func NewClientMetrics(reg prometheus.Registerer) *ClientMetrics {
	m := &ClientMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "netservice_requests_total",
				Help: "Total number of outgoing requests by method and status (0 when no response)",
			},
			[]string{"method", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "netservice_request_duration_seconds",
				Help:    "Histogram of outgoing request durations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "netservice_in_flight_requests",
			Help: "Current number of in-flight outgoing requests",
		}),
		refreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "netservice_token_refresh_total",
				Help: "Token refresh calls by outcome",
			},
			[]string{"outcome"},
		),
		authRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "netservice_auth_retries_total",
			Help: "Requests that waited on a token refresh after a 401/403",
		}),
		logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "netservice_forced_logouts_total",
			Help: "Forced logouts triggered by normalized results",
		}),
		breakerChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "netservice_breaker_transitions_total",
				Help: "Circuit breaker state transitions",
			},
			[]string{"to"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.duration, m.inFlight, m.refreshes, m.authRetries, m.logouts, m.breakerChanges)
	}
	return m
}

// RequestStarted marks a request in flight and returns a func that records its outcome.
func (m *ClientMetrics) RequestStarted(method string) func(status int) {
	if m == nil {
		return func(int) {}
	}
	start := time.Now()
	m.inFlight.Inc()
	return func(status int) {
		m.inFlight.Dec()
		m.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	}
}

// RefreshDone counts a settled token refresh by outcome.
func (m *ClientMetrics) RefreshDone(outcome string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(outcome).Inc()
}

// AuthRetry counts a request that joined the refresh slot after failing auth.
func (m *ClientMetrics) AuthRetry() {
	if m == nil {
		return
	}
	m.authRetries.Inc()
}

// Logout counts a forced logout.
func (m *ClientMetrics) Logout() {
	if m == nil {
		return
	}
	m.logouts.Inc()
}

// BreakerTransition counts a circuit breaker moving to state to.
func (m *ClientMetrics) BreakerTransition(to string) {
	if m == nil {
		return
	}
	m.breakerChanges.WithLabelValues(to).Inc()
}

// RefreshCounter returns the refresh counter for outcome.
func (m *ClientMetrics) RefreshCounter(outcome string) prometheus.Counter {
	return m.refreshes.WithLabelValues(outcome)
}

// AuthRetryCounter returns the counter behind AuthRetry.
func (m *ClientMetrics) AuthRetryCounter() prometheus.Counter { return m.authRetries }

// LogoutCounter returns the counter behind Logout.
func (m *ClientMetrics) LogoutCounter() prometheus.Counter { return m.logouts }

// RequestCounter returns the request counter for method and status.
func (m *ClientMetrics) RequestCounter(method string, status int) prometheus.Counter {
	return m.requests.WithLabelValues(method, strconv.Itoa(status))
}

// BreakerCounter returns the transition counter for state to.
func (m *ClientMetrics) BreakerCounter(to string) prometheus.Counter {
	return m.breakerChanges.WithLabelValues(to)
}
