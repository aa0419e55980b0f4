package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestClientMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewClientMetrics(reg)

	done := m.RequestStarted("GET")
	done(200)
	m.RequestStarted("GET")(401)
	m.RefreshDone(RefreshSucceeded)
	m.AuthRetry()
	m.AuthRetry()
	m.Logout()
	m.BreakerTransition("open")

	if got := testutil.ToFloat64(m.RequestCounter("GET", 200)); got != 1 {
		t.Errorf("expected 1 GET 200, got %v", got)
	}
	if got := testutil.ToFloat64(m.RequestCounter("GET", 401)); got != 1 {
		t.Errorf("expected 1 GET 401, got %v", got)
	}
	if got := testutil.ToFloat64(m.RefreshCounter(RefreshSucceeded)); got != 1 {
		t.Errorf("expected 1 refresh, got %v", got)
	}
	if got := testutil.ToFloat64(m.AuthRetryCounter()); got != 2 {
		t.Errorf("expected 2 auth retries, got %v", got)
	}
	if got := testutil.ToFloat64(m.LogoutCounter()); got != 1 {
		t.Errorf("expected 1 logout, got %v", got)
	}
	if got := testutil.ToFloat64(m.BreakerCounter("open")); got != 1 {
		t.Errorf("expected 1 breaker transition, got %v", got)
	}
	if got := testutil.ToFloat64(m.inFlight); got != 0 {
		t.Errorf("expected no requests in flight, got %v", got)
	}
}

func TestClientMetrics_Nil(t *testing.T) {
	var m *ClientMetrics
	m.RequestStarted("GET")(200)
	m.RefreshDone(RefreshFailed)
	m.AuthRetry()
	m.Logout()
	m.BreakerTransition("open")
}
