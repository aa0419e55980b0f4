package errors

import (
	"context"
	stdErrors "errors"
	"net/http"
	"strings"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestWrap(t *testing.T) {
	if Wrap(nil, "noop") != nil {
		t.Error("wrapping nil must return nil")
	}
	err := Wrapf(ErrServiceUnavailable, "GET %s", "/orders")
	if !Is(err, ErrServiceUnavailable) {
		t.Error("wrapped error must match its cause")
	}
	if err.Error() != "GET /orders: service unavailable" {
		t.Errorf("unexpected message %q", err.Error())
	}
	var e *Error
	if !As(err, &e) || !strings.Contains(e.StackTrace(), "errors_test.go") {
		t.Error("expected a stack trace pointing at the caller")
	}
}

func TestTransportError(t *testing.T) {
	tests := []struct {
		name        string
		cause       error
		wantTimeout bool
		wantCancel  bool
	}{
		{"deadline", context.DeadlineExceeded, true, false},
		{"net timeout", timeoutErr{}, true, false},
		{"canceled", context.Canceled, false, true},
		{"refused", stdErrors.New("connection refused"), false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := error(NewTransportError(http.MethodGet, "/orders", tc.cause))
			if got := IsTimeout(err); got != tc.wantTimeout {
				t.Errorf("IsTimeout: want %t got %t", tc.wantTimeout, got)
			}
			if tc.wantTimeout && !Is(err, ErrTimeout) {
				t.Error("timeouts must match ErrTimeout")
			}
			if got := IsCanceled(err); got != tc.wantCancel {
				t.Errorf("IsCanceled: want %t got %t", tc.wantCancel, got)
			}
			if !Is(err, tc.cause) {
				t.Error("the cause must stay reachable")
			}
			if StatusCode(err) != 0 {
				t.Error("transport errors carry no status")
			}
		})
	}
}

func TestStatusError(t *testing.T) {
	for status, auth := range map[int]bool{
		http.StatusUnauthorized:        true,
		http.StatusForbidden:           true,
		http.StatusNotFound:            false,
		http.StatusInternalServerError: false,
	} {
		err := Wrap(&StatusError{Method: http.MethodGet, URL: "/orders", StatusCode: status}, "call")
		if got := StatusCode(err); got != status {
			t.Errorf("want status %d got %d", status, got)
		}
		if got := IsAuthFailure(err); got != auth {
			t.Errorf("%d: IsAuthFailure want %t got %t", status, auth, got)
		}
	}
}
