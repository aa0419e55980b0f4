package errors

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net"
	"net/http"
)

var (
	// ErrServiceUnavailable is returned when the circuit breaker rejects a call.
	ErrServiceUnavailable = stdErrors.New("service unavailable")
	// ErrTimeout marks a call that exceeded its configured timeout.
	ErrTimeout = stdErrors.New("request timed out")
)

// StatusError is a completed HTTP exchange whose status was not 2xx.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status code %d", e.Method, e.URL, e.StatusCode)
}

// TransportError is a call that never produced a response.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the transport gave up because a deadline passed.
func (e *TransportError) Timeout() bool {
	if stdErrors.Is(e.Err, ErrTimeout) || stdErrors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return stdErrors.As(e.Err, &ne) && ne.Timeout()
}

// NewTransportError classifies err, folding deadline failures into ErrTimeout.
func NewTransportError(method, url string, err error) *TransportError {
	te := &TransportError{Method: method, URL: url, Err: err}
	if te.Timeout() && !stdErrors.Is(err, ErrTimeout) {
		te.Err = fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return te
}

// StatusCode returns the response status carried by err, or 0 when there was no response.
func StatusCode(err error) int {
	var se *StatusError
	if stdErrors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// IsAuthFailure reports whether err is a 401 or 403 response.
func IsAuthFailure(err error) bool {
	switch StatusCode(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return true
	}
	return false
}

// IsTimeout reports whether err is a transport timeout.
func IsTimeout(err error) bool {
	var te *TransportError
	if stdErrors.As(err, &te) {
		return te.Timeout()
	}
	return stdErrors.Is(err, ErrTimeout)
}

// IsCanceled reports whether the caller abandoned the request.
func IsCanceled(err error) bool {
	return stdErrors.Is(err, context.Canceled)
}
