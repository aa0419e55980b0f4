package networking

import "github.com/milan604/netservice/pkg/response"

// Kind tells how a request ended.
type Kind int

const (
	// Success is a normalized response whose Status is true.
	Success Kind = iota
	// Failure carries the normalized error.
	Failure
	// LoggedOut means the session was ended because the API answered with
	// the forced-logout code.
	LoggedOut
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case LoggedOut:
		return "logged_out"
	}
	return "unknown"
}

// Result is what every request resolves to. Response is never nil.
type Result[T any] struct {
	Kind     Kind
	Response *response.ResponseBase[T]
}

// OK reports whether the request succeeded.
func (r Result[T]) OK() bool { return r.Kind == Success }

// Data returns the decoded payload, zero unless the request succeeded.
func (r Result[T]) Data() T {
	var zero T
	if r.Response == nil || r.Kind != Success {
		return zero
	}
	return r.Response.Data
}
