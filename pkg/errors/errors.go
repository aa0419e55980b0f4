// Package errors carries the error types produced by the request pipeline:
// stack-annotated wrapping plus the two failure shapes of an HTTP call, a
// response with an unexpected status and a transport failure with no response.
package errors

import (
	stdErrors "errors"
	"fmt"
	"runtime"
	"strings"
)

// Error is a message, an optional cause and the call stack where it was made.
type Error struct {
	msg   string
	cause error
	pcs   []uintptr
}

func annotate(msg string, cause error) *Error {
	pcs := make([]uintptr, 32)
	// skip runtime.Callers, annotate and the exported constructor
	n := runtime.Callers(3, pcs)
	return &Error{msg: msg, cause: cause, pcs: pcs[:n]}
}

// New returns an error carrying the caller's stack.
func New(msg string) error {
	return annotate(msg, nil)
}

// Wrap annotates err with msg. A nil err stays nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return annotate(msg, err)
}

// Wrapf is Wrap with a format string.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return annotate(fmt.Sprintf(format, args...), err)
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return e.msg + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error { return e.cause }

// StackTrace renders the captured stack, one "function\n\tfile:line" per frame.
func (e *Error) StackTrace() string {
	var b strings.Builder
	frames := runtime.CallersFrames(e.pcs)
	for {
		f, more := frames.Next()
		if f.Function != "" {
			fmt.Fprintf(&b, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		}
		if !more {
			return b.String()
		}
	}
}

// Is, As and Unwrap re-export the standard helpers so callers need one import.
func Is(err, target error) bool     { return stdErrors.Is(err, target) }
func As(err error, target any) bool { return stdErrors.As(err, target) }
func Unwrap(err error) error        { return stdErrors.Unwrap(err) }
