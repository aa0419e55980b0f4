// Package apperr defines the canonical result codes the request service
// normalizes every outcome to, and a small structured error used for
// configuration and validation failures.
package apperr

import "strings"

// Suggestion tells the user how to fix one field.
type Suggestion struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError is a coded error listing what to fix, field by field.
type AppError struct {
	Code        string       `json:"code"`
	Message     string       `json:"message"`
	Suggestions []Suggestion `json:"suggestions,omitempty"`

	ec    *ErrorCode
	cause error
}

// New returns an AppError for ec. A nil ec means ErrorCodeInvalidConfig.
func New(ec *ErrorCode) *AppError {
	if ec == nil {
		ec = ErrorCodeInvalidConfig
	}
	return &AppError{Code: ec.Code(), Message: ec.Message(), ec: ec}
}

// AddSuggestion appends a fix for field and returns a for chaining.
func (a *AppError) AddSuggestion(field, message string) *AppError {
	a.Suggestions = append(a.Suggestions, Suggestion{Field: field, Message: message})
	return a
}

// Wrap records err as the cause and returns a for chaining.
func (a *AppError) Wrap(err error) *AppError {
	a.cause = err
	return a
}

// Error lists the message followed by the cause or the suggestions.
func (a *AppError) Error() string {
	if a == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(a.Message)
	if a.cause != nil {
		b.WriteString(": ")
		b.WriteString(a.cause.Error())
	}
	for i, s := range a.Suggestions {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(s.Message)
	}
	return b.String()
}

func (a *AppError) Unwrap() error { return a.cause }

// ErrorCode returns the code a was built from.
func (a *AppError) ErrorCode() *ErrorCode {
	if a == nil {
		return nil
	}
	return a.ec
}
