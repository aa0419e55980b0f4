package apperr

import (
	"errors"
	"net/http"
	"testing"
)

func TestErrorCode_ValueFor(t *testing.T) {
	if got := ErrorCodeServer.ValueFor(http.StatusBadGateway); got != http.StatusBadGateway {
		t.Errorf("server code must mirror the status, got %d", got)
	}
	if got := ErrorCodeTimeout.ValueFor(0); got != http.StatusRequestTimeout {
		t.Errorf("want 408, got %d", got)
	}
	if got := ErrorCodeNetwork.ValueFor(0); got != -1 {
		t.Errorf("want -1, got %d", got)
	}
}

func TestAppError(t *testing.T) {
	err := New(ErrorCodeInvalidConfig).
		AddSuggestion("BaseURL", "BaseURL must be a valid url").
		AddSuggestion("Timeout", "Timeout must be greater than 0")

	if err.ErrorCode() != ErrorCodeInvalidConfig {
		t.Error("lost the error code")
	}
	want := "error:invalidConfig: BaseURL must be a valid url; Timeout must be greater than 0"
	if err.Error() != want {
		t.Errorf("want %q got %q", want, err.Error())
	}

	cause := errors.New("boom")
	wrapped := New(ErrorCodeData).Wrap(cause)
	if !errors.Is(wrapped, cause) || wrapped.Error() != "error:errorData: boom" {
		t.Errorf("unexpected wrap: %v", wrapped)
	}

	var nilErr *AppError
	if nilErr.ErrorCode() != nil || nilErr.Error() != "<nil>" {
		t.Error("nil AppError must be safe to inspect")
	}
}
