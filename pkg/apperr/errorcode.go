package apperr

import "net/http"

// Normalized result codes. Value is what ends up in ResponseBase.Code; Message
// is an i18n key resolved by the response normalizer.
var (
	ErrorCodeSuccess       = NewErrorCode("success", "error:success", http.StatusOK, http.StatusOK)
	ErrorCodeForceLogout   = NewErrorCode("force_logout", "error:forceLogout", http.StatusUnauthorized, http.StatusUnauthorized)
	ErrorCodeTimeout       = NewErrorCode("timeout", "error:timeout", http.StatusRequestTimeout, http.StatusRequestTimeout)
	ErrorCodeCanceled      = NewErrorCode("canceled", "error:canceled", 499, 0)
	ErrorCodeUnavailable   = NewErrorCode("unavailable", "error:unavailable", http.StatusServiceUnavailable, http.StatusServiceUnavailable)
	ErrorCodeNetwork       = NewErrorCode("network", "error:network", -1, 0)
	ErrorCodeData          = NewErrorCode("data", "error:errorData", -500, 0)
	ErrorCodeServer        = NewErrorCode("server", "error:server", 0, http.StatusInternalServerError)
	ErrorCodeInvalidConfig = NewErrorCode("invalid_config", "error:invalidConfig", -400, 0)
)

// ErrorCode describes a canonical result code.
// Value is the numeric code surfaced to callers, HTTPStatus the status it mirrors (0 if none).
type ErrorCode struct {
	code       string
	message    string
	value      int
	httpStatus int
}

func NewErrorCode(code, message string, value, httpStatus int) *ErrorCode {
	return &ErrorCode{code: code, message: message, value: value, httpStatus: httpStatus}
}

func (ec *ErrorCode) Code() string    { return ec.code }
func (ec *ErrorCode) Message() string { return ec.message }
func (ec *ErrorCode) Value() int      { return ec.value }
func (ec *ErrorCode) HTTPStatus() int { return ec.httpStatus }

// ValueFor returns the numeric code for a response status. Codes without a
// fixed value (ErrorCodeServer) mirror the status itself.
func (ec *ErrorCode) ValueFor(status int) int {
	if ec.value == 0 {
		return status
	}
	return ec.value
}
