package response

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/milan604/netservice/pkg/apperr"
	"github.com/milan604/netservice/pkg/errors"
	"github.com/milan604/netservice/pkg/i18n"
)

// ResponseBase is the uniform envelope every request resolves to.
type ResponseBase[T any] struct {
	Code   int    `json:"code"`
	Status bool   `json:"status"`
	Msg    string `json:"msg"`
	Data   T      `json:"data"`
}

// Normalizer turns raw outcomes into ResponseBase values with translated messages.
type Normalizer struct {
	tr         *i18n.Translator
	logoutCode int
}

// NewNormalizer returns a Normalizer backed by tr, or by i18n.Default() when tr is nil.
func NewNormalizer(tr *i18n.Translator) *Normalizer {
	if tr == nil {
		tr = i18n.Default()
	}
	return &Normalizer{tr: tr}
}

// WithLogoutCode returns a copy of n that reports a 401 as code instead of
// the default forced-logout code.
func (n *Normalizer) WithLogoutCode(code int) *Normalizer {
	if n == nil {
		n = NewNormalizer(nil)
	}
	c := *n
	c.logoutCode = code
	return &c
}

// Message translates the message key of ec for the locale carried by ctx.
func (n *Normalizer) Message(ctx context.Context, ec *apperr.ErrorCode, data map[string]any) string {
	if n == nil {
		n = NewNormalizer(nil)
	}
	return n.tr.TCtx(ctx, ec.Message(), data)
}

// Fail builds a failed envelope for ec.
func Fail[T any](ctx context.Context, n *Normalizer, ec *apperr.ErrorCode, status int) ResponseBase[T] {
	return ResponseBase[T]{
		Code: ec.ValueFor(status),
		Msg:  n.Message(ctx, ec, map[string]any{"status": strconv.Itoa(status)}),
	}
}

// HandleResponse normalizes a successful exchange. An empty body or a 204 is
// a success with zero data; a body that cannot be decoded into T is a data error.
func HandleResponse[T any](ctx context.Context, n *Normalizer, status int, body []byte) ResponseBase[T] {
	out := ResponseBase[T]{
		Code:   apperr.ErrorCodeSuccess.Value(),
		Status: true,
		Msg:    n.Message(ctx, apperr.ErrorCodeSuccess, nil),
	}
	if status == http.StatusNoContent || len(bytes.TrimSpace(body)) == 0 {
		return out
	}
	if raw, ok := any(&out.Data).(*[]byte); ok {
		*raw = append([]byte(nil), body...)
		return out
	}
	if err := json.Unmarshal(body, &out.Data); err != nil {
		return Fail[T](ctx, n, apperr.ErrorCodeData, status)
	}
	return out
}

// envelope is a server error body that already follows the ResponseBase shape.
type envelope struct {
	Code *int            `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// HandleError normalizes a failed exchange.
//
// Without a response: timeouts become 408, cancellation 499, an open breaker
// 503 and everything else the network code. With a response: 401 becomes the
// forced-logout code (see WithLogoutCode), an envelope body with a non-zero code is passed through,
// anything else mirrors the HTTP status.
func HandleError[T any](ctx context.Context, n *Normalizer, err error) ResponseBase[T] {
	var se *errors.StatusError
	if !errors.As(err, &se) {
		switch {
		case errors.IsTimeout(err):
			return Fail[T](ctx, n, apperr.ErrorCodeTimeout, 0)
		case errors.IsCanceled(err):
			return Fail[T](ctx, n, apperr.ErrorCodeCanceled, 0)
		case errors.Is(err, errors.ErrServiceUnavailable):
			return Fail[T](ctx, n, apperr.ErrorCodeUnavailable, 0)
		}
		return Fail[T](ctx, n, apperr.ErrorCodeNetwork, 0)
	}

	if se.StatusCode == http.StatusUnauthorized {
		out := Fail[T](ctx, n, apperr.ErrorCodeForceLogout, se.StatusCode)
		if n != nil && n.logoutCode != 0 {
			out.Code = n.logoutCode
		}
		return out
	}

	var env envelope
	if len(se.Body) > 0 && json.Unmarshal(se.Body, &env) == nil && env.Code != nil && *env.Code != 0 {
		out := ResponseBase[T]{Code: *env.Code, Msg: env.Msg}
		if len(env.Data) > 0 {
			// data that does not fit T is dropped, the code and message still pass through
			_ = json.Unmarshal(env.Data, &out.Data)
		}
		if out.Msg == "" {
			out.Msg = n.Message(ctx, apperr.ErrorCodeServer, map[string]any{"status": strconv.Itoa(se.StatusCode)})
		}
		return out
	}
	return Fail[T](ctx, n, apperr.ErrorCodeServer, se.StatusCode)
}
