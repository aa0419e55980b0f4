package response

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/milan604/netservice/pkg/errors"
	"github.com/milan604/netservice/pkg/i18n"
)

type order struct {
	ID    string `json:"id"`
	Total int    `json:"total"`
}

func TestHandleResponse(t *testing.T) {
	ctx := context.Background()
	n := NewNormalizer(nil)

	tests := []struct {
		name   string
		status int
		body   string
		want   ResponseBase[order]
	}{
		{
			name:   "decodes data",
			status: http.StatusOK,
			body:   `{"id":"o-1","total":42}`,
			want:   ResponseBase[order]{Code: 200, Status: true, Msg: "Success", Data: order{ID: "o-1", Total: 42}},
		},
		{
			name:   "empty body",
			status: http.StatusOK,
			want:   ResponseBase[order]{Code: 200, Status: true, Msg: "Success"},
		},
		{
			name:   "no content",
			status: http.StatusNoContent,
			body:   "ignored",
			want:   ResponseBase[order]{Code: 200, Status: true, Msg: "Success"},
		},
		{
			name:   "undecodable body",
			status: http.StatusOK,
			body:   `<html>`,
			want:   ResponseBase[order]{Code: -500, Msg: "Something went wrong. Please try again later."},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := HandleResponse[order](ctx, n, tc.status, []byte(tc.body))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Error("unexpected response (-want +got):", diff)
			}
		})
	}
}

func TestHandleResponse_RawBytes(t *testing.T) {
	got := HandleResponse[[]byte](context.Background(), NewNormalizer(nil), http.StatusOK, []byte("plain"))
	if !got.Status || string(got.Data) != "plain" {
		t.Errorf("unexpected response: %+v", got)
	}
}

func TestHandleError(t *testing.T) {
	ctx := context.Background()
	n := NewNormalizer(nil)

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "forced logout",
			err:      &errors.StatusError{StatusCode: http.StatusUnauthorized},
			wantCode: 401,
			wantMsg:  "Your session has expired. Please sign in again.",
		},
		{
			name:     "server status mirrored",
			err:      &errors.StatusError{StatusCode: http.StatusBadGateway},
			wantCode: 502,
			wantMsg:  "The server returned an error (502).",
		},
		{
			name:     "envelope passthrough",
			err:      &errors.StatusError{StatusCode: http.StatusBadRequest, Body: []byte(`{"code":1001,"msg":"out of stock"}`)},
			wantCode: 1001,
			wantMsg:  "out of stock",
		},
		{
			name:     "envelope with zero code is not passed through",
			err:      &errors.StatusError{StatusCode: http.StatusBadRequest, Body: []byte(`{"code":0,"msg":"ok?"}`)},
			wantCode: 400,
			wantMsg:  "The server returned an error (400).",
		},
		{
			name:     "timeout",
			err:      errors.NewTransportError("GET", "/orders", context.DeadlineExceeded),
			wantCode: 408,
			wantMsg:  "The request timed out. Please try again.",
		},
		{
			name:     "canceled",
			err:      errors.NewTransportError("GET", "/orders", context.Canceled),
			wantCode: 499,
			wantMsg:  "The request was canceled.",
		},
		{
			name:     "breaker open",
			err:      errors.Wrap(errors.ErrServiceUnavailable, "circuit open"),
			wantCode: 503,
			wantMsg:  "The service is temporarily unavailable.",
		},
		{
			name:     "network",
			err:      errors.NewTransportError("GET", "/orders", fmt.Errorf("dial tcp: connection refused")),
			wantCode: -1,
			wantMsg:  "Unable to connect. Please check your network connection.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := HandleError[order](ctx, n, tc.err)
			if got.Status {
				t.Error("error responses must not be successful")
			}
			if got.Code != tc.wantCode {
				t.Errorf("code: want %d got %d", tc.wantCode, got.Code)
			}
			if got.Msg != tc.wantMsg {
				t.Errorf("msg: want %q got %q", tc.wantMsg, got.Msg)
			}
		})
	}
}

func TestHandleError_Locale(t *testing.T) {
	ctx := i18n.ContextWithLocale(context.Background(), "vi")
	got := HandleError[order](ctx, NewNormalizer(nil), &errors.StatusError{StatusCode: http.StatusUnauthorized})
	en := HandleError[order](context.Background(), NewNormalizer(nil), &errors.StatusError{StatusCode: http.StatusUnauthorized})
	if got.Msg == en.Msg {
		t.Errorf("expected a translated message, got %q", got.Msg)
	}
}

func TestHandleError_LogoutCode(t *testing.T) {
	ctx := context.Background()
	base := NewNormalizer(nil)
	n := base.WithLogoutCode(419)

	if got := HandleError[order](ctx, n, &errors.StatusError{StatusCode: http.StatusUnauthorized}); got.Code != 419 {
		t.Errorf("want 419 for a 401, got %d", got.Code)
	}
	if got := HandleError[order](ctx, base, &errors.StatusError{StatusCode: http.StatusUnauthorized}); got.Code != http.StatusUnauthorized {
		t.Errorf("base normalizer must keep 401, got %d", got.Code)
	}
	if got := HandleError[order](ctx, n, &errors.StatusError{StatusCode: http.StatusForbidden}); got.Code != http.StatusForbidden {
		t.Errorf("only a 401 is remapped, got %d", got.Code)
	}
}
