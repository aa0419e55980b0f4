package networking

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"github.com/milan604/netservice/pkg/config"
	"github.com/milan604/netservice/pkg/logger"
)

// TokenRefresher obtains a new access token after a request failed
// authentication. It never returns an error: ok=false means no token.
type TokenRefresher interface {
	Refresh(ctx context.Context, failed *RequestConfig) (token string, ok bool)
}

// RefresherFunc adapts a function to TokenRefresher.
type RefresherFunc func(ctx context.Context, failed *RequestConfig) (string, bool)

func (f RefresherFunc) Refresh(ctx context.Context, failed *RequestConfig) (string, bool) {
	return f(ctx, failed)
}

// HTTPRefresher asks the API for a new token with a GET to a fixed path,
// reusing the failed request's headers, base URL and timeout.
type HTTPRefresher struct {
	doer   Doer
	path   string
	logger logger.LogManager
}

// NewHTTPRefresher returns a refresher that sends through doer. An empty path
// means config.DefaultRefreshPath.
func NewHTTPRefresher(doer Doer, path string, l logger.LogManager) *HTTPRefresher {
	if path == "" {
		path = config.DefaultRefreshPath
	}
	if l == nil {
		l = logger.NewNop()
	}
	return &HTTPRefresher{doer: doer, path: path, logger: l}
}

func (r *HTTPRefresher) Refresh(ctx context.Context, failed *RequestConfig) (string, bool) {
	req := &RequestConfig{
		Method:  http.MethodGet,
		BaseURL: failed.BaseURL,
		URL:     r.path,
		Timeout: failed.Timeout,
		Header:  failed.Header.Clone(),
		// a 401 from the refresh endpoint must not start another refresh
		Retried: true,
	}
	resp, err := r.doer.Do(ctx, req)
	if err != nil {
		r.logger.WarnFCtx(ctx, "token refresh request failed: %v", err)
		return "", false
	}

	token := ExtractToken(resp.Body)
	if token == "" {
		r.logger.WarnFCtx(ctx, "token refresh response carried no token")
		return "", false
	}
	return token, true
}

// tokenBody is the object shape a refresh endpoint may answer with.
type tokenBody struct {
	oauth2.Token
	CamelAccessToken string          `json:"accessToken"`
	PlainToken       string          `json:"token"`
	Data             json.RawMessage `json:"data"`
}

// ExtractToken reads a token from a refresh response body. It accepts a JSON
// string, an object with access_token, accessToken or token (directly or
// under data), and a plain-text body.
func ExtractToken(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}

	switch body[0] {
	case '"':
		var s string
		if json.Unmarshal(body, &s) == nil {
			return strings.TrimSpace(s)
		}
		return ""
	case '{':
		var tb tokenBody
		if json.Unmarshal(body, &tb) != nil {
			return ""
		}
		for _, t := range []string{tb.AccessToken, tb.CamelAccessToken, tb.PlainToken} {
			if t = strings.TrimSpace(t); t != "" {
				return t
			}
		}
		if len(tb.Data) > 0 {
			return ExtractToken(tb.Data)
		}
		return ""
	case '[':
		return ""
	}

	// anything else that parses as JSON (numbers, null, booleans) is not a token
	if json.Valid(body) {
		return ""
	}
	return string(body)
}
