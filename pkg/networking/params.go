package networking

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/milan604/netservice/pkg/utils"
)

// Params are the per-call inputs of the verb helpers.
type Params struct {
	// URL is relative to the stored base URL unless absolute.
	URL string
	// Params become query parameters.
	Params map[string]any
	// Path fills {name} and :name placeholders in URL.
	Path    map[string]any
	Body    any
	Headers map[string]string
	// Form and Files make up a PostFormData body.
	Form  map[string]string
	Files []FormFile
}

// HandleParameter turns params into the per-call config for method.
func HandleParameter(params Params, method string) *RequestConfig {
	cfg := &RequestConfig{
		Method: method,
		URL:    utils.ExpandPath(params.URL, params.Path),
	}
	if len(params.Params) > 0 {
		cfg.Query = url.Values{}
		for k, v := range params.Params {
			addQuery(cfg.Query, k, v)
		}
	}
	for k, v := range params.Headers {
		cfg.SetHeader(k, v)
	}
	switch method {
	case http.MethodGet, http.MethodHead:
	default:
		cfg.Body = params.Body
	}
	return cfg
}

func addQuery(q url.Values, key string, v any) {
	switch vv := v.(type) {
	case nil:
	case []string:
		for _, s := range vv {
			q.Add(key, s)
		}
	case []any:
		for _, s := range vv {
			q.Add(key, fmt.Sprint(s))
		}
	default:
		q.Add(key, fmt.Sprint(vv))
	}
}

// Get sends a GET.
func Get[T any](ctx context.Context, s *Service, params Params, opts ...RequestOption) Result[T] {
	return Request[T](ctx, s, HandleParameter(params, http.MethodGet), opts...)
}

// Post sends a POST with params.Body.
func Post[T any](ctx context.Context, s *Service, params Params, opts ...RequestOption) Result[T] {
	return Request[T](ctx, s, HandleParameter(params, http.MethodPost), opts...)
}

// Put sends a PUT with params.Body.
func Put[T any](ctx context.Context, s *Service, params Params, opts ...RequestOption) Result[T] {
	return Request[T](ctx, s, HandleParameter(params, http.MethodPut), opts...)
}

// Delete sends a DELETE, with params.Body when set.
func Delete[T any](ctx context.Context, s *Service, params Params, opts ...RequestOption) Result[T] {
	return Request[T](ctx, s, HandleParameter(params, http.MethodDelete), opts...)
}

// PostFormData sends a multipart/form-data POST built from params.Form and
// params.Files. The stored token travels in the "token" header.
func PostFormData[T any](ctx context.Context, s *Service, params Params, opts ...RequestOption) Result[T] {
	cfg := HandleParameter(params, http.MethodPost)
	cfg.Body = &FormData{Fields: params.Form, Files: params.Files}

	state, err := s.store.State(ctx)
	if err == nil {
		cfg.SetHeader(HeaderFormToken, state.Token)
		if !s.formDataAuth {
			// form uploads only carry the token header
			cfg.SetHeader(HeaderAuthorization, "")
		}
	}
	return Request[T](ctx, s, cfg, opts...)
}
