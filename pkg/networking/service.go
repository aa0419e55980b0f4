package networking

import (
	"context"
	"net/http"
	"time"

	"github.com/milan604/netservice/pkg/apperr"
	"github.com/milan604/netservice/pkg/config"
	"github.com/milan604/netservice/pkg/logger"
	"github.com/milan604/netservice/pkg/observability"
	"github.com/milan604/netservice/pkg/response"
	"github.com/milan604/netservice/pkg/store"
)

// LogoutFunc ends the session after the API answered with the forced-logout code.
type LogoutFunc func(ctx context.Context) error

// Service issues requests through a shared Client using defaults built from
// the application state.
type Service struct {
	client          Doer
	store           store.Store
	normalizer      *response.Normalizer
	logout          LogoutFunc
	logger          logger.LogManager
	metrics         *observability.ClientMetrics
	forceLogoutCode int
	timeout         time.Duration
	formDataAuth    bool
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithNormalizer sets the normalizer used for responses and errors.
func WithNormalizer(n *response.Normalizer) ServiceOption {
	return func(s *Service) {
		if n != nil {
			s.normalizer = n
		}
	}
}

// WithLogout replaces the default logout, which clears the stored token.
func WithLogout(fn LogoutFunc) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.logout = fn
		}
	}
}

// WithForceLogoutCode sets the normalized code that ends the session.
func WithForceLogoutCode(code int) ServiceOption {
	return func(s *Service) {
		if code != 0 {
			s.forceLogoutCode = code
		}
	}
}

// WithServiceTimeout sets the timeout of the default request config.
func WithServiceTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithFormDataAuthHeader makes PostFormData send the token as authorization
// in addition to the token header, so form uploads take part in refresh.
func WithFormDataAuthHeader() ServiceOption {
	return func(s *Service) {
		s.formDataAuth = true
	}
}

// WithServiceLogger sets the service logger.
func WithServiceLogger(l logger.LogManager) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithServiceMetrics counts forced logouts on m.
func WithServiceMetrics(m *observability.ClientMetrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService creates a Service sending through client and reading state from st.
func NewService(client Doer, st store.Store, opts ...ServiceOption) *Service {
	s := &Service{
		client:          client,
		store:           st,
		normalizer:      response.NewNormalizer(nil),
		logger:          logger.NewNop(),
		forceLogoutCode: config.DefaultForceLogoutCode,
		timeout:         config.DefaultTimeout,
	}
	s.logout = func(ctx context.Context) error {
		return st.ClearToken(ctx)
	}
	for _, opt := range opts {
		opt(s)
	}
	s.normalizer = s.normalizer.WithLogoutCode(s.forceLogoutCode)
	return s
}

// DefaultConfig is the base every request starts from: the stored base URL,
// the configured timeout, a JSON content type and the stored token.
func (s *Service) DefaultConfig(state store.AppState) *RequestConfig {
	return &RequestConfig{
		BaseURL: state.AppURL,
		Timeout: s.timeout,
		Header: http.Header{
			http.CanonicalHeaderKey(HeaderContentType):   {"application/json"},
			http.CanonicalHeaderKey(HeaderAuthorization): {state.Token},
		},
	}
}

type requestOptions struct {
	checkLogout bool
}

// RequestOption tunes a single Request call.
type RequestOption func(*requestOptions)

// WithoutLogoutCheck keeps a forced-logout code as a plain failure.
func WithoutLogoutCheck() RequestOption {
	return func(o *requestOptions) {
		o.checkLogout = false
	}
}

// Request merges cfg over the service defaults, sends it through the shared
// client and normalizes the outcome. It never panics and never returns an
// error: failures are carried by the Result.
func Request[T any](ctx context.Context, s *Service, cfg *RequestConfig, opts ...RequestOption) Result[T] {
	ro := requestOptions{checkLogout: true}
	for _, opt := range opts {
		opt(&ro)
	}

	state, err := s.store.State(ctx)
	if err != nil {
		s.logger.ErrorFCtx(ctx, "failed to read app state: %v", err)
		out := response.Fail[T](ctx, s.normalizer, apperr.ErrorCodeInvalidConfig, 0)
		return Result[T]{Kind: Failure, Response: &out}
	}

	merged := MergeConfig(s.DefaultConfig(state), cfg)
	resp, err := s.client.Do(ctx, merged)
	if err == nil {
		out := response.HandleResponse[T](ctx, s.normalizer, resp.StatusCode, resp.Body)
		kind := Success
		if !out.Status {
			kind = Failure
		}
		return Result[T]{Kind: kind, Response: &out}
	}

	out := response.HandleError[T](ctx, s.normalizer, err)
	if ro.checkLogout && out.Code == s.forceLogoutCode {
		s.forceLogout(ctx)
		return Result[T]{Kind: LoggedOut, Response: &out}
	}
	return Result[T]{Kind: Failure, Response: &out}
}

func (s *Service) forceLogout(ctx context.Context) {
	s.logger.InfoFCtx(ctx, "forced logout")
	if err := s.logout(ctx); err != nil {
		s.logger.WarnFCtx(ctx, "logout failed: %v", err)
	}
	s.metrics.Logout()
}
