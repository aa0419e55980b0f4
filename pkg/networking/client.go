// Package networking is the shared request service: one HTTP client carrying
// the base configuration, a refresh-and-retry interceptor for expired access
// tokens, and typed verb helpers that normalize every outcome.
package networking

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/milan604/netservice/pkg/config"
	"github.com/milan604/netservice/pkg/errors"
	"github.com/milan604/netservice/pkg/logger"
	"github.com/milan604/netservice/pkg/observability"
	"github.com/milan604/netservice/pkg/store"
	"github.com/milan604/netservice/pkg/version"
)

const tracerName = "github.com/milan604/netservice/pkg/networking"

// Response is a completed 2xx exchange.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Config     *RequestConfig
}

// Doer sends a request descriptor. *Client implements it.
type Doer interface {
	Do(ctx context.Context, cfg *RequestConfig) (*Response, error)
}

// RequestHook is a function that can modify a request before it's sent.
type RequestHook func(*http.Request) error

// Client is the process-wide HTTP client. It owns the refresh slot, so every
// request issued through the same Client shares at most one token refresh.
type Client struct {
	httpClient     *http.Client
	logger         logger.LogManager
	store          store.Store
	refresher      TokenRefresher
	refreshPath    string
	limiter        *rate.Limiter
	breaker        *gobreaker.CircuitBreaker[*Response]
	metrics        *observability.ClientMetrics
	tracer         trace.Tracer
	userAgent      string
	timeout        time.Duration
	requestHooks   []RequestHook
	refreshGroup   singleflight.Group
	refreshPending atomic.Bool
}

var _ Doer = (*Client)(nil)

// ClientOption configures the HTTP client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithLogger sets a logger for the client.
func WithLogger(l logger.LogManager) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStore sets where a refreshed token is written back.
func WithStore(s store.Store) ClientOption {
	return func(c *Client) {
		c.store = s
	}
}

// WithRefresher replaces the default HTTP refresher.
func WithRefresher(r TokenRefresher) ClientOption {
	return func(c *Client) {
		c.refresher = r
	}
}

// WithRefreshPath points the default refresher at a different endpoint.
func WithRefreshPath(path string) ClientOption {
	return func(c *Client) {
		c.refreshPath = path
	}
}

// WithTimeout sets the timeout applied to requests that carry none.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit throttles outgoing requests. rps <= 0 disables throttling.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithCircuitBreaker trips after consecutive transport or 5xx failures and
// rejects calls until timeout has passed.
func WithCircuitBreaker(name string, failures uint32, timeout time.Duration) ClientOption {
	return func(c *Client) {
		if failures == 0 {
			failures = 5
		}
		c.breaker = gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
			Name:    name,
			Timeout: timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			IsSuccessful: func(err error) bool {
				if err == nil {
					return true
				}
				status := errors.StatusCode(err)
				return status != 0 && status < http.StatusInternalServerError
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				c.metrics.BreakerTransition(to.String())
				c.logger.WarnF("circuit breaker %s: %s -> %s", name, from, to)
			},
		})
	}
}

// WithMetrics records request, refresh and logout counters on m.
func WithMetrics(m *observability.ClientMetrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithTracer sets the tracer used for request and refresh spans.
func WithTracer(t trace.Tracer) ClientOption {
	return func(c *Client) {
		if t != nil {
			c.tracer = t
		}
	}
}

// WithRequestHook adds a hook that runs before each request.
func WithRequestHook(hook RequestHook) ClientOption {
	return func(c *Client) {
		c.requestHooks = append(c.requestHooks, hook)
	}
}

// NewClient creates a new HTTP client with the given options. Without
// WithRefresher, tokens are refreshed with a GET to the refresh path
// (config.DefaultRefreshPath unless WithRefreshPath says otherwise).
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{},
		logger:     logger.NewNop(),
		tracer:     otel.Tracer(tracerName),
		userAgent:  version.UserAgent(),
		timeout:    config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.refresher == nil {
		c.refresher = NewHTTPRefresher(c, c.refreshPath, c.logger)
	}

	return c
}

// NewClientFromConfig builds a client from the loaded network settings.
func NewClientFromConfig(nc config.NetworkConfig, opts ...ClientOption) *Client {
	base := []ClientOption{
		WithTimeout(nc.Timeout),
		WithRateLimit(nc.RateLimit.RPS, nc.RateLimit.Burst),
		WithRefreshPath(nc.RefreshPath),
	}
	if nc.Breaker.Enabled {
		base = append(base, WithCircuitBreaker("netservice", nc.Breaker.Failures, nc.Breaker.Timeout))
	}
	return NewClient(append(base, opts...)...)
}

// RefreshPending reports whether a token refresh is in flight.
func (c *Client) RefreshPending() bool {
	return c.refreshPending.Load()
}

// Do sends cfg. A 401/403 on a request that was not yet retried refreshes the
// token once and resubmits; the resubmission's outcome is final.
//
// Non-2xx responses are returned as *errors.StatusError, calls that produced
// no response as *errors.TransportError, and calls rejected by an open
// circuit breaker wrap errors.ErrServiceUnavailable.
func (c *Client) Do(ctx context.Context, cfg *RequestConfig) (*Response, error) {
	resp, err := c.send(ctx, cfg)
	if err == nil {
		return resp, nil
	}
	return c.intercept(ctx, cfg, err)
}

// send runs one attempt through the limiter and breaker.
func (c *Client) send(ctx context.Context, cfg *RequestConfig) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.NewTransportError(cfg.Method, cfg.URL, err)
		}
	}
	if c.breaker == nil {
		return c.roundTrip(ctx, cfg)
	}

	resp, err := c.breaker.Execute(func() (*Response, error) {
		return c.roundTrip(ctx, cfg)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, errors.Wrapf(errors.ErrServiceUnavailable, "%s %s: %v", cfg.Method, cfg.URL, err)
	}
	return resp, err
}

// roundTrip performs the HTTP exchange and classifies the outcome.
func (c *Client) roundTrip(ctx context.Context, cfg *RequestConfig) (*Response, error) {
	method := cfg.Method
	if method == "" {
		method = http.MethodGet
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	target, err := cfg.target()
	if err != nil {
		return nil, errors.NewTransportError(method, cfg.URL, err)
	}

	req, err := c.newRequest(ctx, method, target, cfg)
	if err != nil {
		return nil, errors.NewTransportError(method, target, err)
	}

	requestID := req.Header.Get(HeaderRequestID)
	ctx, span := c.tracer.Start(ctx, "HTTP "+method, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		observability.AttrHTTPMethod.String(method),
		observability.AttrHTTPURL.String(target),
		observability.AttrRequestID.String(requestID),
		observability.AttrAuthRetried.Bool(cfg.Retried),
	)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	done := c.metrics.RequestStarted(method)
	c.logger.DebugFCtx(ctx, "sending %s %s (request_id=%s, retried=%t)", method, target, requestID, cfg.Retried)

	httpResp, err := c.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		done(0)
		terr := errors.NewTransportError(method, target, err)
		observability.SpanError(ctx, terr)
		c.logger.WarnFCtx(ctx, "request %s %s failed: %v", method, target, err)
		return nil, terr
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	done(httpResp.StatusCode)
	span.SetAttributes(observability.AttrHTTPStatusCode.Int(httpResp.StatusCode))
	if err != nil {
		terr := errors.NewTransportError(method, target, fmt.Errorf("failed to read response body: %w", err))
		observability.SpanError(ctx, terr)
		return nil, terr
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		serr := &errors.StatusError{
			Method:     method,
			URL:        target,
			StatusCode: httpResp.StatusCode,
			Header:     httpResp.Header,
			Body:       body,
		}
		observability.SpanError(ctx, serr)
		c.logger.DebugFCtx(ctx, "request %s %s returned %d", method, target, httpResp.StatusCode)
		return nil, serr
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       body,
		Config:     cfg,
	}, nil
}

// newRequest builds the *http.Request and applies request hooks.
func (c *Client) newRequest(ctx context.Context, method, target string, cfg *RequestConfig) (*http.Request, error) {
	data, contentType, err := encodeBody(cfg.Body)
	if err != nil {
		return nil, err
	}
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	for k, v := range cfg.Header {
		// an empty value (no stored token) means the header is not sent
		if len(v) == 0 || (len(v) == 1 && v[0] == "") {
			continue
		}
		req.Header[http.CanonicalHeaderKey(k)] = append([]string(nil), v...)
	}
	if contentType != "" && (contentType != "application/json" || req.Header.Get(HeaderContentType) == "") {
		req.Header.Set(HeaderContentType, contentType)
	}
	if req.Header.Get(HeaderRequestID) == "" {
		req.Header.Set(HeaderRequestID, uuid.NewString())
	}
	if req.Header.Get(HeaderUserAgent) == "" {
		req.Header.Set(HeaderUserAgent, c.userAgent)
	}

	for _, hook := range c.requestHooks {
		if err := hook(req); err != nil {
			return nil, fmt.Errorf("request hook failed: %w", err)
		}
	}
	return req, nil
}
