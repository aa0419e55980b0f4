package networking

import (
	"context"

	"github.com/milan604/netservice/pkg/errors"
	"github.com/milan604/netservice/pkg/observability"
)

// refreshKey names the single refresh slot shared by every request of a Client.
const refreshKey = "token"

var errRefreshFailed = errors.New("token refresh yielded no token")

// intercept decides what happens to a failed request. Only a 401/403 on a
// request that has not been retried starts (or joins) a refresh; the original
// error is returned unchanged in every other case, including a failed refresh.
func (c *Client) intercept(ctx context.Context, cfg *RequestConfig, err error) (*Response, error) {
	if cfg.Retried || !errors.IsAuthFailure(err) || c.refresher == nil {
		return nil, err
	}
	cfg.Retried = true

	token, ok := c.awaitRefresh(ctx, cfg)
	if !ok {
		c.logger.InfoFCtx(ctx, "token refresh failed, returning original %d for %s %s", errors.StatusCode(err), cfg.Method, cfg.URL)
		return nil, err
	}

	if c.store != nil {
		if serr := c.store.SetToken(ctx, token); serr != nil {
			c.logger.WarnFCtx(ctx, "failed to persist refreshed token: %v", serr)
		}
	}
	cfg.SetHeader(HeaderAuthorization, token)
	observability.SpanEvent(ctx, observability.EventAuthRetry,
		observability.AttrHTTPMethod.String(cfg.Method),
		observability.AttrHTTPURL.String(cfg.URL),
	)

	return c.Do(ctx, cfg)
}

// awaitRefresh joins the refresh slot: the first caller starts the refresh,
// later callers wait on the same result. The refresh itself is detached from
// the starting caller's cancellation and bounded by the request timeout; a
// waiter whose own context ends stops waiting and reports failure.
func (c *Client) awaitRefresh(ctx context.Context, failed *RequestConfig) (string, bool) {
	snapshot := failed.Clone()
	ch := c.refreshGroup.DoChan(refreshKey, func() (any, error) {
		c.refreshPending.Store(true)
		defer c.refreshPending.Store(false)
		return c.runRefresh(ctx, snapshot)
	})
	c.metrics.AuthRetry()

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", false
		}
		token, _ := res.Val.(string)
		return token, token != ""
	case <-ctx.Done():
		c.logger.DebugFCtx(ctx, "stopped waiting for token refresh: %v", ctx.Err())
		return "", false
	}
}

func (c *Client) runRefresh(ctx context.Context, failed *RequestConfig) (any, error) {
	timeout := failed.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	rctx, span := c.tracer.Start(rctx, "token refresh")
	defer span.End()

	token, ok := c.refresher.Refresh(rctx, failed)
	outcome := observability.RefreshSucceeded
	if !ok || token == "" {
		outcome = observability.RefreshFailed
	}
	c.metrics.RefreshDone(outcome)
	span.SetAttributes(observability.AttrRefreshOutcome.String(outcome))
	observability.SpanEvent(rctx, observability.EventTokenRefresh, observability.AttrRefreshOutcome.String(outcome))

	if outcome == observability.RefreshFailed {
		return "", errRefreshFailed
	}
	return token, nil
}
