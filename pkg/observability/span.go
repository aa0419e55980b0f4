package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attributes set by the request client.
const (
	AttrHTTPMethod     = attribute.Key("http.request.method")
	AttrHTTPStatusCode = attribute.Key("http.response.status_code")
	AttrHTTPURL        = attribute.Key("url.full")
	AttrRequestID      = attribute.Key("netservice.request_id")
	AttrAuthRetried    = attribute.Key("netservice.auth.retried")
	AttrRefreshOutcome = attribute.Key("netservice.refresh.outcome")
)

// Span events.
const (
	EventAuthRetry    = "netservice.auth.retry"
	EventTokenRefresh = "netservice.refresh"
)

// SpanEvent records name on the span carried by ctx, if it is recording.
func SpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.AddEvent(name, trace.WithAttributes(attrs...))
	}
}

// SpanError marks the span carried by ctx as failed with err.
func SpanError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
