// Package observability carries the request client's metrics and tracing.
package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/milan604/netservice/pkg/config"
	"github.com/milan604/netservice/pkg/errors"
	"github.com/milan604/netservice/pkg/logger"
	"github.com/milan604/netservice/pkg/version"
)

// Tracing owns the tracer provider behind request and refresh spans.
type Tracing struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
	log      logger.LogManager
}

// NewTracing exports spans over OTLP/HTTP to tc.Endpoint and installs the
// W3C trace context propagator. When tracing is disabled the tracer is a
// no-op and nothing global changes.
func NewTracing(ctx context.Context, tc config.TracingConfig, log logger.LogManager) (*Tracing, error) {
	if log == nil {
		log = logger.NewNop()
	}
	name := tc.ServiceName
	if name == "" {
		name = "netservice"
	}
	if !tc.Enabled {
		return &Tracing{tracer: noop.NewTracerProvider().Tracer(name), log: log}, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(tc.Endpoint))
	if err != nil {
		return nil, errors.Wrap(err, "otlp trace exporter")
	}
	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceNameKey.String(name),
		semconv.ServiceVersionKey.String(version.Version),
	))
	if err != nil {
		return nil, errors.Wrap(err, "trace resource")
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(tc.SampleRatio))),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	log.InfoF("exporting traces for %s to %s (sample ratio %.2f)", name, tc.Endpoint, tc.SampleRatio)
	return &Tracing{
		provider: tp,
		tracer:   tp.Tracer(name, trace.WithInstrumentationVersion(version.Version)),
		log:      log,
	}, nil
}

// Tracer is the tracer to hand to networking.WithTracer.
func (t *Tracing) Tracer() trace.Tracer {
	return t.tracer
}

// Enabled reports whether spans are exported.
func (t *Tracing) Enabled() bool {
	return t.provider != nil
}

// Shutdown flushes pending spans, waiting at most five seconds.
func (t *Tracing) Shutdown(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := t.provider.Shutdown(ctx); err != nil {
		t.log.ErrorF("flushing traces: %v", err)
		return err
	}
	return nil
}
