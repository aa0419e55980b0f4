package logger

import "context"

type ctxKey int

const (
	requestIDKey ctxKey = iota
	endpointKey
)

// WithRequestID stores the id of the outgoing or incoming request so every
// *FCtx line of that call carries it as request_id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the id stored by WithRequestID.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithEndpoint stores the call target, logged as endpoint.
func WithEndpoint(ctx context.Context, endpoint string) context.Context {
	return context.WithValue(ctx, endpointKey, endpoint)
}

func contextFields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	var fields []any
	if id := RequestID(ctx); id != "" {
		fields = append(fields, "request_id", id)
	}
	if ep, ok := ctx.Value(endpointKey).(string); ok && ep != "" {
		fields = append(fields, "endpoint", ep)
	}
	return fields
}
