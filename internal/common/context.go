package common

import "context"

type contextKey string

const correlationIDKey contextKey = "correlation_id"

// WithCorrelationID returns a copy of ctx carrying the request's correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationID returns the correlation ID stored in ctx, or "".
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey).(string)
	return id
}

// ForContext scopes the logger to the correlation ID carried by ctx.
// Without one, the logger is returned unchanged.
func (l *Logger) ForContext(ctx context.Context) *Logger {
	id := CorrelationID(ctx)
	if id == "" {
		return l
	}
	return l.WithCorrelationId(id)
}
