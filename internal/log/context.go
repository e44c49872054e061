package log

import (
	"context"
	"log/slog"
)

// ContextKey type for context keys
type ContextKey string

const (
	// RequestIDContextKey is the context key for the request ID
	RequestIDContextKey ContextKey = "request_id"
)

// WithRequestID stores a request ID on the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDContextKey, requestID)
}

// RequestID returns the request ID stored on the context, if any.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDContextKey).(string); ok {
		return id
	}
	return ""
}

// LogTransactionCreated logs a successful transaction creation with the
// standard field set.
func LogTransactionCreated(ctx context.Context, desc string, amountCents int64, category string) {
	fields := NewFields().
		WithTransaction(desc, amountCents, category).
		WithOperation(OpCreate).
		WithComponent(ComponentStorage)

	slog.InfoContext(ctx, "Transaction created", fields.ToSlice()...)
}
