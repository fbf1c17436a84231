package observability

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	correlationIDCtxKey contextKey = "correlation_id"
	userIDCtxKey        contextKey = "user_id"
)

// Attribute keys shared by log entries.
const (
	CorrelationIDKey = "correlation_id"
	UserIDKey        = "user_id"
)

// WithCorrelationID tags the context with a correlation ID. An empty id
// generates a fresh one, which is how each CLI invocation and each worker
// sweep run gets its own.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.New().String()
	}
	return context.WithValue(ctx, correlationIDCtxKey, id)
}

// CorrelationIDFromContext extracts the correlation ID, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(correlationIDCtxKey).(string); ok {
		return id
	}
	return ""
}

// WithUserID tags the context with the acting user.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDCtxKey, userID)
}

// UserIDFromContext extracts the user ID, or "".
func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(userIDCtxKey).(string); ok {
		return id
	}
	return ""
}
