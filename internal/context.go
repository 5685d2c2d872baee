package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextOperatorKey ctxKey = "operatorID"

func OperatorIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if operatorID, ok := ctx.Value(ContextOperatorKey).(string); ok {
		return operatorID
	}
	return ""
}

func ContextWithOperatorID(ctx context.Context, operatorID string) context.Context {
	return context.WithValue(ctx, ContextOperatorKey, operatorID)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
