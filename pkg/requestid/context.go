package requestid

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/statekit/pkg/logger"
)

type contextKey struct{}

func WithContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKey{}, requestID)
}

func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	requestID, _ := ctx.Value(contextKey{}).(string)
	return requestID
}

// LoggerExtractor adds the request id to records logged with a request context.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if requestID := FromContext(ctx); requestID != "" {
			return logger.RequestID(requestID), true
		}
		return slog.Attr{}, false
	}
}
