package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"

	"github.com/dmitrymomot/statekit/pkg/logger"
)

type identityContextKey struct{}

// WithIdentity adds a resolved session identity to the context
func WithIdentity(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext retrieves the session identity from the context
func IdentityFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(identityContextKey{}).(string)
	return id, ok && id != ""
}

// MustIdentityFromContext retrieves the session identity or panics
func MustIdentityFromContext(ctx context.Context) string {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		panic("session: identity not found in context")
	}
	return id
}

// LoggerExtractor adds a short, non-reversible session reference to log
// records so requests from one client can be correlated without logging the
// identity itself.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		id, ok := IdentityFromContext(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		return logger.SessionRef(Fingerprint(id)), true
	}
}

// Fingerprint returns a short hash of id suitable for logs.
func Fingerprint(id string) string {
	sum := sha256.Sum256([]byte(id))
	return hex.EncodeToString(sum[:6])
}
