package ratelimiter

import (
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"
)

// maxKeyLength bounds stored key size; longer composite keys are hashed.
const maxKeyLength = 64

// KeyFunc extracts a rate limit key from the request. An empty key skips
// limiting for that request.
type KeyFunc func(r *http.Request) string

// Composite joins the non-empty keys of several key functions with ":".
// Keys longer than 64 bytes are hashed with FNV-1a.
func Composite(keyFuncs ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(keyFuncs))
		for _, fn := range keyFuncs {
			if key := fn(r); key != "" {
				parts = append(parts, key)
			}
		}
		if len(parts) == 0 {
			return ""
		}

		combined := strings.Join(parts, ":")
		if len(combined) <= maxKeyLength {
			return combined
		}
		h := fnv.New64a()
		_, _ = h.Write([]byte(combined))
		return strconv.FormatUint(h.Sum64(), 36)
	}
}

type middlewareConfig struct {
	onLimited func(w http.ResponseWriter, r *http.Request, res *Result)
	onError   func(w http.ResponseWriter, r *http.Request, err error)
}

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middlewareConfig)

// WithLimitedHandler renders denied requests. Rate limit headers are already set.
func WithLimitedHandler(fn func(w http.ResponseWriter, r *http.Request, res *Result)) MiddlewareOption {
	return func(c *middlewareConfig) {
		if fn != nil {
			c.onLimited = fn
		}
	}
}

// WithErrorHandler renders limiter failures.
func WithErrorHandler(fn func(w http.ResponseWriter, r *http.Request, err error)) MiddlewareOption {
	return func(c *middlewareConfig) {
		if fn != nil {
			c.onError = fn
		}
	}
}

// Middleware enforces limiter per key and sets the X-RateLimit-* headers.
func Middleware(limiter RateLimiter, keyFunc KeyFunc, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := middlewareConfig{
		onLimited: func(w http.ResponseWriter, _ *http.Request, _ *Result) {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		},
		onError: func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			result, err := limiter.Allow(r.Context(), key)
			if err != nil {
				cfg.onError(w, r, err)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed() {
				if retryAfter := int(result.RetryAfter().Seconds()); retryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				}
				cfg.onLimited(w, r, result)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
