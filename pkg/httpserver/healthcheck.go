package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/statekit/pkg/logger"
)

// Check is a named readiness dependency.
type Check struct {
	Name string
	Fn   func(context.Context) error
}

// LivenessHandler always answers 200 "ALIVE".
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writePlain(w, http.StatusOK, "ALIVE")
	}
}

// ReadinessHandler runs every check against the request context in order.
// It answers 200 "READY" when all pass and 503 "NOT_READY" on the first failure.
func ReadinessHandler(log *slog.Logger, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		for _, c := range checks {
			if c.Fn == nil {
				continue
			}
			if err := c.Fn(ctx); err != nil {
				log.WarnContext(ctx, "readiness check failed",
					slog.String("check", c.Name),
					logger.Error(err),
				)
				writePlain(w, http.StatusServiceUnavailable, "NOT_READY")
				return
			}
		}
		writePlain(w, http.StatusOK, "READY")
	}
}

func writePlain(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
