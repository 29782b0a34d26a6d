package session

import (
	"net/http"

	"github.com/dmitrymomot/statekit/pkg/logger"
)

// Middleware resolves the session identity once per request and stores it in
// the request context. Resolution failures end the request with 500.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := m.Identity(w, r)
		if err != nil {
			m.logger.ErrorContext(r.Context(), "failed to resolve session identity",
				logger.Error(err),
				logger.Component("session"),
			)
			http.Error(w, "Session error", http.StatusInternalServerError)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}
