package requestid

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

const (
	Header      = "X-Request-ID"
	maxIDLength = 128
)

var validIDRegex = regexp.MustCompile("^[a-zA-Z0-9_-]+$")

// Middleware propagates a valid inbound X-Request-ID or generates a UUID,
// echoes it in the response, and stores it in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(Header)
		if !isValidRequestID(requestID) {
			requestID = uuid.NewString()
		}
		w.Header().Set(Header, requestID)
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), requestID)))
	})
}

func isValidRequestID(id string) bool {
	return id != "" && len(id) <= maxIDLength && validIDRegex.MatchString(id)
}
