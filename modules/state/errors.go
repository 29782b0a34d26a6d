package state

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/statekit/handler"
	"github.com/dmitrymomot/statekit/pkg/binder"
	"github.com/dmitrymomot/statekit/pkg/session"
)

var (
	ErrSessionNotFound = handler.HTTPError{Code: http.StatusNotFound, Key: "session_not_found"}
	ErrInvalidState    = handler.HTTPError{Code: http.StatusBadRequest, Key: "invalid_state"}
	ErrStoreClosed     = handler.HTTPError{Code: http.StatusServiceUnavailable, Key: "store_closed"}
	ErrSession         = handler.HTTPError{Code: http.StatusInternalServerError, Key: "session_error"}
)

// classify maps session and binder errors onto the state API error codes.
func classify(err error) (handler.HTTPError, bool) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return ErrSessionNotFound, true
	case errors.Is(err, binder.ErrUnsupportedMediaType), errors.Is(err, binder.ErrMissingContentType):
		return handler.ErrUnsupportedMediaType, true
	case errors.Is(err, binder.ErrBodyTooLarge):
		return handler.ErrRequestEntityTooLarge, true
	case errors.Is(err, session.ErrSerialization), errors.Is(err, binder.ErrInvalidJSON):
		return ErrInvalidState, true
	case errors.Is(err, session.ErrStoreClosed):
		return ErrStoreClosed, true
	case errors.Is(err, session.ErrContextUnavailable),
		errors.Is(err, session.ErrTokenGeneration),
		errors.Is(err, session.ErrInvalidIdentity):
		return ErrSession, true
	default:
		return handler.HTTPError{}, false
	}
}
