package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/statekit/pkg/binder"
	"github.com/dmitrymomot/statekit/pkg/logger"
)

// Classifier maps a domain error to an HTTPError. It reports false when the
// error is not one it knows.
type Classifier func(error) (HTTPError, bool)

// ErrorHandlerConfig configures NewErrorHandler.
type ErrorHandlerConfig struct {
	// Classifiers run in order before the built-in mapping.
	Classifiers []Classifier
}

// Classify maps err to an HTTPError using the handler and binder sentinels.
// Unknown errors become ErrInternalServerError.
func Classify(err error) HTTPError {
	var httpErr HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr
	case errors.Is(err, binder.ErrMissingContentType), errors.Is(err, binder.ErrUnsupportedMediaType):
		return ErrUnsupportedMediaType
	case errors.Is(err, binder.ErrBodyTooLarge):
		return ErrRequestEntityTooLarge
	case errors.Is(err, binder.ErrInvalidJSON):
		return ErrBadRequest
	default:
		return ErrInternalServerError
	}
}

func isClientError(statusCode int) bool {
	return statusCode >= http.StatusBadRequest && statusCode < http.StatusInternalServerError
}

func logLevel(statusCode int) slog.Level {
	if isClientError(statusCode) {
		return slog.LevelWarn
	}
	return slog.LevelError
}

// NewErrorHandler logs err at warn for 4xx and error for 5xx, then renders the
// JSON error envelope. Request-scoped attributes come from the logger's
// context extractors.
func NewErrorHandler(log *slog.Logger, cfg ErrorHandlerConfig) ErrorHandler[Context] {
	if log == nil {
		log = slog.Default()
	}

	classify := func(err error) HTTPError {
		for _, c := range cfg.Classifiers {
			if c == nil {
				continue
			}
			if httpErr, ok := c(err); ok {
				return httpErr
			}
		}
		return Classify(err)
	}

	return func(ctx Context, err error) {
		r := ctx.Request()
		httpErr := classify(err)

		log.LogAttrs(r.Context(), logLevel(httpErr.Code), "request error",
			logger.Error(err),
			logger.Status(httpErr.Code),
			slog.String("code", httpErr.Key),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("error_handler"),
		)

		if renderErr := JSONError(httpErr).Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.LogAttrs(r.Context(), slog.LevelError, "failed to render error response",
				logger.Error(renderErr),
				logger.Event("render_error"),
			)
		}
	}
}
