package handler_test

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/statekit/handler"
	"github.com/dmitrymomot/statekit/pkg/binder"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want handler.HTTPError
	}{
		{"http error", handler.ErrNotFound, handler.ErrNotFound},
		{"missing content type", binder.ErrMissingContentType, handler.ErrUnsupportedMediaType},
		{"bad media type", fmt.Errorf("%w: text/plain", binder.ErrUnsupportedMediaType), handler.ErrUnsupportedMediaType},
		{"too large", binder.ErrBodyTooLarge, handler.ErrRequestEntityTooLarge},
		{"invalid json", binder.ErrInvalidJSON, handler.ErrBadRequest},
		{"unknown", errors.New("x"), handler.ErrInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, handler.Classify(tt.err))
		})
	}
}

func TestNewErrorHandler(t *testing.T) {
	t.Parallel()

	errDomain := errors.New("domain.gone")
	custom := handler.HTTPError{Code: http.StatusGone, Key: "resource_gone"}
	classifier := func(err error) (handler.HTTPError, bool) {
		if errors.Is(err, errDomain) {
			return custom, true
		}
		return handler.HTTPError{}, false
	}

	tests := []struct {
		name   string
		err    error
		status int
		code   string
		level  string
	}{
		{"classifier wins", errDomain, http.StatusGone, "resource_gone", "WARN"},
		{"builtin mapping", binder.ErrInvalidJSON, http.StatusBadRequest, "bad_request", "WARN"},
		{"server error", errors.New("boom"), http.StatusInternalServerError, "internal_server_error", "ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			log := slog.New(slog.NewTextHandler(&buf, nil))
			eh := handler.NewErrorHandler(log, handler.ErrorHandlerConfig{
				Classifiers: []handler.Classifier{nil, classifier},
			})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, "/state", nil)
			eh(handler.NewContext(rec, req), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, `{"error":{"code":"`+tt.code+`","message":"`+http.StatusText(tt.status)+`"}}`, rec.Body.String())
			assert.Contains(t, buf.String(), "level="+tt.level)
			assert.Contains(t, buf.String(), "code="+tt.code)
			assert.Contains(t, buf.String(), "path=/state")
		})
	}
}
