package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/statekit/handler"
)

func render(t *testing.T, resp handler.Response) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, resp.Render(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
	return rec
}

func TestJSON(t *testing.T) {
	t.Parallel()

	rec := render(t, handler.JSON(map[string]string{"id": "1"}, handler.WithJSONMeta(map[string]any{"v": "1"})))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"id":"1"},"meta":{"v":"1"}}`, rec.Body.String())
}

func TestJSON_Error(t *testing.T) {
	t.Parallel()

	rec := render(t, handler.JSON(handler.ErrNotFound))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"not_found","message":"Not Found"}}`, rec.Body.String())
}

func TestRaw(t *testing.T) {
	t.Parallel()

	rec := render(t, handler.Raw(map[string]string{"__sessionId": "abc", "k": "v"}, handler.WithJSONStatus(http.StatusCreated)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"__sessionId":"abc","k":"v"}`, rec.Body.String())
}

func TestRaw_KeepsHTMLCharacters(t *testing.T) {
	t.Parallel()

	rec := render(t, handler.Raw(map[string]string{"k": "<a&b>"}))

	assert.Equal(t, "{\"k\":\"<a&b>\"}\n", rec.Body.String())
}

func TestRaw_IgnoresMeta(t *testing.T) {
	t.Parallel()

	rec := render(t, handler.Raw(map[string]string{"k": "v"}, handler.WithJSONMeta(map[string]any{"x": 1})))

	assert.JSONEq(t, `{"k":"v"}`, rec.Body.String())
}

func TestJSONError(t *testing.T) {
	t.Parallel()

	custom := handler.HTTPError{Code: http.StatusNotFound, Key: "session_not_found"}

	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"http error", custom, http.StatusNotFound, `{"error":{"code":"session_not_found","message":"Not Found"}}`},
		{"wrapped http error", fmt.Errorf("load: %w", custom), http.StatusNotFound, `{"error":{"code":"session_not_found","message":"Not Found"}}`},
		{"opaque error", errors.New("db exploded"), http.StatusInternalServerError, `{"error":{"code":"internal_server_error","message":"Internal Server Error"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := render(t, handler.JSONError(tt.err))
			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestEmpty(t *testing.T) {
	t.Parallel()

	rec := render(t, handler.Empty())
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = render(t, handler.EmptyWithStatus(http.StatusAccepted))
	assert.Equal(t, http.StatusAccepted, rec.Code)
}
