package binder_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/statekit/pkg/binder"
)

func newJSONRequest(body, contentType string) *http.Request {
	req := httptest.NewRequest(http.MethodPut, "/state", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("flat string map", func(t *testing.T) {
		t.Parallel()

		var got map[string]string
		err := binder.JSON()(newJSONRequest(`{"theme":"dark","lang":"en"}`, "application/json"), &got)

		require.NoError(t, err)
		assert.Equal(t, map[string]string{"theme": "dark", "lang": "en"}, got)
	})

	t.Run("content type with charset", func(t *testing.T) {
		t.Parallel()

		var got map[string]string
		err := binder.JSON()(newJSONRequest(`{"a":"1"}`, "application/json; charset=utf-8"), &got)

		require.NoError(t, err)
		assert.Equal(t, "1", got["a"])
	})

	t.Run("struct with unknown field", func(t *testing.T) {
		t.Parallel()

		var got struct {
			Name string `json:"name"`
		}
		err := binder.JSON()(newJSONRequest(`{"name":"x","extra":1}`, "application/json"), &got)

		assert.ErrorIs(t, err, binder.ErrInvalidJSON)
	})
}

func TestJSON_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		contentType string
		want        error
	}{
		{"missing content type", `{}`, "", binder.ErrMissingContentType},
		{"wrong media type", `a=b`, "application/x-www-form-urlencoded", binder.ErrUnsupportedMediaType},
		{"malformed media type", `{}`, "application/", binder.ErrUnsupportedMediaType},
		{"empty body", ``, "application/json", binder.ErrInvalidJSON},
		{"syntax error", `{"a":}`, "application/json", binder.ErrInvalidJSON},
		{"truncated", `{"a":"b"`, "application/json", binder.ErrInvalidJSON},
		{"non-string value", `{"a":1}`, "application/json", binder.ErrInvalidJSON},
		{"array instead of object", `["a"]`, "application/json", binder.ErrInvalidJSON},
		{"trailing data", `{"a":"b"} {"c":"d"}`, "application/json", binder.ErrInvalidJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got map[string]string
			err := binder.JSON()(newJSONRequest(tt.body, tt.contentType), &got)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestJSON_MaxBodySize(t *testing.T) {
	t.Parallel()

	bind := binder.JSON(binder.WithMaxBodySize(16))

	var got map[string]string
	err := bind(newJSONRequest(`{"k":"`+strings.Repeat("v", 32)+`"}`, "application/json"), &got)
	assert.ErrorIs(t, err, binder.ErrBodyTooLarge)

	got = nil
	err = bind(newJSONRequest(`{"k":"v"}`, "application/json"), &got)
	require.NoError(t, err)
	assert.Equal(t, "v", got["k"])
}
