package binder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
)

// DefaultMaxBodySize caps JSON request bodies at 1 MiB.
const DefaultMaxBodySize int64 = 1 << 20

type jsonConfig struct {
	maxBodySize int64
}

// JSONOption configures JSON.
type JSONOption func(*jsonConfig)

// WithMaxBodySize overrides DefaultMaxBodySize. Non-positive values are ignored.
func WithMaxBodySize(n int64) JSONOption {
	return func(c *jsonConfig) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}

// JSON creates a binder that decodes an application/json body into v.
// The body must hold exactly one JSON value.
//
//	http.HandleFunc("/state", handler.Wrap(putState,
//		handler.WithBinder[handler.Context, stateBody](binder.JSON()),
//	))
func JSON(opts ...JSONOption) func(r *http.Request, v any) error {
	cfg := jsonConfig{maxBodySize: DefaultMaxBodySize}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(r *http.Request, v any) error {
		contentType := r.Header.Get("Content-Type")
		if contentType == "" {
			return fmt.Errorf("%w: expected application/json", ErrMissingContentType)
		}
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnsupportedMediaType, err)
		}
		if mediaType != "application/json" {
			return fmt.Errorf("%w: got %s, expected application/json", ErrUnsupportedMediaType, mediaType)
		}
		if r.Body == nil {
			return fmt.Errorf("%w: empty body", ErrInvalidJSON)
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, cfg.maxBodySize+1))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		if int64(len(body)) > cfg.maxBodySize {
			return fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, cfg.maxBodySize)
		}

		decoder := json.NewDecoder(bytes.NewReader(body))
		decoder.DisallowUnknownFields()

		if err := decoder.Decode(v); err != nil {
			return classifyJSONError(err)
		}

		var extra json.RawMessage
		if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: unexpected data after JSON value", ErrInvalidJSON)
		}
		return nil
	}
}

func classifyJSONError(err error) error {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.Is(err, io.EOF):
		return fmt.Errorf("%w: empty body", ErrInvalidJSON)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("%w: truncated body", ErrInvalidJSON)
	case errors.As(err, &syntaxErr):
		return fmt.Errorf("%w: syntax error at offset %d", ErrInvalidJSON, syntaxErr.Offset)
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return fmt.Errorf("%w: field %q must be %s, got %s", ErrInvalidJSON, typeErr.Field, typeErr.Type, typeErr.Value)
		}
		return fmt.Errorf("%w: expected %s, got %s", ErrInvalidJSON, typeErr.Type, typeErr.Value)
	default:
		return errors.Join(ErrInvalidJSON, err)
	}
}
