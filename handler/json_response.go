package handler

import (
	"encoding/json"
	"errors"
	"net/http"
)

// JSONResponse is the standard JSON envelope.
type JSONResponse struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type jsonResponse struct {
	status int
	body   any
}

func (j jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(j.status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(j.body)
}

// JSONOption configures JSON response
type JSONOption func(*jsonResponse)

// WithJSONStatus sets custom HTTP status code
func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

// WithJSONMeta adds metadata to an enveloped response. It has no effect on Raw.
func WithJSONMeta(meta map[string]any) JSONOption {
	return func(r *jsonResponse) {
		if env, ok := r.body.(JSONResponse); ok {
			env.Meta = meta
			r.body = env
		}
	}
}

// JSON renders v inside the {"data": ...} envelope.
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK}

	switch val := v.(type) {
	case JSONResponse:
		r.body = val
	case error:
		r.body = JSONResponse{Error: errorToDetail(val, &r.status)}
	default:
		r.body = JSONResponse{Data: v}
	}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Raw renders v as-is, without the envelope. Use it where the wire contract
// is the bare document, such as the flat state object.
func Raw(v any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK, body: v}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSONError renders err as {"error": {"code", "message"}}.
func JSONError(err error, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusInternalServerError}
	r.body = JSONResponse{Error: errorToDetail(err, &r.status)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func errorToDetail(err error, status *int) *ErrorDetail {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		*status = httpErr.Code
		return &ErrorDetail{Code: httpErr.Key, Message: http.StatusText(httpErr.Code)}
	}
	*status = http.StatusInternalServerError
	return &ErrorDetail{Code: ErrInternalServerError.Key, Message: http.StatusText(http.StatusInternalServerError)}
}
