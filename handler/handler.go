package handler

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/statekit/pkg/binder"
)

// HandlerFunc provides type-safe HTTP request handling with custom context support.
// C must implement the Context interface, R can be any request type.
//
//	get := handler.HandlerFunc[handler.Context, struct{}](
//		func(ctx handler.Context, _ struct{}) handler.Response {
//			st, err := manager.Load(ctx, ctx.ResponseWriter(), ctx.Request())
//			if err != nil {
//				return handler.Error(err)
//			}
//			return handler.Raw(st)
//		},
//	)
type HandlerFunc[C Context, R any] func(ctx C, req R) Response

// Response renders itself to an http.ResponseWriter.
// Implementations should set headers, status code, and write body.
// A Render error is passed to the configured ErrorHandler.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

type errorResponse struct {
	err error
}

func (e errorResponse) Render(http.ResponseWriter, *http.Request) error {
	return e.err
}

// Error returns a Response that routes err to the ErrorHandler without
// writing anything itself.
func Error(err error) Response {
	if err == nil {
		err = ErrInternalServerError
	}
	return errorResponse{err: err}
}

// Bind parses HTTP requests into typed values.
type Bind func(r *http.Request, v any) error

// ErrorHandler handles errors from binding or rendering.
type ErrorHandler[C Context] func(ctx C, err error)

// Decorator wraps a HandlerFunc to add cross-cutting functionality.
// Decorators are applied in order, with the first decorator in the list
// being the outermost wrapper.
//
// Example logger decorator:
//
//	func Logger[C Context, R any]() Decorator[C, R] {
//		return func(next HandlerFunc[C, R]) HandlerFunc[C, R] {
//			return func(ctx C, req R) Response {
//				log.Printf("Request: %+v", req)
//				resp := next(ctx, req)
//				log.Printf("Response complete")
//				return resp
//			}
//		}
//	}
type Decorator[C Context, R any] func(HandlerFunc[C, R]) HandlerFunc[C, R]

// WrapOption configures the Wrap function.
type WrapOption[C Context, R any] func(*wrapConfig[C, R])

// wrapConfig holds configuration for Wrap.
type wrapConfig[C Context, R any] struct {
	binders        []Bind
	errorHandler   ErrorHandler[C]
	contextFactory func(http.ResponseWriter, *http.Request) C
	decorators     []Decorator[C, R]
}

// WithBinder replaces the binders with a single one.
func WithBinder[C Context, R any](b Bind) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		if b != nil {
			c.binders = []Bind{b}
		}
	}
}

// WithBinders sets multiple request binders that will be applied in order.
// Each binder should process only its specific struct tags.
//
// A binder returning binder.ErrBinderNotApplicable is skipped.
func WithBinders[C Context, R any](binders ...Bind) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		c.binders = append(c.binders, binders...)
	}
}

// WithErrorHandler sets a custom error handler.
func WithErrorHandler[C Context, R any](h ErrorHandler[C]) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithContextFactory sets a custom context factory.
func WithContextFactory[C Context, R any](f func(http.ResponseWriter, *http.Request) C) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		if f != nil {
			c.contextFactory = f
		}
	}
}

// WithDecorators adds decorators to wrap the handler.
// Decorators are applied in order, with the first decorator being the outermost.
func WithDecorators[C Context, R any](decorators ...Decorator[C, R]) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		c.decorators = append(c.decorators, decorators...)
	}
}

// defaultErrorHandler renders the JSON error envelope without logging.
func defaultErrorHandler[C Context](ctx C, err error) {
	_ = JSONError(Classify(err)).Render(ctx.ResponseWriter(), ctx.Request())
}

// Wrap converts a typed HandlerFunc to http.HandlerFunc.
//
//	r.Put("/state", handler.Wrap(put,
//		handler.WithBinder[handler.Context, stateBody](binder.JSON()),
//		handler.WithErrorHandler[handler.Context, stateBody](errorHandler),
//	))
//
// Handlers with a custom context type must supply WithContextFactory.
func Wrap[C Context, R any](h HandlerFunc[C, R], opts ...WrapOption[C, R]) http.HandlerFunc {
	cfg := &wrapConfig[C, R]{
		errorHandler: defaultErrorHandler[C],
	}

	if cfg.contextFactory == nil {
		cfg.contextFactory = func(w http.ResponseWriter, r *http.Request) C {
			ctx := NewContext(w, r)
			if c, ok := any(ctx).(C); ok {
				return c
			}
			panic("cannot use default context factory with custom context type - provide WithContextFactory")
		}
	}

	for _, opt := range opts {
		opt(cfg)
	}

	// Apply decorators in reverse order so first decorator is outermost
	finalHandler := h
	for i := len(cfg.decorators) - 1; i >= 0; i-- {
		finalHandler = cfg.decorators[i](finalHandler)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := cfg.contextFactory(w, r)

		var req R

		for _, bind := range cfg.binders {
			if err := bind(r, &req); err != nil {
				if errors.Is(err, binder.ErrBinderNotApplicable) {
					continue
				}
				cfg.errorHandler(ctx, err)
				return
			}
		}

		response := finalHandler(ctx, req)
		if response == nil {
			cfg.errorHandler(ctx, ErrNilResponse)
			return
		}
		if err := response.Render(w, r); err != nil {
			cfg.errorHandler(ctx, err)
		}
	}
}
