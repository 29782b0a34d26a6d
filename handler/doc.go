// Package handler provides type-safe HTTP request handling.
//
// A HandlerFunc receives a Context and a bound request value and returns a
// Response. Wrap turns it into an http.HandlerFunc, running the configured
// binders first and routing bind, render and handler errors to one
// ErrorHandler:
//
//	put := func(ctx handler.Context, body stateBody) handler.Response {
//		if err := manager.Save(ctx, ctx.ResponseWriter(), ctx.Request(), st); err != nil {
//			return handler.Error(err)
//		}
//		return handler.Empty()
//	}
//
// Responses:
//
//   - JSON wraps a value in {"data": ...}
//   - Raw writes the value as the whole document
//   - JSONError writes {"error": {"code", "message"}}
//   - Empty and EmptyWithStatus write a status only
//
// NewErrorHandler classifies errors into HTTPError values, logs them at warn
// for client errors and error for server errors, and writes the JSON error
// envelope.
package handler
