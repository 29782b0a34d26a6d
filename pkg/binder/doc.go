// Package binder decodes HTTP request bodies into typed values for
// handler.Wrap. Failures wrap ErrMissingContentType, ErrUnsupportedMediaType,
// ErrBodyTooLarge or ErrInvalidJSON so callers can map them with errors.Is.
package binder
