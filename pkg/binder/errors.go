package binder

import "errors"

var (
	ErrUnsupportedMediaType = errors.New("binder.unsupported_media_type")
	ErrMissingContentType   = errors.New("binder.missing_content_type")
	ErrInvalidJSON          = errors.New("binder.invalid_json")
	ErrBodyTooLarge         = errors.New("binder.body_too_large")
	// ErrBinderNotApplicable lets a binder opt out of a request; Wrap skips it.
	ErrBinderNotApplicable = errors.New("binder.not_applicable")
)
