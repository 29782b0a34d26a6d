package session

import "errors"

var (
	// ErrContextUnavailable indicates there is no request or response to read or write the identity cookie
	ErrContextUnavailable = errors.New("session.context_unavailable")

	// ErrSessionNotFound indicates no state was materialized for the identity
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrSerialization indicates a malformed state payload
	ErrSerialization = errors.New("session.serialization")

	// ErrInvalidIdentity indicates an empty session identity
	ErrInvalidIdentity = errors.New("session.invalid_identity")

	// ErrTokenGeneration indicates token generation failed
	ErrTokenGeneration = errors.New("session.token_generation_failed")

	// ErrStoreClosed indicates the store was closed
	ErrStoreClosed = errors.New("session.store_closed")
)
