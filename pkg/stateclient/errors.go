package stateclient

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidBaseURL   = errors.New("stateclient.invalid_base_url")
	ErrUnexpectedStatus = errors.New("stateclient.unexpected_status")
	ErrNilState         = errors.New("stateclient.nil_state")
	ErrResponseTooLarge = errors.New("stateclient.response_too_large")
)

// APIError is a non-success response decoded from the error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("state api: status %d", e.Status)
	}
	return fmt.Sprintf("state api: status %d: %s", e.Status, e.Code)
}

func (e *APIError) Unwrap() error {
	return ErrUnexpectedStatus
}
