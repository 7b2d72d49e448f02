package domain

import (
	"errors"
	"fmt"
)

var (
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrNetwork            = errors.New("network error")
	ErrSubmissionRejected = errors.New("submission rejected")
	ErrMissingField       = errors.New("missing field")
	ErrInvalidField       = errors.New("invalid field")
	ErrOptionUnavailable  = errors.New("option not available for current selection")
	ErrLoadInFlight       = errors.New("catalog load already in flight")
	ErrSubmitInFlight     = errors.New("submission already in flight")
	ErrSessionClosed      = errors.New("session closed")
	ErrInvalidTransition  = errors.New("invalid booking status transition")
	ErrNotFound           = errors.New("not found")
)

// MissingFieldError is returned by local validation before anything is sent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field: %s", e.Field)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

type InvalidFieldError struct {
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
}

func (e *InvalidFieldError) Is(target error) bool {
	return target == ErrInvalidField
}

// RejectedError carries the message of a server that declined a well-formed request.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("submission rejected (status %d): %s", e.StatusCode, e.Message)
}

func (e *RejectedError) Is(target error) bool {
	return target == ErrSubmissionRejected
}
