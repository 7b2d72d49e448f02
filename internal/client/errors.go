package client

import (
	"errors"
	"fmt"
	"net/http"

	"sanskaar/booking/internal/domain"
)

var ErrMalformedResponse = errors.New("malformed response")

// APIError is a non-2xx status or an envelope with success=false.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("API error: status %d: %s", e.StatusCode, e.Message)
}

// Is matches domain.ErrUnauthenticated for 401 responses and domain.ErrNotFound for 404.
func (e *APIError) Is(target error) bool {
	switch target {
	case domain.ErrUnauthenticated:
		return e.StatusCode == http.StatusUnauthorized
	case domain.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}
