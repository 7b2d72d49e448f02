package main

import (
	"errors"
	"fmt"

	"sanskaar/booking/internal/domain"
)

// userMessage turns an error into the line shown to the user.
func userMessage(err error) string {
	var (
		missing  *domain.MissingFieldError
		invalid  *domain.InvalidFieldError
		rejected *domain.RejectedError
	)

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return "Please log in first: booking login -email <email> -password <password>"
	case errors.Is(err, domain.ErrNetwork):
		return "Could not reach the booking service. Check your connection and try again."
	case errors.As(err, &rejected):
		return rejected.Message
	case errors.As(err, &missing):
		return fmt.Sprintf("Please provide %s.", missing.Field)
	case errors.As(err, &invalid):
		return fmt.Sprintf("Invalid %s: %s.", invalid.Field, invalid.Reason)
	case errors.Is(err, domain.ErrCatalogUnavailable):
		return "Services could not be loaded. Try again later."
	case errors.Is(err, domain.ErrNotFound):
		return "Booking not found."
	default:
		return err.Error()
	}
}
