package main

import (
	"errors"
	"fmt"
	"testing"

	"sanskaar/booking/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "catalog load without login asks to log in",
			err:  fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, domain.ErrUnauthenticated),
			want: "Please log in first: booking login -email <email> -password <password>",
		},
		{
			name: "network",
			err:  fmt.Errorf("%w: dial tcp: connection refused", domain.ErrNetwork),
			want: "Could not reach the booking service. Check your connection and try again.",
		},
		{
			name: "server message shown verbatim",
			err:  &domain.RejectedError{StatusCode: 409, Message: "Pandit is not available at this time"},
			want: "Pandit is not available at this time",
		},
		{
			name: "missing field",
			err:  &domain.MissingFieldError{Field: "provider"},
			want: "Please provide provider.",
		},
		{
			name: "invalid field",
			err:  &domain.InvalidFieldError{Field: "date", Reason: "must be YYYY-MM-DD"},
			want: "Invalid date: must be YYYY-MM-DD.",
		},
		{
			name: "catalog unavailable",
			err:  fmt.Errorf("%w: status 502", domain.ErrCatalogUnavailable),
			want: "Services could not be loaded. Try again later.",
		},
		{
			name: "other errors pass through",
			err:  errors.New("booking journal requires database.enabled"),
			want: "booking journal requires database.enabled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, userMessage(tt.err))
		})
	}
}
