package event

import (
	"time"

	"sanskaar/booking/internal/domain"
)

const BookingStatusChangedType = "BookingStatusChanged"

type BookingStatusChangedEvent struct {
	EventID   string               `json:"event_id"`
	BookingID string               `json:"booking_id"`
	From      domain.BookingStatus `json:"from"`
	To        domain.BookingStatus `json:"to"`
	ChangedAt time.Time            `json:"changed_at"`
}

func (e *BookingStatusChangedEvent) EventType() string {
	return BookingStatusChangedType
}

func (e *BookingStatusChangedEvent) EventValue() ([]byte, error) {
	return DefaultEventValue(e)
}
