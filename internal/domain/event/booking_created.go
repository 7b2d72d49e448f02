package event

import "time"

const BookingCreatedType = "BookingCreated"

type BookingCreatedEvent struct {
	EventID     string    `json:"event_id"`
	BookingID   string    `json:"booking_id"`
	ProviderID  string    `json:"provider_id"`
	ServiceID   string    `json:"service_id"`
	BookingDate string    `json:"booking_date"`
	StartTime   string    `json:"start_time"`
	EndTime     *string   `json:"end_time"`
	CreatedAt   time.Time `json:"created_at"`
}

func (e *BookingCreatedEvent) EventType() string {
	return BookingCreatedType
}

func (e *BookingCreatedEvent) EventValue() ([]byte, error) {
	return DefaultEventValue(e)
}
