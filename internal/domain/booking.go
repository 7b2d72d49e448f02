package domain

import "time"

type BookingStatus string

func (s BookingStatus) String() string {
	return string(s)
}

const (
	StatusRequested BookingStatus = "REQUESTED"
	StatusAccepted  BookingStatus = "ACCEPTED"
	StatusRejected  BookingStatus = "REJECTED"
	StatusCompleted BookingStatus = "COMPLETED"
	StatusCancelled BookingStatus = "CANCELLED"
)

var BookingStatuses = []BookingStatus{
	StatusRequested,
	StatusAccepted,
	StatusRejected,
	StatusCompleted,
	StatusCancelled,
}

var statusTransitions = map[BookingStatus][]BookingStatus{
	StatusRequested: {StatusAccepted, StatusRejected, StatusCancelled},
	StatusAccepted:  {StatusCompleted, StatusCancelled},
	StatusRejected:  {},
	StatusCompleted: {},
	StatusCancelled: {},
}

// CanTransitionTo reports whether a booking in status s may move to target.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal is true for unknown statuses too.
func (s BookingStatus) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

func (s BookingStatus) GetDisplayName() string {
	switch s {
	case StatusRequested:
		return "Requested"
	case StatusAccepted:
		return "Accepted"
	case StatusRejected:
		return "Rejected"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

type BookingProvider struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

type BookingService struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Price Price  `json:"price"`
}

// Booking is a booking as returned by the list and detail endpoints.
type Booking struct {
	ID        string          `json:"id"`
	Date      string          `json:"date"`
	StartTime string          `json:"startTime"`
	EndTime   string          `json:"endTime,omitempty"`
	Status    BookingStatus   `json:"status"`
	Notes     string          `json:"notes,omitempty"`
	Provider  BookingProvider `json:"provider"`
	Service   BookingService  `json:"service"`
}

// CreateBookingRequest is the exact body of the create-booking call.
// EndTime and Notes are sent as explicit nulls when unset.
type CreateBookingRequest struct {
	ProviderID  string  `json:"providerId"`
	ServiceID   string  `json:"serviceId"`
	BookingDate string  `json:"bookingDate"`
	StartTime   string  `json:"startTime"`
	EndTime     *string `json:"endTime"`
	Notes       *string `json:"notes"`
}

type CreatedBooking struct {
	ID string `json:"id"`
}

// CountByStatus tallies bookings per status.
func CountByStatus(bookings []Booking) map[BookingStatus]int {
	counts := make(map[BookingStatus]int, len(BookingStatuses))
	for _, b := range bookings {
		counts[b.Status]++
	}
	return counts
}

// BookingRecord is what the local journal keeps about a submitted booking.
type BookingRecord struct {
	ID          string    `json:"id"`
	ProviderID  string    `json:"providerId"`
	ServiceID   string    `json:"serviceId"`
	BookingDate string    `json:"bookingDate"`
	StartTime   string    `json:"startTime"`
	EndTime     *string   `json:"endTime"`
	Notes       *string   `json:"notes"`
	SubmittedAt time.Time `json:"submittedAt"`
}
