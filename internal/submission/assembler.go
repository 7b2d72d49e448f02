package submission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"sanskaar/booking/internal/auth"
	"sanskaar/booking/internal/client"
	"sanskaar/booking/internal/config"
	"sanskaar/booking/internal/domain"
	"sanskaar/booking/internal/domain/event"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// isoLayout matches what browsers produce for Date.prototype.toISOString.
const isoLayout = "2006-01-02T15:04:05.000Z"

type State int

const (
	StateIdle State = iota
	StateValidating
	StateSending
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSending:
		return "sending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type Creator interface {
	CreateBooking(ctx context.Context, cred auth.Credential, req *domain.CreateBookingRequest) (*domain.CreatedBooking, error)
}

type Journal interface {
	SaveBooking(ctx context.Context, record *domain.BookingRecord) error
}

type Publisher interface {
	AddEvent(ctx context.Context, e event.Event) (string, error)
}

// Assembler turns a selection into a create-booking call. One submission
// may be outstanding at a time; journal and publisher are optional.
type Assembler struct {
	creator        Creator
	journal        Journal
	publisher      Publisher
	location       *time.Location
	notesMaxLength int
	now            func() time.Time

	mu      sync.Mutex
	state   State
	lastErr error
}

func NewAssembler(creator Creator, journal Journal, publisher Publisher, cfg config.BookingConfig) (*Assembler, error) {
	location := time.UTC
	if cfg.TimeZone != "" {
		loc, err := time.LoadLocation(cfg.TimeZone)
		if err != nil {
			return nil, fmt.Errorf("invalid booking.timezone %q: %w", cfg.TimeZone, err)
		}
		location = loc
	}

	return &Assembler{
		creator:        creator,
		journal:        journal,
		publisher:      publisher,
		location:       location,
		notesMaxLength: cfg.NotesMaxLength,
		now:            time.Now,
	}, nil
}

// BuildRequest validates sel and produces the create-booking body.
func (a *Assembler) BuildRequest(sel domain.Selection) (*domain.CreateBookingRequest, error) {
	if err := Validate(sel, a.notesMaxLength); err != nil {
		return nil, err
	}

	date := strings.TrimSpace(sel.Date)
	bookingDate, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return nil, &domain.InvalidFieldError{Field: "date", Reason: err.Error()}
	}

	start, err := a.combine(date, sel.StartTime)
	if err != nil {
		return nil, &domain.InvalidFieldError{Field: "startTime", Reason: err.Error()}
	}

	req := &domain.CreateBookingRequest{
		ProviderID:  sel.ProviderID,
		ServiceID:   sel.ServiceID,
		BookingDate: bookingDate.Format(isoLayout),
		StartTime:   start.UTC().Format(isoLayout),
	}

	if strings.TrimSpace(sel.EndTime) != "" {
		end, err := a.combine(date, sel.EndTime)
		if err != nil {
			return nil, &domain.InvalidFieldError{Field: "endTime", Reason: err.Error()}
		}
		if !end.After(start) {
			return nil, &domain.InvalidFieldError{Field: "endTime", Reason: "must be after startTime"}
		}
		endTime := end.UTC().Format(isoLayout)
		req.EndTime = &endTime
	}

	if notes := strings.TrimSpace(sel.Notes); notes != "" {
		req.Notes = &notes
	}

	return req, nil
}

func (a *Assembler) combine(date, clock string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", date+" "+strings.TrimSpace(clock), a.location)
}

// Submit validates sel and issues exactly one create call. A call made while
// another submission is validating or sending returns domain.ErrSubmitInFlight.
func (a *Assembler) Submit(ctx context.Context, cred auth.Credential, sel domain.Selection) (*domain.CreatedBooking, error) {
	if !a.begin() {
		log.Debugf("Ignoring duplicate submit while %s", a.State())
		return nil, domain.ErrSubmitInFlight
	}

	req, err := a.BuildRequest(sel)
	if err != nil {
		return nil, a.fail(err)
	}

	if err := cred.Validate(a.now()); err != nil {
		return nil, a.fail(err)
	}

	a.setState(StateSending)
	log.Infof("🔄 Creating booking: service %s with provider %s at %s", req.ServiceID, req.ProviderID, req.StartTime)

	created, err := a.creator.CreateBooking(ctx, cred, req)
	if err != nil {
		err = classify(err)
		log.Errorf("❌ Booking failed: %v", err)
		return nil, a.fail(err)
	}

	a.mu.Lock()
	a.state = StateSucceeded
	a.lastErr = nil
	a.mu.Unlock()

	log.Infof("✅ Booking %s created", created.ID)
	a.record(ctx, req, created)
	return created, nil
}

func (a *Assembler) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// LastError is the error of the most recent failed submission, if the
// assembler is in StateFailed.
func (a *Assembler) LastError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

func (a *Assembler) begin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == StateValidating || a.state == StateSending {
		return false
	}
	a.state = StateValidating
	a.lastErr = nil
	return true
}

func (a *Assembler) setState(state State) {
	a.mu.Lock()
	a.state = state
	a.mu.Unlock()
}

func (a *Assembler) fail(err error) error {
	a.mu.Lock()
	a.state = StateFailed
	a.lastErr = err
	a.mu.Unlock()
	return err
}

// classify maps client errors onto the submission error taxonomy.
func classify(err error) error {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		message := apiErr.Message
		if message == "" {
			message = "Unable to create booking"
		}
		return &domain.RejectedError{StatusCode: apiErr.StatusCode, Message: message}
	case errors.Is(err, domain.ErrNetwork), errors.Is(err, domain.ErrUnauthenticated):
		return err
	default:
		return &domain.RejectedError{Message: err.Error()}
	}
}

// record journals and announces a created booking. Failures here never undo
// the submission; they are only logged.
func (a *Assembler) record(ctx context.Context, req *domain.CreateBookingRequest, created *domain.CreatedBooking) {
	now := a.now().UTC()

	if a.journal != nil {
		err := a.journal.SaveBooking(ctx, &domain.BookingRecord{
			ID:          created.ID,
			ProviderID:  req.ProviderID,
			ServiceID:   req.ServiceID,
			BookingDate: req.BookingDate,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			Notes:       req.Notes,
			SubmittedAt: now,
		})
		if err != nil {
			log.Warnf("⚠️ Failed to journal booking %s: %v", created.ID, err)
		}
	}

	if a.publisher != nil {
		_, err := a.publisher.AddEvent(ctx, &event.BookingCreatedEvent{
			EventID:     uuid.NewString(),
			BookingID:   created.ID,
			ProviderID:  req.ProviderID,
			ServiceID:   req.ServiceID,
			BookingDate: req.BookingDate,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			CreatedAt:   now,
		})
		if err != nil {
			log.Warnf("⚠️ Failed to publish BookingCreated for %s: %v", created.ID, err)
		}
	}
}
