package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sanskaar/booking/internal/auth"
	"sanskaar/booking/internal/catalog"
	"sanskaar/booking/internal/client"
	"sanskaar/booking/internal/config"
	"sanskaar/booking/internal/domain"
	"sanskaar/booking/internal/domain/event"
	"sanskaar/booking/internal/queue"
	"sanskaar/booking/internal/repository"
	"sanskaar/booking/internal/session"
	"sanskaar/booking/internal/submission"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var validate = validator.New()

type Service struct {
	client     client.BookingClient
	tokens     auth.TokenStore
	queue      queue.Queue
	repository repository.BookingRepository
	authCfg    config.AuthConfig
	bookingCfg config.BookingConfig
	now        func() time.Time
}

// NewService wires the use cases. queue and repository may be nil when redis
// or the database are disabled.
func NewService(
	client client.BookingClient,
	tokens auth.TokenStore,
	queue queue.Queue,
	repository repository.BookingRepository,
	authCfg config.AuthConfig,
	bookingCfg config.BookingConfig,
) *Service {
	return &Service{
		client:     client,
		tokens:     tokens,
		queue:      queue,
		repository: repository,
		authCfg:    authCfg,
		bookingCfg: bookingCfg,
		now:        time.Now,
	}
}

type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
	Profile  string
}

// Login exchanges email and password for tokens and stores them under the profile.
func (s *Service) Login(ctx context.Context, input LoginInput) (*domain.Tokens, error) {
	if err := validate.Struct(input); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			fe := validationErrs[0]
			return nil, &domain.InvalidFieldError{Field: strings.ToLower(fe.Field()), Reason: fe.Tag()}
		}
		return nil, err
	}

	profile := input.Profile
	if profile == "" {
		profile = s.authCfg.Profile
	}

	tokens, err := s.client.Login(ctx, input.Email, input.Password)
	if err != nil {
		// A refused login is shown as the server's message, not as a login prompt.
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			message := apiErr.Message
			if message == "" {
				message = "Login failed"
			}
			return nil, &domain.RejectedError{StatusCode: apiErr.StatusCode, Message: message}
		}
		return nil, err
	}

	if err := s.tokens.Save(ctx, profile, *tokens); err != nil {
		return nil, fmt.Errorf("failed to store tokens for profile %s: %w", profile, err)
	}

	log.Infof("✅ Logged in as %s (profile %s)", input.Email, profile)
	return tokens, nil
}

// Logout forgets the tokens stored for the configured profile.
func (s *Service) Logout(ctx context.Context) error {
	return s.tokens.Delete(ctx, s.authCfg.Profile)
}

// Credential resolves the bearer token for this run.
func (s *Service) Credential(ctx context.Context) (auth.Credential, error) {
	return auth.Resolve(ctx, s.authCfg.Token, s.authCfg.Profile, s.tokens)
}

func (s *Service) Catalog(ctx context.Context, cred auth.Credential) ([]domain.Category, error) {
	return catalog.NewLoader(s.client).Load(ctx, cred)
}

// NewSession opens a booking form session for cred.
func (s *Service) NewSession(cred auth.Credential) (*session.Session, error) {
	var journal submission.Journal
	if s.repository != nil {
		journal = s.repository
	}
	var publisher submission.Publisher
	if s.queue != nil {
		publisher = s.queue
	}

	assembler, err := submission.NewAssembler(s.client, journal, publisher, s.bookingCfg)
	if err != nil {
		return nil, err
	}
	return session.New(cred, catalog.NewLoader(s.client), assembler), nil
}

// BookingInput is one complete form fill.
type BookingInput struct {
	CategoryID string
	ServiceID  string
	ProviderID string
	Date       string
	StartTime  string
	EndTime    string
	Notes      string
}

// Book fills a fresh session the way a user walks the form and submits it.
func (s *Service) Book(ctx context.Context, cred auth.Credential, input BookingInput) (*domain.CreatedBooking, error) {
	sess, err := s.NewSession(cred)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	if err := sess.Reload(ctx); err != nil {
		return nil, err
	}

	// Steps below a blank field are skipped; Submit reports the first missing one.
	if input.CategoryID != "" {
		if err := sess.SetCategory(input.CategoryID); err != nil {
			return nil, err
		}
		if input.ServiceID != "" {
			if err := sess.SetService(input.ServiceID); err != nil {
				return nil, fmt.Errorf("service %s: %w", input.ServiceID, err)
			}
			if input.ProviderID != "" {
				if err := sess.SetProvider(input.ProviderID); err != nil {
					return nil, fmt.Errorf("provider %s: %w", input.ProviderID, err)
				}
			}
		}
	}
	if err := sess.SetSchedule(input.Date, input.StartTime, input.EndTime); err != nil {
		return nil, err
	}
	if err := sess.SetNotes(input.Notes); err != nil {
		return nil, err
	}

	created, err := sess.Submit(ctx)
	if err != nil {
		return nil, err
	}

	log.Infof("✅ Booking %s requested", created.ID)
	return created, nil
}

func (s *Service) MyBookings(ctx context.Context, cred auth.Credential) ([]domain.Booking, error) {
	return s.client.ListMyBookings(ctx, cred)
}

func (s *Service) Booking(ctx context.Context, cred auth.Credential, bookingID string) (*domain.Booking, error) {
	return s.client.GetBooking(ctx, cred, bookingID)
}

func (s *Service) Inbox(ctx context.Context, cred auth.Credential) ([]domain.Booking, error) {
	return s.client.ListProviderBookings(ctx, cred)
}

// Journal lists bookings submitted from this console, newest first.
func (s *Service) Journal(ctx context.Context, limit int) ([]domain.BookingRecord, error) {
	if s.repository == nil {
		return nil, fmt.Errorf("booking journal requires database.enabled")
	}
	return s.repository.ListBookings(ctx, limit)
}

func (s *Service) Accept(ctx context.Context, cred auth.Credential, bookingID string) error {
	return s.changeStatus(ctx, cred, bookingID, domain.StatusAccepted, s.client.AcceptBooking)
}

func (s *Service) Reject(ctx context.Context, cred auth.Credential, bookingID string) error {
	return s.changeStatus(ctx, cred, bookingID, domain.StatusRejected, s.client.RejectBooking)
}

func (s *Service) changeStatus(
	ctx context.Context,
	cred auth.Credential,
	bookingID string,
	target domain.BookingStatus,
	apply func(ctx context.Context, cred auth.Credential, bookingID string) error,
) error {
	booking, err := s.client.GetBooking(ctx, cred, bookingID)
	if err != nil {
		return err
	}

	if !booking.Status.CanTransitionTo(target) {
		return fmt.Errorf("%w: booking %s is %s, cannot become %s",
			domain.ErrInvalidTransition, bookingID, booking.Status.GetDisplayName(), target.GetDisplayName())
	}

	if err := apply(ctx, cred, bookingID); err != nil {
		return err
	}

	log.Infof("✅ Booking %s: %s -> %s", bookingID, booking.Status, target)

	if s.queue != nil {
		_, err := s.queue.AddEvent(ctx, &event.BookingStatusChangedEvent{
			EventID:   uuid.NewString(),
			BookingID: bookingID,
			From:      booking.Status,
			To:        target,
			ChangedAt: s.now().UTC(),
		})
		if err != nil {
			log.Warnf("⚠️ Failed to publish status change for %s: %v", bookingID, err)
		}
	}

	return nil
}
