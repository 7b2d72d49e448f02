package session

import (
	"context"
	"errors"
	"sync"

	"sanskaar/booking/internal/auth"
	"sanskaar/booking/internal/catalog"
	"sanskaar/booking/internal/domain"
	"sanskaar/booking/internal/selection"
	"sanskaar/booking/internal/submission"

	log "github.com/sirupsen/logrus"
)

// Session is one booking form: its credential, catalog snapshot and
// selection. Nothing is shared with other sessions.
type Session struct {
	cred      auth.Credential
	loader    *catalog.Loader
	assembler *submission.Assembler

	mu         sync.Mutex
	controller *selection.Controller
	closed     bool
}

func New(cred auth.Credential, loader *catalog.Loader, assembler *submission.Assembler) *Session {
	return &Session{
		cred:       cred,
		loader:     loader,
		assembler:  assembler,
		controller: selection.NewController(),
	}
}

// Reload fetches the catalog and applies it. On failure an empty catalog is
// applied, so nothing can be selected until a later reload succeeds.
func (s *Session) Reload(ctx context.Context) error {
	categories, err := s.loader.Load(ctx, s.cred)
	if errors.Is(err, domain.ErrLoadInFlight) {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		log.Debugf("Discarding catalog result for closed session")
		return domain.ErrSessionClosed
	}

	if err != nil {
		s.controller.ApplyCatalog(nil)
		return err
	}

	s.controller.ApplyCatalog(categories)
	return nil
}

func (s *Session) SetCategory(categoryID string) error {
	return s.update(func(c *selection.Controller) error {
		return c.SetCategory(categoryID)
	})
}

func (s *Session) SetService(serviceID string) error {
	return s.update(func(c *selection.Controller) error {
		return c.SetService(serviceID)
	})
}

func (s *Session) SetProvider(providerID string) error {
	return s.update(func(c *selection.Controller) error {
		return c.SetProvider(providerID)
	})
}

func (s *Session) SetSchedule(date, startTime, endTime string) error {
	return s.update(func(c *selection.Controller) error {
		c.SetSchedule(date, startTime, endTime)
		return nil
	})
}

func (s *Session) SetNotes(notes string) error {
	return s.update(func(c *selection.Controller) error {
		c.SetNotes(notes)
		return nil
	})
}

// Submit sends the current selection. The selection is cleared only when the
// booking was created; on any failure it is kept for correction and resubmit.
func (s *Session) Submit(ctx context.Context) (*domain.CreatedBooking, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, domain.ErrSessionClosed
	}
	sel := s.controller.Selection()
	s.mu.Unlock()

	created, err := s.assembler.Submit(ctx, s.cred, sel)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		log.Debugf("Discarding submission result for closed session")
		return created, err
	}

	if err != nil {
		return nil, err
	}

	s.controller.Reset()
	return created, nil
}

// Close ends the session. Requests still in flight finish, but their results
// no longer touch the session state.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed && !s.controller.Selection().IsEmpty() {
		log.Debugf("Closing session with an unsubmitted selection")
	}
	s.closed = true
}

func (s *Session) Selection() domain.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller.Selection()
}

func (s *Session) Categories() []domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller.Categories()
}

func (s *Session) Services() []domain.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller.Services()
}

func (s *Session) Providers() []domain.ProviderLink {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller.Providers()
}

func (s *Session) SubmissionState() submission.State {
	return s.assembler.State()
}

func (s *Session) update(fn func(c *selection.Controller) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrSessionClosed
	}
	return fn(s.controller)
}
