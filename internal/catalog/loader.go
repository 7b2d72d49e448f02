package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"sanskaar/booking/internal/auth"
	"sanskaar/booking/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Fetcher is the part of the API client the loader needs.
type Fetcher interface {
	GetCatalog(ctx context.Context, cred auth.Credential) ([]domain.Category, error)
}

// Loader fetches the category -> service -> provider tree. At most one
// request is in flight per loader; it never retries.
type Loader struct {
	fetcher  Fetcher
	inFlight atomic.Bool
}

func NewLoader(fetcher Fetcher) *Loader {
	return &Loader{fetcher: fetcher}
}

// Load returns the full tree. Every failure except a missing credential and
// a concurrent load is reported as domain.ErrCatalogUnavailable.
func (l *Loader) Load(ctx context.Context, cred auth.Credential) ([]domain.Category, error) {
	if !l.inFlight.CompareAndSwap(false, true) {
		return nil, domain.ErrLoadInFlight
	}
	defer l.inFlight.Store(false)

	categories, err := l.fetcher.GetCatalog(ctx, cred)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) && cred.IsZero() {
			return nil, err
		}
		log.Errorf("❌ Failed to load catalog: %v", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
	}

	log.Infof("✅ Catalog loaded: %d categories", len(categories))
	return categories, nil
}

// InFlight reports whether a load is outstanding.
func (l *Loader) InFlight() bool {
	return l.inFlight.Load()
}
