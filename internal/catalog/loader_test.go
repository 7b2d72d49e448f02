package catalog

import (
	"context"
	"errors"
	"testing"

	"sanskaar/booking/internal/auth"
	"sanskaar/booking/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fetcherFunc func(ctx context.Context, cred auth.Credential) ([]domain.Category, error)

func (f fetcherFunc) GetCatalog(ctx context.Context, cred auth.Credential) ([]domain.Category, error) {
	return f(ctx, cred)
}

func TestLoad_Success(t *testing.T) {
	loader := NewLoader(fetcherFunc(func(ctx context.Context, cred auth.Credential) ([]domain.Category, error) {
		return []domain.Category{{ID: "c1", Name: "Puja"}}, nil
	}))

	categories, err := loader.Load(context.Background(), auth.NewCredential("t"))
	require.NoError(t, err)
	assert.Len(t, categories, 1)
	assert.False(t, loader.InFlight())
}

func TestLoad_FailureIsCatalogUnavailable(t *testing.T) {
	cause := errors.New("HTTP 500")
	loader := NewLoader(fetcherFunc(func(ctx context.Context, cred auth.Credential) ([]domain.Category, error) {
		return nil, cause
	}))

	categories, err := loader.Load(context.Background(), auth.NewCredential("t"))
	assert.Nil(t, categories)
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
	assert.ErrorIs(t, err, cause)
}

func TestLoad_MissingCredential(t *testing.T) {
	loader := NewLoader(fetcherFunc(func(ctx context.Context, cred auth.Credential) ([]domain.Category, error) {
		return nil, domain.ErrUnauthenticated
	}))

	_, err := loader.Load(context.Background(), auth.Credential{})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.NotErrorIs(t, err, domain.ErrCatalogUnavailable)
}

func TestLoad_SingleInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	calls := 0

	loader := NewLoader(fetcherFunc(func(ctx context.Context, cred auth.Credential) ([]domain.Category, error) {
		calls++
		close(started)
		<-release
		return []domain.Category{}, nil
	}))

	done := make(chan error, 1)
	go func() {
		_, err := loader.Load(context.Background(), auth.NewCredential("t"))
		done <- err
	}()

	<-started
	assert.True(t, loader.InFlight())

	_, err := loader.Load(context.Background(), auth.NewCredential("t"))
	assert.ErrorIs(t, err, domain.ErrLoadInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, calls)
}
