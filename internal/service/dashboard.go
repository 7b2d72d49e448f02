package service

import (
	"context"

	"sanskaar/booking/internal/auth"
	"sanskaar/booking/internal/catalog"
	"sanskaar/booking/internal/domain"

	"golang.org/x/sync/errgroup"
)

type Dashboard struct {
	Catalog  domain.CatalogStats
	Bookings map[domain.BookingStatus]int
	Total    int
}

// Dashboard reads the catalog and the user's bookings concurrently.
func (s *Service) Dashboard(ctx context.Context, cred auth.Credential) (*Dashboard, error) {
	var (
		categories []domain.Category
		bookings   []domain.Booking
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		categories, err = catalog.NewLoader(s.client).Load(ctx, cred)
		return err
	})

	g.Go(func() error {
		var err error
		bookings, err = s.client.ListMyBookings(ctx, cred)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Dashboard{
		Catalog:  domain.StatsOf(categories),
		Bookings: domain.CountByStatus(bookings),
		Total:    len(bookings),
	}, nil
}
