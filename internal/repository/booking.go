package repository

import (
	"context"
	"fmt"

	"sanskaar/booking/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingRepository is the local journal of bookings submitted from this console.
type BookingRepository interface {
	SaveBooking(ctx context.Context, record *domain.BookingRecord) error
	ListBookings(ctx context.Context, limit int) ([]domain.BookingRecord, error)
}

// DBTX is the subset of pgxpool.Pool the repository needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type bookingRepository struct {
	db DBTX
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &bookingRepository{
		db: db,
	}
}

const createBookingsTable = `
CREATE TABLE IF NOT EXISTS submitted_bookings (
	id           TEXT PRIMARY KEY,
	provider_id  TEXT NOT NULL,
	service_id   TEXT NOT NULL,
	booking_date TEXT NOT NULL,
	start_time   TEXT NOT NULL,
	end_time     TEXT,
	notes        TEXT,
	submitted_at TIMESTAMPTZ NOT NULL
)`

// Migrate creates the journal table if it does not exist yet.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, createBookingsTable); err != nil {
		return fmt.Errorf("failed to create submitted_bookings table: %w", err)
	}
	return nil
}

func (r *bookingRepository) SaveBooking(ctx context.Context, record *domain.BookingRecord) error {
	if record.ID == "" {
		return fmt.Errorf("cannot journal booking without id")
	}

	query := `
	INSERT INTO submitted_bookings (id, provider_id, service_id, booking_date, start_time, end_time, notes, submitted_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (id)
	DO UPDATE SET provider_id = $2, service_id = $3, booking_date = $4, start_time = $5,
		end_time = $6, notes = $7, submitted_at = $8`
	_, err := r.db.Exec(ctx, query,
		record.ID,
		record.ProviderID,
		record.ServiceID,
		record.BookingDate,
		record.StartTime,
		record.EndTime,
		record.Notes,
		record.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save booking %s: %w", record.ID, err)
	}

	return nil
}

// DefaultListLimit applies when ListBookings is asked for a non-positive limit.
const DefaultListLimit = 20

// ListBookings returns the newest records first. Columns are selected in the
// field order of domain.BookingRecord.
func (r *bookingRepository) ListBookings(ctx context.Context, limit int) ([]domain.BookingRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `
	SELECT id, provider_id, service_id, booking_date, start_time, end_time, notes, submitted_at
	FROM submitted_bookings
	ORDER BY submitted_at DESC
	LIMIT $1`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.BookingRecord])
	if err != nil {
		return nil, fmt.Errorf("failed to scan bookings: %w", err)
	}
	return records, nil
}
