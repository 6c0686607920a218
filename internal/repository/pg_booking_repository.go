package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/netidea/webbase/internal/model"
)

// BookingRepository defines the persistence interface for booking requests.
type BookingRepository interface {
	Save(ctx context.Context, b *model.Booking) error
	FindByToken(ctx context.Context, token string) (*model.Booking, error)
	MarkConfirmed(ctx context.Context, id int64) error
}

// PgBookingRepository is the PostgreSQL implementation of BookingRepository.
type PgBookingRepository struct {
	db Querier
}

// NewPgBookingRepository creates a PgBookingRepository backed by the given pool.
func NewPgBookingRepository(db Querier) *PgBookingRepository {
	return &PgBookingRepository{db: db}
}

var _ BookingRepository = (*PgBookingRepository)(nil)

// Save inserts a bookings row and populates b.ID and b.CreatedAt.
func (r *PgBookingRepository) Save(ctx context.Context, b *model.Booking) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO bookings (email, name, confirmation_token, confirmed)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		b.Email, b.Name, b.ConfirmationToken, b.Confirmed,
	).Scan(&b.ID, &b.CreatedAt)
}

// FindByToken returns the booking with the given confirmation token, or
// ErrNotFound.
func (r *PgBookingRepository) FindByToken(ctx context.Context, token string) (*model.Booking, error) {
	var b model.Booking
	err := r.db.QueryRow(ctx,
		`SELECT id, email, name, confirmation_token, confirmed, created_at
		 FROM bookings WHERE confirmation_token = $1`, token,
	).Scan(&b.ID, &b.Email, &b.Name, &b.ConfirmationToken, &b.Confirmed, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// MarkConfirmed flags the booking as confirmed by the visitor.
func (r *PgBookingRepository) MarkConfirmed(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE bookings SET confirmed = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
