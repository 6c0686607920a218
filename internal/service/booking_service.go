package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/netidea/webbase/internal/model"
	"github.com/netidea/webbase/internal/repository"
)

// BookingMailer is the slice of MailMan the booking flow needs.
type BookingMailer interface {
	SendBookingConfirmRequest(ctx context.Context, booking *model.Booking, confirmURL string) error
	SendBookingConfirmed(ctx context.Context, booking *model.Booking) error
}

// BookingService handles booking requests and their confirmation.
type BookingService interface {
	// Request stores a new booking and emails the visitor a confirmation
	// link built from confirmBaseURL.
	Request(ctx context.Context, b *model.Booking, confirmBaseURL string) error

	// Confirm marks the booking behind token as confirmed and notifies
	// the owner. Returns repository.ErrNotFound for an unknown token.
	Confirm(ctx context.Context, token string) (*model.Booking, error)
}

type bookingServiceImpl struct {
	repo repository.BookingRepository
	mail BookingMailer
}

// NewBookingService creates a BookingService with the given collaborators.
func NewBookingService(repo repository.BookingRepository, mail BookingMailer) BookingService {
	return &bookingServiceImpl{repo: repo, mail: mail}
}

func (s *bookingServiceImpl) Request(ctx context.Context, b *model.Booking, confirmBaseURL string) error {
	b.ConfirmationToken = uuid.NewString()
	b.Confirmed = false
	if err := s.repo.Save(ctx, b); err != nil {
		return fmt.Errorf("save booking: %w", err)
	}

	confirmURL := confirmBaseURL + "?token=" + b.ConfirmationToken
	if err := s.mail.SendBookingConfirmRequest(ctx, b, confirmURL); err != nil {
		return err
	}
	return nil
}

func (s *bookingServiceImpl) Confirm(ctx context.Context, token string) (*model.Booking, error) {
	b, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if b.Confirmed {
		// Idempotent: a second click must not re-notify the owner.
		return b, nil
	}

	if err := s.repo.MarkConfirmed(ctx, b.ID); err != nil {
		return nil, err
	}
	b.Confirmed = true

	if err := s.mail.SendBookingConfirmed(ctx, b); err != nil {
		// The booking stays confirmed; the owner just has to rely on the
		// stored row.
		slog.Error("booking confirmed but owner notification failed", "booking_id", b.ID, "error", err)
	}
	return b, nil
}
