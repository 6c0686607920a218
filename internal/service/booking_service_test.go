package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/netidea/webbase/internal/model"
	"github.com/netidea/webbase/internal/repository"
)

type mockBookingRepository struct {
	saveFunc        func(ctx context.Context, b *model.Booking) error
	findByTokenFunc func(ctx context.Context, token string) (*model.Booking, error)
	confirmed       []int64
}

func (m *mockBookingRepository) Save(ctx context.Context, b *model.Booking) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, b)
	}
	b.ID = 1
	return nil
}

func (m *mockBookingRepository) FindByToken(ctx context.Context, token string) (*model.Booking, error) {
	if m.findByTokenFunc != nil {
		return m.findByTokenFunc(ctx, token)
	}
	return nil, repository.ErrNotFound
}

func (m *mockBookingRepository) MarkConfirmed(ctx context.Context, id int64) error {
	m.confirmed = append(m.confirmed, id)
	return nil
}

type mockBookingMailer struct {
	requestFunc   func(ctx context.Context, b *model.Booking, confirmURL string) error
	confirmedFunc func(ctx context.Context, b *model.Booking) error
	requests      []string
	notifications []int64
}

func (m *mockBookingMailer) SendBookingConfirmRequest(ctx context.Context, b *model.Booking, confirmURL string) error {
	if m.requestFunc != nil {
		if err := m.requestFunc(ctx, b, confirmURL); err != nil {
			return err
		}
	}
	m.requests = append(m.requests, confirmURL)
	return nil
}

func (m *mockBookingMailer) SendBookingConfirmed(ctx context.Context, b *model.Booking) error {
	if m.confirmedFunc != nil {
		if err := m.confirmedFunc(ctx, b); err != nil {
			return err
		}
	}
	m.notifications = append(m.notifications, b.ID)
	return nil
}

func TestBookingRequest_AssignsTokenAndSendsLink(t *testing.T) {
	repo := &mockBookingRepository{}
	mail := &mockBookingMailer{}
	svc := NewBookingService(repo, mail)

	b := &model.Booking{Email: "eve@example.com", Name: "Eve"}
	if err := svc.Request(context.Background(), b, "https://example.com/api/booking/confirm"); err != nil {
		t.Fatalf("Request: %v", err)
	}

	if b.ConfirmationToken == "" {
		t.Error("expected a confirmation token to be assigned")
	}
	if len(mail.requests) != 1 {
		t.Fatalf("expected 1 confirmation request email, got %d", len(mail.requests))
	}
	if !strings.Contains(mail.requests[0], b.ConfirmationToken) {
		t.Errorf("confirmation URL %q does not carry the token", mail.requests[0])
	}
}

func TestBookingRequest_MailFailurePropagates(t *testing.T) {
	repo := &mockBookingRepository{}
	mail := &mockBookingMailer{
		requestFunc: func(ctx context.Context, b *model.Booking, confirmURL string) error {
			return errors.New("smtp down")
		},
	}
	svc := NewBookingService(repo, mail)

	b := &model.Booking{Email: "eve@example.com", Name: "Eve"}
	if err := svc.Request(context.Background(), b, "https://example.com/confirm"); err == nil {
		t.Error("expected mail failure to propagate")
	}
}

func TestBookingConfirm_MarksAndNotifiesOwner(t *testing.T) {
	stored := &model.Booking{ID: 9, Email: "eve@example.com", Name: "Eve", ConfirmationToken: "tok"}
	repo := &mockBookingRepository{
		findByTokenFunc: func(ctx context.Context, token string) (*model.Booking, error) {
			if token == "tok" {
				dup := *stored
				return &dup, nil
			}
			return nil, repository.ErrNotFound
		},
	}
	mail := &mockBookingMailer{}
	svc := NewBookingService(repo, mail)

	b, err := svc.Confirm(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if !b.Confirmed {
		t.Error("expected the returned booking to be confirmed")
	}
	if len(repo.confirmed) != 1 || repo.confirmed[0] != 9 {
		t.Errorf("expected booking 9 to be marked confirmed, got %v", repo.confirmed)
	}
	if len(mail.notifications) != 1 {
		t.Errorf("expected 1 owner notification, got %d", len(mail.notifications))
	}
}

func TestBookingConfirm_IdempotentForConfirmedBooking(t *testing.T) {
	repo := &mockBookingRepository{
		findByTokenFunc: func(ctx context.Context, token string) (*model.Booking, error) {
			return &model.Booking{ID: 9, Confirmed: true}, nil
		},
	}
	mail := &mockBookingMailer{}
	svc := NewBookingService(repo, mail)

	if _, err := svc.Confirm(context.Background(), "tok"); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if len(repo.confirmed) != 0 || len(mail.notifications) != 0 {
		t.Error("a second confirmation must not re-mark or re-notify")
	}
}

func TestBookingConfirm_UnknownToken(t *testing.T) {
	svc := NewBookingService(&mockBookingRepository{}, &mockBookingMailer{})

	_, err := svc.Confirm(context.Background(), "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
