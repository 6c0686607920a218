package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"

	"github.com/netidea/webbase/internal/model"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestPgContactRepository_Save_PopulatesIDAndMeta(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPgContactRepository(mock)

	created := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO contact_submissions`)).
		WithArgs("Alice", "alice@example.com", "", "Hello there, this is long enough.", true, true, model.StatusUnread).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), created))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO submission_meta`)).
		WithArgs(int64(7), "203.0.113.9", "curl/8", "2026-02-01T12:00:00Z", "example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectCommit()

	sub := &model.ContactSubmission{
		Name:      "Alice",
		Email:     "alice@example.com",
		Message:   "Hello there, this is long enough.",
		Consent:   true,
		WantsCopy: true,
		Status:    model.StatusUnread,
		Meta: &model.SubmissionMeta{
			IP:          "203.0.113.9",
			UserAgent:   "curl/8",
			SubmittedAt: "2026-02-01T12:00:00Z",
			Host:        "example.com",
		},
	}
	if err := repo.Save(context.Background(), sub); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if sub.ID != 7 {
		t.Errorf("expected ID=7, got %d", sub.ID)
	}
	if !sub.CreatedAt.Equal(created) {
		t.Errorf("expected CreatedAt=%v, got %v", created, sub.CreatedAt)
	}
	if sub.Meta.ID != 3 {
		t.Errorf("expected meta ID=3, got %d", sub.Meta.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations not met: %v", err)
	}
}

func TestPgContactRepository_Save_RollsBackOnMetaFailure(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPgContactRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO contact_submissions`)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO submission_meta`)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("meta insert failed"))
	mock.ExpectRollback()

	sub := &model.ContactSubmission{
		Name:    "Bob",
		Email:   "bob@example.com",
		Message: "A sufficiently long message.",
		Status:  model.StatusUnread,
		Meta:    &model.SubmissionMeta{IP: "198.51.100.1"},
	}
	if err := repo.Save(context.Background(), sub); err == nil {
		t.Error("expected error when meta insert fails")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations not met: %v", err)
	}
}

func TestPgContactRepository_List_FiltersByStatus(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPgContactRepository(mock)

	rows := pgxmock.NewRows([]string{"id", "name", "email", "phone", "message", "consent", "wants_copy", "status", "created_at"}).
		AddRow(int64(2), "Carol", "carol@example.com", "", "Second message body here", true, false, model.StatusUnread, time.Now()).
		AddRow(int64(1), "Dan", "dan@example.com", "+49 30 1234", "First message body here", true, true, model.StatusUnread, time.Now())

	mock.ExpectQuery(`SELECT id, name, email`).
		WithArgs(model.StatusUnread, 20, 0).
		WillReturnRows(rows)

	subs, err := repo.List(context.Background(), model.ContactListOptions{Status: model.StatusUnread, Limit: 20})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected 2 submissions, got %d", len(subs))
	}
	if subs[0].ID != 2 || subs[1].Phone != "+49 30 1234" {
		t.Errorf("unexpected rows: %+v", subs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations not met: %v", err)
	}
}

func TestPgContactRepository_UpdateStatus_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPgContactRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE contact_submissions SET status`)).
		WithArgs(int64(99), model.StatusRead).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStatus(context.Background(), 99, model.StatusRead)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
