package service

import (
	"context"

	"github.com/netidea/webbase/internal/model"
	"github.com/netidea/webbase/internal/session"
)

// Outcome is the terminal state of one contact submission request.
type Outcome int

const (
	// OutcomeSuccess: stored (best effort), owner notified, limiter ticked.
	OutcomeSuccess Outcome = iota
	// OutcomeRateLimited: the session exceeded the courtesy throttle.
	OutcomeRateLimited
	// OutcomeInvalid: field validation failed; no tick, the user may retry.
	OutcomeInvalid
	// OutcomeMailFailed: the owner notification could not be delivered.
	OutcomeMailFailed
)

// String returns the outcome label used in logs and metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRateLimited:
		return "rate_limited"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeMailFailed:
		return "mail_failed"
	default:
		return "unknown"
	}
}

// SubmitResult is the structured result of one submission attempt.
type SubmitResult struct {
	Outcome Outcome
	// Message is the user-facing text for this outcome.
	Message string
	// Errors holds per-field messages when Outcome is OutcomeInvalid.
	Errors model.FieldErrors
	// Spam marks submissions that tripped the honeypot or decoy field.
	// Such results carry OutcomeSuccess so the caller's response does not
	// reveal the detection; nothing was stored or sent.
	Spam bool
}

// ContactService defines the business logic for the contact form.
type ContactService interface {
	// Submit runs the full pipeline for one submission: rate check, spam
	// check, validation, best-effort persistence, and notification.
	// csrfToken is the anti-forgery value from the form payload.
	Submit(ctx context.Context, sub *model.ContactSubmission, sess *session.Session, csrfToken string) SubmitResult

	// List returns stored submissions for the operator view.
	List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactSubmission, error)

	// UpdateStatus marks a submission read or unread.
	UpdateStatus(ctx context.Context, id int64, status string) error
}
