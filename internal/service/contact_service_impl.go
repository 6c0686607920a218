package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/netidea/webbase/internal/mailer"
	"github.com/netidea/webbase/internal/model"
	"github.com/netidea/webbase/internal/ratelimit"
	"github.com/netidea/webbase/internal/repository"
	"github.com/netidea/webbase/internal/session"
)

// Session keys owned by the contact pipeline.
const (
	rateSessionKey = "cf_times"
	csrfSessionKey = "cf_csrf"
)

// User-facing messages per terminal path. The spam message differs
// slightly from the success message on purpose: both look like success,
// but an operator reading a bot report can tell them apart.
const (
	msgRateLimited = "Sie sind etwas zu schnell unterwegs. Bitte warten Sie einen Moment und versuchen Sie es dann erneut. Sollte das Problem weiterhin bestehen, kontaktieren Sie uns gerne direkt per E‑Mail."
	msgSpamAccept  = "Vielen Dank für Ihre Nachricht. Wir haben diese erhalten. Sollten Sie innerhalb von 48 Stunden keine Antwort von uns erhalten, melden Sie sich bitte erneut – gelegentlich kann auch digital etwas verloren gehen."
	msgMailFailed  = "Leider konnten wir Ihre Nachricht technisch nicht übermitteln. Bitte versuchen Sie es später erneut oder schreiben Sie uns direkt eine E‑Mail. Wir entschuldigen uns für die Unannehmlichkeiten."
	msgSuccess     = "Vielen Dank für Ihre Nachricht! Wir sind ein Team und melden uns in der Regel innerhalb von 48 Stunden bei Ihnen. Sollten Sie keine Rückmeldung erhalten, schreiben Sie uns bitte erneut – manchmal geht auch digital etwas verloren."
)

// ContactMailer is the slice of MailMan the pipeline needs.
type ContactMailer interface {
	SendContactForm(ctx context.Context, contact *model.ContactSubmission, prefs mailer.Preferences) error
}

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo    repository.ContactRepository
	mail    ContactMailer
	limiter *ratelimit.Limiter
	policy  ratelimit.Policy
}

// NewContactService creates a ContactService with the given collaborators.
func NewContactService(repo repository.ContactRepository, mail ContactMailer, limiter *ratelimit.Limiter, policy ratelimit.Policy) ContactService {
	return &contactServiceImpl{repo: repo, mail: mail, limiter: limiter, policy: policy}
}

// Submit runs the submission pipeline. Persistence is best effort: a store
// failure is logged and the pipeline proceeds to notification, which is
// authoritative for the user-visible result. The rate limiter ticks on
// success and on spam (so bot retries count), but not on validation or
// delivery failures.
func (s *contactServiceImpl) Submit(ctx context.Context, sub *model.ContactSubmission, sess *session.Session, csrfToken string) SubmitResult {
	rl := s.limiter.Check(ctx, sess, rateSessionKey, s.policy)
	if rl.Blocked {
		return SubmitResult{Outcome: OutcomeRateLimited, Message: msgRateLimited}
	}

	if isSpam(sub) {
		// Count the attempt but report success so bots get no signal.
		s.limiter.TickNow(ctx, sess, rateSessionKey, s.policy.WindowSeconds)
		return SubmitResult{Outcome: OutcomeSuccess, Message: msgSpamAccept, Spam: true}
	}

	errs := ValidateContact(sub)
	if stored := sess.GetString(ctx, csrfSessionKey, ""); stored != "" && csrfToken != stored {
		errs.Add(model.GlobalField, "The CSRF token is invalid. Please try to resubmit the form.")
	}
	if !errs.Empty() {
		return SubmitResult{
			Outcome: OutcomeInvalid,
			Message: composeErrorMessage(errs),
			Errors:  errs,
		}
	}

	sub.Status = model.StatusUnread
	if err := s.repo.Save(ctx, sub); err != nil {
		// Best-effort archive: email is the channel of record.
		slog.Error("contact form database error", "email", sub.Email, "error", err)
	}

	if err := s.mail.SendContactForm(ctx, sub, sess); err != nil {
		return SubmitResult{Outcome: OutcomeMailFailed, Message: msgMailFailed}
	}

	s.limiter.TickNow(ctx, sess, rateSessionKey, s.policy.WindowSeconds)
	return SubmitResult{Outcome: OutcomeSuccess, Message: msgSuccess}
}

// isSpam reports whether the hidden honeypot field or the unmapped decoy
// field carries a value.
func isSpam(sub *model.ContactSubmission) bool {
	return strings.TrimSpace(sub.Honeypot) != "" || strings.TrimSpace(sub.Decoy) != ""
}

// List returns stored submissions for the operator view.
func (s *contactServiceImpl) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactSubmission, error) {
	return s.repo.List(ctx, opts)
}

// UpdateStatus marks a submission read or unread.
func (s *contactServiceImpl) UpdateStatus(ctx context.Context, id int64, status string) error {
	return s.repo.UpdateStatus(ctx, id, status)
}
