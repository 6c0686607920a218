package mailer

import (
	"context"
	"log/slog"
	"strings"

	"github.com/netidea/webbase/internal/metrics"
	"github.com/netidea/webbase/internal/model"
)

// Fallback addresses used when configured values are empty or malformed,
// so sending keeps working in test and misconfigured environments.
const (
	fallbackFrom    = "no-reply@localhost"
	fallbackOwner   = "owner@localhost"
	fallbackVisitor = "visitor@localhost"
)

// Owner-facing and visitor-facing subjects.
const (
	subjectContactOwner   = "Neue Kontaktanfrage"
	subjectContactVisitor = "Ihre Kontaktanfrage"
	subjectBookingConfirm = "Bitte bestätigen Sie Ihre Buchung"
	subjectBookingDone    = "Buchung bestätigt"
)

// Config holds the configured sender and owner addresses.
type Config struct {
	FromAddress string
	FromName    string
	ToAddress   string
	ToName      string
}

// Preferences exposes the caller's session values the mailer cares about
// (currently only the theme). A nil Preferences means no session.
type Preferences interface {
	GetString(ctx context.Context, key, def string) string
}

// MailMan renders and dispatches the site's notification emails. Transport
// failures propagate to the caller; everything else (bad reply-to, bad
// visitor address) degrades gracefully with a log line.
type MailMan struct {
	transport Transport
	renderer  *Renderer
	cfg       Config
}

// NewMailMan creates a MailMan.
func NewMailMan(transport Transport, renderer *Renderer, cfg Config) *MailMan {
	return &MailMan{transport: transport, renderer: renderer, cfg: cfg}
}

type contactContext struct {
	Contact *model.ContactSubmission
	Theme   Theme
}

type bookingContext struct {
	Booking    *model.Booking
	ConfirmURL string
}

// SendContactForm sends the owner notification for a contact submission
// and, when requested and the visitor address is valid, a themed copy to
// the visitor. The owner send is authoritative: its transport failure is
// returned. A missing or invalid visitor address only skips the reply-to
// header and the copy.
func (m *MailMan) SendContactForm(ctx context.Context, contact *model.ContactSubmission, prefs Preferences) error {
	from := MakeAddressOrFallback(m.cfg.FromAddress, m.cfg.FromName, fallbackFrom)
	to := MakeAddressOrFallback(m.cfg.ToAddress, m.cfg.ToName, fallbackOwner)

	theme := ThemeLight
	if prefs != nil {
		theme = ResolveTheme(prefs.GetString(ctx, ThemeSessionKey, ""))
	}
	data := contactContext{Contact: contact, Theme: theme}

	text, err := m.renderer.Render("contact_owner.txt.tmpl", data)
	if err != nil {
		return err
	}
	html, err := m.renderer.Render("contact_owner.html.tmpl", data)
	if err != nil {
		return err
	}

	owner := &Message{
		From:    from,
		To:      to,
		Subject: subjectContactOwner,
		Text:    text,
		HTML:    html,
	}

	visitorEmail := strings.TrimSpace(contact.Email)
	if visitorEmail != "" {
		if ValidEmail(visitorEmail) {
			owner.ReplyTo = &Address{Email: visitorEmail, Name: contact.Name}
		} else {
			slog.Warn("invalid visitor email for reply_to, skipping header", "email", contact.Email)
		}
	}

	if err := m.transport.Send(ctx, owner); err != nil {
		slog.Error("contact mail send failed", "to", to.Email, "error", err)
		return err
	}
	slog.Info("contact mail sent to owner",
		"to", to.Email, "name", to.Name, "email", contact.Email, "theme", theme)
	metrics.RecordMailSent("contact_owner")

	if !contact.WantsCopy {
		return nil
	}
	if visitorEmail == "" || !ValidEmail(visitorEmail) {
		slog.Warn("skipping visitor copy: invalid or empty visitor email", "email", contact.Email)
		return nil
	}

	text, err = m.renderer.Render("contact_visitor.txt.tmpl", data)
	if err != nil {
		return err
	}
	html, err = m.renderer.Render("contact_visitor.html.tmpl", data)
	if err != nil {
		return err
	}
	copyMsg := &Message{
		From:    from,
		To:      Address{Email: visitorEmail, Name: contact.Name},
		Subject: subjectContactVisitor,
		Text:    text,
		HTML:    html,
	}
	if err := m.transport.Send(ctx, copyMsg); err != nil {
		slog.Error("visitor copy send failed", "to", visitorEmail, "error", err)
		return err
	}
	slog.Info("contact mail sent to visitor", "to", visitorEmail, "name", contact.Name, "theme", theme)
	metrics.RecordMailSent("contact_visitor")
	return nil
}

// SendBookingConfirmRequest asks the visitor to confirm their booking via
// the given link. Replies go to the configured owner address.
func (m *MailMan) SendBookingConfirmRequest(ctx context.Context, booking *model.Booking, confirmURL string) error {
	from := MakeAddressOrFallback(m.cfg.FromAddress, m.cfg.FromName, fallbackFrom)
	toVisitor := MakeAddressOrFallback(booking.Email, booking.Name, fallbackVisitor)

	tokenPrefix := booking.ConfirmationToken
	if len(tokenPrefix) > 6 {
		tokenPrefix = tokenPrefix[:6] + "…"
	}
	slog.Info("preparing booking confirmation request",
		"to", toVisitor.Email, "name", toVisitor.Name, "token", tokenPrefix)

	data := bookingContext{Booking: booking, ConfirmURL: confirmURL}
	replyTo := MakeAddressOrFallback(m.cfg.ToAddress, m.cfg.ToName, fallbackOwner)
	if err := m.sendTemplated(ctx, from, toVisitor, &replyTo, subjectBookingConfirm, "booking_confirm_request", data); err != nil {
		slog.Error("booking confirmation request failed", "to", toVisitor.Email, "booking_id", booking.ID, "error", err)
		return err
	}
	slog.Info("booking confirmation request sent", "to", toVisitor.Email, "booking_id", booking.ID)
	metrics.RecordMailSent("booking_confirm_request")
	return nil
}

// SendBookingConfirmed notifies the owner that the visitor confirmed.
func (m *MailMan) SendBookingConfirmed(ctx context.Context, booking *model.Booking) error {
	from := MakeAddressOrFallback(m.cfg.FromAddress, m.cfg.FromName, fallbackFrom)
	toOwner := MakeAddressOrFallback(m.cfg.ToAddress, m.cfg.ToName, fallbackOwner)

	var replyTo *Address
	if ValidEmail(booking.Email) {
		replyTo = &Address{Email: booking.Email, Name: booking.Name}
	}

	data := bookingContext{Booking: booking}
	if err := m.sendTemplated(ctx, from, toOwner, replyTo, subjectBookingDone, "booking_confirmed", data); err != nil {
		slog.Error("booking owner notification failed", "to", toOwner.Email, "booking_id", booking.ID, "error", err)
		return err
	}
	slog.Info("booking notification sent to owner", "booking_id", booking.ID)
	metrics.RecordMailSent("booking_confirmed")
	return nil
}

// sendTemplated renders base.txt.tmpl and base.html.tmpl and sends the
// resulting message with an optional reply-to.
func (m *MailMan) sendTemplated(ctx context.Context, from, to Address, replyTo *Address, subject, base string, data any) error {
	text, err := m.renderer.Render(base+".txt.tmpl", data)
	if err != nil {
		return err
	}
	html, err := m.renderer.Render(base+".html.tmpl", data)
	if err != nil {
		return err
	}
	return m.transport.Send(ctx, &Message{
		From:    from,
		To:      to,
		ReplyTo: replyTo,
		Subject: subject,
		Text:    text,
		HTML:    html,
	})
}
