// Package mailer renders and sends the site's notification emails.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
)

// ErrTransport marks a delivery failure at the mail transport. Errors
// wrapping it are the only mail errors that surface to the caller.
var ErrTransport = errors.New("mail transport failure")

// Address is an email address with an optional display name.
type Address struct {
	Email string
	Name  string
}

// Message is one outbound email with plain-text and HTML bodies.
type Message struct {
	From    Address
	To      Address
	ReplyTo *Address
	Subject string
	Text    string
	HTML    string
}

// Transport delivers a Message. Implementations return errors wrapping
// ErrTransport on delivery failure; no retries are attempted.
type Transport interface {
	Send(ctx context.Context, msg *Message) error
}

// ValidEmail reports whether s parses as a bare RFC 5322 address.
func ValidEmail(s string) bool {
	if s == "" {
		return false
	}
	a, err := mail.ParseAddress(s)
	return err == nil && a.Address == s
}

// MakeAddressOrFallback builds an Address from the given email, replacing
// it with fallback when it is empty or malformed. Never fails; every
// substitution is logged as a warning.
func MakeAddressOrFallback(email, name, fallback string) Address {
	if email == "" {
		slog.Warn(fmt.Sprintf("email is empty, using fallback <%s>", fallback))
		return Address{Email: fallback, Name: name}
	}
	if !ValidEmail(email) {
		slog.Warn(fmt.Sprintf("invalid email %q, using fallback <%s>", email, fallback))
		return Address{Email: fallback, Name: name}
	}
	return Address{Email: email, Name: name}
}
