package mailer

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

// SMTPTransport sends messages through an SMTP relay via go-mail.
type SMTPTransport struct {
	client *gomail.Client
}

// NewSMTPTransport creates a transport for the given relay. User and pass
// may be empty for an unauthenticated relay.
func NewSMTPTransport(host string, port int, user, pass string) (*SMTPTransport, error) {
	opts := []gomail.Option{gomail.WithPort(port)}
	if user != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(user),
			gomail.WithPassword(pass),
		)
	}
	client, err := gomail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPTransport{client: client}, nil
}

var _ Transport = (*SMTPTransport)(nil)

// Send delivers the message in a single attempt.
func (t *SMTPTransport) Send(ctx context.Context, msg *Message) error {
	m := gomail.NewMsg()
	if err := m.FromFormat(msg.From.Name, msg.From.Email); err != nil {
		return fmt.Errorf("%w: from %q: %v", ErrTransport, msg.From.Email, err)
	}
	if err := m.AddToFormat(msg.To.Name, msg.To.Email); err != nil {
		return fmt.Errorf("%w: to %q: %v", ErrTransport, msg.To.Email, err)
	}
	if msg.ReplyTo != nil {
		if err := m.ReplyToFormat(msg.ReplyTo.Name, msg.ReplyTo.Email); err != nil {
			return fmt.Errorf("%w: reply-to %q: %v", ErrTransport, msg.ReplyTo.Email, err)
		}
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		m.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	}

	if err := t.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return nil
}
