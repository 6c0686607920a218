package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/netidea/webbase/internal/session"
)

// MintCSRFToken stores a fresh anti-forgery token in the session and
// returns it for embedding into the contact form.
func MintCSRFToken(ctx context.Context, sess *session.Session) (string, error) {
	tok := uuid.NewString()
	if err := sess.Set(ctx, csrfSessionKey, tok); err != nil {
		return "", err
	}
	return tok, nil
}
