package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/netidea/webbase/internal/session"
)

type sessionCtxKey struct{}

// SessionMiddleware attaches a server-side session to every request. A
// missing or empty cookie starts a fresh session and sets the cookie on
// the response.
type SessionMiddleware struct {
	manager    *session.Manager
	cookieName string
	ttl        time.Duration
}

// NewSessionMiddleware creates the middleware with the given cookie name
// and lifetime.
func NewSessionMiddleware(manager *session.Manager, cookieName string, ttl time.Duration) *SessionMiddleware {
	return &SessionMiddleware{manager: manager, cookieName: cookieName, ttl: ttl}
}

// Wrap returns next with a session placed in the request context.
func (sm *SessionMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sess *session.Session
		if c, err := r.Cookie(sm.cookieName); err == nil && c.Value != "" {
			sess = sm.manager.Load(c.Value)
		} else {
			sess = sm.manager.Start()
			http.SetCookie(w, &http.Cookie{
				Name:     sm.cookieName,
				Value:    sess.ID,
				Path:     "/",
				MaxAge:   int(sm.ttl.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionCtxKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionFromContext returns the session attached by SessionMiddleware.
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(sessionCtxKey{}).(*session.Session)
	return sess, ok
}
