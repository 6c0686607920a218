// Package session provides a server-side key-value session scoped to one
// caller, identified by an opaque cookie value. It backs the contact form
// rate-limit state, the CSRF token, and the email theme preference.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Store is the persistence backend for session data. Values are opaque
// byte slices; callers serialize via Session.
type Store interface {
	// Get returns the value for key in session sid. The second return is
	// false when the key (or the whole session) does not exist.
	Get(ctx context.Context, sid, key string) ([]byte, bool, error)
	Set(ctx context.Context, sid, key string, value []byte) error
	Delete(ctx context.Context, sid, key string) error
}

// Session is a handle on one caller's session.
type Session struct {
	ID    string
	store Store
}

// Manager creates and loads sessions against a Store.
type Manager struct {
	store Store
}

// NewManager creates a Manager backed by the given store.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Start creates a fresh session with a new random ID.
func (m *Manager) Start() *Session {
	return &Session{ID: uuid.NewString(), store: m.store}
}

// Load returns a handle on an existing session ID. The ID is not verified;
// an unknown ID simply behaves as an empty session.
func (m *Manager) Load(sid string) *Session {
	return &Session{ID: sid, store: m.store}
}

// Get unmarshals the value stored under key into out. Returns false when
// the key is absent.
func (s *Session) Get(ctx context.Context, key string, out any) (bool, error) {
	raw, ok, err := s.store.Get(ctx, s.ID, key)
	if err != nil {
		return false, fmt.Errorf("session get %q: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("session decode %q: %w", key, err)
	}
	return true, nil
}

// Set marshals v and stores it under key.
func (s *Session) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("session encode %q: %w", key, err)
	}
	if err := s.store.Set(ctx, s.ID, key, raw); err != nil {
		return fmt.Errorf("session set %q: %w", key, err)
	}
	return nil
}

// GetString returns the string stored under key, or def when absent or
// unreadable.
func (s *Session) GetString(ctx context.Context, key, def string) string {
	var v string
	ok, err := s.Get(ctx, key, &v)
	if err != nil || !ok {
		return def
	}
	return v
}

// Delete removes key from the session.
func (s *Session) Delete(ctx context.Context, key string) error {
	return s.store.Delete(ctx, s.ID, key)
}
