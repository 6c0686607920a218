package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store with idle expiry. Suitable for a
// single instance; use RedisStore when running more than one.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	idleTTL time.Duration
}

type memoryEntry struct {
	values   map[string][]byte
	lastSeen time.Time
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithIdleTTL overrides the idle expiry (default 2h).
func WithIdleTTL(d time.Duration) MemoryOption {
	return func(s *MemoryStore) { s.idleTTL = d }
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*memoryEntry),
		idleTTL: 2 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Get(_ context.Context, sid, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[sid]
	if !ok {
		return nil, false, nil
	}
	ent.lastSeen = time.Now()
	v, ok := ent.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, sid, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[sid]
	if !ok {
		ent = &memoryEntry{values: make(map[string][]byte)}
		s.entries[sid] = ent
	}
	ent.lastSeen = time.Now()
	ent.values[key] = value
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sid, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.entries[sid]; ok {
		delete(ent.values, key)
	}
	return nil
}

// Cleanup drops sessions idle longer than the TTL.
func (s *MemoryStore) Cleanup() {
	cutoff := time.Now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for sid, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, sid)
		}
	}
}

// StartJanitor starts a goroutine that periodically drops idle sessions
// until ctx is canceled.
func (s *MemoryStore) StartJanitor(ctx context.Context, every time.Duration) {
	go func() {
		t := time.NewTicker(every)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}
