// Package ratelimit implements the session-scoped sliding-window throttle
// used by the form pipelines. State is keyed per caller session, so this is
// a courtesy throttle, not a security control.
package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"github.com/netidea/webbase/internal/session"
)

// Policy tunes one limiter check.
type Policy struct {
	// WindowSeconds is the trailing window; only timestamps newer than
	// now-WindowSeconds count toward the limit.
	WindowSeconds int
	// MinIntervalSeconds blocks when the most recent event is closer than
	// this to now. Zero disables the interval check.
	MinIntervalSeconds int
	// MaxPerWindow blocks when the window already holds this many events.
	MaxPerWindow int
}

// Result is the outcome of a Check call. Surviving holds the timestamps
// still inside the window; pass it unchanged to Tick so the pruned list is
// what gets persisted.
type Result struct {
	Blocked   bool
	Surviving []int64
	Now       int64
}

// Limiter reads and writes timestamp lists in a caller's session.
// It never fails: a missing or unreadable list is treated as empty, and
// persistence errors are logged and swallowed.
type Limiter struct {
	now func() time.Time
}

// New creates a Limiter using the wall clock.
func New() *Limiter {
	return &Limiter{now: time.Now}
}

// NewWithClock creates a Limiter with an injectable clock for tests.
func NewWithClock(now func() time.Time) *Limiter {
	return &Limiter{now: now}
}

// Check prunes the stored timestamp list for key to the trailing window and
// reports whether the caller is currently blocked. It does not write back;
// call Tick on the paths that should count.
func (l *Limiter) Check(ctx context.Context, sess *session.Session, key string, p Policy) Result {
	now := l.now().Unix()

	var stored []int64
	if _, err := sess.Get(ctx, key, &stored); err != nil {
		slog.Warn("rate limit state unreadable, treating as empty", "key", key, "error", err)
		stored = nil
	}

	surviving := make([]int64, 0, len(stored))
	for _, t := range stored {
		if now-t < int64(p.WindowSeconds) {
			surviving = append(surviving, t)
		}
	}

	blocked := len(surviving) >= p.MaxPerWindow
	if !blocked && len(surviving) > 0 && p.MinIntervalSeconds > 0 {
		last := surviving[len(surviving)-1]
		blocked = now-last < int64(p.MinIntervalSeconds)
	}

	return Result{Blocked: blocked, Surviving: surviving, Now: now}
}

// Tick appends now to the surviving list and persists it back to the
// session.
func (l *Limiter) Tick(ctx context.Context, sess *session.Session, key string, surviving []int64, now int64) {
	times := append(surviving, now)
	if err := sess.Set(ctx, key, times); err != nil {
		slog.Warn("rate limit tick not persisted", "key", key, "error", err)
	}
}

// TickNow re-reads the list, prunes it to the window and appends the
// current time. Used by terminal paths that did not keep a Check result.
func (l *Limiter) TickNow(ctx context.Context, sess *session.Session, key string, windowSeconds int) {
	r := l.Check(ctx, sess, key, Policy{WindowSeconds: windowSeconds, MaxPerWindow: int(^uint(0) >> 1)})
	l.Tick(ctx, sess, key, r.Surviving, l.now().Unix())
}
