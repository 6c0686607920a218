package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/netidea/webbase/internal/session"
)

func testSession(t *testing.T) *session.Session {
	t.Helper()
	return session.NewManager(session.NewMemoryStore()).Start()
}

func fixedClock(unix int64) func() time.Time {
	return func() time.Time { return time.Unix(unix, 0) }
}

const testKey = "cf_times"

var defaultPolicy = Policy{WindowSeconds: 3600, MinIntervalSeconds: 30, MaxPerWindow: 10}

func TestCheck_EmptyStateNotBlocked(t *testing.T) {
	l := NewWithClock(fixedClock(1_000_000))
	r := l.Check(context.Background(), testSession(t), testKey, defaultPolicy)

	if r.Blocked {
		t.Error("expected empty state to be allowed")
	}
	if len(r.Surviving) != 0 {
		t.Errorf("expected no surviving timestamps, got %v", r.Surviving)
	}
	if r.Now != 1_000_000 {
		t.Errorf("expected now=1000000, got %d", r.Now)
	}
}

func TestCheck_PrunesOutsideWindow(t *testing.T) {
	ctx := context.Background()
	sess := testSession(t)
	now := int64(10_000)
	// two stale (>= window old), two inside the window
	stored := []int64{now - 3600, now - 4000, now - 3599, now - 100}
	if err := sess.Set(ctx, testKey, stored); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	l := NewWithClock(fixedClock(now))
	r := l.Check(ctx, sess, testKey, Policy{WindowSeconds: 3600, MaxPerWindow: 10})

	if len(r.Surviving) != 2 {
		t.Fatalf("expected 2 surviving timestamps, got %v", r.Surviving)
	}
	for _, ts := range r.Surviving {
		if now-ts >= 3600 {
			t.Errorf("timestamp %d is outside the window", ts)
		}
	}
}

func TestCheck_BlockedAtMaxPerWindow(t *testing.T) {
	ctx := context.Background()
	sess := testSession(t)
	now := int64(50_000)
	stored := make([]int64, 10)
	for i := range stored {
		stored[i] = now - 3000 + int64(i*60)
	}
	if err := sess.Set(ctx, testKey, stored); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	l := NewWithClock(fixedClock(now))
	r := l.Check(ctx, sess, testKey, defaultPolicy)

	if !r.Blocked {
		t.Error("expected blocked=true with 10 prior submissions in the window")
	}
}

func TestCheck_BlockedByMinInterval(t *testing.T) {
	ctx := context.Background()
	sess := testSession(t)
	now := int64(50_000)
	if err := sess.Set(ctx, testKey, []int64{now - 5}); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	l := NewWithClock(fixedClock(now))
	r := l.Check(ctx, sess, testKey, defaultPolicy)

	if !r.Blocked {
		t.Error("expected blocked=true 5s after the last submission")
	}
}

func TestCheck_AllowedAfterMinInterval(t *testing.T) {
	ctx := context.Background()
	sess := testSession(t)
	now := int64(50_000)
	if err := sess.Set(ctx, testKey, []int64{now - 31}); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	l := NewWithClock(fixedClock(now))
	r := l.Check(ctx, sess, testKey, defaultPolicy)

	if r.Blocked {
		t.Error("expected blocked=false 31s after the last submission")
	}
}

func TestTick_AppendsAndPersists(t *testing.T) {
	ctx := context.Background()
	sess := testSession(t)
	now := int64(60_000)

	l := NewWithClock(fixedClock(now))
	r := l.Check(ctx, sess, testKey, defaultPolicy)
	l.Tick(ctx, sess, testKey, r.Surviving, r.Now)

	var stored []int64
	ok, err := sess.Get(ctx, testKey, &stored)
	if err != nil || !ok {
		t.Fatalf("expected persisted timestamps, ok=%v err=%v", ok, err)
	}
	if len(stored) != 1 || stored[0] != now {
		t.Errorf("expected [%d], got %v", now, stored)
	}
}

func TestTickNow_CountsWithoutBlocking(t *testing.T) {
	ctx := context.Background()
	sess := testSession(t)
	now := int64(70_000)
	// A tick 5s ago would block a normal Check; TickNow must still append.
	if err := sess.Set(ctx, testKey, []int64{now - 5}); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	l := NewWithClock(fixedClock(now))
	l.TickNow(ctx, sess, testKey, 3600)

	var stored []int64
	if _, err := sess.Get(ctx, testKey, &stored); err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(stored) != 2 {
		t.Errorf("expected 2 timestamps after TickNow, got %v", stored)
	}
}
