package worker

import (
	"context"
	"testing"
	"time"

	"github.com/yourorg/castingdesk/internal/domain"
	"github.com/yourorg/castingdesk/internal/security/session"
	"github.com/yourorg/castingdesk/internal/store"
)

func newTestManager(t *testing.T, ttl time.Duration) *session.Manager {
	t.Helper()
	sessions := store.NewCollection[string, *domain.Session](
		func() *domain.Session { return &domain.Session{} }, store.UUIDGenerator{})
	return session.NewManager(session.NewMemoryStore(sessions), ttl, nil)
}

func TestJanitorSweepsExpiredSessions(t *testing.T) {
	mgr := newTestManager(t, 20*time.Millisecond)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := mgr.Create(ctx, int64(i+1)); err != nil {
			t.Fatalf("create session: %v", err)
		}
	}

	time.Sleep(50 * time.Millisecond)

	janitor := NewSessionJanitor(mgr, nil, 10*time.Millisecond)
	runCtx, cancel := context.WithCancel(ctx)
	go janitor.Start(runCtx)

	deadline := time.Now().Add(time.Second)
	for {
		count, err := mgr.Count(ctx)
		if err != nil {
			t.Fatalf("count sessions: %v", err)
		}
		if count == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("janitor did not sweep expired sessions, %d remain", count)
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
}

func TestJanitorKeepsLiveSessions(t *testing.T) {
	mgr := newTestManager(t, time.Minute)
	ctx := context.Background()

	if _, err := mgr.Create(ctx, 1); err != nil {
		t.Fatalf("create session: %v", err)
	}

	janitor := NewSessionJanitor(mgr, nil, 0)
	if janitor.interval != DefaultSweepInterval {
		t.Fatalf("expected default interval, got %v", janitor.interval)
	}

	janitor.sweep(ctx)

	count, err := mgr.Count(ctx)
	if err != nil {
		t.Fatalf("count sessions: %v", err)
	}
	if count != 1 {
		t.Fatalf("live session swept, count = %d", count)
	}
}
