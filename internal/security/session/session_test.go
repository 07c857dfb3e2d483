package session

import (
	"context"
	"testing"
	"time"

	"github.com/yourorg/castingdesk/internal/domain"
	"github.com/yourorg/castingdesk/internal/store"
)

func newTestManager(t *testing.T, ttl time.Duration) *Manager {
	t.Helper()
	sessions := store.NewCollection[string, *domain.Session](
		func() *domain.Session { return &domain.Session{} }, store.UUIDGenerator{})
	return NewManager(NewMemoryStore(sessions), ttl, nil)
}

func TestCreateAndFetch(t *testing.T) {
	m := newTestManager(t, time.Minute)
	ctx := context.Background()

	s, err := m.Create(ctx, 7)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if s.ID == "" {
		t.Fatalf("expected a minted token")
	}
	if s.UserID != 7 {
		t.Fatalf("wrong user id: %d", s.UserID)
	}

	got, err := m.Fetch(ctx, s.ID)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if got == nil || got.UserID != 7 {
		t.Fatalf("expected live session for user 7, got %+v", got)
	}
}

func TestFetchUnknownToken(t *testing.T) {
	m := newTestManager(t, time.Minute)

	got, err := m.Fetch(context.Background(), "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("unknown token must resolve to nil, got %+v", got)
	}
}

func TestExpiryIsLazy(t *testing.T) {
	m := newTestManager(t, 30*time.Millisecond)
	ctx := context.Background()

	s, err := m.Create(ctx, 1)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	time.Sleep(60 * time.Millisecond)

	got, err := m.Fetch(ctx, s.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expired session must resolve to nil, got %+v", got)
	}

	// The lazy path also deletes the dead record.
	n, err := m.Count(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected dead record to be dropped, have %d", n)
	}
}

func TestRefreshSlidesExpiry(t *testing.T) {
	m := newTestManager(t, 80*time.Millisecond)
	ctx := context.Background()

	s, err := m.Create(ctx, 1)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Keep touching the session at half the idle window; it must stay alive
	// well past the original expiry.
	for i := 0; i < 4; i++ {
		time.Sleep(40 * time.Millisecond)
		got, err := m.Refresh(ctx, s.ID)
		if err != nil {
			t.Fatalf("refresh %d failed: %v", i, err)
		}
		if got == nil {
			t.Fatalf("session died despite refreshes on touch %d", i)
		}
	}

	// Without touches the full idle window kills it.
	time.Sleep(120 * time.Millisecond)
	got, err := m.Refresh(ctx, s.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected idle session to expire, got %+v", got)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	m := newTestManager(t, time.Minute)
	ctx := context.Background()

	s, err := m.Create(ctx, 1)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := m.Delete(ctx, s.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := m.Delete(ctx, s.ID); err != nil {
		t.Fatalf("second delete failed: %v", err)
	}
	got, err := m.Fetch(ctx, s.ID)
	if err != nil || got != nil {
		t.Fatalf("deleted session must be gone, got %+v err %v", got, err)
	}
}

func TestSweepDropsOnlyExpired(t *testing.T) {
	m := newTestManager(t, 30*time.Millisecond)
	ctx := context.Background()

	if _, err := m.Create(ctx, 1); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := m.Create(ctx, 2); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	time.Sleep(60 * time.Millisecond)

	live, err := m.Create(ctx, 3)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	swept, err := m.Sweep(ctx)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if swept != 2 {
		t.Fatalf("expected 2 swept sessions, got %d", swept)
	}

	got, err := m.Fetch(ctx, live.ID)
	if err != nil || got == nil {
		t.Fatalf("live session must survive the sweep, got %+v err %v", got, err)
	}
}

func TestTokensAreUnique(t *testing.T) {
	m := newTestManager(t, time.Minute)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		s, err := m.Create(ctx, int64(i))
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if seen[s.ID] {
			t.Fatalf("duplicate token minted: %s", s.ID)
		}
		seen[s.ID] = true
	}
}
