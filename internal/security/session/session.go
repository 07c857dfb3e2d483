// Package session manages login sessions resolved from opaque bearer tokens.
// Sessions use sliding expiry: every authenticated request pushes the expiry
// forward, so a session dies only after a full idle window.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/yourorg/castingdesk/internal/domain"
)

// DefaultTTL is the idle window before an untouched session expires
const DefaultTTL = 100000 * time.Millisecond

// Store persists sessions. Get returns nil with no error for a missing
// record; expiry is the Manager's concern, not the store's, except for
// backends that evict on their own (Redis TTL keys).
type Store interface {
	Create(ctx context.Context, userID int64, expiresAt time.Time) (*domain.Session, error)
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, s *domain.Session) error
	Delete(ctx context.Context, id string) error
	// Expired returns ids of sessions already past the given time. Backends
	// that self-evict return nothing.
	Expired(ctx context.Context, now time.Time) ([]string, error)
	Count(ctx context.Context) (int, error)
}

// Manager is the session lifecycle front. A single mutex makes the
// read-check-write of a sliding refresh atomic across concurrent requests
// carrying the same token.
type Manager struct {
	store  Store
	ttl    time.Duration
	logger *slog.Logger

	mu  sync.Mutex
	now func() time.Time
}

// NewManager creates a session manager. A non-positive ttl falls back to
// DefaultTTL.
func NewManager(store Store, ttl time.Duration, logger *slog.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:  store,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Create opens a fresh session for the user and returns it. The session id is
// the bearer token handed to the client.
func (m *Manager) Create(ctx context.Context, userID int64) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.store.Create(ctx, userID, m.now().Add(m.ttl))
	if err != nil {
		return nil, err
	}
	m.logger.Debug("session created", slog.Int64("user_id", userID))
	return s, nil
}

// Fetch resolves a token to its live session. Expired or unknown tokens
// resolve to nil without error; an expired record is deleted on sight.
func (m *Manager) Fetch(ctx context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchLocked(ctx, id)
}

func (m *Manager) fetchLocked(ctx context.Context, id string) (*domain.Session, error) {
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}
	if s.Expired(m.now()) {
		if err := m.store.Delete(ctx, id); err != nil {
			m.logger.Error("failed to delete expired session", slog.String("error", err.Error()))
		}
		return nil, nil
	}
	return s, nil
}

// Refresh resolves the token and slides its expiry a full idle window
// forward. Dead tokens resolve to nil without error.
func (m *Manager) Refresh(ctx context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.fetchLocked(ctx, id)
	if err != nil || s == nil {
		return nil, err
	}
	s.ExpiresAt = m.now().Add(m.ttl)
	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Delete closes the session. Deleting an unknown token is not an error.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Delete(ctx, id)
}

// Sweep removes every session already past its expiry and returns how many
// were dropped. The background janitor calls this periodically; lazy expiry
// in Fetch keeps correctness even if the janitor never runs.
func (m *Manager) Sweep(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids, err := m.store.Expired(ctx, m.now())
	if err != nil {
		return 0, err
	}
	swept := 0
	for _, id := range ids {
		if err := m.store.Delete(ctx, id); err != nil {
			m.logger.Error("failed to sweep session", slog.String("error", err.Error()))
			continue
		}
		swept++
	}
	return swept, nil
}

// Count returns the number of stored sessions, including any not yet swept
func (m *Manager) Count(ctx context.Context) (int, error) {
	return m.store.Count(ctx)
}
