package session

import (
	"context"
	"time"

	"github.com/yourorg/castingdesk/internal/domain"
	"github.com/yourorg/castingdesk/internal/store"
)

// MemoryStore keeps sessions in the process-wide session collection. Ideal
// for single-instance deployments and tests; sessions do not survive a
// restart.
type MemoryStore struct {
	sessions *store.Collection[string, *domain.Session]
}

// NewMemoryStore creates a session store over the given collection
func NewMemoryStore(sessions *store.Collection[string, *domain.Session]) *MemoryStore {
	return &MemoryStore{sessions: sessions}
}

// Create mints a session with a collection-generated UUID token
func (s *MemoryStore) Create(_ context.Context, userID int64, expiresAt time.Time) (*domain.Session, error) {
	return s.sessions.Add(store.Patch{"UserID": userID, "ExpiresAt": expiresAt}), nil
}

// Get returns the session, or nil when the token is unknown
func (s *MemoryStore) Get(_ context.Context, id string) (*domain.Session, error) {
	sess, ok := s.sessions.Find(id)
	if !ok {
		return nil, nil
	}
	return sess, nil
}

// Save persists a changed expiry. Saving a vanished session is a no-op.
func (s *MemoryStore) Save(_ context.Context, sess *domain.Session) error {
	s.sessions.Update(sess.ID, store.Patch{"ExpiresAt": sess.ExpiresAt})
	return nil
}

// Delete drops the session; unknown tokens are ignored
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	if sess, ok := s.sessions.Find(id); ok {
		s.sessions.Remove(sess)
	}
	return nil
}

// Expired returns the ids of sessions past their expiry
func (s *MemoryStore) Expired(_ context.Context, now time.Time) ([]string, error) {
	dead := s.sessions.Filter(func(sess *domain.Session) bool { return sess.Expired(now) })
	ids := make([]string, 0, len(dead))
	for _, sess := range dead {
		ids = append(ids, sess.ID)
	}
	return ids, nil
}

// Count returns the number of stored sessions
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	return s.sessions.Len(), nil
}
