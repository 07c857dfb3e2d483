package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/yourorg/castingdesk/internal/domain"
	"github.com/yourorg/castingdesk/internal/infrastructure/redis"
	"github.com/yourorg/castingdesk/internal/reliability/retry"
)

const sessionKeyPrefix = "session:"

// RedisStore keeps sessions in Redis under TTL keys, so sessions survive
// restarts and are shared across instances. Redis evicts expired keys on its
// own; Expired therefore has nothing to report.
type RedisStore struct {
	redis  *redis.Client
	retry  retry.Policy
	logger *slog.Logger
}

// NewRedisStore creates a Redis-backed session store
func NewRedisStore(client *redis.Client, logger *slog.Logger) *RedisStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisStore{
		redis:  client,
		retry:  retry.DefaultPolicy(),
		logger: logger,
	}
}

func sessionKey(id string) string { return sessionKeyPrefix + id }

func (s *RedisStore) put(ctx context.Context, sess *domain.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}

	_, err = retry.Do(ctx, s.retry, s.logger, "session_set", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.redis.Set(ctx, sessionKey(sess.ID), string(data), ttl)
	})
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Create stores a fresh session under a minted UUID token
func (s *RedisStore) Create(ctx context.Context, userID int64, expiresAt time.Time) (*domain.Session, error) {
	sess := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
	if err := s.put(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get returns the session, or nil when the token is unknown or already
// evicted by Redis
func (s *RedisStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	data, err := retry.Do(ctx, s.retry, s.logger, "session_get", func(ctx context.Context) (string, error) {
		v, err := s.redis.Get(ctx, sessionKey(id))
		if redis.IsMissing(err) {
			return "", nil
		}
		return v, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if data == "" {
		return nil, nil
	}

	var sess domain.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &sess, nil
}

// Save rewrites the session, resetting the Redis key TTL to the new expiry
func (s *RedisStore) Save(ctx context.Context, sess *domain.Session) error {
	return s.put(ctx, sess)
}

// Delete removes the session key; unknown tokens are ignored
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.redis.Delete(ctx, sessionKey(id)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Expired returns nothing: Redis drops expired keys itself
func (s *RedisStore) Expired(context.Context, time.Time) ([]string, error) {
	return nil, nil
}

// Count returns the number of live session keys
func (s *RedisStore) Count(ctx context.Context) (int, error) {
	keys, err := s.redis.Keys(ctx, sessionKeyPrefix+"*")
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return len(keys), nil
}
