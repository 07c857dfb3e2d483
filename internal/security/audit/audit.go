// Package audit records security-relevant actions: sign-ins, tier denials and
// mutations of tenant data. Events always go to the structured log; a
// Postgres sink and live subscribers are optional extras.
package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/yourorg/castingdesk/internal/reliability/circuitbreaker"
	"github.com/yourorg/castingdesk/pkg/database"
)

// RequestIDContextKey keys the request correlation id in a request context.
// It lives here rather than in the middleware package so that both packages
// can use it without an import cycle.
type RequestIDContextKey struct{}

// GetRequestIDFromContext returns the request correlation id, if tagged
func GetRequestIDFromContext(ctx context.Context) string {
	if id := ctx.Value(RequestIDContextKey{}); id != nil {
		return id.(string)
	}
	return ""
}

// Event is one recorded action
type Event struct {
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id,omitempty"`
	ActorID    int64     `json:"actor_id"`
	Action     string    `json:"action"`
	Resource   string    `json:"resource"`
	ResourceID string    `json:"resource_id,omitempty"`
	Status     string    `json:"status"`
	Details    string    `json:"details,omitempty"`
}

// Logger fans audit events out to slog, the optional database sink and any
// live subscribers
type Logger struct {
	logger *slog.Logger
	sink   *Sink

	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

// NewLogger creates an audit logger. sink may be nil.
func NewLogger(logger *slog.Logger, sink *Sink) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{
		logger: logger,
		sink:   sink,
		subs:   make(map[chan Event]struct{}),
	}
}

// LogAction records one action
func (al *Logger) LogAction(ctx context.Context, actorID int64, action, resource, resourceID, status, details string) {
	ev := Event{
		Timestamp:  time.Now(),
		RequestID:  GetRequestIDFromContext(ctx),
		ActorID:    actorID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Status:     status,
		Details:    details,
	}

	al.logger.Info("audit",
		slog.String("action", ev.Action),
		slog.String("resource", ev.Resource),
		slog.String("resource_id", ev.ResourceID),
		slog.Int64("actor_id", ev.ActorID),
		slog.String("status", ev.Status),
		slog.String("details", ev.Details),
		slog.String("request_id", ev.RequestID),
		slog.Time("timestamp", ev.Timestamp),
	)

	if al.sink != nil {
		al.sink.Write(ctx, ev)
	}

	al.mu.RLock()
	for ch := range al.subs {
		select {
		case ch <- ev:
		default:
			// Slow subscribers drop events rather than block the request.
		}
	}
	al.mu.RUnlock()
}

// LogSignIn records a sign-in attempt outcome
func (al *Logger) LogSignIn(ctx context.Context, actorID int64, status, details string) {
	al.LogAction(ctx, actorID, "signin", "session", "", status, details)
}

// LogDenied records a failed tier check
func (al *Logger) LogDenied(ctx context.Context, actorID int64, resource, reason string) {
	al.LogAction(ctx, actorID, "access_denied", resource, "", "denied", reason)
}

// Subscribe registers a live event channel; the returned func cancels it
func (al *Logger) Subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)
	al.mu.Lock()
	al.subs[ch] = struct{}{}
	al.mu.Unlock()

	cancel := func() {
		al.mu.Lock()
		delete(al.subs, ch)
		al.mu.Unlock()
	}
	return ch, cancel
}

// Sink persists audit events to Postgres. Writes are best-effort: a tripped
// breaker or a failed insert loses the row but never the slog record, and
// never fails the request.
type Sink struct {
	pool    *database.ConnectionPool
	breaker *circuitbreaker.Breaker
	logger  *slog.Logger
}

// NewSink creates a database-backed audit sink
func NewSink(pool *database.ConnectionPool, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{
		pool:    pool,
		breaker: circuitbreaker.New(5, 2, 30*time.Second),
		logger:  logger,
	}
}

// EnsureSchema creates the audit table if it does not exist
func (s *Sink) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.GetDB().ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS audit_events (
			id BIGSERIAL PRIMARY KEY,
			ts TIMESTAMPTZ NOT NULL,
			request_id TEXT,
			actor_id BIGINT NOT NULL,
			action TEXT NOT NULL,
			resource TEXT NOT NULL,
			resource_id TEXT,
			status TEXT NOT NULL,
			details TEXT
		)`)
	return err
}

// Write inserts one event, honoring the circuit breaker
func (s *Sink) Write(ctx context.Context, ev Event) {
	if !s.breaker.Allow() {
		return
	}

	_, err := s.pool.GetDB().ExecContext(ctx,
		`INSERT INTO audit_events (ts, request_id, actor_id, action, resource, resource_id, status, details)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		ev.Timestamp, ev.RequestID, ev.ActorID, ev.Action, ev.Resource, ev.ResourceID, ev.Status, ev.Details,
	)
	if err != nil {
		s.breaker.Failure()
		s.logger.Error("audit sink write failed", slog.String("error", err.Error()))
		return
	}
	s.breaker.Success()
}
