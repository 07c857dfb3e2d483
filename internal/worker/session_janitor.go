// Package worker holds long-running background loops started from main.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/yourorg/castingdesk/internal/observability/metrics"
	"github.com/yourorg/castingdesk/internal/security/session"
)

// SessionJanitor periodically sweeps expired sessions out of the session
// store. Expiry is already enforced lazily on every fetch; the janitor only
// reclaims memory for sessions nobody presents again.
type SessionJanitor struct {
	sessions *session.Manager
	logger   *slog.Logger
	interval time.Duration
}

const DefaultSweepInterval = time.Minute

func NewSessionJanitor(sessions *session.Manager, logger *slog.Logger, interval time.Duration) *SessionJanitor {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &SessionJanitor{sessions: sessions, logger: logger, interval: interval}
}

// Start runs the sweep loop until ctx is cancelled
func (j *SessionJanitor) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Info("session janitor started", slog.Duration("interval", j.interval))

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("session janitor stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *SessionJanitor) sweep(ctx context.Context) {
	removed, err := j.sessions.Sweep(ctx)
	if err != nil {
		j.logger.Error("session sweep failed", slog.String("error", err.Error()))
		metrics.ObserveSweep("failure", 0)
		return
	}
	if removed > 0 {
		j.logger.Info("session sweep removed expired sessions", slog.Int("removed", removed))
	}
	metrics.ObserveSweep("success", removed)

	if count, err := j.sessions.Count(ctx); err == nil {
		metrics.SetActiveSessions(count)
	}
}
