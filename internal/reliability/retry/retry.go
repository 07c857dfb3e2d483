// Package retry runs operations against flaky backends with exponential
// backoff.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Policy describes how often and how patiently an operation is retried
type Policy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
	Factor    float64
}

// DefaultPolicy covers short network hiccups against the session backend
func DefaultPolicy() Policy {
	return Policy{
		Attempts:  3,
		BaseDelay: 100 * time.Millisecond,
		MaxDelay:  30 * time.Second,
		Factor:    2.0,
	}
}

// Do runs fn up to p.Attempts times, backing off between failures. The
// backoff sleep aborts early when ctx is cancelled.
func Do[T any](ctx context.Context, p Policy, log *slog.Logger, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	delay := p.BaseDelay
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == p.Attempts {
			break
		}
		log.Warn("operation failed, retrying",
			slog.String("operation", op),
			slog.Int("attempt", attempt),
			slog.Duration("backoff", delay),
			slog.String("error", err.Error()),
		)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
		delay = time.Duration(float64(delay) * p.Factor)
		if delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}

	return zero, fmt.Errorf("operation %q failed after %d attempts: %w", op, p.Attempts, lastErr)
}
