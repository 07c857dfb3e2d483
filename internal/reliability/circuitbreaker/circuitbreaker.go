// Package circuitbreaker provides fast-fail gating for a dependency that
// fails repeatedly.
package circuitbreaker

import (
	"sync"
	"time"
)

// State of the breaker
type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	}
	return "unknown"
}

// Breaker trips open after failureThreshold consecutive failures, refuses
// work for the cooldown period, then probes half-open until successThreshold
// consecutive successes close it again. A failure while half-open reopens it.
type Breaker struct {
	mu            sync.Mutex
	state         State
	failures      int
	successes     int
	openedAt      time.Time
	failLimit     int
	successLimit  int
	cooldown      time.Duration
	onStateChange func(from, to State)
}

func New(failureThreshold, successThreshold int, cooldown time.Duration) *Breaker {
	return &Breaker{
		state:        Closed,
		failLimit:    failureThreshold,
		successLimit: successThreshold,
		cooldown:     cooldown,
	}
}

// OnStateChange registers a callback invoked on every transition, with the
// breaker's lock held
func (b *Breaker) OnStateChange(fn func(from, to State)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onStateChange = fn
}

// Allow reports whether a request may proceed, moving the breaker half-open
// once the cooldown since the trip has elapsed
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != Open {
		return true
	}
	if time.Since(b.openedAt) > b.cooldown {
		b.transition(HalfOpen)
		return true
	}
	return false
}

// Success records a successful call
func (b *Breaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case HalfOpen:
		b.successes++
		if b.successes >= b.successLimit {
			b.transition(Closed)
		}
	case Closed:
		b.failures = 0
	}
}

// Failure records a failed call, tripping the breaker when warranted
func (b *Breaker) Failure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Closed:
		b.failures++
		if b.failures >= b.failLimit {
			b.transition(Open)
		}
	case HalfOpen:
		b.transition(Open)
	}
}

// State returns the current state
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) transition(to State) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	b.failures = 0
	b.successes = 0
	if to == Open {
		b.openedAt = time.Now()
	}
	if b.onStateChange != nil {
		b.onStateChange(from, to)
	}
}
