package circuitbreaker

import (
	"testing"
	"time"
)

func TestBreakerTripsAfterThreshold(t *testing.T) {
	b := New(3, 1, time.Hour)

	for i := 0; i < 2; i++ {
		b.Failure()
	}
	if !b.Allow() {
		t.Fatal("breaker tripped before reaching the failure threshold")
	}

	b.Failure()
	if b.State() != Open {
		t.Fatalf("state = %v, want open", b.State())
	}
	if b.Allow() {
		t.Fatal("open breaker allowed a request inside cooldown")
	}
}

func TestBreakerRecoversThroughHalfOpen(t *testing.T) {
	b := New(1, 2, 10*time.Millisecond)

	b.Failure()
	if b.Allow() {
		t.Fatal("expected open breaker to refuse")
	}

	time.Sleep(20 * time.Millisecond)
	if !b.Allow() {
		t.Fatal("expected half-open probe after cooldown")
	}
	if b.State() != HalfOpen {
		t.Fatalf("state = %v, want half-open", b.State())
	}

	b.Success()
	if b.State() != HalfOpen {
		t.Fatal("breaker closed before successThreshold successes")
	}
	b.Success()
	if b.State() != Closed {
		t.Fatalf("state = %v, want closed", b.State())
	}
}

func TestHalfOpenFailureReopens(t *testing.T) {
	b := New(1, 1, 10*time.Millisecond)

	var transitions []string
	b.OnStateChange(func(from, to State) {
		transitions = append(transitions, from.String()+">"+to.String())
	})

	b.Failure()
	time.Sleep(20 * time.Millisecond)
	b.Allow()
	b.Failure()

	if b.State() != Open {
		t.Fatalf("state = %v, want open", b.State())
	}
	want := []string{"closed>open", "open>half-open", "half-open>open"}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Fatalf("transitions = %v, want %v", transitions, want)
		}
	}
}
