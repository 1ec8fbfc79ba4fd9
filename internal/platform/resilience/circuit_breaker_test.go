package resilience

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *clock {
	return &clock{now: time.Date(2026, 9, 6, 17, 0, 0, 0, time.UTC)}
}

func withClock(b *CircuitBreaker, c *clock) { b.now = c.Now }

func TestCircuitBreaker_TripsAndRecovers(t *testing.T) {
	clk := newClock()
	b := NewCircuitBreaker(2, 5*time.Second, 1)
	withClock(b, clk)

	if err := b.Allow(); err != nil {
		t.Fatalf("expected closed breaker to allow, got %v", err)
	}
	b.Record(true)
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after one failure, got %s", state)
	}

	b.Record(true)
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open at threshold, got %s", state)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}

	clk.Advance(6 * time.Second)
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open after timeout, got %s", state)
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("expected probe to pass, got %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected second probe to be rejected, got %v", err)
	}

	b.Record(false)
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful probe, got %s", state)
	}
}

func TestCircuitBreaker_FailedProbeReopens(t *testing.T) {
	clk := newClock()
	b := NewCircuitBreaker(1, time.Second, 2)
	withClock(b, clk)

	b.Record(true)
	clk.Advance(2 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected probe to pass, got %v", err)
	}
	b.Record(true)

	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected failed probe to reopen, got %s", state)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected reopened breaker to reject, got %v", err)
	}
}

func TestCircuitBreaker_SuccessResetsFailureStreak(t *testing.T) {
	b := NewCircuitBreaker(2, time.Second, 1)

	b.Record(true)
	b.Record(false)
	b.Record(true)

	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected non-consecutive failures to keep breaker closed, got %s", state)
	}
}

func TestCircuitBreaker_NilAllowsEverything(t *testing.T) {
	var b *CircuitBreaker

	for range 10 {
		if err := b.Allow(); err != nil {
			t.Fatalf("expected nil breaker to allow, got %v", err)
		}
		b.Record(true)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected nil breaker to report closed, got %s", state)
	}
}

func TestNewBreaker(t *testing.T) {
	if b := NewBreaker(CircuitBreakerConfig{Enabled: false}, nil); b != nil {
		t.Fatalf("expected disabled config to build nil breaker")
	}

	var (
		mu          sync.Mutex
		transitions []string
	)
	b := NewBreaker(CircuitBreakerConfig{Enabled: true, FailureThreshold: 1}, func(from, to CircuitState) {
		mu.Lock()
		defer mu.Unlock()
		transitions = append(transitions, string(from)+"->"+string(to))
	})
	if b == nil {
		t.Fatalf("expected enabled config to build a breaker")
	}
	clk := newClock()
	withClock(b, clk)

	b.Record(true)
	clk.Advance(DefaultCircuitBreakerConfig().OpenTimeout)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected probe after default timeout, got %v", err)
	}
	b.Record(false)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected probe slot, got %v", err)
	}
	b.Record(false)

	want := []string{"closed->open", "open->half_open", "half_open->closed"}
	if len(transitions) != len(want) {
		t.Fatalf("expected transitions %v, got %v", want, transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Fatalf("expected transitions %v, got %v", want, transitions)
		}
	}
}

func TestCircuitBreakerConfig_Normalize(t *testing.T) {
	got := CircuitBreakerConfig{Enabled: true, FailureThreshold: -1}.Normalize()
	def := DefaultCircuitBreakerConfig()
	if got.FailureThreshold != def.FailureThreshold || got.OpenTimeout != def.OpenTimeout || got.HalfOpenMaxReq != def.HalfOpenMaxReq {
		t.Fatalf("expected defaults to fill gaps, got %+v", got)
	}
	if !got.Enabled {
		t.Fatalf("expected Enabled to be preserved")
	}

	custom := CircuitBreakerConfig{FailureThreshold: 9, OpenTimeout: time.Minute, HalfOpenMaxReq: 3}.Normalize()
	if custom.FailureThreshold != 9 || custom.OpenTimeout != time.Minute || custom.HalfOpenMaxReq != 3 {
		t.Fatalf("expected explicit values to be kept, got %+v", custom)
	}
}
