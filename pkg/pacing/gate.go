// Package pacing serializes and spaces outbound calls per endpoint class.
// External providers (search engines, AI APIs, scraped platforms) tolerate
// a steady trickle but not bursts, so each class gets a fixed floor between
// real calls and a longer one-time warm-up delay after idle startup.
package pacing

import (
	"context"
	"sync"
	"time"

	"github.com/hearsay-ai/hearsay/pkg/metrics"
)

// Interval holds the spacing parameters for one endpoint class.
type Interval struct {
	Warmup      time.Duration
	MinInterval time.Duration
}

// classState tracks pacing for a single endpoint class. Its mutex is held
// across the sleep so one caller's wait-then-timestamp sequence is atomic
// relative to other callers, and waiters are released in arrival order.
type classState struct {
	mu         sync.Mutex
	callCount  int64
	lastCallAt time.Time
	interval   Interval
}

// Gate spaces calls per endpoint class.
type Gate struct {
	mu        sync.Mutex
	defaults  Interval
	overrides map[string]Interval
	classes   map[string]*classState
}

// New creates a Gate with the given default spacing. Per-class overrides
// may be supplied via WithOverride.
func New(warmup, minInterval time.Duration) *Gate {
	return &Gate{
		defaults:  Interval{Warmup: warmup, MinInterval: minInterval},
		overrides: make(map[string]Interval),
		classes:   make(map[string]*classState),
	}
}

// WithOverride sets class-specific spacing and returns the gate for chaining.
// Overrides must be registered before the first Await on that class.
func (g *Gate) WithOverride(class string, iv Interval) *Gate {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.overrides[class] = iv
	return g
}

func (g *Gate) state(class string) *classState {
	g.mu.Lock()
	defer g.mu.Unlock()
	st, ok := g.classes[class]
	if !ok {
		iv, ok := g.overrides[class]
		if !ok {
			iv = g.defaults
		}
		st = &classState{interval: iv}
		g.classes[class] = st
	}
	return st
}

// Await blocks until it is safe to issue the next real network call for the
// class, then returns. The first call of a session waits the warm-up
// duration; later calls wait out whatever remains of the minimum interval.
// If ctx is cancelled while waiting, Await returns ctx.Err() without
// advancing pacing state, so the next caller observes the prior timestamp.
func (g *Gate) Await(ctx context.Context, class string) error {
	st := g.state(class)
	st.mu.Lock()
	defer st.mu.Unlock()

	var wait time.Duration
	if st.callCount == 0 {
		wait = st.interval.Warmup
	} else if elapsed := time.Since(st.lastCallAt); elapsed < st.interval.MinInterval {
		wait = st.interval.MinInterval - elapsed
	}

	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
		metrics.PacingWaitSeconds.WithLabelValues(class).Observe(wait.Seconds())
	}

	st.callCount++
	st.lastCallAt = time.Now()
	return nil
}

// Skip informs the gate that no network call was made for the class (for
// example a cache hit). It never advances timing state.
func (g *Gate) Skip(class string) {}

// CallCount returns the number of real calls released for the class.
func (g *Gate) CallCount(class string) int64 {
	st := g.state(class)
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.callCount
}

// Reset clears all pacing state. Intended for use between independent work
// sessions, not mid-session: the next call on every class pays the warm-up
// delay again.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.classes = make(map[string]*classState)
}
