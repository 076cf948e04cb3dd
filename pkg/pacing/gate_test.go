package pacing

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestFirstCallWaitsWarmup(t *testing.T) {
	g := New(50*time.Millisecond, 10*time.Millisecond)

	start := time.Now()
	if err := g.Await(context.Background(), "search"); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("first call returned after %v, want >= 50ms warm-up", elapsed)
	}
}

func TestMinIntervalBetweenCalls(t *testing.T) {
	g := New(0, 40*time.Millisecond)
	ctx := context.Background()

	if err := g.Await(ctx, "search"); err != nil {
		t.Fatal(err)
	}
	start := time.Now()
	if err := g.Await(ctx, "search"); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("second call released after %v, want >= 40ms", elapsed)
	}
}

func TestClassesPacedIndependently(t *testing.T) {
	g := New(0, 200*time.Millisecond)
	ctx := context.Background()

	if err := g.Await(ctx, "openai"); err != nil {
		t.Fatal(err)
	}

	// A different class has its own state and should not inherit the wait.
	start := time.Now()
	if err := g.Await(ctx, "duckduckgo"); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("fresh class waited %v, want immediate release", elapsed)
	}
}

func TestOverride(t *testing.T) {
	g := New(500*time.Millisecond, 500*time.Millisecond).
		WithOverride("duckduckgo", Interval{Warmup: 0, MinInterval: 10 * time.Millisecond})

	start := time.Now()
	if err := g.Await(context.Background(), "duckduckgo"); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("override class waited %v, want no warm-up", elapsed)
	}
}

func TestSkipDoesNotAdvanceState(t *testing.T) {
	g := New(0, 30*time.Millisecond)
	ctx := context.Background()

	if err := g.Await(ctx, "search"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(30 * time.Millisecond)
	g.Skip("search")

	// The skip should not have reset the interval clock: the real call that
	// follows is already past the minimum interval and releases immediately.
	start := time.Now()
	if err := g.Await(ctx, "search"); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > 15*time.Millisecond {
		t.Errorf("call after skip waited %v, want immediate release", elapsed)
	}
	if g.CallCount("search") != 2 {
		t.Errorf("expected 2 real calls, got %d", g.CallCount("search"))
	}
}

func TestCancelledWaitLeavesStateIntact(t *testing.T) {
	g := New(0, time.Second)
	if err := g.Await(context.Background(), "search"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := g.Await(ctx, "search"); err != context.DeadlineExceeded {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if g.CallCount("search") != 1 {
		t.Errorf("cancelled wait advanced call count to %d", g.CallCount("search"))
	}
}

func TestConcurrentCallersAreSpaced(t *testing.T) {
	g := New(0, 30*time.Millisecond)
	ctx := context.Background()

	var mu sync.Mutex
	var releases []time.Time

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := g.Await(ctx, "search"); err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			releases = append(releases, time.Now())
			mu.Unlock()
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	for i := 1; i < len(releases); i++ {
		for j := 0; j < i; j++ {
			gap := releases[i].Sub(releases[j])
			if gap < 0 {
				gap = -gap
			}
			if gap < 25*time.Millisecond {
				t.Fatalf("releases %d and %d only %v apart", j, i, gap)
			}
		}
	}
}

func TestResetRestoresWarmup(t *testing.T) {
	g := New(40*time.Millisecond, 0)
	ctx := context.Background()

	if err := g.Await(ctx, "search"); err != nil {
		t.Fatal(err)
	}
	g.Reset()

	start := time.Now()
	if err := g.Await(ctx, "search"); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("post-reset call returned after %v, want warm-up again", elapsed)
	}
}
