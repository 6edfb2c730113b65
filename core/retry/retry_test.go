package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeClock advances on every sleep so budget checks run without real waiting.
type fakeClock struct {
	now    time.Time
	slept  []time.Duration
	refuse error
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	if f.refuse != nil {
		return f.refuse
	}
	f.slept = append(f.slept, d)
	f.now = f.now.Add(d)
	return nil
}

func testPolicy(f *fakeClock) Policy {
	return Policy{sleep: f.Sleep, now: f.Now}
}

func TestExecuteSucceedsAfterTransientFailures(t *testing.T) {
	clock := newFakeClock()
	p := testPolicy(clock)

	calls := 0
	err := p.Execute(context.Background(), "save_vote", func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
	want := []time.Duration{1 * time.Second, 2 * time.Second}
	if len(clock.slept) != len(want) {
		t.Fatalf("expected %d sleeps, got %d", len(want), len(clock.slept))
	}
	for i, d := range want {
		if clock.slept[i] != d {
			t.Fatalf("sleep %d = %s, want %s", i, clock.slept[i], d)
		}
	}
}

func TestExecuteBackoffCappedAtMax(t *testing.T) {
	clock := newFakeClock()
	p := testPolicy(clock)

	fails := 0
	_ = p.Execute(context.Background(), "fetch_voters", func(context.Context) error {
		fails++
		return errors.New("down")
	})

	// 1, 2, 4, 8 then capped at 10
	for i, d := range clock.slept {
		if d > 10*time.Second {
			t.Fatalf("sleep %d = %s exceeds 10s cap", i, d)
		}
	}
	if clock.slept[len(clock.slept)-1] != 10*time.Second {
		t.Fatalf("final backoff = %s, want 10s", clock.slept[len(clock.slept)-1])
	}
}

func TestExecuteSurfacesFatalAfterBudget(t *testing.T) {
	clock := newFakeClock()
	p := testPolicy(clock)

	sentinel := errors.New("storage down")
	err := p.Execute(context.Background(), "fetch_admin_ids", func(context.Context) error {
		return sentinel
	})
	if err == nil {
		t.Fatal("expected error after budget exhaustion")
	}

	var fatal *FatalError
	if !errors.As(err, &fatal) {
		t.Fatalf("expected FatalError, got %T: %v", err, err)
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("fatal error should wrap the last error, got %v", err)
	}
	if fatal.Elapsed < 60*time.Second {
		t.Fatalf("budget surfaced too early: elapsed %s", fatal.Elapsed)
	}
	if fatal.Op != "fetch_admin_ids" {
		t.Fatalf("unexpected op %q", fatal.Op)
	}
}

func TestExecuteStopsOnContextCancel(t *testing.T) {
	clock := newFakeClock()
	clock.refuse = context.Canceled
	p := testPolicy(clock)

	err := p.Execute(context.Background(), "save_message", func(context.Context) error {
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestValueReturnsResultThroughRetries(t *testing.T) {
	clock := newFakeClock()
	p := testPolicy(clock)

	calls := 0
	got, err := Value(context.Background(), p, "fetch_report", func(context.Context) ([]string, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("flaky")
		}
		return []string{"row"}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "row" {
		t.Fatalf("unexpected value: %v", got)
	}
}
