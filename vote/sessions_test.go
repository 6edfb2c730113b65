package vote

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestSessionsLazyLoad(t *testing.T) {
	var loads int32
	s := NewSessions(func(ctx context.Context, key PollKey) ([]Record, error) {
		atomic.AddInt32(&loads, 1)
		return []Record{{UserID: 1, Choice: Up}}, nil
	})

	key := PollKey{ChatID: 10, MessageID: 20}
	for i := 0; i < 3; i++ {
		err := s.With(context.Background(), key, func(l *Ledger) error {
			if up, _ := l.Counts(); up != 1 {
				t.Fatalf("up = %d, want 1", up)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("With: %v", err)
		}
	}
	if n := atomic.LoadInt32(&loads); n != 1 {
		t.Fatalf("loads = %d, want 1", n)
	}
}

func TestSessionsLoadFailureRetried(t *testing.T) {
	boom := errors.New("storage down")
	var calls int32
	s := NewSessions(func(ctx context.Context, key PollKey) ([]Record, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, boom
		}
		return nil, nil
	})

	key := PollKey{ChatID: 1, MessageID: 2}
	err := s.With(context.Background(), key, func(*Ledger) error { return nil })
	if !errors.Is(err, boom) {
		t.Fatalf("first With: err = %v, want %v", err, boom)
	}

	err = s.With(context.Background(), key, func(*Ledger) error { return nil })
	if err != nil {
		t.Fatalf("second With: %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Fatalf("calls = %d, want 2", n)
	}
}

func TestSessionsTrackSkipsLoad(t *testing.T) {
	s := NewSessions(func(ctx context.Context, key PollKey) ([]Record, error) {
		t.Fatal("loader must not run for a tracked poll")
		return nil, nil
	})

	key := PollKey{ChatID: 3, MessageID: 4}
	s.Track(key)
	err := s.With(context.Background(), key, func(l *Ledger) error {
		if up, down := l.Counts(); up != 0 || down != 0 {
			t.Fatalf("Counts() = (%d, %d), want (0, 0)", up, down)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("With: %v", err)
	}
}

// Concurrent presses on one poll must serialize: the cap holds even when all
// presses arrive at once.
func TestSessionsSerializePerPoll(t *testing.T) {
	s := NewSessions(nil)
	key := PollKey{ChatID: 5, MessageID: 6}
	var m Machine

	const presses = 32
	var wg sync.WaitGroup
	var accepted int32
	wg.Add(presses)
	for i := 0; i < presses; i++ {
		choice := Up
		if i%2 == 1 {
			choice = Down
		}
		go func(c Choice) {
			defer wg.Done()
			_ = s.With(context.Background(), key, func(l *Ledger) error {
				if m.Decide(l, 42, c) == Persist {
					l.Apply(Record{UserID: 42, Choice: c})
					atomic.AddInt32(&accepted, 1)
				}
				return nil
			})
		}(choice)
	}
	wg.Wait()

	if accepted > DefaultMaxAttempts {
		t.Fatalf("accepted = %d, want at most %d", accepted, DefaultMaxAttempts)
	}
	err := s.With(context.Background(), key, func(l *Ledger) error {
		e, ok := l.Entry(42)
		if !ok {
			t.Fatal("entry missing after presses")
		}
		if e.Attempts > DefaultMaxAttempts {
			t.Fatalf("Attempts = %d, want at most %d", e.Attempts, DefaultMaxAttempts)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("With: %v", err)
	}
}
