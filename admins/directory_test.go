package admins

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m3rciful/vbot/core/logger"
)

func TestMain(m *testing.M) {
	_ = logger.InitLogger(nil)
	os.Exit(m.Run())
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestDirectoryCachesWithinTTL(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	var fetches int32
	d := NewDirectory(Options{
		Fetch: func(ctx context.Context) ([]int64, error) {
			atomic.AddInt32(&fetches, 1)
			return []int64{1, 2}, nil
		},
		TTL: 30 * time.Minute,
		Now: clock.Now,
	})

	for i := 0; i < 5; i++ {
		ok, err := d.IsAdmin(context.Background(), 1)
		if err != nil {
			t.Fatalf("IsAdmin: %v", err)
		}
		if !ok {
			t.Fatal("IsAdmin(1) = false, want true")
		}
	}
	if ok, _ := d.IsAdmin(context.Background(), 99); ok {
		t.Fatal("IsAdmin(99) = true, want false")
	}
	if n := atomic.LoadInt32(&fetches); n != 1 {
		t.Fatalf("fetches = %d, want 1", n)
	}
}

func TestDirectoryRefreshesAfterTTL(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	var fetches int32
	d := NewDirectory(Options{
		Fetch: func(ctx context.Context) ([]int64, error) {
			if atomic.AddInt32(&fetches, 1) == 1 {
				return []int64{1}, nil
			}
			return []int64{2}, nil
		},
		TTL: 30 * time.Minute,
		Now: clock.Now,
	})

	if ok, _ := d.IsAdmin(context.Background(), 1); !ok {
		t.Fatal("before expiry: IsAdmin(1) = false, want true")
	}

	clock.Advance(29 * time.Minute)
	if ok, _ := d.IsAdmin(context.Background(), 1); !ok {
		t.Fatal("within TTL: IsAdmin(1) = false, want true")
	}

	clock.Advance(2 * time.Minute)
	if ok, _ := d.IsAdmin(context.Background(), 2); !ok {
		t.Fatal("after expiry: IsAdmin(2) = false, want true")
	}
	if ok, _ := d.IsAdmin(context.Background(), 1); ok {
		t.Fatal("after expiry: IsAdmin(1) = true, want false (set replaced wholesale)")
	}
	if n := atomic.LoadInt32(&fetches); n != 2 {
		t.Fatalf("fetches = %d, want 2", n)
	}
}

func TestDirectoryServesStaleOnRefreshFailure(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	var fetches int32
	d := NewDirectory(Options{
		Fetch: func(ctx context.Context) ([]int64, error) {
			if atomic.AddInt32(&fetches, 1) == 1 {
				return []int64{7}, nil
			}
			return nil, errors.New("storage down")
		},
		TTL: time.Minute,
		Now: clock.Now,
	})

	if ok, _ := d.IsAdmin(context.Background(), 7); !ok {
		t.Fatal("IsAdmin(7) = false, want true")
	}

	clock.Advance(2 * time.Minute)
	ok, err := d.IsAdmin(context.Background(), 7)
	if err != nil {
		t.Fatalf("stale serve returned error: %v", err)
	}
	if !ok {
		t.Fatal("stale serve: IsAdmin(7) = false, want true")
	}
}

func TestDirectorySurfacesFailureWithoutCache(t *testing.T) {
	boom := errors.New("storage down")
	d := NewDirectory(Options{
		Fetch: func(ctx context.Context) ([]int64, error) { return nil, boom },
	})

	_, err := d.IsAdmin(context.Background(), 1)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

// Concurrent cache-miss callers collapse into one storage fetch.
func TestDirectoryDeduplicatesRefresh(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var fetches int32
	d := NewDirectory(Options{
		Fetch: func(ctx context.Context) ([]int64, error) {
			if atomic.AddInt32(&fetches, 1) == 1 {
				close(started)
			}
			<-release
			return []int64{1}, nil
		},
	})

	const callers = 16
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			ok, err := d.IsAdmin(context.Background(), 1)
			if err != nil {
				t.Errorf("IsAdmin: %v", err)
				return
			}
			if !ok {
				t.Error("IsAdmin(1) = false, want true")
			}
		}()
	}

	<-started
	close(release)
	wg.Wait()

	if n := atomic.LoadInt32(&fetches); n != 1 {
		t.Fatalf("fetches = %d, want 1", n)
	}
}
