// Package admins caches the admin-id set fetched from storage.
package admins

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/m3rciful/vbot/core/logger"

	"log/slog"
)

// DefaultTTL is how long a fetched admin set stays fresh.
const DefaultTTL = 30 * time.Minute

// FetchFunc loads the full admin-id set from storage.
type FetchFunc func(ctx context.Context) ([]int64, error)

// Directory answers admin-membership checks from a TTL cache. The cached set
// is replaced wholesale on refresh; readers never observe a partial update.
// A refresh failure keeps serving the stale set when one exists, and is only
// surfaced when there is nothing cached yet.
type Directory struct {
	fetch FetchFunc
	ttl   time.Duration
	now   func() time.Time

	mu        sync.RWMutex
	set       map[int64]struct{}
	expiresAt time.Time
	primed    bool

	group singleflight.Group
}

// Options configure a Directory.
type Options struct {
	Fetch FetchFunc
	TTL   time.Duration

	// Now overrides the clock in tests.
	Now func() time.Time
}

// NewDirectory builds a Directory with an empty, expired cache.
func NewDirectory(opts Options) *Directory {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Directory{
		fetch: opts.Fetch,
		ttl:   ttl,
		now:   now,
	}
}

// IsAdmin reports whether userID belongs to the admin set, refreshing the
// cache first when it has expired.
func (d *Directory) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	set, err := d.current(ctx)
	if err != nil {
		return false, err
	}
	_, ok := set[userID]
	return ok, nil
}

// current returns a fresh-enough admin set, collapsing concurrent refreshes
// into one storage call.
func (d *Directory) current(ctx context.Context) (map[int64]struct{}, error) {
	d.mu.RLock()
	set, primed, fresh := d.set, d.primed, d.now().Before(d.expiresAt)
	d.mu.RUnlock()
	if primed && fresh {
		return set, nil
	}

	refreshed, err, _ := d.group.Do("refresh", func() (interface{}, error) {
		// Re-check under the flight: a caller that queued behind the
		// winning refresh finds the cache already fresh.
		d.mu.RLock()
		cur, curPrimed, curFresh := d.set, d.primed, d.now().Before(d.expiresAt)
		d.mu.RUnlock()
		if curPrimed && curFresh {
			return cur, nil
		}
		return d.refresh(ctx)
	})
	if err != nil {
		d.mu.RLock()
		stale, stalePrimed := d.set, d.primed
		d.mu.RUnlock()
		if stalePrimed {
			logger.SVCAdmins.Warn("serving stale admin set",
				slog.String("event", "refresh"),
				slog.String("cache", "stale"),
				slog.Int("admins", len(stale)),
				slog.String("err", err.Error()),
			)
			return stale, nil
		}
		return nil, err
	}
	return refreshed.(map[int64]struct{}), nil
}

func (d *Directory) refresh(ctx context.Context) (map[int64]struct{}, error) {
	start := d.now()
	ids, err := d.fetch(ctx)
	if err != nil {
		return nil, err
	}

	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	d.mu.Lock()
	d.set = set
	d.primed = true
	d.expiresAt = d.now().Add(d.ttl)
	d.mu.Unlock()

	logger.SVCAdmins.Info("admin set refreshed",
		slog.String("event", "refresh"),
		slog.String("cache", "miss"),
		slog.Int("admins", len(set)),
		slog.Int64("ttl_ms", d.ttl.Milliseconds()),
		slog.Duration("duration", logger.RoundMS(d.now().Sub(start))),
	)
	return set, nil
}
