package vote

import (
	"context"
	"sync"
)

// PollKey identifies one poll message.
type PollKey struct {
	ChatID    int64
	MessageID int64
}

// LoaderFunc fetches the persisted vote history of a poll.
type LoaderFunc func(ctx context.Context, key PollKey) ([]Record, error)

// Sessions serializes vote processing per poll. Each poll owns a mutex and a
// lazily loaded ledger; two presses on the same poll never interleave, while
// different polls proceed concurrently.
type Sessions struct {
	mu    sync.Mutex
	polls map[PollKey]*pollSession
	load  LoaderFunc
}

type pollSession struct {
	mu     sync.Mutex
	ledger *Ledger
}

// NewSessions builds a session map. load may be nil, in which case unseen
// polls start from an empty ledger.
func NewSessions(load LoaderFunc) *Sessions {
	return &Sessions{
		polls: make(map[PollKey]*pollSession),
		load:  load,
	}
}

// Track registers a freshly published poll with an empty ledger so the first
// press skips the history fetch.
func (s *Sessions) Track(key PollKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.polls[key]; !ok {
		s.polls[key] = &pollSession{ledger: BuildLedger(nil)}
	}
}

// With runs fn while holding the poll's lock, with the ledger loaded. All
// reads and writes of the ledger, including redraws driven by it, belong
// inside fn. A failed history load is returned and left unloaded so a later
// press retries it.
func (s *Sessions) With(ctx context.Context, key PollKey, fn func(*Ledger) error) error {
	s.mu.Lock()
	p, ok := s.polls[key]
	if !ok {
		p = &pollSession{}
		s.polls[key] = p
	}
	s.mu.Unlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ledger == nil {
		var history []Record
		if s.load != nil {
			var err error
			history, err = s.load(ctx, key)
			if err != nil {
				return err
			}
		}
		p.ledger = BuildLedger(history)
	}
	return fn(p.ledger)
}
