// Package ledger is the single source of truth for the application's
// view of entries. It mediates between the API surface and the
// persistent store, owning an in-memory cache that is only ever updated
// after a store write has been confirmed.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"tally/internal/core"
)

var (
	// ErrNotLoaded means AddEntry was called before Load completed.
	ErrNotLoaded = errors.New("ledger not loaded yet")

	// ErrStorage wraps a failed store operation. The cache is left
	// untouched and the caller may retry.
	ErrStorage = errors.New("storage failure")
)

// Order selects the presentation order of Entries snapshots.
type Order int

const (
	// NewestFirst orders by date descending, id descending as tiebreak.
	NewestFirst Order = iota
	// OldestFirst is the reverse.
	OldestFirst
)

// Service holds the cached ledger. All operations are serialized by a
// single mutex: Load must complete before any AddEntry is accepted, and
// the cache is never mutated until the store write confirms success.
type Service struct {
	store     Store
	gate      Gate
	publisher Publisher
	now       func() time.Time

	mu       sync.Mutex
	entries  []core.Entry
	loaded   bool
	revision uint64
	subs     map[int]chan struct{}
	nextSub  int
}

// NewService builds a ledger service with injected dependencies. The
// gate and publisher may be nil (ungated service, no event pipeline).
func NewService(store Store, gate Gate, publisher Publisher) *Service {
	return &Service{
		store:     store,
		gate:      gate,
		publisher: publisher,
		now:       time.Now,
		subs:      make(map[int]chan struct{}),
	}
}

// Load replaces the cache wholesale from the store. It must run to
// completion before the first AddEntry; on failure the cache stays
// invalid and AddEntry keeps refusing.
func (s *Service) Load(ctx context.Context) error {
	entries, err := s.store.ListEntries(ctx)
	if err != nil {
		return fmt.Errorf("%w: load entries: %v", ErrStorage, err)
	}

	s.mu.Lock()
	s.entries = entries
	s.loaded = true
	s.revision++
	s.mu.Unlock()

	slog.InfoContext(ctx, "Ledger loaded from store", "entries", len(entries))
	return nil
}

// AddEntry validates the draft, persists it and appends the confirmed
// entry to the cache. Order of failure modes: auth, validation (store
// untouched), storage (cache untouched). Subscribers are notified only
// after a successful write.
func (s *Service) AddEntry(ctx context.Context, draft core.Draft) (core.Entry, error) {
	if s.gate != nil {
		if err := s.gate.RequireAuth(ctx); err != nil {
			return core.Entry{}, err
		}
	}

	entry, err := draft.Validate(s.now())
	if err != nil {
		return core.Entry{}, err
	}

	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return core.Entry{}, ErrNotLoaded
	}

	saved, err := s.store.InsertEntry(ctx, entry)
	if err != nil {
		s.mu.Unlock()
		return core.Entry{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	s.entries = append(s.entries, saved)
	s.revision++
	s.notifyLocked()
	s.mu.Unlock()

	// Best-effort event publish; the entry is already committed.
	if s.publisher != nil {
		if err := s.publisher.PublishEntryCreated(ctx, saved); err != nil {
			slog.ErrorContext(ctx, "Failed to publish entry event",
				"id", saved.ID, "error", err)
		}
	}

	return saved, nil
}

// Entries returns a snapshot copy of the cache in the requested order.
// The snapshot reflects every AddEntry that has completed successfully.
func (s *Service) Entries(order Order) []core.Entry {
	s.mu.Lock()
	snapshot := make([]core.Entry, len(s.entries))
	copy(snapshot, s.entries)
	s.mu.Unlock()

	sort.SliceStable(snapshot, func(i, j int) bool {
		a, b := snapshot[i], snapshot[j]
		if order == OldestFirst {
			a, b = b, a
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.ID > b.ID
	})
	return snapshot
}

// Revision increases on every cache change, letting pollers detect
// staleness cheaply.
func (s *Service) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Subscribe registers for cache-change signals. The channel carries at
// most one pending notification; slow consumers coalesce. The returned
// func unsubscribes.
func (s *Service) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Service) notifyLocked() {
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
