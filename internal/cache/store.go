// Package cache implements the keyed entity store shared by the query layer
// and the optimistic mutation engine. It holds the latest known value per
// key, tracks staleness, and notifies subscribers on every change.
//
// The store is session-scoped: entries are created on first subscription or
// first mutation touching a key and live until explicitly evicted. There is
// no bounded eviction policy.
package cache

import (
	"strings"
	"sync"
	"time"
)

// EventKind classifies a store notification.
type EventKind string

const (
	// EventUpdated signals that the cached value for a key changed.
	EventUpdated EventKind = "updated"
	// EventInvalidated signals that a key was marked stale and active
	// subscribers should refetch.
	EventInvalidated EventKind = "invalidated"
	// EventEvicted signals that a key was removed from the store.
	EventEvicted EventKind = "evicted"
)

// Event describes a change to a single key.
type Event struct {
	Key  Key
	Kind EventKind
}

// Entry holds the last known state for one key.
type Entry struct {
	// Value is the last known entity value. Nil when nothing has been
	// fetched or optimistically written yet.
	Value any
	// FetchedAt is when Value was last confirmed by a fetch. Optimistic
	// writes do not touch it.
	FetchedAt time.Time
	// Fetching reports whether a fetch for this key is in flight.
	Fetching bool
	// Stale marks the entry as needing a reconciling refetch. The value
	// stays readable while stale (stale-while-revalidate).
	Stale bool
	// Err is the last fetch error, cleared on the next successful fetch.
	Err error
}

// Store is the keyed entity cache. All operations are atomic with respect to
// each other; subscriber callbacks run outside the lock.
type Store struct {
	mu      sync.Mutex
	entries map[string]Entry
	subs    map[string]map[int]func(Event)
	nextSub int
	clock   func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

// NewStoreWithClock creates a store with an injected clock for tests.
func NewStoreWithClock(clock func() time.Time) *Store {
	if clock == nil {
		clock = time.Now
	}
	return &Store{
		entries: map[string]Entry{},
		subs:    map[string]map[int]func(Event){},
		clock:   clock,
	}
}

// Now returns the store's current time.
func (s *Store) Now() time.Time {
	return s.clock()
}

// Get returns the entry for a key and whether it exists.
func (s *Store) Get(key Key) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key.String()]
	return e, ok
}

// Set applies updater to the current cached value and stores the result.
// The updater receives nil when no value is cached; returning nil skips the
// write entirely, which is how optimistic updates no-op when there is no base
// value to update. Set reports whether a write happened.
func (s *Store) Set(key Key, updater func(old any) any) bool {
	s.mu.Lock()
	k := key.String()
	entry := s.entries[k]
	next := updater(entry.Value)
	if next == nil {
		s.mu.Unlock()
		return false
	}
	entry.Value = next
	s.entries[k] = entry
	notify := s.pending(k, Event{Key: key, Kind: EventUpdated})
	s.mu.Unlock()
	run(notify)
	return true
}

// Put records the outcome of a fetch: on success the value replaces the
// cached one and the entry becomes fresh; on failure the previous value is
// kept and only the error is recorded.
func (s *Store) Put(key Key, value any, err error) {
	s.mu.Lock()
	k := key.String()
	entry := s.entries[k]
	entry.Fetching = false
	entry.Err = err
	if err == nil {
		entry.Value = value
		entry.FetchedAt = s.clock()
		entry.Stale = false
	}
	s.entries[k] = entry
	notify := s.pending(k, Event{Key: key, Kind: EventUpdated})
	s.mu.Unlock()
	run(notify)
}

// MarkFetching flips the in-flight flag for a key, creating the entry when
// needed so first subscribers observe a loading state.
func (s *Store) MarkFetching(key Key, fetching bool) {
	s.mu.Lock()
	k := key.String()
	entry := s.entries[k]
	entry.Fetching = fetching
	s.entries[k] = entry
	notify := s.pending(k, Event{Key: key, Kind: EventUpdated})
	s.mu.Unlock()
	run(notify)
}

// Invalidate marks the entry stale without clearing its value and tells
// active subscribers to refetch. Invalidating an unknown key still notifies,
// so a subscriber whose first fetch was cancelled recovers.
func (s *Store) Invalidate(key Key) {
	s.mu.Lock()
	k := key.String()
	if entry, ok := s.entries[k]; ok {
		entry.Stale = true
		s.entries[k] = entry
	}
	notify := s.pending(k, Event{Key: key, Kind: EventInvalidated})
	s.mu.Unlock()
	run(notify)
}

// Evict removes a key outright.
func (s *Store) Evict(key Key) {
	s.mu.Lock()
	k := key.String()
	delete(s.entries, k)
	notify := s.pending(k, Event{Key: key, Kind: EventEvicted})
	s.mu.Unlock()
	run(notify)
}

// EvictKind removes every entry of the given entity kind. Used on session
// teardown to drop per-character state.
func (s *Store) EvictKind(kind string) {
	s.mu.Lock()
	var notify []func()
	for k := range s.entries {
		key := parseKey(k)
		if key.Kind != kind {
			continue
		}
		delete(s.entries, k)
		notify = append(notify, s.pending(k, Event{Key: key, Kind: EventEvicted})...)
	}
	s.mu.Unlock()
	run(notify)
}

// Subscribe registers a callback for changes to one key and returns an
// unsubscribe function. Callbacks run synchronously after the triggering
// operation commits and must not block.
func (s *Store) Subscribe(key Key, fn func(Event)) func() {
	s.mu.Lock()
	k := key.String()
	if s.subs[k] == nil {
		s.subs[k] = map[int]func(Event){}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[k][id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if subs, ok := s.subs[k]; ok {
			delete(subs, id)
			if len(subs) == 0 {
				delete(s.subs, k)
			}
		}
	}
}

// pending collects subscriber invocations for a key while the lock is held.
func (s *Store) pending(k string, evt Event) []func() {
	subs := s.subs[k]
	if len(subs) == 0 {
		return nil
	}
	out := make([]func(), 0, len(subs))
	for _, fn := range subs {
		fn := fn
		out = append(out, func() { fn(evt) })
	}
	return out
}

func run(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}

// parseKey reverses Key.String for the store's own bookkeeping.
func parseKey(s string) Key {
	var k Key
	rest := s
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		k.Filter = rest[i+1:]
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, ':'); i >= 0 {
		k.Kind = rest[:i]
		k.ID = rest[i+1:]
	} else {
		k.Kind = rest
	}
	return k
}
