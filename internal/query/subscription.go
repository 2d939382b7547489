package query

import (
	"context"
	"sync"
	"time"

	"github.com/arcanumlarp/arcanum-go/internal/cache"
	apperrors "github.com/arcanumlarp/arcanum-go/internal/platform/errors"
)

// Fetcher loads the authoritative value for one key from the backend.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Options control subscription behavior.
type Options struct {
	// StaleTime is how long a fetched value is served without refetching.
	// Zero means every subscription triggers a fetch.
	StaleTime time.Duration
	// RefetchInterval polls the key while the subscription is open. Zero
	// disables polling.
	RefetchInterval time.Duration
	// KeepPreviousData keeps the previous key's data visible after SetKey
	// until the new key resolves, instead of dropping to a loading state.
	KeepPreviousData bool
	// Enabled gates fetching. A disabled subscription never fetches and
	// reports no data and no error.
	Enabled bool
}

// Subscription is a live read handle over one cache key. It mirrors the
// store's entry and refetches on invalidation, on demand, and on a poll
// interval when configured.
type Subscription[T any] struct {
	eng  *Engine
	ctx  context.Context
	opts Options

	mu       sync.Mutex
	key      cache.Key
	fetchAny func(context.Context) (any, error)
	prev     any
	hasPrev  bool
	closed   bool
	unsub    func()

	changes  chan struct{}
	pollStop chan struct{}
}

// Subscribe opens a subscription on key. When enabled and the cached entry is
// missing or stale, a background fetch starts immediately; the caller can
// watch Changes or block on Wait. Close releases the subscription and stops
// polling.
func Subscribe[T any](ctx context.Context, eng *Engine, key cache.Key, fetch Fetcher[T], opts Options) *Subscription[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	s := &Subscription[T]{
		eng:      eng,
		ctx:      ctx,
		opts:     opts,
		key:      key,
		fetchAny: adapt(fetch),
		changes:  make(chan struct{}, 1),
		pollStop: make(chan struct{}),
	}
	s.unsub = eng.store.Subscribe(key, s.onEvent)

	if opts.Enabled && !eng.fresh(key, opts.StaleTime) {
		eng.store.MarkFetching(key, true)
		go s.refetch()
	}
	if opts.Enabled && opts.RefetchInterval > 0 {
		go s.poll()
	}
	return s
}

func adapt[T any](fetch Fetcher[T]) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return value, nil
	}
}

// Data returns the current value and whether one is available. With
// KeepPreviousData, the previous key's value is returned while the current
// key is still resolving.
func (s *Subscription[T]) Data() (T, bool) {
	var zero T
	s.mu.Lock()
	key, prev, hasPrev := s.key, s.prev, s.hasPrev
	closed, enabled := s.closed, s.opts.Enabled
	keepPrev := s.opts.KeepPreviousData
	s.mu.Unlock()

	if closed || !enabled {
		return zero, false
	}
	if entry, ok := s.eng.store.Get(key); ok && entry.Value != nil {
		if value, ok := entry.Value.(T); ok {
			return value, true
		}
		return zero, false
	}
	if keepPrev && hasPrev {
		if value, ok := prev.(T); ok {
			return value, true
		}
	}
	return zero, false
}

// IsPlaceholderData reports whether Data currently shows a previous key's
// value rather than data for the exact current key.
func (s *Subscription[T]) IsPlaceholderData() bool {
	s.mu.Lock()
	key, hasPrev := s.key, s.hasPrev
	keepPrev := s.opts.KeepPreviousData
	s.mu.Unlock()

	if !keepPrev || !hasPrev {
		return false
	}
	entry, ok := s.eng.store.Get(key)
	return !ok || entry.Value == nil
}

// IsLoading reports whether the subscription has no data at all yet and a
// first fetch is pending. Disabled subscriptions are never loading.
func (s *Subscription[T]) IsLoading() bool {
	s.mu.Lock()
	enabled, closed := s.opts.Enabled, s.closed
	s.mu.Unlock()
	if !enabled || closed {
		return false
	}
	if _, ok := s.Data(); ok {
		return false
	}
	return s.IsFetching()
}

// IsFetching reports whether any fetch for the current key is in flight.
func (s *Subscription[T]) IsFetching() bool {
	s.mu.Lock()
	key := s.key
	s.mu.Unlock()
	entry, ok := s.eng.store.Get(key)
	return ok && entry.Fetching
}

// Err returns the last fetch error for the current key, if any.
func (s *Subscription[T]) Err() error {
	s.mu.Lock()
	key := s.key
	s.mu.Unlock()
	entry, ok := s.eng.store.Get(key)
	if !ok {
		return nil
	}
	return entry.Err
}

// Changes delivers a coalesced signal whenever the underlying entry changes.
func (s *Subscription[T]) Changes() <-chan struct{} {
	return s.changes
}

// Refetch forces a fetch for the current key regardless of staleness and
// blocks until it settles.
func (s *Subscription[T]) Refetch(ctx context.Context) error {
	s.mu.Lock()
	key, fetch := s.key, s.fetchAny
	enabled, closed := s.opts.Enabled, s.closed
	s.mu.Unlock()
	if closed {
		return apperrors.New(apperrors.CodeQueryClosed, "subscription is closed")
	}
	if !enabled {
		return apperrors.New(apperrors.CodeQueryDisabled, "subscription is disabled")
	}
	_, err := s.eng.fetch(ctx, key, fetch)
	if err == errSuperseded {
		return nil
	}
	return err
}

// Wait blocks until the current key holds fresh-enough data and returns it.
// Cached data within StaleTime is returned without a transport call.
func (s *Subscription[T]) Wait(ctx context.Context) (T, error) {
	var zero T
	s.mu.Lock()
	key, fetch := s.key, s.fetchAny
	staleTime := s.opts.StaleTime
	enabled, closed := s.opts.Enabled, s.closed
	s.mu.Unlock()
	if closed {
		return zero, apperrors.New(apperrors.CodeQueryClosed, "subscription is closed")
	}
	if !enabled {
		return zero, apperrors.New(apperrors.CodeQueryDisabled, "subscription is disabled")
	}
	if !s.eng.fresh(key, staleTime) {
		if _, err := s.eng.fetch(ctx, key, fetch); err != nil && err != errSuperseded {
			return zero, err
		}
	}
	value, _ := s.Data()
	return value, nil
}

// SetKey re-points the subscription at a new key, typically a new page of a
// paginated read. With KeepPreviousData the old key's value stays visible as
// placeholder data until the new key resolves.
func (s *Subscription[T]) SetKey(key cache.Key, fetch Fetcher[T]) {
	s.mu.Lock()
	if s.closed || key.String() == s.key.String() {
		s.mu.Unlock()
		return
	}
	if s.opts.KeepPreviousData {
		if entry, ok := s.eng.store.Get(s.key); ok && entry.Value != nil {
			s.prev = entry.Value
			s.hasPrev = true
		}
	}
	oldUnsub := s.unsub
	s.key = key
	s.fetchAny = adapt(fetch)
	s.unsub = s.eng.store.Subscribe(key, s.onEvent)
	enabled := s.opts.Enabled
	staleTime := s.opts.StaleTime
	s.mu.Unlock()

	oldUnsub()
	s.notify()
	if enabled && !s.eng.fresh(key, staleTime) {
		s.eng.store.MarkFetching(key, true)
		go s.refetch()
	}
}

// Close releases the subscription. Poll loops stop and no further fetches
// are triggered on its behalf.
func (s *Subscription[T]) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	unsub := s.unsub
	close(s.pollStop)
	s.mu.Unlock()
	unsub()
}

func (s *Subscription[T]) onEvent(evt cache.Event) {
	s.mu.Lock()
	enabled, closed := s.opts.Enabled, s.closed
	s.mu.Unlock()

	if evt.Kind == cache.EventInvalidated && enabled && !closed {
		go s.refetch()
	}
	s.notify()
}

func (s *Subscription[T]) refetch() {
	s.mu.Lock()
	key, fetch := s.key, s.fetchAny
	closed := s.closed
	ctx := s.ctx
	s.mu.Unlock()
	if closed {
		// Undo the flag set at subscribe time, but only when no other
		// subscriber's fetch actually owns it; that fetch settles the flag
		// through its own Put.
		if !s.eng.hasFlight(key.String()) {
			s.eng.store.MarkFetching(key, false)
		}
		return
	}
	_, _ = s.eng.fetch(ctx, key, fetch)
}

func (s *Subscription[T]) poll() {
	ticker := time.NewTicker(s.opts.RefetchInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.pollStop:
			return
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.refetch()
		}
	}
}

func (s *Subscription[T]) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}
