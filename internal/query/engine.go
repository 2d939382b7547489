// Package query wraps remote reads over the entity store: it deduplicates
// concurrent fetches per key, serves cached values while a refresh is in
// flight, and exposes loading, error, and data states through subscriptions.
package query

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/arcanumlarp/arcanum-go/internal/cache"
)

// errSuperseded marks a fetch whose result was dropped because a mutation
// began on the key while the fetch was in flight.
var errSuperseded = errors.New("fetch superseded by mutation")

// Engine coordinates fetches against a shared store. It is safe for
// concurrent use.
type Engine struct {
	store *cache.Store
	sf    singleflight.Group

	mu       sync.Mutex
	gens     map[string]uint64
	inflight map[string]int

	logf func(format string, args ...any)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogf installs a debug log hook. The zero hook discards output.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(e *Engine) {
		if logf != nil {
			e.logf = logf
		}
	}
}

// NewEngine creates a query engine over the given store.
func NewEngine(store *cache.Store, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		gens:     map[string]uint64{},
		inflight: map[string]int{},
		logf:     func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the underlying entity store.
func (e *Engine) Store() *cache.Store {
	return e.store
}

// Invalidate marks a key stale, prompting subscribed readers to reconcile.
func (e *Engine) Invalidate(key cache.Key) {
	e.store.Invalidate(key)
}

// CancelRefetch discards any in-flight fetch for the key. The slow response
// still completes but its result is never written to the store, so it cannot
// clobber a fresher optimistic value.
func (e *Engine) CancelRefetch(key cache.Key) {
	k := key.String()
	e.mu.Lock()
	e.gens[k]++
	e.mu.Unlock()
	e.sf.Forget(k)
}

func (e *Engine) generation(k string) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gens[k]
}

func (e *Engine) trackFlight(k string, delta int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inflight[k] += delta
	if e.inflight[k] <= 0 {
		delete(e.inflight, k)
	}
}

// hasFlight reports whether a fetch is currently executing for the key.
func (e *Engine) hasFlight(k string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inflight[k] > 0
}

// fetch runs the fetcher for a key, deduplicating concurrent callers through
// singleflight. Exactly one transport call is made per key per flight; every
// caller receives the shared result.
func (e *Engine) fetch(ctx context.Context, key cache.Key, fetcher func(context.Context) (any, error)) (any, error) {
	k := key.String()
	value, err, _ := e.sf.Do(k, func() (any, error) {
		start := e.generation(k)
		e.trackFlight(k, 1)
		defer e.trackFlight(k, -1)
		e.store.MarkFetching(key, true)
		value, err := fetcher(ctx)
		if e.generation(k) != start {
			e.logf("query: dropping superseded fetch for %s", k)
			e.store.MarkFetching(key, false)
			return nil, errSuperseded
		}
		e.store.Put(key, value, err)
		return value, err
	})
	return value, err
}

// fresh reports whether the cached entry for key can be served without a
// refetch under the given stale time.
func (e *Engine) fresh(key cache.Key, staleTime time.Duration) bool {
	entry, ok := e.store.Get(key)
	if !ok || entry.Value == nil || entry.Stale {
		return false
	}
	if staleTime <= 0 {
		return false
	}
	return e.store.Now().Sub(entry.FetchedAt) < staleTime
}
