// Package mutation implements the optimistic mutation engine: it applies a
// local state transition to the cached entity immediately, dispatches the
// remote call, and on completion either keeps the speculative value or rolls
// back to the pre-mutation snapshot. Every mutation settles with a
// reconciling invalidation so server truth wins eventually.
package mutation

import (
	"context"
	"fmt"

	"github.com/arcanumlarp/arcanum-go/internal/cache"
	apperrors "github.com/arcanumlarp/arcanum-go/internal/platform/errors"
	"github.com/arcanumlarp/arcanum-go/internal/query"
)

// Descriptor defines one mutation kind. Apply must be pure: no I/O, safe to
// discard if rolled back, and total over the shapes it may see. Remote
// performs the authoritative call.
type Descriptor[V any] struct {
	// Name labels the mutation for debug logging.
	Name string
	// CacheKey resolves the target key from the mutation variables.
	CacheKey func(vars V) cache.Key
	// Apply computes the speculative next value from the cached one. A nil
	// Apply skips the optimistic phase (server-authoritative mutations).
	Apply func(old any, vars V) (any, error)
	// Remote performs the server call.
	Remote func(ctx context.Context, vars V) error
	// AlsoInvalidate lists additional keys to reconcile on settle, e.g. the
	// character key after collecting from the forging queue.
	AlsoInvalidate func(vars V) []cache.Key
}

// Engine runs mutations against a shared store and query engine.
type Engine struct {
	store   *cache.Store
	queries *query.Engine
	logf    func(format string, args ...any)
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

// NewEngine creates a mutation engine bound to the query engine's store.
func NewEngine(queries *query.Engine, opts ...Option) *Engine {
	e := &Engine{
		store:   queries.Store(),
		queries: queries,
		logf:    func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes one mutation:
//
//  1. Cancel any in-flight refetch for the target key so a slow stale GET
//     cannot clobber the optimistic value.
//  2. Snapshot the cached value.
//  3. Apply the transition speculatively when a base value exists; a missing
//     base value or a failing Apply skips the optimistic phase without
//     failing the mutation.
//  4. Dispatch the remote call.
//  5. On failure restore the snapshot and return the error to the caller.
//  6. Always settle by invalidating the key (and any extra keys) to force a
//     reconciling refetch.
func Run[V any](ctx context.Context, e *Engine, d Descriptor[V], vars V) error {
	key := d.CacheKey(vars)
	e.queries.CancelRefetch(key)

	var previous any
	if entry, ok := e.store.Get(key); ok {
		previous = entry.Value
	}

	if previous == nil {
		e.logf("mutation %s: no cached value for %s, skipping optimistic write", d.Name, key.String())
	} else if d.Apply != nil {
		if next, ok := safeApply(d, previous, vars, e.logf); ok {
			e.store.Set(key, func(any) any { return next })
		}
	}

	err := d.Remote(ctx, vars)
	if err != nil {
		// Restore this mutation's own snapshot. An entry evicted while the
		// call was in flight, e.g. by session teardown, stays gone.
		e.store.Set(key, func(old any) any {
			if old == nil {
				return nil
			}
			return previous
		})
	}

	e.store.Invalidate(key)
	if d.AlsoInvalidate != nil {
		for _, extra := range d.AlsoInvalidate(vars) {
			e.store.Invalidate(extra)
		}
	}
	return err
}

// safeApply runs the transition, containing errors and panics: a transition
// that cannot handle the cached shape means "no optimistic effect", never a
// mutation failure.
func safeApply[V any](d Descriptor[V], old any, vars V, logf func(string, ...any)) (next any, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logf("mutation %s: apply panicked, skipping optimistic write: %v", d.Name, r)
			next, ok = nil, false
		}
	}()
	next, err := d.Apply(old, vars)
	if err != nil {
		logf("mutation %s: apply skipped: %v", d.Name, err)
		return nil, false
	}
	if next == nil {
		return nil, false
	}
	return next, true
}

// Typed adapts a typed transition rule to the engine's untyped Apply. A
// cached value of an unexpected dynamic type yields a shape-mismatch error,
// which the engine treats as a skipped optimistic write.
func Typed[T any, V any](apply func(value T, vars V) T) func(old any, vars V) (any, error) {
	return func(old any, vars V) (any, error) {
		value, ok := old.(T)
		if !ok {
			return nil, apperrors.WithMetadata(
				apperrors.CodeMutationShapeMismatch,
				fmt.Sprintf("cached value is %T, not the expected shape", old),
				map[string]string{"Got": fmt.Sprintf("%T", old)},
			)
		}
		return apply(value, vars), nil
	}
}
