package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/arcanumlarp/arcanum-go/internal/cache"
	apperrors "github.com/arcanumlarp/arcanum-go/internal/platform/errors"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestSubscribeFetchesAndServesData(t *testing.T) {
	eng := NewEngine(cache.NewStore())
	key := cache.NewKey("character", "1")

	sub := Subscribe(context.Background(), eng, key, func(context.Context) (string, error) {
		return "aria", nil
	}, Options{Enabled: true})
	defer sub.Close()

	waitFor(t, func() bool { _, ok := sub.Data(); return ok })
	value, _ := sub.Data()
	if value != "aria" {
		t.Fatalf("data = %q, want %q", value, "aria")
	}
	if sub.IsLoading() {
		t.Fatal("expected loading to end after fetch")
	}
}

func TestConcurrentReadsShareOneTransportCall(t *testing.T) {
	store := NewEngine(cache.NewStore())
	key := cache.NewKey("character", "1")
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	var startOnce sync.Once

	fetch := func(context.Context) (string, error) {
		calls.Add(1)
		startOnce.Do(func() { close(started) })
		<-release
		return "aria", nil
	}

	// Seed so subscriptions do not auto-fetch; only the forced refetches race.
	store.Store().Put(key, "seed", nil)
	opts := Options{Enabled: true, StaleTime: time.Hour}
	first := Subscribe(context.Background(), store, key, fetch, opts)
	defer first.Close()
	second := Subscribe(context.Background(), store, key, fetch, opts)
	defer second.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); _ = first.Refetch(context.Background()) }()
	<-started
	go func() { defer wg.Done(); _ = second.Refetch(context.Background()) }()
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("transport calls = %d, want 1 (deduplicated)", got)
	}
}

func TestStaleTimeSkipsRefetch(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := &now
	eng := NewEngine(cache.NewStoreWithClock(func() time.Time { return *clock }))
	key := cache.NewKey("character", "1")
	var calls atomic.Int32
	fetch := func(context.Context) (string, error) {
		calls.Add(1)
		return "fresh", nil
	}

	eng.Store().Put(key, "cached", nil)
	opts := Options{Enabled: true, StaleTime: time.Minute}

	sub := Subscribe(context.Background(), eng, key, fetch, opts)
	value, err := sub.Wait(context.Background())
	sub.Close()
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if value != "cached" {
		t.Fatalf("data = %q, want cached value served without fetch", value)
	}
	if calls.Load() != 0 {
		t.Fatalf("transport calls = %d, want 0 within stale time", calls.Load())
	}

	// Past the stale window the same read triggers a refetch.
	now = now.Add(2 * time.Minute)
	sub = Subscribe(context.Background(), eng, key, fetch, opts)
	value, err = sub.Wait(context.Background())
	sub.Close()
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if value != "fresh" {
		t.Fatalf("data = %q, want %q", value, "fresh")
	}
	if calls.Load() == 0 {
		t.Fatal("expected a refetch after the stale window passed")
	}
}

func TestDisabledSubscriptionNeverFetches(t *testing.T) {
	eng := NewEngine(cache.NewStore())
	key := cache.NewKey("character", "")
	var calls atomic.Int32

	sub := Subscribe(context.Background(), eng, key, func(context.Context) (string, error) {
		calls.Add(1)
		return "never", nil
	}, Options{Enabled: false})
	defer sub.Close()

	time.Sleep(20 * time.Millisecond)
	if calls.Load() != 0 {
		t.Fatalf("transport calls = %d, want 0 while disabled", calls.Load())
	}
	if _, ok := sub.Data(); ok {
		t.Fatal("expected no data while disabled")
	}
	if sub.IsLoading() {
		t.Fatal("expected not loading while disabled")
	}
	if err := sub.Refetch(context.Background()); !errors.Is(err, apperrors.New(apperrors.CodeQueryDisabled, "")) {
		t.Fatalf("refetch err = %v, want %s", err, apperrors.CodeQueryDisabled)
	}
}

func TestKeepPreviousDataAcrossPageChange(t *testing.T) {
	eng := NewEngine(cache.NewStore())
	pageKey := func(page string) cache.Key {
		return cache.NewKey("logs", "").WithFilter("page=" + page)
	}
	release := make(chan struct{})

	eng.Store().Put(pageKey("1"), "page-one", nil)
	sub := Subscribe(context.Background(), eng, pageKey("1"), func(context.Context) (string, error) {
		return "page-one", nil
	}, Options{Enabled: true, KeepPreviousData: true, StaleTime: time.Hour})
	defer sub.Close()

	sub.SetKey(pageKey("2"), func(context.Context) (string, error) {
		<-release
		return "page-two", nil
	})

	value, ok := sub.Data()
	if !ok || value != "page-one" {
		t.Fatalf("data = %q, want previous page shown while new page loads", value)
	}
	if !sub.IsPlaceholderData() {
		t.Fatal("expected placeholder flag while showing previous page")
	}
	if sub.IsLoading() {
		t.Fatal("expected not loading while previous data is shown")
	}

	close(release)
	waitFor(t, func() bool {
		value, ok := sub.Data()
		return ok && value == "page-two"
	})
	if sub.IsPlaceholderData() {
		t.Fatal("expected placeholder flag cleared once the new page resolved")
	}
}

func TestPollingRefetchesUntilClosed(t *testing.T) {
	eng := NewEngine(cache.NewStore())
	key := cache.NewKey("forging-queue", "1")
	var calls atomic.Int32

	sub := Subscribe(context.Background(), eng, key, func(context.Context) (string, error) {
		calls.Add(1)
		return "queue", nil
	}, Options{Enabled: true, RefetchInterval: 10 * time.Millisecond})

	waitFor(t, func() bool { return calls.Load() >= 3 })
	sub.Close()
	settled := calls.Load()
	time.Sleep(50 * time.Millisecond)
	if calls.Load() != settled {
		t.Fatalf("transport calls = %d after close, want %d (polling stopped)", calls.Load(), settled)
	}
}

func TestInvalidateTriggersSubscriberRefetch(t *testing.T) {
	eng := NewEngine(cache.NewStore())
	key := cache.NewKey("character", "1")
	var calls atomic.Int32

	eng.Store().Put(key, "old", nil)
	sub := Subscribe(context.Background(), eng, key, func(context.Context) (string, error) {
		calls.Add(1)
		return "reconciled", nil
	}, Options{Enabled: true, StaleTime: time.Hour})
	defer sub.Close()

	eng.Invalidate(key)
	waitFor(t, func() bool {
		value, ok := sub.Data()
		return ok && value == "reconciled"
	})
	if calls.Load() != 1 {
		t.Fatalf("transport calls = %d, want 1", calls.Load())
	}
}

func TestClosedSubscriptionKeepsLiveFetchFlagged(t *testing.T) {
	store := cache.NewStore()
	eng := NewEngine(store)
	key := cache.NewKey("character", "1")

	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context) (string, error) {
		close(started)
		<-release
		return "sheet", nil
	}

	live := Subscribe(context.Background(), eng, key, fetch, Options{Enabled: true})
	defer live.Close()
	<-started

	// A second subscriber closed mid-flight must not clear the fetching
	// flag the live subscriber's fetch still owns.
	other := Subscribe(context.Background(), eng, key, fetch, Options{Enabled: true})
	other.Close()
	other.refetch()

	if !live.IsFetching() {
		t.Fatal("expected live subscriber's fetch still flagged in flight")
	}

	close(release)
	waitFor(t, func() bool { return !live.IsFetching() })
	if value, ok := live.Data(); !ok || value != "sheet" {
		t.Fatalf("data = %q, %v, want fetched sheet", value, ok)
	}
}

func TestCancelRefetchDropsStaleResult(t *testing.T) {
	eng := NewEngine(cache.NewStore())
	key := cache.NewKey("character", "1")
	started := make(chan struct{})
	release := make(chan struct{})

	eng.Store().Put(key, "optimistic", nil)
	sub := Subscribe(context.Background(), eng, key, func(context.Context) (string, error) {
		close(started)
		<-release
		return "stale-from-server", nil
	}, Options{Enabled: true, StaleTime: time.Hour})
	defer sub.Close()

	done := make(chan error, 1)
	go func() { done <- sub.Refetch(context.Background()) }()
	<-started
	eng.CancelRefetch(key)
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("refetch: %v", err)
	}

	entry, _ := eng.Store().Get(key)
	if entry.Value != "optimistic" {
		t.Fatalf("value = %v, want optimistic value preserved", entry.Value)
	}
	if entry.Fetching {
		t.Fatal("expected fetching flag cleared after cancelled fetch settled")
	}
}

func TestErrSurfacedToCaller(t *testing.T) {
	eng := NewEngine(cache.NewStore())
	key := cache.NewKey("character", "1")
	boom := apperrors.New(apperrors.CodeServerRejected, "boom")

	sub := Subscribe(context.Background(), eng, key, func(context.Context) (string, error) {
		return "", boom
	}, Options{Enabled: true})
	defer sub.Close()

	waitFor(t, func() bool { return sub.Err() != nil })
	if !errors.Is(sub.Err(), boom) {
		t.Fatalf("err = %v, want %v", sub.Err(), boom)
	}
}
