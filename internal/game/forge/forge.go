// Package forge models the crafting queue. Completion is time-driven on the
// server and not push-notified, so the queue is cached per character under
// its own key and polled while a sheet is mounted.
package forge

import (
	"strconv"
	"time"

	"github.com/arcanumlarp/arcanum-go/internal/cache"
)

// Kind is the cache entity kind for forging queues.
const Kind = "forging-queue"

// Key returns the cache key for one character's forging queue.
func Key(characterID int64) cache.Key {
	return cache.NewKey(Kind, strconv.FormatInt(characterID, 10))
}

// QueueEntry is one item being forged.
type QueueEntry struct {
	ID int64 `json:"id"`
	// Name labels the item under construction.
	Name string `json:"name"`
	// CompletesAt is when the server considers the entry finished.
	CompletesAt time.Time `json:"completes_at"`
	// ReadyForCollectionBy holds the actor allowed to collect, nil while
	// the entry is still forging.
	ReadyForCollectionBy *int64 `json:"ready_for_collection_by"`
}

// Ready reports whether the entry can be collected at the given time.
func (e QueueEntry) Ready(now time.Time) bool {
	return !e.CompletesAt.After(now)
}

// Collect removes a finished entry from the queue.
type Collect struct {
	CharacterID int64
	EntryID     int64
}

// ApplyCollect removes the entry from the queue value. The character cache
// is not touched here; the engine invalidates it separately so the forged
// item shows up after the reconciling refetch.
func ApplyCollect(queue []QueueEntry, v Collect) []QueueEntry {
	idx := -1
	for i := range queue {
		if queue[i].ID == v.EntryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return queue
	}
	out := make([]QueueEntry, 0, len(queue)-1)
	out = append(out, queue[:idx]...)
	out = append(out, queue[idx+1:]...)
	return out
}
