package forge

import (
	"reflect"
	"testing"
	"time"
)

func queueFixture(now time.Time) []QueueEntry {
	collector := int64(1)
	return []QueueEntry{
		{ID: 101, Name: "Signal Lamp", CompletesAt: now.Add(-time.Minute), ReadyForCollectionBy: &collector},
		{ID: 102, Name: "Field Kit", CompletesAt: now.Add(10 * time.Minute)},
	}
}

func TestKeyIsPerCharacter(t *testing.T) {
	if got, want := Key(7).String(), "forging-queue:7"; got != want {
		t.Fatalf("key = %q, want %q", got, want)
	}
	if Key(7) == Key(8) {
		t.Fatal("expected distinct keys for distinct characters")
	}
}

func TestReady(t *testing.T) {
	now := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	queue := queueFixture(now)

	if !queue[0].Ready(now) {
		t.Fatal("expected past entry ready")
	}
	if queue[1].Ready(now) {
		t.Fatal("expected future entry not ready")
	}
	boundary := QueueEntry{CompletesAt: now}
	if !boundary.Ready(now) {
		t.Fatal("expected entry completing exactly now to be ready")
	}
}

func TestApplyCollectRemovesEntry(t *testing.T) {
	now := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	queue := queueFixture(now)

	out := ApplyCollect(queue, Collect{CharacterID: 1, EntryID: 101})
	if len(out) != 1 {
		t.Fatalf("queue = %d entries, want 1", len(out))
	}
	if out[0].ID != 102 {
		t.Fatalf("remaining entry id = %d, want 102", out[0].ID)
	}
	if len(queue) != 2 {
		t.Fatal("expected input queue untouched")
	}
}

func TestApplyCollectUnknownEntryIsNoOp(t *testing.T) {
	now := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	queue := queueFixture(now)

	out := ApplyCollect(queue, Collect{CharacterID: 1, EntryID: 999})
	if !reflect.DeepEqual(out, queue) {
		t.Fatal("expected unchanged queue for unknown entry id")
	}
}
