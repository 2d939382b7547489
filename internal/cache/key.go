package cache

import "strings"

// Key identifies a cached entity: an entity kind, an identifier, and an
// optional sub-filter for scoped collections (for example a transaction kind).
// Keys scope both storage and in-flight fetch deduplication.
type Key struct {
	// Kind names the entity type, e.g. "character" or "forging-queue".
	Kind string
	// ID is the entity identifier. May be empty for singleton collections.
	ID string
	// Filter narrows a collection key, e.g. a page number or list kind.
	Filter string
}

// NewKey creates a key from an entity kind and identifier.
func NewKey(kind, id string) Key {
	return Key{Kind: strings.TrimSpace(kind), ID: strings.TrimSpace(id)}
}

// WithFilter returns a copy of the key carrying the given sub-filter.
func (k Key) WithFilter(filter string) Key {
	k.Filter = strings.TrimSpace(filter)
	return k
}

// String returns the canonical form used to index the store and to scope
// singleflight groups. Two keys with equal String() are the same cache slot.
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(k.Kind)
	if k.ID != "" {
		b.WriteByte(':')
		b.WriteString(k.ID)
	}
	if k.Filter != "" {
		b.WriteByte('?')
		b.WriteString(k.Filter)
	}
	return b.String()
}

// IsZero reports whether the key is empty.
func (k Key) IsZero() bool {
	return k.Kind == "" && k.ID == "" && k.Filter == ""
}
