// Package timeouts defines shared timeout constants used across the client.
// Centralizing these values prevents drift between call sites and makes the
// durations discoverable.
package timeouts

import "time"

// HTTPRequest caps the time allowed for a single REST call to the backend.
// It guards the HTTP client configured by the CLI, not the mutation engine.
const HTTPRequest = 30 * time.Second

// ForgeQueuePoll is the interval at which a subscribed forging queue is
// re-read while mounted. Completion is time-driven server-side and is not
// push-notified.
const ForgeQueuePoll = 5 * time.Second

// CharacterStale is how long a fetched character is served without a refetch.
const CharacterStale = 30 * time.Second

// CatalogStale is how long list reads (shop, logs, transactions) stay fresh.
const CatalogStale = time.Minute
