// Package journal models the read-only activity log and transaction history.
// Both are paginated server-side; the client caches one page per key and
// keeps the previous page visible while the next one loads.
package journal

import (
	"fmt"
	"time"

	"github.com/arcanumlarp/arcanum-go/internal/cache"
)

// Cache kinds for the paginated journal reads.
const (
	LogsKind         = "logs"
	TransactionsKind = "transactions"
)

// LogEntry is one line of the account activity log.
type LogEntry struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Message   string    `json:"message"`
}

// Transaction is one credit or character-point movement.
type Transaction struct {
	ID          int64     `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Kind        string    `json:"kind"`
	Amount      int       `json:"amount"`
	CharacterID int64     `json:"character_id"`
	Description string    `json:"description"`
}

// Page is one page of a paginated read with its position metadata.
type Page[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// LogsKey returns the cache key for one page of the activity log.
func LogsKey(page int) cache.Key {
	return cache.NewKey(LogsKind, "").WithFilter(fmt.Sprintf("page=%d", page))
}

// TransactionsKey returns the cache key for one page of the transaction
// history. Kind filters by transaction kind; characterID zero means all
// characters.
func TransactionsKey(page int, kind string, characterID int64) cache.Key {
	filter := fmt.Sprintf("page=%d", page)
	if kind != "" {
		filter += "&kind=" + kind
	}
	if characterID != 0 {
		filter += fmt.Sprintf("&character=%d", characterID)
	}
	return cache.NewKey(TransactionsKind, "").WithFilter(filter)
}
