package arcanum

import (
	"context"
	"fmt"

	"github.com/arcanumlarp/arcanum-go/internal/game/character"
	"github.com/arcanumlarp/arcanum-go/internal/game/forge"
	"github.com/arcanumlarp/arcanum-go/internal/game/journal"
	"github.com/arcanumlarp/arcanum-go/internal/game/shop"
	"github.com/arcanumlarp/arcanum-go/internal/platform/timeouts"
	"github.com/arcanumlarp/arcanum-go/internal/query"
)

// Character subscribes to one character sheet. The aggregate includes the
// inventory, owned and acquirable abilities, and the temporary stat pools the
// optimistic rules rewrite.
func (c *Client) Character(ctx context.Context, id int64) *query.Subscription[character.Character] {
	return query.Subscribe(ctx, c.queries, character.Key(id),
		getJSON[character.Character](c, fmt.Sprintf("/characters/%d", id)),
		query.Options{StaleTime: timeouts.CharacterStale, Enabled: true},
	)
}

// ForgingQueue subscribes to a character's crafting queue. The queue is
// polled while subscribed because entry completion is time-driven on the
// server and not push-notified.
func (c *Client) ForgingQueue(ctx context.Context, characterID int64) *query.Subscription[[]forge.QueueEntry] {
	return query.Subscribe(ctx, c.queries, forge.Key(characterID),
		getJSON[[]forge.QueueEntry](c, fmt.Sprintf("/characters/%d/forging-queue", characterID)),
		query.Options{RefetchInterval: timeouts.ForgeQueuePoll, Enabled: true},
	)
}

// ShopItems subscribes to the shared shop listing.
func (c *Client) ShopItems(ctx context.Context) *query.Subscription[[]shop.Item] {
	return query.Subscribe(ctx, c.queries, shop.Key(),
		getJSON[[]shop.Item](c, "/shop/items"),
		query.Options{StaleTime: timeouts.CatalogStale, Enabled: true},
	)
}

// AcquirableSkills subscribes to the skills a character can still acquire.
func (c *Client) AcquirableSkills(ctx context.Context, characterID int64) *query.Subscription[[]character.Skill] {
	return query.Subscribe(ctx, c.queries, character.AcquirableSkillsKey(characterID),
		getJSON[[]character.Skill](c, fmt.Sprintf("/characters/%d/acquirable-skills", characterID)),
		query.Options{StaleTime: timeouts.CatalogStale, Enabled: true},
	)
}

// AcquirableInfusions subscribes to the infusions a character can acquire.
func (c *Client) AcquirableInfusions(ctx context.Context, characterID int64) *query.Subscription[[]character.Infusion] {
	return query.Subscribe(ctx, c.queries, character.AcquirableInfusionsKey(characterID),
		getJSON[[]character.Infusion](c, fmt.Sprintf("/characters/%d/acquirable-infusions", characterID)),
		query.Options{StaleTime: timeouts.CatalogStale, Enabled: true},
	)
}

// AcquirableWeavings subscribes to the weavings a character can acquire.
func (c *Client) AcquirableWeavings(ctx context.Context, characterID int64) *query.Subscription[[]character.Weaving] {
	return query.Subscribe(ctx, c.queries, character.AcquirableWeavingsKey(characterID),
		getJSON[[]character.Weaving](c, fmt.Sprintf("/characters/%d/acquirable-weavings", characterID)),
		query.Options{StaleTime: timeouts.CatalogStale, Enabled: true},
	)
}

// AcquirableCeremonials subscribes to the ceremonials a character can
// acquire.
func (c *Client) AcquirableCeremonials(ctx context.Context, characterID int64) *query.Subscription[[]character.Ceremonial] {
	return query.Subscribe(ctx, c.queries, character.AcquirableCeremonialsKey(characterID),
		getJSON[[]character.Ceremonial](c, fmt.Sprintf("/characters/%d/acquirable-ceremonials", characterID)),
		query.Options{StaleTime: timeouts.CatalogStale, Enabled: true},
	)
}

// Logs subscribes to one page of the account activity log. Moving to another
// page with SetLogsPage keeps the current page visible as placeholder data
// until the new page resolves.
func (c *Client) Logs(ctx context.Context, page int) *query.Subscription[journal.Page[journal.LogEntry]] {
	return query.Subscribe(ctx, c.queries, journal.LogsKey(page),
		c.logsFetcher(page),
		query.Options{StaleTime: timeouts.CatalogStale, KeepPreviousData: true, Enabled: true},
	)
}

// SetLogsPage re-points a logs subscription at another page.
func (c *Client) SetLogsPage(sub *query.Subscription[journal.Page[journal.LogEntry]], page int) {
	sub.SetKey(journal.LogsKey(page), c.logsFetcher(page))
}

func (c *Client) logsFetcher(page int) query.Fetcher[journal.Page[journal.LogEntry]] {
	return getJSON[journal.Page[journal.LogEntry]](c, fmt.Sprintf("/logs?page=%d", page))
}

// Transactions subscribes to one page of the transaction history, optionally
// filtered by transaction kind and character. A characterID of zero spans all
// characters.
func (c *Client) Transactions(ctx context.Context, page int, kind string, characterID int64) *query.Subscription[journal.Page[journal.Transaction]] {
	return query.Subscribe(ctx, c.queries, journal.TransactionsKey(page, kind, characterID),
		c.transactionsFetcher(page, kind, characterID),
		query.Options{StaleTime: timeouts.CatalogStale, KeepPreviousData: true, Enabled: true},
	)
}

// SetTransactionsPage re-points a transactions subscription at another page
// of the same filter.
func (c *Client) SetTransactionsPage(sub *query.Subscription[journal.Page[journal.Transaction]], page int, kind string, characterID int64) {
	sub.SetKey(journal.TransactionsKey(page, kind, characterID), c.transactionsFetcher(page, kind, characterID))
}

func (c *Client) transactionsFetcher(page int, kind string, characterID int64) query.Fetcher[journal.Page[journal.Transaction]] {
	path := fmt.Sprintf("/transactions?page=%d", page)
	if kind != "" {
		path += "&kind=" + kind
	}
	if characterID != 0 {
		path += fmt.Sprintf("&character_id=%d", characterID)
	}
	return getJSON[journal.Page[journal.Transaction]](c, path)
}

// getJSON builds a fetcher that GETs one path and decodes the response.
func getJSON[T any](c *Client, path string) query.Fetcher[T] {
	return func(ctx context.Context) (T, error) {
		var out T
		err := c.rest.Get(ctx, path, &out)
		return out, err
	}
}
