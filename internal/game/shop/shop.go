// Package shop models the item shop list and the purchase transition.
package shop

import (
	"github.com/arcanumlarp/arcanum-go/internal/cache"
	"github.com/arcanumlarp/arcanum-go/internal/game/character"
)

// Kind is the cache entity kind for the shop item list.
const Kind = "shop-items"

// Key returns the cache key for the shop item list, shared by all readers.
func Key() cache.Key {
	return cache.NewKey(Kind, "")
}

// Item is a purchasable shop listing.
type Item struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	CostCredits int    `json:"cost_credits"`
	// Stock is the remaining quantity; negative means unlimited.
	Stock int `json:"stock"`
}

// Purchase debits a character for a shop item. The cost travels in the
// variables because the purchase rule rewrites the character aggregate,
// which does not carry shop listings.
type Purchase struct {
	CharacterID int64
	ItemID      int64
	CostCredits int
}

// ApplyPurchase decrements the character's credits by the item cost. The
// purchased item is deliberately not added to the inventory here: the item
// list is server-authoritative and arrives with the reconciling refetch. A
// non-positive cost means the listing was not cached; the input is returned
// unchanged and the debit waits for that refetch.
func ApplyPurchase(c character.Character, v Purchase) character.Character {
	if v.CostCredits <= 0 {
		return c
	}
	out := c
	out.Credits -= v.CostCredits
	return out
}
