package arcanum

import (
	"context"
	"fmt"

	"github.com/arcanumlarp/arcanum-go/internal/cache"
	"github.com/arcanumlarp/arcanum-go/internal/game/character"
	"github.com/arcanumlarp/arcanum-go/internal/game/forge"
	"github.com/arcanumlarp/arcanum-go/internal/game/shop"
	"github.com/arcanumlarp/arcanum-go/internal/mutation"
)

// characterKey resolves the character cache key for any variables type that
// carries a CharacterID.
func characterKey[V any](id func(V) int64) func(V) cache.Key {
	return func(v V) cache.Key { return character.Key(id(v)) }
}

type statChangeBody struct {
	Op          string `json:"op"`
	MaxOverride *int   `json:"max_override,omitempty"`
}

// ChangeStat consumes, adds, or resets one temporary stat. The new value is
// visible immediately, clamped to the stat's maximum; the server reconciles
// on settle.
func (c *Client) ChangeStat(ctx context.Context, change character.StatChange) error {
	return mutation.Run(ctx, c.mutations, mutation.Descriptor[character.StatChange]{
		Name:     "change-stat",
		CacheKey: characterKey(func(v character.StatChange) int64 { return v.CharacterID }),
		Apply:    mutation.Typed(character.ApplyStatChange),
		Remote: func(ctx context.Context, v character.StatChange) error {
			return c.rest.Post(ctx,
				fmt.Sprintf("/characters/%d/stats/%s", v.CharacterID, v.Code),
				statChangeBody{Op: string(v.Op), MaxOverride: v.MaxOverride}, nil)
		},
	}, change)
}

// ToggleEquip equips or unequips an inventory item.
func (c *Client) ToggleEquip(ctx context.Context, characterID, itemID int64) error {
	return mutation.Run(ctx, c.mutations, mutation.Descriptor[character.ToggleEquip]{
		Name:     "toggle-equip",
		CacheKey: characterKey(func(v character.ToggleEquip) int64 { return v.CharacterID }),
		Apply:    mutation.Typed(character.ApplyToggleEquip),
		Remote: func(ctx context.Context, v character.ToggleEquip) error {
			return c.rest.Post(ctx,
				fmt.Sprintf("/characters/%d/items/%d/equip", v.CharacterID, v.ItemID), nil, nil)
		},
	}, character.ToggleEquip{CharacterID: characterID, ItemID: itemID})
}

// UseItem spends one charge and, for timed items, starts the activation
// window anchored at the client clock.
func (c *Client) UseItem(ctx context.Context, characterID, itemID int64) error {
	return mutation.Run(ctx, c.mutations, mutation.Descriptor[character.UseItem]{
		Name:     "use-item",
		CacheKey: characterKey(func(v character.UseItem) int64 { return v.CharacterID }),
		Apply:    mutation.Typed(character.ApplyUseItem),
		Remote: func(ctx context.Context, v character.UseItem) error {
			return c.rest.Post(ctx,
				fmt.Sprintf("/characters/%d/items/%d/use", v.CharacterID, v.ItemID), nil, nil)
		},
	}, character.UseItem{CharacterID: characterID, ItemID: itemID, Now: c.clock()})
}

// RechargeItem refills an item's charges.
func (c *Client) RechargeItem(ctx context.Context, characterID, itemID int64) error {
	return mutation.Run(ctx, c.mutations, mutation.Descriptor[character.RechargeItem]{
		Name:     "recharge-item",
		CacheKey: characterKey(func(v character.RechargeItem) int64 { return v.CharacterID }),
		Apply:    mutation.Typed(character.ApplyRechargeItem),
		Remote: func(ctx context.Context, v character.RechargeItem) error {
			return c.rest.Post(ctx,
				fmt.Sprintf("/characters/%d/items/%d/recharge", v.CharacterID, v.ItemID), nil, nil)
		},
	}, character.RechargeItem{CharacterID: characterID, ItemID: itemID})
}

type assembleBody struct {
	ModuleItemID int64 `json:"module_item_id"`
}

// Assemble installs a loose inventory item as a module of a host item.
func (c *Client) Assemble(ctx context.Context, characterID, hostItemID, moduleItemID int64) error {
	return mutation.Run(ctx, c.mutations, mutation.Descriptor[character.InstallModule]{
		Name:     "assemble",
		CacheKey: characterKey(func(v character.InstallModule) int64 { return v.CharacterID }),
		Apply:    mutation.Typed(character.ApplyInstallModule),
		Remote: func(ctx context.Context, v character.InstallModule) error {
			return c.rest.Post(ctx,
				fmt.Sprintf("/characters/%d/items/%d/modules", v.CharacterID, v.HostItemID),
				assembleBody{ModuleItemID: v.ModuleItemID}, nil)
		},
	}, character.InstallModule{CharacterID: characterID, HostItemID: hostItemID, ModuleItemID: moduleItemID})
}

// Disassemble removes an installed module back into the inventory.
func (c *Client) Disassemble(ctx context.Context, characterID, hostItemID, moduleItemID int64) error {
	return mutation.Run(ctx, c.mutations, mutation.Descriptor[character.RemoveModule]{
		Name:     "disassemble",
		CacheKey: characterKey(func(v character.RemoveModule) int64 { return v.CharacterID }),
		Apply:    mutation.Typed(character.ApplyRemoveModule),
		Remote: func(ctx context.Context, v character.RemoveModule) error {
			return c.rest.Delete(ctx,
				fmt.Sprintf("/characters/%d/items/%d/modules/%d", v.CharacterID, v.HostItemID, v.ModuleItemID))
		},
	}, character.RemoveModule{CharacterID: characterID, HostItemID: hostItemID, ModuleItemID: moduleItemID})
}

// CollectForging collects a finished forging queue entry. The entry leaves
// the queue immediately; the character sheet is invalidated as well so the
// forged item appears after the reconciling refetch.
func (c *Client) CollectForging(ctx context.Context, characterID, entryID int64) error {
	return mutation.Run(ctx, c.mutations, mutation.Descriptor[forge.Collect]{
		Name:     "collect-forging",
		CacheKey: func(v forge.Collect) cache.Key { return forge.Key(v.CharacterID) },
		Apply:    mutation.Typed(forge.ApplyCollect),
		Remote: func(ctx context.Context, v forge.Collect) error {
			return c.rest.Post(ctx,
				fmt.Sprintf("/characters/%d/forging-queue/%d/collect", v.CharacterID, v.EntryID), nil, nil)
		},
		AlsoInvalidate: func(v forge.Collect) []cache.Key {
			return []cache.Key{character.Key(v.CharacterID)}
		},
	}, forge.Collect{CharacterID: characterID, EntryID: entryID})
}

// AcquireSkill buys a skill from the acquirable catalog. Cost is debited
// optimistically; the standalone catalog read is reconciled on settle.
func (c *Client) AcquireSkill(ctx context.Context, characterID, skillID int64) error {
	return mutation.Run(ctx, c.mutations, mutation.Descriptor[character.AcquireSkill]{
		Name:     "acquire-skill",
		CacheKey: characterKey(func(v character.AcquireSkill) int64 { return v.CharacterID }),
		Apply:    mutation.Typed(character.ApplyAcquireSkill),
		Remote: func(ctx context.Context, v character.AcquireSkill) error {
			return c.rest.Post(ctx,
				fmt.Sprintf("/characters/%d/skills/%d/acquire", v.CharacterID, v.SkillID), nil, nil)
		},
		AlsoInvalidate: func(v character.AcquireSkill) []cache.Key {
			return []cache.Key{character.AcquirableSkillsKey(v.CharacterID)}
		},
	}, character.AcquireSkill{CharacterID: characterID, SkillID: skillID})
}

// AcquireInfusion buys an infusion from the acquirable catalog.
func (c *Client) AcquireInfusion(ctx context.Context, characterID, infusionID int64) error {
	return mutation.Run(ctx, c.mutations, mutation.Descriptor[character.AcquireInfusion]{
		Name:     "acquire-infusion",
		CacheKey: characterKey(func(v character.AcquireInfusion) int64 { return v.CharacterID }),
		Apply:    mutation.Typed(character.ApplyAcquireInfusion),
		Remote: func(ctx context.Context, v character.AcquireInfusion) error {
			return c.rest.Post(ctx,
				fmt.Sprintf("/characters/%d/infusions/%d/acquire", v.CharacterID, v.InfusionID), nil, nil)
		},
		AlsoInvalidate: func(v character.AcquireInfusion) []cache.Key {
			return []cache.Key{character.AcquirableInfusionsKey(v.CharacterID)}
		},
	}, character.AcquireInfusion{CharacterID: characterID, InfusionID: infusionID})
}

// AcquireWeaving buys a weaving from the acquirable catalog.
func (c *Client) AcquireWeaving(ctx context.Context, characterID, weavingID int64) error {
	return mutation.Run(ctx, c.mutations, mutation.Descriptor[character.AcquireWeaving]{
		Name:     "acquire-weaving",
		CacheKey: characterKey(func(v character.AcquireWeaving) int64 { return v.CharacterID }),
		Apply:    mutation.Typed(character.ApplyAcquireWeaving),
		Remote: func(ctx context.Context, v character.AcquireWeaving) error {
			return c.rest.Post(ctx,
				fmt.Sprintf("/characters/%d/weavings/%d/acquire", v.CharacterID, v.WeavingID), nil, nil)
		},
		AlsoInvalidate: func(v character.AcquireWeaving) []cache.Key {
			return []cache.Key{character.AcquirableWeavingsKey(v.CharacterID)}
		},
	}, character.AcquireWeaving{CharacterID: characterID, WeavingID: weavingID})
}

// AcquireCeremonial buys a ceremonial from the acquirable catalog.
func (c *Client) AcquireCeremonial(ctx context.Context, characterID, ceremonialID int64) error {
	return mutation.Run(ctx, c.mutations, mutation.Descriptor[character.AcquireCeremonial]{
		Name:     "acquire-ceremonial",
		CacheKey: characterKey(func(v character.AcquireCeremonial) int64 { return v.CharacterID }),
		Apply:    mutation.Typed(character.ApplyAcquireCeremonial),
		Remote: func(ctx context.Context, v character.AcquireCeremonial) error {
			return c.rest.Post(ctx,
				fmt.Sprintf("/characters/%d/ceremonials/%d/acquire", v.CharacterID, v.CeremonialID), nil, nil)
		},
		AlsoInvalidate: func(v character.AcquireCeremonial) []cache.Key {
			return []cache.Key{character.AcquirableCeremonialsKey(v.CharacterID)}
		},
	}, character.AcquireCeremonial{CharacterID: characterID, CeremonialID: ceremonialID})
}

// ToggleWeavingFavorite flips the favorite flag on an owned weaving.
func (c *Client) ToggleWeavingFavorite(ctx context.Context, characterID, weavingID int64) error {
	return mutation.Run(ctx, c.mutations, mutation.Descriptor[character.ToggleWeavingFavorite]{
		Name:     "toggle-weaving-favorite",
		CacheKey: characterKey(func(v character.ToggleWeavingFavorite) int64 { return v.CharacterID }),
		Apply:    mutation.Typed(character.ApplyToggleWeavingFavorite),
		Remote: func(ctx context.Context, v character.ToggleWeavingFavorite) error {
			return c.rest.Post(ctx,
				fmt.Sprintf("/characters/%d/weavings/%d/favorite", v.CharacterID, v.WeavingID), nil, nil)
		},
	}, character.ToggleWeavingFavorite{CharacterID: characterID, WeavingID: weavingID})
}

type buyBody struct {
	CharacterID int64 `json:"character_id"`
}

// BuyShopItem purchases a shop item for a character. The item cost is read
// from the cached shop listing so the credit debit shows immediately; when
// the listing is not cached the debit waits for the reconciling refetch. The
// purchased item itself is never added optimistically.
func (c *Client) BuyShopItem(ctx context.Context, characterID, itemID int64) error {
	return mutation.Run(ctx, c.mutations, mutation.Descriptor[shop.Purchase]{
		Name:     "buy-shop-item",
		CacheKey: characterKey(func(v shop.Purchase) int64 { return v.CharacterID }),
		Apply: func(old any, v shop.Purchase) (any, error) {
			// Unknown cost means no optimistic effect, not a rewritten
			// identical value; subscribers see no update event.
			if v.CostCredits <= 0 {
				return nil, nil
			}
			return mutation.Typed(shop.ApplyPurchase)(old, v)
		},
		Remote: func(ctx context.Context, v shop.Purchase) error {
			return c.rest.Post(ctx,
				fmt.Sprintf("/shop/items/%d/buy", v.ItemID), buyBody{CharacterID: v.CharacterID}, nil)
		},
		AlsoInvalidate: func(v shop.Purchase) []cache.Key {
			return []cache.Key{shop.Key()}
		},
	}, shop.Purchase{CharacterID: characterID, ItemID: itemID, CostCredits: c.shopItemCost(itemID)})
}

// shopItemCost looks one item's cost up in the cached shop listing. Zero
// means unknown; the optimistic debit is skipped and server truth arrives
// with the refetch.
func (c *Client) shopItemCost(itemID int64) int {
	entry, ok := c.store.Get(shop.Key())
	if !ok {
		return 0
	}
	items, ok := entry.Value.([]shop.Item)
	if !ok {
		return 0
	}
	for _, item := range items {
		if item.ID == itemID {
			return item.CostCredits
		}
	}
	return 0
}
