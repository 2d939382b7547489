// Package character defines the character aggregate cached by the client and
// the pure transition rules the optimistic mutation engine applies to it.
//
// All rules are total: a payload referencing an unknown id returns the input
// unchanged rather than failing, because the server remains the authority and
// the reconciling refetch corrects any skipped local effect.
package character

import (
	"strconv"
	"time"

	"github.com/arcanumlarp/arcanum-go/internal/cache"
)

// Kind is the cache entity kind for characters.
const Kind = "character"

// Key returns the cache key for one character.
func Key(id int64) cache.Key {
	return cache.NewKey(Kind, strconv.FormatInt(id, 10))
}

// Character is the aggregate the UI reads and the mutation engine rewrites.
// The cache owns the canonical copy; rules never mutate it in place and
// always return a fresh value.
type Character struct {
	// ID is the immutable character identifier.
	ID int64 `json:"id"`
	// Name is the display name visible on the sheet.
	Name string `json:"name"`
	// Credits is the spendable in-game currency.
	Credits int `json:"credits"`
	// CharacterPoints is the advancement currency spent on acquisitions.
	CharacterPoints int `json:"character_points"`
	// PrimaryStats carry the per-stat maxima.
	PrimaryStats []PrimaryStat `json:"primary_stats"`
	// TemporaryStats maps stat code to the current spendable value,
	// clamped to [0, max of the matching primary stat].
	TemporaryStats map[string]int `json:"temporary_stats"`
	// Items is the top-level inventory, excluding installed modules.
	Items []Item `json:"items"`

	OwnedSkills      []Skill      `json:"owned_skills"`
	OwnedInfusions   []Infusion   `json:"owned_infusions"`
	OwnedWeavings    []Weaving    `json:"owned_weavings"`
	OwnedCeremonials []Ceremonial `json:"owned_ceremonials"`

	AcquirableSkills      []Skill      `json:"acquirable_skills"`
	AcquirableInfusions   []Infusion   `json:"acquirable_infusions"`
	AcquirableWeavings    []Weaving    `json:"acquirable_weavings"`
	AcquirableCeremonials []Ceremonial `json:"acquirable_ceremonials"`
}

// PrimaryStat is a stat definition with its maximum value.
type PrimaryStat struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Max  int    `json:"max"`
}

// Item is an inventory entry. Modules installed into a host item live in the
// host's InstalledModules, not in the top-level inventory.
type Item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	// IsEquipped marks the item as worn or wielded. Slot exclusivity is
	// enforced server-side only.
	IsEquipped bool `json:"is_equipped"`
	// ChargesCurrent and ChargesMax track consumable uses.
	ChargesCurrent int `json:"charges_current"`
	ChargesMax     int `json:"charges_max"`
	// DurationSeconds is how long an activation lasts; zero means the item
	// has no timed effect.
	DurationSeconds int `json:"duration_seconds"`
	// IsActive and ActivationEnd track a running timed effect.
	IsActive      bool       `json:"is_active"`
	ActivationEnd *time.Time `json:"activation_end"`
	// AutoOffAtZero forces the item inactive when charges run out.
	AutoOffAtZero bool `json:"auto_off_at_zero"`
	// InstalledModules are items assembled into this one.
	InstalledModules []Item `json:"installed_modules"`
}

// Skill is a learnable ability with its acquisition cost.
type Skill struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	CostCredits         int    `json:"cost_credits"`
	CostCharacterPoints int    `json:"cost_character_points"`
}

// Infusion is an alchemical enhancement with its acquisition cost.
type Infusion struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	CostCredits         int    `json:"cost_credits"`
	CostCharacterPoints int    `json:"cost_character_points"`
}

// Weaving is a magical technique. Owned weavings can be marked favorite for
// quick access on the sheet.
type Weaving struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	CostCredits         int    `json:"cost_credits"`
	CostCharacterPoints int    `json:"cost_character_points"`
	IsFavorite          bool   `json:"is_favorite"`
}

// Ceremonial is a ritual with its acquisition cost.
type Ceremonial struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	CostCredits         int    `json:"cost_credits"`
	CostCharacterPoints int    `json:"cost_character_points"`
}

// clone returns a deep copy safe to rewrite without touching the cached
// original. Rule snapshots rely on the original staying intact for rollback.
func (c Character) clone() Character {
	out := c
	out.PrimaryStats = append([]PrimaryStat(nil), c.PrimaryStats...)
	out.TemporaryStats = make(map[string]int, len(c.TemporaryStats))
	for code, value := range c.TemporaryStats {
		out.TemporaryStats[code] = value
	}
	out.Items = cloneItems(c.Items)
	out.OwnedSkills = append([]Skill(nil), c.OwnedSkills...)
	out.OwnedInfusions = append([]Infusion(nil), c.OwnedInfusions...)
	out.OwnedWeavings = append([]Weaving(nil), c.OwnedWeavings...)
	out.OwnedCeremonials = append([]Ceremonial(nil), c.OwnedCeremonials...)
	out.AcquirableSkills = append([]Skill(nil), c.AcquirableSkills...)
	out.AcquirableInfusions = append([]Infusion(nil), c.AcquirableInfusions...)
	out.AcquirableWeavings = append([]Weaving(nil), c.AcquirableWeavings...)
	out.AcquirableCeremonials = append([]Ceremonial(nil), c.AcquirableCeremonials...)
	return out
}

func cloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, item := range items {
		out[i] = item
		if item.ActivationEnd != nil {
			end := *item.ActivationEnd
			out[i].ActivationEnd = &end
		}
		out[i].InstalledModules = cloneItems(item.InstalledModules)
	}
	return out
}

func clamp(value, minValue, maxValue int) int {
	if minValue > maxValue {
		return minValue
	}
	if value < minValue {
		return minValue
	}
	if value > maxValue {
		return maxValue
	}
	return value
}
