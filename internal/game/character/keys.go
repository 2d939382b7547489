package character

import (
	"strconv"

	"github.com/arcanumlarp/arcanum-go/internal/cache"
)

// Cache kinds for the standalone acquirable catalogs. The character aggregate
// embeds the same lists for the optimistic acquisition rules; these keys back
// the dedicated catalog reads.
const (
	AcquirableSkillsKind      = "acquirable-skills"
	AcquirableInfusionsKind   = "acquirable-infusions"
	AcquirableWeavingsKind    = "acquirable-weavings"
	AcquirableCeremonialsKind = "acquirable-ceremonials"
)

// AcquirableSkillsKey returns the catalog key for one character's
// acquirable skills.
func AcquirableSkillsKey(characterID int64) cache.Key {
	return cache.NewKey(AcquirableSkillsKind, strconv.FormatInt(characterID, 10))
}

// AcquirableInfusionsKey returns the catalog key for acquirable infusions.
func AcquirableInfusionsKey(characterID int64) cache.Key {
	return cache.NewKey(AcquirableInfusionsKind, strconv.FormatInt(characterID, 10))
}

// AcquirableWeavingsKey returns the catalog key for acquirable weavings.
func AcquirableWeavingsKey(characterID int64) cache.Key {
	return cache.NewKey(AcquirableWeavingsKind, strconv.FormatInt(characterID, 10))
}

// AcquirableCeremonialsKey returns the catalog key for acquirable
// ceremonials.
func AcquirableCeremonialsKey(characterID int64) cache.Key {
	return cache.NewKey(AcquirableCeremonialsKind, strconv.FormatInt(characterID, 10))
}
