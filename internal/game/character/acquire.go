package character

// AcquireSkill moves an acquirable skill into the owned list and debits its
// cost. The same shape serves infusions, weavings, and ceremonials.
type AcquireSkill struct {
	CharacterID int64
	SkillID     int64
}

// AcquireInfusion moves an acquirable infusion into the owned list.
type AcquireInfusion struct {
	CharacterID int64
	InfusionID  int64
}

// AcquireWeaving moves an acquirable weaving into the owned list.
type AcquireWeaving struct {
	CharacterID int64
	WeavingID   int64
}

// AcquireCeremonial moves an acquirable ceremonial into the owned list.
type AcquireCeremonial struct {
	CharacterID  int64
	CeremonialID int64
}

// ToggleWeavingFavorite flips the favorite flag on an owned weaving.
type ToggleWeavingFavorite struct {
	CharacterID int64
	WeavingID   int64
}

// ApplyAcquireSkill moves the skill from acquirable to owned and debits
// credits and character points by its cost. No-op when the skill is not in
// the acquirable list.
func ApplyAcquireSkill(c Character, v AcquireSkill) Character {
	rest, taken, ok := takeByID(c.AcquirableSkills, v.SkillID, func(s Skill) int64 { return s.ID })
	if !ok {
		return c
	}
	out := c.clone()
	out.AcquirableSkills = rest
	out.OwnedSkills = append(out.OwnedSkills, taken)
	out.Credits -= taken.CostCredits
	out.CharacterPoints -= taken.CostCharacterPoints
	return out
}

// ApplyAcquireInfusion moves the infusion from acquirable to owned and
// debits its cost.
func ApplyAcquireInfusion(c Character, v AcquireInfusion) Character {
	rest, taken, ok := takeByID(c.AcquirableInfusions, v.InfusionID, func(i Infusion) int64 { return i.ID })
	if !ok {
		return c
	}
	out := c.clone()
	out.AcquirableInfusions = rest
	out.OwnedInfusions = append(out.OwnedInfusions, taken)
	out.Credits -= taken.CostCredits
	out.CharacterPoints -= taken.CostCharacterPoints
	return out
}

// ApplyAcquireWeaving moves the weaving from acquirable to owned and debits
// its cost.
func ApplyAcquireWeaving(c Character, v AcquireWeaving) Character {
	rest, taken, ok := takeByID(c.AcquirableWeavings, v.WeavingID, func(w Weaving) int64 { return w.ID })
	if !ok {
		return c
	}
	out := c.clone()
	out.AcquirableWeavings = rest
	out.OwnedWeavings = append(out.OwnedWeavings, taken)
	out.Credits -= taken.CostCredits
	out.CharacterPoints -= taken.CostCharacterPoints
	return out
}

// ApplyAcquireCeremonial moves the ceremonial from acquirable to owned and
// debits its cost.
func ApplyAcquireCeremonial(c Character, v AcquireCeremonial) Character {
	rest, taken, ok := takeByID(c.AcquirableCeremonials, v.CeremonialID, func(ce Ceremonial) int64 { return ce.ID })
	if !ok {
		return c
	}
	out := c.clone()
	out.AcquirableCeremonials = rest
	out.OwnedCeremonials = append(out.OwnedCeremonials, taken)
	out.Credits -= taken.CostCredits
	out.CharacterPoints -= taken.CostCharacterPoints
	return out
}

// ApplyToggleWeavingFavorite flips is_favorite on the owned weaving.
func ApplyToggleWeavingFavorite(c Character, v ToggleWeavingFavorite) Character {
	idx := -1
	for i := range c.OwnedWeavings {
		if c.OwnedWeavings[i].ID == v.WeavingID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return c
	}
	out := c.clone()
	out.OwnedWeavings[idx].IsFavorite = !out.OwnedWeavings[idx].IsFavorite
	return out
}

// takeByID removes the element with the given id from list, returning the
// remainder, the removed element, and whether it was found. The input slice
// is never modified.
func takeByID[T any](list []T, id int64, ident func(T) int64) ([]T, T, bool) {
	var zero T
	for i, elem := range list {
		if ident(elem) != id {
			continue
		}
		rest := make([]T, 0, len(list)-1)
		rest = append(rest, list[:i]...)
		rest = append(rest, list[i+1:]...)
		return rest, elem, true
	}
	return list, zero, false
}
