package character

import (
	"reflect"
	"testing"
)

func acquireFixture() Character {
	return Character{
		ID:              1,
		Credits:         100,
		CharacterPoints: 10,
		AcquirableSkills: []Skill{
			{ID: 11, Name: "Fieldcraft", CostCredits: 30, CostCharacterPoints: 2},
		},
		AcquirableInfusions: []Infusion{
			{ID: 21, Name: "Ember", CostCredits: 15, CostCharacterPoints: 1},
		},
		AcquirableWeavings: []Weaving{
			{ID: 31, Name: "Lattice", CostCredits: 20, CostCharacterPoints: 3},
		},
		AcquirableCeremonials: []Ceremonial{
			{ID: 41, Name: "Vigil", CostCredits: 50, CostCharacterPoints: 4},
		},
		OwnedWeavings: []Weaving{
			{ID: 32, Name: "Braid", IsFavorite: false},
		},
	}
}

func TestApplyAcquireSkillMovesAndDebits(t *testing.T) {
	c := acquireFixture()

	out := ApplyAcquireSkill(c, AcquireSkill{CharacterID: 1, SkillID: 11})
	if len(out.AcquirableSkills) != 0 {
		t.Fatalf("acquirable skills = %d, want 0", len(out.AcquirableSkills))
	}
	if len(out.OwnedSkills) != 1 || out.OwnedSkills[0].ID != 11 {
		t.Fatalf("owned skills = %+v, want skill 11", out.OwnedSkills)
	}
	if out.Credits != 70 {
		t.Fatalf("credits = %d, want 70", out.Credits)
	}
	if out.CharacterPoints != 8 {
		t.Fatalf("character points = %d, want 8", out.CharacterPoints)
	}
}

func TestApplyAcquireSkillUnknownIDIsNoOp(t *testing.T) {
	c := acquireFixture()
	out := ApplyAcquireSkill(c, AcquireSkill{CharacterID: 1, SkillID: 999})
	if !reflect.DeepEqual(out, c) {
		t.Fatal("expected unchanged character for unknown skill id")
	}
}

func TestApplyAcquireInfusionMovesAndDebits(t *testing.T) {
	c := acquireFixture()

	out := ApplyAcquireInfusion(c, AcquireInfusion{CharacterID: 1, InfusionID: 21})
	if len(out.OwnedInfusions) != 1 || out.OwnedInfusions[0].ID != 21 {
		t.Fatalf("owned infusions = %+v, want infusion 21", out.OwnedInfusions)
	}
	if out.Credits != 85 || out.CharacterPoints != 9 {
		t.Fatalf("credits/points = %d/%d, want 85/9", out.Credits, out.CharacterPoints)
	}
}

func TestApplyAcquireWeavingMovesAndDebits(t *testing.T) {
	c := acquireFixture()

	out := ApplyAcquireWeaving(c, AcquireWeaving{CharacterID: 1, WeavingID: 31})
	if len(out.AcquirableWeavings) != 0 {
		t.Fatalf("acquirable weavings = %d, want 0", len(out.AcquirableWeavings))
	}
	if len(out.OwnedWeavings) != 2 {
		t.Fatalf("owned weavings = %d, want 2", len(out.OwnedWeavings))
	}
	if out.Credits != 80 || out.CharacterPoints != 7 {
		t.Fatalf("credits/points = %d/%d, want 80/7", out.Credits, out.CharacterPoints)
	}
}

func TestApplyAcquireCeremonialMovesAndDebits(t *testing.T) {
	c := acquireFixture()

	out := ApplyAcquireCeremonial(c, AcquireCeremonial{CharacterID: 1, CeremonialID: 41})
	if len(out.OwnedCeremonials) != 1 || out.OwnedCeremonials[0].ID != 41 {
		t.Fatalf("owned ceremonials = %+v, want ceremonial 41", out.OwnedCeremonials)
	}
	if out.Credits != 50 || out.CharacterPoints != 6 {
		t.Fatalf("credits/points = %d/%d, want 50/6", out.Credits, out.CharacterPoints)
	}
}

func TestApplyToggleWeavingFavoriteFlips(t *testing.T) {
	c := acquireFixture()

	out := ApplyToggleWeavingFavorite(c, ToggleWeavingFavorite{CharacterID: 1, WeavingID: 32})
	if !out.OwnedWeavings[0].IsFavorite {
		t.Fatal("expected weaving 32 marked favorite")
	}
	out = ApplyToggleWeavingFavorite(out, ToggleWeavingFavorite{CharacterID: 1, WeavingID: 32})
	if out.OwnedWeavings[0].IsFavorite {
		t.Fatal("expected favorite cleared after second toggle")
	}
}

func TestApplyToggleWeavingFavoriteUnknownIDIsNoOp(t *testing.T) {
	c := acquireFixture()
	out := ApplyToggleWeavingFavorite(c, ToggleWeavingFavorite{CharacterID: 1, WeavingID: 999})
	if !reflect.DeepEqual(out, c) {
		t.Fatal("expected unchanged character for unknown weaving id")
	}
}

func TestAcquireRulesDoNotMutateInput(t *testing.T) {
	c := acquireFixture()
	snapshot := c.clone()

	_ = ApplyAcquireSkill(c, AcquireSkill{CharacterID: 1, SkillID: 11})
	_ = ApplyAcquireWeaving(c, AcquireWeaving{CharacterID: 1, WeavingID: 31})
	_ = ApplyToggleWeavingFavorite(c, ToggleWeavingFavorite{CharacterID: 1, WeavingID: 32})

	if !reflect.DeepEqual(c.clone(), snapshot) {
		t.Fatal("expected input character untouched by rules")
	}
}
