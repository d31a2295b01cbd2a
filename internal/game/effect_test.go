package game

import "testing"

// TestHealFullAndStrike: healing a full-health ally clamps, a guitar hit lands in full.
func TestHealFullAndStrike(t *testing.T) {
	a := member(t, "A", Ally, 100, 100)
	b := member(t, "B", Ally, 100, 100)
	c := member(t, "C", Enemy, 50, 50)
	allies, enemies := []*Member{a, b}, []*Member{c}

	bass := healCard("Bass Heal", RoleBass, 20)
	guitar := damageCard("Guitar Hit", RoleGuitar, 15)

	if !ValidSelection(bass, Ally, []*Member{a}, allies, enemies) {
		t.Fatal("Expected healing A to be a valid selection")
	}
	out := ApplyEffect(bass, Ally, []*Member{a})
	if len(out) != 1 || out[0].Kind != EffectHeal {
		t.Fatalf("Expected one heal outcome, got %+v", out)
	}
	if a.Health() != 100 {
		t.Errorf("Expected A to stay at 100, got %d", a.Health())
	}

	ApplyEffect(guitar, Ally, []*Member{c})
	if c.Health() != 35 {
		t.Errorf("Expected C at 35, got %d", c.Health())
	}
	if b.Health() != 100 {
		t.Errorf("B should be untouched, got %d", b.Health())
	}
}

func TestRoleEffects(t *testing.T) {
	tests := []struct {
		name    string
		card    *Card
		caster  Allegiance
		side    Allegiance
		targets int
		want    []int // health after, per target; nil = no rule matches
	}{
		{"bass heal", healCard("x", RoleBass, 20), Ally, Ally, 1, []int{70}},
		{"bass hit", damageCard("x", RoleBass, 12), Ally, Enemy, 1, []int{38}},
		{"bass heal enemy", healCard("x", RoleBass, 20), Ally, Enemy, 1, nil},
		{"drummer multi", multiCard("x", RoleDrummer, 8, 3), Ally, Enemy, 3, []int{42, 42, 42}},
		{"drummer over cap", multiCard("x", RoleDrummer, 8, 2), Ally, Enemy, 3, nil},
		{"drummer heal", healCard("x", RoleDrummer, 8), Ally, Ally, 1, nil},
		{"guitar hit", damageCard("x", RoleGuitar, 15), Enemy, Ally, 1, []int{35}},
		{"guitar two targets", damageCard("x", RoleGuitar, 15), Ally, Enemy, 2, nil},
		{"keyboard hit", damageCard("x", RoleKeyboard, 14), Ally, Enemy, 1, []int{36}},
		{"keyboard doubled heal", healCard("x", RoleKeyboard, 12), Ally, Ally, 1, []int{74}},
		{"singer heal", healCard("x", RoleSinger, 18), Enemy, Enemy, 1, []int{68}},
		{"singer single hit", damageCard("x", RoleSinger, 10), Ally, Enemy, 1, []int{40}},
		{"singer multi", multiCard("x", RoleSinger, 7, 4), Ally, Enemy, 2, []int{43, 43}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var targets []*Member
			for i := 0; i < tt.targets; i++ {
				targets = append(targets, member(t, "T", tt.side, 50, 100))
			}
			out := ApplyEffect(tt.card, tt.caster, targets)
			if tt.want == nil {
				if len(out) != 0 {
					t.Errorf("Expected no rule to match, got %+v", out)
				}
				for _, m := range targets {
					if m.Health() != 50 {
						t.Errorf("Rejected play mutated %s to %d", m.Name, m.Health())
					}
				}
				return
			}
			if len(out) != len(tt.want) {
				t.Fatalf("Expected %d outcomes, got %d", len(tt.want), len(out))
			}
			for i, m := range targets {
				if m.Health() != tt.want[i] {
					t.Errorf("target %d: expected %d, got %d", i, tt.want[i], m.Health())
				}
			}
		})
	}
}

func TestOutcomeDowned(t *testing.T) {
	c := member(t, "C", Enemy, 10, 50)
	out := ApplyEffect(damageCard("Finisher", RoleGuitar, 25), Ally, []*Member{c})
	if len(out) != 1 || !out[0].Downed() {
		t.Fatalf("Expected a downed outcome, got %+v", out)
	}
	if out[0].Before != 10 || out[0].After != 0 {
		t.Errorf("Expected 10 -> 0, got %d -> %d", out[0].Before, out[0].After)
	}

	again := ApplyEffect(damageCard("Finisher", RoleGuitar, 25), Ally, []*Member{c})
	if again[0].Downed() || c.Health() != 0 {
		t.Error("Hitting a downed member should not down it again")
	}
}
