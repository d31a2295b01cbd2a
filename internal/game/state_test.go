package game

import (
	"errors"
	"testing"
)

func TestHealthStaysInRange(t *testing.T) {
	m := member(t, "Axel", Ally, 100, 100)

	ops := []struct {
		damage bool
		amount int
	}{
		{true, 30}, {false, 50}, {true, 250}, {false, 40}, {true, -5}, {false, -10}, {true, 0},
	}
	for i, op := range ops {
		if op.damage {
			m.TakeDamage(op.amount)
		} else {
			m.Heal(op.amount)
		}
		if m.Health() < 0 || m.Health() > m.MaxHealth {
			t.Fatalf("step %d: health %d outside [0,%d]", i, m.Health(), m.MaxHealth)
		}
	}
	if m.Health() != 0 {
		t.Errorf("Expected member to stay downed after overkill, got %d", m.Health())
	}
}

func TestHealOverflowClamps(t *testing.T) {
	m := member(t, "Axel", Ally, 95, 100)
	m.Heal(20)
	if m.Health() != 100 {
		t.Errorf("Expected 100, got %d", m.Health())
	}
}

func TestHealDownedIsNoop(t *testing.T) {
	m := member(t, "Axel", Ally, 10, 100)
	m.TakeDamage(10)
	if m.IsAlive() {
		t.Fatal("Expected member to be downed")
	}
	m.Heal(50)
	m.Heal(50)
	if m.Health() != 0 {
		t.Errorf("Healing a downed member should be a no-op, got %d", m.Health())
	}
	if m.HealNeed() != 0 {
		t.Errorf("Downed member should report no heal need, got %f", m.HealNeed())
	}
}

func TestNewMemberRejectsBadMaxHealth(t *testing.T) {
	if _, err := NewMember("Ghost", Enemy, RoleSinger, 0); err == nil {
		t.Error("Expected error for zero max health")
	}
}

func TestNewTeam(t *testing.T) {
	team, err := NewTeam(Enemy, []MemberSpec{
		{Name: "Vex", Role: RoleGuitar, MaxHealth: 80},
		{Name: "Rook", Role: RoleDrummer, MaxHealth: 120},
	})
	if err != nil {
		t.Fatalf("NewTeam: %v", err)
	}
	if len(team) != 2 || team[1].Side != Enemy || team[1].Health() != 120 {
		t.Errorf("Unexpected team: %v", team)
	}
	if team[0].ID == team[1].ID {
		t.Error("Expected distinct member IDs")
	}

	rp := &Rosters{Enemies: team}
	if got := FindMember(rp, team[1].ID); got != team[1] {
		t.Errorf("FindMember returned %v", got)
	}

	if _, err := NewTeam(Ally, nil); !errors.Is(err, ErrEmptyRoster) {
		t.Errorf("Expected ErrEmptyRoster, got %v", err)
	}
}
