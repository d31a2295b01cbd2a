package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const DefaultMaxHealth = 100

// Member is one combat participant. Health only changes through TakeDamage and Heal
// and always stays within [0, MaxHealth]. A downed member stays in its roster.
type Member struct {
	ID        uuid.UUID
	Name      string
	Side      Allegiance
	Role      Role // the member's own instrument, informational only
	MaxHealth int
	health    int
}

// NewMember creates a member at full health.
func NewMember(name string, side Allegiance, role Role, maxHealth int) (*Member, error) {
	if maxHealth <= 0 {
		return nil, fmt.Errorf("member %q: max health must be > 0, got %d", name, maxHealth)
	}
	return &Member{
		ID:        uuid.New(),
		Name:      name,
		Side:      side,
		Role:      role,
		MaxHealth: maxHealth,
		health:    maxHealth,
	}, nil
}

func (m *Member) String() string {
	return fmt.Sprintf("%s (%d/%d)", m.Name, m.health, m.MaxHealth)
}

// Health returns current health.
func (m *Member) Health() int {
	return m.health
}

// IsAlive reports whether health is above zero.
func (m *Member) IsAlive() bool {
	return m.health > 0
}

// TakeDamage lowers health, stopping at zero.
func (m *Member) TakeDamage(amount int) {
	if amount <= 0 {
		return
	}
	m.health -= amount
	if m.health < 0 {
		m.health = 0
	}
}

// Heal raises health up to MaxHealth. Downed members cannot be healed.
func (m *Member) Heal(amount int) {
	if m.health <= 0 || amount <= 0 {
		return
	}
	m.health += amount
	if m.health > m.MaxHealth {
		m.health = m.MaxHealth
	}
}

// HealNeed is the missing fraction of health, or 0 for a downed member.
func (m *Member) HealNeed() float64 {
	if !m.IsAlive() {
		return 0
	}
	return float64(m.MaxHealth-m.health) / float64(m.MaxHealth)
}

// --- Rosters ---

// RosterProvider exposes both teams for the duration of a match.
type RosterProvider interface {
	AllyTeam() []*Member
	EnemyTeam() []*Member
}

var ErrEmptyRoster = errors.New("roster has no members")

// Rosters is the stock RosterProvider.
type Rosters struct {
	Allies  []*Member
	Enemies []*Member
}

func (r *Rosters) AllyTeam() []*Member  { return r.Allies }
func (r *Rosters) EnemyTeam() []*Member { return r.Enemies }

// Team returns the members of one side.
func Team(rp RosterProvider, side Allegiance) []*Member {
	if side == Ally {
		return rp.AllyTeam()
	}
	return rp.EnemyTeam()
}

// Living returns the members still standing, in roster order.
func Living(team []*Member) []*Member {
	var result []*Member
	for _, m := range team {
		if m.IsAlive() {
			result = append(result, m)
		}
	}
	return result
}

// AllDowned reports whether no member of the team is alive.
func AllDowned(team []*Member) bool {
	for _, m := range team {
		if m.IsAlive() {
			return false
		}
	}
	return true
}

// FindMember looks up a member by ID across both teams.
func FindMember(rp RosterProvider, id uuid.UUID) *Member {
	for _, team := range [][]*Member{rp.AllyTeam(), rp.EnemyTeam()} {
		for _, m := range team {
			if m.ID == id {
				return m
			}
		}
	}
	return nil
}

// MemberSpec describes a roster entry before it is created.
type MemberSpec struct {
	Name      string
	Role      Role
	MaxHealth int
}

// NewTeam builds a side's roster from specs.
func NewTeam(side Allegiance, specs []MemberSpec) ([]*Member, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%s team: %w", side, ErrEmptyRoster)
	}
	team := make([]*Member, 0, len(specs))
	for _, s := range specs {
		m, err := NewMember(s.Name, side, s.Role, s.MaxHealth)
		if err != nil {
			return nil, fmt.Errorf("%s team: %w", side, err)
		}
		team = append(team, m)
	}
	return team, nil
}
