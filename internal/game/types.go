package game

import (
	"fmt"
	"strings"
)

// --- Enums ---

type Allegiance int

const (
	Ally Allegiance = iota
	Enemy
)

func (a Allegiance) String() string {
	if a == Ally {
		return "Ally"
	}
	return "Enemy"
}

// Opponent returns the other side.
func (a Allegiance) Opponent() Allegiance {
	if a == Ally {
		return Enemy
	}
	return Ally
}

// Role is the thematic category of a card. It selects the effect branch,
// independent of which member or side plays the card.
type Role int

const (
	RoleBass Role = iota
	RoleDrummer
	RoleGuitar
	RoleKeyboard
	RoleSinger
)

func (r Role) String() string {
	switch r {
	case RoleBass:
		return "Bass"
	case RoleDrummer:
		return "Drummer"
	case RoleGuitar:
		return "Guitar"
	case RoleKeyboard:
		return "Keyboard"
	case RoleSinger:
		return "Singer"
	default:
		return "Unknown"
	}
}

// IsMultiTarget reports whether cards of this role may strike several members at once.
func (r Role) IsMultiTarget() bool {
	return r == RoleDrummer || r == RoleSinger
}

// ParseRole parses a role name, ignoring case.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bass":
		return RoleBass, nil
	case "drummer", "drums":
		return RoleDrummer, nil
	case "guitar":
		return RoleGuitar, nil
	case "keyboard", "keys":
		return RoleKeyboard, nil
	case "singer", "vocals":
		return RoleSinger, nil
	default:
		return 0, fmt.Errorf("unknown role %q", s)
	}
}

type TurnState int

const (
	TurnPlayer TurnState = iota
	TurnEnemy
)

func (t TurnState) String() string {
	if t == TurnPlayer {
		return "Player"
	}
	return "Enemy"
}

// Side returns which roster acts during this turn.
func (t TurnState) Side() Allegiance {
	if t == TurnPlayer {
		return Ally
	}
	return Enemy
}

type Difficulty int

const (
	Beginner Difficulty = iota
	Normal
	Hard
)

func (d Difficulty) String() string {
	switch d {
	case Beginner:
		return "beginner"
	case Normal:
		return "normal"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty parses "beginner", "normal" or "hard", ignoring case.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginner":
		return Beginner, nil
	case "normal":
		return Normal, nil
	case "hard":
		return Hard, nil
	default:
		return 0, fmt.Errorf("unknown difficulty %q (want beginner, normal or hard)", s)
	}
}

// --- Card definition (static, from catalog or deck file) ---

const (
	HandSize        = 5
	MaxTargetsLimit = 5
)

type Card struct {
	Name            string
	Description     string
	Role            Role
	DamageBonus     int
	HealthBonus     int
	MaxMultiTargets int    // only meaningful for multi-target roles
	HitEffect       string // opaque handle for the presentation layer
}

func (c *Card) String() string {
	if c == nil {
		return "(empty)"
	}
	return c.Name
}

// IsHealing reports whether the card restores health.
func (c *Card) IsHealing() bool {
	return c.HealthBonus > 0
}

// IsDamaging reports whether the card deals damage.
func (c *Card) IsDamaging() bool {
	return c.DamageBonus > 0
}

// IsMultiTarget reports whether the card's role allows several targets.
func (c *Card) IsMultiTarget() bool {
	return c.Role.IsMultiTarget()
}

// Validate checks the card's numeric invariants.
func (c *Card) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("card has no name")
	}
	if c.DamageBonus < 0 {
		return fmt.Errorf("card %q: damage must be >= 0, got %d", c.Name, c.DamageBonus)
	}
	if c.HealthBonus < 0 {
		return fmt.Errorf("card %q: heal must be >= 0, got %d", c.Name, c.HealthBonus)
	}
	if c.MaxMultiTargets < 1 || c.MaxMultiTargets > MaxTargetsLimit {
		return fmt.Errorf("card %q: max_targets must be in [1,%d], got %d", c.Name, MaxTargetsLimit, c.MaxMultiTargets)
	}
	return nil
}

// Deck is an ordered pool of card definitions. Nil entries are placeholders.
type Deck []*Card

// Playable reports whether the deck holds at least one real card.
func (d Deck) Playable() bool {
	for _, c := range d {
		if c != nil {
			return true
		}
	}
	return false
}

// Hand is the set of card slots available for one turn. Nil slots are inert.
type Hand []*Card

// Exhausted reports whether no playable card remains.
func (h Hand) Exhausted() bool {
	for _, c := range h {
		if c != nil {
			return false
		}
	}
	return true
}

// Names returns the display name of each slot.
func (h Hand) Names() []string {
	names := make([]string, len(h))
	for i, c := range h {
		names[i] = c.String()
	}
	return names
}

// CardGroup is every card of one role in a hand. Duplicates collapse into one play.
type CardGroup struct {
	Role  Role
	Card  *Card // representative: the first card of this role in hand order
	Count int
}

// Groups returns one group per role present, ordered by first occurrence.
func (h Hand) Groups() []CardGroup {
	var groups []CardGroup
	index := make(map[Role]int)
	for _, c := range h {
		if c == nil {
			continue
		}
		if i, ok := index[c.Role]; ok {
			groups[i].Count++
			continue
		}
		index[c.Role] = len(groups)
		groups = append(groups, CardGroup{Role: c.Role, Card: c, Count: 1})
	}
	return groups
}

// RemoveRole clears every slot holding a card of the given role. Slots keep their positions.
func (h Hand) RemoveRole(role Role) int {
	removed := 0
	for i, c := range h {
		if c != nil && c.Role == role {
			h[i] = nil
			removed++
		}
	}
	return removed
}
