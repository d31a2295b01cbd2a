package game

// EffectKind distinguishes the two ways a card changes health.
type EffectKind int

const (
	EffectDamage EffectKind = iota
	EffectHeal
)

func (k EffectKind) String() string {
	if k == EffectHeal {
		return "heal"
	}
	return "damage"
}

// Outcome records what one effect application did to one member.
type Outcome struct {
	Target *Member
	Kind   EffectKind
	Amount int
	Before int
	After  int
}

// Downed reports whether this application took the target from alive to zero.
func (o Outcome) Downed() bool {
	return o.Before > 0 && o.After == 0
}

// effectFunc applies a card for caster against targets. It returns nil when no
// branch of the role's rules matches the target set.
type effectFunc func(card *Card, caster Allegiance, targets []*Member) []Outcome

// effectTable is the single dispatch point for both human and AI plays.
var effectTable = map[Role]effectFunc{
	RoleBass:     bassEffect,
	RoleDrummer:  drummerEffect,
	RoleGuitar:   guitarEffect,
	RoleKeyboard: keyboardEffect,
	RoleSinger:   singerEffect,
}

// ApplyEffect mutates target health per the card's role. An empty result means the
// play matched no rule and nothing changed.
func ApplyEffect(card *Card, caster Allegiance, targets []*Member) []Outcome {
	if card == nil || len(targets) == 0 {
		return nil
	}
	fn, ok := effectTable[card.Role]
	if !ok {
		return nil
	}
	return fn(card, caster, targets)
}

func bassEffect(card *Card, caster Allegiance, targets []*Member) []Outcome {
	if healsOne(card, caster, targets) {
		return []Outcome{heal(targets[0], card.HealthBonus)}
	}
	if strikesOne(card, caster, targets) {
		return []Outcome{damage(targets[0], card.DamageBonus)}
	}
	return nil
}

func drummerEffect(card *Card, caster Allegiance, targets []*Member) []Outcome {
	if strikesMany(card, caster, targets) {
		return damageEach(targets, card.DamageBonus)
	}
	return nil
}

func guitarEffect(card *Card, caster Allegiance, targets []*Member) []Outcome {
	if strikesOne(card, caster, targets) {
		return []Outcome{damage(targets[0], card.DamageBonus)}
	}
	return nil
}

func keyboardEffect(card *Card, caster Allegiance, targets []*Member) []Outcome {
	if strikesOne(card, caster, targets) {
		return []Outcome{damage(targets[0], card.DamageBonus)}
	}
	if healsOne(card, caster, targets) {
		return []Outcome{heal(targets[0], 2*card.HealthBonus)}
	}
	return nil
}

// singerEffect: single-target damage is not doubled; it goes through the multi branch.
func singerEffect(card *Card, caster Allegiance, targets []*Member) []Outcome {
	if healsOne(card, caster, targets) {
		return []Outcome{heal(targets[0], card.HealthBonus)}
	}
	if strikesMany(card, caster, targets) {
		return damageEach(targets, card.DamageBonus)
	}
	return nil
}

// --- guards ---

func healsOne(card *Card, caster Allegiance, targets []*Member) bool {
	return card.IsHealing() && len(targets) == 1 && targets[0].Side == caster
}

func strikesOne(card *Card, caster Allegiance, targets []*Member) bool {
	return card.IsDamaging() && len(targets) == 1 && targets[0].Side != caster
}

func strikesMany(card *Card, caster Allegiance, targets []*Member) bool {
	if !card.IsDamaging() || len(targets) > card.MaxMultiTargets {
		return false
	}
	for _, t := range targets {
		if t.Side == caster {
			return false
		}
	}
	return true
}

// --- mutations ---

func damage(m *Member, amount int) Outcome {
	before := m.Health()
	m.TakeDamage(amount)
	return Outcome{Target: m, Kind: EffectDamage, Amount: amount, Before: before, After: m.Health()}
}

func heal(m *Member, amount int) Outcome {
	before := m.Health()
	m.Heal(amount)
	return Outcome{Target: m, Kind: EffectHeal, Amount: amount, Before: before, After: m.Health()}
}

func damageEach(targets []*Member, amount int) []Outcome {
	outcomes := make([]Outcome, 0, len(targets))
	for _, t := range targets {
		outcomes = append(outcomes, damage(t, amount))
	}
	return outcomes
}
