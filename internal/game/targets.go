package game

// ValidTargets returns the members a card may legally affect when played by caster.
// Healing reaches the caster's living members, damage the opponent's; a card with both
// bonuses yields the union, own side first.
func ValidTargets(card *Card, allies, enemies []*Member, caster Allegiance) []*Member {
	if card == nil {
		return nil
	}
	own, opp := allies, enemies
	if caster == Enemy {
		own, opp = enemies, allies
	}

	var targets []*Member
	if card.IsHealing() {
		targets = append(targets, Living(own)...)
	}
	if card.IsDamaging() {
		targets = append(targets, Living(opp)...)
	}
	return targets
}

// CanTarget reports whether a single member is an eligible target for the card.
func CanTarget(card *Card, caster Allegiance, target *Member) bool {
	if card == nil || target == nil || !target.IsAlive() {
		return false
	}
	if target.Side == caster {
		return card.IsHealing()
	}
	return card.IsDamaging()
}

// TargetLimit returns how many members of side one play may affect, given how many
// are available. Only multi-target roles striking the opposing side exceed one.
func TargetLimit(card *Card, side, caster Allegiance, available int) int {
	if available <= 0 {
		return 0
	}
	if side != caster && card.IsMultiTarget() {
		return min(card.MaxMultiTargets, available)
	}
	return 1
}

// ValidSelection checks a complete target choice: distinct, living, eligible members,
// all on one side, sized within that side's TargetLimit.
func ValidSelection(card *Card, caster Allegiance, targets []*Member, allies, enemies []*Member) bool {
	if card == nil || len(targets) == 0 {
		return false
	}
	if targets[0] == nil {
		return false
	}
	side := targets[0].Side
	team := allies
	if side == Enemy {
		team = enemies
	}
	onTeam := make(map[*Member]bool, len(team))
	for _, m := range team {
		onTeam[m] = true
	}

	seen := make(map[*Member]bool, len(targets))
	for _, t := range targets {
		if t == nil || !onTeam[t] || seen[t] || !CanTarget(card, caster, t) {
			return false
		}
		seen[t] = true
	}

	limit := TargetLimit(card, side, caster, len(Living(team)))
	return len(targets) <= limit
}
