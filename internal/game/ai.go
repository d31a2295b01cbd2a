package game

import (
	"fmt"
	"math"
	"sort"
)

// Perspective is the board as seen by the AI's side.
type Perspective struct {
	Own       []*Member
	Opponents []*Member
}

// PerspectiveOf builds the view for the given side.
func PerspectiveOf(rp RosterProvider, side Allegiance) Perspective {
	return Perspective{Own: Team(rp, side), Opponents: Team(rp, side.Opponent())}
}

// Scored is an evaluated play: a score and the members it would affect.
type Scored struct {
	Score   float64
	Targets []*Member
}

// Playable reports whether the play has anyone to affect.
func (s Scored) Playable() bool {
	return len(s.Targets) > 0 && !math.IsInf(s.Score, -1)
}

var unplayable = Scored{Score: math.Inf(-1)}

// Evaluator scores one card against the current board.
type Evaluator interface {
	Name() string
	Evaluate(card *Card, view Perspective, valid []*Member) Scored
}

// NewEvaluator creates the scoring strategy for a difficulty tier.
func NewEvaluator(d Difficulty) (Evaluator, error) {
	switch d {
	case Beginner:
		return &BeginnerEvaluator{}, nil
	case Normal:
		return &NormalEvaluator{}, nil
	case Hard:
		return &HardEvaluator{}, nil
	default:
		return nil, fmt.Errorf("unknown difficulty: %d", d)
	}
}

// --- Beginner: greedy, healing weighed by the team's worst wound ---

type BeginnerEvaluator struct{}

func (e *BeginnerEvaluator) Name() string { return Beginner.String() }

func (e *BeginnerEvaluator) Evaluate(card *Card, view Perspective, valid []*Member) Scored {
	if len(valid) == 0 {
		return unplayable
	}

	if card.IsHealing() {
		if target := lowestLiving(view.Own); target != nil {
			return Scored{
				Score:   float64(card.HealthBonus) * maxHealNeed(view.Own) * 10,
				Targets: []*Member{target},
			}
		}
	}
	if card.IsDamaging() {
		victims := byHealth(Living(view.Opponents))
		count := targetCount(card, len(victims))
		if count == 0 {
			return unplayable
		}
		return Scored{
			Score:   float64(card.DamageBonus * count),
			Targets: victims[:count],
		}
	}
	return unplayable
}

// --- Normal: heals only when the team is hurting, rewards kills ---

type NormalEvaluator struct{}

func (e *NormalEvaluator) Name() string { return Normal.String() }

func (e *NormalEvaluator) Evaluate(card *Card, view Perspective, valid []*Member) Scored {
	if len(valid) == 0 {
		return unplayable
	}

	if card.IsHealing() && prioritizeHealing(view.Own, 0.6, 0.5) {
		if target := lowestLiving(view.Own); target != nil {
			return Scored{
				Score:   float64(card.HealthBonus) * target.HealNeed() * 15,
				Targets: []*Member{target},
			}
		}
	} else if card.IsDamaging() {
		victims := byHealth(Living(view.Opponents))
		count := targetCount(card, len(victims))
		var score float64
		for _, t := range victims[:count] {
			efficiency := 1.0
			if card.DamageBonus >= t.Health() {
				efficiency = 1.5
			}
			score += float64(card.DamageBonus) * efficiency
		}
		if count > 0 {
			return Scored{Score: score, Targets: victims[:count]}
		}
	}
	return unplayable
}

// --- Hard: tighter heal threshold, kill and overkill modelling, survival bonus ---

type HardEvaluator struct{}

func (e *HardEvaluator) Name() string { return Hard.String() }

func (e *HardEvaluator) Evaluate(card *Card, view Perspective, valid []*Member) Scored {
	if len(valid) == 0 {
		return unplayable
	}

	if card.IsHealing() && prioritizeHealing(view.Own, 0.5, 0.4) {
		if target := lowestLiving(view.Own); target != nil {
			score := float64(card.HealthBonus) * target.HealNeed() * 20
			score += 10 * float64(len(Living(view.Own))) / float64(len(view.Own))
			return Scored{Score: score, Targets: []*Member{target}}
		}
	} else if card.IsDamaging() {
		victims := byHealth(Living(view.Opponents))
		count := targetCount(card, len(victims))
		var score float64
		kills := 0
		for _, t := range victims[:count] {
			// Lethal is checked first, so the overkill penalty only applies to
			// non-lethal hits, which cannot exceed twice the target's health.
			efficiency := 1.0
			switch {
			case card.DamageBonus >= t.Health():
				efficiency = 2.0
			case card.DamageBonus > 2*t.Health():
				efficiency = 0.5
			}
			score += float64(card.DamageBonus) * efficiency
			if t.Health() <= card.DamageBonus {
				kills++
			}
		}
		score += float64(kills) * 10
		if count > 0 {
			return Scored{Score: score, Targets: victims[:count]}
		}
	}
	return unplayable
}

// --- shared helpers ---

// byHealth returns members sorted by ascending health, roster order breaking ties.
func byHealth(members []*Member) []*Member {
	sorted := make([]*Member, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Health() < sorted[j].Health()
	})
	return sorted
}

func lowestLiving(team []*Member) *Member {
	living := byHealth(Living(team))
	if len(living) == 0 {
		return nil
	}
	return living[0]
}

func maxHealNeed(team []*Member) float64 {
	var need float64
	for _, m := range team {
		need = math.Max(need, m.HealNeed())
	}
	return need
}

// teamHealthRatio is living health over the whole team's max health.
func teamHealthRatio(team []*Member) float64 {
	var living, total int
	for _, m := range team {
		total += m.MaxHealth
		if m.IsAlive() {
			living += m.Health()
		}
	}
	if total == 0 {
		return 0
	}
	return float64(living) / float64(total)
}

// prioritizeHealing is true when the team ratio is below ratioFloor or any living
// member is below memberFloor of its max health.
func prioritizeHealing(team []*Member, ratioFloor, memberFloor float64) bool {
	if teamHealthRatio(team) < ratioFloor {
		return true
	}
	for _, m := range team {
		if m.IsAlive() && float64(m.Health()) < float64(m.MaxHealth)*memberFloor {
			return true
		}
	}
	return false
}

func targetCount(card *Card, available int) int {
	if available <= 0 {
		return 0
	}
	if card.IsMultiTarget() {
		return min(card.MaxMultiTargets, available)
	}
	return 1
}
