package game

import "math"

type AIPhase int

const (
	AIEvaluating AIPhase = iota
	AIApplying
	AIExhausted
)

func (p AIPhase) String() string {
	switch p {
	case AIEvaluating:
		return "Evaluating"
	case AIApplying:
		return "Applying"
	case AIExhausted:
		return "Exhausted"
	default:
		return "Unknown"
	}
}

// Evaluation is the score one group's representative card got in one iteration.
type Evaluation struct {
	Card         *Card
	ValidTargets int
	Score        float64
}

// AIMove is the result of one Step: the chosen play, what it did, and every
// evaluation considered. Card is nil when the step exhausted the turn.
type AIMove struct {
	Card        *Card
	Targets     []*Member
	Score       float64
	Removed     int
	Outcomes    []Outcome
	Evaluations []Evaluation
}

// AITurn plays one side's hand group by group until nothing playable remains.
// It owns the hand it was given.
type AITurn struct {
	side   Allegiance
	eval   Evaluator
	roster RosterProvider
	hand   Hand
	phase  AIPhase
	chosen *Scored
	card   *Card
}

// NewAITurn starts an AI turn over hand for side.
func NewAITurn(side Allegiance, eval Evaluator, roster RosterProvider, hand Hand) *AITurn {
	t := &AITurn{side: side, eval: eval, roster: roster, hand: hand}
	if hand.Exhausted() {
		t.phase = AIExhausted
	}
	return t
}

func (t *AITurn) Phase() AIPhase { return t.phase }
func (t *AITurn) Hand() Hand     { return t.hand }
func (t *AITurn) Done() bool     { return t.phase == AIExhausted }

// Evaluate scores every group and selects the best. Ties keep the first group in
// hand order. Reports false and exhausts the turn when no group can be played.
func (t *AITurn) Evaluate() ([]Evaluation, bool) {
	if t.phase != AIEvaluating {
		return nil, t.phase == AIApplying
	}

	view := PerspectiveOf(t.roster, t.side)
	groups := t.hand.Groups()
	evals := make([]Evaluation, 0, len(groups))
	best := Scored{Score: math.Inf(-1)}
	var bestCard *Card

	for _, g := range groups {
		valid := ValidTargets(g.Card, t.roster.AllyTeam(), t.roster.EnemyTeam(), t.side)
		s := t.eval.Evaluate(g.Card, view, valid)
		if !s.Playable() {
			s = unplayable
		}
		evals = append(evals, Evaluation{Card: g.Card, ValidTargets: len(valid), Score: s.Score})
		if s.Score > best.Score {
			best = s
			bestCard = g.Card
		}
	}

	if bestCard == nil {
		t.phase = AIExhausted
		return evals, false
	}
	t.chosen = &best
	t.card = bestCard
	t.phase = AIApplying
	return evals, true
}

// Apply plays the selected card and removes its whole role group from the hand.
func (t *AITurn) Apply() AIMove {
	if t.phase != AIApplying || t.chosen == nil {
		return AIMove{}
	}
	move := AIMove{
		Card:     t.card,
		Targets:  t.chosen.Targets,
		Score:    t.chosen.Score,
		Outcomes: ApplyEffect(t.card, t.side, t.chosen.Targets),
		Removed:  t.hand.RemoveRole(t.card.Role),
	}
	t.chosen, t.card = nil, nil
	if t.hand.Exhausted() {
		t.phase = AIExhausted
	} else {
		t.phase = AIEvaluating
	}
	return move
}

// Step runs one Evaluating → Applying cycle.
func (t *AITurn) Step() AIMove {
	evals, ok := t.Evaluate()
	if !ok {
		return AIMove{Evaluations: evals}
	}
	move := t.Apply()
	move.Evaluations = evals
	return move
}

// Run steps until the turn is exhausted and returns every move made.
func (t *AITurn) Run() []AIMove {
	var moves []AIMove
	for !t.Done() {
		move := t.Step()
		if move.Card == nil {
			break
		}
		moves = append(moves, move)
	}
	return moves
}
