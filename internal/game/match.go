package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/looplab/fsm"

	"github.com/peterkuimelis/bandclash/internal/log"
)

// Display is the surface a human player sees the hand through.
type Display interface {
	// SetHand pushes a newly drawn (or updated) hand and resets any selection.
	SetHand(hand Hand)

	// EnableInput gates player interaction.
	EnableInput(enabled bool)
}

// Notifier is implemented by displays that want every match event as it happens.
type Notifier interface {
	Notify(ctx context.Context, event log.GameEvent) error
}

var (
	ErrNoRoster      = errors.New("match has no roster provider")
	ErrNoDisplay     = errors.New("match has no display")
	ErrMatchOver     = errors.New("match is over")
	ErrNotPlayerTurn = errors.New("not the player's turn")
	ErrStarted       = errors.New("match already started")
)

const (
	stateIdle   = "idle"
	statePlayer = "player"
	stateEnemy  = "enemy"
	stateOver   = "over"

	eventStart         = "start"
	eventEndPlayerTurn = "end_player_turn"
	eventEndEnemyTurn  = "end_enemy_turn"
	eventFinish        = "finish"
)

// MatchConfig holds configuration for creating a new match.
type MatchConfig struct {
	AllyDeck    Deck
	EnemyDeck   Deck
	Difficulty  Difficulty
	AllyAI      Evaluator     // drive the Ally side with an evaluator (nil = human via Display)
	HandSize    int           // 0 = HandSize
	AIMoveDelay time.Duration // pause after each AI move; 0 plays a whole AI turn per tick
	MaxTurns    int           // stop after this many turns (0 = 200)
	Seed        int64         // RNG seed (0 for random)
	Logger      log.EventLogger
}

// Match runs the Player/Enemy turn loop between two rosters.
// It is not safe for concurrent use.
type Match struct {
	Logger log.EventLogger

	roster   RosterProvider
	display  Display
	notifier Notifier
	enemyAI  Evaluator
	allyAI   Evaluator
	rng      *rand.Rand
	fsm      *fsm.FSM
	ctx      context.Context

	allyDeck  Deck
	enemyDeck Deck
	handSize  int
	delay     time.Duration
	maxTurns  int

	turn    TurnState
	turnNum int
	hand    Hand
	ai      *AITurn
	wait    time.Duration
	winner  Allegiance
	hasWin  bool
	result  string
	seq     int
}

// NewMatch validates the collaborators and builds a match ready to Start.
func NewMatch(cfg MatchConfig, roster RosterProvider, display Display) (*Match, error) {
	if roster == nil {
		return nil, ErrNoRoster
	}
	if display == nil {
		return nil, ErrNoDisplay
	}
	if len(roster.AllyTeam()) == 0 {
		return nil, fmt.Errorf("ally team: %w", ErrEmptyRoster)
	}
	if len(roster.EnemyTeam()) == 0 {
		return nil, fmt.Errorf("enemy team: %w", ErrEmptyRoster)
	}
	enemyAI, err := NewEvaluator(cfg.Difficulty)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	handSize := cfg.HandSize
	if handSize == 0 {
		handSize = HandSize
	}
	maxTurns := cfg.MaxTurns
	if maxTurns == 0 {
		maxTurns = 200 // safety limit
	}

	m := &Match{
		Logger:    logger,
		roster:    roster,
		display:   display,
		enemyAI:   enemyAI,
		allyAI:    cfg.AllyAI,
		rng:       rand.New(rand.NewSource(seed)),
		ctx:       context.Background(),
		allyDeck:  cfg.AllyDeck,
		enemyDeck: cfg.EnemyDeck,
		handSize:  handSize,
		delay:     cfg.AIMoveDelay,
		maxTurns:  maxTurns,
	}
	m.notifier, _ = display.(Notifier)
	m.fsm = fsm.NewFSM(
		stateIdle,
		fsm.Events{
			{Name: eventStart, Src: []string{stateIdle}, Dst: statePlayer},
			{Name: eventEndPlayerTurn, Src: []string{statePlayer}, Dst: stateEnemy},
			{Name: eventEndEnemyTurn, Src: []string{stateEnemy}, Dst: statePlayer},
			{Name: eventFinish, Src: []string{statePlayer, stateEnemy}, Dst: stateOver},
		},
		fsm.Callbacks{
			"enter_" + statePlayer: func(_ context.Context, _ *fsm.Event) { m.turn = TurnPlayer },
			"enter_" + stateEnemy:  func(_ context.Context, _ *fsm.Event) { m.turn = TurnEnemy },
			"enter_" + stateOver:   func(_ context.Context, _ *fsm.Event) { m.ai = nil },
		},
	)
	return m, nil
}

// Start begins the first player turn.
func (m *Match) Start(ctx context.Context) error {
	if m.Over() {
		return ErrMatchOver
	}
	if !m.fsm.Is(stateIdle) {
		return ErrStarted
	}
	m.ctx = ctx
	if err := m.fsm.Event(ctx, eventStart); err != nil {
		return err
	}
	m.beginTurn()
	return nil
}

// --- Accessors ---

func (m *Match) Turn() TurnState        { return m.turn }
func (m *Match) TurnNumber() int        { return m.turnNum }
func (m *Match) Hand() Hand             { return m.hand }
func (m *Match) Over() bool             { return m.fsm.Is(stateOver) }
func (m *Match) Result() string         { return m.result }
func (m *Match) Roster() RosterProvider { return m.roster }
func (m *Match) State() string          { return m.fsm.Current() }
func (m *Match) Difficulty() string     { return m.enemyAI.Name() }

// Winner returns the winning side; ok is false while the match runs or after a stalemate.
func (m *Match) Winner() (side Allegiance, ok bool) {
	return m.winner, m.hasWin
}

// AIPhase reports the running AI turn's phase; ok is false when no AI is acting.
func (m *Match) AIPhase() (phase AIPhase, ok bool) {
	if m.ai == nil {
		return 0, false
	}
	return m.ai.Phase(), true
}

// HumanTurn reports whether the match is waiting on Display input.
func (m *Match) HumanTurn() bool {
	return !m.Over() && m.fsm.Is(statePlayer) && m.allyAI == nil
}

// --- Player path ---

// PlayCard plays the card in hand slot for the Ally side. Invalid plays are logged and
// rejected without touching the rosters. After a valid play every card of the same role
// leaves the hand; an exhausted hand ends the player turn.
func (m *Match) PlayCard(slot int, targets []*Member) bool {
	if !m.HumanTurn() {
		return false
	}
	if slot < 0 || slot >= len(m.hand) || m.hand[slot] == nil {
		m.log(log.NewInvalidPlayEvent(m.turnNum, Ally.String(), "", fmt.Sprintf("no card in slot %d", slot)))
		return false
	}
	card := m.hand[slot]
	if !ValidSelection(card, Ally, targets, m.roster.AllyTeam(), m.roster.EnemyTeam()) {
		m.log(log.NewInvalidPlayEvent(m.turnNum, Ally.String(), card.Name, "illegal target selection"))
		return false
	}
	outcomes := ApplyEffect(card, Ally, targets)
	if len(outcomes) == 0 {
		m.log(log.NewInvalidPlayEvent(m.turnNum, Ally.String(), card.Name, "card has no effect on those targets"))
		return false
	}

	m.logPlay(Ally, card, targets, outcomes)
	m.hand.RemoveRole(card.Role)
	m.display.SetHand(m.hand)
	if m.hand.Exhausted() {
		m.endPlayerTurn()
	}
	return true
}

// EndPlayerTurn ends the human player's turn explicitly.
func (m *Match) EndPlayerTurn() error {
	if m.Over() {
		return ErrMatchOver
	}
	if !m.HumanTurn() {
		return ErrNotPlayerTurn
	}
	m.endPlayerTurn()
	return nil
}

// --- Tick ---

// Update advances AI play by dt. Within one call the AI keeps moving while its pacing
// delay has elapsed, but never past the end of the current turn.
func (m *Match) Update(dt time.Duration) {
	if m.ai == nil || m.Over() {
		return
	}
	m.wait -= dt
	turn := m.turnNum
	for m.ai != nil && !m.Over() && m.turnNum == turn && m.wait <= 0 {
		m.stepAI()
	}
}

func (m *Match) stepAI() {
	side := m.turn.Side()
	if m.ai.Done() {
		m.endAITurn(side)
		return
	}

	move := m.ai.Step()
	for _, ev := range move.Evaluations {
		m.log(log.NewAIEvaluateEvent(m.turnNum, side.String(), ev.Card.Name, ev.ValidTargets, ev.Score))
	}
	if move.Card == nil {
		m.log(log.NewAIExhaustedEvent(m.turnNum, side.String(), len(m.ai.Hand().Groups())))
		m.endAITurn(side)
		return
	}
	m.logPlay(side, move.Card, move.Targets, move.Outcomes)
	m.wait += m.delay
}

func (m *Match) endAITurn(side Allegiance) {
	if side == Ally {
		m.endPlayerTurn()
	} else {
		m.endEnemyTurn()
	}
}

// --- Turn transitions ---

func (m *Match) beginTurn() {
	if m.turnNum >= m.maxTurns {
		m.stalemate(fmt.Sprintf("Turn limit reached (%d turns)", m.maxTurns))
		return
	}
	m.turnNum++

	side := m.turn.Side()
	m.log(log.NewTurnEvent(m.turnNum, side.String()))

	deck := m.allyDeck
	if side == Enemy {
		deck = m.enemyDeck
	}
	m.hand = DrawHand(m.rng, deck, m.handSize)
	if len(m.hand) == 0 {
		m.log(log.NewDrawFailedEvent(m.turnNum, side.String(), "deck is empty or holds only placeholders"))
	} else {
		m.log(log.NewDrawHandEvent(m.turnNum, side.String(), m.hand.Names()))
	}

	eval := m.enemyAI
	if side == Ally {
		eval = m.allyAI
	}
	if eval == nil {
		m.display.SetHand(m.hand)
		m.display.EnableInput(true)
		if m.hand.Exhausted() {
			m.endPlayerTurn()
		}
		return
	}

	m.display.EnableInput(false)
	m.ai = NewAITurn(side, eval, m.roster, m.hand)
	m.wait = 0
}

func (m *Match) endPlayerTurn() {
	m.finishTurn(Ally, eventEndPlayerTurn)
}

func (m *Match) endEnemyTurn() {
	m.finishTurn(Enemy, eventEndEnemyTurn)
}

func (m *Match) finishTurn(side Allegiance, event string) {
	m.ai = nil
	m.log(log.NewTurnEndEvent(m.turnNum, side.String()))
	if side == Ally && m.allyAI == nil {
		m.display.EnableInput(false)
		m.hand = Hand{}
		m.display.SetHand(m.hand)
	}
	if m.checkWin() {
		return
	}
	if err := m.fsm.Event(m.ctx, event); err != nil {
		m.stalemate(fmt.Sprintf("turn transition failed: %v", err))
		return
	}
	m.beginTurn()
}

// checkWin ends the match when one side has no living members.
func (m *Match) checkWin() bool {
	switch {
	case AllDowned(m.roster.AllyTeam()):
		m.winner, m.result = Enemy, "Enemies win"
	case AllDowned(m.roster.EnemyTeam()):
		m.winner, m.result = Ally, "Player wins"
	default:
		return false
	}
	m.hasWin = true
	_ = m.fsm.Event(m.ctx, eventFinish)
	m.display.EnableInput(false)
	m.log(log.NewWinEvent(m.turnNum, m.winner.String(), m.result))
	return true
}

func (m *Match) stalemate(reason string) {
	m.result = reason
	_ = m.fsm.Event(m.ctx, eventFinish)
	m.display.EnableInput(false)
	m.log(log.NewStalemateEvent(m.turnNum, reason))
}

// --- Logging ---

func (m *Match) logPlay(side Allegiance, card *Card, targets []*Member, outcomes []Outcome) {
	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = t.Name
	}
	m.log(log.NewPlayEvent(m.turnNum, side.String(), card.Name, names))
	for _, o := range outcomes {
		if o.Kind == EffectHeal {
			m.log(log.NewHealEvent(m.turnNum, side.String(), card.Name, o.Target.Name, o.Amount, o.Before, o.After))
		} else {
			m.log(log.NewDamageEvent(m.turnNum, side.String(), card.Name, o.Target.Name, o.Amount, o.Before, o.After))
		}
		if o.Downed() {
			m.log(log.NewDownedEvent(m.turnNum, side.String(), o.Target.Name))
		}
	}
}

func (m *Match) log(event log.GameEvent) {
	m.seq++
	event.Seq = m.seq
	m.Logger.Log(event)
	// ignore errors for notifications
	if m.notifier != nil {
		_ = m.notifier.Notify(m.ctx, event)
	}
}
