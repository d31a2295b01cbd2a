package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/peterkuimelis/bandclash/internal/log"
)

func twoByTwo(t *testing.T) *Rosters {
	t.Helper()
	return rostersOf(fullTeam(t, Ally, 2), fullTeam(t, Enemy, 2))
}

func TestNewMatchSetupErrors(t *testing.T) {
	display := NewScriptedDisplay()
	if _, err := NewMatch(MatchConfig{}, nil, display); !errors.Is(err, ErrNoRoster) {
		t.Errorf("Expected ErrNoRoster, got %v", err)
	}
	if _, err := NewMatch(MatchConfig{}, twoByTwo(t), nil); !errors.Is(err, ErrNoDisplay) {
		t.Errorf("Expected ErrNoDisplay, got %v", err)
	}
	empty := &Rosters{Allies: nil, Enemies: fullTeam(t, Enemy, 1)}
	if _, err := NewMatch(MatchConfig{}, empty, display); !errors.Is(err, ErrEmptyRoster) {
		t.Errorf("Expected ErrEmptyRoster, got %v", err)
	}
}

// TestTurnLoop: Player → Enemy on EndPlayerTurn, Enemy → Player once the AI is exhausted.
func TestTurnLoop(t *testing.T) {
	riff := damageCard("Riff", RoleGuitar, 5)
	cfg := MatchConfig{AllyDeck: fixedDeck(riff), EnemyDeck: fixedDeck(riff)}
	m, display, logger := newTestMatch(t, cfg, twoByTwo(t))

	if m.Turn() != TurnPlayer || m.State() != statePlayer {
		t.Fatalf("Expected player turn, got %s (%s)", m.Turn(), m.State())
	}
	if len(display.LastHand()) != 1 || !display.enabled {
		t.Fatalf("Expected a 1-card hand with input enabled, got %v enabled=%v", display.LastHand(), display.enabled)
	}

	if err := m.EndPlayerTurn(); err != nil {
		t.Fatalf("EndPlayerTurn: %v", err)
	}
	if m.Turn() != TurnEnemy {
		t.Fatalf("Expected enemy turn, got %s", m.Turn())
	}
	if display.enabled {
		t.Error("Expected input disabled during the enemy turn")
	}
	if phase, ok := m.AIPhase(); !ok || phase != AIEvaluating {
		t.Errorf("Expected AI Evaluating, got %v %v", phase, ok)
	}
	if err := m.EndPlayerTurn(); !errors.Is(err, ErrNotPlayerTurn) {
		t.Errorf("Expected ErrNotPlayerTurn, got %v", err)
	}

	hands := len(display.hands)
	m.Update(0)

	if m.Turn() != TurnPlayer || m.TurnNumber() != 3 {
		t.Fatalf("Expected player turn 3, got %s turn %d", m.Turn(), m.TurnNumber())
	}
	if len(display.hands) <= hands || len(display.LastHand()) != 1 {
		t.Error("Expected a fresh hand pushed for the new player turn")
	}
	if got := len(logger.EventsOfType(log.EventNewTurn)); got != 3 {
		t.Errorf("Expected 3 turn starts, got %d", got)
	}
	if m.Roster().AllyTeam()[0].Health() != 95 {
		t.Errorf("Expected the AI to hit the first ally, got %d", m.Roster().AllyTeam()[0].Health())
	}
	t.Logf("Event log:\n%s", log.FormatAll(logger.Events()))
}

func TestPlayCard(t *testing.T) {
	riff := damageCard("Riff", RoleGuitar, 15)
	cfg := MatchConfig{AllyDeck: Deck{riff, riff, riff}, EnemyDeck: fixedDeck(riff), HandSize: 3}
	roster := twoByTwo(t)
	m, display, logger := newTestMatch(t, cfg, roster)
	ally, enemy := roster.Allies[0], roster.Enemies[1]

	if m.PlayCard(0, []*Member{ally}) {
		t.Fatal("Damage on an ally must be rejected")
	}
	if m.PlayCard(7, []*Member{enemy}) {
		t.Fatal("Out of range slot must be rejected")
	}
	if ally.Health() != 100 {
		t.Fatalf("Rejected play mutated the roster: %d", ally.Health())
	}
	if got := len(logger.EventsOfType(log.EventInvalidPlay)); got != 2 {
		t.Errorf("Expected 2 invalid play events, got %d", got)
	}

	if !m.PlayCard(0, []*Member{enemy}) {
		t.Fatal("Expected a valid play")
	}
	if enemy.Health() != 85 {
		t.Errorf("Expected 85, got %d", enemy.Health())
	}
	// All three Riffs share a role, so the hand empties and the turn ends.
	if m.Turn() != TurnEnemy {
		t.Errorf("Expected hand exhaustion to end the player turn, got %s", m.Turn())
	}
	if len(display.LastHand()) != 0 {
		t.Errorf("Expected the display hand cleared, got %v", display.LastHand())
	}
	if m.PlayCard(0, []*Member{enemy}) {
		t.Error("Plays during the enemy turn must be rejected")
	}
	if len(display.events) != len(logger.Events()) {
		t.Errorf("Expected every event notified, got %d of %d", len(display.events), len(logger.Events()))
	}
}

func TestEnemiesWin(t *testing.T) {
	allies := []*Member{member(t, "Last", Ally, 4, 100)}
	roster := rostersOf(allies, fullTeam(t, Enemy, 1))
	cfg := MatchConfig{
		AllyDeck:  fixedDeck(healCard("Hum", RoleSinger, 1)),
		EnemyDeck: fixedDeck(damageCard("Riff", RoleGuitar, 5)),
	}
	m, _, logger := newTestMatch(t, cfg, roster)
	runToCompletion(t, m, logger)

	winner, ok := m.Winner()
	if !ok || winner != Enemy || m.Result() != "Enemies win" {
		t.Fatalf("Expected Enemies win, got %s (%v)", m.Result(), ok)
	}
	if got := len(logger.EventsOfType(log.EventNewTurn)); got != 2 {
		t.Errorf("Expected no turn after the win, got %d turn starts", got)
	}
	if logger.LastEvent().Type != log.EventWin {
		t.Errorf("Expected the win to be the last event, got %s", logger.LastEvent().Type)
	}

	m.Update(time.Second)
	if err := m.EndPlayerTurn(); !errors.Is(err, ErrMatchOver) {
		t.Errorf("Expected ErrMatchOver, got %v", err)
	}
	if err := m.Start(context.Background()); !errors.Is(err, ErrMatchOver) {
		t.Errorf("Expected ErrMatchOver from Start, got %v", err)
	}
}

func TestPlayerWinsOnOwnTurn(t *testing.T) {
	enemies := []*Member{member(t, "Last", Enemy, 10, 100)}
	roster := rostersOf(fullTeam(t, Ally, 1), enemies)
	finisher := damageCard("Finisher", RoleGuitar, 20)
	cfg := MatchConfig{AllyDeck: fixedDeck(finisher), EnemyDeck: fixedDeck(finisher)}
	m, _, logger := newTestMatch(t, cfg, roster)

	if !m.PlayCard(0, []*Member{enemies[0]}) {
		t.Fatal("Expected a valid play")
	}
	if !m.Over() || m.Result() != "Player wins" {
		t.Fatalf("Expected Player wins, got %q", m.Result())
	}
	if got := len(logger.EventsOfType(log.EventDowned)); got != 1 {
		t.Errorf("Expected a downed event, got %d", got)
	}
}

func TestEmptyDecksAreRecoverable(t *testing.T) {
	cfg := MatchConfig{AllyDeck: Deck{nil}, EnemyDeck: nil, MaxTurns: 4}
	m, _, logger := newTestMatch(t, cfg, twoByTwo(t))

	// The player's empty draw ends the turn immediately.
	if m.Turn() != TurnEnemy {
		t.Fatalf("Expected enemy turn after an empty player draw, got %s", m.Turn())
	}
	runToCompletion(t, m, logger)

	if got := len(logger.EventsOfType(log.EventDrawFailed)); got != 4 {
		t.Errorf("Expected 4 draw failures, got %d", got)
	}
	if _, ok := m.Winner(); ok {
		t.Error("Expected no winner")
	}
	if len(logger.EventsOfType(log.EventStalemate)) != 1 {
		t.Error("Expected the turn limit to end the match")
	}
}

func TestAIMoveDelay(t *testing.T) {
	riff := damageCard("Riff", RoleGuitar, 5)
	hum := healCard("Hum", RoleSinger, 5)
	cfg := MatchConfig{AllyDeck: fixedDeck(riff), EnemyDeck: Deck{riff, hum}, AIMoveDelay: time.Second, HandSize: 2}
	m, _, logger := newTestMatch(t, cfg, twoByTwo(t))
	if err := m.EndPlayerTurn(); err != nil {
		t.Fatalf("EndPlayerTurn: %v", err)
	}

	// The first move is immediate.
	m.Update(0)
	if got := len(logger.EventsOfType(log.EventPlay)); got != 1 {
		t.Fatalf("Expected one AI play, got %d", got)
	}
	m.Update(500 * time.Millisecond)
	if m.Turn() != TurnEnemy || len(logger.EventsOfType(log.EventPlay)) != 1 {
		t.Fatal("Expected the AI to wait out its move delay")
	}
	for i := 0; i < 4 && m.Turn() == TurnEnemy; i++ {
		m.Update(500 * time.Millisecond)
	}
	if m.Turn() != TurnPlayer {
		t.Errorf("Expected the enemy turn to finish, got %s", m.Turn())
	}
}

func TestSimulatedMatch(t *testing.T) {
	hit := damageCard("Hit", RoleGuitar, 50)
	cfg := MatchConfig{
		AllyDeck:  fixedDeck(hit),
		EnemyDeck: fixedDeck(hit),
		AllyAI:    &BeginnerEvaluator{},
	}
	roster := rostersOf(fullTeam(t, Ally, 1), fullTeam(t, Enemy, 1))
	m, display, logger := newTestMatch(t, cfg, roster)
	if m.HumanTurn() {
		t.Fatal("AI-driven allies should not wait for input")
	}
	runToCompletion(t, m, logger)

	if winner, ok := m.Winner(); !ok || winner != Ally {
		t.Errorf("Expected the first mover to win, got %s", m.Result())
	}
	if m.TurnNumber() != 3 {
		t.Errorf("Expected the match to end on turn 3, got %d", m.TurnNumber())
	}
	for _, enabled := range display.inputs {
		if enabled {
			t.Error("Input should never be enabled in a simulated match")
		}
	}
}
