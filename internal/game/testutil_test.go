package game

import (
	"context"
	"testing"

	"github.com/peterkuimelis/bandclash/internal/log"
)

// ScriptedDisplay is a Display that records what the match pushed to it.
// Used in tests to observe the player path deterministically.
type ScriptedDisplay struct {
	hands   []Hand
	inputs  []bool
	events  []log.GameEvent
	enabled bool
}

func NewScriptedDisplay() *ScriptedDisplay {
	return &ScriptedDisplay{}
}

func (sd *ScriptedDisplay) SetHand(hand Hand) {
	cp := make(Hand, len(hand))
	copy(cp, hand)
	sd.hands = append(sd.hands, cp)
}

func (sd *ScriptedDisplay) EnableInput(enabled bool) {
	sd.enabled = enabled
	sd.inputs = append(sd.inputs, enabled)
}

func (sd *ScriptedDisplay) Notify(ctx context.Context, event log.GameEvent) error {
	sd.events = append(sd.events, event)
	return nil
}

// LastHand returns the most recent hand pushed to the display.
func (sd *ScriptedDisplay) LastHand() Hand {
	if len(sd.hands) == 0 {
		return nil
	}
	return sd.hands[len(sd.hands)-1]
}

// --- Test roster and card helpers ---

func member(t *testing.T, name string, side Allegiance, health, maxHealth int) *Member {
	t.Helper()
	m, err := NewMember(name, side, RoleGuitar, maxHealth)
	if err != nil {
		t.Fatalf("NewMember(%s): %v", name, err)
	}
	m.TakeDamage(maxHealth - health)
	return m
}

func healCard(name string, role Role, heal int) *Card {
	return &Card{Name: name, Role: role, HealthBonus: heal, MaxMultiTargets: 1}
}

func damageCard(name string, role Role, dmg int) *Card {
	return &Card{Name: name, Role: role, DamageBonus: dmg, MaxMultiTargets: 1}
}

func multiCard(name string, role Role, dmg, maxTargets int) *Card {
	return &Card{Name: name, Role: role, DamageBonus: dmg, MaxMultiTargets: maxTargets}
}

// fixedDeck returns a deck made of one card so every draw is that card.
func fixedDeck(c *Card) Deck {
	return Deck{c}
}

// newTestMatch builds a started match with deterministic settings.
func newTestMatch(t *testing.T, cfg MatchConfig, roster *Rosters) (*Match, *ScriptedDisplay, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	cfg.Logger = logger
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	if cfg.MaxTurns == 0 {
		cfg.MaxTurns = 50 // reasonable default for tests
	}
	display := NewScriptedDisplay()

	m, err := NewMatch(cfg, roster, display)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return m, display, logger
}

// runToCompletion ticks the match until it ends and returns the logger for inspection.
func runToCompletion(t *testing.T, m *Match, logger *log.MemoryLogger) {
	t.Helper()
	for i := 0; i < 10000 && !m.Over(); i++ {
		if m.HumanTurn() {
			if err := m.EndPlayerTurn(); err != nil {
				t.Fatalf("EndPlayerTurn: %v", err)
			}
			continue
		}
		m.Update(0)
	}
	if !m.Over() {
		t.Logf("Event log:\n%s", log.FormatAll(logger.Events()))
		t.Fatal("match did not finish")
	}

	// Always print event log for visibility (tests are run with -v)
	t.Logf("Match result: %s", m.Result())
	t.Logf("Event log:\n%s", log.FormatAll(logger.Events()))
}
