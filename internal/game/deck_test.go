package game

import (
	"math/rand"
	"strings"
	"testing"
)

func TestDrawHandSize(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	guitar := damageCard("Riff", RoleGuitar, 5)

	tests := []struct {
		name  string
		deck  Deck
		count int
		want  int
	}{
		{"smaller deck", Deck{guitar, guitar, guitar}, 5, 3},
		{"larger deck", Deck{guitar, guitar, guitar, guitar, guitar, guitar, guitar}, 5, 5},
		{"single card", Deck{guitar}, 5, 1},
		{"with placeholder", Deck{nil, guitar}, 5, 2},
		{"empty deck", Deck{}, 5, 0},
		{"nil deck", nil, 5, 0},
		{"placeholders only", Deck{nil, nil, nil}, 5, 0},
		{"zero count", Deck{guitar}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hand := DrawHand(rng, tt.deck, tt.count)
			if len(hand) != tt.want {
				t.Errorf("Expected %d slots, got %d", tt.want, len(hand))
			}
		})
	}
}

func TestDrawHandSamplesFromDeck(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	a := damageCard("A", RoleGuitar, 1)
	b := healCard("B", RoleBass, 1)
	deck := Deck{a, b}

	for i := 0; i < 20; i++ {
		for _, c := range DrawHand(rng, deck, 2) {
			if c != a && c != b {
				t.Fatalf("Drew a card that is not in the deck: %v", c)
			}
		}
	}
}

const testDeckYAML = `
cards:
  - name: Feedback Loop
    role: keys
    damage: 9
    hit_effect: fx_feedback
decks:
  - name: Openers
    cards:
      - name: Power Chord
        count: 2
      - name: Feedback Loop
      - blank: true
        count: 2
  - name: Closers
    cards:
      - name: Encore Ballad
`

func TestParseDeckData(t *testing.T) {
	df, err := ParseDeckData([]byte(testDeckYAML))
	if err != nil {
		t.Fatalf("ParseDeckData: %v", err)
	}

	name, deck, err := df.DeckByNumber(1)
	if err != nil {
		t.Fatalf("DeckByNumber: %v", err)
	}
	if name != "Openers" {
		t.Errorf("Expected Openers, got %s", name)
	}
	if len(deck) != 5 {
		t.Fatalf("Expected 5 slots (2 + 1 + 2 blanks), got %d", len(deck))
	}
	if deck[0].Name != "Power Chord" || deck[1].Name != "Power Chord" {
		t.Errorf("Expected two Power Chords first, got %v", deck[:2])
	}
	custom := deck[2]
	if custom.Role != RoleKeyboard || custom.DamageBonus != 9 || custom.MaxMultiTargets != 1 {
		t.Errorf("Custom card decoded wrong: %+v", custom)
	}
	if deck[3] != nil || deck[4] != nil {
		t.Error("Expected blank slots to be placeholders")
	}

	closers, err := df.DeckByName("closers")
	if err != nil {
		t.Fatalf("DeckByName: %v", err)
	}
	if len(closers) != 1 || !closers[0].IsHealing() {
		t.Errorf("Unexpected Closers deck: %v", closers)
	}

	if _, _, err := df.DeckByNumber(3); err == nil {
		t.Error("Expected error for missing deck number")
	}
}

func TestParseDeckDataErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown card", "decks:\n  - name: X\n    cards:\n      - name: Kazoo\n", "card not found"},
		{"bad role", "cards:\n  - name: Y\n    role: triangle\n    damage: 1\ndecks: []\n", "unknown role"},
		{"negative count", "decks:\n  - name: X\n    cards:\n      - name: Scream\n        count: -1\n", "negative count"},
		{"too many targets", "cards:\n  - name: Z\n    role: drums\n    damage: 1\n    max_targets: 9\ndecks: []\n", "max_targets"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			df, err := ParseDeckData([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("ParseDeckData: %v", err)
			}
			_, err = df.Catalog()
			if err == nil && len(df.Decks) > 0 {
				_, err = df.BuildDeck(df.Decks[0])
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestCardRegistryIsValid(t *testing.T) {
	for _, name := range CardNames() {
		card, ok := LookupCard(name)
		if !ok {
			t.Fatalf("LookupCard(%q) failed", name)
		}
		if card.Name != name {
			t.Errorf("Registry key %q builds card named %q", name, card.Name)
		}
		if err := card.Validate(); err != nil {
			t.Errorf("Invalid built-in card: %v", err)
		}
	}
}
