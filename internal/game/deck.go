package game

import (
	"fmt"
	"math/rand"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DeckFile represents the top-level YAML structure.
type DeckFile struct {
	Cards []CardDef   `yaml:"cards"`
	Decks []DeckEntry `yaml:"decks"`
}

// CardDef is a custom card definition. It shadows a built-in card of the same name.
type CardDef struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Role        string `yaml:"role"`
	Damage      int    `yaml:"damage"`
	Heal        int    `yaml:"heal"`
	MaxTargets  int    `yaml:"max_targets"`
	HitEffect   string `yaml:"hit_effect"`
}

// DeckEntry represents a single deck in the YAML file.
type DeckEntry struct {
	Name  string      `yaml:"name"`
	Cards []CardEntry `yaml:"cards"`
}

// CardEntry represents a card and its count in a deck. Blank entries add placeholder slots.
type CardEntry struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
	Blank bool   `yaml:"blank"`
}

// LoadDeckFile reads and decodes a YAML deck file.
func LoadDeckFile(path string) (*DeckFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	df, err := ParseDeckData(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return df, nil
}

// ParseDeckData decodes deck YAML.
func ParseDeckData(data []byte) (*DeckFile, error) {
	var df DeckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parse deck YAML: %w", err)
	}
	return &df, nil
}

// Catalog returns the custom card definitions as cards, keyed by name.
func (df *DeckFile) Catalog() (map[string]*Card, error) {
	custom := make(map[string]*Card, len(df.Cards))
	for _, def := range df.Cards {
		role, err := ParseRole(def.Role)
		if err != nil {
			return nil, fmt.Errorf("card %q: %w", def.Name, err)
		}
		maxTargets := def.MaxTargets
		if maxTargets == 0 {
			maxTargets = 1
		}
		card := &Card{
			Name:            def.Name,
			Description:     def.Description,
			Role:            role,
			DamageBonus:     def.Damage,
			HealthBonus:     def.Heal,
			MaxMultiTargets: maxTargets,
			HitEffect:       def.HitEffect,
		}
		if err := card.Validate(); err != nil {
			return nil, err
		}
		custom[def.Name] = card
	}
	return custom, nil
}

// lookup resolves a card name against custom definitions first, then the registry.
func lookup(custom map[string]*Card, name string) (*Card, error) {
	if c, ok := custom[name]; ok {
		return c, nil
	}
	if c, ok := LookupCard(name); ok {
		return c, nil
	}
	return nil, fmt.Errorf("card not found: %q", name)
}

// BuildDeck expands one deck entry into card slots.
func (df *DeckFile) BuildDeck(entry DeckEntry) (Deck, error) {
	custom, err := df.Catalog()
	if err != nil {
		return nil, err
	}
	return buildDeck(custom, entry)
}

func buildDeck(custom map[string]*Card, entry DeckEntry) (Deck, error) {
	var deck Deck
	for _, ce := range entry.Cards {
		count := ce.Count
		if count == 0 {
			count = 1
		}
		if count < 0 {
			return nil, fmt.Errorf("deck %q: card %q has negative count %d", entry.Name, ce.Name, ce.Count)
		}
		if ce.Blank {
			for i := 0; i < count; i++ {
				deck = append(deck, nil)
			}
			continue
		}
		card, err := lookup(custom, ce.Name)
		if err != nil {
			return nil, fmt.Errorf("deck %q: %w", entry.Name, err)
		}
		for i := 0; i < count; i++ {
			deck = append(deck, card)
		}
	}
	return deck, nil
}

// DeckByNumber returns the Nth deck (1-indexed).
func (df *DeckFile) DeckByNumber(n int) (string, Deck, error) {
	if n < 1 || n > len(df.Decks) {
		return "", nil, fmt.Errorf("deck %d not found (have %d decks)", n, len(df.Decks))
	}
	entry := df.Decks[n-1]
	deck, err := df.BuildDeck(entry)
	if err != nil {
		return "", nil, err
	}
	return entry.Name, deck, nil
}

// DeckByName returns the deck with the given name, ignoring case.
func (df *DeckFile) DeckByName(name string) (Deck, error) {
	for _, entry := range df.Decks {
		if strings.EqualFold(entry.Name, name) {
			return df.BuildDeck(entry)
		}
	}
	return nil, fmt.Errorf("deck %q not found", name)
}

// DeckByNumber returns the Nth deck (1-indexed) from the deck file.
func DeckByNumber(path string, n int) (string, Deck, error) {
	df, err := LoadDeckFile(path)
	if err != nil {
		return "", nil, err
	}
	return df.DeckByNumber(n)
}

// DrawHand samples count slots from deck uniformly with replacement. An empty or
// placeholder-only deck yields an empty hand. Placeholders may be drawn and stay nil.
func DrawHand(rng *rand.Rand, deck Deck, count int) Hand {
	if !deck.Playable() || count <= 0 {
		return Hand{}
	}
	if count > len(deck) {
		count = len(deck)
	}
	hand := make(Hand, count)
	for i := range hand {
		hand[i] = deck[rng.Intn(len(deck))]
	}
	return hand
}
