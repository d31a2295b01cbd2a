// Package config loads match settings from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/peterkuimelis/bandclash/internal/game"
)

// Member is one roster entry in the settings file.
type Member struct {
	Name      string `yaml:"name"`
	Role      string `yaml:"role"`
	MaxHealth int    `yaml:"max_health"`
}

// Match holds everything needed to set up a match.
type Match struct {
	Difficulty  string        `yaml:"difficulty"`
	HandSize    int           `yaml:"hand_size"`
	AIMoveDelay time.Duration `yaml:"ai_move_delay"`
	MaxTurns    int           `yaml:"max_turns"`
	Seed        int64         `yaml:"seed"`
	DecksFile   string        `yaml:"decks_file"`
	AllyDeck    int           `yaml:"ally_deck"`
	EnemyDeck   int           `yaml:"enemy_deck"`
	AllyTeam    []Member      `yaml:"ally_team"`
	EnemyTeam   []Member      `yaml:"enemy_team"`
}

// Default returns the settings used when no file is given.
func Default() *Match {
	return &Match{
		Difficulty:  game.Beginner.String(),
		HandSize:    game.HandSize,
		AIMoveDelay: time.Second,
		MaxTurns:    200,
		DecksFile:   "decks.yaml",
		AllyDeck:    1,
		EnemyDeck:   2,
		AllyTeam: []Member{
			{Name: "Riley", Role: "singer", MaxHealth: 100},
			{Name: "Jo", Role: "guitar", MaxHealth: 100},
			{Name: "Sam", Role: "bass", MaxHealth: 100},
			{Name: "Kit", Role: "drummer", MaxHealth: 100},
		},
		EnemyTeam: []Member{
			{Name: "Vex", Role: "singer", MaxHealth: 100},
			{Name: "Rook", Role: "guitar", MaxHealth: 100},
			{Name: "Moss", Role: "keyboard", MaxHealth: 100},
			{Name: "Drift", Role: "drummer", MaxHealth: 100},
		},
	}
}

// Load reads a settings file on top of the defaults. Fields missing from the file keep
// their default values.
func Load(path string) (*Match, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes settings YAML over the defaults and validates the result. Keys
// present in the file replace the default, including explicit zero values.
func Parse(data []byte) (*Match, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse settings YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field, naming the first one that is wrong.
func (c *Match) Validate() error {
	if _, err := game.ParseDifficulty(c.Difficulty); err != nil {
		return fmt.Errorf("difficulty: %w", err)
	}
	if c.HandSize < 1 {
		return fmt.Errorf("hand_size must be >= 1, got %d", c.HandSize)
	}
	if c.AIMoveDelay < 0 {
		return fmt.Errorf("ai_move_delay must not be negative, got %s", c.AIMoveDelay)
	}
	if c.MaxTurns < 1 {
		return fmt.Errorf("max_turns must be >= 1, got %d", c.MaxTurns)
	}
	if c.AllyDeck < 1 || c.EnemyDeck < 1 {
		return fmt.Errorf("ally_deck and enemy_deck are 1-indexed, got %d and %d", c.AllyDeck, c.EnemyDeck)
	}
	if _, err := specs("ally_team", c.AllyTeam); err != nil {
		return err
	}
	if _, err := specs("enemy_team", c.EnemyTeam); err != nil {
		return err
	}
	return nil
}

// DifficultyLevel returns the parsed difficulty.
func (c *Match) DifficultyLevel() game.Difficulty {
	d, _ := game.ParseDifficulty(c.Difficulty)
	return d
}

// Rosters builds both teams at full health.
func (c *Match) Rosters() (*game.Rosters, error) {
	allySpecs, err := specs("ally_team", c.AllyTeam)
	if err != nil {
		return nil, err
	}
	enemySpecs, err := specs("enemy_team", c.EnemyTeam)
	if err != nil {
		return nil, err
	}
	allies, err := game.NewTeam(game.Ally, allySpecs)
	if err != nil {
		return nil, err
	}
	enemies, err := game.NewTeam(game.Enemy, enemySpecs)
	if err != nil {
		return nil, err
	}
	return &game.Rosters{Allies: allies, Enemies: enemies}, nil
}

// Decks loads the configured ally and enemy decks from the deck file.
func (c *Match) Decks() (ally, enemy game.Deck, err error) {
	df, err := game.LoadDeckFile(c.DecksFile)
	if err != nil {
		return nil, nil, err
	}
	if _, ally, err = df.DeckByNumber(c.AllyDeck); err != nil {
		return nil, nil, fmt.Errorf("ally_deck: %w", err)
	}
	if _, enemy, err = df.DeckByNumber(c.EnemyDeck); err != nil {
		return nil, nil, fmt.Errorf("enemy_deck: %w", err)
	}
	return ally, enemy, nil
}

// MatchConfig converts the settings into a game.MatchConfig with the given decks.
func (c *Match) MatchConfig(ally, enemy game.Deck) game.MatchConfig {
	return game.MatchConfig{
		AllyDeck:    ally,
		EnemyDeck:   enemy,
		Difficulty:  c.DifficultyLevel(),
		HandSize:    c.HandSize,
		AIMoveDelay: c.AIMoveDelay,
		MaxTurns:    c.MaxTurns,
		Seed:        c.Seed,
	}
}

func specs(field string, members []Member) ([]game.MemberSpec, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("%s: %w", field, game.ErrEmptyRoster)
	}
	out := make([]game.MemberSpec, 0, len(members))
	for i, m := range members {
		if m.Name == "" {
			return nil, fmt.Errorf("%s[%d]: name is required", field, i)
		}
		role, err := game.ParseRole(m.Role)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", field, i, err)
		}
		maxHealth := m.MaxHealth
		if maxHealth == 0 {
			maxHealth = game.DefaultMaxHealth
		}
		if maxHealth < 0 {
			return nil, fmt.Errorf("%s[%d]: max_health must be > 0, got %d", field, i, m.MaxHealth)
		}
		out = append(out, game.MemberSpec{Name: m.Name, Role: role, MaxHealth: maxHealth})
	}
	return out, nil
}
