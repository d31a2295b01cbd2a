package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/peterkuimelis/bandclash/internal/config"
	"github.com/peterkuimelis/bandclash/internal/game"
	"github.com/peterkuimelis/bandclash/internal/log"
	"github.com/peterkuimelis/bandclash/internal/net"
)

// maxAdvance bounds how many clock ticks one tool call may spend on rival turns.
const maxAdvance = 1000

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	Events        []net.EventView `json:"events"`
	State         *net.StateView  `json:"state,omitempty"`
	AwaitingInput bool            `json:"awaiting_input"`
	GameOver      bool            `json:"game_over"`
	Winner        string          `json:"winner,omitempty"`
	Result        string          `json:"result,omitempty"`
}

// GameSession holds the state of a single MCP match. The tool player is the
// Ally side; the rival band is played by the configured AI tier. Tool calls may
// arrive on several goroutines, so every method holds mu while it touches the match.
type GameSession struct {
	mu      sync.Mutex
	match   *game.Match
	display *MCPDisplay
	logger  *log.MemoryLogger
}

// NewGameSession loads decks and rosters from settings and starts the match.
// AI moves are applied without delay so each tool call returns on the next
// decision. The match outlives the request that starts it, so it runs on a
// background context.
func NewGameSession(settings *config.Match) (*GameSession, error) {
	ally, enemy, err := settings.Decks()
	if err != nil {
		return nil, fmt.Errorf("load decks: %w", err)
	}
	roster, err := settings.Rosters()
	if err != nil {
		return nil, fmt.Errorf("build rosters: %w", err)
	}

	cfg := settings.MatchConfig(ally, enemy)
	cfg.AIMoveDelay = 0
	sess := &GameSession{
		display: NewMCPDisplay(),
		logger:  log.NewMemoryLogger(),
	}
	cfg.Logger = sess.logger

	sess.match, err = game.NewMatch(cfg, roster, sess.display)
	if err != nil {
		return nil, err
	}
	if err := sess.match.Start(context.Background()); err != nil {
		return nil, fmt.Errorf("start match: %w", err)
	}
	sess.advance()
	return sess, nil
}

// Play plays the card in a 1-based slot at targets written like "e1 e2".
func (s *GameSession) Play(slot int, targets string) (*ToolResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.match.Over() {
		return nil, game.ErrMatchOver
	}
	cmd, err := net.ParseCommand(fmt.Sprintf("p %d %s", slot, targets))
	if err != nil {
		return nil, err
	}
	members, err := net.ResolveTargets(s.match.Roster(), cmd.Targets)
	if err != nil {
		return nil, err
	}
	if !s.match.PlayCard(cmd.Slot, members) {
		// the rejection is in the event log; hand it back with the error
		return s.response(), fmt.Errorf("invalid play: slot %d at %s", slot, strings.TrimSpace(targets))
	}
	s.advance()
	return s.response(), nil
}

// EndTurn ends the tool player's turn and runs the rival turn to completion.
func (s *GameSession) EndTurn() (*ToolResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.match.EndPlayerTurn(); err != nil {
		return nil, err
	}
	s.advance()
	return s.response(), nil
}

// State returns the current state and any events not yet reported.
func (s *GameSession) State() *ToolResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.response()
}

// Over reports whether the match has ended.
func (s *GameSession) Over() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.match.Over()
}

// advance ticks the match clock until the tool player must decide or the match
// ends. Must be called with mu held.
func (s *GameSession) advance() {
	for i := 0; i < maxAdvance && !s.match.Over() && !s.match.HumanTurn(); i++ {
		s.match.Update(0)
	}
}

func (s *GameSession) response() *ToolResponse {
	resp := &ToolResponse{
		Events:        s.display.drainEvents(),
		State:         net.BuildStateView(s.match),
		AwaitingInput: s.display.InputEnabled(),
		GameOver:      s.match.Over(),
		Result:        s.match.Result(),
	}
	if winner, ok := s.match.Winner(); ok {
		resp.Winner = winner.String()
	}
	// Ensure events is never null in JSON
	if resp.Events == nil {
		resp.Events = []net.EventView{}
	}
	return resp
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
