package net

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/peterkuimelis/bandclash/internal/config"
	"github.com/peterkuimelis/bandclash/internal/game"
	"github.com/peterkuimelis/bandclash/internal/log"
)

// DefaultTick is how often a session advances the match clock.
const DefaultTick = 50 * time.Millisecond

// Session drives one match for one connected player. Only the Run goroutine touches
// the match; the connection reader just forwards decoded commands.
type Session struct {
	Match   *game.Match
	Display *NetworkDisplay
	Tick    time.Duration

	// Decoder reads commands from conn. Set it when a handshake already read from
	// the connection so buffered bytes are not lost; nil creates a fresh one.
	Decoder *json.Decoder

	conn net.Conn
}

// NewSession creates the display and match for a connection.
func NewSession(conn net.Conn, cfg game.MatchConfig, roster game.RosterProvider) (*Session, error) {
	display := NewNetworkDisplay(conn)
	m, err := game.NewMatch(cfg, roster, display)
	if err != nil {
		return nil, err
	}
	return &Session{Match: m, Display: display, Tick: DefaultTick, conn: conn}, nil
}

// NewSessionFromSettings loads decks and rosters from match settings.
func NewSessionFromSettings(conn net.Conn, settings *config.Match, logger log.EventLogger) (*Session, error) {
	ally, enemy, err := settings.Decks()
	if err != nil {
		return nil, fmt.Errorf("load decks: %w", err)
	}
	roster, err := settings.Rosters()
	if err != nil {
		return nil, fmt.Errorf("build rosters: %w", err)
	}
	cfg := settings.MatchConfig(ally, enemy)
	cfg.Logger = logger
	return NewSession(conn, cfg, roster)
}

// Run starts the match and serves commands until it ends, the context is cancelled,
// or the connection fails.
func (s *Session) Run(ctx context.Context) error {
	cmds := make(chan ClientMessage)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	dec := s.Decoder
	if dec == nil {
		dec = json.NewDecoder(s.conn)
	}
	go func() {
		for {
			var msg ClientMessage
			if err := dec.Decode(&msg); err != nil {
				readErr <- err
				return
			}
			select {
			case cmds <- msg:
			case <-done:
				return
			}
		}
	}()

	if err := s.Match.Start(ctx); err != nil {
		return fmt.Errorf("start match: %w", err)
	}
	_ = s.Display.SendState(s.Match)

	tick := s.Tick
	if tick <= 0 {
		tick = DefaultTick
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	last := time.Now()

	for {
		if s.Match.Over() {
			return s.Display.SendGameOver(s.Match)
		}
		if err := s.Display.Err(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			return fmt.Errorf("read command: %w", err)
		case msg := <-cmds:
			s.handle(msg)
		case now := <-ticker.C:
			s.Match.Update(now.Sub(last))
			last = now
			if s.Display.Dirty() && !s.Match.Over() {
				_ = s.Display.SendState(s.Match)
			}
		}
	}
}

func (s *Session) handle(msg ClientMessage) {
	switch msg.Type {
	case MsgPlay:
		targets, err := ResolveTargets(s.Match.Roster(), msg.Targets)
		if err != nil {
			s.sendError(err.Error())
			return
		}
		if !s.Match.PlayCard(msg.Slot, targets) {
			s.sendError(fmt.Sprintf("invalid play: slot %d", msg.Slot+1))
			return
		}
	case MsgEndTurn:
		if err := s.Match.EndPlayerTurn(); err != nil {
			s.sendError(err.Error())
			return
		}
	case MsgGetState:
	default:
		s.sendError(fmt.Sprintf("unknown command %q", msg.Type))
		return
	}
	if !s.Match.Over() {
		_ = s.Display.SendState(s.Match)
	}
}

func (s *Session) sendError(text string) {
	_ = s.Display.Send(ServerMessage{Type: MsgError, Error: text})
}
