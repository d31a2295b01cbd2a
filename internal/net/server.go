package net

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"

	"go.uber.org/zap"

	"github.com/peterkuimelis/bandclash/internal/config"
	"github.com/peterkuimelis/bandclash/internal/log"
)

// Server hosts a match against the AI for one TCP client.
type Server struct {
	Settings *config.Match
	Port     string
	Logger   *zap.Logger // diagnostics; nil discards them
	Out      io.Writer   // match log; nil writes to stdout
}

func (s *Server) out() io.Writer {
	if s.Out == nil {
		return os.Stdout
	}
	return s.Out
}

// Run starts the server, waits for a client to join, then runs the match.
func (s *Server) Run(ctx context.Context) error {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ln, err := net.Listen("tcp", ":"+s.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer ln.Close()

	fmt.Printf("Waiting for a player on port %s...\n", s.Port)

	// Accept exactly one connection (the joiner)
	conn, err := ln.Accept()
	if err != nil {
		return fmt.Errorf("accept: %w", err)
	}
	defer conn.Close()

	fmt.Printf("Player connected from %s\n", conn.RemoteAddr())
	logger.Info("player connected", zap.Stringer("remote", conn.RemoteAddr()))
	return s.serve(ctx, conn, logger)
}

// serve reads the join handshake from conn and runs the match on it. The join
// decoder keeps reading commands, so a client may pipeline its first command.
func (s *Server) serve(ctx context.Context, conn net.Conn, logger *zap.Logger) error {
	dec := json.NewDecoder(conn)
	var joinMsg ClientMessage
	if err := dec.Decode(&joinMsg); err != nil {
		return fmt.Errorf("read join message: %w", err)
	}
	if joinMsg.Type != MsgJoin {
		return fmt.Errorf("expected join message, got %q", joinMsg.Type)
	}
	settings := ApplyJoin(s.Settings, joinMsg)
	if err := settings.Validate(); err != nil {
		logger.Warn("rejected join", zap.Int("deck", joinMsg.DeckNumber), zap.String("difficulty", joinMsg.Difficulty), zap.Error(err))
		_ = json.NewEncoder(conn).Encode(ServerMessage{Type: MsgError, Error: err.Error()})
		return fmt.Errorf("join settings: %w", err)
	}

	fmt.Printf("Player chose deck %d vs deck %d on %s\n", settings.AllyDeck, settings.EnemyDeck, settings.Difficulty)

	session, err := NewSessionFromSettings(conn, settings, log.NewTextLogger(s.out()))
	if err != nil {
		logger.Warn("could not start match", zap.Error(err))
		_ = json.NewEncoder(conn).Encode(ServerMessage{Type: MsgError, Error: err.Error()})
		return err
	}
	session.Decoder = dec
	if err := session.Run(ctx); err != nil {
		logger.Warn("match ended early", zap.Int("turn", session.Match.TurnNumber()), zap.Error(err))
		return err
	}
	logger.Info("match finished", zap.Int("turns", session.Match.TurnNumber()), zap.String("result", session.Match.Result()))
	return nil
}

// ApplyJoin returns a copy of settings with the joiner's overrides applied.
func ApplyJoin(settings *config.Match, join ClientMessage) *config.Match {
	out := *settings
	if join.Difficulty != "" {
		out.Difficulty = join.Difficulty
	}
	if join.DeckNumber != 0 {
		out.AllyDeck = join.DeckNumber
	}
	return &out
}

// PlayLocal runs a match with the REPL on in/out, connected through an in-memory pipe.
func PlayLocal(ctx context.Context, settings *config.Match, in io.Reader, out io.Writer) error {
	// Create a pipe for the local connection
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	session, err := NewSessionFromSettings(serverConn, settings, log.NewMemoryLogger())
	if err != nil {
		return err
	}

	sessErr := make(chan error, 1)
	go func() {
		err := session.Run(ctx)
		sessErr <- err
		if err != nil {
			serverConn.Close() // unblock the REPL
		}
	}()

	client := NewClient(clientConn, in, out)
	replErr := client.RunREPL(ctx)
	if replErr == nil {
		return nil
	}
	select {
	case err := <-sessErr:
		if err != nil {
			return fmt.Errorf("match error: %w", err)
		}
	default:
	}
	return replErr
}
