package net

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
)

// ErrInputClosed is returned by RunREPL when input ends before the match does.
var ErrInputClosed = errors.New("input closed")

const helpText = `Commands:
  p <slot> <target>...   play a card, e.g. "p 2 e1" or "p 1 e1 e3" (a = ally, e = enemy)
  end                    end your turn
  s                      show the board
  h                      show this help`

// Client connects to a game server and provides a terminal REPL.
type Client struct {
	conn net.Conn
	in   io.Reader
	out  io.Writer
}

// NewClient wraps an established connection.
func NewClient(conn net.Conn, in io.Reader, out io.Writer) *Client {
	return &Client{conn: conn, in: in, out: out}
}

// Connect connects to a server, sends the join message, and runs the REPL.
func Connect(ctx context.Context, addr string, join ClientMessage, in io.Reader, out io.Writer) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	join.Type = MsgJoin
	if err := json.NewEncoder(conn).Encode(join); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	fmt.Fprintln(out, "Connected! Waiting for the match to start...")
	return NewClient(conn, in, out).RunREPL(ctx)
}

// RunREPL renders server messages while forwarding typed commands. It returns nil
// once the match is over.
func (c *Client) RunREPL(ctx context.Context) error {
	enc := json.NewEncoder(c.conn)

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- c.readLoop()
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-serverDone:
			return err
		case line, ok := <-lines:
			if !ok {
				return ErrInputClosed
			}
			msg, err := ParseCommand(line)
			if err != nil {
				fmt.Fprintln(c.out, err)
				continue
			}
			if msg == nil {
				fmt.Fprintln(c.out, helpText)
				continue
			}
			if err := enc.Encode(msg); err != nil {
				return fmt.Errorf("send %s: %w", msg.Type, err)
			}
		}
	}
}

func (c *Client) readLoop() error {
	dec := json.NewDecoder(c.conn)
	for {
		var msg ServerMessage
		if err := dec.Decode(&msg); err != nil {
			return fmt.Errorf("read message: %w", err)
		}

		switch msg.Type {
		case MsgNotify:
			c.renderEvent(msg.Event)
		case MsgState:
			c.renderState(msg.State)
		case MsgInput:
			if msg.Enabled {
				fmt.Fprintln(c.out, "Your turn. Type h for help.")
			}
		case MsgError:
			fmt.Fprintf(c.out, "! %s\n", msg.Error)
		case MsgGameOver:
			c.renderState(msg.State)
			fmt.Fprintln(c.out)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintln(c.out, "          GAME OVER")
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintln(c.out, msg.Result)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			return nil
		}
	}
}

// ParseCommand turns a REPL line into a client message. Help returns (nil, nil).
// Slots and member numbers are typed 1-based.
func ParseCommand(line string) (*ClientMessage, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return nil, fmt.Errorf("type h for help")
	}

	switch fields[0] {
	case "h", "help", "?":
		return nil, nil
	case "end", "e", "pass":
		return &ClientMessage{Type: MsgEndTurn}, nil
	case "s", "state", "board":
		return &ClientMessage{Type: MsgGetState}, nil
	case "p", "play":
		if len(fields) < 3 {
			return nil, fmt.Errorf("usage: p <slot> <target>...")
		}
		slot, err := strconv.Atoi(fields[1])
		if err != nil || slot < 1 {
			return nil, fmt.Errorf("slot must be a number >= 1, got %q", fields[1])
		}
		msg := &ClientMessage{Type: MsgPlay, Slot: slot - 1}
		for _, f := range fields[2:] {
			ref, err := parseTarget(f)
			if err != nil {
				return nil, err
			}
			msg.Targets = append(msg.Targets, ref)
		}
		return msg, nil
	default:
		return nil, fmt.Errorf("unknown command %q (type h for help)", fields[0])
	}
}

func parseTarget(s string) (TargetRef, error) {
	if len(s) < 2 {
		return TargetRef{}, fmt.Errorf("bad target %q (want a1, e2, ...)", s)
	}
	var side string
	switch s[0] {
	case 'a':
		side = "ally"
	case 'e':
		side = "enemy"
	default:
		return TargetRef{}, fmt.Errorf("bad target %q (want a1, e2, ...)", s)
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil || n < 1 {
		return TargetRef{}, fmt.Errorf("bad target %q (want a1, e2, ...)", s)
	}
	return TargetRef{Side: side, Index: n - 1}, nil
}

func (c *Client) renderEvent(ev *EventView) {
	if ev == nil {
		return
	}
	// Format like the TextLogger
	side := ev.Side
	for len(side) < 6 {
		side += " "
	}
	fmt.Fprintf(c.out, "T%-2d %s| %s\n", ev.Turn, side, ev.Details)
}

func (c *Client) renderState(sv *StateView) {
	if sv == nil {
		return
	}

	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "╔══════════════════════════════════════════════════════╗")
	fmt.Fprintf(c.out, "║  RIVALS (%s)\n", sv.Difficulty)
	for _, mv := range sv.Enemies {
		fmt.Fprintf(c.out, "║   e%d %s\n", mv.Index+1, formatMember(mv))
	}
	fmt.Fprintln(c.out, "║──────────────────────────────────────────────────────")
	fmt.Fprintln(c.out, "║  YOUR BAND")
	for _, mv := range sv.Allies {
		fmt.Fprintf(c.out, "║   a%d %s\n", mv.Index+1, formatMember(mv))
	}
	fmt.Fprintln(c.out, "╚══════════════════════════════════════════════════════╝")

	turnInfo := fmt.Sprintf("Turn %d | %s", sv.Turn, sv.Side)
	switch {
	case sv.Over:
		turnInfo += " | " + sv.Result
	case sv.IsYourTurn:
		turnInfo += " | Your turn"
	default:
		turnInfo += " | Rivals' turn"
	}
	fmt.Fprintln(c.out, turnInfo)

	// Show hand
	if len(sv.Hand) > 0 {
		fmt.Fprintln(c.out, "\nHand:")
		for _, cv := range sv.Hand {
			if cv.Empty {
				continue
			}
			fmt.Fprintf(c.out, "  [%d] %s\n", cv.Slot+1, formatCard(cv))
		}
	}
}

func formatMember(mv MemberView) string {
	const width = 10
	filled := 0
	if mv.MaxHealth > 0 {
		filled = mv.Health * width / mv.MaxHealth
	}
	bar := strings.Repeat("#", filled) + strings.Repeat("-", width-filled)
	status := ""
	if !mv.Alive {
		status = " DOWN"
	}
	return fmt.Sprintf("%-12s %-8s [%s] %3d/%d%s", mv.Name, mv.Role, bar, mv.Health, mv.MaxHealth, status)
}

func formatCard(cv CardView) string {
	var parts []string
	if cv.Damage > 0 {
		dmg := fmt.Sprintf("dmg %d", cv.Damage)
		if cv.Multi && cv.MaxTargets > 1 {
			dmg += fmt.Sprintf(" x up to %d", cv.MaxTargets)
		}
		parts = append(parts, dmg)
	}
	if cv.Heal > 0 {
		parts = append(parts, fmt.Sprintf("heal %d", cv.Heal))
	}
	return fmt.Sprintf("%s (%s, %s)", cv.Name, cv.Role, strings.Join(parts, ", "))
}
