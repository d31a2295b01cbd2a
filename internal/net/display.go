package net

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/peterkuimelis/bandclash/internal/game"
	"github.com/peterkuimelis/bandclash/internal/log"
)

// NetworkDisplay implements game.Display and game.Notifier over a connection.
type NetworkDisplay struct {
	conn  net.Conn
	enc   *json.Encoder
	mu    sync.Mutex
	err   error // first send failure
	dirty bool  // events sent since the last state push
}

// NewNetworkDisplay creates a new display for the given connection.
func NewNetworkDisplay(conn net.Conn) *NetworkDisplay {
	return &NetworkDisplay{
		conn: conn,
		enc:  json.NewEncoder(conn),
	}
}

// BuildStateView creates a StateView of the match from the Ally player's perspective.
func BuildStateView(m *game.Match) *StateView {
	rp := m.Roster()
	sv := &StateView{
		Turn:       m.TurnNumber(),
		Side:       m.Turn().Side().String(),
		Phase:      m.State(),
		Difficulty: m.Difficulty(),
		Allies:     MemberViews(rp.AllyTeam()),
		Enemies:    MemberViews(rp.EnemyTeam()),
		IsYourTurn: m.HumanTurn(),
		Over:       m.Over(),
		Result:     m.Result(),
	}
	if phase, ok := m.AIPhase(); ok {
		sv.AIPhase = phase.String()
	}
	if sv.IsYourTurn {
		sv.Hand = HandView(m.Hand())
	}
	return sv
}

// MemberViews converts a team in roster order.
func MemberViews(team []*game.Member) []MemberView {
	views := make([]MemberView, len(team))
	for i, mb := range team {
		views[i] = MemberView{
			Index:     i,
			ID:        mb.ID.String(),
			Name:      mb.Name,
			Role:      mb.Role.String(),
			Health:    mb.Health(),
			MaxHealth: mb.MaxHealth,
			Alive:     mb.IsAlive(),
		}
	}
	return views
}

// HandView converts hand slots, keeping empty ones so slot numbers stay stable.
func HandView(hand game.Hand) []CardView {
	views := make([]CardView, len(hand))
	for i, c := range hand {
		if c == nil {
			views[i] = CardView{Slot: i, Empty: true}
			continue
		}
		views[i] = CardView{
			Slot:        i,
			Name:        c.Name,
			Description: c.Description,
			Role:        c.Role.String(),
			Damage:      c.DamageBonus,
			Heal:        c.HealthBonus,
			MaxTargets:  c.MaxMultiTargets,
			Multi:       c.IsMultiTarget(),
			HitEffect:   c.HitEffect,
		}
	}
	return views
}

// EventViewOf converts a logged event for the wire.
func EventViewOf(e log.GameEvent) *EventView {
	return &EventView{
		Seq:     e.Seq,
		Turn:    e.Turn,
		Side:    e.Side,
		Type:    e.Type.String(),
		Card:    e.Card,
		Target:  e.Target,
		Amount:  e.Amount,
		Details: e.Details,
	}
}

// ResolveTargets maps wire target references onto roster members.
func ResolveTargets(rp game.RosterProvider, refs []TargetRef) ([]*game.Member, error) {
	targets := make([]*game.Member, 0, len(refs))
	for _, ref := range refs {
		if ref.ID != "" {
			id, err := uuid.Parse(ref.ID)
			if err != nil {
				return nil, fmt.Errorf("bad member id %q: %w", ref.ID, err)
			}
			m := game.FindMember(rp, id)
			if m == nil {
				return nil, fmt.Errorf("no member with id %s", ref.ID)
			}
			targets = append(targets, m)
			continue
		}
		var team []*game.Member
		switch strings.ToLower(ref.Side) {
		case "ally", "a":
			team = rp.AllyTeam()
		case "enemy", "e":
			team = rp.EnemyTeam()
		default:
			return nil, fmt.Errorf("unknown side %q", ref.Side)
		}
		if ref.Index < 0 || ref.Index >= len(team) {
			return nil, fmt.Errorf("no %s member at index %d", ref.Side, ref.Index)
		}
		targets = append(targets, team[ref.Index])
	}
	return targets, nil
}

// send sends a server message to the client. Must be called with mu held.
func (nd *NetworkDisplay) send(msg ServerMessage) error {
	if nd.err != nil {
		return nd.err
	}
	if err := nd.enc.Encode(msg); err != nil {
		nd.err = fmt.Errorf("send %s: %w", msg.Type, err)
	}
	return nd.err
}

// Send sends an arbitrary server message.
func (nd *NetworkDisplay) Send(msg ServerMessage) error {
	nd.mu.Lock()
	defer nd.mu.Unlock()
	return nd.send(msg)
}

// SendState pushes the full match state and clears the dirty flag.
func (nd *NetworkDisplay) SendState(m *game.Match) error {
	nd.mu.Lock()
	defer nd.mu.Unlock()
	nd.dirty = false
	return nd.send(ServerMessage{Type: MsgState, State: BuildStateView(m)})
}

// SendGameOver sends a game_over message to the client.
func (nd *NetworkDisplay) SendGameOver(m *game.Match) error {
	nd.mu.Lock()
	defer nd.mu.Unlock()
	msg := ServerMessage{Type: MsgGameOver, Result: m.Result(), State: BuildStateView(m)}
	if winner, ok := m.Winner(); ok {
		msg.Winner = winner.String()
	}
	return nd.send(msg)
}

// Dirty reports whether events were sent since the last state push.
func (nd *NetworkDisplay) Dirty() bool {
	nd.mu.Lock()
	defer nd.mu.Unlock()
	return nd.dirty
}

// Err returns the first send failure, if any.
func (nd *NetworkDisplay) Err() error {
	nd.mu.Lock()
	defer nd.mu.Unlock()
	return nd.err
}

// SetHand implements game.Display.
func (nd *NetworkDisplay) SetHand(hand game.Hand) {
	nd.mu.Lock()
	defer nd.mu.Unlock()
	// an empty hand arrives without a "hand" field
	_ = nd.send(ServerMessage{Type: MsgHand, Hand: HandView(hand)})
}

// EnableInput implements game.Display.
func (nd *NetworkDisplay) EnableInput(enabled bool) {
	nd.mu.Lock()
	defer nd.mu.Unlock()
	_ = nd.send(ServerMessage{Type: MsgInput, Enabled: enabled})
}

// Notify implements game.Notifier.
func (nd *NetworkDisplay) Notify(ctx context.Context, event log.GameEvent) error {
	nd.mu.Lock()
	defer nd.mu.Unlock()
	nd.dirty = true
	return nd.send(ServerMessage{Type: MsgNotify, Event: EventViewOf(event)})
}
