package net

// Message types for the JSON protocol over TCP (and websocket).

const (
	MsgHand     = "hand"
	MsgInput    = "input"
	MsgNotify   = "notify"
	MsgState    = "state"
	MsgError    = "error"
	MsgGameOver = "game_over"

	MsgJoin     = "join"
	MsgPlay     = "play"
	MsgEndTurn  = "end_turn"
	MsgGetState = "get_state"
)

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "notify"
	Event *EventView `json:"event,omitempty"`

	// For "hand"
	Hand []CardView `json:"hand,omitempty"`

	// For "input"
	Enabled bool `json:"enabled,omitempty"`

	// For "state" and "game_over"
	State *StateView `json:"state,omitempty"`

	// For "error"
	Error string `json:"error,omitempty"`

	// For "game_over"
	Winner string `json:"winner,omitempty"`
	Result string `json:"result,omitempty"`
}

// EventView is a simplified game event for the client.
type EventView struct {
	Seq     int    `json:"seq"`
	Turn    int    `json:"turn"`
	Side    string `json:"side"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Target  string `json:"target,omitempty"`
	Amount  int    `json:"amount,omitempty"`
	Details string `json:"details"`
}

// CardView describes one hand slot. Empty slots keep their index.
type CardView struct {
	Slot        int    `json:"slot"`
	Empty       bool   `json:"empty,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Role        string `json:"role,omitempty"`
	Damage      int    `json:"damage,omitempty"`
	Heal        int    `json:"heal,omitempty"`
	MaxTargets  int    `json:"max_targets,omitempty"`
	Multi       bool   `json:"multi,omitempty"`
	HitEffect   string `json:"hit_effect,omitempty"`
}

// MemberView shows one roster member with its health bar data.
type MemberView struct {
	Index     int    `json:"index"`
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Health    int    `json:"health"`
	MaxHealth int    `json:"max_health"`
	Alive     bool   `json:"alive"`
}

// StateView is the match as seen by the Ally player.
type StateView struct {
	Turn       int          `json:"turn"`
	Side       string       `json:"side"`
	Phase      string       `json:"phase"`
	AIPhase    string       `json:"ai_phase,omitempty"`
	Difficulty string       `json:"difficulty"`
	Allies     []MemberView `json:"allies"`
	Enemies    []MemberView `json:"enemies"`
	Hand       []CardView   `json:"hand,omitempty"`
	IsYourTurn bool         `json:"is_your_turn"`
	Over       bool         `json:"over,omitempty"`
	Result     string       `json:"result,omitempty"`
}

// --- Client → Server messages ---

// TargetRef names a roster member by side ("ally" or "enemy") and 0-based index,
// or by the member ID from a state message. ID wins when set.
type TargetRef struct {
	Side  string `json:"side,omitempty"`
	Index int    `json:"index"`
	ID    string `json:"id,omitempty"`
}

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "play"
	Slot    int         `json:"slot,omitempty"`
	Targets []TargetRef `json:"targets,omitempty"`

	// For "join" (initial handshake)
	Difficulty string `json:"difficulty,omitempty"`
	DeckNumber int    `json:"deck_number,omitempty"`
}
