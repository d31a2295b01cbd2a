package mcp

import (
	"context"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"

	"github.com/peterkuimelis/bandclash/internal/config"
	"github.com/peterkuimelis/bandclash/internal/net"
)

// activeSession is the singleton match (one per stdio process). mcp-go runs tool
// calls on a worker pool, so sessionMu guards it.
var (
	sessionMu     sync.Mutex
	activeSession *GameSession
)

// currentSession returns the running session, or nil before start_match.
func currentSession() *GameSession {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	return activeSession
}

// settings is the base match configuration, set by main.
var settings = config.Default()

// SetSettings sets the base match configuration that start_match overrides.
func SetSettings(s *config.Match) {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	settings = s
}

// RegisterTools adds all match tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(startMatchTool(), handleStartMatch)
	s.AddTool(playCardTool(), handlePlayCard)
	s.AddTool(endTurnTool(), handleEndTurn)
	s.AddTool(getStateTool(), handleGetState)
}

// --- Tool definitions ---

func startMatchTool() mcp.Tool {
	return mcp.NewTool("start_match",
		mcp.WithDescription("Start a new band battle. You lead the Ally band; the rival band is played by the AI. "+
			"Returns the opening events and state, including your first hand."),
		mcp.WithString("difficulty", mcp.Description("Rival AI tier: beginner, normal or hard (default from config)")),
		mcp.WithNumber("ally_deck", mcp.Description("Your deck number (1-indexed from the decks file)")),
		mcp.WithNumber("enemy_deck", mcp.Description("Rival deck number (1-indexed from the decks file)")),
		mcp.WithNumber("seed", mcp.Description("RNG seed for reproducible hands (0 = random)")),
	)
}

func playCardTool() mcp.Tool {
	return mcp.NewTool("play_card",
		mcp.WithDescription("Play a card from your hand. Damage cards target rivals (e1, e2, ...), heal cards target "+
			"your own living members (a1, a2, ...). Multi-target cards accept up to their max_targets members."),
		mcp.WithNumber("slot", mcp.Required(), mcp.Description("1-based hand slot of the card to play")),
		mcp.WithString("targets", mcp.Required(), mcp.Description("Space-separated 1-based targets, e.g. 'e1' or 'e1 e3' or 'a2'")),
	)
}

func endTurnTool() mcp.Tool {
	return mcp.NewTool("end_turn",
		mcp.WithDescription("End your turn. The rival band takes its turn and the response holds everything that happened "+
			"until your next hand."),
	)
}

func getStateTool() mcp.Tool {
	return mcp.NewTool("get_state",
		mcp.WithDescription("Get the current match state and events not yet reported. Read-only."),
	)
}

// startArgs are the optional start_match overrides. Numbers may arrive as JSON
// floats or strings depending on the client.
type startArgs struct {
	Difficulty string `json:"difficulty"`
	AllyDeck   int    `json:"ally_deck"`
	EnemyDeck  int    `json:"enemy_deck"`
	Seed       int64  `json:"seed"`
}

func decodeStartArgs(request mcp.CallToolRequest) (startArgs, error) {
	var args startArgs
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &args,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return args, err
	}
	err = decoder.Decode(request.GetArguments())
	return args, err
}

// --- Tool handlers ---

func handleStartMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	if activeSession != nil && !activeSession.Over() {
		return mcp.NewToolResultError("A match is already running. Only one match at a time is supported."), nil
	}

	args, err := decodeStartArgs(request)
	if err != nil {
		return mcp.NewToolResultErrorf("Invalid arguments: %v", err), nil
	}
	s := net.ApplyJoin(settings, net.ClientMessage{Difficulty: args.Difficulty, DeckNumber: args.AllyDeck})
	if args.EnemyDeck != 0 {
		s.EnemyDeck = args.EnemyDeck
	}
	if args.Seed != 0 {
		s.Seed = args.Seed
	}
	if err := s.Validate(); err != nil {
		return mcp.NewToolResultErrorf("Invalid match settings: %v", err), nil
	}

	sess, err := NewGameSession(s)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start match: %v", err), nil
	}
	activeSession = sess

	return mcp.NewToolResultText(respondJSON(sess.State())), nil
}

func handlePlayCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := currentSession()
	if sess == nil {
		return mcp.NewToolResultError("No match is running. Use start_match first."), nil
	}

	slot := request.GetInt("slot", 0)
	targets := request.GetString("targets", "")
	if slot < 1 {
		return mcp.NewToolResultErrorf("Invalid slot %d. Slots start at 1.", slot), nil
	}

	resp, err := sess.Play(slot, targets)
	if err != nil {
		if resp != nil {
			return mcp.NewToolResultErrorf("%v. %s", err, respondJSON(resp)), nil
		}
		return mcp.NewToolResultErrorf("%v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleEndTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := currentSession()
	if sess == nil {
		return mcp.NewToolResultError("No match is running. Use start_match first."), nil
	}

	resp, err := sess.EndTurn()
	if err != nil {
		return mcp.NewToolResultErrorf("Cannot end turn: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := currentSession()
	if sess == nil {
		return mcp.NewToolResultError("No match is running. Use start_match first."), nil
	}
	return mcp.NewToolResultText(respondJSON(sess.State())), nil
}
