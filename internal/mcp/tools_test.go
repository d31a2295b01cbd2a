package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/bandclash/internal/config"
)

const testDecks = `decks:
  - name: Solo
    cards:
      - name: Shred Solo
  - name: Chords
    cards:
      - name: Power Chord
`

func setupSettings(t *testing.T) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "decks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testDecks), 0o644))

	s := config.Default()
	s.DecksFile = path
	s.Seed = 7
	s.AllyTeam = []config.Member{{Name: "Riley", Role: "guitar", MaxHealth: 100}}
	s.EnemyTeam = []config.Member{{Name: "Vex", Role: "singer", MaxHealth: 40}}

	prevSettings, prevSession := settings, activeSession
	SetSettings(s)
	activeSession = nil
	t.Cleanup(func() {
		settings, activeSession = prevSettings, prevSession
	})
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (*mcp.CallToolResult, string) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return result, text.Text
}

func decode(t *testing.T, text string) ToolResponse {
	t.Helper()
	var resp ToolResponse
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	return resp
}

func eventTypes(resp ToolResponse) []string {
	types := make([]string, len(resp.Events))
	for i, e := range resp.Events {
		types[i] = e.Type
	}
	return types
}

func TestToolsRequireMatch(t *testing.T) {
	setupSettings(t)

	for name, h := range map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"play_card": handlePlayCard,
		"end_turn":  handleEndTurn,
		"get_state": handleGetState,
	} {
		result, text := call(t, h, map[string]any{"slot": 1, "targets": "e1"})
		assert.True(t, result.IsError, name)
		assert.Contains(t, text, "start_match", name)
	}
}

func TestStartMatch(t *testing.T) {
	setupSettings(t)

	result, text := call(t, handleStartMatch, map[string]any{"difficulty": "hard"})
	require.False(t, result.IsError, text)

	resp := decode(t, text)
	require.NotNil(t, resp.State)
	assert.Equal(t, "hard", resp.State.Difficulty)
	assert.True(t, resp.State.IsYourTurn)
	assert.True(t, resp.AwaitingInput)
	assert.Equal(t, 1, resp.State.Turn)
	require.Len(t, resp.State.Hand, 1)
	assert.Equal(t, "Shred Solo", resp.State.Hand[0].Name)
	assert.Equal(t, []string{"NewTurn", "DrawHand"}, eventTypes(resp))

	result, text = call(t, handleStartMatch, nil)
	assert.True(t, result.IsError)
	assert.Contains(t, text, "already running")
}

func TestStartMatchRejectsBadSettings(t *testing.T) {
	setupSettings(t)

	result, text := call(t, handleStartMatch, map[string]any{"difficulty": "legendary"})
	assert.True(t, result.IsError)
	assert.Contains(t, text, "Invalid match settings")

	result, text = call(t, handleStartMatch, map[string]any{"enemy_deck": 9})
	assert.True(t, result.IsError)
	assert.Contains(t, text, "Failed to start match")
	assert.Nil(t, activeSession)
}

func TestPlayCardToWin(t *testing.T) {
	setupSettings(t)
	_, _ = call(t, handleStartMatch, nil)

	// Damage cannot be aimed at our own band; the rejection comes back as an error.
	result, text := call(t, handlePlayCard, map[string]any{"slot": 1, "targets": "a1"})
	assert.True(t, result.IsError)
	assert.Contains(t, text, "invalid play")
	assert.Contains(t, text, "InvalidPlay")

	result, text = call(t, handlePlayCard, map[string]any{"slot": 0, "targets": "e1"})
	assert.True(t, result.IsError)
	assert.Contains(t, text, "Invalid slot")

	// The single card exhausts the hand, so the rival turn runs before we get the response.
	result, text = call(t, handlePlayCard, map[string]any{"slot": 1, "targets": "e1"})
	require.False(t, result.IsError, text)
	resp := decode(t, text)
	assert.False(t, resp.GameOver)
	assert.Equal(t, 18, resp.State.Enemies[0].Health)
	assert.Equal(t, 85, resp.State.Allies[0].Health)
	assert.Equal(t, 3, resp.State.Turn)
	assert.True(t, resp.State.IsYourTurn)
	assert.Contains(t, eventTypes(resp), "AIEvaluate")

	result, text = call(t, handlePlayCard, map[string]any{"slot": 1, "targets": "e1"})
	require.False(t, result.IsError, text)
	resp = decode(t, text)
	assert.True(t, resp.GameOver)
	assert.Equal(t, "Ally", resp.Winner)
	assert.Equal(t, "Player wins", resp.Result)
	assert.False(t, resp.AwaitingInput)
	assert.Contains(t, eventTypes(resp), "Downed")
	assert.False(t, resp.State.Enemies[0].Alive)

	// A finished match can be replaced.
	result, text = call(t, handleStartMatch, nil)
	assert.False(t, result.IsError, text)
}

func TestEndTurnAndState(t *testing.T) {
	setupSettings(t)
	_, _ = call(t, handleStartMatch, map[string]any{"seed": 11})

	_, text := call(t, handleGetState, nil)
	resp := decode(t, text)
	assert.Empty(t, resp.Events, "start_match already reported the opening events")
	assert.NotNil(t, resp.Events)

	result, text := call(t, handleEndTurn, nil)
	require.False(t, result.IsError, text)
	resp = decode(t, text)
	assert.Equal(t, 3, resp.State.Turn)
	assert.Equal(t, 85, resp.State.Allies[0].Health)
	assert.Equal(t, 40, resp.State.Enemies[0].Health)

	types := eventTypes(resp)
	require.NotEmpty(t, types)
	assert.Equal(t, "TurnEnd", types[0])
	assert.Equal(t, "DrawHand", types[len(types)-1])
}

func TestStartMatchOutlivesRequestContext(t *testing.T) {
	setupSettings(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var req mcp.CallToolRequest
	result, err := handleStartMatch(ctx, req)
	require.NoError(t, err)
	require.False(t, result.IsError)

	result, text := call(t, handleEndTurn, nil)
	require.False(t, result.IsError, text)
	resp := decode(t, text)
	assert.False(t, resp.GameOver, resp.Result)
	assert.Equal(t, 3, resp.State.Turn)
	assert.True(t, resp.AwaitingInput)
}

func TestConcurrentToolCalls(t *testing.T) {
	setupSettings(t)
	_, _ = call(t, handleStartMatch, nil)

	const calls = 4
	var wg sync.WaitGroup
	results := make(chan *mcp.CallToolResult, 2*calls)
	errs := make(chan error, 2*calls)
	for i := 0; i < calls; i++ {
		for _, h := range []func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){handleEndTurn, handleGetState} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				result, err := h(context.Background(), mcp.CallToolRequest{})
				if err != nil {
					errs <- err
					return
				}
				results <- result
			}()
		}
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		t.Errorf("handler error: %v", err)
	}
	for result := range results {
		assert.False(t, result.IsError)
	}

	// Each end_turn ran whole: one rival Power Chord per call.
	_, text := call(t, handleGetState, nil)
	resp := decode(t, text)
	assert.Equal(t, 1+2*calls, resp.State.Turn)
	assert.Equal(t, 100-15*calls, resp.State.Allies[0].Health)
}

func TestDecodeStartArgs(t *testing.T) {
	var req mcp.CallToolRequest
	req.Params.Arguments = map[string]any{"difficulty": "normal", "ally_deck": float64(2), "enemy_deck": "1", "seed": float64(99)}

	args, err := decodeStartArgs(req)
	require.NoError(t, err)
	assert.Equal(t, startArgs{Difficulty: "normal", AllyDeck: 2, EnemyDeck: 1, Seed: 99}, args)

	req.Params.Arguments = nil
	args, err = decodeStartArgs(req)
	require.NoError(t, err)
	assert.Equal(t, startArgs{}, args)

	req.Params.Arguments = map[string]any{"ally_deck": "two"}
	_, err = decodeStartArgs(req)
	assert.Error(t, err)
}
