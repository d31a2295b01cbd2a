package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging match events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	side := e.Side
	// Pad side to 6 chars for alignment
	for len(side) < 6 {
		side += " "
	}
	return fmt.Sprintf("T%-2d %s| %s", e.Turn, side, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewTurnEvent(turn int, side string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Side:    side,
		Type:    EventNewTurn,
		Details: fmt.Sprintf("=== Turn %d (%s) ===", turn, side),
	}
}

func NewDrawHandEvent(turn int, side string, cards []string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Side:    side,
		Type:    EventDrawHand,
		Details: fmt.Sprintf("%s draws %d card(s): %s", side, len(cards), strings.Join(cards, ", ")),
	}
}

func NewDrawFailedEvent(turn int, side string, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Side:    side,
		Type:    EventDrawFailed,
		Details: fmt.Sprintf("%s could not draw a hand (%s)", side, reason),
	}
}

func NewPlayEvent(turn int, side string, cardName string, targets []string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Side:    side,
		Type:    EventPlay,
		Card:    cardName,
		Details: fmt.Sprintf("%s plays %s on %s", side, cardName, strings.Join(targets, ", ")),
	}
}

func NewDamageEvent(turn int, side string, cardName, target string, amount, oldHP, newHP int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Side:    side,
		Type:    EventDamage,
		Card:    cardName,
		Target:  target,
		Amount:  amount,
		Details: fmt.Sprintf("%s takes %d damage: %d → %d", target, amount, oldHP, newHP),
	}
}

func NewHealEvent(turn int, side string, cardName, target string, amount, oldHP, newHP int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Side:    side,
		Type:    EventHeal,
		Card:    cardName,
		Target:  target,
		Amount:  amount,
		Details: fmt.Sprintf("%s heals %d: %d → %d", target, amount, oldHP, newHP),
	}
}

func NewDownedEvent(turn int, side string, target string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Side:    side,
		Type:    EventDowned,
		Target:  target,
		Details: fmt.Sprintf("%s is downed", target),
	}
}

func NewInvalidPlayEvent(turn int, side string, cardName string, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Side:    side,
		Type:    EventInvalidPlay,
		Card:    cardName,
		Details: fmt.Sprintf("%s cannot play %s (%s)", side, cardName, reason),
	}
}

func NewAIEvaluateEvent(turn int, side string, cardName string, validTargets int, score float64) GameEvent {
	return GameEvent{
		Turn:    turn,
		Side:    side,
		Type:    EventAIEvaluate,
		Card:    cardName,
		Details: fmt.Sprintf("evaluating %s: %d valid target(s), score %.2f", cardName, validTargets, score),
	}
}

func NewAIExhaustedEvent(turn int, side string, remaining int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Side:    side,
		Type:    EventAIExhausted,
		Details: fmt.Sprintf("%s has no valid plays left (%d group(s) unplayed)", side, remaining),
	}
}

func NewTurnEndEvent(turn int, side string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Side:    side,
		Type:    EventTurnEnd,
		Details: fmt.Sprintf("%s ends the turn", side),
	}
}

func NewWinEvent(turn int, side string, result string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Side:    side,
		Type:    EventWin,
		Details: result,
	}
}

func NewStalemateEvent(turn int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Type:    EventStalemate,
		Details: fmt.Sprintf("Match ends without a winner (%s)", reason),
	}
}
