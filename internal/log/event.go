package log

// EventType enumerates all observable match events.
type EventType int

const (
	EventNewTurn EventType = iota
	EventDrawHand
	EventDrawFailed // deck empty or only placeholders
	EventPlay
	EventDamage
	EventHeal
	EventDowned
	EventInvalidPlay
	EventAIEvaluate
	EventAIExhausted
	EventTurnEnd
	EventWin
	EventStalemate
)

func (e EventType) String() string {
	switch e {
	case EventNewTurn:
		return "NewTurn"
	case EventDrawHand:
		return "DrawHand"
	case EventDrawFailed:
		return "DrawFailed"
	case EventPlay:
		return "Play"
	case EventDamage:
		return "Damage"
	case EventHeal:
		return "Heal"
	case EventDowned:
		return "Downed"
	case EventInvalidPlay:
		return "InvalidPlay"
	case EventAIEvaluate:
		return "AIEvaluate"
	case EventAIExhausted:
		return "AIExhausted"
	case EventTurnEnd:
		return "TurnEnd"
	case EventWin:
		return "Win"
	case EventStalemate:
		return "Stalemate"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a match.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Turn    int       // which turn (1-based)
	Side    string    // acting side ("Ally" or "Enemy")
	Type    EventType // event type
	Card    string    // card name (if applicable)
	Target  string    // affected member name (if applicable)
	Amount  int       // damage or heal amount (if applicable)
	Details string    // human-readable detail string
}
