package core

// EventKind classifies level events.
type EventKind uint8

const (
	EventPhaseChanged EventKind = iota
	EventCustomerBoarding
	EventCustomerToStand
	EventCustomerOnStand
	EventCustomerBlocked
	EventCustomerSeated
	EventBusArrived
	EventBusDeparted
	EventGateReleased
	EventStalled
	EventGameOver
	EventGameWin
)

func (k EventKind) String() string {
	switch k {
	case EventPhaseChanged:
		return "phase"
	case EventCustomerBoarding:
		return "boarding"
	case EventCustomerToStand:
		return "to_stand"
	case EventCustomerOnStand:
		return "on_stand"
	case EventCustomerBlocked:
		return "blocked"
	case EventCustomerSeated:
		return "seated"
	case EventBusArrived:
		return "bus_arrived"
	case EventBusDeparted:
		return "bus_departed"
	case EventGateReleased:
		return "gate_released"
	case EventStalled:
		return "stalled"
	case EventGameOver:
		return "game_over"
	case EventGameWin:
		return "game_win"
	default:
		return "unknown"
	}
}

// Event is a notable change in a level, queued for the presentation layer.
type Event struct {
	Kind     EventKind
	Tick     uint64
	Customer EntityID
	Bus      EntityID
	Color    Color
	Phase    Phase
	Reason   string
}

// Stats counts what happened during a level.
type Stats struct {
	Moves         int // successful selections
	Ticks         int
	Seated        int
	StandsUsed    int
	Blocked       int
	GateReleases  int
	BusesDeparted int
}

// Outcome is how a level ended.
type Outcome struct {
	Won    bool
	Reason string
}

// Outcome reasons.
const (
	ReasonCleared     = "cleared"
	ReasonStandsUnmet = "stands_unmet"
	ReasonDeadlock    = "deadlock"
	ReasonStranded    = "stranded" // the front bus can never fill
)

// String returns "win" or "loss (reason)".
func (o Outcome) String() string {
	if o.Won {
		return "win"
	}
	if o.Reason == "" {
		return "none"
	}
	return "loss (" + o.Reason + ")"
}
