package world

// Dir enumerates the cardinal movement directions.
type Dir int

const (
	North Dir = iota
	East
	South
	West
)

// String returns the single-letter compass name used in events and logs.
func (d Dir) String() string {
	switch d {
	case North:
		return "N"
	case East:
		return "E"
	case South:
		return "S"
	case West:
		return "W"
	default:
		return "?"
	}
}

// Offset returns the unit vector for the direction. Y grows southward.
func (d Dir) Offset() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	default:
		return 0, 0
	}
}

// ActionKind discriminates the closed set of intents the engine resolves.
type ActionKind string

const (
	ActionWait ActionKind = "wait"
	ActionMove ActionKind = "move"
	ActionSend ActionKind = "send"
)

// MoveAction requests a one-tile move in a cardinal direction.
type MoveAction struct {
	Dir Dir `json:"dir"`
}

// SendAction requests delivery of a payload to another agent's inbox.
type SendAction struct {
	To      uint64 `json:"to"`
	Payload string `json:"payload"`
}

// Action is a tagged variant: exactly the pointer matching Kind is set.
// The zero Action is an explicit wait.
type Action struct {
	Kind ActionKind  `json:"kind"`
	Move *MoveAction `json:"move,omitempty"`
	Send *SendAction `json:"send,omitempty"`
}

// Move builds a one-tile move intent.
func Move(dir Dir) Action {
	return Action{Kind: ActionMove, Move: &MoveAction{Dir: dir}}
}

// Wait builds an explicit no-op intent. Agents with no pending action behave
// identically on tick.
func Wait() Action {
	return Action{Kind: ActionWait}
}

// Send builds a message-delivery intent. Payloads longer than MaxMessageLen
// are truncated at delivery time.
func Send(to uint64, payload string) Action {
	return Action{Kind: ActionSend, Send: &SendAction{To: to, Payload: payload}}
}

func (a Action) normalized() Action {
	if a.Kind == "" {
		a.Kind = ActionWait
	}
	return a
}
