package world

// Resolution event names emitted by the tick engine. These values are part of
// the event contract consumed by the catalog generator and the journal, so
// they live alongside the payload types.
const (
	EventMoved              = "moved"
	EventWaited             = "waited"
	EventBlockedByWall      = "blocked-by-wall"
	EventBlockedByCollision = "blocked-by-collision"
	EventMessageSent        = "message-sent"
	EventMessageDropped     = "message-dropped"
)

// Event describes one resolution outcome. The engine appends events in
// deterministic order within a tick and returns the whole sequence to the
// caller; nothing is retained.
type Event struct {
	Name string `json:"name"`
	Data any    `json:"data,omitempty"`
}

// MovedPayload records a committed one-tile move.
type MovedPayload struct {
	Agent uint64 `json:"agent"`
	From  Pos    `json:"from"`
	To    Pos    `json:"to"`
}

// WaitedPayload records an explicit or implicit no-op.
type WaitedPayload struct {
	Agent uint64 `json:"agent"`
}

// BlockedPayload records a move rejected by terrain or collision policy. To
// is the destination the agent was denied.
type BlockedPayload struct {
	Agent uint64 `json:"agent"`
	To    Pos    `json:"to"`
}

// MessageSentPayload records a delivered send intent.
type MessageSentPayload struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}

// MessageDroppedPayload records a send intent whose recipient was absent.
type MessageDroppedPayload struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}
