// Package catalog models the JSON contract for the engine's event trail. It
// is shared with the schema generator so we can produce a machine-readable
// document for validation and tooling.
package catalog

import "github.com/AlexanderYashnyk/UnlimitedWorlds/world"

// EventEntry is one event as it appears in journals and broadcasts.
type EventEntry struct {
	Name string `json:"name" jsonschema:"title=Event name,pattern=^[a-z0-9.-]+$,description=Registered resolution event name"`
	Data any    `json:"data,omitempty" jsonschema:"description=Payload matching the event's registered contract type"`
}

// TickRecord is the canonical per-tick document: the snapshot plus the
// ordered event trail and the RNG cursor needed to resume the stream.
type TickRecord struct {
	Tick      uint64               `json:"tick" jsonschema:"description=Monotonic tick counter after this step"`
	Seed      int64                `json:"seed" jsonschema:"description=Deterministic seed the world was constructed with"`
	RNGDraws  uint64               `json:"rngDraws" jsonschema:"description=RNG draw counter after this tick"`
	Positions map[uint64]world.Pos `json:"positions" jsonschema:"description=Post-resolution position per spawned agent uid"`
	Events    []EventEntry         `json:"events" jsonschema:"description=Ordered resolution events for this tick"`
}

// PayloadShapes collects the known payload types so the generator can emit
// their definitions alongside the tick record.
type PayloadShapes struct {
	Moved          world.MovedPayload          `json:"moved"`
	Waited         world.WaitedPayload         `json:"waited"`
	Blocked        world.BlockedPayload        `json:"blocked"`
	MessageSent    world.MessageSentPayload    `json:"messageSent"`
	MessageDropped world.MessageDroppedPayload `json:"messageDropped"`
}

// FileJournal represents a decompressed journal file: one TickRecord per line.
type FileJournal []TickRecord
