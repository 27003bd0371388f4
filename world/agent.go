package world

import "sync"

// MaxMessageLen caps a delivered message payload, counted in runes so
// truncation never splits a multi-byte character. Longer payloads are
// truncated at delivery, not rejected.
const MaxMessageLen = 256

// Message is one delivered inbox entry, visible through Observe until the
// next tick begins.
type Message struct {
	SrcUID  uint64 `json:"srcUid"`
	Payload string `json:"payload"`
	Tick    uint64 `json:"tick"`
}

// SensorShape selects the distance metric for an agent's field of view.
type SensorShape string

const (
	SensorManhattan SensorShape = "manhattan"
	SensorSquare    SensorShape = "square"
)

// SensorSpec configures what Observe includes around the agent.
type SensorSpec struct {
	Radius int
	Shape  SensorShape
}

// DefaultSensor matches the stock agent field of view.
func DefaultSensor() SensorSpec {
	return SensorSpec{Radius: 2, Shape: SensorManhattan}
}

// Agent is an actor entity. It may exist independent of any world; it gains a
// uid and a position only when spawned. External code enqueues intents via
// Act; the world consumes them on Tick. The agent's own mutex guards world
// and pos so Act and Pos stay race-free against a concurrent Despawn; the
// remaining fields are owned by the world and accessed under its lock.
type Agent struct {
	mu      sync.Mutex
	world   *World
	pos     Pos
	uid     uint64
	pending *Action
	sensor  SensorSpec
	inbox   []Message
}

// NewAgent builds an unspawned agent with the default sensor.
func NewAgent() *Agent {
	return &Agent{sensor: DefaultSensor()}
}

// NewAgentWithSensor builds an unspawned agent with a custom field of view.
func NewAgentWithSensor(sensor SensorSpec) *Agent {
	if sensor.Radius < 0 {
		sensor.Radius = 0
	}
	if sensor.Shape == "" {
		sensor.Shape = SensorManhattan
	}
	return &Agent{sensor: sensor}
}

// UID reports the registry-assigned identity. Zero until spawned.
func (a *Agent) UID() uint64 { return a.uid }

// Pos reports the agent's current tile. The second result is false until the
// agent has been spawned into a world.
func (a *Agent) Pos() (Pos, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.world == nil {
		return Pos{}, false
	}
	return a.pos, true
}

// attached reads the owning world under the agent's lock. The agent lock is
// never held while acquiring the world lock.
func (a *Agent) attached() *World {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.world
}

// Sensor reports the agent's field-of-view configuration.
func (a *Agent) Sensor() SensorSpec { return a.sensor }

// Act stages an intent for the next tick. Repeated calls before the tick
// overwrite the slot: last write wins. Returns ErrNotSpawned when the agent
// has no world.
func (a *Agent) Act(action Action) error {
	w := a.attached()
	if w == nil {
		return ErrNotSpawned
	}
	return w.submitAction(a, action)
}
