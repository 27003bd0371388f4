// Package lifecycle carries the host-side events published when agents join
// or leave a world.
package lifecycle

import (
	"context"

	"github.com/AlexanderYashnyk/UnlimitedWorlds/logging"
)

const (
	EventAgentSpawned   logging.EventType = "lifecycle.agent_spawned"
	EventAgentDespawned logging.EventType = "lifecycle.agent_despawned"
)

// SpawnPayload records where an agent entered the world.
type SpawnPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// AgentSpawned publishes an info event for a successful spawn.
func AgentSpawned(ctx context.Context, pub logging.Publisher, tick, agent uint64, payload SpawnPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventAgentSpawned,
		Tick:     tick,
		Agent:    agent,
		Severity: logging.SeverityInfo,
		Category: logging.CategorySystem,
		Payload:  payload,
	})
}

// AgentDespawned publishes an info event when an agent is removed.
func AgentDespawned(ctx context.Context, pub logging.Publisher, tick, agent uint64) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventAgentDespawned,
		Tick:     tick,
		Agent:    agent,
		Severity: logging.SeverityInfo,
		Category: logging.CategorySystem,
	})
}
