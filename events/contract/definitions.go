package contract

import "github.com/AlexanderYashnyk/UnlimitedWorlds/world"

// DefaultRegistry lists every event the tick engine emits. Hooks emitting
// their own events are not covered here; hosts can extend the registry with
// Append before validation.
func DefaultRegistry() Registry {
	return Registry{
		{Name: world.EventMoved, Payload: &world.MovedPayload{}},
		{Name: world.EventWaited, Payload: &world.WaitedPayload{}},
		{Name: world.EventBlockedByWall, Payload: &world.BlockedPayload{}},
		{Name: world.EventBlockedByCollision, Payload: &world.BlockedPayload{}},
		{Name: world.EventMessageSent, Payload: &world.MessageSentPayload{}},
		{Name: world.EventMessageDropped, Payload: &world.MessageDroppedPayload{}},
	}
}

// Append returns a registry extended with custom definitions. The result
// still needs Validate.
func (r Registry) Append(defs ...Definition) Registry {
	out := make(Registry, 0, len(r)+len(defs))
	out = append(out, r...)
	out = append(out, defs...)
	return out
}
