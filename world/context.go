package world

type tickPhase int

const (
	phasePre tickPhase = iota
	phaseResolve
	phasePost
)

// TickContext is the ephemeral, tick-scoped view handed to hooks. It carries
// the RNG handle, the map reference, the in-flight positions and intents, and
// the growing event list. The engine owns it for the duration of one tick.
type TickContext struct {
	Tick uint64
	RNG  *RNG
	Grid *Grid

	order   []uint64
	intents map[uint64]Action
	start   map[uint64]Pos
	dests   map[uint64]Pos
	phase   tickPhase
	events  []Event
}

// UIDs returns the participating agents in resolution order (ascending uid).
func (ctx *TickContext) UIDs() []uint64 {
	out := make([]uint64, len(ctx.order))
	copy(out, ctx.order)
	return out
}

// Intent returns the pending action for uid. Agents with no submitted action
// carry an implicit wait.
func (ctx *TickContext) Intent(uid uint64) (Action, bool) {
	act, ok := ctx.intents[uid]
	return act, ok
}

// SetIntent rewrites the pending action for uid. Valid only during the pre
// phase, before destinations are computed; later calls are ignored and report
// false.
func (ctx *TickContext) SetIntent(uid uint64, action Action) bool {
	if ctx.phase != phasePre {
		return false
	}
	if _, ok := ctx.intents[uid]; !ok {
		return false
	}
	ctx.intents[uid] = action.normalized()
	return true
}

// Pos returns the position of uid as visible in the current phase: the
// start-of-tick tile before commit, the committed tile afterwards.
func (ctx *TickContext) Pos(uid uint64) (Pos, bool) {
	if ctx.phase == phasePost {
		pos, ok := ctx.dests[uid]
		return pos, ok
	}
	pos, ok := ctx.start[uid]
	return pos, ok
}

// StartPos always returns the start-of-tick position, in any phase.
func (ctx *TickContext) StartPos(uid uint64) (Pos, bool) {
	pos, ok := ctx.start[uid]
	return pos, ok
}

// Dest returns the agent's resolution destination. It is populated from the
// resolve phase onward; before that it reports false.
func (ctx *TickContext) Dest(uid uint64) (Pos, bool) {
	if ctx.phase == phasePre {
		return Pos{}, false
	}
	pos, ok := ctx.dests[uid]
	return pos, ok
}

// SetDest overrides the pre-commit destination for uid. Valid only during the
// resolve phase. The engine does not re-run collision detection over the
// override; the hook owns the consequences for that agent alone.
func (ctx *TickContext) SetDest(uid uint64, pos Pos) bool {
	if ctx.phase != phaseResolve {
		return false
	}
	if _, ok := ctx.dests[uid]; !ok {
		return false
	}
	ctx.dests[uid] = pos
	return true
}

// Emit appends an event to the tick's ordered sequence.
func (ctx *TickContext) Emit(event Event) {
	ctx.events = append(ctx.events, event)
}
