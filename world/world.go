package world

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/AlexanderYashnyk/UnlimitedWorlds/logging"
)

// WorldState is the immutable snapshot produced once per tick: the monotonic
// tick counter and the post-resolution position of every spawned agent.
type WorldState struct {
	Tick      uint64         `json:"tick"`
	Positions map[uint64]Pos `json:"positions"`
}

// Config carries the explicit world construction parameters. Seed and Policy
// are never defaulted to nondeterministic sources: a zero Seed means
// DefaultSeed, an empty Policy means CollisionBlock.
type Config struct {
	Seed      int64
	Policy    CollisionPolicy
	Publisher logging.Publisher
}

func (c Config) normalized() Config {
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
	if c.Policy == "" {
		c.Policy = CollisionBlock
	}
	if c.Publisher == nil {
		c.Publisher = logging.NopPublisher()
	}
	return c
}

// World owns the authoritative simulation state: the grid, the agent
// registry, the RNG, and the hook pipeline. All state is exclusively owned by
// the single logical thread driving ticks; a mutex serializes between-tick
// calls from other goroutines against Tick itself.
type World struct {
	mu      sync.Mutex
	ticking atomic.Bool

	grid      *Grid
	policy    CollisionPolicy
	resolver  collisionResolver
	rng       *RNG
	publisher logging.Publisher

	tick    uint64
	nextUID uint64
	agents  []*Agent // ascending uid; uids are never reused
	byUID   map[uint64]*Agent

	hooks hookPipeline
}

// New constructs a world over grid with the given explicit configuration.
func New(grid *Grid, cfg Config) *World {
	normalized := cfg.normalized()
	return &World{
		grid:      grid,
		policy:    normalized.Policy,
		resolver:  resolverFor(normalized.Policy),
		rng:       NewRNG(normalized.Seed),
		publisher: normalized.Publisher,
		byUID:     make(map[uint64]*Agent),
	}
}

// Grid returns the spatial map the world resolves against.
func (w *World) Grid() *Grid { return w.grid }

// Seed reports the deterministic seed the world was constructed with.
func (w *World) Seed() int64 { return w.rng.Seed() }

// RNGDraws reports the RNG draw counter. Persisted snapshots must carry it
// together with the seed to resume identical streams.
func (w *World) RNGDraws() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rng.Draws()
}

// TickCount reports the number of successfully completed ticks.
func (w *World) TickCount() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tick
}

// Spawn attaches agent to this world at the given tile. It fails with
// ErrOutOfBounds when the tile is unwalkable or outside the grid, and with
// ErrAlreadySpawned when the agent already has a position here. Nothing is
// mutated on failure.
func (w *World) Spawn(agent *Agent, at Pos) error {
	if w.ticking.Load() {
		return ErrTickInProgress
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if agent.attached() != nil {
		return ErrAlreadySpawned
	}
	if !w.grid.IsWalkable(at) {
		return ErrOutOfBounds
	}

	w.nextUID++
	uid := w.nextUID
	_, exists := w.byUID[uid]
	invariant(!exists, "uid %d already registered", uid)

	agent.uid = uid
	agent.mu.Lock()
	agent.world = w
	agent.pos = at
	agent.mu.Unlock()
	w.agents = append(w.agents, agent)
	w.byUID[uid] = agent
	return nil
}

// Despawn detaches agent from the world. The agent is absent from the next
// tick onward; its uid is never reused. Returns ErrNotSpawned when the agent
// is not registered here.
func (w *World) Despawn(agent *Agent) error {
	if w.ticking.Load() {
		return ErrTickInProgress
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if agent.attached() != w {
		return ErrNotSpawned
	}
	for i, a := range w.agents {
		if a == agent {
			w.agents = append(w.agents[:i], w.agents[i+1:]...)
			break
		}
	}
	delete(w.byUID, agent.uid)
	agent.mu.Lock()
	agent.world = nil
	agent.mu.Unlock()
	agent.pending = nil
	agent.inbox = nil
	return nil
}

func (w *World) submitAction(agent *Agent, action Action) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if agent.attached() != w {
		return ErrNotSpawned
	}
	normalized := action.normalized()
	agent.pending = &normalized
	return nil
}

// Snapshot returns the current world state without advancing it.
func (w *World) Snapshot() WorldState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

func (w *World) snapshotLocked() WorldState {
	positions := make(map[uint64]Pos, len(w.agents))
	for _, a := range w.agents {
		positions[a.uid] = a.pos
	}
	return WorldState{Tick: w.tick, Positions: positions}
}

// Tick advances the simulation by exactly one step and returns the new
// snapshot plus the ordered event trail. Ordinary game states never produce
// an error; a failing pre- or resolve-phase hook aborts the tick
// all-or-nothing (no position changes, counter unchanged, intents retained),
// while a failing post-phase hook is reported alongside the already-committed
// snapshot.
func (w *World) Tick() (WorldState, []Event, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ticking.Store(true)
	defer w.ticking.Store(false)

	// Collect: the uid-ordered working set. Every agent participates; a
	// missing pending action becomes an implicit wait. Inboxes delivered
	// last tick expire now.
	order := make([]uint64, 0, len(w.agents))
	intents := make(map[uint64]Action, len(w.agents))
	start := make(map[uint64]Pos, len(w.agents))
	for _, a := range w.agents {
		order = append(order, a.uid)
		start[a.uid] = a.pos
		if a.pending != nil {
			intents[a.uid] = *a.pending
		} else {
			intents[a.uid] = Wait()
		}
		a.inbox = nil
	}

	ctx := &TickContext{
		Tick:    w.tick + 1,
		RNG:     w.rng,
		Grid:    w.grid,
		order:   order,
		intents: intents,
		start:   start,
		phase:   phasePre,
	}

	for i, h := range w.hooks.pre {
		if err := h.PreTick(ctx); err != nil {
			return WorldState{}, ctx.events, fmt.Errorf("pre hook %d: %w", i, err)
		}
	}

	// Desired destinations, then the terrain check. Terrain is a per-agent,
	// order-independent constraint, so it runs before collision policy.
	dests := make(map[uint64]Pos, len(order))
	for _, uid := range order {
		pos := start[uid]
		act := intents[uid]
		if act.Kind == ActionMove && act.Move != nil {
			dx, dy := act.Move.Dir.Offset()
			pos = Pos{X: pos.X + dx, Y: pos.Y + dy}
		}
		dests[uid] = pos
	}
	for _, uid := range order {
		if dests[uid] == start[uid] {
			continue
		}
		if !w.grid.IsWalkable(dests[uid]) {
			ctx.Emit(Event{Name: EventBlockedByWall, Data: BlockedPayload{Agent: uid, To: dests[uid]}})
			dests[uid] = start[uid]
		}
	}

	desired := make(map[uint64]Pos, len(order))
	for uid, pos := range dests {
		desired[uid] = pos
	}
	collided := w.resolver.resolve(order, start, dests)
	for _, uid := range order {
		if collided[uid] {
			ctx.Emit(Event{Name: EventBlockedByCollision, Data: BlockedPayload{Agent: uid, To: desired[uid]}})
		}
	}

	ctx.dests = dests
	ctx.phase = phaseResolve
	for i, h := range w.hooks.resolve {
		if err := h.Resolve(ctx); err != nil {
			return WorldState{}, ctx.events, fmt.Errorf("resolve hook %d: %w", i, err)
		}
	}

	// Commit: write final destinations, deliver messages, advance the
	// counter. From here the tick stands.
	w.tick++
	ctx.Tick = w.tick
	for _, uid := range order {
		a := w.byUID[uid]
		invariant(a != nil, "agent %d vanished mid-tick", uid)
		final := dests[uid]
		moved := final != start[uid]
		a.mu.Lock()
		a.pos = final
		a.mu.Unlock()

		act := intents[uid]
		switch act.Kind {
		case ActionMove:
			if moved {
				ctx.Emit(Event{Name: EventMoved, Data: MovedPayload{Agent: uid, From: start[uid], To: final}})
			}
		case ActionWait:
			ctx.Emit(Event{Name: EventWaited, Data: WaitedPayload{Agent: uid}})
		case ActionSend:
			w.deliverLocked(ctx, uid, act.Send)
		}
	}

	ctx.phase = phasePost
	state := w.snapshotLocked()
	var postErr error
	for i, h := range w.hooks.post {
		if err := h.PostTick(ctx); err != nil {
			postErr = fmt.Errorf("post hook %d: %w", i, err)
			break
		}
	}

	for _, a := range w.agents {
		a.pending = nil
	}

	w.publishLocked(ctx.events)
	return state, ctx.events, postErr
}

func (w *World) deliverLocked(ctx *TickContext, from uint64, send *SendAction) {
	if send == nil {
		return
	}
	target, ok := w.byUID[send.To]
	if !ok {
		ctx.Emit(Event{Name: EventMessageDropped, Data: MessageDroppedPayload{From: from, To: send.To}})
		return
	}
	payload := send.Payload
	if utf8.RuneCountInString(payload) > MaxMessageLen {
		runes := []rune(payload)
		payload = string(runes[:MaxMessageLen])
	}
	target.inbox = append(target.inbox, Message{SrcUID: from, Payload: payload, Tick: w.tick})
	ctx.Emit(Event{Name: EventMessageSent, Data: MessageSentPayload{From: from, To: send.To}})
}

func (w *World) publishLocked(events []Event) {
	bg := context.Background()
	for _, e := range events {
		w.publisher.Publish(bg, logging.Event{
			Type:     logging.EventType(e.Name),
			Tick:     w.tick,
			Severity: logging.SeverityInfo,
			Category: logging.CategoryResolution,
			Payload:  e.Data,
		})
	}
}
