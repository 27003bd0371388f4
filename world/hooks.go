package world

// Phases run in a fixed order within every tick: all pre hooks, core
// resolution, all resolve hooks, commit, all post hooks. Within a phase,
// hooks execute strictly in registration order.

// PreHook observes the tick before destinations are computed. Positions and
// intents are still mutable; rewriting an intent here (slow, knockback) is
// the supported way to alter movement before resolution.
type PreHook interface {
	PreTick(ctx *TickContext) error
}

// ResolveHook observes the tick after collision resolution, with final
// pre-commit destinations. A hook may adjust individual destinations via
// SetDest; the engine does not re-run collision detection afterwards.
type ResolveHook interface {
	Resolve(ctx *TickContext) error
}

// PostHook observes the committed tick. Positions are final; post hooks are
// for telemetry and event emission, never position mutation.
type PostHook interface {
	PostTick(ctx *TickContext) error
}

// PreHookFunc adapts a function to PreHook.
type PreHookFunc func(ctx *TickContext) error

func (f PreHookFunc) PreTick(ctx *TickContext) error { return f(ctx) }

// ResolveHookFunc adapts a function to ResolveHook.
type ResolveHookFunc func(ctx *TickContext) error

func (f ResolveHookFunc) Resolve(ctx *TickContext) error { return f(ctx) }

// PostHookFunc adapts a function to PostHook.
type PostHookFunc func(ctx *TickContext) error

func (f PostHookFunc) PostTick(ctx *TickContext) error { return f(ctx) }

type hookPipeline struct {
	pre     []PreHook
	resolve []ResolveHook
	post    []PostHook
}

// RegisterPre appends a pre-phase hook. Registration is a setup or
// between-tick call, never mid-tick.
func (w *World) RegisterPre(h PreHook) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.hooks.pre = append(w.hooks.pre, h)
}

// RegisterResolve appends a resolve-phase hook.
func (w *World) RegisterResolve(h ResolveHook) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.hooks.resolve = append(w.hooks.resolve, h)
}

// RegisterPost appends a post-phase hook.
func (w *World) RegisterPost(h PostHook) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.hooks.post = append(w.hooks.post, h)
}

// AddSystem registers sys for every phase interface it implements. A system
// implementing none of them is a programming error.
func (w *World) AddSystem(sys any) {
	registered := false
	if h, ok := sys.(PreHook); ok {
		w.RegisterPre(h)
		registered = true
	}
	if h, ok := sys.(ResolveHook); ok {
		w.RegisterResolve(h)
		registered = true
	}
	if h, ok := sys.(PostHook); ok {
		w.RegisterPost(h)
		registered = true
	}
	invariant(registered, "AddSystem: %T implements no hook phase", sys)
}
