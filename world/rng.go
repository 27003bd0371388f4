package world

// DefaultSeed is used when a Config leaves the seed unset. Seeds never come
// from wall-clock time or other nondeterministic entropy.
const DefaultSeed int64 = 1337

// RNG is a counter-based deterministic random source. Every draw is a pure
// function of the seed and the draw count, so a stream can be resumed from a
// persisted (seed, draws) pair without replaying the tick history.
//
// The generator is SplitMix64: one 64-bit mix of seed plus a per-draw
// increment. It is consumed only through the TickContext so one tick's total
// draw sequence stays reproducible.
type RNG struct {
	seed  int64
	draws uint64
}

// NewRNG builds a source positioned at draw zero.
func NewRNG(seed int64) *RNG {
	return &RNG{seed: seed}
}

// RestoreRNG rebuilds a source mid-stream, e.g. from a journal entry.
func RestoreRNG(seed int64, draws uint64) *RNG {
	return &RNG{seed: seed, draws: draws}
}

// Seed reports the seed the source was constructed with.
func (r *RNG) Seed() int64 { return r.seed }

// Draws reports how many values have been drawn. Persisted snapshots must
// include it alongside the seed to preserve determinism across restarts.
func (r *RNG) Draws() uint64 { return r.draws }

// Uint64 draws the next raw value.
func (r *RNG) Uint64() uint64 {
	r.draws++
	x := uint64(r.seed) + r.draws*0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// Float64 draws a value in [0, 1).
func (r *RNG) Float64() float64 {
	return float64(r.Uint64()>>11) / (1 << 53)
}

// Intn draws a value in [0, n). It panics if n <= 0.
func (r *RNG) Intn(n int) int {
	invariant(n > 0, "Intn with non-positive bound %d", n)
	return int(r.Uint64() % uint64(n))
}
