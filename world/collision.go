package world

// CollisionPolicy selects the rule set applied when desired destinations
// conflict. BLOCK is the only built-in policy; resolvers are looked up by
// policy so new ones can be added without touching the surrounding tick
// steps.
type CollisionPolicy string

const (
	// CollisionBlock denies conflicting moves: swaps are always blocked,
	// destination conflicts are granted to the lowest uid, and tiles whose
	// occupant stays put this tick are unavailable.
	CollisionBlock CollisionPolicy = "block"
)

// collisionResolver forces losing agents back to their start positions and
// reports the set of blocked uids. dests is mutated in place.
type collisionResolver interface {
	resolve(order []uint64, start, dests map[uint64]Pos) map[uint64]bool
}

func resolverFor(policy CollisionPolicy) collisionResolver {
	switch policy {
	case CollisionBlock:
		return blockResolver{}
	default:
		panic(InvariantViolation{Detail: "unknown collision policy " + string(policy)})
	}
}

type blockResolver struct{}

// resolve runs a single pass: swap detection, then destination-conflict
// grouping, then the stationary-occupant check. Agents blocked by the final
// check do not feed back into further blocking; there is no cascading chain
// resolution.
func (blockResolver) resolve(order []uint64, start, dests map[uint64]Pos) map[uint64]bool {
	blocked := make(map[uint64]bool)

	occupant := make(map[Pos]uint64, len(order))
	for _, uid := range order {
		occupant[start[uid]] = uid
	}
	moving := func(uid uint64) bool {
		return !blocked[uid] && dests[uid] != start[uid]
	}

	// Direct two-agent swaps are blocked for both, regardless of uid order.
	for _, uid := range order {
		if !moving(uid) {
			continue
		}
		other, ok := occupant[dests[uid]]
		if !ok || other == uid {
			continue
		}
		if dests[other] != start[other] && dests[other] == start[uid] {
			blocked[uid] = true
			blocked[other] = true
		}
	}

	// Destination conflicts: the earliest uid claiming a tile wins. order is
	// ascending, so the first claimant seen is the winner.
	claimed := make(map[Pos]uint64, len(order))
	for _, uid := range order {
		if !moving(uid) {
			continue
		}
		if _, taken := claimed[dests[uid]]; taken {
			blocked[uid] = true
			continue
		}
		claimed[dests[uid]] = uid
	}

	// A tile whose occupant stays put this tick is not vacated; movers
	// targeting it are forced back, and their own tiles in turn stay
	// occupied. The stay set is closed to a fixed point so a blocked agent
	// never frees its tile for a follower, regardless of uid order. Closure
	// only ever adds blocks, never grants new moves, so the outcome stays a
	// pure function of uid order.
	stays := make(map[uint64]bool, len(order))
	for _, uid := range order {
		if blocked[uid] || dests[uid] == start[uid] {
			stays[uid] = true
		}
	}
	for changed := true; changed; {
		changed = false
		for _, uid := range order {
			if !moving(uid) {
				continue
			}
			if other, ok := occupant[dests[uid]]; ok && other != uid && stays[other] {
				blocked[uid] = true
				stays[uid] = true
				changed = true
			}
		}
	}

	for _, uid := range order {
		if blocked[uid] {
			dests[uid] = start[uid]
		}
	}
	return blocked
}
