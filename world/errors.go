package world

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds rejects a coordinate outside the grid extents or a
	// spawn onto an unwalkable tile.
	ErrOutOfBounds = errors.New("world: position out of bounds or unwalkable")
	// ErrAlreadySpawned rejects a duplicate spawn for a live agent.
	ErrAlreadySpawned = errors.New("world: agent already spawned")
	// ErrNotSpawned rejects an operation on an agent with no position.
	ErrNotSpawned = errors.New("world: agent not spawned")
	// ErrTickInProgress rejects registry mutation while a tick resolves.
	// Hooks must not spawn or despawn agents mid-tick.
	ErrTickInProgress = errors.New("world: tick in progress")
)

// InvariantViolation is the panic value raised for malformed internal state
// (uid collision, missing tile lookup). These are programming errors, never
// recoverable game states.
type InvariantViolation struct {
	Detail string
}

func (v InvariantViolation) Error() string {
	return fmt.Sprintf("world: tick invariant violated: %s", v.Detail)
}

func invariant(cond bool, format string, args ...any) {
	if !cond {
		panic(InvariantViolation{Detail: fmt.Sprintf(format, args...)})
	}
}
