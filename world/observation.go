package world

// VisibleTile is one in-bounds tile within an agent's sensor range. Tile
// names reduce to the walkability capability: "floor" or "wall".
type VisibleTile struct {
	Pos  Pos    `json:"pos"`
	Tile string `json:"tile"`
}

// VisibleEntity is one agent within sensor range, self included.
type VisibleEntity struct {
	UID  uint64 `json:"uid"`
	Kind string `json:"kind"`
	Pos  Pos    `json:"pos"`
}

// Observation is an agent's local view of the world: sensed tiles and
// entities, plus any messages delivered on the most recent tick.
type Observation struct {
	Tick     uint64          `json:"tick"`
	SelfUID  uint64          `json:"selfUid"`
	SelfPos  Pos             `json:"selfPos"`
	Tiles    []VisibleTile   `json:"tiles"`
	Entities []VisibleEntity `json:"entities"`
	Messages []Message       `json:"messages,omitempty"`
}

// Observe builds the local view for agent. Returns ErrNotSpawned when the
// agent has no position in this world.
func (w *World) Observe(agent *Agent) (Observation, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if agent.attached() != w {
		return Observation{}, ErrNotSpawned
	}

	center, _ := agent.Pos()
	radius := agent.sensor.Radius
	shape := agent.sensor.Shape

	var tiles []VisibleTile
	visible := make(map[Pos]bool)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			switch shape {
			case SensorManhattan:
				if abs(dx)+abs(dy) > radius {
					continue
				}
			case SensorSquare:
				if max(abs(dx), abs(dy)) > radius {
					continue
				}
			default:
				continue
			}

			pos := Pos{X: center.X + dx, Y: center.Y + dy}
			if !w.grid.InBounds(pos) {
				continue
			}
			name := "wall"
			if w.grid.IsWalkable(pos) {
				name = "floor"
			}
			tiles = append(tiles, VisibleTile{Pos: pos, Tile: name})
			visible[pos] = true
		}
	}

	// w.agents is kept in ascending uid order, so entity order is
	// deterministic without re-sorting.
	var entities []VisibleEntity
	for _, a := range w.agents {
		if visible[a.pos] {
			entities = append(entities, VisibleEntity{UID: a.uid, Kind: "agent", Pos: a.pos})
		}
	}

	var messages []Message
	if len(agent.inbox) > 0 {
		messages = make([]Message, len(agent.inbox))
		copy(messages, agent.inbox)
	}

	return Observation{
		Tick:     w.tick,
		SelfUID:  agent.uid,
		SelfPos:  center,
		Tiles:    tiles,
		Entities: entities,
		Messages: messages,
	}, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
