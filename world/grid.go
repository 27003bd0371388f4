package world

// Pos addresses a single tile on the grid.
type Pos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Tile is the capability surface the engine needs from map content. Custom
// tile types may carry arbitrary extra data; the engine only ever asks for
// walkability.
type Tile interface {
	Walkable() bool
}

// Floor is the default walkable tile.
type Floor struct{}

func (Floor) Walkable() bool { return true }

// Wall blocks movement.
type Wall struct{}

func (Wall) Walkable() bool { return false }

// Grid owns map topology and walkability queries. It is read-only from the
// engine's perspective while a tick resolves; Set is a setup or between-tick
// call.
type Grid struct {
	width  int
	height int
	tiles  []Tile
}

// NewGrid builds a width×height grid where every tile defaults to Floor.
func NewGrid(width, height int) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Grid{width: width, height: height, tiles: make([]Tile, width*height)}
}

// Width reports the horizontal extent of the grid.
func (g *Grid) Width() int { return g.width }

// Height reports the vertical extent of the grid.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether pos lies inside the configured extents.
func (g *Grid) InBounds(pos Pos) bool {
	return pos.X >= 0 && pos.X < g.width && pos.Y >= 0 && pos.Y < g.height
}

func (g *Grid) index(pos Pos) int {
	return pos.Y*g.width + pos.X
}

// At returns the tile at pos, or ErrOutOfBounds outside the extents.
func (g *Grid) At(pos Pos) (Tile, error) {
	if !g.InBounds(pos) {
		return nil, ErrOutOfBounds
	}
	tile := g.tiles[g.index(pos)]
	if tile == nil {
		return Floor{}, nil
	}
	return tile, nil
}

// Set replaces the tile at pos, or returns ErrOutOfBounds outside the
// extents. Nothing is mutated on failure.
func (g *Grid) Set(pos Pos, tile Tile) error {
	if !g.InBounds(pos) {
		return ErrOutOfBounds
	}
	g.tiles[g.index(pos)] = tile
	return nil
}

// IsWalkable reports whether pos can be occupied. Out-of-bounds coordinates
// are never walkable.
func (g *Grid) IsWalkable(pos Pos) bool {
	if !g.InBounds(pos) {
		return false
	}
	tile := g.tiles[g.index(pos)]
	if tile == nil {
		return true
	}
	return tile.Walkable()
}
