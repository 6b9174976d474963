// Package city holds the world state the renderer reads: building slots,
// road and powerline connectivity, and position-derived terrain.
package city

import (
	"errors"
	"fmt"

	"micro-city/internal/tiles"
)

const (
	MapWidth  = 48
	MapHeight = 48
)

// Connectivity mask bits.
const (
	RoadMask uint8 = 1 << iota
	PowerlineMask
)

var (
	ErrOutOfBounds = errors.New("city: out of bounds")
	ErrOverlap     = errors.New("city: footprint overlaps another building")
	ErrNoSlot      = errors.New("city: no free building slot")
	ErrUnknownType = errors.New("city: unknown building type")
	ErrDensity     = errors.New("city: population density out of range")
)

// InBounds reports whether (x,y) is a map cell.
func InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < MapWidth && y < MapHeight
}

// City is the mutable world state. Mutations must happen between rendered
// frames; the renderer only reads it.
type City struct {
	Name string

	buildings [MaxBuildings]Building
	conn      [MapHeight][MapWidth]uint8
	terrain   *Terrain
}

// New returns an empty city whose terrain derives from seed.
func New(name string, seed int64) *City {
	return &City{Name: name, terrain: NewTerrain(seed)}
}

// Seed returns the terrain seed.
func (c *City) Seed() int64 {
	return c.terrain.Seed()
}

// Buildings returns every building slot, including empty ones. The slice
// aliases the city.
func (c *City) Buildings() []Building {
	return c.buildings[:]
}

// Building returns slot i for in-place edits between frames.
func (c *City) Building(i int) *Building {
	if i < 0 || i >= MaxBuildings {
		return nil
	}
	return &c.buildings[i]
}

// BuildingCount returns the number of occupied slots.
func (c *City) BuildingCount() int {
	n := 0
	for i := range c.buildings {
		if c.buildings[i].Type != None {
			n++
		}
	}
	return n
}

// BuildingAt returns the slot of the building covering (x,y).
func (c *City) BuildingAt(x, y int) (int, bool) {
	for i := range c.buildings {
		if c.buildings[i].Contains(x, y) {
			return i, true
		}
	}
	return -1, false
}

// PlaceBuilding stores b in the first free slot and clears any roads or
// powerlines under its footprint.
func (c *City) PlaceBuilding(b Building) (int, error) {
	if b.Type == None || b.Type >= NumBuildingTypes {
		return -1, fmt.Errorf("%w: %d", ErrUnknownType, b.Type)
	}
	if b.PopulationDensity > MaxPopulationDensity {
		return -1, fmt.Errorf("%w: %d", ErrDensity, b.PopulationDensity)
	}
	w, h := b.Size()
	if !InBounds(b.X, b.Y) || !InBounds(b.X+w-1, b.Y+h-1) {
		return -1, fmt.Errorf("%w: %s at (%d,%d)", ErrOutOfBounds, b.Type, b.X, b.Y)
	}

	free := -1
	for i := range c.buildings {
		existing := c.buildings[i]
		if existing.Type == None {
			if free < 0 {
				free = i
			}
			continue
		}
		if existing.overlaps(b) {
			return -1, fmt.Errorf("%w: %s at (%d,%d) and %s at (%d,%d)",
				ErrOverlap, b.Type, b.X, b.Y, existing.Type, existing.X, existing.Y)
		}
	}
	if free < 0 {
		return -1, ErrNoSlot
	}

	c.buildings[free] = b
	for y := b.Y; y < b.Y+h; y++ {
		for x := b.X; x < b.X+w; x++ {
			c.conn[y][x] = 0
		}
	}
	return free, nil
}

// Connections returns the connectivity mask of a cell, 0 outside the map.
func (c *City) Connections(x, y int) uint8 {
	if !InBounds(x, y) {
		return 0
	}
	return c.conn[y][x]
}

// SetConnections replaces the connectivity mask of a cell.
func (c *City) SetConnections(x, y int, mask uint8) error {
	if !InBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
	}
	c.conn[y][x] = mask & (RoadMask | PowerlineMask)
	return nil
}

// Bulldoze clears the building covering (x,y), or the cell's roads and
// powerlines when there is none.
func (c *City) Bulldoze(x, y int) error {
	if !InBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
	}
	if i, ok := c.BuildingAt(x, y); ok {
		c.buildings[i] = Building{}
		return nil
	}
	c.conn[y][x] = 0
	return nil
}

// TerrainTile returns the terrain tile at (x,y).
func (c *City) TerrainTile(x, y int) uint8 {
	return c.terrain.Tile(x, y)
}

// ConnectivityVariant picks the junction variant of (x,y) from which of its
// four neighbors carry any of the infrastructure in mask.
func (c *City) ConnectivityVariant(x, y int, mask uint8) int {
	var sides uint8
	if c.Connections(x, y-1)&mask != 0 {
		sides |= tiles.ConnN
	}
	if c.Connections(x+1, y)&mask != 0 {
		sides |= tiles.ConnE
	}
	if c.Connections(x, y+1)&mask != 0 {
		sides |= tiles.ConnS
	}
	if c.Connections(x-1, y)&mask != 0 {
		sides |= tiles.ConnW
	}
	return int(tiles.VariantOf(sides))
}
