package render

import (
	"micro-city/internal/city"
	"micro-city/internal/tiles"
)

// World is the read-only view of world state the renderer consumes.
// *city.City satisfies it.
type World interface {
	Buildings() []city.Building
	Connections(x, y int) uint8
	ConnectivityVariant(x, y int, mask uint8) int
	TerrainTile(x, y int) uint8
}

// SelectTile derives the tile id of map cell (x,y). It has no side effects:
// equal world state always yields the same id.
func SelectTile(w World, x, y int) uint8 {
	if !city.InBounds(x, y) {
		return tiles.Empty
	}

	// --- Buildings ---
	for _, b := range w.Buildings() {
		if !b.Contains(x, y) {
			continue
		}
		tile := city.Info(b.Type).DrawTile
		if b.Type.Zoned() && b.PopulationDensity >= city.MaxPopulationDensity-1 {
			tile += tiles.DevelopedOffset
		}
		return tile + uint8((y-b.Y)*tiles.PerRow+(x-b.X))
	}

	// --- Roads and powerlines ---
	switch w.Connections(x, y) {
	case city.RoadMask:
		variant := uint8(w.ConnectivityVariant(x, y, city.RoadMask))
		if HasHighTraffic(w, x, y) {
			return tiles.FirstRoadTraffic + variant
		}
		return tiles.FirstRoad + variant
	case city.PowerlineMask:
		return tiles.FirstPowerline + uint8(w.ConnectivityVariant(x, y, city.PowerlineMask))
	case city.RoadMask | city.PowerlineMask:
		return tiles.FirstPowerlineRoad + uint8(w.ConnectivityVariant(x, y, city.RoadMask)&1)
	}

	return w.TerrainTile(x, y)
}

// HasHighTraffic reports whether (x,y) lies within one cell of a building
// flagged with heavy traffic.
func HasHighTraffic(w World, x, y int) bool {
	for _, b := range w.Buildings() {
		if b.Type == city.None || !b.HeavyTraffic {
			continue
		}
		bw, bh := b.Size()
		if x >= b.X-1 && y >= b.Y-1 && x <= b.X+bw && y <= b.Y+bh {
			return true
		}
	}
	return false
}
