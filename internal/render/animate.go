package render

import (
	"micro-city/internal/city"
	"micro-city/internal/tiles"
)

// WaterVariant cycles water tiles through their four frames, advancing every
// other animation frame. Other tiles pass through unchanged.
func WaterVariant(tile, frame uint8) uint8 {
	if !tiles.IsWater(tile) {
		return tile
	}
	return tiles.FirstWater + ((tile - tiles.FirstWater + frame>>1) & 3)
}

// TrafficVariant swaps traffic tiles to their pulsed frame while bit 2 of
// the frame counter is set.
func TrafficVariant(tile, frame uint8) uint8 {
	if frame&4 != 0 && tiles.IsTraffic(tile) {
		return tile + tiles.TrafficPulse
	}
	return tile
}

// OutageShown reports whether unpowered buildings flash their outage tile
// on this frame.
func OutageShown(frame uint8) bool {
	return frame&8 != 0
}

// InteriorTile returns the tile drawn at a building's interior reference
// cell, anchor+(1,1), on the given frame.
func InteriorTile(b city.Building, frame uint8) uint8 {
	if OutageShown(frame) && !b.HasPower {
		return tiles.Outage
	}
	return city.Info(b.Type).DrawTile + tiles.OverlayOffset
}

// Animate applies the per-frame overlay to g: water cycling, traffic
// pulsing and power-outage flicker. g must be a presented copy of the
// cache; the next frame starts again from authoritative tiles.
func Animate(g *Grid, buildings []city.Building, frame uint8) {
	for i, t := range g.Tiles {
		g.Tiles[i] = TrafficVariant(WaterVariant(t, frame), frame)
	}

	for _, b := range buildings {
		if !b.Type.NeedsPower() {
			continue
		}
		x, y, ok := g.Covers(b.X+1, b.Y+1)
		if !ok {
			continue
		}
		g.Set(x, y, InteriorTile(b, frame))
	}
}
