package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"micro-city/internal/city"
	"micro-city/internal/tiles"
)

func TestWaterVariantPeriod(t *testing.T) {
	for tile := tiles.FirstWater; tile <= tiles.LastWater; tile++ {
		seen := map[uint8]bool{}
		for f := 0; f < 256; f++ {
			frame := uint8(f)
			got := WaterVariant(tile, frame)
			assert.True(t, tiles.IsWater(got), "tile %d frame %d", tile, frame)
			assert.Equal(t, got, WaterVariant(tile, frame+8), "tile %d frame %d", tile, frame)
			seen[got] = true
		}
		assert.Len(t, seen, 4, "tile %d visits every water frame", tile)
	}

	assert.Equal(t, tiles.FirstWater+1, WaterVariant(tiles.FirstWater, 2))
	assert.Equal(t, tiles.FirstWater, WaterVariant(tiles.LastWater, 2))
	assert.Equal(t, tiles.FirstLand, WaterVariant(tiles.FirstLand, 6))
}

func TestTrafficVariantPeriod(t *testing.T) {
	for v := uint8(0); v < tiles.NumVariants; v++ {
		tile := tiles.FirstRoadTraffic + v
		for f := 0; f < 256; f++ {
			frame := uint8(f)
			got := TrafficVariant(tile, frame)
			assert.Equal(t, got, TrafficVariant(tile, frame+8))
			if frame&4 != 0 {
				assert.Equal(t, tile+tiles.TrafficPulse, got)
			} else {
				assert.Equal(t, tile, got)
			}
		}
	}

	// Plain roads never pulse.
	assert.Equal(t, tiles.FirstRoad, TrafficVariant(tiles.FirstRoad, 4))
}

func TestOutageScenario(t *testing.T) {
	b := city.Building{Type: city.Residential, X: 2, Y: 2, HasPower: false}
	normal := city.Info(city.Residential).DrawTile + tiles.OverlayOffset

	g := NewGrid(17, 9)
	Animate(g, []city.Building{b}, 8)
	assert.Equal(t, tiles.Outage, g.At(3, 3))

	Animate(g, []city.Building{b}, 16)
	assert.Equal(t, normal, g.At(3, 3))

	Animate(g, []city.Building{b}, 24)
	assert.Equal(t, tiles.Outage, g.At(3, 3))

	for f := 0; f < 8; f++ {
		assert.Equal(t, normal, InteriorTile(b, uint8(f)))
	}
}

func TestOutageSkipsPoweredParksAndOffscreen(t *testing.T) {
	g := NewGrid(17, 9)
	g.OriginX, g.OriginY = 10, 10
	buildings := []city.Building{
		{Type: city.PoliceDept, X: 10, Y: 10, HasPower: true},
		{Type: city.Park, X: 14, Y: 10},
		{Type: city.Industrial, X: 40, Y: 40},
		{Type: city.Commercial, X: 8, Y: 8},
	}

	Animate(g, buildings, 8)

	assert.Equal(t, city.Info(city.PoliceDept).DrawTile+tiles.OverlayOffset, g.At(1, 1))
	assert.Equal(t, tiles.Empty, g.At(5, 1), "parks need no power")
	// The commercial block's reference cell (9,9) lies outside the grid.
	assert.Equal(t, tiles.Empty, g.At(0, 0))
}

func TestAnimateAppliesWaterAndTraffic(t *testing.T) {
	g := NewGrid(2, 1)
	g.Tiles[0] = tiles.FirstWater
	g.Tiles[1] = tiles.FirstRoadTraffic + tiles.VariantCross

	Animate(g, nil, 6)
	assert.Equal(t, tiles.FirstWater+3, g.Tiles[0])
	assert.Equal(t, tiles.FirstRoadTraffic+tiles.VariantCross+tiles.TrafficPulse, g.Tiles[1])
}
