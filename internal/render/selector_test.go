package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"micro-city/internal/city"
	"micro-city/internal/tiles"
)

// newTestCity returns an empty city with a fixed terrain seed.
func newTestCity(t *testing.T) *city.City {
	t.Helper()
	return city.New("test", 11)
}

func place(t *testing.T, c *city.City, b city.Building) {
	t.Helper()
	_, err := c.PlaceBuilding(b)
	require.NoError(t, err)
}

func road(t *testing.T, c *city.City, x, y int) {
	t.Helper()
	require.NoError(t, c.SetConnections(x, y, c.Connections(x, y)|city.RoadMask))
}

func TestSelectTileRoadScenario(t *testing.T) {
	c := newTestCity(t)
	road(t, c, 5, 5)
	assert.Equal(t, tiles.FirstRoad+tiles.VariantIsolated, SelectTile(c, 5, 5))

	road(t, c, 6, 5)
	assert.Equal(t, tiles.FirstRoad+tiles.VariantHorizontal, SelectTile(c, 5, 5))
}

func TestSelectTileOutOfBounds(t *testing.T) {
	c := city.Default()
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {city.MapWidth, 0}, {0, city.MapHeight}, {-100, 500}} {
		assert.Equal(t, tiles.Empty, SelectTile(c, p[0], p[1]), "%v", p)
	}
}

func TestSelectTileFootprint(t *testing.T) {
	tests := []struct {
		name    string
		b       city.Building
		develop uint8
	}{
		{"park", city.Building{Type: city.Park, X: 4, Y: 6}, 0},
		{"sparse residential", city.Building{Type: city.Residential, X: 10, Y: 10, PopulationDensity: 3}, 0},
		{"developed commercial", city.Building{Type: city.Commercial, X: 20, Y: 2, PopulationDensity: city.MaxPopulationDensity - 1}, tiles.DevelopedOffset},
		{"full industrial", city.Building{Type: city.Industrial, X: 0, Y: 0, PopulationDensity: city.MaxPopulationDensity}, tiles.DevelopedOffset},
		{"stadium never develops", city.Building{Type: city.Stadium, X: 40, Y: 40, PopulationDensity: city.MaxPopulationDensity}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCity(t)
			place(t, c, tt.b)

			base := city.Info(tt.b.Type).DrawTile + tt.develop
			w, h := tt.b.Size()
			for y := tt.b.Y; y < tt.b.Y+h; y++ {
				for x := tt.b.X; x < tt.b.X+w; x++ {
					want := base + uint8((y-tt.b.Y)*16+(x-tt.b.X))
					assert.Equal(t, want, SelectTile(c, x, y), "(%d,%d)", x, y)
				}
			}

			// Cells just outside the footprint fall through to terrain.
			if city.InBounds(tt.b.X+w, tt.b.Y) {
				assert.Equal(t, c.TerrainTile(tt.b.X+w, tt.b.Y), SelectTile(c, tt.b.X+w, tt.b.Y))
			}
		})
	}
}

func TestSelectTileHighTraffic(t *testing.T) {
	c := newTestCity(t)
	place(t, c, city.Building{Type: city.Commercial, X: 6, Y: 3, HeavyTraffic: true})
	road(t, c, 5, 5)  // west of the footprint
	road(t, c, 9, 6)  // diagonal to the south-east corner
	road(t, c, 10, 5) // two cells east

	assert.True(t, HasHighTraffic(c, 5, 5))
	assert.True(t, HasHighTraffic(c, 9, 6))
	assert.False(t, HasHighTraffic(c, 10, 5))

	assert.Equal(t, tiles.FirstRoadTraffic+tiles.VariantIsolated, SelectTile(c, 5, 5))
	assert.Equal(t, tiles.FirstRoadTraffic+tiles.VariantIsolated, SelectTile(c, 9, 6))
	assert.Equal(t, tiles.FirstRoad+tiles.VariantIsolated, SelectTile(c, 10, 5))

	// Quiet buildings do not generate traffic.
	c.Building(0).HeavyTraffic = false
	assert.Equal(t, tiles.FirstRoad+tiles.VariantIsolated, SelectTile(c, 5, 5))
}

func TestSelectTilePowerlines(t *testing.T) {
	c := newTestCity(t)
	for y := 10; y <= 12; y++ {
		require.NoError(t, c.SetConnections(20, y, city.PowerlineMask))
	}
	assert.Equal(t, tiles.FirstPowerline+tiles.VariantVertical, SelectTile(c, 20, 11))

	// A road crossing the powerline uses the road variant's low bit.
	road(t, c, 19, 11)
	road(t, c, 21, 11)
	require.NoError(t, c.SetConnections(20, 11, city.RoadMask|city.PowerlineMask))
	assert.Equal(t, tiles.FirstPowerlineRoad+(tiles.VariantHorizontal&1), SelectTile(c, 20, 11))

	// Turning the crossing vertical flips it to the other variant.
	require.NoError(t, c.SetConnections(19, 11, 0))
	require.NoError(t, c.SetConnections(21, 11, 0))
	require.NoError(t, c.SetConnections(20, 10, city.RoadMask))
	require.NoError(t, c.SetConnections(20, 12, city.RoadMask))
	assert.Equal(t, tiles.FirstPowerlineRoad+(tiles.VariantVertical&1), SelectTile(c, 20, 11))
	assert.NotEqual(t, SelectTile(c, 20, 11), tiles.FirstPowerlineRoad+(tiles.VariantHorizontal&1))
}

func TestSelectTileIsPure(t *testing.T) {
	c := city.Default()
	for y := -1; y <= city.MapHeight; y++ {
		for x := -1; x <= city.MapWidth; x++ {
			require.Equal(t, SelectTile(c, x, y), SelectTile(c, x, y), "(%d,%d)", x, y)
		}
	}
}

func TestSelectTileFirstBuildingWins(t *testing.T) {
	c := newTestCity(t)
	place(t, c, city.Building{Type: city.Park, X: 2, Y: 2})
	// Bypass placement checks to force an overlap.
	*c.Building(1) = city.Building{Type: city.PoliceDept, X: 2, Y: 2}
	assert.Equal(t, tiles.ParkTile, SelectTile(c, 2, 2))
}
