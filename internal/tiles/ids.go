package tiles

const (
	// Size is the edge length of a tile in pixels. Each tile is stored as
	// Size bytes, one byte per pixel column.
	Size = 8

	// SizeShift converts between pixels and tiles (pixels >> SizeShift).
	SizeShift = 3

	// PerRow is how many tiles sit on one row of the atlas sheet. Multi-cell
	// building sprites step down one sheet row per map row.
	PerRow = 16

	// Count is the number of addressable tile identifiers.
	Count = 256
)

// Tile identifiers. The layout follows the atlas sheet: 16 tiles per row.
const (
	Empty uint8 = 0

	FirstLand uint8 = 1
	LastLand  uint8 = 3

	FirstWater uint8 = 4
	LastWater  uint8 = 7

	FirstForest uint8 = 8
	LastForest  uint8 = 11

	// Outage is flashed over the interior cell of unpowered buildings.
	Outage uint8 = 12

	FirstRoad uint8 = 16
	LastRoad  uint8 = 27

	FirstRoadTraffic uint8 = 32
	LastRoadTraffic  uint8 = 43

	// TrafficPulse is added to a traffic tile to select its pulsed frame.
	TrafficPulse uint8 = 16

	FirstPowerline uint8 = 64
	LastPowerline  uint8 = 75

	FirstPowerlineRoad uint8 = 76
	LastPowerlineRoad  uint8 = 77

	FirstBrush uint8 = 240
)

const (
	// DevelopedOffset moves a zoned building sprite to its fully developed
	// variant, three sheet rows below the base sprite.
	DevelopedOffset uint8 = 3 * PerRow

	// OverlayOffset addresses the interior (1,1) sub-tile of a building sprite.
	OverlayOffset uint8 = PerRow + 1
)

// IsWater reports whether id is one of the animated water tiles.
func IsWater(id uint8) bool {
	return id >= FirstWater && id <= LastWater
}

// IsTraffic reports whether id is an (unpulsed) traffic road tile.
func IsTraffic(id uint8) bool {
	return id >= FirstRoadTraffic && id <= LastRoadTraffic
}
