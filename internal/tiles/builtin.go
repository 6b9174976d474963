package tiles

import "sync"

// Base sprite tiles of the building types. A building of size WxH occupies
// base + row*PerRow + col for every sub-tile in its footprint.
const (
	ResidentialTile uint8 = 80
	CommercialTile  uint8 = 83
	IndustrialTile  uint8 = 86
	ParkTile        uint8 = 89
	PoliceTile      uint8 = 92
	FireTile        uint8 = 137
	PowerplantTile  uint8 = 176
	StadiumTile     uint8 = 180
)

// Brush icons, FirstBrush + index.
const (
	BrushBulldozer = iota
	BrushRoad
	BrushPowerline
	FirstBuildingBrush
)

var (
	builtinOnce sync.Once
	builtin     *Atlas
)

// Builtin returns the default atlas. It is generated on first use and shared
// by every caller afterwards.
func Builtin() *Atlas {
	builtinOnce.Do(func() {
		sheet := make([]byte, Count*Size)
		paintSheet(sheet)
		builtin = &Atlas{data: sheet}
	})
	return builtin
}

// glyph is one tile worth of pixel columns.
type glyph [Size]byte

func (g *glyph) set(x, y int) {
	if x < 0 || y < 0 || x >= Size || y >= Size {
		return
	}
	g[x] |= 1 << uint(y)
}

// rows builds a glyph from eight 8-character rows, '#' marks a set pixel.
func rows(lines ...string) glyph {
	var g glyph
	for y, line := range lines {
		for x, ch := range line {
			if ch == '#' {
				g.set(x, y)
			}
		}
	}
	return g
}

func put(sheet []byte, id uint8, g glyph) {
	copy(sheet[int(id)*Size:], g[:])
}

func paintSheet(sheet []byte) {
	paintTerrain(sheet)
	for v := uint8(0); v < NumVariants; v++ {
		put(sheet, FirstRoad+v, roadGlyph(SidesOf(v), -1))
		put(sheet, FirstRoadTraffic+v, roadGlyph(SidesOf(v), 0))
		put(sheet, FirstRoadTraffic+TrafficPulse+v, roadGlyph(SidesOf(v), 1))
		put(sheet, FirstPowerline+v, powerlineGlyph(SidesOf(v)))
	}
	put(sheet, FirstPowerlineRoad, crossingGlyph(false))
	put(sheet, FirstPowerlineRoad+1, crossingGlyph(true))
	paintBuildings(sheet)
	paintBrushes(sheet)
}

// --- Terrain ---

func paintTerrain(sheet []byte) {
	put(sheet, FirstLand, rows(
		"........",
		"........",
		".....#..",
		"........",
		"........",
		"..#.....",
		"........",
		"........",
	))
	put(sheet, FirstLand+1, rows(
		"........",
		".#......",
		"........",
		"......#.",
		"........",
		"........",
		"...#....",
		"........",
	))
	put(sheet, FirstLand+2, rows(
		"........",
		"........",
		"........",
		"...#.#..",
		"....#...",
		"........",
		"........",
		"........",
	))

	for phase := 0; phase < 4; phase++ {
		var g glyph
		for x := 0; x < Size; x++ {
			a := (x + phase*2) & 7
			b := (x + phase*2 + 4) & 7
			if a < 2 {
				g.set(x, 1)
			} else if a == 2 {
				g.set(x, 2)
			}
			if b < 2 {
				g.set(x, 5)
			} else if b == 2 {
				g.set(x, 6)
			}
		}
		put(sheet, FirstWater+uint8(phase), g)
	}

	put(sheet, FirstForest, rows(
		"...##...",
		"..####..",
		".######.",
		"..####..",
		".######.",
		"########",
		"...##...",
		"...##...",
	))
	put(sheet, FirstForest+1, rows(
		"........",
		".##..##.",
		"####.###",
		"####.###",
		".##..##.",
		".#....#.",
		".#....#.",
		"........",
	))
	put(sheet, FirstForest+2, rows(
		"..###...",
		".#####..",
		".#####..",
		"..###.#.",
		"...#.###",
		"...#.###",
		"......#.",
		"......#.",
	))
	put(sheet, FirstForest+3, rows(
		".#...##.",
		"###.####",
		".#..####",
		".#...##.",
		"##....#.",
		"###...#.",
		".#......",
		"........",
	))

	put(sheet, Outage, rows(
		"########",
		"#....#.#",
		"#...#..#",
		"#..####.",
		"#...#..#",
		"#..#...#",
		"#.#....#",
		"########",
	))
}

// --- Roads and powerlines ---

// onRoad reports whether (x,y) lies on the paved shape of a road with the
// given open sides. Coordinates outside 0..7 extend the open arms.
func onRoad(sides uint8, x, y int) bool {
	inX := x >= 1 && x <= 6
	inY := y >= 1 && y <= 6
	switch {
	case inX && inY:
		return true
	case inX && y < 1:
		return sides&ConnN != 0
	case inX && y > 6:
		return sides&ConnS != 0
	case inY && x > 6:
		return sides&ConnE != 0
	case inY && x < 1:
		return sides&ConnW != 0
	}
	return false
}

// roadGlyph outlines the road shape. carPhase >= 0 adds moving traffic dots.
func roadGlyph(sides uint8, carPhase int) glyph {
	var g glyph
	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			if !onRoad(sides, x, y) {
				continue
			}
			edge := !onRoad(sides, x-1, y) || !onRoad(sides, x+1, y) ||
				!onRoad(sides, x, y-1) || !onRoad(sides, x, y+1)
			if edge {
				g.set(x, y)
				continue
			}
			if carPhase >= 0 && (x+y+carPhase*2)&3 == 0 {
				g.set(x, y)
			}
		}
	}
	return g
}

func powerlineGlyph(sides uint8) glyph {
	var g glyph
	if sides&ConnN != 0 {
		for y := 0; y < 3; y++ {
			g.set(3, y)
		}
	}
	if sides&ConnS != 0 {
		for y := 5; y < Size; y++ {
			g.set(4, y)
		}
	}
	if sides&ConnW != 0 {
		for x := 0; x < 3; x++ {
			g.set(x, 3)
		}
	}
	if sides&ConnE != 0 {
		for x := 5; x < Size; x++ {
			g.set(x, 4)
		}
	}
	for x := 3; x <= 4; x++ {
		for y := 3; y <= 4; y++ {
			g.set(x, y)
		}
	}
	if sides == 0 {
		for x := 2; x <= 5; x++ {
			g.set(x, 2)
		}
	}
	return g
}

// crossingGlyph draws a road crossed by a powerline. horizontal selects an
// east-west road with the line running north-south.
func crossingGlyph(horizontal bool) glyph {
	if horizontal {
		g := roadGlyph(ConnE|ConnW, -1)
		for y := 0; y < Size; y++ {
			if y&1 == 0 {
				g.set(3, y)
			}
		}
		return g
	}
	g := roadGlyph(ConnN|ConnS, -1)
	for x := 0; x < Size; x++ {
		if x&1 == 0 {
			g.set(x, 3)
		}
	}
	return g
}

// --- Buildings ---

// canvas is a scratch bitmap spanning a whole multi-tile building sprite.
type canvas struct {
	w, h int
	bits []bool
}

func newCanvas(tilesW, tilesH int) *canvas {
	w, h := tilesW*Size, tilesH*Size
	return &canvas{w: w, h: h, bits: make([]bool, w*h)}
}

func (c *canvas) set(x, y int, on bool) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.bits[y*c.w+x] = on
}

func (c *canvas) stamp(ox, oy int, g glyph) {
	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			c.set(ox+x, oy+y, g[x]>>uint(y)&1 != 0)
		}
	}
}

// cut writes the canvas into the sheet as base + row*PerRow + col tiles.
func (c *canvas) cut(sheet []byte, base uint8) {
	for ty := 0; ty < c.h/Size; ty++ {
		for tx := 0; tx < c.w/Size; tx++ {
			var g glyph
			for x := 0; x < Size; x++ {
				for y := 0; y < Size; y++ {
					if c.bits[(ty*Size+y)*c.w+tx*Size+x] {
						g.set(x, y)
					}
				}
			}
			put(sheet, base+uint8(ty*PerRow+tx), g)
		}
	}
}

type texture func(x, y int) bool

type buildingSprite struct {
	base   uint8
	w, h   int
	fill   texture
	emblem glyph
}

var (
	houseEmblem = rows(
		"........",
		"...##...",
		"..####..",
		".######.",
		"..#..#..",
		"..#..#..",
		"..####..",
		"........",
	)
	shopEmblem = rows(
		"........",
		"..####..",
		".#.#....",
		"..###...",
		"....#.#.",
		"..####..",
		"........",
		"........",
	)
	factoryEmblem = rows(
		"........",
		".#......",
		".#..#..#",
		".#.##.##",
		".#######",
		".##.#.##",
		".#######",
		"........",
	)
	parkEmblem = rows(
		"........",
		"...##...",
		"..####..",
		".######.",
		"..####..",
		"...##...",
		"...##...",
		"........",
	)
	policeEmblem = rows(
		"........",
		".####...",
		".#...#..",
		".####...",
		".#......",
		".#......",
		".#......",
		"........",
	)
	fireEmblem = rows(
		"........",
		".#####..",
		".#......",
		".####...",
		".#......",
		".#......",
		".#......",
		"........",
	)
	boltEmblem = rows(
		"....##..",
		"...##...",
		"..##....",
		".######.",
		"....##..",
		"...##...",
		"..##....",
		"........",
	)
	ballEmblem = rows(
		"........",
		"..####..",
		".#.##.#.",
		".##..##.",
		".##..##.",
		".#.##.#.",
		"..####..",
		"........",
	)
)

func windows(x, y int) bool    { return x%4 == 2 && y%4 == 2 }
func denseRooms(x, y int) bool { return x%3 == 1 && y%3 == 1 }
func storefronts(x, y int) bool {
	return x%3 == 0
}
func towers(x, y int) bool  { return x%3 == 0 || y%4 == 0 }
func hatch(x, y int) bool   { return (x+y)%4 == 0 }
func plant(x, y int) bool   { return (x+y)%3 == 0 || (x-y+24)%6 == 0 }
func trees(x, y int) bool   { return (x*7+y*13)%11 == 0 }
func stripes(x, y int) bool { return y%3 == 0 }
func bricks(x, y int) bool  { return y%4 == 0 || (x+(y/4)*2)%4 == 0 }

func stacks(x, y int) bool {
	// Three chimneys along the top, hatched machinery below.
	if y < 14 {
		return (x >= 4 && x <= 6) || (x >= 13 && x <= 15) || (x >= 22 && x <= 24)
	}
	return (x+y)%3 == 0
}

func pitch(x, y int) bool {
	// Elliptical track around the pitch.
	dx, dy := float64(x)-15.5, float64(y)-15.5
	d := dx*dx/(12*12) + dy*dy/(12*12)
	return d > 0.85 && d < 1.15
}

var buildingSprites = []buildingSprite{
	{ResidentialTile, 3, 3, windows, houseEmblem},
	{ResidentialTile + DevelopedOffset, 3, 3, denseRooms, houseEmblem},
	{CommercialTile, 3, 3, storefronts, shopEmblem},
	{CommercialTile + DevelopedOffset, 3, 3, towers, shopEmblem},
	{IndustrialTile, 3, 3, hatch, factoryEmblem},
	{IndustrialTile + DevelopedOffset, 3, 3, plant, factoryEmblem},
	{ParkTile, 3, 3, trees, parkEmblem},
	{PoliceTile, 3, 3, stripes, policeEmblem},
	{FireTile, 3, 3, bricks, fireEmblem},
	{PowerplantTile, 4, 4, stacks, boltEmblem},
	{StadiumTile, 4, 4, pitch, ballEmblem},
}

func paintBuildings(sheet []byte) {
	for _, bs := range buildingSprites {
		c := newCanvas(bs.w, bs.h)
		for y := 2; y < c.h-2; y++ {
			for x := 2; x < c.w-2; x++ {
				c.set(x, y, bs.fill(x, y))
			}
		}
		for x := 1; x < c.w-1; x++ {
			c.set(x, 1, true)
			c.set(x, c.h-2, true)
		}
		for y := 1; y < c.h-1; y++ {
			c.set(1, y, true)
			c.set(c.w-2, y, true)
		}
		// The interior reference cell carries the emblem; it is also the
		// tile restored after an outage flash.
		c.stamp(Size, Size, bs.emblem)
		c.cut(sheet, bs.base)
	}
}

// --- Brushes ---

func paintBrushes(sheet []byte) {
	put(sheet, FirstBrush+BrushBulldozer, rows(
		"........",
		"..###...",
		"..#.#...",
		"######..",
		"######.#",
		"######.#",
		".#.#.#.#",
		"........",
	))
	put(sheet, FirstBrush+BrushRoad, roadGlyph(ConnE|ConnW, 0))
	put(sheet, FirstBrush+BrushPowerline, powerlineGlyph(ConnN|ConnS))
	emblems := []glyph{houseEmblem, shopEmblem, factoryEmblem, boltEmblem, parkEmblem, policeEmblem, fireEmblem, ballEmblem}
	for i, e := range emblems {
		put(sheet, FirstBrush+FirstBuildingBrush+uint8(i), e)
	}
}
