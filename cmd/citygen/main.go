package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"micro-city/internal/city"
	"micro-city/internal/tiles"
)

func main() {
	seed := flag.Int64("seed", 0, "random seed (0 = random)")
	name := flag.String("name", "Generated", "city name")
	spacing := flag.Int("spacing", 8, "road grid spacing in cells (6..16)")
	count := flag.Int("buildings", 40, "number of buildings to try to place")
	out := flag.String("out", "", "output file (default: stdout)")
	flag.Parse()

	if *spacing < 6 || *spacing > 16 {
		fmt.Fprintf(os.Stderr, "Error: -spacing %d out of range 6..16\n", *spacing)
		os.Exit(1)
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	fmt.Fprintf(os.Stderr, "Generating city %q (seed %d, spacing %d)...\n", *name, *seed, *spacing)
	c := generateCity(*name, *seed, *spacing, *count)

	data, err := c.MarshalJSON()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		os.Exit(1)
	}

	if *out == "" {
		os.Stdout.Write(data)
		os.Stdout.WriteString("\n")
	} else {
		if err := c.Save(*out); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s (%d bytes)\n", *out, len(data))
	}

	// Print building summary
	counts := make(map[city.BuildingType]int)
	unpowered := 0
	for _, b := range c.Buildings() {
		if b.Type == city.None {
			continue
		}
		counts[b.Type]++
		if b.Type.NeedsPower() && !b.HasPower {
			unpowered++
		}
	}
	fmt.Fprintf(os.Stderr, "\nBuildings (%d):\n", c.BuildingCount())
	for t := city.Residential; t < city.NumBuildingTypes; t++ {
		if n, ok := counts[t]; ok {
			fmt.Fprintf(os.Stderr, "  %-12s %3d\n", t, n)
		}
	}
	fmt.Fprintf(os.Stderr, "  unpowered    %3d\n", unpowered)
}

// generateCity lays a road grid over the seeded terrain, wanders a couple
// of country roads out to the map edge, runs a powerline from a powerplant
// to the centre and fills the blocks with buildings.
func generateCity(name string, seed int64, spacing, count int) *city.City {
	c := city.New(name, seed)
	rng := rand.New(rand.NewSource(seed + 100))

	offset := 2 + rng.Intn(spacing-2)
	for y := offset; y < city.MapHeight-1; y += spacing {
		for x := 1; x < city.MapWidth-1; x++ {
			lay(c, x, y, city.RoadMask)
		}
	}
	for x := offset; x < city.MapWidth-1; x += spacing {
		for y := 1; y < city.MapHeight-1; y++ {
			lay(c, x, y, city.RoadMask)
		}
	}

	cx, cy := city.MapWidth/2, city.MapHeight/2
	for i := 0; i < 1+rng.Intn(2); i++ {
		tx, ty := edgePoint(rng)
		carve(c, cx, cy, tx, ty, city.RoadMask, rng)
	}

	px, py := blockOrigin(rng, offset, spacing)
	if _, err := c.PlaceBuilding(city.Building{Type: city.Powerplant, X: px, Y: py, HasPower: true}); err == nil {
		carve(c, px+4, py+1, cx, cy, city.PowerlineMask, rng)
	}

	types := []city.BuildingType{
		city.Residential, city.Residential, city.Residential,
		city.Commercial, city.Commercial, city.Industrial,
		city.Park, city.PoliceDept, city.FireDept, city.Stadium,
	}
	for attempts := 0; attempts < count*8 && c.BuildingCount() < count+1; attempts++ {
		t := types[rng.Intn(len(types))]
		bx, by := rng.Intn(city.MapWidth), rng.Intn(city.MapHeight)
		b := city.Building{Type: t, X: bx, Y: by, HasPower: rng.Float64() < 0.85}
		if t.Zoned() {
			b.PopulationDensity = uint8(rng.Intn(city.MaxPopulationDensity + 1))
			b.HeavyTraffic = b.PopulationDensity > 8 && rng.Float64() < 0.4
		}
		if !buildable(c, b) {
			continue
		}
		if _, err := c.PlaceBuilding(b); err != nil {
			continue
		}
	}
	return c
}

func lay(c *city.City, x, y int, mask uint8) {
	if _, ok := c.BuildingAt(x, y); ok {
		return
	}
	c.SetConnections(x, y, c.Connections(x, y)|mask)
}

// buildable reports whether b fits on dry land without covering any road
// or powerline.
func buildable(c *city.City, b city.Building) bool {
	w, h := b.Size()
	for y := b.Y; y < b.Y+h; y++ {
		for x := b.X; x < b.X+w; x++ {
			if !city.InBounds(x, y) || c.Connections(x, y) != 0 || tiles.IsWater(c.TerrainTile(x, y)) {
				return false
			}
		}
	}
	return true
}

func blockOrigin(rng *rand.Rand, offset, spacing int) (int, int) {
	blocks := (city.MapWidth - offset - 5) / spacing
	if blocks < 1 {
		return offset + 1, offset + 1
	}
	return offset + 1 + spacing*rng.Intn(blocks), offset + 1 + spacing*rng.Intn(blocks)
}

func edgePoint(rng *rand.Rand) (int, int) {
	switch rng.Intn(4) {
	case 0: // North edge
		return 1 + rng.Intn(city.MapWidth-2), 0
	case 1: // South edge
		return 1 + rng.Intn(city.MapWidth-2), city.MapHeight - 1
	case 2: // East edge
		return city.MapWidth - 1, 1 + rng.Intn(city.MapHeight-2)
	default: // West edge
		return 0, 1 + rng.Intn(city.MapHeight-2)
	}
}

// carve walks from (sx,sy) to (tx,ty) laying mask, drifting sideways now
// and then. Cells under buildings are skipped.
func carve(c *city.City, sx, sy, tx, ty int, mask uint8, rng *rand.Rand) {
	x, y := sx, sy
	lay(c, x, y, mask)
	for steps := 0; steps < city.MapWidth*city.MapHeight; steps++ {
		if x == tx && y == ty {
			return
		}

		dx, dy := 0, 0
		distX, distY := tx-x, ty-y
		if abs(distX) > abs(distY) {
			dx = sign(distX)
			if rng.Float64() < 0.25 && distY != 0 {
				dx, dy = 0, sign(distY)
			}
		} else {
			dy = sign(distY)
			if rng.Float64() < 0.25 && distX != 0 {
				dx, dy = sign(distX), 0
			}
		}

		x, y = x+dx, y+dy
		lay(c, x, y, mask)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}
