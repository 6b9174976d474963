package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"micro-city/internal/city"
	"micro-city/internal/render"
	"micro-city/internal/tiles"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "validate":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: citytools validate <cities-dir>")
			os.Exit(1)
		}
		os.Exit(runValidate(args[0]))
	case "viz":
		os.Exit(runViz(args))
	case "stats":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: citytools stats <city-file>")
			os.Exit(1)
		}
		os.Exit(runStats(args[0]))
	case "atlas":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: citytools atlas <out.png>")
			os.Exit(1)
		}
		os.Exit(runAtlas(args[0]))
	case "all":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: citytools all <cities-dir>")
			os.Exit(1)
		}
		os.Exit(runAll(args[0]))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: citytools <command> <path>

Commands:
  validate <cities-dir>                     Validate all cities in directory
  viz      [-x px] [-y px] [-frame n] <city-file>
                                            Render one frame as half-block text
  stats    <city-file>                      Show terrain, wiring and building counts
  atlas    <out.png>                        Write the built-in tile atlas
  all      <cities-dir>                     Run validate + viz + stats for all cities`)
}

func cityFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read cities dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// --- validate ---

// validateCity reports problems a loadable city can still have.
func validateCity(c *city.City) []string {
	var problems []string

	hasPlant := false
	for _, b := range c.Buildings() {
		if b.Type == city.Powerplant {
			hasPlant = true
		}
	}

	for _, b := range c.Buildings() {
		if b.Type == city.None {
			continue
		}
		if b.Type != city.Park && !connected(c, b) {
			problems = append(problems, fmt.Sprintf("%s at (%d,%d) has no road or powerline access", b.Type, b.X, b.Y))
		}
		if b.Type.NeedsPower() && b.HasPower && !hasPlant {
			problems = append(problems, fmt.Sprintf("%s at (%d,%d) is powered but the city has no powerplant", b.Type, b.X, b.Y))
		}
		if !b.Type.Zoned() && b.PopulationDensity != 0 {
			problems = append(problems, fmt.Sprintf("%s at (%d,%d) is not zoned but has density %d", b.Type, b.X, b.Y, b.PopulationDensity))
		}
	}
	return problems
}

// connected reports whether a road or powerline touches the building's
// footprint.
func connected(c *city.City, b city.Building) bool {
	w, h := b.Size()
	for y := b.Y - 1; y <= b.Y+h; y++ {
		for x := b.X - 1; x <= b.X+w; x++ {
			if b.Contains(x, y) {
				continue
			}
			if c.Connections(x, y) != 0 {
				return true
			}
		}
	}
	return false
}

func runValidate(dir string) int {
	files, err := cityFiles(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
		return 1
	}

	errors := 0
	for _, path := range files {
		fmt.Printf("Validating %s...\n", filepath.Base(path))
		c, err := city.Load(path)
		if err != nil {
			fmt.Printf("  ERROR: %v\n", err)
			errors++
			continue
		}
		problems := validateCity(c)
		for _, p := range problems {
			fmt.Printf("  ERROR: %s\n", p)
		}
		errors += len(problems)
		if len(problems) == 0 {
			fmt.Printf("  OK (%q, %d buildings)\n", c.Name, c.BuildingCount())
		}
	}

	if errors > 0 {
		fmt.Printf("\n%d error(s) found\n", errors)
		return 1
	}
	fmt.Printf("\nAll %d cities valid\n", len(files))
	return 0
}

// --- viz ---

// vizFrame renders one frame of c scrolled to (x,y) pixels.
func vizFrame(c *city.City, atlas *tiles.Atlas, x, y int, frame uint8) *render.Frame {
	vp := render.Viewport{ViewW: render.DisplayWidth, ViewH: render.DisplayHeight}.ScrollTo(x, y)
	f := render.NewFrame(render.DisplayWidth, render.DisplayHeight)
	r := render.NewRenderer(c, atlas, render.WithStartFrame(frame))
	r.Draw(vp.ScrollX, vp.ScrollY, f)
	return f
}

func runViz(args []string) int {
	fs := flag.NewFlagSet("viz", flag.ContinueOnError)
	x := fs.Int("x", 0, "scroll x in pixels")
	y := fs.Int("y", 0, "scroll y in pixels")
	frame := fs.Uint("frame", 0, "animation frame (0..255)")
	atlasPath := fs.String("atlas", "", "tile atlas PNG (default: built-in tiles)")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: citytools viz [-x px] [-y px] [-frame n] [-atlas file.png] <city-file>")
		return 1
	}

	c, err := city.Load(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	atlas := tiles.Builtin()
	if *atlasPath != "" {
		if atlas, err = tiles.LoadPNG(*atlasPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	fmt.Printf("%s (scroll %d,%d frame %d)\n", c.Name, *x, *y, *frame&0xff)
	fmt.Print(render.HalfBlocks(vizFrame(c, atlas, *x, *y, uint8(*frame))))
	return 0
}

// --- stats ---

type cityStats struct {
	terrain    map[string]int
	roads      int
	powerlines int
	byType     map[city.BuildingType]int
	unpowered  int
}

func collectStats(c *city.City) cityStats {
	s := cityStats{terrain: map[string]int{}, byType: map[city.BuildingType]int{}}
	for y := 0; y < city.MapHeight; y++ {
		for x := 0; x < city.MapWidth; x++ {
			switch t := c.TerrainTile(x, y); {
			case tiles.IsWater(t):
				s.terrain["water"]++
			case t >= tiles.FirstForest && t < tiles.FirstRoad:
				s.terrain["forest"]++
			default:
				s.terrain["land"]++
			}
			m := c.Connections(x, y)
			if m&city.RoadMask != 0 {
				s.roads++
			}
			if m&city.PowerlineMask != 0 {
				s.powerlines++
			}
		}
	}
	for _, b := range c.Buildings() {
		if b.Type == city.None {
			continue
		}
		s.byType[b.Type]++
		if b.Type.NeedsPower() && !b.HasPower {
			s.unpowered++
		}
	}
	return s
}

func runStats(path string) int {
	c, err := city.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	s := collectStats(c)
	total := city.MapWidth * city.MapHeight

	fmt.Printf("%s (seed %d, %dx%d = %d cells)\n\n", c.Name, c.Seed(), city.MapWidth, city.MapHeight, total)

	type entry struct {
		name  string
		count int
	}
	var sorted []entry
	for name, count := range s.terrain {
		sorted = append(sorted, entry{name, count})
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].count > sorted[j].count })

	for _, e := range sorted {
		pct := float64(e.count) / float64(total) * 100
		bar := strings.Repeat("█", int(pct/2))
		fmt.Printf("  %-10s %4d (%5.1f%%) %s\n", e.name, e.count, pct, bar)
	}

	fmt.Printf("\nRoads:      %d\n", s.roads)
	fmt.Printf("Powerlines: %d\n", s.powerlines)
	fmt.Printf("Buildings:  %d/%d\n", c.BuildingCount(), city.MaxBuildings)
	for t := city.Residential; t < city.NumBuildingTypes; t++ {
		if n := s.byType[t]; n > 0 {
			fmt.Printf("  %-12s %3d\n", t, n)
		}
	}
	fmt.Printf("Unpowered:  %d\n", s.unpowered)
	return 0
}

// --- atlas ---

func runAtlas(path string) int {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := tiles.EncodePNG(f, tiles.Builtin()); err != nil {
		f.Close()
		fmt.Fprintf(os.Stderr, "Error encoding atlas: %v\n", err)
		return 1
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	return 0
}

// --- all ---

func runAll(dir string) int {
	fmt.Println("=== VALIDATE ===")
	code := runValidate(dir)
	if code != 0 {
		return code
	}

	files, err := cityFiles(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	for _, path := range files {
		name := filepath.Base(path)
		fmt.Printf("\n=== VIZ: %s ===\n", name)
		runViz([]string{path})
		fmt.Printf("\n=== STATS: %s ===\n", name)
		runStats(path)
	}
	return 0
}
