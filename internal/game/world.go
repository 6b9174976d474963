package game

import (
	"sync"
	"sync/atomic"

	"micro-city/internal/city"
	"micro-city/internal/render"
	"micro-city/internal/tiles"
)

// World guards the city so that edits only happen between rendered frames.
// Renderers hold the read lock for the duration of a frame; edits take the
// write lock and bump the version so renderers know to drop cached tiles.
type World struct {
	mu      sync.RWMutex
	city    *city.City
	version atomic.Uint64
}

// NewWorld wraps c.
func NewWorld(c *city.City) *World {
	return &World{city: c}
}

// Name returns the city name.
func (w *World) Name() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.city.Name
}

// Version changes every time the city is edited.
func (w *World) Version() uint64 {
	return w.version.Load()
}

// Read runs fn with shared access to the city. fn must not mutate it.
func (w *World) Read(fn func(c *city.City)) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	fn(w.city)
}

// Edit runs fn with exclusive access to the city. The version only moves
// when fn succeeds, so a rejected edit leaves every view's cache intact.
// fn must not change the city before returning an error.
func (w *World) Edit(fn func(c *city.City) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := fn(w.city); err != nil {
		return err
	}
	w.version.Add(1)
	return nil
}

// ApplyBrush applies a toolbar brush at the selected cell: bulldoze, lay
// road or powerline, or place the brush's building.
func (w *World) ApplyBrush(brush, x, y int) error {
	return w.Edit(func(c *city.City) error {
		switch brush {
		case tiles.BrushBulldozer:
			return c.Bulldoze(x, y)
		case tiles.BrushRoad:
			if _, ok := c.BuildingAt(x, y); ok {
				return city.ErrOverlap
			}
			return c.SetConnections(x, y, c.Connections(x, y)|city.RoadMask)
		case tiles.BrushPowerline:
			if _, ok := c.BuildingAt(x, y); ok {
				return city.ErrOverlap
			}
			return c.SetConnections(x, y, c.Connections(x, y)|city.PowerlineMask)
		}

		t := render.BrushBuilding(brush)
		if t == city.None {
			return city.ErrUnknownType
		}
		bx, by := render.BrushAnchor(t, x, y)
		_, err := c.PlaceBuilding(city.Building{Type: t, X: bx, Y: by, HasPower: t == city.Powerplant})
		return err
	})
}

// Stats summarises the city for status lines and the HTTP API.
type Stats struct {
	Name      string         `json:"name"`
	Seed      int64          `json:"seed"`
	Buildings int            `json:"buildings"`
	ByType    map[string]int `json:"by_type"`
	Unpowered int            `json:"unpowered"`
	Roads     int            `json:"roads"`
	Powerline int            `json:"powerlines"`
	Version   uint64         `json:"version"`
}

// Stats counts buildings and infrastructure.
func (w *World) Stats() Stats {
	s := Stats{ByType: map[string]int{}, Version: w.Version()}
	w.Read(func(c *city.City) {
		s.Name = c.Name
		s.Seed = c.Seed()
		for _, b := range c.Buildings() {
			if b.Type == city.None {
				continue
			}
			s.Buildings++
			s.ByType[b.Type.String()]++
			if b.Type.NeedsPower() && !b.HasPower {
				s.Unpowered++
			}
		}
		for y := 0; y < city.MapHeight; y++ {
			for x := 0; x < city.MapWidth; x++ {
				m := c.Connections(x, y)
				if m&city.RoadMask != 0 {
					s.Roads++
				}
				if m&city.PowerlineMask != 0 {
					s.Powerline++
				}
			}
		}
	})
	return s
}

// View is a renderer bound to the world. It drops its tile cache whenever
// the world has been edited since its last frame.
type View struct {
	world   *World
	r       *render.Renderer
	version uint64
}

// NewView creates a render context over the world's city.
func (w *World) NewView(atlas *tiles.Atlas, opts ...render.Option) *View {
	return &View{world: w, r: render.NewRenderer(w.city, atlas, opts...)}
}

// Renderer exposes the underlying render context.
func (v *View) Renderer() *render.Renderer {
	return v.r
}

// Draw renders one frame with the city read-locked.
func (v *View) Draw(s render.Scene, dst render.PixelSetter) {
	v.world.mu.RLock()
	defer v.world.mu.RUnlock()

	if ver := v.world.Version(); ver != v.version {
		v.r.Invalidate()
		v.version = ver
	}
	v.r.DrawScene(s, dst)
}
