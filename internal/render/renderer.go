// Package render turns city state into 1-bit frames: it selects a tile for
// every visible map cell, keeps those ids in a scroll-aware cache, animates
// them and blits them through an 8x8 tile atlas.
package render

import (
	"micro-city/internal/city"
	"micro-city/internal/tiles"
)

// Renderer is one render context: the visible tile cache, its origin and
// the animation frame counter. It has a single writer; callers must not
// mutate the world while Draw runs.
type Renderer struct {
	world         World
	atlas         *tiles.Atlas
	width, height int

	cache     *TileCache
	presented *Grid
	frame     uint8
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithDisplaySize sets the screen size in pixels.
func WithDisplaySize(width, height int) Option {
	return func(r *Renderer) {
		r.width, r.height = width, height
	}
}

// WithStartFrame sets the initial animation frame.
func WithStartFrame(frame uint8) Option {
	return func(r *Renderer) {
		r.frame = frame
	}
}

// NewRenderer creates a render context over world using atlas.
func NewRenderer(world World, atlas *tiles.Atlas, opts ...Option) *Renderer {
	r := &Renderer{
		world:  world,
		atlas:  atlas,
		width:  DisplayWidth,
		height: DisplayHeight,
	}
	for _, opt := range opts {
		opt(r)
	}

	cols, rows := VisibleTiles(r.width, r.height)
	r.cache = NewTileCache(cols, rows, func(x, y int) uint8 {
		return SelectTile(world, x, y)
	})
	r.presented = NewGrid(cols, rows)
	return r
}

// VisibleTiles returns how many tile columns and rows a screen can show at
// once, including the partial tiles of a scroll offset.
func VisibleTiles(width, height int) (int, int) {
	return width/tiles.Size + 1, height/tiles.Size + 1
}

// Size returns the screen size in pixels.
func (r *Renderer) Size() (int, int) { return r.width, r.height }

// Frame returns the animation frame the next Draw will use.
func (r *Renderer) Frame() uint8 { return r.frame }

// Cache exposes the visible tile cache.
func (r *Renderer) Cache() *TileCache { return r.cache }

// Presented returns the animated tiles of the last drawn frame.
func (r *Renderer) Presented() *Grid { return r.presented }

// Invalidate marks every cached tile stale. Call it after the world changes.
func (r *Renderer) Invalidate() { r.cache.Invalidate() }

// Scene is everything drawn in one frame besides the map itself.
type Scene struct {
	ScrollX, ScrollY int
	Cursor           *Cursor
	Toolbar          bool
}

// Draw renders the map scrolled to (scrollX, scrollY) pixels into dst and
// advances the animation frame.
func (r *Renderer) Draw(scrollX, scrollY int, dst PixelSetter) {
	r.DrawScene(Scene{ScrollX: scrollX, ScrollY: scrollY}, dst)
}

// DrawScene renders the map and advances the animation frame. With a
// cursor set it also draws the UI: the toolbar when open, otherwise the
// cursor outline and the current brush in the bottom-left corner.
func (r *Renderer) DrawScene(s Scene, dst PixelSetter) {
	r.cache.Reconcile(s.ScrollX, s.ScrollY)
	r.cache.CopyTo(r.presented)
	Animate(r.presented, r.buildings(), r.frame)

	Blit(dst, r.atlas, r.presented, s.ScrollX, s.ScrollY, r.width, r.height)

	if s.Cursor != nil {
		if s.Toolbar {
			DrawToolbar(dst, r.atlas, s.Cursor.Brush, r.width, r.height, r.frame)
		} else {
			DrawCursor(dst, *s.Cursor, s.ScrollX, s.ScrollY, r.width, r.height, r.frame)
			DrawBrush(dst, r.atlas, s.Cursor.Brush, r.height)
		}
	}

	r.frame++
}

func (r *Renderer) buildings() []city.Building {
	return r.world.Buildings()
}
