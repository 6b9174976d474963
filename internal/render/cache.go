package render

import "micro-city/internal/tiles"

// Grid is a block of tile ids covering Cols x Rows map cells starting at
// map cell (OriginX, OriginY). Tiles is row-major.
type Grid struct {
	Cols, Rows       int
	OriginX, OriginY int
	Tiles            []uint8
}

// NewGrid allocates an empty grid.
func NewGrid(cols, rows int) *Grid {
	return &Grid{Cols: cols, Rows: rows, Tiles: make([]uint8, cols*rows)}
}

// At returns the tile at grid position (x,y), or the empty tile outside it.
func (g *Grid) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= g.Cols || y >= g.Rows {
		return tiles.Empty
	}
	return g.Tiles[y*g.Cols+x]
}

// Set replaces the tile at grid position (x,y). Positions outside the grid
// are ignored.
func (g *Grid) Set(x, y int, id uint8) {
	if x < 0 || y < 0 || x >= g.Cols || y >= g.Rows {
		return
	}
	g.Tiles[y*g.Cols+x] = id
}

// Covers reports whether map cell (mx,my) is inside the grid and returns its
// grid position.
func (g *Grid) Covers(mx, my int) (int, int, bool) {
	x, y := mx-g.OriginX, my-g.OriginY
	return x, y, x >= 0 && y >= 0 && x < g.Cols && y < g.Rows
}

func (g *Grid) copyFrom(src *Grid) {
	g.Cols, g.Rows = src.Cols, src.Rows
	g.OriginX, g.OriginY = src.OriginX, src.OriginY
	if cap(g.Tiles) < len(src.Tiles) {
		g.Tiles = make([]uint8, len(src.Tiles))
	}
	g.Tiles = g.Tiles[:len(src.Tiles)]
	copy(g.Tiles, src.Tiles)
}

// TileFunc derives the tile id of a map cell.
type TileFunc func(x, y int) uint8

// TileCache keeps the tile ids of the visible map cells. After every
// reconciliation each entry equals the TileFunc result for its map cell;
// scrolling recomputes only the cells that came into view.
type TileCache struct {
	grid     Grid
	tileAt   TileFunc
	primed   bool
	computed int
}

// NewTileCache creates a cache of cols x rows cells. It is filled by the
// first Reset or Reconcile.
func NewTileCache(cols, rows int, tileAt TileFunc) *TileCache {
	return &TileCache{grid: *NewGrid(cols, rows), tileAt: tileAt}
}

// Cols returns the cache width in cells.
func (c *TileCache) Cols() int { return c.grid.Cols }

// Rows returns the cache height in cells.
func (c *TileCache) Rows() int { return c.grid.Rows }

// Origin returns the map cell shown at cache position (0,0).
func (c *TileCache) Origin() (int, int) { return c.grid.OriginX, c.grid.OriginY }

// At returns the cached tile at cache position (x,y).
func (c *TileCache) At(x, y int) uint8 { return c.grid.At(x, y) }

// Computed returns how many cells have been derived since the cache was
// created.
func (c *TileCache) Computed() int { return c.computed }

// CopyTo copies the cached tiles and origin into dst.
func (c *TileCache) CopyTo(dst *Grid) {
	dst.copyFrom(&c.grid)
}

func (c *TileCache) fill(x0, y0, x1, y1 int) {
	g := &c.grid
	for y := y0; y < y1; y++ {
		row := g.Tiles[y*g.Cols : (y+1)*g.Cols]
		for x := x0; x < x1; x++ {
			row[x] = c.tileAt(g.OriginX+x, g.OriginY+y)
		}
	}
	c.computed += (x1 - x0) * (y1 - y0)
}

// Reset recomputes every cell against a new origin.
func (c *TileCache) Reset(originX, originY int) {
	c.grid.OriginX, c.grid.OriginY = originX, originY
	c.fill(0, 0, c.grid.Cols, c.grid.Rows)
	c.primed = true
}

// ScrollLeft moves the view k cells left: retained columns shift right and
// the k columns exposed on the left are recomputed.
func (c *TileCache) ScrollLeft(k int) {
	if k <= 0 {
		return
	}
	g := &c.grid
	if k >= g.Cols {
		c.Reset(g.OriginX-k, g.OriginY)
		return
	}
	g.OriginX -= k
	for y := 0; y < g.Rows; y++ {
		row := g.Tiles[y*g.Cols : (y+1)*g.Cols]
		copy(row[k:], row[:g.Cols-k])
	}
	c.fill(0, 0, k, g.Rows)
}

// ScrollRight moves the view k cells right: retained columns shift left and
// the k columns exposed on the right are recomputed.
func (c *TileCache) ScrollRight(k int) {
	if k <= 0 {
		return
	}
	g := &c.grid
	if k >= g.Cols {
		c.Reset(g.OriginX+k, g.OriginY)
		return
	}
	g.OriginX += k
	for y := 0; y < g.Rows; y++ {
		row := g.Tiles[y*g.Cols : (y+1)*g.Cols]
		copy(row[:g.Cols-k], row[k:])
	}
	c.fill(g.Cols-k, 0, g.Cols, g.Rows)
}

// ScrollUp moves the view k cells up: retained rows shift down and the k
// rows exposed at the top are recomputed.
func (c *TileCache) ScrollUp(k int) {
	if k <= 0 {
		return
	}
	g := &c.grid
	if k >= g.Rows {
		c.Reset(g.OriginX, g.OriginY-k)
		return
	}
	g.OriginY -= k
	copy(g.Tiles[k*g.Cols:], g.Tiles[:(g.Rows-k)*g.Cols])
	c.fill(0, 0, g.Cols, k)
}

// ScrollDown moves the view k cells down: retained rows shift up and the k
// rows exposed at the bottom are recomputed.
func (c *TileCache) ScrollDown(k int) {
	if k <= 0 {
		return
	}
	g := &c.grid
	if k >= g.Rows {
		c.Reset(g.OriginX, g.OriginY+k)
		return
	}
	g.OriginY += k
	copy(g.Tiles[:(g.Rows-k)*g.Cols], g.Tiles[k*g.Cols:])
	c.fill(0, g.Rows-k, g.Cols, g.Rows)
}

// Reconcile brings the cache in line with a scroll position given in
// pixels. The origin becomes the scroll position floored to whole tiles.
// A jump of a full viewport or more on either axis resets the cache;
// smaller moves shift it, horizontal axis first.
func (c *TileCache) Reconcile(scrollX, scrollY int) {
	tx := scrollX >> tiles.SizeShift
	ty := scrollY >> tiles.SizeShift

	if !c.primed {
		c.Reset(tx, ty)
		return
	}

	dx := tx - c.grid.OriginX
	dy := ty - c.grid.OriginY
	if abs(dx) >= c.grid.Cols || abs(dy) >= c.grid.Rows {
		c.Reset(tx, ty)
		return
	}

	switch {
	case dx > 0:
		c.ScrollRight(dx)
	case dx < 0:
		c.ScrollLeft(-dx)
	}
	switch {
	case dy > 0:
		c.ScrollDown(dy)
	case dy < 0:
		c.ScrollUp(-dy)
	}
}

// Invalidate forces the next Reconcile to recompute every cell. Call it
// after the world changes between frames.
func (c *TileCache) Invalidate() {
	c.primed = false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
