package render

import (
	"micro-city/internal/city"
	"micro-city/internal/tiles"
)

// Viewport is a scroll position in map pixels for a screen of a given size.
type Viewport struct {
	ScrollX, ScrollY int // top-left map pixel
	ViewW, ViewH     int // screen size in pixels
}

// MaxScroll returns the largest scroll position that keeps the screen on
// the map.
func MaxScroll(viewW, viewH int) (int, int) {
	maxX := city.MapWidth*tiles.Size - viewW
	maxY := city.MapHeight*tiles.Size - viewH
	return max(maxX, 0), max(maxY, 0)
}

// CenteredViewport returns the scroll position that centres map cell
// (cellX, cellY) on the screen, clamped to map edges.
func CenteredViewport(cellX, cellY, viewW, viewH int) Viewport {
	sx := cellX*tiles.Size + tiles.Size/2 - viewW/2
	sy := cellY*tiles.Size + tiles.Size/2 - viewH/2
	return Viewport{ViewW: viewW, ViewH: viewH}.ScrollTo(sx, sy)
}

// ScrollTo returns the viewport moved to (sx, sy), clamped to map edges.
func (v Viewport) ScrollTo(sx, sy int) Viewport {
	maxX, maxY := MaxScroll(v.ViewW, v.ViewH)
	v.ScrollX = clamp(sx, 0, maxX)
	v.ScrollY = clamp(sy, 0, maxY)
	return v
}

// EaseToward moves the viewport at most step pixels per axis toward target.
func (v Viewport) EaseToward(target Viewport, step int) Viewport {
	return v.ScrollTo(
		v.ScrollX+clamp(target.ScrollX-v.ScrollX, -step, step),
		v.ScrollY+clamp(target.ScrollY-v.ScrollY, -step, step),
	)
}

// CellToScreen converts a map cell to the screen pixel of its top-left
// corner. ok is false when the cell is not on screen at all.
func (v Viewport) CellToScreen(cellX, cellY int) (int, int, bool) {
	sx := cellX*tiles.Size - v.ScrollX
	sy := cellY*tiles.Size - v.ScrollY
	ok := sx > -tiles.Size && sy > -tiles.Size && sx < v.ViewW && sy < v.ViewH
	return sx, sy, ok
}

// ScreenToCell converts a screen pixel to the map cell under it.
func (v Viewport) ScreenToCell(sx, sy int) (int, int) {
	return (sx + v.ScrollX) >> tiles.SizeShift, (sy + v.ScrollY) >> tiles.SizeShift
}
