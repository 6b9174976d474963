package render

import (
	"micro-city/internal/city"
	"micro-city/internal/tiles"
)

// NumBrushes is the number of toolbar brushes: bulldozer, road, powerline
// and one per building type.
const NumBrushes = tiles.FirstBuildingBrush + int(city.NumBuildingTypes) - 1

// BrushBuilding returns the building type placed by a brush, or city.None
// for the bulldozer, road and powerline brushes.
func BrushBuilding(brush int) city.BuildingType {
	if brush < tiles.FirstBuildingBrush || brush >= NumBrushes {
		return city.None
	}
	return city.BuildingType(brush - tiles.FirstBuildingBrush + 1)
}

// BrushAnchor returns where a building brush would anchor its footprint so
// that it is centred on the selected cell and stays on the map.
func BrushAnchor(t city.BuildingType, selX, selY int) (int, int) {
	w, h := city.Building{Type: t}.Size()
	x := clamp(selX-(w-1)/2, 0, city.MapWidth-w)
	y := clamp(selY-(h-1)/2, 0, city.MapHeight-h)
	return x, y
}

// Cursor is the selected cell and the active toolbar brush.
type Cursor struct {
	X, Y  int
	Brush int
}

// Footprint returns the map cells the cursor outlines: the brush building's
// footprint, or the selected cell.
func (c Cursor) Footprint() (x, y, w, h int) {
	if t := BrushBuilding(c.Brush); t != city.None {
		x, y = BrushAnchor(t, c.X, c.Y)
		w, h = city.Building{Type: t}.Size()
		return x, y, w, h
	}
	return c.X, c.Y, 1, 1
}

// DrawCursorRect draws a marching-ants rectangle outline. The dash pattern
// runs in four-pixel segments and crawls one pixel per frame.
func DrawCursorRect(dst PixelSetter, x, y, w, h int, frame uint8) {
	for n := 0; n < w; n++ {
		on := (n+int(frame))&4 != 0
		dst.SetPixel(x+n, y+h-1, on)
		dst.SetPixel(x+w-n-1, y, on)
	}
	for n := 0; n < h; n++ {
		on := (n+int(frame))&4 != 0
		dst.SetPixel(x, y+n, on)
		dst.SetPixel(x+w-1, y+h-n-1, on)
	}
}

// DrawCursor outlines the cursor footprint on a width x height screen
// scrolled to (scrollX, scrollY) pixels. Nothing is drawn unless the whole
// outline fits on screen.
func DrawCursor(dst PixelSetter, c Cursor, scrollX, scrollY, width, height int, frame uint8) bool {
	cx, cy, cw, ch := c.Footprint()
	x := cx*tiles.Size - scrollX
	y := cy*tiles.Size - scrollY
	w := cw * tiles.Size
	h := ch * tiles.Size

	if x < 0 || y < 0 || x+w >= width || y+h >= height {
		return false
	}
	DrawCursorRect(dst, x, y, w, h, frame)
	return true
}

// DrawToolbar draws the brush icons along the bottom edge of the screen
// and highlights the selected one.
func DrawToolbar(dst PixelSetter, atlas *tiles.Atlas, selected, width, height int, frame uint8) {
	top := height - tiles.Size - 2
	barW := NumBrushes*(tiles.Size+1) + 2
	for y := top; y < height; y++ {
		for x := 0; x < barW && x < width; x++ {
			dst.SetPixel(x, y, true)
		}
	}

	bx := 1
	for n := 0; n < NumBrushes; n++ {
		DrawTileAt(dst, atlas, tiles.FirstBrush+uint8(n), bx, height-tiles.Size-1)
		bx += tiles.Size + 1
	}
	DrawCursorRect(dst, selected*(tiles.Size+1), top, tiles.Size+2, tiles.Size+2, frame)
}

// DrawBrush shows the current brush icon on a filled box at the bottom-left
// of the screen.
func DrawBrush(dst PixelSetter, atlas *tiles.Atlas, brush, height int) {
	top := height - tiles.Size - 2
	for y := top; y < height; y++ {
		for x := 0; x < tiles.Size+2; x++ {
			dst.SetPixel(x, y, true)
		}
	}
	DrawTileAt(dst, atlas, tiles.FirstBrush+uint8(brush), 1, height-tiles.Size-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// BrushName returns the toolbar label of a brush.
func BrushName(brush int) string {
	switch brush {
	case tiles.BrushBulldozer:
		return "bulldozer"
	case tiles.BrushRoad:
		return "road"
	case tiles.BrushPowerline:
		return "powerline"
	}
	if t := BrushBuilding(brush); t != city.None {
		return t.String()
	}
	return "?"
}
