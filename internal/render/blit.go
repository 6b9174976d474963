package render

import "micro-city/internal/tiles"

// PixelSetter is the single-pixel output primitive the blitter drives.
type PixelSetter interface {
	SetPixel(x, y int, on bool)
}

// Blit draws g onto a width x height screen. offX and offY are the
// sub-tile pixel offsets of the scroll position (0..7): screen pixel (0,0)
// shows pixel (offX, offY) of the tile at grid position (0,0).
//
// The walk is column-major. Each screen column keeps one atlas column of
// the current tile as a working byte, pre-shifted by the vertical offset,
// and reloads it whenever the vertical offset wraps into the next tile row.
func Blit(dst PixelSetter, atlas *tiles.Atlas, g *Grid, offX, offY, width, height int) {
	offX &= tiles.Size - 1
	offY &= tiles.Size - 1

	tileX := 0
	subX := offX
	for col := 0; col < width; col++ {
		tileY := 0
		subY := offY
		bits := atlas.Column(g.At(tileX, tileY), subX) >> subY

		for row := 0; row < height; row++ {
			dst.SetPixel(col, row, bits&1 != 0)

			subY = (subY + 1) & (tiles.Size - 1)
			bits >>= 1
			if subY == 0 {
				tileY++
				bits = atlas.Column(g.At(tileX, tileY), subX)
			}
		}

		subX = (subX + 1) & (tiles.Size - 1)
		if subX == 0 {
			tileX++
		}
	}
}

// DrawTileAt draws a single tile with its top-left corner at screen pixel
// (x,y).
func DrawTileAt(dst PixelSetter, atlas *tiles.Atlas, tile uint8, x, y int) {
	for col := 0; col < tiles.Size; col++ {
		bits := atlas.Column(tile, col)
		for row := 0; row < tiles.Size; row++ {
			dst.SetPixel(x+col, y+row, bits&1 != 0)
			bits >>= 1
		}
	}
}
