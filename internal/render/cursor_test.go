package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"micro-city/internal/city"
	"micro-city/internal/tiles"
)

func TestBrushBuilding(t *testing.T) {
	assert.Equal(t, city.None, BrushBuilding(tiles.BrushRoad))
	assert.Equal(t, city.Residential, BrushBuilding(tiles.FirstBuildingBrush))
	assert.Equal(t, city.Stadium, BrushBuilding(NumBrushes-1))
	assert.Equal(t, city.None, BrushBuilding(NumBrushes))
}

func TestCursorFootprint(t *testing.T) {
	tests := []struct {
		name       string
		cur        Cursor
		x, y, w, h int
	}{
		{"bulldozer", Cursor{X: 5, Y: 6, Brush: tiles.BrushBulldozer}, 5, 6, 1, 1},
		{"park centred", Cursor{X: 5, Y: 6, Brush: tiles.FirstBuildingBrush + 4}, 4, 5, 3, 3},
		{"stadium clamped", Cursor{X: 47, Y: 0, Brush: NumBrushes - 1}, 44, 0, 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, w, h := tt.cur.Footprint()
			assert.Equal(t, []int{tt.x, tt.y, tt.w, tt.h}, []int{x, y, w, h})
		})
	}
}

func TestDrawCursorRectMarches(t *testing.T) {
	a := NewFrame(32, 32)
	b := NewFrame(32, 32)
	DrawCursorRect(a, 2, 2, 16, 8, 0)
	DrawCursorRect(b, 2, 2, 16, 8, 1)

	// Bottom edge runs left to right: pixel n is on when (n+frame)&4 != 0.
	// The corners belong to the side edges.
	for n := 1; n < 15; n++ {
		assert.Equal(t, n&4 != 0, a.Pixel(2+n, 9), "n=%d", n)
		assert.Equal(t, (n+1)&4 != 0, b.Pixel(2+n, 9), "n=%d", n)
	}
	assert.NotEqual(t, a.Bytes, b.Bytes)
}

func TestDrawCursorNeedsWholeOutlineOnScreen(t *testing.T) {
	f := NewFrame(DisplayWidth, DisplayHeight)
	assert.True(t, DrawCursor(f, Cursor{X: 2, Y: 2}, 0, 0, DisplayWidth, DisplayHeight, 4))
	assert.True(t, f.Pixel(16, 16), "top-left corner")

	f.Clear()
	assert.False(t, DrawCursor(f, Cursor{X: 0, Y: 0}, 4, 0, DisplayWidth, DisplayHeight, 4))
	assert.False(t, DrawCursor(f, Cursor{X: 15, Y: 2}, 0, 0, DisplayWidth, DisplayHeight, 4))
	assert.Equal(t, make([]byte, len(f.Bytes)), f.Bytes)
}

func TestDrawToolbar(t *testing.T) {
	atlas := tiles.Builtin()
	f := NewFrame(DisplayWidth, DisplayHeight)
	DrawToolbar(f, atlas, 0, DisplayWidth, DisplayHeight, 0)

	top := DisplayHeight - tiles.Size - 1
	for n := 0; n < NumBrushes; n++ {
		bx := 1 + n*(tiles.Size+1)
		for y := 0; y < tiles.Size; y++ {
			for x := 0; x < tiles.Size; x++ {
				assert.Equal(t, atlas.Pixel(tiles.FirstBrush+uint8(n), x, y), f.Pixel(bx+x, top+y),
					"brush %d (%d,%d)", n, x, y)
			}
		}
	}
}

func TestDrawBrush(t *testing.T) {
	atlas := tiles.Builtin()
	f := NewFrame(DisplayWidth, DisplayHeight)
	DrawBrush(f, atlas, tiles.BrushPowerline, DisplayHeight)

	top := DisplayHeight - tiles.Size - 2
	for x := 0; x < tiles.Size+2; x++ {
		assert.True(t, f.Pixel(x, top), "box top (%d)", x)
		assert.True(t, f.Pixel(x, DisplayHeight-1), "box bottom (%d)", x)
	}
	for y := 0; y < tiles.Size; y++ {
		for x := 0; x < tiles.Size; x++ {
			assert.Equal(t, atlas.Pixel(tiles.FirstBrush+tiles.BrushPowerline, x, y), f.Pixel(1+x, top+1+y),
				"(%d,%d)", x, y)
		}
	}
	assert.False(t, f.Pixel(tiles.Size+2, DisplayHeight-1))
}
