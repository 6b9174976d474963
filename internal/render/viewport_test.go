package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"micro-city/internal/city"
	"micro-city/internal/tiles"
)

func TestCenteredViewport(t *testing.T) {
	maxX, maxY := MaxScroll(DisplayWidth, DisplayHeight)
	assert.Equal(t, city.MapWidth*tiles.Size-DisplayWidth, maxX)
	assert.Equal(t, city.MapHeight*tiles.Size-DisplayHeight, maxY)

	tests := []struct {
		name   string
		cx, cy int
		sx, sy int
	}{
		{"top-left corner clamps", 0, 0, 0, 0},
		{"middle", 24, 24, 24*8 + 4 - 64, 24*8 + 4 - 32},
		{"bottom-right corner clamps", 47, 47, maxX, maxY},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := CenteredViewport(tt.cx, tt.cy, DisplayWidth, DisplayHeight)
			assert.Equal(t, tt.sx, v.ScrollX)
			assert.Equal(t, tt.sy, v.ScrollY)
		})
	}
}

func TestViewportEaseToward(t *testing.T) {
	v := Viewport{ViewW: DisplayWidth, ViewH: DisplayHeight}
	target := v.ScrollTo(100, 5)

	v = v.EaseToward(target, 4)
	assert.Equal(t, 4, v.ScrollX)
	assert.Equal(t, 4, v.ScrollY)

	v = v.EaseToward(target, 4)
	assert.Equal(t, 8, v.ScrollX)
	assert.Equal(t, 5, v.ScrollY)

	for i := 0; i < 100; i++ {
		v = v.EaseToward(target, 4)
	}
	assert.Equal(t, target, v)
}

func TestViewportCellMapping(t *testing.T) {
	v := Viewport{ScrollX: 13, ScrollY: 6, ViewW: DisplayWidth, ViewH: DisplayHeight}

	sx, sy, ok := v.CellToScreen(2, 1)
	assert.True(t, ok)
	assert.Equal(t, 3, sx)
	assert.Equal(t, 2, sy)

	cx, cy := v.ScreenToCell(sx, sy)
	assert.Equal(t, 2, cx)
	assert.Equal(t, 1, cy)

	_, _, ok = v.CellToScreen(0, 0)
	assert.False(t, ok)
	_, _, ok = v.CellToScreen(1, 0)
	assert.True(t, ok, "partially visible cell")
}
