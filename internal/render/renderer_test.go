package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"micro-city/internal/city"
	"micro-city/internal/tiles"
)

func TestRendererDefaults(t *testing.T) {
	r := NewRenderer(city.Default(), tiles.Builtin())
	w, h := r.Size()
	assert.Equal(t, DisplayWidth, w)
	assert.Equal(t, DisplayHeight, h)
	assert.Equal(t, 17, r.Cache().Cols())
	assert.Equal(t, 9, r.Cache().Rows())
	assert.Equal(t, uint8(0), r.Frame())
}

func TestRendererOptions(t *testing.T) {
	r := NewRenderer(city.Default(), tiles.Builtin(), WithDisplaySize(64, 32), WithStartFrame(250))
	assert.Equal(t, 9, r.Cache().Cols())
	assert.Equal(t, 5, r.Cache().Rows())
	assert.Equal(t, uint8(250), r.Frame())
}

func TestRendererFrameCounterWraps(t *testing.T) {
	r := NewRenderer(city.Default(), tiles.Builtin(), WithStartFrame(254))
	f := NewFrame(DisplayWidth, DisplayHeight)
	r.Draw(0, 0, f)
	r.Draw(0, 0, f)
	assert.Equal(t, uint8(0), r.Frame())
	r.Draw(0, 0, f)
	assert.Equal(t, uint8(1), r.Frame())
}

func TestRendererOverlayNeverReachesCache(t *testing.T) {
	c := city.Default()
	r := NewRenderer(c, tiles.Builtin())
	f := NewFrame(DisplayWidth, DisplayHeight)

	// Walk through a full animation cycle while scrolling, then check the
	// cache against freshly selected tiles.
	for i := 0; i < 40; i++ {
		r.Draw(i*3, i, f)

		cache := r.Cache()
		ox, oy := cache.Origin()
		for y := 0; y < cache.Rows(); y++ {
			for x := 0; x < cache.Cols(); x++ {
				require.Equal(t, SelectTile(c, ox+x, oy+y), cache.At(x, y), "draw %d (%d,%d)", i, x, y)
			}
		}
	}
}

func TestRendererDrawMatchesPipeline(t *testing.T) {
	c := city.Default()
	atlas := tiles.Builtin()
	r := NewRenderer(c, atlas, WithStartFrame(12))

	got := NewFrame(DisplayWidth, DisplayHeight)
	r.Draw(21, 13, got)

	cols, rows := VisibleTiles(DisplayWidth, DisplayHeight)
	cache := NewTileCache(cols, rows, func(x, y int) uint8 { return SelectTile(c, x, y) })
	cache.Reconcile(21, 13)
	g := NewGrid(cols, rows)
	cache.CopyTo(g)
	Animate(g, c.Buildings(), 12)
	want := NewFrame(DisplayWidth, DisplayHeight)
	Blit(want, atlas, g, 21, 13, DisplayWidth, DisplayHeight)

	assert.Equal(t, want.Bytes, got.Bytes)
	assert.Equal(t, g.Tiles, r.Presented().Tiles)
}

func TestRendererShowsOutage(t *testing.T) {
	c := city.New("outage", 3)
	_, err := c.PlaceBuilding(city.Building{Type: city.Industrial, X: 2, Y: 2})
	require.NoError(t, err)

	r := NewRenderer(c, tiles.Builtin(), WithStartFrame(8))
	f := NewFrame(DisplayWidth, DisplayHeight)
	r.Draw(0, 0, f)
	assert.Equal(t, tiles.Outage, r.Presented().At(3, 3))
	assert.Equal(t, city.Info(city.Industrial).DrawTile+tiles.OverlayOffset, r.Cache().At(3, 3))

	r = NewRenderer(c, tiles.Builtin(), WithStartFrame(16))
	r.Draw(0, 0, f)
	assert.Equal(t, city.Info(city.Industrial).DrawTile+tiles.OverlayOffset, r.Presented().At(3, 3))
}

func TestRendererDrawScene(t *testing.T) {
	c := city.Default()
	atlas := tiles.Builtin()
	cursor := Cursor{X: 3, Y: 1, Brush: tiles.BrushRoad}

	t.Run("toolbar hides cursor", func(t *testing.T) {
		want := NewFrame(DisplayWidth, DisplayHeight)
		NewRenderer(c, atlas).Draw(0, 0, want)
		DrawToolbar(want, atlas, cursor.Brush, DisplayWidth, DisplayHeight, 0)

		r := NewRenderer(c, atlas)
		got := NewFrame(DisplayWidth, DisplayHeight)
		r.DrawScene(Scene{Cursor: &cursor, Toolbar: true}, got)

		assert.Equal(t, want.Bytes, got.Bytes)
		assert.Equal(t, uint8(1), r.Frame())
	})

	t.Run("cursor and current brush", func(t *testing.T) {
		want := NewFrame(DisplayWidth, DisplayHeight)
		NewRenderer(c, atlas).Draw(0, 0, want)
		require.True(t, DrawCursor(want, cursor, 0, 0, DisplayWidth, DisplayHeight, 0))
		DrawBrush(want, atlas, cursor.Brush, DisplayHeight)

		got := NewFrame(DisplayWidth, DisplayHeight)
		NewRenderer(c, atlas).DrawScene(Scene{Cursor: &cursor}, got)

		assert.Equal(t, want.Bytes, got.Bytes)
	})

	t.Run("no cursor draws map only", func(t *testing.T) {
		want := NewFrame(DisplayWidth, DisplayHeight)
		NewRenderer(c, atlas).Draw(0, 0, want)

		got := NewFrame(DisplayWidth, DisplayHeight)
		NewRenderer(c, atlas).DrawScene(Scene{Toolbar: true}, got)

		assert.Equal(t, want.Bytes, got.Bytes)
	})
}
