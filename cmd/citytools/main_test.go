package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"micro-city/internal/city"
	"micro-city/internal/render"
	"micro-city/internal/tiles"
)

func TestValidateDefaultCity(t *testing.T) {
	assert.Empty(t, validateCity(city.Default()))
}

func TestValidateFindsProblems(t *testing.T) {
	c := city.New("test", 1)
	_, err := c.PlaceBuilding(city.Building{Type: city.Residential, X: 10, Y: 10, HasPower: true})
	require.NoError(t, err)
	_, err = c.PlaceBuilding(city.Building{Type: city.Park, X: 20, Y: 20})
	require.NoError(t, err)

	problems := validateCity(c)
	require.Len(t, problems, 2)
	assert.Contains(t, problems[0], "no road or powerline access")
	assert.Contains(t, problems[1], "no powerplant")

	require.NoError(t, c.SetConnections(9, 11, city.RoadMask))
	assert.Len(t, validateCity(c), 1)
}

func TestRunValidateDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, city.Default().Save(filepath.Join(dir, "default.json")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))
	assert.Equal(t, 0, runValidate(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644))
	assert.Equal(t, 1, runValidate(dir))
}

func TestVizFrameMatchesRenderer(t *testing.T) {
	c := city.Default()
	f := vizFrame(c, tiles.Builtin(), 1000, -5, 3)

	want := render.NewFrame(render.DisplayWidth, render.DisplayHeight)
	maxX, _ := render.MaxScroll(render.DisplayWidth, render.DisplayHeight)
	render.NewRenderer(c, tiles.Builtin(), render.WithStartFrame(3)).Draw(maxX, 0, want)
	assert.Equal(t, want.Bytes, f.Bytes)

	text := render.HalfBlocks(f)
	assert.Len(t, strings.Split(strings.TrimSuffix(text, "\n"), "\n"), render.DisplayHeight/2)
}

func TestCollectStats(t *testing.T) {
	s := collectStats(city.Default())
	assert.Equal(t, 2, s.byType[city.Residential])
	assert.Equal(t, 1, s.unpowered)
	assert.Positive(t, s.roads)
	assert.Positive(t, s.powerlines)

	cells := 0
	for _, n := range s.terrain {
		cells += n
	}
	assert.Equal(t, city.MapWidth*city.MapHeight, cells)
}

func TestRunAtlas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.png")
	require.Equal(t, 0, runAtlas(path))

	atlas, err := tiles.LoadPNG(path)
	require.NoError(t, err)
	assert.Equal(t, tiles.Builtin().Len(), atlas.Len())
}
