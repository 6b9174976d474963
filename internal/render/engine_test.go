package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngineDiffsFrames(t *testing.T) {
	f := NewFrame(4, 4)
	e := NewEngine(4, 3)

	first := e.Render(f, "ok", 4, 3)
	assert.Equal(t, 12, strings.Count(first, "\x1b[0;"), "first frame paints every cell")
	assert.True(t, strings.HasSuffix(first, Reset))

	assert.Empty(t, e.Render(f, "ok", 4, 3), "unchanged frame emits nothing")

	f.SetPixel(2, 3, true)
	out := e.Render(f, "ok", 4, 3)
	assert.Equal(t, 1, strings.Count(out, "\x1b[0;"))
	assert.Contains(t, out, MoveTo(2, 3))
	assert.Contains(t, out, "▀")
}

func TestEngineResizeRepaints(t *testing.T) {
	f := NewFrame(2, 2)
	e := NewEngine(2, 2)
	e.Render(f, "", 2, 2)

	out := e.Render(f, "", 3, 2)
	assert.Equal(t, 6, strings.Count(out, "\x1b[0;"))
	w, h := e.Size()
	assert.Equal(t, 3, w)
	assert.Equal(t, 2, h)
}

func TestEngineStatusLine(t *testing.T) {
	f := NewFrame(8, 2)
	e := NewEngine(8, 2)
	out := e.Render(f, "hi", 8, 2)
	assert.Contains(t, out, "mh")
	assert.Contains(t, out, "mi")
}

func TestHalfBlocks(t *testing.T) {
	f := NewFrame(4, 3)
	f.SetPixel(0, 0, true)
	f.SetPixel(1, 1, true)
	f.SetPixel(2, 0, true)
	f.SetPixel(2, 1, true)
	f.SetPixel(3, 2, true)

	assert.Equal(t, "▀▄█ \n   ▀\n", HalfBlocks(f))
}
