package game

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"micro-city/internal/city"
	"micro-city/internal/render"
	"micro-city/internal/tiles"
)

func newTestLoop(t *testing.T, opts ...Option) (*GameLoop, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return NewGameLoop(NewWorld(city.New("test", 1)), logger, opts...), hook
}

// send queues an action and runs enough ticks for the move cooldown.
func send(gl *GameLoop, id string, a Action) {
	gl.inputCh <- InputEvent{ViewerID: id, Action: a}
	for i := 0; i < gl.moveRepeat+1; i++ {
		gl.tick()
	}
}

// current drops queued snapshots, runs one tick and returns its snapshot.
func current(gl *GameLoop, ch RenderChan) Snapshot {
	for len(ch) > 0 {
		<-ch
	}
	gl.tick()
	return <-ch
}

func TestSecsToTicks(t *testing.T) {
	assert.Equal(t, 2, SecsToTicks(0.1, 20))
	assert.Equal(t, 1, SecsToTicks(0.001, 20))
	assert.Equal(t, 30, SecsToTicks(1, 30))
}

func TestAddRemoveViewer(t *testing.T) {
	gl, _ := newTestLoop(t)
	id, ch := gl.AddViewer("alice")
	other, _ := gl.AddViewer("alice")
	assert.NotEqual(t, id, other, "ids are unique even for equal names")
	assert.Equal(t, 2, gl.ViewerCount())

	s := current(gl, ch)
	assert.Equal(t, id, s.ViewerID)
	assert.Equal(t, uint64(1), s.Tick)
	assert.Equal(t, 2, s.Viewers)
	assert.Equal(t, city.MapWidth/2, s.Cursor.X)

	gl.RemoveViewer(id)
	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 1, gl.ViewerCount())
}

func TestCursorMovesOneCellAndClamps(t *testing.T) {
	gl, _ := newTestLoop(t)
	id, ch := gl.AddViewerAt("bob", 0, 1)

	send(gl, id, ActionUp)
	send(gl, id, ActionUp)
	send(gl, id, ActionLeft)
	send(gl, id, ActionRight)

	s := current(gl, ch)
	assert.Equal(t, 1, s.Cursor.X)
	assert.Equal(t, 0, s.Cursor.Y)
}

func TestMoveCooldownDropsRepeats(t *testing.T) {
	gl, _ := newTestLoop(t)
	id, ch := gl.AddViewerAt("carol", 10, 10)

	gl.inputCh <- InputEvent{ViewerID: id, Action: ActionRight}
	gl.inputCh <- InputEvent{ViewerID: id, Action: ActionRight}

	assert.Equal(t, 11, current(gl, ch).Cursor.X)
}

func TestScrollEasesTowardCursor(t *testing.T) {
	gl, _ := newTestLoop(t, WithScrollSpeed(2))
	id, ch := gl.AddViewerAt("dave", 0, 0)
	start := current(gl, ch).Scroll
	assert.Equal(t, 0, start.ScrollX)

	gl.mu.Lock()
	gl.viewers[id].Cursor.X = 30
	gl.mu.Unlock()

	assert.Equal(t, 2, current(gl, ch).Scroll.ScrollX)

	target := render.CenteredViewport(30, 0, render.DisplayWidth, render.DisplayHeight)
	for i := 0; i < 200; i++ {
		gl.tick()
	}
	assert.Equal(t, target, current(gl, ch).Scroll)
}

func TestScrollClampedToMap(t *testing.T) {
	gl, _ := newTestLoop(t, WithScrollSpeed(1000))
	_, ch := gl.AddViewerAt("erin", city.MapWidth-1, city.MapHeight-1)

	maxX, maxY := render.MaxScroll(render.DisplayWidth, render.DisplayHeight)
	s := current(gl, ch)
	assert.Equal(t, maxX, s.Scroll.ScrollX)
	assert.Equal(t, maxY, s.Scroll.ScrollY)
}

func TestBrushSelectionWraps(t *testing.T) {
	gl, _ := newTestLoop(t)
	id, ch := gl.AddViewer("frank")

	send(gl, id, ActionBrushPrev)
	assert.Equal(t, render.NumBrushes-1, current(gl, ch).Cursor.Brush)
	send(gl, id, ActionBrushNext)
	assert.Equal(t, 0, current(gl, ch).Cursor.Brush)

	send(gl, id, ActionToolbar)
	assert.True(t, current(gl, ch).Toolbar)
}

func TestApplyBrushEditsWorld(t *testing.T) {
	gl, hook := newTestLoop(t)
	id, ch := gl.AddViewerAt("gina", 5, 5)
	before := gl.World().Version()

	// Road brush.
	send(gl, id, ActionBrushNext)
	send(gl, id, ActionApply)
	gl.World().Read(func(c *city.City) {
		assert.Equal(t, city.RoadMask, c.Connections(5, 5))
	})
	s := current(gl, ch)
	assert.Greater(t, s.Version, before)
	assert.Empty(t, s.Message)

	// Residential brush, centred on the cursor.
	send(gl, id, ActionBrushNext)
	send(gl, id, ActionBrushNext)
	send(gl, id, ActionApply)
	gl.World().Read(func(c *city.City) {
		i, ok := c.BuildingAt(5, 5)
		require.True(t, ok)
		assert.Equal(t, city.Residential, c.Building(i).Type)
		assert.Equal(t, 4, c.Building(i).X)
		assert.Equal(t, uint8(0), c.Connections(5, 5), "building replaces the road")
	})

	// A second building on the same spot is rejected and reported.
	send(gl, id, ActionApply)
	assert.Contains(t, current(gl, ch).Message, "overlaps")
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "Brush rejected", hook.LastEntry().Message)
}

func TestApplyBulldozer(t *testing.T) {
	gl, _ := newTestLoop(t)
	require.NoError(t, gl.World().ApplyBrush(tiles.FirstBuildingBrush+3, 20, 20))
	assert.Equal(t, 1, gl.World().Stats().Buildings)
	require.NoError(t, gl.World().ApplyBrush(tiles.BrushBulldozer, 21, 21))
	assert.Equal(t, 0, gl.World().Stats().Buildings)
}

func TestStats(t *testing.T) {
	w := NewWorld(city.Default())
	s := w.Stats()
	assert.Equal(t, "Default", s.Name)
	assert.Equal(t, 9, s.Buildings)
	assert.Equal(t, 2, s.ByType["residential"])
	assert.Equal(t, 1, s.Unpowered)
	assert.Positive(t, s.Roads)
	assert.Positive(t, s.Powerline)
}

func TestStopIsIdempotent(t *testing.T) {
	gl, _ := newTestLoop(t)
	done := make(chan struct{})
	go func() {
		gl.Run()
		close(done)
	}()
	gl.Stop()
	gl.Stop()
	<-done
}
