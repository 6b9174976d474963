package game

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"micro-city/internal/city"
	"micro-city/internal/render"
)

const InputChanSize = 256

// RenderChan is the per-viewer channel that receives snapshots.
type RenderChan chan Snapshot

// Option configures a GameLoop.
type Option func(*GameLoop)

// WithTickRate sets the number of ticks per second.
func WithTickRate(rate int) Option {
	return func(gl *GameLoop) {
		if rate > 0 {
			gl.tickRate = rate
		}
	}
}

// WithScrollSpeed sets how many pixels per tick the view follows the cursor.
func WithScrollSpeed(px int) Option {
	return func(gl *GameLoop) {
		if px > 0 {
			gl.scrollSpeed = px
		}
	}
}

// GameLoop is the central loop. It owns cursor and scroll state for every
// viewer, applies their edits to the world between frames and fans out a
// snapshot per viewer each tick.
type GameLoop struct {
	world       *World
	log         logrus.FieldLogger
	tickRate    int
	scrollSpeed int
	moveRepeat  int

	inputCh   chan InputEvent
	tickCount uint64

	mu          sync.RWMutex
	viewers     map[string]*Viewer
	renderChans map[string]RenderChan

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewGameLoop creates and returns a new game loop.
func NewGameLoop(world *World, log logrus.FieldLogger, opts ...Option) *GameLoop {
	gl := &GameLoop{
		world:       world,
		log:         log,
		tickRate:    DefaultTickRate,
		scrollSpeed: DefaultScrollSpeed,
		inputCh:     make(chan InputEvent, InputChanSize),
		viewers:     make(map[string]*Viewer),
		renderChans: make(map[string]RenderChan),
		stopCh:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(gl)
	}
	gl.moveRepeat = SecsToTicks(MoveRepeatSecs, gl.tickRate)
	return gl
}

// World returns the world the loop edits.
func (gl *GameLoop) World() *World {
	return gl.world
}

// TickRate returns the number of ticks per second.
func (gl *GameLoop) TickRate() int {
	return gl.tickRate
}

// InputChan returns the shared input channel for sessions to send events.
func (gl *GameLoop) InputChan() chan<- InputEvent {
	return gl.inputCh
}

// AddViewer registers a viewer with the cursor at the map centre. Returns
// the viewer id and its render channel.
func (gl *GameLoop) AddViewer(name string) (string, RenderChan) {
	return gl.AddViewerAt(name, city.MapWidth/2, city.MapHeight/2)
}

// AddViewerAt registers a viewer with the cursor on cell (x,y).
func (gl *GameLoop) AddViewerAt(name string, x, y int) (string, RenderChan) {
	gl.mu.Lock()
	defer gl.mu.Unlock()

	id := uuid.NewString()
	x = min(max(x, 0), city.MapWidth-1)
	y = min(max(y, 0), city.MapHeight-1)
	v := &Viewer{
		ID:     id,
		Name:   name,
		Cursor: render.Cursor{X: x, Y: y},
		View:   render.CenteredViewport(x, y, render.DisplayWidth, render.DisplayHeight),
	}

	gl.viewers[id] = v
	ch := make(RenderChan, 2)
	gl.renderChans[id] = ch
	return id, ch
}

// RemoveViewer unregisters a viewer and closes its render channel.
func (gl *GameLoop) RemoveViewer(id string) {
	gl.mu.Lock()
	defer gl.mu.Unlock()

	delete(gl.viewers, id)
	if ch, ok := gl.renderChans[id]; ok {
		close(ch)
		delete(gl.renderChans, id)
	}
}

// ViewerCount returns the number of connected viewers.
func (gl *GameLoop) ViewerCount() int {
	gl.mu.RLock()
	defer gl.mu.RUnlock()
	return len(gl.viewers)
}

// Run starts the game loop. Blocks until Stop is called.
func (gl *GameLoop) Run() {
	ticker := time.NewTicker(time.Second / time.Duration(gl.tickRate))
	defer ticker.Stop()

	gl.log.WithField("tick_rate", gl.tickRate).Info("Game loop started")
	for {
		select {
		case <-gl.stopCh:
			gl.log.Info("Game loop stopped")
			return
		case <-ticker.C:
			gl.tick()
		}
	}
}

// Stop shuts down the game loop. Safe to call more than once.
func (gl *GameLoop) Stop() {
	gl.stopOnce.Do(func() { close(gl.stopCh) })
}

func (gl *GameLoop) tick() {
	// Drain all pending input events
	for {
		select {
		case ev := <-gl.inputCh:
			gl.processInput(ev)
		default:
			goto drained
		}
	}
drained:

	gl.tickCount++
	version := gl.world.Version()

	gl.mu.Lock()
	for _, v := range gl.viewers {
		if v.MoveCooldown > 0 {
			v.MoveCooldown--
		}
		target := render.CenteredViewport(v.Cursor.X, v.Cursor.Y, v.View.ViewW, v.View.ViewH)
		v.View = v.View.EaseToward(target, gl.scrollSpeed)
	}

	// Non-blocking send to each render channel
	n := len(gl.viewers)
	for id, ch := range gl.renderChans {
		select {
		case ch <- gl.viewers[id].Snapshot(gl.tickCount, version, n):
		default:
			// Drop frame for slow client
		}
	}
	gl.mu.Unlock()
}

func (gl *GameLoop) processInput(ev InputEvent) {
	gl.mu.Lock()
	v, ok := gl.viewers[ev.ViewerID]
	if !ok {
		gl.mu.Unlock()
		return
	}

	switch ev.Action {
	case ActionUp, ActionDown, ActionLeft, ActionRight:
		if v.MoveCooldown == 0 {
			gl.moveCursor(v, ev.Action)
			v.MoveCooldown = gl.moveRepeat
		}
	case ActionToolbar:
		v.Toolbar = !v.Toolbar
	case ActionBrushNext:
		v.Cursor.Brush = (v.Cursor.Brush + 1) % render.NumBrushes
	case ActionBrushPrev:
		v.Cursor.Brush = (v.Cursor.Brush + render.NumBrushes - 1) % render.NumBrushes
	}
	brush, x, y := v.Cursor.Brush, v.Cursor.X, v.Cursor.Y
	gl.mu.Unlock()

	if ev.Action != ActionApply {
		return
	}

	// Edits take the world lock; never hold the viewer lock across it.
	err := gl.world.ApplyBrush(brush, x, y)
	gl.mu.Lock()
	if v, ok := gl.viewers[ev.ViewerID]; ok {
		v.LastError = ""
		if err != nil {
			v.LastError = err.Error()
		}
	}
	gl.mu.Unlock()
	if err != nil {
		gl.log.WithFields(logrus.Fields{
			"viewer": ev.ViewerID,
			"brush":  brush,
			"x":      x,
			"y":      y,
		}).WithError(err).Debug("Brush rejected")
	}
}

func (gl *GameLoop) moveCursor(v *Viewer, a Action) {
	x, y := v.Cursor.X, v.Cursor.Y
	switch a {
	case ActionUp:
		y--
	case ActionDown:
		y++
	case ActionLeft:
		x--
	case ActionRight:
		x++
	}
	if city.InBounds(x, y) {
		v.Cursor.X, v.Cursor.Y = x, y
	}
}
