package game

import "micro-city/internal/render"

// Action represents a viewer input action.
type Action int

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionQuit
	ActionToolbar   // show or hide the brush toolbar
	ActionBrushNext // select the next brush
	ActionBrushPrev // select the previous brush
	ActionApply     // apply the brush at the cursor
)

// InputEvent carries a viewer action into the game loop.
type InputEvent struct {
	ViewerID string
	Action   Action
}

// Viewer holds the state of one connected viewer: where they look and what
// they have selected.
type Viewer struct {
	ID   string
	Name string

	Cursor  render.Cursor
	View    render.Viewport
	Toolbar bool

	MoveCooldown int // ticks until the next move is allowed
	LastError    string
}

// Snapshot is what a viewer needs to draw one frame.
type Snapshot struct {
	Tick    uint64
	Version uint64 // world version the snapshot was taken against
	Viewers int

	ViewerID string
	Scroll   render.Viewport
	Cursor   render.Cursor
	Toolbar  bool
	Message  string
}

// Scene returns the render scene for the snapshot.
func (s Snapshot) Scene() render.Scene {
	cur := s.Cursor
	return render.Scene{
		ScrollX: s.Scroll.ScrollX,
		ScrollY: s.Scroll.ScrollY,
		Cursor:  &cur,
		Toolbar: s.Toolbar,
	}
}

// Snapshot returns a read-only copy of the viewer.
func (v *Viewer) Snapshot(tick, version uint64, viewers int) Snapshot {
	return Snapshot{
		Tick:     tick,
		Version:  version,
		Viewers:  viewers,
		ViewerID: v.ID,
		Scroll:   v.View,
		Cursor:   v.Cursor,
		Toolbar:  v.Toolbar,
		Message:  v.LastError,
	}
}
