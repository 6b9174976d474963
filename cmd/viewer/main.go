package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"

	"micro-city/internal/city"
	"micro-city/internal/game"
	"micro-city/internal/logging"
	"micro-city/internal/render"
	"micro-city/internal/tiles"
)

// Viewer runs the game loop in-process and draws its frames on the local
// terminal, two pixels per cell.
type Viewer struct {
	screen   tcell.Screen
	gameLoop *game.GameLoop
	view     *game.View
	frame    *render.Frame
	cityName string

	ink, paper, status tcell.Style
}

// NewViewer opens the terminal and a render view on the game loop's world.
func NewViewer(gl *game.GameLoop, atlas *tiles.Atlas) (*Viewer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	ink, paper := render.PixelColor(true), render.PixelColor(false)
	return &Viewer{
		screen:   screen,
		gameLoop: gl,
		view:     gl.World().NewView(atlas),
		frame:    render.NewFrame(render.DisplayWidth, render.DisplayHeight),
		cityName: gl.World().Name(),
		ink:      tcell.StyleDefault.Foreground(rgb(ink)).Background(rgb(paper)),
		paper:    tcell.StyleDefault.Background(rgb(paper)),
		status:   tcell.StyleDefault.Foreground(rgb(render.StatusColor)),
	}, nil
}

func rgb(c render.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c[0]), int32(c[1]), int32(c[2]))
}

// keyAction maps a key event to a game action.
func keyAction(ev *tcell.EventKey) game.Action {
	switch ev.Key() {
	case tcell.KeyUp:
		return game.ActionUp
	case tcell.KeyDown:
		return game.ActionDown
	case tcell.KeyLeft:
		return game.ActionLeft
	case tcell.KeyRight:
		return game.ActionRight
	case tcell.KeyEnter:
		return game.ActionApply
	case tcell.KeyTab:
		return game.ActionBrushNext
	case tcell.KeyBacktab:
		return game.ActionBrushPrev
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return game.ActionQuit
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'W':
			return game.ActionUp
		case 's', 'S':
			return game.ActionDown
		case 'a', 'A':
			return game.ActionLeft
		case 'd', 'D':
			return game.ActionRight
		case ' ':
			return game.ActionApply
		case 't', 'T':
			return game.ActionToolbar
		case ']', 'e', 'E':
			return game.ActionBrushNext
		case '[':
			return game.ActionBrushPrev
		case 'q', 'Q':
			return game.ActionQuit
		}
	}
	return game.ActionNone
}

func (v *Viewer) draw(snap game.Snapshot) {
	v.view.Draw(snap.Scene(), v.frame)

	v.screen.Clear()
	for row := 0; row*2 < v.frame.Height; row++ {
		for col := 0; col < v.frame.Width; col++ {
			top := v.frame.Pixel(col, row*2)
			bottom := v.frame.Pixel(col, row*2+1)
			switch {
			case top && bottom:
				v.screen.SetContent(col, row, '█', nil, v.ink)
			case top:
				v.screen.SetContent(col, row, '▀', nil, v.ink)
			case bottom:
				v.screen.SetContent(col, row, '▄', nil, v.ink)
			default:
				v.screen.SetContent(col, row, ' ', nil, v.paper)
			}
		}
	}

	line := fmt.Sprintf("%s  (%d,%d)  %s  %s", v.cityName, snap.Cursor.X, snap.Cursor.Y,
		render.BrushName(snap.Cursor.Brush), snap.Message)
	for i, r := range []rune(line) {
		v.screen.SetContent(i, (v.frame.Height+1)/2, r, nil, v.status)
	}
	v.screen.Show()
}

func (v *Viewer) run() {
	viewerID, renderCh := v.gameLoop.AddViewer(os.Getenv("USER"))
	defer v.gameLoop.RemoveViewer(viewerID)

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	inputCh := v.gameLoop.InputChan()
	for {
		select {
		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				action := keyAction(ev)
				if action == game.ActionQuit {
					return
				}
				if action != game.ActionNone {
					inputCh <- game.InputEvent{ViewerID: viewerID, Action: action}
				}
			case *tcell.EventResize:
				v.screen.Sync()
			}
		case snap, ok := <-renderCh:
			if !ok {
				return
			}
			v.draw(snap)
		}
	}
}

func main() {
	cityPath := flag.String("city", "", "city JSON file (default: built-in town)")
	atlasPath := flag.String("atlas", "", "tile atlas PNG (default: built-in tiles)")
	savePath := flag.String("save", "", "write the edited city here on exit")
	logFile := flag.String("log", "", "log file; the terminal is busy drawing")
	flag.Parse()

	log, closer, err := logging.New(logging.Options{Level: "debug", File: *logFile, Quiet: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging error: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	c := city.Default()
	if *cityPath != "" {
		if c, err = city.Load(*cityPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	atlas := tiles.Builtin()
	if *atlasPath != "" {
		if atlas, err = tiles.LoadPNG(*atlasPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	world := game.NewWorld(c)
	gl := game.NewGameLoop(world, log)
	go gl.Run()

	viewer, err := NewViewer(gl, atlas)
	if err != nil {
		gl.Stop()
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	viewer.run()
	viewer.screen.Fini()
	gl.Stop()

	if *savePath != "" {
		var saveErr error
		world.Read(func(c *city.City) { saveErr = c.Save(*savePath) })
		if saveErr != nil {
			fmt.Fprintf(os.Stderr, "Error saving city: %v\n", saveErr)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Saved %s\n", *savePath)
	}
}
