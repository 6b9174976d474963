package render

import "strings"

// StatusRows is the number of text rows reserved below the map.
const StatusRows = 1

// Cell represents a single terminal cell.
type Cell struct {
	Ch     rune
	Fg, Bg RGB
	Bold   bool
}

var sentinel = Cell{Ch: '\x00', Fg: RGB{255, 0, 0}, Bg: RGB{0, 0, 255}, Bold: true}

// Engine is a per-session double-buffer diff renderer. It presents a 1-bit
// frame with half-block cells, one cell per two pixel rows, and only emits
// the cells that changed since the previous call.
type Engine struct {
	width, height int
	current       [][]Cell
	next          [][]Cell
	firstFrame    bool
}

// NewEngine creates a renderer for the given terminal dimensions.
func NewEngine(width, height int) *Engine {
	e := &Engine{
		width:      width,
		height:     height,
		firstFrame: true,
	}
	e.current = e.makeBuffer(sentinel)
	e.next = e.makeBuffer(Cell{})
	return e
}

// Resize adjusts the renderer for a new terminal size.
func (e *Engine) Resize(width, height int) {
	e.width = width
	e.height = height
	e.current = e.makeBuffer(sentinel)
	e.next = e.makeBuffer(Cell{})
	e.firstFrame = true
}

// Size returns the terminal dimensions.
func (e *Engine) Size() (int, int) {
	return e.width, e.height
}

func (e *Engine) makeBuffer(fill Cell) [][]Cell {
	buf := make([][]Cell, e.height)
	for y := 0; y < e.height; y++ {
		buf[y] = make([]Cell, e.width)
		for x := 0; x < e.width; x++ {
			buf[y][x] = fill
		}
	}
	return buf
}

// Render produces the ANSI byte output for a frame and its status line.
func (e *Engine) Render(f *Frame, status string, termW, termH int) string {
	if termW != e.width || termH != e.height {
		e.Resize(termW, termH)
	}

	bgCell := Cell{Ch: ' ', Bg: RGB{10, 12, 10}}
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			e.next[y][x] = bgCell
		}
	}

	// --- Map ---
	mapRows := (f.Height + 1) / 2
	for cy := 0; cy < mapRows && cy < e.height-StatusRows; cy++ {
		for cx := 0; cx < f.Width && cx < e.width; cx++ {
			e.next[cy][cx] = Cell{
				Ch: '▀',
				Fg: PixelColor(f.Pixel(cx, cy*2)),
				Bg: PixelColor(f.Pixel(cx, cy*2+1)),
			}
		}
	}

	// --- Status line ---
	statusY := min(mapRows, e.height-StatusRows)
	if statusY >= 0 {
		e.writeText(statusY, 0, status, StatusColor, bgCell.Bg)
	}

	return e.flush()
}

// writeText writes text into a row, clipped to the terminal width.
func (e *Engine) writeText(row, col int, text string, fg, bg RGB) int {
	for _, r := range text {
		if col >= e.width {
			break
		}
		if row >= 0 && row < e.height && col >= 0 {
			e.next[row][col] = Cell{Ch: r, Fg: fg, Bg: bg}
		}
		col++
	}
	return col
}

// flush diffs current against next, emits only changed cells and swaps the
// buffers.
func (e *Engine) flush() string {
	var sb strings.Builder
	sb.Grow(16384)

	lastRow, lastCol := -1, -1
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			nc := e.next[y][x]
			if e.firstFrame || nc != e.current[y][x] {
				// Only emit cursor position if not consecutive
				if y != lastRow || x != lastCol {
					sb.WriteString(MoveTo(y+1, x+1))
				}
				WriteCellSGR(&sb, nc)
				lastRow = y
				lastCol = x + 1
			}
		}
	}

	if sb.Len() > 0 {
		sb.WriteString(Reset)
	}

	e.current, e.next = e.next, e.current
	e.firstFrame = false

	return sb.String()
}
