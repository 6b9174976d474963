package render

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	ESC   = "\x1b"
	CSI   = ESC + "["
	Reset = CSI + "0m"
)

// MoveTo positions the cursor at row, col (1-based).
func MoveTo(row, col int) string {
	return fmt.Sprintf("%s%d;%dH", CSI, row, col)
}

// ClearScreen clears the entire screen.
func ClearScreen() string {
	return CSI + "2J"
}

// HideCursor hides the terminal cursor.
func HideCursor() string {
	return CSI + "?25l"
}

// ShowCursor shows the terminal cursor.
func ShowCursor() string {
	return CSI + "?25h"
}

// EnableAltScreen switches to the alternate screen buffer.
func EnableAltScreen() string {
	return CSI + "?1049h"
}

// DisableAltScreen switches back from the alternate screen buffer.
func DisableAltScreen() string {
	return CSI + "?1049l"
}

// RGB is a 24-bit terminal color.
type RGB [3]uint8

// LCD colors used to present the monochrome frame.
var (
	InkColor    = RGB{24, 32, 24}
	PaperColor  = RGB{196, 207, 161}
	StatusColor = RGB{140, 150, 120}
)

// PixelColor returns the terminal color of a frame pixel.
func PixelColor(on bool) RGB {
	if on {
		return InkColor
	}
	return PaperColor
}

// WriteCellSGR writes a single cell's full SGR + character to the builder.
// Uses combined SGR to avoid state leakage between cells.
func WriteCellSGR(sb *strings.Builder, c Cell) {
	if c.Bold {
		sb.WriteString("\x1b[0;1;38;2;")
	} else {
		sb.WriteString("\x1b[0;38;2;")
	}
	writeRGB(sb, c.Fg)
	sb.WriteString(";48;2;")
	writeRGB(sb, c.Bg)
	sb.WriteByte('m')
	sb.WriteRune(c.Ch)
}

func writeRGB(sb *strings.Builder, c RGB) {
	sb.WriteString(strconv.Itoa(int(c[0])))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(c[1])))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(c[2])))
}

// HalfBlocks renders a frame as plain text, two pixel rows per line, with
// no escape codes. Used by tools and logs.
func HalfBlocks(f *Frame) string {
	var sb strings.Builder
	for y := 0; y < f.Height; y += 2 {
		for x := 0; x < f.Width; x++ {
			sb.WriteRune(halfBlock(f.Pixel(x, y), f.Pixel(x, y+1)))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// halfBlock picks the rune showing a top and bottom pixel in one cell.
func halfBlock(top, bottom bool) rune {
	switch {
	case top && bottom:
		return '█'
	case top:
		return '▀'
	case bottom:
		return '▄'
	}
	return ' '
}
