package render

import (
	"image"
	"image/color"
	"image/png"
	"io"
)

const (
	// DisplayWidth and DisplayHeight are the size of the monochrome screen.
	DisplayWidth  = 128
	DisplayHeight = 64
)

// Frame is a packed 1-bit-per-pixel screen image. Rows are Stride bytes
// long; the most significant bit of each byte is the leftmost pixel.
type Frame struct {
	Width, Height int
	Stride        int
	Bytes         []byte
}

// NewFrame allocates a cleared frame.
func NewFrame(width, height int) *Frame {
	stride := (width + 7) / 8
	return &Frame{
		Width:  width,
		Height: height,
		Stride: stride,
		Bytes:  make([]byte, stride*height),
	}
}

func (f *Frame) maskIndex(x, y int) (byte, int) {
	return 0x80 >> uint(x&7), y*f.Stride + x>>3
}

// SetPixel implements PixelSetter. Pixels off the frame are clipped.
func (f *Frame) SetPixel(x, y int, on bool) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return
	}
	mask, i := f.maskIndex(x, y)
	if on {
		f.Bytes[i] |= mask
	} else {
		f.Bytes[i] &^= mask
	}
}

// Pixel reports whether (x,y) is on. Pixels off the frame read as off.
func (f *Frame) Pixel(x, y int) bool {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return false
	}
	mask, i := f.maskIndex(x, y)
	return f.Bytes[i]&mask != 0
}

// Clear turns every pixel off.
func (f *Frame) Clear() {
	clear(f.Bytes)
}

// CopyFrom replaces the frame contents with src's. Sizes must match.
func (f *Frame) CopyFrom(src *Frame) {
	copy(f.Bytes, src.Bytes)
}

// Clone returns an independent copy of the frame.
func (f *Frame) Clone() *Frame {
	c := *f
	c.Bytes = append([]byte(nil), f.Bytes...)
	return &c
}

// Palette used when the frame is shown as an image: off pixels are the
// light LCD background, on pixels are ink.
var framePalette = color.Palette{
	color.Gray{Y: 0xe8},
	color.Gray{Y: 0x10},
}

// Image converts the frame to a paletted image scaled by an integer factor.
func (f *Frame) Image(scale int) *image.Paletted {
	if scale < 1 {
		scale = 1
	}
	img := image.NewPaletted(image.Rect(0, 0, f.Width*scale, f.Height*scale), framePalette)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			if !f.Pixel(x, y) {
				continue
			}
			for sy := 0; sy < scale; sy++ {
				row := img.Pix[(y*scale+sy)*img.Stride:]
				for sx := 0; sx < scale; sx++ {
					row[x*scale+sx] = 1
				}
			}
		}
	}
	return img
}

// EncodePNG writes the frame as a PNG scaled by an integer factor.
func (f *Frame) EncodePNG(w io.Writer, scale int) error {
	return png.Encode(w, f.Image(scale))
}
