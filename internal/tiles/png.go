package tiles

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
)

// SheetSize is the pixel edge of a full atlas sheet: 16x16 tiles of 8x8.
const SheetSize = PerRow * Size

// LoadPNG reads an atlas sheet from a PNG file. Opaque pixels darker than
// mid grey are "on", everything else (including transparency) is "off".
func LoadPNG(path string) (*Atlas, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	a, err := DecodePNG(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// DecodePNG decodes an atlas sheet. The sheet must be SheetSize wide and a
// whole number of tile rows high.
func DecodePNG(r io.Reader) (*Atlas, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != SheetSize || bounds.Dy() == 0 || bounds.Dy()%Size != 0 || bounds.Dy() > SheetSize {
		return nil, fmt.Errorf("%w: sheet is %dx%d, expected %d wide and up to %d high",
			ErrBadAtlas, bounds.Dx(), bounds.Dy(), SheetSize, SheetSize)
	}

	count := (bounds.Dy() / Size) * PerRow
	data := make([]byte, count*Size)
	for id := 0; id < count; id++ {
		ox := (id % PerRow) * Size
		oy := (id / PerRow) * Size
		for col := 0; col < Size; col++ {
			var b byte
			for row := 0; row < Size; row++ {
				if inked(img.At(bounds.Min.X+ox+col, bounds.Min.Y+oy+row)) {
					b |= 1 << uint(row)
				}
			}
			data[id*Size+col] = b
		}
	}
	return &Atlas{data: data}, nil
}

func inked(c color.Color) bool {
	_, _, _, a := c.RGBA()
	if a < 0x8000 {
		return false
	}
	gray := color.GrayModel.Convert(c).(color.Gray)
	return gray.Y < 0x80
}

// Sheet renders the atlas as a paletted image: index 0 white, index 1 black.
func (a *Atlas) Sheet() *image.Paletted {
	tileRows := (a.Len() + PerRow - 1) / PerRow
	img := image.NewPaletted(image.Rect(0, 0, SheetSize, tileRows*Size),
		color.Palette{color.White, color.Black})
	for id := 0; id < a.Len(); id++ {
		ox := (id % PerRow) * Size
		oy := (id / PerRow) * Size
		for col := 0; col < Size; col++ {
			b := a.data[id*Size+col]
			for row := 0; row < Size; row++ {
				if b>>uint(row)&1 != 0 {
					img.SetColorIndex(ox+col, oy+row, 1)
				}
			}
		}
	}
	return img
}

// EncodePNG writes the atlas sheet as PNG.
func EncodePNG(w io.Writer, a *Atlas) error {
	return png.Encode(w, a.Sheet())
}
