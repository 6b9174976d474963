// Package tiles holds the 1-bit 8x8 tile atlas and the tile identifier layout.
package tiles

import (
	"errors"
	"fmt"
)

// ErrBadAtlas is returned when atlas data is not a whole number of tiles.
var ErrBadAtlas = errors.New("tiles: bad atlas data")

// blank backs lookups for identifiers past the end of a short atlas.
var blank [Size]byte

// Atlas is an immutable table of 8-byte tiles. Byte n of a tile is pixel
// column n, and bit 0 of that byte is the top row.
type Atlas struct {
	data []byte
}

// New copies data into a new atlas. len(data) must be a positive multiple of
// Size and hold at most Count tiles.
func New(data []byte) (*Atlas, error) {
	if len(data) == 0 || len(data)%Size != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of %d", ErrBadAtlas, len(data), Size)
	}
	if len(data) > Count*Size {
		return nil, fmt.Errorf("%w: %d tiles exceeds %d", ErrBadAtlas, len(data)/Size, Count)
	}
	own := make([]byte, len(data))
	copy(own, data)
	return &Atlas{data: own}, nil
}

// Len returns the number of tiles in the atlas.
func (a *Atlas) Len() int {
	return len(a.data) / Size
}

// Tile returns the bitplane slice for id. The slice aliases the atlas and
// must not be modified. Identifiers past the end of the atlas read as blank.
func (a *Atlas) Tile(id uint8) []byte {
	off := int(id) * Size
	if off+Size > len(a.data) {
		return blank[:]
	}
	return a.data[off : off+Size : off+Size]
}

// Column returns pixel column col (0..7) of tile id.
func (a *Atlas) Column(id uint8, col int) byte {
	off := int(id)*Size + col&(Size-1)
	if off >= len(a.data) {
		return 0
	}
	return a.data[off]
}

// Pixel reports whether pixel (x,y) of tile id is set.
func (a *Atlas) Pixel(id uint8, x, y int) bool {
	return a.Column(id, x)>>(uint(y)&(Size-1))&1 != 0
}
