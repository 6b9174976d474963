package city

import (
	"math"
	"math/rand"

	"micro-city/internal/tiles"
)

// simplexNoise generates 2D simplex noise with a seed-shuffled permutation table.
type simplexNoise struct {
	perm [512]int
}

// newSimplexNoise creates a noise generator seeded with seed.
func newSimplexNoise(seed int64) *simplexNoise {
	sn := &simplexNoise{}
	r := rand.New(rand.NewSource(seed))

	// Initialize and shuffle permutation table
	p := make([]int, 256)
	for i := range p {
		p[i] = i
	}
	r.Shuffle(256, func(i, j int) { p[i], p[j] = p[j], p[i] })

	for i := 0; i < 512; i++ {
		sn.perm[i] = p[i&255]
	}
	return sn
}

// grad2 computes the dot product of a gradient vector and (x, y).
func grad2(hash int, x, y float64) float64 {
	h := hash & 7
	u, v := x, y
	if h >= 4 {
		u, v = y, x
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}

const (
	f2 = 0.3660254037844386  // (sqrt(3) - 1) / 2
	g2 = 0.21132486540518713 // (3 - sqrt(3)) / 6
)

// noise2D returns simplex noise in [-1, 1].
func (sn *simplexNoise) noise2D(x, y float64) float64 {
	// Skew input space to determine which simplex cell we're in
	s := (x + y) * f2
	i := math.Floor(x + s)
	j := math.Floor(y + s)

	t := (i + j) * g2
	x0 := x - (i - t)
	y0 := y - (j - t)

	// Determine which simplex we're in
	var i1, j1 int
	if x0 > y0 {
		i1, j1 = 1, 0
	} else {
		i1, j1 = 0, 1
	}

	x1 := x0 - float64(i1) + g2
	y1 := y0 - float64(j1) + g2
	x2 := x0 - 1.0 + 2.0*g2
	y2 := y0 - 1.0 + 2.0*g2

	ii := int(i) & 255
	jj := int(j) & 255

	// Calculate contributions from the three corners
	var n0, n1, n2 float64

	t0 := 0.5 - x0*x0 - y0*y0
	if t0 > 0 {
		t0 *= t0
		n0 = t0 * t0 * grad2(sn.perm[ii+sn.perm[jj]], x0, y0)
	}

	t1 := 0.5 - x1*x1 - y1*y1
	if t1 > 0 {
		t1 *= t1
		n1 = t1 * t1 * grad2(sn.perm[ii+i1+sn.perm[jj+j1]], x1, y1)
	}

	t2 := 0.5 - x2*x2 - y2*y2
	if t2 > 0 {
		t2 *= t2
		n2 = t2 * t2 * grad2(sn.perm[ii+1+sn.perm[jj+1]], x2, y2)
	}

	// Scale to [-1, 1]
	return 70.0 * (n0 + n1 + n2)
}

// fractal sums octaves of noise and normalizes the result to [0, 1].
func (sn *simplexNoise) fractal(x, y, freq float64, octaves int) float64 {
	var total, maxAmp float64
	amp := 1.0

	for i := 0; i < octaves; i++ {
		total += sn.noise2D(x*freq, y*freq) * amp
		maxAmp += amp
		freq *= 2
		amp *= 0.5
	}

	// Normalize from [-1,1] to [0,1]
	return (total/maxAmp + 1.0) / 2.0
}

// Terrain thresholds on the normalized elevation.
const (
	waterLevel  = 0.32
	forestLevel = 0.66
)

// Terrain maps cells to terrain tiles from position alone.
type Terrain struct {
	seed      int64
	elevation *simplexNoise
	growth    *simplexNoise
}

// NewTerrain returns the terrain for a seed.
func NewTerrain(seed int64) *Terrain {
	return &Terrain{
		seed:      seed,
		elevation: newSimplexNoise(seed),
		growth:    newSimplexNoise(seed + 1),
	}
}

// Seed returns the seed the terrain was built from.
func (t *Terrain) Seed() int64 {
	return t.seed
}

// Tile returns the terrain tile at (x,y). Cells outside the map are empty.
func (t *Terrain) Tile(x, y int) uint8 {
	if !InBounds(x, y) {
		return tiles.Empty
	}

	fx, fy := float64(x), float64(y)
	elev := t.elevation.fractal(fx, fy, 0.06, 3)
	r := RandFromSeed(uint16(y*MapWidth + x))

	switch {
	case elev < waterLevel:
		// Diagonal wave phase so neighboring water cells ripple in sequence.
		return tiles.FirstWater + uint8((x+2*y)&3)
	case elev > forestLevel || t.growth.fractal(fx, fy, 0.15, 2) > 0.72:
		return tiles.FirstForest + uint8(r%4)
	default:
		return tiles.FirstLand + uint8(r%3)
	}
}

// RandFromSeed is a small deterministic hash-style generator. Equal seeds
// always produce equal values.
func RandFromSeed(seed uint16) uint16 {
	x := seed*0x9e37 + 0x7f4a
	x ^= x << 7
	x ^= x >> 9
	x ^= x << 8
	return x
}
