package tiles

// Neighbor side bits used to describe which of the 4 neighbors a road or
// powerline cell connects to.
const (
	ConnN uint8 = 1 << iota
	ConnE
	ConnS
	ConnW
)

// Connectivity variants, in atlas order. A road tile is FirstRoad+variant,
// a powerline tile FirstPowerline+variant.
const (
	VariantIsolated uint8 = iota
	VariantHorizontal
	VariantVertical
	VariantCornerNE
	VariantCornerSE
	VariantCornerSW
	VariantCornerNW
	VariantTeeESW
	VariantTeeNSW
	VariantTeeNEW
	VariantTeeNES
	VariantCross

	NumVariants
)

var variantBySides = [16]uint8{
	0:                             VariantIsolated,
	ConnN:                         VariantVertical,
	ConnE:                         VariantHorizontal,
	ConnN | ConnE:                 VariantCornerNE,
	ConnS:                         VariantVertical,
	ConnN | ConnS:                 VariantVertical,
	ConnE | ConnS:                 VariantCornerSE,
	ConnN | ConnE | ConnS:         VariantTeeNES,
	ConnW:                         VariantHorizontal,
	ConnN | ConnW:                 VariantCornerNW,
	ConnE | ConnW:                 VariantHorizontal,
	ConnN | ConnE | ConnW:         VariantTeeNEW,
	ConnS | ConnW:                 VariantCornerSW,
	ConnN | ConnS | ConnW:         VariantTeeNSW,
	ConnE | ConnS | ConnW:         VariantTeeESW,
	ConnN | ConnE | ConnS | ConnW: VariantCross,
}

var sidesByVariant = [NumVariants]uint8{
	VariantIsolated:   0,
	VariantHorizontal: ConnE | ConnW,
	VariantVertical:   ConnN | ConnS,
	VariantCornerNE:   ConnN | ConnE,
	VariantCornerSE:   ConnE | ConnS,
	VariantCornerSW:   ConnS | ConnW,
	VariantCornerNW:   ConnN | ConnW,
	VariantTeeESW:     ConnE | ConnS | ConnW,
	VariantTeeNSW:     ConnN | ConnS | ConnW,
	VariantTeeNEW:     ConnN | ConnE | ConnW,
	VariantTeeNES:     ConnN | ConnE | ConnS,
	VariantCross:      ConnN | ConnE | ConnS | ConnW,
}

// VariantOf maps a 4-neighbor side mask to its connectivity variant.
// A dead end draws as the straight piece along its axis.
func VariantOf(sides uint8) uint8 {
	return variantBySides[sides&0x0f]
}

// SidesOf returns the sides drawn open by a connectivity variant.
func SidesOf(variant uint8) uint8 {
	if variant >= NumVariants {
		return 0
	}
	return sidesByVariant[variant]
}
