package city

import (
	"fmt"
	"strings"

	"micro-city/internal/tiles"
)

// BuildingType is the closed set of building kinds.
type BuildingType uint8

const (
	None BuildingType = iota
	Residential
	Commercial
	Industrial
	Powerplant
	Park
	PoliceDept
	FireDept
	Stadium

	NumBuildingTypes
)

const (
	// MaxBuildings is the number of building slots in a city.
	MaxBuildings = 130

	// MaxPopulationDensity is the density ceiling of zoned buildings.
	MaxPopulationDensity = 15
)

// BuildingInfo is the static metadata of a building type.
type BuildingInfo struct {
	Name     string
	Width    uint8
	Height   uint8
	DrawTile uint8
	Cost     uint16
}

var buildingInfo = [NumBuildingTypes]BuildingInfo{
	None:        {Name: "none"},
	Residential: {Name: "residential", Width: 3, Height: 3, DrawTile: tiles.ResidentialTile, Cost: 100},
	Commercial:  {Name: "commercial", Width: 3, Height: 3, DrawTile: tiles.CommercialTile, Cost: 100},
	Industrial:  {Name: "industrial", Width: 3, Height: 3, DrawTile: tiles.IndustrialTile, Cost: 100},
	Powerplant:  {Name: "powerplant", Width: 4, Height: 4, DrawTile: tiles.PowerplantTile, Cost: 3000},
	Park:        {Name: "park", Width: 3, Height: 3, DrawTile: tiles.ParkTile, Cost: 50},
	PoliceDept:  {Name: "police", Width: 3, Height: 3, DrawTile: tiles.PoliceTile, Cost: 500},
	FireDept:    {Name: "fire", Width: 3, Height: 3, DrawTile: tiles.FireTile, Cost: 500},
	Stadium:     {Name: "stadium", Width: 4, Height: 4, DrawTile: tiles.StadiumTile, Cost: 3000},
}

// Info returns the metadata for t. Unknown types read as None.
func Info(t BuildingType) BuildingInfo {
	if t >= NumBuildingTypes {
		return buildingInfo[None]
	}
	return buildingInfo[t]
}

func (t BuildingType) String() string {
	return Info(t).Name
}

// Zoned reports whether the type grows with population (R, C and I zones).
func (t BuildingType) Zoned() bool {
	return t == Residential || t == Commercial || t == Industrial
}

// NeedsPower reports whether the type shows an outage when unpowered.
func (t BuildingType) NeedsPower() bool {
	return t != None && t != Park && t < NumBuildingTypes
}

// ParseBuildingType resolves a type by its name.
func ParseBuildingType(name string) (BuildingType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t := Residential; t < NumBuildingTypes; t++ {
		if buildingInfo[t].Name == name {
			return t, nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// Building is one occupied building slot, anchored at its top-left cell.
type Building struct {
	Type              BuildingType
	X, Y              int
	PopulationDensity uint8
	HasPower          bool
	HeavyTraffic      bool
}

// Size returns the footprint of the building in cells.
func (b Building) Size() (int, int) {
	info := Info(b.Type)
	return int(info.Width), int(info.Height)
}

// Contains reports whether cell (x,y) lies inside the footprint.
func (b Building) Contains(x, y int) bool {
	if b.Type == None {
		return false
	}
	w, h := b.Size()
	return x >= b.X && y >= b.Y && x < b.X+w && y < b.Y+h
}

// overlaps reports whether the footprints of a and b share a cell.
func (b Building) overlaps(o Building) bool {
	bw, bh := b.Size()
	ow, oh := o.Size()
	return b.X < o.X+ow && o.X < b.X+bw && b.Y < o.Y+oh && o.Y < b.Y+bh
}
