package domain

import (
	"strconv"
	"strings"
)

// ExperienceLevel captures how much growing experience the visitor reports.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

// TentSize identifies a square tent footprint in feet.
type TentSize string

const (
	Tent2x2 TentSize = "2x2"
	Tent3x3 TentSize = "3x3"
	Tent4x4 TentSize = "4x4"
	Tent5x5 TentSize = "5x5"
)

// TentSizes lists the supported footprints from smallest to largest.
var TentSizes = []TentSize{Tent2x2, Tent3x3, Tent4x4, Tent5x5}

// Side returns the edge length in feet parsed from the leading digits of the
// size token, or 0 when the size is unset or malformed.
func (t TentSize) Side() int {
	raw := string(t)
	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(raw[:end])
	if err != nil {
		return 0
	}
	return n
}

// Area returns the floor area in square feet.
func (t TentSize) Area() int {
	side := t.Side()
	return side * side
}

// GrowingMedium is the substrate the plants grow in.
type GrowingMedium string

const (
	MediumSoil  GrowingMedium = "soil"
	MediumCoco  GrowingMedium = "coco"
	MediumHydro GrowingMedium = "hydro"
)

// ContainerType is the pot style.
type ContainerType string

const (
	ContainerFabric   ContainerType = "fabric"
	ContainerPlastic  ContainerType = "plastic"
	ContainerAir      ContainerType = "air"
	ContainerSmart    ContainerType = "smart"
	ContainerHydroNet ContainerType = "hydro-net"
	ContainerNursery  ContainerType = "nursery"
)

// PlantType distinguishes autoflowering from photoperiod genetics.
type PlantType string

const (
	PlantAuto  PlantType = "auto"
	PlantPhoto PlantType = "photo"
)

// StrainType is the genetic family.
type StrainType string

const (
	StrainIndica StrainType = "indica"
	StrainSativa StrainType = "sativa"
	StrainHybrid StrainType = "hybrid"
)

// CustomToken marks an enumerated choice whose display value comes from the
// paired free-text field.
const CustomToken = "custom"

// Nutrient line identifiers referenced by wizard defaults and guide copy.
const (
	NutrientGaiaGreen = "gaia-green"
)

// MediumDetail holds the medium-specific sub-choice plus free-text overrides.
type MediumDetail struct {
	SoilBrand   string `json:"soilBrand,omitempty"`
	CustomSoil  string `json:"customSoil,omitempty"`
	CocoRatio   string `json:"cocoRatio,omitempty"`
	CustomCoco  string `json:"customCoco,omitempty"`
	HydroType   string `json:"hydroType,omitempty"`
	CustomHydro string `json:"customHydro,omitempty"`
}

// Nutrients describes the chosen feeding program.
type Nutrients struct {
	Line        string   `json:"line,omitempty"`
	CustomLine  string   `json:"customNutrient,omitempty"`
	Products    []string `json:"gaiaProducts,omitempty"`
	Supplements string   `json:"supplements,omitempty"`
}

// Selections accumulates every wizard answer. Zero values mean "unset".
type Selections struct {
	Experience    ExperienceLevel `json:"experience,omitempty"`
	TentSize      TentSize        `json:"tentSize,omitempty"`
	Medium        GrowingMedium   `json:"medium,omitempty"`
	MediumDetail  MediumDetail    `json:"mediumDetails"`
	ContainerType ContainerType   `json:"potType,omitempty"`
	PotSize       int             `json:"potSize,omitempty"`
	PlantCount    int             `json:"plantCount,omitempty"`
	Nutrients     Nutrients       `json:"nutrients"`
	PlantType     PlantType       `json:"plantType,omitempty"`
	StrainType    StrainType      `json:"strainType,omitempty"`
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (s Selections) Clone() Selections {
	dup := s
	if s.Nutrients.Products != nil {
		dup.Nutrients.Products = append([]string(nil), s.Nutrients.Products...)
	}
	return dup
}

// Capacity bounds the number of plants a tent can hold.
type Capacity struct {
	MaxPlants         int `json:"maxPlants"`
	RecommendedPlants int `json:"recommended"`
}

var tentCapacity = map[TentSize]Capacity{
	Tent2x2: {MaxPlants: 2, RecommendedPlants: 1},
	Tent3x3: {MaxPlants: 4, RecommendedPlants: 3},
	Tent4x4: {MaxPlants: 6, RecommendedPlants: 4},
	Tent5x5: {MaxPlants: 9, RecommendedPlants: 6},
}

// TentCapacity returns the static capacity entry for a tent size.
func TentCapacity(size TentSize) (Capacity, bool) {
	c, ok := tentCapacity[size]
	return c, ok
}

// ParseTentSize normalises user input such as "4X4".
func ParseTentSize(raw string) (TentSize, bool) {
	size := TentSize(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := tentCapacity[size]
	return size, ok
}
