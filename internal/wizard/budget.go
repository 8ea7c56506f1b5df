package wizard

import (
	"errors"
	"fmt"

	"growcore/pkg/domain"
)

// ErrIncomplete is returned when a computation needs selections that are unset.
var ErrIncomplete = errors.New("wizard: selections incomplete")

// Budget is an inclusive dollar range.
type Budget struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// String formats the range as shown on the review step.
func (b Budget) String() string {
	return fmt.Sprintf("$%d - $%d", b.Min, b.Max)
}

type costRange [2]int

var (
	tentCosts = map[domain.TentSize]costRange{
		domain.Tent2x2: {80, 150},
		domain.Tent3x3: {120, 220},
		domain.Tent4x4: {150, 300},
		domain.Tent5x5: {200, 400},
	}
	lightCosts = map[domain.TentSize]costRange{
		domain.Tent2x2: {100, 200},
		domain.Tent3x3: {150, 300},
		domain.Tent4x4: {200, 450},
		domain.Tent5x5: {300, 600},
	}
	mediumCosts = map[domain.GrowingMedium]costRange{
		domain.MediumSoil:  {30, 80},
		domain.MediumCoco:  {40, 100},
		domain.MediumHydro: {150, 400},
	}
	// ventilation, fans and miscellaneous
	fixedCosts = costRange{150, 350}
	// pots and nutrients, per plant
	perPlantCosts = costRange{20, 50}
)

// BudgetLine is one itemised cost range.
type BudgetLine struct {
	Item string `json:"item"`
	Min  int    `json:"min"`
	Max  int    `json:"max"`
}

// Itemize breaks the estimate into its equipment lines.
func Itemize(sel domain.Selections) ([]BudgetLine, error) {
	tent, ok := tentCosts[sel.TentSize]
	if !ok {
		return nil, fmt.Errorf("%w: tent size", ErrIncomplete)
	}
	medium, ok := mediumCosts[sel.Medium]
	if !ok {
		return nil, fmt.Errorf("%w: medium", ErrIncomplete)
	}
	light := lightCosts[sel.TentSize]
	return []BudgetLine{
		{Item: "Grow tent", Min: tent[0], Max: tent[1]},
		{Item: "LED grow light", Min: light[0], Max: light[1]},
		{Item: "Growing medium", Min: medium[0], Max: medium[1]},
		{Item: "Ventilation, fans and supplies", Min: fixedCosts[0], Max: fixedCosts[1]},
		{Item: "Pots and nutrients", Min: sel.PlantCount * perPlantCosts[0], Max: sel.PlantCount * perPlantCosts[1]},
	}, nil
}

// EstimateBudget sums the equipment ranges for the selections.
func EstimateBudget(sel domain.Selections) (Budget, error) {
	lines, err := Itemize(sel)
	if err != nil {
		return Budget{}, err
	}
	var b Budget
	for _, l := range lines {
		b.Min += l.Min
		b.Max += l.Max
	}
	return b, nil
}
