package core

import (
	"context"
	"fmt"

	"growcore/pkg/domain"
)

// DefaultPotGallons is assumed when the pot size is not chosen yet.
const DefaultPotGallons = 5

// NewTentCapacityRule blocks plant counts above the tent's static capacity.
func NewTentCapacityRule() domain.Rule {
	return tentCapacityRule{}
}

type tentCapacityRule struct{}

func (tentCapacityRule) Name() string { return "tent_capacity" }

func (r tentCapacityRule) Evaluate(_ context.Context, view domain.RuleView) (domain.Result, error) {
	sel := view.Selections()
	capacity, ok := view.Capacity()
	if !ok || sel.PlantCount <= capacity.MaxPlants {
		return domain.Result{}, nil
	}
	return domain.Result{Violations: []domain.Violation{{
		Rule:     r.Name(),
		Severity: domain.SeverityBlock,
		Title:    "Too many plants!",
		Message: fmt.Sprintf("Your %s tent can fit a maximum of %d plants with %d-gallon pots. We recommend %d plants for optimal growth.",
			sel.TentSize, capacity.MaxPlants, potGallons(sel), capacity.RecommendedPlants),
		Field: domain.FieldPlantCount,
	}}}, nil
}

func potGallons(sel domain.Selections) int {
	if sel.PotSize > 0 {
		return sel.PotSize
	}
	return DefaultPotGallons
}
