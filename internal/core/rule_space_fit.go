package core

import (
	"context"
	"fmt"

	"growcore/pkg/domain"
)

// Canopy share each plant needs, in square feet, and the fraction of the
// tent floor that may be planted before it counts as crowded.
const (
	largePotSpace  = 1.5
	smallPotSpace  = 1.0
	largePotCutoff = 5
	usableFraction = 0.8
)

// NewSpaceFitRule grades plant density within capacity: crowded setups warn,
// comfortable ones log a positive finding. Without a tent size it blocks and
// points back to the tent step.
func NewSpaceFitRule() domain.Rule {
	return spaceFitRule{}
}

type spaceFitRule struct{}

func (spaceFitRule) Name() string { return "space_fit" }

func (r spaceFitRule) Evaluate(_ context.Context, view domain.RuleView) (domain.Result, error) {
	sel := view.Selections()
	capacity, ok := view.Capacity()
	if !ok {
		return domain.Result{Violations: []domain.Violation{{
			Rule:     r.Name(),
			Severity: domain.SeverityBlock,
			Title:    "Please select a tent size first",
			Message:  "Choose a tent size before planning your plant count.",
			Field:    domain.FieldTentSize,
		}}}, nil
	}
	if sel.PlantCount <= 0 || sel.PlantCount > capacity.MaxPlants {
		return domain.Result{}, nil
	}

	pot := potGallons(sel)
	perPlant := smallPotSpace
	if pot >= largePotCutoff {
		perPlant = largePotSpace
	}
	required := float64(sel.PlantCount) * perPlant
	available := float64(sel.TentSize.Area()) * usableFraction
	if required > available {
		return domain.Result{Violations: []domain.Violation{{
			Rule:     r.Name(),
			Severity: domain.SeverityWarn,
			Title:    "Tight fit!",
			Message:  "This setup will work but plants may be crowded. Consider reducing plant count or pot size for better results.",
			Field:    domain.FieldPlantCount,
		}}}, nil
	}
	return domain.Result{Violations: []domain.Violation{{
		Rule:     r.Name(),
		Severity: domain.SeverityLog,
		Title:    "Perfect fit!",
		Message: fmt.Sprintf("Your %d plants in %d-gallon pots will have plenty of room to thrive in your %s tent.",
			sel.PlantCount, pot, sel.TentSize),
		Field: domain.FieldPlantCount,
	}}}, nil
}
