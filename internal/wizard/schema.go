package wizard

import (
	"context"

	"growcore/pkg/domain"
)

// StepDef declares one step: the fields it needs, an optional validator run
// before leaving it and an optional hook run when it is entered.
type StepDef struct {
	ID       string
	Name     string
	Required []domain.Field
	Validate func(ctx context.Context, rules Evaluator, sel domain.Selections) (domain.Result, error)
	OnEnter  func(sel domain.Selections) domain.Selections
}

// Missing lists required fields that are still unset.
func (d StepDef) Missing(sel domain.Selections) []domain.Field {
	var missing []domain.Field
	for _, f := range d.Required {
		if !sel.IsSet(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// DefaultSchema returns the builder's steps in order.
func DefaultSchema() []StepDef {
	return []StepDef{
		{ID: "experience", Name: "Experience Level", Required: []domain.Field{domain.FieldExperience}},
		{ID: "tent", Name: "Tent Size", Required: []domain.Field{domain.FieldTentSize}},
		{ID: "medium", Name: "Growing Medium", Required: []domain.Field{domain.FieldMedium}},
		{
			ID:       "containers",
			Name:     "Containers",
			Required: []domain.Field{domain.FieldPotType, domain.FieldPotSize},
			OnEnter:  defaultContainer,
		},
		{
			ID:       "plants",
			Name:     "Plant Count",
			Required: []domain.Field{domain.FieldPlantCount},
			Validate: validateSpace,
		},
		{
			ID:       "nutrients",
			Name:     "Nutrients",
			Required: []domain.Field{domain.FieldNutrientLine},
			OnEnter:  defaultNutrients,
		},
		{ID: "genetics", Name: "Genetics", Required: []domain.Field{domain.FieldPlantType, domain.FieldStrainType}},
		{ID: "review", Name: "Review"},
	}
}

func validateSpace(ctx context.Context, rules Evaluator, sel domain.Selections) (domain.Result, error) {
	if rules == nil {
		return domain.Result{}, nil
	}
	return rules.Evaluate(ctx, domain.NewSelectionView(sel))
}
