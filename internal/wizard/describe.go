package wizard

import "growcore/pkg/domain"

// FieldView describes one input of a step for rendering.
type FieldView struct {
	Field    domain.Field `json:"field"`
	Required bool         `json:"required"`
	Options  []Option     `json:"options,omitempty"`
}

// StepView is the serializable form of a StepDef.
type StepView struct {
	Number      int         `json:"number"`
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Fields      []FieldView `json:"fields,omitempty"`
	Validated   bool        `json:"validated,omitempty"`
}

var stepFields = map[string][]domain.Field{
	"experience": {domain.FieldExperience},
	"tent":       {domain.FieldTentSize},
	"medium": {
		domain.FieldMedium, domain.FieldSoilBrand, domain.FieldCustomSoil,
		domain.FieldCocoRatio, domain.FieldCustomCoco, domain.FieldHydroType, domain.FieldCustomHydro,
	},
	"containers": {domain.FieldPotType, domain.FieldPotSize},
	"plants":     {domain.FieldPlantCount},
	"nutrients": {
		domain.FieldNutrientLine, domain.FieldCustomNutrient, domain.FieldGaiaProducts, domain.FieldSupplements,
	},
	"genetics": {domain.FieldPlantType, domain.FieldStrainType},
}

// Describe renders the schema with the options visible at level.
func (m *Machine) Describe(level domain.ExperienceLevel) []StepView {
	views := make([]StepView, 0, len(m.schema))
	for i, def := range m.schema {
		required := make(map[domain.Field]bool, len(def.Required))
		for _, f := range def.Required {
			required[f] = true
		}
		fields := stepFields[def.ID]
		if len(fields) == 0 {
			fields = def.Required
		}
		view := StepView{
			Number:      i + 1,
			ID:          def.ID,
			Name:        def.Name,
			Description: StepDescription(level, i+1),
			Validated:   def.Validate != nil,
		}
		for _, f := range fields {
			if !Visible(level, f) {
				continue
			}
			view.Fields = append(view.Fields, FieldView{Field: f, Required: required[f], Options: Options(level, f)})
		}
		views = append(views, view)
	}
	return views
}
