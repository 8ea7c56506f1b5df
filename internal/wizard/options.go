package wizard

import "growcore/pkg/domain"

// Option is one selectable value for a field.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Group string `json:"group,omitempty"`
	Badge string `json:"badge,omitempty"`
}

// Nutrient option groups.
const (
	GroupOrganic   = "Organic"
	GroupSynthetic = "Synthetic/Mineral"
)

var catalog = map[domain.Field][]Option{
	domain.FieldExperience: {
		{Value: string(domain.ExperienceBeginner), Label: "Beginner"},
		{Value: string(domain.ExperienceIntermediate), Label: "Intermediate"},
		{Value: string(domain.ExperienceAdvanced), Label: "Advanced"},
	},
	domain.FieldTentSize: {
		{Value: string(domain.Tent2x2), Label: "2x2"},
		{Value: string(domain.Tent3x3), Label: "3x3"},
		{Value: string(domain.Tent4x4), Label: "4x4"},
		{Value: string(domain.Tent5x5), Label: "5x5"},
	},
	domain.FieldMedium: {
		{Value: string(domain.MediumSoil), Label: "Soil"},
		{Value: string(domain.MediumCoco), Label: "Coco Coir"},
		{Value: string(domain.MediumHydro), Label: "Hydroponics"},
	},
	domain.FieldSoilBrand: {
		{Value: "fox-farm-ocean", Label: "Fox Farm Ocean Forest"},
		{Value: "roots-organics", Label: "Roots Organics Original"},
		{Value: "coast-of-maine", Label: "Coast of Maine Stonington Blend"},
		{Value: "buildasoil", Label: "BuildASoil 3.0"},
		{Value: domain.CustomToken, Label: "Other"},
	},
	domain.FieldCocoRatio: {
		{Value: "70-30", Label: "70% Coco / 30% Perlite"},
		{Value: "60-40", Label: "60% Coco / 40% Perlite"},
		{Value: "50-50", Label: "50% Coco / 50% Perlite"},
		{Value: domain.CustomToken, Label: "Other"},
	},
	domain.FieldHydroType: {
		{Value: "dwc", Label: "Deep Water Culture"},
		{Value: "ebb-flow", Label: "Ebb & Flow"},
		{Value: "drip", Label: "Drip"},
		{Value: "nft", Label: "Nutrient Film Technique"},
		{Value: "aeroponic", Label: "Aeroponics"},
		{Value: domain.CustomToken, Label: "Other"},
	},
	domain.FieldPotType: {
		{Value: string(domain.ContainerFabric), Label: "Fabric Pots"},
		{Value: string(domain.ContainerPlastic), Label: "Plastic Pots"},
		{Value: string(domain.ContainerAir), Label: "Air Pots"},
		{Value: string(domain.ContainerSmart), Label: "Smart Pots"},
		{Value: string(domain.ContainerHydroNet), Label: "Net Pots"},
		{Value: string(domain.ContainerNursery), Label: "Nursery Pots"},
	},
	domain.FieldPotSize: {
		{Value: "1", Label: "1 gallon"},
		{Value: "3", Label: "3 gallons"},
		{Value: "5", Label: "5 gallons"},
		{Value: "7", Label: "7 gallons"},
		{Value: "10", Label: "10 gallons"},
	},
	domain.FieldNutrientLine: {
		{Value: domain.NutrientGaiaGreen, Label: "Gaia Green", Group: GroupOrganic},
		{Value: "down-to-earth", Label: "Down To Earth", Group: GroupOrganic},
		{Value: "biobizz", Label: "BioBizz", Group: GroupOrganic},
		{Value: "general-hydroponics", Label: "General Hydroponics", Group: GroupSynthetic},
		{Value: "advanced-nutrients", Label: "Advanced Nutrients", Group: GroupSynthetic},
		{Value: "fox-farm-trio", Label: "Fox Farm Trio", Group: GroupSynthetic},
		{Value: domain.CustomToken, Label: "Other"},
	},
	domain.FieldGaiaProducts: {
		{Value: "all-purpose-444", Label: "All Purpose 4-4-4"},
		{Value: "power-bloom-284", Label: "Power Bloom 2-8-4"},
		{Value: "mykos", Label: "Mykos"},
		{Value: "glacial-rock-dust", Label: "Glacial Rock Dust"},
		{Value: "kelp-meal", Label: "Kelp Meal"},
		{Value: "insect-frass", Label: "Insect Frass"},
	},
	domain.FieldPlantType: {
		{Value: string(domain.PlantAuto), Label: "Autoflower"},
		{Value: string(domain.PlantPhoto), Label: "Photoperiod"},
	},
	domain.FieldStrainType: {
		{Value: string(domain.StrainIndica), Label: "Indica"},
		{Value: string(domain.StrainSativa), Label: "Sativa"},
		{Value: string(domain.StrainHybrid), Label: "Hybrid"},
	},
}

// hidden lists option values removed from a field for an experience level.
var hidden = map[domain.ExperienceLevel]map[domain.Field][]string{
	domain.ExperienceBeginner: {
		domain.FieldTentSize: {string(domain.Tent5x5)},
		domain.FieldPotType:  {string(domain.ContainerAir), string(domain.ContainerHydroNet)},
	},
	domain.ExperienceIntermediate: {
		domain.FieldSoilBrand: {"buildasoil"},
		domain.FieldHydroType: {"aeroponic", "nft"},
	},
}

// Options returns the choices visible for field at the given experience.
func Options(level domain.ExperienceLevel, field domain.Field) []Option {
	if !Visible(level, field) {
		return nil
	}
	drop := make(map[string]bool)
	for _, v := range hidden[level][field] {
		drop[v] = true
	}
	var out []Option
	for _, opt := range catalog[field] {
		if drop[opt.Value] {
			continue
		}
		if level == domain.ExperienceBeginner {
			if field == domain.FieldNutrientLine && opt.Group == GroupSynthetic {
				continue
			}
			if field == domain.FieldGaiaProducts && !isEssential(opt.Value) {
				continue
			}
			if field == domain.FieldMedium && opt.Value == string(domain.MediumHydro) {
				opt.Badge = "Not Recommended"
			}
		}
		out = append(out, opt)
	}
	return out
}

// Visible reports whether an input is offered at this experience. Beginners
// get medium details picked for them and never see supplements.
func Visible(level domain.ExperienceLevel, field domain.Field) bool {
	if level != domain.ExperienceBeginner {
		return true
	}
	switch field {
	case domain.FieldSoilBrand, domain.FieldCustomSoil,
		domain.FieldCocoRatio, domain.FieldCustomCoco,
		domain.FieldHydroType, domain.FieldCustomHydro,
		domain.FieldSupplements:
		return false
	}
	return true
}

// Label looks up the display label of a value, or returns "" when unknown.
func Label(field domain.Field, value string) string {
	for _, opt := range catalog[field] {
		if opt.Value == value {
			return opt.Label
		}
	}
	return ""
}
