package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Field names a single wizard input.
type Field string

const (
	FieldExperience     Field = "experience"
	FieldTentSize       Field = "tentSize"
	FieldMedium         Field = "medium"
	FieldSoilBrand      Field = "soilBrand"
	FieldCustomSoil     Field = "customSoil"
	FieldCocoRatio      Field = "cocoRatio"
	FieldCustomCoco     Field = "customCoco"
	FieldHydroType      Field = "hydroType"
	FieldCustomHydro    Field = "customHydro"
	FieldPotType        Field = "potType"
	FieldPotSize        Field = "potSize"
	FieldPlantCount     Field = "plantCount"
	FieldNutrientLine   Field = "nutrientLine"
	FieldCustomNutrient Field = "customNutrient"
	FieldGaiaProducts   Field = "gaiaProducts"
	FieldSupplements    Field = "supplements"
	FieldPlantType      Field = "plantType"
	FieldStrainType     Field = "strainType"
)

// IsSet reports whether the field holds a non-zero value.
func (s Selections) IsSet(f Field) bool {
	switch f {
	case FieldPotSize:
		return s.PotSize > 0
	case FieldPlantCount:
		return s.PlantCount > 0
	case FieldGaiaProducts:
		return len(s.Nutrients.Products) > 0
	}
	v, ok := s.stringField(f)
	return ok && v != ""
}

func (s Selections) stringField(f Field) (string, bool) {
	switch f {
	case FieldExperience:
		return string(s.Experience), true
	case FieldTentSize:
		return string(s.TentSize), true
	case FieldMedium:
		return string(s.Medium), true
	case FieldSoilBrand:
		return s.MediumDetail.SoilBrand, true
	case FieldCustomSoil:
		return s.MediumDetail.CustomSoil, true
	case FieldCocoRatio:
		return s.MediumDetail.CocoRatio, true
	case FieldCustomCoco:
		return s.MediumDetail.CustomCoco, true
	case FieldHydroType:
		return s.MediumDetail.HydroType, true
	case FieldCustomHydro:
		return s.MediumDetail.CustomHydro, true
	case FieldPotType:
		return string(s.ContainerType), true
	case FieldNutrientLine:
		return s.Nutrients.Line, true
	case FieldCustomNutrient:
		return s.Nutrients.CustomLine, true
	case FieldSupplements:
		return s.Nutrients.Supplements, true
	case FieldPlantType:
		return string(s.PlantType), true
	case FieldStrainType:
		return string(s.StrainType), true
	}
	return "", false
}

// Set assigns a raw string value to a field. Enumerated fields reject values
// outside their domain; numeric fields must be positive integers; an empty
// value clears the field. The gaia product list takes a comma separated value.
func (s *Selections) Set(f Field, raw string) error {
	value := strings.TrimSpace(raw)
	switch f {
	case FieldExperience:
		if value != "" && !oneOf(value, ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced) {
			return invalid(f, raw)
		}
		s.Experience = ExperienceLevel(value)
	case FieldTentSize:
		if value == "" {
			s.TentSize = ""
			return nil
		}
		size, ok := ParseTentSize(value)
		if !ok {
			return invalid(f, raw)
		}
		s.TentSize = size
	case FieldMedium:
		if value != "" && !oneOf(value, MediumSoil, MediumCoco, MediumHydro) {
			return invalid(f, raw)
		}
		s.Medium = GrowingMedium(value)
	case FieldPotType:
		if value != "" && !oneOf(value, ContainerFabric, ContainerPlastic, ContainerAir, ContainerSmart, ContainerHydroNet, ContainerNursery) {
			return invalid(f, raw)
		}
		s.ContainerType = ContainerType(value)
	case FieldPlantType:
		if value != "" && !oneOf(value, PlantAuto, PlantPhoto) {
			return invalid(f, raw)
		}
		s.PlantType = PlantType(value)
	case FieldStrainType:
		if value != "" && !oneOf(value, StrainIndica, StrainSativa, StrainHybrid) {
			return invalid(f, raw)
		}
		s.StrainType = StrainType(value)
	case FieldPotSize, FieldPlantCount:
		n := 0
		if value != "" {
			parsed, err := strconv.Atoi(value)
			if err != nil || parsed <= 0 {
				return invalid(f, raw)
			}
			n = parsed
		}
		if f == FieldPotSize {
			s.PotSize = n
		} else {
			s.PlantCount = n
		}
	case FieldGaiaProducts:
		s.Nutrients.Products = nil
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				s.Nutrients.Products = append(s.Nutrients.Products, p)
			}
		}
	case FieldSoilBrand:
		s.MediumDetail.SoilBrand = value
	case FieldCustomSoil:
		s.MediumDetail.CustomSoil = value
	case FieldCocoRatio:
		s.MediumDetail.CocoRatio = value
	case FieldCustomCoco:
		s.MediumDetail.CustomCoco = value
	case FieldHydroType:
		s.MediumDetail.HydroType = value
	case FieldCustomHydro:
		s.MediumDetail.CustomHydro = value
	case FieldNutrientLine:
		s.Nutrients.Line = value
	case FieldCustomNutrient:
		s.Nutrients.CustomLine = value
	case FieldSupplements:
		s.Nutrients.Supplements = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	return nil
}

func oneOf[T ~string](value string, allowed ...T) bool {
	for _, a := range allowed {
		if string(a) == value {
			return true
		}
	}
	return false
}

func invalid(f Field, raw string) error {
	return fmt.Errorf("%w: %s=%q", ErrInvalidValue, f, raw)
}
