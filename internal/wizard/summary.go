package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"growcore/pkg/domain"
)

// SummaryRow is one labelled line of the review screen.
type SummaryRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Summarize renders the selections the way the review step lists them.
func Summarize(sel domain.Selections) []SummaryRow {
	return []SummaryRow{
		{Label: "Experience Level", Value: Label(domain.FieldExperience, string(sel.Experience))},
		{Label: "Tent Size", Value: strings.ToUpper(string(sel.TentSize))},
		{Label: "Growing Medium", Value: MediumDetailLabel(sel)},
		{Label: "Container Type", Value: Label(domain.FieldPotType, string(sel.ContainerType))},
		{Label: "Pot Size", Value: fmt.Sprintf("%d gallons", sel.PotSize)},
		{Label: "Number of Plants", Value: strconv.Itoa(sel.PlantCount)},
		{Label: "Nutrient Line", Value: NutrientLineLabel(sel)},
		{Label: "Plant Type", Value: Label(domain.FieldPlantType, string(sel.PlantType))},
		{Label: "Strain Type", Value: Label(domain.FieldStrainType, string(sel.StrainType))},
	}
}

// MediumDetailLabel is the medium name followed by its detail in parentheses,
// substituting the free-text value for "custom" choices.
func MediumDetailLabel(sel domain.Selections) string {
	base := Label(domain.FieldMedium, string(sel.Medium))
	d := sel.MediumDetail
	var detail string
	switch sel.Medium {
	case domain.MediumSoil:
		if d.SoilBrand == "" {
			return base
		}
		detail = customOr(d.SoilBrand, d.CustomSoil, d.SoilBrand)
	case domain.MediumCoco:
		if d.CocoRatio == "" {
			return base
		}
		detail = customOr(d.CocoRatio, d.CustomCoco, strings.Replace(d.CocoRatio, "-", "% Coco / ", 1)+"% Perlite")
	case domain.MediumHydro:
		if d.HydroType == "" {
			return base
		}
		detail = customOr(d.HydroType, d.CustomHydro, strings.ToUpper(d.HydroType))
	default:
		return base
	}
	return fmt.Sprintf("%s (%s)", base, detail)
}

// NutrientLineLabel title-cases the line id, replacing only its first hyphen,
// and counts selected Gaia Green products.
func NutrientLineLabel(sel domain.Selections) string {
	n := sel.Nutrients
	if n.Line == "" {
		return "Not specified"
	}
	if n.Line == domain.CustomToken {
		return n.CustomLine
	}
	label := TitleWords(strings.Replace(n.Line, "-", " ", 1))
	if n.Line == domain.NutrientGaiaGreen && len(n.Products) > 0 {
		label += fmt.Sprintf(" (%d products selected)", len(n.Products))
	}
	return label
}

func customOr(choice, custom, fallback string) string {
	if choice == domain.CustomToken {
		return custom
	}
	return fallback
}

// TitleWords upper-cases the first letter of every word, where a word starts
// after any character that is not a letter, digit or underscore.
func TitleWords(s string) string {
	b := []byte(s)
	prevWord := false
	for i, c := range b {
		isWord := c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if isWord && !prevWord && c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
		prevWord = isWord
	}
	return string(b)
}

// BuildReview computes the review step payload.
func BuildReview(sel domain.Selections) (Review, error) {
	budget, err := EstimateBudget(sel)
	if err != nil {
		return Review{}, err
	}
	return Review{Summary: Summarize(sel), Budget: budget}, nil
}
