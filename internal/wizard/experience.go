package wizard

import (
	"fmt"

	"growcore/pkg/domain"
)

// Recommended medium details applied for less experienced growers.
const (
	RecommendedSoilBrand = "fox-farm-ocean"
	RecommendedCocoRatio = "70-30"
)

// EssentialGaiaProducts is the reduced product set offered to beginners.
var EssentialGaiaProducts = []string{"all-purpose-444", "power-bloom-284", "mykos"}

var beginnerPotSizes = map[domain.TentSize]int{
	domain.Tent2x2: 3,
	domain.Tent3x3: 5,
	domain.Tent4x4: 5,
}

var stepDescriptions = map[domain.ExperienceLevel]map[int]string{
	domain.ExperienceBeginner: {
		2: "Don't worry - we'll recommend the right size for you. Start small for your first grow!",
		3: "Soil is the most forgiving option for beginners. We'll set you up with proven choices.",
		4: "We'll help you pick containers that make watering and maintenance easy.",
		5: "Less is more for beginners - we'll help you avoid overcrowding.",
		6: "Simple, effective nutrients that won't overwhelm you. We've picked the essentials.",
		7: "These choices affect timing and plant size - we'll explain everything.",
	},
	domain.ExperienceIntermediate: {
		2: "You know the basics - choose based on your space and plant goals.",
		3: "Consider your experience with each medium. Coco offers faster growth with more control.",
		4: "Fabric pots provide better drainage and root health for your intermediate grow.",
		5: "Balance plant count with your available time for training and maintenance.",
		6: "You can handle more complex feeding schedules. Pick what matches your medium.",
		7: "Consider your light schedule preference and desired plant structure.",
	},
	domain.ExperienceAdvanced: {
		2: "Maximize your space efficiency and yield per square foot.",
		3: "Full control over your growing environment. Dial in your preferred medium and ratios.",
		4: "Optimize container type and size for your specific training techniques.",
		5: "Plan your canopy management strategy based on your training methods.",
		6: "Build a custom nutrient program tailored to your specific cultivar needs.",
		7: "Select genetics that complement your advanced training and environmental control.",
	},
}

// StepDescription returns the experience-specific blurb for steps 2 to 7.
func StepDescription(level domain.ExperienceLevel, step int) string {
	return stepDescriptions[level][step]
}

// RecommendedPotSize is the beginner pot size for a tent, if one is defined.
func RecommendedPotSize(size domain.TentSize) (int, bool) {
	n, ok := beginnerPotSizes[size]
	return n, ok
}

// PotSizeTip advises beginners whose pot size differs from the
// recommendation for their tent.
func PotSizeTip(sel domain.Selections) (Message, bool) {
	if sel.Experience != domain.ExperienceBeginner || sel.PotSize == 0 {
		return Message{}, false
	}
	rec, ok := RecommendedPotSize(sel.TentSize)
	if !ok || rec == sel.PotSize {
		return Message{}, false
	}
	return Message{
		Kind:  KindInfo,
		Title: "Beginner Tip",
		Text:  fmt.Sprintf("For your %s tent, we recommend %d-gallon pots for easier management and better results.", sel.TentSize, rec),
	}, true
}

var hydroForBeginners = Message{
	Kind:     KindWarning,
	Text:     "Note: Hydroponics can be challenging for beginners. Consider starting with soil or coco coir for your first grow.",
	Blocking: true,
}

var gaiaBeginnerNote = Message{
	Kind:  KindInfo,
	Title: "Beginner Setup",
	Text:  "We've selected the essential products you need. These three will cover all your bases for a successful first grow!",
}

// applySelectionEffects runs after a field changes and returns the adjusted
// selections plus any prompts to show.
func applySelectionEffects(sel domain.Selections, field domain.Field) (domain.Selections, []Message) {
	var notices []Message
	switch field {
	case domain.FieldMedium:
		if sel.Medium == domain.MediumHydro && sel.Experience == domain.ExperienceBeginner {
			notices = append(notices, hydroForBeginners)
		}
		sel = biasMediumDetail(sel)
	case domain.FieldPotSize:
		if tip, ok := PotSizeTip(sel); ok {
			notices = append(notices, tip)
		}
	case domain.FieldNutrientLine, domain.FieldGaiaProducts:
		sel = limitNutrients(sel)
		if field == domain.FieldNutrientLine && sel.Experience == domain.ExperienceBeginner && sel.Nutrients.Line == domain.NutrientGaiaGreen {
			notices = append(notices, gaiaBeginnerNote)
		}
	case domain.FieldSupplements:
		sel = limitNutrients(sel)
	}
	return sel, notices
}

func biasMediumDetail(sel domain.Selections) domain.Selections {
	switch sel.Experience {
	case domain.ExperienceBeginner:
		switch sel.Medium {
		case domain.MediumSoil:
			sel.MediumDetail.SoilBrand = RecommendedSoilBrand
		case domain.MediumCoco:
			sel.MediumDetail.CocoRatio = RecommendedCocoRatio
		}
	case domain.ExperienceIntermediate:
		if sel.Medium == domain.MediumCoco && sel.MediumDetail.CocoRatio == "" {
			sel.MediumDetail.CocoRatio = RecommendedCocoRatio
		}
	}
	return sel
}

// limitNutrients enforces the beginner nutrient view: only the essential
// Gaia Green products and no supplements.
func limitNutrients(sel domain.Selections) domain.Selections {
	if sel.Experience != domain.ExperienceBeginner {
		return sel
	}
	sel.Nutrients.Supplements = ""
	if sel.Nutrients.Line != domain.NutrientGaiaGreen {
		return sel
	}
	if len(sel.Nutrients.Products) == 0 {
		sel.Nutrients.Products = append([]string(nil), EssentialGaiaProducts...)
		return sel
	}
	kept := sel.Nutrients.Products[:0:0]
	for _, p := range sel.Nutrients.Products {
		if isEssential(p) {
			kept = append(kept, p)
		}
	}
	sel.Nutrients.Products = kept
	return sel
}

func isEssential(product string) bool {
	for _, e := range EssentialGaiaProducts {
		if e == product {
			return true
		}
	}
	return false
}

func defaultContainer(sel domain.Selections) domain.Selections {
	if sel.Experience == domain.ExperienceBeginner && sel.ContainerType == "" {
		sel.ContainerType = domain.ContainerFabric
	}
	return sel
}

func defaultNutrients(sel domain.Selections) domain.Selections {
	if sel.Experience == domain.ExperienceBeginner && sel.Nutrients.Line == "" {
		sel.Nutrients.Line = domain.NutrientGaiaGreen
	}
	return limitNutrients(sel)
}
