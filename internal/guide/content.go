// Package guide derives the personalised setup guide from completed builder
// selections and renders it as PDF, XLSX or JSON.
package guide

import (
	"fmt"
	"strings"
	"time"

	"growcore/internal/wizard"
	"growcore/pkg/domain"
)

// Document titles and footer lines.
const (
	Title        = "Custom Grow Tent Setup Guide"
	Subtitle     = "Your personalized growing plan"
	FooterTitle  = "Happy Growing!"
	FooterByline = "Generated by Borough Botanicals Tent Builder"
	baseFileName = "borough-botanicals-grow-guide"
)

// Row is one labelled summary line.
type Row struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Instruction is one numbered setup step.
type Instruction struct {
	Step        string `json:"step"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Guide is the complete, render-independent guide content.
type Guide struct {
	Generated    time.Time              `json:"generated"`
	Experience   domain.ExperienceLevel `json:"experience"`
	Summary      []Row                  `json:"summary"`
	Checklist    []string               `json:"checklist"`
	Instructions []Instruction          `json:"instructions"`
	TipsHeading  string                 `json:"tipsHeading"`
	Tips         []string               `json:"tips"`
	Budget       wizard.Budget          `json:"budget"`
	BudgetLines  []wizard.BudgetLine    `json:"budgetLines"`
}

// GeneratedLabel is the header date line, e.g. "Generated: March 4, 2025".
func (g Guide) GeneratedLabel() string {
	return "Generated: " + g.Generated.Format("January 2, 2006")
}

// BadgeLabel is the capitalised experience level.
func (g Guide) BadgeLabel() string {
	return capitalize(string(g.Experience))
}

var wattages = map[domain.TentSize]string{
	domain.Tent2x2: "100-150",
	domain.Tent3x3: "200-300",
	domain.Tent4x4: "400-600",
	domain.Tent5x5: "600-800",
}

var potLabels = map[domain.ContainerType]string{
	domain.ContainerFabric:   "Fabric Pots",
	domain.ContainerPlastic:  "Plastic Pots",
	domain.ContainerAir:      "Air Pots",
	domain.ContainerSmart:    "Smart Pots",
	domain.ContainerHydroNet: "Net Pots",
	domain.ContainerNursery:  "Nursery Pots",
}

var tips = map[domain.ExperienceLevel][]string{
	domain.ExperienceBeginner: {
		"Start with quality soil - it's the most forgiving growing medium",
		"Don't overwater! Let soil dry between waterings",
		"Keep a grow journal to track your progress",
		"Start with autoflower seeds for easier timing",
		"Invest in a good pH meter - pH issues cause most problems",
		"Be patient - cannabis takes time to grow properly",
	},
	domain.ExperienceIntermediate: {
		"Experiment with LST (Low Stress Training) techniques",
		"Consider adding CO2 supplementation for bigger yields",
		"Fine-tune your nutrient feeding schedule",
		"Try different training methods like SCROG or topping",
		"Monitor your VPD (Vapor Pressure Deficit)",
		"Keep detailed notes on each strain's performance",
	},
	domain.ExperienceAdvanced: {
		"Dial in your environment for maximum terpene production",
		"Experiment with UV supplementation during flower",
		"Try living soil or organic super soil methods",
		"Consider breeding your own genetics",
		"Implement IPM (Integrated Pest Management) protocols",
		"Fine-tune light spectrum for each growth stage",
	},
}

// Build derives the guide. Tent size, medium and experience are required
// because the budget and the tips depend on them.
func Build(sel domain.Selections, now time.Time) (Guide, error) {
	if sel.Experience == "" {
		return Guide{}, fmt.Errorf("%w: experience", wizard.ErrIncomplete)
	}
	lines, err := wizard.Itemize(sel)
	if err != nil {
		return Guide{}, err
	}
	budget, err := wizard.EstimateBudget(sel)
	if err != nil {
		return Guide{}, err
	}
	level := sel.Experience
	return Guide{
		Generated:  now,
		Experience: level,
		Summary: []Row{
			{Label: "Tent Size", Value: strings.ToUpper(string(sel.TentSize))},
			{Label: "Growing Medium", Value: MediumSummary(sel)},
			{Label: "Container Type", Value: PotLabel(sel.ContainerType)},
			{Label: "Pot Size", Value: fmt.Sprintf("%d gallons", sel.PotSize)},
			{Label: "Number of Plants", Value: fmt.Sprint(sel.PlantCount)},
			{Label: "Nutrients", Value: NutrientLabel(sel.Nutrients)},
			{Label: "Plant Type", Value: plantTypeLabel(sel.PlantType)},
			{Label: "Strain Type", Value: capitalize(string(sel.StrainType))},
		},
		Checklist:    Checklist(sel),
		Instructions: Instructions(sel),
		TipsHeading:  fmt.Sprintf("PRO TIPS FOR %s GROWERS", strings.ToUpper(string(level))),
		Tips:         Tips(level),
		Budget:       budget,
		BudgetLines:  lines,
	}, nil
}

// Checklist is the equipment list, in shopping order.
func Checklist(sel domain.Selections) []string {
	return []string{
		fmt.Sprintf("Grow Tent (%s)", sel.TentSize),
		fmt.Sprintf("LED Grow Light (%s watts recommended)", RecommendedWattage(sel.TentSize)),
		"Inline Exhaust Fan with Carbon Filter",
		"Oscillating Circulation Fans (2)",
		fmt.Sprintf("%s (%dx %d gal)", PotLabel(sel.ContainerType), sel.PlantCount, sel.PotSize),
		MediumDescription(sel),
		NutrientDescription(sel.Nutrients),
		"pH Testing Kit & Calibration Solution",
		"Digital Thermometer/Hygrometer",
		"Digital Timer for lights",
		"Pruning scissors/shears",
		"Watering can or pump",
	}
}

// Instructions are the ten setup steps.
func Instructions(sel domain.Selections) []Instruction {
	steps := []Instruction{
		{Title: "Assemble Your Tent", Description: "Set up your grow tent in your chosen location with easy access to power and ventilation."},
		{Title: "Install Ventilation", Description: "Mount the exhaust fan and carbon filter at the top of the tent for optimal air exchange."},
		{Title: "Hang Grow Light", Description: fmt.Sprintf("Position your light %s inches above where plant tops will be.", LightHeight(sel.PlantType))},
		{Title: "Add Circulation", Description: "Place oscillating fans to create gentle air movement throughout the canopy."},
		{Title: "Prepare Growing System", Description: ContainerSetup(sel)},
		{Title: "Setup Timer", Description: "Program light timer: 18/6 (18 hours on) for vegetative, 12/12 for flowering."},
		{Title: "Calibrate Equipment", Description: "Test and calibrate your pH meter and other monitoring devices."},
		{Title: "Plant Seeds/Clones", Description: "Carefully plant your genetics, ensuring proper depth and spacing."},
		{Title: "Monitor Environment", Description: "Maintain 70-85°F temperature and 40-70% humidity (varies by growth stage)."},
		{Title: "Begin Feeding", Description: ScheduleNote(sel)},
	}
	for i := range steps {
		steps[i].Step = fmt.Sprint(i + 1)
	}
	return steps
}

// Tips returns the six tips for a level, defaulting to the beginner set.
func Tips(level domain.ExperienceLevel) []string {
	t, ok := tips[level]
	if !ok {
		t = tips[domain.ExperienceBeginner]
	}
	return append([]string(nil), t...)
}

// RecommendedWattage is the LED wattage range for a tent.
func RecommendedWattage(size domain.TentSize) string {
	if w, ok := wattages[size]; ok {
		return w
	}
	return "300-500"
}

// LightHeight is the hanging distance range in inches.
func LightHeight(pt domain.PlantType) string {
	if pt == domain.PlantAuto {
		return "18-24"
	}
	return "24-36"
}

// PotLabel names the container style, or "Pots" when unknown.
func PotLabel(ct domain.ContainerType) string {
	if l, ok := potLabels[ct]; ok {
		return l
	}
	return "Pots"
}

// NutrientLabel title-cases the line id, substituting the custom line.
func NutrientLabel(n domain.Nutrients) string {
	switch n.Line {
	case "":
		return "Not specified"
	case domain.CustomToken:
		return n.CustomLine
	}
	return dashedTitle(n.Line)
}

// NutrientDescription counts Gaia Green products when any are chosen.
func NutrientDescription(n domain.Nutrients) string {
	if n.Line == domain.NutrientGaiaGreen && len(n.Products) > 0 {
		return fmt.Sprintf("Gaia Green (%d products)", len(n.Products))
	}
	return NutrientLabel(n)
}

// MediumSummary is the short medium name used in the summary table.
func MediumSummary(sel domain.Selections) string {
	if sel.Medium != domain.MediumHydro {
		return capitalize(string(sel.Medium))
	}
	d := sel.MediumDetail
	if d.HydroType != "" && d.HydroType != domain.CustomToken {
		return dashedTitle(d.HydroType)
	}
	return orDefault(d.CustomHydro, "Hydroponic")
}

// MediumDescription is the checklist line for the growing medium.
func MediumDescription(sel domain.Selections) string {
	d := sel.MediumDetail
	switch sel.Medium {
	case domain.MediumSoil:
		if d.SoilBrand != "" && d.SoilBrand != domain.CustomToken {
			return dashedTitle(d.SoilBrand)
		}
		return orDefault(d.CustomSoil, "Quality potting soil")
	case domain.MediumCoco:
		if d.CocoRatio != "" && d.CocoRatio != domain.CustomToken {
			return fmt.Sprintf("Coco coir (%s mix)", strings.Replace(d.CocoRatio, "-", "/", 1))
		}
		return orDefault(d.CustomCoco, "Coco coir medium")
	}
	if d.HydroType != "" && d.HydroType != domain.CustomToken {
		return dashedTitle(d.HydroType) + " System"
	}
	return orDefault(d.CustomHydro, "Hydroponic system")
}

// ContainerSetup is the "Prepare Growing System" step text.
func ContainerSetup(sel domain.Selections) string {
	medium := strings.ToLower(MediumDescription(sel))
	if sel.Medium == domain.MediumHydro {
		return fmt.Sprintf("Set up your %s and prepare net pots or growing sites for your plants.", medium)
	}
	return fmt.Sprintf("Fill your %s with %s.", strings.ToLower(PotLabel(sel.ContainerType)), medium)
}

// ScheduleNote is the "Begin Feeding" step text.
func ScheduleNote(sel domain.Selections) string {
	switch {
	case sel.Nutrients.Line == domain.NutrientGaiaGreen:
		return "Top dress with Gaia Green amendments every 2-3 weeks. Start light and increase as plants mature."
	case sel.Medium == domain.MediumSoil:
		return "Begin light feeding after 2-3 weeks. Follow manufacturer's schedule at 50% strength initially."
	}
	return "Follow your nutrient line's feeding schedule, starting at 50% strength and adjusting based on plant response."
}

func plantTypeLabel(pt domain.PlantType) string {
	if pt == domain.PlantAuto {
		return "Autoflower"
	}
	return "Photoperiod"
}

func dashedTitle(s string) string {
	return wizard.TitleWords(strings.ReplaceAll(s, "-", " "))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
