package guide

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"growcore/internal/wizard"
	"growcore/pkg/domain"
)

var generated = time.Date(2025, time.March, 4, 10, 0, 0, 0, time.UTC)

func sampleSelections() domain.Selections {
	return domain.Selections{
		Experience:    domain.ExperienceIntermediate,
		TentSize:      domain.Tent4x4,
		Medium:        domain.MediumCoco,
		MediumDetail:  domain.MediumDetail{CocoRatio: "70-30"},
		ContainerType: domain.ContainerFabric,
		PotSize:       5,
		PlantCount:    4,
		Nutrients:     domain.Nutrients{Line: "general-hydroponics"},
		PlantType:     domain.PlantAuto,
		StrainType:    domain.StrainIndica,
	}
}

func TestBuildSummaryAndChecklist(t *testing.T) {
	g, err := Build(sampleSelections(), generated)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	wantSummary := []Row{
		{Label: "Tent Size", Value: "4X4"},
		{Label: "Growing Medium", Value: "Coco"},
		{Label: "Container Type", Value: "Fabric Pots"},
		{Label: "Pot Size", Value: "5 gallons"},
		{Label: "Number of Plants", Value: "4"},
		{Label: "Nutrients", Value: "General Hydroponics"},
		{Label: "Plant Type", Value: "Autoflower"},
		{Label: "Strain Type", Value: "Indica"},
	}
	if diff := cmp.Diff(wantSummary, g.Summary); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
	if len(g.Checklist) != 12 {
		t.Fatalf("expected 12 checklist items, got %d", len(g.Checklist))
	}
	for i, want := range map[int]string{
		0: "Grow Tent (4x4)",
		1: "LED Grow Light (400-600 watts recommended)",
		4: "Fabric Pots (4x 5 gal)",
		5: "Coco coir (70/30 mix)",
		6: "General Hydroponics",
	} {
		if g.Checklist[i] != want {
			t.Fatalf("checklist[%d] = %q, want %q", i, g.Checklist[i], want)
		}
	}
	if g.GeneratedLabel() != "Generated: March 4, 2025" || g.BadgeLabel() != "Intermediate" {
		t.Fatalf("unexpected header labels %q %q", g.GeneratedLabel(), g.BadgeLabel())
	}
	if g.TipsHeading != "PRO TIPS FOR INTERMEDIATE GROWERS" || len(g.Tips) != 6 {
		t.Fatalf("unexpected tips %q %d", g.TipsHeading, len(g.Tips))
	}
	if g.Budget.Min != 620 || g.Budget.Max != 1400 || len(g.BudgetLines) != 5 {
		t.Fatalf("unexpected budget %+v %+v", g.Budget, g.BudgetLines)
	}
}

func TestBuildRequiresCoreSelections(t *testing.T) {
	sel := sampleSelections()
	sel.Experience = ""
	if _, err := Build(sel, generated); !errors.Is(err, wizard.ErrIncomplete) {
		t.Fatalf("expected incomplete, got %v", err)
	}
	sel = sampleSelections()
	sel.Medium = ""
	if _, err := Build(sel, generated); !errors.Is(err, wizard.ErrIncomplete) {
		t.Fatalf("expected incomplete, got %v", err)
	}
}

func TestInstructionsFollowSelections(t *testing.T) {
	sel := sampleSelections()
	steps := Instructions(sel)
	if len(steps) != 10 || steps[9].Step != "10" {
		t.Fatalf("expected ten numbered steps, got %+v", steps)
	}
	if steps[2].Description != "Position your light 18-24 inches above where plant tops will be." {
		t.Fatalf("unexpected light step %q", steps[2].Description)
	}
	if steps[4].Description != "Fill your fabric pots with coco coir (70/30 mix)." {
		t.Fatalf("unexpected container step %q", steps[4].Description)
	}

	sel.Medium = domain.MediumHydro
	sel.MediumDetail = domain.MediumDetail{HydroType: "ebb-flow"}
	sel.PlantType = domain.PlantPhoto
	steps = Instructions(sel)
	if steps[2].Description != "Position your light 24-36 inches above where plant tops will be." {
		t.Fatalf("unexpected light step %q", steps[2].Description)
	}
	if steps[4].Description != "Set up your ebb flow system and prepare net pots or growing sites for your plants." {
		t.Fatalf("unexpected hydro step %q", steps[4].Description)
	}
}

func TestScheduleNote(t *testing.T) {
	gaia := domain.Selections{Medium: domain.MediumCoco, Nutrients: domain.Nutrients{Line: domain.NutrientGaiaGreen}}
	soil := domain.Selections{Medium: domain.MediumSoil, Nutrients: domain.Nutrients{Line: "biobizz"}}
	other := domain.Selections{Medium: domain.MediumHydro}
	if got := ScheduleNote(gaia); got != "Top dress with Gaia Green amendments every 2-3 weeks. Start light and increase as plants mature." {
		t.Fatalf("unexpected gaia note %q", got)
	}
	if got := ScheduleNote(soil); got != "Begin light feeding after 2-3 weeks. Follow manufacturer's schedule at 50% strength initially." {
		t.Fatalf("unexpected soil note %q", got)
	}
	if got := ScheduleNote(other); got != "Follow your nutrient line's feeding schedule, starting at 50% strength and adjusting based on plant response." {
		t.Fatalf("unexpected default note %q", got)
	}
}

func TestMediumLabels(t *testing.T) {
	cases := []struct {
		sel             domain.Selections
		summary, detail string
	}{
		{domain.Selections{Medium: domain.MediumSoil, MediumDetail: domain.MediumDetail{SoilBrand: "fox-farm-ocean"}}, "Soil", "Fox Farm Ocean"},
		{domain.Selections{Medium: domain.MediumSoil, MediumDetail: domain.MediumDetail{SoilBrand: "custom"}}, "Soil", "Quality potting soil"},
		{domain.Selections{Medium: domain.MediumCoco, MediumDetail: domain.MediumDetail{CocoRatio: "custom", CustomCoco: "Canna coco"}}, "Coco", "Canna coco"},
		{domain.Selections{Medium: domain.MediumCoco}, "Coco", "Coco coir medium"},
		{domain.Selections{Medium: domain.MediumHydro, MediumDetail: domain.MediumDetail{HydroType: "dwc"}}, "Dwc", "Dwc System"},
		{domain.Selections{Medium: domain.MediumHydro, MediumDetail: domain.MediumDetail{HydroType: "custom", CustomHydro: "Kratky"}}, "Kratky", "Kratky"},
		{domain.Selections{Medium: domain.MediumHydro}, "Hydroponic", "Hydroponic system"},
	}
	for _, tc := range cases {
		if got := MediumSummary(tc.sel); got != tc.summary {
			t.Fatalf("MediumSummary(%+v) = %q, want %q", tc.sel.MediumDetail, got, tc.summary)
		}
		if got := MediumDescription(tc.sel); got != tc.detail {
			t.Fatalf("MediumDescription(%+v) = %q, want %q", tc.sel.MediumDetail, got, tc.detail)
		}
	}
}

func TestSmallHelpers(t *testing.T) {
	if RecommendedWattage("") != "300-500" || RecommendedWattage(domain.Tent2x2) != "100-150" {
		t.Fatalf("unexpected wattage")
	}
	if PotLabel("") != "Pots" {
		t.Fatalf("unknown containers are plain pots")
	}
	if got := NutrientDescription(domain.Nutrients{Line: domain.NutrientGaiaGreen, Products: []string{"a", "b", "c"}}); got != "Gaia Green (3 products)" {
		t.Fatalf("unexpected nutrient description %q", got)
	}
	if got := NutrientLabel(domain.Nutrients{Line: "fox-farm-trio"}); got != "Fox Farm Trio" {
		t.Fatalf("unexpected nutrient label %q", got)
	}
	if got := Tips("expert"); got[0] != "Start with quality soil - it's the most forgiving growing medium" {
		t.Fatalf("unknown levels fall back to beginner tips")
	}
}
