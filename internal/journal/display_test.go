package journal

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"growcore/pkg/domain"
)

func TestDisplayClassicPlaceholders(t *testing.T) {
	got := Display(LayoutClassic, &domain.Conditions{Day: "9", TemperatureF: "75", LightOutputPct: "60"})
	want := []Stat{
		{Label: "Day", Value: "9"},
		{Label: "Light cycle", Value: "—"},
		{Label: "Temperature", Value: "75°F"},
		{Label: "Relative humidity", Value: "—"},
		{Label: "VPD", Value: "—"},
		{Label: "Lights", Value: "60% output"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("display mismatch (-want +got):\n%s", diff)
	}
}

func TestDisplayRedesignDefaults(t *testing.T) {
	got := Display(LayoutRedesign, nil)
	want := []Stat{
		{Label: "Light cycle", Value: "20/4"},
		{Label: "Temperature", Value: "78°F"},
		{Label: "Relative humidity", Value: "45%"},
		{Label: "VPD", Value: "1.8 kPa"},
		{Label: "Lights", Value: "80%"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("display mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEntryConditions(t *testing.T) {
	got := ParseEntryConditions(" Temp=77°F; RH = 52% ;junk; ;VPD=1.1;Temp=78°F")
	want := map[string]string{"Temp": "78°F", "RH": "52%", "VPD": "1.1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("parse mismatch (-want +got):\n%s", diff)
	}
	if len(ParseEntryConditions("")) != 0 {
		t.Fatalf("expected empty map for empty input")
	}
}

func TestDaysSinceGermination(t *testing.T) {
	now := time.Date(2024, time.May, 3, 23, 59, 0, 0, time.UTC)
	cases := map[string]int{
		"2024-05-03": 0,
		"2024-05-02": 1,
		"2024-04-03": 30,
	}
	for date, want := range cases {
		got, ok := DaysSinceGermination(date, now)
		if !ok || got != want {
			t.Fatalf("%s: expected %d, got %d ok=%v", date, want, got, ok)
		}
	}
	if _, ok := DaysSinceGermination("May 3", now); ok {
		t.Fatalf("expected malformed date to fail")
	}
}
