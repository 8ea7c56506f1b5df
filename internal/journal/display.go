package journal

import (
	"math"
	"strings"
	"time"

	"growcore/pkg/domain"
)

// Stat is one labelled value of the conditions panel.
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

const placeholder = "—"

var redesignDefaults = domain.Conditions{
	LightCycle:     "20/4",
	TemperatureF:   "78",
	HumidityPct:    "45",
	VPD:            "1.8",
	LightOutputPct: "80",
}

// Display renders a conditions record as the panel shows it. The classic
// layout shows a placeholder for missing values, the redesign layout shows
// house defaults.
func Display(layout Layout, c *domain.Conditions) []Stat {
	var rec domain.Conditions
	if c != nil {
		rec = *c
	}
	if layout == LayoutRedesign {
		rec = withDefaults(rec, redesignDefaults)
		return []Stat{
			{Label: "Light cycle", Value: rec.LightCycle},
			{Label: "Temperature", Value: rec.TemperatureF + "°F"},
			{Label: "Relative humidity", Value: rec.HumidityPct + "%"},
			{Label: "VPD", Value: rec.VPD + " kPa"},
			{Label: "Lights", Value: rec.LightOutputPct + "%"},
		}
	}
	return []Stat{
		{Label: "Day", Value: orPlaceholder(rec.Day, "")},
		{Label: "Light cycle", Value: orPlaceholder(rec.LightCycle, "")},
		{Label: "Temperature", Value: orPlaceholder(rec.TemperatureF, "°F")},
		{Label: "Relative humidity", Value: orPlaceholder(rec.HumidityPct, "%")},
		{Label: "VPD", Value: orPlaceholder(rec.VPD, "")},
		{Label: "Lights", Value: orPlaceholder(rec.LightOutputPct, "% output")},
	}
}

func orPlaceholder(v, suffix string) string {
	if v == "" {
		return placeholder
	}
	return v + suffix
}

func withDefaults(rec, defaults domain.Conditions) domain.Conditions {
	pick := func(v, d string) string {
		if v == "" {
			return d
		}
		return v
	}
	rec.LightCycle = pick(rec.LightCycle, defaults.LightCycle)
	rec.TemperatureF = pick(rec.TemperatureF, defaults.TemperatureF)
	rec.HumidityPct = pick(rec.HumidityPct, defaults.HumidityPct)
	rec.VPD = pick(rec.VPD, defaults.VPD)
	rec.LightOutputPct = pick(rec.LightOutputPct, defaults.LightOutputPct)
	return rec
}

// ParseEntryConditions splits a timeline entry's "k=v; k=v" annotation into
// a map. Segments without "=" are dropped; later keys overwrite earlier ones.
func ParseEntryConditions(raw string) map[string]string {
	out := make(map[string]string)
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out
}

// DaysSinceGermination counts whole days between local midnight of a
// YYYY-MM-DD date and now. It reports false for malformed dates.
func DaysSinceGermination(date string, now time.Time) (int, bool) {
	then, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(date), now.Location())
	if err != nil {
		return 0, false
	}
	return int(math.Floor(now.Sub(then).Hours() / 24)), true
}
