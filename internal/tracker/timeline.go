package tracker

import (
	"context"
	"fmt"
	"time"

	"growcore/pkg/domain"
)

// FilterAll selects every log entry.
const FilterAll = "all"

// TimelineEntry is a log entry prepared for the plant detail timeline.
type TimelineEntry struct {
	Type        domain.ActionType `json:"type"`
	Date        time.Time         `json:"date"`
	DateLabel   string            `json:"dateLabel"`
	Title       string            `json:"title"`
	Badge       string            `json:"badge"`
	Description string            `json:"description,omitempty"`
}

var (
	entryTitles = map[domain.ActionType]string{
		domain.ActionWater: "Watered",
		domain.ActionFeed:  "Fed",
		domain.ActionNote:  "Note Added",
	}
	entryBadges = map[domain.ActionType]string{
		domain.ActionWater: "badge-info",
		domain.ActionFeed:  "badge-success",
		domain.ActionNote:  "badge-primary",
	}
)

// NewTimelineEntry derives the display form of a log.
func NewTimelineEntry(log domain.ActionLog) TimelineEntry {
	return TimelineEntry{
		Type:        log.Type,
		Date:        log.Date,
		DateLabel:   log.Date.Format("Jan 2, 2006"),
		Title:       entryTitles[log.Type],
		Badge:       entryBadges[log.Type],
		Description: Describe(log),
	}
}

// Describe builds the one-line summary: the amount for watering, "amount of
// nutrients" for feeding when both are present, then any notes.
func Describe(log domain.ActionLog) string {
	var desc string
	switch {
	case log.Type == domain.ActionWater && log.Amount != "":
		desc = "Amount: " + log.Amount
	case log.Type == domain.ActionFeed && log.Amount != "" && log.Nutrients != "":
		desc = fmt.Sprintf("%s of %s", log.Amount, log.Nutrients)
	}
	if log.Notes != "" {
		if desc != "" {
			desc += ". "
		}
		desc += log.Notes
	}
	return desc
}

// Timeline returns the plant's entries, most recent first, limited to filter
// ("all", empty, or an action type).
func (t *Tracker) Timeline(ctx context.Context, plantID, filter string) ([]TimelineEntry, error) {
	if filter != "" && filter != FilterAll && !domain.ActionType(filter).Valid() {
		return nil, fmt.Errorf("%w: filter %q", ErrInvalidAction, filter)
	}
	plant, err := t.Plant(ctx, plantID)
	if err != nil {
		return nil, err
	}
	return FilterTimeline(plant.Logs, filter), nil
}

// FilterTimeline keeps logs matching filter and converts them to entries.
func FilterTimeline(logs []domain.ActionLog, filter string) []TimelineEntry {
	out := make([]TimelineEntry, 0, len(logs))
	for _, log := range logs {
		if filter != "" && filter != FilterAll && string(log.Type) != filter {
			continue
		}
		out = append(out, NewTimelineEntry(log))
	}
	return out
}
