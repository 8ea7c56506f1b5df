// Package tracker records dashboard care actions per plant and derives the
// "days since" labels, due task lists and timeline entries from them.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"growcore/internal/kv"
	"growcore/pkg/domain"
)

// Watering and feeding become due after these many whole days.
const (
	WaterDueDays = 2
	FeedDueDays  = 5
)

// ErrInvalidAction is returned for unknown action types or a missing plant id.
var ErrInvalidAction = errors.New("tracker: invalid action")

// Action is one submitted care log.
type Action struct {
	Type      domain.ActionType `json:"type"`
	At        time.Time         `json:"at"`
	Amount    string            `json:"amount,omitempty"`
	Nutrients string            `json:"nutrients,omitempty"`
	Notes     string            `json:"notes,omitempty"`
}

// Care holds the "days since" labels shown on a plant card.
type Care struct {
	Watered string `json:"watered,omitempty"`
	Fed     string `json:"fed,omitempty"`
}

// Receipt is returned after recording an action.
type Receipt struct {
	PlantID string             `json:"plantId"`
	Plant   domain.PlantRecord `json:"plant"`
	Entry   TimelineEntry      `json:"entry"`
	Care    Care               `json:"care"`
	Saved   bool               `json:"saved"`
}

// Option customises a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// Tracker persists the whole tracking map under one key.
type Tracker struct {
	store *kv.Adapter
	now   func() time.Time
}

// New constructs a tracker over store.
func New(store *kv.Adapter, opts ...Option) *Tracker {
	t := &Tracker{store: store, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Data loads the tracking map. Missing or corrupt data yields an empty map.
func (t *Tracker) Data(ctx context.Context) domain.TrackingData {
	var data domain.TrackingData
	if !t.store.LoadJSON(ctx, domain.KeyTrackingData, &data) || data == nil {
		return domain.TrackingData{}
	}
	return data
}

// Record appends a care action to the plant's log, creating the plant on
// first use, and writes the whole map back.
func (t *Tracker) Record(ctx context.Context, plantID string, action Action) (Receipt, error) {
	plantID = strings.TrimSpace(plantID)
	if plantID == "" {
		return Receipt{}, fmt.Errorf("%w: plant id required", ErrInvalidAction)
	}
	if !action.Type.Valid() {
		return Receipt{}, fmt.Errorf("%w: type %q", ErrInvalidAction, action.Type)
	}
	if action.At.IsZero() {
		action.At = t.now()
	}

	data := t.Data(ctx)
	plant, ok := data[plantID]
	if !ok {
		plant = domain.PlantRecord{Name: plantID}
	}
	at := action.At
	switch action.Type {
	case domain.ActionWater:
		plant.LastWatered = &at
	case domain.ActionFeed:
		plant.LastFed = &at
	}
	entry := domain.ActionLog{
		Type:      action.Type,
		Date:      at,
		Amount:    action.Amount,
		Nutrients: action.Nutrients,
		Notes:     action.Notes,
	}
	plant.Logs = append([]domain.ActionLog{entry}, plant.Logs...)
	data[plantID] = plant

	saved := t.store.SaveJSON(ctx, domain.KeyTrackingData, data)
	return Receipt{
		PlantID: plantID,
		Plant:   plant,
		Entry:   NewTimelineEntry(entry),
		Care:    CareFor(plant, t.now()),
		Saved:   saved,
	}, nil
}

// Plant returns one plant's record.
func (t *Tracker) Plant(ctx context.Context, plantID string) (domain.PlantRecord, error) {
	plant, ok := t.Data(ctx)[plantID]
	if !ok {
		return domain.PlantRecord{}, domain.ErrNotFound{Kind: "plant", ID: plantID}
	}
	return plant, nil
}

// DueTask is one plant needing attention.
type DueTask struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Days int    `json:"days"`
}

// Due groups the watering and feeding lists.
type Due struct {
	Watering []DueTask `json:"watering"`
	Feeding  []DueTask `json:"feeding"`
}

// DueTasks loads the map and computes the due lists at the tracker's clock.
func (t *Tracker) DueTasks(ctx context.Context) Due {
	return ComputeDue(t.Data(ctx), t.now())
}

// ComputeDue lists plants whose last watering or feeding crossed the due
// thresholds. Plants with neither timestamp are still germinating and are
// skipped. Lists are sorted by plant id.
func ComputeDue(data domain.TrackingData, now time.Time) Due {
	due := Due{Watering: []DueTask{}, Feeding: []DueTask{}}
	ids := make([]string, 0, len(data))
	for id := range data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		plant := data[id]
		if plant.LastWatered == nil && plant.LastFed == nil {
			continue
		}
		name := plant.Name
		if name == "" {
			name = id
		}
		if plant.LastWatered != nil {
			if days := DaysSince(*plant.LastWatered, now); days >= WaterDueDays {
				due.Watering = append(due.Watering, DueTask{ID: id, Name: name, Days: days})
			}
		}
		if plant.LastFed != nil {
			if days := DaysSince(*plant.LastFed, now); days >= FeedDueDays {
				due.Feeding = append(due.Feeding, DueTask{ID: id, Name: name, Days: days})
			}
		}
	}
	return due
}

// DaysSince counts whole elapsed days, flooring partial days. Future times
// yield negative values.
func DaysSince(then, now time.Time) int {
	d := now.Sub(then)
	days := int(d / (24 * time.Hour))
	if d < 0 && d%(24*time.Hour) != 0 {
		days--
	}
	return days
}

// CareLabel renders a day count for the plant card.
func CareLabel(days int) string {
	switch days {
	case 0:
		return "Today"
	case 1:
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}

// CareFor builds the card labels for a plant.
func CareFor(plant domain.PlantRecord, now time.Time) Care {
	var c Care
	if plant.LastWatered != nil {
		c.Watered = CareLabel(DaysSince(*plant.LastWatered, now))
	}
	if plant.LastFed != nil {
		c.Fed = CareLabel(DaysSince(*plant.LastFed, now))
	}
	return c
}

// ParseActionTime accepts RFC 3339 timestamps and the minute-precision
// "2006-01-02T15:04" form submitted by datetime-local inputs.
func ParseActionTime(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	if loc == nil {
		loc = time.Local
	}
	ts, err := time.ParseInLocation("2006-01-02T15:04", raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q", ErrInvalidAction, raw)
	}
	return ts, nil
}
