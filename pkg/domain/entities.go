package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Conditions is the grow-room snapshot edited on the plant page. Every field
// is optional and the record is always saved wholesale.
type Conditions struct {
	Day            string `json:"day,omitempty"`
	LightCycle     string `json:"light,omitempty"`
	TemperatureF   string `json:"temp,omitempty"`
	HumidityPct    string `json:"rh,omitempty"`
	VPD            string `json:"vpd,omitempty"`
	LightOutputPct string `json:"lights,omitempty"`
	GerminatedDate string `json:"germinatedDate,omitempty"`
}

// UnmarshalJSON accepts numeric values for any field, matching records saved
// by forms that coerced inputs to numbers. Null clears the field.
func (c *Conditions) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("conditions: expected object")
	}
	fields := map[string]*string{
		"day":            &c.Day,
		"light":          &c.LightCycle,
		"temp":           &c.TemperatureF,
		"rh":             &c.HumidityPct,
		"vpd":            &c.VPD,
		"lights":         &c.LightOutputPct,
		"germinatedDate": &c.GerminatedDate,
	}
	*c = Conditions{}
	for key, dst := range fields {
		switch v := raw[key].(type) {
		case nil:
		case string:
			*dst = v
		case float64:
			*dst = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			*dst = strconv.FormatBool(v)
		default:
			return fmt.Errorf("conditions: field %s has unsupported type %T", key, v)
		}
	}
	return nil
}

// Note is a dated journal entry.
type Note struct {
	Date string `json:"date"`
	Text string `json:"text"`
}

// legacyNoteSeparator joins date and text in notes stored as plain strings.
const legacyNoteSeparator = " — "

// Legacy renders the note in the plain string form used by the classic journal.
func (n Note) Legacy() string {
	if n.Date == "" {
		return n.Text
	}
	return n.Date + legacyNoteSeparator + n.Text
}

// UnmarshalJSON accepts both the object form and the legacy "date — text" string form.
func (n *Note) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if date, text, ok := strings.Cut(s, legacyNoteSeparator); ok {
			*n = Note{Date: date, Text: text}
		} else {
			*n = Note{Text: s}
		}
		return nil
	}
	type plain Note
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*n = Note(p)
	return nil
}

// ActionType enumerates the dashboard care actions.
type ActionType string

const (
	ActionWater ActionType = "water"
	ActionFeed  ActionType = "feed"
	ActionNote  ActionType = "note"
)

// Valid reports whether the action type is one of the known kinds.
func (a ActionType) Valid() bool {
	switch a {
	case ActionWater, ActionFeed, ActionNote:
		return true
	}
	return false
}

// ActionLog is one entry in a plant's care log.
type ActionLog struct {
	Type      ActionType `json:"type"`
	Date      time.Time  `json:"date"`
	Amount    string     `json:"amount,omitempty"`
	Nutrients string     `json:"nutrients,omitempty"`
	Notes     string     `json:"notes,omitempty"`
}

// PlantRecord tracks care history for one plant. Logs are most recent first.
type PlantRecord struct {
	Name        string      `json:"name"`
	LastWatered *time.Time  `json:"lastWatered,omitempty"`
	LastFed     *time.Time  `json:"lastFed,omitempty"`
	Logs        []ActionLog `json:"logs"`
}

// TrackingData maps plant identifiers to their records.
type TrackingData map[string]PlantRecord
