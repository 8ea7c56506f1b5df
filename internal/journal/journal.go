// Package journal keeps the plant page conditions record and the running
// notes list. Two layouts share the logic and differ only in storage keys,
// note date format and note encoding.
package journal

import (
	"context"
	"strings"
	"time"

	"growcore/internal/kv"
	"growcore/pkg/domain"
)

// Layout names a journal flavour.
type Layout string

const (
	LayoutClassic  Layout = "classic"
	LayoutRedesign Layout = "redesign"
)

// ParseLayout resolves a path segment to a layout.
func ParseLayout(raw string) (Layout, bool) {
	switch Layout(strings.ToLower(raw)) {
	case LayoutClassic:
		return LayoutClassic, true
	case LayoutRedesign:
		return LayoutRedesign, true
	}
	return "", false
}

type layoutKeys struct {
	conditionsKey string
	notesKey      string
	dateLayout    string
	// classic notes persist as "date — text" strings
	legacyNotes bool
}

var layouts = map[Layout]layoutKeys{
	LayoutClassic: {
		conditionsKey: domain.KeyConditions,
		notesKey:      domain.KeyNotes,
		dateLayout:    "2006-01-02",
		legacyNotes:   true,
	},
	LayoutRedesign: {
		conditionsKey: domain.KeyConditionsRedesign,
		notesKey:      domain.KeyNotesRedesign,
		dateLayout:    "Jan 2, 2006",
	},
}

// Option customises a Journal.
type Option func(*Journal)

// WithClock overrides the time source used to stamp notes.
func WithClock(now func() time.Time) Option {
	return func(j *Journal) {
		if now != nil {
			j.now = now
		}
	}
}

// Journal reads and writes one layout's conditions and notes.
type Journal struct {
	layout Layout
	keys   layoutKeys
	store  *kv.Adapter
	now    func() time.Time
}

// New constructs a journal for layout. Unknown layouts fall back to classic.
func New(store *kv.Adapter, layout Layout, opts ...Option) *Journal {
	keys, ok := layouts[layout]
	if !ok {
		layout, keys = LayoutClassic, layouts[LayoutClassic]
	}
	j := &Journal{layout: layout, keys: keys, store: store, now: time.Now}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Layout reports the journal flavour.
func (j *Journal) Layout() Layout { return j.layout }

// Conditions returns the saved record, or nil when nothing usable is stored.
func (j *Journal) Conditions(ctx context.Context) *domain.Conditions {
	var c domain.Conditions
	if !j.store.LoadJSON(ctx, j.keys.conditionsKey, &c) {
		return nil
	}
	return &c
}

// SaveConditions replaces the stored record wholesale.
func (j *Journal) SaveConditions(ctx context.Context, c domain.Conditions) bool {
	return j.store.SaveJSON(ctx, j.keys.conditionsKey, c)
}

// Notes returns stored notes, most recent first. Absent or corrupt data yields
// an empty list.
func (j *Journal) Notes(ctx context.Context) []domain.Note {
	var notes []domain.Note
	if !j.store.LoadJSON(ctx, j.keys.notesKey, &notes) || notes == nil {
		return []domain.Note{}
	}
	return notes
}

// AddNote stamps text with today's date and prepends it. Blank text is
// ignored; the returned list is what is now stored (or would have been, when
// saved is false).
func (j *Journal) AddNote(ctx context.Context, text string) (notes []domain.Note, saved bool) {
	text = strings.TrimSpace(text)
	notes = j.Notes(ctx)
	if text == "" {
		return notes, false
	}
	entry := domain.Note{Date: j.now().Format(j.keys.dateLayout), Text: text}
	notes = append([]domain.Note{entry}, notes...)
	return notes, j.saveNotes(ctx, notes)
}

func (j *Journal) saveNotes(ctx context.Context, notes []domain.Note) bool {
	if !j.keys.legacyNotes {
		return j.store.SaveJSON(ctx, j.keys.notesKey, notes)
	}
	encoded := make([]string, len(notes))
	for i, n := range notes {
		encoded[i] = n.Legacy()
	}
	return j.store.SaveJSON(ctx, j.keys.notesKey, encoded)
}
