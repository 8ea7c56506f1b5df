package domain

import "context"

// Storage keys for the journal and tracker blobs.
const (
	KeyConditions         = "plant_conditions"
	KeyNotes              = "plant_notes"
	KeyConditionsRedesign = "plant_conditions_redesign"
	KeyNotesRedesign      = "plant_notes_redesign"
	KeyTrackingData       = "plant_tracking_data"
)

// KVStore is the minimal persistence capability: opaque JSON payloads under
// string keys. Get reports ok=false for absent keys.
type KVStore interface {
	Get(ctx context.Context, key string) (payload []byte, ok bool, err error)
	Set(ctx context.Context, key string, payload []byte) error
}
