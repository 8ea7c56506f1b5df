// Package memory implements an in-process domain.KVStore used by tests and
// ephemeral deployments.
package memory

import (
	"context"
	"sort"
	"sync"

	"growcore/pkg/domain"
)

var _ domain.KVStore = (*Store)(nil)

// Store keeps payloads in a map guarded by a RWMutex. Values are copied on
// the way in and out so callers can never alias stored bytes.
type Store struct {
	mu      sync.RWMutex
	buckets map[string][]byte
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{buckets: make(map[string][]byte)}
}

// Get returns a copy of the payload stored under key.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	payload, ok := s.buckets[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	return clonePayload(payload), true, nil
}

// Set replaces the payload stored under key.
func (s *Store) Set(_ context.Context, key string, payload []byte) error {
	s.mu.Lock()
	s.buckets[key] = clonePayload(payload)
	s.mu.Unlock()
	return nil
}

// Snapshot is a point-in-time copy of every bucket.
type Snapshot map[string][]byte

// ExportState returns a deep copy of all stored payloads.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(Snapshot, len(s.buckets))
	for k, v := range s.buckets {
		out[k] = clonePayload(v)
	}
	return out
}

// ImportState replaces all buckets with the snapshot contents.
func (s *Store) ImportState(snapshot Snapshot) {
	buckets := make(map[string][]byte, len(snapshot))
	for k, v := range snapshot {
		buckets[k] = clonePayload(v)
	}
	s.mu.Lock()
	s.buckets = buckets
	s.mu.Unlock()
}

// Keys lists stored keys in ascending order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.buckets))
	for k := range s.buckets {
		keys = append(keys, k)
	}
	s.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

func clonePayload(in []byte) []byte {
	if in == nil {
		return nil
	}
	out := make([]byte, len(in))
	copy(out, in)
	return out
}
