// Package memory keeps artifacts in process memory.
package memory

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"growcore/internal/blob/core"
)

type entry struct {
	obj  core.Object
	data []byte
}

// Store is a mutex guarded map of objects.
type Store struct {
	mu      sync.RWMutex
	objects map[string]entry
	now     func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{objects: make(map[string]entry), now: time.Now}
}

// Driver implements core.Store.
func (s *Store) Driver() core.Driver { return core.DriverMemory }

// Put implements core.Store.
func (s *Store) Put(_ context.Context, key string, r io.Reader, opts core.PutOptions) (core.Object, error) {
	key, err := core.CleanKey(key)
	if err != nil {
		return core.Object{}, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return core.Object{}, fmt.Errorf("read %s: %w", key, err)
	}
	sum := sha256.Sum256(data)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; ok {
		return core.Object{}, fmt.Errorf("%w: %s", core.ErrExists, key)
	}
	obj := core.Object{
		Key:         key,
		Size:        int64(len(data)),
		ContentType: opts.ContentType,
		Checksum:    hex.EncodeToString(sum[:]),
		Metadata:    core.CloneMetadata(opts.Metadata),
		StoredAt:    s.now().UTC(),
	}
	s.objects[key] = entry{obj: obj, data: data}
	return copyObject(obj), nil
}

// Open implements core.Store.
func (s *Store) Open(_ context.Context, key string) (core.Object, io.ReadCloser, error) {
	e, err := s.lookup(key)
	if err != nil {
		return core.Object{}, nil, err
	}
	return copyObject(e.obj), io.NopCloser(bytes.NewReader(bytes.Clone(e.data))), nil
}

// Stat implements core.Store.
func (s *Store) Stat(_ context.Context, key string) (core.Object, error) {
	e, err := s.lookup(key)
	if err != nil {
		return core.Object{}, err
	}
	return copyObject(e.obj), nil
}

func (s *Store) lookup(key string) (entry, error) {
	key, err := core.CleanKey(key)
	if err != nil {
		return entry{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.objects[key]
	if !ok {
		return entry{}, fmt.Errorf("%w: %s", core.ErrNotFound, key)
	}
	return e, nil
}

// Delete implements core.Store.
func (s *Store) Delete(_ context.Context, key string) (bool, error) {
	key, err := core.CleanKey(key)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	delete(s.objects, key)
	return ok, nil
}

// List implements core.Store.
func (s *Store) List(_ context.Context, prefix string) ([]core.Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Object, 0, len(s.objects))
	for k, e := range s.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, copyObject(e.obj))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// URL is unsupported in memory.
func (s *Store) URL(context.Context, string, time.Duration) (string, error) {
	return "", core.ErrUnsupported
}

func copyObject(o core.Object) core.Object {
	o.Metadata = core.CloneMetadata(o.Metadata)
	return o
}
