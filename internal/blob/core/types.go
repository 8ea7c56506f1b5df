// Package core holds the artifact store contract shared by the blob
// package and its backend implementations.
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// Driver names a storage backend.
type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverS3         Driver = "s3"
	DriverMemory     Driver = "memory"
)

var (
	// ErrNotFound is returned for keys that hold no object.
	ErrNotFound = errors.New("blob: object not found")
	// ErrExists is returned when writing to an occupied key.
	ErrExists = errors.New("blob: object already exists")
	// ErrUnsupported is returned by backends lacking an optional capability.
	ErrUnsupported = errors.New("blob: unsupported operation")
	// ErrInvalidKey is returned for empty, absolute or escaping keys.
	ErrInvalidKey = errors.New("blob: invalid key")
)

// PutOptions describes an object being written.
type PutOptions struct {
	ContentType string
	Metadata    map[string]string
}

// Object describes a stored object.
type Object struct {
	Key         string            `json:"key"`
	Size        int64             `json:"size"`
	ContentType string            `json:"contentType,omitempty"`
	Checksum    string            `json:"checksum,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	StoredAt    time.Time         `json:"storedAt"`
}

// Store keeps rendered artifacts. Keys are slash separated and write-once.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Object, error)
	Open(ctx context.Context, key string) (Object, io.ReadCloser, error)
	Stat(ctx context.Context, key string) (Object, error)
	Delete(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]Object, error)
	// URL returns a time-limited download link, or ErrUnsupported.
	URL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Driver() Driver
}

// CleanKey normalises a key and rejects ones that could escape a root.
func CleanKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" || strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return path.Clean(key), nil
}

// CloneMetadata copies a metadata map; nil stays nil.
func CloneMetadata(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
