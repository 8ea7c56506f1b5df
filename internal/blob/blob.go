// Package blob is the entry point to artifact storage. It is the only
// package allowed to import the backend implementations under infra/blob.
package blob

import (
	"context"
	"fmt"

	"growcore/internal/blob/core"
	fsstore "growcore/internal/infra/blob/fs"
	memstore "growcore/internal/infra/blob/memory"
	s3store "growcore/internal/infra/blob/s3"
)

type (
	Driver     = core.Driver
	PutOptions = core.PutOptions
	Object     = core.Object
	Store      = core.Store
	// S3Config configures the S3 backend.
	S3Config = s3store.Config
)

const (
	DriverFilesystem = core.DriverFilesystem
	DriverS3         = core.DriverS3
	DriverMemory     = core.DriverMemory
)

var (
	ErrNotFound    = core.ErrNotFound
	ErrExists      = core.ErrExists
	ErrUnsupported = core.ErrUnsupported
	ErrInvalidKey  = core.ErrInvalidKey
)

// Config selects and configures a backend.
type Config struct {
	Driver string   `yaml:"driver"`
	Root   string   `yaml:"root"`
	S3     S3Config `yaml:"s3"`
}

// Open constructs the configured store. The filesystem driver is the default.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch Driver(cfg.Driver) {
	case "", DriverFilesystem:
		return fsstore.New(cfg.Root)
	case DriverMemory:
		return memstore.New(), nil
	case DriverS3:
		return s3store.New(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.Driver)
	}
}

// NewMemory returns an empty in-memory store.
func NewMemory() Store { return memstore.New() }

// NewFakeS3 returns an S3 store wired to an in-process fake endpoint.
func NewFakeS3() Store { return s3store.NewFake() }
