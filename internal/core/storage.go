package core

import (
	"context"
	"fmt"
	"os"

	"growcore/internal/infra/persistence/memory"
	"growcore/internal/infra/persistence/postgres"
	"growcore/internal/infra/persistence/sqlite"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// StorageConfig selects and parameterises a backend.
type StorageConfig struct {
	Driver      StorageDriver `yaml:"driver"`
	SQLitePath  string        `yaml:"sqlite_path"`
	PostgresDSN string        `yaml:"postgres_dsn"`
}

// StorageConfigFromEnv reads the backend selection from the environment.
//
//	GROWCORE_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	GROWCORE_SQLITE_PATH: path to sqlite file (default ./growcore.db)
//	GROWCORE_POSTGRES_DSN: postgres DSN when driver=postgres
func StorageConfigFromEnv() StorageConfig {
	return StorageConfig{
		Driver:      StorageDriver(os.Getenv("GROWCORE_STORAGE_DRIVER")),
		SQLitePath:  os.Getenv("GROWCORE_SQLITE_PATH"),
		PostgresDSN: os.Getenv("GROWCORE_POSTGRES_DSN"),
	}
}

// OpenKVStore opens the configured backend. Defaults to sqlite when unset.
// The returned close function releases backend resources and is never nil.
func OpenKVStore(ctx context.Context, cfg StorageConfig) (KVStore, func() error, error) {
	noop := func() error { return nil }
	driver := cfg.Driver
	if driver == "" {
		driver = StorageSQLite
	}
	switch driver {
	case StorageMemory:
		return memory.NewStore(), noop, nil
	case StorageSQLite:
		store, err := sqlite.NewStore(cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	case StoragePostgres:
		store, err := postgres.NewStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage driver %s", driver)
	}
}
