// Package storage persists store snapshots: one named, versioned JSON
// document per store.
package storage

import (
	"context"
	"fmt"

	"github.com/kovin-ide/kovin/internal/config"
)

// Snapshotter loads and saves named, versioned snapshots
type Snapshotter interface {
	// Load decodes the snapshot called name into v. It reports false when
	// nothing is stored or the stored version differs from version.
	Load(ctx context.Context, name string, version int, v any) (bool, error)

	// Save replaces the snapshot called name
	Save(ctx context.Context, name string, version int, v any) error

	Close() error
}

// Open creates the snapshotter selected by cfg.Driver
func Open(ctx context.Context, cfg *config.StorageConfig) (Snapshotter, error) {
	switch cfg.Driver {
	case "sqlite":
		return NewSQLite(cfg.SQLitePath)
	case "postgres":
		db, err := NewPostgres(ctx, cfg.Postgres.DatabaseURL())
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, err
		}
		return db, nil
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %q", cfg.Driver)
	}
}
