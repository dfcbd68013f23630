package storage

import (
	"context"
	"embed"
	"encoding/json"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

//go:embed migrations/postgres/*.sql
var postgresMigrations embed.FS

// Postgres stores snapshots in PostgreSQL
type Postgres struct {
	Pool        *pgxpool.Pool
	databaseURL string
}

// NewPostgres creates a new database connection
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse database config")
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create connection pool")
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	return &Postgres{Pool: pool, databaseURL: databaseURL}, nil
}

// Migrate runs the embedded migrations up to the latest version
func (db *Postgres) Migrate() error {
	return MigratePostgres(db.databaseURL)
}

// MigratePostgres runs the embedded migrations against databaseURL
func MigratePostgres(databaseURL string) error {
	source, err := iofs.New(postgresMigrations, "migrations/postgres")
	if err != nil {
		return errors.Wrap(err, "failed to open embedded migrations")
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return errors.Wrap(err, "failed to create migrate instance")
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return errors.Wrap(err, "failed to run migrations")
	}

	return nil
}

// Load implements Snapshotter
func (db *Postgres) Load(ctx context.Context, name string, version int, v any) (bool, error) {
	var (
		storedVersion int
		data          []byte
	)
	err := db.Pool.QueryRow(ctx,
		"SELECT version, data FROM snapshots WHERE name = $1", name).
		Scan(&storedVersion, &data)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "failed to load snapshot %s", name)
	}

	if storedVersion != version {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, errors.Wrapf(err, "failed to decode snapshot %s", name)
	}
	return true, nil
}

// Save implements Snapshotter
func (db *Postgres) Save(ctx context.Context, name string, version int, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "failed to encode snapshot %s", name)
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO snapshots (name, version, data, updated_at) VALUES ($1, $2, $3::jsonb, NOW())
		ON CONFLICT (name) DO UPDATE SET
			version = EXCLUDED.version,
			data = EXCLUDED.data,
			updated_at = NOW()`,
		name, version, string(data))
	if err != nil {
		return errors.Wrapf(err, "failed to save snapshot %s", name)
	}
	return nil
}

// Close closes the connection pool
func (db *Postgres) Close() error {
	db.Pool.Close()
	return nil
}
