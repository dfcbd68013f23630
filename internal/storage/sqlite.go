package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

//go:embed schema/sqlite.sql
var sqliteSchema string

// SQLite stores snapshots in a local SQLite database
type SQLite struct {
	Conn *sql.DB
}

// NewSQLite opens the database at dbPath and applies the schema
func NewSQLite(dbPath string) (*SQLite, error) {
	if dbPath != ":memory:" {
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, errors.Wrap(err, "failed to create database directory")
		}
	}

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	// a single connection keeps ":memory:" databases shared and serializes writers
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	db := &SQLite{Conn: conn}
	if err := db.Migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies the embedded schema
func (db *SQLite) Migrate() error {
	if _, err := db.Conn.Exec(sqliteSchema); err != nil {
		return errors.Wrap(err, "failed to apply schema")
	}
	return nil
}

// Load implements Snapshotter
func (db *SQLite) Load(ctx context.Context, name string, version int, v any) (bool, error) {
	var (
		storedVersion int
		data          string
	)
	err := db.Conn.QueryRowContext(ctx,
		"SELECT version, data FROM snapshots WHERE name = ?", name).
		Scan(&storedVersion, &data)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "failed to load snapshot %s", name)
	}

	if storedVersion != version {
		return false, nil
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return false, errors.Wrapf(err, "failed to decode snapshot %s", name)
	}
	return true, nil
}

// Save implements Snapshotter
func (db *SQLite) Save(ctx context.Context, name string, version int, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "failed to encode snapshot %s", name)
	}

	_, err = db.Conn.ExecContext(ctx, `
		INSERT INTO snapshots (name, version, data, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			version = excluded.version,
			data = excluded.data,
			updated_at = excluded.updated_at`,
		name, version, string(data), time.Now().UnixMilli())
	if err != nil {
		return errors.Wrapf(err, "failed to save snapshot %s", name)
	}
	return nil
}

// Close closes the database connection
func (db *SQLite) Close() error {
	return db.Conn.Close()
}
