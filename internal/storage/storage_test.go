package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kovin-ide/kovin/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSnapshot struct {
	Projects []string          `json:"projects"`
	Active   *string           `json:"active"`
	Files    map[string]string `json:"files"`
}

func snapshotters(t *testing.T) map[string]Snapshotter {
	t.Helper()

	sqlite, err := NewSQLite(filepath.Join(t.TempDir(), "nested", "kovin.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	all := map[string]Snapshotter{
		"memory": NewMemory(),
		"sqlite": sqlite,
	}

	if url := os.Getenv("KOVIN_TEST_POSTGRES_URL"); url != "" {
		pg, err := NewPostgres(context.Background(), url)
		require.NoError(t, err)
		require.NoError(t, pg.Migrate())
		t.Cleanup(func() { pg.Close() })
		all["postgres"] = pg
	}

	return all
}

func TestSnapshotter_RoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, s := range snapshotters(t) {
		t.Run(name, func(t *testing.T) {
			active := "p2"
			in := testSnapshot{
				Projects: []string{"p1", "p2"},
				Active:   &active,
				Files:    map[string]string{"contracts/A.sol": "// a"},
			}
			require.NoError(t, s.Save(ctx, "round-trip", 1, in))

			var out testSnapshot
			found, err := s.Load(ctx, "round-trip", 1, &out)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, in, out)
		})
	}
}

func TestSnapshotter_Missing(t *testing.T) {
	ctx := context.Background()

	for name, s := range snapshotters(t) {
		t.Run(name, func(t *testing.T) {
			var out testSnapshot
			found, err := s.Load(ctx, "does-not-exist", 1, &out)
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestSnapshotter_VersionMismatchIsIgnored(t *testing.T) {
	ctx := context.Background()

	for name, s := range snapshotters(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save(ctx, "versioned", 1, testSnapshot{Projects: []string{"old"}}))

			var out testSnapshot
			found, err := s.Load(ctx, "versioned", 2, &out)
			require.NoError(t, err)
			assert.False(t, found)
			assert.Nil(t, out.Projects)
		})
	}
}

func TestSnapshotter_SaveOverwrites(t *testing.T) {
	ctx := context.Background()

	for name, s := range snapshotters(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save(ctx, "overwrite", 1, testSnapshot{Projects: []string{"a"}}))
			require.NoError(t, s.Save(ctx, "overwrite", 1, testSnapshot{Projects: []string{"b", "c"}}))

			var out testSnapshot
			found, err := s.Load(ctx, "overwrite", 1, &out)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, []string{"b", "c"}, out.Projects)
		})
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kovin.db")

	db, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, db.Save(ctx, "project-store", 1, testSnapshot{Projects: []string{"p1"}}))
	require.NoError(t, db.Close())

	db, err = NewSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	var out testSnapshot
	found, err := db.Load(ctx, "project-store", 1, &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"p1"}, out.Projects)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, &config.StorageConfig{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(ctx, &config.StorageConfig{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "k.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, s)
	s.Close()

	_, err = Open(ctx, &config.StorageConfig{Driver: "redis"})
	assert.Error(t, err)
}
