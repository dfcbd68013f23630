package services

import (
	"context"
	"time"

	"github.com/kovin-ide/kovin/internal/storage"
	"github.com/rs/zerolog"
)

// Snapshot names and versions, one record per store
const (
	snapshotProjects = "project-store"
	snapshotFiles    = "file-store"
	snapshotAccount  = "account-store"
	snapshotTerminal = "terminal-store"
	snapshotAuth     = "auth-store"

	snapshotVersion = 1
)

const persistTimeout = 5 * time.Second

// persister writes one store's snapshot. Failures are logged and never
// returned to the mutating caller.
type persister struct {
	snap storage.Snapshotter
	name string
	log  zerolog.Logger
}

func newPersister(snap storage.Snapshotter, name string, log zerolog.Logger) persister {
	return persister{snap: snap, name: name, log: log}
}

func (p persister) load(v any) bool {
	if p.snap == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	found, err := p.snap.Load(ctx, p.name, snapshotVersion, v)
	if err != nil {
		p.log.Error().Err(err).Str("snapshot", p.name).Msg("failed to load snapshot, starting fresh")
		return false
	}
	return found
}

func (p persister) save(v any) {
	if p.snap == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := p.snap.Save(ctx, p.name, snapshotVersion, v); err != nil {
		p.log.Error().Err(err).Str("snapshot", p.name).Msg("failed to persist snapshot")
	}
}
