package storage

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
)

type memoryRecord struct {
	version int
	data    []byte
}

// Memory keeps snapshots in process memory
type Memory struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
}

// NewMemory creates an empty in-memory snapshotter
func NewMemory() *Memory {
	return &Memory{records: make(map[string]memoryRecord)}
}

// Load implements Snapshotter
func (m *Memory) Load(_ context.Context, name string, version int, v any) (bool, error) {
	m.mu.RLock()
	rec, ok := m.records[name]
	m.mu.RUnlock()

	if !ok || rec.version != version {
		return false, nil
	}
	if err := json.Unmarshal(rec.data, v); err != nil {
		return false, errors.Wrapf(err, "failed to decode snapshot %s", name)
	}
	return true, nil
}

// Save implements Snapshotter
func (m *Memory) Save(_ context.Context, name string, version int, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "failed to encode snapshot %s", name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[name] = memoryRecord{version: version, data: data}
	return nil
}

// Close implements Snapshotter
func (m *Memory) Close() error {
	return nil
}
