package snapshotcache

import (
	"context"
	"sync"

	"github.com/fastprodman/finrecon/internal/services/recon"
)

var _ Cache = (*Memory)(nil)

// Memory is a process-local Cache.
type Memory struct {
	mu    sync.RWMutex
	snaps map[string]recon.Snapshot
}

func NewMemory() *Memory {
	return &Memory{snaps: make(map[string]recon.Snapshot)}
}

func (m *Memory) Get(_ context.Context, key string) (recon.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.snaps[key]
	if !ok {
		return recon.Snapshot{}, ErrNotFound
	}

	return snap, nil
}

func (m *Memory) Put(_ context.Context, key string, snap recon.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snaps[key] = snap

	return nil
}
