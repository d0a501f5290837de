package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store used by tests and for ephemeral demo
// runs. Error injection fields let tests exercise degraded paths.
type MemoryStore struct {
	mu    sync.RWMutex
	state State

	// Error injection
	LoadError error
	SaveError error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the current state.
func (m *MemoryStore) Load(ctx context.Context) (*State, error) {
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Clone(), nil
}

// SaveStaff replaces the roster snapshot.
func (m *MemoryStore) SaveStaff(ctx context.Context, staff []Staff) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Staff = append([]Staff(nil), staff...)
	return nil
}

// SaveHistory replaces the attendance history snapshot.
func (m *MemoryStore) SaveHistory(ctx context.Context, records []AttendanceRecord) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.History = append([]AttendanceRecord(nil), records...)
	return nil
}

// SaveSettings replaces the endpoint settings.
func (m *MemoryStore) SaveSettings(ctx context.Context, settings Settings) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Settings = settings
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
