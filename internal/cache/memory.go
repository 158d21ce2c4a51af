package cache

import (
	"sync"

	"github.com/trop3n/ARCompanion/internal/models"
)

// MemoryStore is an in-memory Store used by tests and ephemeral runs. It
// mirrors SQLiteStore semantics, including settings defaults and full wipe on
// Clear.
type MemoryStore struct {
	mu       sync.RWMutex
	records  map[string]models.CacheRecord
	settings *models.Settings
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]models.CacheRecord)}
}

func (m *MemoryStore) Get(key string) (models.CacheRecord, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[key]
	return record, ok, nil
}

func (m *MemoryStore) Set(record models.CacheRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.Key] = record
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = make(map[string]models.CacheRecord)
	m.settings = nil
	return nil
}

func (m *MemoryStore) GetSettings() (models.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.settings == nil {
		return models.DefaultSettings(), nil
	}
	return *m.settings, nil
}

func (m *MemoryStore) SetSettings(settings models.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = &settings
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
