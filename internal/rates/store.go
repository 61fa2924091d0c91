package rates

import "sync"

// Store is the persisted key-value table of rate snapshots, keyed by base
// currency code. Writes are whole-value replacements, so readers see either
// the old snapshot or the new one, never a mix.
type Store interface {
	// Get returns the stored text for key, reporting absence via the bool.
	Get(key string) (string, bool, error)

	// Set stores text under key, overwriting any prior value.
	Set(key, value string) error
}

// MemoryStore is a Store backed by an in-process map. It is used for the
// memory backend and by tests.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}
