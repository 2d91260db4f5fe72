package content

import (
	"context"
	"sync"
)

// Backend is flat string key-value storage shared by all namespaces.
// Implementations must be safe for concurrent use.
type Backend interface {
	// GetItem returns the value stored at key and whether it exists.
	GetItem(ctx context.Context, key string) (string, bool, error)

	// SetItem overwrites the value stored at key.
	SetItem(ctx context.Context, key, value string) error

	// RemoveItem deletes key. Removing a missing key is not an error.
	RemoveItem(ctx context.Context, key string) error
}

// MemoryBackend is an in-process Backend.
//
// It counts successful writes and can be told to fail reads or writes,
// which makes it the standard fake for store and controller tests.
type MemoryBackend struct {
	mu       sync.Mutex
	items    map[string]string
	writes   int
	writeErr error
	readErr  error
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{items: make(map[string]string)}
}

// GetItem implements Backend.
func (m *MemoryBackend) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return "", false, m.readErr
	}
	v, ok := m.items[key]
	return v, ok, nil
}

// SetItem implements Backend.
func (m *MemoryBackend) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.items[key] = value
	m.writes++
	return nil
}

// RemoveItem implements Backend.
func (m *MemoryBackend) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	delete(m.items, key)
	m.writes++
	return nil
}

// Writes returns the number of successful SetItem/RemoveItem calls.
func (m *MemoryBackend) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Raw returns the stored value at key without going through a Store.
func (m *MemoryBackend) Raw(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok
}

// FailWrites makes every subsequent write return err. Pass nil to recover.
func (m *MemoryBackend) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// FailReads makes every subsequent read return err. Pass nil to recover.
func (m *MemoryBackend) FailReads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}
