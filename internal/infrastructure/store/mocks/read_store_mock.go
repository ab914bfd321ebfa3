package mocks

import (
	"slices"
	"sync"
)

// MockReadStore is a mock implementation of ReadStoreInterface for testing
type MockReadStore struct {
	mu   sync.RWMutex
	data map[string]map[string]any // collection -> id -> data

	// For tracking calls in tests
	GetCalls    []Call
	UpsertCalls []Call
}

// Call records the collection and id a method was called with
type Call struct {
	Collection string
	ID         string
}

// NewMockReadStore creates a new MockReadStore
func NewMockReadStore() *MockReadStore {
	return &MockReadStore{
		data:        make(map[string]map[string]any),
		GetCalls:    make([]Call, 0),
		UpsertCalls: make([]Call, 0),
	}
}

// Get retrieves a read model by id
func (m *MockReadStore) Get(collection, id string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls = append(m.GetCalls, Call{Collection: collection, ID: id})

	data, ok := m.data[collection][id]
	return data, ok
}

// GetAll retrieves all items in a collection ordered by id
func (m *MockReadStore) GetAll(collection string) []any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.data[collection]))
	for id := range m.data[collection] {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	items := make([]any, 0, len(ids))
	for _, id := range ids {
		items = append(items, m.data[collection][id])
	}
	return items
}

// Upsert replaces a read model with the result of fn
func (m *MockReadStore) Upsert(collection, id string, fn func(current any, exists bool) any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpsertCalls = append(m.UpsertCalls, Call{Collection: collection, ID: id})

	if m.data[collection] == nil {
		m.data[collection] = make(map[string]any)
	}
	current, ok := m.data[collection][id]
	m.data[collection][id] = fn(current, ok)
}

// SetData sets data directly for testing
func (m *MockReadStore) SetData(collection, id string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[collection] == nil {
		m.data[collection] = make(map[string]any)
	}
	m.data[collection][id] = data
}

// GetData gets data directly for testing (without recording the call)
func (m *MockReadStore) GetData(collection, id string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.data[collection][id]
	return data, ok
}
