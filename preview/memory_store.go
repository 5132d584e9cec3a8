package preview

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory preview store for scaffolding and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Preview
}

// NewMemoryStore constructs the store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[uuid.UUID]*Preview),
	}
}

// Create inserts the supplied preview.
func (m *MemoryStore) Create(_ context.Context, record *Preview) (*Preview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := clonePreview(record)
	m.records[copied.ID] = copied
	return clonePreview(copied), nil
}

// GetByID retrieves a preview by identifier.
func (m *MemoryStore) GetByID(_ context.Context, id uuid.UUID) (*Preview, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[id]
	if !ok {
		return nil, &NotFoundError{Key: id.String()}
	}
	return clonePreview(record), nil
}

// Update replaces a stored preview.
func (m *MemoryStore) Update(_ context.Context, record *Preview) (*Preview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[record.ID]; !ok {
		return nil, &NotFoundError{Key: record.ID.String()}
	}
	copied := clonePreview(record)
	m.records[copied.ID] = copied
	return clonePreview(copied), nil
}

// Delete removes a preview.
func (m *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return &NotFoundError{Key: id.String()}
	}
	delete(m.records, id)
	return nil
}

// List returns every stored preview.
func (m *MemoryStore) List(_ context.Context) ([]*Preview, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Preview, 0, len(m.records))
	for _, record := range m.records {
		out = append(out, clonePreview(record))
	}
	return out, nil
}

// DeleteExpired removes previews past their retention window.
func (m *MemoryStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, record := range m.records {
		if record.Expired(now) {
			delete(m.records, id)
			removed++
		}
	}
	return removed, nil
}
