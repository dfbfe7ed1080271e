package onboarding

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory implementation for scaffolding and tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Supplier
}

// NewMemoryRepository creates an empty in-memory supplier repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[uuid.UUID]*Supplier)}
}

func (m *MemoryRepository) Create(_ context.Context, record *Supplier) (*Supplier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneSupplier(record)
	m.records[copied.ID] = copied
	return cloneSupplier(copied), nil
}

func (m *MemoryRepository) Update(_ context.Context, record *Supplier) (*Supplier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[record.ID]; !ok {
		return nil, &NotFoundError{Key: record.ID.String()}
	}
	copied := cloneSupplier(record)
	m.records[copied.ID] = copied
	return cloneSupplier(copied), nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Supplier, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[id]
	if !ok {
		return nil, &NotFoundError{Key: id.String()}
	}
	return cloneSupplier(record), nil
}

func (m *MemoryRepository) GetByEmail(_ context.Context, email string) (*Supplier, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	normalized := strings.ToLower(strings.TrimSpace(email))
	for _, record := range m.records {
		if record.Email == normalized {
			return cloneSupplier(record), nil
		}
	}
	return nil, &NotFoundError{Key: normalized}
}

func cloneSupplier(src *Supplier) *Supplier {
	if src == nil {
		return nil
	}
	copied := *src
	if src.EmailToken != nil {
		token := *src.EmailToken
		copied.EmailToken = &token
	}
	return &copied
}
