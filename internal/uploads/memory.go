package uploads

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory implementation for scaffolding and tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Upload
}

// NewMemoryRepository creates an empty in-memory upload repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[uuid.UUID]*Upload)}
}

func (m *MemoryRepository) Upsert(_ context.Context, record *Upload) (*Upload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneUpload(record)
	m.records[copied.ProposalID] = copied
	return cloneUpload(copied), nil
}

func (m *MemoryRepository) GetByProposal(_ context.Context, proposalID uuid.UUID) (*Upload, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[proposalID]
	if !ok {
		return nil, &NotFoundError{Key: proposalID.String()}
	}
	return cloneUpload(record), nil
}

func cloneUpload(src *Upload) *Upload {
	if src == nil {
		return nil
	}
	copied := *src
	if src.FailureReason != nil {
		reason := *src.FailureReason
		copied.FailureReason = &reason
	}
	return &copied
}
