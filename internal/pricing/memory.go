package pricing

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryVersionRepository is an in-memory implementation for scaffolding and tests.
type MemoryVersionRepository struct {
	mu       sync.RWMutex
	versions map[uuid.UUID]*Version
}

// NewMemoryVersionRepository creates an empty in-memory pricing repository.
func NewMemoryVersionRepository() *MemoryVersionRepository {
	return &MemoryVersionRepository{versions: make(map[uuid.UUID]*Version)}
}

// Create inserts the supplied pricing version.
func (m *MemoryVersionRepository) Create(_ context.Context, record *Version) (*Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneVersion(record)
	m.versions[copied.ID] = copied
	return cloneVersion(copied), nil
}

// Update replaces a stored pricing version.
func (m *MemoryVersionRepository) Update(_ context.Context, record *Version) (*Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.versions[record.ID]; !ok {
		return nil, &NotFoundError{Resource: "pricing_version", Key: record.ID.String()}
	}
	copied := cloneVersion(record)
	m.versions[copied.ID] = copied
	return cloneVersion(copied), nil
}

// Latest returns the highest-numbered version for a proposal.
func (m *MemoryVersionRepository) Latest(_ context.Context, proposalID uuid.UUID) (*Version, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *Version
	for _, version := range m.versions {
		if version.ProposalID != proposalID {
			continue
		}
		if latest == nil || version.Version > latest.Version {
			latest = version
		}
	}
	if latest == nil {
		return nil, &NotFoundError{Resource: "pricing_version", Key: proposalID.String()}
	}
	return cloneVersion(latest), nil
}

// ListByProposal returns all versions for a proposal, oldest first.
func (m *MemoryVersionRepository) ListByProposal(_ context.Context, proposalID uuid.UUID) ([]*Version, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Version, 0)
	for _, version := range m.versions {
		if version.ProposalID == proposalID {
			out = append(out, cloneVersion(version))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func cloneVersion(src *Version) *Version {
	if src == nil {
		return nil
	}
	copied := *src
	if src.Notes != nil {
		notes := *src.Notes
		copied.Notes = &notes
	}
	return &copied
}
