package proposal

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory implementation for scaffolding and tests.
type MemoryRepository struct {
	mu        sync.RWMutex
	proposals map[uuid.UUID]*Proposal
	about     map[uuid.UUID]*AboutDatasetInfo
	formats   map[uuid.UUID]*DataFormatInfo
	features  map[uuid.UUID][]*Feature
	events    map[uuid.UUID][]*VerificationEvent
}

// NewMemoryRepository creates an empty in-memory proposal repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		proposals: make(map[uuid.UUID]*Proposal),
		about:     make(map[uuid.UUID]*AboutDatasetInfo),
		formats:   make(map[uuid.UUID]*DataFormatInfo),
		features:  make(map[uuid.UUID][]*Feature),
		events:    make(map[uuid.UUID][]*VerificationEvent),
	}
}

func (m *MemoryRepository) Create(_ context.Context, record *Proposal) (*Proposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneProposal(record)
	m.proposals[copied.ID] = copied
	return cloneProposal(copied), nil
}

func (m *MemoryRepository) Update(_ context.Context, record *Proposal) (*Proposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.proposals[record.ID]; !ok {
		return nil, &NotFoundError{Resource: "proposal", Key: record.ID.String()}
	}
	copied := cloneProposal(record)
	m.proposals[copied.ID] = copied
	return cloneProposal(copied), nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Proposal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.proposals[id]
	if !ok {
		return nil, &NotFoundError{Resource: "proposal", Key: id.String()}
	}
	return cloneProposal(record), nil
}

func (m *MemoryRepository) ListBySupplier(_ context.Context, supplierID uuid.UUID) ([]*Proposal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Proposal, 0)
	for _, record := range m.proposals {
		if record.SupplierID == supplierID {
			out = append(out, cloneProposal(record))
		}
	}
	sortProposals(out)
	return out, nil
}

func (m *MemoryRepository) ListDatasets(_ context.Context, supplierID uuid.UUID) ([]*Proposal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Proposal, 0)
	for _, record := range m.proposals {
		if record.SupplierID == supplierID && record.PublishStatus != "" {
			out = append(out, cloneProposal(record))
		}
	}
	sortProposals(out)
	return out, nil
}

func (m *MemoryRepository) UpsertAbout(_ context.Context, record *AboutDatasetInfo) (*AboutDatasetInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneAbout(record)
	m.about[copied.ProposalID] = copied
	return cloneAbout(copied), nil
}

func (m *MemoryRepository) GetAbout(_ context.Context, proposalID uuid.UUID) (*AboutDatasetInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.about[proposalID]
	if !ok {
		return nil, &NotFoundError{Resource: "about_dataset_info", Key: proposalID.String()}
	}
	return cloneAbout(record), nil
}

func (m *MemoryRepository) UpsertFormat(_ context.Context, record *DataFormatInfo) (*DataFormatInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *record
	m.formats[record.ProposalID] = &copied
	result := copied
	return &result, nil
}

func (m *MemoryRepository) GetFormat(_ context.Context, proposalID uuid.UUID) (*DataFormatInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.formats[proposalID]
	if !ok {
		return nil, &NotFoundError{Resource: "data_format_info", Key: proposalID.String()}
	}
	copied := *record
	return &copied, nil
}

func (m *MemoryRepository) ReplaceFeatures(_ context.Context, proposalID uuid.UUID, features []*Feature) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	replacement := make([]*Feature, 0, len(features))
	for _, feature := range features {
		if feature == nil {
			continue
		}
		copied := *feature
		copied.ProposalID = proposalID
		replacement = append(replacement, &copied)
	}
	m.features[proposalID] = replacement
	return nil
}

func (m *MemoryRepository) ListFeatures(_ context.Context, proposalID uuid.UUID) ([]*Feature, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored := m.features[proposalID]
	out := make([]*Feature, 0, len(stored))
	for _, feature := range stored {
		copied := *feature
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *MemoryRepository) AppendEvent(_ context.Context, event *VerificationEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *event
	if event.Notes != nil {
		notes := *event.Notes
		copied.Notes = &notes
	}
	m.events[event.ProposalID] = append(m.events[event.ProposalID], &copied)
	return nil
}

func (m *MemoryRepository) ListEvents(_ context.Context, proposalID uuid.UUID) ([]*VerificationEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored := m.events[proposalID]
	out := make([]*VerificationEvent, 0, len(stored))
	for _, event := range stored {
		copied := *event
		out = append(out, &copied)
	}
	return out, nil
}

func sortProposals(records []*Proposal) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID.String() < records[j].ID.String()
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
}

func cloneProposal(src *Proposal) *Proposal {
	if src == nil {
		return nil
	}
	copied := *src
	copied.DatasetUniqueID = cloneString(src.DatasetUniqueID)
	copied.VerificationNotes = cloneString(src.VerificationNotes)
	copied.RejectionReason = cloneString(src.RejectionReason)
	return &copied
}

func cloneAbout(src *AboutDatasetInfo) *AboutDatasetInfo {
	if src == nil {
		return nil
	}
	copied := *src
	if src.Tags != nil {
		copied.Tags = append([]string(nil), src.Tags...)
	}
	return &copied
}

func cloneString(src *string) *string {
	if src == nil {
		return nil
	}
	value := *src
	return &value
}
