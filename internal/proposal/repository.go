package proposal

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewProposalStore(db *bun.DB) repository.Repository[*Proposal] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Proposal]{
		NewRecord: func() *Proposal { return &Proposal{} },
		GetID: func(p *Proposal) uuid.UUID {
			return p.ID
		},
		SetID: func(p *Proposal, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(p *Proposal) string {
			return p.Slug
		},
	})
}

func NewAboutStore(db *bun.DB) repository.Repository[*AboutDatasetInfo] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*AboutDatasetInfo]{
		NewRecord: func() *AboutDatasetInfo { return &AboutDatasetInfo{} },
		GetID: func(a *AboutDatasetInfo) uuid.UUID {
			return a.ID
		},
		SetID: func(a *AboutDatasetInfo, id uuid.UUID) {
			a.ID = id
		},
	})
}

func NewFormatStore(db *bun.DB) repository.Repository[*DataFormatInfo] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*DataFormatInfo]{
		NewRecord: func() *DataFormatInfo { return &DataFormatInfo{} },
		GetID: func(f *DataFormatInfo) uuid.UUID {
			return f.ID
		},
		SetID: func(f *DataFormatInfo, id uuid.UUID) {
			f.ID = id
		},
	})
}

func NewFeatureStore(db *bun.DB) repository.Repository[*Feature] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Feature]{
		NewRecord: func() *Feature { return &Feature{} },
		GetID: func(f *Feature) uuid.UUID {
			return f.ID
		},
		SetID: func(f *Feature, id uuid.UUID) {
			f.ID = id
		},
	})
}

func NewEventStore(db *bun.DB) repository.Repository[*VerificationEvent] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*VerificationEvent]{
		NewRecord: func() *VerificationEvent { return &VerificationEvent{} },
		GetID: func(e *VerificationEvent) uuid.UUID {
			return e.ID
		},
		SetID: func(e *VerificationEvent, id uuid.UUID) {
			e.ID = id
		},
	})
}
