package pricing

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewVersionStore(db *bun.DB) repository.Repository[*Version] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Version]{
		NewRecord: func() *Version { return &Version{} },
		GetID: func(v *Version) uuid.UUID {
			return v.ID
		},
		SetID: func(v *Version, id uuid.UUID) {
			v.ID = id
		},
	})
}
