package uploads

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewUploadStore(db *bun.DB) repository.Repository[*Upload] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Upload]{
		NewRecord: func() *Upload { return &Upload{} },
		GetID: func(u *Upload) uuid.UUID {
			return u.ID
		},
		SetID: func(u *Upload, id uuid.UUID) {
			u.ID = id
		},
		GetIdentifier: func() string {
			return "object_key"
		},
		GetIdentifierValue: func(u *Upload) string {
			return u.ObjectKey
		},
	})
}
