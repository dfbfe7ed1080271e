package onboarding

import (
	"context"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewSupplierStore(db *bun.DB) repository.Repository[*Supplier] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Supplier]{
		NewRecord: func() *Supplier { return &Supplier{} },
		GetID: func(s *Supplier) uuid.UUID {
			return s.ID
		},
		SetID: func(s *Supplier, id uuid.UUID) {
			s.ID = id
		},
		GetIdentifier: func() string {
			return "email"
		},
		GetIdentifierValue: func(s *Supplier) string {
			return s.Email
		},
	})
}

type BunRepository struct {
	repo repository.Repository[*Supplier]
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{repo: NewSupplierStore(db)}
}

func (r *BunRepository) Create(ctx context.Context, record *Supplier) (*Supplier, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, record.ID.String())
	}
	return created, nil
}

func (r *BunRepository) Update(ctx context.Context, record *Supplier) (*Supplier, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"email_verified",
			"email_token",
			"status",
			"supplier_type",
			"identity_verified",
			"profile_completed",
			"display_name",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, record.ID.String())
	}
	return updated, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Supplier, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return record, nil
}

func (r *BunRepository) GetByEmail(ctx context.Context, email string) (*Supplier, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.email = ?", email)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, email)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Key: email}
	}
	return records[0], nil
}

var _ Repository = (*BunRepository)(nil)

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}

	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Key: key}
	}

	var nf *NotFoundError
	if errors.As(err, &nf) {
		return err
	}
	return fmt.Errorf("supplier repository error: %w", err)
}
