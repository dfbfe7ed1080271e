package uploads

import (
	"context"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type BunRepository struct {
	db   *bun.DB
	repo repository.Repository[*Upload]
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db, repo: NewUploadStore(db)}
}

func (r *BunRepository) Upsert(ctx context.Context, record *Upload) (*Upload, error) {
	existing, err := r.GetByProposal(ctx, record.ProposalID)
	if err != nil {
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
		created, err := r.repo.Create(ctx, record)
		if err != nil {
			return nil, mapRepositoryError(err, record.ProposalID.String())
		}
		return created, nil
	}

	record.ID = existing.ID
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"status",
			"original_file_name",
			"content_type",
			"object_key",
			"size_bytes",
			"failure_reason",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, record.ProposalID.String())
	}
	return updated, nil
}

func (r *BunRepository) GetByProposal(ctx context.Context, proposalID uuid.UUID) (*Upload, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.proposal_id = ?", proposalID)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, proposalID.String())
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Key: proposalID.String()}
	}
	return records[0], nil
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}

	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Key: key}
	}

	return fmt.Errorf("upload repository error: %w", err)
}
