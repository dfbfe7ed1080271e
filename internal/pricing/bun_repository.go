package pricing

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type BunVersionRepository struct {
	db   *bun.DB
	repo repository.Repository[*Version]
}

func NewBunVersionRepository(db *bun.DB) *BunVersionRepository {
	return NewBunVersionRepositoryWithCache(db, nil, nil)
}

// NewBunVersionRepositoryWithCache constructs a VersionRepository backed by bun with optional caching.
func NewBunVersionRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunVersionRepository {
	base := NewVersionStore(db)
	return &BunVersionRepository{
		db:   db,
		repo: wrapWithCache(base, cacheService, keySerializer),
	}
}

func (r *BunVersionRepository) Create(ctx context.Context, record *Version) (*Version, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "pricing_version", record.ID.String())
	}
	return created, nil
}

func (r *BunVersionRepository) Update(ctx context.Context, record *Version) (*Version, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"is_paid",
			"price",
			"currency",
			"status",
			"notes",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "pricing_version", record.ID.String())
	}
	return updated, nil
}

func (r *BunVersionRepository) Latest(ctx context.Context, proposalID uuid.UUID) (*Version, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.proposal_id = ?", proposalID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.version DESC")
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "pricing_version", proposalID.String())
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "pricing_version", Key: proposalID.String()}
	}
	return records[0], nil
}

func (r *BunVersionRepository) ListByProposal(ctx context.Context, proposalID uuid.UUID) ([]*Version, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.proposal_id = ?", proposalID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.version ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "pricing_version", proposalID.String())
	}
	return records, nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}

	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}

	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
