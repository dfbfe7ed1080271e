package proposal

import (
	"context"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type BunRepository struct {
	db        *bun.DB
	proposals repository.Repository[*Proposal]
	about     repository.Repository[*AboutDatasetInfo]
	formats   repository.Repository[*DataFormatInfo]
	features  repository.Repository[*Feature]
	events    repository.Repository[*VerificationEvent]
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache constructs a proposal Repository backed by bun with optional caching.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRepository {
	return &BunRepository{
		db:        db,
		proposals: wrapWithCache(NewProposalStore(db), cacheService, keySerializer),
		about:     wrapWithCache(NewAboutStore(db), cacheService, keySerializer),
		formats:   wrapWithCache(NewFormatStore(db), cacheService, keySerializer),
		features:  wrapWithCache(NewFeatureStore(db), cacheService, keySerializer),
		events:    wrapWithCache(NewEventStore(db), cacheService, keySerializer),
	}
}

func (r *BunRepository) Create(ctx context.Context, record *Proposal) (*Proposal, error) {
	created, err := r.proposals.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "proposal", record.ID.String())
	}
	return created, nil
}

func (r *BunRepository) Update(ctx context.Context, record *Proposal) (*Proposal, error) {
	updated, err := r.proposals.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"title",
			"slug",
			"dataset_unique_id",
			"super_type",
			"category",
			"source",
			"license",
			"visibility",
			"verification_status",
			"verification_notes",
			"rejection_reason",
			"verification_updated_at",
			"publish_status",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "proposal", record.ID.String())
	}
	return updated, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Proposal, error) {
	record, err := r.proposals.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "proposal", id.String())
	}
	return record, nil
}

func (r *BunRepository) ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]*Proposal, error) {
	records, _, err := r.proposals.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.supplier_id = ?", supplierID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.created_at ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "proposal", supplierID.String())
	}
	return records, nil
}

func (r *BunRepository) ListDatasets(ctx context.Context, supplierID uuid.UUID) ([]*Proposal, error) {
	records, _, err := r.proposals.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.supplier_id = ?", supplierID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.publish_status IS NOT NULL AND ?TableAlias.publish_status != ''")
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.created_at ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "proposal", supplierID.String())
	}
	return records, nil
}

func (r *BunRepository) UpsertAbout(ctx context.Context, record *AboutDatasetInfo) (*AboutDatasetInfo, error) {
	existing, err := r.GetAbout(ctx, record.ProposalID)
	if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		created, err := r.about.Create(ctx, record)
		if err != nil {
			return nil, mapRepositoryError(err, "about_dataset_info", record.ProposalID.String())
		}
		return created, nil
	}

	record.ID = existing.ID
	updated, err := r.about.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns("summary", "description", "tags", "update_frequency", "updated_at"),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "about_dataset_info", record.ProposalID.String())
	}
	return updated, nil
}

func (r *BunRepository) GetAbout(ctx context.Context, proposalID uuid.UUID) (*AboutDatasetInfo, error) {
	records, _, err := r.about.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.proposal_id = ?", proposalID)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "about_dataset_info", proposalID.String())
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "about_dataset_info", Key: proposalID.String()}
	}
	return records[0], nil
}

func (r *BunRepository) UpsertFormat(ctx context.Context, record *DataFormatInfo) (*DataFormatInfo, error) {
	existing, err := r.GetFormat(ctx, record.ProposalID)
	if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		created, err := r.formats.Create(ctx, record)
		if err != nil {
			return nil, mapRepositoryError(err, "data_format_info", record.ProposalID.String())
		}
		return created, nil
	}

	record.ID = existing.ID
	updated, err := r.formats.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns("file_format", "encoding", "delimiter", "has_header", "updated_at"),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "data_format_info", record.ProposalID.String())
	}
	return updated, nil
}

func (r *BunRepository) GetFormat(ctx context.Context, proposalID uuid.UUID) (*DataFormatInfo, error) {
	records, _, err := r.formats.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.proposal_id = ?", proposalID)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "data_format_info", proposalID.String())
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "data_format_info", Key: proposalID.String()}
	}
	return records[0], nil
}

// ReplaceFeatures swaps the full feature list inside one transaction so a
// partial write never leaves a proposal with a mixed column set.
func (r *BunRepository) ReplaceFeatures(ctx context.Context, proposalID uuid.UUID, features []*Feature) error {
	if r.db == nil {
		return fmt.Errorf("proposal repository: database not configured")
	}

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*Feature)(nil)).
			Where("?TableAlias.proposal_id = ?", proposalID).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete proposal features: %w", err)
		}

		if len(features) == 0 {
			return nil
		}

		toInsert := make([]*Feature, 0, len(features))
		for _, feature := range features {
			if feature == nil {
				continue
			}
			cloned := *feature
			cloned.ProposalID = proposalID
			if cloned.ID == uuid.Nil {
				cloned.ID = uuid.New()
			}
			toInsert = append(toInsert, &cloned)
		}
		if len(toInsert) == 0 {
			return nil
		}

		if _, err := tx.NewInsert().Model(&toInsert).Exec(ctx); err != nil {
			return fmt.Errorf("insert proposal features: %w", err)
		}
		return nil
	})
}

func (r *BunRepository) ListFeatures(ctx context.Context, proposalID uuid.UUID) ([]*Feature, error) {
	records, _, err := r.features.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.proposal_id = ?", proposalID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.position ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "dataset_feature", proposalID.String())
	}
	return records, nil
}

func (r *BunRepository) AppendEvent(ctx context.Context, event *VerificationEvent) error {
	if _, err := r.events.Create(ctx, event); err != nil {
		return mapRepositoryError(err, "verification_event", event.ProposalID.String())
	}
	return nil
}

func (r *BunRepository) ListEvents(ctx context.Context, proposalID uuid.UUID) ([]*VerificationEvent, error) {
	records, _, err := r.events.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.proposal_id = ?", proposalID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.created_at ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "verification_event", proposalID.String())
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
