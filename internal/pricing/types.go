package pricing

import (
	"context"
	"time"

	"github.com/goliatone/go-marketplace/internal/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Version is a versioned pricing record attached to a dataset proposal. Each
// version carries its own review lifecycle independent of the proposal's
// verification status. Price is expressed in minor units of Currency.
type Version struct {
	bun.BaseModel `bun:"table:pricing_versions,alias:pv"`

	ID         uuid.UUID            `bun:",pk,type:uuid" json:"id"`
	ProposalID uuid.UUID            `bun:"proposal_id,notnull,type:uuid" json:"proposal_id"`
	Version    int                  `bun:"version,notnull" json:"version"`
	IsPaid     bool                 `bun:"is_paid,notnull,default:false" json:"is_paid"`
	Price      int64                `bun:"price,notnull,default:0" json:"price"`
	Currency   string               `bun:"currency,notnull" json:"currency"`
	Status     domain.PricingStatus `bun:"status,notnull,default:'DRAFT'" json:"status"`
	Notes      *string              `bun:"notes" json:"notes,omitempty"`
	CreatedBy  uuid.UUID            `bun:"created_by,notnull,type:uuid" json:"created_by"`
	CreatedAt  time.Time            `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time            `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Service exposes pricing version use cases.
type Service interface {
	// Upsert creates the first pricing draft for a proposal or mutates the
	// latest version while its status permits edits.
	Upsert(ctx context.Context, req UpsertRequest) (*Version, error)
	// Submit hands the latest pricing version to review. Submitting an already
	// submitted version is an explicit invalid-state error, never a duplicate.
	Submit(ctx context.Context, req SubmitRequest) (*Version, error)
	// RequestChange opens a fresh draft version based on the latest one, used
	// for pricing change requests on published datasets.
	RequestChange(ctx context.Context, req RequestChangeRequest) (*Version, error)
	// Latest returns the newest pricing version for a proposal.
	Latest(ctx context.Context, proposalID uuid.UUID) (*Version, error)
	// ListVersions returns all pricing versions for a proposal, oldest first.
	ListVersions(ctx context.Context, proposalID uuid.UUID) ([]*Version, error)
	// Review applies an admin-side review transition to the latest version.
	Review(ctx context.Context, req ReviewRequest) (*Version, error)
}

// UpsertRequest captures supplier-editable pricing fields.
type UpsertRequest struct {
	ProposalID uuid.UUID
	IsPaid     bool
	Price      int64
	Currency   string
	ActorID    uuid.UUID
}

// SubmitRequest hands the latest pricing version to review.
type SubmitRequest struct {
	ProposalID uuid.UUID
	ActorID    uuid.UUID
}

// RequestChangeRequest opens a new draft version for a published dataset.
type RequestChangeRequest struct {
	ProposalID uuid.UUID
	ActorID    uuid.UUID
}

// ReviewAction identifies an admin-side pricing review transition.
type ReviewAction string

const (
	ReviewStart          ReviewAction = "start_review"
	ReviewRequestChanges ReviewAction = "request_changes"
	ReviewApprove        ReviewAction = "approve"
	ReviewReject         ReviewAction = "reject"
	ReviewDeactivate     ReviewAction = "deactivate"
	ReviewReactivate     ReviewAction = "reactivate"
)

// ReviewRequest applies an admin review transition to the latest version.
type ReviewRequest struct {
	ProposalID uuid.UUID
	Action     ReviewAction
	Notes      *string
	ActorID    uuid.UUID
}

// VersionRepository abstracts storage for pricing versions.
type VersionRepository interface {
	Create(ctx context.Context, record *Version) (*Version, error)
	Update(ctx context.Context, record *Version) (*Version, error)
	Latest(ctx context.Context, proposalID uuid.UUID) (*Version, error)
	ListByProposal(ctx context.Context, proposalID uuid.UUID) ([]*Version, error)
}
