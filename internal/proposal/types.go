package proposal

import (
	"context"
	"time"

	"github.com/goliatone/go-marketplace/internal/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Visibility controls who can discover a published dataset.
type Visibility string

const (
	VisibilityPublic  Visibility = "PUBLIC"
	VisibilityPrivate Visibility = "PRIVATE"
)

// Proposal is a supplier's dataset submission moving through the review
// workflow. PublishStatus stays empty until the proposal is verified and
// published; DatasetUniqueID is assigned at publish time.
type Proposal struct {
	bun.BaseModel `bun:"table:dataset_proposals,alias:dp"`

	ID                    uuid.UUID                 `bun:",pk,type:uuid" json:"id"`
	SupplierID            uuid.UUID                 `bun:"supplier_id,notnull,type:uuid" json:"supplier_id"`
	Title                 string                    `bun:"title,notnull" json:"title"`
	Slug                  string                    `bun:"slug,notnull" json:"slug"`
	DatasetUniqueID       *string                   `bun:"dataset_unique_id" json:"dataset_unique_id,omitempty"`
	SuperType             string                    `bun:"super_type" json:"super_type"`
	Category              string                    `bun:"category" json:"category"`
	Source                string                    `bun:"source" json:"source"`
	License               string                    `bun:"license" json:"license"`
	Visibility            Visibility                `bun:"visibility,notnull,default:'PUBLIC'" json:"visibility"`
	VerificationStatus    domain.VerificationStatus `bun:"verification_status,notnull,default:'PENDING'" json:"verification_status"`
	VerificationNotes     *string                   `bun:"verification_notes" json:"verification_notes,omitempty"`
	RejectionReason       *string                   `bun:"rejection_reason" json:"rejection_reason,omitempty"`
	VerificationUpdatedAt time.Time                 `bun:"verification_updated_at,nullzero" json:"verification_updated_at"`
	PublishStatus         domain.PublishStatus      `bun:"publish_status" json:"publish_status,omitempty"`
	CreatedAt             time.Time                 `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt             time.Time                 `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// AboutDatasetInfo is the descriptive sub-section of a proposal. Description
// accepts markdown; the catalog renders it to HTML.
type AboutDatasetInfo struct {
	bun.BaseModel `bun:"table:dataset_about_info,alias:dai"`

	ID              uuid.UUID `bun:",pk,type:uuid" json:"id"`
	ProposalID      uuid.UUID `bun:"proposal_id,notnull,unique,type:uuid" json:"proposal_id"`
	Summary         string    `bun:"summary,notnull" json:"summary"`
	Description     string    `bun:"description" json:"description"`
	Tags            []string  `bun:"tags,type:jsonb" json:"tags,omitempty"`
	UpdateFrequency string    `bun:"update_frequency" json:"update_frequency"`
	CreatedAt       time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt       time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// DataFormatInfo describes the shape of the uploaded file.
type DataFormatInfo struct {
	bun.BaseModel `bun:"table:dataset_format_info,alias:dfi"`

	ID         uuid.UUID `bun:",pk,type:uuid" json:"id"`
	ProposalID uuid.UUID `bun:"proposal_id,notnull,unique,type:uuid" json:"proposal_id"`
	FileFormat string    `bun:"file_format,notnull" json:"file_format"`
	Encoding   string    `bun:"encoding" json:"encoding"`
	Delimiter  string    `bun:"delimiter" json:"delimiter"`
	HasHeader  bool      `bun:"has_header,notnull,default:true" json:"has_header"`
	CreatedAt  time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Feature is a single column/attribute of the dataset.
type Feature struct {
	bun.BaseModel `bun:"table:dataset_features,alias:df"`

	ID          uuid.UUID `bun:",pk,type:uuid" json:"id"`
	ProposalID  uuid.UUID `bun:"proposal_id,notnull,type:uuid" json:"proposal_id"`
	Position    int       `bun:"position,notnull" json:"position"`
	Name        string    `bun:"name,notnull" json:"name"`
	DataType    string    `bun:"data_type,notnull" json:"data_type"`
	Description *string   `bun:"description" json:"description,omitempty"`
	IsNullable  bool      `bun:"is_nullable,notnull,default:false" json:"is_nullable"`
}

// VerificationEvent records one verification status change for audit.
type VerificationEvent struct {
	bun.BaseModel `bun:"table:proposal_verification_events,alias:pve"`

	ID         uuid.UUID                 `bun:",pk,type:uuid" json:"id"`
	ProposalID uuid.UUID                 `bun:"proposal_id,notnull,type:uuid" json:"proposal_id"`
	Transition string                    `bun:"transition,notnull" json:"transition"`
	FromStatus domain.VerificationStatus `bun:"from_status,notnull" json:"from_status"`
	ToStatus   domain.VerificationStatus `bun:"to_status,notnull" json:"to_status"`
	ActorID    uuid.UUID                 `bun:"actor_id,type:uuid" json:"actor_id"`
	Notes      *string                   `bun:"notes" json:"notes,omitempty"`
	CreatedAt  time.Time                 `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// UploadInfo is the read-side view of a proposal's current file upload.
type UploadInfo struct {
	Status           domain.UploadStatus `json:"status"`
	OriginalFileName string              `json:"original_file_name"`
	ContentType      string              `json:"content_type"`
	SizeBytes        int64               `json:"size_bytes"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// PricingInfo is the read-side view of a proposal's latest pricing version.
type PricingInfo struct {
	Version  int                  `json:"version"`
	IsPaid   bool                 `json:"is_paid"`
	Price    int64                `json:"price"`
	Currency string               `json:"currency"`
	Status   domain.PricingStatus `json:"status"`
}

// Detail is the composed aggregate served to detail views. Optional
// sub-sections are nil until the supplier fills them.
type Detail struct {
	Proposal *Proposal         `json:"proposal"`
	About    *AboutDatasetInfo `json:"about,omitempty"`
	Format   *DataFormatInfo   `json:"format,omitempty"`
	Features []*Feature        `json:"features"`
	Upload   *UploadInfo       `json:"upload,omitempty"`
	Pricing  *PricingInfo      `json:"pricing,omitempty"`
}

// PricingGateway decouples the proposal service from the pricing package.
// Latest returns nil when the proposal has no pricing version yet.
type PricingGateway interface {
	Latest(ctx context.Context, proposalID uuid.UUID) (*PricingInfo, error)
	Submit(ctx context.Context, proposalID, actorID uuid.UUID) error
	OpenChangeRequest(ctx context.Context, proposalID, actorID uuid.UUID) error
}

// UploadReader exposes the current upload for prerequisite checks and detail
// views. Current returns nil when no upload was ever started.
type UploadReader interface {
	Current(ctx context.Context, proposalID uuid.UUID) (*UploadInfo, error)
}

// Service exposes the proposal lifecycle use cases.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Proposal, error)
	Get(ctx context.Context, proposalID uuid.UUID) (*Detail, error)
	ListMine(ctx context.Context, supplierID uuid.UUID) ([]*Proposal, error)
	// ListMyDatasets returns only proposals that acquired a publish status.
	ListMyDatasets(ctx context.Context, supplierID uuid.UUID) ([]*Proposal, error)

	UpsertAboutInfo(ctx context.Context, req UpsertAboutRequest) (*AboutDatasetInfo, error)
	UpsertDataFormatInfo(ctx context.Context, req UpsertDataFormatRequest) (*DataFormatInfo, error)
	ReplaceFeatures(ctx context.Context, req ReplaceFeaturesRequest) ([]*Feature, error)

	// CheckPrerequisites returns the missing requirement names, order-stable.
	// An empty slice means the proposal is ready to submit.
	CheckPrerequisites(ctx context.Context, proposalID uuid.UUID) ([]string, error)
	// Submit runs the prerequisite check, cascades a DRAFT pricing submission
	// first, then transitions the proposal. The returned status is whatever
	// the workflow engine produced, never recomputed by callers.
	Submit(ctx context.Context, req SubmitRequest) (*Proposal, error)

	Publish(ctx context.Context, req PublishRequest) (*Proposal, error)
	ChangeVisibility(ctx context.Context, req ChangeVisibilityRequest) (*Proposal, error)
	RequestPricingChange(ctx context.Context, req RequestPricingChangeRequest) (*Proposal, error)
	Archive(ctx context.Context, req ArchiveRequest) (*Proposal, error)

	// Review applies an admin-side verification transition.
	Review(ctx context.Context, req ReviewRequest) (*Proposal, error)
	History(ctx context.Context, proposalID uuid.UUID) ([]*VerificationEvent, error)
}

// CreateRequest opens a new proposal in PENDING.
type CreateRequest struct {
	SupplierID uuid.UUID
	Title      string
	SuperType  string
	Category   string
	Source     string
	License    string
	Visibility Visibility
}

// UpsertAboutRequest fills or updates the about sub-section.
type UpsertAboutRequest struct {
	ProposalID      uuid.UUID
	Summary         string
	Description     string
	Tags            []string
	UpdateFrequency string
	ActorID         uuid.UUID
}

// UpsertDataFormatRequest fills or updates the data format sub-section.
type UpsertDataFormatRequest struct {
	ProposalID uuid.UUID
	FileFormat string
	Encoding   string
	Delimiter  string
	HasHeader  bool
	ActorID    uuid.UUID
}

// FeatureInput is one column definition in a ReplaceFeatures call.
type FeatureInput struct {
	Name        string
	DataType    string
	Description *string
	IsNullable  bool
}

// ReplaceFeaturesRequest swaps the full feature list atomically.
type ReplaceFeaturesRequest struct {
	ProposalID uuid.UUID
	Features   []FeatureInput
	ActorID    uuid.UUID
}

// SubmitRequest hands the proposal to review.
type SubmitRequest struct {
	ProposalID uuid.UUID
	ActorID    uuid.UUID
}

// PublishRequest publishes a verified proposal.
type PublishRequest struct {
	ProposalID uuid.UUID
	ActorID    uuid.UUID
}

// ChangeVisibilityRequest flips visibility on a published dataset.
type ChangeVisibilityRequest struct {
	ProposalID uuid.UUID
	Visibility Visibility
	ActorID    uuid.UUID
}

// RequestPricingChangeRequest opens a pricing change on a published dataset.
type RequestPricingChangeRequest struct {
	ProposalID uuid.UUID
	ActorID    uuid.UUID
}

// ArchiveRequest archives a published dataset.
type ArchiveRequest struct {
	ProposalID uuid.UUID
	ActorID    uuid.UUID
}

// ReviewAction identifies an admin-side verification transition.
type ReviewAction string

const (
	ReviewStartReview    ReviewAction = "start_review"
	ReviewRequestChanges ReviewAction = "request_changes"
	ReviewVerify         ReviewAction = "verify"
	ReviewReject         ReviewAction = "reject"
)

// ReviewRequest applies an admin verification transition.
type ReviewRequest struct {
	ProposalID uuid.UUID
	Action     ReviewAction
	Notes      *string
	Reason     *string
	ActorID    uuid.UUID
}

// Repository abstracts storage for proposals and their sub-sections.
type Repository interface {
	Create(ctx context.Context, record *Proposal) (*Proposal, error)
	Update(ctx context.Context, record *Proposal) (*Proposal, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Proposal, error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]*Proposal, error)
	ListDatasets(ctx context.Context, supplierID uuid.UUID) ([]*Proposal, error)

	UpsertAbout(ctx context.Context, record *AboutDatasetInfo) (*AboutDatasetInfo, error)
	GetAbout(ctx context.Context, proposalID uuid.UUID) (*AboutDatasetInfo, error)
	UpsertFormat(ctx context.Context, record *DataFormatInfo) (*DataFormatInfo, error)
	GetFormat(ctx context.Context, proposalID uuid.UUID) (*DataFormatInfo, error)
	ReplaceFeatures(ctx context.Context, proposalID uuid.UUID, features []*Feature) error
	ListFeatures(ctx context.Context, proposalID uuid.UUID) ([]*Feature, error)

	AppendEvent(ctx context.Context, event *VerificationEvent) error
	ListEvents(ctx context.Context, proposalID uuid.UUID) ([]*VerificationEvent, error)
}
