package uploads

import (
	"context"
	"time"

	"github.com/goliatone/go-marketplace/internal/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Upload is the current file upload attached to a dataset proposal. Each
// proposal holds at most one current upload; presigning a new file replaces it.
type Upload struct {
	bun.BaseModel `bun:"table:dataset_uploads,alias:du"`

	ID               uuid.UUID           `bun:",pk,type:uuid" json:"id"`
	ProposalID       uuid.UUID           `bun:"proposal_id,notnull,unique,type:uuid" json:"proposal_id"`
	Status           domain.UploadStatus `bun:"status,notnull,default:'NONE'" json:"status"`
	OriginalFileName string              `bun:"original_file_name,notnull" json:"original_file_name"`
	ContentType      string              `bun:"content_type,notnull" json:"content_type"`
	ObjectKey        string              `bun:"object_key,notnull" json:"object_key"`
	SizeBytes        int64               `bun:"size_bytes,notnull,default:0" json:"size_bytes"`
	FailureReason    *string             `bun:"failure_reason" json:"failure_reason,omitempty"`
	CreatedAt        time.Time           `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time           `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// PresignedPut is a signed URL the caller PUTs the file bytes to.
type PresignedPut struct {
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	ObjectKey string    `json:"object_key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Presigner issues signed PUT URLs for direct-to-storage uploads.
type Presigner interface {
	PresignPut(ctx context.Context, objectKey, contentType string) (*PresignedPut, error)
}

// ProposalReader reports the owning proposal's verification status so the
// upload protocol honors the same editability rules as the other sub-sections.
type ProposalReader interface {
	VerificationStatus(ctx context.Context, proposalID uuid.UUID) (domain.VerificationStatus, error)
}

// Service drives the 3-step upload protocol: Presign, direct PUT to storage,
// Complete. A failed PUT is reported through Fail.
type Service interface {
	Presign(ctx context.Context, req PresignRequest) (*PresignedPut, error)
	Complete(ctx context.Context, req CompleteRequest) (*Upload, error)
	Fail(ctx context.Context, req FailRequest) (*Upload, error)
	// Current returns the proposal's current upload record.
	Current(ctx context.Context, proposalID uuid.UUID) (*Upload, error)
}

// PresignRequest starts an upload for a proposal.
type PresignRequest struct {
	ProposalID       uuid.UUID
	OriginalFileName string
	ContentType      string
}

// CompleteRequest finalizes an upload after the PUT succeeded.
type CompleteRequest struct {
	ProposalID uuid.UUID
	SizeBytes  int64
}

// FailRequest marks the in-flight upload as failed.
type FailRequest struct {
	ProposalID uuid.UUID
	Reason     string
}

// Repository abstracts storage for upload records.
type Repository interface {
	Upsert(ctx context.Context, record *Upload) (*Upload, error)
	GetByProposal(ctx context.Context, proposalID uuid.UUID) (*Upload, error)
}
