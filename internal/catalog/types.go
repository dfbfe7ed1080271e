package catalog

import (
	"context"
	"time"

	"github.com/goliatone/go-marketplace/internal/domain"
	"github.com/goliatone/go-marketplace/internal/proposal"
	"github.com/google/uuid"
)

// ItemKind tags the variant of a unified listing row.
type ItemKind string

const (
	KindProposal ItemKind = "proposal"
	KindDataset  ItemKind = "dataset"
)

// UnifiedItem merges in-flight proposals and published datasets into a single
// row shape. Kind determines which fields are meaningful: DatasetUniqueID and
// PublishStatus are only set for datasets.
type UnifiedItem struct {
	Kind               ItemKind                  `json:"kind"`
	ID                 uuid.UUID                 `json:"id"`
	Title              string                    `json:"title"`
	DatasetUniqueID    string                    `json:"dataset_unique_id,omitempty"`
	VerificationStatus domain.VerificationStatus `json:"verification_status"`
	PublishStatus      domain.PublishStatus      `json:"publish_status,omitempty"`
	Visibility         proposal.Visibility       `json:"visibility"`
	StatusLabel        string                    `json:"status_label"`
	UpdatedAt          time.Time                 `json:"updated_at"`
}

// Service builds unified listings and renders about descriptions.
type Service interface {
	// ListUnified returns one row per proposal, tagged proposal or dataset
	// depending on whether it acquired a publish status.
	ListUnified(ctx context.Context, supplierID uuid.UUID) ([]UnifiedItem, error)
	// RenderAbout converts the about-dataset markdown description to HTML.
	RenderAbout(markdown string) (string, error)
}
