package domain

import (
	"fmt"
	"strings"
)

// VerificationStatus represents the review-workflow state of a dataset proposal.
// The values mirror the wire representation used by the marketplace API.
type VerificationStatus string

const (
	// VerificationPending marks a freshly created proposal still being drafted.
	VerificationPending VerificationStatus = "PENDING"
	// VerificationSubmitted marks a proposal handed to review for the first time.
	VerificationSubmitted VerificationStatus = "SUBMITTED"
	// VerificationChangesRequested marks a proposal returned to the supplier for edits.
	VerificationChangesRequested VerificationStatus = "CHANGES_REQUESTED"
	// VerificationResubmitted marks a proposal handed back to review after changes.
	VerificationResubmitted VerificationStatus = "RESUBMITTED"
	// VerificationUnderReview marks a proposal an admin is actively reviewing.
	VerificationUnderReview VerificationStatus = "UNDER_REVIEW"
	// VerificationVerified marks a proposal that passed review. Terminal.
	VerificationVerified VerificationStatus = "VERIFIED"
	// VerificationRejected marks a proposal that failed review. Terminal.
	VerificationRejected VerificationStatus = "REJECTED"
)

// PublishStatus represents whether a verified proposal's dataset is live.
// A proposal only acquires a publish status once verification reached VERIFIED.
type PublishStatus string

const (
	// PublishVerified marks a verified dataset that has not been published yet.
	PublishVerified PublishStatus = "VERIFIED"
	// PublishPublished marks a dataset live on the marketplace.
	PublishPublished PublishStatus = "PUBLISHED"
	// PublishArchived marks a dataset withdrawn from the marketplace. Terminal.
	PublishArchived PublishStatus = "ARCHIVED"
)

// PricingStatus represents the independent review lifecycle of a pricing version.
type PricingStatus string

const (
	PricingDraft            PricingStatus = "DRAFT"
	PricingSubmitted        PricingStatus = "SUBMITTED"
	PricingChangesRequested PricingStatus = "CHANGES_REQUESTED"
	PricingResubmitted      PricingStatus = "RESUBMITTED"
	PricingUnderReview      PricingStatus = "UNDER_REVIEW"
	PricingActive           PricingStatus = "ACTIVE"
	PricingRejected         PricingStatus = "REJECTED"
	PricingInactive         PricingStatus = "INACTIVE"
)

// UploadStatus represents the state of a proposal's current file upload.
type UploadStatus string

const (
	UploadNone      UploadStatus = "NONE"
	UploadUploading UploadStatus = "UPLOADING"
	UploadUploaded  UploadStatus = "UPLOADED"
	UploadFailed    UploadStatus = "FAILED"
)

// VerificationStatuses returns every verification status in lifecycle order.
func VerificationStatuses() []VerificationStatus {
	return []VerificationStatus{
		VerificationPending,
		VerificationSubmitted,
		VerificationChangesRequested,
		VerificationResubmitted,
		VerificationUnderReview,
		VerificationVerified,
		VerificationRejected,
	}
}

// PublishStatuses returns every publish status in lifecycle order.
func PublishStatuses() []PublishStatus {
	return []PublishStatus{PublishVerified, PublishPublished, PublishArchived}
}

// PricingStatuses returns every pricing status in lifecycle order.
func PricingStatuses() []PricingStatus {
	return []PricingStatus{
		PricingDraft,
		PricingSubmitted,
		PricingChangesRequested,
		PricingResubmitted,
		PricingUnderReview,
		PricingActive,
		PricingRejected,
		PricingInactive,
	}
}

// UploadStatuses returns every upload status.
func UploadStatuses() []UploadStatus {
	return []UploadStatus{UploadNone, UploadUploading, UploadUploaded, UploadFailed}
}

// ParseVerificationStatus resolves a wire value into a VerificationStatus. Unknown
// values are an error, never a silent default.
func ParseVerificationStatus(value string) (VerificationStatus, error) {
	status := VerificationStatus(normalize(value))
	for _, known := range VerificationStatuses() {
		if status == known {
			return status, nil
		}
	}
	return "", fmt.Errorf("domain: unknown verification status %q", value)
}

// ParsePublishStatus resolves a wire value into a PublishStatus.
func ParsePublishStatus(value string) (PublishStatus, error) {
	status := PublishStatus(normalize(value))
	for _, known := range PublishStatuses() {
		if status == known {
			return status, nil
		}
	}
	return "", fmt.Errorf("domain: unknown publish status %q", value)
}

// ParsePricingStatus resolves a wire value into a PricingStatus.
func ParsePricingStatus(value string) (PricingStatus, error) {
	status := PricingStatus(normalize(value))
	for _, known := range PricingStatuses() {
		if status == known {
			return status, nil
		}
	}
	return "", fmt.Errorf("domain: unknown pricing status %q", value)
}

// ParseUploadStatus resolves a wire value into an UploadStatus.
func ParseUploadStatus(value string) (UploadStatus, error) {
	status := UploadStatus(normalize(value))
	for _, known := range UploadStatuses() {
		if status == known {
			return status, nil
		}
	}
	return "", fmt.Errorf("domain: unknown upload status %q", value)
}

func normalize(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}
