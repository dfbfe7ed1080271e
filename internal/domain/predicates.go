package domain

import "fmt"

// The predicate layer is the single source of truth for what a status permits.
// Every service and view consults these functions; none re-derive the rules.

// IsEditable reports whether a proposal's sub-sections may still be mutated.
func IsEditable(status VerificationStatus) bool {
	return status == VerificationPending || status == VerificationChangesRequested
}

// CanSubmit reports whether a proposal may be handed to review from this status.
// Prerequisites are checked separately; this covers the status dimension only.
func CanSubmit(status VerificationStatus) bool {
	return status == VerificationPending || status == VerificationChangesRequested
}

// IsTerminal reports whether the verification lifecycle has ended.
func IsTerminal(status VerificationStatus) bool {
	return status == VerificationVerified || status == VerificationRejected
}

// IsInReview reports whether the proposal sits with the marketplace admins.
func IsInReview(status VerificationStatus) bool {
	return status == VerificationSubmitted ||
		status == VerificationResubmitted ||
		status == VerificationUnderReview
}

// CanEditPricing reports whether a pricing version may be mutated by the supplier.
func CanEditPricing(status PricingStatus) bool {
	return status == PricingDraft ||
		status == PricingChangesRequested ||
		status == PricingRejected
}

// IsPricingResubmission reports whether the next pricing submission is a
// resubmission rather than a first submission.
func IsPricingResubmission(status PricingStatus) bool {
	return status == PricingChangesRequested
}

// CanPublish reports whether the dataset may be put live. Publishing requires a
// verified proposal that has not been published or archived.
func CanPublish(verification VerificationStatus, publish PublishStatus) bool {
	if verification != VerificationVerified {
		return false
	}
	return publish == "" || publish == PublishVerified
}

// CanArchive reports whether the dataset may be withdrawn.
func CanArchive(publish PublishStatus) bool {
	return publish == PublishPublished
}

// CanChangeVisibility reports whether visibility side-channel changes apply.
func CanChangeVisibility(publish PublishStatus) bool {
	return publish == PublishPublished
}

// CanRequestPricingChange reports whether a pricing change may be requested for
// the live dataset.
func CanRequestPricingChange(publish PublishStatus) bool {
	return publish == PublishPublished
}

// DisplayMeta carries presentation metadata for a status badge.
type DisplayMeta struct {
	Label string
	Color string
	Icon  string
}

var verificationDisplay = map[VerificationStatus]DisplayMeta{
	VerificationPending:          {Label: "Draft", Color: "slate", Icon: "pencil"},
	VerificationSubmitted:        {Label: "Submitted", Color: "blue", Icon: "paper-plane"},
	VerificationChangesRequested: {Label: "Changes Requested", Color: "amber", Icon: "arrow-uturn-left"},
	VerificationResubmitted:      {Label: "Resubmitted", Color: "blue", Icon: "paper-plane"},
	VerificationUnderReview:      {Label: "Under Review", Color: "violet", Icon: "magnifying-glass"},
	VerificationVerified:         {Label: "Verified", Color: "green", Icon: "check-badge"},
	VerificationRejected:         {Label: "Rejected", Color: "red", Icon: "x-circle"},
}

var publishDisplay = map[PublishStatus]DisplayMeta{
	PublishVerified:  {Label: "Ready to Publish", Color: "green", Icon: "check-badge"},
	PublishPublished: {Label: "Published", Color: "emerald", Icon: "globe"},
	PublishArchived:  {Label: "Archived", Color: "slate", Icon: "archive-box"},
}

var pricingDisplay = map[PricingStatus]DisplayMeta{
	PricingDraft:            {Label: "Pricing Draft", Color: "slate", Icon: "pencil"},
	PricingSubmitted:        {Label: "Pricing Submitted", Color: "blue", Icon: "paper-plane"},
	PricingChangesRequested: {Label: "Pricing Changes Requested", Color: "amber", Icon: "arrow-uturn-left"},
	PricingResubmitted:      {Label: "Pricing Resubmitted", Color: "blue", Icon: "paper-plane"},
	PricingUnderReview:      {Label: "Pricing Under Review", Color: "violet", Icon: "magnifying-glass"},
	PricingActive:           {Label: "Pricing Active", Color: "green", Icon: "currency-dollar"},
	PricingRejected:         {Label: "Pricing Rejected", Color: "red", Icon: "x-circle"},
	PricingInactive:         {Label: "Pricing Inactive", Color: "slate", Icon: "pause"},
}

// VerificationDisplayMeta resolves badge metadata for a verification status.
// Total over the enum; an unmapped value is an error so a newly added status
// cannot render as an empty badge.
func VerificationDisplayMeta(status VerificationStatus) (DisplayMeta, error) {
	meta, ok := verificationDisplay[status]
	if !ok {
		return DisplayMeta{}, fmt.Errorf("domain: no display metadata for verification status %q", status)
	}
	return meta, nil
}

// PublishDisplayMeta resolves badge metadata for a publish status.
func PublishDisplayMeta(status PublishStatus) (DisplayMeta, error) {
	meta, ok := publishDisplay[status]
	if !ok {
		return DisplayMeta{}, fmt.Errorf("domain: no display metadata for publish status %q", status)
	}
	return meta, nil
}

// PricingDisplayMeta resolves badge metadata for a pricing status.
func PricingDisplayMeta(status PricingStatus) (DisplayMeta, error) {
	meta, ok := pricingDisplay[status]
	if !ok {
		return DisplayMeta{}, fmt.Errorf("domain: no display metadata for pricing status %q", status)
	}
	return meta, nil
}
