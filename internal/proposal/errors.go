package proposal

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSupplierRequired   = errors.New("proposal: supplier id required")
	ErrProposalIDRequired = errors.New("proposal: proposal id required")
	ErrTitleRequired      = errors.New("proposal: title is required")
	ErrProposalLocked     = errors.New("proposal: proposal is not editable in its current status")
	ErrNotVerified        = errors.New("proposal: proposal must be verified first")
	ErrAlreadyPublished   = errors.New("proposal: dataset is already published")
	ErrNotPublished       = errors.New("proposal: dataset is not published")
	ErrInvalidVisibility  = errors.New("proposal: unknown visibility value")
	ErrNoFeatures         = errors.New("proposal: at least one feature is required")
	ErrUnknownReview      = errors.New("proposal: unknown review action")
)

// NotFoundError represents missing proposal records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// InvalidFeaturesError wraps schema-level problems with the declared feature
// list, such as duplicate names or unknown data types.
type InvalidFeaturesError struct {
	Cause error
}

func (e *InvalidFeaturesError) Error() string {
	return fmt.Sprintf("proposal: invalid features: %v", e.Cause)
}

func (e *InvalidFeaturesError) Unwrap() error {
	return e.Cause
}

// PrerequisitesNotMetError carries the ordered list of missing requirements
// blocking a submission. Missing is rendered verbatim to the supplier.
type PrerequisitesNotMetError struct {
	Missing []string
}

func (e *PrerequisitesNotMetError) Error() string {
	return fmt.Sprintf("proposal: prerequisites not met: %s", strings.Join(e.Missing, ", "))
}
