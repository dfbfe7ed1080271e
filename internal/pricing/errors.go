package pricing

import (
	"errors"
	"fmt"
)

var (
	ErrProposalIDRequired  = errors.New("pricing: proposal id required")
	ErrCurrencyRequired    = errors.New("pricing: currency is required for paid datasets")
	ErrPriceRequired       = errors.New("pricing: paid datasets require a positive price")
	ErrPriceNegative       = errors.New("pricing: price cannot be negative")
	ErrNoPricing           = errors.New("pricing: proposal has no pricing version")
	ErrPricingLocked       = errors.New("pricing: version is not editable in its current status")
	ErrAlreadySubmitted    = errors.New("pricing: version already submitted for review")
	ErrChangeNotAvailable  = errors.New("pricing: change request requires an active pricing version")
	ErrUnknownReviewAction = errors.New("pricing: unknown review action")
)

// NotFoundError represents missing pricing records from repository lookups.
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
