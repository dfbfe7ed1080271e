package onboarding

import (
	"errors"
	"fmt"
)

var (
	ErrSupplierIDRequired  = errors.New("onboarding: supplier id required")
	ErrEmailRequired       = errors.New("onboarding: email is required")
	ErrEmailTaken          = errors.New("onboarding: email is already registered")
	ErrUnknownSupplierType = errors.New("onboarding: unknown supplier type")
	ErrInvalidToken        = errors.New("onboarding: verification token is invalid")
	ErrEmailNotVerified    = errors.New("onboarding: email must be verified first")
	ErrIdentityNotVerified = errors.New("onboarding: identity must be verified first")
	ErrDisplayNameRequired = errors.New("onboarding: display name is required")
)

// NotFoundError represents a missing supplier record.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("supplier %q not found", e.Key)
}
