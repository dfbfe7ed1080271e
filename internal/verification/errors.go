package verification

import "errors"

var (
	ErrInvalidPANFormat = errors.New("verification: pan does not match the required format")
	ErrNameRequired     = errors.New("verification: name as per pan is required")
	ErrConsentRequired  = errors.New("verification: explicit consent is required")
	ErrProviderFailure  = errors.New("verification: provider request failed")
)
