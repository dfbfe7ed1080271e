package verification

import "context"

// AttemptStatus values reported by the provider.
const (
	AttemptCompleted = "COMPLETED"
	AttemptFailed    = "FAILED"
)

// VerifyRequest carries the supplier's PAN details and consent.
type VerifyRequest struct {
	PANNumber    string
	NameAsPerPAN string
	Consent      bool
	ConsentText  string
}

// Attempt describes the provider-side verification attempt.
type Attempt struct {
	Status string `json:"status"`
}

// Result carries the provider's identity match outcome.
type Result struct {
	PANType        string `json:"pan_type"`
	NameMatchScore int    `json:"name_match_score"`
	PANLast4       string `json:"pan_last_4"`
}

// VerifyResult is the composed outcome. Accepted is true only when the
// attempt completed, the name matched exactly, and the PAN belongs to a
// person.
type VerifyResult struct {
	Attempt  Attempt `json:"attempt"`
	Result   Result  `json:"result"`
	Accepted bool    `json:"accepted"`
}

// Provider is the third-party PAN verification collaborator.
type Provider interface {
	Verify(ctx context.Context, req ProviderRequest) (*ProviderResponse, error)
}

// ProviderRequest is the wire payload sent to the provider.
type ProviderRequest struct {
	PANNumber    string `json:"pan_number"`
	NameAsPerPAN string `json:"name_as_per_pan"`
	Consent      string `json:"consent"`
	ConsentText  string `json:"consent_text"`
}

// ProviderResponse is the provider's wire reply.
type ProviderResponse struct {
	Attempt Attempt `json:"attempt"`
	Result  Result  `json:"result"`
}

// Service validates PAN format client-side, calls the provider, and applies
// the exact-match acceptance rule.
type Service interface {
	Verify(ctx context.Context, req VerifyRequest) (*VerifyResult, error)
}
