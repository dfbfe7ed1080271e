package verification

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-marketplace/internal/logging"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
)

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithLogger injects the module logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	provider Provider
	logger   interfaces.Logger
}

// NewService constructs the PAN verification service.
func NewService(provider Provider, opts ...ServiceOption) Service {
	s := &service{
		provider: provider,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Verify(ctx context.Context, req VerifyRequest) (*VerifyResult, error) {
	// Format validation runs first so a malformed PAN never reaches the
	// provider.
	pan := NormalizePAN(req.PANNumber)
	if !ValidPANFormat(pan) {
		return nil, ErrInvalidPANFormat
	}
	name := strings.TrimSpace(req.NameAsPerPAN)
	if name == "" {
		return nil, ErrNameRequired
	}
	if !req.Consent {
		return nil, ErrConsentRequired
	}

	response, err := s.provider.Verify(ctx, ProviderRequest{
		PANNumber:    pan,
		NameAsPerPAN: name,
		Consent:      "Y",
		ConsentText:  req.ConsentText,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}

	result := &VerifyResult{
		Attempt: response.Attempt,
		Result:  response.Result,
	}
	result.Accepted = response.Attempt.Status == AttemptCompleted &&
		response.Result.NameMatchScore == RequiredNameMatchScore &&
		response.Result.PANType == RequiredPANType

	s.logger.Info("verification.pan",
		"status", response.Attempt.Status,
		"pan_type", response.Result.PANType,
		"accepted", result.Accepted,
	)
	return result, nil
}
