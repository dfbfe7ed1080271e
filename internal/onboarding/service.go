package onboarding

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-marketplace/internal/identity"
	"github.com/goliatone/go-marketplace/internal/logging"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
	"github.com/google/uuid"
)

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithTokenGenerator overrides the email verification token generator.
func WithTokenGenerator(generator func() string) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.token = generator
		}
	}
}

// WithLogger injects the module logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	repo   Repository
	now    func() time.Time
	token  func() string
	logger interfaces.Logger
}

// NewService constructs the onboarding service.
func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:   repo,
		now:    time.Now,
		token:  func() string { return uuid.NewString() },
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Register(ctx context.Context, email string) (*Supplier, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return nil, ErrEmailRequired
	}
	if _, err := s.repo.GetByEmail(ctx, normalized); err == nil {
		return nil, ErrEmailTaken
	} else {
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
	}

	now := s.now()
	record := &Supplier{
		ID:        identity.SupplierUUID(normalized),
		Email:     normalized,
		Status:    SupplierOnboarding,
		UserType:  "SUPPLIER",
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("onboarding.register", "supplier_id", created.ID.String())
	return created, nil
}

func (s *service) Status(ctx context.Context, supplierID uuid.UUID) (*StatusView, error) {
	if supplierID == uuid.Nil {
		return nil, ErrSupplierIDRequired
	}
	record, err := s.repo.GetByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	return &StatusView{
		Onboarding: stateFor(record),
		Supplier:   record,
	}, nil
}

func (s *service) SelectSupplierType(ctx context.Context, supplierID uuid.UUID, supplierType SupplierType) (*Supplier, error) {
	if supplierID == uuid.Nil {
		return nil, ErrSupplierIDRequired
	}
	if supplierType != SupplierIndividual && supplierType != SupplierOrganization {
		return nil, ErrUnknownSupplierType
	}
	record, err := s.repo.GetByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	record.SupplierType = supplierType
	record.UpdatedAt = s.now()
	return s.repo.Update(ctx, record)
}

func (s *service) RequestEmailVerification(ctx context.Context, supplierID uuid.UUID) (string, error) {
	if supplierID == uuid.Nil {
		return "", ErrSupplierIDRequired
	}
	record, err := s.repo.GetByID(ctx, supplierID)
	if err != nil {
		return "", err
	}

	token := s.token()
	record.EmailToken = &token
	record.UpdatedAt = s.now()
	if _, err := s.repo.Update(ctx, record); err != nil {
		return "", err
	}
	s.logger.Debug("onboarding.email_token_issued", "supplier_id", supplierID.String())
	return token, nil
}

func (s *service) ConfirmEmail(ctx context.Context, supplierID uuid.UUID, token string) (*Supplier, error) {
	if supplierID == uuid.Nil {
		return nil, ErrSupplierIDRequired
	}
	record, err := s.repo.GetByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if record.EmailToken == nil || token == "" || *record.EmailToken != token {
		return nil, ErrInvalidToken
	}

	record.EmailVerified = true
	record.EmailToken = nil
	record.UpdatedAt = s.now()
	return s.repo.Update(ctx, record)
}

func (s *service) MarkIdentityVerified(ctx context.Context, supplierID uuid.UUID) (*Supplier, error) {
	if supplierID == uuid.Nil {
		return nil, ErrSupplierIDRequired
	}
	record, err := s.repo.GetByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if !record.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	record.IdentityVerified = true
	record.UpdatedAt = s.now()
	return s.repo.Update(ctx, record)
}

func (s *service) CompleteProfile(ctx context.Context, req CompleteProfileRequest) (*Supplier, error) {
	if req.SupplierID == uuid.Nil {
		return nil, ErrSupplierIDRequired
	}
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		return nil, ErrDisplayNameRequired
	}
	record, err := s.repo.GetByID(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if !record.IdentityVerified {
		return nil, ErrIdentityNotVerified
	}

	record.DisplayName = name
	record.ProfileCompleted = true
	record.Status = SupplierActive
	record.UpdatedAt = s.now()
	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("onboarding.completed", "supplier_id", record.ID.String())
	return updated, nil
}

// stateFor derives the step summary and next step. Steps are ordered: type
// selection, email, identity, profile.
func stateFor(record *Supplier) OnboardingState {
	steps := Steps{
		TypeSelected:     record.SupplierType != "",
		EmailVerified:    record.EmailVerified,
		IdentityVerified: record.IdentityVerified,
		ProfileCompleted: record.ProfileCompleted,
	}
	next := StepDone
	switch {
	case !steps.TypeSelected:
		next = StepSelectType
	case !steps.EmailVerified:
		next = StepVerifyEmail
	case !steps.IdentityVerified:
		next = StepVerifyIdentity
	case !steps.ProfileCompleted:
		next = StepCompleteProfile
	}
	return OnboardingState{
		SupplierType: record.SupplierType,
		NextStep:     next,
		Steps:        steps,
	}
}
