package pricing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-marketplace/internal/domain"
	"github.com/goliatone/go-marketplace/internal/logging"
	"github.com/goliatone/go-marketplace/internal/workflow"
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

// IDGenerator produces identifiers for new pricing versions.
type IDGenerator func() uuid.UUID

// WithIDGenerator overrides the identifier generator.
func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
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
	versions VersionRepository
	engine   interfaces.WorkflowEngine
	now      func() time.Time
	id       IDGenerator
	logger   interfaces.Logger
}

// NewService constructs a pricing service routing every status change through
// the workflow engine.
func NewService(versions VersionRepository, engine interfaces.WorkflowEngine, opts ...ServiceOption) Service {
	s := &service{
		versions: versions,
		engine:   engine,
		now:      time.Now,
		id:       uuid.New,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Upsert(ctx context.Context, req UpsertRequest) (*Version, error) {
	if req.ProposalID == uuid.Nil {
		return nil, ErrProposalIDRequired
	}
	if req.Price < 0 {
		return nil, ErrPriceNegative
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if req.IsPaid {
		if currency == "" {
			return nil, ErrCurrencyRequired
		}
		if req.Price == 0 {
			return nil, ErrPriceRequired
		}
	} else {
		req.Price = 0
	}

	latest, err := s.versions.Latest(ctx, req.ProposalID)
	if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		return s.createVersion(ctx, req, currency, 1)
	}

	if !domain.CanEditPricing(latest.Status) {
		return nil, ErrPricingLocked
	}

	now := s.now()
	if latest.Status == domain.PricingRejected {
		result, err := s.transition(ctx, latest, workflow.TransitionRevise, req.ActorID)
		if err != nil {
			return nil, err
		}
		latest.Status = domain.PricingStatus(result.ToState)
	}

	latest.IsPaid = req.IsPaid
	latest.Price = req.Price
	latest.Currency = currency
	latest.UpdatedAt = now

	updated, err := s.versions.Update(ctx, latest)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("pricing.upsert", "proposal_id", req.ProposalID.String(), "version", updated.Version)
	return updated, nil
}

func (s *service) Submit(ctx context.Context, req SubmitRequest) (*Version, error) {
	if req.ProposalID == uuid.Nil {
		return nil, ErrProposalIDRequired
	}
	latest, err := s.latestOrNoPricing(ctx, req.ProposalID)
	if err != nil {
		return nil, err
	}

	switch latest.Status {
	case domain.PricingSubmitted, domain.PricingResubmitted, domain.PricingUnderReview:
		return nil, ErrAlreadySubmitted
	}

	transition := workflow.TransitionSubmit
	if domain.IsPricingResubmission(latest.Status) {
		transition = workflow.TransitionResubmit
	}

	result, err := s.transition(ctx, latest, transition, req.ActorID)
	if err != nil {
		return nil, err
	}

	latest.Status = domain.PricingStatus(result.ToState)
	latest.UpdatedAt = s.now()

	updated, err := s.versions.Update(ctx, latest)
	if err != nil {
		return nil, err
	}
	s.logger.Info("pricing.submit", "proposal_id", req.ProposalID.String(), "status", string(updated.Status))
	return updated, nil
}

func (s *service) RequestChange(ctx context.Context, req RequestChangeRequest) (*Version, error) {
	if req.ProposalID == uuid.Nil {
		return nil, ErrProposalIDRequired
	}
	latest, err := s.latestOrNoPricing(ctx, req.ProposalID)
	if err != nil {
		return nil, err
	}
	if latest.Status != domain.PricingActive {
		return nil, ErrChangeNotAvailable
	}

	now := s.now()
	draft := &Version{
		ID:         s.id(),
		ProposalID: req.ProposalID,
		Version:    latest.Version + 1,
		IsPaid:     latest.IsPaid,
		Price:      latest.Price,
		Currency:   latest.Currency,
		Status:     domain.PricingDraft,
		CreatedBy:  req.ActorID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	created, err := s.versions.Create(ctx, draft)
	if err != nil {
		return nil, err
	}
	s.logger.Info("pricing.change_requested", "proposal_id", req.ProposalID.String(), "version", created.Version)
	return created, nil
}

func (s *service) Latest(ctx context.Context, proposalID uuid.UUID) (*Version, error) {
	if proposalID == uuid.Nil {
		return nil, ErrProposalIDRequired
	}
	return s.versions.Latest(ctx, proposalID)
}

func (s *service) ListVersions(ctx context.Context, proposalID uuid.UUID) ([]*Version, error) {
	if proposalID == uuid.Nil {
		return nil, ErrProposalIDRequired
	}
	return s.versions.ListByProposal(ctx, proposalID)
}

func (s *service) Review(ctx context.Context, req ReviewRequest) (*Version, error) {
	if req.ProposalID == uuid.Nil {
		return nil, ErrProposalIDRequired
	}
	transition, ok := reviewTransitions[req.Action]
	if !ok {
		return nil, ErrUnknownReviewAction
	}

	latest, err := s.latestOrNoPricing(ctx, req.ProposalID)
	if err != nil {
		return nil, err
	}

	result, err := s.transition(ctx, latest, transition, req.ActorID)
	if err != nil {
		return nil, err
	}

	latest.Status = domain.PricingStatus(result.ToState)
	latest.UpdatedAt = s.now()
	if req.Notes != nil {
		latest.Notes = req.Notes
	}
	return s.versions.Update(ctx, latest)
}

var reviewTransitions = map[ReviewAction]string{
	ReviewStart:          workflow.TransitionStartReview,
	ReviewRequestChanges: workflow.TransitionRequestChanges,
	ReviewApprove:        workflow.TransitionApprove,
	ReviewReject:         workflow.TransitionReject,
	ReviewDeactivate:     workflow.TransitionDeactivate,
	ReviewReactivate:     workflow.TransitionReactivate,
}

func (s *service) createVersion(ctx context.Context, req UpsertRequest, currency string, number int) (*Version, error) {
	now := s.now()
	version := &Version{
		ID:         s.id(),
		ProposalID: req.ProposalID,
		Version:    number,
		IsPaid:     req.IsPaid,
		Price:      req.Price,
		Currency:   currency,
		Status:     domain.PricingDraft,
		CreatedBy:  req.ActorID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return s.versions.Create(ctx, version)
}

func (s *service) latestOrNoPricing(ctx context.Context, proposalID uuid.UUID) (*Version, error) {
	latest, err := s.versions.Latest(ctx, proposalID)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return nil, ErrNoPricing
		}
		return nil, err
	}
	return latest, nil
}

func (s *service) transition(ctx context.Context, version *Version, name string, actorID uuid.UUID) (*interfaces.TransitionResult, error) {
	return s.engine.Transition(ctx, interfaces.TransitionInput{
		EntityID:     version.ID,
		EntityType:   workflow.EntityTypePricing,
		CurrentState: interfaces.WorkflowState(version.Status),
		Transition:   name,
		ActorID:      actorID,
	})
}
