package proposal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-marketplace/internal/domain"
	"github.com/goliatone/go-marketplace/internal/identity"
	"github.com/goliatone/go-marketplace/internal/logging"
	"github.com/goliatone/go-marketplace/internal/validation"
	"github.com/goliatone/go-marketplace/internal/workflow"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
	slug "github.com/goliatone/go-slug"
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

// IDGenerator produces identifiers for new records.
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

// WithPricingGateway wires the pricing collaborator used for the submit
// cascade and pricing change requests.
func WithPricingGateway(gateway PricingGateway) ServiceOption {
	return func(s *service) {
		s.pricing = gateway
	}
}

// WithUploadReader wires the upload collaborator used for prerequisite checks.
func WithUploadReader(reader UploadReader) ServiceOption {
	return func(s *service) {
		s.uploads = reader
	}
}

type service struct {
	repo    Repository
	engine  interfaces.WorkflowEngine
	pricing PricingGateway
	uploads UploadReader
	now     func() time.Time
	id      IDGenerator
	logger  interfaces.Logger
}

// NewService constructs a proposal service. Every verification and publish
// status change is routed through the workflow engine.
func NewService(repo Repository, engine interfaces.WorkflowEngine, opts ...ServiceOption) Service {
	s := &service{
		repo:   repo,
		engine: engine,
		now:    time.Now,
		id:     uuid.New,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Proposal, error) {
	if req.SupplierID == uuid.Nil {
		return nil, ErrSupplierRequired
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	normalized, err := slug.Normalize(title)
	if err != nil {
		return nil, fmt.Errorf("proposal: normalize slug: %w", err)
	}
	visibility := req.Visibility
	if visibility == "" {
		visibility = VisibilityPublic
	}
	if visibility != VisibilityPublic && visibility != VisibilityPrivate {
		return nil, ErrInvalidVisibility
	}

	now := s.now()
	record := &Proposal{
		ID:                    s.id(),
		SupplierID:            req.SupplierID,
		Title:                 title,
		Slug:                  normalized,
		SuperType:             strings.TrimSpace(req.SuperType),
		Category:              strings.TrimSpace(req.Category),
		Source:                strings.TrimSpace(req.Source),
		License:               strings.TrimSpace(req.License),
		Visibility:            visibility,
		VerificationStatus:    domain.VerificationPending,
		VerificationUpdatedAt: now,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("proposal.create", "proposal_id", created.ID.String(), "supplier_id", req.SupplierID.String())
	return created, nil
}

func (s *service) Get(ctx context.Context, proposalID uuid.UUID) (*Detail, error) {
	if proposalID == uuid.Nil {
		return nil, ErrProposalIDRequired
	}
	record, err := s.repo.GetByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	about, format, features, err := s.loadSections(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	detail := &Detail{
		Proposal: record,
		About:    about,
		Format:   format,
		Features: features,
	}
	if s.uploads != nil {
		upload, err := s.uploads.Current(ctx, proposalID)
		if err != nil {
			return nil, err
		}
		detail.Upload = upload
	}
	if s.pricing != nil {
		info, err := s.pricing.Latest(ctx, proposalID)
		if err != nil {
			return nil, err
		}
		detail.Pricing = info
	}
	return detail, nil
}

func (s *service) ListMine(ctx context.Context, supplierID uuid.UUID) ([]*Proposal, error) {
	if supplierID == uuid.Nil {
		return nil, ErrSupplierRequired
	}
	return s.repo.ListBySupplier(ctx, supplierID)
}

func (s *service) ListMyDatasets(ctx context.Context, supplierID uuid.UUID) ([]*Proposal, error) {
	if supplierID == uuid.Nil {
		return nil, ErrSupplierRequired
	}
	return s.repo.ListDatasets(ctx, supplierID)
}

func (s *service) UpsertAboutInfo(ctx context.Context, req UpsertAboutRequest) (*AboutDatasetInfo, error) {
	record, err := s.editableProposal(ctx, req.ProposalID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	about, err := s.repo.GetAbout(ctx, record.ID)
	if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		about = &AboutDatasetInfo{
			ID:         s.id(),
			ProposalID: record.ID,
			CreatedAt:  now,
		}
	}
	about.Summary = strings.TrimSpace(req.Summary)
	about.Description = req.Description
	about.Tags = req.Tags
	about.UpdateFrequency = strings.TrimSpace(req.UpdateFrequency)
	about.UpdatedAt = now
	return s.repo.UpsertAbout(ctx, about)
}

func (s *service) UpsertDataFormatInfo(ctx context.Context, req UpsertDataFormatRequest) (*DataFormatInfo, error) {
	record, err := s.editableProposal(ctx, req.ProposalID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	format, err := s.repo.GetFormat(ctx, record.ID)
	if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		format = &DataFormatInfo{
			ID:         s.id(),
			ProposalID: record.ID,
			CreatedAt:  now,
		}
	}
	format.FileFormat = strings.TrimSpace(req.FileFormat)
	format.Encoding = strings.TrimSpace(req.Encoding)
	format.Delimiter = req.Delimiter
	format.HasHeader = req.HasHeader
	format.UpdatedAt = now
	return s.repo.UpsertFormat(ctx, format)
}

func (s *service) ReplaceFeatures(ctx context.Context, req ReplaceFeaturesRequest) ([]*Feature, error) {
	record, err := s.editableProposal(ctx, req.ProposalID)
	if err != nil {
		return nil, err
	}
	if len(req.Features) == 0 {
		return nil, ErrNoFeatures
	}

	features := make([]*Feature, 0, len(req.Features))
	specs := make([]validation.FeatureSpec, 0, len(req.Features))
	for i, input := range req.Features {
		name := strings.TrimSpace(input.Name)
		if name == "" {
			return nil, fmt.Errorf("proposal: feature %d: name is required", i+1)
		}
		dataType := strings.TrimSpace(input.DataType)
		if dataType == "" {
			return nil, fmt.Errorf("proposal: feature %d: data type is required", i+1)
		}
		specs = append(specs, validation.FeatureSpec{
			Name:     name,
			DataType: dataType,
			Nullable: input.IsNullable,
		})
		features = append(features, &Feature{
			ID:          s.id(),
			ProposalID:  record.ID,
			Position:    i + 1,
			Name:        name,
			DataType:    dataType,
			Description: input.Description,
			IsNullable:  input.IsNullable,
		})
	}

	// Duplicate names and unknown data types surface here, before anything
	// touches storage. The compiled schema later validates sample records.
	schema, err := validation.SchemaForFeatures(specs)
	if err != nil {
		return nil, &InvalidFeaturesError{Cause: err}
	}
	if err := validation.ValidateSchema(schema); err != nil {
		return nil, &InvalidFeaturesError{Cause: err}
	}

	if err := s.repo.ReplaceFeatures(ctx, record.ID, features); err != nil {
		return nil, err
	}
	return features, nil
}

func (s *service) CheckPrerequisites(ctx context.Context, proposalID uuid.UUID) ([]string, error) {
	if proposalID == uuid.Nil {
		return nil, ErrProposalIDRequired
	}
	if _, err := s.repo.GetByID(ctx, proposalID); err != nil {
		return nil, err
	}
	about, format, features, err := s.loadSections(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	var upload *UploadInfo
	if s.uploads != nil {
		upload, err = s.uploads.Current(ctx, proposalID)
		if err != nil {
			return nil, err
		}
	}
	return MissingPrerequisites(upload, about, format, features), nil
}

func (s *service) Submit(ctx context.Context, req SubmitRequest) (*Proposal, error) {
	if req.ProposalID == uuid.Nil {
		return nil, ErrProposalIDRequired
	}
	record, err := s.repo.GetByID(ctx, req.ProposalID)
	if err != nil {
		return nil, err
	}
	if !domain.CanSubmit(record.VerificationStatus) {
		return nil, ErrProposalLocked
	}

	missing, err := s.CheckPrerequisites(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, &PrerequisitesNotMetError{Missing: missing}
	}

	// Pricing goes first: a DRAFT pricing version is submitted before the
	// proposal itself. A failure after the pricing call leaves pricing
	// submitted; re-running Submit is safe because the pricing service
	// rejects a second submission as an invalid state.
	if s.pricing != nil {
		info, err := s.pricing.Latest(ctx, record.ID)
		if err != nil {
			return nil, err
		}
		if info != nil && info.Status == domain.PricingDraft {
			if err := s.pricing.Submit(ctx, record.ID, req.ActorID); err != nil {
				return nil, fmt.Errorf("proposal: submit pricing: %w", err)
			}
		}
	}

	transition := workflow.TransitionSubmit
	if record.VerificationStatus == domain.VerificationChangesRequested {
		transition = workflow.TransitionResubmit
	}
	return s.applyVerificationTransition(ctx, record, transition, req.ActorID, nil, nil)
}

func (s *service) Publish(ctx context.Context, req PublishRequest) (*Proposal, error) {
	if req.ProposalID == uuid.Nil {
		return nil, ErrProposalIDRequired
	}
	record, err := s.repo.GetByID(ctx, req.ProposalID)
	if err != nil {
		return nil, err
	}
	if record.VerificationStatus != domain.VerificationVerified {
		return nil, ErrNotVerified
	}
	if !domain.CanPublish(record.VerificationStatus, record.PublishStatus) {
		return nil, ErrAlreadyPublished
	}

	current := record.PublishStatus
	if current == "" {
		current = domain.PublishVerified
	}
	result, err := s.engine.Transition(ctx, interfaces.TransitionInput{
		EntityID:     record.ID,
		EntityType:   workflow.EntityTypeDataset,
		CurrentState: interfaces.WorkflowState(current),
		Transition:   workflow.TransitionPublish,
		ActorID:      req.ActorID,
	})
	if err != nil {
		return nil, err
	}

	record.PublishStatus = domain.PublishStatus(result.ToState)
	if record.DatasetUniqueID == nil {
		uniqueID := identity.DatasetUniqueID(record.ID)
		record.DatasetUniqueID = &uniqueID
	}
	record.UpdatedAt = s.now()
	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("proposal.publish", "proposal_id", record.ID.String(), "dataset_unique_id", *record.DatasetUniqueID)
	return updated, nil
}

func (s *service) ChangeVisibility(ctx context.Context, req ChangeVisibilityRequest) (*Proposal, error) {
	if req.ProposalID == uuid.Nil {
		return nil, ErrProposalIDRequired
	}
	if req.Visibility != VisibilityPublic && req.Visibility != VisibilityPrivate {
		return nil, ErrInvalidVisibility
	}
	record, err := s.repo.GetByID(ctx, req.ProposalID)
	if err != nil {
		return nil, err
	}
	if !domain.CanChangeVisibility(record.PublishStatus) {
		return nil, ErrNotPublished
	}

	record.Visibility = req.Visibility
	record.UpdatedAt = s.now()
	return s.repo.Update(ctx, record)
}

func (s *service) RequestPricingChange(ctx context.Context, req RequestPricingChangeRequest) (*Proposal, error) {
	if req.ProposalID == uuid.Nil {
		return nil, ErrProposalIDRequired
	}
	record, err := s.repo.GetByID(ctx, req.ProposalID)
	if err != nil {
		return nil, err
	}
	if !domain.CanRequestPricingChange(record.PublishStatus) {
		return nil, ErrNotPublished
	}
	if s.pricing == nil {
		return nil, fmt.Errorf("proposal: pricing gateway not configured")
	}
	if err := s.pricing.OpenChangeRequest(ctx, record.ID, req.ActorID); err != nil {
		return nil, err
	}
	s.logger.Info("proposal.pricing_change", "proposal_id", record.ID.String())
	return record, nil
}

func (s *service) Archive(ctx context.Context, req ArchiveRequest) (*Proposal, error) {
	if req.ProposalID == uuid.Nil {
		return nil, ErrProposalIDRequired
	}
	record, err := s.repo.GetByID(ctx, req.ProposalID)
	if err != nil {
		return nil, err
	}
	if !domain.CanArchive(record.PublishStatus) {
		return nil, ErrNotPublished
	}

	result, err := s.engine.Transition(ctx, interfaces.TransitionInput{
		EntityID:     record.ID,
		EntityType:   workflow.EntityTypeDataset,
		CurrentState: interfaces.WorkflowState(record.PublishStatus),
		Transition:   workflow.TransitionArchive,
		ActorID:      req.ActorID,
	})
	if err != nil {
		return nil, err
	}
	record.PublishStatus = domain.PublishStatus(result.ToState)
	record.UpdatedAt = s.now()
	return s.repo.Update(ctx, record)
}

var reviewTransitions = map[ReviewAction]string{
	ReviewStartReview:    workflow.TransitionStartReview,
	ReviewRequestChanges: workflow.TransitionRequestChanges,
	ReviewVerify:         workflow.TransitionVerify,
	ReviewReject:         workflow.TransitionReject,
}

func (s *service) Review(ctx context.Context, req ReviewRequest) (*Proposal, error) {
	if req.ProposalID == uuid.Nil {
		return nil, ErrProposalIDRequired
	}
	transition, ok := reviewTransitions[req.Action]
	if !ok {
		return nil, ErrUnknownReview
	}
	record, err := s.repo.GetByID(ctx, req.ProposalID)
	if err != nil {
		return nil, err
	}
	return s.applyVerificationTransition(ctx, record, transition, req.ActorID, req.Notes, req.Reason)
}

func (s *service) History(ctx context.Context, proposalID uuid.UUID) ([]*VerificationEvent, error) {
	if proposalID == uuid.Nil {
		return nil, ErrProposalIDRequired
	}
	return s.repo.ListEvents(ctx, proposalID)
}

func (s *service) applyVerificationTransition(ctx context.Context, record *Proposal, transition string, actorID uuid.UUID, notes, reason *string) (*Proposal, error) {
	result, err := s.engine.Transition(ctx, interfaces.TransitionInput{
		EntityID:     record.ID,
		EntityType:   workflow.EntityTypeProposal,
		CurrentState: interfaces.WorkflowState(record.VerificationStatus),
		Transition:   transition,
		ActorID:      actorID,
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	from := record.VerificationStatus
	record.VerificationStatus = domain.VerificationStatus(result.ToState)
	record.VerificationUpdatedAt = now
	record.UpdatedAt = now
	if notes != nil {
		record.VerificationNotes = notes
	}
	if reason != nil {
		record.RejectionReason = reason
	}

	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, err
	}

	event := &VerificationEvent{
		ID:         s.id(),
		ProposalID: record.ID,
		Transition: transition,
		FromStatus: from,
		ToStatus:   record.VerificationStatus,
		ActorID:    actorID,
		Notes:      notes,
		CreatedAt:  now,
	}
	if err := s.repo.AppendEvent(ctx, event); err != nil {
		s.logger.Warn("proposal.event_append_failed", "proposal_id", record.ID.String(), "error", err.Error())
	}
	s.logger.Info("proposal.transition",
		"proposal_id", record.ID.String(),
		"transition", transition,
		"from", string(from),
		"to", string(record.VerificationStatus),
	)
	return updated, nil
}

func (s *service) editableProposal(ctx context.Context, proposalID uuid.UUID) (*Proposal, error) {
	if proposalID == uuid.Nil {
		return nil, ErrProposalIDRequired
	}
	record, err := s.repo.GetByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if !domain.IsEditable(record.VerificationStatus) {
		return nil, ErrProposalLocked
	}
	return record, nil
}

func (s *service) loadSections(ctx context.Context, proposalID uuid.UUID) (*AboutDatasetInfo, *DataFormatInfo, []*Feature, error) {
	about, err := s.repo.GetAbout(ctx, proposalID)
	if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return nil, nil, nil, err
		}
		about = nil
	}
	format, err := s.repo.GetFormat(ctx, proposalID)
	if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return nil, nil, nil, err
		}
		format = nil
	}
	features, err := s.repo.ListFeatures(ctx, proposalID)
	if err != nil {
		return nil, nil, nil, err
	}
	return about, format, features, nil
}
