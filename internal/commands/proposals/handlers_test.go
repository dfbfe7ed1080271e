package proposalcmd

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-marketplace/internal/commands"
	"github.com/goliatone/go-marketplace/internal/logging"
	"github.com/goliatone/go-marketplace/internal/proposal"
	"github.com/google/uuid"
)

type stubProposalService struct {
	submitRequests  []proposal.SubmitRequest
	publishRequests []proposal.PublishRequest
	archiveRequests []proposal.ArchiveRequest
	submitErr       error
}

func (s *stubProposalService) Create(context.Context, proposal.CreateRequest) (*proposal.Proposal, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProposalService) Get(context.Context, uuid.UUID) (*proposal.Detail, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProposalService) ListMine(context.Context, uuid.UUID) ([]*proposal.Proposal, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProposalService) ListMyDatasets(context.Context, uuid.UUID) ([]*proposal.Proposal, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProposalService) UpsertAboutInfo(context.Context, proposal.UpsertAboutRequest) (*proposal.AboutDatasetInfo, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProposalService) UpsertDataFormatInfo(context.Context, proposal.UpsertDataFormatRequest) (*proposal.DataFormatInfo, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProposalService) ReplaceFeatures(context.Context, proposal.ReplaceFeaturesRequest) ([]*proposal.Feature, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProposalService) CheckPrerequisites(context.Context, uuid.UUID) ([]string, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProposalService) Submit(ctx context.Context, req proposal.SubmitRequest) (*proposal.Proposal, error) {
	s.submitRequests = append(s.submitRequests, req)
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	return &proposal.Proposal{ID: req.ProposalID}, nil
}

func (s *stubProposalService) Publish(ctx context.Context, req proposal.PublishRequest) (*proposal.Proposal, error) {
	s.publishRequests = append(s.publishRequests, req)
	return &proposal.Proposal{ID: req.ProposalID}, nil
}

func (s *stubProposalService) ChangeVisibility(context.Context, proposal.ChangeVisibilityRequest) (*proposal.Proposal, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProposalService) RequestPricingChange(context.Context, proposal.RequestPricingChangeRequest) (*proposal.Proposal, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProposalService) Archive(ctx context.Context, req proposal.ArchiveRequest) (*proposal.Proposal, error) {
	s.archiveRequests = append(s.archiveRequests, req)
	return &proposal.Proposal{ID: req.ProposalID}, nil
}

func (s *stubProposalService) Review(context.Context, proposal.ReviewRequest) (*proposal.Proposal, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProposalService) History(context.Context, uuid.UUID) ([]*proposal.VerificationEvent, error) {
	return nil, errors.New("not implemented")
}

func TestSubmitProposalHandlerExecutesService(t *testing.T) {
	service := &stubProposalService{}
	logger := commands.CommandLogger(nil, "proposals")
	handler := NewSubmitProposalHandler(service, logger)

	proposalID := uuid.New()
	actorID := uuid.New()
	msg := SubmitProposalCommand{ProposalID: proposalID, ActorID: actorID}

	if err := handler.Execute(context.Background(), msg); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(service.submitRequests) != 1 {
		t.Fatalf("expected one submit request, got %d", len(service.submitRequests))
	}
	req := service.submitRequests[0]
	if req.ProposalID != proposalID {
		t.Fatalf("expected proposal id %s, got %s", proposalID, req.ProposalID)
	}
	if req.ActorID != actorID {
		t.Fatalf("expected actor id %s, got %s", actorID, req.ActorID)
	}
}

func TestSubmitProposalHandlerValidationError(t *testing.T) {
	service := &stubProposalService{}
	logger := logging.NoOp()
	handler := NewSubmitProposalHandler(service, logger)

	err := handler.Execute(context.Background(), SubmitProposalCommand{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if len(service.submitRequests) != 0 {
		t.Fatalf("expected no submit attempts, got %d", len(service.submitRequests))
	}
}

func TestSubmitProposalHandlerPropagatesServiceError(t *testing.T) {
	service := &stubProposalService{submitErr: proposal.ErrProposalLocked}
	handler := NewSubmitProposalHandler(service, logging.NoOp())

	err := handler.Execute(context.Background(), SubmitProposalCommand{ProposalID: uuid.New()})
	if !errors.Is(err, proposal.ErrProposalLocked) {
		t.Fatalf("expected ErrProposalLocked, got %v", err)
	}
}

func TestPublishProposalHandlerExecutesService(t *testing.T) {
	service := &stubProposalService{}
	handler := NewPublishProposalHandler(service, logging.NoOp())

	proposalID := uuid.New()
	if err := handler.Execute(context.Background(), PublishProposalCommand{ProposalID: proposalID, ActorID: uuid.New()}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(service.publishRequests) != 1 {
		t.Fatalf("expected one publish request, got %d", len(service.publishRequests))
	}
	if service.publishRequests[0].ProposalID != proposalID {
		t.Fatalf("expected proposal id %s, got %s", proposalID, service.publishRequests[0].ProposalID)
	}
}

func TestArchiveProposalHandlerValidationError(t *testing.T) {
	service := &stubProposalService{}
	handler := NewArchiveProposalHandler(service, logging.NoOp())

	err := handler.Execute(context.Background(), ArchiveProposalCommand{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if len(service.archiveRequests) != 0 {
		t.Fatalf("expected no archive attempts, got %d", len(service.archiveRequests))
	}
}
