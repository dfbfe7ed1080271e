package di

import (
	"context"
	"errors"

	"github.com/goliatone/go-marketplace/internal/domain"
	"github.com/goliatone/go-marketplace/internal/pricing"
	"github.com/goliatone/go-marketplace/internal/proposal"
	"github.com/goliatone/go-marketplace/internal/uploads"
	"github.com/google/uuid"
)

// pricingGateway adapts the pricing service to the narrow contract the
// proposal service depends on, keeping the packages decoupled.
type pricingGateway struct {
	svc pricing.Service
}

func newPricingGateway(svc pricing.Service) proposal.PricingGateway {
	return &pricingGateway{svc: svc}
}

func (g *pricingGateway) Latest(ctx context.Context, proposalID uuid.UUID) (*proposal.PricingInfo, error) {
	version, err := g.svc.Latest(ctx, proposalID)
	if err != nil {
		var notFound *pricing.NotFoundError
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, err
	}
	return &proposal.PricingInfo{
		Version:  version.Version,
		IsPaid:   version.IsPaid,
		Price:    version.Price,
		Currency: version.Currency,
		Status:   version.Status,
	}, nil
}

func (g *pricingGateway) Submit(ctx context.Context, proposalID, actorID uuid.UUID) error {
	_, err := g.svc.Submit(ctx, pricing.SubmitRequest{ProposalID: proposalID, ActorID: actorID})
	return err
}

func (g *pricingGateway) OpenChangeRequest(ctx context.Context, proposalID, actorID uuid.UUID) error {
	_, err := g.svc.RequestChange(ctx, pricing.RequestChangeRequest{ProposalID: proposalID, ActorID: actorID})
	return err
}

// proposalStatusReader exposes the proposal's verification status to the
// uploads service. It reads through the repository rather than the proposal
// service, since the proposal service itself is built on top of uploads.
type proposalStatusReader struct {
	repo proposal.Repository
}

func newProposalStatusReader(repo proposal.Repository) uploads.ProposalReader {
	return &proposalStatusReader{repo: repo}
}

func (r *proposalStatusReader) VerificationStatus(ctx context.Context, proposalID uuid.UUID) (domain.VerificationStatus, error) {
	record, err := r.repo.GetByID(ctx, proposalID)
	if err != nil {
		return "", err
	}
	return record.VerificationStatus, nil
}

// uploadReader adapts the uploads service to the proposal-side read contract.
type uploadReader struct {
	svc uploads.Service
}

func newUploadReader(svc uploads.Service) proposal.UploadReader {
	return &uploadReader{svc: svc}
}

func (r *uploadReader) Current(ctx context.Context, proposalID uuid.UUID) (*proposal.UploadInfo, error) {
	record, err := r.svc.Current(ctx, proposalID)
	if err != nil {
		var notFound *uploads.NotFoundError
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, err
	}
	return &proposal.UploadInfo{
		Status:           record.Status,
		OriginalFileName: record.OriginalFileName,
		ContentType:      record.ContentType,
		SizeBytes:        record.SizeBytes,
		UpdatedAt:        record.UpdatedAt,
	}, nil
}
