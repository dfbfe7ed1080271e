package proposalcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-marketplace/internal/commands"
	"github.com/goliatone/go-marketplace/internal/proposal"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
	"github.com/google/uuid"
)

const archiveProposalMessageType = "marketplace.proposal.archive"

// ArchiveProposalCommand requests archival of a published dataset.
type ArchiveProposalCommand struct {
	ProposalID uuid.UUID `json:"proposal_id"`
	ActorID    uuid.UUID `json:"actor_id"`
}

// Type implements command.Message.
func (ArchiveProposalCommand) Type() string { return archiveProposalMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m ArchiveProposalCommand) Validate() error {
	errs := validation.Errors{}
	if m.ProposalID == uuid.Nil {
		errs["proposal_id"] = validation.NewError("marketplace.proposal.archive.proposal_id_required", "proposal_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ArchiveProposalHandler archives published datasets via the proposal service.
type ArchiveProposalHandler struct {
	inner *commands.Handler[ArchiveProposalCommand]
}

// NewArchiveProposalHandler constructs a handler wired to the provided proposal service.
func NewArchiveProposalHandler(service proposal.Service, logger interfaces.Logger, opts ...commands.HandlerOption[ArchiveProposalCommand]) *ArchiveProposalHandler {
	exec := func(ctx context.Context, msg ArchiveProposalCommand) error {
		_, err := service.Archive(ctx, proposal.ArchiveRequest{
			ProposalID: msg.ProposalID,
			ActorID:    msg.ActorID,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[ArchiveProposalCommand]{
		commands.WithLogger[ArchiveProposalCommand](logger),
		commands.WithOperation[ArchiveProposalCommand]("proposal.archive"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ArchiveProposalHandler{
		inner: commands.NewHandler[ArchiveProposalCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ArchiveProposalCommand].Execute.
func (h *ArchiveProposalHandler) Execute(ctx context.Context, msg ArchiveProposalCommand) error {
	return h.inner.Execute(ctx, msg)
}
