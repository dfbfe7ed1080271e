package proposalcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-marketplace/internal/commands"
	"github.com/goliatone/go-marketplace/internal/proposal"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
	"github.com/google/uuid"
)

const submitProposalMessageType = "marketplace.proposal.submit"

// SubmitProposalCommand requests submission of a proposal for review. The
// handler cascades a DRAFT pricing submission before the proposal transition.
type SubmitProposalCommand struct {
	ProposalID uuid.UUID `json:"proposal_id"`
	ActorID    uuid.UUID `json:"actor_id"`
}

// Type implements command.Message.
func (SubmitProposalCommand) Type() string { return submitProposalMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m SubmitProposalCommand) Validate() error {
	errs := validation.Errors{}
	if m.ProposalID == uuid.Nil {
		errs["proposal_id"] = validation.NewError("marketplace.proposal.submit.proposal_id_required", "proposal_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SubmitProposalHandler submits proposals via the proposal service using the shared command handler foundation.
type SubmitProposalHandler struct {
	inner *commands.Handler[SubmitProposalCommand]
}

// NewSubmitProposalHandler constructs a handler wired to the provided proposal service.
func NewSubmitProposalHandler(service proposal.Service, logger interfaces.Logger, opts ...commands.HandlerOption[SubmitProposalCommand]) *SubmitProposalHandler {
	exec := func(ctx context.Context, msg SubmitProposalCommand) error {
		_, err := service.Submit(ctx, proposal.SubmitRequest{
			ProposalID: msg.ProposalID,
			ActorID:    msg.ActorID,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[SubmitProposalCommand]{
		commands.WithLogger[SubmitProposalCommand](logger),
		commands.WithOperation[SubmitProposalCommand]("proposal.submit"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SubmitProposalHandler{
		inner: commands.NewHandler[SubmitProposalCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SubmitProposalCommand].Execute.
func (h *SubmitProposalHandler) Execute(ctx context.Context, msg SubmitProposalCommand) error {
	return h.inner.Execute(ctx, msg)
}
