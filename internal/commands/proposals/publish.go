package proposalcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-marketplace/internal/commands"
	"github.com/goliatone/go-marketplace/internal/proposal"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
	"github.com/google/uuid"
)

const publishProposalMessageType = "marketplace.proposal.publish"

// PublishProposalCommand requests publication of a verified proposal.
type PublishProposalCommand struct {
	ProposalID uuid.UUID `json:"proposal_id"`
	ActorID    uuid.UUID `json:"actor_id"`
}

// Type implements command.Message.
func (PublishProposalCommand) Type() string { return publishProposalMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m PublishProposalCommand) Validate() error {
	errs := validation.Errors{}
	if m.ProposalID == uuid.Nil {
		errs["proposal_id"] = validation.NewError("marketplace.proposal.publish.proposal_id_required", "proposal_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PublishProposalHandler publishes verified proposals via the proposal service.
type PublishProposalHandler struct {
	inner *commands.Handler[PublishProposalCommand]
}

// NewPublishProposalHandler constructs a handler wired to the provided proposal service.
func NewPublishProposalHandler(service proposal.Service, logger interfaces.Logger, opts ...commands.HandlerOption[PublishProposalCommand]) *PublishProposalHandler {
	exec := func(ctx context.Context, msg PublishProposalCommand) error {
		_, err := service.Publish(ctx, proposal.PublishRequest{
			ProposalID: msg.ProposalID,
			ActorID:    msg.ActorID,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[PublishProposalCommand]{
		commands.WithLogger[PublishProposalCommand](logger),
		commands.WithOperation[PublishProposalCommand]("proposal.publish"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &PublishProposalHandler{
		inner: commands.NewHandler[PublishProposalCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[PublishProposalCommand].Execute.
func (h *PublishProposalHandler) Execute(ctx context.Context, msg PublishProposalCommand) error {
	return h.inner.Execute(ctx, msg)
}
