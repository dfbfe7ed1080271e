package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-marketplace/internal/domain"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
)

const (
	// EntityTypeProposal identifies dataset proposals in verification workflows.
	EntityTypeProposal = "proposal"
	// EntityTypeDataset identifies published dataset records in publish workflows.
	EntityTypeDataset = "dataset"
	// EntityTypePricing identifies pricing versions in pricing review workflows.
	EntityTypePricing = "pricing"
)

// Transition names shared by services and the engine.
const (
	TransitionSubmit         = "submit"
	TransitionResubmit       = "resubmit"
	TransitionStartReview    = "start_review"
	TransitionRequestChanges = "request_changes"
	TransitionVerify         = "verify"
	TransitionReject         = "reject"
	TransitionApprove        = "approve"
	TransitionPublish        = "publish"
	TransitionArchive        = "archive"
	TransitionRevise         = "revise"
	TransitionDeactivate     = "deactivate"
	TransitionReactivate     = "reactivate"
)

var (
	// ErrDefinitionEntityRequired indicates the workflow definition lacks an entity identifier.
	ErrDefinitionEntityRequired = errors.New("workflow: definition entity required")
	// ErrDefinitionStatesRequired indicates the workflow definition does not declare any states.
	ErrDefinitionStatesRequired = errors.New("workflow: definition requires at least one state")
	// ErrStateNameRequired indicates a workflow state is missing its name.
	ErrStateNameRequired = errors.New("workflow: state name required")
	// ErrDuplicateState indicates duplicate workflow state names were declared.
	ErrDuplicateState = errors.New("workflow: duplicate state")
	// ErrTransitionNameRequired indicates a transition lacks a name.
	ErrTransitionNameRequired = errors.New("workflow: transition name required")
	// ErrTransitionStateUnknown indicates a transition references a state that was not declared.
	ErrTransitionStateUnknown = errors.New("workflow: transition references unknown state")
	// ErrDuplicateTransition indicates the same transition name is declared twice for a state.
	ErrDuplicateTransition = errors.New("workflow: duplicate transition for state")
	// ErrInitialStateInvalid indicates the initial state is not part of the declared states.
	ErrInitialStateInvalid = errors.New("workflow: invalid initial state")
)

// VerificationWorkflowDefinition declares the review lifecycle for dataset
// proposals. VERIFIED and REJECTED are terminal; CHANGES_REQUESTED loops back
// through RESUBMITTED before another review pass.
func VerificationWorkflowDefinition() interfaces.WorkflowDefinition {
	return interfaces.WorkflowDefinition{
		EntityType:   EntityTypeProposal,
		InitialState: state(domain.VerificationPending),
		States: []interfaces.WorkflowStateDefinition{
			{Name: state(domain.VerificationPending), Description: "Draft being prepared by the supplier"},
			{Name: state(domain.VerificationSubmitted), Description: "Awaiting admin review"},
			{Name: state(domain.VerificationChangesRequested), Description: "Returned to the supplier for edits"},
			{Name: state(domain.VerificationResubmitted), Description: "Awaiting review after changes"},
			{Name: state(domain.VerificationUnderReview), Description: "Actively reviewed by an admin"},
			{Name: state(domain.VerificationVerified), Description: "Review passed", Terminal: true},
			{Name: state(domain.VerificationRejected), Description: "Review failed", Terminal: true},
		},
		Transitions: []interfaces.WorkflowTransition{
			{Name: TransitionSubmit, From: state(domain.VerificationPending), To: state(domain.VerificationSubmitted)},
			{Name: TransitionResubmit, From: state(domain.VerificationChangesRequested), To: state(domain.VerificationResubmitted)},
			{Name: TransitionStartReview, From: state(domain.VerificationSubmitted), To: state(domain.VerificationUnderReview)},
			{Name: TransitionStartReview, From: state(domain.VerificationResubmitted), To: state(domain.VerificationUnderReview)},
			{Name: TransitionRequestChanges, From: state(domain.VerificationUnderReview), To: state(domain.VerificationChangesRequested)},
			{Name: TransitionVerify, From: state(domain.VerificationUnderReview), To: state(domain.VerificationVerified)},
			{Name: TransitionReject, From: state(domain.VerificationUnderReview), To: state(domain.VerificationRejected)},
		},
	}
}

// PublishWorkflowDefinition declares the post-verification dataset lifecycle.
func PublishWorkflowDefinition() interfaces.WorkflowDefinition {
	return interfaces.WorkflowDefinition{
		EntityType:   EntityTypeDataset,
		InitialState: state(domain.PublishVerified),
		States: []interfaces.WorkflowStateDefinition{
			{Name: state(domain.PublishVerified), Description: "Verified, not yet live"},
			{Name: state(domain.PublishPublished), Description: "Live on the marketplace"},
			{Name: state(domain.PublishArchived), Description: "Withdrawn from the marketplace", Terminal: true},
		},
		Transitions: []interfaces.WorkflowTransition{
			{Name: TransitionPublish, From: state(domain.PublishVerified), To: state(domain.PublishPublished)},
			{Name: TransitionArchive, From: state(domain.PublishPublished), To: state(domain.PublishArchived)},
		},
	}
}

// PricingWorkflowDefinition declares the pricing version review lifecycle.
func PricingWorkflowDefinition() interfaces.WorkflowDefinition {
	return interfaces.WorkflowDefinition{
		EntityType:   EntityTypePricing,
		InitialState: state(domain.PricingDraft),
		States: []interfaces.WorkflowStateDefinition{
			{Name: state(domain.PricingDraft), Description: "Pricing being drafted"},
			{Name: state(domain.PricingSubmitted), Description: "Awaiting pricing review"},
			{Name: state(domain.PricingChangesRequested), Description: "Returned for pricing edits"},
			{Name: state(domain.PricingResubmitted), Description: "Awaiting review after pricing edits"},
			{Name: state(domain.PricingUnderReview), Description: "Actively reviewed"},
			{Name: state(domain.PricingActive), Description: "Pricing in effect"},
			{Name: state(domain.PricingRejected), Description: "Pricing declined"},
			{Name: state(domain.PricingInactive), Description: "Pricing retired", Terminal: true},
		},
		Transitions: []interfaces.WorkflowTransition{
			{Name: TransitionSubmit, From: state(domain.PricingDraft), To: state(domain.PricingSubmitted)},
			{Name: TransitionResubmit, From: state(domain.PricingChangesRequested), To: state(domain.PricingResubmitted)},
			{Name: TransitionStartReview, From: state(domain.PricingSubmitted), To: state(domain.PricingUnderReview)},
			{Name: TransitionStartReview, From: state(domain.PricingResubmitted), To: state(domain.PricingUnderReview)},
			{Name: TransitionRequestChanges, From: state(domain.PricingUnderReview), To: state(domain.PricingChangesRequested)},
			{Name: TransitionApprove, From: state(domain.PricingUnderReview), To: state(domain.PricingActive)},
			{Name: TransitionReject, From: state(domain.PricingUnderReview), To: state(domain.PricingRejected)},
			{Name: TransitionRevise, From: state(domain.PricingRejected), To: state(domain.PricingDraft)},
			{Name: TransitionDeactivate, From: state(domain.PricingActive), To: state(domain.PricingInactive)},
			{Name: TransitionReactivate, From: state(domain.PricingInactive), To: state(domain.PricingActive)},
		},
	}
}

func state[S ~string](value S) interfaces.WorkflowState {
	return interfaces.WorkflowState(value)
}

// ValidateDefinition checks state and transition integrity before registration.
func ValidateDefinition(definition interfaces.WorkflowDefinition) error {
	entity := strings.TrimSpace(definition.EntityType)
	if entity == "" {
		return ErrDefinitionEntityRequired
	}
	if len(definition.States) == 0 {
		return fmt.Errorf("%w: %s", ErrDefinitionStatesRequired, entity)
	}

	states := make(map[interfaces.WorkflowState]struct{}, len(definition.States))
	for idx, stateDef := range definition.States {
		name := normalizeState(stateDef.Name)
		if name == "" {
			return fmt.Errorf("%w at index %d", ErrStateNameRequired, idx)
		}
		if _, exists := states[name]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateState, name)
		}
		states[name] = struct{}{}
	}

	initial := normalizeState(definition.InitialState)
	if _, ok := states[initial]; !ok {
		return fmt.Errorf("%w: %s", ErrInitialStateInvalid, initial)
	}

	seen := make(map[string]struct{}, len(definition.Transitions))
	for idx, transition := range definition.Transitions {
		name := strings.TrimSpace(transition.Name)
		if name == "" {
			return fmt.Errorf("%w at index %d", ErrTransitionNameRequired, idx)
		}
		from := normalizeState(transition.From)
		to := normalizeState(transition.To)
		if _, ok := states[from]; !ok {
			return fmt.Errorf("%w: %s", ErrTransitionStateUnknown, from)
		}
		if _, ok := states[to]; !ok {
			return fmt.Errorf("%w: %s", ErrTransitionStateUnknown, to)
		}
		key := transitionKey(name, from)
		if _, exists := seen[key]; exists {
			return fmt.Errorf("%w: %s from %s", ErrDuplicateTransition, name, from)
		}
		seen[key] = struct{}{}
	}

	return nil
}
