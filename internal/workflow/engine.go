package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-marketplace/pkg/interfaces"
	"github.com/google/uuid"
)

var (
	// ErrUnknownEntityType indicates no workflow definition exists for the requested entity.
	ErrUnknownEntityType = errors.New("workflow: entity type not registered")
	// ErrInvalidTransition indicates the requested transition is not allowed from the current state.
	ErrInvalidTransition = errors.New("workflow: transition not allowed")
	// ErrMissingTransition indicates neither a transition name nor target state were supplied.
	ErrMissingTransition = errors.New("workflow: transition name or target state required")
	// ErrNilEntityID signals input validation failure.
	ErrNilEntityID = errors.New("workflow: entity id required")
)

// Engine is a deterministic in-memory workflow engine. Every status change in
// the module is routed through it so an illegal transition surfaces as an
// error instead of a silent write.
type Engine struct {
	mu          sync.RWMutex
	definitions map[string]*compiledDefinition
	now         func() time.Time
}

// Option configures the engine.
type Option func(*Engine)

// WithClock overrides the clock used for transition timestamps (primarily for testing).
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.now = clock
		}
	}
}

// NewEngine constructs a workflow engine seeded with the marketplace lifecycles:
// proposal verification, dataset publish, and pricing review.
func NewEngine(opts ...Option) *Engine {
	engine := &Engine{
		definitions: make(map[string]*compiledDefinition),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(engine)
	}

	for _, definition := range []interfaces.WorkflowDefinition{
		VerificationWorkflowDefinition(),
		PublishWorkflowDefinition(),
		PricingWorkflowDefinition(),
	} {
		if err := engine.RegisterWorkflow(context.Background(), definition); err != nil {
			panic(fmt.Sprintf("workflow: built-in definition invalid: %v", err))
		}
	}

	return engine
}

// Transition applies a workflow transition for an entity. The authoritative
// next state is the engine's answer, never computed by the caller.
func (e *Engine) Transition(ctx context.Context, input interfaces.TransitionInput) (*interfaces.TransitionResult, error) {
	if input.EntityID == uuid.Nil {
		return nil, ErrNilEntityID
	}

	definition, err := e.definitionFor(input.EntityType)
	if err != nil {
		return nil, err
	}

	current := stateOrDefault(input.CurrentState, definition.definition.InitialState)
	transitionName := strings.TrimSpace(strings.ToLower(input.Transition))
	targetState := normalizeState(input.TargetState)

	var transition interfaces.WorkflowTransition
	switch {
	case transitionName != "":
		transition, err = definition.lookupTransition(transitionName, current)
		if err != nil {
			return nil, err
		}
	case targetState != "":
		transition, err = definition.lookupByStates(current, targetState)
		if err != nil {
			return nil, err
		}
	default:
		return nil, ErrMissingTransition
	}

	return &interfaces.TransitionResult{
		EntityID:    input.EntityID,
		EntityType:  input.EntityType,
		Transition:  transition.Name,
		FromState:   current,
		ToState:     transition.To,
		CompletedAt: e.now(),
		ActorID:     input.ActorID,
		Metadata:    cloneMetadata(input.Metadata),
	}, nil
}

// AvailableTransitions returns the transitions reachable from the supplied state.
func (e *Engine) AvailableTransitions(ctx context.Context, query interfaces.TransitionQuery) ([]interfaces.WorkflowTransition, error) {
	definition, err := e.definitionFor(query.EntityType)
	if err != nil {
		return nil, err
	}
	state := stateOrDefault(query.State, definition.definition.InitialState)
	transitions := definition.transitionsByState[state]
	result := make([]interfaces.WorkflowTransition, len(transitions))
	copy(result, transitions)
	return result, nil
}

// IsTerminalState reports whether the given state ends its entity's lifecycle.
func (e *Engine) IsTerminalState(entityType string, state interfaces.WorkflowState) (bool, error) {
	definition, err := e.definitionFor(entityType)
	if err != nil {
		return false, err
	}
	for _, stateDef := range definition.definition.States {
		if normalizeState(stateDef.Name) == normalizeState(state) {
			return stateDef.Terminal, nil
		}
	}
	return false, fmt.Errorf("%w: %s", ErrTransitionStateUnknown, state)
}

// RegisterWorkflow installs a workflow definition for the supplied entity type
// after integrity validation.
func (e *Engine) RegisterWorkflow(ctx context.Context, definition interfaces.WorkflowDefinition) error {
	if err := ValidateDefinition(definition); err != nil {
		return err
	}
	compiled := compileDefinition(definition)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.definitions[strings.ToLower(strings.TrimSpace(definition.EntityType))] = compiled
	return nil
}

func (e *Engine) definitionFor(entityType string) (*compiledDefinition, error) {
	e.mu.RLock()
	definition, ok := e.definitions[strings.ToLower(strings.TrimSpace(entityType))]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntityType, entityType)
	}
	return definition, nil
}

type compiledDefinition struct {
	definition         interfaces.WorkflowDefinition
	transitions        map[string]interfaces.WorkflowTransition
	transitionsByState map[interfaces.WorkflowState][]interfaces.WorkflowTransition
}

func compileDefinition(definition interfaces.WorkflowDefinition) *compiledDefinition {
	compiled := &compiledDefinition{
		definition:         definition,
		transitions:        make(map[string]interfaces.WorkflowTransition),
		transitionsByState: make(map[interfaces.WorkflowState][]interfaces.WorkflowTransition),
	}
	for _, transition := range definition.Transitions {
		from := normalizeState(transition.From)
		to := normalizeState(transition.To)
		transition.From = from
		transition.To = to
		key := transitionKey(transition.Name, from)
		compiled.transitions[key] = transition
		compiled.transitionsByState[from] = append(compiled.transitionsByState[from], transition)
	}
	return compiled
}

func (d *compiledDefinition) lookupTransition(name string, from interfaces.WorkflowState) (interfaces.WorkflowTransition, error) {
	key := transitionKey(name, normalizeState(from))
	transition, ok := d.transitions[key]
	if !ok {
		return interfaces.WorkflowTransition{}, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, name, from)
	}
	return transition, nil
}

func (d *compiledDefinition) lookupByStates(from, to interfaces.WorkflowState) (interfaces.WorkflowTransition, error) {
	transitions := d.transitionsByState[normalizeState(from)]
	target := normalizeState(to)
	for _, candidate := range transitions {
		if normalizeState(candidate.To) == target {
			return candidate, nil
		}
	}
	return interfaces.WorkflowTransition{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

func transitionKey(name string, from interfaces.WorkflowState) string {
	return strings.TrimSpace(strings.ToLower(name)) + "::" + string(normalizeState(from))
}

func stateOrDefault(state, fallback interfaces.WorkflowState) interfaces.WorkflowState {
	if strings.TrimSpace(string(state)) == "" {
		return normalizeState(fallback)
	}
	return normalizeState(state)
}

func normalizeState(state interfaces.WorkflowState) interfaces.WorkflowState {
	return interfaces.WorkflowState(strings.ToUpper(strings.TrimSpace(string(state))))
}

func cloneMetadata(input map[string]any) map[string]any {
	if len(input) == 0 {
		return nil
	}
	clone := make(map[string]any, len(input))
	for k, v := range input {
		clone[k] = v
	}
	return clone
}
