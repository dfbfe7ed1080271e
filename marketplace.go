package marketplace

import (
	"github.com/goliatone/go-marketplace/internal/catalog"
	"github.com/goliatone/go-marketplace/internal/di"
	"github.com/goliatone/go-marketplace/internal/onboarding"
	"github.com/goliatone/go-marketplace/internal/pricing"
	"github.com/goliatone/go-marketplace/internal/proposal"
	"github.com/goliatone/go-marketplace/internal/uploads"
	"github.com/goliatone/go-marketplace/internal/verification"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
)

// ProposalService exports the proposal lifecycle contract for consumers of the marketplace package.
type ProposalService = proposal.Service

// PricingService exports the pricing version contract.
type PricingService = pricing.Service

// UploadService exports the dataset upload contract.
type UploadService = uploads.Service

// VerificationService exports the PAN verification contract.
type VerificationService = verification.Service

// OnboardingService exports the supplier onboarding contract.
type OnboardingService = onboarding.Service

// CatalogService exports the unified catalog read contract.
type CatalogService = catalog.Service

// Module represents the top level marketplace runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a marketplace module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Proposals returns the configured proposal service.
func (m *Module) Proposals() ProposalService {
	return m.container.ProposalService()
}

// Pricing returns the configured pricing service, nil when the feature is disabled.
func (m *Module) Pricing() PricingService {
	return m.container.PricingService()
}

// Uploads returns the configured upload service.
func (m *Module) Uploads() UploadService {
	return m.container.UploadsService()
}

// Verification returns the configured verification service, nil when disabled.
func (m *Module) Verification() VerificationService {
	return m.container.VerificationService()
}

// Onboarding returns the configured onboarding service, nil when disabled.
func (m *Module) Onboarding() OnboardingService {
	return m.container.OnboardingService()
}

// OnboardingStatus returns the cached onboarding status store, nil when disabled.
func (m *Module) OnboardingStatus() *onboarding.StatusStore {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.OnboardingStatusStore()
}

// Catalog returns the configured catalog service, nil when disabled.
func (m *Module) Catalog() CatalogService {
	return m.container.CatalogService()
}

// WorkflowEngine returns the configured workflow engine.
func (m *Module) WorkflowEngine() interfaces.WorkflowEngine {
	return m.container.WorkflowEngine()
}
