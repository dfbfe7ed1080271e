package di

import (
	"context"
	"time"

	"github.com/goliatone/go-marketplace/internal/catalog"
	"github.com/goliatone/go-marketplace/internal/logging"
	"github.com/goliatone/go-marketplace/internal/logging/console"
	"github.com/goliatone/go-marketplace/internal/logging/gologger"
	"github.com/goliatone/go-marketplace/internal/onboarding"
	"github.com/goliatone/go-marketplace/internal/pricing"
	"github.com/goliatone/go-marketplace/internal/proposal"
	"github.com/goliatone/go-marketplace/internal/runtimeconfig"
	"github.com/goliatone/go-marketplace/internal/uploads"
	"github.com/goliatone/go-marketplace/internal/verification"
	"github.com/goliatone/go-marketplace/internal/workflow"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

// Container wires module dependencies. Memory repositories are the default;
// providing a bun.DB swaps in the persistent implementations.
type Container struct {
	Config runtimeconfig.Config

	bunDB         *bun.DB
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	loggerProvider interfaces.LoggerProvider
	auth           interfaces.AuthProvider

	engine interfaces.WorkflowEngine

	proposalRepo proposal.Repository
	pricingRepo  pricing.VersionRepository
	uploadRepo   uploads.Repository
	supplierRepo onboarding.Repository

	presigner   uploads.Presigner
	panProvider verification.Provider

	proposalSvc     proposal.Service
	pricingSvc      pricing.Service
	uploadsSvc      uploads.Service
	verificationSvc verification.Service
	onboardingSvc   onboarding.Service
	catalogSvc      catalog.Service

	statusStore *onboarding.StatusStore
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB binds the persistent storage backend.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default cache service bindings.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the logger provider derived from configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithAuth binds the host application's auth provider.
func WithAuth(provider interfaces.AuthProvider) Option {
	return func(c *Container) {
		c.auth = provider
	}
}

// WithWorkflowEngine overrides the default workflow engine.
func WithWorkflowEngine(engine interfaces.WorkflowEngine) Option {
	return func(c *Container) {
		c.engine = engine
	}
}

// WithPresigner overrides the presigner used for uploads. The default is an
// S3 presigner built from configuration, or a memory presigner when uploads
// are disabled.
func WithPresigner(presigner uploads.Presigner) Option {
	return func(c *Container) {
		c.presigner = presigner
	}
}

// WithPANProvider overrides the PAN verification provider.
func WithPANProvider(provider verification.Provider) Option {
	return func(c *Container) {
		c.panProvider = provider
	}
}

// WithProposalService overrides the default proposal service binding.
func WithProposalService(svc proposal.Service) Option {
	return func(c *Container) {
		c.proposalSvc = svc
	}
}

// WithPricingService overrides the default pricing service binding.
func WithPricingService(svc pricing.Service) Option {
	return func(c *Container) {
		c.pricingSvc = svc
	}
}

// WithUploadsService overrides the default uploads service binding.
func WithUploadsService(svc uploads.Service) Option {
	return func(c *Container) {
		c.uploadsSvc = svc
	}
}

// WithVerificationService overrides the default verification service binding.
func WithVerificationService(svc verification.Service) Option {
	return func(c *Container) {
		c.verificationSvc = svc
	}
}

// WithOnboardingService overrides the default onboarding service binding.
func WithOnboardingService(svc onboarding.Service) Option {
	return func(c *Container) {
		c.onboardingSvc = svc
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:       cfg,
		cacheTTL:     cacheTTL,
		proposalRepo: proposal.NewMemoryRepository(),
		pricingRepo:  pricing.NewMemoryVersionRepository(),
		uploadRepo:   uploads.NewMemoryRepository(),
		supplierRepo: onboarding.NewMemoryRepository(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()
	if err := c.configureProviders(); err != nil {
		return nil, err
	}

	if c.engine == nil {
		c.engine = workflow.NewEngine()
	}

	if c.pricingSvc == nil && c.Config.Features.Pricing {
		c.pricingSvc = pricing.NewService(c.pricingRepo, c.engine,
			pricing.WithLogger(logging.PricingLogger(c.loggerProvider)),
		)
	}

	if c.uploadsSvc == nil {
		uploadOpts := []uploads.ServiceOption{
			uploads.WithLogger(logging.UploadsLogger(c.loggerProvider)),
			uploads.WithProposalReader(newProposalStatusReader(c.proposalRepo)),
		}
		if c.Config.Uploads.MaxSizeBytes > 0 {
			uploadOpts = append(uploadOpts, uploads.WithMaxSizeBytes(c.Config.Uploads.MaxSizeBytes))
		}
		if len(c.Config.Uploads.AllowedContentTypes) > 0 {
			uploadOpts = append(uploadOpts, uploads.WithAllowedContentTypes(c.Config.Uploads.AllowedContentTypes))
		}
		c.uploadsSvc = uploads.NewService(c.uploadRepo, c.presigner, uploadOpts...)
	}

	if c.verificationSvc == nil && c.panProvider != nil {
		c.verificationSvc = verification.NewService(c.panProvider,
			verification.WithLogger(logging.VerificationLogger(c.loggerProvider)),
		)
	}

	if c.onboardingSvc == nil && c.Config.Features.Onboarding {
		c.onboardingSvc = onboarding.NewService(c.supplierRepo,
			onboarding.WithLogger(logging.OnboardingLogger(c.loggerProvider)),
		)
		c.statusStore = onboarding.NewStatusStore(c.onboardingSvc)
	}

	if c.proposalSvc == nil {
		proposalOpts := []proposal.ServiceOption{
			proposal.WithLogger(logging.ProposalLogger(c.loggerProvider)),
			proposal.WithUploadReader(newUploadReader(c.uploadsSvc)),
		}
		if c.pricingSvc != nil {
			proposalOpts = append(proposalOpts, proposal.WithPricingGateway(newPricingGateway(c.pricingSvc)))
		}
		c.proposalSvc = proposal.NewService(c.proposalRepo, c.engine, proposalOpts...)
	}

	if c.catalogSvc == nil && c.Config.Features.Catalog {
		c.catalogSvc = catalog.NewService(c.proposalSvc,
			catalog.WithLogger(logging.CatalogLogger(c.loggerProvider)),
		)
	}

	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}
	switch c.Config.Logging.Provider {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		c.loggerProvider = console.NewProvider(console.Options{})
	}
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.bunDB == nil {
		return
	}
	c.proposalRepo = proposal.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.pricingRepo = pricing.NewBunVersionRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.uploadRepo = uploads.NewBunRepository(c.bunDB)
	c.supplierRepo = onboarding.NewBunRepository(c.bunDB)
}

func (c *Container) configureProviders() error {
	if c.presigner == nil {
		if c.Config.Features.Uploads {
			presigner, err := uploads.NewS3Presigner(context.Background(), uploads.S3Config{
				Bucket:          c.Config.Uploads.Bucket,
				Region:          c.Config.Uploads.Region,
				Endpoint:        c.Config.Uploads.BaseEndpoint,
				AccessKeyID:     c.Config.Uploads.AccessKeyID,
				SecretAccessKey: c.Config.Uploads.SecretAccessKey,
				URLTTL:          c.Config.Uploads.PresignTTL,
			})
			if err != nil {
				return err
			}
			c.presigner = presigner
		} else {
			c.presigner = uploads.NewMemoryPresigner("memory://uploads")
		}
	}

	if c.panProvider == nil && c.Config.Features.Verification {
		provider, err := verification.NewRestyProvider(verification.RestyProviderConfig{
			BaseURL:        c.Config.Verification.BaseURL,
			APIKey:         c.Config.Verification.APIKey,
			RequestTimeout: c.Config.Verification.Timeout,
			MaxElapsedTime: c.Config.Verification.MaxRetryElapsed,
		})
		if err != nil {
			return err
		}
		c.panProvider = provider
	}
	return nil
}

// LoggerProvider exposes the configured logger provider, nil when logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// AuthProvider exposes the configured auth provider.
func (c *Container) AuthProvider() interfaces.AuthProvider {
	return c.auth
}

// WorkflowEngine returns the configured workflow engine.
func (c *Container) WorkflowEngine() interfaces.WorkflowEngine {
	return c.engine
}

// ProposalRepository exposes the configured proposal repository.
func (c *Container) ProposalRepository() proposal.Repository {
	return c.proposalRepo
}

// PricingRepository exposes the configured pricing version repository.
func (c *Container) PricingRepository() pricing.VersionRepository {
	return c.pricingRepo
}

// UploadRepository exposes the configured upload repository.
func (c *Container) UploadRepository() uploads.Repository {
	return c.uploadRepo
}

// SupplierRepository exposes the configured supplier repository.
func (c *Container) SupplierRepository() onboarding.Repository {
	return c.supplierRepo
}

// ProposalService returns the configured proposal service.
func (c *Container) ProposalService() proposal.Service {
	return c.proposalSvc
}

// PricingService returns the configured pricing service, nil when disabled.
func (c *Container) PricingService() pricing.Service {
	return c.pricingSvc
}

// UploadsService returns the configured uploads service.
func (c *Container) UploadsService() uploads.Service {
	return c.uploadsSvc
}

// VerificationService returns the configured verification service, nil when
// verification is disabled and no provider was injected.
func (c *Container) VerificationService() verification.Service {
	return c.verificationSvc
}

// OnboardingService returns the configured onboarding service, nil when disabled.
func (c *Container) OnboardingService() onboarding.Service {
	return c.onboardingSvc
}

// OnboardingStatusStore returns the cached onboarding status store, nil when
// onboarding is disabled.
func (c *Container) OnboardingStatusStore() *onboarding.StatusStore {
	return c.statusStore
}

// CatalogService returns the configured catalog service, nil when disabled.
func (c *Container) CatalogService() catalog.Service {
	return c.catalogSvc
}
