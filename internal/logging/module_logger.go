package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-marketplace/pkg/interfaces"
)

const (
	rootModule         = "marketplace"
	proposalModule     = "marketplace.proposal"
	pricingModule      = "marketplace.pricing"
	uploadsModule      = "marketplace.uploads"
	verificationModule = "marketplace.verification"
	onboardingModule   = "marketplace.onboarding"
	catalogModule      = "marketplace.catalog"
)

const (
	fieldUploadFileName = "file_name"
	fieldUploadKey      = "object_key"
	fieldUploadAction   = "upload_action"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ProposalLogger returns the logger namespace reserved for proposal services.
func ProposalLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, proposalModule)
}

// PricingLogger returns the logger namespace reserved for pricing services.
func PricingLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, pricingModule)
}

// UploadsLogger returns the logger namespace reserved for upload services.
func UploadsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, uploadsModule)
}

// VerificationLogger returns the logger namespace reserved for identity verification.
func VerificationLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, verificationModule)
}

// OnboardingLogger returns the logger namespace reserved for supplier onboarding.
func OnboardingLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, onboardingModule)
}

// CatalogLogger returns the logger namespace reserved for catalog reads.
func CatalogLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, catalogModule)
}

// WithUploadContext enriches the provided logger with common upload fields such
// as file name, object key, and action. Empty values are ignored.
func WithUploadContext(logger interfaces.Logger, fileName, objectKey, action string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(fileName); trimmed != "" {
		fields[fieldUploadFileName] = trimmed
	}
	if trimmed := strings.TrimSpace(objectKey); trimmed != "" {
		fields[fieldUploadKey] = trimmed
	}
	if trimmed := strings.TrimSpace(action); trimmed != "" {
		fields[fieldUploadAction] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
