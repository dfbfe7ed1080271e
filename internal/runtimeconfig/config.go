package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrAdvancedCacheRequiresEnabledCache ensures cached repositories build only when cache is enabled.
var ErrAdvancedCacheRequiresEnabledCache = errors.New("marketplace config: advanced cache feature requires cache to be enabled")

// ErrUploadsBucketRequired indicates uploads are enabled without a target bucket.
var ErrUploadsBucketRequired = errors.New("marketplace config: uploads bucket is required when uploads are enabled")

// ErrUploadsMaxSizeInvalid guards against zero or negative upload caps.
var ErrUploadsMaxSizeInvalid = errors.New("marketplace config: uploads max size must be positive")

// ErrVerificationBaseURLRequired indicates PAN verification is enabled without a provider endpoint.
var ErrVerificationBaseURLRequired = errors.New("marketplace config: verification base URL is required when verification is enabled")

var ErrLoggingProviderRequired = errors.New("marketplace config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("marketplace config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("marketplace config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("marketplace config: logging format is invalid")
var ErrStorageProviderUnknown = errors.New("marketplace config: storage provider is invalid")

// Config aggregates feature flags and adapter bindings for the marketplace module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled      bool
	Storage      StorageConfig
	Cache        CacheConfig
	Uploads      UploadsConfig
	Verification VerificationConfig
	Features     Features
	Commands     CommandsConfig
	Logging      LoggingConfig
}

// StorageConfig lists identifiers for storage-related dependencies.
type StorageConfig struct {
	Provider string
}

// CacheConfig captures cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// UploadsConfig captures object-storage bindings for presigned uploads.
type UploadsConfig struct {
	Bucket              string
	Region              string
	BaseEndpoint        string
	AccessKeyID         string
	SecretAccessKey     string
	PresignTTL          time.Duration
	MaxSizeBytes        int64
	AllowedContentTypes []string
}

// VerificationConfig captures the PAN verification provider bindings.
type VerificationConfig struct {
	BaseURL         string
	APIKey          string
	Timeout         time.Duration
	MaxRetryElapsed time.Duration
}

// Features toggles module functionality.
type Features struct {
	Pricing       bool
	Uploads       bool
	Verification  bool
	Catalog       bool
	Onboarding    bool
	AdvancedCache bool
	Logger        bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled                bool
	AutoRegisterDispatcher bool
}

// DefaultConfig returns opinionated defaults for an embedded deployment.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Storage: StorageConfig{
			Provider: "bun",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Uploads: UploadsConfig{
			PresignTTL: 15 * time.Minute,
		},
		Verification: VerificationConfig{
			Timeout:         10 * time.Second,
			MaxRetryElapsed: 30 * time.Second,
		},
		Features: Features{
			Pricing:    true,
			Catalog:    true,
			Onboarding: true,
		},
		Commands: CommandsConfig{},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if provider := normalizeProvider(cfg.Storage.Provider); provider != "" {
		switch provider {
		case "bun", "memory":
		default:
			return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, provider)
		}
	}
	if cfg.Features.AdvancedCache && !cfg.Cache.Enabled {
		return ErrAdvancedCacheRequiresEnabledCache
	}
	if cfg.Features.Uploads {
		if strings.TrimSpace(cfg.Uploads.Bucket) == "" {
			return ErrUploadsBucketRequired
		}
		if cfg.Uploads.MaxSizeBytes < 0 {
			return ErrUploadsMaxSizeInvalid
		}
	}
	if cfg.Features.Verification {
		if strings.TrimSpace(cfg.Verification.BaseURL) == "" {
			return ErrVerificationBaseURLRequired
		}
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
