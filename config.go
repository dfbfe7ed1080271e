package marketplace

import "github.com/goliatone/go-marketplace/internal/runtimeconfig"

var (
	ErrAdvancedCacheRequiresEnabledCache = runtimeconfig.ErrAdvancedCacheRequiresEnabledCache
	ErrUploadsBucketRequired             = runtimeconfig.ErrUploadsBucketRequired
	ErrUploadsMaxSizeInvalid             = runtimeconfig.ErrUploadsMaxSizeInvalid
	ErrVerificationBaseURLRequired       = runtimeconfig.ErrVerificationBaseURLRequired
	ErrLoggingProviderRequired           = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown            = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid               = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid              = runtimeconfig.ErrLoggingFormatInvalid
	ErrStorageProviderUnknown            = runtimeconfig.ErrStorageProviderUnknown
)

type (
	Config             = runtimeconfig.Config
	StorageConfig      = runtimeconfig.StorageConfig
	CacheConfig        = runtimeconfig.CacheConfig
	UploadsConfig      = runtimeconfig.UploadsConfig
	VerificationConfig = runtimeconfig.VerificationConfig
	Features           = runtimeconfig.Features
	CommandsConfig     = runtimeconfig.CommandsConfig
	LoggingConfig      = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
