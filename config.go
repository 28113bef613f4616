package guestentries

import "github.com/goliatone/go-guestentries/internal/runtimeconfig"

var (
	ErrRoutesBaseInvalid       = runtimeconfig.ErrRoutesBaseInvalid
	ErrStorageDriverUnknown    = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired      = runtimeconfig.ErrStorageDSNRequired
	ErrSessionSecretTooShort   = runtimeconfig.ErrSessionSecretTooShort
	ErrContainerRootRequired   = runtimeconfig.ErrContainerRootRequired
	ErrUploadsMaxMemoryInvalid = runtimeconfig.ErrUploadsMaxMemoryInvalid
	ErrTimezoneInvalid         = runtimeconfig.ErrTimezoneInvalid
	ErrCacheTTLInvalid         = runtimeconfig.ErrCacheTTLInvalid
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config          = runtimeconfig.Config
	RoutesConfig    = runtimeconfig.RoutesConfig
	ServerConfig    = runtimeconfig.ServerConfig
	SiteConfig      = runtimeconfig.SiteConfig
	ContainerConfig = runtimeconfig.ContainerConfig
	StorageConfig   = runtimeconfig.StorageConfig
	CacheConfig     = runtimeconfig.CacheConfig
	SessionConfig   = runtimeconfig.SessionConfig
	UploadsConfig   = runtimeconfig.UploadsConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
)

// DefaultConfig returns defaults suitable for local development.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML configuration file over the defaults.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.LoadFile(path)
}
