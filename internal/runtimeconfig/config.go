package runtimeconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrRoutesBaseInvalid = errors.New("guest entries config: route base must start with a slash")
var ErrStorageDriverUnknown = errors.New("guest entries config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("guest entries config: storage dsn is required")
var ErrSessionSecretTooShort = errors.New("guest entries config: session secret must be at least 32 characters")
var ErrContainerRootRequired = errors.New("guest entries config: asset container root is required")
var ErrUploadsMaxMemoryInvalid = errors.New("guest entries config: upload max memory must be zero or positive")
var ErrTimezoneInvalid = errors.New("guest entries config: timezone is invalid")
var ErrCacheTTLInvalid = errors.New("guest entries config: cache ttl must be positive when cache is enabled")
var ErrLoggingProviderUnknown = errors.New("guest entries config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("guest entries config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("guest entries config: logging format is invalid")

// MinSessionSecretLength is the shortest accepted cookie signing secret.
const MinSessionSecretLength = 32

// Config aggregates everything the guest entries module reads at start up.
type Config struct {
	// Collections is the allow-list: handle => every action allowed.
	Collections map[string]bool     `yaml:"collections"`
	Actions     map[string][]string `yaml:"actions"`
	PolicyPath  string              `yaml:"policy_path"`
	// Honeypot names a form field bots fill in. Empty disables the check.
	Honeypot   string                     `yaml:"honeypot"`
	Timezone   string                     `yaml:"timezone"`
	Blueprints string                     `yaml:"blueprints"`
	Routes     RoutesConfig               `yaml:"routes"`
	Server     ServerConfig               `yaml:"server"`
	Sites      []SiteConfig               `yaml:"sites"`
	Containers map[string]ContainerConfig `yaml:"containers"`
	Storage    StorageConfig              `yaml:"storage"`
	Cache      CacheConfig                `yaml:"cache"`
	Session    SessionConfig              `yaml:"session"`
	Uploads    UploadsConfig              `yaml:"uploads"`
	Logging    LoggingConfig              `yaml:"logging"`
}

// RoutesConfig controls where the public endpoints are mounted.
type RoutesConfig struct {
	Base            string `yaml:"base"`
	DefaultRedirect string `yaml:"default_redirect"`
}

// ServerConfig is used by the bundled binary.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// SiteConfig describes one localized site.
type SiteConfig struct {
	Handle string `yaml:"handle"`
	URL    string `yaml:"url"`
	Locale string `yaml:"locale"`
}

// ContainerConfig describes an asset container on disk.
type ContainerConfig struct {
	Root string `yaml:"root"`
}

// StorageConfig selects the database.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// CacheConfig captures repository cache toggles.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// SessionConfig enables flash messages through a signed cookie store.
type SessionConfig struct {
	Secret string `yaml:"secret"`
	Name   string `yaml:"name"`
}

// UploadsConfig controls multipart parsing and stored paths.
type UploadsConfig struct {
	MaxMemory         int64 `yaml:"max_memory"`
	StripLeadingSlash bool  `yaml:"strip_leading_slash"`
}

// LoggingConfig selects the logging provider.
type LoggingConfig struct {
	Provider  string `yaml:"provider"`
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	AddSource bool   `yaml:"add_source"`
}

// DefaultConfig returns defaults suitable for local development.
func DefaultConfig() Config {
	return Config{
		Collections: map[string]bool{},
		Actions:     map[string][]string{},
		Timezone:    "UTC",
		Routes: RoutesConfig{
			Base:            "/!/guest-entries",
			DefaultRedirect: "/",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Containers: map[string]ContainerConfig{},
		Storage: StorageConfig{
			Driver: "sqlite3",
			DSN:    "file:guestentries.db?cache=shared&_fk=1",
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Minute,
		},
		Session: SessionConfig{
			Name: "guest_entries",
		},
		Uploads: UploadsConfig{
			MaxMemory:         32 << 20,
			StripLeadingSlash: true,
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "json",
		},
	}
}

// Load decodes YAML over the defaults and validates the result.
func Load(data []byte) (Config, error) {
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("guest entries config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads and validates a YAML configuration file.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("guest entries config: read %s: %w", path, err)
	}
	return Load(data)
}

// Location returns the configured timezone, defaulting to UTC.
func (cfg Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(cfg.Timezone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTimezoneInvalid, name)
	}
	return loc, nil
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if base := strings.TrimSpace(cfg.Routes.Base); base != "" && !strings.HasPrefix(base, "/") {
		return fmt.Errorf("%w: %s", ErrRoutesBaseInvalid, base)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Driver)) {
	case "", "memory":
	case "sqlite", "sqlite3", "postgres", "postgresql":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
	}
	if secret := cfg.Session.Secret; secret != "" && len(secret) < MinSessionSecretLength {
		return ErrSessionSecretTooShort
	}
	for handle, container := range cfg.Containers {
		if strings.TrimSpace(container.Root) == "" {
			return fmt.Errorf("%w: %s", ErrContainerRootRequired, handle)
		}
	}
	if cfg.Uploads.MaxMemory < 0 {
		return ErrUploadsMaxMemoryInvalid
	}
	if cfg.Cache.Enabled && cfg.Cache.TTL <= 0 {
		return ErrCacheTTLInvalid
	}
	if _, err := cfg.Location(); err != nil {
		return err
	}

	provider := normalizeProvider(cfg.Logging.Provider)
	if provider != "" && !isSupportedProvider(provider) {
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
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "gologger", "noop":
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
