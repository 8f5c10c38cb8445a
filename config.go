package authzkit

import (
	"log/slog"

	"github.com/kelseyhightower/envconfig"
)

// Config carries the process-wide settings of the authority. It is built
// once at startup and threaded into NewService; the service never reads
// ambient globals.
type Config struct {
	// AdminRoleName is the super-role sentinel: any user holding a role
	// with exactly this name passes every permission check.
	AdminRoleName string `envconfig:"ADMIN_ROLE_NAME" default:"admin"`

	// PageSize is the default page size for listings when the caller does
	// not supply one.
	PageSize int `envconfig:"PAGE_SIZE" default:"10"`

	// MirrorEnabled toggles propagation of role/permission grants to the
	// external key-value mirror.
	MirrorEnabled bool `envconfig:"MIRROR_ENABLED" default:"false"`

	// MirrorKeyPrefix namespaces mirror keys in the external store.
	MirrorKeyPrefix string `envconfig:"MIRROR_KEY_PREFIX" default:"authz"`
}

// DefaultConfig returns the configuration with all defaults applied.
func DefaultConfig() Config {
	return Config{
		AdminRoleName:   "admin",
		PageSize:        10,
		MirrorKeyPrefix: "authz",
	}
}

// ConfigFromEnv builds the configuration from AUTHZ_-prefixed environment
// variables, e.g. AUTHZ_ADMIN_ROLE_NAME, AUTHZ_PAGE_SIZE.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("authz", &cfg); err != nil {
		return Config{}, err
	}
	return cfg.withDefaults(), nil
}

// withDefaults backfills zero values so a partially filled Config is still
// usable.
func (c Config) withDefaults() Config {
	if c.AdminRoleName == "" {
		c.AdminRoleName = "admin"
	}
	if c.PageSize <= 0 {
		c.PageSize = 10
	}
	if c.MirrorKeyPrefix == "" {
		c.MirrorKeyPrefix = "authz"
	}
	return c
}

// Option configures the Service.
type Option func(*Service)

// WithMirror sets the external key-value mirror for grant propagation.
// Setting a mirror implies MirrorEnabled.
func WithMirror(m Mirror) Option {
	return func(s *Service) {
		s.mirror = m
		s.cfg.MirrorEnabled = true
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}
