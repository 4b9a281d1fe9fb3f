package types

import (
	"errors"
	"time"
)

// Config holds backend selection and parameters for opening the store.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// OpenTimeout bounds the first connection attempt. Zero means
	// DefaultOpenTimeout.
	OpenTimeout time.Duration `json:"open_timeout,omitempty" yaml:"open_timeout,omitempty"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// DefaultOpenTimeout applies when Config.OpenTimeout is zero.
const DefaultOpenTimeout = 5 * time.Second

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	return nil
}

// GetOpenTimeout returns OpenTimeout or DefaultOpenTimeout when unset.
func (c Config) GetOpenTimeout() time.Duration {
	if c.OpenTimeout <= 0 {
		return DefaultOpenTimeout
	}
	return c.OpenTimeout
}
