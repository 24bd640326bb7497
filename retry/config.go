package retry

import (
	"time"

	"github.com/tailored-agentic-units/landmatch/core/config"
)

const (
	defaultMaxRetries   = 3
	defaultInitialDelay = time.Second
)

// Config bounds the retry budget.
type Config struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int `json:"max_retries,omitempty" yaml:"max_retries,omitempty"`

	// InitialDelay is the wait before the first retry; it doubles each time.
	InitialDelay config.Duration `json:"initial_delay,omitempty" yaml:"initial_delay,omitempty"`

	// Disabled turns retry off; every call gets exactly one attempt.
	Disabled bool `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// DefaultConfig returns three retries starting at one second.
func DefaultConfig() Config {
	return Config{
		MaxRetries:   defaultMaxRetries,
		InitialDelay: config.Duration(defaultInitialDelay),
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.MaxRetries > 0 {
		c.MaxRetries = source.MaxRetries
	}
	if source.InitialDelay > 0 {
		c.InitialDelay = source.InitialDelay
	}
	if source.Disabled {
		c.Disabled = true
	}
}

// Retries returns the effective retry budget.
func (c Config) Retries() int {
	if c.Disabled || c.MaxRetries < 0 {
		return 0
	}
	return c.MaxRetries
}
