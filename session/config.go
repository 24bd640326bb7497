package session

import "github.com/tailored-agentic-units/landmatch/observability"

// Config holds session initialization parameters.
type Config struct {
	// Observer names a registered observer for session events.
	Observer string `json:"observer,omitempty" yaml:"observer,omitempty"`
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{Observer: "slog"}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Observer != "" {
		c.Observer = source.Observer
	}
}

// New creates a Session from configuration merged over DefaultConfig.
func New(cfg *Config, opts ...Option) (*Session, error) {
	merged := DefaultConfig()
	if cfg != nil {
		merged.Merge(cfg)
	}
	observer, err := observability.GetObserver(merged.Observer)
	if err != nil {
		return nil, err
	}
	return NewSession(append([]Option{WithObserver(observer)}, opts...)...), nil
}
