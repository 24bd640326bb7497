package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tailored-agentic-units/landmatch/core/config"
	"github.com/tailored-agentic-units/landmatch/geolocation"
	"github.com/tailored-agentic-units/landmatch/memory"
	"github.com/tailored-agentic-units/landmatch/retry"
)

const (
	defaultRegion             = "Riyadh or Dubai"
	defaultCandidates         = 3
	defaultRequestTimeout     = 60 * time.Second
	defaultGeolocationTimeout = 3 * time.Second
	defaultObserver           = "slog"
)

// Config holds initialization parameters for the engine and the subsystems
// it creates. Each section delegates to that subsystem's own config.
type Config struct {
	Agent       config.AgentConfig `json:"agent" yaml:"agent"`
	Retry       retry.Config       `json:"retry" yaml:"retry"`
	Cache       memory.Config      `json:"cache" yaml:"cache"`
	Geolocation geolocation.Config `json:"geolocation" yaml:"geolocation"`

	// Region scopes the match search, e.g. "Riyadh or Dubai".
	Region string `json:"region,omitempty" yaml:"region,omitempty"`

	// Candidates is how many plots the match query asks for.
	Candidates int `json:"candidates,omitempty" yaml:"candidates,omitempty"`

	RequestTimeout     config.Duration `json:"request_timeout,omitempty" yaml:"request_timeout,omitempty"`
	GeolocationTimeout config.Duration `json:"geolocation_timeout,omitempty" yaml:"geolocation_timeout,omitempty"`

	// Observer names a registered observability.Observer.
	Observer string `json:"observer,omitempty" yaml:"observer,omitempty"`
}

// DefaultConfig returns a Config with defaults for every subsystem.
func DefaultConfig() Config {
	return Config{
		Agent:              config.DefaultAgentConfig(),
		Retry:              retry.DefaultConfig(),
		Cache:              memory.DefaultConfig(),
		Geolocation:        geolocation.DefaultConfig(),
		Region:             defaultRegion,
		Candidates:         defaultCandidates,
		RequestTimeout:     config.Duration(defaultRequestTimeout),
		GeolocationTimeout: config.Duration(defaultGeolocationTimeout),
		Observer:           defaultObserver,
	}
}

// Merge applies non-zero values from source into c, delegating to each
// subsystem's Merge method.
func (c *Config) Merge(source *Config) {
	c.Agent.Merge(&source.Agent)
	c.Retry.Merge(&source.Retry)
	c.Cache.Merge(&source.Cache)
	c.Geolocation.Merge(&source.Geolocation)

	if source.Region != "" {
		c.Region = source.Region
	}
	if source.Candidates > 0 {
		c.Candidates = source.Candidates
	}
	if source.RequestTimeout > 0 {
		c.RequestTimeout = source.RequestTimeout
	}
	if source.GeolocationTimeout > 0 {
		c.GeolocationTimeout = source.GeolocationTimeout
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
}

// LoadConfig reads a config file, merges it with defaults, and returns the
// resulting Config. Files ending in .yaml or .yml are parsed as YAML;
// anything else as JSON.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &loaded)
	default:
		err = json.Unmarshal(data, &loaded)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
