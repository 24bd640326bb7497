package geolocation

import (
	"context"
	"fmt"

	"github.com/tailored-agentic-units/landmatch/core/config"
	"github.com/tailored-agentic-units/landmatch/core/geo"
)

// Provider names accepted in Config.
const (
	ProviderNone     = "none"
	ProviderStatic   = "static"
	ProviderDynamoDB = "dynamodb"
)

// Config selects and parameterizes a Locator.
type Config struct {
	Provider string     `json:"provider,omitempty" yaml:"provider,omitempty"`
	Point    *geo.Point `json:"point,omitempty" yaml:"point,omitempty"`

	Table    string          `json:"table,omitempty" yaml:"table,omitempty"`
	DeviceID string          `json:"device_id,omitempty" yaml:"device_id,omitempty"`
	Region   string          `json:"region,omitempty" yaml:"region,omitempty"`
	MaxAge   config.Duration `json:"max_age,omitempty" yaml:"max_age,omitempty"`
}

// DefaultConfig returns a configuration with no position source.
func DefaultConfig() Config {
	return Config{Provider: ProviderNone}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Provider != "" {
		c.Provider = source.Provider
	}
	if source.Point != nil {
		p := *source.Point
		c.Point = &p
	}
	if source.Table != "" {
		c.Table = source.Table
	}
	if source.DeviceID != "" {
		c.DeviceID = source.DeviceID
	}
	if source.Region != "" {
		c.Region = source.Region
	}
	if source.MaxAge > 0 {
		c.MaxAge = source.MaxAge
	}
}

// New builds the Locator described by cfg.
func New(ctx context.Context, cfg *Config) (Locator, error) {
	switch cfg.Provider {
	case "", ProviderNone:
		return None{}, nil
	case ProviderStatic:
		if cfg.Point == nil {
			return nil, fmt.Errorf("static provider requires a point")
		}
		return Static(*cfg.Point), nil
	case ProviderDynamoDB:
		if cfg.Table == "" || cfg.DeviceID == "" {
			return nil, fmt.Errorf("dynamodb provider requires table and device_id")
		}
		client, err := NewDynamoClient(ctx, cfg.Region)
		if err != nil {
			return nil, err
		}
		return NewDynamoLocator(client, cfg.Table, cfg.DeviceID, cfg.MaxAge.Std()), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}
