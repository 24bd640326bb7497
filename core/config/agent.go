package config

import (
	"os"
	"time"
)

const (
	defaultBaseURL         = "https://generativelanguage.googleapis.com/v1beta"
	defaultGroundedModel   = "gemini-2.5-flash"
	defaultStructuredModel = "gemini-3-flash-preview"
	defaultAgentTimeout    = 30 * time.Second
)

// AgentConfig describes how to reach the generative-AI service.
type AgentConfig struct {
	// BaseURL is the REST root, without a trailing slash.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// GroundedModel serves map-grounded match queries.
	GroundedModel string `json:"grounded_model,omitempty" yaml:"grounded_model,omitempty"`

	// StructuredModel serves schema-constrained compliance and risk queries.
	StructuredModel string `json:"structured_model,omitempty" yaml:"structured_model,omitempty"`

	// APIKey is sent as x-goog-api-key. Falls back to the API_KEY and
	// GEMINI_API_KEY environment variables.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// CredentialsFile points to a Google service account JSON used when no
	// API key is set.
	CredentialsFile string `json:"credentials_file,omitempty" yaml:"credentials_file,omitempty"`

	// UseADC enables Application Default Credentials when neither an API key
	// nor a credentials file is configured.
	UseADC bool `json:"use_adc,omitempty" yaml:"use_adc,omitempty"`

	// Timeout bounds a single HTTP exchange.
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// DefaultAgentConfig returns an AgentConfig pointed at the public endpoint.
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		BaseURL:         defaultBaseURL,
		GroundedModel:   defaultGroundedModel,
		StructuredModel: defaultStructuredModel,
		Timeout:         Duration(defaultAgentTimeout),
	}
}

// Merge applies non-zero values from source into c.
func (c *AgentConfig) Merge(source *AgentConfig) {
	if source.BaseURL != "" {
		c.BaseURL = source.BaseURL
	}
	if source.GroundedModel != "" {
		c.GroundedModel = source.GroundedModel
	}
	if source.StructuredModel != "" {
		c.StructuredModel = source.StructuredModel
	}
	if source.APIKey != "" {
		c.APIKey = source.APIKey
	}
	if source.CredentialsFile != "" {
		c.CredentialsFile = source.CredentialsFile
	}
	if source.UseADC {
		c.UseADC = true
	}
	if source.Timeout > 0 {
		c.Timeout = source.Timeout
	}
}

// ResolveAPIKey returns the configured key, falling back to the API_KEY and
// GEMINI_API_KEY environment variables.
func (c *AgentConfig) ResolveAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	if key := os.Getenv("API_KEY"); key != "" {
		return key
	}
	return os.Getenv("GEMINI_API_KEY")
}
