package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tailored-agentic-units/landmatch/core/config"
)

// InMemory selects a process-local store instead of the filesystem.
const InMemory = ":memory:"

const defaultTTL = 15 * time.Minute

// Config holds response cache parameters.
type Config struct {
	// Path is the FileStore root, InMemory, or an s3://bucket/prefix
	// location. Empty disables caching.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Region is the AWS region for an S3 path.
	Region string `json:"region,omitempty" yaml:"region,omitempty"`

	// TTL bounds how long a reply is served from the cache.
	TTL config.Duration `json:"ttl,omitempty" yaml:"ttl,omitempty"`
}

// DefaultConfig returns the default cache configuration (disabled).
func DefaultConfig() Config {
	return Config{TTL: config.Duration(defaultTTL)}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Path != "" {
		c.Path = source.Path
	}
	if source.Region != "" {
		c.Region = source.Region
	}
	if source.TTL > 0 {
		c.TTL = source.TTL
	}
}

// NewStore creates a Store from configuration. Returns a nil Store when Path
// is empty, indicating caching is disabled.
func NewStore(ctx context.Context, cfg *Config) (Store, error) {
	switch {
	case cfg.Path == "":
		return nil, nil
	case cfg.Path == InMemory:
		return NewMapStore(), nil
	case strings.HasPrefix(cfg.Path, S3Scheme):
		bucket, prefix, ok := ParseS3Path(cfg.Path)
		if !ok {
			return nil, fmt.Errorf("invalid S3 cache path %q", cfg.Path)
		}
		client, err := NewS3Client(ctx, cfg.Region)
		if err != nil {
			return nil, err
		}
		return NewS3Store(client, bucket, prefix), nil
	default:
		return NewFileStore(cfg.Path), nil
	}
}
