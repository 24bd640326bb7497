package agent

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/tailored-agentic-units/landmatch/core/config"
)

// Scopes requested for service account and ADC tokens.
var Scopes = []string{
	"https://www.googleapis.com/auth/cloud-platform",
	"https://www.googleapis.com/auth/generative-language",
}

// Credentials authorizes an outgoing request.
type Credentials interface {
	Apply(req *http.Request) error
}

// APIKey sends the key in the x-goog-api-key header.
type APIKey string

func (k APIKey) Apply(req *http.Request) error {
	req.Header.Set("x-goog-api-key", string(k))
	return nil
}

// TokenCredentials sends a bearer token drawn from an oauth2 token source.
type TokenCredentials struct {
	Source oauth2.TokenSource
}

func (c TokenCredentials) Apply(req *http.Request) error {
	token, err := c.Source.Token()
	if err != nil {
		return fmt.Errorf("failed to get access token: %w", err)
	}
	token.SetAuthHeader(req)
	return nil
}

// ResolveCredentials picks the first configured credential: an API key, then
// a service account file, then Application Default Credentials.
func ResolveCredentials(ctx context.Context, cfg *config.AgentConfig) (Credentials, error) {
	if key := cfg.ResolveAPIKey(); key != "" {
		return APIKey(key), nil
	}

	if cfg.CredentialsFile != "" {
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, data, Scopes...)
		if err != nil {
			return nil, fmt.Errorf("failed to create credentials: %w", err)
		}
		return TokenCredentials{Source: creds.TokenSource}, nil
	}

	if cfg.UseADC {
		creds, err := google.FindDefaultCredentials(ctx, Scopes...)
		if err != nil {
			return nil, fmt.Errorf("failed to find default credentials: %w", err)
		}
		return TokenCredentials{Source: creds.TokenSource}, nil
	}

	return nil, ErrNoCredentials
}
