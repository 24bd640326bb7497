package providers

import (
	"encoding/json"
	"strings"

	"github.com/tailored-agentic-units/landmatch/core/protocol"
	"github.com/tailored-agentic-units/landmatch/core/response"
)

// BaseProvider holds the name and root URL shared by every provider and
// supplies the plain JSON codec.
type BaseProvider struct {
	name    string
	baseURL string
}

// NewBaseProvider creates a BaseProvider. Trailing slashes on baseURL are
// removed.
func NewBaseProvider(name, baseURL string) *BaseProvider {
	return &BaseProvider{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (p *BaseProvider) Name() string {
	return p.name
}

func (p *BaseProvider) BaseURL() string {
	return p.baseURL
}

func (p *BaseProvider) Marshal(req *protocol.GenerateRequest) ([]byte, error) {
	return json.Marshal(req)
}

func (p *BaseProvider) Parse(body []byte) (*response.GenerateResponse, error) {
	return response.ParseGenerate(body)
}
