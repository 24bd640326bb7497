package protocol

// MIMEJSON requests JSON output in structured mode.
const MIMEJSON = "application/json"

// GenerateRequest is the body of a generateContent call.
type GenerateRequest struct {
	Contents         []Content         `json:"contents"`
	Tools            []Tool            `json:"tools,omitempty"`
	ToolConfig       *ToolConfig       `json:"toolConfig,omitempty"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

// GenerationConfig constrains output format.
type GenerationConfig struct {
	ResponseMIMEType string   `json:"responseMimeType,omitempty"`
	ResponseSchema   *Schema  `json:"responseSchema,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
}

// Mode reports whether r is structured or grounded.
func (r *GenerateRequest) Mode() Mode {
	if r.GenerationConfig != nil && r.GenerationConfig.ResponseSchema != nil {
		return Structured
	}
	return Grounded
}

// NewGrounded builds a grounded request for prompt using the given tools.
// A non-nil position is passed as the retrieval location.
func NewGrounded(prompt string, position *LatLng, tools ...Tool) *GenerateRequest {
	req := &GenerateRequest{
		Contents: InitContents(prompt),
		Tools:    tools,
	}
	if position != nil {
		req.ToolConfig = &ToolConfig{
			RetrievalConfig: &RetrievalConfig{LatLng: position},
		}
	}
	return req
}

// NewStructured builds a structured request whose output must match schema.
func NewStructured(prompt string, schema *Schema) *GenerateRequest {
	return &GenerateRequest{
		Contents: InitContents(prompt),
		GenerationConfig: &GenerationConfig{
			ResponseMIMEType: MIMEJSON,
			ResponseSchema:   schema,
		},
	}
}
