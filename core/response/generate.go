// Package response parses generateContent replies from the generative-AI
// service.
package response

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tailored-agentic-units/landmatch/core/protocol"
)

// GenerateResponse is the reply to a generateContent request.
type GenerateResponse struct {
	Candidates     []Candidate     `json:"candidates"`
	PromptFeedback *PromptFeedback `json:"promptFeedback,omitempty"`
	UsageMetadata  *TokenUsage     `json:"usageMetadata,omitempty"`
	ModelVersion   string          `json:"modelVersion,omitempty"`
}

// Candidate is one generated answer.
type Candidate struct {
	Content           protocol.Content   `json:"content"`
	FinishReason      string             `json:"finishReason,omitempty"`
	GroundingMetadata *GroundingMetadata `json:"groundingMetadata,omitempty"`
}

// PromptFeedback reports why a prompt was refused.
type PromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

// TokenUsage reports token consumption for a request.
type TokenUsage struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// GroundingMetadata carries citations substantiating a grounded answer.
type GroundingMetadata struct {
	GroundingChunks []GroundingChunk `json:"groundingChunks,omitempty"`
}

// GroundingChunk is a single citation. At most one payload is set; chunks
// of kinds this package does not model decode with all payloads nil.
type GroundingChunk struct {
	Web  *WebChunk  `json:"web,omitempty"`
	Maps *MapsChunk `json:"maps,omitempty"`
}

// WebChunk cites a web page.
type WebChunk struct {
	URI   string `json:"uri"`
	Title string `json:"title,omitempty"`
}

// MapsChunk cites a place on the map.
type MapsChunk struct {
	URI     string `json:"uri"`
	Title   string `json:"title,omitempty"`
	PlaceID string `json:"placeId,omitempty"`
}

// Text concatenates the text parts of the first candidate. It returns ""
// when the service declined to answer.
func (r *GenerateResponse) Text() string {
	if r == nil || len(r.Candidates) == 0 {
		return ""
	}

	var b strings.Builder
	for _, part := range r.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String()
}

// Grounding returns the first candidate's grounding metadata, or nil.
func (r *GenerateResponse) Grounding() *GroundingMetadata {
	if r == nil || len(r.Candidates) == 0 {
		return nil
	}
	return r.Candidates[0].GroundingMetadata
}

// ParseGenerate parses a generateContent response body.
func ParseGenerate(body []byte) (*GenerateResponse, error) {
	var response GenerateResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse generate response: %w", err)
	}
	return &response, nil
}

// Text builds a single-candidate response with the given text. It is used by
// mocks and replayed cache entries.
func Text(text string, grounding *GroundingMetadata) *GenerateResponse {
	return &GenerateResponse{
		Candidates: []Candidate{{
			Content:           protocol.NewContent(protocol.RoleModel, text),
			GroundingMetadata: grounding,
		}},
	}
}
