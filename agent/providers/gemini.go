package providers

import (
	"fmt"
	"net/url"
)

// Gemini targets the Generative Language API.
type Gemini struct {
	*BaseProvider
}

// NewGemini creates a Gemini provider rooted at baseURL, typically
// https://generativelanguage.googleapis.com/v1beta.
func NewGemini(baseURL string) *Gemini {
	return &Gemini{BaseProvider: NewBaseProvider("gemini", baseURL)}
}

func (g *Gemini) Endpoint(model string) string {
	return fmt.Sprintf("%s/models/%s:generateContent", g.BaseURL(), url.PathEscape(model))
}
