// Package ingest turns untrusted text returned by the AI service into typed
// domain records. Extraction tolerates prose and code fences around the
// payload; sanitization coerces every element into a complete
// model.MatchCandidate and never fails on an unexpected element shape.
package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/tailored-agentic-units/landmatch/core/model"
)

const (
	fence     = "```"
	jsonFence = "```json"
)

var arraySpan = regexp.MustCompile(`(?s)\[.*\]`)

// ExtractJSON locates the JSON payload inside text. A ```json fence wins over
// a bare fence; the result is then narrowed to the outermost [...] span when
// one exists.
func ExtractJSON(text string) (string, error) {
	payload := strings.TrimSpace(text)

	switch {
	case strings.Contains(payload, jsonFence):
		_, after, _ := strings.Cut(payload, jsonFence)
		payload, _, _ = strings.Cut(after, fence)
	case strings.Contains(payload, fence):
		parts := strings.SplitN(payload, fence, 3)
		payload = parts[1]
	}

	if span := arraySpan.FindString(payload); span != "" {
		payload = span
	}

	payload = strings.TrimSpace(payload)
	if payload == "" {
		return "", ErrNoJSON
	}
	return payload, nil
}

// ParseMatches extracts, decodes, and sanitizes a match payload.
func ParseMatches(text string) ([]model.MatchCandidate, error) {
	payload, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(payload)))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoJSON, err)
	}

	return Sanitize(raw)
}
