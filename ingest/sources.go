package ingest

import (
	"github.com/tailored-agentic-units/landmatch/core/model"
	"github.com/tailored-agentic-units/landmatch/core/response"
)

const defaultSourceTitle = "Map Location"

// ExtractSources collects map citations from grounding metadata. Chunks
// without a maps payload are skipped. The result is never nil.
func ExtractSources(meta *response.GroundingMetadata) []model.GroundingSource {
	sources := []model.GroundingSource{}
	if meta == nil {
		return sources
	}

	for _, chunk := range meta.GroundingChunks {
		if chunk.Maps == nil {
			continue
		}
		title := chunk.Maps.Title
		if title == "" {
			title = defaultSourceTitle
		}
		sources = append(sources, model.GroundingSource{
			Title: title,
			URL:   chunk.Maps.URI,
		})
	}
	return sources
}
