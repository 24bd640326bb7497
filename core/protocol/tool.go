package protocol

// Tool enables a built-in service tool. Exactly one field is set.
type Tool struct {
	GoogleMaps   *GoogleMaps   `json:"googleMaps,omitempty"`
	GoogleSearch *GoogleSearch `json:"googleSearch,omitempty"`
}

// GoogleMaps enables map grounding. It carries no options.
type GoogleMaps struct{}

// GoogleSearch enables web search grounding.
type GoogleSearch struct{}

// MapsTool returns a Tool enabling map grounding.
func MapsTool() Tool {
	return Tool{GoogleMaps: &GoogleMaps{}}
}

// ToolConfig carries tool-wide settings such as the user's position.
type ToolConfig struct {
	RetrievalConfig *RetrievalConfig `json:"retrievalConfig,omitempty"`
}

// RetrievalConfig biases grounding results toward a position.
type RetrievalConfig struct {
	LatLng *LatLng `json:"latLng,omitempty"`
}

// LatLng is the service's coordinate representation.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
