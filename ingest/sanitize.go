package ingest

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/landmatch/core/geo"
	"github.com/tailored-agentic-units/landmatch/core/model"
)

// Field fallbacks applied when the AI service omits a value or sends an
// unusable one.
const (
	DefaultName       = "Unnamed Site"
	DefaultType       = "Mixed-Use"
	DefaultLocation   = "Unknown Location"
	DefaultSize       = "Unknown Size"
	DefaultPrice      = "Contact for Price"
	DefaultZoning     = "Pending"
	DefaultSoilReport = "N/A"
)

// Sanitize coerces a decoded JSON value into match candidates. It fails only
// when raw is not an array; elements of any shape produce a fully populated
// candidate with a fresh ID.
func Sanitize(raw any) ([]model.MatchCandidate, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotArray, raw)
	}

	matches := make([]model.MatchCandidate, 0, len(items))
	for _, item := range items {
		obj, _ := item.(map[string]any)
		matches = append(matches, sanitizeCandidate(obj))
	}
	return matches, nil
}

// sanitizeCandidate reads each field with an explicit type check. A nil map
// yields a candidate made entirely of defaults.
func sanitizeCandidate(obj map[string]any) model.MatchCandidate {
	typ := obj["type"]
	if isFalsy(typ) {
		typ = obj["assetType"]
	}

	return model.MatchCandidate{
		ID:             newID(),
		Name:           stringOr(obj["name"], DefaultName),
		Type:           stringOr(typ, DefaultType),
		Location:       locationOf(obj["location"]),
		Coordinates:    coordinatesOf(obj["coordinates"]),
		Size:           stringOr(obj["size"], DefaultSize),
		Price:          stringOr(obj["price"], DefaultPrice),
		ProjectedIRR:   numberOf(obj["projectedIRR"]),
		MatchScore:     numberOf(obj["matchScore"]),
		Reasoning:      stringOr(obj["reasoning"], ""),
		Zoning:         stringOr(obj["zoning"], DefaultZoning),
		SoilReport:     stringOr(obj["soilReport"], DefaultSoilReport),
		Infrastructure: infrastructureOf(obj["infrastructure"]),
	}
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func locationOf(v any) string {
	switch loc := v.(type) {
	case string:
		return loc
	case map[string]any:
		if s, ok := nonEmpty(loc["address"]); ok {
			return s
		}
		if s, ok := nonEmpty(loc["name"]); ok {
			return s
		}
		return StableString(loc)
	default:
		return DefaultLocation
	}
}

func infrastructureOf(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		switch it := item.(type) {
		case string:
			out = append(out, it)
		case map[string]any:
			if s, ok := nonEmpty(it["name"]); ok {
				out = append(out, s)
			} else {
				out = append(out, StableString(it))
			}
		default:
			out = append(out, toString(it))
		}
	}
	return out
}

func coordinatesOf(v any) geo.Point {
	obj, ok := v.(map[string]any)
	if !ok {
		return geo.Riyadh
	}

	lat, latOK := strictNumber(obj["lat"])
	lng, lngOK := strictNumber(obj["lng"])
	if !latOK || !lngOK {
		return geo.Riyadh
	}

	p := geo.Point{Lat: lat, Lng: lng}
	if !p.Valid() {
		return geo.Riyadh
	}
	return p
}

// StableString encodes v as JSON with object keys sorted, so equal values
// always encode identically.
func StableString(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func isFalsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case json.Number:
		f, err := x.Float64()
		return err == nil && (f == 0 || math.IsNaN(f))
	case float64:
		return x == 0 || math.IsNaN(x)
	case int:
		return x == 0
	default:
		return false
	}
}

func stringOr(v any, fallback string) string {
	if isFalsy(v) {
		return fallback
	}
	return toString(v)
}

// nonEmpty converts a truthy value to its string form.
func nonEmpty(v any) (string, bool) {
	if isFalsy(v) {
		return "", false
	}
	return toString(v), true
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case map[string]any, []any:
		return StableString(x)
	default:
		return fmt.Sprint(x)
	}
}

// numberOf coerces v to a finite float. Unusable values become 0.
func numberOf(v any) float64 {
	var f float64
	switch x := v.(type) {
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return 0
		}
		f = n
	case float64:
		f = x
	case int:
		f = float64(x)
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		f = n
	case bool:
		if x {
			return 1
		}
		return 0
	default:
		return 0
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// strictNumber accepts finite numbers and numeric strings only.
func strictNumber(v any) (float64, bool) {
	var n float64
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case float64:
		n = x
	case int:
		n = float64(x)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
