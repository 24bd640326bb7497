package ingest_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/landmatch/core/geo"
	"github.com/tailored-agentic-units/landmatch/core/model"
	"github.com/tailored-agentic-units/landmatch/core/response"
	"github.com/tailored-agentic-units/landmatch/ingest"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr error
	}{
		{
			name: "bare array",
			text: `[{"name":"A"}]`,
			want: `[{"name":"A"}]`,
		},
		{
			name: "json fence",
			text: "Here you go:\n```json\n[{\"name\":\"A\"}]\n```\nGood luck.",
			want: `[{"name":"A"}]`,
		},
		{
			name: "bare fence",
			text: "```\n[1, 2]\n```",
			want: `[1, 2]`,
		},
		{
			name: "prose around array",
			text: `The best plots are [{"name":"A"},{"name":"B"}] as listed.`,
			want: `[{"name":"A"},{"name":"B"}]`,
		},
		{
			name: "unterminated json fence",
			text: "```json\n[3]",
			want: `[3]`,
		},
		{
			name: "object without array",
			text: `{"name":"A"}`,
			want: `{"name":"A"}`,
		},
		{
			name:    "empty",
			text:    "   ",
			wantErr: ingest.ErrNoJSON,
		},
		{
			name:    "empty fence",
			text:    "```json\n```",
			wantErr: ingest.ErrNoJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ingest.ExtractJSON(tt.text)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got error %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractJSON failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseMatches_Errors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{name: "no json", text: "I could not find any plots.", wantErr: ingest.ErrNoJSON},
		{name: "broken array", text: "[{name: A}]", wantErr: ingest.ErrNoJSON},
		{name: "object payload", text: `{"matches": 3}`, wantErr: ingest.ErrNotArray},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ingest.ParseMatches(tt.text)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseMatches_WellFormed(t *testing.T) {
	text := "```json\n" + `[
  {
    "name": "King Salman Park Plot",
    "type": "Mixed-Use",
    "location": "Al Malqa, Riyadh",
    "coordinates": {"lat": 24.81, "lng": 46.62},
    "size": "12,000 sqm",
    "price": "SAR 45M",
    "projectedIRR": 19.5,
    "matchScore": 92,
    "reasoning": "Close to metro line 1.",
    "zoning": "Commercial/Residential",
    "soilReport": "Stable",
    "infrastructure": ["Metro", "Ring road"]
  }
]` + "\n```"

	matches, err := ingest.ParseMatches(text)
	if err != nil {
		t.Fatalf("ParseMatches failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}

	got := matches[0]
	if _, err := uuid.Parse(got.ID); err != nil {
		t.Errorf("got ID %q, want a UUID: %v", got.ID, err)
	}
	got.ID = ""

	want := model.MatchCandidate{
		Name:           "King Salman Park Plot",
		Type:           "Mixed-Use",
		Location:       "Al Malqa, Riyadh",
		Coordinates:    geo.Point{Lat: 24.81, Lng: 46.62},
		Size:           "12,000 sqm",
		Price:          "SAR 45M",
		ProjectedIRR:   19.5,
		MatchScore:     92,
		Reasoning:      "Close to metro line 1.",
		Zoning:         "Commercial/Residential",
		SoilReport:     "Stable",
		Infrastructure: []string{"Metro", "Ring road"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v\nwant %+v", got, want)
	}
}

func TestSanitize_NotArray(t *testing.T) {
	for _, raw := range []any{nil, "text", map[string]any{}, json.Number("3")} {
		if _, err := ingest.Sanitize(raw); !errors.Is(err, ingest.ErrNotArray) {
			t.Errorf("Sanitize(%#v): got error %v, want ErrNotArray", raw, err)
		}
	}
}

func TestSanitize_MalformedElementsAreDefaulted(t *testing.T) {
	raw := []any{
		nil,
		"just a string",
		json.Number("42"),
		[]any{1, 2},
		map[string]any{},
		map[string]any{
			"name":           false,
			"type":           json.Number("0"),
			"location":       []any{"not", "an", "object"},
			"coordinates":    "24,46",
			"projectedIRR":   "high",
			"matchScore":     map[string]any{"value": 3},
			"infrastructure": "Metro",
			"zoning":         nil,
		},
	}

	matches, err := ingest.Sanitize(raw)
	if err != nil {
		t.Fatalf("Sanitize failed: %v", err)
	}
	if len(matches) != len(raw) {
		t.Fatalf("got %d matches, want %d", len(matches), len(raw))
	}

	seen := make(map[string]bool)
	for i, m := range matches {
		if m.ID == "" || seen[m.ID] {
			t.Errorf("match %d: got ID %q, want unique non-empty", i, m.ID)
		}
		seen[m.ID] = true

		if m.Name != ingest.DefaultName {
			t.Errorf("match %d: got name %q, want %q", i, m.Name, ingest.DefaultName)
		}
		if m.Type != ingest.DefaultType {
			t.Errorf("match %d: got type %q, want %q", i, m.Type, ingest.DefaultType)
		}
		if m.Location != ingest.DefaultLocation {
			t.Errorf("match %d: got location %q, want %q", i, m.Location, ingest.DefaultLocation)
		}
		if m.Coordinates != geo.Riyadh {
			t.Errorf("match %d: got coordinates %v, want %v", i, m.Coordinates, geo.Riyadh)
		}
		if m.Size != ingest.DefaultSize || m.Price != ingest.DefaultPrice {
			t.Errorf("match %d: got size %q price %q, want defaults", i, m.Size, m.Price)
		}
		if m.ProjectedIRR != 0 || m.MatchScore != 0 {
			t.Errorf("match %d: got irr %v score %v, want 0", i, m.ProjectedIRR, m.MatchScore)
		}
		if m.Zoning != ingest.DefaultZoning || m.SoilReport != ingest.DefaultSoilReport {
			t.Errorf("match %d: got zoning %q soil %q, want defaults", i, m.Zoning, m.SoilReport)
		}
		if m.Infrastructure == nil || len(m.Infrastructure) != 0 {
			t.Errorf("match %d: got infrastructure %#v, want empty non-nil", i, m.Infrastructure)
		}
	}
}

func TestSanitize_Location(t *testing.T) {
	tests := []struct {
		name string
		loc  any
		want string
	}{
		{name: "string", loc: "Olaya, Riyadh", want: "Olaya, Riyadh"},
		{name: "address", loc: map[string]any{"address": "Business Bay, Dubai", "name": "Tower"}, want: "Business Bay, Dubai"},
		{name: "name", loc: map[string]any{"name": "Diriyah Gate"}, want: "Diriyah Gate"},
		{
			name: "stable encoding",
			loc:  map[string]any{"lng": json.Number("46.6"), "lat": json.Number("24.7"), "city": "Riyadh"},
			want: `{"city":"Riyadh","lat":24.7,"lng":46.6}`,
		},
		{name: "number", loc: json.Number("7"), want: ingest.DefaultLocation},
		{name: "null", loc: nil, want: ingest.DefaultLocation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := ingest.Sanitize([]any{map[string]any{"location": tt.loc}})
			if err != nil {
				t.Fatalf("Sanitize failed: %v", err)
			}
			if got := matches[0].Location; got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitize_LocationEncodingIsStable(t *testing.T) {
	text := `[{"location": {"zone": "north", "district": "Hittin", "block": 4}},
	          {"location": {"block": 4, "district": "Hittin", "zone": "north"}}]`

	matches, err := ingest.ParseMatches(text)
	if err != nil {
		t.Fatalf("ParseMatches failed: %v", err)
	}
	if matches[0].Location != matches[1].Location {
		t.Errorf("encodings differ: %q vs %q", matches[0].Location, matches[1].Location)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(matches[0].Location), &decoded); err != nil {
		t.Errorf("encoding is not round-trippable: %v", err)
	}
}

func TestSanitize_Infrastructure(t *testing.T) {
	raw := []any{map[string]any{
		"infrastructure": []any{
			"Metro",
			map[string]any{"name": "Airport", "distance": "10km"},
			map[string]any{"type": "road"},
			json.Number("5"),
			true,
		},
	}}

	matches, err := ingest.Sanitize(raw)
	if err != nil {
		t.Fatalf("Sanitize failed: %v", err)
	}

	want := []string{"Metro", "Airport", `{"type":"road"}`, "5", "true"}
	if !reflect.DeepEqual(matches[0].Infrastructure, want) {
		t.Errorf("got %#v, want %#v", matches[0].Infrastructure, want)
	}
}

func TestSanitize_Numbers(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want float64
	}{
		{name: "json number", v: json.Number("18.5"), want: 18.5},
		{name: "float", v: 21.0, want: 21},
		{name: "numeric string", v: " 17 ", want: 17},
		{name: "percent string", v: "17%", want: 0},
		{name: "true", v: true, want: 1},
		{name: "false", v: false, want: 0},
		{name: "null", v: nil, want: 0},
		{name: "object", v: map[string]any{}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := ingest.Sanitize([]any{map[string]any{"projectedIRR": tt.v, "matchScore": tt.v}})
			if err != nil {
				t.Fatalf("Sanitize failed: %v", err)
			}
			if matches[0].ProjectedIRR != tt.want || matches[0].MatchScore != tt.want {
				t.Errorf("got irr %v score %v, want %v", matches[0].ProjectedIRR, matches[0].MatchScore, tt.want)
			}
		})
	}
}

func TestSanitize_Coordinates(t *testing.T) {
	tests := []struct {
		name   string
		coords any
		want   geo.Point
	}{
		{name: "absent", coords: nil, want: geo.Riyadh},
		{name: "numeric", coords: map[string]any{"lat": json.Number("25.2"), "lng": json.Number("55.27")}, want: geo.Point{Lat: 25.2, Lng: 55.27}},
		{name: "numeric strings", coords: map[string]any{"lat": "25.2", "lng": "55.27"}, want: geo.Point{Lat: 25.2, Lng: 55.27}},
		{name: "missing lng", coords: map[string]any{"lat": json.Number("25.2")}, want: geo.Riyadh},
		{name: "text", coords: map[string]any{"lat": "north", "lng": "east"}, want: geo.Riyadh},
		{name: "out of range", coords: map[string]any{"lat": json.Number("125"), "lng": json.Number("46")}, want: geo.Riyadh},
		{name: "array", coords: []any{json.Number("24"), json.Number("46")}, want: geo.Riyadh},
		{name: "overflowing lat", coords: map[string]any{"lat": json.Number("1e999"), "lng": json.Number("46.6")}, want: geo.Riyadh},
		{name: "malformed number", coords: map[string]any{"lat": json.Number("24.x"), "lng": json.Number("46.6")}, want: geo.Riyadh},
		{name: "infinite string", coords: map[string]any{"lat": "Inf", "lng": "46.6"}, want: geo.Riyadh},
		{name: "nan string", coords: map[string]any{"lat": "24.7", "lng": "NaN"}, want: geo.Riyadh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := ingest.Sanitize([]any{map[string]any{"coordinates": tt.coords}})
			if err != nil {
				t.Fatalf("Sanitize failed: %v", err)
			}
			if got := matches[0].Coordinates; got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseMatches_OverflowingCoordinateFallsBack(t *testing.T) {
	matches, err := ingest.ParseMatches(`[{"name":"x","coordinates":{"lat":1e999,"lng":46.6}}]`)
	if err != nil {
		t.Fatalf("ParseMatches failed: %v", err)
	}
	if got := matches[0].Coordinates; got != geo.Riyadh {
		t.Errorf("got %v, want %v", got, geo.Riyadh)
	}
}

func TestSanitize_AssetTypeAlias(t *testing.T) {
	matches, err := ingest.Sanitize([]any{map[string]any{"assetType": "Commercial HQ"}})
	if err != nil {
		t.Fatalf("Sanitize failed: %v", err)
	}
	if matches[0].Type != "Commercial HQ" {
		t.Errorf("got type %q, want Commercial HQ", matches[0].Type)
	}
}

func TestExtractSources(t *testing.T) {
	t.Run("nil metadata", func(t *testing.T) {
		got := ingest.ExtractSources(nil)
		if got == nil || len(got) != 0 {
			t.Errorf("got %#v, want empty non-nil", got)
		}
	})

	t.Run("mixed chunks", func(t *testing.T) {
		meta := &response.GroundingMetadata{
			GroundingChunks: []response.GroundingChunk{
				{Maps: &response.MapsChunk{URI: "https://maps.google.com/?cid=1", Title: "Riyadh Front"}},
				{Web: &response.WebChunk{URI: "https://example.com", Title: "Article"}},
				{Maps: &response.MapsChunk{URI: "https://maps.google.com/?cid=2"}},
				{},
			},
		}

		want := []model.GroundingSource{
			{Title: "Riyadh Front", URL: "https://maps.google.com/?cid=1"},
			{Title: "Map Location", URL: "https://maps.google.com/?cid=2"},
		}
		if got := ingest.ExtractSources(meta); !reflect.DeepEqual(got, want) {
			t.Errorf("got %#v, want %#v", got, want)
		}
	})
}
