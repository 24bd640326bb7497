package engine_test

import (
	"context"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/tailored-agentic-units/landmatch/agent"
	"github.com/tailored-agentic-units/landmatch/agent/mock"
	"github.com/tailored-agentic-units/landmatch/core/config"
	"github.com/tailored-agentic-units/landmatch/core/geo"
	"github.com/tailored-agentic-units/landmatch/core/model"
	"github.com/tailored-agentic-units/landmatch/core/protocol"
	"github.com/tailored-agentic-units/landmatch/core/response"
	"github.com/tailored-agentic-units/landmatch/engine"
	"github.com/tailored-agentic-units/landmatch/geolocation"
	"github.com/tailored-agentic-units/landmatch/memory"
	"github.com/tailored-agentic-units/landmatch/observability"
)

const threeCandidates = "Here are three opportunities:\n```json\n" + `[
  {"name": "Diriyah Gate Plot", "type": "Mixed-Use", "location": "Diriyah, Riyadh",
   "coordinates": {"lat": 24.7343, "lng": 46.5756}, "size": "25,000 sqm", "price": "SAR 120M",
   "projectedIRR": 18.5, "matchScore": 94, "reasoning": "Giga-project adjacency.",
   "zoning": "Mixed-Use", "soilReport": "Limestone, stable", "infrastructure": ["Metro Line 1", "King Khalid Rd"]},
  {"name": "Business Bay Parcel", "type": "Mixed-Use", "location": "Business Bay, Dubai",
   "coordinates": {"lat": 25.1850, "lng": 55.2650}, "size": "8,000 sqm", "price": "AED 95M",
   "projectedIRR": 17.2, "matchScore": 88, "reasoning": "Canal frontage.",
   "zoning": "Commercial/Residential", "soilReport": "Reclaimed, piling required", "infrastructure": ["Canal", "Metro"]},
  {"name": "KAFD Edge Lot", "type": "Mixed-Use", "location": "KAFD, Riyadh",
   "coordinates": {"lat": 24.7600, "lng": 46.6400}, "size": "12,500 sqm", "price": "SAR 80M",
   "projectedIRR": 19.1, "matchScore": 91, "reasoning": "Financial district demand.",
   "zoning": "Mixed-Use", "soilReport": "Stable", "infrastructure": ["Monorail"]}
]` + "\n```"

func groundingChunks() *response.GroundingMetadata {
	return &response.GroundingMetadata{
		GroundingChunks: []response.GroundingChunk{
			{Maps: &response.MapsChunk{URI: "https://maps.google.com/?cid=1", Title: "Diriyah Gate"}},
			{Web: &response.WebChunk{URI: "https://example.com"}},
		},
	}
}

var mandate = model.Mandate{
	Capital:      50000000,
	TargetReturn: 18,
	AssetType:    model.MixedUseCommunities,
}

type recordingSleeper struct {
	delays []time.Duration
}

func (s *recordingSleeper) sleep(ctx context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return nil
}

func newEngine(t *testing.T, a agent.Agent, opts ...engine.Option) (*engine.Engine, *observability.Recorder) {
	t.Helper()

	rec := &observability.Recorder{}
	base := []engine.Option{
		engine.WithAgent(a),
		engine.WithObserver(rec),
		engine.WithLocator(geolocation.None{}),
		engine.WithSleeper((&recordingSleeper{}).sleep),
	}

	e, err := engine.New(context.Background(), &engine.Config{Observer: "noop"}, append(base, opts...)...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return e, rec
}

func TestFindMatches_EndToEnd(t *testing.T) {
	a := mock.NewTextAgent(threeCandidates, groundingChunks())
	e, rec := newEngine(t, a)

	result := e.FindMatches(context.Background(), mandate)

	want := []model.MatchCandidate{
		{
			Name: "Diriyah Gate Plot", Type: "Mixed-Use", Location: "Diriyah, Riyadh",
			Coordinates: geo.Point{Lat: 24.7343, Lng: 46.5756}, Size: "25,000 sqm", Price: "SAR 120M",
			ProjectedIRR: 18.5, MatchScore: 94, Reasoning: "Giga-project adjacency.",
			Zoning: "Mixed-Use", SoilReport: "Limestone, stable", Infrastructure: []string{"Metro Line 1", "King Khalid Rd"},
		},
		{
			Name: "Business Bay Parcel", Type: "Mixed-Use", Location: "Business Bay, Dubai",
			Coordinates: geo.Point{Lat: 25.1850, Lng: 55.2650}, Size: "8,000 sqm", Price: "AED 95M",
			ProjectedIRR: 17.2, MatchScore: 88, Reasoning: "Canal frontage.",
			Zoning: "Commercial/Residential", SoilReport: "Reclaimed, piling required", Infrastructure: []string{"Canal", "Metro"},
		},
		{
			Name: "KAFD Edge Lot", Type: "Mixed-Use", Location: "KAFD, Riyadh",
			Coordinates: geo.Point{Lat: 24.7600, Lng: 46.6400}, Size: "12,500 sqm", Price: "SAR 80M",
			ProjectedIRR: 19.1, MatchScore: 91, Reasoning: "Financial district demand.",
			Zoning: "Mixed-Use", SoilReport: "Stable", Infrastructure: []string{"Monorail"},
		},
	}

	if len(result.Matches) != len(want) {
		t.Fatalf("got %d matches, want %d", len(result.Matches), len(want))
	}
	for i, got := range result.Matches {
		if got.ID == "" {
			t.Errorf("match %d has empty ID", i)
		}
		got.ID = ""
		if !equalCandidate(got, want[i]) {
			t.Errorf("match %d:\ngot  %+v\nwant %+v", i, got, want[i])
		}
	}

	if len(result.Sources) != 1 || result.Sources[0].Title != "Diriyah Gate" {
		t.Errorf("got sources %+v, want the single maps chunk", result.Sources)
	}

	calls := a.Calls()
	if len(calls) != 1 {
		t.Fatalf("got %d agent calls, want 1", len(calls))
	}
	req := calls[0]
	if req.Mode() != protocol.Grounded {
		t.Errorf("got mode %q, want grounded", req.Mode())
	}
	if len(req.Tools) != 1 || req.Tools[0].GoogleMaps == nil {
		t.Errorf("got tools %+v, want the maps tool", req.Tools)
	}
	if req.ToolConfig != nil {
		t.Error("expected no retrieval config without a position")
	}

	prompt := req.Contents[0].Parts[0].Text
	for _, fragment := range []string{"50000000 AED/SAR", "IRR of 18%", `"Mixed-Use Communities"`, "find 3 real plot opportunities in Riyadh or Dubai"} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("prompt missing %q:\n%s", fragment, prompt)
		}
	}

	if rec.Count(engine.EventMatchStart) != 1 || rec.Count(engine.EventMatchComplete) != 1 {
		t.Error("expected one start and one complete event")
	}
	if rec.Count(engine.EventError) != 0 {
		t.Errorf("got %d error events, want 0", rec.Count(engine.EventError))
	}
}

func equalCandidate(a, b model.MatchCandidate) bool {
	return reflect.DeepEqual(a, b)
}

func TestFindMatches_RetriesTransientFailures(t *testing.T) {
	unavailable := &agent.StatusError{Code: 503, Body: "overloaded"}
	a := mock.NewMockAgent(
		mock.Reply{Err: unavailable},
		mock.Reply{Err: unavailable},
		mock.Reply{Response: response.Text(threeCandidates, nil)},
	)
	sleeper := &recordingSleeper{}
	e, rec := newEngine(t, a, engine.WithSleeper(sleeper.sleep))

	result := e.FindMatches(context.Background(), mandate)

	if len(result.Matches) != 3 {
		t.Errorf("got %d matches, want 3", len(result.Matches))
	}
	if a.CallCount() != 3 {
		t.Errorf("got %d calls, want 3", a.CallCount())
	}
	if len(sleeper.delays) != 2 || sleeper.delays[0] != time.Second || sleeper.delays[1] != 2*time.Second {
		t.Errorf("got delays %v, want [1s 2s]", sleeper.delays)
	}
	if rec.Count("retry.attempt") != 2 {
		t.Errorf("got %d retry events, want 2", rec.Count("retry.attempt"))
	}
}

func TestFindMatches_FailuresYieldEmptyResult(t *testing.T) {
	tests := []struct {
		name       string
		agent      *mock.MockAgent
		mandate    model.Mandate
		wantCalls  int
		wantErrEvt int
	}{
		{
			name:       "non-transient status",
			agent:      mock.NewErrorAgent(&agent.StatusError{Code: 400, Body: "bad"}),
			mandate:    mandate,
			wantCalls:  1,
			wantErrEvt: 1,
		},
		{
			name:       "empty answer",
			agent:      mock.NewTextAgent("", nil),
			mandate:    mandate,
			wantCalls:  1,
			wantErrEvt: 0,
		},
		{
			name:       "prose without json",
			agent:      mock.NewTextAgent("I cannot help with that.", nil),
			mandate:    mandate,
			wantCalls:  1,
			wantErrEvt: 1,
		},
		{
			name:       "object instead of array",
			agent:      mock.NewTextAgent(`{"name": "x"}`, nil),
			mandate:    mandate,
			wantCalls:  1,
			wantErrEvt: 1,
		},
		{
			name:       "invalid mandate",
			agent:      mock.NewTextAgent(threeCandidates, nil),
			mandate:    model.Mandate{Capital: 0, AssetType: model.CommercialHQ},
			wantCalls:  0,
			wantErrEvt: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, rec := newEngine(t, tt.agent)
			result := e.FindMatches(context.Background(), tt.mandate)

			if result.Matches == nil || result.Sources == nil {
				t.Fatal("empty result must carry non-nil lists")
			}
			if len(result.Matches) != 0 || len(result.Sources) != 0 {
				t.Errorf("got %+v, want empty result", result)
			}
			if tt.agent.CallCount() != tt.wantCalls {
				t.Errorf("got %d calls, want %d", tt.agent.CallCount(), tt.wantCalls)
			}
			if rec.Count(engine.EventError) != tt.wantErrEvt {
				t.Errorf("got %d error events, want %d", rec.Count(engine.EventError), tt.wantErrEvt)
			}
		})
	}
}

func TestFindMatches_Geolocation(t *testing.T) {
	t.Run("locator position is sent", func(t *testing.T) {
		a := mock.NewTextAgent(threeCandidates, nil)
		e, _ := newEngine(t, a, engine.WithLocator(geolocation.Static(geo.Point{Lat: 25.2, Lng: 55.27})))

		e.FindMatches(context.Background(), mandate)

		tc := a.Calls()[0].ToolConfig
		if tc == nil || tc.RetrievalConfig == nil || tc.RetrievalConfig.LatLng == nil {
			t.Fatal("expected retrieval config with a position")
		}
		if tc.RetrievalConfig.LatLng.Latitude != 25.2 || tc.RetrievalConfig.LatLng.Longitude != 55.27 {
			t.Errorf("got position %+v", tc.RetrievalConfig.LatLng)
		}
	})

	t.Run("mandate position wins", func(t *testing.T) {
		a := mock.NewTextAgent(threeCandidates, nil)
		e, _ := newEngine(t, a, engine.WithLocator(geolocation.Static(geo.Point{Lat: 25.2, Lng: 55.27})))

		m := mandate
		m.Location = &geo.Point{Lat: 21.5, Lng: 39.2}
		e.FindMatches(context.Background(), m)

		if got := a.Calls()[0].ToolConfig.RetrievalConfig.LatLng.Latitude; got != 21.5 {
			t.Errorf("got latitude %v, want 21.5", got)
		}
	})

	t.Run("invalid locator position is ignored", func(t *testing.T) {
		for _, p := range []geo.Point{
			{Lat: 124.7, Lng: 46.6},
			{Lat: 24.7, Lng: math.NaN()},
			{Lat: math.Inf(1), Lng: 46.6},
		} {
			a := mock.NewTextAgent(threeCandidates, nil)
			bad := geolocation.LocatorFunc(func(context.Context) (geo.Point, error) { return p, nil })
			e, rec := newEngine(t, a, engine.WithLocator(bad))

			result := e.FindMatches(context.Background(), mandate)

			if len(result.Matches) != 3 {
				t.Errorf("%v: got %d matches, want 3", p, len(result.Matches))
			}
			if a.Calls()[0].ToolConfig != nil {
				t.Errorf("%v: expected no retrieval config", p)
			}
			if rec.Count(engine.EventGeolocationUnavailable) != 1 {
				t.Errorf("%v: got %d geolocation events, want 1", p, rec.Count(engine.EventGeolocationUnavailable))
			}
		}
	})

	t.Run("slow locator times out and is ignored", func(t *testing.T) {
		a := mock.NewTextAgent(threeCandidates, nil)
		slow := geolocation.LocatorFunc(func(ctx context.Context) (geo.Point, error) {
			<-ctx.Done()
			return geo.Point{}, ctx.Err()
		})

		rec := &observability.Recorder{}
		e, err := engine.New(context.Background(),
			&engine.Config{GeolocationTimeout: config.Duration(20 * time.Millisecond), Observer: "noop"},
			engine.WithAgent(a), engine.WithLocator(slow), engine.WithObserver(rec))
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		result := e.FindMatches(ctx, mandate)

		if len(result.Matches) != 3 {
			t.Errorf("got %d matches, want 3", len(result.Matches))
		}
		if a.Calls()[0].ToolConfig != nil {
			t.Error("expected no retrieval config after locator failure")
		}
		if rec.Count(engine.EventGeolocationUnavailable) != 1 {
			t.Errorf("got %d geolocation events, want 1", rec.Count(engine.EventGeolocationUnavailable))
		}
		if rec.Count(engine.EventError) != 0 {
			t.Error("geolocation failure must not be reported as an error")
		}
	})
}

func TestFindMatches_NoCredentials(t *testing.T) {
	t.Setenv("API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	rec := &observability.Recorder{}
	e, err := engine.New(context.Background(), &engine.Config{Observer: "noop"},
		engine.WithObserver(rec), engine.WithLocator(geolocation.None{}))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if e.HasAgent() {
		t.Fatal("expected engine without agent")
	}

	result := e.FindMatches(context.Background(), mandate)
	if len(result.Matches) != 0 {
		t.Errorf("got %d matches, want 0", len(result.Matches))
	}
	if got := e.AnalyzeRisk(context.Background(), "Riyadh"); len(got) != 0 {
		t.Errorf("got %d risks, want 0", len(got))
	}
	if rec.Count(engine.EventNoAgent) != 1 {
		t.Errorf("got %d missing-agent events, want 1", rec.Count(engine.EventNoAgent))
	}
}

func TestFindMatches_Cache(t *testing.T) {
	a := mock.NewTextAgent(threeCandidates, groundingChunks())
	cache := memory.NewCache(memory.NewMapStore(), time.Minute)
	e, rec := newEngine(t, a, engine.WithCache(cache))

	first := e.FindMatches(context.Background(), mandate)
	second := e.FindMatches(context.Background(), mandate)

	if a.CallCount() != 1 {
		t.Errorf("got %d agent calls, want 1", a.CallCount())
	}
	if len(first.Matches) != 3 || len(second.Matches) != 3 {
		t.Errorf("got %d and %d matches, want 3 each", len(first.Matches), len(second.Matches))
	}
	if len(second.Sources) != 1 {
		t.Errorf("cached reply lost grounding: %+v", second.Sources)
	}
	if rec.Count(engine.EventCacheHit) != 1 {
		t.Errorf("got %d cache hits, want 1", rec.Count(engine.EventCacheHit))
	}
}

func TestAnalyzeCompliance(t *testing.T) {
	reply := `[
	  {"title": "Estidama Pearl Rating", "impact": "High", "description": "2 Pearl minimum.", "savingEstimate": "5%"},
	  {"title": "White Land Tax", "impact": "Medium", "description": "2.5% levy on idle land.", "savingEstimate": "SAR 2M"},
	  {"title": "Setbacks", "impact": "Low", "description": "Standard.", "savingEstimate": "N/A"}
	]`
	a := mock.NewTextAgent(reply, nil)
	e, _ := newEngine(t, a)

	got := e.AnalyzeCompliance(context.Background(), "Mixed-Use Communities", "Riyadh")

	if len(got) != 3 {
		t.Fatalf("got %d insights, want 3", len(got))
	}
	if got[0].Impact != model.ImpactHigh || got[1].Title != "White Land Tax" {
		t.Errorf("got %+v", got)
	}

	req := a.Calls()[0]
	if req.Mode() != protocol.Structured {
		t.Errorf("got mode %q, want structured", req.Mode())
	}
	if req.GenerationConfig.ResponseMIMEType != protocol.MIMEJSON {
		t.Errorf("got MIME type %q", req.GenerationConfig.ResponseMIMEType)
	}
	prompt := req.Contents[0].Parts[0].Text
	if !strings.Contains(prompt, "Estidama") || !strings.Contains(prompt, `"Riyadh"`) {
		t.Errorf("unexpected prompt %q", prompt)
	}
}

func TestAnalyzeRisk(t *testing.T) {
	t.Run("success after transient failure", func(t *testing.T) {
		a := mock.NewMockAgent(
			mock.Reply{Err: &agent.StatusError{Code: 502}},
			mock.Reply{Response: response.Text(`[{"category":"Shipping","riskLevel":"Critical","description":"Red Sea","mitigation":"Reroute"}]`, nil)},
		)
		e, _ := newEngine(t, a)

		got := e.AnalyzeRisk(context.Background(), "Riyadh")
		if len(got) != 1 || got[0].RiskLevel != model.RiskCritical {
			t.Errorf("got %+v", got)
		}
		if a.CallCount() != 2 {
			t.Errorf("got %d calls, want 2", a.CallCount())
		}
	})

	t.Run("malformed reply", func(t *testing.T) {
		a := mock.NewTextAgent("not json", nil)
		e, rec := newEngine(t, a)

		got := e.AnalyzeRisk(context.Background(), "Dubai")
		if got == nil || len(got) != 0 {
			t.Errorf("got %#v, want empty non-nil", got)
		}
		if rec.Count(engine.EventError) != 1 {
			t.Errorf("got %d error events, want 1", rec.Count(engine.EventError))
		}
	})

	t.Run("permanent failure", func(t *testing.T) {
		a := mock.NewErrorAgent(errors.New("permission denied"))
		e, _ := newEngine(t, a)

		if got := e.AnalyzeRisk(context.Background(), "Dubai"); len(got) != 0 {
			t.Errorf("got %+v, want empty", got)
		}
		if a.CallCount() != 1 {
			t.Errorf("got %d calls, want 1", a.CallCount())
		}
	})
}

func TestAdvise(t *testing.T) {
	a := mock.NewRoutingAgent(func(req *protocol.GenerateRequest) mock.Reply {
		prompt := req.Contents[0].Parts[0].Text
		if strings.Contains(prompt, "Estidama") {
			return mock.Reply{Response: response.Text(`[{"title":"Setbacks","impact":"Low","description":"Standard.","savingEstimate":"N/A"}]`, nil)}
		}
		return mock.Reply{Response: response.Text(`[{"category":"Steel","riskLevel":"Warning","description":"Tariffs","mitigation":"Hedge"},{"category":"Cement","riskLevel":"Stable","description":"Local","mitigation":"None"}]`, nil)}
	})
	e, _ := newEngine(t, a)

	got := e.Advise(context.Background(), "Commercial HQ", "Dubai", "Riyadh or Dubai")

	if len(got.Compliance) != 1 || got.Compliance[0].Title != "Setbacks" {
		t.Errorf("compliance = %+v", got.Compliance)
	}
	if len(got.Risks) != 2 || got.Risks[0].Category != "Steel" {
		t.Errorf("risks = %+v", got.Risks)
	}
	if a.CallCount() != 2 {
		t.Errorf("got %d calls, want 2", a.CallCount())
	}
}

func TestAdvise_FailedHalfDoesNotCancelOther(t *testing.T) {
	a := mock.NewRoutingAgent(func(req *protocol.GenerateRequest) mock.Reply {
		if strings.Contains(req.Contents[0].Parts[0].Text, "Estidama") {
			return mock.Reply{Err: &agent.StatusError{Code: 400, Body: "bad request"}}
		}
		return mock.Reply{Response: response.Text(`[{"category":"Steel","riskLevel":"Warning","description":"Tariffs","mitigation":"Hedge"}]`, nil)}
	})
	e, rec := newEngine(t, a)

	got := e.Advise(context.Background(), "Commercial HQ", "Dubai", "Riyadh or Dubai")

	if len(got.Compliance) != 0 {
		t.Errorf("compliance = %+v, want empty", got.Compliance)
	}
	if len(got.Risks) != 1 || got.Risks[0].Category != "Steel" {
		t.Errorf("risks = %+v, want the Steel risk", got.Risks)
	}
	if rec.Count(engine.EventError) != 1 {
		t.Errorf("got %d error events, want 1", rec.Count(engine.EventError))
	}
}
