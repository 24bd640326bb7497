// Package server exposes the matching engine and map renderer as a connect
// RPC service. Messages are google.protobuf.Struct values whose fields follow
// the JSON shape of the model package, so the service can be called with
// plain JSON POSTs as well as connect and gRPC clients.
package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tailored-agentic-units/landmatch/core/geo"
	"github.com/tailored-agentic-units/landmatch/core/model"
	"github.com/tailored-agentic-units/landmatch/mapview"
	"github.com/tailored-agentic-units/landmatch/mapview/raster"
	"github.com/tailored-agentic-units/landmatch/observability"
)

// ServiceName is the fully qualified RPC service name.
const ServiceName = "landmatch.v1.MatchService"

// Procedure paths.
const (
	FindMatchesProcedure       = "/" + ServiceName + "/FindMatches"
	AnalyzeComplianceProcedure = "/" + ServiceName + "/AnalyzeCompliance"
	AnalyzeRiskProcedure       = "/" + ServiceName + "/AnalyzeRisk"
	RenderMapProcedure         = "/" + ServiceName + "/RenderMap"
)

// EventRequest is emitted once per handled call.
const EventRequest observability.EventType = "server.request"

// Map size limits for RenderMap.
const (
	maxMapSide = 2048
)

// Matcher is the engine surface the service needs.
type Matcher interface {
	FindMatches(ctx context.Context, m model.Mandate) model.MatchResult
	AnalyzeCompliance(ctx context.Context, projectType, location string) []model.ComplianceInsight
	AnalyzeRisk(ctx context.Context, region string) []model.ProcurementRisk
}

// ComplianceRequest asks for the regulatory insights of a project.
type ComplianceRequest struct {
	ProjectType string `json:"projectType"`
	Location    string `json:"location"`
}

// ComplianceResponse carries compliance insights.
type ComplianceResponse struct {
	Insights []model.ComplianceInsight `json:"insights"`
}

// RiskRequest asks for the procurement risks of a region.
type RiskRequest struct {
	Region string `json:"region"`
}

// RiskResponse carries procurement risks.
type RiskResponse struct {
	Risks []model.ProcurementRisk `json:"risks"`
}

// MapRequest describes a map to render.
type MapRequest struct {
	Center    *geo.Point        `json:"center,omitempty"`
	Markers   []model.MapMarker `json:"markers"`
	FitBounds bool              `json:"fitBounds"`
	Width     int               `json:"width,omitempty"`
	Height    int               `json:"height,omitempty"`
}

// MapResponse carries a base64 PNG and the camera it was drawn with.
type MapResponse struct {
	PNG    string    `json:"png"`
	Center geo.Point `json:"center"`
	Zoom   int       `json:"zoom"`
	Width  int       `json:"width"`
	Height int       `json:"height"`
}

// Option configures a Server.
type Option func(*Server)

// WithObserver sets the observer for request events.
func WithObserver(o observability.Observer) Option {
	return func(s *Server) {
		s.observer = o
	}
}

// WithMapOptions sets the tile layer and initial zoom for RenderMap.
func WithMapOptions(opts mapview.Options) Option {
	return func(s *Server) {
		s.mapOpts = opts
	}
}

// Server implements the match service.
type Server struct {
	matcher  Matcher
	observer observability.Observer
	mapOpts  mapview.Options
}

// New creates a Server backed by m.
func New(m Matcher, opts ...Option) *Server {
	s := &Server{
		matcher:  m,
		observer: observability.NoOpObserver{},
		mapOpts:  mapview.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the service path prefix and its HTTP handler.
func (s *Server) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithInterceptors(s.observe())}, opts...)

	mux := http.NewServeMux()
	mux.Handle(FindMatchesProcedure, connect.NewUnaryHandler(FindMatchesProcedure, s.FindMatches, opts...))
	mux.Handle(AnalyzeComplianceProcedure, connect.NewUnaryHandler(AnalyzeComplianceProcedure, s.AnalyzeCompliance, opts...))
	mux.Handle(AnalyzeRiskProcedure, connect.NewUnaryHandler(AnalyzeRiskProcedure, s.AnalyzeRisk, opts...))
	mux.Handle(RenderMapProcedure, connect.NewUnaryHandler(RenderMapProcedure, s.RenderMap, opts...))
	return "/" + ServiceName + "/", mux
}

// FindMatches runs a grounded match query for the mandate in the request.
func (s *Server) FindMatches(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var m model.Mandate
	if err := decode(req.Msg, &m); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if err := m.Validate(); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if m.Location != nil && !m.Location.Valid() {
		m.Location = nil
	}
	return respond(s.matcher.FindMatches(ctx, m))
}

// AnalyzeCompliance returns regulatory insights for a project.
func (s *Server) AnalyzeCompliance(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var in ComplianceRequest
	if err := decode(req.Msg, &in); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if in.ProjectType == "" || in.Location == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("projectType and location are required"))
	}
	return respond(ComplianceResponse{Insights: s.matcher.AnalyzeCompliance(ctx, in.ProjectType, in.Location)})
}

// AnalyzeRisk returns procurement risks for a region.
func (s *Server) AnalyzeRisk(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var in RiskRequest
	if err := decode(req.Msg, &in); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if in.Region == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("region is required"))
	}
	return respond(RiskResponse{Risks: s.matcher.AnalyzeRisk(ctx, in.Region)})
}

// RenderMap draws the requested markers and returns the image as base64 PNG.
func (s *Server) RenderMap(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var in MapRequest
	if err := decode(req.Msg, &in); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if in.Width > maxMapSide || in.Height > maxMapSide {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("map size exceeds 2048 pixels"))
	}
	if err := ctx.Err(); err != nil {
		return nil, connect.NewError(connect.CodeCanceled, err)
	}

	center := geo.Riyadh
	if in.Center != nil && in.Center.Valid() {
		center = *in.Center
	}

	var buf bytes.Buffer
	snap, err := raster.Render(&buf, mapview.Props{
		Center:    center,
		Markers:   in.Markers,
		FitBounds: in.FitBounds,
	}, mapview.Container{ID: "rpc", Width: in.Width, Height: in.Height}, s.mapOpts)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return respond(MapResponse{
		PNG:    base64.StdEncoding.EncodeToString(buf.Bytes()),
		Center: snap.Center,
		Zoom:   snap.Zoom,
		Width:  snap.Width,
		Height: snap.Height,
	})
}

func respond(v any) (*connect.Response[structpb.Struct], error) {
	msg, err := encode(v)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(msg), nil
}

// observe reports the procedure, outcome and duration of each call.
func (s *Server) observe() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			res, err := next(ctx, req)

			level := observability.LevelVerbose
			code := "ok"
			if err != nil {
				level = observability.LevelWarning
				code = connect.CodeOf(err).String()
			}
			observability.Emit(ctx, s.observer, EventRequest, level, "server", map[string]any{
				"procedure": req.Spec().Procedure,
				"code":      code,
				"duration":  time.Since(start).String(),
			})
			return res, err
		}
	}
}
