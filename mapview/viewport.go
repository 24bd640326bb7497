package mapview

import (
	"github.com/tailored-agentic-units/landmatch/core/geo"
	"github.com/tailored-agentic-units/landmatch/core/model"
)

// Viewport constants.
const (
	DefaultZoom  = 12
	SingleZoom   = 13
	FitPadding   = 40
	FitMaxZoom   = 15
	CurrentLabel = "Current"
)

// ViewportKind selects how a Viewport is applied to a canvas.
type ViewportKind int

const (
	// SetView centres the canvas on Center at Zoom.
	SetView ViewportKind = iota
	// FitBounds frames Bounds using Fit.
	FitBounds
	// KeepZoom centres the canvas on Center at its current zoom.
	KeepZoom
)

// FitOptions constrain a bounds fit.
type FitOptions struct {
	Padding int
	MaxZoom int
}

// Viewport is the camera placement computed for one update.
type Viewport struct {
	Kind   ViewportKind
	Center geo.Point
	Zoom   int
	Bounds geo.Bounds
	Fit    FitOptions
}

// Apply moves c to the viewport.
func (v Viewport) Apply(c Canvas) {
	switch v.Kind {
	case FitBounds:
		c.FitBounds(v.Bounds, v.Fit)
	case KeepZoom:
		c.SetView(v.Center, c.Zoom())
	default:
		c.SetView(v.Center, v.Zoom)
	}
}

// ComputeViewport decides the camera for markers. With fitBounds, more than
// one marker is framed and a single marker is centred at SingleZoom. Without
// it the camera follows center and the zoom is left alone.
func ComputeViewport(center geo.Point, markers []model.MapMarker, fitBounds bool) Viewport {
	if !fitBounds {
		return Viewport{Kind: KeepZoom, Center: center}
	}
	switch len(markers) {
	case 0:
		return Viewport{Kind: SetView, Center: center, Zoom: SingleZoom}
	case 1:
		return Viewport{Kind: SetView, Center: markers[0].Point(), Zoom: SingleZoom}
	}
	points := make([]geo.Point, len(markers))
	for i, m := range markers {
		points[i] = m.Point()
	}
	return Viewport{
		Kind:   FitBounds,
		Center: center,
		Bounds: geo.BoundsOf(points...),
		Fit:    FitOptions{Padding: FitPadding, MaxZoom: FitMaxZoom},
	}
}

// withCurrent returns markers, or a single synthetic marker at center when
// there are none.
func withCurrent(center geo.Point, markers []model.MapMarker) []model.MapMarker {
	if len(markers) > 0 {
		return markers
	}
	return []model.MapMarker{{
		Lat:       center.Lat,
		Lng:       center.Lng,
		Label:     CurrentLabel,
		IsCurrent: true,
	}}
}
