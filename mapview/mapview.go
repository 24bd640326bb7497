// Package mapview reconciles map markers onto an abstract map canvas. The
// canvas and its layer group are interfaces so the same view logic drives an
// interactive map, the raster renderer, or a test recorder.
package mapview

import (
	"sync"

	"github.com/tailored-agentic-units/landmatch/core/geo"
	"github.com/tailored-agentic-units/landmatch/core/model"
)

// Default base tile layer.
const (
	DefaultTileURL     = "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png"
	DefaultAttribution = "&copy; OpenStreetMap contributors &copy; CARTO"
	DefaultSubdomains  = "abcd"
	DefaultMaxZoom     = 20
)

// Canvas is a map instance.
type Canvas interface {
	SetView(center geo.Point, zoom int)
	FitBounds(bounds geo.Bounds, opts FitOptions)
	ZoomIn()
	ZoomOut()
	Zoom() int
	Close() error
}

// Layer is the marker layer group of a canvas.
type Layer interface {
	Clear()
	Add(pin Pin)
	Len() int
}

// Container identifies where a canvas is mounted and its pixel size.
type Container struct {
	ID     string
	Width  int
	Height int
}

// TileLayer configures the base map.
type TileLayer struct {
	URL         string
	Attribution string
	Subdomains  string
	MaxZoom     int
}

// Factory creates the canvas and marker layer for a container.
type Factory interface {
	Open(container Container, tiles TileLayer) (Canvas, Layer, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(Container, TileLayer) (Canvas, Layer, error)

// Open calls f.
func (f FactoryFunc) Open(c Container, t TileLayer) (Canvas, Layer, error) {
	return f(c, t)
}

// Event is a UI event that can be kept from reaching the map.
type Event interface {
	StopPropagation()
}

// Props is the desired state of the map.
type Props struct {
	Center        geo.Point
	Markers       []model.MapMarker
	FitBounds     bool
	OnMarkerClick func(model.MapMarker)
}

// Options configure a View.
type Options struct {
	Tiles       TileLayer
	InitialZoom int
}

// DefaultOptions returns the CARTO light base layer at DefaultZoom.
func DefaultOptions() Options {
	return Options{
		Tiles: TileLayer{
			URL:         DefaultTileURL,
			Attribution: DefaultAttribution,
			Subdomains:  DefaultSubdomains,
			MaxZoom:     DefaultMaxZoom,
		},
		InitialZoom: DefaultZoom,
	}
}

// View owns one canvas and keeps its markers in step with the latest Props.
type View struct {
	mu       sync.Mutex
	factory  Factory
	opts     Options
	canvas   Canvas
	layer    Layer
	props    Props
	hasProps bool
	rendered []model.MapMarker
	closed   bool
}

// New returns a detached view. Zero-valued options fall back to
// DefaultOptions.
func New(factory Factory, opts Options) *View {
	def := DefaultOptions()
	if opts.Tiles.URL == "" {
		opts.Tiles.URL = def.Tiles.URL
	}
	if opts.Tiles.Attribution == "" {
		opts.Tiles.Attribution = def.Tiles.Attribution
	}
	if opts.Tiles.Subdomains == "" {
		opts.Tiles.Subdomains = def.Tiles.Subdomains
	}
	if opts.Tiles.MaxZoom <= 0 {
		opts.Tiles.MaxZoom = def.Tiles.MaxZoom
	}
	if opts.InitialZoom <= 0 {
		opts.InitialZoom = def.InitialZoom
	}
	return &View{factory: factory, opts: opts}
}

// Attach opens the canvas in container. It is a no-op once attached. Props
// received before attachment are rendered immediately.
func (v *View) Attach(container Container) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return ErrClosed
	}
	if v.canvas != nil {
		return nil
	}

	canvas, layer, err := v.factory.Open(container, v.opts.Tiles)
	if err != nil {
		return err
	}
	v.canvas = canvas
	v.layer = layer

	center := geo.Riyadh
	if v.hasProps {
		center = v.props.Center
	}
	v.canvas.SetView(center, v.opts.InitialZoom)

	if v.hasProps {
		v.render()
	}
	return nil
}

// Update records p and redraws the markers when attached.
func (v *View) Update(p Props) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return ErrClosed
	}
	v.props = p
	v.hasProps = true
	if v.canvas == nil {
		return nil
	}
	v.render()
	return nil
}

func (v *View) render() {
	v.layer.Clear()

	markers := withCurrent(v.props.Center, v.props.Markers)
	v.rendered = markers

	for _, m := range markers {
		marker := m
		v.layer.Add(Pin{
			Marker:    marker,
			Style:     PinStyleFor(marker.IsCurrent),
			Popup:     marker.Label,
			PopupOpen: marker.IsCurrent && !v.props.FitBounds,
			OnClick:   func() { v.dispatch(marker) },
		})
	}

	ComputeViewport(v.props.Center, markers, v.props.FitBounds).Apply(v.canvas)
}

// Click relays a click on the rendered marker with the given ID. It reports
// whether such a marker exists. An empty id never matches.
func (v *View) Click(id string) bool {
	if id == "" {
		return false
	}
	v.mu.Lock()
	var (
		found  model.MapMarker
		exists bool
	)
	for _, m := range v.rendered {
		if m.ID == id {
			found, exists = m, true
			break
		}
	}
	v.mu.Unlock()

	if exists {
		v.dispatch(found)
	}
	return exists
}

func (v *View) dispatch(m model.MapMarker) {
	v.mu.Lock()
	handler := v.props.OnMarkerClick
	closed := v.closed
	v.mu.Unlock()

	if handler != nil && !closed {
		handler(m)
	}
}

// ZoomIn stops ev and zooms the canvas in by one level.
func (v *View) ZoomIn(ev Event) error {
	return v.zoom(ev, Canvas.ZoomIn)
}

// ZoomOut stops ev and zooms the canvas out by one level.
func (v *View) ZoomOut(ev Event) error {
	return v.zoom(ev, Canvas.ZoomOut)
}

func (v *View) zoom(ev Event, step func(Canvas)) error {
	if ev != nil {
		ev.StopPropagation()
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return ErrClosed
	}
	if v.canvas == nil {
		return ErrNotAttached
	}
	step(v.canvas)
	return nil
}

// Canvas returns the attached canvas, or nil.
func (v *View) Canvas() Canvas {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.canvas
}

// Close releases the canvas. Further calls are rejected with ErrClosed.
func (v *View) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return nil
	}
	v.closed = true
	v.rendered = nil
	if v.canvas == nil {
		return nil
	}
	err := v.canvas.Close()
	v.canvas = nil
	v.layer = nil
	return err
}
