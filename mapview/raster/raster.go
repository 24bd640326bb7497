// Package raster implements the map canvas as an in-memory web-mercator
// image so map state can be written out as a PNG.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"sort"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"github.com/tailored-agentic-units/landmatch/core/geo"
	"github.com/tailored-agentic-units/landmatch/mapview"
)

// ErrClosed is returned when rendering a closed canvas.
var ErrClosed = errors.New("raster canvas closed")

// Default image size.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

var (
	background = color.RGBA{R: 0xF8, G: 0xFA, B: 0xFC, A: 0xff}
	gridColor  = color.RGBA{R: 0xE2, G: 0xE8, B: 0xF0, A: 0xff}
	labelBox   = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xee}
	labelText  = color.RGBA{R: 0x0F, G: 0x17, B: 0x2A, A: 0xff}
	mutedText  = color.RGBA{R: 0x64, G: 0x74, B: 0x8B, A: 0xff}
	white      = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

var parseFont = sync.OnceValues(func() (*truetype.Font, error) {
	return freetype.ParseFont(goregular.TTF)
})

// Factory opens raster canvases. A container with a non-positive size uses
// Width and Height, and those fall back to the package defaults.
type Factory struct {
	Width  int
	Height int
}

// Open implements mapview.Factory.
func (f Factory) Open(c mapview.Container, tiles mapview.TileLayer) (mapview.Canvas, mapview.Layer, error) {
	width, height := c.Width, c.Height
	if width <= 0 {
		width = f.Width
	}
	if height <= 0 {
		height = f.Height
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	ttf, err := parseFont()
	if err != nil {
		return nil, nil, fmt.Errorf("parse font: %w", err)
	}

	maxZoom := tiles.MaxZoom
	if maxZoom <= 0 {
		maxZoom = mapview.DefaultMaxZoom
	}

	cv := &Canvas{
		width:       width,
		height:      height,
		maxZoom:     maxZoom,
		center:      geo.Riyadh,
		zoom:        mapview.DefaultZoom,
		attribution: tiles.Attribution,
		font:        ttf,
	}
	return cv, &Layer{canvas: cv}, nil
}

// Canvas is a fixed-size map image.
type Canvas struct {
	mu          sync.Mutex
	width       int
	height      int
	maxZoom     int
	center      geo.Point
	zoom        int
	pins        []mapview.Pin
	attribution string
	font        *truetype.Font
	closed      bool
}

func (c *Canvas) clampZoom(z int) int {
	return max(0, min(z, c.maxZoom))
}

// SetView implements mapview.Canvas.
func (c *Canvas) SetView(center geo.Point, zoom int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.center = center
	c.zoom = c.clampZoom(zoom)
}

// FitBounds implements mapview.Canvas.
func (c *Canvas) FitBounds(b geo.Bounds, opts mapview.FitOptions) {
	if b.Empty() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	limit := c.maxZoom
	if opts.MaxZoom > 0 {
		limit = min(limit, opts.MaxZoom)
	}
	z := fitZoom(b, c.width, c.height, opts.Padding, limit)
	c.zoom = z
	c.center = boundsCenter(b, z)
}

// ZoomIn implements mapview.Canvas.
func (c *Canvas) ZoomIn() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zoom = c.clampZoom(c.zoom + 1)
}

// ZoomOut implements mapview.Canvas.
func (c *Canvas) ZoomOut() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zoom = c.clampZoom(c.zoom - 1)
}

// Zoom implements mapview.Canvas.
func (c *Canvas) Zoom() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoom
}

// Center returns the current map centre.
func (c *Canvas) Center() geo.Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.center
}

// Close implements mapview.Canvas.
func (c *Canvas) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.pins = nil
	return nil
}

// Pixel returns the image position of p in the current view.
func (c *Canvas) Pixel(p geo.Point) image.Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pixel(p)
}

func (c *Canvas) pixel(p geo.Point) image.Point {
	cx, cy := project(c.center, c.zoom)
	x, y := project(p, c.zoom)
	return image.Point{
		X: int(x - cx + float64(c.width)/2),
		Y: int(y - cy + float64(c.height)/2),
	}
}

// Image draws the current state.
func (c *Canvas) Image() (*image.RGBA, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}

	img := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	fillRect(img, img.Rect, background)
	c.drawGrid(img)

	pins := make([]mapview.Pin, len(c.pins))
	copy(pins, c.pins)
	sort.SliceStable(pins, func(i, j int) bool {
		return pins[i].Style.ZIndex < pins[j].Style.ZIndex
	})

	for _, p := range pins {
		c.drawPin(img, p)
	}
	for _, p := range pins {
		c.drawLabel(img, p)
	}
	c.drawAttribution(img)
	return img, nil
}

// Render writes the current state to w as PNG.
func (c *Canvas) Render(w io.Writer) error {
	img, err := c.Image()
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// drawGrid rules the tile boundaries of the current zoom.
func (c *Canvas) drawGrid(img *image.RGBA) {
	cx, cy := project(c.center, c.zoom)
	ox := int(cx-float64(c.width)/2) % tileSize
	oy := int(cy-float64(c.height)/2) % tileSize
	for x := -ox; x < c.width; x += tileSize {
		fillRect(img, image.Rect(x, 0, x+1, c.height), gridColor)
	}
	for y := -oy; y < c.height; y += tileSize {
		fillRect(img, image.Rect(0, y, c.width, y+1), gridColor)
	}
}

// drawPin draws a teardrop whose tip sits on the marker position.
func (c *Canvas) drawPin(img *image.RGBA, p mapview.Pin) {
	tip := c.pixel(p.Marker.Point())
	size := p.Style.Size
	r := size / 3
	head := image.Point{X: tip.X, Y: tip.Y - 2*size/3}

	fill := mustHex(p.Style.Color, labelText)
	stroke := mustHex(p.Style.Stroke, labelText)

	if p.Style.Pulse {
		ring := fill
		ring.A = 0x55
		fillCircle(img, tip.X, tip.Y, size/2, ring)
	}

	fillTriangle(img,
		image.Point{X: head.X - r, Y: head.Y + r/2},
		image.Point{X: head.X + r, Y: head.Y + r/2},
		tip, stroke)
	fillCircle(img, head.X, head.Y, r, stroke)
	fillCircle(img, head.X, head.Y, r-2, fill)
	fillCircle(img, head.X, head.Y, r/3, white)
}

func (c *Canvas) face(size float64) font.Face {
	return truetype.NewFace(c.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

func (c *Canvas) drawLabel(img *image.RGBA, p mapview.Pin) {
	if p.Popup == "" {
		return
	}
	size := 12.0
	if p.PopupOpen {
		size = 14.0
	}
	face := c.face(size)
	defer face.Close()

	drawer := &font.Drawer{Dst: img, Src: image.NewUniform(labelText), Face: face}
	width := drawer.MeasureString(p.Popup).Ceil()
	height := int(size)

	tip := c.pixel(p.Marker.Point())
	_, offset := p.Style.PopupOffset()
	bottom := tip.Y + offset - 4
	box := image.Rect(tip.X-width/2-6, bottom-height-8, tip.X+width/2+6, bottom)

	fillRect(img, box, labelBox)
	drawer.Dot = fixed.Point26_6{
		X: fixed.I(box.Min.X + 6),
		Y: fixed.I(box.Max.Y - 5),
	}
	drawer.DrawString(p.Popup)
}

func (c *Canvas) drawAttribution(img *image.RGBA) {
	if c.attribution == "" {
		return
	}
	face := c.face(10)
	defer face.Close()

	text := plainAttribution(c.attribution)
	drawer := &font.Drawer{Dst: img, Src: image.NewUniform(mutedText), Face: face}
	width := drawer.MeasureString(text).Ceil()
	box := image.Rect(c.width-width-8, c.height-16, c.width, c.height)
	fillRect(img, box, labelBox)
	drawer.Dot = fixed.Point26_6{X: fixed.I(box.Min.X + 4), Y: fixed.I(c.height - 4)}
	drawer.DrawString(text)
}

// Layer holds the pins drawn on a Canvas.
type Layer struct {
	canvas *Canvas
}

// Clear implements mapview.Layer.
func (l *Layer) Clear() {
	l.canvas.mu.Lock()
	defer l.canvas.mu.Unlock()
	l.canvas.pins = nil
}

// Add implements mapview.Layer.
func (l *Layer) Add(p mapview.Pin) {
	l.canvas.mu.Lock()
	defer l.canvas.mu.Unlock()
	l.canvas.pins = append(l.canvas.pins, p)
}

// Len implements mapview.Layer.
func (l *Layer) Len() int {
	l.canvas.mu.Lock()
	defer l.canvas.mu.Unlock()
	return len(l.canvas.pins)
}

// Snapshot describes the camera of a rendered image.
type Snapshot struct {
	Center geo.Point `json:"center"`
	Zoom   int       `json:"zoom"`
	Width  int       `json:"width"`
	Height int       `json:"height"`
}
