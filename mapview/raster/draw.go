package raster

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"
)

// parseHex decodes #RRGGBB.
func parseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

func mustHex(s string, fallback color.RGBA) color.RGBA {
	c, err := parseHex(s)
	if err != nil {
		return fallback
	}
	return c
}

// blend paints c over the pixel at (x, y) using c's alpha.
func blend(img *image.RGBA, x, y int, c color.RGBA) {
	if !(image.Point{X: x, Y: y}.In(img.Rect)) {
		return
	}
	if c.A == 0xff {
		img.SetRGBA(x, y, c)
		return
	}
	dst := img.RGBAAt(x, y)
	a := uint32(c.A)
	mix := func(s, d uint8) uint8 {
		return uint8((uint32(s)*a + uint32(d)*(255-a)) / 255)
	}
	img.SetRGBA(x, y, color.RGBA{
		R: mix(c.R, dst.R),
		G: mix(c.G, dst.G),
		B: mix(c.B, dst.B),
		A: 0xff,
	})
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(img.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			blend(img, x, y, c)
		}
	}
}

func fillCircle(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if x*x+y*y <= r*r {
				blend(img, cx+x, cy+y, c)
			}
		}
	}
}

// fillTriangle fills the triangle a, b, c using edge functions.
func fillTriangle(img *image.RGBA, a, b, p image.Point, c color.RGBA) {
	minX, maxX := min(a.X, b.X, p.X), max(a.X, b.X, p.X)
	minY, maxY := min(a.Y, b.Y, p.Y), max(a.Y, b.Y, p.Y)
	edge := func(u, v image.Point, x, y int) int {
		return (v.X-u.X)*(y-u.Y) - (v.Y-u.Y)*(x-u.X)
	}
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			w0 := edge(b, p, x, y)
			w1 := edge(p, a, x, y)
			w2 := edge(a, b, x, y)
			if (w0 >= 0 && w1 >= 0 && w2 >= 0) || (w0 <= 0 && w1 <= 0 && w2 <= 0) {
				blend(img, x, y, c)
			}
		}
	}
}
