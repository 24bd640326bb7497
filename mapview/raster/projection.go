package raster

import (
	"math"

	"github.com/tailored-agentic-units/landmatch/core/geo"
)

const (
	tileSize = 256
	maxLat   = 85.05112878
)

// project maps p to world pixel coordinates at zoom.
func project(p geo.Point, zoom int) (x, y float64) {
	scale := tileSize * math.Exp2(float64(zoom))
	lat := math.Max(-maxLat, math.Min(maxLat, p.Lat))
	sin := math.Sin(lat * math.Pi / 180)
	x = (p.Lng + 180) / 360 * scale
	y = (0.5 - math.Log((1+sin)/(1-sin))/(4*math.Pi)) * scale
	return x, y
}

// unproject is the inverse of project.
func unproject(x, y float64, zoom int) geo.Point {
	scale := tileSize * math.Exp2(float64(zoom))
	lng := x/scale*360 - 180
	n := math.Pi - 2*math.Pi*y/scale
	lat := 180 / math.Pi * math.Atan(math.Sinh(n))
	return geo.Point{Lat: lat, Lng: lng}
}

// fitZoom returns the largest zoom in [0, limit] at which b fits inside a
// width by height viewport less padding on every side.
func fitZoom(b geo.Bounds, width, height, padding, limit int) int {
	w := float64(width - 2*padding)
	h := float64(height - 2*padding)
	for z := limit; z > 0; z-- {
		x1, y1 := project(b.SouthWest, z)
		x2, y2 := project(b.NorthEast, z)
		if math.Abs(x2-x1) <= w && math.Abs(y2-y1) <= h {
			return z
		}
	}
	return 0
}

// boundsCenter is the midpoint of b in projected space.
func boundsCenter(b geo.Bounds, zoom int) geo.Point {
	x1, y1 := project(b.SouthWest, zoom)
	x2, y2 := project(b.NorthEast, zoom)
	return unproject((x1+x2)/2, (y1+y2)/2, zoom)
}
