// Package geo provides WGS 84 points and bounding boxes shared by the
// matching, geolocation, and map packages.
package geo

import "math"

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat" yaml:"lat" dynamodbav:"latitude"`
	Lng float64 `json:"lng" yaml:"lng" dynamodbav:"longitude"`
}

// Riyadh is the fallback coordinate used when a candidate carries no usable
// position.
var Riyadh = Point{Lat: 24.7136, Lng: 46.6753}

// Valid reports whether p is a finite coordinate within WGS 84 ranges.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Bounds is an axis-aligned bounding box. The zero value is empty; use
// BoundsOf or Extend to grow it.
type Bounds struct {
	SouthWest Point `json:"south_west"`
	NorthEast Point `json:"north_east"`
	set       bool
}

// BoundsOf returns the smallest box containing all points.
func BoundsOf(points ...Point) Bounds {
	var b Bounds
	for _, p := range points {
		b = b.Extend(p)
	}
	return b
}

// Extend returns b grown to contain p.
func (b Bounds) Extend(p Point) Bounds {
	if !b.set {
		return Bounds{SouthWest: p, NorthEast: p, set: true}
	}
	b.SouthWest.Lat = math.Min(b.SouthWest.Lat, p.Lat)
	b.SouthWest.Lng = math.Min(b.SouthWest.Lng, p.Lng)
	b.NorthEast.Lat = math.Max(b.NorthEast.Lat, p.Lat)
	b.NorthEast.Lng = math.Max(b.NorthEast.Lng, p.Lng)
	return b
}

// Empty reports whether no point has been added.
func (b Bounds) Empty() bool {
	return !b.set
}

// Contains reports whether p lies inside b, edges included.
func (b Bounds) Contains(p Point) bool {
	if !b.set {
		return false
	}
	return p.Lat >= b.SouthWest.Lat && p.Lat <= b.NorthEast.Lat &&
		p.Lng >= b.SouthWest.Lng && p.Lng <= b.NorthEast.Lng
}

// Center returns the midpoint of b.
func (b Bounds) Center() Point {
	return Point{
		Lat: (b.SouthWest.Lat + b.NorthEast.Lat) / 2,
		Lng: (b.SouthWest.Lng + b.NorthEast.Lng) / 2,
	}
}

// Centroid returns the arithmetic mean of points, or the zero Point when
// points is empty.
func Centroid(points ...Point) Point {
	if len(points) == 0 {
		return Point{}
	}
	var lat, lng float64
	for _, p := range points {
		lat += p.Lat
		lng += p.Lng
	}
	n := float64(len(points))
	return Point{Lat: lat / n, Lng: lng / n}
}
