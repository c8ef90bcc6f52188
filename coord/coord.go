// Package coord converts between WGS84 geographic coordinates and the
// Swedish national grid SWEREF99 TM (EPSG:3006).
package coord

// GeoPoint is a WGS84 geographic coordinate in degrees.
type GeoPoint struct {
	Lat float64
	Lng float64
}

// ProjectedPoint is a planar SWEREF99 TM coordinate in meters.
// X grows eastward (easting), Y grows northward (northing).
type ProjectedPoint struct {
	X float64
	Y float64
}

// Bounds is a north-up geographic bounding box in WGS84 degrees.
type Bounds struct {
	North float64
	South float64
	East  float64
	West  float64
}

// Center returns the midpoint of the bounds.
func (b Bounds) Center() GeoPoint {
	return GeoPoint{
		Lat: (b.North + b.South) / 2,
		Lng: (b.East + b.West) / 2,
	}
}

// Contains reports whether the point lies inside the bounds (edges inclusive).
func (b Bounds) Contains(p GeoPoint) bool {
	return p.Lat <= b.North && p.Lat >= b.South &&
		p.Lng >= b.West && p.Lng <= b.East
}

// TopLeft returns the north-west corner.
func (b Bounds) TopLeft() GeoPoint {
	return GeoPoint{Lat: b.North, Lng: b.West}
}

// BottomRight returns the south-east corner.
func (b Bounds) BottomRight() GeoPoint {
	return GeoPoint{Lat: b.South, Lng: b.East}
}
