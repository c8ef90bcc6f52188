// Package georef holds the normalized georeferencing record produced when a
// map file is imported, and the readers that build it from plain-text world
// files and from ground control points. The binary GeoTIFF reader lives in
// the geotiff package and produces the same record.
package georef

import (
	"fmt"
	"math"

	"github.com/okartan/mapcore/coord"
)

// Georeferencing describes how a raster map image maps onto the earth.
// It is constructed once per imported map file and immutable thereafter.
// A reader either fills every field it is responsible for or fails; it never
// returns a record with silently wrong bounds.
type Georeferencing struct {
	// CRS is the coordinate reference system, e.g. "EPSG:3006".
	CRS string

	// Scale is the map scale denominator (e.g. 10000 for 1:10000).
	// Estimated from pixel size for GeoTIFF imports.
	Scale int

	// Declination and Grivation are in degrees. They come from map metadata
	// supplied by the importing layer, never from the file readers.
	Declination float64
	Grivation   float64

	// Bounds is the WGS84 extent of the raster. Nil only for records built
	// purely from an affine fit with no image dimensions.
	Bounds *coord.Bounds

	// Transform is the raw 6-parameter pixel-to-CRS affine matrix, kept
	// verbatim so rotated rasters keep their exact mapping (bounds alone
	// lose rotation).
	Transform *Affine
}

// Affine is a 6-parameter affine transform from pixel to CRS coordinates,
// in world-file line order:
//
//	x = A·px + B·py + C
//	y = D·px + E·py + F
type Affine struct {
	A, D, B, E, C, F float64
}

// Apply maps a pixel coordinate to CRS coordinates.
func (t *Affine) Apply(px, py float64) (x, y float64) {
	x = t.A*px + t.B*py + t.C
	y = t.D*px + t.E*py + t.F
	return
}

// Matrix returns the parameters in world-file line order [A, D, B, E, C, F].
func (t *Affine) Matrix() [6]float64 {
	return [6]float64{t.A, t.D, t.B, t.E, t.C, t.F}
}

// FormatError reports malformed or unsupported input: not a TIFF, too few
// world-file lines, a missing required tag. It is returned to the immediate
// caller; nothing retries internally.
type FormatError struct {
	Msg string
}

func (e *FormatError) Error() string { return e.Msg }

// FormatErrorf builds a FormatError in the fmt.Errorf style.
func FormatErrorf(format string, args ...any) error {
	return &FormatError{Msg: fmt.Sprintf(format, args...)}
}

// EstimateScale approximates the map scale denominator from the ground pixel
// size in meters, assuming 0.0846 mm pixels at 300 DPI print resolution.
// An approximation for display purposes, not a guaranteed-exact map scale.
func EstimateScale(pixelSizeMeters float64) int {
	return int(math.Round(pixelSizeMeters * 1000 / 0.0846))
}

// BoundsFromCRS projects a CRS-unit extent (west/north/east/south) to WGS84
// using the projection for the given EPSG code. Returns a FormatError when
// the CRS is unsupported rather than guessing.
func BoundsFromCRS(epsg int, west, north, east, south float64) (*coord.Bounds, error) {
	proj := coord.ForEPSG(epsg)
	if proj == nil {
		return nil, FormatErrorf("unsupported CRS EPSG:%d", epsg)
	}
	wLon, nLat := proj.ToWGS84(west, north)
	eLon, sLat := proj.ToWGS84(east, south)
	return &coord.Bounds{North: nLat, South: sLat, East: eLon, West: wLon}, nil
}
