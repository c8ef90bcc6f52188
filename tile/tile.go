// Package tile maps WGS84 points and bounding boxes onto the fixed
// SWEREF99 TM tile pyramid used by the map tile provider, and builds WMTS
// GetTile request URLs. The matrix set parameters (origin, tile size,
// resolution ladder) must exactly match the provider's tiling scheme or
// fetched tiles silently misalign.
package tile

import (
	"fmt"
	"math"

	"github.com/okartan/mapcore/coord"
)

// TileSize is the tile edge length in pixels.
const TileSize = 256

// Origin is the upper-left corner of the tile matrix in SWEREF99 TM meters.
// Tile (0, 0) at every zoom has its north-west corner here.
var Origin = coord.ProjectedPoint{X: -1200000, Y: 8500000}

// resolutions is the fixed ground-resolution ladder in meters/pixel.
// Index 0 is the coarsest level; each step halves the resolution.
var resolutions = []float64{
	4096, 2048, 1024, 512, 256, 128, 64, 32, 16, 8, 4, 2, 1, 0.5, 0.25,
}

// MaxZoom is the finest zoom level (0.25 m/px).
const MaxZoom = 14

// Coord addresses one tile in the pyramid. Row grows southward per the
// standard tile-matrix convention.
type Coord struct {
	Zoom uint
	Col  int
	Row  int
}

func (c Coord) String() string {
	return fmt.Sprintf("%d/%d/%d", c.Zoom, c.Col, c.Row)
}

// Resolution returns the ground resolution in meters/pixel for a zoom level.
func Resolution(zoom uint) (float64, error) {
	if int(zoom) >= len(resolutions) {
		return 0, fmt.Errorf("zoom %d out of range (max %d)", zoom, MaxZoom)
	}
	return resolutions[zoom], nil
}

// PointToTile returns the tile containing the given WGS84 point.
func PointToTile(p coord.GeoPoint, zoom uint) (Coord, error) {
	res, err := Resolution(zoom)
	if err != nil {
		return Coord{}, err
	}
	pp := coord.ToSweref99(p)
	span := TileSize * res
	return Coord{
		Zoom: zoom,
		Col:  int(math.Floor((pp.X - Origin.X) / span)),
		Row:  int(math.Floor((Origin.Y - pp.Y) / span)),
	}, nil
}

// ProjectedBounds returns the tile's extent in SWEREF99 TM meters.
func ProjectedBounds(c Coord) (west, north, east, south float64, err error) {
	res, err := Resolution(c.Zoom)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	span := TileSize * res
	west = Origin.X + float64(c.Col)*span
	north = Origin.Y - float64(c.Row)*span
	east = west + span
	south = north - span
	return west, north, east, south, nil
}

// BoundsWGS84 returns the tile's extent as a WGS84 bounding box: the
// envelope of the projected corners run through the inverse projection.
// When the tile spans the central meridian the north/south edge latitude
// extremes sit on the meridian, not at a corner, so those crossings join
// the envelope — the box is guaranteed to contain the whole tile.
func BoundsWGS84(c Coord) (coord.Bounds, error) {
	west, north, east, south, err := ProjectedBounds(c)
	if err != nil {
		return coord.Bounds{}, err
	}

	pts := []coord.ProjectedPoint{
		{X: west, Y: north}, {X: east, Y: north},
		{X: west, Y: south}, {X: east, Y: south},
	}
	if west < coord.FalseEasting && coord.FalseEasting < east {
		pts = append(pts,
			coord.ProjectedPoint{X: coord.FalseEasting, Y: north},
			coord.ProjectedPoint{X: coord.FalseEasting, Y: south})
	}

	var b coord.Bounds
	for i, pp := range pts {
		g := coord.ToWGS84(pp)
		if i == 0 {
			b = coord.Bounds{North: g.Lat, South: g.Lat, East: g.Lng, West: g.Lng}
			continue
		}
		b.North = math.Max(b.North, g.Lat)
		b.South = math.Min(b.South, g.Lat)
		b.East = math.Max(b.East, g.Lng)
		b.West = math.Min(b.West, g.Lng)
	}
	return b, nil
}

// TilesForBounds enumerates the rectangular, gap-free tile set covering the
// bounding box at one zoom level. The column/row range is taken over every
// boundary extreme of the box (corners plus central-meridian crossings, the
// mirror of BoundsWGS84's envelope), so the union always covers the bounds.
// Ordering is column-major: all rows of the westmost column first.
func TilesForBounds(b coord.Bounds, zoom uint) ([]Coord, error) {
	pts := []coord.GeoPoint{
		b.TopLeft(), {Lat: b.North, Lng: b.East},
		{Lat: b.South, Lng: b.West}, b.BottomRight(),
	}
	if b.West < coord.CentralMeridian && coord.CentralMeridian < b.East {
		pts = append(pts,
			coord.GeoPoint{Lat: b.North, Lng: coord.CentralMeridian},
			coord.GeoPoint{Lat: b.South, Lng: coord.CentralMeridian})
	}

	minCol, maxCol := 0, 0
	minRow, maxRow := 0, 0
	for i, p := range pts {
		c, err := PointToTile(p, zoom)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			minCol, maxCol = c.Col, c.Col
			minRow, maxRow = c.Row, c.Row
			continue
		}
		minCol = min(minCol, c.Col)
		maxCol = max(maxCol, c.Col)
		minRow = min(minRow, c.Row)
		maxRow = max(maxRow, c.Row)
	}

	tiles := make([]Coord, 0, (maxCol-minCol+1)*(maxRow-minRow+1))
	for col := minCol; col <= maxCol; col++ {
		for row := minRow; row <= maxRow; row++ {
			tiles = append(tiles, Coord{Zoom: zoom, Col: col, Row: row})
		}
	}
	return tiles, nil
}
