package georef

import (
	"gonum.org/v1/gonum/mat"

	"github.com/okartan/mapcore/coord"
)

// ControlPoint pairs a pixel position in a map image with its geographic
// location. Used when a map is georeferenced manually by clicking known
// points rather than importing a GeoTIFF or world file.
type ControlPoint struct {
	PixelX float64
	PixelY float64
	Geo    coord.GeoPoint
}

// SolveAffine fits the 6-parameter pixel-to-WGS84 affine transform from
// ground control points. Three points give an exact solution; more are fit
// by least squares. Returns a FormatError when fewer than three points are
// supplied or the points are collinear (singular system).
func SolveAffine(points []ControlPoint) (*Affine, error) {
	if len(points) < 3 {
		return nil, FormatErrorf("affine solve: need at least 3 control points, got %d", len(points))
	}

	n := len(points)
	p := mat.NewDense(n, 3, nil)
	lng := mat.NewVecDense(n, nil)
	lat := mat.NewVecDense(n, nil)
	for i, cp := range points {
		p.SetRow(i, []float64{cp.PixelX, cp.PixelY, 1})
		lng.SetVec(i, cp.Geo.Lng)
		lat.SetVec(i, cp.Geo.Lat)
	}

	// Lng = A·px + B·py + C, Lat = D·px + E·py + F.
	var lngCoef, latCoef mat.VecDense
	if err := lngCoef.SolveVec(p, lng); err != nil {
		return nil, FormatErrorf("affine solve: %v", err)
	}
	if err := latCoef.SolveVec(p, lat); err != nil {
		return nil, FormatErrorf("affine solve: %v", err)
	}

	return &Affine{
		A: lngCoef.AtVec(0), B: lngCoef.AtVec(1), C: lngCoef.AtVec(2),
		D: latCoef.AtVec(0), E: latCoef.AtVec(1), F: latCoef.AtVec(2),
	}, nil
}
