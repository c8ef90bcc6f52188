package coord

import "math"

// GRS80 ellipsoid and SWEREF99 TM projection parameters.
// +proj=utm +zone=33 +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +units=m +no_defs
const (
	grs80Axis       = 6378137.0         // semi-major axis (m)
	grs80Flattening = 1 / 298.257222101 // GRS80 flattening
	swerefMeridian  = 15.0              // central meridian (degrees east)
	swerefScale     = 0.9996            // scale factor on the central meridian
	swerefFalseE    = 500000.0          // false easting (m)
	swerefFalseN    = 0.0               // false northing (m)
	deg2rad         = math.Pi / 180.0
	rad2deg         = 180.0 / math.Pi
)

// CentralMeridian and FalseEasting are exported for callers that need to
// reason about grid convergence (tile edges bow toward the meridian).
const (
	CentralMeridian = swerefMeridian
	FalseEasting    = swerefFalseE
)

// SWEREF99TM implements the Projection interface for EPSG:3006 (SWEREF99 TM).
// Uses Krüger's conformal (Gauss-Krüger) series on the GRS80 ellipsoid, per
// Lantmäteriet's "Gauss Conformal Projection" formulation. Round-trip error
// inside Sweden (lat 55–69N) is below a millimeter. Far outside that band
// the series diverges; callers are expected to stay near the projection zone.
//
// Reference: https://www.lantmateriet.se/en/geodata/gps-geodesi-och-swepos/
type SWEREF99TM struct{}

func (s *SWEREF99TM) EPSG() int { return 3006 }

// FromWGS84 converts WGS84 longitude/latitude (degrees) to SWEREF99 TM
// easting/northing (meters).
func (s *SWEREF99TM) FromWGS84(lon, lat float64) (x, y float64) {
	f := grs80Flattening
	e2 := f * (2 - f) // first eccentricity squared
	n := f / (2 - f)  // third flattening
	aRoof := grs80Axis / (1 + n) * (1 + n*n/4 + n*n*n*n/64)

	// Geodetic latitude -> conformal latitude.
	A := e2
	B := (5*e2*e2 - e2*e2*e2) / 6
	C := (104*e2*e2*e2 - 45*e2*e2*e2*e2) / 120
	D := (1237 * e2 * e2 * e2 * e2) / 1260

	phi := lat * deg2rad
	lambda := lon * deg2rad
	lambdaZero := swerefMeridian * deg2rad

	sinPhi := math.Sin(phi)
	phiStar := phi - sinPhi*math.Cos(phi)*
		(A+B*sinPhi*sinPhi+C*math.Pow(sinPhi, 4)+D*math.Pow(sinPhi, 6))

	deltaLambda := lambda - lambdaZero
	xiPrim := math.Atan(math.Tan(phiStar) / math.Cos(deltaLambda))
	etaPrim := math.Atanh(math.Cos(phiStar) * math.Sin(deltaLambda))

	beta1 := n/2 - 2*n*n/3 + 5*n*n*n/16 + 41*math.Pow(n, 4)/180
	beta2 := 13*n*n/48 - 3*n*n*n/5 + 557*math.Pow(n, 4)/1440
	beta3 := 61*n*n*n/240 - 103*math.Pow(n, 4)/140
	beta4 := 49561 * math.Pow(n, 4) / 161280

	y = swerefScale*aRoof*(xiPrim+
		beta1*math.Sin(2*xiPrim)*math.Cosh(2*etaPrim)+
		beta2*math.Sin(4*xiPrim)*math.Cosh(4*etaPrim)+
		beta3*math.Sin(6*xiPrim)*math.Cosh(6*etaPrim)+
		beta4*math.Sin(8*xiPrim)*math.Cosh(8*etaPrim)) + swerefFalseN
	x = swerefScale*aRoof*(etaPrim+
		beta1*math.Cos(2*xiPrim)*math.Sinh(2*etaPrim)+
		beta2*math.Cos(4*xiPrim)*math.Sinh(4*etaPrim)+
		beta3*math.Cos(6*xiPrim)*math.Sinh(6*etaPrim)+
		beta4*math.Cos(8*xiPrim)*math.Sinh(8*etaPrim)) + swerefFalseE
	return x, y
}

// ToWGS84 converts SWEREF99 TM easting/northing (meters) to WGS84
// longitude/latitude (degrees).
func (s *SWEREF99TM) ToWGS84(x, y float64) (lon, lat float64) {
	f := grs80Flattening
	e2 := f * (2 - f)
	n := f / (2 - f)
	aRoof := grs80Axis / (1 + n) * (1 + n*n/4 + n*n*n*n/64)

	delta1 := n/2 - 2*n*n/3 + 37*n*n*n/96 - math.Pow(n, 4)/360
	delta2 := n*n/48 + n*n*n/15 - 437*math.Pow(n, 4)/1440
	delta3 := 17*n*n*n/480 - 37*math.Pow(n, 4)/840
	delta4 := 4397 * math.Pow(n, 4) / 161280

	// Conformal latitude -> geodetic latitude.
	AStar := e2 + e2*e2 + e2*e2*e2 + e2*e2*e2*e2
	BStar := -(7*e2*e2 + 17*e2*e2*e2 + 30*e2*e2*e2*e2) / 6
	CStar := (224*e2*e2*e2 + 889*e2*e2*e2*e2) / 120
	DStar := -(4279 * e2 * e2 * e2 * e2) / 1260

	xi := (y - swerefFalseN) / (swerefScale * aRoof)
	eta := (x - swerefFalseE) / (swerefScale * aRoof)

	xiPrim := xi -
		delta1*math.Sin(2*xi)*math.Cosh(2*eta) -
		delta2*math.Sin(4*xi)*math.Cosh(4*eta) -
		delta3*math.Sin(6*xi)*math.Cosh(6*eta) -
		delta4*math.Sin(8*xi)*math.Cosh(8*eta)
	etaPrim := eta -
		delta1*math.Cos(2*xi)*math.Sinh(2*eta) -
		delta2*math.Cos(4*xi)*math.Sinh(4*eta) -
		delta3*math.Cos(6*xi)*math.Sinh(6*eta) -
		delta4*math.Cos(8*xi)*math.Sinh(8*eta)

	phiStar := math.Asin(math.Sin(xiPrim) / math.Cosh(etaPrim))
	deltaLambda := math.Atan(math.Sinh(etaPrim) / math.Cos(xiPrim))

	lonRad := swerefMeridian*deg2rad + deltaLambda

	sinPhiStar := math.Sin(phiStar)
	latRad := phiStar + sinPhiStar*math.Cos(phiStar)*
		(AStar+
			BStar*sinPhiStar*sinPhiStar+
			CStar*math.Pow(sinPhiStar, 4)+
			DStar*math.Pow(sinPhiStar, 6))

	return lonRad * rad2deg, latRad * rad2deg
}

// ToSweref99 projects a geographic point to SWEREF99 TM.
func ToSweref99(p GeoPoint) ProjectedPoint {
	var s SWEREF99TM
	x, y := s.FromWGS84(p.Lng, p.Lat)
	return ProjectedPoint{X: x, Y: y}
}

// ToWGS84 converts a SWEREF99 TM point back to geographic coordinates.
func ToWGS84(p ProjectedPoint) GeoPoint {
	var s SWEREF99TM
	lon, lat := s.ToWGS84(p.X, p.Y)
	return GeoPoint{Lat: lat, Lng: lon}
}
