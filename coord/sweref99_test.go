package coord

import (
	"math"
	"testing"

	"github.com/wroge/wgs84"
)

// Well-known locations inside the supported latitude band (55–69N).
// The Stockholm reference value is the pinned anchor for EPSG:3006;
// the remaining points exercise the series across the whole country.
var swedenPoints = []struct {
	name     string
	lat, lng float64
}{
	{"Stockholm", 59.3293, 18.0686},
	{"Gothenburg", 57.7089, 11.9746},
	{"Malmo", 55.6050, 13.0038},
	{"Kiruna", 67.8558, 20.2253},
	{"Ostersund", 63.1792, 14.6357},
	{"Haparanda", 65.8356, 24.1367},
	{"Stromstad", 58.9395, 11.1711},
}

func TestSWEREF99TM_Stockholm(t *testing.T) {
	s := &SWEREF99TM{}

	x, y := s.FromWGS84(18.0686, 59.3293)

	// Reference value for (59.3293, 18.0686) from an independent GRS80
	// transverse Mercator (lon0=15, k0=0.9996, FE=500000), agreed to 4 cm.
	wantX, wantY := 674571.87, 6580743.01
	tolM := 1.0
	if dx := math.Abs(x - wantX); dx > tolM {
		t.Errorf("FromWGS84 easting: got %.3f, want ~%.0f (delta=%.3f > tol=%.1f)",
			x, wantX, dx, tolM)
	}
	if dy := math.Abs(y - wantY); dy > tolM {
		t.Errorf("FromWGS84 northing: got %.3f, want ~%.0f (delta=%.3f > tol=%.1f)",
			y, wantY, dy, tolM)
	}
}

func TestSWEREF99TM_CentralMeridian(t *testing.T) {
	s := &SWEREF99TM{}

	// Points on the central meridian map to the false easting exactly.
	for _, lat := range []float64{55, 59, 63, 67, 69} {
		x, _ := s.FromWGS84(15.0, lat)
		if d := math.Abs(x - 500000); d > 1e-6 {
			t.Errorf("lat %.0f on central meridian: easting = %.9f, want 500000", lat, x)
		}
	}
}

// TestSWEREF99TM_RoundTrip verifies the <1e-8 degree (~1 mm) round-trip
// contract over a grid spanning Sweden's bounds (lat 55–69N, lng 10–24E).
func TestSWEREF99TM_RoundTrip(t *testing.T) {
	s := &SWEREF99TM{}

	tol := 1e-8
	for lat := 55.0; lat <= 69.0; lat += 0.5 {
		for lng := 10.0; lng <= 24.0; lng += 0.5 {
			x, y := s.FromWGS84(lng, lat)
			gotLng, gotLat := s.ToWGS84(x, y)

			if dLat := math.Abs(gotLat - lat); dLat > tol {
				t.Fatalf("roundtrip lat for (%.2f, %.2f): got %.12f (delta=%.2e)",
					lat, lng, gotLat, dLat)
			}
			if dLng := math.Abs(gotLng - lng); dLng > tol {
				t.Fatalf("roundtrip lng for (%.2f, %.2f): got %.12f (delta=%.2e)",
					lat, lng, gotLng, dLng)
			}
		}
	}
}

func TestSWEREF99TM_RoundTripFromPlane(t *testing.T) {
	s := &SWEREF99TM{}

	// Start from plane coordinates covering the country and round-trip back.
	for x := 300000.0; x <= 900000.0; x += 100000 {
		for y := 6100000.0; y <= 7600000.0; y += 250000 {
			lng, lat := s.ToWGS84(x, y)
			gotX, gotY := s.FromWGS84(lng, lat)

			tolM := 0.001 // 1 mm
			if dx := math.Abs(gotX - x); dx > tolM {
				t.Fatalf("roundtrip easting for (%.0f, %.0f): delta=%.6f m", x, y, dx)
			}
			if dy := math.Abs(gotY - y); dy > tolM {
				t.Fatalf("roundtrip northing for (%.0f, %.0f): delta=%.6f m", x, y, dy)
			}
		}
	}
}

type grs80Spheroid struct{}

func (grs80Spheroid) A() float64  { return 6378137 }
func (grs80Spheroid) Fi() float64 { return 298.257222101 }

// TestSWEREF99TM_AgainstWgs84Lib cross-checks the series against an
// independent transverse Mercator implementation.
func TestSWEREF99TM_AgainstWgs84Lib(t *testing.T) {
	datum := wgs84.Datum{
		Spheroid: grs80Spheroid{},
		Area: wgs84.AreaFunc(func(lon, lat float64) bool {
			return lon >= 9 && lon <= 25 && lat >= 54 && lat <= 70
		}),
	}
	proj := datum.TransverseMercator(15, 0, 0.9996, 500000, 0)
	fwd := wgs84.Transform(wgs84.WGS84().LonLat(), proj)

	s := &SWEREF99TM{}
	for _, pt := range swedenPoints {
		refX, refY, _ := fwd(pt.lng, pt.lat, 0)
		gotX, gotY := s.FromWGS84(pt.lng, pt.lat)

		tolM := 0.5
		if dx := math.Abs(gotX - refX); dx > tolM {
			t.Errorf("%s easting: got %.3f, reference %.3f (delta=%.3f)", pt.name, gotX, refX, dx)
		}
		if dy := math.Abs(gotY - refY); dy > tolM {
			t.Errorf("%s northing: got %.3f, reference %.3f (delta=%.3f)", pt.name, gotY, refY, dy)
		}
	}
}

func TestToSweref99AndBack(t *testing.T) {
	p := GeoPoint{Lat: 59.3293, Lng: 18.0686}
	proj := ToSweref99(p)
	back := ToWGS84(proj)

	if math.Abs(back.Lat-p.Lat) > 1e-8 || math.Abs(back.Lng-p.Lng) > 1e-8 {
		t.Errorf("ToSweref99/ToWGS84 roundtrip: got (%.10f, %.10f), want (%v, %v)",
			back.Lat, back.Lng, p.Lat, p.Lng)
	}
}
