package transform

import (
	"math"
	"testing"
)

func TestECEFToGeodetic_Equator(t *testing.T) {
	// Point on the equator at the prime meridian, 400 km up.
	g := ecefToGeodetic(wgs84A+400, 0, 0)

	if math.Abs(g.LatDeg) > 1e-6 {
		t.Errorf("lat = %v, want 0", g.LatDeg)
	}
	if math.Abs(g.LonDeg) > 1e-6 {
		t.Errorf("lon = %v, want 0", g.LonDeg)
	}
	if math.Abs(g.AltitudeKm-400) > 1e-3 {
		t.Errorf("alt = %v km, want 400", g.AltitudeKm)
	}
}

func TestECEFToGeodetic_NorthPole(t *testing.T) {
	// Above the north pole: latitude 90, altitude measured against the
	// polar radius a(1-f).
	polarRadius := wgs84A * (1 - wgs84F)
	g := ecefToGeodetic(0, 0, polarRadius+500)

	if math.Abs(g.LatDeg-90) > 1e-3 {
		t.Errorf("lat = %v, want 90", g.LatDeg)
	}
	if math.Abs(g.AltitudeKm-500) > 0.1 {
		t.Errorf("alt = %v km, want 500", g.AltitudeKm)
	}
}

func TestECEFToGeodetic_LongitudeQuadrants(t *testing.T) {
	cases := []struct {
		name    string
		x, y    float64
		wantLon float64
	}{
		{"east90", 0, wgs84A + 100, 90},
		{"west90", 0, -(wgs84A + 100), -90},
		{"date_line", -(wgs84A + 100), 0, 180},
	}
	for _, tc := range cases {
		g := ecefToGeodetic(tc.x, tc.y, 0)
		if math.Abs(g.LonDeg-tc.wantLon) > 1e-6 {
			t.Errorf("%s: lon = %v, want %v", tc.name, g.LonDeg, tc.wantLon)
		}
	}
}

func TestECEFToGeodetic_MidLatitude(t *testing.T) {
	// Round-trip: build ECEF from known geodetic coordinates, convert back.
	latDeg, lonDeg, altKm := 46.8, -71.2, 550.0
	lat := latDeg * math.Pi / 180
	lon := lonDeg * math.Pi / 180

	sinLat := math.Sin(lat)
	n := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)
	x := (n + altKm) * math.Cos(lat) * math.Cos(lon)
	y := (n + altKm) * math.Cos(lat) * math.Sin(lon)
	z := (n*(1-wgs84E2) + altKm) * sinLat

	g := ecefToGeodetic(x, y, z)
	if math.Abs(g.LatDeg-latDeg) > 1e-4 {
		t.Errorf("lat = %v, want %v", g.LatDeg, latDeg)
	}
	if math.Abs(g.LonDeg-lonDeg) > 1e-6 {
		t.Errorf("lon = %v, want %v", g.LonDeg, lonDeg)
	}
	if math.Abs(g.AltitudeKm-altKm) > 1e-2 {
		t.Errorf("alt = %v, want %v", g.AltitudeKm, altKm)
	}
}
