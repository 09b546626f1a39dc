// Package transform converts Earth-centered inertial positions into geodetic
// coordinates for display. The engine itself works purely in the inertial
// frame; geodetic output exists only to annotate results.
//
// The ECI→ECEF rotation reuses go-satellite's GMST machinery, the ECEF→
// geodetic step is an iterative WGS-84 conversion (converges in 2-3
// iterations for Earth orbits).
package transform

import (
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/kepler-works/interlink-engine/internal/geom"
)

// WGS-84 ellipsoid parameters, in kilometres.
const (
	wgs84A  = 6378.137              // semi-major axis
	wgs84F  = 1.0 / 298.257223563   // flattening
	wgs84E2 = wgs84F * (2 - wgs84F) // first eccentricity squared
)

// Geodetic is a display position: latitude/longitude in degrees, altitude in
// kilometres above the WGS-84 ellipsoid.
type Geodetic struct {
	LatDeg     float64
	LonDeg     float64
	AltitudeKm float64
}

// Converter maps an inertial position at a given instant to geodetic
// coordinates. It is a capability interface so tests can substitute a fixed
// implementation.
type Converter interface {
	ToGeodetic(pos geom.Vec3, at time.Time) Geodetic
}

// WGS84Converter is the production Converter. The zero value is ready to use.
type WGS84Converter struct{}

// ToGeodetic rotates the inertial position into the Earth-fixed frame using
// GMST at the given UTC instant, then converts to geodetic coordinates.
func (WGS84Converter) ToGeodetic(pos geom.Vec3, at time.Time) Geodetic {
	at = at.UTC()
	year, month, day := at.Date()
	hour, min, sec := at.Clock()

	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	gmst := satellite.ThetaG_JD(jd)
	ecef := satellite.ECIToECEF(satellite.Vector3{X: pos.X, Y: pos.Y, Z: pos.Z}, gmst)

	return ecefToGeodetic(ecef.X, ecef.Y, ecef.Z)
}

// ecefToGeodetic converts Earth-fixed coordinates (km) to geodetic
// coordinates using the iterative Bowring method.
func ecefToGeodetic(x, y, z float64) Geodetic {
	lon := math.Atan2(y, x)

	p := math.Sqrt(x*x + y*y)

	// Initial latitude estimate.
	lat := math.Atan2(z, p*(1-wgs84E2))

	for i := 0; i < 5; i++ {
		sinLat := math.Sin(lat)
		n := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)
		lat = math.Atan2(z+wgs84E2*n*sinLat, p)
	}

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	n := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)

	var alt float64
	if math.Abs(cosLat) > 1e-10 {
		alt = p/cosLat - n
	} else {
		alt = math.Abs(z)/math.Abs(sinLat) - n*(1-wgs84E2)
	}

	return Geodetic{
		LatDeg:     lat * 180.0 / math.Pi,
		LonDeg:     lon * 180.0 / math.Pi,
		AltitudeKm: alt,
	}
}
