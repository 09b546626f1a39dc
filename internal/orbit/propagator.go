package orbit

import (
	"errors"
	"fmt"
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/kepler-works/interlink-engine/internal/geom"
)

// ErrPropagation marks a propagation failure at a specific timestamp:
// the model produced NaN/Inf output or a physically impossible position,
// typically because the timestamp is far outside the element epoch's valid
// span or the orbit has decayed.
var ErrPropagation = errors.New("propagation failed")

// Sanity bounds for a propagated position magnitude. Anything below Earth's
// surface or beyond ~GEO+margin indicates model breakdown rather than a
// real orbit.
const (
	minPositionKm = 6200.0
	maxPositionKm = 50000.0
)

// Propagator maps a timestamp to an Earth-centered inertial position for one
// satellite. Implementations must be deterministic and safe for concurrent
// use across independent timestamps.
type Propagator interface {
	// PositionAt returns the satellite's inertial position (km) at t.
	PositionAt(t time.Time) (geom.Vec3, error)
}

// NewPropagator is the factory signature the analysis engine depends on, so
// tests can substitute stub propagators for the SGP4 model.
type NewPropagator func(e Elements) (Propagator, error)

// SGP4 propagates a single satellite with the go-satellite SGP4 model.
//
// go-satellite takes its Satellite by value, so SGP4 error codes after init
// are not visible to the caller; propagation failures are detected instead
// by checking the output for NaN/Inf and unreasonable magnitudes.
type SGP4 struct {
	name string
	sat  satellite.Satellite
}

// NewSGP4 initialises an SGP4 propagator from an element set. It returns
// ErrInvalidElements if the lines fail structural validation or the model
// rejects them.
func NewSGP4(e Elements) (Propagator, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	sat := satellite.TLEToSat(e.Line1, e.Line2, satellite.GravityWGS84)
	if sat.Error != 0 {
		return nil, fmt.Errorf("%w: sgp4 init code=%d %s", ErrInvalidElements, sat.Error, sat.ErrorStr)
	}
	return &SGP4{name: e.Name, sat: sat}, nil
}

// PositionAt runs SGP4 for the given UTC instant and returns the TEME
// position in kilometres.
func (p *SGP4) PositionAt(t time.Time) (geom.Vec3, error) {
	t = t.UTC()
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	pos, _ := satellite.Propagate(p.sat, year, int(month), day, hour, min, sec)

	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(pos.Z) ||
		math.IsInf(pos.X, 0) || math.IsInf(pos.Y, 0) || math.IsInf(pos.Z, 0) {
		return geom.Vec3{}, fmt.Errorf("%w: %s at %s: output is NaN/Inf", ErrPropagation, p.name, t.Format(time.RFC3339))
	}

	v := geom.Vec3{X: pos.X, Y: pos.Y, Z: pos.Z}
	if mag := v.Norm(); mag < minPositionKm || mag > maxPositionKm {
		return geom.Vec3{}, fmt.Errorf("%w: %s at %s: unreasonable position magnitude %.1f km", ErrPropagation, p.name, t.Format(time.RFC3339), mag)
	}
	return v, nil
}
