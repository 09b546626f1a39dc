package analysis

import (
	"fmt"
	"time"

	"github.com/kepler-works/interlink-engine/internal/geom"
	"github.com/kepler-works/interlink-engine/internal/orbit"
)

// Sample is one classified timestamp: both satellite positions, their
// separation, and the link verdict.
type Sample struct {
	Time       time.Time
	Pos1       geom.Vec3
	Pos2       geom.Vec3
	DistanceKm float64

	// LOSClear is true when Earth's bulk does not occlude the segment
	// between the two positions.
	LOSClear bool

	// Communicable is true when the line of sight is clear and the
	// separation is within the maximum communication range.
	Communicable bool
}

// evaluator classifies individual timestamps for one satellite pair.
type evaluator struct {
	sat1, sat2    orbit.Propagator
	maxRangeKm    float64
	earthRadiusKm float64
}

// evaluate propagates both satellites to t and classifies the sample.
// Propagation failures are surfaced immediately; the caller aborts the whole
// request rather than dropping the sample.
func (e evaluator) evaluate(t time.Time) (Sample, error) {
	p1, err := e.sat1.PositionAt(t)
	if err != nil {
		return Sample{}, fmt.Errorf("satellite 1: %w", err)
	}
	p2, err := e.sat2.PositionAt(t)
	if err != nil {
		return Sample{}, fmt.Errorf("satellite 2: %w", err)
	}

	dist := p1.DistanceTo(p2)
	losClear := geom.HasLineOfSight(p1, p2, e.earthRadiusKm)

	return Sample{
		Time:         t,
		Pos1:         p1,
		Pos2:         p2,
		DistanceKm:   dist,
		LOSClear:     losClear,
		Communicable: losClear && dist <= e.maxRangeKm,
	}, nil
}
