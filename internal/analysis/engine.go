// Package analysis implements the interlink window computation engine: given
// two satellites' orbital elements and a time range, it samples both orbits,
// tests each sample for range and Earth obstruction, and aggregates the
// qualifying samples into discrete communication windows.
//
// The engine is transport-agnostic and holds no cross-request state. Orbit
// propagation and geodetic conversion are injected capabilities so the whole
// pipeline can be driven by deterministic stubs in tests.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/kepler-works/interlink-engine/internal/orbit"
	"github.com/kepler-works/interlink-engine/internal/transform"
)

// Request is a fully-resolved analysis request. Boundary defaults (step, max
// range, Earth radius) are applied before the request reaches the engine.
type Request struct {
	Sat1 orbit.Elements
	Sat2 orbit.Elements

	Start time.Time
	End   time.Time
	Step  time.Duration

	MaxRangeKm    float64
	EarthRadiusKm float64
}

// Validate checks the structural preconditions that are not covered by grid
// validation. Range and step constraints are checked by NewGrid.
func (r Request) Validate() error {
	if err := r.Sat1.Validate(); err != nil {
		return fmt.Errorf("%w: satellite 1: %v", ErrInvalidInput, err)
	}
	if err := r.Sat2.Validate(); err != nil {
		return fmt.Errorf("%w: satellite 2: %v", ErrInvalidInput, err)
	}
	if r.MaxRangeKm < 0 {
		return fmt.Errorf("%w: max range must be >= 0, got %v", ErrInvalidInput, r.MaxRangeKm)
	}
	if r.EarthRadiusKm < 0 {
		return fmt.Errorf("%w: earth radius must be >= 0, got %v", ErrInvalidInput, r.EarthRadiusKm)
	}
	return nil
}

// Result is a completed analysis: the ordered, disjoint window list plus the
// satellites' geodetic positions at the first grid timestamp. Initial
// positions are reported even when no windows were found.
type Result struct {
	Windows      []Window
	TotalWindows int

	Sat1Initial transform.Geodetic
	Sat2Initial transform.Geodetic
}

// Engine runs analyses. The zero value uses the production SGP4 propagator,
// the WGS-84 geodetic converter, and the default sample ceiling.
type Engine struct {
	// NewPropagator builds a propagator per satellite. Nil selects
	// orbit.NewSGP4.
	NewPropagator orbit.NewPropagator

	// Converter annotates results with geodetic positions. Nil selects
	// transform.WGS84Converter.
	Converter transform.Converter

	// MaxSamples caps the time grid. Zero selects DefaultMaxSamples.
	MaxSamples int
}

// Progress is called after each evaluated sample with done and total counts.
type Progress func(done, total int)

// Run executes the full pipeline for one request. On any failure it returns
// a nil Result; partial window lists are never produced. The same request against the same propagator always yields an
// identical Result.
func (e *Engine) Run(ctx context.Context, req Request, progress Progress) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	grid, err := NewGrid(req.Start, req.End, req.Step, e.MaxSamples)
	if err != nil {
		return nil, err
	}

	newProp := e.NewPropagator
	if newProp == nil {
		newProp = orbit.NewSGP4
	}
	conv := e.Converter
	if conv == nil {
		conv = transform.WGS84Converter{}
	}

	sat1, err := newProp(req.Sat1)
	if err != nil {
		return nil, fmt.Errorf("satellite 1: %w", err)
	}
	sat2, err := newProp(req.Sat2)
	if err != nil {
		return nil, fmt.Errorf("satellite 2: %w", err)
	}

	ev := evaluator{
		sat1:          sat1,
		sat2:          sat2,
		maxRangeKm:    req.MaxRangeKm,
		earthRadiusKm: req.EarthRadiusKm,
	}

	var (
		agg   aggregator
		res   Result
		total = grid.Count()
	)

	for i, t := range grid.All() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		s, err := ev.evaluate(t)
		if err != nil {
			return nil, err
		}

		if i == 0 {
			res.Sat1Initial = conv.ToGeodetic(s.Pos1, t)
			res.Sat2Initial = conv.ToGeodetic(s.Pos2, t)
		}

		agg.observe(s)
		if progress != nil {
			progress(i+1, total)
		}
	}

	res.Windows = agg.finish()
	res.TotalWindows = len(res.Windows)
	return &res, nil
}
