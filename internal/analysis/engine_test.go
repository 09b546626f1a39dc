package analysis

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/kepler-works/interlink-engine/internal/geom"
	"github.com/kepler-works/interlink-engine/internal/orbit"
	"github.com/kepler-works/interlink-engine/internal/transform"
)

// Structurally valid element lines so requests pass boundary validation;
// the stub propagators below never read them.
const (
	tleLine1 = "1 25544U 98067A   25138.37048074  .00007749  00000+0  14567-3 0  9994"
	tleLine2 = "2 25544  51.6369  94.7823 0002558 120.7586  15.7840 15.49587957510533"
)

var analysisStart = time.Date(2025, 5, 18, 0, 0, 0, 0, time.UTC)

// stubOrbit returns a fixed or time-dependent position and implements
// orbit.Propagator.
type stubOrbit struct {
	at  func(t time.Time) (geom.Vec3, error)
	pos geom.Vec3
}

func (s stubOrbit) PositionAt(t time.Time) (geom.Vec3, error) {
	if s.at != nil {
		return s.at(t)
	}
	return s.pos, nil
}

// stubFactory hands out per-satellite stubs keyed by element name.
func stubFactory(orbits map[string]stubOrbit) orbit.NewPropagator {
	return func(e orbit.Elements) (orbit.Propagator, error) {
		o, ok := orbits[e.Name]
		if !ok {
			return nil, fmt.Errorf("%w: no stub for %q", orbit.ErrInvalidElements, e.Name)
		}
		return o, nil
	}
}

// stubConverter tags each position so tests can verify which vector was
// converted.
type stubConverter struct{}

func (stubConverter) ToGeodetic(pos geom.Vec3, _ time.Time) transform.Geodetic {
	return transform.Geodetic{LatDeg: pos.X, LonDeg: pos.Y, AltitudeKm: pos.Norm()}
}

func baseRequest() Request {
	return Request{
		Sat1:          orbit.Elements{Name: "SAT-1", Line1: tleLine1, Line2: tleLine2},
		Sat2:          orbit.Elements{Name: "SAT-2", Line1: tleLine1, Line2: tleLine2},
		Start:         analysisStart,
		End:           analysisStart.Add(time.Hour),
		Step:          5 * time.Minute,
		MaxRangeKm:    1000,
		EarthRadiusKm: 6371,
	}
}

func stubEngine(orbits map[string]stubOrbit) *Engine {
	return &Engine{
		NewPropagator: stubFactory(orbits),
		Converter:     stubConverter{},
	}
}

func TestRun_CloseFormation(t *testing.T) {
	// Near-identical orbits, no occlusion: exactly one window spanning the
	// full range with near-zero minimum distance.
	eng := stubEngine(map[string]stubOrbit{
		"SAT-1": {pos: geom.Vec3{X: 7000, Y: 0, Z: 0}},
		"SAT-2": {pos: geom.Vec3{X: 7000, Y: 0.1, Z: 0}},
	})

	res, err := eng.Run(context.Background(), baseRequest(), nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.TotalWindows != 1 {
		t.Fatalf("TotalWindows = %d, want 1", res.TotalWindows)
	}
	w := res.Windows[0]
	if !w.Start.Equal(analysisStart) || !w.End.Equal(analysisStart.Add(time.Hour)) {
		t.Errorf("window [%s, %s] does not span the full range", w.Start, w.End)
	}
	if w.Duration != time.Hour {
		t.Errorf("duration = %v, want 1h", w.Duration)
	}
	if w.MinDistanceKm > 0.2 {
		t.Errorf("min distance = %v km, want near 0", w.MinDistanceKm)
	}
	if len(w.Samples) != 13 {
		t.Errorf("window has %d samples, want 13", len(w.Samples))
	}
}

func TestRun_PersistentlyOccluded(t *testing.T) {
	// Opposite sides of Earth throughout: zero windows, but initial
	// positions are still reported.
	eng := stubEngine(map[string]stubOrbit{
		"SAT-1": {pos: geom.Vec3{X: 7000, Y: 0, Z: 0}},
		"SAT-2": {pos: geom.Vec3{X: -7000, Y: 0, Z: 0}},
	})

	req := baseRequest()
	req.MaxRangeKm = 20000 // in range, but blocked
	res, err := eng.Run(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.TotalWindows != 0 || len(res.Windows) != 0 {
		t.Fatalf("TotalWindows = %d, want 0", res.TotalWindows)
	}
	if res.Sat1Initial.LatDeg != 7000 || res.Sat2Initial.LatDeg != -7000 {
		t.Errorf("initial positions not derived from first-sample vectors: %+v %+v",
			res.Sat1Initial, res.Sat2Initial)
	}
}

func TestRun_ZeroMaxRange(t *testing.T) {
	// Non-coincident satellites with maxRange 0 can never communicate.
	eng := stubEngine(map[string]stubOrbit{
		"SAT-1": {pos: geom.Vec3{X: 7000, Y: 0, Z: 0}},
		"SAT-2": {pos: geom.Vec3{X: 7000, Y: 1, Z: 0}},
	})

	req := baseRequest()
	req.MaxRangeKm = 0
	res, err := eng.Run(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.TotalWindows != 0 {
		t.Errorf("TotalWindows = %d, want 0", res.TotalWindows)
	}
}

func TestRun_ZeroEarthRadius(t *testing.T) {
	// With earthRadius 0 nothing can occlude; only range matters.
	eng := stubEngine(map[string]stubOrbit{
		"SAT-1": {pos: geom.Vec3{X: 500, Y: 0, Z: 0}},
		"SAT-2": {pos: geom.Vec3{X: -500, Y: 0, Z: 0}},
	})

	req := baseRequest()
	req.EarthRadiusKm = 0
	res, err := eng.Run(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.TotalWindows != 1 {
		t.Fatalf("TotalWindows = %d, want 1 with no Earth obstruction", res.TotalWindows)
	}
	for _, s := range res.Windows[0].Samples {
		if !s.LOSClear {
			t.Errorf("sample at %s: LOS not clear with zero Earth radius", s.Time)
		}
	}
}

func TestRun_AlternatingWindows(t *testing.T) {
	// Satellite 2 swings between close formation and the far side of Earth
	// every three samples, producing multiple disjoint windows.
	alternating := func(t time.Time) (geom.Vec3, error) {
		i := int(t.Sub(analysisStart) / (5 * time.Minute))
		if (i/3)%2 == 0 {
			return geom.Vec3{X: 7000, Y: 100, Z: 0}, nil
		}
		return geom.Vec3{X: -7000, Y: 0, Z: 0}, nil
	}
	eng := stubEngine(map[string]stubOrbit{
		"SAT-1": {pos: geom.Vec3{X: 7000, Y: 0, Z: 0}},
		"SAT-2": {at: alternating},
	})

	req := baseRequest()
	res, err := eng.Run(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Samples 0-2, 6-8, and 12 are communicable.
	if res.TotalWindows != 3 {
		t.Fatalf("TotalWindows = %d, want 3", res.TotalWindows)
	}

	var totalDuration time.Duration
	for i, w := range res.Windows {
		totalDuration += w.Duration
		if i > 0 && !res.Windows[i-1].End.Before(w.Start) {
			t.Errorf("windows %d and %d are not disjoint ascending", i-1, i)
		}
		for _, s := range w.Samples {
			if !s.Communicable {
				t.Errorf("window %d contains a non-communicable sample at %s", i, s.Time)
			}
			if got := s.Pos1.DistanceTo(s.Pos2); got != s.DistanceKm {
				t.Errorf("sample distance %v does not match reported positions (%v)", s.DistanceKm, got)
			}
		}
	}
	if rangeDur := req.End.Sub(req.Start); totalDuration > rangeDur {
		t.Errorf("sum of window durations %v exceeds range %v", totalDuration, rangeDur)
	}
}

func TestRun_Deterministic(t *testing.T) {
	orbits := map[string]stubOrbit{
		"SAT-1": {pos: geom.Vec3{X: 7000, Y: 0, Z: 0}},
		"SAT-2": {pos: geom.Vec3{X: 7000, Y: 500, Z: 100}},
	}

	a, err := stubEngine(orbits).Run(context.Background(), baseRequest(), nil)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	b, err := stubEngine(orbits).Run(context.Background(), baseRequest(), nil)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("identical requests produced different results")
	}
}

func TestRun_PropagationFailureAborts(t *testing.T) {
	failAt := analysisStart.Add(30 * time.Minute)
	eng := stubEngine(map[string]stubOrbit{
		"SAT-1": {pos: geom.Vec3{X: 7000, Y: 0, Z: 0}},
		"SAT-2": {at: func(t time.Time) (geom.Vec3, error) {
			if !t.Before(failAt) {
				return geom.Vec3{}, fmt.Errorf("%w: decayed", orbit.ErrPropagation)
			}
			return geom.Vec3{X: 7000, Y: 10, Z: 0}, nil
		}},
	})

	res, err := eng.Run(context.Background(), baseRequest(), nil)
	if !errors.Is(err, orbit.ErrPropagation) {
		t.Fatalf("expected ErrPropagation, got %v", err)
	}
	if res != nil {
		t.Errorf("partial result returned alongside failure")
	}
}

func TestRun_InvalidInput(t *testing.T) {
	eng := stubEngine(nil)

	req := baseRequest()
	req.Sat1.Line1 = ""
	if _, err := eng.Run(context.Background(), req, nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty element line: expected ErrInvalidInput, got %v", err)
	}

	req = baseRequest()
	req.MaxRangeKm = -1
	if _, err := eng.Run(context.Background(), req, nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("negative max range: expected ErrInvalidInput, got %v", err)
	}
}

func TestRun_RangeErrorsBeforePropagation(t *testing.T) {
	// Grid failures must be detected before the propagator factory runs.
	called := false
	eng := &Engine{
		NewPropagator: func(orbit.Elements) (orbit.Propagator, error) {
			called = true
			return nil, errors.New("should not be reached")
		},
		Converter: stubConverter{},
	}

	req := baseRequest()
	req.End = req.Start
	if _, err := eng.Run(context.Background(), req, nil); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}

	req = baseRequest()
	req.End = req.Start.AddDate(5, 0, 0)
	req.Step = time.Second
	if _, err := eng.Run(context.Background(), req, nil); !errors.Is(err, ErrResourceLimit) {
		t.Fatalf("expected ErrResourceLimit, got %v", err)
	}

	if called {
		t.Errorf("propagator factory invoked despite pre-propagation failure")
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	eng := stubEngine(map[string]stubOrbit{
		"SAT-1": {pos: geom.Vec3{X: 7000, Y: 0, Z: 0}},
		"SAT-2": {pos: geom.Vec3{X: 7000, Y: 1, Z: 0}},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := eng.Run(ctx, baseRequest(), nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRun_ProgressReported(t *testing.T) {
	eng := stubEngine(map[string]stubOrbit{
		"SAT-1": {pos: geom.Vec3{X: 7000, Y: 0, Z: 0}},
		"SAT-2": {pos: geom.Vec3{X: 7000, Y: 1, Z: 0}},
	})

	var calls, lastDone, lastTotal int
	_, err := eng.Run(context.Background(), baseRequest(), func(done, total int) {
		calls++
		lastDone, lastTotal = done, total
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if calls != 13 || lastDone != 13 || lastTotal != 13 {
		t.Errorf("progress calls=%d last=%d/%d, want 13 calls ending 13/13", calls, lastDone, lastTotal)
	}
}
