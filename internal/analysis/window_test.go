package analysis

import (
	"testing"
	"time"
)

// mkSamples builds a sample stream from a pattern string where 'c' marks a
// communicable sample, anything else not. Samples are one minute apart and
// carry increasing distances 10, 20, 30, ... for stat checks.
func mkSamples(pattern string) []Sample {
	base := time.Date(2025, 5, 18, 0, 0, 0, 0, time.UTC)
	out := make([]Sample, len(pattern))
	for i, ch := range pattern {
		out[i] = Sample{
			Time:         base.Add(time.Duration(i) * time.Minute),
			DistanceKm:   float64((i + 1) * 10),
			LOSClear:     ch == 'c',
			Communicable: ch == 'c',
		}
	}
	return out
}

func aggregate(pattern string) []Window {
	var a aggregator
	for _, s := range mkSamples(pattern) {
		a.observe(s)
	}
	return a.finish()
}

func TestAggregator_NoCommunicableSamples(t *testing.T) {
	if got := aggregate("....."); len(got) != 0 {
		t.Errorf("got %d windows, want 0", len(got))
	}
}

func TestAggregator_SingleFullWindow(t *testing.T) {
	windows := aggregate("ccccc")
	if len(windows) != 1 {
		t.Fatalf("got %d windows, want 1", len(windows))
	}

	w := windows[0]
	if !w.Start.Equal(mkSamples("c")[0].Time) {
		t.Errorf("window start = %s", w.Start)
	}
	if w.Duration != 4*time.Minute {
		t.Errorf("duration = %v, want 4m", w.Duration)
	}
	if len(w.Samples) != 5 {
		t.Errorf("got %d samples, want 5", len(w.Samples))
	}
}

func TestAggregator_ClosesAtLastCommunicableSample(t *testing.T) {
	// The window must end at the last communicable sample, not at the
	// non-communicable one that closed it.
	windows := aggregate("cc...")
	if len(windows) != 1 {
		t.Fatalf("got %d windows, want 1", len(windows))
	}
	if want := mkSamples("cc")[1].Time; !windows[0].End.Equal(want) {
		t.Errorf("window end = %s, want %s", windows[0].End, want)
	}
}

func TestAggregator_MultipleWindows(t *testing.T) {
	windows := aggregate("cc..ccc.c")
	if len(windows) != 3 {
		t.Fatalf("got %d windows, want 3", len(windows))
	}

	wantSamples := []int{2, 3, 1}
	for i, w := range windows {
		if len(w.Samples) != wantSamples[i] {
			t.Errorf("window %d: %d samples, want %d", i, len(w.Samples), wantSamples[i])
		}
	}

	// Ascending and pairwise disjoint.
	for i := 1; i < len(windows); i++ {
		if !windows[i-1].End.Before(windows[i].Start) {
			t.Errorf("windows %d and %d overlap or are out of order", i-1, i)
		}
	}
}

func TestAggregator_FlushesOpenWindowAtEndOfStream(t *testing.T) {
	windows := aggregate("..ccc")
	if len(windows) != 1 {
		t.Fatalf("got %d windows, want 1", len(windows))
	}
	if want := mkSamples("..ccc")[4].Time; !windows[0].End.Equal(want) {
		t.Errorf("flushed window end = %s, want %s", windows[0].End, want)
	}
}

func TestAggregator_SingleSampleWindow(t *testing.T) {
	windows := aggregate(".c.")
	if len(windows) != 1 {
		t.Fatalf("got %d windows, want 1", len(windows))
	}
	w := windows[0]
	if !w.Start.Equal(w.End) {
		t.Errorf("single-sample window start %s != end %s", w.Start, w.End)
	}
	if w.Duration != 0 {
		t.Errorf("duration = %v, want 0", w.Duration)
	}
}

func TestAggregator_DistanceStats(t *testing.T) {
	// Samples at indexes 2..4 carry distances 30, 40, 50.
	windows := aggregate("..ccc")
	if len(windows) != 1 {
		t.Fatalf("got %d windows, want 1", len(windows))
	}
	w := windows[0]
	if w.MinDistanceKm != 30 {
		t.Errorf("min distance = %v, want 30", w.MinDistanceKm)
	}
	if w.MaxDistanceKm != 50 {
		t.Errorf("max distance = %v, want 50", w.MaxDistanceKm)
	}
}

func TestAggregator_TerminalState(t *testing.T) {
	var a aggregator
	for _, s := range mkSamples("ccc") {
		a.observe(s)
	}
	a.finish()
	if a.open != nil {
		t.Errorf("aggregator still holds an open window after finish")
	}
}
