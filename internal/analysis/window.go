package analysis

import "time"

// Window is a maximal run of contiguous communicable samples: the interval,
// at sampling resolution, during which the two satellites can talk.
// Boundaries are quantized to the sampling step; no sub-step interpolation
// is performed.
type Window struct {
	Start    time.Time
	End      time.Time
	Duration time.Duration

	MinDistanceKm float64
	MaxDistanceKm float64

	// Samples are the communicable samples the window was built from, in
	// grid order.
	Samples []Sample
}

// aggregator folds the ordered sample stream into discrete windows.
//
// It is a two-state machine: outside a window, a communicable sample opens
// one; inside, a non-communicable sample (or end of stream) closes it at the
// last communicable sample's timestamp. Samples must be observed in
// ascending grid order.
type aggregator struct {
	open    *Window
	windows []Window
}

// observe advances the state machine by one sample.
func (a *aggregator) observe(s Sample) {
	switch {
	case s.Communicable && a.open == nil:
		a.open = &Window{Start: s.Time, Samples: []Sample{s}}

	case s.Communicable:
		a.open.Samples = append(a.open.Samples, s)

	case a.open != nil:
		a.close()
	}
}

// finish flushes any still-open window and returns all windows in ascending
// start order.
func (a *aggregator) finish() []Window {
	if a.open != nil {
		a.close()
	}
	return a.windows
}

// close seals the open window at its last sample's timestamp and computes
// the summary statistics.
func (a *aggregator) close() {
	w := a.open
	a.open = nil

	w.End = w.Samples[len(w.Samples)-1].Time
	w.Duration = w.End.Sub(w.Start)

	w.MinDistanceKm = w.Samples[0].DistanceKm
	w.MaxDistanceKm = w.Samples[0].DistanceKm
	for _, s := range w.Samples[1:] {
		if s.DistanceKm < w.MinDistanceKm {
			w.MinDistanceKm = s.DistanceKm
		}
		if s.DistanceKm > w.MaxDistanceKm {
			w.MaxDistanceKm = s.DistanceKm
		}
	}

	a.windows = append(a.windows, *w)
}
