package analysis

import (
	"fmt"
	"iter"
	"time"
)

// DefaultMaxSamples bounds the time grid when no ceiling is configured.
// At the default 5-minute step this covers roughly a year of analysis; the
// ceiling exists to reject pathological requests like a one-second step over
// a decade, whose cost (two propagations per sample) would be unbounded.
const DefaultMaxSamples = 100_000

// Grid is the ordered sequence of sample timestamps for one analysis: start,
// start+step, start+2·step, ... up to and including the last instant not
// after end. End itself is included only when end-start is an exact multiple
// of step.
type Grid struct {
	Start time.Time
	End   time.Time
	Step  time.Duration
}

// NewGrid validates the range and step and bounds the sample count.
// maxSamples <= 0 selects DefaultMaxSamples.
func NewGrid(start, end time.Time, step time.Duration, maxSamples int) (Grid, error) {
	if step <= 0 {
		return Grid{}, fmt.Errorf("%w: step %v must be positive", ErrInvalidRange, step)
	}
	if !start.Before(end) {
		return Grid{}, fmt.Errorf("%w: start %s is not before end %s",
			ErrInvalidRange, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}

	g := Grid{Start: start, End: end, Step: step}
	if n := g.Count(); n > maxSamples {
		return Grid{}, fmt.Errorf("%w: %d samples requested, ceiling is %d (reduce the range or increase the step)",
			ErrResourceLimit, n, maxSamples)
	}
	return g, nil
}

// Count returns the number of timestamps in the grid.
func (g Grid) Count() int {
	return int(g.End.Sub(g.Start)/g.Step) + 1
}

// All returns the grid timestamps in ascending order, paired with their
// index. The sequence is lazy and restartable: ranging over it a second time
// replays the same timestamps.
func (g Grid) All() iter.Seq2[int, time.Time] {
	return func(yield func(int, time.Time) bool) {
		i := 0
		for t := g.Start; !t.After(g.End); t = t.Add(g.Step) {
			if !yield(i, t) {
				return
			}
			i++
		}
	}
}
