// Package demo exercises the full analysis pipeline on a canned satellite
// formation so the daemon, CLI, and dashboard can be tested end-to-end
// without an operator submitting requests. The built-in pair is a leader and
// a trailer in the same orbital plane, about a degree of mean anomaly apart,
// which keeps them inside communication range for the whole run.
package demo

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/kepler-works/interlink-engine/internal/analysis"
	"github.com/kepler-works/interlink-engine/internal/config"
	"github.com/kepler-works/interlink-engine/internal/orbit"
	"github.com/kepler-works/interlink-engine/internal/ws"
)

// Formation-flight element pair used for every demo run. The epoch is fixed
// so repeated runs produce identical windows.
const (
	leaderLine1  = "1 25544U 98067A   24100.50000000  .00016717  00000-0  10270-3 0  9005"
	leaderLine2  = "2 25544  51.6400 100.0000 0001000   0.0000   0.0000 15.50000000    09"
	trailerLine1 = "1 25545U 98067B   24100.50000000  .00016717  00000-0  10270-3 0  9006"
	trailerLine2 = "2 25545  51.6400 100.0000 0001000   0.0000 359.0000 15.50000000    05"
)

// demoEpoch is noon UTC on the element epoch day (2024 day-of-year 100.5).
var demoEpoch = time.Date(2024, 4, 9, 12, 0, 0, 0, time.UTC)

// Runner periodically analyses the built-in formation pair and broadcasts
// the lifecycle events a real request would produce.
type Runner struct {
	Hub      *ws.Hub
	Engine   *analysis.Engine
	Cfg      config.Config
	Log      *log.Logger
	Interval time.Duration
}

// New creates a demo runner with a sensible default interval.
func New(hub *ws.Hub, engine *analysis.Engine, cfg config.Config, logger *log.Logger) *Runner {
	return &Runner{
		Hub:      hub,
		Engine:   engine,
		Cfg:      cfg,
		Log:      logger,
		Interval: 60 * time.Second,
	}
}

// Run kicks off the demo loop. It fires one analysis immediately, then
// repeats on the configured interval until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	r.broadcast(map[string]any{
		"type":    "log",
		"level":   "info",
		"message": "demo mode active: analysing built-in formation pair",
	})

	r.runOnce(ctx)

	t := time.NewTicker(r.Interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.runOnce(ctx)
		}
	}
}

// runOnce performs a single two-hour analysis of the formation pair at a
// one-minute step.
func (r *Runner) runOnce(ctx context.Context) {
	req := analysis.Request{
		Sat1:          orbit.Elements{Name: "DEMO-LEADER", Line1: leaderLine1, Line2: leaderLine2},
		Sat2:          orbit.Elements{Name: "DEMO-TRAILER", Line1: trailerLine1, Line2: trailerLine2},
		Start:         demoEpoch,
		End:           demoEpoch.Add(2 * time.Hour),
		Step:          time.Minute,
		MaxRangeKm:    r.Cfg.Analysis.MaxRangeKm,
		EarthRadiusKm: r.Cfg.Analysis.EarthRadiusKm,
	}

	r.broadcast(map[string]any{
		"type":    "analysis_started",
		"sat1":    req.Sat1.Name,
		"sat2":    req.Sat2.Name,
		"start":   req.Start.Format(time.RFC3339),
		"end":     req.End.Format(time.RFC3339),
		"samples": 121,
	})

	started := time.Now()
	res, err := r.Engine.Run(ctx, req, nil)
	if err != nil {
		r.Log.Printf("demo: analysis failed: %v", err)
		r.broadcast(map[string]any{
			"type":       "analysis_complete",
			"success":    false,
			"error":      err.Error(),
			"elapsed_ms": time.Since(started).Milliseconds(),
		})
		return
	}

	r.broadcast(map[string]any{
		"type":          "analysis_complete",
		"success":       true,
		"total_windows": res.TotalWindows,
		"elapsed_ms":    time.Since(started).Milliseconds(),
	})
	r.broadcast(map[string]any{
		"type":    "log",
		"level":   "info",
		"message": fmt.Sprintf("demo: %d window(s) for %s / %s", res.TotalWindows, req.Sat1.Name, req.Sat2.Name),
	})
}

func (r *Runner) broadcast(v map[string]any) {
	v["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	v["component"] = "demo"
	r.Hub.BroadcastJSON(v)
}
