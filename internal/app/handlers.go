package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/kepler-works/interlink-engine/internal/analysis"
	"github.com/kepler-works/interlink-engine/internal/metrics"
	"github.com/kepler-works/interlink-engine/internal/orbit"
	"github.com/kepler-works/interlink-engine/internal/transform"
)

// ---------------------------------------------------------------------------
// Core handlers
// ---------------------------------------------------------------------------

func (a *App) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (a *App) handleStatus(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]any{
		"name":            "interlink-engine",
		"state":           a.state.Load().(string),
		"uptime_seconds":  int64(time.Since(a.startedAt).Seconds()),
		"demo_enabled":    a.cfg.Demo.Enabled,
		"ws_clients":      a.wsHub.ClientCount(),
		"active_analyses": a.activeAnalyses.Load(),
		"total_analyses":  a.totalAnalyses.Load(),
		"total_windows":   a.totalWindows.Load(),
		"max_samples":     a.cfg.Analysis.MaxSamples,
		"default_step_s":  a.cfg.Analysis.DefaultStepSeconds,
		"max_range_km":    a.cfg.Analysis.MaxRangeKm,
		"earth_radius_km": a.cfg.Analysis.EarthRadiusKm,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (a *App) handleVersion(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]any{
		"version":    Version,
		"go_version": GoVersion,
		"built_at":   BuiltAt,
		"runtime":    runtime.Version(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (a *App) handleConfig(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(a.cfg)
}

// ---------------------------------------------------------------------------
// Interlink analysis
// ---------------------------------------------------------------------------

// interlinkRequest is the JSON boundary shape for an analysis request.
// Optional fields use pointers so "absent" and "zero" stay distinguishable;
// absent fields take the configured defaults.
type interlinkRequest struct {
	Sat1Name string `json:"sat1_name"`
	Sat1TLE1 string `json:"sat1_tle1"`
	Sat1TLE2 string `json:"sat1_tle2"`

	Sat2Name string `json:"sat2_name"`
	Sat2TLE1 string `json:"sat2_tle1"`
	Sat2TLE2 string `json:"sat2_tle2"`

	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	StepSeconds   *int     `json:"step_seconds,omitempty"`
	MaxRangeKm    *float64 `json:"max_range_km,omitempty"`
	EarthRadiusKm *float64 `json:"earth_radius_km,omitempty"`
}

type geodeticJSON struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Altitude float64 `json:"altitude"`
}

type sampleJSON struct {
	Timestamp string       `json:"timestamp"`
	Distance  float64      `json:"distance"`
	Sat1Pos   geodeticJSON `json:"sat1_pos"`
	Sat2Pos   geodeticJSON `json:"sat2_pos"`
}

type windowJSON struct {
	Start         string       `json:"start"`
	End           string       `json:"end"`
	DurationS     int          `json:"duration_s"`
	MinDistanceKm float64      `json:"min_distance_km"`
	MaxDistanceKm float64      `json:"max_distance_km"`
	Samples       []sampleJSON `json:"samples"`
}

func (a *App) handleCalculateInterlink(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req interlinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonFailure(w, "bad request: "+err.Error())
		return
	}

	anaReq, err := a.toAnalysisRequest(req)
	if err != nil {
		jsonFailure(w, err.Error())
		return
	}

	a.beginAnalysis()
	defer a.endAnalysis()

	started := time.Now()
	conv := a.engine.Converter
	if conv == nil {
		conv = transform.WGS84Converter{}
	}

	res, err := a.engine.Run(r.Context(), anaReq, a.progressEmitter(anaReq))
	elapsed := time.Since(started)

	a.totalAnalyses.Add(1)
	if err != nil {
		metrics.ObserveAnalysis(outcomeFor(err), 0, elapsed)
		a.emit("analysis", map[string]any{
			"type":       "analysis_complete",
			"success":    false,
			"error":      err.Error(),
			"elapsed_ms": elapsed.Milliseconds(),
		})
		jsonFailure(w, err.Error())
		return
	}

	a.totalWindows.Add(int64(res.TotalWindows))
	metrics.ObserveAnalysis("ok", res.TotalWindows, elapsed)
	a.emit("analysis", map[string]any{
		"type":          "analysis_complete",
		"success":       true,
		"total_windows": res.TotalWindows,
		"elapsed_ms":    elapsed.Milliseconds(),
	})

	windows := make([]windowJSON, len(res.Windows))
	for i, win := range res.Windows {
		samples := make([]sampleJSON, len(win.Samples))
		for j, s := range win.Samples {
			samples[j] = sampleJSON{
				Timestamp: s.Time.Format(time.RFC3339),
				Distance:  s.DistanceKm,
				Sat1Pos:   toGeodeticJSON(conv.ToGeodetic(s.Pos1, s.Time)),
				Sat2Pos:   toGeodeticJSON(conv.ToGeodetic(s.Pos2, s.Time)),
			}
		}
		windows[i] = windowJSON{
			Start:         win.Start.Format(time.RFC3339),
			End:           win.End.Format(time.RFC3339),
			DurationS:     int(win.Duration.Seconds()),
			MinDistanceKm: win.MinDistanceKm,
			MaxDistanceKm: win.MaxDistanceKm,
			Samples:       samples,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":           true,
		"total_windows":     res.TotalWindows,
		"interlink_windows": windows,
		"initial_positions": map[string]any{
			"sat1": toGeodeticJSON(res.Sat1Initial),
			"sat2": toGeodeticJSON(res.Sat2Initial),
		},
	})
}

func (a *App) handleValidateTLE(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Name     string `json:"name"`
		TLELine1 string `json:"tle_line1"`
		TLELine2 string `json:"tle_line2"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonFailure(w, "bad request: "+err.Error())
		return
	}

	info, err := orbit.Describe(orbit.Elements{
		Name:  req.Name,
		Line1: req.TLELine1,
		Line2: req.TLELine2,
	})
	if err != nil {
		jsonFailure(w, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":   true,
		"message":   "TLE is valid",
		"satellite": info,
	})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// toAnalysisRequest maps the boundary JSON onto a fully-resolved engine
// request, applying configured defaults for the optional fields.
func (a *App) toAnalysisRequest(req interlinkRequest) (analysis.Request, error) {
	start, err := parseTimestamp(req.StartDate)
	if err != nil {
		return analysis.Request{}, fmt.Errorf("%w: start_date: %v", analysis.ErrInvalidInput, err)
	}
	end, err := parseTimestamp(req.EndDate)
	if err != nil {
		return analysis.Request{}, fmt.Errorf("%w: end_date: %v", analysis.ErrInvalidInput, err)
	}

	out := analysis.Request{
		Sat1:          orbit.Elements{Name: req.Sat1Name, Line1: req.Sat1TLE1, Line2: req.Sat1TLE2},
		Sat2:          orbit.Elements{Name: req.Sat2Name, Line1: req.Sat2TLE1, Line2: req.Sat2TLE2},
		Start:         start,
		End:           end,
		Step:          a.cfg.Analysis.DefaultStep(),
		MaxRangeKm:    a.cfg.Analysis.MaxRangeKm,
		EarthRadiusKm: a.cfg.Analysis.EarthRadiusKm,
	}
	if out.Sat1.Name == "" {
		out.Sat1.Name = "Satellite 1"
	}
	if out.Sat2.Name == "" {
		out.Sat2.Name = "Satellite 2"
	}

	if req.StepSeconds != nil {
		out.Step = time.Duration(*req.StepSeconds) * time.Second
	}
	if req.MaxRangeKm != nil {
		out.MaxRangeKm = *req.MaxRangeKm
	}
	if req.EarthRadiusKm != nil {
		out.EarthRadiusKm = *req.EarthRadiusKm
	}
	return out, nil
}

// parseTimestamp accepts RFC 3339 or a bare ISO date-time (assumed UTC),
// matching what web clients typically submit.
func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("missing")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s+"Z")
}

// progressEmitter returns an engine progress callback that emits
// analysis_started on the first sample and progress events at 10% intervals.
func (a *App) progressEmitter(req analysis.Request) analysis.Progress {
	lastDecile := -1
	return func(done, total int) {
		if done == 1 {
			a.emit("analysis", map[string]any{
				"type":    "analysis_started",
				"sat1":    req.Sat1.Name,
				"sat2":    req.Sat2.Name,
				"start":   req.Start.Format(time.RFC3339),
				"end":     req.End.Format(time.RFC3339),
				"samples": total,
			})
		}
		decile := done * 10 / total
		if decile > lastDecile {
			lastDecile = decile
			a.emit("analysis", map[string]any{
				"type":    "analysis_progress",
				"percent": float64(done) / float64(total) * 100,
				"done":    done,
				"total":   total,
			})
		}
	}
}

// outcomeFor maps an analysis failure onto a metrics outcome label.
func outcomeFor(err error) string {
	switch {
	case errors.Is(err, analysis.ErrInvalidRange):
		return "invalid_range"
	case errors.Is(err, analysis.ErrResourceLimit):
		return "resource_limit"
	case errors.Is(err, analysis.ErrInvalidInput), errors.Is(err, orbit.ErrInvalidElements):
		return "invalid_input"
	case errors.Is(err, orbit.ErrPropagation):
		return "propagation"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "error"
	}
}

func toGeodeticJSON(g transform.Geodetic) geodeticJSON {
	return geodeticJSON{Lat: g.LatDeg, Lon: g.LonDeg, Altitude: g.AltitudeKm}
}

// jsonFailure writes the boundary failure shape. Every failure kind maps to
// HTTP 400 with a JSON error body, and clients depend on that.
func jsonFailure(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   msg,
	})
}
