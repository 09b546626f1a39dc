package ctl

import (
	"fmt"
	"strings"
	"time"
)

// AnalyzeOptions controls an interlink analysis request.
type AnalyzeOptions struct {
	Sat1File      string  // path to the first satellite's TLE file
	Sat2File      string  // path to the second satellite's TLE file
	Start         string  // analysis start, RFC 3339 or "2006-01-02T15:04:05"
	End           string  // analysis end
	StepSeconds   int     // sample step, 0 = daemon default
	MaxRangeKm    float64 // communication range limit, 0 = daemon default
	EarthRadiusKm float64 // occlusion radius, negative = daemon default
	JSON          bool    // print the raw daemon response
}

// analyzeResponse mirrors the JSON returned by POST /api/calculate-interlink.
type analyzeResponse struct {
	Success          bool `json:"success"`
	TotalWindows     int  `json:"total_windows"`
	InterlinkWindows []struct {
		Start         string  `json:"start"`
		End           string  `json:"end"`
		DurationS     int     `json:"duration_s"`
		MinDistanceKm float64 `json:"min_distance_km"`
		MaxDistanceKm float64 `json:"max_distance_km"`
		Samples       []struct {
			Timestamp string  `json:"timestamp"`
			Distance  float64 `json:"distance"`
		} `json:"samples"`
	} `json:"interlink_windows"`
	InitialPositions struct {
		Sat1 struct {
			Lat      float64 `json:"lat"`
			Lon      float64 `json:"lon"`
			Altitude float64 `json:"altitude"`
		} `json:"sat1"`
		Sat2 struct {
			Lat      float64 `json:"lat"`
			Lon      float64 `json:"lon"`
			Altitude float64 `json:"altitude"`
		} `json:"sat2"`
	} `json:"initial_positions"`
}

// Analyze submits an interlink computation to the daemon and renders the
// resulting communication windows.
func Analyze(baseURL string, opts AnalyzeOptions) error {
	baseURL = strings.TrimRight(baseURL, "/")

	sat1, err := readTLEFile(opts.Sat1File)
	if err != nil {
		return err
	}
	sat2, err := readTLEFile(opts.Sat2File)
	if err != nil {
		return err
	}

	req := map[string]any{
		"sat1_name":  sat1.Name,
		"sat1_tle1":  sat1.Line1,
		"sat1_tle2":  sat1.Line2,
		"sat2_name":  sat2.Name,
		"sat2_tle1":  sat2.Line1,
		"sat2_tle2":  sat2.Line2,
		"start_date": opts.Start,
		"end_date":   opts.End,
	}
	if opts.StepSeconds > 0 {
		req["step_seconds"] = opts.StepSeconds
	}
	if opts.MaxRangeKm > 0 {
		req["max_range_km"] = opts.MaxRangeKm
	}
	if opts.EarthRadiusKm >= 0 {
		req["earth_radius_km"] = opts.EarthRadiusKm
	}

	var resp analyzeResponse
	if err := postJSON(baseURL, "/api/calculate-interlink", req, &resp); err != nil {
		return err
	}

	if opts.JSON {
		return printJSON(resp)
	}

	name1 := sat1.Name
	if name1 == "" {
		name1 = "Satellite 1"
	}
	name2 := sat2.Name
	if name2 == "" {
		name2 = "Satellite 2"
	}

	fmt.Println()
	fmt.Println(header("  INTERLINK WINDOWS"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 66)))
	fmt.Printf("  %-10s %s / %s\n", colorize(dim, "Pair:"), colorize(bold, name1), colorize(bold, name2))
	fmt.Printf("  %-10s %s to %s\n", colorize(dim, "Range:"), opts.Start, opts.End)

	p1 := resp.InitialPositions.Sat1
	p2 := resp.InitialPositions.Sat2
	fmt.Printf("  %-10s %.2f°, %.2f° @ %.0f km  /  %.2f°, %.2f° @ %.0f km\n",
		colorize(dim, "Initial:"),
		p1.Lat, p1.Lon, p1.Altitude,
		p2.Lat, p2.Lon, p2.Altitude,
	)
	fmt.Println()

	if resp.TotalWindows == 0 {
		fmt.Println(colorize(yellow, "  no communication windows in the requested range"))
		fmt.Println()
		return nil
	}

	fmt.Printf("  %s\n", colorize(dim, fmt.Sprintf("%-4s %-21s %-21s %-10s %-12s %s",
		"#", "START (UTC)", "END (UTC)", "DURATION", "MIN DIST", "MAX DIST")))

	for i, w := range resp.InterlinkWindows {
		dur := formatDuration(time.Duration(w.DurationS) * time.Second)
		fmt.Printf("  %-4d %-21s %-21s %-10s %9.1f km %9.1f km\n",
			i+1,
			shortTime(w.Start),
			shortTime(w.End),
			dur,
			w.MinDistanceKm,
			w.MaxDistanceKm,
		)
	}

	fmt.Println()
	fmt.Printf("  %s %d\n", colorize(dim, "Total windows:"), resp.TotalWindows)
	fmt.Println()

	return nil
}

// shortTime drops the timezone suffix from an RFC 3339 timestamp so the
// window table stays narrow. All daemon timestamps are UTC.
func shortTime(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}
