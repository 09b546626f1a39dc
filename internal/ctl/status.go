package ctl

import (
	"fmt"
	"strings"
	"time"
)

// StatusResponse mirrors the JSON returned by GET /api/status.
type StatusResponse struct {
	Name           string  `json:"name"`
	State          string  `json:"state"`
	UptimeSeconds  int64   `json:"uptime_seconds"`
	DemoEnabled    bool    `json:"demo_enabled"`
	WSClients      int     `json:"ws_clients"`
	ActiveAnalyses int64   `json:"active_analyses"`
	TotalAnalyses  int64   `json:"total_analyses"`
	TotalWindows   int64   `json:"total_windows"`
	MaxSamples     int     `json:"max_samples"`
	DefaultStepS   int     `json:"default_step_s"`
	MaxRangeKm     float64 `json:"max_range_km"`
	EarthRadiusKm  float64 `json:"earth_radius_km"`
}

// Status fetches the daemon status and prints a formatted summary.
func Status(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var s StatusResponse
	if err := getJSON(baseURL, "/api/status", &s); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(s)
	}

	uptime := formatDuration(time.Duration(s.UptimeSeconds) * time.Second)
	stateStr := colorize(stateColor(s.State), s.State)

	demoStr := "off"
	if s.DemoEnabled {
		demoStr = "on"
	}

	fmt.Println()
	fmt.Println(header("  INTERLINK ENGINE STATUS"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 38)))
	fmt.Printf("  %-12s %s\n", colorize(dim, "Daemon:"), s.Name)
	fmt.Printf("  %-12s %s\n", colorize(dim, "State:"), stateStr)
	fmt.Printf("  %-12s %s\n", colorize(dim, "Uptime:"), uptime)
	fmt.Printf("  %-12s %d active, %d total\n", colorize(dim, "Analyses:"), s.ActiveAnalyses, s.TotalAnalyses)
	fmt.Printf("  %-12s %d\n", colorize(dim, "Windows:"), s.TotalWindows)
	fmt.Printf("  %-12s %d\n", colorize(dim, "Clients:"), s.WSClients)
	fmt.Printf("  %-12s %s\n", colorize(dim, "Demo:"), demoStr)
	fmt.Printf("  %-12s %s\n", colorize(dim, "Host:"), baseURL)
	fmt.Println()

	return nil
}
