// Package telemetry defines the typed event structs that flow over the
// WebSocket connection between interlinkd and its clients. These types serve
// as documentation for the event schema; most internal code still broadcasts
// events as map[string]any for flexibility.
package telemetry

import "time"

// EventType identifies the kind of WebSocket event.
type EventType string

const (
	EventHeartbeat        EventType = "heartbeat"
	EventState            EventType = "state"
	EventAnalysisStarted  EventType = "analysis_started"
	EventAnalysisProgress EventType = "analysis_progress"
	EventAnalysisComplete EventType = "analysis_complete"
	EventLog              EventType = "log"
)

// Event is the base envelope shared by every event type.
type Event struct {
	Type EventType `json:"type"`
	TS   string    `json:"ts"`
}

// NowTS returns the current UTC time as an RFC 3339 nano string, matching the
// timestamp format used across all events.
func NowTS() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Heartbeat is sent periodically so clients can detect connectivity and
// monitor daemon uptime.
type Heartbeat struct {
	Event
	State         string `json:"state"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// StateTransition is emitted whenever the daemon moves between operating
// states (e.g. IDLE -> ANALYZING).
type StateTransition struct {
	Event
	From string `json:"from"`
	To   string `json:"to"`
}

// AnalysisStarted announces a new interlink window computation: the
// satellite pair, the time range, and the number of samples about to be
// evaluated.
type AnalysisStarted struct {
	Event
	Sat1    string `json:"sat1"`
	Sat2    string `json:"sat2"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Samples int    `json:"samples"`
}

// AnalysisProgress reports incremental completion of a running analysis.
type AnalysisProgress struct {
	Event
	Percent float64 `json:"percent"`
	Done    int     `json:"done"`
	Total   int     `json:"total"`
}

// AnalysisComplete carries the outcome summary of a finished analysis.
type AnalysisComplete struct {
	Event
	Success      bool   `json:"success"`
	TotalWindows int    `json:"total_windows,omitempty"`
	Error        string `json:"error,omitempty"`
	ElapsedMs    int64  `json:"elapsed_ms"`
}

// LogLine carries a human-readable log message at a severity level.
type LogLine struct {
	Event
	Level   string `json:"level"`
	Message string `json:"message"`
}
