// Package app wires together the HTTP server, the WebSocket event hub, and
// the analysis engine. It owns the daemon's lifecycle and is the single
// source of truth for the current operating state.
package app

import (
	"context"
	"log"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/kepler-works/interlink-engine/internal/analysis"
	"github.com/kepler-works/interlink-engine/internal/config"
	"github.com/kepler-works/interlink-engine/internal/demo"
	"github.com/kepler-works/interlink-engine/internal/metrics"
	"github.com/kepler-works/interlink-engine/internal/ws"
)

// Options holds everything the App needs from the caller.
type Options struct {
	Logger *log.Logger
	Cfg    config.Config
	Bind   string

	// Engine overrides the production analysis engine; used by tests to
	// substitute stub propagators. Nil selects SGP4 + WGS-84 with the
	// configured sample ceiling.
	Engine *analysis.Engine
}

// App is the top-level daemon process.
type App struct {
	log    *log.Logger
	cfg    config.Config
	bind   string
	server *http.Server
	engine *analysis.Engine

	startedAt time.Time
	state     atomic.Value // current state string (BOOTING, IDLE, ANALYZING)

	// Running totals reported by /api/status.
	activeAnalyses atomic.Int64
	totalAnalyses  atomic.Int64
	totalWindows   atomic.Int64

	wsHub *ws.Hub
}

// New creates an App in the BOOTING state. Call Run to start serving.
func New(opts Options) *App {
	engine := opts.Engine
	if engine == nil {
		engine = &analysis.Engine{MaxSamples: opts.Cfg.Analysis.MaxSamples}
	}

	a := &App{
		log:       opts.Logger,
		cfg:       opts.Cfg,
		bind:      opts.Bind,
		engine:    engine,
		startedAt: time.Now(),
		wsHub:     ws.NewHub(),
	}
	a.state.Store("BOOTING")
	return a
}

// Run starts the HTTP server, WebSocket hub, heartbeat ticker, and the demo
// runner when configured. It blocks until the context is cancelled or the
// server returns an error.
func (a *App) Run(ctx context.Context) error {
	bind := a.bind
	if bind == "" {
		bind = a.cfg.Server.Bind
	}
	if bind == "" {
		bind = "0.0.0.0:8080"
	}

	a.server = &http.Server{
		Addr:              bind,
		Handler:           metrics.Middleware(a.Routes()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", bind)
	if err != nil {
		return err
	}

	a.log.Printf("listening on http://%s", bind)

	go a.wsHub.Run(ctx)
	a.transition("IDLE")
	go a.heartbeatLoop(ctx)

	if a.cfg.Demo.Enabled {
		r := demo.New(a.wsHub, a.engine, a.cfg, a.log)
		if a.cfg.Demo.IntervalSeconds > 0 {
			r.Interval = time.Duration(a.cfg.Demo.IntervalSeconds) * time.Second
		}
		go r.Run(ctx)
	}

	go func() {
		<-ctx.Done()
		a.log.Printf("shutdown requested")
		_ = a.server.Shutdown(context.Background())
	}()

	return a.server.Serve(ln)
}

// Routes builds the HTTP mux for the daemon API.
func (a *App) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", a.handleHealthz)
	mux.HandleFunc("/api/status", a.handleStatus)
	mux.HandleFunc("/api/version", a.handleVersion)
	mux.HandleFunc("/api/config", a.handleConfig)
	mux.HandleFunc("/api/calculate-interlink", a.handleCalculateInterlink)
	mux.HandleFunc("/api/validate-tle", a.handleValidateTLE)
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/ws", a.wsHub.Handler())
	return mux
}

// transition atomically updates the daemon state and broadcasts the change
// to all connected WebSocket clients.
func (a *App) transition(newState string) {
	old := a.state.Load().(string)
	if old == newState {
		return
	}
	a.state.Store(newState)

	a.wsHub.BroadcastJSON(map[string]any{
		"type":      "state",
		"ts":        time.Now().UTC().Format(time.RFC3339Nano),
		"from":      old,
		"to":        newState,
		"component": "interlinkd",
	})
}

// beginAnalysis and endAnalysis keep the ANALYZING state consistent when
// several requests run concurrently.
func (a *App) beginAnalysis() {
	if a.activeAnalyses.Add(1) == 1 {
		a.transition("ANALYZING")
	}
}

func (a *App) endAnalysis() {
	if a.activeAnalyses.Add(-1) == 0 {
		a.transition("IDLE")
	}
}

// heartbeatLoop sends a periodic heartbeat event so clients can detect
// connectivity and track uptime without polling.
func (a *App) heartbeatLoop(ctx context.Context) {
	t := time.NewTicker(10 * time.Second)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			a.wsHub.BroadcastJSON(map[string]any{
				"type":           "heartbeat",
				"ts":             time.Now().UTC().Format(time.RFC3339Nano),
				"uptime_seconds": int64(time.Since(a.startedAt).Seconds()),
				"state":          a.state.Load().(string),
			})
		}
	}
}

// emit stamps a payload with a timestamp and component name, then pushes it
// to every connected WebSocket client.
func (a *App) emit(component string, payload map[string]any) {
	payload["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	payload["component"] = component
	a.wsHub.BroadcastJSON(payload)
}
