// Ilctl is the command-line client for a running interlinkd instance. It
// submits interlink analyses, validates element sets, and streams live
// events from the daemon over HTTP and WebSocket.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/kepler-works/interlink-engine/internal/ctl"
)

func main() {
	var (
		host    = pflag.StringP("host", "H", "http://127.0.0.1:8080", "Interlink daemon URL (e.g. http://192.168.8.1:8080)")
		jsonOut = pflag.Bool("json", false, "Output raw JSON instead of formatted text")
		filter  = pflag.StringSlice("filter", nil, "Event types to show in watch (e.g. --filter state,log)")
	)

	// Stop parsing global flags at the first non-flag argument (the command
	// name), so subcommand-specific flags like --step are not rejected.
	pflag.CommandLine.SetInterspersed(false)
	pflag.Parse()

	if pflag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cmd := pflag.Arg(0)
	subArgs := pflag.Args()[1:]

	var err error
	switch cmd {
	// ── Query commands ────────────────────────────────────────────
	case "status":
		err = ctl.Status(*host, *jsonOut)

	case "health":
		err = ctl.Health(*host, *jsonOut)

	case "version":
		err = ctl.VersionInfo(*host, *jsonOut)

	case "config":
		err = ctl.Config(*host, *jsonOut)

	// ── Analysis commands ─────────────────────────────────────────
	case "analyze":
		opts := ctl.AnalyzeOptions{JSON: *jsonOut, EarthRadiusKm: -1}
		anFlags := pflag.NewFlagSet("analyze", pflag.ContinueOnError)
		anFlags.StringVar(&opts.Sat1File, "sat1", "", "Path to the first satellite's TLE file")
		anFlags.StringVar(&opts.Sat2File, "sat2", "", "Path to the second satellite's TLE file")
		anFlags.StringVar(&opts.Start, "start", "", "Analysis start time (RFC 3339 UTC)")
		anFlags.StringVar(&opts.End, "end", "", "Analysis end time (RFC 3339 UTC)")
		anFlags.IntVar(&opts.StepSeconds, "step", 0, "Sample step in seconds (default: daemon config)")
		anFlags.Float64Var(&opts.MaxRangeKm, "max-range", 0, "Max communication range in km (default: daemon config)")
		anFlags.Float64Var(&opts.EarthRadiusKm, "earth-radius", -1, "Occlusion radius in km (default: daemon config)")
		_ = anFlags.Parse(subArgs)
		if opts.Sat1File == "" || opts.Sat2File == "" || opts.Start == "" || opts.End == "" {
			err = fmt.Errorf("analyze requires --sat1, --sat2, --start, and --end")
		} else {
			err = ctl.Analyze(*host, opts)
		}

	case "validate":
		vFlags := pflag.NewFlagSet("validate", pflag.ContinueOnError)
		_ = vFlags.Parse(subArgs)
		if vFlags.NArg() < 1 {
			err = fmt.Errorf("validate requires a TLE file path")
		} else {
			err = ctl.Validate(*host, vFlags.Arg(0), *jsonOut)
		}

	// ── Live streaming ────────────────────────────────────────────
	case "watch":
		err = ctl.Watch(*host, ctl.WatchOptions{
			Filter: *filter,
			JSON:   *jsonOut,
		})

	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Print(`
  ilctl - Interlink Engine control CLI

  USAGE
    ilctl [flags] <command> [command-flags]

  COMMANDS (query)
    status          Show daemon state, uptime, and running totals
    health          Check daemon liveness
    version         Show CLI and daemon version information
    config          Show the daemon's running configuration

  COMMANDS (analysis)
    analyze         Compute interlink windows for a satellite pair
    validate        Validate a TLE file and show satellite metadata

  COMMANDS (live)
    watch           Stream live events from the daemon (Ctrl-C to stop)

  GLOBAL FLAGS
    -H, --host URL      Daemon base URL (default: http://127.0.0.1:8080)
        --json          Output raw JSON instead of formatted text
        --filter TYPE   Event types to show in watch (comma-separated)

  COMMAND FLAGS
    analyze:
        --sat1 FILE         First satellite's TLE file (2 or 3 lines)
        --sat2 FILE         Second satellite's TLE file
        --start TIME        Analysis start, RFC 3339 UTC
        --end TIME          Analysis end, RFC 3339 UTC
        --step SECS         Sample step in seconds
        --max-range KM      Max communication range in km
        --earth-radius KM   Occlusion radius in km

  EXAMPLES
    ilctl status
    ilctl --json status
    ilctl --host http://192.168.8.1:8080 watch
    ilctl validate iss.tle
    ilctl analyze --sat1 iss.tle --sat2 starlink.tle \
        --start 2024-04-09T12:00:00Z --end 2024-04-10T12:00:00Z
    ilctl analyze --sat1 a.tle --sat2 b.tle \
        --start 2024-04-09T12:00:00Z --end 2024-04-09T18:00:00Z --step 60
    ilctl watch --filter state,log,analysis_complete

`)
}
