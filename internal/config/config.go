// Package config handles loading, defaulting, and validation of the Interlink
// Engine TOML configuration file. Every section maps to a typed struct so the
// rest of the codebase gets strong typing without manual key lookups.
package config

import (
	"errors"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the top-level configuration, mirroring the TOML sections.
type Config struct {
	Logging  LoggingConfig  `toml:"logging"  json:"logging"`
	Server   ServerConfig   `toml:"server"   json:"server"`
	Analysis AnalysisConfig `toml:"analysis" json:"analysis"`
	Demo     DemoConfig     `toml:"demo"     json:"demo"`
}

type LoggingConfig struct {
	Level string `toml:"level" json:"level"`
}

type ServerConfig struct {
	Bind string `toml:"bind" json:"bind"`
}

// AnalysisConfig holds the engine defaults applied when a request omits the
// optional fields, plus the sample ceiling that bounds request cost.
type AnalysisConfig struct {
	DefaultStepSeconds int     `toml:"default_step_seconds" json:"default_step_seconds"`
	MaxRangeKm         float64 `toml:"max_range_km"         json:"max_range_km"`
	EarthRadiusKm      float64 `toml:"earth_radius_km"      json:"earth_radius_km"`
	MaxSamples         int     `toml:"max_samples"          json:"max_samples"`
}

// DefaultStep returns the default sampling step as a duration.
func (a AnalysisConfig) DefaultStep() time.Duration {
	return time.Duration(a.DefaultStepSeconds) * time.Second
}

type DemoConfig struct {
	Enabled         bool `toml:"enabled"          json:"enabled"`
	IntervalSeconds int  `toml:"interval_seconds" json:"interval_seconds"`
}

// Default returns a Config populated with sane defaults. Values here are
// used whenever the TOML file omits a field.
func Default() Config {
	return Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Bind: "0.0.0.0:8080",
		},
		Analysis: AnalysisConfig{
			DefaultStepSeconds: 300,
			MaxRangeKm:         1000,
			EarthRadiusKm:      6371,
			MaxSamples:         100_000,
		},
		Demo: DemoConfig{
			Enabled:         false,
			IntervalSeconds: 60,
		},
	}
}

// Load reads the TOML file at path, layers it on top of the defaults, and
// validates the result. An error is returned if the file can't be read,
// parsed, or if any constraint is violated.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}

	if err := validate(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.Server.Bind == "" {
		return errors.New("server.bind must not be empty")
	}
	if cfg.Analysis.DefaultStepSeconds <= 0 {
		return errors.New("analysis.default_step_seconds must be > 0")
	}
	if cfg.Analysis.MaxRangeKm < 0 {
		return errors.New("analysis.max_range_km must be >= 0")
	}
	if cfg.Analysis.EarthRadiusKm < 0 {
		return errors.New("analysis.earth_radius_km must be >= 0")
	}
	if cfg.Analysis.MaxSamples <= 0 {
		return errors.New("analysis.max_samples must be > 0")
	}
	if cfg.Demo.IntervalSeconds < 0 {
		return errors.New("demo.interval_seconds must be >= 0")
	}
	return nil
}
