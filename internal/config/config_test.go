package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "interlink.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_DefaultsApply(t *testing.T) {
	// An empty file yields pure defaults.
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Bind != "0.0.0.0:8080" {
		t.Errorf("bind = %q", cfg.Server.Bind)
	}
	if cfg.Analysis.DefaultStep() != 5*time.Minute {
		t.Errorf("default step = %v, want 5m", cfg.Analysis.DefaultStep())
	}
	if cfg.Analysis.MaxRangeKm != 1000 || cfg.Analysis.EarthRadiusKm != 6371 {
		t.Errorf("analysis defaults = %+v", cfg.Analysis)
	}
	if cfg.Analysis.MaxSamples != 100_000 {
		t.Errorf("max samples = %d", cfg.Analysis.MaxSamples)
	}
}

func TestLoad_OverridesLayerOnDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[server]
bind = "127.0.0.1:9000"

[analysis]
default_step_seconds = 60
max_samples = 5000
`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Bind != "127.0.0.1:9000" {
		t.Errorf("bind = %q", cfg.Server.Bind)
	}
	if cfg.Analysis.DefaultStepSeconds != 60 || cfg.Analysis.MaxSamples != 5000 {
		t.Errorf("analysis = %+v", cfg.Analysis)
	}
	// Untouched fields keep their defaults.
	if cfg.Analysis.MaxRangeKm != 1000 {
		t.Errorf("max_range_km = %v, want default 1000", cfg.Analysis.MaxRangeKm)
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"zero_step", "[analysis]\ndefault_step_seconds = 0\n"},
		{"negative_range", "[analysis]\nmax_range_km = -1.0\n"},
		{"negative_radius", "[analysis]\nearth_radius_km = -6371.0\n"},
		{"zero_ceiling", "[analysis]\nmax_samples = 0\n"},
		{"empty_bind", "[server]\nbind = \"\"\n"},
		{"bad_toml", "[analysis\n"},
	}
	for _, tc := range cases {
		if _, err := Load(writeConfig(t, tc.body)); err == nil {
			t.Errorf("%s: expected error, got nil", tc.name)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
