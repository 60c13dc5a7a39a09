package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

// TestDefaultConfig verifies defaults leave all resources unmonitored.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Thresholds.CPU != nil {
		t.Error("default CPU threshold set, want nil (disabled)")
	}
	if cfg.Thresholds.Memory != nil {
		t.Error("default Memory threshold set, want nil (disabled)")
	}
	if cfg.Daemon.StateDir == "" {
		t.Error("default state dir is empty")
	}
	if cfg.Metrics.ListenAddr != "" {
		t.Error("metrics listener enabled by default, want disabled")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

// TestLoadConfigMissingFile verifies a missing file yields defaults.
func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Thresholds.CPU != nil {
		t.Error("missing file produced a CPU threshold")
	}
}

// TestLoadConfig verifies YAML values merge over defaults.
func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
daemon:
  state_dir: /var/run/resource-pulse
thresholds:
  cpu: 80.5
  memory: 90
metrics:
  listen_addr: "127.0.0.1:9821"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Thresholds.CPU == nil || *cfg.Thresholds.CPU != 80.5 {
		t.Errorf("CPU threshold = %v, want 80.5", cfg.Thresholds.CPU)
	}
	if cfg.Thresholds.Memory == nil || *cfg.Thresholds.Memory != 90 {
		t.Errorf("Memory threshold = %v, want 90", cfg.Thresholds.Memory)
	}
	if cfg.Daemon.StateDir != "/var/run/resource-pulse" {
		t.Errorf("state dir = %q, want /var/run/resource-pulse", cfg.Daemon.StateDir)
	}
	if cfg.Metrics.ListenAddr != "127.0.0.1:9821" {
		t.Errorf("metrics listen addr = %q", cfg.Metrics.ListenAddr)
	}
}

// TestLoadConfigInvalidYAML verifies malformed YAML is an error.
func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("thresholds: ["), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig accepted malformed YAML")
	}
}

// TestLoadConfigNonNumericThreshold verifies a non-numeric threshold is
// rejected by parsing, never silently dropped.
func TestLoadConfigNonNumericThreshold(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("thresholds:\n  cpu: lots\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig accepted non-numeric threshold")
	}
}

// TestValidateThresholds verifies the range checks fail fast and never clamp.
func TestValidateThresholds(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid thresholds",
			mutate: func(c *Config) { c.Thresholds.CPU = floatPtr(80); c.Thresholds.Memory = floatPtr(0) },
		},
		{
			name:   "boundary values accepted",
			mutate: func(c *Config) { c.Thresholds.CPU = floatPtr(100) },
		},
		{
			name:    "negative cpu threshold",
			mutate:  func(c *Config) { c.Thresholds.CPU = floatPtr(-1) },
			wantErr: "thresholds.cpu",
		},
		{
			name:    "memory threshold above 100",
			mutate:  func(c *Config) { c.Thresholds.Memory = floatPtr(100.1) },
			wantErr: "thresholds.memory",
		},
		{
			name:    "storage threshold rejected",
			mutate:  func(c *Config) { c.Thresholds.Storage = floatPtr(50) },
			wantErr: "not yet supported",
		},
		{
			name:    "missing state dir",
			mutate:  func(c *Config) { c.Daemon.StateDir = "" },
			wantErr: "state_dir",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

// TestSaveConfigRoundTrip verifies saved configuration loads back identically.
func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Thresholds.CPU = floatPtr(75)

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Thresholds.CPU == nil || *loaded.Thresholds.CPU != 75 {
		t.Errorf("round-tripped CPU threshold = %v, want 75", loaded.Thresholds.CPU)
	}
	if loaded.Thresholds.Memory != nil {
		t.Error("round-tripped Memory threshold set, want nil")
	}
}
