// Package config provides configuration parsing for resource-pulse.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the resource-pulse daemon configuration.
// Threshold fields are pointers: nil means the resource is not
// monitored. The check interval and window capacity are build-time
// constants and deliberately not configurable here.
type Config struct {
	// Daemon holds daemon-level settings.
	Daemon DaemonConfig `yaml:"daemon"`

	// Thresholds holds per-resource breach thresholds.
	Thresholds ThresholdsConfig `yaml:"thresholds"`

	// Metrics holds Prometheus exposition settings.
	Metrics MetricsConfig `yaml:"metrics"`
}

// DaemonConfig holds daemon-level settings.
type DaemonConfig struct {
	// StateDir is the directory for the PID and health files.
	StateDir string `yaml:"state_dir"`
	// LogFile is the path for daemon log output. Empty means stderr.
	LogFile string `yaml:"log_file"`
}

// ThresholdsConfig holds per-resource breach thresholds on the 0-100
// percent scale. A nil threshold disables monitoring for that resource.
type ThresholdsConfig struct {
	// CPU is the CPU utilization threshold percent.
	CPU *float64 `yaml:"cpu"`
	// Memory is the memory utilization threshold percent.
	Memory *float64 `yaml:"memory"`
	// Storage is accepted by the parser but rejected at validation:
	// storage monitoring is not yet supported.
	Storage *float64 `yaml:"storage"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	// ListenAddr is the address for the /metrics HTTP listener
	// (e.g. "127.0.0.1:9821"). Empty disables the listener.
	ListenAddr string `yaml:"listen_addr"`
}

// DefaultConfig returns a Config populated with sensible defaults.
// No thresholds are set by default; an empty registry is a valid, if
// degenerate, configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		Daemon: DaemonConfig{
			StateDir: filepath.Join(home, ".cache", "resource-pulse"),
			LogFile:  "",
		},
		Thresholds: ThresholdsConfig{},
		Metrics: MetricsConfig{
			ListenAddr: "",
		},
	}
}

// LoadConfig loads configuration from a YAML file, merging with defaults.
// A missing file is not an error: defaults are returned unchanged.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for required fields and logical
// consistency. Out-of-range thresholds are rejected here, before the
// monitor loop starts; they are never clamped.
func (c *Config) Validate() error {
	if c.Daemon.StateDir == "" {
		return fmt.Errorf("daemon.state_dir is required")
	}

	if err := validateThreshold("thresholds.cpu", c.Thresholds.CPU); err != nil {
		return err
	}
	if err := validateThreshold("thresholds.memory", c.Thresholds.Memory); err != nil {
		return err
	}
	if c.Thresholds.Storage != nil {
		return fmt.Errorf("thresholds.storage: storage monitoring is not yet supported")
	}

	return nil
}

// validateThreshold rejects thresholds outside the meaningful percent range.
func validateThreshold(field string, v *float64) error {
	if v == nil {
		return nil
	}
	if *v < 0 || *v > 100 {
		return fmt.Errorf("%s must be between 0 and 100, got %g", field, *v)
	}
	return nil
}

// SaveConfig saves configuration to a YAML file.
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
