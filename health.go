package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gitlab.com/tinyland/lab/resource-pulse/internal/format"
	"gitlab.com/tinyland/lab/resource-pulse/monitor"
)

// HealthStatus represents the daemon health check output.
type HealthStatus struct {
	Status    string                    `json:"status"`
	LastCheck time.Time                 `json:"last_check"`
	Resources map[string]ResourceHealth `json:"resources"`
}

// ResourceHealth holds per-resource state from the most recent tick.
type ResourceHealth struct {
	// Average is the windowed average from the last successful check.
	Average float64 `json:"average"`
	// WindowFill is the current sample count (0 right after a breach).
	WindowFill int `json:"window_fill"`
	// Threshold is the configured breach threshold.
	Threshold float64 `json:"threshold"`
	// Error holds the sampling failure from the last tick, if any.
	Error string `json:"error,omitempty"`
}

// healthFile is the filename for the daemon health check within the state directory.
const healthFile = "health.json"

// healthStaleAfter is how old the health file may be before the daemon
// is reported as stale. Ten check intervals of slack tolerates slow
// ticks without masking a dead daemon.
const healthStaleAfter = 10 * monitor.CheckInterval

// writeHealthFile writes the health status to the state directory after a tick.
func (d *daemon) writeHealthFile(results []monitor.Result) error {
	status := HealthStatus{
		Status:    "ok",
		LastCheck: time.Now(),
		Resources: make(map[string]ResourceHealth, len(results)),
	}

	for _, r := range results {
		rh := ResourceHealth{
			Average:    r.Average,
			WindowFill: r.WindowSize,
		}
		if det, ok := d.registry.Get(r.Resource); ok {
			rh.Threshold = det.Threshold()
		}
		if r.Err != nil {
			rh.Error = r.Err.Error()
		}
		status.Resources[r.Resource] = rh
	}

	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal health status: %w", err)
	}

	path := filepath.Join(d.config.Daemon.StateDir, healthFile)
	return os.WriteFile(path, data, 0o644)
}

// readHealthFile reads the health status from the state directory.
func readHealthFile(stateDir string) (*HealthStatus, error) {
	path := filepath.Join(stateDir, healthFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read health file: %w", err)
	}

	var status HealthStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("unmarshal health file: %w", err)
	}

	return &status, nil
}

// checkHealth reads the health file and reports whether the daemon is
// healthy. The daemon is healthy when the health file exists and the
// last check is recent. Returns exit code 0 for healthy, 1 for
// stale/missing.
func checkHealth(stateDir string, jsonOutput bool) int {
	status, err := readHealthFile(stateDir)
	if err != nil {
		if jsonOutput {
			fmt.Println(`{"status":"missing","error":"no health file found"}`)
		} else {
			fmt.Fprintln(os.Stderr, "daemon not running (no health file)")
		}
		return 1
	}

	age := time.Since(status.LastCheck)
	isStale := age > healthStaleAfter

	if jsonOutput {
		output := map[string]interface{}{
			"status":     status.Status,
			"last_check": status.LastCheck.Format(time.RFC3339),
			"age":        age.String(),
			"stale":      isStale,
			"resources":  status.Resources,
		}
		data, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(data))
	} else {
		if isStale {
			fmt.Fprintf(os.Stderr, "daemon stale (last check %s, threshold %s)\n",
				format.Age(status.LastCheck), format.Duration(healthStaleAfter))
		} else {
			fmt.Printf("daemon healthy (last check %s)\n", format.Age(status.LastCheck))
			for name, r := range status.Resources {
				if r.Error != "" {
					fmt.Printf("  %s: sample error: %s\n", name, r.Error)
					continue
				}
				fmt.Printf("  %s: average %s (threshold %s, window %d/%d)\n",
					name, format.Percent(r.Average), format.Percent(r.Threshold),
					r.WindowFill, monitor.WindowCapacity)
			}
		}
	}

	if isStale {
		return 1
	}
	return 0
}
