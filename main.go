// resource-pulse is a host resource utilization monitor.
//
// It samples system-wide CPU and memory usage every second, keeps a
// 20-sample sliding window per monitored resource, and prints a warning
// when a window's average meets or exceeds its configured threshold.
// After firing, a resource's window must fill again before it can fire
// a second time, which throttles repeat alerts without a cooldown timer.
//
// Usage:
//
//	resource-pulse [flags]
//
// Flags:
//
//	-cpu float      CPU utilization threshold percent (0-100)
//	-memory float   Memory utilization threshold percent (0-100)
//	-config string  Path to configuration file (default: ~/.config/resource-pulse/config.yaml)
//	-health         Check daemon health status
//	-json           Output health check as JSON (with -health)
//	-verbose        Enable verbose logging (per-tick markers)
//	-version        Print version and exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gitlab.com/tinyland/lab/resource-pulse/config"
)

func main() {
	var (
		configPath   = flag.String("config", "", "Path to configuration file (default: ~/.config/resource-pulse/config.yaml)")
		cpuThreshold = flag.Float64("cpu", 0, "CPU utilization threshold percent (0-100)")
		memThreshold = flag.Float64("memory", 0, "Memory utilization threshold percent (0-100)")
		runHealth    = flag.Bool("health", false, "Check daemon health status")
		healthJSON   = flag.Bool("json", false, "Output health check as JSON (with -health)")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
		showVersion  = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("resource-pulse %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	// ---------------------------------------------------------------
	// Load configuration
	// ---------------------------------------------------------------

	path := *configPath
	if path == "" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, ".config", "resource-pulse", "config.yaml")
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Threshold flags override the config file; a flag left at its
	// default is distinguished from an explicit zero via flag.Visit.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "cpu":
			v := *cpuThreshold
			cfg.Thresholds.CPU = &v
		case "memory":
			v := *memThreshold
			cfg.Thresholds.Memory = &v
		}
	})

	// Fail fast on configuration errors, before the loop begins.
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// ---------------------------------------------------------------
	// Health check mode
	// ---------------------------------------------------------------

	if *runHealth {
		os.Exit(checkHealth(cfg.Daemon.StateDir, *healthJSON))
	}

	// ---------------------------------------------------------------
	// Monitor mode
	// ---------------------------------------------------------------

	logger, closeLog, err := newLogger(cfg.Daemon.LogFile, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	d, err := newDaemon(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "daemon init failed: %v\n", err)
		os.Exit(1)
	}

	if err := d.run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "daemon error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds the process logger. Output goes to the configured
// log file when set, otherwise stderr. Verbose enables debug level,
// which includes the per-tick markers.
func newLogger(logFile string, verbose bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	if logFile == "" {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		return logger, func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { f.Close() }, nil
}
