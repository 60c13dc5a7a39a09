package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gitlab.com/tinyland/lab/resource-pulse/config"
	"gitlab.com/tinyland/lab/resource-pulse/metrics"
	"gitlab.com/tinyland/lab/resource-pulse/monitor"
	"gitlab.com/tinyland/lab/resource-pulse/notify"
	"gitlab.com/tinyland/lab/resource-pulse/sampler"
)

// daemon owns the monitor loop plus its operational plumbing: the PID
// file single-instance guard, the health file, and the optional
// Prometheus listener.
type daemon struct {
	config    *config.Config
	logger    *slog.Logger
	registry  *monitor.Registry
	scheduler *monitor.Scheduler
	pidFile   string
}

// newDaemon creates a daemon with detectors wired from the configuration.
// Detectors are registered in configuration order: CPU, then Memory.
func newDaemon(cfg *config.Config, logger *slog.Logger) (*daemon, error) {
	if err := os.MkdirAll(cfg.Daemon.StateDir, 0o755); err != nil {
		return nil, fmt.Errorf("daemon: create state dir: %w", err)
	}

	source := sampler.NewSystemSampler()
	registry := monitor.NewRegistry()

	if cfg.Thresholds.CPU != nil {
		registry.Register(monitor.NewDetector(
			sampler.CPU, *cfg.Thresholds.CPU, monitor.WindowCapacity, source))
	}
	if cfg.Thresholds.Memory != nil {
		registry.Register(monitor.NewDetector(
			sampler.Memory, *cfg.Thresholds.Memory, monitor.WindowCapacity, source))
	}

	// Breaches go to stdout when logging to stderr; in log-file mode
	// they go through the logger so a detached daemon keeps one sink.
	var notifier notify.Notifier
	if cfg.Daemon.LogFile != "" {
		notifier = notify.NewLogNotifier(logger)
	} else {
		notifier = notify.NewConsoleNotifier(os.Stdout)
	}

	d := &daemon{
		config:   cfg,
		logger:   logger,
		registry: registry,
		pidFile:  filepath.Join(cfg.Daemon.StateDir, "resource-pulse.pid"),
	}

	d.scheduler = monitor.NewScheduler(registry, notifier, logger)
	d.scheduler.OnTick = d.onTick

	return d, nil
}

// run starts the monitor loop. It refuses to start when another
// instance holds the PID file, writes its own PID file, optionally
// serves Prometheus metrics, then ticks until the context is cancelled.
func (d *daemon) run(ctx context.Context) error {
	if running, pid := d.isRunning(); running {
		return fmt.Errorf("daemon already running (PID %d)", pid)
	}

	if err := d.writePIDFile(); err != nil {
		return fmt.Errorf("write PID file: %w", err)
	}
	defer d.removePIDFile()

	if addr := d.config.Metrics.ListenAddr; addr != "" {
		go d.serveMetrics(ctx, addr)
	}

	return d.scheduler.Run(ctx)
}

// onTick records metrics and refreshes the health file after each tick.
func (d *daemon) onTick(results []monitor.Result, elapsed time.Duration) {
	metrics.TickDuration.Observe(elapsed.Seconds())

	for _, r := range results {
		if r.Err != nil {
			metrics.SamplesTotal.WithLabelValues(r.Resource, "error").Inc()
			continue
		}
		metrics.SamplesTotal.WithLabelValues(r.Resource, "ok").Inc()
		metrics.WindowAverage.WithLabelValues(r.Resource).Set(r.Average)
		metrics.WindowFill.WithLabelValues(r.Resource).Set(float64(r.WindowSize))
		if r.Fired {
			metrics.BreachesTotal.WithLabelValues(r.Resource).Inc()
		}
	}

	if err := d.writeHealthFile(results); err != nil {
		d.logger.Error("health file write failed", "error", err)
	}
}

// serveMetrics exposes the Prometheus /metrics endpoint until the
// context is cancelled. Listener failures are logged, never fatal: the
// monitor loop does not depend on the metrics surface.
func (d *daemon) serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	d.logger.Info("metrics listener starting", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		d.logger.Error("metrics listener failed", "addr", addr, "error", err)
	}
}

// writePIDFile writes the current process PID to the PID file.
func (d *daemon) writePIDFile() error {
	pid := os.Getpid()
	if err := os.WriteFile(d.pidFile, []byte(strconv.Itoa(pid)), 0o644); err != nil {
		return err
	}
	d.logger.Info("wrote PID file", "path", d.pidFile, "pid", pid)
	return nil
}

// removePIDFile removes the PID file on shutdown.
func (d *daemon) removePIDFile() {
	if err := os.Remove(d.pidFile); err != nil && !os.IsNotExist(err) {
		d.logger.Error("failed to remove PID file", "path", d.pidFile, "error", err)
	}
}

// isRunning checks whether another instance is already running by
// reading the PID file and probing the process with signal 0. Stale or
// corrupt PID files are cleaned up.
func (d *daemon) isRunning() (bool, int) {
	data, err := os.ReadFile(d.pidFile)
	if err != nil {
		return false, 0
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		d.logger.Warn("corrupt PID file, removing", "path", d.pidFile)
		os.Remove(d.pidFile)
		return false, 0
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		os.Remove(d.pidFile)
		return false, 0
	}
	if err := process.Signal(syscall.Signal(0)); err != nil {
		d.logger.Warn("stale PID file, removing", "path", d.pidFile, "pid", pid)
		os.Remove(d.pidFile)
		return false, 0
	}

	return true, pid
}
