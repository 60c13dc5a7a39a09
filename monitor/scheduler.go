// Package monitor implements sliding-window threshold detection over a
// stream of resource utilization samples, and the scheduling loop that
// drives the detectors.
package monitor

import (
	"context"
	"log/slog"
	"time"

	"gitlab.com/tinyland/lab/resource-pulse/notify"
)

const (
	// CheckInterval is the fixed delay between sampling ticks.
	CheckInterval = 1 * time.Second

	// WindowCapacity is the fixed number of samples a detector
	// accumulates before it is eligible to fire. At a 1-second check
	// interval this debounces over the last 20 seconds.
	WindowCapacity = 20
)

// Result records the outcome of one detector check within a tick.
type Result struct {
	// Resource is the detector's display name.
	Resource string
	// Fired reports whether the breach condition held.
	Fired bool
	// Average is the windowed mean at the time of the check, captured
	// before any fire-triggered clear.
	Average float64
	// WindowSize is the post-check sample count (0 right after a fire).
	WindowSize int
	// Err holds a sampling failure for this check, if any. A failed
	// check leaves the detector's window unchanged.
	Err error
}

// Scheduler drives periodic evaluation of all registered detectors and
// dispatches breach notifications. It is the single logical thread of
// control: each tick runs every detector check to completion, in
// registry order, before the next tick can begin.
type Scheduler struct {
	registry *Registry
	notifier notify.Notifier
	interval time.Duration
	logger   *slog.Logger

	// OnTick, when set, is invoked after each tick with that tick's
	// results in registry order and the time the checks took. Used for
	// health reporting and metrics.
	OnTick func(results []Result, elapsed time.Duration)
}

// NewScheduler creates a scheduler ticking at CheckInterval.
// If logger is nil, slog.Default() is used.
func NewScheduler(registry *Registry, notifier notify.Notifier, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		registry: registry,
		notifier: notifier,
		interval: CheckInterval,
		logger:   logger,
	}
}

// Run executes the sampling loop until ctx is cancelled, returning
// ctx.Err(). The first tick occurs one interval after Run is called.
// An empty registry is valid: the loop ticks without ever alerting.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("monitor loop starting",
		"detectors", s.registry.Len(),
		"interval", s.interval.String(),
		"window_capacity", WindowCapacity,
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("monitor loop stopping")
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			results := s.RunOnce(ctx)
			elapsed := time.Since(start)
			s.logger.Debug("tick complete",
				"duration", elapsed.String(),
				"checked", len(results),
			)
			if s.OnTick != nil {
				s.OnTick(results, elapsed)
			}
		}
	}
}

// RunOnce performs a single tick: every registered detector is checked
// in registry order and breaches are forwarded to the notifier in that
// same order. Sampling and notifier failures are logged and never abort
// the tick.
func (s *Scheduler) RunOnce(ctx context.Context) []Result {
	detectors := s.registry.All()
	s.logger.Debug("checking resources", "detectors", len(detectors))

	results := make([]Result, 0, len(detectors))
	for _, d := range detectors {
		fired, err := d.Check(ctx)
		if err != nil {
			// Sample unavailable this tick; the window is untouched and
			// the loop moves on.
			s.logger.Warn("sample unavailable",
				"resource", d.Name(),
				"error", err,
			)
			results = append(results, Result{
				Resource:   d.Name(),
				WindowSize: d.WindowSize(),
				Err:        err,
			})
			continue
		}

		if fired {
			s.logger.Info("threshold breach",
				"resource", d.Name(),
				"average", d.LastAverage(),
				"threshold", d.Threshold(),
			)
			if nerr := s.notifier.Notify(d.Name(), d.LastAverage()); nerr != nil {
				// A broken output sink must never crash the loop.
				s.logger.Error("breach notification failed",
					"resource", d.Name(),
					"error", nerr,
				)
			}
		}

		results = append(results, Result{
			Resource:   d.Name(),
			Fired:      fired,
			Average:    d.LastAverage(),
			WindowSize: d.WindowSize(),
		})
	}

	return results
}
