package monitor

import (
	"context"
	"fmt"
	"time"

	"gitlab.com/tinyland/lab/resource-pulse/sampler"
)

// Detector watches one resource kind against an operator-configured
// threshold. Each check pulls a fresh sample, pushes it into the
// detector's sliding window, and fires when the windowed average meets
// or exceeds the threshold while the window is full.
//
// Requiring a full window before any comparison prevents false positives
// from a handful of high readings at startup. Clearing the window on
// fire means a fresh full window of sustained high usage must accumulate
// before a repeat alert: a resource pinned above threshold alerts about
// once every Capacity checks, not every check.
type Detector struct {
	kind      sampler.ResourceKind
	threshold float64
	source    sampler.Sampler
	window    *SlidingWindow

	// lastAverage is the windowed mean at the moment of the last check,
	// captured before any clear so a fired breach can be reported with
	// the value that tripped it.
	lastAverage float64
	lastChecked time.Time
}

// NewDetector creates a detector for kind with an empty window of the
// given capacity. The threshold is an inclusive lower bound on the
// windowed average, on the 0-100 percent scale.
func NewDetector(kind sampler.ResourceKind, threshold float64, capacity int, source sampler.Sampler) *Detector {
	return &Detector{
		kind:      kind,
		threshold: threshold,
		source:    source,
		window:    NewSlidingWindow(capacity),
	}
}

// Check pulls one sample and evaluates the breach condition. It returns
// true when the windowed average meets or exceeds the threshold with a
// full window; the window is cleared on fire so the next breach requires
// a full re-accumulation.
//
// A sampling failure leaves the window untouched: the error is returned
// and no breach is possible this check.
func (d *Detector) Check(ctx context.Context) (bool, error) {
	d.lastChecked = time.Now()

	v, err := d.source.Sample(ctx, d.kind)
	if err != nil {
		return false, fmt.Errorf("check %s: %w", d.kind, err)
	}

	d.window.Push(v)
	d.lastAverage = d.window.Mean()

	if d.lastAverage >= d.threshold && d.window.Full() {
		d.window.Clear()
		return true, nil
	}

	return false, nil
}

// Name returns the resource display name, e.g. "CPU" or "Memory".
func (d *Detector) Name() string {
	return d.kind.String()
}

// Kind returns the monitored resource kind.
func (d *Detector) Kind() sampler.ResourceKind {
	return d.kind
}

// Threshold returns the configured breach threshold.
func (d *Detector) Threshold() float64 {
	return d.threshold
}

// LastAverage returns the windowed mean computed by the most recent
// check. It is retained across the fire-triggered window clear.
func (d *Detector) LastAverage() float64 {
	return d.lastAverage
}

// LastChecked returns the time of the most recent check.
func (d *Detector) LastChecked() time.Time {
	return d.lastChecked
}

// WindowSize returns the current number of accumulated samples.
func (d *Detector) WindowSize() int {
	return d.window.Size()
}
