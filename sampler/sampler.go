// Package sampler provides instantaneous system resource utilization
// readings. Values are system-wide percentages on a 0-100 scale, read
// from the OS via gopsutil.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// ResourceKind identifies a monitorable host resource.
type ResourceKind int

const (
	// CPU is system-wide CPU utilization.
	CPU ResourceKind = iota
	// Memory is system-wide memory (RAM) utilization.
	Memory
	// Storage is filesystem utilization. Declared for completeness but
	// not yet supported; sampling it returns ErrUnsupportedResource.
	Storage
)

// String returns the display name used in alerts and health output.
func (k ResourceKind) String() string {
	switch k {
	case CPU:
		return "CPU"
	case Memory:
		return "Memory"
	case Storage:
		return "Storage"
	default:
		return fmt.Sprintf("ResourceKind(%d)", int(k))
	}
}

// ErrUnsupportedResource is returned when a reading is requested for a
// resource kind the sampler cannot measure.
var ErrUnsupportedResource = errors.New("sampler: resource kind not yet supported")

// Sampler produces one instantaneous utilization reading per call.
// Implementations must return values in [0, 100].
type Sampler interface {
	// Sample returns the current utilization percentage for the given
	// resource kind. A returned error means no reading was obtained for
	// this call; callers must not treat it as a zero reading.
	Sample(ctx context.Context, kind ResourceKind) (float64, error)
}

// SystemSampler reads utilization from the local OS.
// CPU readings use a zero interval, meaning each call reports usage
// since the previous call; the first call after construction reports
// usage since boot and is therefore a coarse seed value.
type SystemSampler struct {
	// Overridable gopsutil call sites for testing.
	cpuPercent    func(ctx context.Context, interval time.Duration, percpu bool) ([]float64, error)
	virtualMemory func(ctx context.Context) (*mem.VirtualMemoryStat, error)
}

// NewSystemSampler creates a SystemSampler backed by gopsutil.
func NewSystemSampler() *SystemSampler {
	return &SystemSampler{
		cpuPercent:    cpu.PercentWithContext,
		virtualMemory: mem.VirtualMemoryWithContext,
	}
}

// Sample returns the current system-wide utilization percentage for kind.
func (s *SystemSampler) Sample(ctx context.Context, kind ResourceKind) (float64, error) {
	switch kind {
	case CPU:
		return s.sampleCPU(ctx)
	case Memory:
		return s.sampleMemory(ctx)
	case Storage:
		return 0, ErrUnsupportedResource
	default:
		return 0, fmt.Errorf("sampler: unknown resource kind %d", int(kind))
	}
}

func (s *SystemSampler) sampleCPU(ctx context.Context) (float64, error) {
	pcts, err := s.cpuPercent(ctx, 0, false)
	if err != nil {
		return 0, fmt.Errorf("sampler: read cpu utilization: %w", err)
	}
	if len(pcts) == 0 {
		return 0, errors.New("sampler: cpu utilization returned no values")
	}
	return clampPercent(pcts[0]), nil
}

func (s *SystemSampler) sampleMemory(ctx context.Context) (float64, error) {
	vm, err := s.virtualMemory(ctx)
	if err != nil {
		return 0, fmt.Errorf("sampler: read memory utilization: %w", err)
	}
	return clampPercent(vm.UsedPercent), nil
}

// clampPercent bounds a reading to the 0-100 scale. gopsutil can report
// marginally out-of-range values around counter wraps.
func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Compile-time interface compliance check.
var _ Sampler = (*SystemSampler)(nil)
