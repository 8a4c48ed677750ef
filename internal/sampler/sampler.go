// Package sampler produces point-in-time host resource snapshots.
//
// When the host exposes CPU and memory counters (detected once with
// [Detect]), snapshots carry live values read through gopsutil. Otherwise
// they carry simulated values of the same shape, tagged [ModeSimulation].
package sampler

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Mode describes the load regime a snapshot was taken in.
type Mode string

const (
	ModeBurst      Mode = "BURST"
	ModeIdle       Mode = "IDLE"
	ModeSimulation Mode = "SIMULATION"
)

const (
	// burstThreshold is the CPU percentage above which a live sample is BURST.
	burstThreshold = 50.0

	// DefaultTimeout bounds a single live sample.
	DefaultTimeout = 500 * time.Millisecond

	simulatedRAMUsedGB  = 4.2
	simulatedRAMTotalGB = 16.0

	bytesPerGB = 1024 * 1024 * 1024
)

// Snapshot is the JSON body of the stats resource.
type Snapshot struct {
	CPUPercent float64 `json:"cpu_percent"`
	RAMPercent float64 `json:"ram_percent"`
	RAMUsedGB  float64 `json:"ram_used_gb"`
	RAMTotalGB float64 `json:"ram_total_gb"`
	Mode       Mode    `json:"softchip_mode"`
}

// MemoryStat is the subset of virtual-memory statistics the sampler needs.
type MemoryStat struct {
	Used        uint64
	Total       uint64
	UsedPercent float64
}

// Source reads live host counters.
type Source interface {
	CPUPercent(ctx context.Context) (float64, error)
	VirtualMemory(ctx context.Context) (MemoryStat, error)
}

// HostSource reads counters of the local host via gopsutil.
type HostSource struct{}

// CPUPercent returns overall CPU utilisation since the previous call.
// It never sleeps: an interval of zero asks gopsutil for a point sample.
func (HostSource) CPUPercent(ctx context.Context) (float64, error) {
	pcts, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, err
	}
	if len(pcts) == 0 {
		return 0, nil
	}
	return pcts[0], nil
}

// VirtualMemory returns used and total memory of the host.
func (HostSource) VirtualMemory(ctx context.Context) (MemoryStat, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return MemoryStat{}, err
	}
	return MemoryStat{Used: vm.Used, Total: vm.Total, UsedPercent: vm.UsedPercent}, nil
}

// Detect reports whether src can serve live samples. It is meant to be
// called once at startup; the result is the capability flag.
func Detect(ctx context.Context, src Source) bool {
	if src == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	if _, err := src.CPUPercent(ctx); err != nil {
		return false
	}
	if _, err := src.VirtualMemory(ctx); err != nil {
		return false
	}
	return true
}

// Sampler produces snapshots. A Sampler without a source only simulates.
// Safe for concurrent use.
type Sampler struct {
	source  Source
	timeout time.Duration
}

// New creates a [Sampler]. A nil src yields simulated snapshots only.
// A non-positive timeout falls back to [DefaultTimeout].
func New(src Source, timeout time.Duration) *Sampler {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Sampler{source: src, timeout: timeout}
}

// Live reports whether the sampler reads real host counters.
func (s *Sampler) Live() bool {
	return s.source != nil
}

// Sample returns a fresh snapshot. It always succeeds: a live read that
// errors or runs past the sampling window degrades to a simulated snapshot.
func (s *Sampler) Sample(ctx context.Context) Snapshot {
	if s.source == nil {
		return Simulated()
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cpuPct, err := s.source.CPUPercent(ctx)
	if err != nil {
		return Simulated()
	}
	vm, err := s.source.VirtualMemory(ctx)
	if err != nil {
		return Simulated()
	}

	mode := ModeIdle
	if cpuPct > burstThreshold {
		mode = ModeBurst
	}

	return Snapshot{
		CPUPercent: clampPercent(round(cpuPct, 1)),
		RAMPercent: clampPercent(round(vm.UsedPercent, 1)),
		RAMUsedGB:  round(float64(vm.Used)/bytesPerGB, 2),
		RAMTotalGB: round(float64(vm.Total)/bytesPerGB, 2),
		Mode:       mode,
	}
}

// Simulated returns a synthetic snapshot: CPU in [5, 30], RAM in [30, 60],
// fixed 4.2 of 16.0 GB used.
func Simulated() Snapshot {
	return Snapshot{
		CPUPercent: round(uniform(5, 30), 1),
		RAMPercent: round(uniform(30, 60), 1),
		RAMUsedGB:  simulatedRAMUsedGB,
		RAMTotalGB: simulatedRAMTotalGB,
		Mode:       ModeSimulation,
	}
}

func uniform(lo, hi float64) float64 {
	return lo + rand.Float64()*(hi-lo)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func clampPercent(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
