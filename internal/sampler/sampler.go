// Package sampler records local machine utilization alongside the
// collector-fed activity data. It is optional: the pipeline works without
// it, but the resource history makes snapshots more useful offline.
package sampler

import (
	"context"
	"log"
	"time"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/disk"
	"github.com/shirou/gopsutil/mem"

	"github.com/deskpulse/deskpulse/internal/activity"
)

// Appender persists sampled utilization. The snapshot store satisfies it.
type Appender interface {
	AppendResourceSamples(resources []activity.ResourceSample) error
}

type Sampler struct {
	sink     Appender
	interval time.Duration
	diskPath string
}

func New(sink Appender, interval time.Duration) *Sampler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sampler{
		sink:     sink,
		interval: interval,
		diskPath: "/",
	}
}

// Run samples until the context is cancelled.
func (s *Sampler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sample := s.Sample()
			if err := s.sink.AppendResourceSamples([]activity.ResourceSample{sample}); err != nil {
				log.Printf("sampler: append: %v", err)
			}
		}
	}
}

// Sample reads current utilization. Readings that fail are left at zero so
// one broken probe does not lose the rest.
func (s *Sampler) Sample() activity.ResourceSample {
	out := activity.ResourceSample{Timestamp: time.Now().UTC()}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		out.CPU = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		out.Memory = vm.UsedPercent
	}
	if du, err := disk.Usage(s.diskPath); err == nil {
		out.Disk = du.UsedPercent
	}

	return out
}
