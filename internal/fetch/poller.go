package fetch

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/deskpulse/deskpulse/internal/activity"
)

// Snapshotter is what the poller needs from the snapshot store. It is
// optional; a nil snapshotter disables caching.
type Snapshotter interface {
	ReplaceSnapshot(recs []activity.Record, samples []activity.InputSample, resources []activity.ResourceSample) error
}

// ConfigSource supplies pipeline tunables per refresh cycle, so settings
// edited while the program runs take effect on the next fetch. Optional; a
// nil source pins the pipeline to its construction-time config.
type ConfigSource interface {
	PipelineConfig() activity.Config
}

// Poller periodically pulls raw records, runs the pipeline, and publishes
// the result into a Latest holder. A failed cycle logs and keeps the last
// good report.
type Poller struct {
	client   *Client
	pipeline *activity.Pipeline
	latest   *Latest
	snap     Snapshotter
	cfgSrc   ConfigSource

	interval time.Duration
	window   time.Duration
	seq      atomic.Uint64
}

func NewPoller(client *Client, pipeline *activity.Pipeline, latest *Latest, snap Snapshotter, cfgSrc ConfigSource, interval, window time.Duration) *Poller {
	if interval <= 0 {
		interval = time.Minute
	}
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &Poller{
		client:   client,
		pipeline: pipeline,
		latest:   latest,
		snap:     snap,
		cfgSrc:   cfgSrc,
		interval: interval,
		window:   window,
	}
}

// Run refreshes once immediately, then on every tick until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	if _, err := p.Refresh(ctx); err != nil {
		log.Printf("poller: initial refresh: %v", err)
	}
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.Refresh(ctx); err != nil {
				log.Printf("poller: refresh: %v", err)
			}
		}
	}
}

// Refresh runs one full fetch + recompute cycle and publishes the report.
// The sequence number is taken when the fetch starts, so of two concurrent
// refreshes the later-started one wins regardless of completion order.
func (p *Poller) Refresh(ctx context.Context) (activity.Report, error) {
	seq := p.seq.Add(1)

	now := time.Now().UTC()
	raw, err := p.client.Pull(ctx, now.Add(-p.window), now)
	if err != nil {
		return activity.Report{}, err
	}

	pipe := p.pipeline
	if p.cfgSrc != nil {
		pipe = pipe.WithConfig(p.cfgSrc.PipelineConfig())
	}

	in := pipe.Ingest(raw)
	rep := pipe.Build(in)
	rep.Seq = seq

	if !p.latest.Apply(rep) {
		log.Printf("poller: discarding stale result seq=%d", seq)
		return rep, nil
	}

	if p.snap != nil {
		if err := p.snap.ReplaceSnapshot(in.Records, in.Samples, in.ResourceSamples); err != nil {
			log.Printf("poller: snapshot: %v", err)
		}
	}
	return rep, nil
}
