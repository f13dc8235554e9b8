package health

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"ge-lookup/internal/provider"
	"ge-lookup/internal/scheduler"
)

// DefaultProbeInterval is how often each source endpoint is re-checked.
const DefaultProbeInterval = 60 * time.Second

// ProberOptions tune the background prober.
type ProberOptions struct {
	Interval     time.Duration
	ProbeTimeout time.Duration
}

// Prober re-checks each source's reachability on a fixed interval,
// independent of the main load cycle, and reports outcomes to the tracker.
// This keeps the status strip fresh after the initial load and catches a
// source recovering or regressing between reloads.
type Prober struct {
	tracker *Tracker
	probes  map[Source]provider.Prober
	timeout time.Duration
	sched   *scheduler.Scheduler
	logger  zerolog.Logger
}

// NewProber wires probes for each source into a recurring check.
func NewProber(tracker *Tracker, probes map[Source]provider.Prober, opts ProberOptions, logger zerolog.Logger) *Prober {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	timeout := opts.ProbeTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	log := logger.With().Str("component", "prober").Logger()
	return &Prober{
		tracker: tracker,
		probes:  probes,
		timeout: timeout,
		sched:   scheduler.New(scheduler.Options{Interval: interval}, log),
		logger:  log,
	}
}

// Run blocks until ctx is cancelled, probing every source each interval.
// Sources are probed concurrently; each writes only its own status cell, so
// overlap with an in-flight load is harmless.
func (p *Prober) Run(ctx context.Context) error {
	return p.sched.Run(ctx, func(ctx context.Context, at time.Time) error {
		p.ProbeAll(ctx)
		return nil
	})
}

// ProbeAll performs one round of probes and reports each outcome.
func (p *Prober) ProbeAll(ctx context.Context) {
	var wg sync.WaitGroup
	for source, probe := range p.probes {
		wg.Add(1)
		go func(source Source, probe provider.Prober) {
			defer wg.Done()
			probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
			defer cancel()

			err := probe.Probe(probeCtx)
			if err != nil {
				p.logger.Debug().Err(err).Str("source", string(source)).Msg("probe failed")
			}
			p.tracker.Report(ctx, source, err)
		}(source, probe)
	}
	wg.Wait()
}
