package health

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Source names one of the three data feeds.
type Source string

const (
	SourceCatalog    Source = "catalog"
	SourcePrices     Source = "prices"
	SourceAttributes Source = "attributes"
)

// Sources lists all tracked sources in display order.
func Sources() []Source {
	return []Source{SourceCatalog, SourcePrices, SourceAttributes}
}

// Status is the reachability state of one source.
type Status string

const (
	StatusPending Status = "pending"
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
)

// TransitionFunc is invoked after a source's status changed. It runs on the
// reporting goroutine, so implementations should return quickly.
type TransitionFunc func(ctx context.Context, source Source, from, to Status)

// Tracker keeps the current status per source. Each status cell is only ever
// written by the fetch or probe for its own source, so the most recent report
// wins without cross-source coordination. There is no history and no
// debouncing: one failed report flips a source offline, one success flips it
// back. That is deliberate; this feeds a cosmetic indicator, not a paging
// system.
type Tracker struct {
	mu       sync.RWMutex
	cells    map[Source]Status
	onChange TransitionFunc
	logger   zerolog.Logger
}

// NewTracker constructs a tracker with every source pending.
func NewTracker(logger zerolog.Logger) *Tracker {
	cells := make(map[Source]Status, len(Sources()))
	for _, s := range Sources() {
		cells[s] = StatusPending
	}
	return &Tracker{
		cells:  cells,
		logger: logger.With().Str("component", "health_tracker").Logger(),
	}
}

// OnTransition registers a listener for status changes. Call before the
// tracker receives reports.
func (t *Tracker) OnTransition(fn TransitionFunc) {
	t.onChange = fn
}

// Report records the outcome of the most recent fetch or probe for a source.
// A nil error means online, anything else offline.
func (t *Tracker) Report(ctx context.Context, source Source, err error) {
	status := StatusOnline
	if err != nil {
		status = StatusOffline
	}

	t.mu.Lock()
	prev, known := t.cells[source]
	t.cells[source] = status
	t.mu.Unlock()

	if !known {
		prev = StatusPending
	}
	if prev == status {
		return
	}

	evt := t.logger.Info()
	if status == StatusOffline {
		evt = t.logger.Warn().Err(err)
	}
	evt.Str("source", string(source)).
		Str("from", string(prev)).
		Str("to", string(status)).
		Msg("source status changed")

	if t.onChange != nil {
		t.onChange(ctx, source, prev, status)
	}
}

// Status returns the current status of one source.
func (t *Tracker) Status(source Source) Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if s, ok := t.cells[source]; ok {
		return s
	}
	return StatusPending
}

// Statuses returns a copy of all status cells.
func (t *Tracker) Statuses() map[Source]Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[Source]Status, len(t.cells))
	for k, v := range t.cells {
		out[k] = v
	}
	return out
}
